package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/amezzane/shopfront-gateway/internal/app/model"
	"github.com/amezzane/shopfront-gateway/internal/storage"
	"github.com/amezzane/shopfront-gateway/pkg/logger"
)

var (
	ErrOutOfStock        = errors.New("product is out of stock")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrCartLineNotFound  = errors.New("cart line not found")
	ErrInvalidQuantity   = errors.New("quantity must be a positive integer")
	ErrInvalidProduct    = errors.New("product is missing an identifier")
	ErrCartPersistence   = errors.New("cart could not be persisted")
	ErrCartUnavailable   = errors.New("cart could not be loaded")
)

// InsufficientStockError reports how many units the platform last said were
// available. It matches errors.Is(err, ErrInsufficientStock).
type InsufficientStockError struct {
	ProductID string
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("only %d left in stock for product %s", e.Available, e.ProductID)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// StockFetcher supplies the advisory stock guard. known is false when the
// platform could not be reached or reports no stock figure; absence of a
// figure is never treated as zero.
type StockFetcher interface {
	FetchLiveStock(ctx context.Context, token, productID string) (available int, known bool)
}

type CartService interface {
	GetCart(ctx context.Context, sess *model.Session) (model.Cart, error)
	AddToCart(ctx context.Context, sess *model.Session, product model.ProductSnapshot, quantity int) error
	UpdateQuantity(ctx context.Context, sess *model.Session, productID string, quantity int) error
	RemoveFromCart(ctx context.Context, sess *model.Session, productID string) error
	ClearCart(ctx context.Context, sess *model.Session) error
	CartCount(ctx context.Context, sess *model.Session) (int, error)
	CartAmount(ctx context.Context, sess *model.Session) (float64, error)
	ActiveProductIDs() []string
}

// cartService owns all cart state. Carts are hydrated lazily from the KV
// store, mutated only under the store mutex, and written through on every
// successful mutation. The stock fetch happens before the mutex is taken;
// the resulting quantity is always computed against in-memory state at apply
// time, so an interleaved mutation during the fetch cannot be lost.
type cartService struct {
	kv    storage.KV
	stock StockFetcher

	mu    sync.Mutex
	carts map[string]model.Cart
}

func NewCartService(kv storage.KV, stock StockFetcher) CartService {
	return &cartService{
		kv:    kv,
		stock: stock,
		carts: make(map[string]model.Cart),
	}
}

func (s *cartService) GetCart(ctx context.Context, sess *model.Session) (model.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.loadLocked(ctx, sess.CartKey)
	if err != nil {
		return nil, err
	}
	return cart.Clone(), nil
}

func (s *cartService) AddToCart(ctx context.Context, sess *model.Session, product model.ProductSnapshot, quantity int) error {
	if quantity <= 0 {
		quantity = 1
	}
	productID := model.NormalizeProductID(product.ProductID)
	if productID == "" {
		return ErrInvalidProduct
	}

	logger.Info("Adding product to cart", map[string]interface{}{
		"cart_key":   sess.CartKey,
		"product_id": productID,
		"quantity":   quantity,
	})

	// Advisory stock check, outside the lock: this call can block on the
	// network and must not stall other mutations.
	available, known := s.stock.FetchLiveStock(ctx, sess.Token, productID)

	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.loadLocked(ctx, sess.CartKey)
	if err != nil {
		return err
	}
	existing, present := cart[productID]

	resulting := quantity
	if present {
		resulting = existing.Quantity + quantity
	}

	if known && available <= 0 {
		logger.Warn("Rejected add to cart: product out of stock", map[string]interface{}{
			"cart_key":   sess.CartKey,
			"product_id": productID,
		})
		return ErrOutOfStock
	}
	if known && resulting > available {
		logger.Warn("Rejected add to cart: insufficient stock", map[string]interface{}{
			"cart_key":   sess.CartKey,
			"product_id": productID,
			"requested":  resulting,
			"available":  available,
		})
		return &InsufficientStockError{ProductID: productID, Available: available}
	}

	if present {
		// Snapshot and unit price stay as captured at first add.
		existing.Quantity = resulting
		cart[productID] = existing
	} else {
		product.ProductID = productID
		cart[productID] = model.CartLine{
			ProductID: productID,
			Product:   product,
			Quantity:  quantity,
			UnitPrice: product.UnitPrice,
		}
	}

	return s.persistLocked(ctx, sess.CartKey, cart)
}

func (s *cartService) UpdateQuantity(ctx context.Context, sess *model.Session, productID string, quantity int) error {
	productID = model.NormalizeProductID(productID)
	if productID == "" {
		return ErrInvalidProduct
	}

	if quantity <= 0 {
		return s.RemoveFromCart(ctx, sess, productID)
	}

	// Decreases never need the stock guard; apply them directly.
	s.mu.Lock()
	cart, err := s.loadLocked(ctx, sess.CartKey)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	existing, present := cart[productID]
	if !present {
		s.mu.Unlock()
		return ErrCartLineNotFound
	}
	if quantity <= existing.Quantity {
		existing.Quantity = quantity
		cart[productID] = existing
		err := s.persistLocked(ctx, sess.CartKey, cart)
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	available, known := s.stock.FetchLiveStock(ctx, sess.Token, productID)

	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-read: the cart may have changed while the stock fetch was in
	// flight.
	cart, err = s.loadLocked(ctx, sess.CartKey)
	if err != nil {
		return err
	}
	existing, present = cart[productID]
	if !present {
		return ErrCartLineNotFound
	}

	if quantity > existing.Quantity && known && quantity > available {
		logger.Warn("Rejected quantity update: insufficient stock", map[string]interface{}{
			"cart_key":   sess.CartKey,
			"product_id": productID,
			"requested":  quantity,
			"available":  available,
		})
		return &InsufficientStockError{ProductID: productID, Available: available}
	}

	existing.Quantity = quantity
	cart[productID] = existing
	return s.persistLocked(ctx, sess.CartKey, cart)
}

func (s *cartService) RemoveFromCart(ctx context.Context, sess *model.Session, productID string) error {
	productID = model.NormalizeProductID(productID)

	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.loadLocked(ctx, sess.CartKey)
	if err != nil {
		return err
	}
	if _, present := cart[productID]; !present {
		return nil
	}

	delete(cart, productID)
	logger.Info("Removed product from cart", map[string]interface{}{
		"cart_key":   sess.CartKey,
		"product_id": productID,
	})
	return s.persistLocked(ctx, sess.CartKey, cart)
}

func (s *cartService) ClearCart(ctx context.Context, sess *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.carts[sess.CartKey] = model.Cart{}

	if err := s.kv.Delete(ctx, cartStorageKey(sess.CartKey)); err != nil {
		logger.Warn("Cart cleared in memory but not in storage", map[string]interface{}{
			"cart_key": sess.CartKey,
			"error":    err.Error(),
		})
		return fmt.Errorf("%w: %v", ErrCartPersistence, err)
	}

	logger.Info("Cart cleared", map[string]interface{}{
		"cart_key": sess.CartKey,
	})
	return nil
}

func (s *cartService) CartCount(ctx context.Context, sess *model.Session) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.loadLocked(ctx, sess.CartKey)
	if err != nil {
		return 0, err
	}
	return cart.Count(), nil
}

func (s *cartService) CartAmount(ctx context.Context, sess *model.Session) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.loadLocked(ctx, sess.CartKey)
	if err != nil {
		return 0, err
	}
	return cart.Amount(), nil
}

// ActiveProductIDs returns every product present in any hydrated cart. The
// stock refresh scheduler uses it to keep snapshots warm.
func (s *cartService) ActiveProductIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{})
	var ids []string
	for _, cart := range s.carts {
		for id := range cart {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}

// loadLocked returns the live cart for a key, hydrating it from storage on
// first touch. A corrupt stored value starts an empty cart; retrying would
// not make it readable. A transient read failure is different: the durable
// cart may still exist, so nothing is memoized and the caller must not write
// through, or the next successful Set would destroy it. The next touch
// retries hydration.
func (s *cartService) loadLocked(ctx context.Context, cartKey string) (model.Cart, error) {
	if cart, ok := s.carts[cartKey]; ok {
		return cart, nil
	}

	cart := model.Cart{}
	raw, ok, err := s.kv.Get(ctx, cartStorageKey(cartKey))
	if err != nil {
		logger.Warn("Failed to read stored cart", map[string]interface{}{
			"cart_key": cartKey,
			"error":    err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", ErrCartUnavailable, err)
	}
	if ok {
		if err := json.Unmarshal([]byte(raw), &cart); err != nil {
			logger.Warn("Discarding unreadable stored cart", map[string]interface{}{
				"cart_key": cartKey,
				"error":    err.Error(),
			})
			cart = model.Cart{}
		}
	}

	s.carts[cartKey] = cart
	return cart, nil
}

// persistLocked writes the whole cart through to storage. The in-memory
// mutation has already happened; a write failure is surfaced as a warning,
// never rolled back.
func (s *cartService) persistLocked(ctx context.Context, cartKey string, cart model.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		logger.Error("Failed to serialize cart", err, map[string]interface{}{
			"cart_key": cartKey,
		})
		return fmt.Errorf("%w: %v", ErrCartPersistence, err)
	}

	if err := s.kv.Set(ctx, cartStorageKey(cartKey), string(data)); err != nil {
		logger.Warn("Cart updated in memory but not persisted", map[string]interface{}{
			"cart_key": cartKey,
			"error":    err.Error(),
		})
		return fmt.Errorf("%w: %v", ErrCartPersistence, err)
	}
	return nil
}

func cartStorageKey(cartKey string) string {
	return "cart:" + cartKey
}
