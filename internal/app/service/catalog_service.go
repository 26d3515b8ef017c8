package service

import (
	"context"
	"errors"
	"strconv"

	"github.com/amezzane/shopfront-gateway/internal/app/model"
	"github.com/amezzane/shopfront-gateway/pkg/commerce"
	"github.com/amezzane/shopfront-gateway/pkg/logger"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrInvalidProductID = errors.New("invalid product ID")
)

type CatalogService interface {
	GetProduct(ctx context.Context, token, productID string) (*commerce.Product, error)
	ListProducts(ctx context.Context, token string, opts commerce.ListProductsOptions) ([]commerce.Product, error)
	UpdateProduct(ctx context.Context, token, productID string, req commerce.UpdateProductRequest) (*commerce.Product, error)

	// FetchLiveStock implements the cart store's advisory stock guard.
	FetchLiveStock(ctx context.Context, token, productID string) (available int, known bool)

	// Snapshot converts a live product into the frozen view stored on a
	// cart line.
	Snapshot(product *commerce.Product) model.ProductSnapshot
}

// catalogService proxies the platform catalog and feeds the stock cache as a
// side effect of every successful read.
type catalogService struct {
	client *commerce.Client
	stock  *StockCache
}

func NewCatalogService(client *commerce.Client, stock *StockCache) CatalogService {
	return &catalogService{client: client, stock: stock}
}

func (s *catalogService) GetProduct(ctx context.Context, token, productID string) (*commerce.Product, error) {
	id, err := parseProductID(productID)
	if err != nil {
		return nil, err
	}

	product, err := s.client.GetProduct(ctx, token, id)
	if err != nil {
		if errors.Is(err, commerce.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product from platform", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}

	if product.StockQuantity != nil {
		s.stock.Put(model.NormalizeProductID(productID), *product.StockQuantity)
	}
	return product, nil
}

func (s *catalogService) ListProducts(ctx context.Context, token string, opts commerce.ListProductsOptions) ([]commerce.Product, error) {
	products, err := s.client.ListProducts(ctx, token, opts)
	if err != nil {
		logger.Error("Failed to list products from platform", err, nil)
		return nil, err
	}

	for i := range products {
		if products[i].StockQuantity != nil {
			s.stock.Put(strconv.Itoa(products[i].ID), *products[i].StockQuantity)
		}
	}
	return products, nil
}

// UpdateProduct applies seller edits on the platform. The returned product
// carries the authoritative stock figure, so it feeds the cache like any
// other read.
func (s *catalogService) UpdateProduct(ctx context.Context, token, productID string, req commerce.UpdateProductRequest) (*commerce.Product, error) {
	id, err := parseProductID(productID)
	if err != nil {
		return nil, err
	}

	product, err := s.client.UpdateProduct(ctx, token, id, req)
	if err != nil {
		if errors.Is(err, commerce.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to update product on platform", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}

	logger.Info("Product updated", map[string]interface{}{
		"product_id": product.ID,
	})

	canonical := model.NormalizeProductID(productID)
	if product.StockQuantity != nil {
		s.stock.Put(canonical, *product.StockQuantity)
	} else {
		s.stock.Forget(canonical)
	}
	return product, nil
}

// FetchLiveStock asks the platform for a product's current stock figure. A
// failed fetch falls back to a fresh-enough cached figure; with neither, the
// result is unknown and the cart proceeds optimistically. A product the
// platform does not stock-track also reads as unknown.
func (s *catalogService) FetchLiveStock(ctx context.Context, token, productID string) (int, bool) {
	canonical := model.NormalizeProductID(productID)

	id, err := parseProductID(canonical)
	if err != nil {
		return 0, false
	}

	product, err := s.client.GetProduct(ctx, token, id)
	if err != nil {
		logger.Warn("Live stock check failed, using cached figure if fresh", map[string]interface{}{
			"product_id": canonical,
			"error":      err.Error(),
		})
		return s.stock.Lookup(canonical)
	}

	if product.StockQuantity == nil {
		return 0, false
	}

	s.stock.Put(canonical, *product.StockQuantity)
	return *product.StockQuantity, true
}

func (s *catalogService) Snapshot(product *commerce.Product) model.ProductSnapshot {
	return model.ProductSnapshot{
		ProductID: strconv.Itoa(product.ID),
		Name:      product.Name,
		ImageURL:  product.MainImage(),
		SKU:       product.SKU,
		UnitPrice: product.PriceValue(),
	}
}

func parseProductID(productID string) (int, error) {
	id, err := strconv.Atoi(model.NormalizeProductID(productID))
	if err != nil || id <= 0 {
		return 0, ErrInvalidProductID
	}
	return id, nil
}
