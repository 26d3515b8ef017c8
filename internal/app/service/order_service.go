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
	ErrEmptyCart        = errors.New("cart is empty")
	ErrNotAuthenticated = errors.New("authentication required")
	ErrOrderNotFound    = errors.New("order not found")
)

// CheckoutRequest carries the customer-entered checkout fields. Payment
// happens on the platform; orders are submitted unpaid.
type CheckoutRequest struct {
	PaymentMethod string                `json:"payment_method"`
	Billing       commerce.OrderAddress `json:"billing"`
	Shipping      commerce.OrderAddress `json:"shipping"`
}

type OrderService interface {
	Checkout(ctx context.Context, sess *model.Session, req CheckoutRequest) (*commerce.Order, error)
	ListOrders(ctx context.Context, sess *model.Session, opts commerce.ListOrdersOptions) ([]commerce.Order, error)
	GetOrder(ctx context.Context, sess *model.Session, orderID string) (*commerce.Order, error)
}

// orderService turns the local cart into a platform order and proxies order
// history. It holds no order state of its own.
type orderService struct {
	client *commerce.Client
	carts  CartService
}

func NewOrderService(client *commerce.Client, carts CartService) OrderService {
	return &orderService{client: client, carts: carts}
}

// Checkout submits the current cart as an order and clears the cart on
// success. Stock is reconciled by the platform at this point; the advisory
// guard has no say anymore.
func (s *orderService) Checkout(ctx context.Context, sess *model.Session, req CheckoutRequest) (*commerce.Order, error) {
	if !sess.IsAuthenticated {
		return nil, ErrNotAuthenticated
	}

	cart, err := s.carts.GetCart(ctx, sess)
	if err != nil {
		return nil, err
	}
	if len(cart) == 0 {
		return nil, ErrEmptyCart
	}

	lineItems := make([]commerce.OrderLineItem, 0, len(cart))
	for _, line := range cart {
		productID, err := strconv.Atoi(line.ProductID)
		if err != nil {
			logger.Warn("Skipping cart line with non-numeric product ID at checkout", map[string]interface{}{
				"product_id": line.ProductID,
			})
			continue
		}
		lineItems = append(lineItems, commerce.OrderLineItem{
			ProductID: productID,
			Quantity:  line.Quantity,
		})
	}
	if len(lineItems) == 0 {
		return nil, ErrEmptyCart
	}

	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "cod"
	}

	order, err := s.client.CreateOrder(ctx, sess.Token, commerce.CreateOrderRequest{
		PaymentMethod: paymentMethod,
		SetPaid:       false,
		Billing:       req.Billing,
		Shipping:      req.Shipping,
		LineItems:     lineItems,
	})
	if err != nil {
		logger.Error("Order creation failed on platform", err, map[string]interface{}{
			"cart_key": sess.CartKey,
			"lines":    len(lineItems),
		})
		return nil, err
	}

	logger.Info("Order created", map[string]interface{}{
		"order_id": order.ID,
		"total":    order.Total,
		"cart_key": sess.CartKey,
	})

	// The order now owns the items; a failed cart clear is only a warning.
	if err := s.carts.ClearCart(ctx, sess); err != nil {
		logger.Warn("Order created but cart clear reported a problem", map[string]interface{}{
			"order_id": order.ID,
			"error":    err.Error(),
		})
	}

	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, sess *model.Session, opts commerce.ListOrdersOptions) ([]commerce.Order, error) {
	if !sess.IsAuthenticated {
		return nil, ErrNotAuthenticated
	}
	return s.client.ListOrders(ctx, sess.Token, opts)
}

func (s *orderService) GetOrder(ctx context.Context, sess *model.Session, orderID string) (*commerce.Order, error) {
	if !sess.IsAuthenticated {
		return nil, ErrNotAuthenticated
	}

	id, err := strconv.Atoi(orderID)
	if err != nil || id <= 0 {
		return nil, ErrOrderNotFound
	}

	order, err := s.client.GetOrder(ctx, sess.Token, id)
	if err != nil {
		if errors.Is(err, commerce.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}
