package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/amezzane/shopfront-gateway/internal/app/model"
	"github.com/amezzane/shopfront-gateway/internal/storage"
	"github.com/amezzane/shopfront-gateway/pkg/commerce"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupOrderTest(t *testing.T, handler http.HandlerFunc) (OrderService, CartService, *model.Session) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := commerce.NewClient(commerce.Config{BaseURL: server.URL})
	require.NoError(t, err)

	carts := NewCartService(storage.NewMemoryKV(), &stubStock{})
	sess := &model.Session{
		IsAuthenticated: true,
		Token:           "customer-token",
		User:            &model.UserClaims{Subject: "77"},
		CartKey:         "user:77",
	}
	return NewOrderService(client, carts), carts, sess
}

func TestOrderService_Checkout_Success(t *testing.T) {
	var received commerce.CreateOrderRequest
	orders, carts, sess := setupOrderTest(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(commerce.Order{ID: 1001, Status: "pending", Total: "25.50"})
	})
	ctx := context.Background()

	require.NoError(t, carts.AddToCart(ctx, sess, snapshot("42", 10.00), 2))
	require.NoError(t, carts.AddToCart(ctx, sess, snapshot("43", 5.50), 1))

	order, err := orders.Checkout(ctx, sess, CheckoutRequest{
		Billing: commerce.OrderAddress{FirstName: "Nora", City: "Lyon"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1001, order.ID)

	assert.False(t, received.SetPaid)
	assert.Equal(t, "cod", received.PaymentMethod)
	assert.Len(t, received.LineItems, 2)

	// The cart is cleared once the platform owns the order.
	count, _ := carts.CartCount(ctx, sess)
	assert.Equal(t, 0, count)
}

func TestOrderService_Checkout_EmptyCart(t *testing.T) {
	orders, _, sess := setupOrderTest(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no order should be created for an empty cart")
	})

	_, err := orders.Checkout(context.Background(), sess, CheckoutRequest{})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestOrderService_Checkout_RequiresAuth(t *testing.T) {
	orders, _, _ := setupOrderTest(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for a guest checkout")
	})

	guest := &model.Session{CartKey: "guest:x"}
	_, err := orders.Checkout(context.Background(), guest, CheckoutRequest{})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestOrderService_Checkout_PlatformFailureKeepsCart(t *testing.T) {
	orders, carts, sess := setupOrderTest(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"code":    "woocommerce_rest_invalid_product",
			"message": "Product no longer exists",
		})
	})
	ctx := context.Background()

	require.NoError(t, carts.AddToCart(ctx, sess, snapshot("42", 10.00), 2))

	_, err := orders.Checkout(ctx, sess, CheckoutRequest{})
	require.Error(t, err)

	count, _ := carts.CartCount(ctx, sess)
	assert.Equal(t, 2, count)
}

func TestOrderService_GetOrder_NotFound(t *testing.T) {
	orders, _, sess := setupOrderTest(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{
			"code":    "woocommerce_rest_order_invalid_id",
			"message": "Invalid ID.",
		})
	})

	_, err := orders.GetOrder(context.Background(), sess, "9999")
	assert.ErrorIs(t, err, ErrOrderNotFound)

	_, err = orders.GetOrder(context.Background(), sess, "not-a-number")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_ListOrders_RequiresAuth(t *testing.T) {
	orders, _, _ := setupOrderTest(t, func(w http.ResponseWriter, r *http.Request) {})

	guest := &model.Session{CartKey: "guest:x"}
	_, err := orders.ListOrders(context.Background(), guest, commerce.ListOrdersOptions{})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}
