package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/amezzane/shopfront-gateway/internal/app/model"
	"github.com/amezzane/shopfront-gateway/internal/app/service"
	"github.com/amezzane/shopfront-gateway/internal/middleware"
	"github.com/amezzane/shopfront-gateway/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedStock struct {
	available int
	known     bool
}

func (s *fixedStock) FetchLiveStock(ctx context.Context, token, productID string) (int, bool) {
	return s.available, s.known
}

func setupCartControllerTest(t *testing.T, stock service.StockFetcher) (*gin.Engine, service.CartService, *model.Session) {
	t.Helper()

	if stock == nil {
		stock = &fixedStock{}
	}
	cartService := service.NewCartService(storage.NewMemoryKV(), stock)
	ctrl := NewCartController(cartService)

	sess := &model.Session{CartKey: "guest:test"}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.SessionKey, sess)
	})
	router.GET("/cart", ctrl.GetCart)
	router.POST("/cart", ctrl.AddToCart)
	router.PUT("/cart/:productId", ctrl.UpdateQuantity)
	router.DELETE("/cart/:productId", ctrl.RemoveFromCart)
	router.DELETE("/cart", ctrl.ClearCart)

	return router, cartService, sess
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCartController_AddAndGet(t *testing.T) {
	router, _, _ := setupCartControllerTest(t, nil)

	w := doJSON(t, router, http.MethodPost, "/cart", AddToCartRequest{
		ProductID: "42",
		Name:      "Widget",
		UnitPrice: 19.90,
		Quantity:  2,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodGet, "/cart", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(2), response["count"])
	assert.Equal(t, 39.80, response["total"])
}

func TestCartController_AddToCart_MissingProductID(t *testing.T) {
	router, _, _ := setupCartControllerTest(t, nil)

	w := doJSON(t, router, http.MethodPost, "/cart", map[string]interface{}{
		"quantity": 2,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "VALIDATION_INVALID_INPUT", response["error"])
}

func TestCartController_AddToCart_OutOfStock(t *testing.T) {
	router, _, _ := setupCartControllerTest(t, &fixedStock{known: true, available: 0})

	w := doJSON(t, router, http.MethodPost, "/cart", AddToCartRequest{
		ProductID: "42",
		UnitPrice: 19.90,
		Quantity:  1,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "CART_OUT_OF_STOCK", response["error"])
}

func TestCartController_AddToCart_InsufficientStockNamesAvailable(t *testing.T) {
	router, carts, sess := setupCartControllerTest(t, &fixedStock{known: true, available: 3})

	require.NoError(t, carts.AddToCart(context.Background(), sess, model.ProductSnapshot{
		ProductID: "42", UnitPrice: 19.90,
	}, 3))

	w := doJSON(t, router, http.MethodPost, "/cart", AddToCartRequest{
		ProductID: "42",
		Quantity:  1,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "CART_INSUFFICIENT_STOCK", response["error"])
	assert.Contains(t, response["message"], "only 3 left")
}

func TestCartController_UpdateQuantity(t *testing.T) {
	router, carts, sess := setupCartControllerTest(t, nil)
	ctx := context.Background()

	require.NoError(t, carts.AddToCart(ctx, sess, model.ProductSnapshot{
		ProductID: "42", UnitPrice: 10,
	}, 2))

	w := doJSON(t, router, http.MethodPut, "/cart/42", UpdateQuantityRequest{Quantity: 5})
	assert.Equal(t, http.StatusOK, w.Code)

	cart, _ := carts.GetCart(ctx, sess)
	assert.Equal(t, 5, cart["42"].Quantity)
}

func TestCartController_UpdateQuantity_UnknownLine(t *testing.T) {
	router, _, _ := setupCartControllerTest(t, nil)

	w := doJSON(t, router, http.MethodPut, "/cart/42", UpdateQuantityRequest{Quantity: 5})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCartController_RemoveTwiceIsOK(t *testing.T) {
	router, carts, sess := setupCartControllerTest(t, nil)
	ctx := context.Background()

	require.NoError(t, carts.AddToCart(ctx, sess, model.ProductSnapshot{
		ProductID: "42", UnitPrice: 10,
	}, 1))

	w := doJSON(t, router, http.MethodDelete, "/cart/42", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/cart/42", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCartController_ClearCart(t *testing.T) {
	router, carts, sess := setupCartControllerTest(t, nil)
	ctx := context.Background()

	require.NoError(t, carts.AddToCart(ctx, sess, model.ProductSnapshot{
		ProductID: "42", UnitPrice: 10,
	}, 2))

	w := doJSON(t, router, http.MethodDelete, "/cart", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	count, _ := carts.CartCount(ctx, sess)
	assert.Equal(t, 0, count)
}
