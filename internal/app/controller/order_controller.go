package controller

import (
	stderrors "errors"
	"net/http"

	"github.com/amezzane/shopfront-gateway/internal/app/service"
	"github.com/amezzane/shopfront-gateway/internal/errors"
	"github.com/amezzane/shopfront-gateway/internal/middleware"
	"github.com/amezzane/shopfront-gateway/pkg/commerce"
	"github.com/gin-gonic/gin"
)

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{orderService: orderService}
}

// Checkout submits the cart as a platform order and clears the cart
// POST /api/v1/checkout
func (ctrl *OrderController) Checkout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sess, _ := middleware.GetSession(c)

	var req service.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid checkout request", map[string]interface{}{
			"error": err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	order, err := ctrl.orderService.Checkout(c.Request.Context(), sess, req)
	if err != nil {
		switch {
		case stderrors.Is(err, service.ErrNotAuthenticated):
			errors.Unauthorized(c, "")
		case stderrors.Is(err, service.ErrEmptyCart):
			errors.BadRequest(c, errors.CartEmpty, "Your cart is empty")
		default:
			log.Error("Checkout failed", err, nil)
			errors.RespondWithError(c, http.StatusBadGateway, errors.OrderCreateFailed,
				"The order could not be placed, please try again")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"order":   order,
	})
}

// ListOrders proxies the caller's order history
// GET /api/v1/orders
func (ctrl *OrderController) ListOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sess, _ := middleware.GetSession(c)

	opts := commerce.ListOrdersOptions{
		Page:    queryInt(c, "page", 1),
		PerPage: queryInt(c, "per_page", 20),
		Status:  c.Query("status"),
	}

	orders, err := ctrl.orderService.ListOrders(c.Request.Context(), sess, opts)
	if err != nil {
		if stderrors.Is(err, service.ErrNotAuthenticated) {
			errors.Unauthorized(c, "")
			return
		}
		log.Error("Failed to list orders", err, nil)
		errors.BadGateway(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
		"page":   opts.Page,
	})
}

// GetOrder proxies one order
// GET /api/v1/orders/:id
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sess, _ := middleware.GetSession(c)
	orderID := c.Param("id")

	order, err := ctrl.orderService.GetOrder(c.Request.Context(), sess, orderID)
	if err != nil {
		switch {
		case stderrors.Is(err, service.ErrNotAuthenticated):
			errors.Unauthorized(c, "")
		case stderrors.Is(err, service.ErrOrderNotFound):
			errors.NotFound(c, errors.OrderNotFound, "Order not found")
		default:
			log.Error("Failed to fetch order", err, map[string]interface{}{
				"order_id": orderID,
			})
			errors.BadGateway(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, order)
}
