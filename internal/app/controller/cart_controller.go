package controller

import (
	stderrors "errors"
	"net/http"

	"github.com/amezzane/shopfront-gateway/internal/app/model"
	"github.com/amezzane/shopfront-gateway/internal/app/service"
	"github.com/amezzane/shopfront-gateway/internal/errors"
	"github.com/amezzane/shopfront-gateway/internal/middleware"
	"github.com/gin-gonic/gin"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{cartService: cartService}
}

type AddToCartRequest struct {
	ProductID string  `json:"product_id" binding:"required"`
	Name      string  `json:"name"`
	ImageURL  string  `json:"image_url"`
	SKU       string  `json:"sku"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart returns the caller's cart with derived totals
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sess, _ := middleware.GetSession(c)

	cart, err := ctrl.cartService.GetCart(c.Request.Context(), sess)
	if err != nil {
		log.Error("Failed to load cart", err, nil)
		errors.InternalError(c, "Failed to load cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": cart,
		"count": cart.Count(),
		"total": cart.Amount(),
	})
}

// AddToCart adds a product to the cart
// POST /api/v1/cart
func (ctrl *CartController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sess, _ := middleware.GetSession(c)

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"error": err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	snapshot := model.ProductSnapshot{
		ProductID: req.ProductID,
		Name:      req.Name,
		ImageURL:  req.ImageURL,
		SKU:       req.SKU,
		UnitPrice: req.UnitPrice,
	}

	err := ctrl.cartService.AddToCart(c.Request.Context(), sess, snapshot, req.Quantity)
	if err != nil && !stderrors.Is(err, service.ErrCartPersistence) {
		ctrl.respondCartError(c, err, req.ProductID)
		return
	}

	ctrl.respondMutated(c, http.StatusCreated, "Product added to cart", err)
}

// UpdateQuantity sets a line's quantity exactly; zero or less removes it
// PUT /api/v1/cart/:productId
func (ctrl *CartController) UpdateQuantity(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sess, _ := middleware.GetSession(c)
	productID := c.Param("productId")

	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update quantity request", map[string]interface{}{
			"product_id": productID,
			"error":      err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	err := ctrl.cartService.UpdateQuantity(c.Request.Context(), sess, productID, req.Quantity)
	if err != nil && !stderrors.Is(err, service.ErrCartPersistence) {
		ctrl.respondCartError(c, err, productID)
		return
	}

	ctrl.respondMutated(c, http.StatusOK, "Cart updated", err)
}

// RemoveFromCart removes a line; removing an absent line is a no-op
// DELETE /api/v1/cart/:productId
func (ctrl *CartController) RemoveFromCart(c *gin.Context) {
	sess, _ := middleware.GetSession(c)
	productID := c.Param("productId")

	err := ctrl.cartService.RemoveFromCart(c.Request.Context(), sess, productID)
	if err != nil && !stderrors.Is(err, service.ErrCartPersistence) {
		ctrl.respondCartError(c, err, productID)
		return
	}

	ctrl.respondMutated(c, http.StatusOK, "Product removed from cart", err)
}

// ClearCart empties the cart
// DELETE /api/v1/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	sess, _ := middleware.GetSession(c)

	err := ctrl.cartService.ClearCart(c.Request.Context(), sess)
	if err != nil && !stderrors.Is(err, service.ErrCartPersistence) {
		ctrl.respondCartError(c, err, "")
		return
	}

	ctrl.respondMutated(c, http.StatusOK, "Cart cleared", err)
}

// respondMutated reports a successful mutation. A persistence warning rides
// along without failing the request: the in-memory change is visible and
// rolling it back would surprise the user.
func (ctrl *CartController) respondMutated(c *gin.Context, status int, message string, err error) {
	body := gin.H{"message": message}
	if err != nil {
		log := middleware.GetLoggerFromContext(c)
		log.Warn("Cart mutation persisted in memory only", map[string]interface{}{
			"error": err.Error(),
		})
		body["warning"] = errors.CartPersistenceWarning
	}
	c.JSON(status, body)
}

func (ctrl *CartController) respondCartError(c *gin.Context, err error, productID string) {
	log := middleware.GetLoggerFromContext(c)

	var insufficient *service.InsufficientStockError
	switch {
	case stderrors.Is(err, service.ErrOutOfStock):
		errors.Conflict(c, errors.CartOutOfStock, "This product is out of stock")
	case stderrors.As(err, &insufficient):
		errors.Conflict(c, errors.CartInsufficientStock, insufficient.Error())
	case stderrors.Is(err, service.ErrCartLineNotFound):
		errors.NotFound(c, errors.CartLineNotFound, "Product is not in the cart")
	case stderrors.Is(err, service.ErrInvalidProduct), stderrors.Is(err, service.ErrInvalidQuantity):
		errors.BadRequest(c, errors.ValidationInvalidInput, err.Error())
	case stderrors.Is(err, service.ErrCartUnavailable):
		log.Error("Cart could not be loaded", err, map[string]interface{}{
			"product_id": productID,
		})
		errors.InternalError(c, "Your cart is temporarily unavailable, please try again")
	default:
		log.Error("Cart operation failed", err, map[string]interface{}{
			"product_id": productID,
		})
		errors.InternalError(c, "")
	}
}
