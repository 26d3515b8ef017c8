package controller

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/amezzane/shopfront-gateway/internal/app/service"
	"github.com/amezzane/shopfront-gateway/internal/errors"
	"github.com/amezzane/shopfront-gateway/internal/middleware"
	"github.com/amezzane/shopfront-gateway/pkg/commerce"
	"github.com/gin-gonic/gin"
)

type ProductController struct {
	catalogService service.CatalogService
}

func NewProductController(catalogService service.CatalogService) *ProductController {
	return &ProductController{catalogService: catalogService}
}

// ListProducts proxies a catalog page
// GET /api/v1/products
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sess, _ := middleware.GetSession(c)

	opts := commerce.ListProductsOptions{
		Page:    queryInt(c, "page", 1),
		PerPage: queryInt(c, "per_page", 20),
		Search:  c.Query("search"),
	}

	products, err := ctrl.catalogService.ListProducts(c.Request.Context(), sess.Token, opts)
	if err != nil {
		log.Error("Failed to list products", err, nil)
		errors.BadGateway(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
		"page":     opts.Page,
	})
}

// GetProduct proxies a single product
// GET /api/v1/products/:id
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sess, _ := middleware.GetSession(c)
	productID := c.Param("id")

	product, err := ctrl.catalogService.GetProduct(c.Request.Context(), sess.Token, productID)
	if err != nil {
		switch {
		case stderrors.Is(err, service.ErrProductNotFound):
			errors.NotFound(c, errors.CatalogProductNotFound, "Product not found")
		case stderrors.Is(err, service.ErrInvalidProductID):
			errors.BadRequest(c, errors.ValidationInvalidID, "Invalid product ID")
		default:
			log.Error("Failed to fetch product", err, map[string]interface{}{
				"product_id": productID,
			})
			errors.BadGateway(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, product)
}

func queryInt(c *gin.Context, name string, fallback int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
