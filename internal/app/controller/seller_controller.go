package controller

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"github.com/amezzane/shopfront-gateway/internal/app/service"
	"github.com/amezzane/shopfront-gateway/internal/errors"
	"github.com/amezzane/shopfront-gateway/internal/middleware"
	"github.com/amezzane/shopfront-gateway/pkg/commerce"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type SellerController struct {
	catalogService service.CatalogService
	reportService  service.ReportService
}

func NewSellerController(catalogService service.CatalogService, reportService service.ReportService) *SellerController {
	return &SellerController{
		catalogService: catalogService,
		reportService:  reportService,
	}
}

// ListProducts lists the shop's products for the seller dashboard, including
// drafts
// GET /api/v1/seller/products
func (ctrl *SellerController) ListProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sess, _ := middleware.GetSession(c)

	opts := commerce.ListProductsOptions{
		Page:    queryInt(c, "page", 1),
		PerPage: queryInt(c, "per_page", 50),
		Search:  c.Query("search"),
		Status:  "any",
	}

	products, err := ctrl.catalogService.ListProducts(c.Request.Context(), sess.Token, opts)
	if err != nil {
		log.Error("Failed to list seller products", err, nil)
		errors.BadGateway(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
		"page":     opts.Page,
	})
}

type UpdateProductRequest struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	RegularPrice  string `json:"regular_price"`
	SalePrice     string `json:"sale_price"`
	StockQuantity *int   `json:"stock_quantity"`
	ImageURL      string `json:"image_url"`
}

// UpdateProduct applies seller edits to a product on the platform
// PUT /api/v1/seller/products/:id
func (ctrl *SellerController) UpdateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sess, _ := middleware.GetSession(c)
	productID := c.Param("id")

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid product update request", map[string]interface{}{
			"product_id": productID,
			"error":      err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	update := commerce.UpdateProductRequest{
		Name:          req.Name,
		Description:   req.Description,
		RegularPrice:  req.RegularPrice,
		SalePrice:     req.SalePrice,
		StockQuantity: req.StockQuantity,
	}
	if req.ImageURL != "" {
		update.Images = []commerce.ProductImage{{Src: req.ImageURL}}
	}

	product, err := ctrl.catalogService.UpdateProduct(c.Request.Context(), sess.Token, productID, update)
	if err != nil {
		switch {
		case stderrors.Is(err, service.ErrProductNotFound):
			errors.NotFound(c, errors.CatalogProductNotFound, "Product not found")
		case stderrors.Is(err, service.ErrInvalidProductID):
			errors.BadRequest(c, errors.ValidationInvalidID, "Invalid product ID")
		default:
			log.Error("Failed to update product", err, map[string]interface{}{
				"product_id": productID,
			})
			errors.BadGateway(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product updated",
		"product": product,
	})
}

// SalesReport streams an xlsx sales summary built from the platform's orders
// GET /api/v1/seller/report
func (ctrl *SellerController) SalesReport(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sess, _ := middleware.GetSession(c)

	opts := commerce.ListOrdersOptions{
		Status: c.DefaultQuery("status", "completed"),
		After:  c.Query("after"),
		Before: c.Query("before"),
	}

	report, err := ctrl.reportService.SalesReportXLSX(c.Request.Context(), sess, opts)
	if err != nil {
		if stderrors.Is(err, service.ErrNotAuthenticated) {
			errors.Unauthorized(c, "")
			return
		}
		log.Error("Failed to build sales report", err, nil)
		errors.BadGateway(c, "")
		return
	}

	filename := fmt.Sprintf("sales-report-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, report)
}
