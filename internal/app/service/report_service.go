package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/amezzane/shopfront-gateway/internal/app/model"
	"github.com/amezzane/shopfront-gateway/pkg/commerce"
	"github.com/amezzane/shopfront-gateway/pkg/logger"
	"github.com/xuri/excelize/v2"
)

// reportPageSize is the platform's maximum order page size.
const reportPageSize = 100

type ReportService interface {
	// SalesReportXLSX builds a per-product sales workbook from the
	// platform's completed orders and returns it as bytes.
	SalesReportXLSX(ctx context.Context, sess *model.Session, opts commerce.ListOrdersOptions) ([]byte, error)
}

type reportService struct {
	client *commerce.Client
}

func NewReportService(client *commerce.Client) ReportService {
	return &reportService{client: client}
}

type productSales struct {
	productID int
	name      string
	quantity  int
	revenue   float64
}

func (s *reportService) SalesReportXLSX(ctx context.Context, sess *model.Session, opts commerce.ListOrdersOptions) ([]byte, error) {
	if !sess.IsAuthenticated {
		return nil, ErrNotAuthenticated
	}

	if opts.PerPage == 0 {
		opts.PerPage = reportPageSize
	}

	sales := make(map[int]*productSales)
	var orderCount int

	for page := 1; ; page++ {
		opts.Page = page
		orders, err := s.client.ListOrders(ctx, sess.Token, opts)
		if err != nil {
			logger.Error("Failed to fetch orders for sales report", err, map[string]interface{}{
				"page": page,
			})
			return nil, err
		}
		if len(orders) == 0 {
			break
		}

		orderCount += len(orders)
		for _, order := range orders {
			for _, item := range order.LineItems {
				entry, ok := sales[item.ProductID]
				if !ok {
					entry = &productSales{productID: item.ProductID, name: item.Name}
					sales[item.ProductID] = entry
				}
				entry.quantity += item.Quantity
				entry.revenue += lineTotal(item)
			}
		}

		if len(orders) < opts.PerPage {
			break
		}
	}

	rows := make([]*productSales, 0, len(sales))
	for _, entry := range sales {
		rows = append(rows, entry)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].revenue > rows[j].revenue })

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	headers := []string{"Product ID", "Product", "Units Sold", "Revenue"}
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write report header: %w", err)
		}
	}

	for i, row := range rows {
		values := []interface{}{row.productID, row.name, row.quantity, row.revenue}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write report row: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}

	logger.Info("Sales report generated", map[string]interface{}{
		"orders":   orderCount,
		"products": len(rows),
	})
	return buf.Bytes(), nil
}

// lineTotal parses the wire line total; malformed values count as zero
// revenue rather than failing the whole report.
func lineTotal(item commerce.OrderLineItem) float64 {
	v, err := strconv.ParseFloat(item.Total, 64)
	if err != nil {
		return 0
	}
	return v
}
