package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/amezzane/shopfront-gateway/internal/app/model"
	"github.com/amezzane/shopfront-gateway/pkg/commerce"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReportService_SalesReportXLSX(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "completed", r.URL.Query().Get("status"))
		if r.URL.Query().Get("page") != "1" {
			json.NewEncoder(w).Encode([]commerce.Order{})
			return
		}
		json.NewEncoder(w).Encode([]commerce.Order{
			{
				ID: 1, Status: "completed", Total: "45.30",
				LineItems: []commerce.OrderLineItem{
					{ProductID: 42, Name: "Widget", Quantity: 2, Total: "39.80"},
					{ProductID: 43, Name: "Gadget", Quantity: 1, Total: "5.50"},
				},
			},
			{
				ID: 2, Status: "completed", Total: "19.90",
				LineItems: []commerce.OrderLineItem{
					{ProductID: 42, Name: "Widget", Quantity: 1, Total: "19.90"},
				},
			},
		})
	}))
	defer server.Close()

	client, err := commerce.NewClient(commerce.Config{BaseURL: server.URL})
	require.NoError(t, err)

	reports := NewReportService(client)
	sess := &model.Session{IsAuthenticated: true, Token: "seller-token", CartKey: "user:1"}

	data, err := reports.SalesReportXLSX(context.Background(), sess, commerce.ListOrdersOptions{
		Status: "completed",
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 3) // header + two products

	assert.Equal(t, []string{"Product ID", "Product", "Units Sold", "Revenue"}, rows[0])

	// Widget sold 3 units for 59.70 and outsells Gadget, so it comes first.
	assert.Equal(t, "42", rows[1][0])
	assert.Equal(t, "Widget", rows[1][1])
	assert.Equal(t, "3", rows[1][2])
	assert.Equal(t, "59.7", rows[1][3])

	assert.Equal(t, "43", rows[2][0])
}

func TestReportService_MalformedLineTotalCountsAsZeroRevenue(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") != "1" {
			json.NewEncoder(w).Encode([]commerce.Order{})
			return
		}
		json.NewEncoder(w).Encode([]commerce.Order{
			{
				ID: 1, Status: "completed",
				LineItems: []commerce.OrderLineItem{
					{ProductID: 42, Name: "Widget", Quantity: 2, Total: "19.90"},
					// Trailing garbage must not be read as a number.
					{ProductID: 42, Name: "Widget", Quantity: 1, Total: "19.90GBP"},
				},
			},
		})
	}))
	defer server.Close()

	client, err := commerce.NewClient(commerce.Config{BaseURL: server.URL})
	require.NoError(t, err)

	reports := NewReportService(client)
	sess := &model.Session{IsAuthenticated: true, Token: "seller-token", CartKey: "user:1"}

	data, err := reports.SalesReportXLSX(context.Background(), sess, commerce.ListOrdersOptions{})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Units still count; only the unparseable revenue is dropped.
	assert.Equal(t, "3", rows[1][2])
	assert.Equal(t, "19.9", rows[1][3])
}

func TestReportService_RequiresAuth(t *testing.T) {
	client, err := commerce.NewClient(commerce.Config{BaseURL: "http://localhost:1"})
	require.NoError(t, err)

	reports := NewReportService(client)
	guest := &model.Session{CartKey: "guest:x"}

	_, err = reports.SalesReportXLSX(context.Background(), guest, commerce.ListOrdersOptions{})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}
