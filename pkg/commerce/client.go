package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const productsPath = "/wp-json/wc/v3/products"
const ordersPath = "/wp-json/wc/v3/orders"

// Client talks to the WooCommerce REST API. It holds no customer state: the
// bearer token is supplied per call by the session that triggered it, with
// the configured service token as fallback.
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new commerce client with the given configuration
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// GetProduct fetches a single product by ID
func (c *Client) GetProduct(ctx context.Context, token string, productID int) (*Product, error) {
	body, err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("%s/%d", productsPath, productID), token, nil, nil)
	if err != nil {
		return nil, err
	}

	var product Product
	if err := json.Unmarshal(body, &product); err != nil {
		return nil, fmt.Errorf("failed to unmarshal product: %w", err)
	}
	return &product, nil
}

// ListProducts fetches a page of the catalog
func (c *Client) ListProducts(ctx context.Context, token string, opts ListProductsOptions) ([]Product, error) {
	query := url.Values{}
	if opts.Page > 0 {
		query.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.PerPage > 0 {
		query.Set("per_page", strconv.Itoa(opts.PerPage))
	}
	if opts.Search != "" {
		query.Set("search", opts.Search)
	}
	if opts.Status != "" {
		query.Set("status", opts.Status)
	}

	body, err := c.doRequest(ctx, http.MethodGet, productsPath, token, query, nil)
	if err != nil {
		return nil, err
	}

	var products []Product
	if err := json.Unmarshal(body, &products); err != nil {
		return nil, fmt.Errorf("failed to unmarshal products: %w", err)
	}
	return products, nil
}

// UpdateProduct applies the given fields to a product and returns the
// updated representation
func (c *Client) UpdateProduct(ctx context.Context, token string, productID int, req UpdateProductRequest) (*Product, error) {
	body, err := c.doRequest(ctx, http.MethodPut, fmt.Sprintf("%s/%d", productsPath, productID), token, nil, req)
	if err != nil {
		return nil, err
	}

	var product Product
	if err := json.Unmarshal(body, &product); err != nil {
		return nil, fmt.Errorf("failed to unmarshal product: %w", err)
	}
	return &product, nil
}

// CreateOrder submits an order to the platform. Payment and final stock
// reconciliation happen there, not here.
func (c *Client) CreateOrder(ctx context.Context, token string, req CreateOrderRequest) (*Order, error) {
	body, err := c.doRequest(ctx, http.MethodPost, ordersPath, token, nil, req)
	if err != nil {
		return nil, err
	}

	var order Order
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order: %w", err)
	}
	return &order, nil
}

// GetOrder fetches a single order by ID
func (c *Client) GetOrder(ctx context.Context, token string, orderID int) (*Order, error) {
	body, err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("%s/%d", ordersPath, orderID), token, nil, nil)
	if err != nil {
		return nil, err
	}

	var order Order
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order: %w", err)
	}
	return &order, nil
}

// ListOrders fetches a page of orders
func (c *Client) ListOrders(ctx context.Context, token string, opts ListOrdersOptions) ([]Order, error) {
	query := url.Values{}
	if opts.Page > 0 {
		query.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.PerPage > 0 {
		query.Set("per_page", strconv.Itoa(opts.PerPage))
	}
	if opts.Customer > 0 {
		query.Set("customer", strconv.Itoa(opts.Customer))
	}
	if opts.Status != "" {
		query.Set("status", opts.Status)
	}
	if opts.After != "" {
		query.Set("after", opts.After)
	}
	if opts.Before != "" {
		query.Set("before", opts.Before)
	}

	body, err := c.doRequest(ctx, http.MethodGet, ordersPath, token, query, nil)
	if err != nil {
		return nil, err
	}

	var orders []Order
	if err := json.Unmarshal(body, &orders); err != nil {
		return nil, fmt.Errorf("failed to unmarshal orders: %w", err)
	}
	return orders, nil
}

// doRequest performs one HTTP call against the platform API
func (c *Client) doRequest(ctx context.Context, method, path, token string, query url.Values, payload interface{}) ([]byte, error) {
	endpoint := strings.TrimRight(c.config.BaseURL, "/") + path
	if len(query) > 0 {
		endpoint = endpoint + "?" + query.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if token == "" {
		token = c.config.ServiceToken
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(body, apiErr); err != nil {
			return nil, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
		}

		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return nil, fmt.Errorf("%w: %s", ErrUnauthorized, apiErr.Message)
		case http.StatusNotFound:
			return nil, fmt.Errorf("%w: %s", ErrNotFound, apiErr.Message)
		default:
			return nil, apiErr
		}
	}

	return body, nil
}
