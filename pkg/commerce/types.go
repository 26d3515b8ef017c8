package commerce

import "strconv"

// Product is the subset of the platform's product representation the
// storefront consumes. Monetary fields arrive as strings on the wire.
type Product struct {
	ID               int            `json:"id"`
	Name             string         `json:"name"`
	SKU              string         `json:"sku"`
	Price            string         `json:"price"`
	RegularPrice     string         `json:"regular_price"`
	SalePrice        string         `json:"sale_price"`
	ShortDescription string         `json:"short_description"`
	AverageRating    string         `json:"average_rating"`
	StockStatus      string         `json:"stock_status"`
	StockQuantity    *int           `json:"stock_quantity"`
	Images           []ProductImage `json:"images"`
}

// ProductImage holds one catalog image reference
type ProductImage struct {
	ID  int    `json:"id"`
	Src string `json:"src"`
	Alt string `json:"alt"`
}

// PriceValue parses the wire price into a float; malformed or empty prices
// read as zero.
func (p *Product) PriceValue() float64 {
	v, err := strconv.ParseFloat(p.Price, 64)
	if err != nil {
		return 0
	}
	return v
}

// MainImage returns the first catalog image URL, if any.
func (p *Product) MainImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].Src
}

// ListProductsOptions narrows a catalog listing
type ListProductsOptions struct {
	Page    int
	PerPage int
	Search  string
	Status  string
}

// UpdateProductRequest carries the editable product fields. Zero-valued
// fields are omitted and left untouched by the platform; a nil StockQuantity
// leaves the stock figure alone rather than clearing it.
type UpdateProductRequest struct {
	Name          string         `json:"name,omitempty"`
	Description   string         `json:"description,omitempty"`
	RegularPrice  string         `json:"regular_price,omitempty"`
	SalePrice     string         `json:"sale_price,omitempty"`
	StockQuantity *int           `json:"stock_quantity,omitempty"`
	Images        []ProductImage `json:"images,omitempty"`
}

// OrderLineItem is one product line inside an order
type OrderLineItem struct {
	ProductID int    `json:"product_id"`
	Name      string `json:"name,omitempty"`
	Quantity  int    `json:"quantity"`
	Total     string `json:"total,omitempty"`
}

// OrderAddress is the platform's billing/shipping address shape
type OrderAddress struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address1  string `json:"address_1"`
	Address2  string `json:"address_2,omitempty"`
	City      string `json:"city"`
	Postcode  string `json:"postcode"`
	Country   string `json:"country"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// Order is the subset of the platform's order representation the storefront
// consumes
type Order struct {
	ID          int             `json:"id"`
	Status      string          `json:"status"`
	Currency    string          `json:"currency"`
	Total       string          `json:"total"`
	CustomerID  int             `json:"customer_id"`
	DateCreated string          `json:"date_created"`
	Billing     OrderAddress    `json:"billing"`
	Shipping    OrderAddress    `json:"shipping"`
	LineItems   []OrderLineItem `json:"line_items"`
}

// TotalValue parses the wire order total into a float
func (o *Order) TotalValue() float64 {
	v, err := strconv.ParseFloat(o.Total, 64)
	if err != nil {
		return 0
	}
	return v
}

// CreateOrderRequest is the payload for order creation. The platform owns
// payment and stock reconciliation, so orders are created unpaid.
type CreateOrderRequest struct {
	PaymentMethod      string          `json:"payment_method"`
	PaymentMethodTitle string          `json:"payment_method_title,omitempty"`
	SetPaid            bool            `json:"set_paid"`
	CustomerID         int             `json:"customer_id,omitempty"`
	Billing            OrderAddress    `json:"billing"`
	Shipping           OrderAddress    `json:"shipping"`
	LineItems          []OrderLineItem `json:"line_items"`
}

// ListOrdersOptions narrows an order listing
type ListOrdersOptions struct {
	Page     int
	PerPage  int
	Customer int
	Status   string
	After    string
	Before   string
}
