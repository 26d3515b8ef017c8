package model

import (
	"math"
	"strings"
)

// ProductSnapshot is the product data captured when a line is first added to
// the cart. It is intentionally never refreshed afterwards: the cart shows the
// product as the customer saw it, and the commerce platform re-validates
// everything at order time.
type ProductSnapshot struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	ImageURL  string  `json:"image_url,omitempty"`
	SKU       string  `json:"sku,omitempty"`
	UnitPrice float64 `json:"unit_price"`
}

// CartLine is one product's entry in a cart. Quantity is always >= 1; a line
// whose quantity would drop to zero is removed instead.
type CartLine struct {
	ProductID string          `json:"product_id"`
	Product   ProductSnapshot `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitPrice float64         `json:"unit_price"`
}

// Cart maps canonical product IDs to cart lines. It is the exact shape
// persisted to the key-value store, so the stored value round-trips through
// plain JSON marshalling.
type Cart map[string]CartLine

// NormalizeProductID converts an incoming product identifier (numeric or
// string form) to its canonical string representation so the same product can
// never occupy two lines.
func NormalizeProductID(id string) string {
	return strings.TrimSpace(id)
}

// Count returns the sum of all line quantities.
func (c Cart) Count() int {
	total := 0
	for _, line := range c {
		total += line.Quantity
	}
	return total
}

// Amount returns the cart total, unit price at add time times quantity,
// rounded to two decimal places.
func (c Cart) Amount() float64 {
	var total float64
	for _, line := range c {
		total += line.UnitPrice * float64(line.Quantity)
	}
	return math.Round(total*100) / 100
}

// Clone returns a copy so callers can never mutate store-owned state.
func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	for id, line := range c {
		out[id] = line
	}
	return out
}

// ProductIDs returns the canonical IDs of every line in the cart.
func (c Cart) ProductIDs() []string {
	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	return ids
}
