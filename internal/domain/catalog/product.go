// Package catalog defines the product model, the store client port, and the
// store error taxonomy for the Shopify catalog agent.
package catalog

import "context"

// Variant is one purchasable variation of a product.
type Variant struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Price    string `json:"price"`
	SKU      string `json:"sku,omitempty"`
	Position int    `json:"position,omitempty"`
}

// Product is an immutable snapshot of a catalog item as returned by the
// store API. It is never cached or mutated locally.
type Product struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Handle      string    `json:"handle"`
	Status      string    `json:"status"`
	Vendor      string    `json:"vendor"`
	ProductType string    `json:"product_type"`
	BodyHTML    string    `json:"body_html,omitempty"`
	CreatedAt   string    `json:"created_at"`
	UpdatedAt   string    `json:"updated_at"`
	Variants    []Variant `json:"variants,omitempty"`
}

// StoreClient reads product data from the store API. Implementations issue
// single-attempt requests: no retries, no backoff.
type StoreClient interface {
	// ListProducts returns up to limit products from the catalog.
	ListProducts(ctx context.Context, limit int) ([]Product, error)

	// GetProduct fetches one product by its numeric identifier.
	GetProduct(ctx context.Context, id int64) (*Product, error)
}
