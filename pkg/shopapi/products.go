package shopapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"
)

// Variant is a priced, separately stocked sub-SKU of a product.
type Variant struct {
	Label string          `json:"label"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}

// Product is the raw product record as the shop API returns it. The
// catalog layer validates it into a domain product; reconciliation reads
// the stock fields directly.
type Product struct {
	ID              string          `json:"_id"`
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	Price           decimal.Decimal `json:"price"`
	DiscountPercent int             `json:"discountPercent"`
	Category        string          `json:"category"`
	Images          []string        `json:"images"`
	Stock           int             `json:"stock"`
	Sizes           []Variant       `json:"sizes,omitempty"`
}

// ProductInput is the admin create/update payload. Exactly one of Stock
// or Sizes should carry availability; the admin service enforces that
// before the request is built.
type ProductInput struct {
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	Price           decimal.Decimal `json:"price"`
	DiscountPercent int             `json:"discountPercent"`
	Category        string          `json:"category"`
	Images          []string        `json:"images"`
	Stock           *int            `json:"stock,omitempty"`
	Sizes           []Variant       `json:"sizes,omitempty"`
}

// GetProduct fetches a single product by id.
func (c *Client) GetProduct(ctx context.Context, id string) (*Product, error) {
	var product Product
	path := "/products/" + url.PathEscape(id)
	if err := c.do(ctx, "get_product", http.MethodGet, path, "", nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// SearchProducts runs a free-text product search.
func (c *Client) SearchProducts(ctx context.Context, query string) ([]Product, error) {
	var products []Product
	path := "/products/search?q=" + url.QueryEscape(query)
	if err := c.do(ctx, "search_products", http.MethodGet, path, "", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// ListProducts returns products, optionally filtered by category and capped.
func (c *Client) ListProducts(ctx context.Context, category string, limit int) ([]Product, error) {
	values := url.Values{}
	if category != "" {
		values.Set("category", category)
	}
	if limit > 0 {
		values.Set("limit", strconv.Itoa(limit))
	}
	path := "/products"
	if encoded := values.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var products []Product
	if err := c.do(ctx, "list_products", http.MethodGet, path, "", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// CreateProduct creates a product (admin only).
func (c *Client) CreateProduct(ctx context.Context, token string, input ProductInput) (*Product, error) {
	var product Product
	if err := c.do(ctx, "create_product", http.MethodPost, "/products", token, input, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct updates a product (admin only).
func (c *Client) UpdateProduct(ctx context.Context, token, id string, input ProductInput) (*Product, error) {
	var product Product
	path := "/products/" + url.PathEscape(id)
	if err := c.do(ctx, "update_product", http.MethodPut, path, token, input, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct removes a product (admin only).
func (c *Client) DeleteProduct(ctx context.Context, token, id string) error {
	path := "/products/" + url.PathEscape(id)
	return c.do(ctx, "delete_product", http.MethodDelete, path, token, nil, nil)
}
