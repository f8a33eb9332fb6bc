// internal/infrastructure/api/products.go
package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/your-org/artiflora-storefront/internal/domain/catalog"
)

// ListProducts returns every product
func (c *Client) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	var products []catalog.Product
	if err := c.call(ctx, http.MethodGet, "/products", "", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct returns one product
func (c *Client) GetProduct(ctx context.Context, id string) (*catalog.Product, error) {
	var product catalog.Product
	if err := c.call(ctx, http.MethodGet, "/products/"+url.PathEscape(id), "", nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct creates a product
func (c *Client) CreateProduct(ctx context.Context, token string, product catalog.Product) (*catalog.Product, error) {
	product.ID = ""
	// The API answers with {"inserted_id": "..."}
	var resp struct {
		InsertedID string `json:"inserted_id"`
	}
	if err := c.call(ctx, http.MethodPost, "/products", token, product, &resp); err != nil {
		return nil, err
	}
	created := product
	created.ID = resp.InsertedID
	return &created, nil
}

// UpdateProduct replaces a product
func (c *Client) UpdateProduct(ctx context.Context, token, id string, product catalog.Product) error {
	product.ID = ""
	return c.call(ctx, http.MethodPut, "/products/"+url.PathEscape(id), token, product, nil)
}

// DeleteProduct deletes a product
func (c *Client) DeleteProduct(ctx context.Context, token, id string) error {
	return c.call(ctx, http.MethodDelete, "/products/"+url.PathEscape(id), token, nil, nil)
}
