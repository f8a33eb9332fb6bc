// internal/domain/catalog/entity.go
package catalog

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/your-org/artiflora-storefront/internal/pkg/money"
)

// Product is a handcrafted item listed in the store
type Product struct {
	ID          string          `json:"id,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    []string        `json:"image_url"`
}

// ProductInput is the body accepted by the admin product form
type ProductInput struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description" binding:"required"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    []string        `json:"image_url"`
}

// Validate checks the invariants of a product before it is written
func (p *ProductInput) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("product name is required")
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("price cannot be negative")
	}
	return nil
}

// ToProduct converts the form input into a product body
func (p *ProductInput) ToProduct() Product {
	images := p.ImageURL
	if images == nil {
		images = []string{}
	}
	return Product{
		Name:        strings.TrimSpace(p.Name),
		Description: p.Description,
		Price:       p.Price,
		ImageURL:    images,
	}
}

// FormFromProduct pre-populates the edit form from an existing product
func FormFromProduct(p Product) ProductInput {
	images := append([]string{}, p.ImageURL...)
	return ProductInput{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		ImageURL:    images,
	}
}

// PrimaryImage returns the first image or an empty string
func (p Product) PrimaryImage() string {
	if len(p.ImageURL) == 0 {
		return ""
	}
	return p.ImageURL[0]
}

// DisplayPrice renders the price for listings
func (p Product) DisplayPrice() string {
	return money.Format(p.Price)
}

// Index is an immutable product-id lookup rebuilt from a product list
type Index map[string]Product

// NewIndex builds an Index, skipping products without an id
func NewIndex(products []Product) Index {
	index := make(Index, len(products))
	for _, p := range products {
		if p.ID == "" {
			continue
		}
		index[p.ID] = p
	}
	return index
}

// Lookup returns the product for id
func (i Index) Lookup(id string) (Product, bool) {
	p, ok := i[id]
	return p, ok
}
