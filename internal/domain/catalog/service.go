// internal/domain/catalog/service.go
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// ErrConfirmationRequired is returned when a delete was not explicitly confirmed
var ErrConfirmationRequired = errors.New("deletion must be confirmed")

// Repository is the remote product store
type Repository interface {
	ListProducts(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	CreateProduct(ctx context.Context, token string, product Product) (*Product, error)
	UpdateProduct(ctx context.Context, token, id string, product Product) error
	DeleteProduct(ctx context.Context, token, id string) error
}

// Service handles product reads for the storefront and writes for admins
type Service struct {
	repo   Repository
	logger *logrus.Logger
}

// NewService creates a new catalog service
func NewService(repo Repository, logger *logrus.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// DeleteConfirmation describes the prompt shown before a product is deleted
type DeleteConfirmation struct {
	ProductID string `json:"product_id"`
	Prompt    string `json:"prompt"`
}

// ConfirmationPrompt returns the question asked before deleting a product
func ConfirmationPrompt(name string) string {
	return fmt.Sprintf("Are you sure you want to delete \"%s\"?", name)
}

// List returns every product
func (s *Service) List(ctx context.Context) ([]Product, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	if products == nil {
		products = []Product{}
	}
	return products, nil
}

// Featured returns up to limit products for the landing page
func (s *Service) Featured(ctx context.Context, limit int) ([]Product, error) {
	products, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(products) > limit {
		products = products[:limit]
	}
	return products, nil
}

// Get returns a single product
func (s *Service) Get(ctx context.Context, id string) (*Product, error) {
	product, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product: %w", err)
	}
	return product, nil
}

// GetProduct satisfies cart.ProductLookup
func (s *Service) GetProduct(ctx context.Context, id string) (*Product, error) {
	return s.Get(ctx, id)
}

// Index fetches the product list and builds a fresh lookup
func (s *Service) Index(ctx context.Context) (Index, error) {
	products, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return NewIndex(products), nil
}

// EditForm returns the admin form pre-populated from the product
func (s *Service) EditForm(ctx context.Context, id string) (*ProductInput, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	form := FormFromProduct(*product)
	return &form, nil
}

// Create adds a product
func (s *Service) Create(ctx context.Context, token string, input *ProductInput) (*Product, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	product, err := s.repo.CreateProduct(ctx, token, input.ToProduct())
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.WithField("product_id", product.ID).Info("Product created")
	return product, nil
}

// Update replaces a product
func (s *Service) Update(ctx context.Context, token, id string, input *ProductInput) error {
	if err := input.Validate(); err != nil {
		return err
	}

	if err := s.repo.UpdateProduct(ctx, token, id, input.ToProduct()); err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	s.logger.WithField("product_id", id).Info("Product updated")
	return nil
}

// Delete removes a product once confirmed. Unconfirmed calls return the
// prompt alongside ErrConfirmationRequired.
func (s *Service) Delete(ctx context.Context, token, id string, confirmed bool) (*DeleteConfirmation, error) {
	if !confirmed {
		product, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		return &DeleteConfirmation{
			ProductID: id,
			Prompt:    ConfirmationPrompt(product.Name),
		}, ErrConfirmationRequired
	}

	if err := s.repo.DeleteProduct(ctx, token, id); err != nil {
		return nil, fmt.Errorf("failed to delete product: %w", err)
	}

	s.logger.WithField("product_id", id).Info("Product deleted")
	return nil, nil
}
