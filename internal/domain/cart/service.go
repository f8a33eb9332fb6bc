// internal/domain/cart/service.go
package cart

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/artiflora-storefront/internal/domain/catalog"
)

// ProductLookup resolves a product so its details can be snapshotted into the cart
type ProductLookup interface {
	GetProduct(ctx context.Context, id string) (*catalog.Product, error)
}

// StorageFactory returns the durable storage for one browser session
type StorageFactory func(sessionID string) Storage

// Service opens per-session cart stores and applies cart operations
type Service struct {
	storage  StorageFactory
	products ProductLookup
	logger   *logrus.Logger
}

// NewService creates a new cart service
func NewService(storage StorageFactory, products ProductLookup, logger *logrus.Logger) *Service {
	return &Service{
		storage:  storage,
		products: products,
		logger:   logger,
	}
}

// CartResponse represents the cart with its summary
type CartResponse struct {
	Items  []Item `json:"items"`
	Totals Totals `json:"totals"`
}

// AddToCartRequest represents add to cart request
type AddToCartRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"omitempty,min=1,max=10000"`
}

// UpdateCartItemRequest represents update cart item request
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// Open rehydrates the cart of a session for mutation. Storage failures are
// returned as ErrUnavailable.
func (s *Service) Open(ctx context.Context, sessionID string) (*Store, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session ID required for cart")
	}

	store, err := Open(ctx, s.storage(sessionID))
	if err != nil {
		s.logger.WithError(err).WithField("session_id", sessionID).Warn("Cart could not be rehydrated")
		return nil, err
	}
	return store, nil
}

// GetCart returns the cart of a session. An unreadable cart is shown empty.
func (s *Service) GetCart(ctx context.Context, sessionID string) (*CartResponse, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session ID required for cart")
	}

	store, err := Open(ctx, s.storage(sessionID))
	if err != nil {
		s.logger.WithError(err).WithField("session_id", sessionID).Warn("Cart could not be rehydrated, showing it empty")
	}
	return respond(store), nil
}

// AddToCart snapshots the product and merges it into the cart
func (s *Service) AddToCart(ctx context.Context, sessionID string, req *AddToCartRequest) (*CartResponse, error) {
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1")
	}
	if quantity > MaxQuantity {
		return nil, ErrQuantityTooLarge
	}

	product, err := s.products.GetProduct(ctx, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	store, err := s.Open(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := store.Add(ctx, ItemFromProduct(*product), quantity); err != nil {
		return nil, err
	}
	return respond(store), nil
}

// UpdateCartItem sets the quantity of a cart row
func (s *Service) UpdateCartItem(ctx context.Context, sessionID, productID string, req *UpdateCartItemRequest) (*CartResponse, error) {
	store, err := s.Open(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := store.UpdateQuantity(ctx, productID, req.Quantity); err != nil {
		return nil, err
	}
	return respond(store), nil
}

// RemoveFromCart removes a product from the cart
func (s *Service) RemoveFromCart(ctx context.Context, sessionID, productID string) (*CartResponse, error) {
	store, err := s.Open(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := store.Remove(ctx, productID); err != nil {
		return nil, err
	}
	return respond(store), nil
}

// ClearCart empties the cart
func (s *Service) ClearCart(ctx context.Context, sessionID string) error {
	store, err := s.Open(ctx, sessionID)
	if err != nil {
		return err
	}
	return store.Clear(ctx)
}

func respond(store *Store) *CartResponse {
	items := store.Items()
	return &CartResponse{
		Items:  items,
		Totals: CalculateTotals(items),
	}
}
