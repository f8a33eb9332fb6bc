// internal/domain/order/service.go
package order

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/your-org/artiflora-storefront/internal/domain/catalog"
)

// ErrStatusNotAllowed is returned when an admin tries to set a status
// reserved for checkout
var ErrStatusNotAllowed = errors.New("status cannot be set by an administrator")

// Repository is the remote order store
type Repository interface {
	MyOrders(ctx context.Context, token string) ([]Order, error)
	AllOrders(ctx context.Context, token string) ([]Order, error)
	GetOrder(ctx context.Context, token, id string) (*Order, error)
	CreateOrder(ctx context.Context, token string, order Order) (*Order, error)
	UpdateOrderStatus(ctx context.Context, token, id string, status Status) error
}

// ProductSource lists the catalog so order items can be resolved
type ProductSource interface {
	List(ctx context.Context) ([]catalog.Product, error)
}

// Service handles order history, order details and admin order management
type Service struct {
	repo     Repository
	products ProductSource
	logger   *logrus.Logger
}

// NewService creates a new order service
func NewService(repo Repository, products ProductSource, logger *logrus.Logger) *Service {
	return &Service{
		repo:     repo,
		products: products,
		logger:   logger,
	}
}

// Summary is an order together with the products it references
type Summary struct {
	Order
	Products []catalog.Product `json:"products"`
	Lines    []Line            `json:"lines"`
}

// Details is a single order resolved against the catalog
type Details struct {
	Order Order  `json:"order"`
	Lines []Line `json:"lines"`
}

// AdminView is every order plus the product lookup used to render them
type AdminView struct {
	Orders        []Order       `json:"orders"`
	Products      catalog.Index `json:"products"`
	StatusOptions []Status      `json:"status_options"`
}

// History returns the caller's orders. Orders and products are fetched
// concurrently and merged once both have resolved; orders missing
// server-assigned fields are left out.
func (s *Service) History(ctx context.Context, token string) ([]Summary, error) {
	orders, index, err := s.fetchWithProducts(ctx, func(ctx context.Context) ([]Order, error) {
		return s.repo.MyOrders(ctx, token)
	})
	if err != nil {
		return nil, err
	}

	summaries := make([]Summary, 0, len(orders))
	for _, o := range orders {
		if !o.IsListable() {
			continue
		}
		summaries = append(summaries, Summary{
			Order:    o,
			Products: o.Products(index),
			Lines:    o.Lines(index),
		})
	}
	return summaries, nil
}

// Details returns one order with its lines resolved
func (s *Service) Details(ctx context.Context, token, id string) (*Details, error) {
	orders, index, err := s.fetchWithProducts(ctx, func(ctx context.Context) ([]Order, error) {
		o, err := s.repo.GetOrder(ctx, token, id)
		if err != nil {
			return nil, err
		}
		return []Order{*o}, nil
	})
	if err != nil {
		return nil, err
	}

	o := orders[0]
	return &Details{Order: o, Lines: o.Lines(index)}, nil
}

// AdminOrders returns every order for the admin dashboard
func (s *Service) AdminOrders(ctx context.Context, token string) (*AdminView, error) {
	orders, index, err := s.fetchWithProducts(ctx, func(ctx context.Context) ([]Order, error) {
		return s.repo.AllOrders(ctx, token)
	})
	if err != nil {
		return nil, err
	}
	return &AdminView{
		Orders:        orders,
		Products:      index,
		StatusOptions: AdminStatuses,
	}, nil
}

// UpdateStatus changes the status of an order on behalf of an admin
func (s *Service) UpdateStatus(ctx context.Context, token, id string, status Status) error {
	if !status.IsAdminSettable() {
		return fmt.Errorf("%w: %q", ErrStatusNotAllowed, status)
	}

	if err := s.repo.UpdateOrderStatus(ctx, token, id, status); err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"order_id": id,
		"status":   status,
	}).Info("Order status updated")
	return nil
}

// Create validates and records a new order
func (s *Service) Create(ctx context.Context, token string, o Order) (*Order, error) {
	if err := o.Validate(); err != nil {
		return nil, fmt.Errorf("invalid order: %w", err)
	}

	created, err := s.repo.CreateOrder(ctx, token, o)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	return created, nil
}

func (s *Service) fetchWithProducts(ctx context.Context, fetch func(context.Context) ([]Order, error)) ([]Order, catalog.Index, error) {
	var (
		wg          sync.WaitGroup
		orders      []Order
		products    []catalog.Product
		ordersErr   error
		productsErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		orders, ordersErr = fetch(ctx)
	}()
	go func() {
		defer wg.Done()
		products, productsErr = s.products.List(ctx)
	}()
	wg.Wait()

	if ordersErr != nil {
		return nil, nil, fmt.Errorf("failed to fetch orders: %w", ordersErr)
	}
	if productsErr != nil {
		return nil, nil, fmt.Errorf("failed to fetch products: %w", productsErr)
	}
	if orders == nil {
		orders = []Order{}
	}
	return orders, catalog.NewIndex(products), nil
}
