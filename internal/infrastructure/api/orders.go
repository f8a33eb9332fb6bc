// internal/infrastructure/api/orders.go
package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/your-org/artiflora-storefront/internal/domain/order"
)

// MyOrders returns the orders of the token's owner
func (c *Client) MyOrders(ctx context.Context, token string) ([]order.Order, error) {
	var orders []order.Order
	if err := c.call(ctx, http.MethodGet, "/orders/me", token, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// AllOrders returns every order; admin only
func (c *Client) AllOrders(ctx context.Context, token string) ([]order.Order, error) {
	var orders []order.Order
	if err := c.call(ctx, http.MethodGet, "/orders", token, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrder returns one order
func (c *Client) GetOrder(ctx context.Context, token, id string) (*order.Order, error) {
	var o order.Order
	if err := c.call(ctx, http.MethodGet, "/orders/"+url.PathEscape(id), token, nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// CreateOrder records a placed order
func (c *Client) CreateOrder(ctx context.Context, token string, o order.Order) (*order.Order, error) {
	o.ID = ""
	o.CreatedAt = nil
	created := o
	if err := c.call(ctx, http.MethodPost, "/orders", token, o, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateOrderStatus changes the status of an order; admin only
func (c *Client) UpdateOrderStatus(ctx context.Context, token, id string, status order.Status) error {
	return c.call(ctx, http.MethodPatch, "/orders/"+url.PathEscape(id)+"/status", token, order.StatusUpdate{Status: status}, nil)
}
