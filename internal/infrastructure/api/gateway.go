// internal/infrastructure/api/gateway.go
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/your-org/artiflora-storefront/internal/domain/access"
	"github.com/your-org/artiflora-storefront/internal/domain/media"
	"github.com/your-org/artiflora-storefront/internal/domain/payment"
)

// Me returns the caller as the remote API sees them. A reply without an
// isAdmin flag is rejected.
func (c *Client) Me(ctx context.Context, token string) (*access.Principal, error) {
	var resp struct {
		UID     string `json:"uid"`
		Email   string `json:"email"`
		IsAdmin *bool  `json:"isAdmin"`
	}
	if err := c.call(ctx, http.MethodGet, "/auth/me", token, nil, &resp); err != nil {
		return nil, err
	}
	if resp.IsAdmin == nil {
		return nil, fmt.Errorf("malformed /auth/me response: missing isAdmin")
	}

	return &access.Principal{
		UID:     resp.UID,
		Email:   resp.Email,
		IsAdmin: *resp.IsAdmin,
	}, nil
}

// CreatePaymentOrder asks the remote API for a gateway order handle. The API
// reports gateway failures as {"error": "..."} with a 2xx status.
func (c *Client) CreatePaymentOrder(ctx context.Context, token string, amount int64) (*payment.Order, error) {
	var resp struct {
		payment.Order
		Error string `json:"error"`
	}
	body := map[string]int64{"amount": amount}
	if err := c.call(ctx, http.MethodPost, "/razorpay/create-order", token, body, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, &Error{StatusCode: http.StatusOK, Detail: resp.Error}
	}
	if resp.OrderID == "" {
		return nil, fmt.Errorf("gateway order response has no order id")
	}
	return &resp.Order, nil
}

// VerifyPayment submits the payment proof and returns the reported status
func (c *Client) VerifyPayment(ctx context.Context, token string, proof payment.Proof) (string, error) {
	var resp struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	}
	if err := c.call(ctx, http.MethodPost, "/razorpay/verify-payment", token, proof, &resp); err != nil {
		return "", err
	}
	if resp.Error != "" {
		return "", &Error{StatusCode: http.StatusOK, Detail: resp.Error}
	}
	return resp.Status, nil
}

// ImageKitAuth returns media upload credentials
func (c *Client) ImageKitAuth(ctx context.Context) (*media.AuthParams, error) {
	var params media.AuthParams
	if err := c.call(ctx, http.MethodGet, "/imagekit-auth", "", nil, &params); err != nil {
		return nil, err
	}
	return &params, nil
}

// Gateway adapts the client to payment.Gateway
func (c *Client) Gateway() payment.Gateway {
	return gatewayAdapter{c}
}

type gatewayAdapter struct {
	client *Client
}

func (g gatewayAdapter) CreateOrder(ctx context.Context, token string, amount int64) (*payment.Order, error) {
	return g.client.CreatePaymentOrder(ctx, token, amount)
}

func (g gatewayAdapter) VerifyPayment(ctx context.Context, token string, proof payment.Proof) (string, error) {
	return g.client.VerifyPayment(ctx, token, proof)
}
