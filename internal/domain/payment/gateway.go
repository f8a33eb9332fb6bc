// internal/domain/payment/gateway.go
package payment

import (
	"context"

	"github.com/your-org/artiflora-storefront/internal/config"
)

// VerifiedStatus is the exact status the remote API reports for a valid
// payment signature
const VerifiedStatus = "Payment signature verified"

// Currency is the only currency the gateway is used with
const Currency = "INR"

// Order is the gateway order handle created by the remote API
type Order struct {
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// Proof is what the payment widget hands back after a successful capture
type Proof struct {
	PaymentID string `json:"razorpay_payment_id" binding:"required"`
	OrderID   string `json:"razorpay_order_id" binding:"required"`
	Signature string `json:"razorpay_signature" binding:"required"`
}

// Gateway is the server side of the payment handshake, reached through the
// remote API
type Gateway interface {
	CreateOrder(ctx context.Context, token string, amount int64) (*Order, error)
	VerifyPayment(ctx context.Context, token string, proof Proof) (string, error)
}

// Prefill pre-populates the widget form
type Prefill struct {
	Email   string `json:"email,omitempty"`
	Contact string `json:"contact,omitempty"`
}

// Theme styles the widget
type Theme struct {
	Color string `json:"color"`
}

// WidgetOptions is everything the browser needs to open the payment widget
type WidgetOptions struct {
	Key         string  `json:"key"`
	Amount      int64   `json:"amount"`
	Currency    string  `json:"currency"`
	OrderID     string  `json:"order_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Prefill     Prefill `json:"prefill"`
	Theme       Theme   `json:"theme"`
	Script      Script  `json:"script"`
}

// NewWidgetOptions builds the widget options for a gateway order
func NewWidgetOptions(cfg *config.Config, order *Order, script Script, prefill Prefill) WidgetOptions {
	currency := order.Currency
	if currency == "" {
		currency = Currency
	}
	return WidgetOptions{
		Key:         cfg.Razorpay.KeyID,
		Amount:      order.Amount,
		Currency:    currency,
		OrderID:     order.OrderID,
		Name:        cfg.Razorpay.MerchantName,
		Description: cfg.Razorpay.Description,
		Prefill:     prefill,
		Theme:       Theme{Color: cfg.Razorpay.ThemeColor},
		Script:      script,
	}
}
