// internal/domain/order/entity.go
package order

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/artiflora-storefront/internal/domain/catalog"
	"github.com/your-org/artiflora-storefront/internal/pkg/money"
)

// Status represents the order status
type Status string

const (
	StatusPending   Status = "Pending"
	StatusPaid      Status = "Paid"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
)

// AdminStatuses are the statuses an administrator may set by hand.
// Paid is only ever set by checkout.
var AdminStatuses = []Status{StatusPending, StatusCompleted, StatusCancelled}

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsAdminSettable reports whether an administrator may move an order to s
func (s Status) IsAdminSettable() bool {
	for _, allowed := range AdminStatuses {
		if s == allowed {
			return true
		}
	}
	return false
}

// Item is an immutable line reference inside a placed order
type Item struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Shipping holds the delivery details captured by the checkout form
type Shipping struct {
	Email       string `json:"email" binding:"omitempty,email"`
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name" binding:"required"`
	Address     string `json:"address" binding:"required"`
	City        string `json:"city" binding:"required"`
	State       string `json:"state" binding:"required"`
	Pincode     string `json:"pincode" binding:"required"`
	PhoneNumber string `json:"phone_number" binding:"required"`
	Message     string `json:"message,omitempty"`
}

// Order is a placed order as stored by the remote API
type Order struct {
	ID     string `json:"id,omitempty"`
	UserID string `json:"user_id"`
	Items  []Item `json:"items"`
	Shipping
	TotalPrice decimal.Decimal `json:"total_price"`
	Status     Status          `json:"status"`
	CreatedAt  *Timestamp      `json:"created_at,omitempty"`
}

// Timestamp is a server-assigned time. The API emits naive ISO-8601 values
// without a zone, which are read as UTC.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// UnmarshalJSON accepts RFC 3339 and naive timestamps
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", raw)
}

var (
	phonePattern   = regexp.MustCompile(`^[0-9]{10}$`)
	pincodePattern = regexp.MustCompile(`^[0-9]{6}$`)
)

// Validate checks the shipping form
func (s *Shipping) Validate() error {
	required := map[string]string{
		"email":      s.Email,
		"first name": s.FirstName,
		"last name":  s.LastName,
		"address":    s.Address,
		"city":       s.City,
		"state":      s.State,
	}
	for _, field := range []string{"email", "first name", "last name", "address", "city", "state"} {
		if strings.TrimSpace(required[field]) == "" {
			return fmt.Errorf("%s is required", field)
		}
	}
	if !phonePattern.MatchString(s.PhoneNumber) {
		return fmt.Errorf("phone number must be 10 digits")
	}
	if !pincodePattern.MatchString(s.Pincode) {
		return fmt.Errorf("pincode must be 6 digits")
	}
	return nil
}

// Validate checks the invariants of an order before it is created
func (o *Order) Validate() error {
	if o.UserID == "" {
		return fmt.Errorf("order has no owner")
	}
	if len(o.Items) == 0 {
		return fmt.Errorf("order must contain at least one item")
	}
	for _, item := range o.Items {
		if item.ProductID == "" {
			return fmt.Errorf("order item is missing a product id")
		}
		if item.Quantity < 1 {
			return fmt.Errorf("quantity for product %s must be at least 1", item.ProductID)
		}
	}
	if o.TotalPrice.IsNegative() {
		return fmt.Errorf("total price cannot be negative")
	}
	if !o.Status.IsValid() {
		return fmt.Errorf("unknown order status %q", o.Status)
	}
	return o.Shipping.Validate()
}

// IsListable reports whether the order carries the server-assigned fields the
// history view needs
func (o *Order) IsListable() bool {
	return o.ID != "" && o.CreatedAt != nil && !o.CreatedAt.IsZero()
}

// ShortID returns the first eight characters of the id for display
func (o *Order) ShortID() string {
	if len(o.ID) <= 8 {
		return o.ID
	}
	return o.ID[:8]
}

// Line is an order item resolved against the catalog
type Line struct {
	Item
	Product   *catalog.Product `json:"product,omitempty"`
	LineTotal *decimal.Decimal `json:"line_total,omitempty"`
}

// Lines resolves every item against the index; unknown products keep a nil
// Product so the view can render "Unknown Product"
func (o *Order) Lines(index catalog.Index) []Line {
	lines := make([]Line, 0, len(o.Items))
	for _, item := range o.Items {
		line := Line{Item: item}
		if p, ok := index.Lookup(item.ProductID); ok {
			product := p
			total := money.LineTotal(p.Price, item.Quantity)
			line.Product = &product
			line.LineTotal = &total
		}
		lines = append(lines, line)
	}
	return lines
}

// Products returns the known products of the order in item order
func (o *Order) Products(index catalog.Index) []catalog.Product {
	products := make([]catalog.Product, 0, len(o.Items))
	for _, item := range o.Items {
		if p, ok := index.Lookup(item.ProductID); ok {
			products = append(products, p)
		}
	}
	return products
}

// StatusUpdate is the body of PATCH /orders/{id}/status
type StatusUpdate struct {
	Status Status `json:"status" binding:"required"`
}
