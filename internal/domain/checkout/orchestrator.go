// internal/domain/checkout/orchestrator.go
package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/artiflora-storefront/internal/config"
	"github.com/your-org/artiflora-storefront/internal/domain/cart"
	"github.com/your-org/artiflora-storefront/internal/domain/identity"
	"github.com/your-org/artiflora-storefront/internal/domain/order"
	"github.com/your-org/artiflora-storefront/internal/domain/payment"
	"github.com/your-org/artiflora-storefront/internal/pkg/money"
)

// State is a step of the checkout handshake
type State string

const (
	StateIdle                   State = "Idle"
	StateValidatingSession      State = "ValidatingSession"
	StateAwaitingPaymentWidget  State = "AwaitingPaymentWidget"
	StateAwaitingPaymentCapture State = "AwaitingPaymentCapture"
	StateVerifyingPayment       State = "VerifyingPayment"
	StatePersistingOrder        State = "PersistingOrder"
	StateCompleted              State = "Completed"
)

// Paths the checkout flow sends the browser to
const (
	LoginPath  = "/login"
	ReturnPath = "/order"
)

// Messages shown on the checkout page
const (
	MessageSessionInvalid      = "Your session could not be validated. Please try logging in again."
	MessageGatewayUnavailable  = "Failed to load payment gateway. Please try again."
	MessageVerificationFailed  = "Payment verification failed"
	MessagePaymentUnrecorded   = "Payment verification or order placement failed."
	MessageOrderPlaced         = "Payment successful! Your order has been placed."
	MessageEmptyCart           = "Your Cart is Empty"
	MessageGenericCreateFailed = "An error occurred."
)

var (
	ErrCheckoutInProgress        = errors.New("checkout already in progress")
	ErrNotAuthenticated          = errors.New("sign in required")
	ErrSessionInvalid            = errors.New("session could not be validated")
	ErrEmptyCart                 = errors.New("cart is empty")
	ErrGatewayUnavailable        = errors.New("payment gateway unavailable")
	ErrPaymentVerificationFailed = errors.New("payment verification failed")
	ErrPaymentUnrecorded         = errors.New("payment captured but order not recorded")
	ErrNoPendingPayment          = errors.New("no payment is awaiting capture")
	ErrInvalidShipping           = errors.New("invalid shipping details")
)

// Cart is the basket being checked out
type Cart interface {
	Items() []cart.Item
	Total() decimal.Decimal
	IsEmpty() bool
	Clear(ctx context.Context) error
}

// Session is the identity of the shopper
type Session interface {
	Current() *identity.Identity
	Token(ctx context.Context) (string, error)
}

// WidgetLoader makes the payment widget available to the page
type WidgetLoader interface {
	Load(ctx context.Context) (payment.Script, error)
}

// OrderWriter records placed orders
type OrderWriter interface {
	Create(ctx context.Context, token string, o order.Order) (*order.Order, error)
}

// Redirect is a delayed navigation shown after a completed checkout
type Redirect struct {
	To    string        `json:"to"`
	After time.Duration `json:"after_ms"`
}

// MarshalJSON renders the delay in milliseconds
func (r Redirect) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf(`{"to":%q,"after_ms":%d}`, r.To, r.After.Milliseconds())), nil
}

// View is the checkout page state
type View struct {
	State    State                  `json:"state"`
	Error    string                 `json:"error,omitempty"`
	Success  string                 `json:"success,omitempty"`
	Redirect *Redirect              `json:"redirect,omitempty"`
	Widget   *payment.WidgetOptions `json:"widget,omitempty"`
	Order    *order.Order           `json:"order,omitempty"`
}

// AuthRequiredError sends the shopper to sign in and back to checkout
type AuthRequiredError struct {
	LoginPath  string
	ReturnPath string
}

func (e *AuthRequiredError) Error() string {
	return ErrNotAuthenticated.Error()
}

// Unwrap lets callers match ErrNotAuthenticated
func (e *AuthRequiredError) Unwrap() error {
	return ErrNotAuthenticated
}

// pending is what the success continuation of an open widget needs
type pending struct {
	session  Session
	user     identity.Identity
	items    []cart.Item
	total    decimal.Decimal
	shipping order.Shipping
	gateway  payment.Order
	widget   payment.WidgetOptions
}

// Orchestrator runs the checkout handshake for one browser: validate the
// session, load the widget, create the gateway order, wait for capture,
// verify the payment and record the order.
type Orchestrator struct {
	loader  WidgetLoader
	gateway payment.Gateway
	orders  OrderWriter
	config  *config.Config
	logger  *logrus.Logger

	mu      sync.Mutex
	state   State
	pending *pending
	view    View
}

// NewOrchestrator creates an idle orchestrator
func NewOrchestrator(loader WidgetLoader, gateway payment.Gateway, orders OrderWriter, cfg *config.Config, logger *logrus.Logger) *Orchestrator {
	return &Orchestrator{
		loader:  loader,
		gateway: gateway,
		orders:  orders,
		config:  cfg,
		logger:  logger,
		state:   StateIdle,
		view:    View{State: StateIdle},
	}
}

// State returns the current step
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// View returns a snapshot of the checkout page state
func (o *Orchestrator) View() View {
	o.mu.Lock()
	defer o.mu.Unlock()
	view := o.view
	view.State = o.state
	if o.pending != nil && o.state == StateAwaitingPaymentCapture {
		widget := o.pending.widget
		view.Widget = &widget
	}
	return view
}

// Submit starts a checkout and returns the options for opening the payment
// widget. A checkout that is already under way is rejected.
func (o *Orchestrator) Submit(ctx context.Context, session Session, basket Cart, shipping order.Shipping) (*payment.WidgetOptions, error) {
	o.mu.Lock()
	if o.state != StateIdle && o.state != StateCompleted {
		o.mu.Unlock()
		return nil, ErrCheckoutInProgress
	}
	o.pending = nil
	o.view = View{}
	o.transition(StateValidatingSession)
	o.mu.Unlock()

	user := session.Current()
	if user == nil {
		return nil, o.fail(&AuthRequiredError{LoginPath: LoginPath, ReturnPath: ReturnPath}, "")
	}

	token, err := session.Token(ctx)
	if err != nil {
		return nil, o.fail(fmt.Errorf("%w: %v", ErrSessionInvalid, err), MessageSessionInvalid)
	}

	if basket.IsEmpty() {
		return nil, o.fail(ErrEmptyCart, MessageEmptyCart)
	}

	if shipping.Email == "" {
		shipping.Email = user.Email
	}
	if err := shipping.Validate(); err != nil {
		return nil, o.fail(fmt.Errorf("%w: %w", ErrInvalidShipping, err), err.Error())
	}

	o.setState(StateAwaitingPaymentWidget)
	script, err := o.loader.Load(ctx)
	if err != nil {
		return nil, o.fail(fmt.Errorf("%w: %v", ErrGatewayUnavailable, err), MessageGatewayUnavailable)
	}

	items := basket.Items()
	total := basket.Total()
	amount := money.MinorUnits(total)

	o.logger.WithFields(logrus.Fields{
		"uid":          user.UID,
		"amount":       amount,
		"total_source": "client",
	}).Info("Creating gateway order")

	gatewayOrder, err := o.gateway.CreateOrder(ctx, token, amount)
	if err != nil {
		message := err.Error()
		if message == "" {
			message = MessageGenericCreateFailed
		}
		return nil, o.fail(fmt.Errorf("failed to create gateway order: %w", err), message)
	}

	widget := payment.NewWidgetOptions(o.config, gatewayOrder, script, payment.Prefill{
		Email:   shipping.Email,
		Contact: shipping.PhoneNumber,
	})

	o.mu.Lock()
	o.pending = &pending{
		session:  session,
		user:     *user,
		items:    items,
		total:    total,
		shipping: shipping,
		gateway:  *gatewayOrder,
		widget:   widget,
	}
	o.transition(StateAwaitingPaymentCapture)
	o.mu.Unlock()

	return &widget, nil
}

// CompletePayment is the success continuation of the payment widget. It
// verifies the proof and records the order; the payment itself is never
// retried.
func (o *Orchestrator) CompletePayment(ctx context.Context, basket Cart, proof payment.Proof) (*View, error) {
	o.mu.Lock()
	if o.state != StateAwaitingPaymentCapture || o.pending == nil {
		o.mu.Unlock()
		return nil, ErrNoPendingPayment
	}
	p := o.pending
	o.transition(StateVerifyingPayment)
	o.mu.Unlock()

	token, err := p.session.Token(ctx)
	if err != nil {
		return nil, o.unrecorded(p, proof, err, MessagePaymentUnrecorded)
	}

	status, err := o.gateway.VerifyPayment(ctx, token, proof)
	if err != nil {
		return nil, o.unrecorded(p, proof, err, err.Error())
	}
	if status != payment.VerifiedStatus {
		return nil, o.unrecorded(p, proof, ErrPaymentVerificationFailed, MessageVerificationFailed)
	}

	o.setState(StatePersistingOrder)

	placed := order.Order{
		UserID:     p.user.UID,
		Items:      orderItems(p.items),
		Shipping:   p.shipping,
		TotalPrice: p.total,
		Status:     order.StatusPaid,
	}
	created, err := o.orders.Create(ctx, token, placed)
	if err != nil {
		return nil, o.unrecorded(p, proof, err, err.Error())
	}

	if err := basket.Clear(ctx); err != nil {
		o.logger.WithError(err).WithField("uid", p.user.UID).Warn("Order placed but cart could not be cleared")
	}

	o.logger.WithFields(logrus.Fields{
		"uid":        p.user.UID,
		"order_id":   created.ID,
		"payment_id": proof.PaymentID,
	}).Info("Order placed")

	o.mu.Lock()
	o.pending = nil
	o.view = View{
		Success:  MessageOrderPlaced,
		Redirect: &Redirect{To: o.config.Checkout.RedirectTarget, After: o.config.Checkout.RedirectDelay},
		Order:    created,
	}
	o.transition(StateCompleted)
	view := o.view
	view.State = o.state
	o.mu.Unlock()

	return &view, nil
}

// Abandon handles the widget being closed without a payment. It reports
// whether a pending checkout was abandoned.
func (o *Orchestrator) Abandon() bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state != StateAwaitingPaymentCapture {
		return false
	}
	o.pending = nil
	o.view = View{}
	o.transition(StateIdle)
	return true
}

// Reset returns a completed checkout to Idle once its result was shown
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state != StateCompleted {
		return
	}
	o.view = View{}
	o.transition(StateIdle)
}

func (o *Orchestrator) busy() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state != StateIdle && o.state != StateCompleted && o.state != StateAwaitingPaymentCapture
}

func (o *Orchestrator) setState(state State) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.transition(state)
}

// transition must be called with o.mu held
func (o *Orchestrator) transition(state State) {
	o.logger.WithFields(logrus.Fields{
		"from": o.state,
		"to":   state,
	}).Debug("Checkout state changed")
	o.state = state
}

func (o *Orchestrator) fail(err error, message string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.pending = nil
	o.view = View{Error: message}
	o.transition(StateIdle)
	return err
}

func (o *Orchestrator) unrecorded(p *pending, proof payment.Proof, cause error, message string) error {
	o.logger.WithError(cause).WithFields(logrus.Fields{
		"uid":              p.user.UID,
		"payment_id":       proof.PaymentID,
		"gateway_order_id": p.gateway.OrderID,
		"amount":           p.gateway.Amount,
	}).Error("Payment captured but order not recorded, reconcile manually")

	if message == "" {
		message = MessagePaymentUnrecorded
	}
	return o.fail(fmt.Errorf("%w: %w", ErrPaymentUnrecorded, cause), message)
}

func orderItems(items []cart.Item) []order.Item {
	out := make([]order.Item, 0, len(items))
	for _, item := range items {
		out = append(out, order.Item{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return out
}
