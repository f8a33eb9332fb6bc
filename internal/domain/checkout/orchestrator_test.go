package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/artiflora-storefront/internal/config"
	"github.com/your-org/artiflora-storefront/internal/domain/cart"
	"github.com/your-org/artiflora-storefront/internal/domain/identity"
	"github.com/your-org/artiflora-storefront/internal/domain/order"
	"github.com/your-org/artiflora-storefront/internal/domain/payment"
	"github.com/your-org/artiflora-storefront/internal/pkg/logger"
)

type fakeSession struct {
	user     *identity.Identity
	tokenErr error
}

func (f *fakeSession) Current() *identity.Identity { return f.user }

func (f *fakeSession) Token(ctx context.Context) (string, error) {
	if f.tokenErr != nil {
		return "", f.tokenErr
	}
	return "id-token", nil
}

type fakeLoader struct {
	err   error
	calls int
}

func (f *fakeLoader) Load(ctx context.Context) (payment.Script, error) {
	f.calls++
	if f.err != nil {
		return payment.Script{}, f.err
	}
	return payment.Script{ID: payment.ScriptElementID, Src: "https://checkout.example/checkout.js"}, nil
}

type fakeGateway struct {
	mu          sync.Mutex
	amounts     []int64
	createErr   error
	status      string
	verifyErr   error
	verifyCalls int
	block       chan struct{}
	entered     chan struct{}
}

func (f *fakeGateway) CreateOrder(ctx context.Context, token string, amount int64) (*payment.Order, error) {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.amounts = append(f.amounts, amount)
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &payment.Order{OrderID: "order_1", Amount: amount, Currency: "INR"}, nil
}

func (f *fakeGateway) VerifyPayment(ctx context.Context, token string, proof payment.Proof) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verifyCalls++
	return f.status, f.verifyErr
}

type fakeOrders struct {
	created []order.Order
	err     error
}

func (f *fakeOrders) Create(ctx context.Context, token string, o order.Order) (*order.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, o)
	o.ID = "o1"
	return &o, nil
}

type harness struct {
	orchestrator *Orchestrator
	session      *fakeSession
	basket       *cart.Store
	loader       *fakeLoader
	gateway      *fakeGateway
	orders       *fakeOrders
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()

	basket, err := cart.Open(ctx, cart.NewMemoryStorage(nil))
	require.NoError(t, err)
	require.NoError(t, basket.Add(ctx, cart.Item{ProductID: "p1", Name: "Vase", Price: decimal.NewFromInt(100)}, 2))
	require.NoError(t, basket.Add(ctx, cart.Item{ProductID: "p2", Name: "Bowl", Price: decimal.NewFromInt(50)}, 1))

	cfg := &config.Config{
		Razorpay: config.RazorpayConfig{KeyID: "rzp_test", MerchantName: "Artiflora", ThemeColor: "#E11D48"},
		Checkout: config.CheckoutConfig{RedirectDelay: 3 * time.Second, RedirectTarget: "/disp"},
	}

	h := &harness{
		session: &fakeSession{user: &identity.Identity{UID: "u1", Email: "asha@example.com"}},
		basket:  basket,
		loader:  &fakeLoader{},
		gateway: &fakeGateway{status: payment.VerifiedStatus},
		orders:  &fakeOrders{},
	}
	h.orchestrator = NewOrchestrator(h.loader, h.gateway, h.orders, cfg, logger.Discard())
	return h
}

func shipping() order.Shipping {
	return order.Shipping{
		FirstName:   "Asha",
		LastName:    "Rao",
		Address:     "12 Temple Road",
		City:        "Mysuru",
		State:       "Karnataka",
		Pincode:     "570001",
		PhoneNumber: "9876543210",
	}
}

func proof() payment.Proof {
	return payment.Proof{PaymentID: "pay_1", OrderID: "order_1", Signature: "sig"}
}

func TestSubmitRequestsMinorUnitAmount(t *testing.T) {
	h := newHarness(t)

	widget, err := h.orchestrator.Submit(context.Background(), h.session, h.basket, shipping())
	require.NoError(t, err)

	assert.Equal(t, []int64{25000}, h.gateway.amounts)
	assert.Equal(t, int64(25000), widget.Amount)
	assert.Equal(t, "order_1", widget.OrderID)
	assert.Equal(t, "asha@example.com", widget.Prefill.Email)
	assert.Equal(t, "9876543210", widget.Prefill.Contact)
	assert.Equal(t, StateAwaitingPaymentCapture, h.orchestrator.State())

	view := h.orchestrator.View()
	require.NotNil(t, view.Widget)
	assert.Equal(t, "order_1", view.Widget.OrderID)
}

func TestCompletePaymentPlacesOrder(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.orchestrator.Submit(ctx, h.session, h.basket, shipping())
	require.NoError(t, err)

	view, err := h.orchestrator.CompletePayment(ctx, h.basket, proof())
	require.NoError(t, err)

	assert.Equal(t, StateCompleted, view.State)
	assert.Equal(t, MessageOrderPlaced, view.Success)
	require.NotNil(t, view.Redirect)
	assert.Equal(t, "/disp", view.Redirect.To)
	assert.Equal(t, 3*time.Second, view.Redirect.After)

	require.Len(t, h.orders.created, 1)
	placed := h.orders.created[0]
	assert.Equal(t, "u1", placed.UserID)
	assert.Equal(t, order.StatusPaid, placed.Status)
	assert.True(t, placed.TotalPrice.Equal(decimal.NewFromInt(250)))
	assert.Equal(t, []order.Item{{ProductID: "p1", Quantity: 2}, {ProductID: "p2", Quantity: 1}}, placed.Items)
	assert.Equal(t, "asha@example.com", placed.Email)

	assert.True(t, h.basket.IsEmpty())

	data, err := json.Marshal(view.Redirect)
	require.NoError(t, err)
	assert.JSONEq(t, `{"to":"/disp","after_ms":3000}`, string(data))

	h.orchestrator.Reset()
	assert.Equal(t, StateIdle, h.orchestrator.State())
}

func TestNoOrderWithoutVerifiedSentinel(t *testing.T) {
	for name, gateway := range map[string]*fakeGateway{
		"invalid signature": {status: "Invalid signature"},
		"close but wrong":   {status: "payment signature verified"},
		"server error":      {verifyErr: errors.New("boom")},
	} {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t)
			h.gateway = gateway
			h.orchestrator.gateway = gateway
			ctx := context.Background()

			_, err := h.orchestrator.Submit(ctx, h.session, h.basket, shipping())
			require.NoError(t, err)

			_, err = h.orchestrator.CompletePayment(ctx, h.basket, proof())
			require.ErrorIs(t, err, ErrPaymentUnrecorded)
			assert.Empty(t, h.orders.created)
			assert.Equal(t, StateIdle, h.orchestrator.State())
			assert.False(t, h.basket.IsEmpty())
			assert.NotEmpty(t, h.orchestrator.View().Error)
		})
	}
}

func TestVerificationFailureMessage(t *testing.T) {
	h := newHarness(t)
	h.gateway.status = "Invalid signature"
	ctx := context.Background()

	_, err := h.orchestrator.Submit(ctx, h.session, h.basket, shipping())
	require.NoError(t, err)
	_, err = h.orchestrator.CompletePayment(ctx, h.basket, proof())
	assert.ErrorIs(t, err, ErrPaymentVerificationFailed)
	assert.Equal(t, MessageVerificationFailed, h.orchestrator.View().Error)
}

func TestPersistFailureIsNotRetried(t *testing.T) {
	h := newHarness(t)
	h.orders.err = errors.New("Internal Server Error")
	ctx := context.Background()

	_, err := h.orchestrator.Submit(ctx, h.session, h.basket, shipping())
	require.NoError(t, err)

	_, err = h.orchestrator.CompletePayment(ctx, h.basket, proof())
	require.ErrorIs(t, err, ErrPaymentUnrecorded)
	assert.Equal(t, "Internal Server Error", h.orchestrator.View().Error)
	assert.Equal(t, 1, h.gateway.verifyCalls)

	_, err = h.orchestrator.CompletePayment(ctx, h.basket, proof())
	assert.ErrorIs(t, err, ErrNoPendingPayment)
	assert.Equal(t, 1, h.gateway.verifyCalls)
	assert.Len(t, h.gateway.amounts, 1)
}

func TestConcurrentSubmitIsRejected(t *testing.T) {
	h := newHarness(t)
	h.gateway.block = make(chan struct{})
	h.gateway.entered = make(chan struct{}, 1)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := h.orchestrator.Submit(ctx, h.session, h.basket, shipping())
		done <- err
	}()

	<-h.gateway.entered
	_, err := h.orchestrator.Submit(ctx, h.session, h.basket, shipping())
	assert.ErrorIs(t, err, ErrCheckoutInProgress)

	close(h.gateway.block)
	require.NoError(t, <-done)

	_, err = h.orchestrator.Submit(ctx, h.session, h.basket, shipping())
	assert.ErrorIs(t, err, ErrCheckoutInProgress)
	assert.Len(t, h.gateway.amounts, 1)
}

func TestSubmitWithoutIdentityRedirectsToLogin(t *testing.T) {
	h := newHarness(t)
	h.session.user = nil

	_, err := h.orchestrator.Submit(context.Background(), h.session, h.basket, shipping())
	require.ErrorIs(t, err, ErrNotAuthenticated)

	var authErr *AuthRequiredError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "/login", authErr.LoginPath)
	assert.Equal(t, "/order", authErr.ReturnPath)
	assert.Equal(t, StateIdle, h.orchestrator.State())
	assert.Equal(t, 0, h.loader.calls)
}

func TestSubmitWithBrokenSession(t *testing.T) {
	h := newHarness(t)
	h.session.tokenErr = errors.New("TOKEN_EXPIRED")

	_, err := h.orchestrator.Submit(context.Background(), h.session, h.basket, shipping())
	require.ErrorIs(t, err, ErrSessionInvalid)
	assert.Equal(t, MessageSessionInvalid, h.orchestrator.View().Error)
}

func TestSubmitWithEmptyCart(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.basket.Clear(context.Background()))

	_, err := h.orchestrator.Submit(context.Background(), h.session, h.basket, shipping())
	require.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, 0, h.loader.calls)
	assert.Empty(t, h.gateway.amounts)
}

func TestSubmitRejectsInvalidShipping(t *testing.T) {
	h := newHarness(t)
	bad := shipping()
	bad.PhoneNumber = "123"

	_, err := h.orchestrator.Submit(context.Background(), h.session, h.basket, bad)
	assert.ErrorIs(t, err, ErrInvalidShipping)
	assert.Equal(t, StateIdle, h.orchestrator.State())
	assert.Equal(t, "phone number must be 10 digits", h.orchestrator.View().Error)
	assert.Empty(t, h.gateway.amounts)
}

func TestWidgetLoadFailureIsRetryable(t *testing.T) {
	h := newHarness(t)
	h.loader.err = errors.New("blocked")
	ctx := context.Background()

	_, err := h.orchestrator.Submit(ctx, h.session, h.basket, shipping())
	require.ErrorIs(t, err, ErrGatewayUnavailable)
	assert.Equal(t, MessageGatewayUnavailable, h.orchestrator.View().Error)
	assert.Equal(t, StateIdle, h.orchestrator.State())

	h.loader.err = nil
	_, err = h.orchestrator.Submit(ctx, h.session, h.basket, shipping())
	assert.NoError(t, err)
}

func TestCreateOrderErrorSurfacesVerbatim(t *testing.T) {
	h := newHarness(t)
	h.gateway.createErr = errors.New("Authentication failed")

	_, err := h.orchestrator.Submit(context.Background(), h.session, h.basket, shipping())
	require.Error(t, err)
	assert.Equal(t, "Authentication failed", h.orchestrator.View().Error)
	assert.Equal(t, StateIdle, h.orchestrator.State())
}

func TestAbandonReturnsToIdleSilently(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	assert.False(t, h.orchestrator.Abandon())

	_, err := h.orchestrator.Submit(ctx, h.session, h.basket, shipping())
	require.NoError(t, err)

	assert.True(t, h.orchestrator.Abandon())
	view := h.orchestrator.View()
	assert.Equal(t, StateIdle, view.State)
	assert.Empty(t, view.Error)
	assert.Nil(t, view.Widget)

	_, err = h.orchestrator.CompletePayment(ctx, h.basket, proof())
	assert.ErrorIs(t, err, ErrNoPendingPayment)
	assert.Equal(t, 0, h.gateway.verifyCalls)
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry(&fakeLoader{}, &fakeGateway{}, &fakeOrders{}, &config.Config{}, logger.Discard())

	first := registry.Get("s1")
	assert.Same(t, first, registry.Get("s1"))
	assert.NotSame(t, first, registry.Get("s2"))

	assert.Equal(t, 2, registry.Sweep(-time.Minute))
	assert.NotSame(t, first, registry.Get("s1"))
}
