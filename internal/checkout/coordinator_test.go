package checkout

import (
	"context"
	"fmt"
	"net/url"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/store"
)

type fakeGateway struct {
	requestApprovalFunc func(ctx context.Context, amount float64, transactionID, returnURL string) (string, error)
	calls               int
}

func (f *fakeGateway) RequestApproval(ctx context.Context, amount float64, transactionID, returnURL string) (string, error) {
	f.calls++
	if f.requestApprovalFunc != nil {
		return f.requestApprovalFunc(ctx, amount, transactionID, returnURL)
	}
	return "https://pay.example/approve/" + transactionID, nil
}

type fakeOrders struct {
	createFunc func(ctx context.Context, req clients.CreateOrderRequest) (*clients.Order, error)
	calls      int
}

func (f *fakeOrders) CreateOrder(ctx context.Context, req clients.CreateOrderRequest) (*clients.Order, error) {
	f.calls++
	if f.createFunc != nil {
		return f.createFunc(ctx, req)
	}
	return &clients.Order{OrderID: "o1", BuyerID: req.BuyerID, LineProductIDs: req.LineProductIDs, TotalAmount: req.TotalAmount}, nil
}

type fakeIdentity struct{ userID string }

func (f *fakeIdentity) CurrentUserID() (string, error) {
	if f.userID == "" {
		return "", clients.ErrUnauthenticated
	}
	return f.userID, nil
}

type env struct {
	ctx      context.Context
	kv       *store.MemKV
	carts    *cart.Provider
	gateway  *fakeGateway
	orders   *fakeOrders
	identity *fakeIdentity
	co       *Coordinator
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	kv := store.NewMemKV()

	carts, err := cart.NewProvider(ctx, kv, zerolog.Nop())
	require.NoError(t, err)

	e := &env{
		ctx:      ctx,
		kv:       kv,
		carts:    carts,
		gateway:  &fakeGateway{},
		orders:   &fakeOrders{},
		identity: &fakeIdentity{userID: "user-1"},
	}
	e.co = NewCoordinator(carts, kv, e.gateway, e.orders, e.identity, "http://localhost:8090/payment/return", zerolog.Nop())
	return e
}

func (e *env) fillCart(t *testing.T) {
	t.Helper()
	require.NoError(t, e.carts.AddItem(e.ctx, cart.Product{ID: "p1", Title: "Mug", Price: 10.50}))
	require.NoError(t, e.carts.AddItem(e.ctx, cart.Product{ID: "p2", Title: "Shirt", Price: 35.00}))
}

func (e *env) pending(t *testing.T) (PendingCheckout, bool) {
	t.Helper()
	p, ok, err := loadPending(e.ctx, e.kv)
	require.NoError(t, err)
	return p, ok
}

func successReturn(p PendingCheckout) url.Values {
	return url.Values{
		clients.ReturnStatusParam: {clients.ReturnStatusOK},
		clients.ReturnTokenParam:  {p.TransactionID},
	}
}

func TestBeginEmptyCart(t *testing.T) {
	e := newEnv(t)

	_, err := e.co.Begin(e.ctx)
	require.ErrorIs(t, err, ErrEmptyCart)

	_, ok := e.pending(t)
	assert.False(t, ok, "no pending checkout may be written for an empty cart")
}

func TestBeginUnauthenticated(t *testing.T) {
	e := newEnv(t)
	e.identity.userID = ""
	e.fillCart(t)

	_, err := e.co.Begin(e.ctx)
	require.ErrorIs(t, err, clients.ErrUnauthenticated)
	assert.Zero(t, e.gateway.calls)
}

func TestBeginPinsTotalAndRedirects(t *testing.T) {
	e := newEnv(t)
	e.fillCart(t)

	var approvedAmount float64
	e.gateway.requestApprovalFunc = func(ctx context.Context, amount float64, transactionID, returnURL string) (string, error) {
		approvedAmount = amount
		return "https://pay.example/approve/" + transactionID, nil
	}

	redirect, err := e.co.Begin(e.ctx)
	require.NoError(t, err)
	assert.Contains(t, redirect, "https://pay.example/approve/")

	p, ok := e.pending(t)
	require.True(t, ok)
	assert.Equal(t, 45.50, p.Total)
	assert.Equal(t, p.Total, approvedAmount, "gateway must be asked for exactly the pinned amount")
	assert.NotEmpty(t, p.TransactionID)
}

func TestBeginGatewayFailureLeavesNoTrace(t *testing.T) {
	e := newEnv(t)
	e.fillCart(t)
	before := e.carts.Items()

	e.gateway.requestApprovalFunc = func(ctx context.Context, amount float64, transactionID, returnURL string) (string, error) {
		return "", fmt.Errorf("%w: gateway returned status 500", clients.ErrPaymentInitiation)
	}

	_, err := e.co.Begin(e.ctx)
	require.ErrorIs(t, err, clients.ErrPaymentInitiation)

	_, ok := e.pending(t)
	assert.False(t, ok, "pending checkout must be removed after gateway rejection")
	assert.Equal(t, before, e.carts.Items(), "cart must be untouched")
}

func TestBeginDoubleSubmission(t *testing.T) {
	e := newEnv(t)
	e.fillCart(t)

	_, err := e.co.Begin(e.ctx)
	require.NoError(t, err)

	_, err = e.co.Begin(e.ctx)
	require.ErrorIs(t, err, ErrCheckoutInProgress)
	assert.Equal(t, 1, e.gateway.calls, "second submission must not reach the gateway")
}

func TestBeginRetryAfterGatewayFailure(t *testing.T) {
	e := newEnv(t)
	e.fillCart(t)

	e.gateway.requestApprovalFunc = func(ctx context.Context, amount float64, transactionID, returnURL string) (string, error) {
		return "", clients.ErrPaymentInitiation
	}
	_, err := e.co.Begin(e.ctx)
	require.ErrorIs(t, err, clients.ErrPaymentInitiation)

	// The failure released the in-flight guard, so the user can retry.
	e.gateway.requestApprovalFunc = nil
	_, err = e.co.Begin(e.ctx)
	require.NoError(t, err)
}

func TestConfirmCreatesExactlyOneOrder(t *testing.T) {
	e := newEnv(t)
	e.fillCart(t)

	_, err := e.co.Begin(e.ctx)
	require.NoError(t, err)
	p, ok := e.pending(t)
	require.True(t, ok)

	var created clients.CreateOrderRequest
	e.orders.createFunc = func(ctx context.Context, req clients.CreateOrderRequest) (*clients.Order, error) {
		created = req
		return &clients.Order{OrderID: "o1", BuyerID: req.BuyerID, TotalAmount: req.TotalAmount}, nil
	}

	result, err := e.co.ConfirmReturn(e.ctx, successReturn(p))
	require.NoError(t, err)
	assert.Equal(t, "/orders", result.Redirect)
	require.NotNil(t, result.Order)

	assert.Equal(t, "user-1", created.BuyerID)
	assert.Equal(t, []string{"p1", "p2"}, created.LineProductIDs)
	assert.Equal(t, 45.50, created.TotalAmount)

	assert.True(t, e.carts.IsEmpty(), "cart must be cleared after the order is created")
	_, ok = e.pending(t)
	assert.False(t, ok, "pending checkout must be consumed")

	// Replaying the same return URL (refresh) must not create a second order.
	result, err = e.co.ConfirmReturn(e.ctx, successReturn(p))
	require.NoError(t, err)
	assert.Equal(t, "/cart", result.Redirect)
	assert.Equal(t, 1, e.orders.calls)
}

func TestConfirmFailureStatus(t *testing.T) {
	e := newEnv(t)
	e.fillCart(t)

	_, err := e.co.Begin(e.ctx)
	require.NoError(t, err)

	result, err := e.co.ConfirmReturn(e.ctx, url.Values{clients.ReturnStatusParam: {clients.ReturnStatusFailed}})
	require.NoError(t, err)
	assert.Equal(t, "/cart", result.Redirect)
	assert.Zero(t, e.orders.calls)
	assert.False(t, e.carts.IsEmpty(), "aborted payment must keep the cart")

	_, ok := e.pending(t)
	assert.False(t, ok, "aborting the flow deletes the pending record")
}

func TestConfirmMissingStatus(t *testing.T) {
	e := newEnv(t)

	result, err := e.co.ConfirmReturn(e.ctx, url.Values{})
	require.NoError(t, err)
	assert.Equal(t, "/cart", result.Redirect)
	assert.Zero(t, e.orders.calls)
}

func TestConfirmTokenMismatch(t *testing.T) {
	e := newEnv(t)
	e.fillCart(t)

	_, err := e.co.Begin(e.ctx)
	require.NoError(t, err)

	result, err := e.co.ConfirmReturn(e.ctx, url.Values{
		clients.ReturnStatusParam: {clients.ReturnStatusOK},
		clients.ReturnTokenParam:  {"forged-token"},
	})
	require.NoError(t, err)
	assert.Equal(t, "/cart", result.Redirect)
	assert.Zero(t, e.orders.calls)
}

func TestConfirmOrderServiceFailureKeepsCart(t *testing.T) {
	e := newEnv(t)
	e.fillCart(t)

	_, err := e.co.Begin(e.ctx)
	require.NoError(t, err)
	p, _ := e.pending(t)

	e.orders.createFunc = func(ctx context.Context, req clients.CreateOrderRequest) (*clients.Order, error) {
		return nil, fmt.Errorf("%w: order service returned status 500", clients.ErrOrderCreation)
	}

	result, err := e.co.ConfirmReturn(e.ctx, successReturn(p))
	require.ErrorIs(t, err, clients.ErrOrderCreation)
	assert.Equal(t, "/cart", result.Redirect)
	assert.False(t, e.carts.IsEmpty(), "cart is deliberately kept so the user can retry")
}

func TestConfirmAfterRestartUsesDurableRecord(t *testing.T) {
	// The process may be torn down while the user is on the gateway's site.
	// A fresh coordinator over the same store must still be able to commit.
	e := newEnv(t)
	e.fillCart(t)

	_, err := e.co.Begin(e.ctx)
	require.NoError(t, err)
	p, ok := e.pending(t)
	require.True(t, ok)

	carts2, err := cart.NewProvider(e.ctx, e.kv, zerolog.Nop())
	require.NoError(t, err)
	orders2 := &fakeOrders{}
	co2 := NewCoordinator(carts2, e.kv, e.gateway, orders2, e.identity, "http://localhost:8090/payment/return", zerolog.Nop())

	result, err := co2.ConfirmReturn(e.ctx, successReturn(p))
	require.NoError(t, err)
	assert.Equal(t, "/orders", result.Redirect)
	assert.Equal(t, 1, orders2.calls)
	assert.True(t, carts2.IsEmpty())
}
