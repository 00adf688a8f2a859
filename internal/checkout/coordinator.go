package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/store"
)

var (
	// ErrEmptyCart: checkout attempted with no items. The caller navigates
	// back to the cart view.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrCheckoutInProgress: a second Begin arrived before the first flow
	// finished. The initiating control should have been disabled.
	ErrCheckoutInProgress = errors.New("checkout already in progress")
)

// PaymentGateway is the slice of the payment backend the coordinator needs.
type PaymentGateway interface {
	RequestApproval(ctx context.Context, amount float64, transactionID, returnURL string) (string, error)
}

// OrderService creates and lists orders on the backend.
type OrderService interface {
	CreateOrder(ctx context.Context, req clients.CreateOrderRequest) (*clients.Order, error)
}

// Identity resolves the authenticated buyer.
type Identity interface {
	CurrentUserID() (string, error)
}

// Coordinator bridges the shared cart to the payment gateway and, on return
// from the gateway, commits the order. The two phases are separated by a
// full-page redirect to an external site, so everything the second phase
// needs is persisted in the PendingCheckout record, never held in memory.
type Coordinator struct {
	carts     *cart.Provider
	kv        store.KV
	payments  PaymentGateway
	orders    OrderService
	identity  Identity
	returnURL string
	logger    zerolog.Logger

	mu       sync.Mutex
	inFlight bool
}

func NewCoordinator(carts *cart.Provider, kv store.KV, payments PaymentGateway, orders OrderService, identity Identity, returnURL string, logger zerolog.Logger) *Coordinator {
	return &Coordinator{
		carts:     carts,
		kv:        kv,
		payments:  payments,
		orders:    orders,
		identity:  identity,
		returnURL: returnURL,
		logger:    logger,
	}
}

// Begin pins the cart's current total in a durable PendingCheckout record,
// requests gateway approval for exactly that amount, and returns the URL the
// user must be redirected to. A gateway rejection removes the record and
// leaves the cart untouched.
func (co *Coordinator) Begin(ctx context.Context) (string, error) {
	if _, err := co.identity.CurrentUserID(); err != nil {
		return "", err
	}

	co.mu.Lock()
	if co.inFlight {
		co.mu.Unlock()
		return "", ErrCheckoutInProgress
	}
	co.inFlight = true
	co.mu.Unlock()

	redirect, err := co.begin(ctx)
	if err != nil {
		co.release()
		return "", err
	}
	return redirect, nil
}

func (co *Coordinator) begin(ctx context.Context) (string, error) {
	if co.carts.IsEmpty() {
		return "", ErrEmptyCart
	}

	pending := PendingCheckout{
		TransactionID: uuid.NewString(),
		Total:         co.carts.Total(),
	}
	if err := savePending(ctx, co.kv, pending); err != nil {
		return "", err
	}

	redirect, err := co.payments.RequestApproval(ctx, pending.Total, pending.TransactionID, co.returnURL)
	if err != nil {
		if derr := deletePending(ctx, co.kv); derr != nil {
			co.logger.Error().Err(derr).Msg("failed to remove pending checkout after gateway rejection")
		}
		return "", err
	}

	co.logger.Info().
		Str("transactionId", pending.TransactionID).
		Float64("total", pending.Total).
		Msg("checkout initiated")
	return redirect, nil
}

// Result tells the caller where to send the user after processing a gateway
// return. Order is set only when one was created.
type Result struct {
	Redirect string
	Order    *clients.Order
}

// ConfirmReturn processes the gateway's redirect back into the application.
// The pending record is consumed before the order is created, so replaying
// the same return URL (refresh, back button) finds nothing to commit and is
// sent to the cart view without side effects.
func (co *Coordinator) ConfirmReturn(ctx context.Context, query url.Values) (Result, error) {
	defer co.release()

	status := query.Get(clients.ReturnStatusParam)
	if status != clients.ReturnStatusOK {
		// Declined, cancelled, or malformed return: the flow aborts.
		if err := deletePending(ctx, co.kv); err != nil {
			co.logger.Error().Err(err).Msg("failed to remove pending checkout after aborted payment")
		}
		co.logger.Info().Str("status", status).Msg("payment not confirmed, returning to cart")
		return Result{Redirect: "/cart"}, nil
	}

	pending, ok, err := loadPending(ctx, co.kv)
	if err != nil {
		return Result{Redirect: "/cart"}, err
	}
	if !ok {
		// Already processed (or never initiated): nothing to commit.
		co.logger.Info().Msg("no pending checkout, ignoring gateway return")
		return Result{Redirect: "/cart"}, nil
	}
	if token := query.Get(clients.ReturnTokenParam); token != pending.TransactionID {
		co.logger.Warn().Str("token", token).Msg("gateway return token does not match pending checkout")
		return Result{Redirect: "/cart"}, nil
	}

	// Consume the record first: once deleted, no retry of this URL can
	// create a second order.
	if err := deletePending(ctx, co.kv); err != nil {
		return Result{Redirect: "/cart"}, fmt.Errorf("consume pending checkout: %w", err)
	}

	buyerID, err := co.identity.CurrentUserID()
	if err != nil {
		return Result{Redirect: "/cart"}, err
	}

	order, err := co.orders.CreateOrder(ctx, clients.CreateOrderRequest{
		BuyerID:        buyerID,
		LineProductIDs: co.carts.ProductIDs(),
		TotalAmount:    pending.Total,
	})
	if err != nil {
		// Deliberately keep the cart so the user can retry checkout.
		return Result{Redirect: "/cart"}, err
	}

	if err := co.carts.Clear(ctx); err != nil {
		co.logger.Error().Err(err).Str("orderId", order.OrderID).Msg("order created but cart not cleared")
		return Result{Redirect: "/orders", Order: order}, err
	}

	co.logger.Info().
		Str("orderId", order.OrderID).
		Str("transactionId", pending.TransactionID).
		Float64("total", pending.Total).
		Msg("order created")
	return Result{Redirect: "/orders", Order: order}, nil
}

func (co *Coordinator) release() {
	co.mu.Lock()
	co.inFlight = false
	co.mu.Unlock()
}
