package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
)

// CheckoutFlow is the slice of the coordinator the handlers use.
type CheckoutFlow interface {
	Begin(ctx context.Context) (string, error)
	ConfirmReturn(ctx context.Context, query url.Values) (checkout.Result, error)
}

type CheckoutHandler struct {
	flow   CheckoutFlow
	logger zerolog.Logger
}

func NewCheckoutHandler(flow CheckoutFlow, logger zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{flow: flow, logger: logger}
}

// Begin starts the payment hand-off and returns the gateway URL the UI must
// navigate to with a full-page redirect.
func (h *CheckoutHandler) Begin(w http.ResponseWriter, r *http.Request) {
	redirect, err := h.flow.Begin(r.Context())
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]string{"redirectUrl": redirect})
	case errors.Is(err, checkout.ErrEmptyCart):
		writeError(w, http.StatusConflict, "cart is empty")
	case errors.Is(err, checkout.ErrCheckoutInProgress):
		writeError(w, http.StatusConflict, "checkout already in progress")
	case errors.Is(err, clients.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, clients.ErrPaymentInitiation):
		h.logger.Error().Err(err).Msg("payment initiation failed")
		writeError(w, http.StatusBadGateway, "payment gateway unavailable, please retry")
	default:
		h.logger.Error().Err(err).Msg("begin checkout")
		writeError(w, http.StatusInternalServerError, "failed to start checkout")
	}
}

// PaymentReturn is the landing point for the gateway's redirect back into
// the application. It always answers with a redirect so the success URL is
// never left re-renderable in the browser.
func (h *CheckoutHandler) PaymentReturn(w http.ResponseWriter, r *http.Request) {
	result, err := h.flow.ConfirmReturn(r.Context(), r.URL.Query())
	if err != nil {
		// The coordinator already decided where the user can recover; the
		// redirect target carries that decision.
		h.logger.Error().Err(err).Msg("payment return")
	}
	http.Redirect(w, r, result.Redirect, http.StatusFound)
}
