package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
)

type Orders interface {
	ListOrders(ctx context.Context) ([]clients.Order, error)
}

type OrderHandler struct {
	orders Orders
	logger zerolog.Logger
}

func NewOrderHandler(orders Orders, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, logger: logger}
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListOrders(r.Context())
	if err != nil {
		if errors.Is(err, clients.ErrUnauthenticated) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		h.logger.Error().Err(err).Msg("list orders")
		writeError(w, http.StatusBadGateway, "order service unavailable")
		return
	}
	if orders == nil {
		orders = []clients.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}
