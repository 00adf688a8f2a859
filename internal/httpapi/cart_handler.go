package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
)

type CartHandler struct {
	carts  *cart.Provider
	logger zerolog.Logger
}

func NewCartHandler(carts *cart.Provider, logger zerolog.Logger) *CartHandler {
	return &CartHandler{carts: carts, logger: logger}
}

// cartView is what every cart endpoint returns: the lines plus the derived
// totals, recomputed on each request.
type cartView struct {
	Items []cart.LineItem `json:"items"`
	Total float64         `json:"total"`
	Count int             `json:"count"`
}

func (h *CartHandler) view() cartView {
	return cartView{
		Items: h.carts.Items(),
		Total: h.carts.Total(),
		Count: h.carts.Count(),
	}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.view())
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var body cart.Product
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if body.ID == "" {
		writeError(w, http.StatusBadRequest, "missing product id")
		return
	}

	if err := h.carts.AddItem(r.Context(), body); err != nil {
		h.logger.Error().Err(err).Msg("add item")
		writeError(w, http.StatusInternalServerError, "failed to save cart")
		return
	}
	writeJSON(w, http.StatusOK, h.view())
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("productId")
	if productID == "" {
		writeError(w, http.StatusBadRequest, "missing productId")
		return
	}

	// Quantity arrives as whatever the form produced; the aggregate floors
	// and clamps it to >= 1.
	var body struct {
		Quantity float64 `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.carts.UpdateQuantity(r.Context(), productID, body.Quantity); err != nil {
		h.logger.Error().Err(err).Msg("update quantity")
		writeError(w, http.StatusInternalServerError, "failed to save cart")
		return
	}
	writeJSON(w, http.StatusOK, h.view())
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("productId")
	if productID == "" {
		writeError(w, http.StatusBadRequest, "missing productId")
		return
	}

	if err := h.carts.RemoveItem(r.Context(), productID); err != nil {
		h.logger.Error().Err(err).Msg("remove item")
		writeError(w, http.StatusInternalServerError, "failed to save cart")
		return
	}
	writeJSON(w, http.StatusOK, h.view())
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.carts.Clear(r.Context()); err != nil {
		h.logger.Error().Err(err).Msg("clear cart")
		writeError(w, http.StatusInternalServerError, "failed to clear cart")
		return
	}
	writeJSON(w, http.StatusOK, h.view())
}
