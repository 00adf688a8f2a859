package httpapi

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
)

type Catalog interface {
	ListProducts(ctx context.Context) ([]clients.CatalogProduct, error)
	FetchProductImage(ctx context.Context, productID string) ([]byte, string, error)
}

type CatalogHandler struct {
	catalog Catalog
	logger  zerolog.Logger
}

func NewCatalogHandler(catalog Catalog, logger zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, logger: logger}
}

func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("list products")
		writeError(w, http.StatusBadGateway, "catalog unavailable")
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *CatalogHandler) GetProductImage(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("productId")
	if productID == "" {
		writeError(w, http.StatusBadRequest, "missing productId")
		return
	}

	data, placeholder, err := h.catalog.FetchProductImage(r.Context(), productID)
	if err != nil {
		h.logger.Error().Err(err).Msg("fetch product image")
		writeError(w, http.StatusBadGateway, "catalog unavailable")
		return
	}
	if placeholder != "" {
		http.Redirect(w, r, placeholder, http.StatusFound)
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
