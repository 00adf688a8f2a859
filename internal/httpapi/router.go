package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/chat"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
)

// Deps collects everything the storefront routes need.
type Deps struct {
	Carts    *cart.Provider
	Checkout CheckoutFlow
	Catalog  Catalog
	Orders   Orders
	Auth     *clients.AuthProvider
	Chat     *chat.Hub
	Logger   zerolog.Logger
}

func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", healthHandler)

	cartHandler := NewCartHandler(d.Carts, d.Logger)
	mux.HandleFunc("GET /api/cart", cartHandler.GetCart)
	mux.HandleFunc("POST /api/cart/items", cartHandler.AddItem)
	mux.HandleFunc("PATCH /api/cart/items/{productId}", cartHandler.UpdateItem)
	mux.HandleFunc("DELETE /api/cart/items/{productId}", cartHandler.RemoveItem)
	mux.HandleFunc("DELETE /api/cart", cartHandler.ClearCart)

	checkoutHandler := NewCheckoutHandler(d.Checkout, d.Logger)
	mux.Handle("POST /api/checkout", RequireAuth(d.Auth, http.HandlerFunc(checkoutHandler.Begin)))
	mux.HandleFunc("GET /payment/return", checkoutHandler.PaymentReturn)

	catalogHandler := NewCatalogHandler(d.Catalog, d.Logger)
	mux.HandleFunc("GET /api/products", catalogHandler.ListProducts)
	mux.HandleFunc("GET /api/products/{productId}/image", catalogHandler.GetProductImage)

	orderHandler := NewOrderHandler(d.Orders, d.Logger)
	mux.Handle("GET /api/orders", RequireAuth(d.Auth, http.HandlerFunc(orderHandler.ListOrders)))

	if d.Chat != nil {
		mux.HandleFunc("GET /ws/chat", d.Chat.ServeWS)
	}

	return mux
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"status": "ok", "service": "storefront"}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{
		"error": msg,
	})
}
