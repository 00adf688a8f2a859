package httpapi

import (
	"net/http"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
)

// RequireAuth rejects protected routes when no bearer credential is held.
// The backend still verifies the token on every upstream call; this guard
// only keeps unauthenticated flows out of checkout and order history.
func RequireAuth(auth *clients.AuthProvider, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := auth.CurrentUserID(); err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}
