package clients

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v4"
)

// ErrUnauthenticated means there is no usable credential; protected
// operations (checkout, order creation) must not proceed.
var ErrUnauthenticated = errors.New("not authenticated")

// AuthProvider holds the bearer credential issued by the auth backend. The
// user id is the token's sub claim; the claim is read without signature
// verification because the storefront only displays it — the backend
// verifies the token on every call.
type AuthProvider struct {
	token string
}

func NewAuthProvider(token string) *AuthProvider {
	return &AuthProvider{token: token}
}

// Token returns the opaque credential, or ErrUnauthenticated when none is set.
func (a *AuthProvider) Token() (string, error) {
	if a.token == "" {
		return "", ErrUnauthenticated
	}
	return a.token, nil
}

// CurrentUserID extracts the subject claim from the bearer token.
func (a *AuthProvider) CurrentUserID() (string, error) {
	if a.token == "" {
		return "", ErrUnauthenticated
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(a.token, claims); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", fmt.Errorf("%w: token has no subject", ErrUnauthenticated)
	}
	return sub, nil
}
