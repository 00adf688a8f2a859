package store

import "context"

// Storage keys. The cart is one JSON array under CartKey; the pending
// checkout record lives under its own key and is deleted after use.
const (
	CartKey            = "cartItems"
	PendingCheckoutKey = "checkout.pending"
)

// KV is durable key-value storage scoped to one browser profile. Values are
// opaque JSON blobs; a missing key is (nil, false, nil), never an error.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
