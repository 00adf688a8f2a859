package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/store"
)

// PendingCheckout pins the amount approved at the moment checkout was
// initiated, plus the one-time transaction id the gateway echoes back in the
// return URL. It is durable because the process may be fully torn down while
// the user is on the external payment page.
type PendingCheckout struct {
	TransactionID string    `json:"transactionId"`
	Total         float64   `json:"total"`
	CreatedAt     time.Time `json:"createdAt"`
}

func savePending(ctx context.Context, kv store.KV, p PendingCheckout) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal pending checkout: %w", err)
	}
	if err := kv.Put(ctx, store.PendingCheckoutKey, raw); err != nil {
		return fmt.Errorf("persist pending checkout: %w", err)
	}
	return nil
}

// loadPending returns the stored record, or ok=false when none exists or the
// stored bytes are corrupt (a corrupt record cannot be resumed and is treated
// as absent).
func loadPending(ctx context.Context, kv store.KV) (PendingCheckout, bool, error) {
	raw, ok, err := kv.Get(ctx, store.PendingCheckoutKey)
	if err != nil {
		return PendingCheckout{}, false, fmt.Errorf("load pending checkout: %w", err)
	}
	if !ok {
		return PendingCheckout{}, false, nil
	}
	var p PendingCheckout
	if err := json.Unmarshal(raw, &p); err != nil || p.TransactionID == "" {
		return PendingCheckout{}, false, nil
	}
	return p, true, nil
}

func deletePending(ctx context.Context, kv store.KV) error {
	return kv.Delete(ctx, store.PendingCheckoutKey)
}
