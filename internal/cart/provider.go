package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/store"
)

// Provider is the single shared cart instance for the process. Every view
// goes through it; nothing else may touch the aggregate or the persisted
// copy. Each mutation is applied to a working copy, written through to the
// store, and only then committed, so the in-memory cart and the persisted
// cart never diverge on a storage failure.
type Provider struct {
	mu     sync.Mutex
	cart   *Cart
	kv     store.KV
	logger zerolog.Logger
}

// NewProvider rehydrates the cart from the store. A missing entry is an
// empty cart; a corrupt entry is logged and degraded to an empty cart rather
// than surfaced.
func NewProvider(ctx context.Context, kv store.KV, logger zerolog.Logger) (*Provider, error) {
	p := &Provider{cart: New(), kv: kv, logger: logger}

	raw, ok, err := kv.Get(ctx, store.CartKey)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if !ok {
		return p, nil
	}

	var items []LineItem
	if err := json.Unmarshal(raw, &items); err != nil {
		logger.Warn().Err(err).Msg("corrupt persisted cart, starting empty")
		return p, nil
	}
	p.cart = FromItems(items)
	return p, nil
}

// AddItem merges the product into the cart and persists.
func (p *Provider) AddItem(ctx context.Context, product Product) error {
	return p.mutate(ctx, func(c *Cart) { c.AddItem(product) })
}

// RemoveItem drops the product's line, if any, and persists.
func (p *Provider) RemoveItem(ctx context.Context, productID string) error {
	return p.mutate(ctx, func(c *Cart) { c.RemoveItem(productID) })
}

// UpdateQuantity clamps and sets the line's quantity, then persists.
func (p *Provider) UpdateQuantity(ctx context.Context, productID string, quantity float64) error {
	return p.mutate(ctx, func(c *Cart) { c.UpdateQuantity(productID, quantity) })
}

// Clear empties the cart and deletes the persisted copy.
func (p *Provider) Clear(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.kv.Delete(ctx, store.CartKey); err != nil {
		return fmt.Errorf("delete persisted cart: %w", err)
	}
	p.cart.Clear()
	return nil
}

func (p *Provider) Items() []LineItem {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cart.Items()
}

func (p *Provider) ProductIDs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cart.ProductIDs()
}

func (p *Provider) Total() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cart.Total()
}

func (p *Provider) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cart.Count()
}

func (p *Provider) IsEmpty() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cart.IsEmpty()
}

// mutate applies fn to a working copy, writes the copy through, and commits
// it. A store failure leaves the live cart exactly as it was.
func (p *Provider) mutate(ctx context.Context, fn func(*Cart)) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	next := p.cart.clone()
	fn(next)

	raw, err := json.Marshal(next.Items())
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	if err := p.kv.Put(ctx, store.CartKey, raw); err != nil {
		return fmt.Errorf("persist cart: %w", err)
	}

	p.cart = next
	return nil
}
