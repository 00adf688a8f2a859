package cart

import "math"

// Cart holds the line items for one shopping session. Insertion order is
// preserved for display; it carries no meaning beyond that.
//
// Cart is a plain value with no locking and no persistence. Provider owns
// the shared instance and the write-through to storage.
type Cart struct {
	items []LineItem
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// FromItems builds a cart from previously stored line items, dropping
// entries that would violate the cart's invariants (unknown product id,
// non-positive quantity, negative price).
func FromItems(items []LineItem) *Cart {
	c := &Cart{items: make([]LineItem, 0, len(items))}
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if it.ProductID == "" || it.Quantity < 1 || it.UnitPrice < 0 || seen[it.ProductID] {
			continue
		}
		seen[it.ProductID] = true
		c.items = append(c.items, it)
	}
	return c
}

// AddItem merges a product into the cart: an existing line for the same
// product id gets its quantity incremented by one, otherwise a new line with
// quantity 1 is appended.
func (c *Cart) AddItem(p Product) {
	for i := range c.items {
		if c.items[i].ProductID == p.ID {
			c.items[i].Quantity++
			return
		}
	}
	c.items = append(c.items, LineItem{
		ProductID: p.ID,
		Title:     p.Title,
		UnitPrice: p.Price,
		Image:     p.Image,
		Quantity:  1,
	})
}

// RemoveItem drops the line for productID. Removing an absent product is a
// no-op, not an error.
func (c *Cart) RemoveItem(productID string) {
	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// UpdateQuantity sets the line's quantity to max(1, floor(quantity)).
// Non-numeric, fractional or non-positive input must never leave a line with
// quantity < 1, so anything below 1 (including NaN) clamps to 1.
func (c *Cart) UpdateQuantity(productID string, quantity float64) {
	q := 1
	if f := math.Floor(quantity); f >= 1 {
		q = int(f)
	}
	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items[i].Quantity = q
			return
		}
	}
}

// Total recomputes sum(unitPrice * quantity) on every call; it is never
// cached across mutations.
func (c *Cart) Total() float64 {
	total := 0.0
	for _, it := range c.items {
		total += it.UnitPrice * float64(it.Quantity)
	}
	return total
}

// Count returns the summed quantity across all lines (cart badge).
func (c *Cart) Count() int {
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.items = nil
}

// IsEmpty reports whether the cart has no line items. Checkout is only
// permitted on a non-empty cart.
func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// Items returns a copy of the line items in insertion order.
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

// ProductIDs returns the distinct product ids in insertion order, the shape
// the order service expects for order creation.
func (c *Cart) ProductIDs() []string {
	ids := make([]string, 0, len(c.items))
	for _, it := range c.items {
		ids = append(ids, it.ProductID)
	}
	return ids
}

func (c *Cart) clone() *Cart {
	return &Cart{items: c.Items()}
}
