package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrOrderCreation means the order backend rejected the order after payment
// already succeeded. Critical but retryable: the caller must keep the cart.
var ErrOrderCreation = errors.New("order creation failed")

type Order struct {
	OrderID        string    `json:"orderId"`
	BuyerID        string    `json:"buyerId"`
	LineProductIDs []string  `json:"lineProductIds"`
	TotalAmount    float64   `json:"totalAmount"`
	CreatedAt      time.Time `json:"createdAt"`
}

// CreateOrderRequest carries the buyer, the cart's product ids, and the
// total pinned when checkout was initiated (the amount the gateway actually
// approved, not a recomputation of the live cart).
type CreateOrderRequest struct {
	BuyerID        string   `json:"buyerId"`
	LineProductIDs []string `json:"lineProductIds"`
	TotalAmount    float64  `json:"totalAmount"`
}

type OrderClient struct {
	c    *Client
	auth *AuthProvider
}

func NewOrderClient(c *Client, auth *AuthProvider) *OrderClient {
	return &OrderClient{c: c, auth: auth}
}

// CreateOrder submits the order exactly once. Any rejection or transport
// failure is reported as ErrOrderCreation so the checkout flow can keep the
// cart and let the user retry.
func (oc *OrderClient) CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	token, err := oc.auth.Token()
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal order request: %w", err)
	}

	resp, err := oc.c.Do(ctx, http.MethodPost, "/api/orders", bytes.NewReader(body), token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOrderCreation, err)
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		drainAndClose(resp)
		return nil, fmt.Errorf("%w: order service returned status %d", ErrOrderCreation, resp.StatusCode)
	}

	var o Order
	if err := decodeJSON(resp, &o); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOrderCreation, err)
	}
	if o.OrderID == "" {
		return nil, fmt.Errorf("%w: response missing orderId", ErrOrderCreation)
	}
	return &o, nil
}

func (oc *OrderClient) ListOrders(ctx context.Context) ([]Order, error) {
	token, err := oc.auth.Token()
	if err != nil {
		return nil, err
	}

	resp, err := oc.c.Do(ctx, http.MethodGet, "/api/orders", nil, token)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		drainAndClose(resp)
		return nil, fmt.Errorf("order service returned status %d", resp.StatusCode)
	}

	var orders []Order
	if err := decodeJSON(resp, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
