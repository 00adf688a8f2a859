package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrPaymentInitiation means the gateway was unreachable or rejected the
// approval request. Retryable; the cart is left untouched.
var ErrPaymentInitiation = errors.New("payment initiation failed")

// Return URL query parameters set by the gateway when it redirects back.
const (
	ReturnStatusParam  = "status"
	ReturnTokenParam   = "token"
	ReturnStatusOK     = "success"
	ReturnStatusFailed = "failure"
)

type PaymentClient struct{ c *Client }

func NewPaymentClient(c *Client) *PaymentClient { return &PaymentClient{c: c} }

type approvalRequest struct {
	Amount        float64 `json:"amount"`
	TransactionID string  `json:"transactionId"`
	ReturnURL     string  `json:"returnUrl"`
}

type approvalResponse struct {
	ApprovalURL string `json:"approvalUrl"`
}

// RequestApproval asks the gateway to approve a payment of exactly amount
// and returns the URL the user must be redirected to. The gateway echoes
// transactionID back in the return URL's token parameter.
func (pc *PaymentClient) RequestApproval(ctx context.Context, amount float64, transactionID, returnURL string) (string, error) {
	body, err := json.Marshal(approvalRequest{
		Amount:        amount,
		TransactionID: transactionID,
		ReturnURL:     returnURL,
	})
	if err != nil {
		return "", fmt.Errorf("marshal approval request: %w", err)
	}

	resp, err := pc.c.Do(ctx, http.MethodPost, "/api/payments", bytes.NewReader(body), "")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPaymentInitiation, err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		drainAndClose(resp)
		return "", fmt.Errorf("%w: gateway returned status %d", ErrPaymentInitiation, resp.StatusCode)
	}

	var out approvalResponse
	if err := decodeJSON(resp, &out); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPaymentInitiation, err)
	}
	if out.ApprovalURL == "" {
		return "", fmt.Errorf("%w: response missing approvalUrl", ErrPaymentInitiation)
	}
	return out.ApprovalURL, nil
}
