// Package payment talks to the external gateway that confirms Mobile Money
// payments. The storefront never initiates a charge; the widget on the client
// side does, and hands back a reference this package verifies.
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/osikani/kente-storefront-api/internal/currency"
)

var (
	ErrNotConfirmed   = errors.New("payment not confirmed by gateway")
	ErrAmountMismatch = errors.New("gateway amount does not match order total")
)

// Gateway verifies that reference represents a successful payment of amount
// in the given currency.
type Gateway interface {
	Verify(ctx context.Context, reference string, amount decimal.Decimal, code currency.Code) error
}

type PaystackClient struct {
	baseURL   string
	secretKey string
	client    *http.Client
}

func NewPaystackClient(baseURL, secretKey string, timeout time.Duration) *PaystackClient {
	return &PaystackClient{
		baseURL:   baseURL,
		secretKey: secretKey,
		client:    &http.Client{Timeout: timeout},
	}
}

type verifyResponse struct {
	Status bool `json:"status"`
	Data   struct {
		Status   string `json:"status"`
		Amount   int64  `json:"amount"` // minor units
		Currency string `json:"currency"`
	} `json:"data"`
}

func (p *PaystackClient) Verify(ctx context.Context, reference string, amount decimal.Decimal, code currency.Code) error {
	endpoint := fmt.Sprintf("%s/transaction/verify/%s", p.baseURL, url.PathEscape(reference))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build verify request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.secretKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("verify transaction: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotConfirmed
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("verify transaction: gateway returned %d", resp.StatusCode)
	}

	var body verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("decode verify response: %w", err)
	}
	if !body.Status || body.Data.Status != "success" {
		return ErrNotConfirmed
	}
	if body.Data.Currency != string(code) {
		return fmt.Errorf("%w: paid %s, expected %s", ErrAmountMismatch, body.Data.Currency, code)
	}
	// The gateway reports minor units (pesewas/cents).
	paid := decimal.New(body.Data.Amount, -2)
	if !paid.Equal(amount) {
		return fmt.Errorf("%w: paid %s, expected %s", ErrAmountMismatch, paid, amount)
	}
	return nil
}
