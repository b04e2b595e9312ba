// Package pricing polls an external market price feed and keeps
// commodity and receipt valuations current.
package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tradewiser/backend/internal/infrastructure/config"
	"github.com/tradewiser/backend/internal/infrastructure/retry"
)

// Quote is one market price for a commodity category
type Quote struct {
	Category   string          `json:"category"`
	PricePerMT decimal.Decimal `json:"price_per_mt"`
	AsOf       time.Time       `json:"as_of"`
}

// Client fetches market prices from the external feed. Requests go
// through the retry helper; 5xx and 429 responses are retried, other
// 4xx responses fail immediately.
type Client struct {
	baseURL    string
	httpClient *http.Client
	policy     retry.Policy
}

// NewClient creates a pricing client from configuration
func NewClient(cfg config.PricingConfig) *Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	policy := retry.Policy{
		MaxAttempts:   cfg.MaxAttempts,
		BaseDelay:     cfg.BaseDelay,
		MaxDelay:      cfg.MaxDelay,
		BackoffFactor: cfg.BackoffFactor,
	}
	if policy.MaxAttempts <= 0 {
		policy = retry.DefaultPolicy()
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
		policy:     policy,
	}
}

// FetchQuote returns the current market price for a category
func (c *Client) FetchQuote(ctx context.Context, category string) (*Quote, error) {
	endpoint := fmt.Sprintf("%s/prices?category=%s", c.baseURL, url.QueryEscape(category))

	var quote Quote
	result := retry.Do(ctx, c.policy, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return retry.Terminal(err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			err := fmt.Errorf("price feed returned status %d for category %s", resp.StatusCode, category)
			if retry.StatusRetryable(resp.StatusCode) {
				return err
			}
			return retry.Terminal(err)
		}

		if err := json.NewDecoder(resp.Body).Decode(&quote); err != nil {
			return retry.Terminal(fmt.Errorf("failed to decode price feed response: %w", err))
		}
		return nil
	})

	if !result.Success {
		return nil, fmt.Errorf("failed to fetch quote after %d attempts: %w", result.Attempts, result.LastErr)
	}

	if quote.PricePerMT.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("price feed returned non-positive price for category %s", category)
	}
	return &quote, nil
}
