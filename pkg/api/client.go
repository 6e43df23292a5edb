package api

// API CLIENT

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SkipsEndpoint is the only resource the client reads.
const SkipsEndpoint = "https://app.wewantwaste.co.uk/api/skips/by-location?postcode=NR32&area=Lowestoft"

// ErrFetchFailed covers transport errors, non-200 statuses and undecodable bodies alike.
var ErrFetchFailed = errors.New("fetch failed")

type Skip struct {
	ID               int64               `json:"id"`
	Size             int                 `json:"size"`
	HirePeriodDays   int                 `json:"hire_period_days"`
	TransportCost    decimal.NullDecimal `json:"transport_cost"`
	PerTonneCost     decimal.NullDecimal `json:"per_tonne_cost"`
	PriceBeforeVAT   decimal.Decimal     `json:"price_before_vat"`
	VAT              decimal.Decimal     `json:"vat"`
	Postcode         string              `json:"postcode"`
	Area             string              `json:"area"`
	Forbidden        bool                `json:"forbidden"`
	CreatedAt        string              `json:"created_at"`
	UpdatedAt        string              `json:"updated_at"`
	AllowedOnRoad    bool                `json:"allowed_on_road"`
	AllowsHeavyWaste bool                `json:"allows_heavy_waste"`
}

type Client struct {
	endpoint   string
	retryDelay time.Duration
	httpClient *http.Client
	logger     *zap.Logger
}

type Option func(*Client)

// WithEndpoint replaces the fixed endpoint. Used by tests.
func WithEndpoint(url string) Option {
	return func(c *Client) { c.endpoint = url }
}

func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) { c.retryDelay = d }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

func NewClient(logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		endpoint:   SkipsEndpoint,
		retryDelay: 500 * time.Millisecond,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetSkips reads the offering list, retrying once on any failure.
func (c *Client) GetSkips(ctx context.Context) ([]Skip, error) {
	var skips []Skip
	attempt := 0

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(c.retryDelay), 1),
		ctx,
	)

	err := backoff.RetryNotify(
		func() error {
			attempt++
			result, err := c.getSkipsOnce(ctx)
			if err != nil {
				return err
			}
			skips = result
			return nil
		},
		policy,
		func(err error, next time.Duration) {
			c.logger.Warn("Skips request failed, retrying",
				zap.Int("attempt", attempt),
				zap.Duration("next_attempt_in", next),
				zap.Error(err))
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	c.logger.Debug("Skips fetched",
		zap.Int("count", len(skips)),
		zap.Int("attempts", attempt))
	return skips, nil
}

func (c *Client) getSkipsOnce(ctx context.Context) ([]Skip, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var skips []Skip
	if err := json.NewDecoder(resp.Body).Decode(&skips); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return skips, nil
}
