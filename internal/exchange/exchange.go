package exchange

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/redis/go-redis/v9"

	"github.com/maltedev/amazon-seller-scraper/internal/config"
)

const (
	cacheKey = "exchange:usd_per_pkr"
	cacheTTL = time.Hour
)

// Client fetches the USD-per-PKR rate from the exchange API. It is total:
// any failure degrades to the static fallback rate, never an error.
type Client struct {
	http     *resty.Client
	cache    *redis.Client
	apiURL   string
	fallback float64
	logger   *slog.Logger
}

// NewClient builds a rate client. cache may be nil; when set, fetched
// rates are kept in Redis for an hour.
func NewClient(cfg config.Settings, cache *redis.Client) *Client {
	return &Client{
		http:     resty.New().SetTimeout(cfg.ExchangeTimeout),
		cache:    cache,
		apiURL:   cfg.ExchangeAPI,
		fallback: cfg.FallbackRate,
		logger:   slog.Default().With("component", "exchange"),
	}
}

type rateResponse struct {
	Rates map[string]float64 `json:"rates"`
}

// USDPerPKR returns the live conversion rate, computed as the reciprocal
// of the PKR-per-USD rate the API reports.
func (c *Client) USDPerPKR(ctx context.Context) float64 {
	if c.cache != nil {
		if rate, err := c.cache.Get(ctx, cacheKey).Float64(); err == nil && rate > 0 {
			return rate
		}
	}

	var body rateResponse
	resp, err := c.http.R().SetContext(ctx).SetResult(&body).Get(c.apiURL)
	if err != nil {
		c.logger.Warn("exchange rate lookup failed, using fallback", "error", err)
		return c.fallback
	}
	if !resp.IsSuccess() {
		c.logger.Warn("exchange rate lookup failed, using fallback", "status", resp.StatusCode())
		return c.fallback
	}

	pkrPerUSD := body.Rates["PKR"]
	if pkrPerUSD <= 0 {
		c.logger.Warn("exchange rate response missing PKR, using fallback")
		return c.fallback
	}

	rate := 1 / pkrPerUSD
	if c.cache != nil {
		if err := c.cache.Set(ctx, cacheKey, rate, cacheTTL).Err(); err != nil {
			c.logger.Warn("failed to cache exchange rate", "error", err)
		}
	}

	return rate
}
