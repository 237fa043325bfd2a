package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/maltedev/amazon-seller-scraper/internal/config"
)

// Fetcher retrieves the rendered HTML of a page. Implementations report
// transport failures and non-200 statuses as errors; they never retry.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Client is the plain HTTP fetcher carrying the fixed header set.
type Client struct {
	http   *resty.Client
	logger *slog.Logger
}

func NewClient(cfg config.Settings) *Client {
	client := resty.New().SetTimeout(cfg.RequestTimeout)

	for name, value := range cfg.Headers {
		// net/http negotiates Accept-Encoding itself; setting it manually
		// disables transparent gzip decompression.
		if http.CanonicalHeaderKey(name) == "Accept-Encoding" {
			continue
		}
		client.SetHeader(name, value)
	}

	return &Client{
		http:   client,
		logger: slog.Default().With("component", "fetch"),
	}
}

func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	c.logger.Debug("fetching page", "url", url)

	resp, err := c.http.R().SetContext(ctx).Get(url)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d for %s", resp.StatusCode(), url)
	}

	return resp.String(), nil
}
