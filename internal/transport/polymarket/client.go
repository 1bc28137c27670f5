package polymarket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/simglobe/simglobe/internal/domain"
	"github.com/simglobe/simglobe/internal/domain/market"
	"github.com/simglobe/simglobe/internal/metrics"
)

const (
	provider       = "polymarket"
	defaultBaseURL = "https://gamma-api.polymarket.com"
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 512
)

// Config holds the gamma API client settings.
type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client reads prediction markets from the Polymarket gamma API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates a gamma API client.
func NewClient(cfg *Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{baseURL: baseURL, apiKey: cfg.APIKey, http: hc}
}

// Markets returns up to limit active, open markets in API order.
func (c *Client) Markets(ctx context.Context, limit int) ([]market.Market, error) {
	q := url.Values{}
	q.Set("active", "true")
	q.Set("closed", "false")
	q.Set("limit", strconv.Itoa(limit))

	var out []gammaMarket
	if err := c.get(ctx, "markets", "/markets", q, &out); err != nil {
		return nil, err
	}
	return toDomainList(out), nil
}

// Market returns one market by ID. Unknown IDs yield domain.ErrNotFound.
func (c *Client) Market(ctx context.Context, id string) (market.Market, error) {
	var out gammaMarket
	if err := c.get(ctx, "market", "/markets/"+url.PathEscape(id), nil, &out); err != nil {
		return market.Market{}, err
	}
	if out.ID == "" {
		return market.Market{}, fmt.Errorf("market %s: %w", id, domain.ErrNotFound)
	}
	return out.toDomain(), nil
}

// Search returns active markets matching query.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]market.Market, error) {
	q := url.Values{}
	q.Set("search", query)
	q.Set("active", "true")
	q.Set("limit", strconv.Itoa(limit))

	var out []gammaMarket
	if err := c.get(ctx, "search", "/markets", q, &out); err != nil {
		return nil, err
	}
	return toDomainList(out), nil
}

// HealthCheck verifies the API answers a minimal market listing.
func (c *Client) HealthCheck(ctx context.Context) error {
	if _, err := c.Markets(ctx, 1); err != nil {
		return fmt.Errorf("list markets: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, op, path string, q url.Values, out any) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	err = c.do(req, out)
	metrics.ObserveProvider(provider, op, time.Since(start).Seconds(), err)
	return err
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("gamma request failed: %w: %w", err, domain.ErrMarketProviderError)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("gamma %s: %w", req.URL.Path, domain.ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("gamma API error %d: %s: %w",
			resp.StatusCode, strings.TrimSpace(string(body)), domain.ErrMarketProviderError)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("empty gamma response: %w", domain.ErrMarketProviderError)
		}
		return fmt.Errorf("decode gamma response: %w: %w", err, domain.ErrMarketProviderError)
	}
	return nil
}
