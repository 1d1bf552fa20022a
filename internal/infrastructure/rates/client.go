package rates

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/pricelens/backend/internal/domain"
)

const maxResponseBytes = 64 * 1024

// latestResponse is the body of GET /latest on a Frankfurter-compatible API
type latestResponse struct {
	Base  string                     `json:"base"`
	Date  string                     `json:"date"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

// Client fetches spot exchange rates from a Frankfurter-compatible HTTP API
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a rate client for baseURL (e.g. https://api.frankfurter.app)
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
	}
}

// GetRate returns how many units of to one unit of from buys right now.
// Every failure wraps domain.ErrRateUnavailable.
func (c *Client) GetRate(ctx context.Context, from, to domain.Currency) (decimal.Decimal, error) {
	params := url.Values{}
	params.Set("from", string(from))
	params.Set("to", string(to))
	reqURL := c.baseURL + "/latest?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return decimal.Zero, eris.Wrapf(domain.ErrRateUnavailable, "rates: create request: %v", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, eris.Wrapf(domain.ErrRateUnavailable, "rates: fetch %s->%s: %v", from, to, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return decimal.Zero, eris.Wrapf(domain.ErrRateUnavailable, "rates: read body: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		zap.L().Warn("rates: provider returned error status",
			zap.Int("status", resp.StatusCode),
			zap.String("from", string(from)),
			zap.String("to", string(to)),
		)
		return decimal.Zero, eris.Wrapf(domain.ErrRateUnavailable, "rates: status %d", resp.StatusCode)
	}

	var latest latestResponse
	if err := json.Unmarshal(body, &latest); err != nil {
		return decimal.Zero, eris.Wrapf(domain.ErrRateUnavailable, "rates: decode response: %v", err)
	}

	rate, ok := latest.Rates[string(to)]
	if !ok || !rate.IsPositive() {
		return decimal.Zero, eris.Wrapf(domain.ErrRateUnavailable, "rates: no rate for %s->%s", from, to)
	}

	zap.L().Debug("rates: fetched rate",
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.String("rate", rate.String()),
		zap.String("date", latest.Date),
	)
	return rate, nil
}
