package marketplace

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pricelens/backend/internal/domain"
)

// Endpoint is the fixed search URL template of one marketplace
type Endpoint struct {
	BaseURL    string
	Path       string
	QueryParam string
	// SpaceAsPlus selects "+" for spaces; otherwise spaces become "%20"
	SpaceAsPlus bool
}

// SearchURL renders the template for a product query
func (e Endpoint) SearchURL(query string) string {
	escaped := url.QueryEscape(query)
	if !e.SpaceAsPlus {
		escaped = strings.ReplaceAll(escaped, "+", "%20")
	}
	return strings.TrimRight(e.BaseURL, "/") + e.Path + "?" + e.QueryParam + "=" + escaped
}

// Endpoints returns the search templates for both marketplaces
func Endpoints(ebayBaseURL, flipkartBaseURL string) map[domain.MarketplaceID]Endpoint {
	return map[domain.MarketplaceID]Endpoint{
		domain.MarketplaceEbay: {
			BaseURL:     ebayBaseURL,
			Path:        "/sch/i.html",
			QueryParam:  "_nkw",
			SpaceAsPlus: true,
		},
		domain.MarketplaceFlipkart: {
			BaseURL:    flipkartBaseURL,
			Path:       "/search",
			QueryParam: "q",
		},
	}
}

// FetcherConfig holds transport settings shared by all marketplaces
type FetcherConfig struct {
	UserAgent    string
	Timeout      time.Duration
	MaxBodyBytes int64
	// MaxAttempts of 1 issues exactly one request per fetch
	MaxAttempts       int
	RequestsPerSecond float64
	Burst             int
}

// Fetcher downloads marketplace search result pages
type Fetcher struct {
	httpClient  *http.Client
	endpoints   map[domain.MarketplaceID]Endpoint
	userAgent   string
	maxBody     int64
	maxAttempts int
	limiters    map[domain.MarketplaceID]*rate.Limiter
}

// NewFetcher creates a fetcher with one rate limiter per marketplace
func NewFetcher(endpoints map[domain.MarketplaceID]Endpoint, cfg FetcherConfig) *Fetcher {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 4 << 20
	}

	limiters := make(map[domain.MarketplaceID]*rate.Limiter, len(endpoints))
	for id := range endpoints {
		limit := rate.Inf
		if cfg.RequestsPerSecond > 0 {
			limit = rate.Limit(cfg.RequestsPerSecond)
		}
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiters[id] = rate.NewLimiter(limit, burst)
	}

	return &Fetcher{
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		endpoints:   endpoints,
		userAgent:   cfg.UserAgent,
		maxBody:     cfg.MaxBodyBytes,
		maxAttempts: cfg.MaxAttempts,
		limiters:    limiters,
	}
}

// Fetch returns the raw HTML of the marketplace's search page for query.
// Failures wrap domain.ErrMarketplaceUnavailable.
func (f *Fetcher) Fetch(ctx context.Context, marketplace domain.MarketplaceID, query string) ([]byte, error) {
	endpoint, ok := f.endpoints[marketplace]
	if !ok {
		return nil, eris.Wrapf(domain.ErrInvalidRequest, "%s: unknown marketplace", marketplace)
	}
	reqURL := endpoint.SearchURL(query)
	log := zap.L().With(zap.String("marketplace", string(marketplace)), zap.String("url", reqURL))

	var lastErr error
	for attempt := 1; attempt <= f.maxAttempts; attempt++ {
		if err := f.limiters[marketplace].Wait(ctx); err != nil {
			return nil, eris.Wrapf(domain.ErrMarketplaceUnavailable, "%s: rate limiter: %v", marketplace, err)
		}

		body, retryable, err := f.fetchOnce(ctx, marketplace, reqURL)
		if err == nil {
			log.Debug("marketplace: fetched search page", zap.Int("bytes", len(body)), zap.Int("attempt", attempt))
			return body, nil
		}
		lastErr = err
		log.Warn("marketplace: fetch failed", zap.Int("attempt", attempt), zap.Error(err))

		if !retryable || attempt == f.maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, eris.Wrapf(domain.ErrMarketplaceUnavailable, "%s: %v", marketplace, ctx.Err())
		case <-time.After(exponentialBackoff(attempt)):
		}
	}
	return nil, lastErr
}

func (f *Fetcher) fetchOnce(ctx context.Context, marketplace domain.MarketplaceID, reqURL string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, false, eris.Wrapf(domain.ErrMarketplaceUnavailable, "%s: create request: %v", marketplace, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, true, eris.Wrapf(domain.ErrMarketplaceUnavailable, "%s: %v", marketplace, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return nil, retryable, eris.Wrapf(domain.ErrMarketplaceUnavailable, "%s: status %d", marketplace, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
	if err != nil {
		return nil, true, eris.Wrapf(domain.ErrMarketplaceUnavailable, "%s: read body: %v", marketplace, err)
	}
	if int64(len(body)) > f.maxBody {
		zap.L().Warn("marketplace: response truncated",
			zap.String("marketplace", string(marketplace)),
			zap.Int64("limit", f.maxBody),
		)
		body = body[:f.maxBody]
	}
	return body, false, nil
}

// exponentialBackoff returns the wait before retrying after the given attempt
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}
