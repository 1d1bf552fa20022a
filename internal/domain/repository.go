package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// MarketplaceFetcher retrieves the raw search results page for a query
type MarketplaceFetcher interface {
	Fetch(ctx context.Context, marketplace MarketplaceID, query string) ([]byte, error)
}

// ListingParser extracts a listing from one marketplace's search results markup.
// On failure the extraction may still be non-nil and carry the title.
type ListingParser interface {
	Parse(html []byte) (*PriceExtraction, error)
}

// RateProvider supplies point-in-time exchange rates
type RateProvider interface {
	GetRate(ctx context.Context, from, to Currency) (decimal.Decimal, error)
}

// RecordStore is the append-only log of lookups
type RecordStore interface {
	Insert(ctx context.Context, rec LookupRecord) (int64, error)
	List(ctx context.Context) ([]LookupRecord, error)
}
