package domain

import "errors"

var (
	// ErrMarketplaceUnavailable is returned when a marketplace search page could not be fetched
	ErrMarketplaceUnavailable = errors.New("marketplace request failed")

	// ErrListingNotFound is returned when a search page contains no usable listing
	ErrListingNotFound = errors.New("listing not found")

	// ErrPriceElementMissing is returned when a listing was located but its price was not
	ErrPriceElementMissing = errors.New("price element missing")

	// ErrRateUnavailable is returned when the exchange rate source cannot supply a rate
	ErrRateUnavailable = errors.New("exchange rate unavailable")

	// ErrUnknownCurrencySymbol is returned when a price text has no recognized currency marker
	ErrUnknownCurrencySymbol = errors.New("unknown currency symbol")

	// ErrUnsupportedCurrency is returned for malformed or disabled currency codes
	ErrUnsupportedCurrency = errors.New("unsupported currency")

	// ErrNegativeAmount is returned when constructing Money from a negative amount
	ErrNegativeAmount = errors.New("negative monetary amount")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
