package domain

import "time"

// MarketplaceID identifies one of the two marketplaces queried
type MarketplaceID string

const (
	// MarketplaceEbay returns prices only
	MarketplaceEbay MarketplaceID = "ebay"
	// MarketplaceFlipkart returns a matched title and a price
	MarketplaceFlipkart MarketplaceID = "flipkart"
)

// Marketplaces lists every marketplace in the order they appear in an outcome
var Marketplaces = []MarketplaceID{MarketplaceEbay, MarketplaceFlipkart}

// DisplayName is the human readable marketplace name
func (m MarketplaceID) DisplayName() string {
	switch m {
	case MarketplaceEbay:
		return "eBay"
	case MarketplaceFlipkart:
		return "Flipkart"
	}
	return string(m)
}

// FailureReason explains why a listing carries no price.
// NotFound means no listing was on the page; PriceElementMissing means a listing
// was found but its price node was absent or unusable.
type FailureReason string

const (
	ReasonTransportError      FailureReason = "TransportError"
	ReasonNotFound            FailureReason = "NotFound"
	ReasonPriceElementMissing FailureReason = "PriceElementMissing"
	ReasonRateUnavailable     FailureReason = "RateUnavailable"
)

// PriceExtraction is what a marketplace parser finds on a search results page.
// Title is empty for marketplaces without title extraction.
type PriceExtraction struct {
	Title    string
	RawPrice string
}

// MarketplaceListing is the result of one marketplace lookup for one product.
// Price is nil exactly when Reason is set.
type MarketplaceListing struct {
	Marketplace MarketplaceID `json:"marketplace"`
	Title       *string       `json:"title,omitempty"`
	RawPrice    string        `json:"rawPrice,omitempty"`
	Price       *Money        `json:"price,omitempty"`
	Reason      FailureReason `json:"reason,omitempty"`
	Detail      string        `json:"detail,omitempty"`
}

// Found reports whether the listing carries a converted price
func (l MarketplaceListing) Found() bool {
	return l.Price != nil
}

// LookupOutcome holds one listing per marketplace for a single product name
type LookupOutcome struct {
	ProductName    string               `json:"productName"`
	TargetCurrency Currency             `json:"targetCurrency"`
	Listings       []MarketplaceListing `json:"listings"`
}

// Listing returns the slot for the given marketplace
func (o LookupOutcome) Listing(m MarketplaceID) (MarketplaceListing, bool) {
	for _, l := range o.Listings {
		if l.Marketplace == m {
			return l, true
		}
	}
	return MarketplaceListing{}, false
}

// ComparisonResult is the ordered set of outcomes produced by one session
type ComparisonResult struct {
	SessionID string          `json:"sessionId"`
	Outcomes  []LookupOutcome `json:"outcomes"`
}

// LookupRecord is the persisted row written once per processed product
type LookupRecord struct {
	ID            int64     `json:"id"`
	ProductName   string    `json:"productName"`
	EbayValue     *string   `json:"ebayValue,omitempty"`
	FlipkartTitle *string   `json:"flipkartTitle,omitempty"`
	FlipkartValue *string   `json:"flipkartValue,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// NewLookupRecord flattens an outcome into the persisted shape
func NewLookupRecord(o LookupOutcome) LookupRecord {
	rec := LookupRecord{ProductName: o.ProductName}
	if l, ok := o.Listing(MarketplaceEbay); ok && l.Price != nil {
		v := l.Price.String()
		rec.EbayValue = &v
	}
	if l, ok := o.Listing(MarketplaceFlipkart); ok {
		rec.FlipkartTitle = l.Title
		if l.Price != nil {
			v := l.Price.String()
			rec.FlipkartValue = &v
		}
	}
	return rec
}
