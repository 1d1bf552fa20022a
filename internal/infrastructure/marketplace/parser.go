package marketplace

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"

	"github.com/pricelens/backend/internal/domain"
)

// CSS markers of the search result pages. These are not a stable contract
// and must be revalidated when a marketplace changes its markup.
const (
	ebayPriceSelector     = "span.s-item__price"
	flipkartTitleSelector = "div._4rR01T"
	flipkartPriceSelector = "div._30jeq3"
)

// DefaultEbaySkipLeading is how many leading eBay price nodes are ignored.
// The first node on the results page is a "from price" banner, not a listing.
const DefaultEbaySkipLeading = 1

// EbayParser extracts a price, without title, from an eBay search page
type EbayParser struct {
	skipLeading int
}

// NewEbayParser creates a parser that ignores the first skipLeading price nodes
func NewEbayParser(skipLeading int) *EbayParser {
	if skipLeading < 0 {
		skipLeading = 0
	}
	return &EbayParser{skipLeading: skipLeading}
}

// Parse returns the first price after the skipped banner nodes
func (p *EbayParser) Parse(html []byte) (*domain.PriceExtraction, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, eris.Wrapf(domain.ErrListingNotFound, "ebay: parse html: %v", err)
	}

	text, ok := afterLeading(doc.Find(ebayPriceSelector), p.skipLeading)
	if !ok {
		return nil, eris.Wrapf(domain.ErrListingNotFound, "ebay: fewer than %d price nodes", p.skipLeading+1)
	}
	if !domain.HasCurrencyMarker(text) {
		return nil, eris.Wrapf(domain.ErrPriceElementMissing, "ebay: price %q has no currency marker", text)
	}
	return &domain.PriceExtraction{RawPrice: text}, nil
}

// afterLeading returns the trimmed text of the node at index skip, if present
func afterLeading(sel *goquery.Selection, skip int) (string, bool) {
	if sel.Length() <= skip {
		return "", false
	}
	return strings.TrimSpace(sel.Eq(skip).Text()), true
}

// FlipkartParser extracts the best matching title and its price from a Flipkart search page
type FlipkartParser struct{}

// NewFlipkartParser creates a Flipkart parser
func NewFlipkartParser() *FlipkartParser {
	return &FlipkartParser{}
}

// Parse takes the first title node and the first price node following it in document order.
// A found title is returned with ErrPriceElementMissing when no usable price follows it.
func (p *FlipkartParser) Parse(html []byte) (*domain.PriceExtraction, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, eris.Wrapf(domain.ErrListingNotFound, "flipkart: parse html: %v", err)
	}

	title, price, titleFound, priceFound := firstTitleThenPrice(doc.Selection)
	if !titleFound {
		return nil, eris.Wrap(domain.ErrListingNotFound, "flipkart: no product title")
	}
	if !priceFound {
		return &domain.PriceExtraction{Title: title}, eris.Wrapf(domain.ErrPriceElementMissing, "flipkart: no price after %q", title)
	}
	if !domain.HasCurrencyMarker(price) {
		return &domain.PriceExtraction{Title: title}, eris.Wrapf(domain.ErrPriceElementMissing, "flipkart: price %q has no currency marker", price)
	}
	return &domain.PriceExtraction{Title: title, RawPrice: price}, nil
}

// firstTitleThenPrice walks title and price nodes in document order
func firstTitleThenPrice(root *goquery.Selection) (title, price string, titleFound, priceFound bool) {
	root.Find(flipkartTitleSelector + ", " + flipkartPriceSelector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !titleFound {
			if s.Is(flipkartTitleSelector) {
				title = strings.TrimSpace(s.Text())
				titleFound = true
			}
			return true
		}
		if s.Is(flipkartPriceSelector) {
			price = strings.TrimSpace(s.Text())
			priceFound = true
			return false
		}
		return true
	})
	return title, price, titleFound, priceFound
}

// NewParsers returns the parser for each marketplace
func NewParsers(ebaySkipLeading int) map[domain.MarketplaceID]domain.ListingParser {
	return map[domain.MarketplaceID]domain.ListingParser{
		domain.MarketplaceEbay:     NewEbayParser(ebaySkipLeading),
		domain.MarketplaceFlipkart: NewFlipkartParser(),
	}
}
