// Package render formats comparison results and stored records as plain text.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/pricelens/backend/internal/domain"
)

// Comparison writes one block per product, in result order
func Comparison(w io.Writer, result domain.ComparisonResult) error {
	blocks := make([]string, 0, len(result.Outcomes))
	for _, o := range result.Outcomes {
		blocks = append(blocks, outcomeBlock(o))
	}
	_, err := io.WriteString(w, strings.Join(blocks, "\n\n"))
	if err != nil {
		return err
	}
	if len(blocks) > 0 {
		_, err = io.WriteString(w, "\n")
	}
	return err
}

func outcomeBlock(o domain.LookupOutcome) string {
	var b strings.Builder

	if l, ok := o.Listing(domain.MarketplaceEbay); ok && l.Found() {
		fmt.Fprintf(&b, "eBay\nTitle: %s\nPrice: %s", o.ProductName, l.Price)
	} else {
		fmt.Fprintf(&b, "Unable to retrieve information from eBay for %s.", o.ProductName)
	}

	b.WriteString("\n\n")

	if l, ok := o.Listing(domain.MarketplaceFlipkart); ok && l.Found() {
		title := o.ProductName
		if l.Title != nil {
			title = *l.Title
		}
		fmt.Fprintf(&b, "Flipkart\nTitle: %s\nPrice: %s", title, l.Price)
	} else {
		fmt.Fprintf(&b, "Unable to retrieve price information from Flipkart for %s.", o.ProductName)
	}

	return b.String()
}

// Records writes one line per stored record
func Records(w io.Writer, records []domain.LookupRecord) error {
	if len(records) == 0 {
		_, err := io.WriteString(w, "Database is empty.\n")
		return err
	}
	for _, r := range records {
		_, err := fmt.Fprintf(w, "ID: %d, Name: %s, eBay Price: %s, Flipkart Title: %s, Flipkart Price: %s\n",
			r.ID, r.ProductName, orNone(r.EbayValue), orNone(r.FlipkartTitle), orNone(r.FlipkartValue))
		if err != nil {
			return err
		}
	}
	return nil
}

func orNone(s *string) string {
	if s == nil {
		return "None"
	}
	return *s
}
