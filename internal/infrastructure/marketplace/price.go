package marketplace

import (
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"

	"github.com/pricelens/backend/internal/domain"
)

// leadingAmountRegex matches the first amount after the currency marker.
// Ranges such as "$10.00 to $20.00" resolve to their lower bound.
var leadingAmountRegex = regexp.MustCompile(`^\s*([0-9][0-9,]*(?:\.[0-9]+)?)`)

// ParsePrice maps marketplace price text such as "₹65,000" to Money in the
// marketplace's native currency, inferred from the leading symbol.
// Text without a recognized symbol yields domain.ErrUnknownCurrencySymbol.
func ParsePrice(raw string) (domain.Money, error) {
	raw = strings.TrimSpace(raw)

	cur, marker, err := domain.CurrencyForMarker(raw)
	if err != nil {
		return domain.Money{}, err
	}

	m := leadingAmountRegex.FindStringSubmatch(raw[len(marker):])
	if m == nil {
		return domain.Money{}, eris.Wrapf(domain.ErrPriceElementMissing, "no amount in %q", raw)
	}

	amount, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return domain.Money{}, eris.Wrapf(domain.ErrPriceElementMissing, "amount %q: %v", m[1], err)
	}
	return domain.NewMoney(amount, cur)
}
