package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Currency is a 3-letter ISO 4217 currency code
type Currency string

// Currencies recognized out of the box. More can be enabled through configuration.
const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	INR Currency = "INR"
)

// DefaultCurrencies is the recognized target currency set when none is configured
var DefaultCurrencies = []Currency{USD, EUR, GBP, INR}

// currencyMarkers maps the leading symbol of a marketplace price to the currency it denotes
var currencyMarkers = map[string]Currency{
	"$": USD,
	"₹": INR,
}

// ParseCurrency normalizes and validates an ISO currency code
func ParseCurrency(code string) (Currency, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	unit, err := currency.ParseISO(code)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedCurrency, code)
	}
	return Currency(unit.String()), nil
}

// CurrencyForMarker returns the currency denoted by the leading symbol of s.
// The returned marker is the matched prefix so callers can strip it.
func CurrencyForMarker(s string) (Currency, string, error) {
	for marker, c := range currencyMarkers {
		if strings.HasPrefix(s, marker) {
			return c, marker, nil
		}
	}
	return "", "", fmt.Errorf("%w: %q", ErrUnknownCurrencySymbol, s)
}

// HasCurrencyMarker reports whether s begins with a recognized currency symbol
func HasCurrencyMarker(s string) bool {
	_, _, err := CurrencyForMarker(s)
	return err == nil
}

// Money is an immutable non-negative amount in a single currency
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney builds a Money value, rejecting negative amounts
func NewMoney(amount decimal.Decimal, c Currency) (Money, error) {
	if amount.IsNegative() {
		return Money{}, fmt.Errorf("%w: %s", ErrNegativeAmount, amount.String())
	}
	return Money{amount: amount, currency: c}, nil
}

// Amount returns the monetary amount
func (m Money) Amount() decimal.Decimal { return m.amount }

// Currency returns the currency code
func (m Money) Currency() Currency { return m.currency }

// String renders the value as "799.99 USD"
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixed(2), m.currency)
}

// MarshalJSON renders Money as {"amount":"799.99","currency":"USD"}
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf(`{"amount":%q,"currency":%q}`, m.amount.StringFixed(2), m.currency)), nil
}
