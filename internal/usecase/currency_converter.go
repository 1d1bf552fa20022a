package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/pricelens/backend/internal/domain"
)

// convertedPlaces is the precision of every converted amount
const convertedPlaces = 2

// CurrencyConverter converts amounts using point-in-time rates
type CurrencyConverter struct {
	rates domain.RateProvider
}

// NewCurrencyConverter creates a converter backed by a rate provider
func NewCurrencyConverter(rates domain.RateProvider) *CurrencyConverter {
	return &CurrencyConverter{rates: rates}
}

// Convert returns amount expressed in to, rounded to two decimal places.
// When from == to the amount is returned unchanged and no rate is requested.
func (c *CurrencyConverter) Convert(ctx context.Context, amount decimal.Decimal, from, to domain.Currency) (decimal.Decimal, error) {
	if from == to {
		return amount, nil
	}

	rate, err := c.rates.GetRate(ctx, from, to)
	if err != nil {
		if errors.Is(err, domain.ErrRateUnavailable) {
			return decimal.Zero, err
		}
		return decimal.Zero, fmt.Errorf("%w: %v", domain.ErrRateUnavailable, err)
	}
	return amount.Mul(rate).Round(convertedPlaces), nil
}

// ConvertMoney converts a Money value into the target currency
func (c *CurrencyConverter) ConvertMoney(ctx context.Context, m domain.Money, to domain.Currency) (domain.Money, error) {
	amount, err := c.Convert(ctx, m.Amount(), m.Currency(), to)
	if err != nil {
		return domain.Money{}, err
	}
	return domain.NewMoney(amount, to)
}
