package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricelens/backend/internal/domain"
)

func TestCurrencyConverter_IdentityDoesNotCallRateSource(t *testing.T) {
	rates := &FailingRateProvider{}
	converter := NewCurrencyConverter(rates)
	ctx := context.Background()

	for _, c := range domain.DefaultCurrencies {
		for _, amount := range []string{"0", "799.99", "65000", "0.005"} {
			x := decimal.RequireFromString(amount)
			got, err := converter.Convert(ctx, x, c, c)
			require.NoError(t, err)
			assert.True(t, got.Equal(x), "%s %s", amount, c)
		}
	}
	assert.False(t, rates.called)
}

func TestCurrencyConverter_Convert(t *testing.T) {
	rates := NewMockRateProvider()
	rates.rates["INR:USD"] = decimal.RequireFromString("0.012")
	converter := NewCurrencyConverter(rates)

	got, err := converter.Convert(context.Background(), decimal.RequireFromString("65000"), domain.INR, domain.USD)

	require.NoError(t, err)
	assert.Equal(t, "780.00", got.StringFixed(2))
	assert.Equal(t, 1, rates.calls)
}

func TestCurrencyConverter_RoundsToTwoPlaces(t *testing.T) {
	rates := NewMockRateProvider()
	rates.rates["USD:EUR"] = decimal.RequireFromString("0.91837")
	converter := NewCurrencyConverter(rates)

	got, err := converter.Convert(context.Background(), decimal.RequireFromString("799.99"), domain.USD, domain.EUR)

	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("734.69")), "got %s", got)
}

func TestCurrencyConverter_RateErrors(t *testing.T) {
	t.Run("sentinel passes through", func(t *testing.T) {
		converter := NewCurrencyConverter(NewMockRateProvider())
		_, err := converter.Convert(context.Background(), decimal.NewFromInt(1), domain.USD, domain.GBP)
		assert.ErrorIs(t, err, domain.ErrRateUnavailable)
	})

	t.Run("foreign errors are classified", func(t *testing.T) {
		rates := NewMockRateProvider()
		rates.err = errors.New("connection refused")
		converter := NewCurrencyConverter(rates)

		_, err := converter.Convert(context.Background(), decimal.NewFromInt(1), domain.USD, domain.GBP)
		assert.ErrorIs(t, err, domain.ErrRateUnavailable)
		assert.Contains(t, err.Error(), "connection refused")
	})
}

func TestCurrencyConverter_ConvertMoney(t *testing.T) {
	rates := NewMockRateProvider()
	rates.rates["USD:INR"] = decimal.RequireFromString("83.1")
	converter := NewCurrencyConverter(rates)

	in, err := domain.NewMoney(decimal.RequireFromString("10"), domain.USD)
	require.NoError(t, err)

	out, err := converter.ConvertMoney(context.Background(), in, domain.INR)
	require.NoError(t, err)
	assert.Equal(t, "831.00 INR", out.String())
}
