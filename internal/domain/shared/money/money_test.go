package money

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromFloatRoundsToCents(t *testing.T) {
	m, err := FromFloat(120.505)
	require.NoError(t, err)
	assert.Equal(t, int64(12051), m.Amount)
	assert.Equal(t, DefaultCurrency, m.Currency)
	assert.InDelta(t, 120.51, m.Float(), 0.0001)
}

func TestFromFloatRejectsInvalid(t *testing.T) {
	_, err := FromFloat(-1)
	assert.ErrorIs(t, err, ErrNegativeAmount)
	_, err = FromFloat(math.NaN())
	assert.ErrorIs(t, err, ErrNotFinite)
}

func TestAddRequiresSameCurrency(t *testing.T) {
	sum, err := Must(100, "aud").Add(Must(250, "AUD"))
	require.NoError(t, err)
	assert.Equal(t, int64(350), sum.Amount)

	_, err = Must(100, "AUD").Add(Must(100, "USD"))
	assert.ErrorIs(t, err, ErrCurrencyMismatch)
}

func TestMultiply(t *testing.T) {
	assert.Equal(t, Money{Amount: 900, Currency: "AUD"}, Must(300, "AUD").Multiply(3))
}
