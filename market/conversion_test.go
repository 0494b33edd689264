package market

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestIdentity(t *testing.T) {
	t.Parallel()

	price := decimal.RequireFromString("31.405")
	assert.True(t, Identity().Apply(price).Equal(price))
}

func TestOunceUSDToKilogram(t *testing.T) {
	t.Parallel()

	// 31.405 USD/oz * 7.3 CNY/USD * 1000/31.1035 g/oz ≈ 7371.0 CNY/kg
	conv := OunceUSDToKilogram(decimal.RequireFromString("7.3"))
	got := conv.Apply(decimal.RequireFromString("31.405"))

	assert.InDelta(t, 31.405*7.3*1000/31.1035, got.InexactFloat64(), 1e-6)
}
