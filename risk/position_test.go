package risk

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNewSnapshot_Valid(t *testing.T) {
	t.Parallel()

	s, err := NewSnapshot(d("30"), d("1000"), 2, d("5000"), d("0.1"))
	require.NoError(t, err)

	assert.True(t, s.EntryPrice.Equal(d("30")))
	assert.True(t, s.Equity.Equal(d("1000")))
	assert.Equal(t, int64(2), s.Lots)
	assert.True(t, s.Exposure().Equal(d("300000")))
}

func TestNewSnapshot_Rejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		entry        string
		equity       string
		lots         int64
		contractSize string
		marginRate   string
	}{
		{"zero_entry", "0", "1000", 1, "5000", "0.1"},
		{"negative_entry", "-30", "1000", 1, "5000", "0.1"},
		{"negative_lots", "30", "1000", -1, "5000", "0.1"},
		{"zero_contract_size", "30", "1000", 1, "0", "0.1"},
		{"negative_contract_size", "30", "1000", 1, "-5000", "0.1"},
		{"margin_rate_one", "30", "1000", 1, "5000", "1"},
		{"margin_rate_above_one", "30", "1000", 1, "5000", "1.5"},
		{"negative_margin_rate", "30", "1000", 1, "5000", "-0.1"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewSnapshot(d(tt.entry), d(tt.equity), tt.lots, d(tt.contractSize), d(tt.marginRate))
			assert.Error(t, err)
		})
	}
}

func TestNewSnapshot_NegativeEquityAllowed(t *testing.T) {
	t.Parallel()

	// Equity can be negative in principle; only structural fields are
	// rejected.
	_, err := NewSnapshot(d("30"), d("-500"), 1, d("5000"), d("0.1"))
	assert.NoError(t, err)
}
