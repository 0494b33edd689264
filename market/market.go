package market

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Symbols for the two tracked underlyings on the price feed.
const (
	Gold   = "XAUUSDT"
	Silver = "XAGUSDT"
)

// Quote is one live spot observation in the feed's native basis
// (USD per troy ounce for the metals symbols above).
type Quote struct {
	Symbol string
	Price  decimal.Decimal
	Time   time.Time
}

// SpotSource supplies current quotes. The feed client implements it;
// tests substitute a stub.
type SpotSource interface {
	GetSpot(ctx context.Context, symbol string) (Quote, error)
}
