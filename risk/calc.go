package risk

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrDegenerateLadder means the buy-target denominator is too close
	// to zero for the next-buy price to mean anything. The caller skips
	// the buy check for that ladder instead of dividing.
	ErrDegenerateLadder = errors.New("risk: degenerate ladder, buy-target denominator near zero")

	// ErrNoPosition means lots == 0: no position exists, so no
	// margin-call price is defined.
	ErrNoPosition = errors.New("risk: no position held, margin-call price undefined")
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)

	// denominator magnitudes below this are treated as degenerate
	denomEpsilon = decimal.New(1, -9) // 1e-9
)

// NextBuyPrice computes the price at which buying one more lot would
// exactly consume the capital the safety-rate assumption allows.
// safetyRate is a percentage in [0,100): the assumed cash fraction of
// the next purchase, with the remainder financed at the margin rate.
//
//	K = safety/100 + (1 - safety/100) * marginRate
//	next = (equity - lots*size*entry) / ((lots+1)*size*K - lots*size)
//
// A non-positive result is a data-quality signal (stale or inconsistent
// snapshot), not a buy signal; that call is the caller's to make.
func NextBuyPrice(s Snapshot, safetyRate decimal.Decimal) (decimal.Decimal, error) {
	cash := safetyRate.Div(hundred)
	k := cash.Add(one.Sub(cash).Mul(s.MarginRate))

	lots := decimal.NewFromInt(s.Lots)
	nextLots := decimal.NewFromInt(s.Lots + 1)

	num := s.Equity.Sub(s.Exposure())
	den := nextLots.Mul(s.ContractSize).Mul(k).Sub(lots.Mul(s.ContractSize))

	if den.Abs().LessThan(denomEpsilon) {
		return decimal.Zero, ErrDegenerateLadder
	}

	return num.Div(den), nil
}

// MarginCallPrice computes the static price at which the recorded
// position's equity reaches the maintenance boundary:
//
//	(size*lots*entry - equity) / (size*lots*(1 - marginRate))
//
// It depends only on the snapshot, never on the live quote. The result
// may legitimately be negative for an over-collateralized position,
// meaning the ladder cannot be margin-called at any positive price;
// callers must not clamp it.
func MarginCallPrice(s Snapshot) (decimal.Decimal, error) {
	if s.Lots == 0 {
		return decimal.Zero, ErrNoPosition
	}

	lots := decimal.NewFromInt(s.Lots)
	num := s.Exposure().Sub(s.Equity)
	den := s.ContractSize.Mul(lots).Mul(one.Sub(s.MarginRate))

	return num.Div(den), nil
}
