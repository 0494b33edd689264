package risk

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Snapshot is one ladder's recorded state at the last manual sync.
// It is rebuilt from config on every run and never mutated; all the
// threshold math below reads only these fields.
type Snapshot struct {
	// EntryPrice is the price recorded when the ladder state was last
	// synced, in the ladder's own currency/unit basis.
	EntryPrice decimal.Decimal

	// Equity is the account equity recorded at that same moment.
	Equity decimal.Decimal

	// Lots is the number of contracts currently held.
	Lots int64

	// ContractSize is units of underlying per lot (e.g. 5000 oz, 15 kg).
	ContractSize decimal.Decimal

	// MarginRate is the maintenance margin rate as a fraction in [0,1).
	MarginRate decimal.Decimal
}

// NewSnapshot validates the ladder fields up front so the calculator
// never has to paper over bad config with a zero or NaN.
func NewSnapshot(entryPrice, equity decimal.Decimal, lots int64, contractSize, marginRate decimal.Decimal) (Snapshot, error) {
	if !entryPrice.IsPositive() {
		return Snapshot{}, fmt.Errorf("entry price must be positive, got %s", entryPrice)
	}
	if lots < 0 {
		return Snapshot{}, fmt.Errorf("lots must not be negative, got %d", lots)
	}
	if !contractSize.IsPositive() {
		return Snapshot{}, fmt.Errorf("contract size must be positive, got %s", contractSize)
	}
	if marginRate.IsNegative() || marginRate.GreaterThanOrEqual(one) {
		return Snapshot{}, fmt.Errorf("margin rate must be in [0,1), got %s", marginRate)
	}

	return Snapshot{
		EntryPrice:   entryPrice,
		Equity:       equity,
		Lots:         lots,
		ContractSize: contractSize,
		MarginRate:   marginRate,
	}, nil
}

// Exposure is the notional recorded against the snapshot:
// lots * contractSize * entryPrice.
func (s Snapshot) Exposure() decimal.Decimal {
	return decimal.NewFromInt(s.Lots).Mul(s.ContractSize).Mul(s.EntryPrice)
}
