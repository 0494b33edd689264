package risk

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AlertKind tags what a rule fired on.
type AlertKind string

const (
	RatioBreach           AlertKind = "ratio_breach"
	ApproachingBuyTarget  AlertKind = "approaching_buy_target"
	ApproachingMarginCall AlertKind = "approaching_margin_call"
)

// Alert is one rule firing for one run. Transient: produced and
// consumed within a single evaluation.
type Alert struct {
	Kind      AlertKind
	Ladder    string // empty for the cross-asset ratio rule
	LivePrice decimal.Decimal
	Threshold decimal.Decimal
	Message   string
}

// Policy holds the externally configured alert rule constants. They are
// explicit parameters, never literals inside the rules, so each rule is
// independently testable.
type Policy struct {
	// RatioFloor: gold/silver below this fires RatioBreach.
	RatioFloor decimal.Decimal

	// BuyProximityPct: fire when live <= nextBuy * (1 + pct/100).
	BuyProximityPct decimal.Decimal

	// MarginProximityPct: fire when live <= marginCall * (1 + pct/100).
	MarginProximityPct decimal.Decimal
}

// DefaultPolicy returns the stock thresholds: ratio floor 44, buy
// proximity 1%, margin proximity 5%.
func DefaultPolicy() Policy {
	return Policy{
		RatioFloor:         decimal.NewFromInt(44),
		BuyProximityPct:    decimal.NewFromInt(1),
		MarginProximityPct: decimal.NewFromInt(5),
	}
}

// LadderState is one ladder's inputs to the evaluator: the normalized
// live price plus whichever thresholds the calculator could define.
// An undefined threshold (NextBuyOK / MarginCallOK false) simply cannot
// fire its rule.
type LadderState struct {
	Name      string
	LivePrice decimal.Decimal

	NextBuy   decimal.Decimal
	NextBuyOK bool

	MarginCall   decimal.Decimal
	MarginCallOK bool
}

// EvalInput is everything one run feeds the rules.
type EvalInput struct {
	Gold    decimal.Decimal
	Silver  decimal.Decimal
	Ladders []LadderState
}

// Evaluate runs every rule and returns all that fire. Pure and total:
// it never errors, and identical inputs produce the identical alert
// sequence — ratio rule first, then each ladder in input order with the
// buy rule ahead of the margin rule.
func Evaluate(in EvalInput, p Policy) []Alert {
	var alerts []Alert

	if in.Silver.IsPositive() {
		ratio := in.Gold.Div(in.Silver)
		if ratio.LessThan(p.RatioFloor) {
			alerts = append(alerts, Alert{
				Kind:      RatioBreach,
				LivePrice: ratio,
				Threshold: p.RatioFloor,
				Message: fmt.Sprintf("Gold/Silver ratio %s below floor %s",
					ratio.StringFixed(2), p.RatioFloor.StringFixed(2)),
			})
		}
	}

	for _, l := range in.Ladders {
		// Non-positive next-buy means a stale or inconsistent snapshot,
		// not "buy immediately".
		if l.NextBuyOK && l.NextBuy.IsPositive() {
			limit := l.NextBuy.Mul(one.Add(p.BuyProximityPct.Div(hundred)))
			if l.LivePrice.LessThanOrEqual(limit) {
				alerts = append(alerts, Alert{
					Kind:      ApproachingBuyTarget,
					Ladder:    l.Name,
					LivePrice: l.LivePrice,
					Threshold: l.NextBuy,
					Message: fmt.Sprintf("%s: price %s close to next buy target %s",
						l.Name, l.LivePrice.StringFixed(2), l.NextBuy.StringFixed(2)),
				})
			}
		}

		// A margin-call price <= 0 is unreachable: the ladder cannot be
		// margin-called at any positive price, so the rule never arms.
		if l.MarginCallOK && l.MarginCall.IsPositive() {
			limit := l.MarginCall.Mul(one.Add(p.MarginProximityPct.Div(hundred)))
			if l.LivePrice.LessThanOrEqual(limit) {
				alerts = append(alerts, Alert{
					Kind:      ApproachingMarginCall,
					Ladder:    l.Name,
					LivePrice: l.LivePrice,
					Threshold: l.MarginCall,
					Message: fmt.Sprintf("%s: MARGIN CALL WARNING, price %s near boom price %s",
						l.Name, l.LivePrice.StringFixed(2), l.MarginCall.StringFixed(2)),
				})
			}
		}
	}

	return alerts
}
