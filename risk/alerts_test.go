package risk

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(alerts []Alert) []AlertKind {
	out := make([]AlertKind, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, a.Kind)
	}
	return out
}

func TestEvaluate_RatioRule(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		gold   string
		silver string
		fires  bool
	}{
		{"ratio_40_fires", "40", "1", true},
		{"ratio_50_quiet", "50", "1", false},
		{"ratio_at_floor_quiet", "44", "1", false},
		{"just_below_floor_fires", "43.99", "1", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Evaluate(EvalInput{Gold: d(tt.gold), Silver: d(tt.silver)}, DefaultPolicy())
			if tt.fires {
				require.Len(t, got, 1)
				assert.Equal(t, RatioBreach, got[0].Kind)
				assert.Empty(t, got[0].Ladder)
			} else {
				assert.Empty(t, got)
			}
		})
	}
}

func TestEvaluate_BuyProximityBoundary(t *testing.T) {
	t.Parallel()

	nextBuy := d("51.551724137931")

	ladder := func(live decimal.Decimal) EvalInput {
		return EvalInput{
			Gold:   d("100"),
			Silver: d("1"), // ratio 100, quiet
			Ladders: []LadderState{{
				Name:      "moo",
				LivePrice: live,
				NextBuy:   nextBuy,
				NextBuyOK: true,
			}},
		}
	}

	// Exactly at nextBuy * 1.01: fires (inclusive boundary).
	got := Evaluate(ladder(nextBuy.Mul(d("1.01"))), DefaultPolicy())
	require.Len(t, got, 1)
	assert.Equal(t, ApproachingBuyTarget, got[0].Kind)
	assert.Equal(t, "moo", got[0].Ladder)

	// At nextBuy * 1.02: quiet.
	got = Evaluate(ladder(nextBuy.Mul(d("1.02"))), DefaultPolicy())
	assert.Empty(t, got)
}

func TestEvaluate_MarginProximityBoundary(t *testing.T) {
	t.Parallel()

	mc := d("33.222222222222")

	ladder := func(live decimal.Decimal) EvalInput {
		return EvalInput{
			Gold:   d("100"),
			Silver: d("1"),
			Ladders: []LadderState{{
				Name:         "moo",
				LivePrice:    live,
				MarginCall:   mc,
				MarginCallOK: true,
			}},
		}
	}

	got := Evaluate(ladder(mc.Mul(d("1.05"))), DefaultPolicy())
	require.Len(t, got, 1)
	assert.Equal(t, ApproachingMarginCall, got[0].Kind)

	got = Evaluate(ladder(mc.Mul(d("1.06"))), DefaultPolicy())
	assert.Empty(t, got)
}

func TestEvaluate_NegativeMarginCallNeverFires(t *testing.T) {
	t.Parallel()

	in := EvalInput{
		Gold:   d("100"),
		Silver: d("1"),
		Ladders: []LadderState{{
			Name:         "moo",
			LivePrice:    d("0.01"), // as low as it gets
			MarginCall:   d("-22.22"),
			MarginCallOK: true,
		}},
	}

	assert.Empty(t, Evaluate(in, DefaultPolicy()))
}

func TestEvaluate_UndefinedThresholdsCannotFire(t *testing.T) {
	t.Parallel()

	in := EvalInput{
		Gold:   d("100"),
		Silver: d("1"),
		Ladders: []LadderState{{
			Name:      "cn",
			LivePrice: d("0.01"),
			// NextBuyOK / MarginCallOK false: both rules disarmed.
			NextBuy:    d("50"),
			MarginCall: d("30"),
		}},
	}

	assert.Empty(t, Evaluate(in, DefaultPolicy()))
}

func TestEvaluate_NonPositiveNextBuyIsDataQuality(t *testing.T) {
	t.Parallel()

	in := EvalInput{
		Gold:   d("100"),
		Silver: d("1"),
		Ladders: []LadderState{{
			Name:      "moo",
			LivePrice: d("0.01"),
			NextBuy:   d("-5"),
			NextBuyOK: true,
		}},
	}

	assert.Empty(t, Evaluate(in, DefaultPolicy()))
}

func TestEvaluate_OrderingStable(t *testing.T) {
	t.Parallel()

	// Two ladders, ratio 42 below the floor, every rule armed low
	// enough to fire: ratio first, then ladders in input order, buy
	// before margin within a ladder.
	in := EvalInput{
		Gold:   d("42"),
		Silver: d("1"),
		Ladders: []LadderState{
			{
				Name:         "moo",
				LivePrice:    d("1"),
				NextBuy:      d("50"),
				NextBuyOK:    true,
				MarginCall:   d("30"),
				MarginCallOK: true,
			},
			{
				Name:         "cn",
				LivePrice:    d("100"),
				NextBuy:      d("8000"),
				NextBuyOK:    true,
				MarginCall:   d("6000"),
				MarginCallOK: true,
			},
		},
	}

	want := []AlertKind{
		RatioBreach,
		ApproachingBuyTarget, ApproachingMarginCall,
		ApproachingBuyTarget, ApproachingMarginCall,
	}

	first := Evaluate(in, DefaultPolicy())
	require.Equal(t, want, kinds(first))
	assert.Equal(t, "moo", first[1].Ladder)
	assert.Equal(t, "cn", first[3].Ladder)

	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Evaluate(in, DefaultPolicy()))
	}
}

func TestEvaluate_TwoLaddersEndToEnd(t *testing.T) {
	t.Parallel()

	// Gold 42 / silver 1 breaches the floor; the first ladder's buy
	// rule fires, the second ladder stays quiet. Total count and
	// content fully determined by the formulas.
	in := EvalInput{
		Gold:   d("42"),
		Silver: d("1"),
		Ladders: []LadderState{
			{
				Name:         "moo",
				LivePrice:    d("1"),
				NextBuy:      d("50"),
				NextBuyOK:    true,
				MarginCall:   d("-3"),
				MarginCallOK: true,
			},
			{
				Name:         "cn",
				LivePrice:    d("10000"),
				NextBuy:      d("8000"),
				NextBuyOK:    true,
				MarginCall:   d("6000"),
				MarginCallOK: true,
			},
		},
	}

	got := Evaluate(in, DefaultPolicy())
	require.Equal(t, []AlertKind{RatioBreach, ApproachingBuyTarget}, kinds(got))
	assert.Equal(t, "moo", got[1].Ladder)
	assert.Contains(t, got[0].Message, "42.00")
}
