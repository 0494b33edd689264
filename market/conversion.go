package market

import "github.com/shopspring/decimal"

// GramsPerTroyOunce converts between the feed's troy-ounce quotes and
// kilogram-based domestic contracts.
var GramsPerTroyOunce = decimal.RequireFromString("31.1035")

// Conversion maps a feed quote into a ladder's local basis.
// Identity (rate 1, unit 1) leaves the quote untouched; the domestic
// futures ladder uses an FX rate plus grams-per-ounce unit scaling to
// go from USD/oz to CNY/kg.
type Conversion struct {
	// Rate is the FX rate applied to the quote currency (e.g. USD→CNY).
	Rate decimal.Decimal

	// UnitFactor rescales the quote unit (e.g. 1000/31.1035 for oz→kg).
	UnitFactor decimal.Decimal
}

// Identity is the no-op conversion for ladders quoted in the feed's
// own basis.
func Identity() Conversion {
	return Conversion{Rate: decimal.NewFromInt(1), UnitFactor: decimal.NewFromInt(1)}
}

// OunceUSDToKilogram builds the oz→kg leg for a given FX rate.
func OunceUSDToKilogram(fxRate decimal.Decimal) Conversion {
	return Conversion{
		Rate:       fxRate,
		UnitFactor: decimal.NewFromInt(1000).Div(GramsPerTroyOunce),
	}
}

// Apply normalizes a feed price into the ladder's basis.
func (c Conversion) Apply(price decimal.Decimal) decimal.Decimal {
	return price.Mul(c.Rate).Mul(c.UnitFactor)
}
