package finance

import "github.com/shopspring/decimal"

var (
	weeksPerMonth = decimal.RequireFromString("4.33")
	three         = decimal.NewFromInt(3)
	six           = decimal.NewFromInt(6)
	twelve        = decimal.NewFromInt(12)
)

// MonthlyAmount normalizes a recurring amount to a monthly figure.
// One-time amounts are excluded from monthly aggregates and return zero.
// Unknown frequencies are rejected by validation and treated as monthly here.
func MonthlyAmount(amount decimal.Decimal, f Frequency) decimal.Decimal {
	switch f {
	case FrequencyWeekly:
		return amount.Mul(weeksPerMonth)
	case FrequencyQuarterly:
		return amount.Div(three)
	case FrequencyHalfYearly:
		return amount.Div(six)
	case FrequencyYearly:
		return amount.Div(twelve)
	case FrequencyOneTime:
		return decimal.Zero
	default:
		return amount
	}
}
