package engine

import (
	"math"

	"github.com/shopspring/decimal"
)

const monthsPerYear = 12

// Round2 rounds to cents, half away from zero, on the shortest decimal
// representation of v (so 1.005 rounds to 1.01, not 1.00).
// NaN and ±Inf are returned unchanged.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// MonthlyRate converts an annual percentage into a monthly decimal rate.
func MonthlyRate(annualRatePercent float64) float64 {
	return annualRatePercent / 100 / monthsPerYear
}

// growthFactor is (1+r)^n.
func growthFactor(monthlyRate float64, months float64) float64 {
	return math.Pow(1+monthlyRate, months)
}
