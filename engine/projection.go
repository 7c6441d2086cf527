package engine

import "math"

// ProjectWealth projects net worth year by year:
//
//	next = current * (1 + growth/100) + yearlySavings
//
// The result has years+1 points. Point 0 is initialNetWorth untouched. Savings
// and growth may be negative and nothing is clamped, so net worth may shrink
// or go below zero.
//
// Full precision is carried from one year to the next; only the reported
// points are rounded.
func ProjectWealth(initialNetWorth, yearlySavings, annualGrowthPercent float64, years int) []WealthPoint {
	points := make([]WealthPoint, 0, years+1)
	points = append(points, WealthPoint{Year: 0, NetWorth: initialNetWorth})

	growth := 1 + annualGrowthPercent/100
	current := initialNetWorth
	for year := 1; year <= years; year++ {
		current = current*growth + yearlySavings
		points = append(points, WealthPoint{Year: year, NetWorth: Round2(current)})
	}
	return points
}

// DeflateProjection restates nominal projection points in today's money by
// discounting each year with inflationPercent. Year 0 is returned as is.
func DeflateProjection(points []WealthPoint, inflationPercent float64) []WealthPoint {
	out := make([]WealthPoint, len(points))
	for i, p := range points {
		if p.Year == 0 {
			out[i] = p
			continue
		}
		deflator := math.Pow(1+inflationPercent/100, float64(p.Year))
		out[i] = WealthPoint{Year: p.Year, NetWorth: Round2(p.NetWorth / deflator)}
	}
	return out
}
