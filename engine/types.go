/*
Package engine provides the financial calculation engine.

PURPOSE:
  Pure, stateless functions for loan and savings mathematics. Every function
  takes plain numbers and returns plain numbers or structured schedules.
  There is no I/O, no shared state and no error path: the engine trusts its
  inputs and leaves validation to the finance package.

KEY CONCEPTS IN THIS FILE (types.go):
  - ScheduleRow:      One period of an amortization schedule
  - ScheduleTotals:   Aggregates over a whole schedule
  - WealthPoint:      Net worth at the start of a projection year
  - PrepaymentImpact: What-if result of a lump-sum loan prepayment

CONVENTIONS:
  1. Rates are PERCENTAGES (8.5 means 8.5%). The engine divides by 100.
  2. Months are uniform periods. A year is exactly 12 of them.
  3. Results are rounded to cents at the boundary of each exported function.
     Iterations carry full precision between steps.

PRECONDITIONS:
  Principal > 0, tenure > 0, years >= 0. Violations are undefined behaviour:
  the result may be NaN or ±Inf and the caller must detect it. A zero rate is
  NOT a violation and is handled by the linear special cases.

CONCURRENCY:
  All functions are safe to call from any number of goroutines.

SEE ALSO:
  - emi.go: ComputeEMI, GenerateSchedule
  - growth.go: GrowInvestment, RequiredMonthlySavings
  - projection.go: ProjectWealth, DeflateProjection
  - prepayment.go: AnalyzePrepayment
*/
package engine

// =============================================================================
// AMORTIZATION
// =============================================================================

// ScheduleRow is one period of an amortization schedule.
// Interest + Principal equals Payment within one cent.
type ScheduleRow struct {
	Period    int
	Payment   float64
	Interest  float64
	Principal float64
	Balance   float64 // remaining balance after this payment
}

// ScheduleTotals sums a schedule.
type ScheduleTotals struct {
	TotalPaid      float64
	TotalInterest  float64
	TotalPrincipal float64
}

// =============================================================================
// PROJECTION
// =============================================================================

// WealthPoint is the net worth at the start of a projection year.
// Year 0 is the current, unmodified value.
type WealthPoint struct {
	Year     int
	NetWorth float64
}

// =============================================================================
// PREPAYMENT
// =============================================================================

// PrepaymentImpact compares a loan before and after a lump-sum prepayment.
//
// ReducedEMI keeps the tenure and lowers the installment. ReducedTenure keeps
// the installment and shortens the loan. They are alternatives, not a combined
// plan. InterestSaved is derived from the ReducedEMI option.
type PrepaymentImpact struct {
	OriginalEMI    float64
	OriginalTenure int
	ReducedEMI     float64
	ReducedTenure  int
	InterestSaved  float64
	TenureSaved    int
}

// FullyCleared reports whether the prepayment paid off the whole loan.
func (p PrepaymentImpact) FullyCleared() bool {
	return p.ReducedEMI == 0 && p.ReducedTenure == 0
}
