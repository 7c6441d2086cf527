/*
calculators.go - Stateless calculator endpoints

PURPOSE:
  Exposes the engine directly so a client can try numbers without storing
  anything. Each endpoint checks the engine's preconditions first: the
  engine itself trusts its inputs and would answer NaN or Infinity for a
  zero tenure, so nothing unchecked reaches it.

ENDPOINTS:
  POST /api/calculators/emi         {principal, annual_rate, tenure_months}
  POST /api/calculators/schedule    same body as emi
  POST /api/calculators/growth      {initial_amount, monthly_contribution, annual_rate, years}
  POST /api/calculators/projection  {initial_net_worth, yearly_savings, growth_rate, years, inflation_rate?}
  POST /api/calculators/prepayment  {principal, annual_rate, remaining_tenure_months, prepayment}
  POST /api/calculators/goal        {target_amount, current_amount, years, annual_rate}

SEE ALSO:
  - engine/: The calculations
  - finance/validate.go: Shared limits
*/
package api

import (
	"net/http"

	"github.com/warp/finance-tracker/engine"
	"github.com/warp/finance-tracker/finance"
)

var maxAmount = finance.MaxAmount.InexactFloat64()

// CalculateEMI returns the monthly installment and loan totals.
func (h *Handler) CalculateEMI(w http.ResponseWriter, r *http.Request) {
	var req EMIRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := checkLoanTerms("emi", req.Principal, req.AnnualRate, req.TenureMonths); err != nil {
		h.writeStoreError(w, r, err, "Invalid loan terms")
		return
	}

	emi := engine.ComputeEMI(req.Principal, req.AnnualRate, req.TenureMonths)
	totals := engine.SummarizeSchedule(engine.GenerateSchedule(req.Principal, req.AnnualRate, req.TenureMonths))
	writeJSON(w, http.StatusOK, EMIResponse{
		EMI:           emi,
		TotalPayment:  totals.TotalPaid,
		TotalInterest: totals.TotalInterest,
	})
}

// CalculateSchedule returns the full amortization schedule.
func (h *Handler) CalculateSchedule(w http.ResponseWriter, r *http.Request) {
	var req EMIRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := checkLoanTerms("schedule", req.Principal, req.AnnualRate, req.TenureMonths); err != nil {
		h.writeStoreError(w, r, err, "Invalid loan terms")
		return
	}

	rows := engine.GenerateSchedule(req.Principal, req.AnnualRate, req.TenureMonths)
	emi := engine.ComputeEMI(req.Principal, req.AnnualRate, req.TenureMonths)
	writeJSON(w, http.StatusOK, toScheduleDTO(emi, rows, engine.SummarizeSchedule(rows)))
}

// CalculateGrowth returns the future value of a lump sum plus monthly contributions.
func (h *Handler) CalculateGrowth(w http.ResponseWriter, r *http.Request) {
	var req GrowthRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	err := firstError(
		checkRange("growth", "initial_amount", req.InitialAmount, 0, maxAmount),
		checkRange("growth", "monthly_contribution", req.MonthlyContribution, 0, maxAmount),
		checkRange("growth", "annual_rate", req.AnnualRate, -100, finance.MaxInterestRate),
		checkYears("growth", req.Years, 0),
	)
	if err != nil {
		h.writeStoreError(w, r, err, "Invalid growth inputs")
		return
	}

	fv := engine.GrowInvestment(req.InitialAmount, req.MonthlyContribution, req.AnnualRate, req.Years)
	invested := engine.Round2(req.InitialAmount + req.MonthlyContribution*float64(req.Years*12))
	writeJSON(w, http.StatusOK, GrowthResponse{
		FutureValue:   fv,
		TotalInvested: invested,
		TotalReturns:  engine.Round2(fv - invested),
	})
}

// CalculateProjection projects net worth year by year.
func (h *Handler) CalculateProjection(w http.ResponseWriter, r *http.Request) {
	var req ProjectionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	err := firstError(
		checkRange("projection", "initial_net_worth", req.InitialNetWorth, -maxAmount, maxAmount),
		checkRange("projection", "yearly_savings", req.YearlySavings, -maxAmount, maxAmount),
		checkRange("projection", "growth_rate", req.GrowthRate, -100, finance.MaxInterestRate),
		checkYears("projection", req.Years, 0),
	)
	if err == nil && req.InflationRate != nil {
		err = checkRange("projection", "inflation_rate", *req.InflationRate, -50, finance.MaxInterestRate)
	}
	if err != nil {
		h.writeStoreError(w, r, err, "Invalid projection inputs")
		return
	}

	points := engine.ProjectWealth(req.InitialNetWorth, req.YearlySavings, req.GrowthRate, req.Years)
	resp := ProjectionResponse{Projection: toWealthPointDTOs(points)}
	if req.InflationRate != nil {
		resp.RealProjection = toWealthPointDTOs(engine.DeflateProjection(points, *req.InflationRate))
	}
	writeJSON(w, http.StatusOK, resp)
}

// CalculatePrepayment compares keeping the tenure with keeping the EMI after a prepayment.
func (h *Handler) CalculatePrepayment(w http.ResponseWriter, r *http.Request) {
	var req PrepaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	err := checkLoanTerms("prepayment", req.Principal, req.AnnualRate, req.RemainingTenureMonths)
	if err == nil && !(req.Prepayment > 0 && req.Prepayment <= maxAmount) {
		err = finance.NewValidationError("prepayment", "prepayment", "must be positive")
	}
	if err != nil {
		h.writeStoreError(w, r, err, "Invalid prepayment inputs")
		return
	}

	impact := engine.AnalyzePrepayment(req.Principal, req.AnnualRate, req.RemainingTenureMonths, req.Prepayment)
	writeJSON(w, http.StatusOK, toPrepaymentDTO(impact))
}

// CalculateGoal returns the monthly saving needed to reach a target.
func (h *Handler) CalculateGoal(w http.ResponseWriter, r *http.Request) {
	var req GoalRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	err := firstError(
		checkRange("goal", "target_amount", req.TargetAmount, 0, maxAmount),
		checkRange("goal", "current_amount", req.CurrentAmount, 0, maxAmount),
		checkYears("goal", req.Years, 1),
		checkRange("goal", "annual_rate", req.AnnualRate, -100, finance.MaxInterestRate),
	)
	if err != nil {
		h.writeStoreError(w, r, err, "Invalid goal inputs")
		return
	}

	writeJSON(w, http.StatusOK, GoalResponse{
		MonthlySavings: engine.RequiredMonthlySavings(req.TargetAmount, req.CurrentAmount, req.Years, req.AnnualRate),
	})
}

// =============================================================================
// INPUT CHECKS
// =============================================================================

func checkLoanTerms(kind string, principal, rate float64, tenure int) error {
	if !(principal > 0 && principal <= maxAmount) {
		return finance.NewValidationError(kind, "principal", "must be positive")
	}
	if err := checkRange(kind, "annual_rate", rate, 0, finance.MaxInterestRate); err != nil {
		return err
	}
	if tenure < 1 || tenure > finance.MaxTenureMonths {
		return finance.NewValidationError(kind, "tenure_months", "must be between 1 and 600")
	}
	return nil
}

// checkRange also rejects NaN, which fails every comparison.
func checkRange(kind, field string, v, lo, hi float64) error {
	if !(v >= lo && v <= hi) {
		return finance.NewValidationError(kind, field, "is out of range")
	}
	return nil
}

func checkYears(kind string, years, least int) error {
	if years < least || years > finance.MaxProjectionYear {
		return finance.NewValidationError(kind, "years", "is out of range")
	}
	return nil
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
