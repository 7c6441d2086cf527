package engine

import "math"

// AnalyzePrepayment estimates what a lump-sum prepayment does to a loan with
// remainingTenureMonths left.
//
// Two alternatives are computed from the reduced principal:
//   - keep the EMI, shorten the loan (ReducedTenure)
//   - keep the tenure, lower the EMI (ReducedEMI)
//
// InterestSaved compares the original payment stream with the lower-EMI
// stream, net of the prepayment itself. It does not describe the
// shorter-tenure alternative.
//
// A prepayment at or above the principal clears the loan: both alternatives
// collapse to zero and InterestSaved becomes the simple-interest estimate
// P*r*n minus the prepayment.
func AnalyzePrepayment(principal, annualRatePercent float64, remainingTenureMonths int, prepaymentAmount float64) PrepaymentImpact {
	monthlyRate := MonthlyRate(annualRatePercent)
	originalEMI := ComputeEMI(principal, annualRatePercent, remainingTenureMonths)
	reducedPrincipal := principal - prepaymentAmount
	n := float64(remainingTenureMonths)

	if reducedPrincipal <= 0 {
		return PrepaymentImpact{
			OriginalEMI:    originalEMI,
			OriginalTenure: remainingTenureMonths,
			InterestSaved:  Round2(principal*monthlyRate*n - prepaymentAmount),
			TenureSaved:    remainingTenureMonths,
		}
	}

	reducedEMI := ComputeEMI(reducedPrincipal, annualRatePercent, remainingTenureMonths)
	// The EMI is rounded to cents, so a tiny prepayment can land a fraction
	// of a month past the original tenure.
	newTenure := min(tenureForPayment(reducedPrincipal, monthlyRate, originalEMI), remainingTenureMonths)

	return PrepaymentImpact{
		OriginalEMI:    originalEMI,
		OriginalTenure: remainingTenureMonths,
		ReducedEMI:     reducedEMI,
		ReducedTenure:  newTenure,
		InterestSaved:  Round2(originalEMI*n - reducedEMI*n - prepaymentAmount),
		TenureSaved:    remainingTenureMonths - newTenure,
	}
}

// tenureForPayment is the number of months needed to amortize principal with
// a fixed payment:
//
//	n = ceil( ln(EMI / (EMI - P*r)) / ln(1+r) )
func tenureForPayment(principal, monthlyRate, payment float64) int {
	if monthlyRate == 0 {
		return int(math.Ceil(principal / payment))
	}
	months := math.Log(payment/(payment-principal*monthlyRate)) / math.Log(1+monthlyRate)
	return int(math.Ceil(months))
}
