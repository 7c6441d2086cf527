package engine

// GrowInvestment returns the value after years of monthly compounding of an
// initial lump sum plus a stream of monthly contributions (ordinary annuity,
// paid at the end of each month), rounded to cents.
//
// A negative rate models depreciation. A zero rate adds contributions linearly.
func GrowInvestment(initialAmount, monthlyContribution, annualRatePercent float64, years int) float64 {
	monthlyRate := MonthlyRate(annualRatePercent)
	months := float64(years * monthsPerYear)
	factor := growthFactor(monthlyRate, months)

	lumpSum := initialAmount * factor

	var contributions float64
	if monthlyRate == 0 {
		contributions = monthlyContribution * months
	} else {
		contributions = monthlyContribution * (factor - 1) / monthlyRate
	}

	return Round2(lumpSum + contributions)
}

// RequiredMonthlySavings solves the annuity formula for the monthly
// contribution that, together with currentAmount growing on its own, reaches
// targetAmount after yearsToGoal years. It returns exactly 0 when the current
// amount alone already gets there.
func RequiredMonthlySavings(targetAmount, currentAmount float64, yearsToGoal int, annualRatePercent float64) float64 {
	monthlyRate := MonthlyRate(annualRatePercent)
	months := float64(yearsToGoal * monthsPerYear)
	factor := growthFactor(monthlyRate, months)

	remaining := targetAmount - currentAmount*factor
	if remaining <= 0 {
		return 0
	}

	if monthlyRate == 0 {
		return Round2(remaining / months)
	}
	return Round2(remaining / ((factor - 1) / monthlyRate))
}
