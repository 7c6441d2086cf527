package engine

// ComputeEMI returns the fixed monthly installment that amortizes principal
// over tenureMonths at annualRatePercent, rounded to cents.
//
//	payment = P * r * (1+r)^n / ((1+r)^n - 1)
//
// A zero rate pays the principal off linearly: P / n.
// Requires principal > 0 and tenureMonths > 0.
func ComputeEMI(principal, annualRatePercent float64, tenureMonths int) float64 {
	return Round2(exactEMI(principal, MonthlyRate(annualRatePercent), tenureMonths))
}

func exactEMI(principal, monthlyRate float64, tenureMonths int) float64 {
	if monthlyRate == 0 {
		return principal / float64(tenureMonths)
	}
	factor := growthFactor(monthlyRate, float64(tenureMonths))
	return principal * monthlyRate * factor / (factor - 1)
}

// GenerateSchedule returns the month-by-month amortization of a loan,
// exactly tenureMonths rows long.
//
// The unrounded installment is computed once and reused. The balance carried
// between periods is never rounded; only reported values are. The final row
// pays off whatever balance is left, so its Balance is always exactly 0.
func GenerateSchedule(principal, annualRatePercent float64, tenureMonths int) []ScheduleRow {
	monthlyRate := MonthlyRate(annualRatePercent)
	payment := exactEMI(principal, monthlyRate, tenureMonths)

	rows := make([]ScheduleRow, 0, tenureMonths)
	balance := principal

	for month := 1; month <= tenureMonths; month++ {
		interest := balance * monthlyRate

		if month == tenureMonths {
			rows = append(rows, ScheduleRow{
				Period:    month,
				Payment:   Round2(balance + interest),
				Interest:  Round2(interest),
				Principal: Round2(balance),
				Balance:   0,
			})
			break
		}

		principalPart := payment - interest
		balance -= principalPart

		rows = append(rows, ScheduleRow{
			Period:    month,
			Payment:   Round2(payment),
			Interest:  Round2(interest),
			Principal: Round2(principalPart),
			Balance:   Round2(balance),
		})
	}

	return rows
}

// SummarizeSchedule totals a schedule's payments, interest and principal.
func SummarizeSchedule(rows []ScheduleRow) ScheduleTotals {
	var paid, interest, principal float64
	for _, r := range rows {
		paid += r.Payment
		interest += r.Interest
		principal += r.Principal
	}
	return ScheduleTotals{
		TotalPaid:      Round2(paid),
		TotalInterest:  Round2(interest),
		TotalPrincipal: Round2(principal),
	}
}
