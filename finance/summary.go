/*
summary.go - Household financial summary

PURPOSE:
  Aggregates every record into the figures the dashboard shows and feeds the
  result into the wealth projection.

CALCULATION:
  TotalAssets      = Σ asset values
  TotalBankBalance = Σ account balances
  TotalLiabilities = Σ loan principals still owed
  NetWorth         = TotalAssets + TotalBankBalance - TotalLiabilities

  MonthlyIncome    = Σ MonthlyAmount(income)    (one-time excluded)
  MonthlyExpenses  = Σ MonthlyAmount(expense)   (one-time excluded)
  TotalEMI         = Σ loan EMIs
  AvailableIncome  = MonthlyIncome - MonthlyExpenses - TotalEMI
  MonthlySavings   = AvailableIncome × SavingsRate / 100
  YearlySavings    = MonthlySavings × 12

  Projection       = engine.ProjectWealth(NetWorth, YearlySavings, ReturnRate, years)
  RealProjection   = Projection restated in today's money (InflationRate)

EXAMPLE:
  No assets, accounts totalling 5,595,000, one loan of 10,000,000 with an EMI
  of 80,522.71, income 145,000 a month, savings rate 30%:

    AvailableIncome = 145,000 - 80,522.71 = 64,477.29
    MonthlySavings  = 19,343.19
    NetWorth        = -4,405,000

  AvailableIncome may be negative. Savings then become a yearly outflow and
  the projection shows net worth shrinking, which is a valid outcome.

SEE ALSO:
  - engine/projection.go: ProjectWealth
  - frequency.go: MonthlyAmount
*/
package finance

import (
	"github.com/shopspring/decimal"
	"github.com/warp/finance-tracker/engine"
)

// SummaryInput is everything Summarize reads.
type SummaryInput struct {
	Assets   []Asset
	Accounts []BankAccount
	Incomes  []Income
	Expenses []Expense
	Loans    []Loan
	Settings Settings
	Years    int // projection horizon; <= 0 uses Settings.ProjectionYears
}

// Summary is the computed financial position of the household.
type Summary struct {
	TotalAssets      decimal.Decimal
	TotalBankBalance decimal.Decimal
	TotalLiabilities decimal.Decimal
	NetWorth         decimal.Decimal

	MonthlyIncome   decimal.Decimal
	MonthlyExpenses decimal.Decimal
	TotalEMI        decimal.Decimal
	AvailableIncome decimal.Decimal
	MonthlySavings  decimal.Decimal
	YearlySavings   decimal.Decimal

	Settings       Settings
	Projection     []engine.WealthPoint
	RealProjection []engine.WealthPoint
}

var hundred = decimal.NewFromInt(100)

// Summarize computes a Summary. It is pure: same input, same output.
func Summarize(in SummaryInput) Summary {
	var s Summary
	s.Settings = in.Settings

	for _, a := range in.Assets {
		s.TotalAssets = s.TotalAssets.Add(a.Value)
	}
	for _, b := range in.Accounts {
		s.TotalBankBalance = s.TotalBankBalance.Add(b.Balance)
	}
	for _, l := range in.Loans {
		s.TotalLiabilities = s.TotalLiabilities.Add(l.Principal)
		s.TotalEMI = s.TotalEMI.Add(LoanEMI(l))
	}
	s.NetWorth = s.TotalAssets.Add(s.TotalBankBalance).Sub(s.TotalLiabilities)

	var income, expenses decimal.Decimal
	for _, i := range in.Incomes {
		income = income.Add(MonthlyAmount(i.Amount, i.Frequency))
	}
	for _, e := range in.Expenses {
		expenses = expenses.Add(MonthlyAmount(e.Amount, e.Frequency))
	}
	s.MonthlyIncome = income.Round(2)
	s.MonthlyExpenses = expenses.Round(2)

	s.AvailableIncome = s.MonthlyIncome.Sub(s.MonthlyExpenses).Sub(s.TotalEMI)
	rate := decimal.NewFromFloat(in.Settings.SavingsRate).Div(hundred)
	s.MonthlySavings = s.AvailableIncome.Mul(rate).Round(2)
	s.YearlySavings = s.MonthlySavings.Mul(twelve)

	years := in.Years
	if years <= 0 {
		years = in.Settings.ProjectionYears
	}
	s.Projection = engine.ProjectWealth(
		s.NetWorth.InexactFloat64(),
		s.YearlySavings.InexactFloat64(),
		in.Settings.ReturnRate,
		years,
	)
	s.RealProjection = engine.DeflateProjection(s.Projection, in.Settings.InflationRate)

	return s
}

// LoanEMI returns the stored EMI, or computes it when none was recorded.
func LoanEMI(l Loan) decimal.Decimal {
	if l.EMI.IsPositive() {
		return l.EMI
	}
	emi := engine.ComputeEMI(l.Principal.InexactFloat64(), l.InterestRate, l.TenureMonths)
	return decimal.NewFromFloat(emi)
}
