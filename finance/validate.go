package finance

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Limits shared by record validation and the calculator endpoints.
const (
	MaxTenureMonths   = 600 // 50 years
	MaxInterestRate   = 100.0
	MaxProjectionYear = 100
)

// MaxAmount bounds every monetary field.
var MaxAmount = decimal.NewFromInt(1_000_000_000_000)

func (a Asset) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return invalid(a.Kind(), "name", "is required")
	}
	switch a.Category {
	case AssetProperty, AssetVehicle, AssetInvestment, AssetGold, AssetOther:
	default:
		return invalid(a.Kind(), "category", "must be property, vehicle, investment, gold or other")
	}
	return checkAmount(a.Kind(), "value", a.Value, true)
}

func (b BankAccount) Validate() error {
	if strings.TrimSpace(b.BankName) == "" {
		return invalid(b.Kind(), "bank_name", "is required")
	}
	switch b.AccountType {
	case AccountSavings, AccountCurrent, AccountFixedDeposit, AccountOther:
	default:
		return invalid(b.Kind(), "account_type", "must be savings, current, fixed_deposit or other")
	}
	if err := checkAmount(b.Kind(), "balance", b.Balance, true); err != nil {
		return err
	}
	return checkRate(b.Kind(), "interest_rate", b.InterestRate)
}

func (i Income) Validate() error {
	if strings.TrimSpace(i.Source) == "" {
		return invalid(i.Kind(), "source", "is required")
	}
	if err := checkAmount(i.Kind(), "amount", i.Amount, false); err != nil {
		return err
	}
	return checkFrequency(i.Kind(), i.Frequency)
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.Category) == "" {
		return invalid(e.Kind(), "category", "is required")
	}
	if err := checkAmount(e.Kind(), "amount", e.Amount, false); err != nil {
		return err
	}
	return checkFrequency(e.Kind(), e.Frequency)
}

// Validate enforces the engine's loan preconditions: principal > 0,
// rate >= 0 and a tenure of at least one month.
func (l Loan) Validate() error {
	if strings.TrimSpace(l.Lender) == "" {
		return invalid(l.Kind(), "lender", "is required")
	}
	if err := checkAmount(l.Kind(), "principal", l.Principal, false); err != nil {
		return err
	}
	if err := checkRate(l.Kind(), "interest_rate", l.InterestRate); err != nil {
		return err
	}
	if l.TenureMonths < 1 || l.TenureMonths > MaxTenureMonths {
		return invalid(l.Kind(), "tenure_months", "must be between 1 and 600")
	}
	if l.EMI.IsNegative() {
		return invalid(l.Kind(), "emi", "must not be negative")
	}
	return nil
}

func (s Settings) Validate() error {
	if s.SavingsRate < 0 || s.SavingsRate > 100 {
		return invalid("settings", "savings_rate", "must be between 0 and 100")
	}
	if s.InflationRate < -50 || s.InflationRate > MaxInterestRate {
		return invalid("settings", "inflation_rate", "must be between -50 and 100")
	}
	if s.ReturnRate < -100 || s.ReturnRate > MaxInterestRate {
		return invalid("settings", "return_rate", "must be between -100 and 100")
	}
	if s.ProjectionYears < 1 || s.ProjectionYears > MaxProjectionYear {
		return invalid("settings", "projection_years", "must be between 1 and 100")
	}
	return nil
}

func checkAmount(kind, field string, v decimal.Decimal, allowZero bool) error {
	if v.IsNegative() || (!allowZero && v.IsZero()) {
		if allowZero {
			return invalid(kind, field, "must not be negative")
		}
		return invalid(kind, field, "must be positive")
	}
	if v.GreaterThan(MaxAmount) {
		return invalid(kind, field, "exceeds the maximum of "+MaxAmount.String())
	}
	return nil
}

func checkRate(kind, field string, rate float64) error {
	if rate < 0 || rate > MaxInterestRate {
		return invalid(kind, field, "must be between 0 and 100")
	}
	return nil
}

func checkFrequency(kind string, f Frequency) error {
	if !f.IsValid() {
		err := invalid(kind, "frequency", "must be monthly, weekly, quarterly, half_yearly, yearly or one_time")
		err.cause = ErrInvalidFrequency
		return err
	}
	return nil
}
