/*
Package finance provides the records a household tracks and the planner that
turns them into engine inputs.

PURPOSE:
  The engine only understands numbers. This package owns everything around
  it: the record types users enter (assets, bank accounts, income, expenses,
  loans), the settings that drive projections, validation of those records,
  the repository interfaces that persist them, and the Planner that reads the
  store and calls the engine with plain scalars.

KEY CONCEPTS IN THIS FILE (types.go):
  - Record:      Common behaviour of every stored entity
  - Asset, BankAccount, Income, Expense, Loan: the five record kinds
  - Settings:    Singleton projection assumptions
  - Frequency:   How often a recurring cash flow happens

MONEY:
  Amounts are decimal.Decimal so totals over many records do not drift.
  Rates are float64 percentages (8.5 means 8.5%), passed to the engine as is.

SEE ALSO:
  - store.go: Repository interfaces
  - validate.go: Preconditions enforced before anything reaches the engine
  - summary.go: Aggregation into a financial summary
  - planner.go: Store-backed operations
*/
package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// RECORD
// =============================================================================

// Record is implemented by every entity kept in a Repository.
type Record interface {
	RecordID() string
	Kind() string
	Validate() error
}

// NewID returns a fresh record identifier.
func NewID() string {
	return uuid.NewString()
}

// =============================================================================
// FREQUENCY
// =============================================================================

type Frequency string

const (
	FrequencyMonthly    Frequency = "monthly"
	FrequencyWeekly     Frequency = "weekly"
	FrequencyQuarterly  Frequency = "quarterly"
	FrequencyHalfYearly Frequency = "half_yearly"
	FrequencyYearly     Frequency = "yearly"
	FrequencyOneTime    Frequency = "one_time"
)

func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyMonthly, FrequencyWeekly, FrequencyQuarterly,
		FrequencyHalfYearly, FrequencyYearly, FrequencyOneTime:
		return true
	}
	return false
}

// =============================================================================
// ASSETS
// =============================================================================

type AssetCategory string

const (
	AssetProperty   AssetCategory = "property"
	AssetVehicle    AssetCategory = "vehicle"
	AssetInvestment AssetCategory = "investment"
	AssetGold       AssetCategory = "gold"
	AssetOther      AssetCategory = "other"
)

// Asset is something the household owns, valued in the base currency.
type Asset struct {
	ID       string
	Name     string
	Category AssetCategory
	Value    decimal.Decimal
	Notes    string
}

func (a Asset) RecordID() string { return a.ID }
func (a Asset) Kind() string     { return "asset" }

// =============================================================================
// BANK ACCOUNTS
// =============================================================================

type AccountType string

const (
	AccountSavings      AccountType = "savings"
	AccountCurrent      AccountType = "current"
	AccountFixedDeposit AccountType = "fixed_deposit"
	AccountOther        AccountType = "other"
)

type BankAccount struct {
	ID           string
	BankName     string
	AccountType  AccountType
	Balance      decimal.Decimal
	InterestRate float64
}

func (b BankAccount) RecordID() string { return b.ID }
func (b BankAccount) Kind() string     { return "account" }

// =============================================================================
// CASH FLOWS
// =============================================================================

type Income struct {
	ID        string
	Source    string
	Amount    decimal.Decimal
	Frequency Frequency
}

func (i Income) RecordID() string { return i.ID }
func (i Income) Kind() string     { return "income" }

type Expense struct {
	ID          string
	Category    string
	Description string
	Amount      decimal.Decimal
	Frequency   Frequency
}

func (e Expense) RecordID() string { return e.ID }
func (e Expense) Kind() string     { return "expense" }

// =============================================================================
// LOANS
// =============================================================================

// Loan is an amortizing debt. Principal is the amount still owed and
// TenureMonths the months still to pay.
type Loan struct {
	ID           string
	Lender       string
	LoanType     string
	Principal    decimal.Decimal
	InterestRate float64
	TenureMonths int
	EMI          decimal.Decimal
}

func (l Loan) RecordID() string { return l.ID }
func (l Loan) Kind() string     { return "loan" }

// =============================================================================
// SETTINGS
// =============================================================================

// Settings are the assumptions behind every projection.
type Settings struct {
	SavingsRate     float64 // percent of available monthly income saved
	InflationRate   float64
	ReturnRate      float64 // expected annual growth of net worth
	ProjectionYears int
}

// DefaultSettings are used until the user saves their own.
func DefaultSettings() Settings {
	return Settings{
		SavingsRate:     30,
		InflationRate:   6,
		ReturnRate:      10,
		ProjectionYears: 20,
	}
}

// =============================================================================
// SNAPSHOTS
// =============================================================================

// NetWorthSnapshot is a stored net worth reading.
type NetWorthSnapshot struct {
	ID               string
	TakenAt          time.Time
	TotalAssets      decimal.Decimal // assets + bank balances
	TotalLiabilities decimal.Decimal
	NetWorth         decimal.Decimal
}
