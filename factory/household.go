/*
Package factory provides YAML to Go household conversion.

PURPOSE:
  Converts a household definition (settings plus every record a user would
  enter by hand) into finance records. Demo scenarios, the -seed flag and the
  import endpoint all go through here, so one file can describe a complete
  financial position.

WHY YAML?
  - Easy to write by hand and to diff
  - JSON is valid YAML, so API clients can post JSON as well
  - Round-trips: the export endpoint emits the same schema

YAML SCHEMA:
  name: Salaried family
  settings:
    savings_rate: 30
    inflation_rate: 6
    return_rate: 10
    projection_years: 20
  accounts:
    - bank_name: First Bank
      account_type: savings
      balance: 3595000
  incomes:
    - source: Salary
      amount: 145000
      frequency: monthly
  loans:
    - lender: Home Finance
      loan_type: home
      principal: 10000000
      interest_rate: 8.5
      tenure_months: 300

  Omitted settings fall back to finance.DefaultSettings(). A loan without an
  emi gets one computed when loaded. Unknown keys are rejected.

USAGE:
  h, err := factory.ParseHousehold(data)
  if err != nil { ... }
  err = factory.LoadHousehold(ctx, planner, h)

SEE ALSO:
  - finance/types.go: Record types
  - finance/validate.go: Rules every record must pass
  - api/scenarios.go: Built-in households
*/
package factory

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/warp/finance-tracker/finance"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// YAML SCHEMA TYPES
// =============================================================================

// Household is the YAML representation of a complete financial position.
type Household struct {
	Name        string         `yaml:"name,omitempty"`
	Description string         `yaml:"description,omitempty"`
	Settings    *SettingsYAML  `yaml:"settings,omitempty"`
	Assets      []AssetYAML    `yaml:"assets,omitempty"`
	Accounts    []AccountYAML  `yaml:"accounts,omitempty"`
	Incomes     []CashFlowYAML `yaml:"incomes,omitempty"`
	Expenses    []CashFlowYAML `yaml:"expenses,omitempty"`
	Loans       []LoanYAML     `yaml:"loans,omitempty"`
}

// SettingsYAML overrides individual defaults; nil fields keep the default.
type SettingsYAML struct {
	SavingsRate     *float64 `yaml:"savings_rate,omitempty"`
	InflationRate   *float64 `yaml:"inflation_rate,omitempty"`
	ReturnRate      *float64 `yaml:"return_rate,omitempty"`
	ProjectionYears *int     `yaml:"projection_years,omitempty"`
}

type AssetYAML struct {
	ID       string  `yaml:"id,omitempty"`
	Name     string  `yaml:"name"`
	Category string  `yaml:"category"`
	Value    float64 `yaml:"value"`
	Notes    string  `yaml:"notes,omitempty"`
}

type AccountYAML struct {
	ID           string  `yaml:"id,omitempty"`
	BankName     string  `yaml:"bank_name"`
	AccountType  string  `yaml:"account_type"`
	Balance      float64 `yaml:"balance"`
	InterestRate float64 `yaml:"interest_rate,omitempty"`
}

// CashFlowYAML is shared by incomes and expenses. Incomes use Source,
// expenses use Category and Description.
type CashFlowYAML struct {
	ID          string  `yaml:"id,omitempty"`
	Source      string  `yaml:"source,omitempty"`
	Category    string  `yaml:"category,omitempty"`
	Description string  `yaml:"description,omitempty"`
	Amount      float64 `yaml:"amount"`
	Frequency   string  `yaml:"frequency"`
}

type LoanYAML struct {
	ID           string  `yaml:"id,omitempty"`
	Lender       string  `yaml:"lender"`
	LoanType     string  `yaml:"loan_type,omitempty"`
	Principal    float64 `yaml:"principal"`
	InterestRate float64 `yaml:"interest_rate"`
	TenureMonths int     `yaml:"tenure_months"`
	EMI          float64 `yaml:"emi,omitempty"`
}

// Records is a household converted into validated finance records.
type Records struct {
	Settings finance.Settings
	Assets   []finance.Asset
	Accounts []finance.BankAccount
	Incomes  []finance.Income
	Expenses []finance.Expense
	Loans    []finance.Loan
}

// =============================================================================
// PARSING
// =============================================================================

// ParseHousehold parses a YAML (or JSON) household and checks that every
// record in it is valid.
func ParseHousehold(data []byte) (*Household, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var h Household
	if err := dec.Decode(&h); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("household definition is empty")
		}
		return nil, fmt.Errorf("failed to parse household YAML: %w", err)
	}

	if _, err := h.Records(); err != nil {
		return nil, err
	}
	return &h, nil
}

// Records converts the household into finance records, assigning IDs where
// none were given. The first invalid record stops conversion.
func (h *Household) Records() (*Records, error) {
	r := &Records{Settings: h.settings()}
	if err := r.Settings.Validate(); err != nil {
		return nil, err
	}

	for i, a := range h.Assets {
		rec := finance.Asset{
			ID:       idOrNew(a.ID),
			Name:     a.Name,
			Category: finance.AssetCategory(a.Category),
			Value:    decimal.NewFromFloat(a.Value),
			Notes:    a.Notes,
		}
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("assets[%d]: %w", i, err)
		}
		r.Assets = append(r.Assets, rec)
	}

	for i, a := range h.Accounts {
		rec := finance.BankAccount{
			ID:           idOrNew(a.ID),
			BankName:     a.BankName,
			AccountType:  finance.AccountType(a.AccountType),
			Balance:      decimal.NewFromFloat(a.Balance),
			InterestRate: a.InterestRate,
		}
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("accounts[%d]: %w", i, err)
		}
		r.Accounts = append(r.Accounts, rec)
	}

	for i, c := range h.Incomes {
		rec := finance.Income{
			ID:        idOrNew(c.ID),
			Source:    c.Source,
			Amount:    decimal.NewFromFloat(c.Amount),
			Frequency: finance.Frequency(c.Frequency),
		}
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("incomes[%d]: %w", i, err)
		}
		r.Incomes = append(r.Incomes, rec)
	}

	for i, c := range h.Expenses {
		rec := finance.Expense{
			ID:          idOrNew(c.ID),
			Category:    c.Category,
			Description: c.Description,
			Amount:      decimal.NewFromFloat(c.Amount),
			Frequency:   finance.Frequency(c.Frequency),
		}
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("expenses[%d]: %w", i, err)
		}
		r.Expenses = append(r.Expenses, rec)
	}

	for i, l := range h.Loans {
		rec := finance.Loan{
			ID:           idOrNew(l.ID),
			Lender:       l.Lender,
			LoanType:     l.LoanType,
			Principal:    decimal.NewFromFloat(l.Principal),
			InterestRate: l.InterestRate,
			TenureMonths: l.TenureMonths,
			EMI:          decimal.NewFromFloat(l.EMI),
		}
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("loans[%d]: %w", i, err)
		}
		r.Loans = append(r.Loans, rec)
	}

	err := firstError(
		uniqueIDs("assets", r.Assets),
		uniqueIDs("accounts", r.Accounts),
		uniqueIDs("incomes", r.Incomes),
		uniqueIDs("expenses", r.Expenses),
		uniqueIDs("loans", r.Loans),
	)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func uniqueIDs[T finance.Record](section string, records []T) error {
	seen := make(map[string]bool, len(records))
	for i, rec := range records {
		if seen[rec.RecordID()] {
			return fmt.Errorf("%s[%d]: %s %q appears twice: %w", section, i, rec.Kind(), rec.RecordID(), finance.ErrDuplicateID)
		}
		seen[rec.RecordID()] = true
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

func (h *Household) settings() finance.Settings {
	s := finance.DefaultSettings()
	if h.Settings == nil {
		return s
	}
	if v := h.Settings.SavingsRate; v != nil {
		s.SavingsRate = *v
	}
	if v := h.Settings.InflationRate; v != nil {
		s.InflationRate = *v
	}
	if v := h.Settings.ReturnRate; v != nil {
		s.ReturnRate = *v
	}
	if v := h.Settings.ProjectionYears; v != nil {
		s.ProjectionYears = *v
	}
	return s
}

func idOrNew(id string) string {
	if id != "" {
		return id
	}
	return finance.NewID()
}

// =============================================================================
// LOADING
// =============================================================================

// LoadHousehold writes every record and the settings of h through the
// planner. It does not reset the store first. Loans without an EMI get one
// computed.
//
// Every ID is checked against the store before the first write, so a
// household that collides with stored records changes nothing.
func LoadHousehold(ctx context.Context, p *finance.Planner, h *Household) error {
	r, err := h.Records()
	if err != nil {
		return err
	}

	err = firstError(
		checkFree(ctx, p.Store.Assets(), "assets", r.Assets),
		checkFree(ctx, p.Store.Accounts(), "accounts", r.Accounts),
		checkFree(ctx, p.Store.Incomes(), "incomes", r.Incomes),
		checkFree(ctx, p.Store.Expenses(), "expenses", r.Expenses),
		checkFree(ctx, p.Store.Loans(), "loans", r.Loans),
	)
	if err != nil {
		return err
	}

	if err := p.SaveSettings(ctx, r.Settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	for _, a := range r.Assets {
		if err := finance.Add(ctx, p.Store.Assets(), a); err != nil {
			return fmt.Errorf("failed to add asset %q: %w", a.Name, err)
		}
	}
	for _, a := range r.Accounts {
		if err := finance.Add(ctx, p.Store.Accounts(), a); err != nil {
			return fmt.Errorf("failed to add account %q: %w", a.BankName, err)
		}
	}
	for _, i := range r.Incomes {
		if err := finance.Add(ctx, p.Store.Incomes(), i); err != nil {
			return fmt.Errorf("failed to add income %q: %w", i.Source, err)
		}
	}
	for _, e := range r.Expenses {
		if err := finance.Add(ctx, p.Store.Expenses(), e); err != nil {
			return fmt.Errorf("failed to add expense %q: %w", e.Category, err)
		}
	}
	for _, l := range r.Loans {
		if _, err := p.AddLoan(ctx, l); err != nil {
			return fmt.Errorf("failed to add loan %q: %w", l.Lender, err)
		}
	}
	return nil
}

func checkFree[T finance.Record](ctx context.Context, repo finance.Repository[T], section string, records []T) error {
	for i, rec := range records {
		_, err := repo.Get(ctx, rec.RecordID())
		switch {
		case err == nil:
			return fmt.Errorf("%s[%d]: %s %q already exists: %w", section, i, rec.Kind(), rec.RecordID(), finance.ErrDuplicateID)
		case !finance.IsNotFound(err):
			return fmt.Errorf("failed to check %s %q: %w", rec.Kind(), rec.RecordID(), err)
		}
	}
	return nil
}

// =============================================================================
// EXPORT
// =============================================================================

// ExportHousehold reads everything from the planner's store into a Household.
func ExportHousehold(ctx context.Context, p *finance.Planner) (*Household, error) {
	store := p.Store
	h := &Household{}

	settings, err := store.Settings().Get(ctx)
	if err != nil {
		return nil, err
	}
	h.Settings = &SettingsYAML{
		SavingsRate:     &settings.SavingsRate,
		InflationRate:   &settings.InflationRate,
		ReturnRate:      &settings.ReturnRate,
		ProjectionYears: &settings.ProjectionYears,
	}

	assets, err := store.Assets().GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, a := range assets {
		h.Assets = append(h.Assets, AssetYAML{
			ID: a.ID, Name: a.Name, Category: string(a.Category), Value: a.Value.InexactFloat64(), Notes: a.Notes,
		})
	}

	accounts, err := store.Accounts().GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, a := range accounts {
		h.Accounts = append(h.Accounts, AccountYAML{
			ID: a.ID, BankName: a.BankName, AccountType: string(a.AccountType),
			Balance: a.Balance.InexactFloat64(), InterestRate: a.InterestRate,
		})
	}

	incomes, err := store.Incomes().GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, i := range incomes {
		h.Incomes = append(h.Incomes, CashFlowYAML{
			ID: i.ID, Source: i.Source, Amount: i.Amount.InexactFloat64(), Frequency: string(i.Frequency),
		})
	}

	expenses, err := store.Expenses().GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, e := range expenses {
		h.Expenses = append(h.Expenses, CashFlowYAML{
			ID: e.ID, Category: e.Category, Description: e.Description,
			Amount: e.Amount.InexactFloat64(), Frequency: string(e.Frequency),
		})
	}

	loans, err := store.Loans().GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, l := range loans {
		h.Loans = append(h.Loans, LoanYAML{
			ID: l.ID, Lender: l.Lender, LoanType: l.LoanType, Principal: l.Principal.InexactFloat64(),
			InterestRate: l.InterestRate, TenureMonths: l.TenureMonths, EMI: l.EMI.InexactFloat64(),
		})
	}

	return h, nil
}

// Marshal renders the household as YAML.
func (h *Household) Marshal() ([]byte, error) {
	return yaml.Marshal(h)
}
