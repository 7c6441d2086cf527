/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Records and results exchanged with clients
  - *Request: Request body types from clients

MONEY:
  Records hold decimal.Decimal internally. On the wire every amount is a
  plain JSON number (float64) with snake_case field names.

TYPES:
  Records:     AssetDTO, AccountDTO, IncomeDTO, ExpenseDTO, LoanDTO
  Settings:    SettingsDTO
  Results:     SummaryDTO, ScheduleDTO, PrepaymentDTO, SnapshotDTO
  Calculators: EMIRequest, GrowthRequest, ProjectionRequest,
               PrepaymentRequest, GoalRequest
  Scenarios:   ScenarioDTO, LoadScenarioRequest

VALIDATION:
  Validation is done by finance record validation and calculators.go, not
  in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - finance/types.go: Domain records
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/finance-tracker/engine"
	"github.com/warp/finance-tracker/finance"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// RECORDS
// =============================================================================

// recordDTO is implemented by every record DTO so the generic CRUD handlers
// can read a client-supplied ID.
type recordDTO interface {
	recordID() string
}

type AssetDTO struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Value    float64 `json:"value"`
	Notes    string  `json:"notes,omitempty"`
}

func (d AssetDTO) recordID() string { return d.ID }

func toAssetDTO(a finance.Asset) AssetDTO {
	return AssetDTO{
		ID:       a.ID,
		Name:     a.Name,
		Category: string(a.Category),
		Value:    a.Value.InexactFloat64(),
		Notes:    a.Notes,
	}
}

func fromAssetDTO(id string, d AssetDTO) finance.Asset {
	return finance.Asset{
		ID:       id,
		Name:     d.Name,
		Category: finance.AssetCategory(d.Category),
		Value:    decimal.NewFromFloat(d.Value),
		Notes:    d.Notes,
	}
}

type AccountDTO struct {
	ID           string  `json:"id"`
	BankName     string  `json:"bank_name"`
	AccountType  string  `json:"account_type"`
	Balance      float64 `json:"balance"`
	InterestRate float64 `json:"interest_rate"`
}

func (d AccountDTO) recordID() string { return d.ID }

func toAccountDTO(b finance.BankAccount) AccountDTO {
	return AccountDTO{
		ID:           b.ID,
		BankName:     b.BankName,
		AccountType:  string(b.AccountType),
		Balance:      b.Balance.InexactFloat64(),
		InterestRate: b.InterestRate,
	}
}

func fromAccountDTO(id string, d AccountDTO) finance.BankAccount {
	return finance.BankAccount{
		ID:           id,
		BankName:     d.BankName,
		AccountType:  finance.AccountType(d.AccountType),
		Balance:      decimal.NewFromFloat(d.Balance),
		InterestRate: d.InterestRate,
	}
}

type IncomeDTO struct {
	ID        string  `json:"id"`
	Source    string  `json:"source"`
	Amount    float64 `json:"amount"`
	Frequency string  `json:"frequency"`
	Monthly   float64 `json:"monthly_amount"` // response only
}

func (d IncomeDTO) recordID() string { return d.ID }

func toIncomeDTO(i finance.Income) IncomeDTO {
	return IncomeDTO{
		ID:        i.ID,
		Source:    i.Source,
		Amount:    i.Amount.InexactFloat64(),
		Frequency: string(i.Frequency),
		Monthly:   finance.MonthlyAmount(i.Amount, i.Frequency).Round(2).InexactFloat64(),
	}
}

func fromIncomeDTO(id string, d IncomeDTO) finance.Income {
	return finance.Income{
		ID:        id,
		Source:    d.Source,
		Amount:    decimal.NewFromFloat(d.Amount),
		Frequency: finance.Frequency(d.Frequency),
	}
}

type ExpenseDTO struct {
	ID          string  `json:"id"`
	Category    string  `json:"category"`
	Description string  `json:"description,omitempty"`
	Amount      float64 `json:"amount"`
	Frequency   string  `json:"frequency"`
	Monthly     float64 `json:"monthly_amount"` // response only
}

func (d ExpenseDTO) recordID() string { return d.ID }

func toExpenseDTO(e finance.Expense) ExpenseDTO {
	return ExpenseDTO{
		ID:          e.ID,
		Category:    e.Category,
		Description: e.Description,
		Amount:      e.Amount.InexactFloat64(),
		Frequency:   string(e.Frequency),
		Monthly:     finance.MonthlyAmount(e.Amount, e.Frequency).Round(2).InexactFloat64(),
	}
}

func fromExpenseDTO(id string, d ExpenseDTO) finance.Expense {
	return finance.Expense{
		ID:          id,
		Category:    d.Category,
		Description: d.Description,
		Amount:      decimal.NewFromFloat(d.Amount),
		Frequency:   finance.Frequency(d.Frequency),
	}
}

type LoanDTO struct {
	ID           string  `json:"id"`
	Lender       string  `json:"lender"`
	LoanType     string  `json:"loan_type,omitempty"`
	Principal    float64 `json:"principal"`
	InterestRate float64 `json:"interest_rate"`
	TenureMonths int     `json:"tenure_months"`
	EMI          float64 `json:"emi"` // computed when 0
}

func (d LoanDTO) recordID() string { return d.ID }

func toLoanDTO(l finance.Loan) LoanDTO {
	return LoanDTO{
		ID:           l.ID,
		Lender:       l.Lender,
		LoanType:     l.LoanType,
		Principal:    l.Principal.InexactFloat64(),
		InterestRate: l.InterestRate,
		TenureMonths: l.TenureMonths,
		EMI:          l.EMI.InexactFloat64(),
	}
}

func fromLoanDTO(id string, d LoanDTO) finance.Loan {
	return finance.Loan{
		ID:           id,
		Lender:       d.Lender,
		LoanType:     d.LoanType,
		Principal:    decimal.NewFromFloat(d.Principal),
		InterestRate: d.InterestRate,
		TenureMonths: d.TenureMonths,
		EMI:          decimal.NewFromFloat(d.EMI),
	}
}

// =============================================================================
// SETTINGS
// =============================================================================

type SettingsDTO struct {
	SavingsRate     float64 `json:"savings_rate"`
	InflationRate   float64 `json:"inflation_rate"`
	ReturnRate      float64 `json:"return_rate"`
	ProjectionYears int     `json:"projection_years"`
}

func toSettingsDTO(s finance.Settings) SettingsDTO {
	return SettingsDTO(s)
}

func fromSettingsDTO(d SettingsDTO) finance.Settings {
	return finance.Settings(d)
}

// =============================================================================
// RESULTS
// =============================================================================

type WealthPointDTO struct {
	Year     int     `json:"year"`
	NetWorth float64 `json:"net_worth"`
}

func toWealthPointDTOs(points []engine.WealthPoint) []WealthPointDTO {
	dtos := make([]WealthPointDTO, len(points))
	for i, p := range points {
		dtos[i] = WealthPointDTO{Year: p.Year, NetWorth: p.NetWorth}
	}
	return dtos
}

// SummaryDTO is the dashboard view of the household.
type SummaryDTO struct {
	TotalAssets      float64 `json:"total_assets"`
	TotalBankBalance float64 `json:"total_bank_balance"`
	TotalLiabilities float64 `json:"total_liabilities"`
	NetWorth         float64 `json:"net_worth"`

	MonthlyIncome   float64 `json:"monthly_income"`
	MonthlyExpenses float64 `json:"monthly_expenses"`
	TotalEMI        float64 `json:"total_emi"`
	AvailableIncome float64 `json:"available_income"`
	MonthlySavings  float64 `json:"monthly_savings"`
	YearlySavings   float64 `json:"yearly_savings"`

	Settings       SettingsDTO      `json:"settings"`
	Projection     []WealthPointDTO `json:"projection"`
	RealProjection []WealthPointDTO `json:"real_projection"`
}

func toSummaryDTO(s finance.Summary) SummaryDTO {
	return SummaryDTO{
		TotalAssets:      s.TotalAssets.InexactFloat64(),
		TotalBankBalance: s.TotalBankBalance.InexactFloat64(),
		TotalLiabilities: s.TotalLiabilities.InexactFloat64(),
		NetWorth:         s.NetWorth.InexactFloat64(),
		MonthlyIncome:    s.MonthlyIncome.InexactFloat64(),
		MonthlyExpenses:  s.MonthlyExpenses.InexactFloat64(),
		TotalEMI:         s.TotalEMI.InexactFloat64(),
		AvailableIncome:  s.AvailableIncome.InexactFloat64(),
		MonthlySavings:   s.MonthlySavings.InexactFloat64(),
		YearlySavings:    s.YearlySavings.InexactFloat64(),
		Settings:         toSettingsDTO(s.Settings),
		Projection:       toWealthPointDTOs(s.Projection),
		RealProjection:   toWealthPointDTOs(s.RealProjection),
	}
}

type ScheduleRowDTO struct {
	Period    int     `json:"period"`
	Payment   float64 `json:"payment"`
	Interest  float64 `json:"interest"`
	Principal float64 `json:"principal"`
	Balance   float64 `json:"balance"`
}

// ScheduleDTO is an amortization schedule. Loan is set only for stored loans.
type ScheduleDTO struct {
	Loan           *LoanDTO         `json:"loan,omitempty"`
	EMI            float64          `json:"emi"`
	Rows           []ScheduleRowDTO `json:"rows"`
	TotalPaid      float64          `json:"total_paid"`
	TotalInterest  float64          `json:"total_interest"`
	TotalPrincipal float64          `json:"total_principal"`
}

func toScheduleDTO(emi float64, rows []engine.ScheduleRow, totals engine.ScheduleTotals) ScheduleDTO {
	dto := ScheduleDTO{
		EMI:            emi,
		Rows:           make([]ScheduleRowDTO, len(rows)),
		TotalPaid:      totals.TotalPaid,
		TotalInterest:  totals.TotalInterest,
		TotalPrincipal: totals.TotalPrincipal,
	}
	for i, r := range rows {
		dto.Rows[i] = ScheduleRowDTO(r)
	}
	return dto
}

type PrepaymentDTO struct {
	OriginalEMI    float64 `json:"original_emi"`
	OriginalTenure int     `json:"original_tenure"`
	ReducedEMI     float64 `json:"reduced_emi"`
	ReducedTenure  int     `json:"reduced_tenure"`
	InterestSaved  float64 `json:"interest_saved"`
	TenureSaved    int     `json:"tenure_saved"`
	FullyCleared   bool    `json:"fully_cleared"`
}

func toPrepaymentDTO(p engine.PrepaymentImpact) PrepaymentDTO {
	return PrepaymentDTO{
		OriginalEMI:    p.OriginalEMI,
		OriginalTenure: p.OriginalTenure,
		ReducedEMI:     p.ReducedEMI,
		ReducedTenure:  p.ReducedTenure,
		InterestSaved:  p.InterestSaved,
		TenureSaved:    p.TenureSaved,
		FullyCleared:   p.FullyCleared(),
	}
}

type SnapshotDTO struct {
	ID               string  `json:"id"`
	TakenAt          string  `json:"taken_at"`
	TotalAssets      float64 `json:"total_assets"`
	TotalLiabilities float64 `json:"total_liabilities"`
	NetWorth         float64 `json:"net_worth"`
}

func toSnapshotDTO(s finance.NetWorthSnapshot) SnapshotDTO {
	return SnapshotDTO{
		ID:               s.ID,
		TakenAt:          s.TakenAt.UTC().Format(time.RFC3339),
		TotalAssets:      s.TotalAssets.InexactFloat64(),
		TotalLiabilities: s.TotalLiabilities.InexactFloat64(),
		NetWorth:         s.NetWorth.InexactFloat64(),
	}
}

// =============================================================================
// CALCULATORS
// =============================================================================

// EMIRequest is used by both the emi and schedule calculators.
type EMIRequest struct {
	Principal    float64 `json:"principal"`
	AnnualRate   float64 `json:"annual_rate"`
	TenureMonths int     `json:"tenure_months"`
}

type EMIResponse struct {
	EMI           float64 `json:"emi"`
	TotalPayment  float64 `json:"total_payment"`
	TotalInterest float64 `json:"total_interest"`
}

type GrowthRequest struct {
	InitialAmount       float64 `json:"initial_amount"`
	MonthlyContribution float64 `json:"monthly_contribution"`
	AnnualRate          float64 `json:"annual_rate"`
	Years               int     `json:"years"`
}

type GrowthResponse struct {
	FutureValue   float64 `json:"future_value"`
	TotalInvested float64 `json:"total_invested"`
	TotalReturns  float64 `json:"total_returns"`
}

type ProjectionRequest struct {
	InitialNetWorth float64  `json:"initial_net_worth"`
	YearlySavings   float64  `json:"yearly_savings"`
	GrowthRate      float64  `json:"growth_rate"`
	Years           int      `json:"years"`
	InflationRate   *float64 `json:"inflation_rate,omitempty"`
}

type ProjectionResponse struct {
	Projection     []WealthPointDTO `json:"projection"`
	RealProjection []WealthPointDTO `json:"real_projection,omitempty"`
}

type PrepaymentRequest struct {
	Principal             float64 `json:"principal"`
	AnnualRate            float64 `json:"annual_rate"`
	RemainingTenureMonths int     `json:"remaining_tenure_months"`
	Prepayment            float64 `json:"prepayment"`
}

type GoalRequest struct {
	TargetAmount  float64 `json:"target_amount"`
	CurrentAmount float64 `json:"current_amount"`
	Years         int     `json:"years"`
	AnnualRate    float64 `json:"annual_rate"`
}

type GoalResponse struct {
	MonthlySavings float64 `json:"monthly_savings"`
}

// =============================================================================
// SCENARIOS
// =============================================================================

// ScenarioDTO describes a built-in demo household.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}
