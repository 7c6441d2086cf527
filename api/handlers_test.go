/*
handlers_test.go - Unit tests for API handlers

Tests for:
- Record CRUD through the generic resource handlers
- Error mapping (400 / 404 / 409)
- Loan schedule and prepayment endpoints
- Settings, summary and snapshots
- Household import / export
*/
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/finance-tracker/finance/store"
	"go.uber.org/zap"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

type testServer struct {
	t       *testing.T
	handler *Handler
	router  http.Handler
}

func newTestServer(t *testing.T) *testServer {
	h := NewHandler(store.NewMemory(), zap.NewNop())
	return &testServer{t: t, handler: h, router: NewRouter(h, nil)}
}

func (s *testServer) do(method, path string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(s.t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// =============================================================================
// RECORD CRUD
// =============================================================================

func TestAssetsCRUD(t *testing.T) {
	s := newTestServer(t)

	// GIVEN: An empty store
	rec := s.do("GET", "/api/assets", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	// WHEN: An asset is created without an ID
	rec = s.do("POST", "/api/assets", AssetDTO{Name: "Apartment", Category: "property", Value: 6500000})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[AssetDTO](t, rec)

	// THEN: An ID is generated and the asset can be fetched
	require.NotEmpty(t, created.ID)
	rec = s.do("GET", "/api/assets/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created, decode[AssetDTO](t, rec))

	// WHEN: Updated
	created.Value = 7000000
	rec = s.do("PUT", "/api/assets/"+created.ID, created)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 7000000.0, decode[AssetDTO](t, rec).Value)

	// WHEN: Deleted
	rec = s.do("DELETE", "/api/assets/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do("GET", "/api/assets/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreate_ErrorMapping(t *testing.T) {
	s := newTestServer(t)

	// Validation failure
	rec := s.do("POST", "/api/incomes", IncomeDTO{Source: "Salary", Amount: 1000, Frequency: "fortnightly"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	errResp := decode[ErrorResponse](t, rec)
	assert.Equal(t, "Validation failed", errResp.Error)
	assert.Contains(t, errResp.Details, "frequency")

	// Malformed body
	rec = s.do("POST", "/api/incomes", `{"source": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown field
	rec = s.do("POST", "/api/incomes", `{"source": "x", "amount": 1, "frequency": "monthly", "colour": "red"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Duplicate ID
	body := IncomeDTO{ID: "salary", Source: "Salary", Amount: 1000, Frequency: "monthly"}
	require.Equal(t, http.StatusCreated, s.do("POST", "/api/incomes", body).Code)
	assert.Equal(t, http.StatusConflict, s.do("POST", "/api/incomes", body).Code)

	// Unknown ID
	assert.Equal(t, http.StatusNotFound, s.do("PUT", "/api/incomes/nope", IncomeDTO{Source: "x", Amount: 1, Frequency: "monthly"}).Code)
	assert.Equal(t, http.StatusNotFound, s.do("DELETE", "/api/incomes/nope", nil).Code)

	// Body ID disagrees with URL
	assert.Equal(t, http.StatusBadRequest, s.do("PUT", "/api/incomes/salary", IncomeDTO{ID: "other", Source: "x", Amount: 1, Frequency: "monthly"}).Code)
}

func TestIncomes_MonthlyAmount(t *testing.T) {
	s := newTestServer(t)

	rec := s.do("POST", "/api/incomes", IncomeDTO{Source: "Dividends", Amount: 30000, Frequency: "quarterly"})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 10000.0, decode[IncomeDTO](t, rec).Monthly)
}

func TestListPreservesInsertionOrder(t *testing.T) {
	s := newTestServer(t)
	for _, c := range []string{"Rent", "Food", "Fuel"} {
		require.Equal(t, http.StatusCreated, s.do("POST", "/api/expenses", ExpenseDTO{Category: c, Amount: 100, Frequency: "monthly"}).Code)
	}

	list := decode[[]ExpenseDTO](t, s.do("GET", "/api/expenses", nil))
	require.Len(t, list, 3)
	assert.Equal(t, []string{"Rent", "Food", "Fuel"}, []string{list[0].Category, list[1].Category, list[2].Category})
}

// =============================================================================
// LOANS
// =============================================================================

func TestLoans_EMIComputedOnCreate(t *testing.T) {
	s := newTestServer(t)

	rec := s.do("POST", "/api/loans", LoanDTO{ID: "home", Lender: "Home Finance", Principal: 1000000, InterestRate: 10, TenureMonths: 240})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 9650.22, decode[LoanDTO](t, rec).EMI)

	// Zero tenure never reaches the engine
	rec = s.do("POST", "/api/loans", LoanDTO{Lender: "Bad", Principal: 1000, InterestRate: 10, TenureMonths: 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoans_UpdateWithEchoedEMIRecomputes(t *testing.T) {
	s := newTestServer(t)

	// GIVEN: A stored loan as returned by the API
	rec := s.do("POST", "/api/loans", LoanDTO{ID: "home", Lender: "Home Finance", Principal: 1000000, InterestRate: 10, TenureMonths: 240})
	require.Equal(t, http.StatusCreated, rec.Code)
	loan := decode[LoanDTO](t, rec)

	// WHEN: The principal is changed and the old EMI sent back
	loan.Principal = 500000
	rec = s.do("PUT", "/api/loans/home", loan)

	// THEN: The EMI, summary and schedule follow the new terms
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 4825.11, decode[LoanDTO](t, rec).EMI)
	assert.Equal(t, 4825.11, decode[SummaryDTO](t, s.do("GET", "/api/summary", nil)).TotalEMI)
	sched := decode[ScheduleDTO](t, s.do("GET", "/api/loans/home/schedule", nil))
	assert.Equal(t, 4825.11, sched.EMI)
	assert.Equal(t, sched.EMI, sched.Rows[0].Payment)
}

func TestLoans_ScheduleAndPrepayment(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusCreated, s.do("POST", "/api/loans", LoanDTO{ID: "car", Lender: "Auto", Principal: 100000, InterestRate: 12, TenureMonths: 12}).Code)
	require.Equal(t, http.StatusCreated, s.do("POST", "/api/loans", LoanDTO{ID: "home", Lender: "Home", Principal: 1000000, InterestRate: 10, TenureMonths: 240}).Code)

	// Schedule
	rec := s.do("GET", "/api/loans/car/schedule", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	sched := decode[ScheduleDTO](t, rec)
	require.Len(t, sched.Rows, 12)
	assert.Equal(t, 8884.88, sched.EMI)
	assert.Equal(t, ScheduleRowDTO{Period: 1, Payment: 8884.88, Interest: 1000, Principal: 7884.88, Balance: 92115.12}, sched.Rows[0])
	assert.Equal(t, 0.0, sched.Rows[11].Balance)
	require.NotNil(t, sched.Loan)
	assert.Equal(t, "car", sched.Loan.ID)

	// Prepayment
	rec = s.do("GET", "/api/loans/home/prepayment?amount=200000", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, PrepaymentDTO{
		OriginalEMI:    9650.22,
		OriginalTenure: 240,
		ReducedEMI:     7720.17,
		ReducedTenure:  142,
		InterestSaved:  263212,
		TenureSaved:    98,
	}, decode[PrepaymentDTO](t, rec))

	// Full clearance
	rec = s.do("GET", "/api/loans/home/prepayment?amount=1500000", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	full := decode[PrepaymentDTO](t, rec)
	assert.True(t, full.FullyCleared)
	assert.Equal(t, 240, full.TenureSaved)

	assert.Equal(t, http.StatusBadRequest, s.do("GET", "/api/loans/home/prepayment", nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do("GET", "/api/loans/home/prepayment?amount=abc", nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do("GET", "/api/loans/home/prepayment?amount=-5", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do("GET", "/api/loans/none/prepayment?amount=5", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do("GET", "/api/loans/none/schedule", nil).Code)
}

// =============================================================================
// SETTINGS, SUMMARY, SNAPSHOTS
// =============================================================================

func TestSettings(t *testing.T) {
	s := newTestServer(t)

	rec := s.do("GET", "/api/settings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, SettingsDTO{SavingsRate: 30, InflationRate: 6, ReturnRate: 10, ProjectionYears: 20}, decode[SettingsDTO](t, rec))

	rec = s.do("PUT", "/api/settings", SettingsDTO{SavingsRate: 150, ProjectionYears: 10})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	want := SettingsDTO{SavingsRate: 40, InflationRate: 5, ReturnRate: 8, ProjectionYears: 15}
	require.Equal(t, http.StatusOK, s.do("PUT", "/api/settings", want).Code)
	assert.Equal(t, want, decode[SettingsDTO](t, s.do("GET", "/api/settings", nil)))
}

func TestSummary_ReferenceHousehold(t *testing.T) {
	s := newTestServer(t)

	// GIVEN: The reference household, entered record by record
	require.Equal(t, http.StatusCreated, s.do("POST", "/api/accounts", AccountDTO{BankName: "First", AccountType: "savings", Balance: 3595000}).Code)
	require.Equal(t, http.StatusCreated, s.do("POST", "/api/accounts", AccountDTO{BankName: "Second", AccountType: "fixed_deposit", Balance: 2000000}).Code)
	require.Equal(t, http.StatusCreated, s.do("POST", "/api/incomes", IncomeDTO{Source: "Salary", Amount: 145000, Frequency: "monthly"}).Code)
	require.Equal(t, http.StatusCreated, s.do("POST", "/api/loans", LoanDTO{Lender: "Home", Principal: 10000000, InterestRate: 8.5, TenureMonths: 300}).Code)

	// WHEN: The summary is requested for 3 years
	rec := s.do("GET", "/api/summary?years=3", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	sum := decode[SummaryDTO](t, rec)

	// THEN: Figures match the hand calculation
	assert.Equal(t, 5595000.0, sum.TotalBankBalance)
	assert.Equal(t, 80522.71, sum.TotalEMI)
	assert.Equal(t, 64477.29, sum.AvailableIncome)
	assert.Equal(t, 19343.19, sum.MonthlySavings)
	assert.Equal(t, -4405000.0, sum.NetWorth)
	require.Len(t, sum.Projection, 4)
	assert.Equal(t, WealthPointDTO{Year: 1, NetWorth: -4613381.72}, sum.Projection[1])
	require.Len(t, sum.RealProjection, 4)

	assert.Equal(t, http.StatusBadRequest, s.do("GET", "/api/summary?years=abc", nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do("GET", "/api/summary?years=101", nil).Code)
}

func TestSnapshots(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusCreated, s.do("POST", "/api/assets", AssetDTO{Name: "Gold", Category: "gold", Value: 1000}).Code)

	rec := s.do("POST", "/api/snapshots", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	snap := decode[SnapshotDTO](t, rec)
	assert.Equal(t, 1000.0, snap.NetWorth)
	assert.NotEmpty(t, snap.TakenAt)

	require.Equal(t, http.StatusCreated, s.do("POST", "/api/snapshots", nil).Code)

	list := decode[[]SnapshotDTO](t, s.do("GET", "/api/snapshots", nil))
	assert.Len(t, list, 2)
	list = decode[[]SnapshotDTO](t, s.do("GET", "/api/snapshots?limit=1", nil))
	assert.Len(t, list, 1)

	assert.Equal(t, http.StatusBadRequest, s.do("GET", "/api/snapshots?limit=-1", nil).Code)
}

// =============================================================================
// HOUSEHOLD
// =============================================================================

func TestHousehold_ImportExport(t *testing.T) {
	s := newTestServer(t)

	// WHEN: A YAML household is imported
	yamlBody := "incomes:\n  - source: Salary\n    amount: 50000\n    frequency: monthly\nexpenses:\n  - category: Rent\n    amount: 20000\n    frequency: monthly\n"
	rec := s.do("POST", "/api/household", yamlBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 30000.0, decode[SummaryDTO](t, rec).AvailableIncome)

	// THEN: Export returns the same records as YAML
	rec = s.do("GET", "/api/household", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "source: Salary")
	assert.Contains(t, rec.Body.String(), "category: Rent")

	// Import with reset replaces everything
	rec = s.do("POST", "/api/household?reset=true", "incomes:\n  - source: Pension\n    amount: 10000\n    frequency: monthly\n")
	require.Equal(t, http.StatusCreated, rec.Code)
	incomes := decode[[]IncomeDTO](t, s.do("GET", "/api/incomes", nil))
	require.Len(t, incomes, 1)
	assert.Equal(t, "Pension", incomes[0].Source)

	// Invalid households are rejected without touching the store
	rec = s.do("POST", "/api/household?reset=true", "loans:\n  - lender: X\n    principal: 100\n    interest_rate: 5\n    tenure_months: 0\n")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, decode[[]IncomeDTO](t, s.do("GET", "/api/incomes", nil)), 1)
}

func TestHousehold_ConflictingImportChangesNothing(t *testing.T) {
	s := newTestServer(t)

	// GIVEN: A stored household with loan L1 and a 30% savings rate
	first := "settings:\n  savings_rate: 30\nloans:\n  - id: L1\n    lender: Bank\n    principal: 100000\n    interest_rate: 12\n    tenure_months: 12\n"
	require.Equal(t, http.StatusCreated, s.do("POST", "/api/household", first).Code)

	// WHEN: A second household reuses L1 after new settings and an asset
	second := "settings:\n  savings_rate: 80\nassets:\n  - name: Car\n    category: vehicle\n    value: 500000\nloans:\n  - id: L1\n    lender: Other\n    principal: 5000\n    interest_rate: 9\n    tenure_months: 6\n"
	rec := s.do("POST", "/api/household", second)

	// THEN: The import is refused and the store is untouched
	require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
	assert.Equal(t, 30.0, decode[SettingsDTO](t, s.do("GET", "/api/settings", nil)).SavingsRate)
	assert.JSONEq(t, `[]`, s.do("GET", "/api/assets", nil).Body.String())
	loan := decode[LoanDTO](t, s.do("GET", "/api/loans/L1", nil))
	assert.Equal(t, "Bank", loan.Lender)

	// Duplicate IDs inside one household are rejected before a reset runs
	dup := "assets:\n  - id: a\n    name: A\n    category: other\n    value: 1\n  - id: a\n    name: B\n    category: other\n    value: 2\n"
	rec = s.do("POST", "/api/household?reset=true", dup)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, http.StatusOK, s.do("GET", "/api/loans/L1", nil).Code)
}

func TestIndexPage(t *testing.T) {
	s := newTestServer(t)
	rec := s.do("GET", "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "Finance Tracker API"))
}
