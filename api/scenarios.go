/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built households that populate the store with realistic
	data for testing and demos. Each scenario is a YAML household run
	through the factory, so scenarios exercise exactly the same path as a
	user import.

AVAILABLE SCENARIOS:

	salaried-family: Home loan larger than savings, negative net worth today
	debt-free-saver: No loans, diversified assets, high savings rate
	overextended:    Loan payments exceed income, projection declines
	new-graduate:    Education loan, small balances, weekly side income

HOW SCENARIOS WORK:
 1. Reset store (clear all data)
 2. Parse the scenario's YAML via factory.ParseHousehold
 3. Load records and settings via factory.LoadHousehold
 4. Record an opening net worth snapshot

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "salaried-family"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Add its YAML to scenarioYAML

NOTE:

	Scenarios reset the store. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Record endpoints
  - factory/household.go: YAML schema
*/
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/warp/finance-tracker/factory"
	"go.uber.org/zap"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "salaried-family",
		Name:        "Salaried Family",
		Description: "Large home loan, 145k monthly salary, 30% savings rate",
	},
	{
		ID:          "debt-free-saver",
		Name:        "Debt-Free Saver",
		Description: "No loans, property and investments, saves half of what is left",
	},
	{
		ID:          "overextended",
		Name:        "Overextended",
		Description: "EMIs exceed income: savings turn negative and net worth shrinks",
	},
	{
		ID:          "new-graduate",
		Name:        "New Graduate",
		Description: "Education loan, weekly freelance income, long horizon",
	},
}

var scenarioYAML = map[string]string{
	"salaried-family": `
name: Salaried Family
settings:
  savings_rate: 30
  inflation_rate: 6
  return_rate: 10
  projection_years: 20
accounts:
  - bank_name: First Bank
    account_type: savings
    balance: 3595000
    interest_rate: 3.5
  - bank_name: Second Bank
    account_type: fixed_deposit
    balance: 2000000
    interest_rate: 7
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
`,
	"debt-free-saver": `
name: Debt-Free Saver
settings:
  savings_rate: 50
  return_rate: 9
assets:
  - name: Apartment
    category: property
    value: 6500000
  - name: Index funds
    category: investment
    value: 1800000
  - name: Gold coins
    category: gold
    value: 350000
accounts:
  - bank_name: First Bank
    account_type: savings
    balance: 420000
incomes:
  - source: Salary
    amount: 120000
    frequency: monthly
  - source: Annual bonus
    amount: 240000
    frequency: yearly
  - source: Rental income
    amount: 54000
    frequency: quarterly
expenses:
  - category: Household
    amount: 35000
    frequency: monthly
  - category: Insurance
    description: Health and term cover
    amount: 48000
    frequency: yearly
  - category: Travel
    amount: 150000
    frequency: one_time
`,
	"overextended": `
name: Overextended
settings:
  savings_rate: 40
  return_rate: 6
  projection_years: 10
assets:
  - name: Car
    category: vehicle
    value: 900000
accounts:
  - bank_name: First Bank
    account_type: current
    balance: 60000
incomes:
  - source: Salary
    amount: 90000
    frequency: monthly
expenses:
  - category: Rent
    amount: 45000
    frequency: monthly
loans:
  - lender: Auto Finance
    loan_type: vehicle
    principal: 800000
    interest_rate: 9.5
    tenure_months: 60
  - lender: Card Issuer
    loan_type: personal
    principal: 1200000
    interest_rate: 16
    tenure_months: 36
`,
	"new-graduate": `
name: New Graduate
settings:
  savings_rate: 20
  return_rate: 11
  projection_years: 30
accounts:
  - bank_name: First Bank
    account_type: savings
    balance: 45000
incomes:
  - source: Salary
    amount: 55000
    frequency: monthly
  - source: Freelance
    amount: 2500
    frequency: weekly
expenses:
  - category: Rent
    amount: 15000
    frequency: monthly
  - category: Food
    amount: 9000
    frequency: monthly
loans:
  - lender: Education Trust
    loan_type: education
    principal: 600000
    interest_rate: 0
    tenure_months: 84
`,
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	current := h.getCurrentScenario()
	if current == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}

	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}

	writeJSON(w, http.StatusOK, ScenarioDTO{
		ID:          current,
		Name:        current,
		Description: "Currently loaded scenario",
	})
}

// LoadScenario replaces the store contents with a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if _, ok := scenarioYAML[req.ScenarioID]; !ok {
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	if err := h.Seed(r.Context(), req.ScenarioID); err != nil {
		h.writeStoreError(w, r, err, fmt.Sprintf("Failed to load scenario: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// ResetDatabase clears all records, settings and snapshots.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		h.writeStoreError(w, r, err, "Failed to reset database")
		return
	}
	h.setCurrentScenario("")

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Seed resets the store and loads a built-in household. The -seed flag uses
// it at startup.
func (h *Handler) Seed(ctx context.Context, id string) error {
	data, ok := scenarioYAML[id]
	if !ok {
		return fmt.Errorf("unknown scenario %q", id)
	}

	hh, err := factory.ParseHousehold([]byte(data))
	if err != nil {
		return err
	}

	if err := h.Store.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset store: %w", err)
	}
	h.setCurrentScenario("")

	if err := factory.LoadHousehold(ctx, h.Planner, hh); err != nil {
		return err
	}
	if _, err := h.Planner.Snapshot(ctx); err != nil {
		return err
	}

	h.setCurrentScenario(id)
	h.Logger.Info("scenario loaded", zap.String("scenario", id))
	return nil
}
