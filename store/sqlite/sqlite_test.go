package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/finance-tracker/finance"
	"github.com/warp/finance-tracker/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.New(filepath.Join(t.TempDir(), "finance.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_LoanRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	// GIVEN: A loan with cents in every money field
	loan := finance.Loan{
		ID:           "loan-1",
		Lender:       "Home Finance",
		LoanType:     "home",
		Principal:    decimal.RequireFromString("2500000.55"),
		InterestRate: 8.75,
		TenureMonths: 180,
		EMI:          decimal.RequireFromString("24987.31"),
	}
	require.NoError(t, s.Loans().Add(ctx, loan))

	// THEN: It reads back exactly
	got, err := s.Loans().Get(ctx, "loan-1")
	require.NoError(t, err)
	assert.Equal(t, loan.Lender, got.Lender)
	assert.Equal(t, loan.LoanType, got.LoanType)
	assert.True(t, loan.Principal.Equal(got.Principal), "principal %s", got.Principal)
	assert.True(t, loan.EMI.Equal(got.EMI), "emi %s", got.EMI)
	assert.Equal(t, 8.75, got.InterestRate)
	assert.Equal(t, 180, got.TenureMonths)
}

func TestStore_RepositoryContract(t *testing.T) {
	ctx := context.Background()
	repo := newTestStore(t).Assets()

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)

	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, repo.Add(ctx, finance.Asset{
			ID: id, Name: "Asset " + id, Category: finance.AssetGold, Value: decimal.NewFromInt(10),
		}))
	}
	err = repo.Add(ctx, finance.Asset{ID: "a", Name: "dup", Category: finance.AssetGold})
	assert.ErrorIs(t, err, finance.ErrDuplicateID)

	// Update keeps position; delete removes
	require.NoError(t, repo.Update(ctx, finance.Asset{
		ID: "c", Name: "Renamed", Category: finance.AssetOther, Value: decimal.NewFromInt(99), Notes: "note",
	}))
	require.NoError(t, repo.Delete(ctx, "a"))

	all, err = repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "c", all[0].ID)
	assert.Equal(t, "Renamed", all[0].Name)
	assert.Equal(t, finance.AssetOther, all[0].Category)
	assert.Equal(t, "note", all[0].Notes)
	assert.Equal(t, "b", all[1].ID)
	assert.Equal(t, "", all[1].Notes)

	_, err = repo.Get(ctx, "a")
	var nf *finance.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "asset", nf.Kind)

	assert.True(t, finance.IsNotFound(repo.Delete(ctx, "a")))
	assert.True(t, finance.IsNotFound(repo.Update(ctx, finance.Asset{ID: "zz", Name: "x", Category: finance.AssetGold})))
}

func TestStore_CashFlows(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Incomes().Add(ctx, finance.Income{
		ID: "i1", Source: "Salary", Amount: decimal.NewFromInt(145000), Frequency: finance.FrequencyMonthly,
	}))
	require.NoError(t, s.Expenses().Add(ctx, finance.Expense{
		ID: "e1", Category: "Insurance", Description: "Term plan", Amount: decimal.NewFromInt(24000), Frequency: finance.FrequencyYearly,
	}))
	require.NoError(t, s.Accounts().Add(ctx, finance.BankAccount{
		ID: "b1", BankName: "First Bank", AccountType: finance.AccountFixedDeposit, Balance: decimal.RequireFromString("100000.10"), InterestRate: 7.1,
	}))

	inc, err := s.Incomes().Get(ctx, "i1")
	require.NoError(t, err)
	assert.Equal(t, finance.FrequencyMonthly, inc.Frequency)

	exp, err := s.Expenses().Get(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "Term plan", exp.Description)
	assert.Equal(t, finance.FrequencyYearly, exp.Frequency)

	acc, err := s.Accounts().Get(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, "100000.1", acc.Balance.String())
	assert.Equal(t, finance.AccountFixedDeposit, acc.AccountType)
}

func TestStore_Settings(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	got, err := s.Settings().Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, finance.DefaultSettings(), got, "defaults before first save")

	first := finance.Settings{SavingsRate: 25, InflationRate: 5.5, ReturnRate: 9, ProjectionYears: 15}
	require.NoError(t, s.Settings().Save(ctx, first))
	second := finance.Settings{SavingsRate: 40, InflationRate: 4, ReturnRate: 12, ProjectionYears: 30}
	require.NoError(t, s.Settings().Save(ctx, second))

	got, err = s.Settings().Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, got)
}

func TestStore_Snapshots(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	base := time.Date(2025, time.June, 1, 8, 30, 0, 0, time.UTC)

	// GIVEN: Snapshots written out of order, one with sub-second precision
	require.NoError(t, s.Snapshots().Save(ctx, finance.NetWorthSnapshot{ID: "s2", TakenAt: base.Add(48 * time.Hour), NetWorth: decimal.NewFromInt(2)}))
	require.NoError(t, s.Snapshots().Save(ctx, finance.NetWorthSnapshot{ID: "s1", TakenAt: base, NetWorth: decimal.NewFromInt(1)}))
	require.NoError(t, s.Snapshots().Save(ctx, finance.NetWorthSnapshot{ID: "s3", TakenAt: base.Add(48*time.Hour + 500*time.Millisecond), NetWorth: decimal.RequireFromString("-4405000")}))

	assert.ErrorIs(t, s.Snapshots().Save(ctx, finance.NetWorthSnapshot{ID: "s1", TakenAt: base}), finance.ErrDuplicateID)

	// THEN: Newest first, timestamps intact
	all, err := s.Snapshots().List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"s3", "s2", "s1"}, []string{all[0].ID, all[1].ID, all[2].ID})
	assert.True(t, all[0].TakenAt.Equal(base.Add(48*time.Hour+500*time.Millisecond)))
	assert.Equal(t, "-4405000", all[0].NetWorth.String())

	limited, err := s.Snapshots().List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "s3", limited[0].ID)
}

func TestStore_Reset(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Loans().Add(ctx, finance.Loan{ID: "l1", Lender: "Bank", Principal: decimal.NewFromInt(1), TenureMonths: 1}))
	require.NoError(t, s.Settings().Save(ctx, finance.Settings{SavingsRate: 1, ProjectionYears: 1}))
	require.NoError(t, s.Snapshots().Save(ctx, finance.NetWorthSnapshot{ID: "s1", TakenAt: time.Now()}))

	require.NoError(t, s.Reset(ctx))

	loans, err := s.Loans().GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, loans)

	st, err := s.Settings().Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, finance.DefaultSettings(), st)

	snaps, err := s.Snapshots().List(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, snaps)
}

func TestStore_PlannerOnSQLite(t *testing.T) {
	ctx := context.Background()
	p := finance.NewPlanner(newTestStore(t))

	_, err := p.AddLoan(ctx, finance.Loan{
		ID: "home", Lender: "Home Finance", Principal: decimal.NewFromInt(10000000), InterestRate: 8.5, TenureMonths: 300,
	})
	require.NoError(t, err)
	require.NoError(t, finance.Add(ctx, p.Store.Incomes(), finance.Income{
		ID: "salary", Source: "Salary", Amount: decimal.NewFromInt(145000), Frequency: finance.FrequencyMonthly,
	}))

	sum, err := p.Summary(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "80522.71", sum.TotalEMI.String())
	assert.Equal(t, "64477.29", sum.AvailableIncome.String())
}

func TestNew_InMemory(t *testing.T) {
	s, err := sqlite.New(":memory:")
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.Incomes().Add(ctx, finance.Income{ID: "i", Source: "x", Amount: decimal.NewFromInt(1), Frequency: finance.FrequencyMonthly}))
	all, err := s.Incomes().GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
