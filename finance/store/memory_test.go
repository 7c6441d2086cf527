package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/finance-tracker/finance"
	"github.com/warp/finance-tracker/finance/store"
)

func expense(id, category string) finance.Expense {
	return finance.Expense{
		ID:        id,
		Category:  category,
		Amount:    decimal.NewFromInt(100),
		Frequency: finance.FrequencyMonthly,
	}
}

func TestMemory_RepositoryContract(t *testing.T) {
	ctx := context.Background()
	repo := store.NewMemory().Expenses()

	// Empty store returns a non-nil empty slice
	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)

	require.NoError(t, repo.Add(ctx, expense("e1", "Rent")))
	require.NoError(t, repo.Add(ctx, expense("e2", "Food")))
	require.NoError(t, repo.Add(ctx, expense("e3", "Fuel")))
	assert.ErrorIs(t, repo.Add(ctx, expense("e1", "Again")), finance.ErrDuplicateID)

	// Insertion order survives updates and deletes
	require.NoError(t, repo.Update(ctx, expense("e1", "Rent+")))
	require.NoError(t, repo.Delete(ctx, "e2"))

	all, err = repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Rent+", all[0].Category)
	assert.Equal(t, "e3", all[1].ID)

	_, err = repo.Get(ctx, "e2")
	var nf *finance.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "expense", nf.Kind)
	assert.Equal(t, "e2", nf.ID)

	assert.True(t, finance.IsNotFound(repo.Delete(ctx, "e2")))
	assert.True(t, finance.IsNotFound(repo.Update(ctx, expense("zz", "x"))))
}

func TestMemory_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := store.NewMemory().Expenses()
	require.NoError(t, repo.Add(ctx, expense("e1", "Rent")))

	all, _ := repo.GetAll(ctx)
	all[0].Category = "mutated"

	got, err := repo.Get(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "Rent", got.Category)
}

func TestMemory_Snapshots(t *testing.T) {
	ctx := context.Background()
	snaps := store.NewMemory().Snapshots()
	base := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

	// GIVEN: Snapshots saved out of order
	for _, day := range []int{3, 1, 2} {
		require.NoError(t, snaps.Save(ctx, finance.NetWorthSnapshot{
			ID:       string(rune('a' + day)),
			TakenAt:  base.AddDate(0, 0, day),
			NetWorth: decimal.NewFromInt(int64(day)),
		}))
	}

	// THEN: List returns newest first
	all, err := snaps.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, base.AddDate(0, 0, 3), all[0].TakenAt)
	assert.Equal(t, base.AddDate(0, 0, 1), all[2].TakenAt)

	two, err := snaps.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, two, 2)
	assert.Equal(t, base.AddDate(0, 0, 2), two[1].TakenAt)
}

func TestMemory_Reset(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	require.NoError(t, m.Expenses().Add(ctx, expense("e1", "Rent")))
	require.NoError(t, m.Settings().Save(ctx, finance.Settings{SavingsRate: 50, ProjectionYears: 5}))
	require.NoError(t, m.Snapshots().Save(ctx, finance.NetWorthSnapshot{ID: "s1", TakenAt: time.Now()}))

	require.NoError(t, m.Reset(ctx))

	all, err := m.Expenses().GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	s, err := m.Settings().Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, finance.DefaultSettings(), s)

	snaps, err := m.Snapshots().List(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, snaps)

	// Reset repos remain usable
	require.NoError(t, m.Expenses().Add(ctx, expense("e1", "Rent")))
}
