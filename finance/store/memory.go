// Package store provides finance.Store implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/finance-tracker/finance"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu sync.RWMutex

	assets   *repo[finance.Asset]
	accounts *repo[finance.BankAccount]
	incomes  *repo[finance.Income]
	expenses *repo[finance.Expense]
	loans    *repo[finance.Loan]

	settings  *finance.Settings
	snapshots []finance.NetWorthSnapshot
}

func NewMemory() *Memory {
	m := &Memory{}
	m.assets = newRepo[finance.Asset](&m.mu)
	m.accounts = newRepo[finance.BankAccount](&m.mu)
	m.incomes = newRepo[finance.Income](&m.mu)
	m.expenses = newRepo[finance.Expense](&m.mu)
	m.loans = newRepo[finance.Loan](&m.mu)
	return m
}

func (m *Memory) Assets() finance.Repository[finance.Asset]         { return m.assets }
func (m *Memory) Accounts() finance.Repository[finance.BankAccount] { return m.accounts }
func (m *Memory) Incomes() finance.Repository[finance.Income]       { return m.incomes }
func (m *Memory) Expenses() finance.Repository[finance.Expense]     { return m.expenses }
func (m *Memory) Loans() finance.Repository[finance.Loan]           { return m.loans }
func (m *Memory) Settings() finance.SettingsStore                   { return memorySettings{m} }
func (m *Memory) Snapshots() finance.SnapshotStore                  { return memorySnapshots{m} }

// Reset clears everything atomically.
func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range []interface{ clearLocked() }{m.assets, m.accounts, m.incomes, m.expenses, m.loans} {
		r.clearLocked()
	}
	m.settings = nil
	m.snapshots = nil
	return nil
}

// =============================================================================
// GENERIC REPOSITORY
// =============================================================================

// repo keeps records by ID plus their insertion order. It shares the parent
// Memory's lock so Reset is atomic across kinds.
type repo[T finance.Record] struct {
	mu      *sync.RWMutex
	records map[string]T
	order   []string
}

func newRepo[T finance.Record](mu *sync.RWMutex) *repo[T] {
	return &repo[T]{mu: mu, records: make(map[string]T)}
}

func (r *repo[T]) clearLocked() {
	r.records = make(map[string]T)
	r.order = nil
}

func (r *repo[T]) GetAll(_ context.Context) ([]T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]T, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, r.records[id])
	}
	return result, nil
}

func (r *repo[T]) Get(_ context.Context, id string) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[id]
	if !ok {
		var zero T
		return zero, &finance.NotFoundError{Kind: zero.Kind(), ID: id}
	}
	return rec, nil
}

func (r *repo[T]) Add(_ context.Context, record T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := record.RecordID()
	if _, exists := r.records[id]; exists {
		return finance.ErrDuplicateID
	}
	r.records[id] = record
	r.order = append(r.order, id)
	return nil
}

func (r *repo[T]) Update(_ context.Context, record T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := record.RecordID()
	if _, exists := r.records[id]; !exists {
		return &finance.NotFoundError{Kind: record.Kind(), ID: id}
	}
	r.records[id] = record
	return nil
}

func (r *repo[T]) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[id]; !exists {
		var zero T
		return &finance.NotFoundError{Kind: zero.Kind(), ID: id}
	}
	delete(r.records, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// =============================================================================
// SETTINGS & SNAPSHOTS
// =============================================================================

type memorySettings struct{ m *Memory }

func (s memorySettings) Get(_ context.Context) (finance.Settings, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	if s.m.settings == nil {
		return finance.DefaultSettings(), nil
	}
	return *s.m.settings, nil
}

func (s memorySettings) Save(_ context.Context, settings finance.Settings) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	s.m.settings = &settings
	return nil
}

type memorySnapshots struct{ m *Memory }

func (s memorySnapshots) Save(_ context.Context, snap finance.NetWorthSnapshot) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	// Binary search for insertion point keeps snapshots ordered by TakenAt.
	snaps := s.m.snapshots
	i := sort.Search(len(snaps), func(i int) bool {
		return snaps[i].TakenAt.After(snap.TakenAt)
	})
	snaps = append(snaps, finance.NetWorthSnapshot{})
	copy(snaps[i+1:], snaps[i:])
	snaps[i] = snap
	s.m.snapshots = snaps
	return nil
}

func (s memorySnapshots) List(_ context.Context, limit int) ([]finance.NetWorthSnapshot, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	n := len(s.m.snapshots)
	if limit <= 0 || limit > n {
		limit = n
	}
	result := make([]finance.NetWorthSnapshot, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		result = append(result, s.m.snapshots[i])
	}
	return result, nil
}
