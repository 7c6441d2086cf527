/*
store.go - Persistence interfaces for records, settings and snapshots

PURPOSE:
  Defines the boundary between the planner and the database. One generic
  Repository per record kind, a singleton SettingsStore and an append-only
  SnapshotStore. The engine never sees any of this.

CONTRACT:
  - Add fails with ErrDuplicateID if the ID exists.
  - Get, Update and Delete fail with a *NotFoundError for unknown IDs.
  - GetAll returns records in insertion order; an empty store returns an
    empty (non-nil) slice.
  - Returned records are copies. Mutating them does not touch the store.
  - Stores do NOT validate. Callers validate before writing.

IMPLEMENTATIONS:
  - finance/store/memory.go: In-memory for tests and development
  - store/sqlite/sqlite.go: SQLite

SEE ALSO:
  - planner.go: Reads everything through Store
*/
package finance

import "context"

// Repository persists one kind of record.
type Repository[T Record] interface {
	GetAll(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	Add(ctx context.Context, record T) error
	Update(ctx context.Context, record T) error
	Delete(ctx context.Context, id string) error
}

// SettingsStore holds the single Settings value.
type SettingsStore interface {
	// Get returns DefaultSettings() when nothing has been saved.
	Get(ctx context.Context) (Settings, error)
	Save(ctx context.Context, s Settings) error
}

// SnapshotStore is append-only.
type SnapshotStore interface {
	Save(ctx context.Context, snap NetWorthSnapshot) error
	// List returns up to limit snapshots, newest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]NetWorthSnapshot, error)
}

// Store groups every repository the tracker needs.
type Store interface {
	Assets() Repository[Asset]
	Accounts() Repository[BankAccount]
	Incomes() Repository[Income]
	Expenses() Repository[Expense]
	Loans() Repository[Loan]
	Settings() SettingsStore
	Snapshots() SnapshotStore

	// Reset removes all records, settings and snapshots.
	Reset(ctx context.Context) error
}
