/*
Package sqlite provides a SQLite-backed implementation of finance.Store.

PURPOSE:
  Persists the household's records, settings and net worth snapshots so the
  tracker survives restarts. The engine and planner never see SQL.

INTERFACES IMPLEMENTED:
  finance.Store:         Groups everything below
  finance.Repository[T]: One table per record kind (generic table[T])
  finance.SettingsStore: Single-row settings table
  finance.SnapshotStore: Append-only net_worth_snapshots

KEY TABLES:
  assets, bank_accounts, incomes, expenses, loans: One row per record
  settings:            At most one row (id = 1)
  net_worth_snapshots: Point-in-time net worth readings

MONEY:
  Amounts are stored as TEXT using decimal.Decimal's driver.Valuer, so a
  balance of 1234.56 reads back as exactly 1234.56. Rates are REAL.

ORDERING:
  GetAll orders by rowid, which SQLite assigns in insertion order and keeps
  across UPDATE. Snapshots use a fixed-width UTC timestamp so TEXT ordering
  is chronological.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety on top of SQLite's own locking.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/finance.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  planner := finance.NewPlanner(store)

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - finance/store.go: Interface definitions and contract
  - finance/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/warp/finance-tracker/finance"
)

// snapshotTimeLayout is fixed width so stored timestamps sort as text.
const snapshotTimeLayout = "2006-01-02T15:04:05.000000000Z"

// Store implements finance.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex

	assets   *table[finance.Asset]
	accounts *table[finance.BankAccount]
	incomes  *table[finance.Income]
	expenses *table[finance.Expense]
	loans    *table[finance.Loan]
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Every pooled connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	store.initTables()

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS assets (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL,
		value TEXT NOT NULL,
		notes TEXT
	);

	CREATE TABLE IF NOT EXISTS bank_accounts (
		id TEXT PRIMARY KEY,
		bank_name TEXT NOT NULL,
		account_type TEXT NOT NULL,
		balance TEXT NOT NULL,
		interest_rate REAL NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS incomes (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		amount TEXT NOT NULL,
		frequency TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS expenses (
		id TEXT PRIMARY KEY,
		category TEXT NOT NULL,
		description TEXT,
		amount TEXT NOT NULL,
		frequency TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS loans (
		id TEXT PRIMARY KEY,
		lender TEXT NOT NULL,
		loan_type TEXT,
		principal TEXT NOT NULL,
		interest_rate REAL NOT NULL,
		tenure_months INTEGER NOT NULL,
		emi TEXT NOT NULL
	);

	-- Singleton row
	CREATE TABLE IF NOT EXISTS settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		savings_rate REAL NOT NULL,
		inflation_rate REAL NOT NULL,
		return_rate REAL NOT NULL,
		projection_years INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS net_worth_snapshots (
		id TEXT PRIMARY KEY,
		taken_at TEXT NOT NULL,
		total_assets TEXT NOT NULL,
		total_liabilities TEXT NOT NULL,
		net_worth TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_taken_at
		ON net_worth_snapshots(taken_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) Assets() finance.Repository[finance.Asset]         { return s.assets }
func (s *Store) Accounts() finance.Repository[finance.BankAccount] { return s.accounts }
func (s *Store) Incomes() finance.Repository[finance.Income]       { return s.incomes }
func (s *Store) Expenses() finance.Repository[finance.Expense]     { return s.expenses }
func (s *Store) Loans() finance.Repository[finance.Loan]           { return s.loans }
func (s *Store) Settings() finance.SettingsStore                   { return settingsStore{s} }
func (s *Store) Snapshots() finance.SnapshotStore                  { return snapshotStore{s} }

// =============================================================================
// RECORD TABLES
// =============================================================================

func (s *Store) initTables() {
	s.assets = &table[finance.Asset]{
		s:       s,
		name:    "assets",
		columns: []string{"name", "category", "value", "notes"},
		values: func(a finance.Asset) []any {
			return []any{a.Name, string(a.Category), a.Value, nullString(a.Notes)}
		},
		scan: func(row scanner) (finance.Asset, error) {
			var a finance.Asset
			var notes sql.NullString
			err := row.Scan(&a.ID, &a.Name, &a.Category, &a.Value, &notes)
			a.Notes = notes.String
			return a, err
		},
	}

	s.accounts = &table[finance.BankAccount]{
		s:       s,
		name:    "bank_accounts",
		columns: []string{"bank_name", "account_type", "balance", "interest_rate"},
		values: func(b finance.BankAccount) []any {
			return []any{b.BankName, string(b.AccountType), b.Balance, b.InterestRate}
		},
		scan: func(row scanner) (finance.BankAccount, error) {
			var b finance.BankAccount
			err := row.Scan(&b.ID, &b.BankName, &b.AccountType, &b.Balance, &b.InterestRate)
			return b, err
		},
	}

	s.incomes = &table[finance.Income]{
		s:       s,
		name:    "incomes",
		columns: []string{"source", "amount", "frequency"},
		values: func(i finance.Income) []any {
			return []any{i.Source, i.Amount, string(i.Frequency)}
		},
		scan: func(row scanner) (finance.Income, error) {
			var i finance.Income
			err := row.Scan(&i.ID, &i.Source, &i.Amount, &i.Frequency)
			return i, err
		},
	}

	s.expenses = &table[finance.Expense]{
		s:       s,
		name:    "expenses",
		columns: []string{"category", "description", "amount", "frequency"},
		values: func(e finance.Expense) []any {
			return []any{e.Category, nullString(e.Description), e.Amount, string(e.Frequency)}
		},
		scan: func(row scanner) (finance.Expense, error) {
			var e finance.Expense
			var desc sql.NullString
			err := row.Scan(&e.ID, &e.Category, &desc, &e.Amount, &e.Frequency)
			e.Description = desc.String
			return e, err
		},
	}

	s.loans = &table[finance.Loan]{
		s:       s,
		name:    "loans",
		columns: []string{"lender", "loan_type", "principal", "interest_rate", "tenure_months", "emi"},
		values: func(l finance.Loan) []any {
			return []any{l.Lender, nullString(l.LoanType), l.Principal, l.InterestRate, l.TenureMonths, l.EMI}
		},
		scan: func(row scanner) (finance.Loan, error) {
			var l finance.Loan
			var loanType sql.NullString
			err := row.Scan(&l.ID, &l.Lender, &loanType, &l.Principal, &l.InterestRate, &l.TenureMonths, &l.EMI)
			l.LoanType = loanType.String
			return l, err
		},
	}
}

type scanner interface {
	Scan(dest ...any) error
}

// table maps one record kind onto one SQL table. columns excludes id, which
// is always the first column read and written.
type table[T finance.Record] struct {
	s       *Store
	name    string
	columns []string
	values  func(T) []any
	scan    func(scanner) (T, error)
}

func (t *table[T]) kind() string {
	var zero T
	return zero.Kind()
}

func (t *table[T]) selectSQL() string {
	return "SELECT id, " + strings.Join(t.columns, ", ") + " FROM " + t.name
}

func (t *table[T]) GetAll(ctx context.Context) ([]T, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	rows, err := t.s.db.QueryContext(ctx, t.selectSQL()+" ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", t.name, err)
	}
	defer rows.Close()

	records := []T{}
	for rows.Next() {
		rec, err := t.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", t.kind(), err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (t *table[T]) Get(ctx context.Context, id string) (T, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	rec, err := t.scan(t.s.db.QueryRowContext(ctx, t.selectSQL()+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		var zero T
		return zero, &finance.NotFoundError{Kind: t.kind(), ID: id}
	}
	if err != nil {
		var zero T
		return zero, fmt.Errorf("failed to get %s: %w", t.kind(), err)
	}
	return rec, nil
}

func (t *table[T]) Add(ctx context.Context, record T) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	placeholders := strings.Repeat(", ?", len(t.columns))
	query := "INSERT INTO " + t.name + " (id, " + strings.Join(t.columns, ", ") + ") VALUES (?" + placeholders + ")"
	args := append([]any{record.RecordID()}, t.values(record)...)

	if _, err := t.s.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueConstraintError(err) {
			return finance.ErrDuplicateID
		}
		return fmt.Errorf("failed to insert %s: %w", t.kind(), err)
	}
	return nil
}

func (t *table[T]) Update(ctx context.Context, record T) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	query := "UPDATE " + t.name + " SET " + strings.Join(t.columns, " = ?, ") + " = ? WHERE id = ?"
	args := append(t.values(record), record.RecordID())

	res, err := t.s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", t.kind(), err)
	}
	return t.checkAffected(res, record.RecordID())
}

func (t *table[T]) Delete(ctx context.Context, id string) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	res, err := t.s.db.ExecContext(ctx, "DELETE FROM "+t.name+" WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", t.kind(), err)
	}
	return t.checkAffected(res, id)
}

func (t *table[T]) checkAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &finance.NotFoundError{Kind: t.kind(), ID: id}
	}
	return nil
}

// =============================================================================
// SETTINGS STORE
// =============================================================================

type settingsStore struct{ s *Store }

func (ss settingsStore) Get(ctx context.Context) (finance.Settings, error) {
	ss.s.mu.RLock()
	defer ss.s.mu.RUnlock()

	var st finance.Settings
	err := ss.s.db.QueryRowContext(ctx,
		"SELECT savings_rate, inflation_rate, return_rate, projection_years FROM settings WHERE id = 1",
	).Scan(&st.SavingsRate, &st.InflationRate, &st.ReturnRate, &st.ProjectionYears)

	if errors.Is(err, sql.ErrNoRows) {
		return finance.DefaultSettings(), nil
	}
	if err != nil {
		return finance.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	return st, nil
}

func (ss settingsStore) Save(ctx context.Context, st finance.Settings) error {
	ss.s.mu.Lock()
	defer ss.s.mu.Unlock()

	_, err := ss.s.db.ExecContext(ctx, `
		INSERT INTO settings (id, savings_rate, inflation_rate, return_rate, projection_years)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			savings_rate = excluded.savings_rate,
			inflation_rate = excluded.inflation_rate,
			return_rate = excluded.return_rate,
			projection_years = excluded.projection_years
	`, st.SavingsRate, st.InflationRate, st.ReturnRate, st.ProjectionYears)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// =============================================================================
// SNAPSHOT STORE
// =============================================================================

type snapshotStore struct{ s *Store }

func (ss snapshotStore) Save(ctx context.Context, snap finance.NetWorthSnapshot) error {
	ss.s.mu.Lock()
	defer ss.s.mu.Unlock()

	_, err := ss.s.db.ExecContext(ctx, `
		INSERT INTO net_worth_snapshots (id, taken_at, total_assets, total_liabilities, net_worth)
		VALUES (?, ?, ?, ?, ?)
	`,
		snap.ID,
		snap.TakenAt.UTC().Format(snapshotTimeLayout),
		snap.TotalAssets,
		snap.TotalLiabilities,
		snap.NetWorth,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return finance.ErrDuplicateID
		}
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

func (ss snapshotStore) List(ctx context.Context, limit int) ([]finance.NetWorthSnapshot, error) {
	ss.s.mu.RLock()
	defer ss.s.mu.RUnlock()

	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := ss.s.db.QueryContext(ctx, `
		SELECT id, taken_at, total_assets, total_liabilities, net_worth
		FROM net_worth_snapshots
		ORDER BY taken_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	snaps := []finance.NetWorthSnapshot{}
	for rows.Next() {
		var snap finance.NetWorthSnapshot
		var takenAt string
		if err := rows.Scan(&snap.ID, &takenAt, &snap.TotalAssets, &snap.TotalLiabilities, &snap.NetWorth); err != nil {
			return nil, err
		}
		snap.TakenAt, err = time.Parse(snapshotTimeLayout, takenAt)
		if err != nil {
			return nil, fmt.Errorf("bad snapshot timestamp %q: %w", takenAt, err)
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	tables := []string{"assets", "bank_accounts", "incomes", "expenses", "loans", "settings", "net_worth_snapshots"}
	for _, table := range tables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Helper functions

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func isUniqueConstraintError(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
