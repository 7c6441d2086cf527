package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/finance-tracker/engine"
)

// Planner connects the record store to the engine. It loads records, checks
// preconditions and calls the engine with plain numbers.
type Planner struct {
	Store Store
	Now   func() time.Time
}

func NewPlanner(store Store) *Planner {
	return &Planner{Store: store, Now: time.Now}
}

// LoanSchedule is a loan together with its amortization. EMI is the payment
// the rows are built on, which may differ from an EMI recorded by hand.
type LoanSchedule struct {
	Loan   Loan
	EMI    float64
	Rows   []engine.ScheduleRow
	Totals engine.ScheduleTotals
}

// =============================================================================
// RECORD WRITES
// =============================================================================

// Add validates a record and stores it.
func Add[T Record](ctx context.Context, repo Repository[T], record T) error {
	if record.RecordID() == "" {
		return invalid(record.Kind(), "id", "is required")
	}
	if err := record.Validate(); err != nil {
		return err
	}
	return repo.Add(ctx, record)
}

// Update validates a record and replaces the stored copy.
func Update[T Record](ctx context.Context, repo Repository[T], record T) error {
	if err := record.Validate(); err != nil {
		return err
	}
	return repo.Update(ctx, record)
}

// AddLoan stores a loan, computing its EMI when none was given.
func (p *Planner) AddLoan(ctx context.Context, l Loan) (Loan, error) {
	l = withEMI(l)
	if err := Add(ctx, p.Store.Loans(), l); err != nil {
		return Loan{}, err
	}
	return l, nil
}

// UpdateLoan replaces a loan, computing its EMI when none was given. When
// the terms change but the EMI is the one already stored, the EMI is
// recomputed for the new terms.
func (p *Planner) UpdateLoan(ctx context.Context, l Loan) (Loan, error) {
	stored, err := p.Store.Loans().Get(ctx, l.ID)
	if err != nil && !IsNotFound(err) {
		return Loan{}, err
	}
	if err == nil && termsChanged(stored, l) && l.EMI.Equal(stored.EMI) {
		l.EMI = decimal.Zero
	}
	l = withEMI(l)
	if err := Update(ctx, p.Store.Loans(), l); err != nil {
		return Loan{}, err
	}
	return l, nil
}

func termsChanged(a, b Loan) bool {
	return !a.Principal.Equal(b.Principal) ||
		a.InterestRate != b.InterestRate ||
		a.TenureMonths != b.TenureMonths
}

func withEMI(l Loan) Loan {
	if l.EMI.IsZero() && l.Validate() == nil {
		l.EMI = LoanEMI(l)
	}
	return l
}

// SaveSettings validates and stores the projection assumptions.
func (p *Planner) SaveSettings(ctx context.Context, s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	return p.Store.Settings().Save(ctx, s)
}

// =============================================================================
// CALCULATIONS
// =============================================================================

// Summary loads every record and summarizes it. years <= 0 uses the
// projection horizon from settings.
func (p *Planner) Summary(ctx context.Context, years int) (Summary, error) {
	in, err := p.load(ctx)
	if err != nil {
		return Summary{}, err
	}
	in.Years = years
	return Summarize(in), nil
}

// LoanSchedule returns the amortization of a stored loan.
func (p *Planner) LoanSchedule(ctx context.Context, loanID string) (*LoanSchedule, error) {
	l, err := p.Store.Loans().Get(ctx, loanID)
	if err != nil {
		return nil, err
	}
	principal := l.Principal.InexactFloat64()
	rows := engine.GenerateSchedule(principal, l.InterestRate, l.TenureMonths)
	return &LoanSchedule{
		Loan:   l,
		EMI:    engine.ComputeEMI(principal, l.InterestRate, l.TenureMonths),
		Rows:   rows,
		Totals: engine.SummarizeSchedule(rows),
	}, nil
}

// LoanPrepayment analyzes a lump-sum prepayment against a stored loan.
func (p *Planner) LoanPrepayment(ctx context.Context, loanID string, amount decimal.Decimal) (engine.PrepaymentImpact, error) {
	if !amount.IsPositive() {
		return engine.PrepaymentImpact{}, invalid("prepayment", "amount", "must be positive")
	}
	l, err := p.Store.Loans().Get(ctx, loanID)
	if err != nil {
		return engine.PrepaymentImpact{}, err
	}
	return engine.AnalyzePrepayment(
		l.Principal.InexactFloat64(),
		l.InterestRate,
		l.TenureMonths,
		amount.InexactFloat64(),
	), nil
}

// Snapshot records the current net worth.
func (p *Planner) Snapshot(ctx context.Context) (NetWorthSnapshot, error) {
	in, err := p.load(ctx)
	if err != nil {
		return NetWorthSnapshot{}, err
	}
	in.Years = 1
	s := Summarize(in)

	snap := NetWorthSnapshot{
		ID:               NewID(),
		TakenAt:          p.Now().UTC(),
		TotalAssets:      s.TotalAssets.Add(s.TotalBankBalance),
		TotalLiabilities: s.TotalLiabilities,
		NetWorth:         s.NetWorth,
	}
	if err := p.Store.Snapshots().Save(ctx, snap); err != nil {
		return NetWorthSnapshot{}, fmt.Errorf("failed to save snapshot: %w", err)
	}
	return snap, nil
}

func (p *Planner) load(ctx context.Context) (SummaryInput, error) {
	var (
		in  SummaryInput
		err error
	)
	if in.Assets, err = p.Store.Assets().GetAll(ctx); err != nil {
		return in, fmt.Errorf("failed to load assets: %w", err)
	}
	if in.Accounts, err = p.Store.Accounts().GetAll(ctx); err != nil {
		return in, fmt.Errorf("failed to load accounts: %w", err)
	}
	if in.Incomes, err = p.Store.Incomes().GetAll(ctx); err != nil {
		return in, fmt.Errorf("failed to load incomes: %w", err)
	}
	if in.Expenses, err = p.Store.Expenses().GetAll(ctx); err != nil {
		return in, fmt.Errorf("failed to load expenses: %w", err)
	}
	if in.Loans, err = p.Store.Loans().GetAll(ctx); err != nil {
		return in, fmt.Errorf("failed to load loans: %w", err)
	}
	if in.Settings, err = p.Store.Settings().Get(ctx); err != nil {
		return in, fmt.Errorf("failed to load settings: %w", err)
	}
	return in, nil
}
