/*
scheduler.go - Automated net worth snapshots

PURPOSE:
  Periodically records the household's net worth so the snapshot history
  builds up without anyone pressing a button.

DESIGN:
  - Runs a background goroutine with configurable interval
  - Runs once immediately on start
  - Skips a run when the latest snapshot is younger than half the interval,
    so restarts do not produce bursts of near-identical snapshots

CONFIGURATION:
  - Interval: How often to snapshot (default: 24 hours)
  - Enabled:  Whether scheduler is active (default: true)

USAGE:
  scheduler := NewSnapshotScheduler(planner, logger)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: CreateSnapshot endpoint (manual snapshot)
  - finance/planner.go: Planner.Snapshot
*/
package api

import (
	"context"
	"sync"
	"time"

	"github.com/warp/finance-tracker/finance"
	"go.uber.org/zap"
)

// SnapshotScheduler records net worth snapshots on a fixed interval.
type SnapshotScheduler struct {
	Planner  *finance.Planner
	Logger   *zap.Logger
	Interval time.Duration
	Enabled  bool

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewSnapshotScheduler creates a new scheduler.
func NewSnapshotScheduler(planner *finance.Planner, logger *zap.Logger) *SnapshotScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotScheduler{
		Planner:  planner,
		Logger:   logger.Named("scheduler"),
		Interval: 24 * time.Hour,
		Enabled:  true,
	}
}

// Start begins the scheduler. Calling Start on a running scheduler is a no-op.
func (s *SnapshotScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.Enabled || s.Interval <= 0 {
		s.Logger.Info("disabled, not starting")
		return
	}
	if s.ticker != nil {
		return
	}

	s.ticker = time.NewTicker(s.Interval)
	s.stop = make(chan struct{})
	s.wg.Add(1)

	go s.run(s.ticker, s.stop)

	s.Logger.Info("started", zap.Duration("interval", s.Interval))
}

// Stop stops the scheduler and waits for an in-flight run to finish.
func (s *SnapshotScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker != nil {
		s.ticker.Stop()
		close(s.stop)
		s.wg.Wait()
		s.ticker = nil
		s.Logger.Info("stopped")
	}
}

// RunNow takes a snapshot immediately if one is due. It reports whether a
// snapshot was recorded.
func (s *SnapshotScheduler) RunNow(ctx context.Context) (bool, error) {
	latest, err := s.Planner.Store.Snapshots().List(ctx, 1)
	if err != nil {
		return false, err
	}
	if len(latest) == 1 {
		age := s.Planner.Now().Sub(latest[0].TakenAt)
		if age < s.Interval/2 {
			s.Logger.Debug("skipping, recent snapshot exists", zap.Duration("age", age))
			return false, nil
		}
	}

	snap, err := s.Planner.Snapshot(ctx)
	if err != nil {
		return false, err
	}
	s.Logger.Info("snapshot recorded",
		zap.String("id", snap.ID),
		zap.String("net_worth", snap.NetWorth.StringFixed(2)),
	)
	return true, nil
}

func (s *SnapshotScheduler) run(ticker *time.Ticker, stop <-chan struct{}) {
	defer s.wg.Done()

	// Run immediately on start
	s.tick()

	for {
		select {
		case <-ticker.C:
			s.tick()
		case <-stop:
			return
		}
	}
}

func (s *SnapshotScheduler) tick() {
	if _, err := s.RunNow(context.Background()); err != nil {
		s.Logger.Error("snapshot failed", zap.Error(err))
	}
}
