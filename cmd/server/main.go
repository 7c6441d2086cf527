/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the Finance Tracker server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (flags, environment, .env)
  2. Build the zap logger
  3. Initialize SQLite store
  4. Create API handler, optionally seeding a demo scenario
  5. Start the snapshot scheduler
  6. Configure HTTP router
  7. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  See config/config.go. The common ones:
  -port    HTTP server port (default: 8080)
  -db      SQLite database path (default: finance.db)
           Use ":memory:" for in-memory database
  -seed    Scenario ID to load at startup (replaces stored data)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the snapshot scheduler
  2. Stop accepting new connections
  3. Wait for active requests to complete (30s timeout)
  4. Close database connection
  5. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/finance.db"

  # Demo with in-memory database
  ./server -db=":memory:" -seed=salaried-family

  # Run on different port, hourly snapshots
  FINANCE_PORT=3000 ./server -snapshot-interval=1h

SEE ALSO:
  - config/config.go: Configuration
  - api/server.go: Router configuration
  - api/scheduler.go: Snapshot scheduler
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/finance-tracker/api"
	"github.com/warp/finance-tracker/config"
	"github.com/warp/finance-tracker/store/sqlite"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(2)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}

	os.Exit(exitCode(logger, run(cfg, logger)))
}

// exitCode logs a failed run and flushes the logger. os.Exit skips deferred
// calls, so the flush has to happen here.
func exitCode(logger *zap.Logger, err error) int {
	code := 0
	if err != nil {
		logger.Error("server failed", zap.Error(err))
		code = 1
	}
	logger.Sync()
	return code
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
	return zc.Build()
}

func run(cfg *config.Config, logger *zap.Logger) error {
	// Initialize store
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer store.Close()

	// Initialize handler
	handler := api.NewHandler(store, logger)

	if cfg.Seed != "" {
		if err := handler.Seed(context.Background(), cfg.Seed); err != nil {
			return fmt.Errorf("failed to seed scenario %q: %w", cfg.Seed, err)
		}
	}

	// Snapshot scheduler
	scheduler := api.NewSnapshotScheduler(handler.Planner, logger)
	scheduler.Interval = cfg.SnapshotInterval
	scheduler.Enabled = cfg.SnapshotInterval > 0
	scheduler.Start()
	defer scheduler.Stop()

	// Create router
	router := api.NewRouter(handler, cfg.CORSOrigins)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("url", fmt.Sprintf("http://localhost:%d", cfg.Port)),
			zap.String("db", cfg.DBPath),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down server", zap.String("signal", sig.String()))
	}

	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
