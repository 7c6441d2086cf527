package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// syncCounter records how often the logger is flushed.
type syncCounter struct {
	zapcore.Core
	syncs *int
}

func (c syncCounter) Sync() error {
	*c.syncs++
	return c.Core.Sync()
}

func (c syncCounter) With(fields []zapcore.Field) zapcore.Core {
	return syncCounter{Core: c.Core.With(fields), syncs: c.syncs}
}

func (c syncCounter) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func TestExitCode(t *testing.T) {
	// GIVEN: A run that failed
	core, logs := observer.New(zapcore.InfoLevel)
	var syncs int
	logger := zap.New(syncCounter{Core: core, syncs: &syncs})

	// WHEN: The exit code is computed
	code := exitCode(logger, errors.New("address already in use"))

	// THEN: The failure is logged and flushed before exiting non-zero
	assert.Equal(t, 1, code)
	assert.Equal(t, 1, syncs)
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	assert.Equal(t, "server failed", entry.Message)
	assert.Equal(t, "address already in use", entry.ContextMap()["error"])
}

func TestExitCode_CleanShutdown(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	var syncs int
	logger := zap.New(syncCounter{Core: core, syncs: &syncs})

	assert.Equal(t, 0, exitCode(logger, nil))
	assert.Equal(t, 1, syncs)
	assert.Zero(t, logs.Len())
}
