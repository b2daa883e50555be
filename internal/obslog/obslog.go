// Package obslog provides the process-wide zap logger used by the CLI
// and MCP shells. Analyzer packages are pure functions and never import
// this package; only the command entry points and the waiver-file
// filesystem boundary log.
package obslog

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.Mutex
	logger *zap.Logger
)

// Init builds the process logger, toggling DebugLevel when verbose is
// true. Safe to call more than once; the last call wins.
func Init(verbose bool) (*zap.Logger, error) {
	mu.Lock()
	defer mu.Unlock()

	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	l, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}
	logger = l
	return logger, nil
}

// L returns the process logger, falling back to zap's no-op logger if
// Init hasn't run yet (e.g. under test).
func L() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// Sync flushes the process logger. Call at shutdown.
func Sync() {
	mu.Lock()
	l := logger
	mu.Unlock()
	if l != nil {
		_ = l.Sync()
	}
}
