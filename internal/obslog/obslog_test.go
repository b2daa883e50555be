package obslog_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sandwich-gate/complexity/internal/obslog"
)

func TestLWithoutInitReturnsUsableLogger(t *testing.T) {
	logger := obslog.L()
	require.NotNil(t, logger)
	logger.Info("no-op check")
}

func TestInitReturnsNonNilLoggerAndUpdatesL(t *testing.T) {
	logger, err := obslog.Init(false)
	require.NoError(t, err)
	require.NotNil(t, logger)
	require.Same(t, logger, obslog.L())
}

func TestInitVerboseEnablesDebugLevel(t *testing.T) {
	logger, err := obslog.Init(true)
	require.NoError(t, err)
	require.True(t, logger.Core().Enabled(-1))
}

func TestSyncAfterInitDoesNotPanic(t *testing.T) {
	_, err := obslog.Init(false)
	require.NoError(t, err)
	require.NotPanics(t, func() { obslog.Sync() })
}
