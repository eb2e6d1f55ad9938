package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitializeRequiresWorkspace(t *testing.T) {
	err := Initialize("", false, nil, "info", false)
	require.Error(t, err)
}

func TestGetReturnsNoOpLoggerWhenDebugModeDisabled(t *testing.T) {
	ws := t.TempDir()
	require.NoError(t, Initialize(ws, false, nil, "info", false))
	defer CloseAll()

	l := Get(CategoryEngine)
	l.Info("should not panic or write a file")

	_, err := os.Stat(filepath.Join(ws, ".proviso", "logs"))
	require.True(t, os.IsNotExist(err))
}

func TestGetWritesFileWhenDebugModeEnabled(t *testing.T) {
	ws := t.TempDir()
	require.NoError(t, Initialize(ws, true, nil, "debug", false))
	defer CloseAll()

	l := Get(CategoryCovenant)
	l.Info("covenant check %s", "MaxLeverage")

	entries, err := os.ReadDir(filepath.Join(ws, ".proviso", "logs"))
	require.NoError(t, err)
	require.NotEmpty(t, entries)
}

func TestCategoryDisabledOverridesDebugMode(t *testing.T) {
	ws := t.TempDir()
	require.NoError(t, Initialize(ws, true, map[string]bool{"cure": false}, "debug", false))
	defer CloseAll()

	l := Get(CategoryCure)
	require.False(t, categoryEnabled(CategoryCure))
	l.Info("should be a no-op")
}

func TestLevelFiltering(t *testing.T) {
	ws := t.TempDir()
	require.NoError(t, Initialize(ws, true, nil, "error", false))
	defer CloseAll()

	l := Get(CategoryPhase)
	require.NotNil(t, l)
	l.Debug("filtered out below error level")
	l.Error("this one passes the level filter")
}

func TestCloseAllClearsLoggerCache(t *testing.T) {
	ws := t.TempDir()
	require.NoError(t, Initialize(ws, true, nil, "info", false))
	Get(CategoryReserve)
	CloseAll()

	loggersMu.RLock()
	n := len(loggers)
	loggersMu.RUnlock()
	require.Equal(t, 0, n)
}
