package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default().Eval, cfg.Eval)
	require.Equal(t, "memory", cfg.Store.Backend)
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadParsesYAMLOverridingDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "proviso.yaml")
	content := []byte(`
workspace: /deals
store:
  backend: sqlite
  path: /deals/proviso.db
eval:
  default_test_frequency: monthly
  currency_scale: 4
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/deals", cfg.Workspace)
	require.Equal(t, "sqlite", cfg.Store.Backend)
	require.Equal(t, "/deals/proviso.db", cfg.Store.Path)
	require.Equal(t, "monthly", cfg.Eval.DefaultTestFrequency)
	require.Equal(t, 4, cfg.Eval.CurrencyScale)
	require.Equal(t, 300, cfg.Watch.DebounceMillis)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("PROVISO_WORKSPACE", "/envdeal")
	t.Setenv("PROVISO_STORE_BACKEND", "sqlite")
	t.Setenv("PROVISO_LOG_LEVEL", "debug")
	t.Setenv("PROVISO_DEBUG", "true")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "/envdeal", cfg.Workspace)
	require.Equal(t, "sqlite", cfg.Store.Backend)
	require.Equal(t, "debug", cfg.Logging.Level)
	require.True(t, cfg.Logging.DebugMode)
}

func TestSaveRoundTrips(t *testing.T) {
	cfg := Default()
	cfg.Workspace = "/roundtrip"
	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, cfg.Save(path))

	reloaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/roundtrip", reloaded.Workspace)
}
