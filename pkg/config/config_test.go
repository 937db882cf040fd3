package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/columnlab/tabular/pkg/errors"
)

func TestLoadSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bench.yaml")

	original := DefaultBenchConfig()
	original.Rows = 50_000
	original.Scenarios = []string{"access", "append"}

	require.NoError(t, Save(path, original))

	loaded := &BenchConfig{}
	require.NoError(t, Load(path, loaded))

	assert.Equal(t, original, loaded)
}

func TestLoadEnvSubstitution(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bench.yaml")

	t.Setenv("TABULAR_TEST_LEVEL", "debug")

	content := "rows: 100\niterations: 1\nlogging:\n  level: ${TABULAR_TEST_LEVEL}\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg := &BenchConfig{}
	require.NoError(t, Load(path, cfg))

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 100, cfg.Rows)
}

func TestLoadMissingFile(t *testing.T) {
	err := Load("/nonexistent/bench.yaml", &BenchConfig{})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestValidate(t *testing.T) {
	cfg := DefaultBenchConfig()
	require.NoError(t, cfg.Validate())

	cfg.Rows = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))

	cfg = DefaultBenchConfig()
	cfg.Iterations = -1
	assert.Error(t, cfg.Validate())
}
