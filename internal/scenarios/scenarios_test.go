package scenarios

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/columnlab/tabular/pkg/config"
	"github.com/columnlab/tabular/pkg/testutil"
)

func testConfig() *config.BenchConfig {
	cfg := config.DefaultBenchConfig()
	cfg.Rows = 2000
	cfg.Iterations = 2
	cfg.Compression = "snappy"
	return cfg
}

func TestRunAllScenarios(t *testing.T) {
	runner, err := NewRunner(testConfig(), testutil.TestLogger(t))
	require.NoError(t, err)

	require.NoError(t, runner.Run(nil))

	results := runner.Results()
	require.NotEmpty(t, results)
	names := make(map[string]bool, len(results))
	for _, res := range results {
		names[res.Name] = true
	}
	for _, want := range []string{
		"access/positional", "access/by_name",
		"append/row", "append/concat",
		"encode/raw_sum", "encode/categorical_counts",
		"compress/encode_table", "compress/decode_table",
	} {
		assert.True(t, names[want], "missing result %s", want)
	}
}

func TestRunSelectedScenario(t *testing.T) {
	runner, err := NewRunner(testConfig(), testutil.TestLogger(t))
	require.NoError(t, err)

	require.NoError(t, runner.Run([]string{ScenarioAccess}))
	for _, res := range runner.Results() {
		assert.Contains(t, res.Name, "access/")
	}
}

func TestRunUnknownScenario(t *testing.T) {
	runner, err := NewRunner(testConfig(), testutil.TestLogger(t))
	require.NoError(t, err)
	assert.Error(t, runner.Run([]string{"nope"}))
}

func TestRunnerRejectsBadConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Rows = 0
	_, err := NewRunner(cfg, testutil.TestLogger(t))
	assert.Error(t, err)
}

func TestReportAndMetrics(t *testing.T) {
	runner, err := NewRunner(testConfig(), testutil.TestLogger(t))
	require.NoError(t, err)
	require.NoError(t, runner.Run([]string{ScenarioEncode}))

	var report bytes.Buffer
	require.NoError(t, runner.Report(&report))
	assert.Contains(t, report.String(), "encode/raw_sum")

	var metrics bytes.Buffer
	require.NoError(t, runner.DumpMetrics(&metrics))
	assert.Contains(t, metrics.String(), "tabular_bench_iterations_total")
}
