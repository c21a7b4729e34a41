package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveStep(t *testing.T) {
	m := New()
	m.ObserveStep(100)
	m.ObserveStep(100)
	m.ObservePopulation(9)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.StepsTotal))
	assert.Equal(t, 200.0, testutil.ToFloat64(m.CellsTotal))
	assert.Equal(t, 9.0, testutil.ToFloat64(m.Population))
}

func TestObserveRun(t *testing.T) {
	m := New()
	m.ObserveRun(OutcomeOK, 2*time.Second)
	m.ObserveRun(OutcomeMismatch, time.Second)
	m.ObserveRun(OutcomeError, 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues(OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues(OutcomeError)))

	path := filepath.Join(t.TempDir(), "runs.prom")
	require.NoError(t, m.WriteFile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "inkverify_run_duration_seconds_count 2", "errored runs are not timed")

	expected := `
# HELP inkverify_runs_total Proof runs by outcome.
# TYPE inkverify_runs_total counter
inkverify_runs_total{outcome="error"} 1
inkverify_runs_total{outcome="mismatch"} 1
inkverify_runs_total{outcome="ok"} 1
`
	require.NoError(t, testutil.GatherAndCompare(m.Gatherer(), strings.NewReader(expected), "inkverify_runs_total"))
}

func TestWriteFile(t *testing.T) {
	m := New()
	m.ObserveStep(4)
	path := filepath.Join(t.TempDir(), "inkverify.prom")
	require.NoError(t, m.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "inkverify_steps_total 1")
}
