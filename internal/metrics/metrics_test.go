package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusObserver(t *testing.T) {
	reg := prometheus.NewRegistry()
	o, err := NewPrometheusObserver("test", reg)
	require.NoError(t, err)

	o.RecordExecution("local", OutcomeOK, 20*time.Millisecond)
	o.RecordExecution("local", OutcomeOK, 30*time.Millisecond)
	o.RecordExecution("local", OutcomeUnsupported, 0)
	o.RecordAdvice("explain", time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(o.executions.WithLabelValues("local", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(o.executions.WithLabelValues("local", OutcomeUnsupported)))
	assert.Equal(t, 1.0, testutil.ToFloat64(o.advice.WithLabelValues("explain")))
	// unsupported languages never reach a backend, so they don't count towards latency
	assert.Equal(t, 1, testutil.CollectAndCount(o.executionDuration))
	assert.Equal(t, 1, testutil.CollectAndCount(o.adviceDuration))
}

func TestPrometheusObserver_AdviceDuration(t *testing.T) {
	reg := prometheus.NewRegistry()
	o, err := NewPrometheusObserver("test", reg)
	require.NoError(t, err)

	o.RecordAdvice("suggest", 1200*time.Millisecond)
	o.RecordAdvice("suggest", 800*time.Millisecond)

	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != "test_advisory_duration_seconds" {
			continue
		}
		h := mf.GetMetric()[0].GetHistogram()
		assert.Equal(t, uint64(2), h.GetSampleCount())
		assert.InDelta(t, 2.0, h.GetSampleSum(), 1e-9)
		return
	}
	t.Fatal("advisory duration histogram not registered")
}

func TestNewPrometheusObserver_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewPrometheusObserver("test", reg)
	require.NoError(t, err)
	second, err := NewPrometheusObserver("test", reg)
	require.NoError(t, err)

	first.RecordAdvice("suggest", 0)
	second.RecordAdvice("suggest", 0)
	assert.Equal(t, 2.0, testutil.ToFloat64(second.advice.WithLabelValues("suggest")))
}

func TestNilObserverIsSafe(t *testing.T) {
	var o *PrometheusObserver
	assert.NotPanics(t, func() {
		o.RecordExecution("docker", OutcomeError, time.Second)
		o.RecordAdvice("refactor", time.Second)
	})
}
