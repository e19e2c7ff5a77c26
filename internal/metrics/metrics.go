// Package metrics exports execution and advisory telemetry to Prometheus.
package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Execution outcomes used as the "outcome" label.
const (
	OutcomeOK          = "ok"
	OutcomeError       = "error"
	OutcomeUnsupported = "unsupported"
	OutcomeTimeout     = "timeout"
	OutcomeUnavailable = "unavailable"
)

// Observer captures telemetry for the execution and advisory services.
type Observer interface {
	RecordExecution(backend, outcome string, duration time.Duration)
	RecordAdvice(action string, duration time.Duration)
}

// Nop discards everything. Used by the CLI and in tests.
type Nop struct{}

func (Nop) RecordExecution(string, string, time.Duration) {}
func (Nop) RecordAdvice(string, time.Duration)            {}

// PrometheusObserver records service metrics as Prometheus collectors.
type PrometheusObserver struct {
	executionDuration *prometheus.HistogramVec
	executions        *prometheus.CounterVec
	advice            *prometheus.CounterVec
	adviceDuration    *prometheus.HistogramVec
}

var _ Observer = (*PrometheusObserver)(nil)

// NewPrometheusObserver registers the execution and advisory metrics on reg.
// A nil reg means prometheus.DefaultRegisterer.
func NewPrometheusObserver(namespace string, reg prometheus.Registerer) (*PrometheusObserver, error) {
	if namespace == "" {
		namespace = "code_editor"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	o := &PrometheusObserver{
		executionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "execution_duration_seconds",
			Help:      "Wall time of code executions, including sandbox overhead.",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"backend"}),
		executions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "executions_total",
			Help:      "Code executions by backend and outcome.",
		}, []string{"backend", "outcome"}),
		advice: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "advisory_responses_total",
			Help:      "Advisory responses served by action.",
		}, []string{"action"}),
		adviceDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "advisory_duration_seconds",
			Help:      "Time to serve advisory responses, including the nominal delay.",
			Buckets:   []float64{.1, .5, 1, 1.5, 2, 5},
		}, []string{"action"}),
	}

	o.executionDuration = register(reg, o.executionDuration)
	o.executions = register(reg, o.executions)
	o.advice = register(reg, o.advice)
	o.adviceDuration = register(reg, o.adviceDuration)
	if o.executionDuration == nil || o.executions == nil || o.advice == nil || o.adviceDuration == nil {
		return nil, fmt.Errorf("register code editor metrics in namespace %q", namespace)
	}
	return o, nil
}

// register registers c, reusing an identical collector that is already registered.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		var zero C
		return zero
	}
	return c
}

// RecordExecution tracks one execution.
func (o *PrometheusObserver) RecordExecution(backend, outcome string, duration time.Duration) {
	if o == nil {
		return
	}
	o.executions.WithLabelValues(backend, outcome).Inc()
	if outcome != OutcomeUnsupported {
		o.executionDuration.WithLabelValues(backend).Observe(duration.Seconds())
	}
}

// RecordAdvice tracks one advisory response.
func (o *PrometheusObserver) RecordAdvice(action string, duration time.Duration) {
	if o == nil {
		return
	}
	o.advice.WithLabelValues(action).Inc()
	o.adviceDuration.WithLabelValues(action).Observe(duration.Seconds())
}
