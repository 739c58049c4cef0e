// Package metrics records bootstrap run metrics in a Prometheus registry.
//
// genesis is a one-shot CLI, so nothing is served over HTTP. When a metrics
// file is configured the registry is written in the text exposition format at
// the end of the run, ready for node_exporter's textfile collector.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "genesis"

// Recorder owns a private registry and the collectors registered on it.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	phaseDuration *prometheus.HistogramVec
	phaseTotal    *prometheus.CounterVec
	probeAttempts *prometheus.CounterVec
	runTotal      *prometheus.CounterVec
	lastRun       prometheus.Gauge
}

// NewRecorder creates a Recorder with all collectors registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		phaseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "phase",
				Name:      "duration_seconds",
				Help:      "Duration of bootstrap phases in seconds",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 10), // 1s to ~8.5min
			},
			[]string{"phase"},
		),
		phaseTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "phase",
				Name:      "total",
				Help:      "Total number of bootstrap phases by result",
			},
			[]string{"phase", "result"},
		),
		probeAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "probe",
				Name:      "attempts_total",
				Help:      "SSH reachability probe attempts by result",
			},
			[]string{"result"},
		),
		runTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "run",
				Name:      "total",
				Help:      "Bootstrap runs by result",
			},
			[]string{"result"},
		),
		lastRun: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "run",
				Name:      "last_completion_timestamp_seconds",
				Help:      "Unix time at which the last bootstrap run finished",
			},
		),
	}

	r.registry.MustRegister(r.phaseDuration, r.phaseTotal, r.probeAttempts, r.runTotal, r.lastRun)
	return r
}

// Registry exposes the underlying registry, mainly for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ObservePhase records the duration and outcome of a phase.
func (r *Recorder) ObservePhase(phase string, d time.Duration, err error) {
	if r == nil {
		return
	}
	r.phaseDuration.WithLabelValues(phase).Observe(d.Seconds())
	r.phaseTotal.WithLabelValues(phase, result(err)).Inc()
}

// ProbeAttempt records a single reachability probe attempt.
func (r *Recorder) ProbeAttempt(err error) {
	if r == nil {
		return
	}
	r.probeAttempts.WithLabelValues(result(err)).Inc()
}

// RunCompleted records the outcome of a whole run.
func (r *Recorder) RunCompleted(err error) {
	if r == nil {
		return
	}
	r.runTotal.WithLabelValues(result(err)).Inc()
	r.lastRun.SetToCurrentTime()
}

// WriteFile writes the registry to path in the text exposition format.
func (r *Recorder) WriteFile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}

func result(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
