// Package metrics records sync runs as Prometheus metrics. The CLI runs
// as a batch job, so metrics are kept in a private registry and written to a
// text file for the node exporter's textfile collector rather than served.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/agentstation/ansync/pkg/ans"
	"github.com/agentstation/ansync/pkg/errors"
)

const namespace = "ansync"

// Metrics holds the sync collectors and the registry they are registered on.
type Metrics struct {
	registry *prometheus.Registry

	runs     *prometheus.CounterVec
	duration *prometheus.HistogramVec
	batches  *prometheus.CounterVec
	pending  *prometheus.GaugeVec
	entries  *prometheus.GaugeVec
	lastRun  *prometheus.GaugeVec
}

// New creates the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "sync",
				Name:      "runs_total",
				Help:      "Sync runs by outcome.",
			},
			[]string{"chain", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "sync",
				Name:      "duration_seconds",
				Help:      "Sync run duration in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"chain"},
		),
		batches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "sync",
				Name:      "batches_applied_total",
				Help:      "Execute messages accepted by the registry.",
			},
			[]string{"chain"},
		),
		pending: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "plan",
				Name:      "changes",
				Help:      "Changes found by the last plan, by section and kind.",
			},
			[]string{"chain", "section", "kind"},
		),
		entries: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "registry",
				Name:      "entries",
				Help:      "Entries in the registry when last read, by section.",
			},
			[]string{"chain", "section"},
		),
		lastRun: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "sync",
				Name:      "last_run_timestamp_seconds",
				Help:      "Unix time of the last finished sync run.",
			},
			[]string{"chain"},
		),
	}
	m.registry.MustRegister(m.runs, m.duration, m.batches, m.pending, m.entries, m.lastRun)
	return m
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordPlan records the size of the current registry and of the diff.
func (m *Metrics) RecordPlan(chainID string, diff *ans.DataDiff, current *ans.Data) {
	for _, s := range diff.Summary() {
		section := s.Section.String()
		m.pending.WithLabelValues(chainID, section, "added").Set(float64(s.Added))
		m.pending.WithLabelValues(chainID, section, "updated").Set(float64(s.Updated))
		m.pending.WithLabelValues(chainID, section, "removed").Set(float64(s.Removed))
	}
	if current == nil {
		return
	}
	for _, s := range ans.AllSections() {
		m.entries.WithLabelValues(chainID, s.String()).Set(float64(current.Len(s)))
	}
}

// RecordSync records the outcome of one sync run.
func (m *Metrics) RecordSync(chainID string, applied int, took time.Duration, err error) {
	m.runs.WithLabelValues(chainID, result(err)).Inc()
	m.duration.WithLabelValues(chainID).Observe(took.Seconds())
	m.batches.WithLabelValues(chainID).Add(float64(applied))
	m.lastRun.WithLabelValues(chainID).SetToCurrentTime()
}

// WriteFile writes the metrics in the text exposition format. The file is
// replaced atomically.
func (m *Metrics) WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

func result(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.IsCanceled(err), errors.IsTimeout(err):
		return "canceled"
	default:
		return "error"
	}
}
