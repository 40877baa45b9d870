// Package metrics exposes Prometheus instrumentation for analysis runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "logsift"

// PipelineMetrics holds all Prometheus metrics for the analysis pipeline.
// It satisfies pipeline.Observer.
type PipelineMetrics struct {
	LinesTotal       *prometheus.CounterVec
	EntriesTotal     *prometheus.CounterVec
	DroppedTotal     *prometheus.CounterVec
	ParserSelections *prometheus.CounterVec
	RunsTotal        prometheus.Counter
	AnalysisDuration prometheus.Histogram
}

// NewPipelineMetrics creates the metrics and registers them with reg.
// A nil reg registers with the default registry.
func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &PipelineMetrics{
		LinesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "source",
			Name:      "lines_total",
			Help:      "Total number of physical lines read, by source.",
		}, []string{"source"}),
		EntriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "entries_total",
			Help:      "Total number of logical entries by parser and outcome.",
		}, []string{"parser", "outcome"}), // outcome: parsed, dropped
		DroppedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "dropped_total",
			Help:      "Total number of dropped entries by parser and reason.",
		}, []string{"parser", "reason"}), // reason: empty, no_match, malformed_timestamp, parse_error
		ParserSelections: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "format",
			Name:      "parser_selections_total",
			Help:      "Number of runs that used each parser.",
		}, []string{"parser"}),
		RunsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "runs_total",
			Help:      "Total number of completed analysis runs.",
		}),
		AnalysisDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "duration_seconds",
			Help:      "Time spent aggregating records into a result.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		}),
	}
}

// LinesRead adds n lines read from source.
func (m *PipelineMetrics) LinesRead(source string, n int) {
	m.LinesTotal.WithLabelValues(source).Add(float64(n))
}

// ParserSelected records the parser chosen for a run.
func (m *PipelineMetrics) ParserSelected(parser string) {
	m.ParserSelections.WithLabelValues(parser).Inc()
}

// EntryParsed counts an entry that produced a record.
func (m *PipelineMetrics) EntryParsed(parser string) {
	m.EntriesTotal.WithLabelValues(parser, "parsed").Inc()
}

// EntryDropped counts an entry that did not produce a record.
func (m *PipelineMetrics) EntryDropped(parser, reason string) {
	m.EntriesTotal.WithLabelValues(parser, "dropped").Inc()
	m.DroppedTotal.WithLabelValues(parser, reason).Inc()
}

// AnalysisCompleted records a finished run.
func (m *PipelineMetrics) AnalysisCompleted(d time.Duration) {
	m.RunsTotal.Inc()
	m.AnalysisDuration.Observe(d.Seconds())
}
