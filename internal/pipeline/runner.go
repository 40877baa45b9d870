// Package pipeline wires the analysis stages together for a single input:
// read lines, reassemble entries, pick a parser, parse, filter and analyze.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/tinytelemetry/logsift/internal/analysis"
	"github.com/tinytelemetry/logsift/internal/format"
	"github.com/tinytelemetry/logsift/internal/ingest"
	"github.com/tinytelemetry/logsift/internal/logsource"
	"github.com/tinytelemetry/logsift/internal/model"
)

// Observer receives run level events in addition to per-entry outcomes.
type Observer interface {
	ingest.Observer
	LinesRead(source string, n int)
	ParserSelected(parser string)
	AnalysisCompleted(d time.Duration)
}

type nopObserver struct{}

func (nopObserver) EntryParsed(string)              {}
func (nopObserver) EntryDropped(string, string)     {}
func (nopObserver) LinesRead(string, int)           {}
func (nopObserver) ParserSelected(string)           {}
func (nopObserver) AnalysisCompleted(time.Duration) {}

// Options control a single analysis run.
type Options struct {
	// Format forces a parser by name. Empty means auto-detect.
	Format string
	// SampleSize is the number of leading entries used for detection.
	SampleSize int
	Filter     analysis.Filter
	BySource   bool
}

// Run is the outcome of one analysis.
type Run struct {
	ID              string               `json:"id" yaml:"id"`
	Source          string               `json:"source" yaml:"source"`
	Parser          string               `json:"parser" yaml:"parser"`
	StartedAt       time.Time            `json:"started_at" yaml:"started_at"`
	Duration        time.Duration        `json:"duration" yaml:"duration"`
	Lines           int                  `json:"lines" yaml:"lines"`
	Entries         int                  `json:"entries" yaml:"entries"`
	Parsed          int                  `json:"parsed" yaml:"parsed"`
	Dropped         int                  `json:"dropped" yaml:"dropped"`
	DroppedByReason map[string]int       `json:"dropped_by_reason,omitempty" yaml:"dropped_by_reason,omitempty"`
	Filtered        int                  `json:"filtered" yaml:"filtered"`
	Result          model.AnalysisResult `json:"result" yaml:"result"`
}

// Runner executes analysis runs. A Runner is safe for concurrent use as long
// as its parsers are, which holds for the built-in ones.
type Runner struct {
	parsers     []format.Parser
	logger      *slog.Logger
	observer    Observer
	maxLineSize int
	now         func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the diagnostics logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithObserver receives pipeline events, e.g. for metrics.
func WithObserver(o Observer) Option {
	return func(r *Runner) {
		if o != nil {
			r.observer = o
		}
	}
}

// WithParsers replaces the candidate parser list. Order is detection priority.
func WithParsers(parsers []format.Parser) Option {
	return func(r *Runner) {
		if len(parsers) > 0 {
			r.parsers = parsers
		}
	}
}

// WithMaxLineSize caps the length of a single input line.
func WithMaxLineSize(n int) Option {
	return func(r *Runner) {
		r.maxLineSize = n
	}
}

// NewRunner creates a runner using the default parsers unless overridden.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		parsers:  format.DefaultParsers(),
		logger:   slog.New(slog.DiscardHandler),
		observer: nopObserver{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Parsers returns the candidate parsers in priority order.
func (r *Runner) Parsers() []format.Parser {
	return slices.Clone(r.parsers)
}

// AnalyzeFile runs the pipeline over the file at path. Failure to open or read
// the file is returned as an error wrapping logsource.ErrSourceUnreadable.
func (r *Runner) AnalyzeFile(ctx context.Context, path string, opts Options) (*Run, error) {
	src, err := logsource.Open(path, r.sourceConfig())
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return r.analyze(ctx, src, opts)
}

// AnalyzeReader runs the pipeline over rd, labelled name in logs and reports.
func (r *Runner) AnalyzeReader(ctx context.Context, rd io.Reader, name string, opts Options) (*Run, error) {
	return r.analyze(ctx, logsource.NewReaderSource(rd, name, r.sourceConfig()), opts)
}

func (r *Runner) sourceConfig() logsource.Config {
	return logsource.Config{MaxLineSize: r.maxLineSize, Logger: r.logger}
}

func (r *Runner) analyze(ctx context.Context, src *logsource.ReaderSource, opts Options) (*Run, error) {
	run := &Run{
		ID:        uuid.NewString(),
		Source:    src.Name(),
		StartedAt: r.now(),
	}
	logger := r.logger.With("run_id", run.ID, "source", run.Source)

	entries := slices.Collect(ingest.Reassemble(src.Lines()))
	run.Lines = src.LineCount()
	r.observer.LinesRead(run.Source, run.Lines)
	if err := src.Err(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parser, err := r.selectParser(entries, opts)
	if err != nil {
		return nil, err
	}
	run.Parser = parser.Name()
	r.observer.ParserSelected(run.Parser)
	logger.Info("using parser", "parser", run.Parser, "forced", opts.Format != "")

	var sink ingest.RecordCollector
	proc := ingest.NewProcessor(parser, &sink,
		ingest.WithLogger(logger),
		ingest.WithObserver(r.observer),
	)
	for i, entry := range entries {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		proc.ProcessEntry(entry)
	}

	stats := proc.Stats()
	run.Entries = stats.Entries
	run.Parsed = stats.Parsed
	run.Dropped = stats.Dropped
	run.DroppedByReason = stats.DroppedByReason

	records := sink.Records()
	if !opts.Filter.IsZero() {
		kept := opts.Filter.Apply(records)
		run.Filtered = len(records) - len(kept)
		records = kept
	}

	var engineOpts []analysis.Option
	if opts.BySource {
		engineOpts = append(engineOpts, analysis.WithSourceGrouping())
	}
	started := time.Now()
	run.Result = analysis.NewEngine(engineOpts...).Analyze(records)
	r.observer.AnalysisCompleted(time.Since(started))

	run.Duration = r.now().Sub(run.StartedAt)
	logger.Info("analysis complete",
		"lines", run.Lines,
		"entries", run.Entries,
		"parsed", run.Parsed,
		"dropped", run.Dropped,
		"filtered", run.Filtered,
		"errors", run.Result.ErrorCount,
		"duration", run.Duration,
	)
	return run, nil
}

func (r *Runner) selectParser(entries []string, opts Options) (format.Parser, error) {
	if opts.Format != "" {
		p, err := format.Lookup(opts.Format, r.parsers)
		if err != nil {
			return nil, fmt.Errorf("selecting parser: %w", err)
		}
		return p, nil
	}
	n := opts.SampleSize
	if n <= 0 {
		n = model.DefaultSampleSize
	}
	return format.Detect(entries[:min(n, len(entries))], r.parsers), nil
}
