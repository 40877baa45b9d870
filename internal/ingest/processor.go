package ingest

import (
	"context"
	"errors"
	"iter"
	"log/slog"

	"github.com/tinytelemetry/logsift/internal/format"
	"github.com/tinytelemetry/logsift/internal/model"
)

// Processor parses reassembled entries with one parser and routes accepted
// records to a sink. A failing entry is dropped and counted; it never
// aborts the run.
type Processor struct {
	parser   format.Parser
	sink     RecordSink
	observer Observer
	logger   *slog.Logger
	stats    Stats
}

// Stats summarizes a processing pass.
type Stats struct {
	Entries         int            `json:"entries" yaml:"entries"`
	Parsed          int            `json:"parsed" yaml:"parsed"`
	Dropped         int            `json:"dropped" yaml:"dropped"`
	DroppedByReason map[string]int `json:"dropped_by_reason,omitempty" yaml:"dropped_by_reason,omitempty"`
}

// ProcessResult holds the outcome for one entry.
type ProcessResult struct {
	Record model.LogRecord
	Err    error
	Reason string // empty when the record was accepted
}

// Accepted reports whether the entry produced a record.
func (r ProcessResult) Accepted() bool {
	return r.Err == nil
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithLogger sets the logger used for dropped-entry diagnostics.
func WithLogger(logger *slog.Logger) ProcessorOption {
	return func(p *Processor) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithObserver registers an observer for per-entry outcomes.
func WithObserver(o Observer) ProcessorOption {
	return func(p *Processor) {
		p.observer = o
	}
}

// NewProcessor creates a processor. sink may be nil when only results are needed.
func NewProcessor(parser format.Parser, sink RecordSink, opts ...ProcessorOption) *Processor {
	p := &Processor{
		parser: parser,
		sink:   sink,
		logger: slog.New(slog.DiscardHandler),
		stats:  Stats{DroppedByReason: map[string]int{}},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parser returns the parser in use.
func (p *Processor) Parser() format.Parser {
	return p.parser
}

// ProcessEntry parses one entry.
func (p *Processor) ProcessEntry(entry string) ProcessResult {
	p.stats.Entries++

	record, err := p.parser.Parse(entry)
	if err != nil {
		reason := dropReason(err)
		p.stats.Dropped++
		p.stats.DroppedByReason[reason]++
		if p.observer != nil {
			p.observer.EntryDropped(p.parser.Name(), reason)
		}

		level := slog.LevelDebug
		if reason == DropReasonMalformedTimestamp || reason == DropReasonParseError {
			level = slog.LevelWarn
		}
		p.logger.Log(context.Background(), level, "dropping entry",
			"entry", p.stats.Entries,
			"parser", p.parser.Name(),
			"reason", reason,
			"error", err,
		)
		return ProcessResult{Err: err, Reason: reason}
	}

	p.stats.Parsed++
	if p.observer != nil {
		p.observer.EntryParsed(p.parser.Name())
	}
	if p.sink != nil {
		p.sink.Add(record)
	}
	return ProcessResult{Record: record}
}

// Run processes every entry of seq and returns the accumulated stats.
func (p *Processor) Run(entries iter.Seq[string]) Stats {
	for entry := range entries {
		p.ProcessEntry(entry)
	}
	return p.Stats()
}

// Stats returns a copy of the counters so far.
func (p *Processor) Stats() Stats {
	out := p.stats
	out.DroppedByReason = make(map[string]int, len(p.stats.DroppedByReason))
	for k, v := range p.stats.DroppedByReason {
		out.DroppedByReason[k] = v
	}
	return out
}

func dropReason(err error) string {
	switch {
	case errors.Is(err, format.ErrEmptyEntry):
		return DropReasonEmpty
	case errors.Is(err, format.ErrNoMatch):
		return DropReasonNoMatch
	case errors.Is(err, format.ErrMalformedTimestamp):
		return DropReasonMalformedTimestamp
	default:
		return DropReasonParseError
	}
}
