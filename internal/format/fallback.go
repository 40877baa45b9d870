package format

import (
	"strings"
	"time"

	"github.com/tinytelemetry/logsift/internal/logparse"
	"github.com/tinytelemetry/logsift/internal/model"
	"github.com/tinytelemetry/logsift/internal/timestamp"
)

// FallbackParser accepts any non-blank entry. It searches the whole entry
// for the first ISO-like timestamp and the first severity keyword.
type FallbackParser struct {
	timestamps *timestamp.Parser
	now        func() time.Time
}

// NewFallbackParser creates the best-effort parser.
func NewFallbackParser(opts ...Option) *FallbackParser {
	c := newConfig(opts)
	return &FallbackParser{
		timestamps: timestamp.NewParser(timestamp.WithLocation(c.loc)),
		now:        c.now,
	}
}

// Name returns the parser identifier.
func (p *FallbackParser) Name() string {
	return NameFallback
}

// Description returns a human-readable description.
func (p *FallbackParser) Description() string {
	return "Best-effort timestamp and level search (fallback)"
}

// CanParse always returns true as this is the fallback parser.
func (p *FallbackParser) CanParse(string) bool {
	return true
}

// Parse never fails on non-blank input. Entries without a timestamp are
// stamped with the current time, entries without a keyword default to INFO.
func (p *FallbackParser) Parse(entry string) (model.LogRecord, error) {
	if strings.TrimSpace(entry) == "" {
		return model.LogRecord{}, ErrEmptyEntry
	}
	message := trimEntry(entry)

	ts := p.now()
	if result := p.timestamps.ParseFromText(message); result.Found {
		ts = result.Timestamp
	}
	severity, _ := logparse.ExtractSeverityFromText(message)

	return model.LogRecord{
		Timestamp: ts,
		Severity:  severity,
		Message:   message,
		Parser:    p.Name(),
	}, nil
}
