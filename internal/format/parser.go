// Package format implements the built-in log format parsers and the
// detector that picks one of them for a file.
package format

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tinytelemetry/logsift/internal/model"
)

// Common errors returned by parsers.
var (
	ErrNoMatch            = errors.New("entry does not match parser pattern")
	ErrEmptyEntry         = errors.New("empty entry")
	ErrMalformedTimestamp = errors.New("malformed timestamp")
)

// TimestampError reports a timestamp that matched a parser's structure but
// could not be parsed. It matches ErrMalformedTimestamp with errors.Is.
type TimestampError struct {
	Parser string
	Value  string
	Err    error
}

func (e *TimestampError) Error() string {
	return fmt.Sprintf("%s: %v %q: %v", e.Parser, ErrMalformedTimestamp, e.Value, e.Err)
}

func (e *TimestampError) Unwrap() []error {
	return []error{ErrMalformedTimestamp, e.Err}
}

// Parser converts one reassembled entry into a LogRecord.
type Parser interface {
	// Name returns the identifier used for --format and diagnostics.
	Name() string

	// Description returns a human-readable description of the format.
	Description() string

	// CanParse is a quick structural check used during detection.
	CanParse(entry string) bool

	// Parse returns ErrNoMatch when the entry does not have this parser's
	// shape, ErrEmptyEntry for blank input, and a *TimestampError when the
	// shape matched but the captured timestamp is invalid.
	Parse(entry string) (model.LogRecord, error)
}

// Parser names.
const (
	NameStructured = "structured"
	NameAccess     = "access"
	NameFallback   = "fallback"
)

type config struct {
	loc            *time.Location
	now            func() time.Time
	statusSeverity bool
}

// Option configures the built-in parsers.
type Option func(*config)

// WithLocation sets the zone for timestamps that carry no offset. Default UTC.
func WithLocation(loc *time.Location) Option {
	return func(c *config) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// WithClock replaces time.Now for entries that have no timestamp at all.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}
	}
}

// WithStatusSeverity makes the access-log parser derive severity from the
// HTTP status class (5xx ERROR, 4xx WARNING) instead of always INFO.
func WithStatusSeverity() Option {
	return func(c *config) {
		c.statusSeverity = true
	}
}

func newConfig(opts []Option) config {
	c := config{loc: time.UTC, now: time.Now}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// trimEntry removes trailing line breaks left over from reassembly.
func trimEntry(entry string) string {
	return strings.TrimRight(entry, "\r\n")
}
