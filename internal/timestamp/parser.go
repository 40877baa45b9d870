// Package timestamp finds and parses ISO-like timestamps embedded in log text.
package timestamp

import (
	"regexp"
	"strings"
	"time"
)

// isoPattern matches the first ISO-like date-time in free text, with an optional zone.
var isoPattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}[T\s]\d{2}:\d{2}:\d{2}(?:\.\d+)?(?:Z|[+-]\d{2}:?\d{2})?`)

// Layouts tried in order. The fractional second is accepted by time.Parse
// even though the layouts do not spell it out.
var zonedLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05-0700",
}

const localLayout = "2006-01-02T15:04:05"

// Result describes the outcome of ParseFromText.
type Result struct {
	Timestamp time.Time
	Found     bool
	// Match is the substring the timestamp was parsed from.
	Match string
	// Remaining is the text with the matched timestamp removed and trimmed.
	Remaining string
}

// Parser extracts timestamps from log text.
type Parser struct {
	loc *time.Location
}

// Option configures a Parser.
type Option func(*Parser)

// WithLocation sets the zone used for timestamps that carry no offset.
func WithLocation(loc *time.Location) Option {
	return func(p *Parser) {
		if loc != nil {
			p.loc = loc
		}
	}
}

// NewParser creates a Parser that interprets zone-less timestamps as UTC by default.
func NewParser(opts ...Option) *Parser {
	p := &Parser{loc: time.UTC}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Location returns the zone used for timestamps without an offset.
func (p *Parser) Location() *time.Location {
	return p.loc
}

// ParseFromText locates the first ISO-like timestamp anywhere in text.
func (p *Parser) ParseFromText(text string) Result {
	loc := isoPattern.FindStringIndex(text)
	if loc == nil {
		return Result{Remaining: text}
	}

	match := text[loc[0]:loc[1]]
	ts, ok := p.ParseTimestamp(match)
	if !ok {
		return Result{Remaining: text}
	}

	return Result{
		Timestamp: ts,
		Found:     true,
		Match:     match,
		Remaining: strings.TrimSpace(text[:loc[0]] + text[loc[1]:]),
	}
}

// ParseTimestamp parses a standalone ISO-like timestamp. Date and time may be
// separated by 'T' or whitespace.
func (p *Parser) ParseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if len(value) < len("2006-01-02 15:04:05") {
		return time.Time{}, false
	}
	if value[10] != 'T' {
		value = value[:10] + "T" + value[11:]
	}

	for _, layout := range zonedLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, true
		}
	}
	if ts, err := time.ParseInLocation(localLayout, value, p.loc); err == nil {
		return ts, true
	}
	return time.Time{}, false
}
