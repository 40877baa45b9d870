package format

import (
	"errors"
	"regexp"
	"time"

	"github.com/tinytelemetry/logsift/internal/logparse"
	"github.com/tinytelemetry/logsift/internal/model"
)

const structuredLayout = "2006-01-02 15:04:05.000"

// errMillisSeparator is returned for a millisecond separator other than a
// dot. time.Parse would otherwise accept a comma.
var errMillisSeparator = errors.New("millisecond separator must be '.'")

// StructuredParser handles application logs with a millisecond timestamp,
// a bracketed level and a source name.
// Example: 2024-01-15 10:30:45.123 [ERROR] Auth - Login failed for user 42
type StructuredParser struct {
	pattern *regexp.Regexp
	loc     *time.Location
}

// NewStructuredParser creates the structured-timestamp parser.
func NewStructuredParser(opts ...Option) *StructuredParser {
	c := newConfig(opts)
	// The millisecond separator matches any character. Strict parsing of the
	// captured value rejects "10:30:45:123" or an impossible date as malformed.
	pattern := regexp.MustCompile(
		`^(?P<timestamp>\d{4}-\d{2}-\d{2}\s\d{2}:\d{2}:\d{2}.\d{3})\s+` +
			`\[(?P<level>\w+)\]\s+` +
			`(?P<source>\w+)\s+-\s+` +
			`(?s:(?P<message>.*))$`,
	)
	return &StructuredParser{pattern: pattern, loc: c.loc}
}

// Name returns the parser identifier.
func (p *StructuredParser) Name() string {
	return NameStructured
}

// Description returns a human-readable description.
func (p *StructuredParser) Description() string {
	return "Timestamp.mmm [LEVEL] Source - message"
}

// CanParse checks the structural pattern only.
func (p *StructuredParser) CanParse(entry string) bool {
	return p.pattern.MatchString(entry)
}

// Parse extracts fields from a structured entry. The message keeps any
// continuation lines joined during reassembly.
func (p *StructuredParser) Parse(entry string) (model.LogRecord, error) {
	matches := p.pattern.FindStringSubmatch(trimEntry(entry))
	if matches == nil {
		return model.LogRecord{}, ErrNoMatch
	}

	raw := matches[p.pattern.SubexpIndex("timestamp")]
	if raw[19] != '.' {
		return model.LogRecord{}, &TimestampError{Parser: p.Name(), Value: raw, Err: errMillisSeparator}
	}
	// Normalize a tab or other whitespace between date and time.
	value := raw[:10] + " " + raw[11:]
	ts, err := time.ParseInLocation(structuredLayout, value, p.loc)
	if err != nil {
		return model.LogRecord{}, &TimestampError{Parser: p.Name(), Value: raw, Err: err}
	}

	return model.LogRecord{
		Timestamp: ts,
		Severity:  logparse.NormalizeSeverity(matches[p.pattern.SubexpIndex("level")]),
		Source:    matches[p.pattern.SubexpIndex("source")],
		Message:   matches[p.pattern.SubexpIndex("message")],
		Parser:    p.Name(),
	}, nil
}
