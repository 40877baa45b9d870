package model

import (
	"fmt"
	"strings"
	"time"
)

// Severity is the ordered importance of a log record.
type Severity int

const (
	SeverityTrace Severity = iota
	SeverityDebug
	SeverityInfo
	SeverityWarning
	SeverityError
	SeverityCritical
	SeverityFatal
)

var severityNames = [...]string{
	SeverityTrace:    "TRACE",
	SeverityDebug:    "DEBUG",
	SeverityInfo:     "INFO",
	SeverityWarning:  "WARNING",
	SeverityError:    "ERROR",
	SeverityCritical: "CRITICAL",
	SeverityFatal:    "FATAL",
}

// Severities lists every level in ascending order.
func Severities() []Severity {
	return []Severity{
		SeverityTrace, SeverityDebug, SeverityInfo, SeverityWarning,
		SeverityError, SeverityCritical, SeverityFatal,
	}
}

func (s Severity) String() string {
	if s < SeverityTrace || s > SeverityFatal {
		return fmt.Sprintf("Severity(%d)", int(s))
	}
	return severityNames[s]
}

// IsError reports whether s is ERROR or above.
func (s Severity) IsError() bool {
	return s >= SeverityError
}

// MarshalText encodes the severity by name so JSON and YAML reports stay readable.
func (s Severity) MarshalText() ([]byte, error) {
	if s < SeverityTrace || s > SeverityFatal {
		return nil, fmt.Errorf("invalid severity %d", int(s))
	}
	return []byte(severityNames[s]), nil
}

// UnmarshalText accepts the canonical names plus the WARN alias.
func (s *Severity) UnmarshalText(text []byte) error {
	name := strings.ToUpper(strings.TrimSpace(string(text)))
	if name == "WARN" {
		*s = SeverityWarning
		return nil
	}
	for i, n := range severityNames {
		if n == name {
			*s = Severity(i)
			return nil
		}
	}
	return fmt.Errorf("unknown severity %q", string(text))
}

// LogRecord represents one parsed logical log entry.
// Records are built once by a parser and must not be mutated afterwards,
// including the Properties map.
type LogRecord struct {
	Timestamp  time.Time         `json:"timestamp" yaml:"timestamp"`
	Severity   Severity          `json:"severity" yaml:"severity"`
	Message    string            `json:"message" yaml:"message"`
	Source     string            `json:"source,omitempty" yaml:"source,omitempty"`
	Properties map[string]string `json:"properties,omitempty" yaml:"properties,omitempty"`
	Parser     string            `json:"parser,omitempty" yaml:"parser,omitempty"`
}

// Bucket returns the hour bucket the record falls in.
func (r LogRecord) Bucket() time.Time {
	return TruncateToHour(r.Timestamp)
}

// TruncateToHour drops minutes and below while keeping the timestamp's location.
// time.Truncate is not used because it rounds on absolute time, which is wrong
// for zones with a non-hour UTC offset.
func TruncateToHour(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
}

// ErrorGroup aggregates error records that share a normalized signature.
type ErrorGroup struct {
	Signature       string    `json:"signature" yaml:"signature"`
	Count           int       `json:"count" yaml:"count"`
	FirstOccurrence time.Time `json:"first_occurrence" yaml:"first_occurrence"`
	LastOccurrence  time.Time `json:"last_occurrence" yaml:"last_occurrence"`
}

// BucketCount is the number of records in one hour bucket.
type BucketCount struct {
	Bucket time.Time `json:"bucket" yaml:"bucket"`
	Count  int       `json:"count" yaml:"count"`
}

// SourceCount is the number of error records attributed to one source label.
type SourceCount struct {
	Source string `json:"source" yaml:"source"`
	Count  int    `json:"count" yaml:"count"`
}

// AnalysisResult holds the aggregate statistics of one analysis run.
type AnalysisResult struct {
	TotalEntries int `json:"total_entries" yaml:"total_entries"`
	ErrorCount   int `json:"error_count" yaml:"error_count"`
	WarningCount int `json:"warning_count" yaml:"warning_count"`
	InfoCount    int `json:"info_count" yaml:"info_count"`

	// TopErrors is sorted by Count descending; ties keep first-seen order.
	TopErrors []ErrorGroup `json:"top_errors" yaml:"top_errors"`

	// ErrorsOverTime is sorted by bucket ascending.
	ErrorsOverTime []BucketCount `json:"errors_over_time" yaml:"errors_over_time"`

	// ErrorsBySource counts errors carrying a source, grouped by hour bucket.
	// The grouping key is the bucket, not the source text.
	ErrorsBySource []BucketCount `json:"errors_by_source" yaml:"errors_by_source"`

	// ErrorsBySourceName is only filled when source grouping is enabled.
	ErrorsBySourceName []SourceCount `json:"errors_by_source_name,omitempty" yaml:"errors_by_source_name,omitempty"`
}
