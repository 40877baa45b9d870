package analysis

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/tinytelemetry/logsift/internal/logparse"
	"github.com/tinytelemetry/logsift/internal/model"
)

var filterDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Filter narrows records before analysis. Zero values disable a condition.
type Filter struct {
	MinSeverity    model.Severity
	HasMinSeverity bool
	Pattern        *regexp.Regexp
	Start          time.Time
	End            time.Time
}

// IsZero reports whether the filter keeps every record.
func (f Filter) IsZero() bool {
	return !f.HasMinSeverity && f.Pattern == nil && f.Start.IsZero() && f.End.IsZero()
}

// Match reports whether r passes every configured condition.
// Start and End bounds are inclusive.
func (f Filter) Match(r model.LogRecord) bool {
	if f.HasMinSeverity && r.Severity < f.MinSeverity {
		return false
	}
	if f.Pattern != nil && !f.Pattern.MatchString(r.Message) {
		return false
	}
	if !f.Start.IsZero() && r.Timestamp.Before(f.Start) {
		return false
	}
	if !f.End.IsZero() && r.Timestamp.After(f.End) {
		return false
	}
	return true
}

// Apply returns the records that match, in input order, as a new slice.
func (f Filter) Apply(records []model.LogRecord) []model.LogRecord {
	out := make([]model.LogRecord, 0, len(records))
	for _, r := range records {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// ParseFilter builds a Filter from user supplied strings. Empty strings leave
// the matching condition disabled. Zone-less dates are read in loc; a nil loc
// means UTC.
func ParseFilter(level, pattern, start, end string, loc *time.Location) (Filter, error) {
	var f Filter
	if loc == nil {
		loc = time.UTC
	}

	if level = strings.TrimSpace(level); level != "" {
		sev, ok := logparse.ParseSeverity(level)
		if !ok {
			return Filter{}, fmt.Errorf("unknown severity level %q", level)
		}
		f.MinSeverity = sev
		f.HasMinSeverity = true
	}

	if pattern != "" {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return Filter{}, fmt.Errorf("invalid pattern: %w", err)
		}
		f.Pattern = re
	}

	var err error
	if f.Start, err = parseFilterDate(start, loc); err != nil {
		return Filter{}, fmt.Errorf("invalid start date: %w", err)
	}
	if f.End, err = parseFilterDate(end, loc); err != nil {
		return Filter{}, fmt.Errorf("invalid end date: %w", err)
	}
	if !f.Start.IsZero() && !f.End.IsZero() && f.End.Before(f.Start) {
		return Filter{}, fmt.Errorf("end date %s is before start date %s", end, start)
	}
	return f, nil
}

func parseFilterDate(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	for _, layout := range filterDateLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}
