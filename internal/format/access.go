package format

import (
	"regexp"
	"strconv"
	"time"

	"github.com/tinytelemetry/logsift/internal/model"
)

var accessLayouts = []string{
	"02/Jan/2006:15:04:05 -0700",
	"02/Jan/2006:15:04:05",
}

// AccessLogParser handles the Apache/Nginx combined log format.
// Example: 192.168.1.1 - frank [10/Oct/2000:13:55:36 -0700] "GET /a.gif HTTP/1.0" 200 2326 "http://ref/" "Mozilla/5.0"
//
// Access logs carry no severity. Every record is INFO unless status-based
// severity is enabled, in which case the mapping is still only a guess.
type AccessLogParser struct {
	pattern        *regexp.Regexp
	loc            *time.Location
	statusSeverity bool
}

// NewAccessLogParser creates the access-log parser.
func NewAccessLogParser(opts ...Option) *AccessLogParser {
	c := newConfig(opts)
	pattern := regexp.MustCompile(
		`^(?P<host>\S+)\s+` + // Client address
			`(?P<ident>\S+)\s+` + // Ident (usually -)
			`(?P<user>\S+)\s+` + // User (usually -)
			`\[(?P<timestamp>[^\]]+)\]\s+` + // Timestamp in brackets
			`"(?P<request>[^"]*)"\s+` + // Request line
			`(?P<status>\d{3})\s+` + // Status code
			`(?P<size>\d+|-)\s+` + // Response size (or -)
			`"(?P<referrer>[^"]*)"` + // Referrer
			`(?:\s+"(?P<useragent>[^"]*)")?`, // Optional user agent
	)
	return &AccessLogParser{pattern: pattern, loc: c.loc, statusSeverity: c.statusSeverity}
}

// Name returns the parser identifier.
func (p *AccessLogParser) Name() string {
	return NameAccess
}

// Description returns a human-readable description.
func (p *AccessLogParser) Description() string {
	return "Apache/Nginx combined access log"
}

// CanParse checks if the entry matches the combined log shape.
func (p *AccessLogParser) CanParse(entry string) bool {
	return p.pattern.MatchString(entry)
}

// Parse extracts fields from an access-log entry.
func (p *AccessLogParser) Parse(entry string) (model.LogRecord, error) {
	matches := p.pattern.FindStringSubmatch(trimEntry(entry))
	if matches == nil {
		return model.LogRecord{}, ErrNoMatch
	}

	group := func(name string) string {
		return matches[p.pattern.SubexpIndex(name)]
	}

	raw := group("timestamp")
	ts, err := p.parseTimestamp(raw)
	if err != nil {
		return model.LogRecord{}, &TimestampError{Parser: p.Name(), Value: raw, Err: err}
	}

	status := group("status")
	props := map[string]string{"status": status}
	for key, name := range map[string]string{
		"ident":      "ident",
		"user":       "user",
		"size":       "size",
		"referrer":   "referrer",
		"user_agent": "useragent",
	} {
		if v := group(name); v != "" && v != "-" {
			props[key] = v
		}
	}

	return model.LogRecord{
		Timestamp:  ts,
		Severity:   p.severity(status),
		Message:    group("request"),
		Source:     group("host"),
		Properties: props,
		Parser:     p.Name(),
	}, nil
}

func (p *AccessLogParser) parseTimestamp(value string) (time.Time, error) {
	ts, err := time.Parse(accessLayouts[0], value)
	if err == nil {
		return ts, nil
	}
	if ts, zerr := time.ParseInLocation(accessLayouts[1], value, p.loc); zerr == nil {
		return ts, nil
	}
	return time.Time{}, err
}

func (p *AccessLogParser) severity(status string) model.Severity {
	if !p.statusSeverity {
		return model.SeverityInfo
	}
	code, err := strconv.Atoi(status)
	if err != nil {
		return model.SeverityInfo
	}
	switch {
	case code >= 500:
		return model.SeverityError
	case code >= 400:
		return model.SeverityWarning
	default:
		return model.SeverityInfo
	}
}
