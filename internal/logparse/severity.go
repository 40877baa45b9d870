package logparse

import (
	"regexp"
	"strings"

	"github.com/tinytelemetry/logsift/internal/model"
)

// SeverityRegex matches the first standalone severity keyword in log text.
var SeverityRegex = regexp.MustCompile(`(?i)\b(TRACE|DEBUG|INFO|WARN(?:ING)?|ERROR|CRITICAL|FATAL)\b`)

// ParseSeverity maps a severity token onto the ordered enumeration.
// WARN and WARNING are synonyms. The bool is false for unknown tokens.
func ParseSeverity(token string) (model.Severity, bool) {
	switch strings.ToUpper(strings.TrimSpace(token)) {
	case "TRACE":
		return model.SeverityTrace, true
	case "DEBUG":
		return model.SeverityDebug, true
	case "INFO":
		return model.SeverityInfo, true
	case "WARN", "WARNING":
		return model.SeverityWarning, true
	case "ERROR":
		return model.SeverityError, true
	case "CRITICAL":
		return model.SeverityCritical, true
	case "FATAL":
		return model.SeverityFatal, true
	default:
		return model.SeverityInfo, false
	}
}

// NormalizeSeverity is ParseSeverity with unknown tokens defaulting to INFO.
func NormalizeSeverity(token string) model.Severity {
	s, _ := ParseSeverity(token)
	return s
}

// ExtractSeverityFromText returns the severity of the first keyword found in text.
func ExtractSeverityFromText(text string) (model.Severity, bool) {
	matches := SeverityRegex.FindStringSubmatch(text)
	if len(matches) < 2 {
		return model.SeverityInfo, false
	}
	return ParseSeverity(matches[1])
}
