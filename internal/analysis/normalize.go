package analysis

import (
	"regexp"

	"github.com/tinytelemetry/logsift/internal/model"
)

// Placeholders substituted for volatile message content.
const (
	PlaceholderNumber   = "[NUMBER]"
	PlaceholderGUID     = "[GUID]"
	PlaceholderFilePath = "[FILE_PATH]"

	ellipsis = "..."
)

const guidExpr = `\b[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}\b`

var (
	lineNumberPattern = regexp.MustCompile(`line\s+\d+`)
	// GUIDs are matched first so that digit-only groups inside them survive
	// the number pass and can be masked whole afterwards.
	numberPattern   = regexp.MustCompile(guidExpr + `|\b\d+\b`)
	guidPattern     = regexp.MustCompile(guidExpr)
	filePathPattern = regexp.MustCompile(`[A-Za-z]:\\[^\s,;:"'<>]*`)
)

// maxNormalizePasses bounds the mask-and-truncate loop in Normalize.
const maxNormalizePasses = 8

// Normalize maps a message to its grouping signature by masking line
// numbers, standalone numbers, GUIDs and Windows paths, in that order, and
// truncating to 200 characters. It is idempotent.
//
// Truncation can leave a digit run standing alone before the ellipsis, as in
// "12abc" cut to "12...", so masking and truncation repeat until the
// signature is stable.
func Normalize(message string) string {
	if message == "" {
		return ""
	}
	for range maxNormalizePasses {
		next := normalizeOnce(message)
		if next == message {
			break
		}
		message = next
	}
	return message
}

func normalizeOnce(message string) string {
	message = lineNumberPattern.ReplaceAllLiteralString(message, "line "+PlaceholderNumber)
	message = numberPattern.ReplaceAllStringFunc(message, func(m string) string {
		if guidPattern.MatchString(m) {
			return m
		}
		return PlaceholderNumber
	})
	message = guidPattern.ReplaceAllLiteralString(message, PlaceholderGUID)
	message = filePathPattern.ReplaceAllLiteralString(message, PlaceholderFilePath)

	return truncate(message, model.MaxSignatureLength)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-len(ellipsis)]) + ellipsis
}
