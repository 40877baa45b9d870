package ingest

import "github.com/tinytelemetry/logsift/internal/model"

// Reasons reported for entries that did not produce a record.
const (
	DropReasonEmpty              = "empty"
	DropReasonNoMatch            = "no_match"
	DropReasonMalformedTimestamp = "malformed_timestamp"
	DropReasonParseError         = "parse_error"
)

// RecordSink receives every record accepted by a Processor.
type RecordSink interface {
	Add(record model.LogRecord)
}

// Observer is notified of per-entry outcomes, e.g. to update metrics.
type Observer interface {
	EntryParsed(parser string)
	EntryDropped(parser, reason string)
}

// RecordCollector is an in-memory RecordSink.
type RecordCollector struct {
	records []model.LogRecord
}

// Add appends a record.
func (c *RecordCollector) Add(record model.LogRecord) {
	c.records = append(c.records, record)
}

// Records returns the collected records in arrival order.
func (c *RecordCollector) Records() []model.LogRecord {
	return c.records
}
