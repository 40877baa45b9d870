// Package logsource reads raw log lines from files or streams.
// It is the only place in the pipeline that performs input I/O.
package logsource

import (
	"errors"
	"fmt"
	"iter"
)

// ErrSourceUnreadable marks a missing, inaccessible or unreadable input.
// It is fatal for an analysis run.
var ErrSourceUnreadable = errors.New("log source unreadable")

// LineSource is a single-pass sequence of raw text lines.
type LineSource interface {
	Lines() iter.Seq[string] // consumed at most once
	Err() error              // read failure after Lines is exhausted
	Name() string            // file path or "stdin"
}

// SourceError describes why a source could not be read.
type SourceError struct {
	Source string
	Op     string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Source, e.Err)
}

// Unwrap exposes both ErrSourceUnreadable and the underlying cause.
func (e *SourceError) Unwrap() []error {
	return []error{ErrSourceUnreadable, e.Err}
}
