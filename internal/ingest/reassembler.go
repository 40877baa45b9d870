package ingest

import (
	"iter"
	"strings"
)

// minEntryStartLength is the length a line must exceed to open an entry.
const minEntryStartLength = 10

// IsEntryStart reports whether line opens a new logical entry: it must be
// non-blank, longer than 10 bytes and begin with a date-like prefix.
// Accepted prefixes are 1-4 digits followed by "-" and a digit (ISO dates),
// or two digits followed by "/" or "." and a digit (dd/mm, dd.mm).
func IsEntryStart(line string) bool {
	if len(line) <= minEntryStartLength || strings.TrimSpace(line) == "" {
		return false
	}
	return hasISOPrefix(line) || hasSeparatedPrefix(line, '/') || hasSeparatedPrefix(line, '.')
}

func hasISOPrefix(line string) bool {
	digits := 0
	for digits < 4 && isDigit(line[digits]) {
		digits++
	}
	return digits > 0 && line[digits] == '-' && isDigit(line[digits+1])
}

func hasSeparatedPrefix(line string, sep byte) bool {
	return isDigit(line[0]) && isDigit(line[1]) && line[2] == sep && isDigit(line[3])
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// Reassembler joins physical lines into logical entries. A zero Reassembler
// is ready to use. It is not safe for concurrent use.
type Reassembler struct {
	buf     strings.Builder
	inEntry bool
}

// Feed consumes one line and returns the entry it completed, if any.
//
// A start line flushes the buffered entry and begins a new one. Other lines
// are appended to the open entry; before the first start line they are
// returned unchanged as entries of their own.
func (r *Reassembler) Feed(line string) (string, bool) {
	if IsEntryStart(line) {
		completed, ok := r.Flush()
		r.buf.WriteString(line)
		r.inEntry = true
		return completed, ok
	}

	if r.inEntry {
		r.buf.WriteByte('\n')
		r.buf.WriteString(line)
		return "", false
	}

	return line, true
}

// Flush returns the buffered entry and resets the buffer. The in-entry state
// is kept so that later continuation lines are still appended.
func (r *Reassembler) Flush() (string, bool) {
	if r.buf.Len() == 0 {
		return "", false
	}
	entry := r.buf.String()
	r.buf.Reset()
	return entry, true
}

// Reassemble lazily converts a line sequence into an entry sequence. Each
// iteration uses a fresh Reassembler and consumes lines once.
func Reassemble(lines iter.Seq[string]) iter.Seq[string] {
	return func(yield func(string) bool) {
		var r Reassembler
		for line := range lines {
			if entry, ok := r.Feed(line); ok {
				if !yield(entry) {
					return
				}
			}
		}
		if entry, ok := r.Flush(); ok {
			yield(entry)
		}
	}
}

// Head returns at most n entries from seq, stopping the sequence early.
func Head(seq iter.Seq[string], n int) []string {
	if n <= 0 {
		return nil
	}
	out := make([]string, 0, n)
	for entry := range seq {
		out = append(out, entry)
		if len(out) == n {
			break
		}
	}
	return out
}
