package ingest

import (
	"slices"
	"strings"
	"testing"
)

func TestIsEntryStart(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line string
		want bool
	}{
		{"2024-01-01 10:00:00.000 [INFO] App - started", true},
		{"1-2 short but long enough", true},
		{"15/01/2024 10:00:00 started", true},
		{"15.01.2024 10:00:00 started", true},
		{"2024-01-01", false},                    // length 10, not > 10
		{"   at Program.Main()", false},          // indented continuation
		{"12345-6789 longer line", false},        // five digits before hyphen
		{"1/01/2024 single digit day", false},    // DD/D needs two digits
		{"ab-cd not a date at all", false},
		{"", false},
		{"             ", false},
		{"2024/01/01 slash after four digits", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			t.Parallel()
			if got := IsEntryStart(tt.line); got != tt.want {
				t.Errorf("IsEntryStart(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestReassemble_MultiLineEntry(t *testing.T) {
	t.Parallel()

	lines := []string{
		"2024-01-01 10:00:00.000 [ERROR] Worker - Unhandled exception",
		"    at Worker.Run()",
		"    at Program.Main()",
		"2024-01-01 10:00:01.000 [INFO] Worker - recovered",
	}

	got := slices.Collect(Reassemble(slices.Values(lines)))
	if len(got) != 2 {
		t.Fatalf("entries = %d, want 2: %q", len(got), got)
	}
	if !strings.Contains(got[0], "at Worker.Run()") || !strings.Contains(got[0], "at Program.Main()") {
		t.Errorf("first entry missing continuation lines: %q", got[0])
	}
	if got[0] != strings.Join(lines[:3], "\n") {
		t.Errorf("first entry = %q", got[0])
	}
	if got[1] != lines[3] {
		t.Errorf("second entry = %q, want %q", got[1], lines[3])
	}
}

func TestReassemble_SingleLineInputUnchanged(t *testing.T) {
	t.Parallel()

	lines := []string{"hello", "world", "", "  indented", "no dates here at all"}
	got := slices.Collect(Reassemble(slices.Values(lines)))
	if !slices.Equal(got, lines) {
		t.Errorf("Reassemble = %q, want %q", got, lines)
	}
}

func TestReassemble_PreambleBeforeFirstEntry(t *testing.T) {
	t.Parallel()

	lines := []string{
		"=== service boot ===",
		"2024-01-01 10:00:00.000 [INFO] App - started",
		"",
		"trailing detail",
	}
	got := slices.Collect(Reassemble(slices.Values(lines)))

	want := []string{
		"=== service boot ===",
		"2024-01-01 10:00:00.000 [INFO] App - started\n\ntrailing detail",
	}
	if !slices.Equal(got, want) {
		t.Errorf("Reassemble = %q, want %q", got, want)
	}
}

func TestReassemble_Empty(t *testing.T) {
	t.Parallel()

	if got := slices.Collect(Reassemble(slices.Values([]string(nil)))); len(got) != 0 {
		t.Errorf("Reassemble(empty) = %q, want none", got)
	}
}

func TestReassemble_EarlyStop(t *testing.T) {
	t.Parallel()

	lines := []string{
		"2024-01-01 10:00:00.000 [INFO] A - one",
		"2024-01-01 10:00:01.000 [INFO] A - two",
		"2024-01-01 10:00:02.000 [INFO] A - three",
	}
	got := Head(Reassemble(slices.Values(lines)), 2)
	if len(got) != 2 || got[1] != lines[1] {
		t.Errorf("Head = %q", got)
	}
	if Head(Reassemble(slices.Values(lines)), 0) != nil {
		t.Error("Head(0) should be nil")
	}
}

func TestReassembler_Feed(t *testing.T) {
	t.Parallel()

	var r Reassembler

	if entry, ok := r.Feed("loose line"); !ok || entry != "loose line" {
		t.Fatalf("Feed(loose) = %q, %v", entry, ok)
	}
	if _, ok := r.Feed("2024-01-01 10:00:00.000 [INFO] A - one"); ok {
		t.Fatal("first start line should not complete an entry")
	}
	if _, ok := r.Feed("continuation"); ok {
		t.Fatal("continuation should be buffered")
	}
	entry, ok := r.Feed("2024-01-01 10:00:01.000 [INFO] A - two")
	if !ok || entry != "2024-01-01 10:00:00.000 [INFO] A - one\ncontinuation" {
		t.Fatalf("Feed(start) = %q, %v", entry, ok)
	}
	entry, ok = r.Flush()
	if !ok || entry != "2024-01-01 10:00:01.000 [INFO] A - two" {
		t.Fatalf("Flush = %q, %v", entry, ok)
	}
	if _, ok := r.Flush(); ok {
		t.Error("second Flush should be empty")
	}
}
