package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestSeverityOrdering(t *testing.T) {
	t.Parallel()

	levels := Severities()
	for i := 1; i < len(levels); i++ {
		if !(levels[i-1] < levels[i]) {
			t.Fatalf("%s should sort before %s", levels[i-1], levels[i])
		}
	}
	if SeverityWarning.IsError() {
		t.Error("WARNING must not count as error")
	}
	for _, s := range []Severity{SeverityError, SeverityCritical, SeverityFatal} {
		if !s.IsError() {
			t.Errorf("%s.IsError() = false, want true", s)
		}
	}
}

func TestSeverityText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  Severity
	}{
		{"trace", SeverityTrace},
		{"DEBUG", SeverityDebug},
		{"Info", SeverityInfo},
		{"WARN", SeverityWarning},
		{"warning", SeverityWarning},
		{"ERROR", SeverityError},
		{"critical", SeverityCritical},
		{"FATAL", SeverityFatal},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var got Severity
			if err := got.UnmarshalText([]byte(tt.input)); err != nil {
				t.Fatalf("UnmarshalText(%q): %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("UnmarshalText(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}

	var s Severity
	if err := s.UnmarshalText([]byte("verbose")); err == nil {
		t.Error("expected error for unknown severity")
	}
}

func TestSeverityJSON(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(LogRecord{Severity: SeverityWarning})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded["severity"] != "WARNING" {
		t.Errorf("severity = %v, want WARNING", decoded["severity"])
	}
}

func TestTruncateToHour(t *testing.T) {
	t.Parallel()

	day := func(h, m, s int) time.Time { return time.Date(2024, 1, 1, h, m, s, 0, time.UTC) }

	a := TruncateToHour(day(10, 14, 59))
	b := TruncateToHour(day(10, 0, 1))
	c := TruncateToHour(day(9, 59, 59))

	if !a.Equal(b) {
		t.Errorf("10:14:59 and 10:00:01 in different buckets: %v vs %v", a, b)
	}
	if !c.Before(a) {
		t.Errorf("09:59:59 bucket %v should be before %v", c, a)
	}
	if !a.Equal(day(10, 0, 0)) {
		t.Errorf("bucket = %v, want 10:00:00", a)
	}
}

func TestTruncateToHour_KeepsLocation(t *testing.T) {
	t.Parallel()

	// UTC+05:30 would be truncated to :30 by time.Truncate.
	loc := time.FixedZone("IST", 5*3600+1800)
	ts := time.Date(2024, 1, 1, 10, 45, 0, 0, loc)

	got := TruncateToHour(ts)
	if got.Hour() != 10 || got.Minute() != 0 || got.Location() != loc {
		t.Errorf("TruncateToHour = %v, want 10:00 in %s", got, loc)
	}
}
