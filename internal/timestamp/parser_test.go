package timestamp

import (
	"testing"
	"time"
)

func TestParseFromText_ISO8601(t *testing.T) {
	p := NewParser()

	tests := []struct {
		name  string
		input string
	}{
		{"RFC3339", "2024-01-15T10:30:45Z some log message"},
		{"RFC3339Nano", "2024-01-15T10:30:45.123456789Z some log message"},
		{"RFC3339 offset", "2024-01-15T10:30:45+05:00 some message"},
		{"compact offset", "2024-01-15T10:30:45+0500 some message"},
		{"space separated", "2024-01-15 10:30:45 some log message"},
		{"millis", "2024-01-15 10:30:45.123 some log message"},
		{"micros", "2024-01-15 10:30:45.123456 some log message"},
		{"embedded", "[worker-3] at 2024-01-15T10:30:45 the job failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := p.ParseFromText(tt.input)
			if !result.Found {
				t.Errorf("ParseFromText(%q) did not find timestamp", tt.input)
			}
			if result.Timestamp.IsZero() {
				t.Errorf("ParseFromText(%q) returned zero timestamp", tt.input)
			}
		})
	}
}

func TestParseFromText_Values(t *testing.T) {
	p := NewParser()

	result := p.ParseFromText("boot 2024-01-15 10:30:45.250 ok")
	want := time.Date(2024, 1, 15, 10, 30, 45, 250_000_000, time.UTC)
	if !result.Timestamp.Equal(want) {
		t.Errorf("timestamp = %v, want %v", result.Timestamp, want)
	}
	if result.Match != "2024-01-15 10:30:45.250" {
		t.Errorf("match = %q", result.Match)
	}
	if result.Remaining != "boot  ok" {
		t.Errorf("remaining = %q, want %q", result.Remaining, "boot  ok")
	}

	zoned := p.ParseFromText("2024-01-15T10:30:45+02:00")
	if got := zoned.Timestamp.UTC().Hour(); got != 8 {
		t.Errorf("zoned UTC hour = %d, want 8", got)
	}
}

func TestParseFromText_FirstMatchWins(t *testing.T) {
	p := NewParser()

	result := p.ParseFromText("retry 2024-01-15 10:00:00 after 2024-01-15 11:00:00")
	if result.Timestamp.Hour() != 10 {
		t.Errorf("hour = %d, want 10 (first timestamp)", result.Timestamp.Hour())
	}
}

func TestParseFromText_NoTimestamp(t *testing.T) {
	p := NewParser()

	result := p.ParseFromText("just a regular log message")
	if result.Found {
		t.Error("should not find timestamp in plain text")
	}
	if result.Remaining != "just a regular log message" {
		t.Errorf("remaining = %q, want original text", result.Remaining)
	}
}

func TestParseFromText_InvalidCalendarDate(t *testing.T) {
	p := NewParser()

	result := p.ParseFromText("2024-13-45 25:61:61 impossible")
	if result.Found {
		t.Errorf("impossible date parsed as %v", result.Timestamp)
	}
}

func TestWithLocation(t *testing.T) {
	loc := time.FixedZone("UTC-3", -3*3600)
	p := NewParser(WithLocation(loc))

	ts, ok := p.ParseTimestamp("2024-01-15 10:30:45")
	if !ok {
		t.Fatal("ParseTimestamp failed")
	}
	if ts.Location() != loc {
		t.Errorf("location = %v, want %v", ts.Location(), loc)
	}
	if ts.UTC().Hour() != 13 {
		t.Errorf("UTC hour = %d, want 13", ts.UTC().Hour())
	}
}

func TestParseTimestamp_String(t *testing.T) {
	p := NewParser()

	ts, ok := p.ParseTimestamp("2024-01-15T10:30:45Z")
	if !ok {
		t.Fatal("ParseTimestamp string failed")
	}
	if ts.Year() != 2024 || ts.Month() != time.January || ts.Day() != 15 {
		t.Errorf("ParseTimestamp date = %v, want 2024-01-15", ts)
	}
}

func TestParseTimestamp_EmptyString(t *testing.T) {
	p := NewParser()

	_, ok := p.ParseTimestamp("")
	if ok {
		t.Error("ParseTimestamp empty string should return false")
	}
}
