package logsource

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestReaderSource_Lines(t *testing.T) {
	t.Parallel()

	src := NewReaderSource(strings.NewReader("first\r\n\nthird\n"), "mem")
	got := slices.Collect(src.Lines())

	want := []string{"first", "", "third"}
	if !slices.Equal(got, want) {
		t.Fatalf("lines = %q, want %q", got, want)
	}
	if src.LineCount() != 3 {
		t.Errorf("LineCount = %d, want 3", src.LineCount())
	}
	if err := src.Err(); err != nil {
		t.Errorf("Err = %v, want nil", err)
	}
}

func TestReaderSource_SinglePass(t *testing.T) {
	t.Parallel()

	src := NewReaderSource(strings.NewReader("a\nb\n"), "mem")
	if n := len(slices.Collect(src.Lines())); n != 2 {
		t.Fatalf("first pass = %d lines, want 2", n)
	}
	if n := len(slices.Collect(src.Lines())); n != 0 {
		t.Errorf("second pass = %d lines, want 0", n)
	}
}

func TestReaderSource_EarlyStop(t *testing.T) {
	t.Parallel()

	src := NewReaderSource(strings.NewReader("a\nb\nc\n"), "mem")
	for line := range src.Lines() {
		if line == "b" {
			break
		}
	}
	if src.LineCount() != 2 {
		t.Errorf("LineCount = %d, want 2", src.LineCount())
	}
}

func TestReaderSource_LineTooLong(t *testing.T) {
	t.Parallel()

	src := NewReaderSource(strings.NewReader(strings.Repeat("x", 200)+"\n"), "mem", Config{MaxLineSize: 64})
	_ = slices.Collect(src.Lines())

	err := src.Err()
	if !errors.Is(err, ErrSourceUnreadable) {
		t.Fatalf("Err = %v, want ErrSourceUnreadable", err)
	}
}

func TestOpen_Missing(t *testing.T) {
	t.Parallel()

	_, err := Open(filepath.Join(t.TempDir(), "missing.log"))
	if !errors.Is(err, ErrSourceUnreadable) {
		t.Fatalf("Open error = %v, want ErrSourceUnreadable", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Open error = %v, want fs.ErrNotExist in chain", err)
	}
	var srcErr *SourceError
	if !errors.As(err, &srcErr) || srcErr.Op != "open" {
		t.Errorf("error = %#v, want *SourceError with op open", err)
	}
}

func TestOpen_Directory(t *testing.T) {
	t.Parallel()

	_, err := Open(t.TempDir())
	if !errors.Is(err, ErrSourceUnreadable) {
		t.Fatalf("Open(dir) error = %v, want ErrSourceUnreadable", err)
	}
}

func TestOpen_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "app.log")
	if err := os.WriteFile(path, []byte("one\ntwo"), 0o644); err != nil {
		t.Fatal(err)
	}

	src, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer src.Close()

	got := slices.Collect(src.Lines())
	if !slices.Equal(got, []string{"one", "two"}) {
		t.Errorf("lines = %q", got)
	}
	if src.Name() != path {
		t.Errorf("Name = %q, want %q", src.Name(), path)
	}
	if err := src.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
