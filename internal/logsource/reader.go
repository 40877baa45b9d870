package logsource

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"

	"github.com/tinytelemetry/logsift/internal/model"
)

// Config holds tunable parameters for a reader source.
type Config struct {
	MaxLineSize   int
	ProgressEvery int
	Logger        *slog.Logger
}

func (c Config) withDefaults() Config {
	if c.MaxLineSize <= 0 {
		c.MaxLineSize = model.DefaultMaxLineSize
	}
	if c.ProgressEvery <= 0 {
		c.ProgressEvery = model.DefaultProgressEvery
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
	return c
}

// ReaderSource yields lines from an io.Reader.
type ReaderSource struct {
	name     string
	r        io.Reader
	closer   io.Closer
	conf     Config
	count    int
	err      error
	consumed bool
}

// NewReaderSource wraps r. The caller keeps ownership of r.
func NewReaderSource(r io.Reader, name string, conf ...Config) *ReaderSource {
	var c Config
	if len(conf) > 0 {
		c = conf[0]
	}
	return &ReaderSource{name: name, r: r, conf: c.withDefaults()}
}

// Open opens a file for line reading. Failures wrap ErrSourceUnreadable.
func Open(path string, conf ...Config) (*ReaderSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &SourceError{Source: path, Op: "open", Err: err}
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, &SourceError{Source: path, Op: "stat", Err: err}
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, &SourceError{Source: path, Op: "open", Err: errors.New("is a directory")}
	}

	s := NewReaderSource(f, path, conf...)
	s.closer = f
	s.conf.Logger.Debug("processing file", "path", path, "size_kb", info.Size()/1024)
	return s, nil
}

// Lines returns the line sequence. Only the first iteration reads; later
// calls yield nothing. Line terminators (including \r\n) are stripped and
// blank lines are preserved.
func (s *ReaderSource) Lines() iter.Seq[string] {
	return func(yield func(string) bool) {
		if s.consumed {
			return
		}
		s.consumed = true

		scanner := bufio.NewScanner(s.r)
		// The scanner only reports ErrTooLong once its buffer is full, so the
		// initial buffer must not exceed the limit.
		buf := make([]byte, 0, min(64*1024, s.conf.MaxLineSize))
		scanner.Buffer(buf, s.conf.MaxLineSize)

		for scanner.Scan() {
			s.count++
			if s.count%s.conf.ProgressEvery == 0 {
				s.conf.Logger.Debug("reading lines", "source", s.name, "lines", s.count)
			}
			if !yield(scanner.Text()) {
				return
			}
		}

		if err := scanner.Err(); err != nil {
			if errors.Is(err, bufio.ErrTooLong) {
				err = fmt.Errorf("line %d exceeds %d bytes: %w", s.count+1, s.conf.MaxLineSize, err)
			}
			s.err = &SourceError{Source: s.name, Op: "read", Err: err}
			return
		}
		s.conf.Logger.Debug("finished reading", "source", s.name, "lines", s.count)
	}
}

// Err returns the read error encountered by Lines, if any.
func (s *ReaderSource) Err() error { return s.err }

// Name returns the source label.
func (s *ReaderSource) Name() string { return s.name }

// LineCount returns the number of lines yielded so far.
func (s *ReaderSource) LineCount() int { return s.count }

// Close releases the underlying file when the source was created by Open.
func (s *ReaderSource) Close() error {
	if s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.closer = nil
	return err
}
