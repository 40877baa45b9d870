package pipeline

import (
	"log/slog"

	"github.com/tinytelemetry/logsift/internal/format"
	"github.com/tinytelemetry/logsift/internal/ingest"
	"github.com/tinytelemetry/logsift/internal/logsource"
	"github.com/tinytelemetry/logsift/internal/model"
)

// DetectFile picks a parser from the first sampleSize reassembled entries of
// the file at path. Any failure to read the sample degrades to the fallback
// parser; the cause is logged at debug level.
func DetectFile(path string, sampleSize int, parsers []format.Parser, logger *slog.Logger) format.Parser {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if sampleSize <= 0 {
		sampleSize = model.DefaultSampleSize
	}

	src, err := logsource.Open(path, logsource.Config{Logger: logger})
	if err != nil {
		logger.Debug("format detection failed, using fallback", "path", path, "error", err)
		return format.Detect(nil, parsers)
	}
	defer src.Close()

	sample := ingest.Head(ingest.Reassemble(src.Lines()), sampleSize)
	if err := src.Err(); err != nil {
		logger.Debug("format detection failed, using fallback", "path", path, "error", err)
		return format.Detect(nil, parsers)
	}

	p := format.Detect(sample, parsers)
	logger.Debug("detected format", "path", path, "parser", p.Name(), "sample", len(sample))
	return p
}
