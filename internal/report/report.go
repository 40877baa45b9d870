// Package report renders analysis runs for people and for other tools.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tinytelemetry/logsift/internal/model"
	"github.com/tinytelemetry/logsift/internal/pipeline"
)

// Format is a report output format.
type Format string

const (
	FormatText Format = "text"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

const timeLayout = "2006-01-02 15:04:05"

// Formats lists the supported report formats.
func Formats() []Format {
	return []Format{FormatText, FormatCSV, FormatJSON, FormatYAML}
}

// ParseFormat validates a format name (case-insensitive). "yml" is accepted
// for YAML.
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "yml" {
		return FormatYAML, nil
	}
	for _, f := range Formats() {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown report format %q (available: text, csv, json, yaml)", name)
}

// Extension returns the file extension used for the format.
func (f Format) Extension() string {
	if f == FormatText {
		return "txt"
	}
	return string(f)
}

// Options tune report rendering.
type Options struct {
	// Color enables terminal styling. Styling is still dropped when the
	// destination is not a terminal.
	Color bool
	// TopErrors caps the error groups listed in text reports.
	TopErrors int
	// Now stamps the report. Defaults to time.Now.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.TopErrors <= 0 {
		o.TopErrors = model.DefaultTopErrors
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// DefaultOutputPath returns <dir>/<name>_analysis.<ext> next to the input.
func DefaultOutputPath(input string, f Format) string {
	base := filepath.Base(input)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(input), name+"_analysis."+f.Extension())
}

// Write renders run to w in the given format.
func Write(w io.Writer, run *pipeline.Run, f Format, opts Options) error {
	opts = opts.withDefaults()
	switch f {
	case FormatText:
		return writeText(w, run, opts)
	case FormatCSV:
		return writeCSV(w, run, opts)
	case FormatJSON:
		return writeJSON(w, run)
	case FormatYAML:
		return writeYAML(w, run)
	default:
		return fmt.Errorf("unknown report format %q", f)
	}
}

// WriteFile renders run into a new file at path, replacing any existing one.
func WriteFile(path string, run *pipeline.Run, f Format, opts Options) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing report: %w", cerr)
		}
	}()

	if err := Write(file, run, f, opts); err != nil {
		return fmt.Errorf("writing %s report: %w", f, err)
	}
	return nil
}
