package main

import (
	"flag"
	"fmt"
	"io"
)

// flagValues holds command line values that override configuration keys.
// Only flags the user actually set are applied.
type flagValues struct {
	strings map[string]*string
	bools   map[string]*bool
	ints    map[string]*int
	// aliases maps a flag name to its configuration key.
	aliases map[string]string
}

func newFlagSet(stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("logsift", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: logsift [options] [file]\n\nOptions:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  logsift -f app.log -l ERROR -o error_report.txt\n")
		fmt.Fprintf(stderr, "  logsift -f app.log -p \"Exception\" -r csv\n")
		fmt.Fprintf(stderr, "  logsift -serve -api-addr 127.0.0.1:8080\n")
	}
	return fs
}

func registerFlags(fs *flag.FlagSet) *flagValues {
	fv := &flagValues{
		strings: map[string]*string{},
		bools:   map[string]*bool{},
		ints:    map[string]*int{},
		aliases: map[string]string{},
	}

	str := func(key, short, usage string) {
		p := new(string)
		fv.strings[key] = p
		fv.aliases[key] = key
		fs.StringVar(p, key, "", usage)
		if short != "" {
			fv.aliases[short] = key
			fs.StringVar(p, short, "", usage+" (shorthand)")
		}
	}
	boolean := func(key, usage string) {
		p := new(bool)
		fv.bools[key] = p
		fv.aliases[key] = key
		fs.BoolVar(p, key, false, usage)
	}
	integer := func(key, usage string) {
		p := new(int)
		fv.ints[key] = p
		fv.aliases[key] = key
		fs.IntVar(p, key, 0, usage)
	}

	str("file", "f", "log file to analyze")
	str("level", "l", "minimum level to include (TRACE, DEBUG, INFO, WARNING, ERROR, CRITICAL, FATAL)")
	str("pattern", "p", "regular expression messages must match")
	str("start-date", "s", "only include entries at or after this date")
	str("end-date", "e", "only include entries at or before this date")
	str("output", "o", "report output path (default <dir>/<name>_analysis.<ext>, - for stdout)")
	str("report-format", "r", "report format: text, csv, json or yaml (default text)")
	str("format", "", "force a log format: structured, access or fallback")
	str("timezone", "", "zone for timestamps without an offset (default UTC)")
	str("log-level", "", "diagnostics level: debug, info, warn or error")
	str("api-addr", "", "HTTP listen address in serve mode")
	integer("sample-size", "number of entries sampled for format detection")
	integer("top-errors", "number of error groups listed in text reports")
	boolean("by-source", "also group errors by source name")
	boolean("status-severity", "derive access log severity from the HTTP status")
	boolean("color", "colorize terminal output")
	boolean("serve", "run the HTTP analysis API instead of a one-shot analysis")

	return fv
}

// visited returns config key/value pairs for the flags set on the command line.
func (fv *flagValues) visited(fs *flag.FlagSet) map[string]any {
	set := map[string]any{}
	fs.Visit(func(f *flag.Flag) {
		key, ok := fv.aliases[f.Name]
		if !ok {
			return
		}
		switch {
		case fv.strings[key] != nil:
			set[key] = *fv.strings[key]
		case fv.bools[key] != nil:
			set[key] = *fv.bools[key]
		case fv.ints[key] != nil:
			set[key] = *fv.ints[key]
		}
	})
	return set
}
