package report

import (
	"bufio"
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/logsift/internal/model"
	"github.com/tinytelemetry/logsift/internal/pipeline"
)

type palette struct {
	title lipgloss.Style
	head  lipgloss.Style
	dim   lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	count lipgloss.Style
}

// newPalette binds styles to w so that colour is only emitted for terminals.
func newPalette(w io.Writer, color bool) palette {
	if !color {
		plain := lipgloss.NewStyle()
		return palette{plain, plain, plain, plain, plain, plain}
	}
	r := lipgloss.NewRenderer(w)
	return palette{
		title: r.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		head:  r.NewStyle().Bold(true),
		dim:   r.NewStyle().Foreground(lipgloss.Color("240")),
		err:   r.NewStyle().Foreground(lipgloss.Color("196")),
		warn:  r.NewStyle().Foreground(lipgloss.Color("220")),
		count: r.NewStyle().Foreground(lipgloss.Color("42")),
	}
}

func section(bw *bufio.Writer, p palette, name string) {
	fmt.Fprintln(bw, p.head.Render(name))
	fmt.Fprintln(bw, p.dim.Render(strings.Repeat("-", len(name))))
}

func writeText(w io.Writer, run *pipeline.Run, opts Options) error {
	p := newPalette(w, opts.Color)
	bw := bufio.NewWriter(w)
	res := run.Result
	rule := strings.Repeat("=", 46)

	fmt.Fprintln(bw, p.dim.Render(rule))
	fmt.Fprintln(bw, p.title.Render("             LOG ANALYSIS REPORT"))
	fmt.Fprintln(bw, p.dim.Render(rule))
	fmt.Fprintf(bw, "Generated: %s\n", opts.Now().Format(timeLayout))
	fmt.Fprintf(bw, "Source:    %s\n", run.Source)
	fmt.Fprintf(bw, "Parser:    %s\n", run.Parser)
	fmt.Fprintf(bw, "Run ID:    %s\n", run.ID)
	fmt.Fprintln(bw)

	section(bw, p, "SUMMARY STATISTICS")
	fmt.Fprintf(bw, "Total log entries: %d\n", res.TotalEntries)
	fmt.Fprintf(bw, "Error count:       %s\n", p.err.Render(fmt.Sprint(res.ErrorCount)))
	fmt.Fprintf(bw, "Warning count:     %s\n", p.warn.Render(fmt.Sprint(res.WarningCount)))
	fmt.Fprintf(bw, "Info count:        %d\n", res.InfoCount)
	fmt.Fprintf(bw, "Dropped entries:   %d\n", run.Dropped)
	if run.Filtered > 0 {
		fmt.Fprintf(bw, "Filtered out:      %d\n", run.Filtered)
	}
	fmt.Fprintln(bw)

	section(bw, p, "TOP ERRORS")
	if len(res.TopErrors) == 0 {
		fmt.Fprintln(bw, "No errors found in the log file.")
	}
	for _, g := range res.TopErrors[:min(opts.TopErrors, len(res.TopErrors))] {
		fmt.Fprintf(bw, "%s %s\n", p.count.Render(fmt.Sprintf("[%4d]", g.Count)), g.Signature)
		fmt.Fprintf(bw, "       First: %s\n", g.FirstOccurrence.Format(timeLayout))
		fmt.Fprintf(bw, "       Last:  %s\n", g.LastOccurrence.Format(timeLayout))
		fmt.Fprintln(bw)
	}
	fmt.Fprintln(bw)

	section(bw, p, "ERRORS OVER TIME")
	if len(res.ErrorsOverTime) == 0 {
		fmt.Fprintln(bw, "No errors found in the log file.")
	}
	for _, b := range res.ErrorsOverTime {
		fmt.Fprintf(bw, "%s: %d\n", b.Bucket.Format(timeLayout), b.Count)
	}
	fmt.Fprintln(bw)

	section(bw, p, "ERRORS BY SOURCE")
	switch {
	case res.ErrorsBySourceName != nil:
		if len(res.ErrorsBySourceName) == 0 {
			fmt.Fprintln(bw, "No source information available in the log file.")
		}
		for _, s := range res.ErrorsBySourceName {
			fmt.Fprintf(bw, "%s: %d\n", s.Source, s.Count)
		}
	case len(res.ErrorsBySource) == 0:
		fmt.Fprintln(bw, "No source information available in the log file.")
	default:
		for _, b := range byCountDesc(res.ErrorsBySource) {
			fmt.Fprintf(bw, "%s: %d\n", b.Bucket.Format(timeLayout), b.Count)
		}
	}

	return bw.Flush()
}

// byCountDesc orders buckets by count, highest first, keeping time order on ties.
func byCountDesc(buckets []model.BucketCount) []model.BucketCount {
	out := slices.Clone(buckets)
	slices.SortStableFunc(out, func(a, b model.BucketCount) int {
		return cmp.Compare(b.Count, a.Count)
	})
	return out
}

// Summary prints a short console digest of run: totals and the top errors.
func Summary(w io.Writer, run *pipeline.Run, opts Options) error {
	p := newPalette(w, opts.Color)
	bw := bufio.NewWriter(w)
	res := run.Result

	fmt.Fprintln(bw)
	fmt.Fprintf(bw, "%s %s\n", p.title.Render("Analysis Results"), p.dim.Render("("+run.Parser+" format, run "+run.ID+")"))
	fmt.Fprintf(bw, "Total log entries: %d\n", res.TotalEntries)
	fmt.Fprintf(bw, "Error count: %s\n", p.err.Render(fmt.Sprint(res.ErrorCount)))
	fmt.Fprintf(bw, "Warning count: %s\n", p.warn.Render(fmt.Sprint(res.WarningCount)))
	fmt.Fprintf(bw, "Info count: %d\n", res.InfoCount)
	if run.Dropped > 0 {
		fmt.Fprintf(bw, "Dropped entries: %d\n", run.Dropped)
	}

	if len(res.TopErrors) > 0 {
		n := min(model.DefaultSummaryErrors, len(res.TopErrors))
		fmt.Fprintln(bw)
		fmt.Fprintln(bw, p.head.Render(fmt.Sprintf("Top %d Errors:", n)))
		for _, g := range res.TopErrors[:n] {
			fmt.Fprintf(bw, "%s %s\n", p.count.Render(fmt.Sprintf("[%d]", g.Count)), g.Signature)
		}
	}
	return bw.Flush()
}
