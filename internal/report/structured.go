package report

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/tinytelemetry/logsift/internal/pipeline"
)

func writeCSV(w io.Writer, run *pipeline.Run, opts Options) error {
	cw := csv.NewWriter(w)
	res := run.Result
	itoa := strconv.Itoa

	rows := [][]string{
		{"Log Analysis Report"},
		{"Generated", opts.Now().Format(timeLayout)},
		{"Source", run.Source},
		{"Parser", run.Parser},
		{"Run ID", run.ID},
		{},
		{"Summary Statistics"},
		{"Total entries", itoa(res.TotalEntries)},
		{"Error count", itoa(res.ErrorCount)},
		{"Warning count", itoa(res.WarningCount)},
		{"Info count", itoa(res.InfoCount)},
		{"Dropped entries", itoa(run.Dropped)},
		{},
		{"Top Errors"},
		{"Count", "First Occurrence", "Last Occurrence", "Message"},
	}
	for _, g := range res.TopErrors {
		rows = append(rows, []string{
			itoa(g.Count),
			g.FirstOccurrence.Format(timeLayout),
			g.LastOccurrence.Format(timeLayout),
			g.Signature,
		})
	}

	rows = append(rows, []string{}, []string{"Errors Over Time"}, []string{"Timestamp", "Count"})
	for _, b := range res.ErrorsOverTime {
		rows = append(rows, []string{b.Bucket.Format(timeLayout), itoa(b.Count)})
	}

	rows = append(rows, []string{}, []string{"Errors By Source"}, []string{"Source", "Count"})
	if res.ErrorsBySourceName != nil {
		for _, s := range res.ErrorsBySourceName {
			rows = append(rows, []string{s.Source, itoa(s.Count)})
		}
	} else {
		for _, b := range byCountDesc(res.ErrorsBySource) {
			rows = append(rows, []string{b.Bucket.Format(timeLayout), itoa(b.Count)})
		}
	}

	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

func writeJSON(w io.Writer, run *pipeline.Run) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(run)
}

func writeYAML(w io.Writer, run *pipeline.Run) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(run); err != nil {
		return err
	}
	return enc.Close()
}
