package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/tinytelemetry/logsift/internal/analysis"
	"github.com/tinytelemetry/logsift/internal/format"
	"github.com/tinytelemetry/logsift/internal/pipeline"
	"github.com/tinytelemetry/logsift/internal/report"
)

// stdoutOutput writes the report to stdout instead of a file.
const stdoutOutput = "-"

func parserOptions(cfg appConfig) []format.Option {
	opts := []format.Option{format.WithLocation(cfg.location)}
	if cfg.StatusSeverity {
		opts = append(opts, format.WithStatusSeverity())
	}
	return opts
}

func newRunner(cfg appConfig, logger *slog.Logger, extra ...pipeline.Option) *pipeline.Runner {
	opts := []pipeline.Option{
		pipeline.WithLogger(logger),
		pipeline.WithParsers(format.DefaultParsers(parserOptions(cfg)...)),
		pipeline.WithMaxLineSize(cfg.MaxLineSize),
	}
	return pipeline.NewRunner(append(opts, extra...)...)
}

// runAnalyze analyzes one file, writes the report and prints a summary.
func runAnalyze(ctx context.Context, cfg appConfig, stdout io.Writer, logger *slog.Logger) error {
	if cfg.File == "" {
		return fmt.Errorf("%w: please specify a log file to analyze", errUsage)
	}

	filter, err := analysis.ParseFilter(cfg.Level, cfg.Pattern, cfg.StartDate, cfg.EndDate, cfg.location)
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	runner := newRunner(cfg, logger)
	if cfg.Format != "" {
		if _, err := format.Lookup(cfg.Format, runner.Parsers()); err != nil {
			return fmt.Errorf("%w: %v", errUsage, err)
		}
	}

	logger.Info("analyzing file", "path", cfg.File)
	run, err := runner.AnalyzeFile(ctx, cfg.File, pipeline.Options{
		Format:     cfg.Format,
		SampleSize: cfg.SampleSize,
		Filter:     filter,
		BySource:   cfg.BySource,
	})
	if err != nil {
		return err
	}

	reportOpts := report.Options{TopErrors: cfg.TopErrors}
	if cfg.Output == stdoutOutput {
		reportOpts.Color = cfg.Color
		return report.Write(stdout, run, cfg.reportFormat, reportOpts)
	}

	output := cfg.Output
	if output == "" {
		output = report.DefaultOutputPath(cfg.File, cfg.reportFormat)
	}
	if err := report.WriteFile(output, run, cfg.reportFormat, reportOpts); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Report saved to: %s\n", output)

	if err := report.Summary(stdout, run, report.Options{Color: cfg.Color}); err != nil {
		return err
	}
	fmt.Fprintln(stdout, "\nSee the generated report for more detailed analysis.")
	return nil
}
