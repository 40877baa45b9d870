package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/tinytelemetry/logsift/internal/format"
	"github.com/tinytelemetry/logsift/internal/httpserver"
	"github.com/tinytelemetry/logsift/internal/metrics"
	"github.com/tinytelemetry/logsift/internal/pipeline"
)

// runServe runs the HTTP analysis API until SIGINT or SIGTERM.
func runServe(ctx context.Context, cfg appConfig, stdout io.Writer, logger *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	pipelineMetrics := metrics.NewPipelineMetrics(reg)

	runner := newRunner(cfg, logger, pipeline.WithObserver(pipelineMetrics))
	apiServer := httpserver.NewServer(cfg.APIAddr, runner,
		httpserver.WithLogger(logger),
		httpserver.WithGatherer(reg),
		httpserver.WithMaxUploadBytes(cfg.MaxUploadBytes),
		httpserver.WithSampleSize(cfg.SampleSize),
		httpserver.WithLocation(cfg.location),
	)
	if err := apiServer.Start(); err != nil {
		return fmt.Errorf("failed to start API server: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	printStartupBanner(stdout, cfg, apiServer.Addr(), runner)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		select {
		case sig := <-sigCh:
			logger.Info("shutting down", "signal", sig.String())
			cancel()
		case <-gctx.Done():
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return apiServer.Stop()
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

func printStartupBanner(w io.Writer, cfg appConfig, addr string, runner *pipeline.Runner) {
	r := lipgloss.NewRenderer(w)
	if !cfg.Color {
		r = lipgloss.NewRenderer(io.Discard)
	}
	dim := r.NewStyle().Foreground(lipgloss.Color("240"))
	green := r.NewStyle().Foreground(lipgloss.Color("42"))
	cyan := r.NewStyle().Foreground(lipgloss.Color("39"))
	yellow := r.NewStyle().Foreground(lipgloss.Color("220"))
	bold := r.NewStyle().Bold(true)

	check := green.Render("●")
	dot := dim.Render("●")

	var lines []string
	lines = append(lines, "")
	lines = append(lines, "    "+cyan.Bold(true).Render("logsift")+" "+dim.Render("v"+version))
	lines = append(lines, "")

	separator := dim.Render("    ─────────────────────────────────")
	lines = append(lines, separator)
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Endpoints"))
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("    %s  Analyze        %s", check, cyan.Render("POST http://"+addr+"/api/analyze")))
	lines = append(lines, fmt.Sprintf("    %s  Formats        %s", check, cyan.Render("GET  http://"+addr+"/api/formats")))
	lines = append(lines, fmt.Sprintf("    %s  Metrics        %s", check, cyan.Render("GET  http://"+addr+"/metrics")))
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Runtime"))
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("    %s  Parsers        %s", check, dim.Render(strings.Join(format.Names(runner.Parsers()), ", "))))
	lines = append(lines, fmt.Sprintf("    %s  Timezone       %s", check, dim.Render(cfg.location.String())))
	if cfg.StatusSeverity {
		lines = append(lines, fmt.Sprintf("    %s  Status levels  %s", check, dim.Render("enabled")))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Status levels  %s", dot, dim.Render("disabled")))
	}
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Config"))
	lines = append(lines, "")
	if cfg.ConfigPath != "" {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", check, dim.Render(shortenPath(cfg.ConfigPath))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", dot, dim.Render("default (no file)")))
	}

	lines = append(lines, "")
	lines = append(lines, separator)
	lines = append(lines, "")
	lines = append(lines, "    "+dim.Render("Press ")+yellow.Render("Ctrl+C")+dim.Render(" to stop"))
	lines = append(lines, "")

	fmt.Fprintln(w, strings.Join(lines, "\n"))
}

func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}
