package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tinytelemetry/logsift/internal/report"
)

const sampleLog = `2024-01-15 10:00:00.000 [INFO] Api - service started
2024-01-15 10:00:01.000 [ERROR] Auth - Login failed for user 42
2024-01-15 10:05:00.000 [ERROR] Auth - Login failed for user 7
2024-01-15 11:30:00.000 [WARN] Db - slow query
   SELECT * FROM sessions`

func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	isolateHome(t)

	cfg, err := loadConfig("", nil)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.SampleSize != defaultSampleSize {
		t.Errorf("SampleSize = %d, want %d", cfg.SampleSize, defaultSampleSize)
	}
	if cfg.reportFormat != report.FormatText {
		t.Errorf("reportFormat = %q, want text", cfg.reportFormat)
	}
	if cfg.TopErrors != defaultTopErrors {
		t.Errorf("TopErrors = %d", cfg.TopErrors)
	}
	if cfg.location.String() != "UTC" {
		t.Errorf("location = %v", cfg.location)
	}
	if cfg.logLevel != slog.LevelInfo {
		t.Errorf("logLevel = %v", cfg.logLevel)
	}
	if cfg.MaxUploadBytes != defaultMaxUploadBytes {
		t.Errorf("MaxUploadBytes = %d", cfg.MaxUploadBytes)
	}
	if cfg.ConfigPath != "" {
		t.Errorf("ConfigPath = %q, want empty without a config file", cfg.ConfigPath)
	}
	if !cfg.Color {
		t.Error("color should default to true")
	}
}

func TestLoadConfig_FileEnvAndOverrides(t *testing.T) {
	home := isolateHome(t)
	path := writeFile(t, home, "logsift.yml", `
report-format: csv
sample-size: 12
level: warning
by-source: true
timezone: Europe/Berlin
`)
	t.Setenv("LOGSIFT_TOP_ERRORS", "3")
	t.Setenv("LOGSIFT_SAMPLE_SIZE", "7")

	cfg, err := loadConfig(path, map[string]any{"report-format": "json"})
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	if cfg.ConfigPath != path {
		t.Errorf("ConfigPath = %q, want %q", cfg.ConfigPath, path)
	}
	if cfg.reportFormat != report.FormatJSON {
		t.Errorf("reportFormat = %q, want json (flag beats file)", cfg.reportFormat)
	}
	if cfg.SampleSize != 7 {
		t.Errorf("SampleSize = %d, want 7 (env beats file)", cfg.SampleSize)
	}
	if cfg.TopErrors != 3 {
		t.Errorf("TopErrors = %d, want 3", cfg.TopErrors)
	}
	if cfg.Level != "warning" || !cfg.BySource {
		t.Errorf("level/by-source = %q/%v", cfg.Level, cfg.BySource)
	}
	if cfg.location.String() != "Europe/Berlin" {
		t.Errorf("location = %v", cfg.location)
	}
}

func TestLoadConfig_DefaultFileLocation(t *testing.T) {
	home := isolateHome(t)
	dir := filepath.Join(home, ".config", "logsift")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, dir, "config.yml", "top-errors: 4\n")

	cfg, err := loadConfig("", nil)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.TopErrors != 4 {
		t.Errorf("TopErrors = %d, want 4", cfg.TopErrors)
	}
}

func TestLoadConfig_MissingFileIsFine(t *testing.T) {
	home := isolateHome(t)

	if _, err := loadConfig(filepath.Join(home, "absent.yml"), nil); err != nil {
		t.Errorf("missing config file should be ignored: %v", err)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	isolateHome(t)

	tests := []struct {
		name      string
		overrides map[string]any
	}{
		{"report format", map[string]any{"report-format": "pdf"}},
		{"sample size", map[string]any{"sample-size": 0}},
		{"top errors", map[string]any{"top-errors": -1}},
		{"timezone", map[string]any{"timezone": "Mars/Olympus"}},
		{"log level", map[string]any{"log-level": "chatty"}},
		{"api addr", map[string]any{"serve": true, "api-addr": "localhost"}},
		{"api port", map[string]any{"serve": true, "api-addr": "127.0.0.1:70000"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := loadConfig("", tt.overrides); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestRun_AnalyzeWritesReport(t *testing.T) {
	home := isolateHome(t)
	logPath := writeFile(t, home, "app.log", sampleLog)

	var stdout, stderr bytes.Buffer
	code := run([]string{"-log-level", "error", "-r", "csv", logPath}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr.String())
	}

	reportPath := filepath.Join(home, "app_analysis.csv")
	data, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	if !strings.Contains(string(data), "Login failed for user [NUMBER]") {
		t.Errorf("report missing grouped error:\n%s", data)
	}

	out := stdout.String()
	for _, want := range []string{"Report saved to: " + reportPath, "Error count: 2", "Top 1 Errors:", "[2] Login failed for user [NUMBER]"} {
		if !strings.Contains(out, want) {
			t.Errorf("stdout missing %q:\n%s", want, out)
		}
	}
}

func TestRun_FiltersAndStdoutReport(t *testing.T) {
	home := isolateHome(t)
	logPath := writeFile(t, home, "app.log", sampleLog)

	var stdout, stderr bytes.Buffer
	code := run([]string{"-f", logPath, "-l", "ERROR", "-o", "-", "-r", "json", "-log-level", "error"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), `"total_entries": 2`) {
		t.Errorf("filtered JSON report unexpected:\n%s", stdout.String())
	}
	if _, err := os.Stat(filepath.Join(home, "app_analysis.json")); !os.IsNotExist(err) {
		t.Error("no report file should be written when output is -")
	}
}

func TestRun_MissingFile(t *testing.T) {
	home := isolateHome(t)

	var stdout, stderr bytes.Buffer
	code := run([]string{"-log-level", "error", filepath.Join(home, "nope.log")}, &stdout, &stderr)
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "cannot read log file") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestRun_UsageErrors(t *testing.T) {
	home := isolateHome(t)
	logPath := writeFile(t, home, "app.log", sampleLog)

	tests := []struct {
		name string
		args []string
	}{
		{"no file", []string{}},
		{"bad level", []string{"-l", "LOUD", logPath}},
		{"bad pattern", []string{"-p", "(", logPath}},
		{"bad date", []string{"-s", "last tuesday", logPath}},
		{"unknown format", []string{"-format", "syslog", logPath}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if code := run(tt.args, &stdout, &stderr); code != 2 {
				t.Errorf("exit code = %d, want 2; stderr: %s", code, stderr.String())
			}
		})
	}
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-version"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(stdout.String(), "Version:    dev") {
		t.Errorf("stdout = %q", stdout.String())
	}
}
