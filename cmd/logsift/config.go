package main

import (
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/tinytelemetry/logsift/internal/model"
	"github.com/tinytelemetry/logsift/internal/report"
)

const (
	defaultSampleSize     = model.DefaultSampleSize
	defaultReportFormat   = model.DefaultReportFormat
	defaultTopErrors      = model.DefaultTopErrors
	defaultMaxUploadBytes = model.DefaultMaxUploadBytes
	defaultMaxLineSize    = model.DefaultMaxLineSize
	defaultAPIAddr        = "127.0.0.1:8080"
	defaultTimezone       = "UTC"
	defaultLogLevel       = "info"
)

// appConfig is internal runtime configuration.
// It is package-private to keep defaults and shape local to the CLI entrypoint.
type appConfig struct {
	File           string `mapstructure:"file"`
	Format         string `mapstructure:"format"`
	SampleSize     int    `mapstructure:"sample-size"`
	Level          string `mapstructure:"level"`
	Pattern        string `mapstructure:"pattern"`
	StartDate      string `mapstructure:"start-date"`
	EndDate        string `mapstructure:"end-date"`
	ReportFormat   string `mapstructure:"report-format"`
	Output         string `mapstructure:"output"`
	BySource       bool   `mapstructure:"by-source"`
	StatusSeverity bool   `mapstructure:"status-severity"`
	Timezone       string `mapstructure:"timezone"`
	LogLevel       string `mapstructure:"log-level"`
	TopErrors      int    `mapstructure:"top-errors"`
	Color          bool   `mapstructure:"color"`
	Serve          bool   `mapstructure:"serve"`
	APIAddr        string `mapstructure:"api-addr"`
	MaxUploadBytes int64  `mapstructure:"max-upload-bytes"`
	MaxLineSize    int    `mapstructure:"max-line-size"`
	ConfigPath     string `mapstructure:"-"` // not from config file

	reportFormat report.Format
	location     *time.Location
	logLevel     slog.Level
}

// validate checks value ranges and resolves derived fields.
func (c *appConfig) validate() error {
	if c.SampleSize <= 0 {
		return fmt.Errorf("invalid sample-size: %d", c.SampleSize)
	}
	if c.TopErrors <= 0 {
		return fmt.Errorf("invalid top-errors: %d", c.TopErrors)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("invalid max-upload-bytes: %d", c.MaxUploadBytes)
	}
	if c.MaxLineSize <= 0 {
		return fmt.Errorf("invalid max-line-size: %d", c.MaxLineSize)
	}

	f, err := report.ParseFormat(c.ReportFormat)
	if err != nil {
		return err
	}
	c.reportFormat = f

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	c.location = loc

	if err := c.logLevel.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return fmt.Errorf("invalid log-level %q", c.LogLevel)
	}

	if c.Serve {
		_, port, err := net.SplitHostPort(c.APIAddr)
		if err != nil {
			return fmt.Errorf("invalid api-addr %q: %w", c.APIAddr, err)
		}
		if p, err := strconv.Atoi(port); err != nil || p < 0 || p > 65535 {
			return fmt.Errorf("invalid api-addr port: %s", port)
		}
	}
	return nil
}
