package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	_ "time/tzdata" // zone database for the timezone setting on hosts without one

	"github.com/spf13/viper"

	"github.com/tinytelemetry/logsift/internal/logsource"
)

// Build variables - set by ldflags during build.
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)

// GetVersionInfo returns the current version and commit information.
func GetVersionInfo() (string, string) {
	return version, commit
}

// errUsage marks errors caused by missing or invalid command line input.
var errUsage = errors.New("usage error")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet(stderr)
	var configPath string
	var showVersion bool
	fs.StringVar(&configPath, "config", "", "config file (default is $HOME/.config/logsift/config.yml)")
	fs.BoolVar(&showVersion, "version", false, "print version information")
	overrides := registerFlags(fs)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if showVersion {
		fmt.Fprintf(stdout, "Logsift - Log Analyzer\n")
		fmt.Fprintf(stdout, "  Version:    %s\n", version)
		fmt.Fprintf(stdout, "  Commit:     %s\n", commit)
		fmt.Fprintf(stdout, "  Built:      %s\n", buildTime)
		fmt.Fprintf(stdout, "  Go version: %s\n", goVersion)
		return 0
	}

	set := overrides.visited(fs)
	if fs.NArg() > 0 {
		set["file"] = fs.Arg(0)
	}

	cfg, err := loadConfig(configPath, set)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return 1
	}

	logger := newLogger(stderr, cfg.logLevel)

	if cfg.Serve {
		err = runServe(context.Background(), cfg, stdout, logger)
	} else {
		err = runAnalyze(context.Background(), cfg, stdout, logger)
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		fmt.Fprintf(stderr, "%v\n\n", err)
		fs.Usage()
		return 2
	case errors.Is(err, logsource.ErrSourceUnreadable):
		fmt.Fprintf(stderr, "Error: cannot read log file: %v\n", err)
		return 1
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func loadConfig(configPath string, overrides map[string]any) (appConfig, error) {
	var cfg appConfig

	v := viper.New()
	v.SetEnvPrefix("LOGSIFT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("file", "")
	v.SetDefault("format", "")
	v.SetDefault("sample-size", defaultSampleSize)
	v.SetDefault("level", "")
	v.SetDefault("pattern", "")
	v.SetDefault("start-date", "")
	v.SetDefault("end-date", "")
	v.SetDefault("report-format", defaultReportFormat)
	v.SetDefault("output", "")
	v.SetDefault("by-source", false)
	v.SetDefault("status-severity", false)
	v.SetDefault("timezone", defaultTimezone)
	v.SetDefault("log-level", defaultLogLevel)
	v.SetDefault("top-errors", defaultTopErrors)
	v.SetDefault("color", true)
	v.SetDefault("serve", false)
	v.SetDefault("api-addr", defaultAPIAddr)
	v.SetDefault("max-upload-bytes", defaultMaxUploadBytes)
	v.SetDefault("max-line-size", defaultMaxLineSize)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else if home, err := os.UserHomeDir(); err == nil {
		v.SetConfigFile(filepath.Join(home, ".config", "logsift", "config.yml"))
	}

	configRead := false
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, err
		}
	} else {
		configRead = true
	}

	for key, value := range overrides {
		v.Set(key, value)
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	if configRead {
		cfg.ConfigPath = v.ConfigFileUsed()
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
