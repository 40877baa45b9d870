package httpserver

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tinytelemetry/logsift/internal/analysis"
	"github.com/tinytelemetry/logsift/internal/format"
	"github.com/tinytelemetry/logsift/internal/model"
	"github.com/tinytelemetry/logsift/internal/pipeline"
	"github.com/tinytelemetry/logsift/internal/report"
)

// RunIDHeader carries the analysis run ID on /api/analyze responses.
const RunIDHeader = "X-Run-ID"

// Server provides an HTTP API for analyzing uploaded log text.
type Server struct {
	addr           string
	runner         *pipeline.Runner
	logger         *slog.Logger
	gatherer       prometheus.Gatherer
	maxUploadBytes int64
	sampleSize     int
	location       *time.Location

	server    *http.Server
	listener  net.Listener
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
	runs      atomic.Int64
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and diagnostics logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithGatherer exposes the given metrics on /metrics instead of the default registry.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		if g != nil {
			s.gatherer = g
		}
	}
}

// WithMaxUploadBytes caps the request body of /api/analyze.
func WithMaxUploadBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxUploadBytes = n
		}
	}
}

// WithSampleSize sets the number of entries used for format detection.
func WithSampleSize(n int) Option {
	return func(s *Server) {
		s.sampleSize = n
	}
}

// WithLocation sets the zone for zone-less start/end query parameters.
func WithLocation(loc *time.Location) Option {
	return func(s *Server) {
		if loc != nil {
			s.location = loc
		}
	}
}

// NewServer creates a new HTTP API server.
func NewServer(addr string, runner *pipeline.Runner, opts ...Option) *Server {
	if addr == "" {
		addr = "127.0.0.1:8080"
	}
	if runner == nil {
		runner = pipeline.NewRunner()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		addr:           addr,
		runner:         runner,
		logger:         slog.New(slog.DiscardHandler),
		gatherer:       prometheus.DefaultGatherer,
		maxUploadBytes: model.DefaultMaxUploadBytes,
		sampleSize:     model.DefaultSampleSize,
		location:       time.UTC,
		ctx:            ctx,
		cancel:         cancel,
		startTime:      time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the gin router serving the API.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), s.logRequests)

	r.GET("/api/health", s.handleHealth)
	r.GET("/api/formats", s.handleFormats)
	r.POST("/api/analyze", s.handleAnalyze)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	return r
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	gin.SetMode(gin.ReleaseMode)

	s.server = &http.Server{
		Handler:           s.Handler(),
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      120 * time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.listener = listener
	s.startTime = time.Now()

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server stopped", "error", err)
		}
	}()
	s.logger.Info("http api listening", "addr", listener.Addr().String())
	return nil
}

// Addr returns the bound listen address once started, or the configured one.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	s.cancel()
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) logRequests(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.logger.Debug("http request",
		"method", c.Request.Method,
		"path", c.FullPath(),
		"status", c.Writer.Status(),
		"duration", time.Since(start),
	)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(s.startTime).String(),
		"runs":   s.runs.Load(),
	})
}

func (s *Server) handleFormats(c *gin.Context) {
	parsers := s.runner.Parsers()
	formats := make([]gin.H, 0, len(parsers))
	for _, p := range parsers {
		formats = append(formats, gin.H{"name": p.Name(), "description": p.Description()})
	}
	c.JSON(http.StatusOK, gin.H{"formats": formats})
}

func (s *Server) handleAnalyze(c *gin.Context) {
	opts, reportFormat, err := s.analyzeOptions(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	body := http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUploadBytes)
	name := c.DefaultQuery("name", "upload")

	run, err := s.runner.AnalyzeReader(c.Request.Context(), body, name, opts)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body exceeds " + strconv.FormatInt(tooLarge.Limit, 10) + " bytes"})
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "analysis canceled"})
		default:
			s.logger.Warn("analysis failed", "error", err)
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		}
		return
	}
	s.runs.Add(1)
	c.Header(RunIDHeader, run.ID)

	if reportFormat == "" || reportFormat == report.FormatJSON {
		c.JSON(http.StatusOK, run)
		return
	}

	var buf bytes.Buffer
	if err := report.Write(&buf, run, reportFormat, report.Options{}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render report"})
		return
	}
	c.Data(http.StatusOK, contentType(reportFormat), buf.Bytes())
}

// analyzeOptions validates query parameters before the body is read.
func (s *Server) analyzeOptions(c *gin.Context) (pipeline.Options, report.Format, error) {
	opts := pipeline.Options{SampleSize: s.sampleSize}

	if name := c.Query("format"); name != "" {
		p, err := format.Lookup(name, s.runner.Parsers())
		if err != nil {
			return opts, "", err
		}
		opts.Format = p.Name()
	}

	filter, err := analysis.ParseFilter(c.Query("level"), c.Query("pattern"), c.Query("start"), c.Query("end"), s.location)
	if err != nil {
		return opts, "", err
	}
	opts.Filter = filter

	if v := c.Query("by_source"); v != "" {
		bySource, err := strconv.ParseBool(v)
		if err != nil {
			return opts, "", errors.New("by_source must be a boolean")
		}
		opts.BySource = bySource
	}

	var reportFormat report.Format
	if v := c.Query("report"); v != "" {
		if reportFormat, err = report.ParseFormat(v); err != nil {
			return opts, "", err
		}
	}
	return opts, reportFormat, nil
}

func contentType(f report.Format) string {
	switch f {
	case report.FormatCSV:
		return "text/csv; charset=utf-8"
	case report.FormatYAML:
		return "application/yaml; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}
