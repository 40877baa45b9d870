package model

// Shared defaults used by the CLI, the pipeline and the HTTP server.
const (
	DefaultSampleSize     = 5
	DefaultReportFormat   = "text"
	DefaultTopErrors      = 10
	DefaultSummaryErrors  = 5
	DefaultProgressEvery  = 10_000
	MaxSignatureLength    = 200
	DefaultMaxUploadBytes = 32 << 20
	DefaultMaxLineSize    = 1024 * 1024
)
