// Package observability wires OpenTelemetry tracing and metrics together with
// structured logging for every encore mode (CLI, MCP, dashboard server).
package observability

import "log/slog"

// AppMode identifies how the binary was launched.
type AppMode string

const (
	// ModeCLI is a one-shot command.
	ModeCLI AppMode = "cli"
	// ModeMCP is the MCP stdio server.
	ModeMCP AppMode = "mcp"
	// ModeServe is the HTTP dashboard.
	ModeServe AppMode = "serve"
)

const (
	defaultServiceName        = "encore"
	defaultShutdownTimeoutSec = 5
)

// Config holds all observability settings.
type Config struct {
	// ServiceName is the OTel resource service name.
	ServiceName string

	// ServiceVersion is the version of the running binary.
	ServiceVersion string

	// Environment is the deployment environment, e.g. "dev".
	Environment string

	// Mode identifies how the binary was launched.
	Mode AppMode

	// OTLPEndpoint is the OTLP gRPC collector address. Empty disables export.
	OTLPEndpoint string

	// OTLPHeaders are extra gRPC metadata headers for the exporters.
	OTLPHeaders map[string]string

	// OTLPInsecure disables TLS towards the collector.
	OTLPInsecure bool

	// DebugTrace samples every trace.
	DebugTrace bool

	// SampleRatio is the root sampling ratio when DebugTrace is off.
	// Zero samples everything.
	SampleRatio float64

	// Prometheus attaches a pull exporter and exposes it through
	// Providers.MetricsHandler.
	Prometheus bool

	// LogLevel is the minimum slog level.
	LogLevel slog.Level

	// LogJSON switches the log handler to JSON.
	LogJSON bool

	// ShutdownTimeoutSec bounds the flush on shutdown.
	ShutdownTimeoutSec int
}

// DefaultConfig returns a zero-export CLI configuration.
func DefaultConfig() Config {
	return Config{
		ServiceName:        defaultServiceName,
		Mode:               ModeCLI,
		LogLevel:           slog.LevelInfo,
		ShutdownTimeoutSec: defaultShutdownTimeoutSec,
	}
}
