package config

import (
	"github.com/Sumatoshi-tech/encore/internal/observability"
)

// Observability maps the logging and telemetry sections onto an
// observability configuration for the given mode.
func (c *Config) Observability(mode observability.AppMode, version string) observability.Config {
	oc := observability.DefaultConfig()

	oc.ServiceVersion = version
	oc.Mode = mode
	oc.Environment = c.Telemetry.Environment
	oc.OTLPEndpoint = c.Telemetry.OTLPEndpoint
	oc.OTLPHeaders = observability.ParseOTLPHeaders(c.Telemetry.OTLPHeaders)
	oc.OTLPInsecure = c.Telemetry.OTLPInsecure
	oc.SampleRatio = c.Telemetry.SampleRatio
	oc.DebugTrace = c.Telemetry.DebugTrace
	oc.Prometheus = mode == observability.ModeServe
	oc.LogJSON = c.Logging.JSON

	if level, err := c.Logging.SlogLevel(); err == nil {
		oc.LogLevel = level
	}

	return oc
}
