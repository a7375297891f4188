// Package config loads encore settings from .encore.yaml, ENCORE_* environment
// variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Sumatoshi-tech/encore/internal/trend"
)

// Config is the top-level configuration.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Data      DataConfig      `mapstructure:"data"`
	Trend     TrendConfig     `mapstructure:"trend"`
	Serve     ServeConfig     `mapstructure:"serve"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// DataConfig locates the source data.
type DataConfig struct {
	Archive        string `mapstructure:"archive"`
	Database       string `mapstructure:"database"`
	ValidateSchema bool   `mapstructure:"validate_schema"`
}

// TrendConfig holds the default chart settings.
type TrendConfig struct {
	Family      string `mapstructure:"family"`
	Curve       string `mapstructure:"curve"`
	Granularity int    `mapstructure:"granularity"`
	TopN        int    `mapstructure:"top_n"`
	StartYear   int    `mapstructure:"start_year"`
	EndYear     int    `mapstructure:"end_year"`
	Unique      bool   `mapstructure:"unique"`
	Markers     bool   `mapstructure:"markers"`
}

// ServeConfig holds dashboard server settings.
type ServeConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	CacheSize    int           `mapstructure:"cache_size"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// TelemetryConfig holds OpenTelemetry export settings.
type TelemetryConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPHeaders  string  `mapstructure:"otlp_headers"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
	Environment  string  `mapstructure:"environment"`
	DebugTrace   bool    `mapstructure:"debug_trace"`
}

const maxPort = 65535

// Sentinel errors for configuration validation.
var (
	// ErrInvalidTrend wraps any rejected trend default.
	ErrInvalidTrend = errors.New("invalid trend settings")
	// ErrInvalidPort indicates serve.port is out of range.
	ErrInvalidPort = errors.New("serve.port must be between 0 and 65535")
	// ErrInvalidCacheSize indicates serve.cache_size is not positive.
	ErrInvalidCacheSize = errors.New("serve.cache_size must be positive")
	// ErrInvalidTimeout indicates a negative serve timeout.
	ErrInvalidTimeout = errors.New("serve timeouts must be non-negative")
	// ErrInvalidLogLevel indicates an unknown logging.level.
	ErrInvalidLogLevel = errors.New("logging.level must be debug, info, warn or error")
	// ErrInvalidSampleRatio indicates telemetry.sample_ratio is out of range.
	ErrInvalidSampleRatio = errors.New("telemetry.sample_ratio must be between 0 and 1")
)

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	trendErr := c.Trend.Chart(trend.Family(c.Trend.Family), trend.CurveKind(c.Trend.Curve)).Validate()
	if trendErr != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTrend, trendErr)
	}

	if c.Serve.Port < 0 || c.Serve.Port > maxPort {
		return ErrInvalidPort
	}

	if c.Serve.CacheSize <= 0 {
		return ErrInvalidCacheSize
	}

	if c.Serve.ReadTimeout < 0 || c.Serve.WriteTimeout < 0 {
		return ErrInvalidTimeout
	}

	_, levelErr := c.Logging.SlogLevel()
	if levelErr != nil {
		return levelErr
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return ErrInvalidSampleRatio
	}

	return nil
}

// Chart builds a trend configuration for one chart from the defaults.
func (t TrendConfig) Chart(family trend.Family, curve trend.CurveKind) trend.Config {
	return trend.Config{
		Family:      family,
		Curve:       curve,
		Granularity: t.Granularity,
		TopN:        t.TopN,
		StartYear:   t.StartYear,
		EndYear:     t.EndYear,
		Unique:      t.Unique && family == trend.FamilyComposer,
		Markers:     t.Markers,
	}
}

// Default returns the configured default chart.
func (t TrendConfig) Default() trend.Config {
	return t.Chart(trend.Family(t.Family), trend.CurveKind(t.Curve))
}

// SlogLevel parses the configured level.
func (l LoggingConfig) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(l.Level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, l.Level)
	}
}

// Addr returns the listen address.
func (s ServeConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
