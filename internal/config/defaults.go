package config

import (
	"time"

	"github.com/Sumatoshi-tech/encore/internal/trend"
)

// Default values applied before the config file and environment.
const (
	DefaultArchive        = "complete.json"
	DefaultDatabase       = ""
	DefaultValidateSchema = false

	DefaultFamily      = string(trend.FamilyComposer)
	DefaultCurve       = string(trend.CurveCumulative)
	DefaultGranularity = trend.DefaultGranularity
	DefaultTopN        = trend.DefaultTopN
	DefaultStartYear   = trend.DefaultStartYear
	DefaultEndYear     = trend.DefaultEndYear

	DefaultServeHost      = "127.0.0.1"
	DefaultServePort      = 8050
	DefaultReadTimeout    = 10 * time.Second
	DefaultWriteTimeout   = 60 * time.Second
	DefaultCacheSize      = 64
	DefaultLogLevel       = "info"
	DefaultTelemetryRatio = 1.0
)
