package config_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/encore/internal/config"
	"github.com/Sumatoshi-tech/encore/internal/observability"
	"github.com/Sumatoshi-tech/encore/internal/trend"
)

func TestTrendConfig_Chart(t *testing.T) {
	t.Parallel()

	tc := config.Defaults().Trend
	tc.Unique = true

	composer := tc.Chart(trend.FamilyComposer, trend.CurveStep)
	assert.True(t, composer.Unique)
	require.NoError(t, composer.Validate())

	work := tc.Chart(trend.FamilyWork, trend.CurveStep)
	assert.False(t, work.Unique)
	require.NoError(t, work.Validate())
}

func TestLoggingConfig_SlogLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]slog.Level{
		"":        slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}

	for raw, want := range tests {
		got, err := config.LoggingConfig{Level: raw}.SlogLevel()
		require.NoError(t, err)
		assert.Equal(t, want, got, raw)
	}

	_, err := config.LoggingConfig{Level: "trace"}.SlogLevel()
	assert.ErrorIs(t, err, config.ErrInvalidLogLevel)
}

func TestConfig_Observability(t *testing.T) {
	t.Parallel()

	cfg := config.Defaults()
	cfg.Logging.Level = "warn"
	cfg.Telemetry.OTLPEndpoint = "collector:4317"
	cfg.Telemetry.OTLPHeaders = "x-team=arts"

	oc := cfg.Observability(observability.ModeServe, "1.2.3")

	assert.Equal(t, "encore", oc.ServiceName)
	assert.Equal(t, "1.2.3", oc.ServiceVersion)
	assert.Equal(t, observability.ModeServe, oc.Mode)
	assert.Equal(t, slog.LevelWarn, oc.LogLevel)
	assert.Equal(t, map[string]string{"x-team": "arts"}, oc.OTLPHeaders)
	assert.True(t, oc.Prometheus)

	assert.False(t, cfg.Observability(observability.ModeCLI, "").Prometheus)
}
