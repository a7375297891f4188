package observability_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Sumatoshi-tech/encore/internal/observability"
)

func newManualMeter(t *testing.T) (*sdkmetric.MeterProvider, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	t.Cleanup(func() { require.NoError(t, mp.Shutdown(context.Background())) })

	return mp, reader
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var rm metricdata.ResourceMetrics

	require.NoError(t, reader.Collect(context.Background(), &rm))

	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for idx := range rm.ScopeMetrics {
		for midx := range rm.ScopeMetrics[idx].Metrics {
			if rm.ScopeMetrics[idx].Metrics[midx].Name == name {
				return &rm.ScopeMetrics[idx].Metrics[midx]
			}
		}
	}

	return nil
}

func sumValue(t *testing.T, m *metricdata.Metrics) int64 {
	t.Helper()
	require.NotNil(t, m)

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)

	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}

	return total
}

func TestREDMetrics_RecordRequest(t *testing.T) {
	t.Parallel()

	mp, reader := newManualMeter(t)

	red, err := observability.NewREDMetrics(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	red.RecordRequest(ctx, "GET /api/trends", observability.StatusOK, 20*time.Millisecond)
	red.RecordRequest(ctx, "GET /api/trends", observability.StatusError, time.Second)

	rm := collectMetrics(t, reader)

	assert.Equal(t, int64(2), sumValue(t, findMetric(rm, "encore.requests.total")))
	assert.Equal(t, int64(1), sumValue(t, findMetric(rm, "encore.errors.total")))
	assert.NotNil(t, findMetric(rm, "encore.request.duration.seconds"))
}

func TestREDMetrics_TrackInflight(t *testing.T) {
	t.Parallel()

	mp, reader := newManualMeter(t)

	red, err := observability.NewREDMetrics(mp.Meter("test"))
	require.NoError(t, err)

	done := red.TrackInflight(context.Background(), "encore_trends")
	assert.Equal(t, int64(1), sumValue(t, findMetric(collectMetrics(t, reader), "encore.inflight.requests")))

	done()
	assert.Equal(t, int64(0), sumValue(t, findMetric(collectMetrics(t, reader), "encore.inflight.requests")))
}

func TestREDMetrics_NilReceiver(t *testing.T) {
	t.Parallel()

	var red *observability.REDMetrics

	assert.NotPanics(t, func() {
		red.RecordRequest(context.Background(), "op", observability.StatusOK, time.Millisecond)
		red.TrackInflight(context.Background(), "op")()
	})
}

func TestTrendMetrics_RecordBuild(t *testing.T) {
	t.Parallel()

	mp, reader := newManualMeter(t)

	tm, err := observability.NewTrendMetrics(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	tm.RecordBuild(ctx, observability.BuildStats{
		Family: "composer", Curve: "step", Duration: 40 * time.Millisecond, Frames: 37, Events: 1200,
	})
	tm.RecordBuild(ctx, observability.BuildStats{
		Family: "work", Curve: "cumulative", Err: errors.New("canceled"),
	})
	tm.RecordCache(ctx, "composer", true)
	tm.RecordCache(ctx, "composer", false)
	tm.RecordCache(ctx, "work", false)

	rm := collectMetrics(t, reader)

	assert.Equal(t, int64(2), sumValue(t, findMetric(rm, "encore.trend.builds.total")))
	assert.Equal(t, int64(37), sumValue(t, findMetric(rm, "encore.trend.frames.total")))
	assert.Equal(t, int64(1200), sumValue(t, findMetric(rm, "encore.trend.events.total")))
	assert.Equal(t, int64(1), sumValue(t, findMetric(rm, "encore.trend.cache.hits.total")))
	assert.Equal(t, int64(2), sumValue(t, findMetric(rm, "encore.trend.cache.misses.total")))
}

func TestTrendMetrics_NilReceiver(t *testing.T) {
	t.Parallel()

	var tm *observability.TrendMetrics

	assert.NotPanics(t, func() {
		tm.RecordBuild(context.Background(), observability.BuildStats{})
		tm.RecordCache(context.Background(), "composer", true)
	})
}
