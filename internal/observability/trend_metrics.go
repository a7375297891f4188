package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricBuildsTotal      = "encore.trend.builds.total"
	metricBuildDuration    = "encore.trend.build.duration.seconds"
	metricFramesTotal      = "encore.trend.frames.total"
	metricEventsTotal      = "encore.trend.events.total"
	metricCacheHitsTotal   = "encore.trend.cache.hits.total"
	metricCacheMissesTotal = "encore.trend.cache.misses.total"

	attrFamily = "family"
	attrCurve  = "curve"
)

// TrendMetrics holds the instruments describing trend builds.
type TrendMetrics struct {
	builds        metric.Int64Counter
	buildDuration metric.Float64Histogram
	frames        metric.Int64Counter
	events        metric.Int64Counter
	cacheHits     metric.Int64Counter
	cacheMisses   metric.Int64Counter
}

// BuildStats summarizes one finished build.
type BuildStats struct {
	Family   string
	Curve    string
	Duration time.Duration
	Frames   int
	Events   int
	Err      error
}

// NewTrendMetrics creates the instruments on mt.
func NewTrendMetrics(mt metric.Meter) (*TrendMetrics, error) {
	builds, err := mt.Int64Counter(metricBuildsTotal,
		metric.WithDescription("Trend builds by family, curve and outcome"),
		metric.WithUnit("{build}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricBuildsTotal, err)
	}

	duration, err := mt.Float64Histogram(metricBuildDuration,
		metric.WithDescription("Trend build duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBuckets...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricBuildDuration, err)
	}

	frames, err := mt.Int64Counter(metricFramesTotal,
		metric.WithDescription("Animation frames produced"),
		metric.WithUnit("{frame}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricFramesTotal, err)
	}

	events, err := mt.Int64Counter(metricEventsTotal,
		metric.WithDescription("Performance events applied to trends"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricEventsTotal, err)
	}

	hits, err := mt.Int64Counter(metricCacheHitsTotal,
		metric.WithDescription("Trend results served from cache"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricCacheHitsTotal, err)
	}

	misses, err := mt.Int64Counter(metricCacheMissesTotal,
		metric.WithDescription("Trend results computed because the cache had none"),
		metric.WithUnit("{miss}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricCacheMissesTotal, err)
	}

	return &TrendMetrics{
		builds:        builds,
		buildDuration: duration,
		frames:        frames,
		events:        events,
		cacheHits:     hits,
		cacheMisses:   misses,
	}, nil
}

// RecordBuild records one build. Safe on a nil receiver.
func (tm *TrendMetrics) RecordBuild(ctx context.Context, stats BuildStats) {
	if tm == nil {
		return
	}

	status := StatusOK
	if stats.Err != nil {
		status = StatusError
	}

	kind := metric.WithAttributes(
		attribute.String(attrFamily, stats.Family),
		attribute.String(attrCurve, stats.Curve),
	)

	tm.builds.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrFamily, stats.Family),
		attribute.String(attrCurve, stats.Curve),
		attribute.String(attrStatus, status),
	))
	tm.buildDuration.Record(ctx, stats.Duration.Seconds(), kind)
	tm.frames.Add(ctx, int64(stats.Frames), kind)
	tm.events.Add(ctx, int64(stats.Events), kind)
}

// RecordCache records a result-cache lookup. Safe on a nil receiver.
func (tm *TrendMetrics) RecordCache(ctx context.Context, family string, hit bool) {
	if tm == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String(attrFamily, family))

	if hit {
		tm.cacheHits.Add(ctx, 1, attrs)

		return
	}

	tm.cacheMisses.Add(ctx, 1, attrs)
}
