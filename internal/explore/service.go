package explore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/encore/internal/observability"
	"github.com/Sumatoshi-tech/encore/internal/trend"
)

// DefaultCacheSize is the number of results kept when Options leaves it unset.
const DefaultCacheSize = 64

// ErrSuperseded is returned by ComputeLatest when a newer request on the same
// channel cancelled this one.
var ErrSuperseded = errors.New("superseded by a newer request")

// Options configures a Service. Zero values are usable.
type Options struct {
	CacheSize int
	Logger    *slog.Logger
	Tracer    trace.Tracer
	Metrics   *observability.TrendMetrics
}

type buildFunc func(ctx context.Context, ix *trend.Index, cfg trend.Config) (*trend.Result, error)

type run struct {
	token  uint64
	cancel context.CancelCauseFunc
}

// Service computes trend results. It is safe for concurrent use.
type Service struct {
	catalog *Catalog
	cache   *lru.Cache
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *observability.TrendMetrics
	build   buildFunc

	mu       sync.Mutex
	seq      uint64
	inflight map[string]run
}

// NewService creates a service over catalog.
func NewService(catalog *Catalog, opts Options) (*Service, error) {
	size := opts.CacheSize
	if size <= 0 {
		size = DefaultCacheSize
	}

	cache, cacheErr := lru.New(size)
	if cacheErr != nil {
		return nil, fmt.Errorf("create result cache: %w", cacheErr)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	tracer := opts.Tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer("")
	}

	return &Service{
		catalog:  catalog,
		cache:    cache,
		logger:   logger,
		tracer:   tracer,
		metrics:  opts.Metrics,
		build:    trend.Build,
		inflight: make(map[string]run),
	}, nil
}

// Catalog returns the catalog the service reads from.
func (s *Service) Catalog() *Catalog {
	return s.catalog
}

// Compute returns the result for cfg, from cache when possible. Entity
// names are resolved case-insensitively; unknown names fail with a
// lookup.UnknownEntityError carrying suggestions.
func (s *Service) Compute(ctx context.Context, cfg trend.Config) (*trend.Result, error) {
	cfg = cfg.Normalize()

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, validateErr
	}

	if len(cfg.Entities) > 0 {
		resolved, resolveErr := s.catalog.Resolve(cfg.Family, cfg.Entities)
		if resolveErr != nil {
			return nil, resolveErr
		}

		cfg.Entities = resolved
		cfg = cfg.Normalize()
	}

	key := cfg.Key()

	if cached, ok := s.cache.Get(key); ok {
		s.metrics.RecordCache(ctx, string(cfg.Family), true)

		return withMarkers(cached.(*trend.Result), cfg.Markers), nil
	}

	s.metrics.RecordCache(ctx, string(cfg.Family), false)

	res, buildErr := s.compute(ctx, cfg)
	if buildErr != nil {
		return nil, buildErr
	}

	s.cache.Add(key, res)

	return withMarkers(res, cfg.Markers), nil
}

func (s *Service) compute(ctx context.Context, cfg trend.Config) (*trend.Result, error) {
	ctx, span := s.tracer.Start(ctx, "encore.trend.build",
		trace.WithAttributes(
			attribute.String("trend.family", string(cfg.Family)),
			attribute.String("trend.curve", string(cfg.Curve)),
			attribute.Int("trend.granularity", cfg.Granularity),
			attribute.Int("trend.top_n", cfg.TopN),
			attribute.Bool("trend.unique", cfg.Unique),
		),
	)
	defer span.End()

	ix, ixErr := s.catalog.Index(cfg.Family)
	if ixErr != nil {
		return nil, ixErr
	}

	start := time.Now()
	res, err := s.build(ctx, ix, cfg)
	elapsed := time.Since(start)

	stats := observability.BuildStats{
		Family:   string(cfg.Family),
		Curve:    string(cfg.Curve),
		Duration: elapsed,
		Err:      err,
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.metrics.RecordBuild(ctx, stats)

		return nil, fmt.Errorf("compute trend: %w", err)
	}

	stats.Frames = len(res.Frames)
	stats.Events = res.Applied
	s.metrics.RecordBuild(ctx, stats)

	span.SetAttributes(attribute.Int("trend.frames", len(res.Frames)))
	s.logger.DebugContext(ctx, "trend built",
		"family", cfg.Family,
		"curve", cfg.Curve,
		"frames", len(res.Frames),
		"events", res.Applied,
		"duration", elapsed,
	)

	return res, nil
}

// ComputeLatest runs Compute, first cancelling any computation still in
// flight on the same channel. A cancelled run returns ErrSuperseded.
func (s *Service) ComputeLatest(ctx context.Context, channel string, cfg trend.Config) (*trend.Result, error) {
	runCtx, cancel := context.WithCancelCause(ctx)

	s.mu.Lock()
	if prev, ok := s.inflight[channel]; ok {
		prev.cancel(ErrSuperseded)
	}

	s.seq++
	token := s.seq
	s.inflight[channel] = run{token: token, cancel: cancel}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		if cur, ok := s.inflight[channel]; ok && cur.token == token {
			delete(s.inflight, channel)
		}
		s.mu.Unlock()

		cancel(nil)
	}()

	res, err := s.Compute(runCtx, cfg)
	if err != nil && errors.Is(context.Cause(runCtx), ErrSuperseded) {
		s.logger.DebugContext(ctx, "trend request superseded", "channel", channel)

		return nil, ErrSuperseded
	}

	return res, err
}

// Inflight reports how many channels have a computation running.
func (s *Service) Inflight() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.inflight)
}

// withMarkers returns res carrying the requested marker flag. Markers do
// not take part in the cache key, so a shallow copy suffices.
func withMarkers(res *trend.Result, markers bool) *trend.Result {
	if res.Config.Markers == markers {
		return res
	}

	cp := *res
	cp.Config.Markers = markers

	return &cp
}
