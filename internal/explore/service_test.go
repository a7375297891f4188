package explore_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/encore/internal/archive"
	"github.com/Sumatoshi-tech/encore/internal/explore"
	"github.com/Sumatoshi-tech/encore/internal/lookup"
	"github.com/Sumatoshi-tech/encore/internal/trend"
)

func work(program, composer, title string, year int) archive.WorkRow {
	return archive.WorkRow{
		ID:        program + title,
		ProgramID: program,
		Composer:  composer,
		Title:     title,
		Conductor: archive.UnknownConductor,
		Date:      time.Date(year, time.October, 1, 0, 0, 0, 0, time.UTC),
		Dated:     true,
	}
}

func testCatalog() *explore.Catalog {
	return explore.NewCatalog(&archive.Dataset{
		Works: []archive.WorkRow{
			work("1", "Bach,  Johann  Sebastian", "Brandenburg Concerto No. 3", 1900),
			work("2", "Bach,  Johann  Sebastian", "Brandenburg Concerto No. 3", 1900),
			work("2", "Beethoven,  Ludwig  van", "Symphony No. 5", 1903),
			work("3", "Mozart,  Wolfgang  Amadeus", "Symphony No. 40", 1905),
			work("4", "Beethoven,  Ludwig  van", "Symphony No. 5", 1950),
			work("4", "Beethoven,  Ludwig  van", "Egmont Overture", 1950),
		},
	})
}

func composerConfig() trend.Config {
	cfg := trend.DefaultConfig(trend.FamilyComposer, trend.CurveCumulative)
	cfg.StartYear = 1900
	cfg.EndYear = 1960

	return cfg
}

func countingService(t *testing.T) (*explore.Service, *atomic.Int32) {
	t.Helper()

	svc, err := explore.NewService(testCatalog(), explore.Options{CacheSize: 4})
	require.NoError(t, err)

	var builds atomic.Int32

	svc.SetBuild(func(ctx context.Context, ix *trend.Index, cfg trend.Config) (*trend.Result, error) {
		builds.Add(1)

		return trend.Build(ctx, ix, cfg)
	})

	return svc, &builds
}

func TestCatalog(t *testing.T) {
	t.Parallel()

	c := testCatalog()

	all, err := c.Entities(trend.FamilyWork, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.Equal(t, "Brandenburg Concerto No. 3 - Bach,  Johann  Sebastian", all[0].Display)

	symphonies, err := c.Entities(trend.FamilyWork, "SYMPHONY", 1)
	require.NoError(t, err)
	assert.Equal(t, []explore.Entity{{Name: "Symphony No. 40", Display: "Symphony No. 40 - Mozart,  Wolfgang  Amadeus", Total: 1}}, symphonies)

	leaders, err := c.Leaders(trend.FamilyComposer, 1)
	require.NoError(t, err)
	assert.Equal(t, "Beethoven,  Ludwig  van", leaders[0].Name)
	assert.Equal(t, 3, leaders[0].Total)

	_, err = c.Index("conductor")
	assert.ErrorIs(t, err, trend.ErrUnknownFamily)

	resolved, err := c.Resolve(trend.FamilyComposer, []string{"mozart, wolfgang amadeus"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Mozart,  Wolfgang  Amadeus"}, resolved)
}

func TestService_ComputeCaches(t *testing.T) {
	t.Parallel()

	svc, builds := countingService(t)
	ctx := context.Background()

	first, err := svc.Compute(ctx, composerConfig())
	require.NoError(t, err)

	second, err := svc.Compute(ctx, composerConfig())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), builds.Load())

	marked := composerConfig()
	marked.Markers = true

	third, err := svc.Compute(ctx, marked)
	require.NoError(t, err)

	assert.True(t, third.Config.Markers)
	assert.False(t, first.Config.Markers)
	assert.Equal(t, first.Frames, third.Frames)
	assert.Equal(t, int32(1), builds.Load())

	step := composerConfig()
	step.Curve = trend.CurveStep

	_, err = svc.Compute(ctx, step)
	require.NoError(t, err)
	assert.Equal(t, int32(2), builds.Load())
}

func TestService_ComputeResolvesEntities(t *testing.T) {
	t.Parallel()

	svc, _ := countingService(t)

	cfg := composerConfig()
	cfg.Entities = []string{"beethoven, ludwig van"}

	res, err := svc.Compute(context.Background(), cfg)
	require.NoError(t, err)

	require.Len(t, res.Final().Series, 1)
	assert.Equal(t, "Beethoven,  Ludwig  van", res.Final().Series[0].Entity)
	assert.Equal(t, 3, res.Final().Series[0].Value)

	cfg.Entities = []string{"Betoven"}

	_, err = svc.Compute(context.Background(), cfg)
	require.ErrorIs(t, err, lookup.ErrUnknownEntity)
}

func TestService_ComputeRejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	svc, builds := countingService(t)

	cfg := composerConfig()
	cfg.Family = trend.FamilyWork
	cfg.Unique = true

	_, err := svc.Compute(context.Background(), cfg)
	require.ErrorIs(t, err, trend.ErrUniqueFamily)
	assert.Zero(t, builds.Load())
}

func TestService_ComputeLatestSupersedes(t *testing.T) {
	t.Parallel()

	svc, err := explore.NewService(testCatalog(), explore.Options{})
	require.NoError(t, err)

	started := make(chan struct{})

	var calls atomic.Int32

	svc.SetBuild(func(ctx context.Context, ix *trend.Index, cfg trend.Config) (*trend.Result, error) {
		if calls.Add(1) == 1 {
			close(started)
			<-ctx.Done()

			return nil, ctx.Err()
		}

		return trend.Build(ctx, ix, cfg)
	})

	type outcome struct {
		res *trend.Result
		err error
	}

	slow := make(chan outcome, 1)

	go func() {
		res, computeErr := svc.ComputeLatest(context.Background(), "composer-chart", composerConfig())
		slow <- outcome{res: res, err: computeErr}
	}()

	<-started

	newer := composerConfig()
	newer.Granularity = 10

	res, err := svc.ComputeLatest(context.Background(), "composer-chart", newer)
	require.NoError(t, err)
	assert.Equal(t, 10, res.Config.Granularity)

	old := <-slow
	require.ErrorIs(t, old.err, explore.ErrSuperseded)
	assert.Nil(t, old.res)
	assert.Zero(t, svc.Inflight())
}

func TestService_ComputeLatestChannelsAreIndependent(t *testing.T) {
	t.Parallel()

	svc, _ := countingService(t)
	ctx := context.Background()

	composers, err := svc.ComputeLatest(ctx, "composer-chart", composerConfig())
	require.NoError(t, err)

	workCfg := composerConfig()
	workCfg.Family = trend.FamilyWork

	works, err := svc.ComputeLatest(ctx, "work-chart", workCfg)
	require.NoError(t, err)

	assert.Equal(t, trend.FamilyComposer, composers.Config.Family)
	assert.Equal(t, trend.FamilyWork, works.Config.Family)
}
