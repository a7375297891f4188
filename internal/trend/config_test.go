package trend_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/encore/internal/trend"
)

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	base := trend.DefaultConfig(trend.FamilyComposer, trend.CurveCumulative)
	require.NoError(t, base.Validate())

	tests := []struct {
		name   string
		mutate func(*trend.Config)
		want   error
	}{
		{name: "unknown_family", mutate: func(c *trend.Config) { c.Family = "conductor" }, want: trend.ErrUnknownFamily},
		{name: "unknown_curve", mutate: func(c *trend.Config) { c.Curve = "kagi" }, want: trend.ErrUnknownCurve},
		{name: "zero_granularity", mutate: func(c *trend.Config) { c.Granularity = 0 }, want: trend.ErrInvalidGranularity},
		{name: "zero_top_n", mutate: func(c *trend.Config) { c.TopN = 0 }, want: trend.ErrInvalidTopN},
		{name: "inverted_domain", mutate: func(c *trend.Config) { c.StartYear = 1950; c.EndYear = 1900 }, want: trend.ErrInvalidDomain},
		{name: "end_year_max_int", mutate: func(c *trend.Config) { c.StartYear = 2020; c.EndYear = math.MaxInt }, want: trend.ErrYearOutOfRange},
		{name: "start_year_negative", mutate: func(c *trend.Config) { c.StartYear = -999999999 }, want: trend.ErrYearOutOfRange},
		{name: "start_year_zero", mutate: func(c *trend.Config) { c.StartYear = 0 }, want: trend.ErrYearOutOfRange},
		{
			name: "too_many_buckets",
			mutate: func(c *trend.Config) {
				c.StartYear = trend.MinYear
				c.EndYear = trend.MaxYear
				c.Granularity = 1
			},
			want: trend.ErrTooManyBuckets,
		},
		{
			name: "huge_granularity",
			mutate: func(c *trend.Config) {
				c.Granularity = math.MaxInt
				c.StartYear = trend.MinYear
				c.EndYear = trend.MaxYear
			},
			want: nil,
		},
		{
			name: "unique_works",
			mutate: func(c *trend.Config) {
				c.Family = trend.FamilyWork
				c.Unique = true
			},
			want: trend.ErrUniqueFamily,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := base
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.want == nil {
				assert.NoError(t, err)

				return
			}

			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestConfig_Validate_MaxBucketsAccepted(t *testing.T) {
	t.Parallel()

	cfg := trend.DefaultConfig(trend.FamilyComposer, trend.CurveStep)
	cfg.StartYear = 1000
	cfg.EndYear = 1000 + trend.MaxBuckets
	cfg.Granularity = 1

	require.NoError(t, cfg.Validate())

	cfg.EndYear++
	assert.ErrorIs(t, cfg.Validate(), trend.ErrTooManyBuckets)
}

func TestConfig_Normalize(t *testing.T) {
	t.Parallel()

	cfg := trend.DefaultConfig(trend.FamilyComposer, trend.CurveStep)
	cfg.Entities = []string{"Bach", " ", "Mozart", "Bach"}

	got := cfg.Normalize()

	assert.Equal(t, []string{"Bach", "Mozart"}, got.Entities)
	assert.Equal(t, 2, got.TopN)

	cfg.Entities = []string{""}
	assert.Nil(t, cfg.Normalize().Entities)
	assert.Equal(t, trend.DefaultTopN, cfg.Normalize().TopN)
}

func TestConfig_Key(t *testing.T) {
	t.Parallel()

	a := trend.DefaultConfig(trend.FamilyComposer, trend.CurveCumulative)
	b := a
	b.Markers = true

	assert.Equal(t, a.Key(), b.Key())

	c := a
	c.Unique = true
	assert.NotEqual(t, a.Key(), c.Key())

	d := a
	d.Entities = []string{"Bach"}
	e := a
	e.Entities = []string{"Bach", "Bach"}
	assert.Equal(t, d.Key(), e.Key())
	assert.NotEqual(t, a.Key(), d.Key())
}
