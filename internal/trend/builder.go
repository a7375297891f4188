package trend

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel build errors.
var (
	ErrNilIndex       = errors.New("trend index is nil")
	ErrFamilyMismatch = errors.New("config family does not match index family")
)

// Series is one entity's curve as of a frame.
type Series struct {
	Entity  string  `json:"entity"  yaml:"entity"`
	Display string  `json:"display" yaml:"display"`
	Value   int     `json:"value"   yaml:"value"`
	Points  []Point `json:"points"  yaml:"points"`
}

// Frame is the ranked top-N snapshot taken after a bucket is processed.
type Frame struct {
	Name   string   `json:"name"   yaml:"name"`
	Label  int      `json:"label"  yaml:"label"`
	Series []Series `json:"series" yaml:"series"`
}

// Result is the full animation for one configuration.
type Result struct {
	Config  Config   `json:"config"         yaml:"config"`
	Labels  []string `json:"labels"         yaml:"labels"`
	Frames  []Frame  `json:"frames"         yaml:"frames"`
	XMin    int      `json:"x_min"          yaml:"x_min"`
	XMax    int      `json:"x_max"          yaml:"x_max"`
	YMax    int      `json:"y_max"          yaml:"y_max"`
	Tracked int      `json:"tracked"        yaml:"tracked"`
	Applied int      `json:"applied_events" yaml:"applied_events"`
}

// Final returns the last frame, or the zero frame for an empty result.
func (r *Result) Final() Frame {
	if len(r.Frames) == 0 {
		return Frame{}
	}

	return r.Frames[len(r.Frames)-1]
}

// Build runs the bucketed accumulation for cfg over the index.
// Each call owns its accumulator state, so concurrent calls may share ix.
// The context is checked between buckets.
func Build(ctx context.Context, ix *Index, cfg Config) (*Result, error) {
	if ix == nil {
		return nil, ErrNilIndex
	}

	cfg = cfg.Normalize()

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, validateErr
	}

	if ix.Family() != cfg.Family {
		return nil, fmt.Errorf("%w: %s != %s", ErrFamilyMismatch, cfg.Family, ix.Family())
	}

	tracked := cfg.Entities
	if len(tracked) == 0 {
		tracked = ix.Universe()
	}

	acc := NewAccumulator(cfg.Curve, tracked)
	buckets := PlanBuckets(cfg.StartYear, cfg.EndYear, cfg.Granularity)

	res := &Result{
		Config:  cfg,
		Labels:  make([]string, 0, len(buckets)),
		Frames:  make([]Frame, 0, len(buckets)),
		XMin:    cfg.StartYear,
		XMax:    cfg.EndYear,
		Tracked: acc.Frequencies().Len(),
	}

	for _, bucket := range buckets {
		ctxErr := ctx.Err()
		if ctxErr != nil {
			return nil, fmt.Errorf("build %s trend at %s: %w", cfg.Family, bucket.Name, ctxErr)
		}

		res.Applied += accumulateBucket(acc, ix, bucket, cfg.Unique)

		frame := snapshot(acc, ix, bucket, cfg.TopN)
		res.YMax = max(res.YMax, frameMax(frame))
		res.Frames = append(res.Frames, frame)
		res.Labels = append(res.Labels, bucket.Name)
	}

	return res, nil
}

func accumulateBucket(acc *Accumulator, ix *Index, bucket Bucket, unique bool) int {
	events := ix.EventsIn(bucket.Start, bucket.LastYear())
	if unique {
		events = Deduplicate(events)
	}

	applied := 0

	for _, ev := range events {
		if acc.Apply(ev.EntityID, bucket.Label) {
			applied++
		}
	}

	return applied
}

func snapshot(acc *Accumulator, ix *Index, bucket Bucket, topN int) Frame {
	top := TopN(acc.Standings(bucket.Label), topN)

	frame := Frame{
		Name:   bucket.Name,
		Label:  bucket.Label,
		Series: make([]Series, 0, len(top)),
	}

	for _, ranked := range top {
		frame.Series = append(frame.Series, Series{
			Entity:  ranked.Entity,
			Display: ix.Display(ranked.Entity),
			Value:   ranked.Value,
			Points:  acc.Trend(ranked.Entity).Points(),
		})
	}

	return frame
}

func frameMax(frame Frame) int {
	peak := 0

	for _, s := range frame.Series {
		for _, p := range s.Points {
			peak = max(peak, p.Y)
		}
	}

	return peak
}
