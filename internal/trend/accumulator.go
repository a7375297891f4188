package trend

// Point is one (x, y) vertex of a trend series. X is a bucket label year.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Trend is the append-only series of one entity.
// X values never decrease; consecutive updates in the same bucket merge into
// the last point instead of appending.
type Trend struct {
	points []Point
}

// Points returns a copy of the series. An empty series yields an empty,
// non-nil slice.
func (t *Trend) Points() []Point {
	out := make([]Point, len(t.points))
	copy(out, t.points)

	return out
}

// Len returns the number of points.
func (t *Trend) Len() int {
	return len(t.points)
}

// Last returns the final point. ok is false for an empty series.
func (t *Trend) Last() (Point, bool) {
	if len(t.points) == 0 {
		return Point{}, false
	}

	return t.points[len(t.points)-1], true
}

// ValueAt returns the value recorded exactly at label, or zero when the
// entity has no point at that label.
func (t *Trend) ValueAt(label int) int {
	last, ok := t.Last()
	if !ok || last.X != label {
		return 0
	}

	return last.Y
}

func (t *Trend) bumpLast() {
	t.points[len(t.points)-1].Y++
}

func (t *Trend) addCumulative(label int) {
	last, ok := t.Last()

	switch {
	case !ok:
		t.points = append(t.points, Point{X: label - 1, Y: 0}, Point{X: label, Y: 1})
	case last.X == label:
		t.bumpLast()
	default:
		t.points = append(t.points, Point{X: label, Y: last.Y + 1})
	}
}

func (t *Trend) addStep(label int) {
	last, ok := t.Last()

	switch {
	case !ok:
		t.points = append(t.points,
			Point{X: label - 1, Y: 0},
			Point{X: label, Y: 0},
			Point{X: label, Y: 1},
		)
	case last.X == label:
		t.bumpLast()
	default:
		// Carry the previous period's value to the boundary, then start the
		// new period at one.
		t.points = append(t.points, Point{X: label, Y: last.Y}, Point{X: label, Y: 1})
	}
}

// Accumulator owns the per-entity trends and frequency table of one run.
// It is not safe for concurrent use; every Build allocates its own.
type Accumulator struct {
	curve  CurveKind
	freq   *FrequencyTable
	trends map[string]*Trend
}

// NewAccumulator tracks exactly the given entities.
func NewAccumulator(curve CurveKind, entities []string) *Accumulator {
	freq := NewFrequencyTable(entities)
	trends := make(map[string]*Trend, freq.Len())

	for _, entity := range freq.order {
		trends[entity] = &Trend{}
	}

	return &Accumulator{curve: curve, freq: freq, trends: trends}
}

// Apply records one occurrence of entity in the bucket labelled label.
// It returns false, and changes nothing, for untracked entities.
func (a *Accumulator) Apply(entity string, label int) bool {
	tr, ok := a.trends[entity]
	if !ok {
		return false
	}

	if a.curve == CurveStep {
		tr.addStep(label)
	} else {
		tr.addCumulative(label)
	}

	a.freq.Inc(entity)

	return true
}

// Trend returns the entity's series, or nil when untracked.
func (a *Accumulator) Trend(entity string) *Trend {
	return a.trends[entity]
}

// Frequencies exposes the running frequency table.
func (a *Accumulator) Frequencies() *FrequencyTable {
	return a.freq
}

// Standings returns the values entities are ranked by at the bucket labelled
// label, in tracked order. Cumulative curves rank by running total; step
// curves rank by the value recorded at this exact label.
func (a *Accumulator) Standings(label int) []Ranked {
	if a.curve != CurveStep {
		return a.freq.Entries()
	}

	out := make([]Ranked, len(a.freq.order))

	for i, entity := range a.freq.order {
		out[i] = Ranked{Entity: entity, Value: a.trends[entity].ValueAt(label)}
	}

	return out
}
