// Package trend computes time-bucketed popularity curves for composers and works
// from a flat sequence of performance events.
//
// Two curve kinds are supported. Cumulative curves report the running total of
// performances to date and rank entities by that total. Step ("kagi") curves
// report only the count of the most recent period and rank entities by the value
// recorded at the current bucket boundary.
package trend

import "time"

// Family selects which attribute of a performed work identifies the entity.
type Family string

const (
	// FamilyComposer identifies entities by composer name.
	FamilyComposer Family = "composer"
	// FamilyWork identifies entities by work title.
	FamilyWork Family = "work"
)

// Families lists every supported family in display order.
var Families = []Family{FamilyComposer, FamilyWork}

// Valid reports whether f is a known family.
func (f Family) Valid() bool {
	return f == FamilyComposer || f == FamilyWork
}

// CurveKind selects how per-entity series are accumulated.
type CurveKind string

const (
	// CurveCumulative produces non-decreasing running totals.
	CurveCumulative CurveKind = "cumulative"
	// CurveStep produces per-period counts drawn with vertical jumps.
	CurveStep CurveKind = "step"
)

// Curves lists every supported curve kind in display order.
var Curves = []CurveKind{CurveCumulative, CurveStep}

// Valid reports whether c is a known curve kind.
func (c CurveKind) Valid() bool {
	return c == CurveCumulative || c == CurveStep
}

// Event is a single performance of a work within a concert program.
// Events are immutable once normalized.
type Event struct {
	// EntityID is the composer name or the work title, depending on the family.
	EntityID string `json:"entity_id"`
	// ProgramID identifies the concert program the work was performed in.
	ProgramID string `json:"program_id"`
	// Timestamp is the first performance date of the program, in UTC.
	Timestamp time.Time `json:"timestamp"`
	// Attribution is the composer of a work-family event. Empty for composers.
	Attribution string `json:"attribution,omitempty"`
}

// Year returns the calendar year the event falls in.
func (e Event) Year() int {
	return e.Timestamp.UTC().Year()
}
