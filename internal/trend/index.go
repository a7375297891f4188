package trend

import (
	"maps"
	"slices"
)

// workLabelSep joins a work title with its composer for display.
const workLabelSep = " - "

// Index is an immutable, pre-grouped view over one family's events.
// It is built once and shared read-only across any number of Build calls.
type Index struct {
	family   Family
	byYear   map[int][]Event
	universe []string
	totals   map[string]int
	display  map[string]string
	events   int
	minYear  int
	maxYear  int
}

// NewIndex groups events by calendar year and collects the entity universe.
// Event order within a year is preserved.
func NewIndex(family Family, events []Event) *Index {
	ix := &Index{
		family:  family,
		byYear:  make(map[int][]Event),
		totals:  make(map[string]int),
		display: make(map[string]string),
		events:  len(events),
	}

	for i, ev := range events {
		year := ev.Year()
		ix.byYear[year] = append(ix.byYear[year], ev)
		ix.totals[ev.EntityID]++

		if _, seen := ix.display[ev.EntityID]; !seen {
			ix.display[ev.EntityID] = displayName(family, ev)
		}

		if i == 0 || year < ix.minYear {
			ix.minYear = year
		}

		if i == 0 || year > ix.maxYear {
			ix.maxYear = year
		}
	}

	ix.universe = slices.Sorted(maps.Keys(ix.totals))

	return ix
}

func displayName(family Family, ev Event) string {
	if family == FamilyWork && ev.Attribution != "" {
		return ev.EntityID + workLabelSep + ev.Attribution
	}

	return ev.EntityID
}

// Family returns the family the index was built for.
func (ix *Index) Family() Family {
	return ix.family
}

// Len returns the number of indexed events.
func (ix *Index) Len() int {
	return ix.events
}

// Universe returns every distinct entity, sorted alphabetically.
func (ix *Index) Universe() []string {
	return slices.Clone(ix.universe)
}

// Contains reports whether the entity has at least one event.
func (ix *Index) Contains(entity string) bool {
	_, ok := ix.totals[entity]

	return ok
}

// Total returns the number of events for the entity across all years.
func (ix *Index) Total(entity string) int {
	return ix.totals[entity]
}

// Display returns the human-readable label for an entity.
// Works are labelled "title - composer" using the first composer seen.
func (ix *Index) Display(entity string) string {
	if name, ok := ix.display[entity]; ok {
		return name
	}

	return entity
}

// YearSpan returns the first and last calendar years present.
// ok is false for an empty index.
func (ix *Index) YearSpan() (first, last int, ok bool) {
	if ix.events == 0 {
		return 0, 0, false
	}

	return ix.minYear, ix.maxYear, true
}

// EventsIn returns the events whose year lies in [from, to], in year order.
// The returned slice is freshly allocated; the index is never exposed.
func (ix *Index) EventsIn(from, to int) []Event {
	var out []Event

	for year := from; year <= to; year++ {
		out = append(out, ix.byYear[year]...)
	}

	return out
}

// Leaders returns up to n entities ordered by total event count.
// Ties keep alphabetical order.
func (ix *Index) Leaders(n int) []Ranked {
	entries := make([]Ranked, len(ix.universe))

	for i, entity := range ix.universe {
		entries[i] = Ranked{Entity: entity, Value: ix.totals[entity]}
	}

	return TopN(entries, n)
}
