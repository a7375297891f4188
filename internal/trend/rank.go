package trend

import (
	"cmp"
	"slices"
)

// Ranked pairs an entity with the value it is ranked by.
type Ranked struct {
	Entity string `json:"entity" yaml:"entity"`
	Value  int    `json:"value"  yaml:"value"`
}

// FrequencyTable counts events per tracked entity.
// Iteration follows the order the entities were registered in.
type FrequencyTable struct {
	order  []string
	counts map[string]int
}

// NewFrequencyTable creates a zeroed table over the given entities.
// Duplicate entities are registered once.
func NewFrequencyTable(entities []string) *FrequencyTable {
	ft := &FrequencyTable{
		order:  make([]string, 0, len(entities)),
		counts: make(map[string]int, len(entities)),
	}

	for _, entity := range entities {
		if _, ok := ft.counts[entity]; ok {
			continue
		}

		ft.counts[entity] = 0
		ft.order = append(ft.order, entity)
	}

	return ft
}

// Inc adds one to the entity's count. Untracked entities are ignored.
func (ft *FrequencyTable) Inc(entity string) bool {
	if _, ok := ft.counts[entity]; !ok {
		return false
	}

	ft.counts[entity]++

	return true
}

// Count returns the entity's current count.
func (ft *FrequencyTable) Count(entity string) int {
	return ft.counts[entity]
}

// Tracked reports whether the entity is part of the table.
func (ft *FrequencyTable) Tracked(entity string) bool {
	_, ok := ft.counts[entity]

	return ok
}

// Len returns the number of tracked entities.
func (ft *FrequencyTable) Len() int {
	return len(ft.order)
}

// Entities returns the tracked entities in registration order.
func (ft *FrequencyTable) Entities() []string {
	return slices.Clone(ft.order)
}

// Entries returns every (entity, count) pair in registration order.
func (ft *FrequencyTable) Entries() []Ranked {
	out := make([]Ranked, len(ft.order))

	for i, entity := range ft.order {
		out[i] = Ranked{Entity: entity, Value: ft.counts[entity]}
	}

	return out
}

// TopN returns the n highest-valued entries, highest first.
// Equal values keep their input order. n >= len(entries) returns all of them.
func TopN(entries []Ranked, n int) []Ranked {
	sorted := slices.Clone(entries)

	slices.SortStableFunc(sorted, func(a, b Ranked) int {
		return cmp.Compare(b.Value, a.Value)
	})

	if n < 0 {
		n = 0
	}

	if n < len(sorted) {
		sorted = sorted[:n]
	}

	return sorted
}
