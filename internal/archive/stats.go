package archive

import (
	"maps"
	"slices"

	"github.com/Sumatoshi-tech/encore/internal/trend"
)

// Summary is the archive-wide overview printed by the stats command.
type Summary struct {
	Concerts           int            `json:"concerts"             yaml:"concerts"`
	Works              int            `json:"works"                yaml:"works"`
	Intermissions      int            `json:"intermissions"        yaml:"intermissions"`
	UndatedConcerts    int            `json:"undated_concerts"     yaml:"undated_concerts"`
	AvgWorksPerConcert float64        `json:"avg_works_per_concert" yaml:"avg_works_per_concert"`
	FirstYear          int            `json:"first_year,omitempty" yaml:"first_year,omitempty"`
	LastYear           int            `json:"last_year,omitempty"  yaml:"last_year,omitempty"`
	Composers          int            `json:"distinct_composers"   yaml:"distinct_composers"`
	Titles             int            `json:"distinct_works"       yaml:"distinct_works"`
	TopComposers       []trend.Ranked `json:"top_composers"        yaml:"top_composers"`
	TopWorks           []trend.Ranked `json:"top_works"            yaml:"top_works"`
}

// Frequencies counts every work row per entity, dated or not, ordered by
// descending count with alphabetical tie-break.
func (ds *Dataset) Frequencies(family trend.Family) []trend.Ranked {
	counts := make(map[string]int)
	for _, w := range ds.Works {
		counts[w.Entity(family)]++
	}

	names := slices.Sorted(maps.Keys(counts))
	entries := make([]trend.Ranked, len(names))

	for i, name := range names {
		entries[i] = trend.Ranked{Entity: name, Value: counts[name]}
	}

	return trend.TopN(entries, len(entries))
}

// Summarize computes the overview, listing up to top entities per family.
func (ds *Dataset) Summarize(top int) Summary {
	s := Summary{
		Concerts:      len(ds.Concerts),
		Works:         len(ds.Works),
		Intermissions: ds.Intermissions,
	}

	if s.Concerts > 0 {
		s.AvgWorksPerConcert = float64(s.Works) / float64(s.Concerts)
	}

	first := true

	for _, c := range ds.Concerts {
		if !c.Dated {
			s.UndatedConcerts++

			continue
		}

		year := c.Date.Year()
		if first || year < s.FirstYear {
			s.FirstYear = year
		}

		if first || year > s.LastYear {
			s.LastYear = year
		}

		first = false
	}

	composers := ds.Frequencies(trend.FamilyComposer)
	titles := ds.Frequencies(trend.FamilyWork)

	s.Composers = len(composers)
	s.Titles = len(titles)
	s.TopComposers = trend.TopN(composers, top)
	s.TopWorks = trend.TopN(titles, top)

	return s
}

// Catalog returns every distinct "composer: title" pair, sorted.
func (ds *Dataset) Catalog() []string {
	seen := make(map[string]struct{}, len(ds.Works))
	for _, w := range ds.Works {
		seen[w.Composer+": "+w.Title] = struct{}{}
	}

	return slices.Sorted(maps.Keys(seen))
}
