package archive

import (
	"strings"
	"time"

	"github.com/Sumatoshi-tech/encore/internal/trend"
)

// IntermissionID is the work ID the archive uses for intermissions.
const IntermissionID = "0*"

// Placeholders substituted for missing fields.
const (
	UnknownID        = "unknown_id"
	UnknownComposer  = "Unknown,"
	UnknownTitle     = "Unknown"
	UnknownConductor = "Not conducted"
)

const dateOnlyLayout = "2006-01-02"

// ConcertRow is one program in the concerts table.
type ConcertRow struct {
	ID        string    `json:"id"`
	ProgramID string    `json:"program_id"`
	Orchestra string    `json:"orchestra"`
	Season    string    `json:"season"`
	Date      time.Time `json:"date"`
	Dated     bool      `json:"dated"`
}

// WorkRow is one performed work in the works table. Intermissions are
// never stored as rows.
type WorkRow struct {
	ID        string    `json:"id"`
	ProgramID string    `json:"program_id"`
	Composer  string    `json:"composer"`
	Title     string    `json:"title"`
	Movement  string    `json:"movement,omitempty"`
	Conductor string    `json:"conductor"`
	Soloists  []string  `json:"soloists,omitempty"`
	Date      time.Time `json:"date"`
	Dated     bool      `json:"dated"`
}

// Entity returns the row's identity within the family.
func (w WorkRow) Entity(family trend.Family) string {
	if family == trend.FamilyWork {
		return w.Title
	}

	return w.Composer
}

// Dataset holds the two normalized tables.
type Dataset struct {
	Concerts      []ConcertRow `json:"concerts"`
	Works         []WorkRow    `json:"works"`
	Intermissions int          `json:"intermissions"`
}

// BuildDataset flattens the archive. Row order follows the archive.
func BuildDataset(a *Archive) *Dataset {
	ds := &Dataset{}
	if a == nil {
		return ds
	}

	ds.Concerts = make([]ConcertRow, 0, len(a.Programs))

	for _, p := range a.Programs {
		date, dated := programDate(p)

		ds.Concerts = append(ds.Concerts, ConcertRow{
			ID:        orDefault(p.ID, UnknownID),
			ProgramID: orDefault(p.ProgramID, UnknownID),
			Orchestra: p.Orchestra,
			Season:    p.Season,
			Date:      date,
			Dated:     dated,
		})

		for _, w := range p.Works {
			if w.ID == IntermissionID {
				ds.Intermissions++

				continue
			}

			ds.Works = append(ds.Works, WorkRow{
				ID:        orDefault(w.ID, UnknownID),
				ProgramID: orDefault(p.ProgramID, UnknownID),
				Composer:  orDefault(w.ComposerName, UnknownComposer),
				Title:     orDefault(w.WorkTitle.String(), UnknownTitle),
				Movement:  w.Movement.String(),
				Conductor: orDefault(w.ConductorName, UnknownConductor),
				Soloists:  soloistNames(w.Soloists),
				Date:      date,
				Dated:     dated,
			})
		}
	}

	return ds
}

// Events projects the works table onto one family. Undated rows are left
// out; everything else keeps table order.
func (ds *Dataset) Events(family trend.Family) []trend.Event {
	events := make([]trend.Event, 0, len(ds.Works))

	for _, w := range ds.Works {
		if !w.Dated {
			continue
		}

		ev := trend.Event{
			EntityID:  w.Entity(family),
			ProgramID: w.ProgramID,
			Timestamp: w.Date,
		}

		if family == trend.FamilyWork {
			ev.Attribution = w.Composer
		}

		events = append(events, ev)
	}

	return events
}

// Index builds the trend index for one family.
func (ds *Dataset) Index(family trend.Family) *trend.Index {
	return trend.NewIndex(family, ds.Events(family))
}

// programDate parses the first concert's date as a UTC instant.
func programDate(p Program) (time.Time, bool) {
	if len(p.Concerts) == 0 {
		return time.Time{}, false
	}

	return ParseDate(p.Concerts[0].Date)
}

// ParseDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts.UTC(), true
	}

	if ts, err := time.Parse(dateOnlyLayout, raw); err == nil {
		return ts.UTC(), true
	}

	return time.Time{}, false
}

func soloistNames(soloists []Soloist) []string {
	if len(soloists) == 0 {
		return nil
	}

	names := make([]string, 0, len(soloists))

	for _, s := range soloists {
		if name := strings.TrimSpace(s.Name); name != "" {
			names = append(names, name)
		}
	}

	return names
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}

	return v
}
