package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/Sumatoshi-tech/encore/internal/archive"
	"github.com/Sumatoshi-tech/encore/internal/explore"
	"github.com/Sumatoshi-tech/encore/internal/trend"
)

// WriteSummary renders archive-wide statistics.
func WriteSummary(w io.Writer, format string, s archive.Summary, opts Options) error {
	normalized, err := ValidateFormat(format, TableFormats)
	if err != nil {
		return err
	}

	switch normalized {
	case FormatJSON:
		return writeJSON(w, s)
	case FormatYAML:
		return writeYAML(w, s)
	default:
		return writeString(w, SummaryText(s, opts))
	}
}

// SummaryText renders the statistics as terminal tables.
func SummaryText(s archive.Summary, opts Options) string {
	var b strings.Builder

	b.WriteString(opts.paint(color.Bold).Sprint("=== ARCHIVE SUMMARY ==="))
	b.WriteString("\n")

	overview := newTable()
	overview.AppendRows([]table.Row{
		{"Concerts", humanize.Comma(int64(s.Concerts))},
		{"Undated concerts", humanize.Comma(int64(s.UndatedConcerts))},
		{"Works performed", humanize.Comma(int64(s.Works))},
		{"Intermissions", humanize.Comma(int64(s.Intermissions))},
		{"Works per concert", humanize.FormatFloat("#.##", s.AvgWorksPerConcert)},
		{"Distinct composers", humanize.Comma(int64(s.Composers))},
		{"Distinct works", humanize.Comma(int64(s.Titles))},
	})

	if s.FirstYear != 0 {
		overview.AppendRow(table.Row{"Seasons", fmt.Sprintf("%d-%d", s.FirstYear, s.LastYear)})
	}

	b.WriteString(overview.Render())
	b.WriteString("\n\n")
	b.WriteString(rankedTable("Top composers", "Composer", s.TopComposers))
	b.WriteString("\n\n")
	b.WriteString(rankedTable("Top works", "Work", s.TopWorks))
	b.WriteString("\n")

	return b.String()
}

func newTable() table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Format.Header = text.FormatDefault
	tbl.Style().Format.Footer = text.FormatDefault

	return tbl
}

func rankedTable(title, header string, entries []trend.Ranked) string {
	tbl := newTable()
	tbl.SetTitle(title)
	tbl.AppendHeader(table.Row{"#", header, "Performances"})

	for i, r := range entries {
		tbl.AppendRow(table.Row{i + 1, r.Entity, humanize.Comma(int64(r.Value))})
	}

	return tbl.Render()
}

// WriteEntities renders an entity listing.
func WriteEntities(w io.Writer, format string, family trend.Family, entities []explore.Entity, opts Options) error {
	normalized, err := ValidateFormat(format, TableFormats)
	if err != nil {
		return err
	}

	switch normalized {
	case FormatJSON:
		return writeJSON(w, entities)
	case FormatYAML:
		return writeYAML(w, entities)
	default:
		return writeString(w, EntitiesText(family, entities, opts))
	}
}

// EntitiesText renders an entity listing as a terminal table.
func EntitiesText(family trend.Family, entities []explore.Entity, opts Options) string {
	if len(entities) == 0 {
		return opts.paint(color.FgYellow).Sprint("No matching entities.") + "\n"
	}

	tbl := newTable()
	tbl.AppendHeader(table.Row{familyHeader(family), "Performances"})

	for _, e := range entities {
		tbl.AppendRow(table.Row{e.Display, humanize.Comma(int64(e.Total))})
	}

	tbl.AppendFooter(table.Row{"Listed", humanize.Comma(int64(len(entities)))})

	return tbl.Render() + "\n"
}
