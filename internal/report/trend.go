package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/guptarohit/asciigraph"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Sumatoshi-tech/encore/internal/plotpage"
	"github.com/Sumatoshi-tech/encore/internal/trend"
)

const (
	sparkHeight = 8
	sparkWidth  = 64
)

// WriteTrend renders res in the given format.
func WriteTrend(w io.Writer, format string, res *trend.Result, opts Options) error {
	normalized, err := ValidateFormat(format, TrendFormats)
	if err != nil {
		return err
	}

	switch normalized {
	case FormatJSON:
		return writeJSON(w, res)
	case FormatYAML:
		return writeYAML(w, res)
	case FormatHTML:
		renderErr := TrendPage(res, opts).Render(w)
		if renderErr != nil {
			return fmt.Errorf("render trend page: %w", renderErr)
		}

		return nil
	default:
		return writeString(w, TrendText(res, opts))
	}
}

// Title names the chart of a configuration.
func Title(cfg trend.Config) string {
	noun := "Composer"
	if cfg.Family == trend.FamilyWork {
		noun = "Work"
	}

	if cfg.Curve == trend.CurveStep {
		return noun + " popularity per period"
	}

	return noun + " popularity, cumulative"
}

// Describe summarizes the configuration in one line.
func Describe(res *trend.Result) string {
	cfg := res.Config

	parts := []string{
		fmt.Sprintf("%d-%d", cfg.StartYear, cfg.EndYear),
		strconv.Itoa(cfg.Granularity) + "-year steps",
		"top " + strconv.Itoa(cfg.TopN),
		humanize.Comma(int64(len(res.Frames))) + " frames",
		humanize.Comma(int64(res.Applied)) + " performances",
	}

	if cfg.Unique {
		parts = append(parts, "once per concert")
	}

	if len(cfg.Entities) > 0 {
		parts = append(parts, "filtered to "+strconv.Itoa(len(cfg.Entities)))
	}

	return strings.Join(parts, " · ")
}

func valueHeader(curve trend.CurveKind) string {
	if curve == trend.CurveStep {
		return "Last period"
	}

	return "Performances"
}

// TrendText renders the final standings as a terminal report with a
// sparkline of the leader's curve.
func TrendText(res *trend.Result, opts Options) string {
	var b strings.Builder

	b.WriteString(opts.paint(color.Bold).Sprint("=== " + Title(res.Config) + " ==="))
	b.WriteString("\n")
	b.WriteString(opts.paint(color.FgHiBlack).Sprint(Describe(res)))
	b.WriteString("\n\n")

	final := res.Final()
	if len(final.Series) == 0 {
		b.WriteString("No performances in range.\n")

		return b.String()
	}

	leader := final.Series[0]
	if len(leader.Points) > 1 {
		data := make([]float64, len(leader.Points))
		for i, p := range leader.Points {
			data[i] = float64(p.Y)
		}

		b.WriteString(asciigraph.Plot(data,
			asciigraph.Height(sparkHeight),
			asciigraph.Width(sparkWidth),
			asciigraph.Caption(leader.Display),
		))
		b.WriteString("\n\n")
	}

	tbl := newTable()
	tbl.SetTitle("Standings at " + final.Name)
	tbl.AppendHeader(table.Row{"#", familyHeader(res.Config.Family), valueHeader(res.Config.Curve)})

	for i, s := range final.Series {
		tbl.AppendRow(table.Row{i + 1, s.Display, humanize.Comma(int64(s.Value))})
	}

	tbl.AppendFooter(table.Row{"", "Tracked", humanize.Comma(int64(res.Tracked))})

	b.WriteString(tbl.Render())
	b.WriteString("\n")

	return b.String()
}

func familyHeader(family trend.Family) string {
	if family == trend.FamilyWork {
		return "Work"
	}

	return "Composer"
}

// ChartID is the DOM id of the trend chart for a configuration.
func ChartID(cfg trend.Config) string {
	return "trend_" + string(cfg.Family) + "_" + string(cfg.Curve)
}

// TrendPage builds the HTML page for res: the animated trend chart and the
// final ranking.
func TrendPage(res *trend.Result, opts Options) *plotpage.Page {
	theme := plotpage.ThemeLight
	if opts.Dark {
		theme = plotpage.ThemeDark
	}

	page := plotpage.NewPage(Title(res.Config), Describe(res)).WithTheme(theme)
	cOpts := plotpage.NewChartOpts(theme, plotpage.DefaultStyle())
	final := res.Final()
	id := ChartID(res.Config)

	line := plotpage.BuildXYLineChart(cOpts, theme, plotpage.XYChart{
		ID:      id,
		XName:   "year",
		YName:   valueHeader(res.Config.Curve),
		XMin:    res.XMin,
		XMax:    res.XMax,
		YMax:    res.YMax,
		Markers: res.Config.Markers,
		Series:  xySeries(final),
	})

	frames := make([]plotpage.PlayerFrame, len(res.Frames))
	for i, f := range res.Frames {
		frames[i] = plotpage.PlayerFrame{Label: f.Name, Series: xySeries(f)}
	}

	page.Add(plotpage.Section{
		Title:    "Trends",
		Subtitle: "Top " + strconv.Itoa(res.Config.TopN) + " as of each step",
		Chart:    line,
		Extras: []plotpage.Renderable{&plotpage.Player{
			ChartID: id,
			Theme:   theme,
			Markers: res.Config.Markers,
			Frames:  frames,
		}},
		Hint: curveHint(res.Config),
	})

	labels := make([]string, len(final.Series))
	values := make([]int, len(final.Series))

	for i, s := range final.Series {
		labels[i] = s.Display
		values[i] = s.Value
	}

	page.Add(plotpage.Section{
		Title: "Standings at " + final.Name,
		Chart: plotpage.BuildBarChart(cOpts, id+"_ranking", "", labels,
			[]plotpage.BarSeries{{Name: valueHeader(res.Config.Curve), Data: values, Color: plotpage.SeriesColor(theme, 0)}},
			valueHeader(res.Config.Curve), true),
	})

	return page
}

func xySeries(frame trend.Frame) []plotpage.XYSeries {
	out := make([]plotpage.XYSeries, len(frame.Series))

	for i, s := range frame.Series {
		points := make([]plotpage.XY, len(s.Points))
		for j, p := range s.Points {
			points[j] = plotpage.XY{X: p.X, Y: p.Y}
		}

		out[i] = plotpage.XYSeries{Name: s.Display, Points: points}
	}

	return out
}

func curveHint(cfg trend.Config) plotpage.Hint {
	if cfg.Curve == trend.CurveStep {
		return plotpage.Hint{
			Title: "Reading the chart",
			Items: []string{
				"Each flat segment is the number of performances within one period.",
				"Vertical jumps mark the start of a new period.",
				"Ranking uses the most recent period only.",
			},
		}
	}

	return plotpage.Hint{
		Title: "Reading the chart",
		Items: []string{
			"Lines show running totals and never fall.",
			"Ranking uses the total to date.",
		},
	}
}
