package plotpage

import (
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// XY is one vertex of a line series on a numeric x-axis.
type XY struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// XYSeries is one named line on a numeric x-axis.
type XYSeries struct {
	Name   string
	Points []XY
	Color  string // Optional, uses the theme palette if empty.
}

// XYChart describes a line chart whose x-axis is numeric.
type XYChart struct {
	ID      string
	Title   string
	XName   string
	YName   string
	XMin    int
	XMax    int
	YMax    int
	Markers bool
	Series  []XYSeries
}

// BarSeries defines the properties and data for a single bar chart series.
type BarSeries struct {
	Name  string
	Data  []int
	Color string // Optional, uses theme if empty.
}

// BuildXYLineChart constructs a line chart with a fixed value x-axis.
// If cOpts is nil, DefaultChartOpts() is used.
func BuildXYLineChart(cOpts *ChartOpts, theme Theme, xy XYChart) *charts.Line {
	if cOpts == nil {
		cOpts = DefaultChartOpts()
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(cOpts.Init(xy.ID)),
		charts.WithTitleOpts(cOpts.Title(xy.Title, "")),
		charts.WithTooltipOpts(cOpts.Tooltip("item")),
		charts.WithLegendOpts(cOpts.Legend()),
		charts.WithGridOpts(cOpts.Grid()),
		charts.WithXAxisOpts(cOpts.ValueXAxis(xy.XName, xy.XMin, xy.XMax)),
		charts.WithYAxisOpts(cOpts.YAxis(xy.YName, xy.YMax)),
	)

	for i, s := range xy.Series {
		color := s.Color
		if color == "" {
			color = SeriesColor(theme, i)
		}

		line.AddSeries(s.Name, LineData(s.Points),
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(xy.Markers)}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: color}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: color}),
		)
	}

	return line
}

// LineData converts points to echarts [x, y] pairs.
func LineData(points []XY) []opts.LineData {
	data := make([]opts.LineData, len(points))

	for i, p := range points {
		data[i] = opts.LineData{Value: []any{p.X, p.Y}}
	}

	return data
}

// BuildBarChart constructs a bar chart. Horizontal bars list labels top to
// bottom in the given order.
// If cOpts is nil, DefaultChartOpts() is used.
func BuildBarChart(cOpts *ChartOpts, id, title string, labels []string, series []BarSeries, valueLabel string, horizontal bool) *charts.Bar {
	if cOpts == nil {
		cOpts = DefaultChartOpts()
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(cOpts.Init(id)),
		charts.WithTitleOpts(cOpts.Title(title, "")),
		charts.WithTooltipOpts(cOpts.Tooltip("axis")),
		charts.WithGridOpts(cOpts.Grid()),
		charts.WithXAxisOpts(cOpts.CategoryXAxis("")),
		charts.WithYAxisOpts(cOpts.YAxis(valueLabel, 0)),
	)

	if horizontal {
		labels = reversed(labels)
	}

	bar.SetXAxis(labels)

	for _, s := range series {
		data := s.Data
		if horizontal {
			data = reversed(data)
		}

		barData := make([]opts.BarData, len(data))
		for i, v := range data {
			barData[i] = opts.BarData{Value: v}
		}

		var seriesOpts []charts.SeriesOpts
		if s.Color != "" {
			seriesOpts = append(seriesOpts, charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}))
		}

		bar.AddSeries(s.Name, barData, seriesOpts...)
	}

	if horizontal {
		bar.XYReversal()
	}

	return bar
}

// reversed returns a reversed copy; echarts draws category axes bottom-up
// once swapped.
func reversed[T any](in []T) []T {
	out := make([]T, len(in))
	for i, v := range in {
		out[len(in)-1-i] = v
	}

	return out
}
