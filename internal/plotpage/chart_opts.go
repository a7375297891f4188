package plotpage

import (
	"github.com/go-echarts/go-echarts/v2/opts"
)

// ChartOpts provides themed chart options based on the current theme.
type ChartOpts struct {
	theme ThemeConfig
	style Style
}

// NewChartOpts creates a new ChartOpts with the given theme and style.
func NewChartOpts(theme Theme, style Style) *ChartOpts {
	return &ChartOpts{theme: GetThemeConfig(theme), style: style}
}

// DefaultChartOpts returns chart options for the light theme and default style.
func DefaultChartOpts() *ChartOpts {
	return NewChartOpts(ThemeLight, DefaultStyle())
}

// Init returns initialization options with themed background.
func (c *ChartOpts) Init(chartID string) opts.Initialization {
	return opts.Initialization{
		ChartID:         chartID,
		Width:           c.style.Width,
		Height:          c.style.Height,
		BackgroundColor: c.theme.ChartBackground,
		Theme:           c.theme.EChartsTheme,
	}
}

// Title returns title options with themed text colors.
func (c *ChartOpts) Title(title, subtitle string) opts.Title {
	return opts.Title{
		Title:         title,
		Subtitle:      subtitle,
		Left:          "center",
		TitleStyle:    &opts.TextStyle{Color: c.theme.ChartText},
		SubtitleStyle: &opts.TextStyle{Color: c.theme.ChartTextMuted},
	}
}

// Legend returns a scrolling legend with themed text color.
func (c *ChartOpts) Legend() opts.Legend {
	return opts.Legend{
		Show:      opts.Bool(true),
		Type:      "scroll",
		Top:       "8%",
		Left:      "center",
		TextStyle: &opts.TextStyle{Color: c.theme.ChartTextMuted},
	}
}

// ValueXAxis returns a numeric x-axis fixed to [lo, hi].
func (c *ChartOpts) ValueXAxis(name string, lo, hi int) opts.XAxis {
	return opts.XAxis{
		Name:      name,
		Type:      "value",
		Min:       lo,
		Max:       hi,
		AxisLabel: &opts.AxisLabel{Color: c.theme.ChartTextMuted},
		AxisLine:  &opts.AxisLine{LineStyle: &opts.LineStyle{Color: c.theme.ChartAxis}},
	}
}

// CategoryXAxis returns a category x-axis with themed colors.
func (c *ChartOpts) CategoryXAxis(name string) opts.XAxis {
	return opts.XAxis{
		Name:      name,
		AxisLabel: &opts.AxisLabel{Color: c.theme.ChartTextMuted},
		AxisLine:  &opts.AxisLine{LineStyle: &opts.LineStyle{Color: c.theme.ChartAxis}},
	}
}

// YAxis returns y-axis options with themed colors. A positive hi fixes the
// upper bound.
func (c *ChartOpts) YAxis(name string, hi int) opts.YAxis {
	y := opts.YAxis{
		Name:      name,
		Min:       0,
		AxisLabel: &opts.AxisLabel{Color: c.theme.ChartTextMuted},
		AxisLine:  &opts.AxisLine{LineStyle: &opts.LineStyle{Color: c.theme.ChartAxis}},
		SplitLine: &opts.SplitLine{
			Show:      opts.Bool(true),
			LineStyle: &opts.LineStyle{Color: c.theme.ChartGrid},
		},
	}

	if hi > 0 {
		y.Max = hi
	}

	return y
}

// Grid returns grid options from the style margins.
func (c *ChartOpts) Grid() opts.Grid {
	return opts.Grid{
		Top:          c.style.GridTop,
		Bottom:       c.style.GridBottom,
		Left:         c.style.GridLeft,
		Right:        c.style.GridRight,
		ContainLabel: opts.Bool(true),
	}
}

// Tooltip returns tooltip options.
func (c *ChartOpts) Tooltip(trigger string) opts.Tooltip {
	return opts.Tooltip{Show: opts.Bool(true), Trigger: trigger}
}
