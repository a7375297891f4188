package plotpage

// Theme represents a color theme for visualizations.
type Theme string

const (
	// ThemeLight is the light color theme.
	ThemeLight Theme = "light"
	// ThemeDark is the dark color theme.
	ThemeDark Theme = "dark"
)

// ThemeConfig holds all theme-specific styling values.
type ThemeConfig struct {
	// Base colors.
	Background string
	Surface    string
	Border     string

	// Text colors.
	TextPrimary   string
	TextSecondary string
	TextMuted     string

	// Accent colors.
	Accent     string
	AccentText string

	// Chart-specific.
	ChartBackground string
	ChartGrid       string
	ChartAxis       string
	ChartText       string
	ChartTextMuted  string

	// ECharts theme name.
	EChartsTheme string
}

// GetThemeConfig returns the configuration for a given theme.
func GetThemeConfig(theme Theme) ThemeConfig {
	if theme == ThemeDark {
		return darkTheme
	}

	return lightTheme
}

// Palette returns the series colors for a given theme.
func Palette(theme Theme) []string {
	if theme == ThemeDark {
		return darkPalette
	}

	return lightPalette
}

// SeriesColor returns the i-th palette color, wrapping around.
func SeriesColor(theme Theme, i int) string {
	p := Palette(theme)

	return p[i%len(p)]
}

var lightTheme = ThemeConfig{
	Background: "#fafaf9", // stone-50.
	Surface:    "#ffffff",
	Border:     "#e7e5e4", // stone-200.

	TextPrimary:   "#1c1917", // stone-900.
	TextSecondary: "#44403c", // stone-700.
	TextMuted:     "#78716c", // stone-500.

	Accent:     "#7c2d12", // orange-900, concert-hall burgundy.
	AccentText: "#ffffff",

	ChartBackground: "transparent",
	ChartGrid:       "#e7e5e4",
	ChartAxis:       "#a8a29e",
	ChartText:       "#44403c",
	ChartTextMuted:  "#78716c",
}

var darkTheme = ThemeConfig{
	Background: "#0c0a09", // stone-950.
	Surface:    "#1c1917", // stone-900.
	Border:     "#44403c", // stone-700.

	TextPrimary:   "#fafaf9",
	TextSecondary: "#d6d3d1",
	TextMuted:     "#a8a29e",

	Accent:     "#f59e0b", // amber-500.
	AccentText: "#0c0a09",

	ChartBackground: "transparent",
	ChartGrid:       "#44403c",
	ChartAxis:       "#57534e",
	ChartText:       "#d6d3d1",
	ChartTextMuted:  "#a8a29e",
}

var lightPalette = []string{
	"#a16207", // amber-700.
	"#0369a1", // sky-700.
	"#4d7c0f", // lime-700.
	"#7c3aed", // violet-600.
	"#be185d", // pink-700.
	"#0891b2", // cyan-600.
	"#c2410c", // orange-700.
	"#4338ca", // indigo-700.
	"#15803d", // green-700.
	"#b91c1c", // red-700.
}

var darkPalette = []string{
	"#fbbf24", // amber-400.
	"#38bdf8", // sky-400.
	"#a3e635", // lime-400.
	"#a78bfa", // violet-400.
	"#f472b6", // pink-400.
	"#22d3ee", // cyan-400.
	"#fb923c", // orange-400.
	"#818cf8", // indigo-400.
	"#4ade80", // green-400.
	"#f87171", // red-400.
}
