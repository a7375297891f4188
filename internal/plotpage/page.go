// Package plotpage renders self-contained HTML pages of echarts charts.
package plotpage

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// EChartsURL is the default script location for the echarts runtime.
const EChartsURL = "https://go-echarts.github.io/go-echarts-assets/assets/echarts.min.js"

const styleTagLen = len("</style>")

// Style defines chart dimensions and grid margins.
type Style struct {
	Width      string
	Height     string
	GridLeft   string
	GridRight  string
	GridTop    string
	GridBottom string
}

// DefaultStyle returns the default chart style.
func DefaultStyle() Style {
	return Style{
		Width:      "100%",
		Height:     "560px",
		GridLeft:   "4%",
		GridRight:  "4%",
		GridTop:    "80",
		GridBottom: "8%",
	}
}

// Hint contains interpretive guidance for a chart section.
type Hint struct {
	Title string
	Items []string
}

// Section represents a chart section within a page.
// Extras render after the chart, in order.
type Section struct {
	Title    string
	Subtitle string
	Hint     Hint
	Chart    Renderable
	Extras   []Renderable
}

// Page represents a complete visualization page.
type Page struct {
	Title       string
	Description string
	ProjectName string
	Subtitle    string
	EChartsURL  string
	Theme       Theme
	Form        *Form
	Sections    []Section
}

// NewPage creates a new visualization page.
func NewPage(title, description string) *Page {
	return &Page{
		Title:       title,
		Description: description,
		ProjectName: "Encore",
		Subtitle:    "Concert Program Trends",
		EChartsURL:  EChartsURL,
		Theme:       ThemeLight,
	}
}

// WithTheme sets the theme for the page.
func (p *Page) WithTheme(theme Theme) *Page {
	p.Theme = theme

	return p
}

// Add appends sections to the page.
func (p *Page) Add(sections ...Section) {
	p.Sections = append(p.Sections, sections...)
}

// Render writes the page as HTML.
func (p *Page) Render(w io.Writer) error {
	return HTMLRenderer{}.Render(w, p)
}

// Renderable is the interface for chart components.
type Renderable interface {
	Render(w io.Writer) error
}

// HTMLRenderer renders pages as HTML.
type HTMLRenderer struct{}

// Render writes the page as HTML to the writer.
func (r HTMLRenderer) Render(w io.Writer, page *Page) error {
	var sectionsHTML bytes.Buffer

	for _, section := range page.Sections {
		sectionHTML, sectionErr := r.renderSection(section)
		if sectionErr != nil {
			return fmt.Errorf("render section %q: %w", section.Title, sectionErr)
		}

		sectionsHTML.WriteString(string(sectionHTML))
	}

	data := pageData{
		Title:       page.Title,
		Description: page.Description,
		ProjectName: page.ProjectName,
		Subtitle:    page.Subtitle,
		EChartsURL:  page.EChartsURL,
		Theme:       GetThemeConfig(page.Theme),
		Content:     toHTML(sectionsHTML.String()),
	}

	if page.Form != nil {
		form, formErr := renderTemplate("form.html", page.Form)
		if formErr != nil {
			return fmt.Errorf("render form: %w", formErr)
		}

		data.Form = form
	}

	html, err := renderTemplate("page.html", data)
	if err != nil {
		return fmt.Errorf("render page: %w", err)
	}

	_, err = io.WriteString(w, string(html))
	if err != nil {
		return fmt.Errorf("writing page: %w", err)
	}

	return nil
}

func (r HTMLRenderer) renderSection(section Section) (string, error) {
	var body strings.Builder

	chartHTML, err := renderChart(section.Chart)
	if err != nil {
		return "", err
	}

	body.WriteString(chartHTML)

	for _, extra := range section.Extras {
		extraHTML, extraErr := renderChart(extra)
		if extraErr != nil {
			return "", extraErr
		}

		body.WriteString(extraHTML)
	}

	var hint *hintData
	if len(section.Hint.Items) > 0 {
		hint = &hintData{Title: section.Hint.Title, Items: section.Hint.Items}
	}

	html, err := renderTemplate("section.html", sectionData{
		Title:    section.Title,
		Subtitle: section.Subtitle,
		Chart:    toHTML(body.String()),
		Hint:     hint,
	})
	if err != nil {
		return "", err
	}

	return string(html), nil
}

// ChartWrapper wraps an echarts chart and renders only the chart content.
type ChartWrapper struct {
	chart Renderable
}

// WrapChart wraps an echarts chart to render only the div and script (no full HTML page).
func WrapChart(chart Renderable) *ChartWrapper {
	return &ChartWrapper{chart: chart}
}

// Render writes the chart element and script without a full HTML page.
func (cw *ChartWrapper) Render(w io.Writer) error {
	content, err := renderChart(cw.chart)
	if err != nil {
		return err
	}

	_, err = io.WriteString(w, content)
	if err != nil {
		return fmt.Errorf("writing chart content: %w", err)
	}

	return nil
}

func renderChart(chart Renderable) (string, error) {
	if chart == nil {
		return "", nil
	}

	var buf bytes.Buffer

	err := chart.Render(&buf)
	if err != nil {
		return "", fmt.Errorf("rendering chart: %w", err)
	}

	return extractChartContent(buf.String()), nil
}

func extractChartContent(html string) string {
	// Only full echarts pages are trimmed; fragments pass through.
	trimmed := strings.TrimSpace(html)
	if !strings.HasPrefix(trimmed, "<!DOCTYPE") && !strings.HasPrefix(trimmed, "<html") {
		return html
	}

	start := strings.Index(html, `<div class="container">`)
	if start == -1 {
		return html
	}

	end := strings.Index(html, `</body>`)
	if end == -1 {
		return html
	}

	content := html[start:end]
	content = strings.ReplaceAll(content, `class="container"`, `class="echart-box"`)

	return removeStyleTags(content)
}

func removeStyleTags(content string) string {
	for {
		i := strings.Index(content, `<style>`)
		if i == -1 {
			break
		}

		j := strings.Index(content[i:], `</style>`)
		if j == -1 {
			break
		}

		content = content[:i] + content[i+j+styleTagLen:]
	}

	return content
}
