// Package report renders trend results, summaries and entity listings as
// JSON, YAML, terminal text or HTML.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

// Output format constants.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatText = "text"
	FormatHTML = "html"

	formatPlotAlias = "plot"
)

// ErrUnsupportedFormat is returned for formats a writer cannot produce.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// TrendFormats are the formats WriteTrend accepts.
var TrendFormats = []string{FormatText, FormatJSON, FormatYAML, FormatHTML}

// TableFormats are the formats the summary and entity writers accept.
var TableFormats = []string{FormatText, FormatJSON, FormatYAML}

// NormalizeFormat lower-cases and trims format, mapping "plot" to html.
func NormalizeFormat(format string) string {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == formatPlotAlias {
		return FormatHTML
	}

	return format
}

// ValidateFormat normalizes format and checks it against supported.
func ValidateFormat(format string, supported []string) (string, error) {
	normalized := NormalizeFormat(format)
	if !slices.Contains(supported, normalized) {
		return "", fmt.Errorf("%w: %q (want one of %s)", ErrUnsupportedFormat, format, strings.Join(supported, ", "))
	}

	return normalized, nil
}

// Options tunes text and HTML rendering.
type Options struct {
	NoColor bool
	Dark    bool
}

func (o Options) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if o.NoColor {
		c.DisableColor()
	}

	return c
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	err := enc.Encode(v)
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}

	return nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	err := enc.Encode(v)
	if err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}

	closeErr := enc.Close()
	if closeErr != nil {
		return fmt.Errorf("flush yaml: %w", closeErr)
	}

	return nil
}

func writeString(w io.Writer, s string) error {
	_, err := io.WriteString(w, s)
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}
