package server

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/Sumatoshi-tech/encore/internal/config"
	"github.com/Sumatoshi-tech/encore/internal/trend"
)

// entitySep separates filter names typed into one field. Composer names
// contain commas.
const entitySep = ";"

// ErrBadParam is returned for malformed query parameters.
var ErrBadParam = errors.New("bad query parameter")

// formParam marks a submitted dashboard form. Browsers omit unchecked
// checkboxes, so toggles missing from a submitted form are off.
const formParam = "form"

// parseConfig overlays query parameters onto the configured defaults.
// Missing parameters keep their default; unique is forced off for works.
func parseConfig(defaults config.TrendConfig, q url.Values) (trend.Config, error) {
	family := trend.Family(defaults.Family)
	if v := q.Get("family"); v != "" {
		family = trend.Family(v)
	}

	curve := trend.CurveKind(defaults.Curve)
	if v := q.Get("curve"); v != "" {
		curve = trend.CurveKind(v)
	}

	cfg := defaults.Chart(family, curve)

	ints := []struct {
		name string
		dst  *int
	}{
		{"granularity", &cfg.Granularity},
		{"top_n", &cfg.TopN},
		{"start", &cfg.StartYear},
		{"end", &cfg.EndYear},
	}

	for _, p := range ints {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}

		n, err := strconv.Atoi(raw)
		if err != nil {
			return trend.Config{}, fmt.Errorf("%w: %s=%q is not an integer", ErrBadParam, p.name, raw)
		}

		*p.dst = n
	}

	submitted := q.Has(formParam)

	if q.Has("markers") || submitted {
		cfg.Markers = parseBool(q.Get("markers"))
	}

	if q.Has("unique") || submitted {
		cfg.Unique = parseBool(q.Get("unique"))
	}

	if family != trend.FamilyComposer {
		cfg.Unique = false
	}

	cfg.Entities = parseEntities(q["entities"])

	return cfg, nil
}

func parseBool(raw string) bool {
	b, err := strconv.ParseBool(raw)

	return err == nil && b
}

func parseEntities(values []string) []string {
	var out []string

	for _, v := range values {
		for _, name := range strings.Split(v, entitySep) {
			name = strings.TrimSpace(name)
			if name != "" {
				out = append(out, name)
			}
		}
	}

	return out
}

func parseLimit(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: limit=%q", ErrBadParam, raw)
	}

	return n, nil
}
