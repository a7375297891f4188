package server

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/Sumatoshi-tech/encore/internal/plotpage"
	"github.com/Sumatoshi-tech/encore/internal/report"
	"github.com/Sumatoshi-tech/encore/internal/trend"
)

func (s *Server) handleRoot(rw http.ResponseWriter, hr *http.Request) {
	http.Redirect(rw, hr, "/dashboard", http.StatusFound)
}

// handleTrends answers GET /api/trends with a trend.Result.
func (s *Server) handleTrends(rw http.ResponseWriter, hr *http.Request) {
	cfg, err := parseConfig(s.defaults, hr.URL.Query())
	if err != nil {
		s.writeError(rw, hr, err)

		return
	}

	res, err := s.svc.ComputeLatest(hr.Context(), channel(session(rw, hr), cfg), cfg)
	if err != nil {
		s.writeError(rw, hr, err)

		return
	}

	writeJSON(hr.Context(), s.logger, rw, http.StatusOK, res)
}

type entitiesBody struct {
	Family   trend.Family `json:"family"`
	Entities any          `json:"entities"`
}

// handleEntities answers GET /api/entities?family=&q=&limit=.
func (s *Server) handleEntities(rw http.ResponseWriter, hr *http.Request) {
	q := hr.URL.Query()

	family := trend.Family(q.Get("family"))
	if family == "" {
		family = trend.Family(s.defaults.Family)
	}

	limit, err := parseLimit(q.Get("limit"), defaultEntityLimit)
	if err != nil {
		s.writeError(rw, hr, err)

		return
	}

	entities, err := s.svc.Catalog().Entities(family, q.Get("q"), limit)
	if err != nil {
		s.writeError(rw, hr, err)

		return
	}

	writeJSON(hr.Context(), s.logger, rw, http.StatusOK, entitiesBody{Family: family, Entities: entities})
}

// handleSummary answers GET /api/summary with archive-wide statistics.
func (s *Server) handleSummary(rw http.ResponseWriter, hr *http.Request) {
	limit, err := parseLimit(hr.URL.Query().Get("limit"), trend.DefaultTopN)
	if err != nil {
		s.writeError(rw, hr, err)

		return
	}

	writeJSON(hr.Context(), s.logger, rw, http.StatusOK, s.svc.Catalog().Dataset().Summarize(limit))
}

// handleDashboard renders one chart with its controls.
func (s *Server) handleDashboard(rw http.ResponseWriter, hr *http.Request) {
	cfg, err := parseConfig(s.defaults, hr.URL.Query())
	if err != nil {
		s.writeError(rw, hr, err)

		return
	}

	res, err := s.svc.ComputeLatest(hr.Context(), channel(session(rw, hr), cfg), cfg)
	if err != nil {
		s.writeError(rw, hr, err)

		return
	}

	page := report.TrendPage(res, report.Options{Dark: s.dark})
	page.Form = s.controls(res.Config)

	var buf bytes.Buffer

	renderErr := page.Render(&buf)
	if renderErr != nil {
		s.writeError(rw, hr, renderErr)

		return
	}

	rw.Header().Set("Content-Type", "text/html; charset=utf-8")

	_, writeErr := buf.WriteTo(rw)
	if writeErr != nil {
		s.logger.WarnContext(hr.Context(), "dashboard write failed", "error", writeErr)
	}
}

// controls builds the dashboard form for cfg, offering the most performed
// entities of the family as filter suggestions.
func (s *Server) controls(cfg trend.Config) *plotpage.Form {
	families := make([]string, len(trend.Families))
	for i, f := range trend.Families {
		families[i] = string(f)
	}

	curves := make([]string, len(trend.Curves))
	for i, c := range trend.Curves {
		curves[i] = string(c)
	}

	var suggestions []string

	leaders, err := s.svc.Catalog().Leaders(cfg.Family, suggestionLimit)
	if err == nil {
		for _, l := range leaders {
			suggestions = append(suggestions, l.Name)
		}
	}

	return &plotpage.Form{
		Action: "/dashboard",
		Hidden: map[string]string{formParam: "1"},
		Selects: []plotpage.Select{
			plotpage.StringSelect("family", "Family", families, string(cfg.Family)),
			plotpage.StringSelect("curve", "Curve", curves, string(cfg.Curve)),
			plotpage.IntSelect("granularity", "Years per step", trend.GranularityChoices, cfg.Granularity),
			plotpage.IntSelect("top_n", "Top", trend.TopNChoices, cfg.TopN),
		},
		Inputs: []plotpage.TextInput{{
			Name:        "entities",
			Label:       "Only these (separate with ;)",
			Value:       strings.Join(cfg.Entities, entitySep+" "),
			Placeholder: "Beethoven,  Ludwig  van; Brahms,  Johannes",
			Suggestions: suggestions,
		}},
		Toggles: []plotpage.Toggle{
			{Name: "markers", Label: "Markers", Checked: cfg.Markers},
			{
				Name:     "unique",
				Label:    "Once per concert",
				Checked:  cfg.Unique,
				Disabled: cfg.Family != trend.FamilyComposer,
			},
		},
	}
}
