package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/encore/internal/trend"
)

// Tool name constants.
const (
	ToolNameTrends   = "encore_trends"
	ToolNameEntities = "encore_entities"
	ToolNameSummary  = "encore_summary"
)

const (
	defaultEntityLimit = 25
	maxEntityLimit     = 500
)

// ErrNoService indicates the server was built without a data service.
var ErrNoService = errors.New("no archive loaded")

// Input types (auto-generate JSON schemas via struct tags).

// TrendsInput is the input schema for the encore_trends tool.
type TrendsInput struct {
	Family      string   `json:"family,omitempty"      jsonschema:"composer or work (default: composer)"`
	Curve       string   `json:"curve,omitempty"       jsonschema:"cumulative or step (default: cumulative)"`
	Granularity int      `json:"granularity,omitempty" jsonschema:"years per step, e.g. 1 5 10 or 25"`
	TopN        int      `json:"top_n,omitempty"       jsonschema:"number of entities ranked per step"`
	StartYear   int      `json:"start_year,omitempty"  jsonschema:"first year of the time domain"`
	EndYear     int      `json:"end_year,omitempty"    jsonschema:"last year of the time domain"`
	Entities    []string `json:"entities,omitempty"    jsonschema:"only track these composers or work titles"`
	Unique      bool     `json:"unique,omitempty"      jsonschema:"count a composer once per concert (composer family only)"`
	Frames      bool     `json:"frames,omitempty"      jsonschema:"include every intermediate step, not just the final one"`
}

// EntitiesInput is the input schema for the encore_entities tool.
type EntitiesInput struct {
	Family string `json:"family,omitempty" jsonschema:"composer or work (default: composer)"`
	Query  string `json:"query,omitempty"  jsonschema:"case-insensitive substring filter"`
	Limit  int    `json:"limit,omitempty"  jsonschema:"maximum number of entities (default: 25)"`
	Top    bool   `json:"top,omitempty"    jsonschema:"order by total performances instead of name"`
}

// SummaryInput is the input schema for the encore_summary tool.
type SummaryInput struct {
	Top int `json:"top,omitempty" jsonschema:"number of leading composers and works (default: 10)"`
}

// Output type (used as structured output for generic AddTool).

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

// TrendsOutput is the encore_trends payload.
type TrendsOutput struct {
	Config  trend.Config  `json:"config"`
	Labels  []string      `json:"labels"`
	Final   trend.Frame   `json:"final"`
	Frames  []trend.Frame `json:"frames,omitempty"`
	Applied int           `json:"applied_events"`
}

func (s *Server) handleTrends(
	ctx context.Context,
	_ *mcpsdk.CallToolRequest,
	input TrendsInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if s.svc == nil {
		return errorResult(ErrNoService)
	}

	res, err := s.svc.Compute(ctx, s.trendConfig(input))
	if err != nil {
		return errorResult(err)
	}

	out := TrendsOutput{
		Config:  res.Config,
		Labels:  res.Labels,
		Final:   res.Final(),
		Applied: res.Applied,
	}

	if input.Frames {
		out.Frames = res.Frames
	}

	return jsonResult(out)
}

// trendConfig fills unset input fields from the server defaults.
func (s *Server) trendConfig(input TrendsInput) trend.Config {
	family := trend.Family(s.defaults.Family)
	if input.Family != "" {
		family = trend.Family(input.Family)
	}

	curve := trend.CurveKind(s.defaults.Curve)
	if input.Curve != "" {
		curve = trend.CurveKind(input.Curve)
	}

	cfg := s.defaults.Chart(family, curve)

	if input.Granularity != 0 {
		cfg.Granularity = input.Granularity
	}

	if input.TopN != 0 {
		cfg.TopN = input.TopN
	}

	if input.StartYear != 0 {
		cfg.StartYear = input.StartYear
	}

	if input.EndYear != 0 {
		cfg.EndYear = input.EndYear
	}

	cfg.Entities = input.Entities
	cfg.Unique = input.Unique

	return cfg
}

func (s *Server) handleEntities(
	_ context.Context,
	_ *mcpsdk.CallToolRequest,
	input EntitiesInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if s.svc == nil {
		return errorResult(ErrNoService)
	}

	family := trend.Family(input.Family)
	if family == "" {
		family = trend.FamilyComposer
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultEntityLimit
	}

	limit = min(limit, maxEntityLimit)

	catalog := s.svc.Catalog()

	if input.Top {
		leaders, err := catalog.Leaders(family, limit)
		if err != nil {
			return errorResult(err)
		}

		return jsonResult(leaders)
	}

	entities, err := catalog.Entities(family, input.Query, limit)
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(entities)
}

func (s *Server) handleSummary(
	_ context.Context,
	_ *mcpsdk.CallToolRequest,
	input SummaryInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if s.svc == nil {
		return errorResult(ErrNoService)
	}

	top := input.Top
	if top <= 0 {
		top = trend.DefaultTopN
	}

	return jsonResult(s.svc.Catalog().Dataset().Summarize(top))
}

// Result helpers.

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}
