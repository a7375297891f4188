package mcp

import (
	"context"
	"encoding/json"
	"math"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/encore/internal/explore"
	"github.com/Sumatoshi-tech/encore/internal/trend"
)

func resultText(t *testing.T, result *mcpsdk.CallToolResult) string {
	t.Helper()

	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)

	text, ok := result.Content[0].(*mcpsdk.TextContent)
	require.True(t, ok)

	return text.Text
}

func TestHandleTrends_Defaults(t *testing.T) {
	t.Parallel()

	srv := NewServer(testDeps(t))

	result, output, err := srv.handleTrends(context.Background(), &mcpsdk.CallToolRequest{}, TrendsInput{})
	require.NoError(t, err)
	assert.False(t, result.IsError)

	out, ok := output.Data.(TrendsOutput)
	require.True(t, ok)

	assert.Equal(t, trend.FamilyComposer, out.Config.Family)
	assert.Equal(t, "1930", out.Final.Name)
	assert.Empty(t, out.Frames)
	require.Len(t, out.Final.Series, 2)
	assert.Equal(t, "Sibelius,  Jean", out.Final.Series[0].Entity)
	assert.Equal(t, 2, out.Final.Series[0].Value)

	var decoded TrendsOutput
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &decoded))
	assert.Equal(t, out.Labels, decoded.Labels)
}

func TestHandleTrends_FramesAndFilter(t *testing.T) {
	t.Parallel()

	srv := NewServer(testDeps(t))

	result, output, err := srv.handleTrends(context.Background(), &mcpsdk.CallToolRequest{}, TrendsInput{
		Family:      "work",
		Curve:       "step",
		Granularity: 10,
		Entities:    []string{"finlandia"},
		Frames:      true,
	})
	require.NoError(t, err)
	require.False(t, result.IsError, resultText(t, result))

	out, ok := output.Data.(TrendsOutput)
	require.True(t, ok)

	assert.Len(t, out.Frames, 3)
	assert.Equal(t, []string{"Finlandia"}, out.Config.Entities)
	assert.Equal(t, 1, out.Config.TopN)
}

func TestHandleTrends_Errors(t *testing.T) {
	t.Parallel()

	srv := NewServer(testDeps(t))

	tests := []struct {
		name  string
		input TrendsInput
		want  string
	}{
		{name: "unknown_entity", input: TrendsInput{Entities: []string{"Sibelus"}}, want: "Sibelus"},
		{name: "unique_for_works", input: TrendsInput{Family: "work", Unique: true}, want: "composer family only"},
		{name: "bad_curve", input: TrendsInput{Curve: "spline"}, want: "unknown curve kind"},
		{name: "end_year_overflow", input: TrendsInput{StartYear: 2020, EndYear: math.MaxInt, Granularity: 25}, want: "year out of range"},
		{name: "too_many_buckets", input: TrendsInput{StartYear: 1, EndYear: 9999, Granularity: 1}, want: "domain too wide"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, _, err := srv.handleTrends(context.Background(), &mcpsdk.CallToolRequest{}, tt.input)
			require.NoError(t, err)
			assert.True(t, result.IsError)
			assert.Contains(t, resultText(t, result), tt.want)
		})
	}
}

func TestHandleEntities(t *testing.T) {
	t.Parallel()

	srv := NewServer(testDeps(t))

	_, output, err := srv.handleEntities(context.Background(), &mcpsdk.CallToolRequest{}, EntitiesInput{Family: "work", Query: "sym"})
	require.NoError(t, err)

	entities, ok := output.Data.([]explore.Entity)
	require.True(t, ok)
	require.Len(t, entities, 1)
	assert.Equal(t, "Symphony No. 2 - Sibelius,  Jean", entities[0].Display)

	_, output, err = srv.handleEntities(context.Background(), &mcpsdk.CallToolRequest{}, EntitiesInput{Top: true, Limit: 1})
	require.NoError(t, err)

	leaders, ok := output.Data.([]explore.Entity)
	require.True(t, ok)
	assert.Equal(t, []explore.Entity{{Name: "Sibelius,  Jean", Display: "Sibelius,  Jean", Total: 2}}, leaders)

	result, _, err := srv.handleEntities(context.Background(), &mcpsdk.CallToolRequest{}, EntitiesInput{Family: "soloist"})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleSummary(t *testing.T) {
	t.Parallel()

	srv := NewServer(testDeps(t))

	result, _, err := srv.handleSummary(context.Background(), &mcpsdk.CallToolRequest{}, SummaryInput{Top: 1})
	require.NoError(t, err)

	text := resultText(t, result)
	assert.Contains(t, text, `"concerts": 2`)
	assert.Contains(t, text, `"works": 3`)
	assert.Contains(t, text, "Sibelius,  Jean")
}

func TestHandlers_NoService(t *testing.T) {
	t.Parallel()

	srv := NewServer(ServerDeps{})

	result, _, err := srv.handleTrends(context.Background(), &mcpsdk.CallToolRequest{}, TrendsInput{})
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Equal(t, ErrNoService.Error(), resultText(t, result))
}
