package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"

	"github.com/Sumatoshi-tech/encore/internal/trend"
)

func TestGenerate_WritesEveryDocument(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	names, err := generate(dir)
	require.NoError(t, err)
	assert.Len(t, names, len(documents))

	for _, name := range names {
		assert.FileExists(t, filepath.Join(dir, name+".json"))
	}
}

func TestTrendSchema_AcceptsBuiltResult(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := generate(dir)
	require.NoError(t, err)

	at := func(year int) time.Time { return time.Date(year, time.May, 1, 0, 0, 0, 0, time.UTC) }

	ix := trend.NewIndex(trend.FamilyComposer, []trend.Event{
		{EntityID: "Dvorak, Antonín", ProgramID: "p1", Timestamp: at(1893)},
		{EntityID: "Dvorak, Antonín", ProgramID: "p2", Timestamp: at(1894)},
		{EntityID: "Brahms, Johannes", ProgramID: "p2", Timestamp: at(1894)},
	})

	res, err := trend.Build(context.Background(), ix, trend.Config{
		Family:      trend.FamilyComposer,
		Curve:       trend.CurveStep,
		Granularity: 1,
		TopN:        2,
		StartYear:   1892,
		EndYear:     1895,
	})
	require.NoError(t, err)

	doc, err := json.Marshal(res)
	require.NoError(t, err)

	schema, err := os.ReadFile(filepath.Join(dir, "trend.json"))
	require.NoError(t, err)

	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schema), gojsonschema.NewBytesLoader(doc))
	require.NoError(t, err)
	assert.True(t, result.Valid(), "%v", result.Errors())
}

func TestTypeToSchema_Kinds(t *testing.T) {
	t.Parallel()

	type inner struct {
		When  time.Time     `json:"when"`
		Took  time.Duration `json:"took"`
		Notes []string      `json:"notes,omitempty"`
		skip  int
	}

	defs := make(map[string]*Schema)
	got := typeToSchema(reflect.TypeFor[*inner](), defs)

	assert.Equal(t, "#/definitions/inner", got.Ref)
	require.Contains(t, defs, "inner")
	assert.Equal(t, []string{"took", "when"}, defs["inner"].Required)
	assert.Equal(t, "string", defs["inner"].Properties["when"].Type)
	assert.Equal(t, "integer", defs["inner"].Properties["took"].Type)
	assert.Equal(t, "array", defs["inner"].Properties["notes"].Type)
	assert.NotContains(t, defs["inner"].Properties, "skip")
}
