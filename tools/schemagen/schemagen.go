// Package main generates JSON schemas for the documents encore emits with
// --format json and through its HTTP and MCP APIs.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/Sumatoshi-tech/encore/internal/archive"
	"github.com/Sumatoshi-tech/encore/internal/explore"
	"github.com/Sumatoshi-tech/encore/internal/mcp"
	"github.com/Sumatoshi-tech/encore/internal/store"
	"github.com/Sumatoshi-tech/encore/internal/trend"
)

const (
	draft07  = "https://json-schema.org/draft-07/schema#"
	dirPerm  = 0o755
	filePerm = 0o644
)

// Schema represents a JSON Schema.
type Schema struct {
	Schema      string             `json:"$schema,omitempty"`
	Title       string             `json:"title,omitempty"`
	Description string             `json:"description,omitempty"`
	Type        string             `json:"type,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Ref         string             `json:"$ref,omitempty"`
	Definitions map[string]*Schema `json:"definitions,omitempty"`
}

// document is one output shape and where it appears.
type document struct {
	name  string
	title string
	value any
}

var documents = []document{
	{name: "trend", title: "Trend result (encore trend, /api/trends)", value: &trend.Result{}},
	{name: "summary", title: "Archive summary (encore stats, /api/summary)", value: &archive.Summary{}},
	{name: "entities", title: "Entity listing (encore entities, /api/entities)", value: []explore.Entity{}},
	{name: "store_info", title: "Ingested dataset metadata", value: &store.Info{}},
	{name: "mcp_trends", title: "encore_trends tool output", value: &mcp.TrendsOutput{}},
}

func main() {
	var outputDir string

	flag.StringVar(&outputDir, "o", "docs/schemas", "Output directory for schemas")
	flag.Parse()

	names, err := generate(outputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	for _, name := range names {
		fmt.Printf("Generated schema for %s\n", name)
	}
}

// generate writes one schema file per document and returns their names.
func generate(dir string) ([]string, error) {
	mkErr := os.MkdirAll(dir, dirPerm)
	if mkErr != nil {
		return nil, fmt.Errorf("create output directory: %w", mkErr)
	}

	names := make([]string, 0, len(documents))

	for _, doc := range documents {
		writeErr := writeSchema(dir, doc.name, generateSchema(doc))
		if writeErr != nil {
			return nil, fmt.Errorf("schema %s: %w", doc.name, writeErr)
		}

		names = append(names, doc.name)
	}

	return names, nil
}

func generateSchema(doc document) *Schema {
	defs := make(map[string]*Schema)

	t := reflect.TypeOf(doc.value)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	var root *Schema

	if t.Kind() == reflect.Struct {
		props, required := structToProperties(t, defs)
		root = &Schema{Type: "object", Properties: props, Required: required}
	} else {
		root = typeToSchema(t, defs)
	}

	root.Schema = draft07
	root.Title = doc.title

	if len(defs) > 0 {
		root.Definitions = defs
	}

	return root
}

func structToProperties(t reflect.Type, defs map[string]*Schema) (map[string]*Schema, []string) {
	props := make(map[string]*Schema)

	var required []string

	for field := range fields(t) {
		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" || jsonTag == "" {
			continue
		}

		jsonName, opts, _ := strings.Cut(jsonTag, ",")
		props[jsonName] = typeToSchema(field.Type, defs)

		if !slices.Contains(strings.Split(opts, ","), "omitempty") {
			required = append(required, jsonName)
		}
	}

	slices.Sort(required)

	return props, required
}

func fields(t reflect.Type) func(yield func(reflect.StructField) bool) {
	return func(yield func(reflect.StructField) bool) {
		for i := range t.NumField() {
			if !yield(t.Field(i)) {
				return
			}
		}
	}
}

func typeToSchema(t reflect.Type, defs map[string]*Schema) *Schema {
	switch t.Kind() {
	case reflect.String:
		return &Schema{Type: "string"}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if t == reflect.TypeFor[time.Duration]() {
			return &Schema{Type: "integer", Description: "Duration in nanoseconds"}
		}

		return &Schema{Type: "integer"}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Schema{Type: "integer"}

	case reflect.Float32, reflect.Float64:
		return &Schema{Type: "number"}

	case reflect.Bool:
		return &Schema{Type: "boolean"}

	case reflect.Slice:
		return &Schema{Type: "array", Items: typeToSchema(t.Elem(), defs)}

	case reflect.Map:
		return &Schema{Type: "object"}

	case reflect.Struct:
		if t == reflect.TypeFor[time.Time]() {
			return &Schema{Type: "string", Description: "RFC 3339 timestamp"}
		}

		defName := t.Name()
		if defName == "" {
			props, required := structToProperties(t, defs)

			return &Schema{Type: "object", Properties: props, Required: required}
		}

		if _, exists := defs[defName]; !exists {
			defs[defName] = &Schema{}
			props, required := structToProperties(t, defs)
			defs[defName] = &Schema{Type: "object", Properties: props, Required: required}
		}

		return &Schema{Ref: "#/definitions/" + defName}

	case reflect.Pointer:
		return typeToSchema(t.Elem(), defs)

	default:
		return &Schema{}
	}
}

func writeSchema(dir, name string, schema *Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	return os.WriteFile(filepath.Join(dir, name+".json"), append(data, '\n'), filePerm)
}
