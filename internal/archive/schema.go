package archive

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// maxReportedProblems caps the problems listed in a SchemaError message.
const maxReportedProblems = 5

//go:embed schema.json
var schemaJSON []byte

// ErrSchema is wrapped by every schema violation.
var ErrSchema = errors.New("archive does not match schema")

// SchemaError lists the fields that failed validation.
type SchemaError struct {
	Problems []string
}

func (e *SchemaError) Error() string {
	shown := e.Problems
	if len(shown) > maxReportedProblems {
		shown = shown[:maxReportedProblems]
	}

	msg := fmt.Sprintf("%s: %s", ErrSchema, strings.Join(shown, "; "))
	if extra := len(e.Problems) - len(shown); extra > 0 {
		msg += fmt.Sprintf(" (and %d more)", extra)
	}

	return msg
}

// Unwrap ties SchemaError to ErrSchema.
func (e *SchemaError) Unwrap() error {
	return ErrSchema
}

// Schema returns the embedded archive JSON schema.
func Schema() []byte {
	return schemaJSON
}

// ValidateDocument checks raw archive JSON against the embedded schema.
func ValidateDocument(data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaJSON),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("validate archive: %w", err)
	}

	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, verr := range result.Errors() {
		problems = append(problems, fmt.Sprintf("%s: %s", verr.Field(), verr.Description()))
	}

	return &SchemaError{Problems: problems}
}
