// Package schemas provides JSON Schema validation for the structured
// extraction payload returned by the language model.
package schemas

import (
	"fmt"
	"strings"
	"sync"

	_ "embed"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed extraction.schema.json
var extractionSchemaJSON string

var (
	extractionSchema     *gojsonschema.Schema
	extractionSchemaOnce sync.Once
	extractionSchemaErr  error
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// ValidateExtractionPayload validates a candidate JSON payload against
// the embedded extraction schema. All top-level keys are optional (the
// caller defaults absent keys independently), but present keys must
// carry the expected shapes.
func ValidateExtractionPayload(payload string) error {
	extractionSchemaOnce.Do(func() {
		extractionSchema, extractionSchemaErr = gojsonschema.NewSchema(
			gojsonschema.NewStringLoader(extractionSchemaJSON))
	})
	if extractionSchemaErr != nil {
		return fmt.Errorf("failed to compile extraction schema: %w", extractionSchemaErr)
	}

	result, err := extractionSchema.Validate(gojsonschema.NewStringLoader(payload))
	if err != nil {
		return fmt.Errorf("payload is not valid JSON: %w", err)
	}
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
