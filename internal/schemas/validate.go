// Package schemas provides JSON Schema validation for documents produced by the analyzer.
package schemas

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/memo-analyzer/internal/types"
)

// PresentationDocumentSchemaName names the embedded presentation document schema in errors
const PresentationDocumentSchemaName = "presentation_document.schema.json"

//go:embed presentation_document.schema.json
var presentationDocumentSchema string

var (
	documentSchemaOnce sync.Once
	documentSchema     *gojsonschema.Schema
	documentSchemaErr  error
)

// PresentationDocumentSchema returns the raw embedded schema
func PresentationDocumentSchema() string {
	return presentationDocumentSchema
}

func compiledDocumentSchema() (*gojsonschema.Schema, error) {
	documentSchemaOnce.Do(func() {
		documentSchema, documentSchemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(presentationDocumentSchema))
	})
	if documentSchemaErr != nil {
		return nil, &SchemaLoadError{
			Name:    PresentationDocumentSchemaName,
			Message: "failed to compile embedded schema",
			Cause:   documentSchemaErr,
		}
	}
	return documentSchema, nil
}

// ValidateDocument validates an assembled presentation document against the embedded schema
func ValidateDocument(doc types.PresentationDocument) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal presentation document: %w", err)
	}
	return ValidateDocumentJSON(data)
}

// ValidateDocumentJSON validates raw presentation document JSON against the embedded schema
func ValidateDocumentJSON(data []byte) error {
	schema, err := compiledDocumentSchema()
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("failed to load presentation document: %w", err)
	}
	return toValidationError(result)
}

// ValidateJSONString validates JSON string content against schema string content
func ValidateJSONString(schemaContent, jsonContent string) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaContent)
	documentLoader := gojsonschema.NewStringLoader(jsonContent)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{
			Name:    "(string schema)",
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}
	return toValidationError(result)
}

// toValidationError returns nil for a valid result, or the field errors it reports
func toValidationError(result *gojsonschema.Result) error {
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
