package validation

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// JSONSchema defines the structure for request input schemas
type JSONSchema struct {
	Type                 string              `json:"type"`
	Properties           map[string]Property `json:"properties"`
	Required             []string            `json:"required,omitempty"`
	AdditionalProperties bool                `json:"additionalProperties"`
}

type Property struct {
	Type        string              `json:"type"`
	Description string              `json:"description,omitempty"`
	Minimum     *float64            `json:"minimum,omitempty"`
	Maximum     *float64            `json:"maximum,omitempty"`
	Enum        []string            `json:"enum,omitempty"`
	Pattern     *string             `json:"pattern,omitempty"`
	MinLength   *int                `json:"minLength,omitempty"`
	MaxLength   *int                `json:"maxLength,omitempty"`
	Items       *Property           `json:"items,omitempty"`
	Properties  map[string]Property `json:"properties,omitempty"`
	Required    []string            `json:"required,omitempty"`
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ValidateInput validates input against a JSON schema with detailed errors.
func ValidateInput(input map[string]interface{}, schema JSONSchema) *ValidationResult {
	schemaLoader := gojsonschema.NewGoLoader(schema)
	documentLoader := gojsonschema.NewGoLoader(input)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "",
				Message: fmt.Sprintf("schema validation error: %v", err),
				Code:    "SCHEMA_ERROR",
			}},
		}
	}

	if result.Valid() {
		return &ValidationResult{Valid: true}
	}

	errs := make([]ValidationError, 0, len(result.Errors()))
	for _, resultErr := range result.Errors() {
		errs = append(errs, ValidationError{
			Field:   resultErr.Field(),
			Message: resultErr.Description(),
			Code:    errorCode(resultErr.Type()),
		})
	}

	return &ValidationResult{Valid: false, Errors: errs}
}

func errorCode(errType string) string {
	switch errType {
	case "required":
		return "REQUIRED_FIELD_MISSING"
	case "invalid_type":
		return "INVALID_TYPE"
	case "string_gte", "string_lte":
		return "LENGTH_VIOLATION"
	case "additional_property_not_allowed":
		return "EXTRA_FIELD"
	case "enum":
		return "INVALID_VALUE"
	default:
		return "VALIDATION_FAILED"
	}
}
