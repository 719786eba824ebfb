package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func testSchema() JSONSchema {
	return JSONSchema{
		Type:     "object",
		Required: []string{"type", "email"},
		Properties: map[string]Property{
			"type": {
				Type: "string",
				Enum: []string{"audit", "contact"},
			},
			"email": {
				Type:      "string",
				MinLength: intPtr(5),
				MaxLength: intPtr(255),
			},
			"name": {
				Type:      "string",
				MaxLength: intPtr(200),
			},
		},
		AdditionalProperties: false,
	}
}

func TestValidateInput_Valid(t *testing.T) {
	result := ValidateInput(map[string]interface{}{
		"type":  "audit",
		"email": "a@b.com",
		"name":  "Jordan",
	}, testSchema())

	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}

func TestValidateInput_Errors(t *testing.T) {
	tests := []struct {
		name      string
		input     map[string]interface{}
		wantField string
		wantCode  string
	}{
		{
			name:      "missing required field",
			input:     map[string]interface{}{"type": "audit"},
			wantField: "(root)",
			wantCode:  "REQUIRED_FIELD_MISSING",
		},
		{
			name:      "wrong type",
			input:     map[string]interface{}{"type": "audit", "email": "a@b.com", "name": 42},
			wantField: "name",
			wantCode:  "INVALID_TYPE",
		},
		{
			name:      "enum violation",
			input:     map[string]interface{}{"type": "newsletter", "email": "a@b.com"},
			wantField: "type",
			wantCode:  "INVALID_VALUE",
		},
		{
			name:      "too short",
			input:     map[string]interface{}{"type": "audit", "email": "a@b"},
			wantField: "email",
			wantCode:  "LENGTH_VIOLATION",
		},
		{
			name:      "unknown field rejected",
			input:     map[string]interface{}{"type": "audit", "email": "a@b.com", "admin": true},
			wantField: "(root)",
			wantCode:  "EXTRA_FIELD",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateInput(tt.input, testSchema())
			assert.False(t, result.Valid)
			require.NotEmpty(t, result.Errors)

			found := false
			for _, e := range result.Errors {
				if e.Code == tt.wantCode {
					found = true
					assert.Equal(t, tt.wantField, e.Field)
				}
			}
			assert.True(t, found, "expected error code %s, got %+v", tt.wantCode, result.Errors)
		})
	}
}

func TestValidateInput_MultipleErrors(t *testing.T) {
	result := ValidateInput(map[string]interface{}{}, testSchema())
	assert.False(t, result.Valid)
	assert.Len(t, result.Errors, 2)
}
