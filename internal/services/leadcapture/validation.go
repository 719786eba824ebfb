package leadcapture

import "website-audit/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"type", "email"},
		Properties: map[string]validation.Property{
			"type": {
				Type:        "string",
				Description: "Kind of lead capture",
				Enum:        []string{"audit", "report_unlock", "contact"},
			},
			"email": {
				Type:        "string",
				Description: "Email address of the visitor",
				MinLength:   intPtr(5),
				MaxLength:   intPtr(255),
			},
			"name": {
				Type:        "string",
				Description: "Name of the visitor",
				MaxLength:   intPtr(200),
			},
			"phone": {
				Type:        "string",
				Description: "Phone number",
				MaxLength:   intPtr(50),
			},
			"company": {
				Type:        "string",
				Description: "Company name",
				MaxLength:   intPtr(200),
			},
			"message": {
				Type:        "string",
				Description: "Free-form message from the visitor",
				MaxLength:   intPtr(5000),
			},
			"auditResults": {
				Type:        "object",
				Description: "Audit result blob captured with the lead",
			},
		},
		AdditionalProperties: false,
	}
}

func intPtr(i int) *int {
	return &i
}
