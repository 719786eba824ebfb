package models

import (
	"encoding/json"
	"time"
)

// Lead is a captured visitor contact record tied to an audit or a
// report-unlock request. Rows are write-once: status and zoho_synced are
// set at creation and never transitioned afterwards.
type Lead struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Name       string          `json:"name,omitempty"`
	Email      string          `json:"email"`
	Phone      string          `json:"phone,omitempty"`
	Company    string          `json:"company,omitempty"`
	Message    string          `json:"message,omitempty"`
	WebsiteURL string          `json:"website_url,omitempty"`
	AuditScore int             `json:"audit_score,omitempty"`
	AuditData  json.RawMessage `json:"audit_data,omitempty"`
	Status     string          `json:"status"`
	ZohoSynced bool            `json:"zoho_synced"`
	CreatedAt  time.Time       `json:"created_at"`
}

const (
	LeadStatusNew = "new"

	LeadTypeAudit        = "audit"
	LeadTypeReportUnlock = "report_unlock"
	LeadTypeContact      = "contact"
)
