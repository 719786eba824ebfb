package models

import "time"

// AuditRequest is the payload submitted by the audit form.
type AuditRequest struct {
	URL   string `json:"url"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// CategoryScores holds the four audit categories as integers in [0,100].
// Mobile is derived, not measured: round((performance+bestPractices)/2).
type CategoryScores struct {
	Performance   int `json:"performance"`
	SEO           int `json:"seo"`
	Accessibility int `json:"accessibility"`
	Mobile        int `json:"mobile"`
}

// Recommendation is a single improvement suggestion shown to the visitor.
type Recommendation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"` // High, Medium, Low
	Impact      string `json:"impact"`
}

const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

// AuditResult is the combined document returned by the analyze endpoint.
// It is never persisted server-side beyond a short-lived cache entry.
type AuditResult struct {
	URL             string           `json:"url"`
	Email           string           `json:"email"`
	Name            string           `json:"name,omitempty"`
	Timestamp       time.Time        `json:"timestamp"`
	OverallScore    int              `json:"overallScore"`
	Performance     int              `json:"performance"`
	SEO             int              `json:"seo"`
	Mobile          int              `json:"mobile"`
	Accessibility   int              `json:"accessibility"`
	Recommendations []Recommendation `json:"recommendations"`
}
