package report

import (
	"context"
	"time"

	"website-audit/internal/common/logger"
	"website-audit/internal/models"
	"website-audit/internal/providers/stripe"
)

// Input carries the request payload for report generation.
type Input struct {
	SessionID string `json:"sessionId"`
}

// Output wraps the expanded report returned after a verified payment.
type Output struct {
	Success bool            `json:"success"`
	Report  *DetailedReport `json:"report"`
}

// DetailedReport is the unlocked, expanded view of an audit result.
type DetailedReport struct {
	SessionID       string                  `json:"sessionId"`
	URL             string                  `json:"url"`
	Email           string                  `json:"email"`
	GeneratedAt     time.Time               `json:"generatedAt"`
	OverallScore    int                     `json:"overallScore"`
	Sections        []ReportSection         `json:"sections"`
	Recommendations []models.Recommendation `json:"recommendations"`
}

// ReportSection expands a single scored category into a narrative block.
type ReportSection struct {
	Title   string `json:"title"`
	Score   int    `json:"score"`
	Grade   string `json:"grade"`
	Summary string `json:"summary"`
}

// SessionProvider retrieves Checkout sessions for payment verification.
type SessionProvider interface {
	GetCheckoutSession(ctx context.Context, sessionID string) (*stripe.CheckoutSession, error)
}

type ServiceDependencies struct {
	Logger logger.Logger
}
