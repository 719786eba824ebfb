package report

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	commonerrors "website-audit/internal/common/errors"
	"website-audit/internal/common/logger"
	"website-audit/internal/models"
	"website-audit/internal/providers/stripe"
	"website-audit/internal/services/analyze"
)

// Service verifies a completed payment and assembles the unlocked report.
type Service struct {
	config   *Config
	logger   logger.Logger
	sessions SessionProvider
	redis    *redis.Client
}

func NewService(deps ServiceDependencies, config *Config, sessions SessionProvider, redisClient *redis.Client) *Service {
	return &Service{
		config:   config,
		logger:   deps.Logger,
		sessions: sessions,
		redis:    redisClient,
	}
}

// NewServiceWithClient builds the Stripe session client from configuration.
func NewServiceWithClient(deps ServiceDependencies, config *Config, redisClient *redis.Client) *Service {
	svc := &Service{
		config: config,
		logger: deps.Logger,
		redis:  redisClient,
	}
	if config.StripeSecretKey != "" {
		svc.sessions = stripe.NewClient(config.StripeSecretKey, config.StripeBaseURL, config.StripeTimeout)
	}
	return svc
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	if strings.TrimSpace(input.SessionID) == "" {
		return nil, commonerrors.NewValidationError("Missing required field: sessionId", "")
	}

	if s.config.StripeSecretKey == "" || s.sessions == nil {
		return nil, commonerrors.NewConfigMissingError("STRIPE_SECRET_KEY")
	}

	session, err := s.sessions.GetCheckoutSession(ctx, input.SessionID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to retrieve checkout session", map[string]interface{}{
			"session_id": input.SessionID,
		})
		return nil, commonerrors.NewPaymentFailedError(fmt.Errorf("failed to retrieve checkout session: %w", err))
	}

	if session.PaymentStatus != stripe.PaymentStatusPaid {
		s.logger.Warn("Report requested for unpaid session", map[string]interface{}{
			"session_id":     input.SessionID,
			"payment_status": session.PaymentStatus,
		})
		return nil, commonerrors.NewPaymentNotCompletedError(input.SessionID)
	}

	email := session.Metadata["email"]
	if email == "" {
		email = session.CustomerEmail
	}
	targetURL := session.Metadata["website_url"]

	audit, err := s.loadAudit(ctx, email, targetURL)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Generating detailed report", map[string]interface{}{
		"session_id": input.SessionID,
		"url":        audit.URL,
	})

	return &Output{
		Success: true,
		Report:  buildReport(input.SessionID, audit),
	}, nil
}

func (s *Service) loadAudit(ctx context.Context, email, targetURL string) (*models.AuditResult, error) {
	if s.redis == nil {
		return nil, commonerrors.NewReportNotFoundError("audit cache is not configured")
	}
	if email == "" || targetURL == "" {
		return nil, commonerrors.NewReportNotFoundError("session is missing audit metadata")
	}

	key := analyze.CacheKey(email, targetURL)
	payload, err := s.redis.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, commonerrors.NewReportNotFoundError(fmt.Sprintf("no cached audit for %s", targetURL))
	}
	if err != nil {
		s.logger.WithError(err).Error("Failed to read cached audit", map[string]interface{}{
			"cache_key": key,
		})
		return nil, commonerrors.NewReportNotFoundError("audit cache is unavailable")
	}

	var audit models.AuditResult
	if err := json.Unmarshal([]byte(payload), &audit); err != nil {
		return nil, commonerrors.NewReportNotFoundError("cached audit is malformed")
	}
	return &audit, nil
}

func buildReport(sessionID string, audit *models.AuditResult) *DetailedReport {
	return &DetailedReport{
		SessionID:    sessionID,
		URL:          audit.URL,
		Email:        audit.Email,
		GeneratedAt:  time.Now().UTC(),
		OverallScore: audit.OverallScore,
		Sections: []ReportSection{
			buildSection("Performance", audit.Performance,
				"Page load speed and runtime efficiency measured by Lighthouse."),
			buildSection("SEO", audit.SEO,
				"Search engine discoverability signals such as meta tags and crawlability."),
			buildSection("Mobile Experience", audit.Mobile,
				"Responsiveness and usability on small screens."),
			buildSection("Accessibility", audit.Accessibility,
				"Compliance with accessibility guidelines for assistive technologies."),
		},
		Recommendations: audit.Recommendations,
	}
}

func buildSection(title string, score int, summary string) ReportSection {
	return ReportSection{
		Title:   title,
		Score:   score,
		Grade:   gradeFor(score),
		Summary: summary,
	}
}

func gradeFor(score int) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}
