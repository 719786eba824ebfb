package analyze

import (
	"context"

	"website-audit/internal/common/logger"
	"website-audit/internal/providers/pagespeed"
)

type Input struct {
	URL   string `json:"url"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// PerformanceProvider returns raw category fractions for a URL.
type PerformanceProvider interface {
	Analyze(ctx context.Context, targetURL string) (*pagespeed.CategoryScores, error)
}

// RecommendationProvider returns free text for a prompt.
type RecommendationProvider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type ServiceDependencies struct {
	Logger logger.Logger
}
