package analyze

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"website-audit/internal/common/errors"
	"website-audit/internal/common/logger"
	"website-audit/internal/common/metrics"
	"website-audit/internal/models"
	"website-audit/internal/providers/genai"
	"website-audit/internal/providers/pagespeed"
)

const recommendationCount = 6

// neutralScore replaces every category when the performance provider fails.
const neutralScore = 50

type Service struct {
	config *Config
	logger logger.Logger
	perf   PerformanceProvider
	recs   RecommendationProvider
	redis  *redis.Client
}

func NewService(deps ServiceDependencies, config *Config, perf PerformanceProvider, recs RecommendationProvider, redisClient *redis.Client) *Service {
	return &Service{
		config: config,
		logger: deps.Logger,
		perf:   perf,
		recs:   recs,
		redis:  redisClient,
	}
}

// NewServiceWithClients wires the real provider clients from config.
func NewServiceWithClients(deps ServiceDependencies, config *Config, redisClient *redis.Client) *Service {
	perf := pagespeed.NewClient(config.PageSpeedAPIKey, config.PageSpeedBaseURL, config.PageSpeedTimeout)
	recs := genai.NewClient(config.GenAIAPIKey, config.GenAIBaseURL, config.GenAIModel, config.GenAITimeout)
	return NewService(deps, config, perf, recs, redisClient)
}

func (s *Service) Execute(ctx context.Context, input *Input) (*models.AuditResult, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}
	if err := s.checkCredentials(); err != nil {
		return nil, err
	}

	s.logger.Info("Running website audit", map[string]interface{}{
		"url":   input.URL,
		"email": input.Email,
	})

	scores := s.fetchScores(ctx, input.URL)
	recommendations := s.fetchRecommendations(ctx, input.URL, scores)

	result := &models.AuditResult{
		URL:             input.URL,
		Email:           input.Email,
		Name:            input.Name,
		Timestamp:       time.Now().UTC(),
		OverallScore:    overallScore(scores),
		Performance:     scores.Performance,
		SEO:             scores.SEO,
		Mobile:          scores.Mobile,
		Accessibility:   scores.Accessibility,
		Recommendations: recommendations,
	}

	s.cacheResult(ctx, result)

	s.logger.Info("Audit completed", map[string]interface{}{
		"url":          input.URL,
		"overallScore": result.OverallScore,
	})

	return result, nil
}

func (s *Service) validateInput(input *Input) error {
	if strings.TrimSpace(input.URL) == "" {
		return errors.NewValidationError("Missing required field: url", "")
	}
	if strings.TrimSpace(input.Email) == "" {
		return errors.NewValidationError("Missing required field: email", "")
	}

	parsed, err := url.Parse(input.URL)
	if err != nil || !parsed.IsAbs() || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return errors.NewInvalidURLError(input.URL)
	}
	return nil
}

// checkCredentials runs before any outbound call so a missing key fails
// fast, naming the credential.
func (s *Service) checkCredentials() error {
	if s.config.PageSpeedAPIKey == "" {
		return errors.NewConfigMissingError("PAGESPEED_API_KEY")
	}
	if s.config.GenAIAPIKey == "" {
		return errors.NewConfigMissingError("GEMINI_API_KEY")
	}
	return nil
}

// fetchScores calls the performance provider and rounds each raw fraction
// independently. A provider failure is absorbed: every category becomes the
// neutral score and the request proceeds.
func (s *Service) fetchScores(ctx context.Context, targetURL string) models.CategoryScores {
	psCtx, cancel := context.WithTimeout(ctx, s.config.PageSpeedTimeout)
	defer cancel()

	raw, err := s.perf.Analyze(psCtx, targetURL)
	if err != nil {
		metrics.ProviderFallbacksTotal.WithLabelValues("pagespeed").Inc()
		s.logger.Warn("Performance provider failed, using neutral scores", map[string]interface{}{
			"url":   targetURL,
			"error": err.Error(),
		})
		return models.CategoryScores{
			Performance:   neutralScore,
			SEO:           neutralScore,
			Accessibility: neutralScore,
			Mobile:        neutralScore,
		}
	}

	// Each category is rounded on its own, with no shared rounding
	// correction. The overall score may drift +-1 from rounding the raw
	// mean; this matches the shipped product behavior.
	performance := roundFraction(raw.Performance)
	seo := roundFraction(raw.SEO)
	accessibility := roundFraction(raw.Accessibility)
	bestPractices := roundFraction(raw.BestPractices)

	return models.CategoryScores{
		Performance:   performance,
		SEO:           seo,
		Accessibility: accessibility,
		Mobile:        mobileScore(performance, bestPractices),
	}
}

func (s *Service) fetchRecommendations(ctx context.Context, targetURL string, scores models.CategoryScores) []models.Recommendation {
	genCtx, cancel := context.WithTimeout(ctx, s.config.GenAITimeout)
	defer cancel()

	text, err := s.recs.Generate(genCtx, buildPrompt(targetURL, scores))
	if err != nil {
		metrics.ProviderFallbacksTotal.WithLabelValues("genai").Inc()
		s.logger.Warn("Recommendation provider failed, using fallback rules", map[string]interface{}{
			"url":   targetURL,
			"error": err.Error(),
		})
		return normalizeRecommendations(nil, scores)
	}

	parsed, ok := parseRecommendations(text)
	if !ok {
		metrics.ProviderFallbacksTotal.WithLabelValues("genai").Inc()
		s.logger.Warn("Recommendation provider output unparseable, using fallback rules", map[string]interface{}{
			"url": targetURL,
		})
		return normalizeRecommendations(nil, scores)
	}

	return normalizeRecommendations(parsed, scores)
}

func buildPrompt(targetURL string, scores models.CategoryScores) string {
	var parts []string

	parts = append(parts, "You are a website optimization consultant reviewing an automated audit.")
	parts = append(parts, fmt.Sprintf("\nWebsite: %s", targetURL))
	parts = append(parts, "\nCategory scores (0-100):")
	parts = append(parts, fmt.Sprintf("- Performance: %d", scores.Performance))
	parts = append(parts, fmt.Sprintf("- SEO: %d", scores.SEO))
	parts = append(parts, fmt.Sprintf("- Accessibility: %d", scores.Accessibility))
	parts = append(parts, fmt.Sprintf("- Mobile: %d", scores.Mobile))

	parts = append(parts, "\nInstructions:")
	parts = append(parts, fmt.Sprintf("- Return a JSON array of exactly %d recommendation objects", recommendationCount))
	parts = append(parts, `- Each object has fields: "title", "description", "priority", "impact"`)
	parts = append(parts, `- "priority" is one of "High", "Medium", "Low"`)
	parts = append(parts, "- Focus on the lowest-scoring categories first")
	parts = append(parts, "- Return only the JSON array, no other text")

	return strings.Join(parts, "\n")
}

// parseRecommendations extracts the first JSON array substring from the raw
// provider text and decodes it, tolerating surrounding prose or fences.
func parseRecommendations(text string) ([]models.Recommendation, bool) {
	arr, ok := genai.ExtractJSONArray(text)
	if !ok {
		return nil, false
	}

	var recs []models.Recommendation
	if err := json.Unmarshal([]byte(arr), &recs); err != nil {
		return nil, false
	}
	if len(recs) == 0 {
		return nil, false
	}
	return recs, true
}

func (s *Service) cacheResult(ctx context.Context, result *models.AuditResult) {
	if s.redis == nil {
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		return
	}

	key := CacheKey(result.Email, result.URL)
	if err := s.redis.Set(ctx, key, data, s.config.CacheTTL).Err(); err != nil {
		s.logger.Warn("Failed to cache audit result", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

// CacheKey is the Redis key for a cached audit result. The report service
// reads the same key after payment verification.
func CacheKey(email, targetURL string) string {
	return "audit:" + strings.ToLower(strings.TrimSpace(email)) + ":" + strings.TrimSpace(targetURL)
}

func roundFraction(f float64) int {
	score := int(math.Round(f * 100))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// mobileScore derives the mobile category from performance and
// best-practices; the provider has no distinct mobile category in this flow.
func mobileScore(performance, bestPractices int) int {
	return int(math.Round(float64(performance+bestPractices) / 2))
}

// overallScore is the unweighted mean of the four already-rounded
// categories, including the derived mobile score.
func overallScore(scores models.CategoryScores) int {
	sum := scores.Performance + scores.SEO + scores.Accessibility + scores.Mobile
	return int(math.Round(float64(sum) / 4))
}
