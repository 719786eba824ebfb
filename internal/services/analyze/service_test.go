package analyze

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	commonerrors "website-audit/internal/common/errors"
	"website-audit/internal/common/logger"
	"website-audit/internal/models"
	"website-audit/internal/providers/pagespeed"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	cfg := DefaultConfig()
	cfg.PageSpeedAPIKey = "test-pagespeed-key"
	cfg.GenAIAPIKey = "test-genai-key"
	return cfg
}

func createTestLogger(t *testing.T) logger.Logger {
	return logger.NewZapAdapter(zaptest.NewLogger(t))
}

func createTestInput() *Input {
	return &Input{
		URL:   "https://example.com",
		Email: "owner@example.com",
		Name:  "Jordan",
	}
}

type stubPerfProvider struct {
	scores *pagespeed.CategoryScores
	err    error
	calls  int
}

func (s *stubPerfProvider) Analyze(ctx context.Context, targetURL string) (*pagespeed.CategoryScores, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.scores, nil
}

type stubRecProvider struct {
	text  string
	err   error
	calls int
}

func (s *stubRecProvider) Generate(ctx context.Context, prompt string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

func recommendationJSON(count int) string {
	recs := make([]models.Recommendation, 0, count)
	for i := 0; i < count; i++ {
		recs = append(recs, models.Recommendation{
			Title:       fmt.Sprintf("Provider Suggestion %d", i+1),
			Description: "Generated advice",
			Priority:    models.PriorityHigh,
			Impact:      "Some impact",
		})
	}
	data, _ := json.Marshal(recs)
	return string(data)
}

func titles(recs []models.Recommendation) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Title)
	}
	return out
}

func newTestService(t *testing.T, perf *stubPerfProvider, recs *stubRecProvider) *Service {
	return NewService(ServiceDependencies{Logger: createTestLogger(t)}, createTestConfig(), perf, recs, nil)
}

// ==========================
// Core Functionality Tests
// ==========================

func TestService_Execute_Success(t *testing.T) {
	perf := &stubPerfProvider{scores: &pagespeed.CategoryScores{
		Performance:   0.746,
		SEO:           0.91,
		Accessibility: 0.88,
		BestPractices: 0.60,
	}}
	recs := &stubRecProvider{text: recommendationJSON(3)}

	svc := newTestService(t, perf, recs)
	result, err := svc.Execute(context.Background(), createTestInput())

	require.NoError(t, err)
	require.NotNil(t, result)

	// Each category rounds its own raw fraction.
	assert.Equal(t, 75, result.Performance)
	assert.Equal(t, 91, result.SEO)
	assert.Equal(t, 88, result.Accessibility)
	// Mobile derives from performance and best-practices: round((75+60)/2).
	assert.Equal(t, 68, result.Mobile)
	// Overall is the mean of the four rounded categories.
	assert.Equal(t, 81, result.OverallScore)

	assert.Equal(t, "https://example.com", result.URL)
	assert.Equal(t, "owner@example.com", result.Email)
	assert.False(t, result.Timestamp.IsZero())

	require.Len(t, result.Recommendations, 6)
	got := titles(result.Recommendations)
	assert.Equal(t, "Provider Suggestion 1", got[0])
	assert.Equal(t, "Provider Suggestion 2", got[1])
	assert.Equal(t, "Provider Suggestion 3", got[2])

	assert.Equal(t, 1, perf.calls)
	assert.Equal(t, 1, recs.calls)
}

func TestService_Execute_MobileDerivation(t *testing.T) {
	tests := []struct {
		name           string
		performance    float64
		bestPractices  float64
		expectedMobile int
	}{
		{name: "simple mean", performance: 0.80, bestPractices: 0.60, expectedMobile: 70},
		{name: "half rounds up", performance: 0.75, bestPractices: 0.60, expectedMobile: 68},
		{name: "equal categories", performance: 0.90, bestPractices: 0.90, expectedMobile: 90},
		{name: "zero best practices", performance: 1.0, bestPractices: 0.0, expectedMobile: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			perf := &stubPerfProvider{scores: &pagespeed.CategoryScores{
				Performance:   tt.performance,
				SEO:           0.9,
				Accessibility: 0.9,
				BestPractices: tt.bestPractices,
			}}
			recs := &stubRecProvider{text: recommendationJSON(6)}

			svc := newTestService(t, perf, recs)
			result, err := svc.Execute(context.Background(), createTestInput())

			require.NoError(t, err)
			assert.Equal(t, tt.expectedMobile, result.Mobile)
		})
	}
}

func TestService_Execute_ExactlySixRecommendations(t *testing.T) {
	tests := []struct {
		name          string
		providerCount int
	}{
		{name: "provider returns fewer than six", providerCount: 3},
		{name: "provider returns exactly six", providerCount: 6},
		{name: "provider returns more than six", providerCount: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			perf := &stubPerfProvider{scores: &pagespeed.CategoryScores{
				Performance:   0.9,
				SEO:           0.9,
				Accessibility: 0.9,
				BestPractices: 0.9,
			}}
			recs := &stubRecProvider{text: recommendationJSON(tt.providerCount)}

			svc := newTestService(t, perf, recs)
			result, err := svc.Execute(context.Background(), createTestInput())

			require.NoError(t, err)
			assert.Len(t, result.Recommendations, 6)
		})
	}
}

// ==========================
// Validation Tests
// ==========================

func TestService_Execute_ValidationErrors(t *testing.T) {
	tests := []struct {
		name         string
		input        *Input
		expectedCode commonerrors.ErrorCode
	}{
		{
			name:         "missing url",
			input:        &Input{Email: "owner@example.com"},
			expectedCode: commonerrors.ErrCodeValidationFailed,
		},
		{
			name:         "missing email",
			input:        &Input{URL: "https://example.com"},
			expectedCode: commonerrors.ErrCodeValidationFailed,
		},
		{
			name:         "relative url",
			input:        &Input{URL: "example.com/page", Email: "owner@example.com"},
			expectedCode: commonerrors.ErrCodeInvalidURL,
		},
		{
			name:         "unsupported scheme",
			input:        &Input{URL: "ftp://example.com", Email: "owner@example.com"},
			expectedCode: commonerrors.ErrCodeInvalidURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			perf := &stubPerfProvider{}
			recs := &stubRecProvider{}

			svc := newTestService(t, perf, recs)
			result, err := svc.Execute(context.Background(), tt.input)

			require.Error(t, err)
			assert.Nil(t, result)

			var stdErr *commonerrors.StandardError
			require.ErrorAs(t, err, &stdErr)
			assert.Equal(t, tt.expectedCode, stdErr.Code)

			// Validation must fail before any outbound call.
			assert.Equal(t, 0, perf.calls)
			assert.Equal(t, 0, recs.calls)
		})
	}
}

func TestService_Execute_MissingCredentials(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(cfg *Config)
		credential string
	}{
		{
			name:       "missing pagespeed key",
			mutate:     func(cfg *Config) { cfg.PageSpeedAPIKey = "" },
			credential: "PAGESPEED_API_KEY",
		},
		{
			name:       "missing genai key",
			mutate:     func(cfg *Config) { cfg.GenAIAPIKey = "" },
			credential: "GEMINI_API_KEY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := createTestConfig()
			tt.mutate(cfg)

			perf := &stubPerfProvider{}
			recs := &stubRecProvider{}
			svc := NewService(ServiceDependencies{Logger: createTestLogger(t)}, cfg, perf, recs, nil)

			result, err := svc.Execute(context.Background(), createTestInput())

			require.Error(t, err)
			assert.Nil(t, result)

			var stdErr *commonerrors.StandardError
			require.ErrorAs(t, err, &stdErr)
			assert.Equal(t, commonerrors.ErrCodeConfigMissing, stdErr.Code)
			assert.Contains(t, stdErr.Message, tt.credential)

			assert.Equal(t, 0, perf.calls)
			assert.Equal(t, 0, recs.calls)
		})
	}
}

// ==========================
// Provider Failure Tests
// ==========================

func TestService_Execute_PageSpeedFailure(t *testing.T) {
	perf := &stubPerfProvider{err: errors.New("upstream 500")}
	recs := &stubRecProvider{err: errors.New("also down")}

	svc := newTestService(t, perf, recs)
	result, err := svc.Execute(context.Background(), createTestInput())

	require.NoError(t, err)
	require.NotNil(t, result)

	// Provider failure is absorbed: every category is neutral.
	assert.Equal(t, 50, result.Performance)
	assert.Equal(t, 50, result.SEO)
	assert.Equal(t, 50, result.Mobile)
	assert.Equal(t, 50, result.Accessibility)
	assert.Equal(t, 50, result.OverallScore)

	assert.Len(t, result.Recommendations, 6)
}

func TestService_Execute_GenAIFallback(t *testing.T) {
	tests := []struct {
		name string
		recs *stubRecProvider
	}{
		{name: "provider error", recs: &stubRecProvider{err: errors.New("quota exceeded")}},
		{name: "prose without JSON", recs: &stubRecProvider{text: "I could not produce a list."}},
		{name: "empty array", recs: &stubRecProvider{text: "[]"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			perf := &stubPerfProvider{scores: &pagespeed.CategoryScores{
				Performance:   0.40,
				SEO:           0.90,
				Accessibility: 0.90,
				BestPractices: 0.90,
			}}

			svc := newTestService(t, perf, tt.recs)
			result, err := svc.Execute(context.Background(), createTestInput())

			require.NoError(t, err)
			require.Len(t, result.Recommendations, 6)

			got := titles(result.Recommendations)
			assert.Contains(t, got, "Optimize Images")
			assert.Contains(t, got, "Enable Browser Caching")
			assert.Contains(t, got, "Enable HTTPS")
			// SEO and accessibility scored well, so their rules must not fire.
			assert.NotContains(t, got, "Add Meta Descriptions")
			assert.NotContains(t, got, "Add Image Alt Text")
		})
	}
}

func TestService_Execute_ProviderRecommendationsNormalized(t *testing.T) {
	raw := `[
		{"title": "Tighten caching", "description": "d", "priority": "CRITICAL", "impact": "i"},
		{"title": "", "description": "dropped, no title", "priority": "High", "impact": "i"},
		{"title": "Tighten caching", "description": "duplicate title dropped", "priority": "Low", "impact": "i"}
	]`
	perf := &stubPerfProvider{scores: &pagespeed.CategoryScores{
		Performance:   0.9,
		SEO:           0.9,
		Accessibility: 0.9,
		BestPractices: 0.9,
	}}
	recs := &stubRecProvider{text: raw}

	svc := newTestService(t, perf, recs)
	result, err := svc.Execute(context.Background(), createTestInput())

	require.NoError(t, err)
	require.Len(t, result.Recommendations, 6)

	assert.Equal(t, "Tighten caching", result.Recommendations[0].Title)
	// Unknown priority collapses to Medium.
	assert.Equal(t, models.PriorityMedium, result.Recommendations[0].Priority)
	assert.Equal(t, 1, countTitle(result.Recommendations, "Tighten caching"))
}

func countTitle(recs []models.Recommendation, title string) int {
	n := 0
	for _, r := range recs {
		if r.Title == title {
			n++
		}
	}
	return n
}

// ==========================
// Cache Tests
// ==========================

func TestService_Execute_CachesResult(t *testing.T) {
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer redisClient.Close()

	perf := &stubPerfProvider{scores: &pagespeed.CategoryScores{
		Performance:   0.9,
		SEO:           0.9,
		Accessibility: 0.9,
		BestPractices: 0.9,
	}}
	recs := &stubRecProvider{text: recommendationJSON(6)}

	svc := NewService(ServiceDependencies{Logger: createTestLogger(t)}, createTestConfig(), perf, recs, redisClient)

	input := &Input{URL: "https://example.com", Email: "Owner@Example.com"}
	result, err := svc.Execute(context.Background(), input)
	require.NoError(t, err)

	key := CacheKey(input.Email, input.URL)
	assert.Equal(t, "audit:owner@example.com:https://example.com", key)

	cached, err := mr.Get(key)
	require.NoError(t, err)

	var stored models.AuditResult
	require.NoError(t, json.Unmarshal([]byte(cached), &stored))
	assert.Equal(t, result.OverallScore, stored.OverallScore)
	assert.Equal(t, result.URL, stored.URL)

	ttl := mr.TTL(key)
	assert.Equal(t, 24*time.Hour, ttl)
}

func TestService_Execute_CacheFailureIsAbsorbed(t *testing.T) {
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer redisClient.Close()
	mr.Close() // every command now fails

	perf := &stubPerfProvider{scores: &pagespeed.CategoryScores{
		Performance:   0.9,
		SEO:           0.9,
		Accessibility: 0.9,
		BestPractices: 0.9,
	}}
	recs := &stubRecProvider{text: recommendationJSON(6)}

	svc := NewService(ServiceDependencies{Logger: createTestLogger(t)}, createTestConfig(), perf, recs, redisClient)

	result, err := svc.Execute(context.Background(), createTestInput())
	require.NoError(t, err)
	assert.NotNil(t, result)
}

// ==========================
// Unit Tests - Scoring
// ==========================

func TestRoundFraction(t *testing.T) {
	tests := []struct {
		name     string
		fraction float64
		expected int
	}{
		{name: "rounds half up", fraction: 0.745, expected: 75},
		{name: "rounds down", fraction: 0.744, expected: 74},
		{name: "clamps negative", fraction: -0.1, expected: 0},
		{name: "clamps above one", fraction: 1.2, expected: 100},
		{name: "zero", fraction: 0, expected: 0},
		{name: "perfect", fraction: 1.0, expected: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, roundFraction(tt.fraction))
		})
	}
}

func TestOverallScore(t *testing.T) {
	tests := []struct {
		name     string
		scores   models.CategoryScores
		expected int
	}{
		{
			name:     "exact mean",
			scores:   models.CategoryScores{Performance: 80, SEO: 80, Accessibility: 80, Mobile: 80},
			expected: 80,
		},
		{
			name:     "half rounds up",
			scores:   models.CategoryScores{Performance: 75, SEO: 91, Accessibility: 88, Mobile: 68},
			expected: 81,
		},
		{
			name:     "all neutral",
			scores:   models.CategoryScores{Performance: 50, SEO: 50, Accessibility: 50, Mobile: 50},
			expected: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, overallScore(tt.scores))
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt("https://example.com", models.CategoryScores{
		Performance:   40,
		SEO:           90,
		Accessibility: 85,
		Mobile:        65,
	})

	assert.Contains(t, prompt, "https://example.com")
	assert.Contains(t, prompt, "Performance: 40")
	assert.Contains(t, prompt, "Mobile: 65")
	assert.Contains(t, prompt, "JSON array")
}
