package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"website-audit/internal/common/logger"
	"website-audit/internal/providers/pagespeed"
	"website-audit/internal/providers/stripe"
	"website-audit/internal/services/analyze"
	"website-audit/internal/services/leadcapture"
	"website-audit/internal/services/payment"
	"website-audit/internal/services/report"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestLogger(t *testing.T) logger.Logger {
	return logger.NewZapAdapter(zaptest.NewLogger(t))
}

type stubPerfProvider struct {
	scores *pagespeed.CategoryScores
	err    error
}

func (s *stubPerfProvider) Analyze(ctx context.Context, targetURL string) (*pagespeed.CategoryScores, error) {
	return s.scores, s.err
}

type stubRecProvider struct {
	text string
	err  error
}

func (s *stubRecProvider) Generate(ctx context.Context, prompt string) (string, error) {
	return s.text, s.err
}

type stubCheckoutProvider struct {
	session *stripe.CheckoutSession
	err     error
}

func (s *stubCheckoutProvider) CreateCheckoutSession(ctx context.Context, params *stripe.CheckoutParams) (*stripe.CheckoutSession, error) {
	return s.session, s.err
}

type stubSessionProvider struct {
	session *stripe.CheckoutSession
	err     error
}

func (s *stubSessionProvider) GetCheckoutSession(ctx context.Context, sessionID string) (*stripe.CheckoutSession, error) {
	return s.session, s.err
}

type testServer struct {
	handler http.Handler
	mock    sqlmock.Sqlmock
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := createTestLogger(t)

	analyzeCfg := analyze.DefaultConfig()
	analyzeCfg.PageSpeedAPIKey = "ps-key"
	analyzeCfg.GenAIAPIKey = "genai-key"
	analyzeService := analyze.NewService(
		analyze.ServiceDependencies{Logger: log},
		analyzeCfg,
		&stubPerfProvider{scores: &pagespeed.CategoryScores{Performance: 0.80, SEO: 0.90, Accessibility: 0.90, BestPractices: 0.90}},
		&stubRecProvider{text: "[]"},
		nil,
	)

	paymentCfg := payment.DefaultConfig()
	paymentCfg.StripeSecretKey = "sk_test_abc"
	paymentService := payment.NewService(
		payment.ServiceDependencies{Logger: log},
		paymentCfg,
		&stubCheckoutProvider{session: &stripe.CheckoutSession{ID: "cs_test_123", URL: "https://checkout.stripe.com/pay/cs_test_123"}},
	)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	leadService := leadcapture.NewService(leadcapture.ServiceDependencies{Logger: log}, leadcapture.DefaultConfig(), db)

	reportCfg := report.DefaultConfig()
	reportCfg.StripeSecretKey = "sk_test_abc"
	reportService := report.NewService(
		report.ServiceDependencies{Logger: log},
		reportCfg,
		&stubSessionProvider{err: errors.New("stripe unavailable")},
		nil,
	)

	handlers := NewHandlers(log, nil, analyzeService, paymentService, leadService, reportService)
	return &testServer{
		handler: NewRouter(log, handlers, []string{"https://example.com"}),
		mock:    mock,
	}
}

func (ts *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// ==========================
// Routing Tests
// ==========================

func TestRouter_Analyze(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/api/analyze", `{"url":"https://example.com","email":"a@b.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decodeBody(t, rec)
	assert.Equal(t, float64(80), body["performance"])
	assert.Equal(t, float64(90), body["seo"])
	recs, ok := body["recommendations"].([]interface{})
	require.True(t, ok)
	assert.Len(t, recs, 6)
}

func TestRouter_CreatePayment(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/api/create-payment", `{"email":"a@b.com","url":"https://example.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "cs_test_123", body["sessionId"])
	assert.Equal(t, "https://checkout.stripe.com/pay/cs_test_123", body["url"])
}

func TestRouter_LeadCapture(t *testing.T) {
	ts := newTestServer(t)
	ts.mock.ExpectExec(`INSERT INTO leads`).WillReturnResult(sqlmock.NewResult(0, 1))

	rec := ts.do(http.MethodPost, "/api/lead-capture", `{"type":"audit","email":"a@b.com","name":"Jordan"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["leadId"])
	assert.NoError(t, ts.mock.ExpectationsWereMet())
}

func TestRouter_GeneratePDF(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/api/generate-pdf", `{"sessionId":"cs_test_123"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "PAYMENT_FAILED", body["code"])
}

func TestRouter_HealthEndpoints(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = ts.do(http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", rec.Body.String())
}

func TestRouter_Metrics(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

// ==========================
// Error Mapping Tests
// ==========================

func TestRouter_ErrorResponses(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "malformed json",
			path:       "/api/analyze",
			body:       `{not json`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_FAILED",
		},
		{
			name:       "missing audit fields",
			path:       "/api/analyze",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_FAILED",
		},
		{
			name:       "invalid url",
			path:       "/api/analyze",
			body:       `{"url":"ftp://example.com","email":"a@b.com"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_URL",
		},
		{
			name:       "missing payment email",
			path:       "/api/create-payment",
			body:       `{"url":"https://example.com"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_FAILED",
		},
		{
			name:       "lead schema rejection",
			path:       "/api/lead-capture",
			body:       `{"type":"newsletter","email":"a@b.com"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_FAILED",
		},
		{
			name:       "lead unknown field",
			path:       "/api/lead-capture",
			body:       `{"type":"audit","email":"a@b.com","admin":true}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_FAILED",
		},
		{
			name:       "missing session id",
			path:       "/api/generate-pdf",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_FAILED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			rec := ts.do(http.MethodPost, tt.path, tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, tt.wantCode, body["code"])
			assert.NotEmpty(t, body["error"])
		})
	}
}

// ==========================
// Middleware Tests
// ==========================

func TestRouter_RequestIDHeader(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/healthz", "")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec = httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))
}

func TestRouter_CORS(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/analyze", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/analyze", nil)
	req.Header.Set("Origin", "https://attacker.example")
	rec = httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
