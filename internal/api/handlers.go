package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	commonerrors "website-audit/internal/common/errors"
	"website-audit/internal/common/logger"
	"website-audit/internal/common/metrics"
	"website-audit/internal/common/observability"
	"website-audit/internal/common/validation"
	"website-audit/internal/services/analyze"
	"website-audit/internal/services/leadcapture"
	"website-audit/internal/services/payment"
	"website-audit/internal/services/report"
)

// Handlers binds the HTTP surface to the service layer.
type Handlers struct {
	logger        logger.Logger
	errorHandler  *commonerrors.ErrorHandler
	observability *observability.Observability

	analyzeService *analyze.Service
	paymentService *payment.Service
	leadService    *leadcapture.Service
	reportService  *report.Service
}

func NewHandlers(
	log logger.Logger,
	obs *observability.Observability,
	analyzeService *analyze.Service,
	paymentService *payment.Service,
	leadService *leadcapture.Service,
	reportService *report.Service,
) *Handlers {
	return &Handlers{
		logger:         log,
		errorHandler:   commonerrors.NewErrorHandler(log),
		observability:  obs,
		analyzeService: analyzeService,
		paymentService: paymentService,
		leadService:    leadService,
		reportService:  reportService,
	}
}

// Analyze runs the free website audit.
func (h *Handlers) Analyze(w http.ResponseWriter, r *http.Request) {
	h.instrument(w, r, "analyze", func(w http.ResponseWriter, r *http.Request) error {
		var input analyze.Input
		if err := decodeJSON(r, &input); err != nil {
			return err
		}
		result, err := h.analyzeService.Execute(r.Context(), &input)
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, result)
		return nil
	})
}

// CreatePayment starts a Stripe Checkout session for the paid report.
func (h *Handlers) CreatePayment(w http.ResponseWriter, r *http.Request) {
	h.instrument(w, r, "create_payment", func(w http.ResponseWriter, r *http.Request) error {
		var input payment.Input
		if err := decodeJSON(r, &input); err != nil {
			return err
		}
		output, err := h.paymentService.Execute(r.Context(), &input)
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, output)
		return nil
	})
}

// LeadCapture persists a lead and relays it to the CRM.
func (h *Handlers) LeadCapture(w http.ResponseWriter, r *http.Request) {
	h.instrument(w, r, "lead_capture", func(w http.ResponseWriter, r *http.Request) error {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return commonerrors.NewValidationError("Invalid request body", err.Error())
		}

		var raw map[string]interface{}
		if err := json.Unmarshal(body, &raw); err != nil {
			return commonerrors.NewValidationError("Invalid JSON body", err.Error())
		}
		if result := validation.ValidateInput(raw, leadcapture.GetInputSchema()); !result.Valid {
			return commonerrors.NewValidationError("Lead validation failed", formatValidationErrors(result.Errors))
		}

		var input leadcapture.Input
		if err := json.Unmarshal(body, &input); err != nil {
			return commonerrors.NewValidationError("Invalid JSON body", err.Error())
		}
		output, err := h.leadService.Execute(r.Context(), &input)
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, output)
		return nil
	})
}

// GeneratePDF verifies payment and returns the unlocked report.
func (h *Handlers) GeneratePDF(w http.ResponseWriter, r *http.Request) {
	h.instrument(w, r, "generate_pdf", func(w http.ResponseWriter, r *http.Request) error {
		var input report.Input
		if err := decodeJSON(r, &input); err != nil {
			return err
		}
		output, err := h.reportService.Execute(r.Context(), &input)
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, output)
		return nil
	})
}

// instrument records request metrics around a handler and routes its error
// through the standard error writer.
func (h *Handlers) instrument(w http.ResponseWriter, r *http.Request, operation string, fn func(http.ResponseWriter, *http.Request) error) {
	start := time.Now()
	status := "success"

	if err := fn(w, r); err != nil {
		status = "error"
		h.errorHandler.WriteError(w, r, err)
	}

	duration := time.Since(start)
	metrics.APIRequestsTotal.WithLabelValues(operation, status).Inc()
	metrics.APIRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if h.observability != nil {
		h.observability.RecordRequest(r.Context(), operation, status)
		h.observability.RecordRequestDuration(r.Context(), duration, operation)
	}
}

func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return commonerrors.NewValidationError("Invalid JSON body", err.Error())
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func formatValidationErrors(errs []validation.ValidationError) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		if e.Field != "" && e.Field != "(root)" {
			parts = append(parts, fmt.Sprintf("%s: %s", e.Field, e.Message))
			continue
		}
		parts = append(parts, e.Message)
	}
	return strings.Join(parts, "; ")
}
