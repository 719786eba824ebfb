// internal/common/errors/handler.go
package errors

import (
	"encoding/json"
	"net/http"
	"time"
)

// ErrorHandler writes request errors with standardized shapes and logging.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// ErrorResponse is the JSON body returned for every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

// HTTPStatus maps an internal error code to the response status per the
// error taxonomy: client input 4xx, configuration and owned-state 5xx.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeValidationFailed, ErrCodeInvalidURL, ErrCodePaymentNotCompleted, ErrCodeReportNotFound:
		return http.StatusBadRequest
	case ErrCodeConfigMissing:
		return http.StatusInternalServerError
	case ErrCodePaymentFailed, ErrCodeLeadSaveFailed:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// WriteError normalizes err to a StandardError, logs it, and writes the
// JSON error response.
func (h *ErrorHandler) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	stdErr := h.normalizeError(err)
	status := HTTPStatus(stdErr.Code)

	h.logger.Error("request failed", map[string]interface{}{
		"method":    r.Method,
		"path":      r.URL.Path,
		"status":    status,
		"errorCode": string(stdErr.Code),
		"message":   stdErr.Message,
		"details":   stdErr.Details,
		"retryable": stdErr.Retryable,
		"category":  GetErrorCategory(stdErr.Code),
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error:   stdErr.Message,
		Code:    string(stdErr.Code),
		Details: stdErr.Details,
	})
}

// normalizeError ensures we always have a StandardError
func (h *ErrorHandler) normalizeError(err error) *StandardError {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
