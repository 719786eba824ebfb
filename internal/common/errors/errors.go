// Package errors provides standardized error handling for the audit API.
package errors

import (
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Client input errors
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidURL       ErrorCode = "INVALID_URL"

	// Configuration errors
	ErrCodeConfigMissing ErrorCode = "CONFIG_MISSING"

	// Upstream provider errors. Absorbed on the analyze path and replaced
	// by fallback data; surfaced on the payment path.
	ErrCodePageSpeedFailed     ErrorCode = "PAGESPEED_FAILED"
	ErrCodeGenAIFailed         ErrorCode = "GENAI_FAILED"
	ErrCodePaymentFailed       ErrorCode = "PAYMENT_FAILED"
	ErrCodePaymentNotCompleted ErrorCode = "PAYMENT_NOT_COMPLETED"

	// Owned-state errors
	ErrCodeLeadSaveFailed ErrorCode = "LEAD_SAVE_FAILED"
	ErrCodeReportNotFound ErrorCode = "REPORT_NOT_FOUND"

	// Best-effort side channel errors, logged only
	ErrCodeCRMSyncFailed          ErrorCode = "CRM_SYNC_FAILED"
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewValidationError creates a non-retryable client input error.
func NewValidationError(message, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   message,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidURLError creates a non-retryable URL parse error.
func NewInvalidURLError(rawURL string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidURL,
		Message:   "URL must be an absolute http or https URL",
		Details:   fmt.Sprintf("url: %s", rawURL),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewConfigMissingError creates an error naming the absent credential.
func NewConfigMissingError(credential string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfigMissing,
		Message:   fmt.Sprintf("Missing required configuration: %s", credential),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPageSpeedFailedError creates a retryable performance provider error.
func NewPageSpeedFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePageSpeedFailed,
		Message:   "Performance provider request failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewGenAIFailedError creates a retryable recommendation provider error.
func NewGenAIFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeGenAIFailed,
		Message:   "Recommendation provider request failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewPaymentFailedError creates a retryable payment provider error.
func NewPaymentFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePaymentFailed,
		Message:   "Payment provider request failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewPaymentNotCompletedError signals the checkout session is not paid yet.
func NewPaymentNotCompletedError(sessionID string) *StandardError {
	return &StandardError{
		Code:      ErrCodePaymentNotCompleted,
		Message:   "Payment has not been completed for this session",
		Details:   fmt.Sprintf("sessionId: %s", sessionID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewLeadSaveFailedError creates a retryable persistence error. Lead rows are
// the one piece of state this system owns, so these surface to the caller.
func NewLeadSaveFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLeadSaveFailed,
		Message:   "Failed to persist lead record",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewReportNotFoundError signals the audit result for a paid session expired
// from the cache.
func NewReportNotFoundError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeReportNotFound,
		Message:   "No audit result found for this session",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCRMSyncFailedError creates a logged-only CRM relay error.
func NewCRMSyncFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCRMSyncFailed,
		Message:   "CRM relay failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a logged-only notification error.
func NewNotificationSendFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Team notification failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Classification helpers
// ==========================

// GetErrorCategory groups codes by the handling they receive.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeValidationFailed, ErrCodeInvalidURL:
		return "client"
	case ErrCodeConfigMissing:
		return "configuration"
	case ErrCodePageSpeedFailed, ErrCodeGenAIFailed:
		return "provider"
	case ErrCodePaymentFailed, ErrCodePaymentNotCompleted:
		return "payment"
	case ErrCodeLeadSaveFailed, ErrCodeReportNotFound:
		return "persistence"
	case ErrCodeCRMSyncFailed, ErrCodeNotificationSendFailed:
		return "side-channel"
	default:
		return "internal"
	}
}

// IsAbsorbed reports whether a provider error is swallowed on the analyze
// path and replaced by deterministic fallback data.
func IsAbsorbed(code ErrorCode) bool {
	return code == ErrCodePageSpeedFailed || code == ErrCodeGenAIFailed
}
