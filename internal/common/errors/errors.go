// Package errors provides the standardized error codes and error types shared by the search builder.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Codes
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Filter validation codes. These travel inside ValidationError values, never as Go errors.
const (
	ErrCodeInvalidType       ErrorCode = "INVALID_TYPE"
	ErrCodeInvalidNumber     ErrorCode = "INVALID_NUMBER"
	ErrCodeNegativeValue     ErrorCode = "NEGATIVE_VALUE"
	ErrCodeValueTooHigh      ErrorCode = "VALUE_TOO_HIGH"
	ErrCodeInvalidDateFormat ErrorCode = "INVALID_DATE_FORMAT"
	ErrCodeInvalidDateRange  ErrorCode = "INVALID_DATE_RANGE"
	ErrCodeDateTooFarFuture  ErrorCode = "DATE_TOO_FAR_FUTURE"
	ErrCodeInvalidFormat     ErrorCode = "INVALID_FORMAT"
	ErrCodeInvalidLanguage   ErrorCode = "INVALID_LANGUAGE"
	ErrCodeInvalidUsernameAt ErrorCode = "INVALID_USERNAME_AT"
	ErrCodeUsernameTooLong   ErrorCode = "USERNAME_TOO_LONG"
	ErrCodeInvalidUsername   ErrorCode = "INVALID_USERNAME"
	ErrCodeTextTooLong       ErrorCode = "TEXT_TOO_LONG"
	ErrCodeUnbalancedQuotes  ErrorCode = "UNBALANCED_QUOTES"
)

// Search URL, history and template codes.
const (
	ErrCodeInvalidSortTab         ErrorCode = "INVALID_SORT_TAB"
	ErrCodeFilterValidationFailed ErrorCode = "FILTER_VALIDATION_FAILED"

	ErrCodeHistoryItemNotFound    ErrorCode = "HISTORY_ITEM_NOT_FOUND"
	ErrCodeStorageUnavailable     ErrorCode = "STORAGE_UNAVAILABLE"
	ErrCodeStorageOperationFailed ErrorCode = "STORAGE_OPERATION_FAILED"
	ErrCodeImportDataInvalid      ErrorCode = "IMPORT_DATA_INVALID"

	ErrCodeTemplateNotFound ErrorCode = "TEMPLATE_NOT_FOUND"
	ErrCodeRegistryInvalid  ErrorCode = "REGISTRY_INVALID"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// ==========================
// 2. Error Constructors
// ==========================

// NewInvalidSortTabError creates a non-retryable error for an unknown result tab.
func NewInvalidSortTabError(tab string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidSortTab,
		Message:   "Unknown search result tab",
		Details:   fmt.Sprintf("tab: %s", tab),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewFilterValidationFailedError summarizes a failed validation pass for callers that need an error value.
func NewFilterValidationFailedError(codes []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeFilterValidationFailed,
		Message:   "Search filters failed validation",
		Details:   strings.Join(codes, ", "),
		Retryable: false,
		Metadata:  map[string]interface{}{"errorCount": len(codes)},
		Timestamp: time.Now().UTC(),
	}
}

func NewHistoryItemNotFoundError(id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeHistoryItemNotFound,
		Message:   "Search history item not found",
		Details:   fmt.Sprintf("id: %s", id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewStorageUnavailableError creates a retryable error for an unreachable history backend.
func NewStorageUnavailableError(backend string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStorageUnavailable,
		Message:   fmt.Sprintf("History storage '%s' unavailable", backend),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewStorageOperationFailedError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStorageOperationFailed,
		Message:   "History storage operation failed",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewImportDataInvalidError lists every problem found in an import document.
func NewImportDataInvalidError(problems []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeImportDataInvalid,
		Message:   "Invalid import data",
		Details:   strings.Join(problems, "; "),
		Retryable: false,
		Metadata:  map[string]interface{}{"problems": problems},
		Timestamp: time.Now().UTC(),
	}
}

func NewTemplateNotFoundError(templateID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeTemplateNotFound,
		Message:   "Template not found in catalog",
		Details:   fmt.Sprintf("templateId: %s", templateID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewRegistryInvalidError(path string, problems []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRegistryInvalid,
		Message:   "Template registry failed validation",
		Details:   fmt.Sprintf("path: %s, problems: %s", path, strings.Join(problems, "; ")),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Helpers
// ==========================

// IsCode reports whether err, or anything it wraps, is a StandardError with the given code.
func IsCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr.Code == code
	}
	return false
}

func IsRetryable(err error) bool {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr.Retryable
	}
	return false
}

func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "HISTORY") || strings.Contains(codeStr, "STORAGE") || strings.Contains(codeStr, "IMPORT"):
		return "STORAGE"
	case strings.Contains(codeStr, "TEMPLATE") || strings.Contains(codeStr, "REGISTRY"):
		return "TEMPLATE"
	case strings.Contains(codeStr, "DATE"):
		return "DATE"
	case strings.Contains(codeStr, "USERNAME"):
		return "USERNAME"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALUE") ||
		strings.Contains(codeStr, "TEXT") || strings.Contains(codeStr, "QUOTES"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
