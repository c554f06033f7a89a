package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError represents a validation error for a specific field.
// Code is a stable machine-readable reason (required, must_be_positive, invalid_date, ...).
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Common errors
var (
	ErrNotFound           = &AppError{Code: http.StatusNotFound, Message: "Resource not found"}
	ErrUnauthorized       = &AppError{Code: http.StatusUnauthorized, Message: "Unauthorized"}
	ErrForbidden          = &AppError{Code: http.StatusForbidden, Message: "Forbidden"}
	ErrBadRequest         = &AppError{Code: http.StatusBadRequest, Message: "Bad request"}
	ErrInternalServer     = &AppError{Code: http.StatusInternalServerError, Message: "Internal server error"}
	ErrConflict           = &AppError{Code: http.StatusConflict, Message: "Resource already exists"}
	ErrUnprocessable      = &AppError{Code: http.StatusUnprocessableEntity, Message: "Unprocessable entity"}
	ErrInvalidCredentials = &AppError{Code: http.StatusUnauthorized, Message: "Invalid username or password"}
	ErrTokenExpired       = &AppError{Code: http.StatusUnauthorized, Message: "Token has expired"}
	ErrInvalidToken       = &AppError{Code: http.StatusUnauthorized, Message: "Invalid token"}
)

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Message: resource + " not found",
	}
}

// NewConflictError creates a conflict error with a custom message
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

// StoreUnavailableError reports that the backing store could not be reached.
// The underlying driver error is kept for logging and errors.Is checks.
type StoreUnavailableError struct {
	Op  string
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("store unavailable during %s: %v", e.Op, e.Err)
}

func (e *StoreUnavailableError) Unwrap() error {
	return e.Err
}

// NewStoreUnavailableError wraps a connectivity failure raised by a store adapter
func NewStoreUnavailableError(op string, err error) *StoreUnavailableError {
	return &StoreUnavailableError{Op: op, Err: err}
}

// IsStoreUnavailable reports whether err (or anything it wraps) is a StoreUnavailableError
func IsStoreUnavailable(err error) bool {
	var storeErr *StoreUnavailableError
	return errors.As(err, &storeErr)
}

// LineOutcome describes what happened to one line of a multi-line dispense
type LineOutcome struct {
	Line          int    `json:"line"`
	MedicineID    string `json:"medicine_id"`
	RecordWritten bool   `json:"record_written"`
	StockUpdated  bool   `json:"stock_updated"`
	Error         string `json:"error,omitempty"`
}

// Committed reports whether the line left any trace in the store
func (o LineOutcome) Committed() bool {
	return o.RecordWritten || o.StockUpdated
}

// PartialDispenseError is returned when a dispense stopped short after some
// lines were already committed. Nothing is rolled back.
type PartialDispenseError struct {
	BillNumber string        `json:"bill_number"`
	Lines      []LineOutcome `json:"lines"`
}

func (e *PartialDispenseError) Error() string {
	failed := 0
	for _, l := range e.Lines {
		if l.Error != "" {
			failed++
		}
	}
	return fmt.Sprintf("dispense %s partially failed: %d of %d lines failed", e.BillNumber, failed, len(e.Lines))
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	var storeErr *StoreUnavailableError
	if errors.As(err, &storeErr) {
		return &AppError{
			Code:    http.StatusServiceUnavailable,
			Message: "Store unavailable, please retry",
		}
	}
	var partial *PartialDispenseError
	if errors.As(err, &partial) {
		fieldErrors := make([]FieldError, 0, len(partial.Lines))
		for _, l := range partial.Lines {
			if l.Error == "" {
				continue
			}
			fieldErrors = append(fieldErrors, FieldError{
				Field:   fmt.Sprintf("lines[%d]", l.Line),
				Code:    "dispense_failed",
				Message: l.Error,
			})
		}
		return &AppError{
			Code:    http.StatusInternalServerError,
			Message: partial.Error(),
			Errors:  fieldErrors,
		}
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: err.Error(),
	}
}
