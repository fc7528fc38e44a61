package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/rezkam/cadence/internal/calendar"
	"github.com/rezkam/cadence/internal/domain"
	"github.com/rezkam/cadence/internal/recurring"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Details []ErrorField `json:"details"` // never null
}

// ErrorField describes a field-specific error. Issue carries the rule
// validation code when the error came from the recurrence engine.
type ErrorField struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
	Min   *int   `json:"min,omitempty"`
	Max   *int   `json:"max,omitempty"`
}

// Error sends a generic error response.
func Error(w http.ResponseWriter, code, message string, statusCode int) {
	JSON(w, statusCode, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: []ErrorField{},
		},
	})
}

// BadRequest sends a 400 Bad Request error.
func BadRequest(w http.ResponseWriter, message string) {
	Error(w, "INVALID_REQUEST", message, http.StatusBadRequest)
}

// ValidationError sends a 400 validation error with field details.
func ValidationError(w http.ResponseWriter, field, issue string) {
	validation(w, "validation failed", ErrorField{Field: field, Issue: issue})
}

func validation(w http.ResponseWriter, message string, fields ...ErrorField) {
	JSON(w, http.StatusBadRequest, ErrorResponse{
		Error: ErrorDetail{
			Code:    "VALIDATION_ERROR",
			Message: message,
			Details: fields,
		},
	})
}

// RuleError sends a 400 for a rejected recurrence rule. The field is
// reported relative to prefix, e.g. "rule.offset".
func RuleError(w http.ResponseWriter, prefix string, ve *recurring.ValidationError) {
	field := ErrorField{Field: ve.Field, Issue: ve.Code}
	if prefix != "" {
		field.Field = prefix + "." + ve.Field
	}
	if ve.Code == recurring.CodeOffsetRange {
		field.Min, field.Max = &ve.Min, &ve.Max
	}
	validation(w, ve.Error(), field)
}

// NotFound sends a 404 Not Found error.
func NotFound(w http.ResponseWriter, resource string) {
	Error(w, "NOT_FOUND", resource+" not found", http.StatusNotFound)
}

// Conflict sends a 409 Conflict error.
func Conflict(w http.ResponseWriter, message string) {
	Error(w, "CONFLICT", message, http.StatusConflict)
}

// Unavailable sends a 503 for storage outages the client may retry.
func Unavailable(w http.ResponseWriter) {
	Error(w, "UNAVAILABLE", "service temporarily unavailable", http.StatusServiceUnavailable)
}

// InternalError logs err and sends a 500 with a generic message.
func InternalError(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		slog.ErrorContext(r.Context(), "Internal server error", "error", err)
	}
	Error(w, "INTERNAL_ERROR", "an internal error occurred", http.StatusInternalServerError)
}

// FromDomainError maps domain errors to HTTP responses.
func FromDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var ruleErr *recurring.ValidationError

	switch {
	// Validation errors (400)
	case errors.As(err, &ruleErr):
		RuleError(w, "rule", ruleErr)
	case errors.Is(err, domain.ErrTitleRequired):
		ValidationError(w, "title", "required field missing")
	case errors.Is(err, domain.ErrTitleTooLong):
		ValidationError(w, "title", "must be 255 characters or less")
	case errors.Is(err, domain.ErrInvalidID):
		ValidationError(w, "id", "invalid ID format")
	case errors.Is(err, domain.ErrInvalidEtagFormat):
		ValidationError(w, "etag", "must be a positive version number")
	case errors.Is(err, domain.ErrEmptyUpdateMask):
		ValidationError(w, "update_mask", "required field missing")
	case errors.Is(err, domain.ErrUnknownField):
		ValidationError(w, "update_mask", err.Error())
	case errors.Is(err, domain.ErrRuleRequired):
		ValidationError(w, "rule", "required field missing")
	case errors.Is(err, domain.ErrInvalidProgress):
		ValidationError(w, "count", "must not be negative")
	case errors.Is(err, domain.ErrInvalidDate), errors.Is(err, calendar.ErrInvalidDate):
		ValidationError(w, "date", err.Error())

	// Not found errors (404)
	case errors.Is(err, domain.ErrReminderNotFound):
		NotFound(w, "reminder")
	case errors.Is(err, domain.ErrNotFound):
		NotFound(w, "resource")

	// Concurrency errors (409)
	case errors.Is(err, domain.ErrVersionConflict):
		Conflict(w, err.Error())

	// Storage outage (503)
	case errors.Is(err, domain.ErrUnavailable):
		slog.WarnContext(r.Context(), "storage unavailable", "error", err)
		Unavailable(w)

	default:
		InternalError(w, r, err)
	}
}
