package domain

import "errors"

// Domain errors returned by repository implementations.

var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrReminderNotFound indicates the specified reminder does not exist.
	ErrReminderNotFound = errors.New("reminder not found")

	// ErrInvalidID indicates the provided ID format is invalid.
	ErrInvalidID = errors.New("invalid ID format")

	// ErrVersionConflict indicates the record changed since it was read.
	ErrVersionConflict = errors.New("version conflict")

	// ErrUnavailable indicates a temporary storage failure worth retrying.
	ErrUnavailable = errors.New("storage temporarily unavailable")

	// ErrInvalidEtagFormat indicates the etag is not a positive version number.
	ErrInvalidEtagFormat = errors.New("invalid etag format")
)

// Validation errors for reminder input.
var (
	ErrTitleRequired   = errors.New("title is required")
	ErrTitleTooLong    = errors.New("title must be at most 255 characters")
	ErrEmptyUpdateMask = errors.New("update mask is required")
	ErrUnknownField    = errors.New("unknown field in update mask")
	ErrRuleRequired    = errors.New("rule is required")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidProgress = errors.New("invalid occurrence progress")
)
