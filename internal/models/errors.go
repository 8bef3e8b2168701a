package models

import "errors"

// Business-rule failures carry one of these kinds so handlers can map them
// to a status without inspecting messages. Wrap with fmt.Errorf("...: %w", kind).
var (
	// ErrValidation is returned for malformed or missing input.
	ErrValidation = errors.New("invalid input")
	// ErrUnauthorized is returned when no valid identity is present.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden is returned when the caller is authenticated but not entitled.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned on a uniqueness or state conflict.
	ErrConflict = errors.New("conflict")
	// ErrNotAvailable is returned when a room cannot be used right now.
	ErrNotAvailable = errors.New("not available")
	// ErrTooEarly is returned when a room has not opened yet.
	ErrTooEarly = errors.New("quiz has not started yet")
	// ErrTooLate is returned when a room has already closed.
	ErrTooLate = errors.New("quiz has already ended")
	// ErrLocked is returned when a room is deactivated by its lecturer.
	ErrLocked = errors.New("room is locked")
	// ErrAttemptLimitReached is returned when a user is out of attempts.
	ErrAttemptLimitReached = errors.New("maximum attempts reached")
	// ErrAlreadySubmitted is returned on a second submission of an attempt.
	ErrAlreadySubmitted = errors.New("attempt already submitted")
	// ErrTimeExpired is returned when a submission arrives past the deadline.
	ErrTimeExpired = errors.New("time expired")
	// ErrStorage wraps opaque persistence failures.
	ErrStorage = errors.New("storage error")
)
