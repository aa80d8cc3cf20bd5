package errs

import "errors"

// Sentinel errors shared by the usecase layer. Handlers map these to HTTP
// statuses; the infra layer marks its low-level failures with them.
var (
	// Window / input validation
	ErrValidation = errors.New("validation failed")

	// The window conflicts with the target's calendar, at creation or at
	// acceptance time.
	ErrSlotUnavailable = errors.New("slot unavailable")

	// Hold lookups
	ErrHoldNotFound = errors.New("hold not found")
	ErrForbidden    = errors.New("actor is not a party to the hold")

	// A transition was attempted out of a terminal or already-contested state.
	ErrInvalidTransition = errors.New("invalid hold transition")

	// A blocked slot referenced by an accepted hold cannot be removed.
	ErrSlotReferenced = errors.New("slot referenced by accepted hold")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
