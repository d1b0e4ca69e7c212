package domain

import "errors"

// Typed errors returned across the core boundary. Callers match with
// errors.Is; the HTTP layer translates them into status codes.
var (
	// ErrNotFound - the order id does not exist.
	ErrNotFound = errors.New("order not found")

	// ErrInvalidTransition - precondition not met (wrong current status)
	// or the actor's role is not allowed to perform the transition.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrConcurrentModification - the compare-and-set on status lost a
	// race; the caller should re-fetch and retry or abort.
	ErrConcurrentModification = errors.New("concurrent modification")

	// ErrValidation - a required field for the transition is missing or
	// malformed (empty rejection reason, unknown fault attribution, ...).
	ErrValidation = errors.New("validation failed")
)
