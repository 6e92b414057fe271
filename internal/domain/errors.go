package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidReference is returned when a command targets a lesson
	// outside the learner's reachable week range.
	ErrInvalidReference = errors.New("lesson is outside the reachable week range")

	// ErrOutOfRange is returned when a numeric input (score, week) is
	// outside its documented bounds.
	ErrOutOfRange = errors.New("value out of range")

	// ErrWordExists is returned when adding a vocabulary word whose
	// normalized key is already tracked by the enrollment.
	ErrWordExists = errors.New("vocabulary word already exists")

	// ErrWordNotFound is returned when reviewing a vocabulary word the
	// enrollment does not track.
	ErrWordNotFound = errors.New("vocabulary word not found")

	// ErrStaleEvent is returned when a command is older than activity
	// already recorded on the enrollment (out-of-order delivery, clock
	// skew, or a duplicate resubmission).
	ErrStaleEvent = errors.New("event is older than recorded activity")
)
