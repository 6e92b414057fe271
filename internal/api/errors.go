package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/fluentia/fluentia-api/internal/domain"
	"github.com/fluentia/fluentia-api/internal/service/auth"
	"github.com/fluentia/fluentia-api/internal/service/progress"
	"github.com/fluentia/fluentia-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Not found errors
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrEnrollmentNotFound),
		errors.Is(err, store.ErrLearningPathNotFound),
		errors.Is(err, store.ErrLessonNotFound),
		errors.Is(err, progress.ErrEnrollmentNotFound),
		errors.Is(err, progress.ErrLearningPathNotFound),
		errors.Is(err, progress.ErrLessonNotFound),
		errors.Is(err, domain.ErrWordNotFound):
		return http.StatusNotFound

	// Conflict errors. Stale events and concurrent modifications both
	// mean the client's view of the enrollment is out of date, so they
	// share 409 with the uniqueness conflicts.
	case errors.Is(err, store.ErrEmailExists),
		errors.Is(err, progress.ErrAlreadyEnrolled),
		errors.Is(err, domain.ErrWordExists),
		errors.Is(err, domain.ErrStaleEvent),
		errors.Is(err, progress.ErrConcurrentModification):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidReference),
		errors.Is(err, domain.ErrOutOfRange),
		errors.Is(err, domain.ErrEmptyWord),
		errors.Is(err, domain.ErrEmptyTranslation),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid credentials"

	// Not found errors
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrEnrollmentNotFound),
		errors.Is(err, progress.ErrEnrollmentNotFound):
		return "You are not enrolled in this learning path"

	case errors.Is(err, store.ErrLearningPathNotFound),
		errors.Is(err, progress.ErrLearningPathNotFound):
		return "Learning path not found"

	case errors.Is(err, store.ErrLessonNotFound),
		errors.Is(err, progress.ErrLessonNotFound):
		return "Lesson not found"

	case errors.Is(err, domain.ErrWordNotFound):
		return "Word is not tracked in your vocabulary"

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, progress.ErrAlreadyEnrolled):
		return "You are already enrolled in this learning path"

	case errors.Is(err, domain.ErrWordExists):
		return "Word is already tracked in your vocabulary"

	case errors.Is(err, domain.ErrStaleEvent):
		return "Event is older than already recorded activity"

	case errors.Is(err, progress.ErrConcurrentModification):
		return "Progress was modified concurrently, please retry"

	// Bad request errors
	case errors.Is(err, domain.ErrInvalidReference):
		return "Lesson is outside the reachable week range"

	case errors.Is(err, domain.ErrOutOfRange):
		return "A value is outside its allowed range"

	case errors.Is(err, domain.ErrEmptyWord),
		errors.Is(err, domain.ErrEmptyTranslation):
		return "Word and translation are required"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid request data"

	// Default case for unknown errors
	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Example format: "Key: 'LoginRequest.Email' Error:Field validation
	// for 'Email' failed on the 'required' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "gte", "lte":
		return "out of range"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
