package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/fluentia/fluentia-api/internal/domain"
)

// EnrollmentStore defines the interface for enrollment persistence.
type EnrollmentStore interface {
	// Create saves a new enrollment.
	// It handles domain validation internally.
	// Returns ErrAlreadyEnrolled if the user already has an enrollment
	// for the same learning path.
	Create(ctx context.Context, enrollment *domain.Enrollment) error

	// Get retrieves an enrollment by its ID.
	// Returns ErrEnrollmentNotFound if the enrollment does not exist.
	// NOTE: This method does NOT provide any row locking, so it should not
	// be used when you plan to update the row and need concurrency protection.
	Get(ctx context.Context, id uuid.UUID) (*domain.Enrollment, error)

	// GetForUser retrieves the enrollment of a user for a specific learning path.
	// Returns ErrEnrollmentNotFound if the user is not enrolled.
	GetForUser(ctx context.Context, userID, learningPathID uuid.UUID) (*domain.Enrollment, error)

	// GetForUserForUpdate retrieves an enrollment with a row-level lock using
	// SELECT FOR UPDATE. This should be used within a transaction when you
	// plan to update the row and need protection from concurrent modifications.
	// Returns ErrEnrollmentNotFound if the user is not enrolled.
	GetForUserForUpdate(ctx context.Context, userID, learningPathID uuid.UUID) (*domain.Enrollment, error)

	// ListForUser retrieves all enrollments belonging to a user, most
	// recently updated first.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Enrollment, error)

	// Update persists a modified enrollment using optimistic concurrency:
	// the write succeeds only if the stored version still matches
	// enrollment.Version, and the stored version is incremented.
	// On success enrollment.Version reflects the new stored version.
	// Returns ErrEnrollmentNotFound if the enrollment does not exist.
	// Returns ErrConcurrentModification if the version check fails.
	Update(ctx context.Context, enrollment *domain.Enrollment) error

	// WithTx returns a new EnrollmentStore instance that uses the provided
	// transaction. The transaction should be created and managed by the
	// caller (typically a service).
	WithTx(tx *sql.Tx) EnrollmentStore
}
