package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/fluentia/fluentia-api/internal/domain"
	"github.com/fluentia/fluentia-api/internal/store"
)

// MockEnrollmentStore implements store.EnrollmentStore for testing
type MockEnrollmentStore struct {
	// Custom behavior functions
	CreateFn              func(ctx context.Context, enrollment *domain.Enrollment) error
	GetFn                 func(ctx context.Context, id uuid.UUID) (*domain.Enrollment, error)
	GetForUserFn          func(ctx context.Context, userID, learningPathID uuid.UUID) (*domain.Enrollment, error)
	GetForUserForUpdateFn func(ctx context.Context, userID, learningPathID uuid.UUID) (*domain.Enrollment, error)
	ListForUserFn         func(ctx context.Context, userID uuid.UUID) ([]*domain.Enrollment, error)
	UpdateFn              func(ctx context.Context, enrollment *domain.Enrollment) error

	// Default response values
	Enrollment  *domain.Enrollment
	Enrollments []*domain.Enrollment
	Err         error
}

// Create implements the store.EnrollmentStore interface
func (m *MockEnrollmentStore) Create(ctx context.Context, enrollment *domain.Enrollment) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, enrollment)
	}
	return m.Err
}

// Get implements the store.EnrollmentStore interface
func (m *MockEnrollmentStore) Get(ctx context.Context, id uuid.UUID) (*domain.Enrollment, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, id)
	}
	return m.Enrollment, m.Err
}

// GetForUser implements the store.EnrollmentStore interface
func (m *MockEnrollmentStore) GetForUser(
	ctx context.Context,
	userID, learningPathID uuid.UUID,
) (*domain.Enrollment, error) {
	if m.GetForUserFn != nil {
		return m.GetForUserFn(ctx, userID, learningPathID)
	}
	return m.Enrollment, m.Err
}

// GetForUserForUpdate implements the store.EnrollmentStore interface
func (m *MockEnrollmentStore) GetForUserForUpdate(
	ctx context.Context,
	userID, learningPathID uuid.UUID,
) (*domain.Enrollment, error) {
	if m.GetForUserForUpdateFn != nil {
		return m.GetForUserForUpdateFn(ctx, userID, learningPathID)
	}
	return m.Enrollment, m.Err
}

// ListForUser implements the store.EnrollmentStore interface
func (m *MockEnrollmentStore) ListForUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.Enrollment, error) {
	if m.ListForUserFn != nil {
		return m.ListForUserFn(ctx, userID)
	}
	return m.Enrollments, m.Err
}

// Update implements the store.EnrollmentStore interface
func (m *MockEnrollmentStore) Update(ctx context.Context, enrollment *domain.Enrollment) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, enrollment)
	}
	return m.Err
}

// WithTx implements the store.EnrollmentStore interface. The mock has
// no transaction state, so it returns itself.
func (m *MockEnrollmentStore) WithTx(tx *sql.Tx) store.EnrollmentStore {
	return m
}
