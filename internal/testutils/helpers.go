package testutils

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/fluentia/fluentia-api/internal/store"
)

// MustInsertUser inserts a user row directly and returns its ID. The
// stored hash is a placeholder; tests that verify passwords should go
// through the user store instead.
func MustInsertUser(ctx context.Context, t *testing.T, db store.DBTX, email string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	now := time.Now().UTC()
	_, err := db.ExecContext(ctx, `
		INSERT INTO users (id, email, hashed_password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		id, email, "test-hash-placeholder", now, now)
	require.NoError(t, err, "failed to insert test user")
	return id
}

// MustInsertLearningPath inserts a learning path row and returns its ID.
func MustInsertLearningPath(
	ctx context.Context,
	t *testing.T,
	db store.DBTX,
	durationWeeks int,
) uuid.UUID {
	t.Helper()

	id := uuid.New()
	now := time.Now().UTC()
	_, err := db.ExecContext(ctx, `
		INSERT INTO learning_paths (
			id, title, description, language, level, duration_weeks, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, fmt.Sprintf("Spanish in %d Weeks", durationWeeks),
		"Test learning path", "es", "beginner", durationWeeks, now, now)
	require.NoError(t, err, "failed to insert test learning path")
	return id
}

// MustInsertLesson inserts a lesson row for the given path and returns
// its ID.
func MustInsertLesson(
	ctx context.Context,
	t *testing.T,
	db store.DBTX,
	learningPathID uuid.UUID,
	week, position int,
) uuid.UUID {
	t.Helper()

	id := uuid.New()
	now := time.Now().UTC()
	_, err := db.ExecContext(ctx, `
		INSERT INTO lessons (id, learning_path_id, week, position, title, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, learningPathID, week, position,
		fmt.Sprintf("Week %d Lesson %d", week, position), now, now)
	require.NoError(t, err, "failed to insert test lesson")
	return id
}

// UniqueEmail returns an email address that will not collide with other
// tests sharing the database.
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%s@example.com", prefix, uuid.New().String()[:8])
}
