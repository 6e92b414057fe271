package postgres_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluentia/fluentia-api/internal/platform/postgres"
	"github.com/fluentia/fluentia-api/internal/store"
	"github.com/fluentia/fluentia-api/internal/testutils"
)

func TestCatalogStoreGetLearningPath(t *testing.T) {
	t.Parallel()

	t.Run("returns the stored path", func(t *testing.T) {
		t.Parallel()
		testutils.WithTx(t, testDB, func(t *testing.T, tx *sql.Tx) {
			ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
			defer cancel()

			catalogStore := postgres.NewPostgresCatalogStore(tx, nil)
			pathID := testutils.MustInsertLearningPath(ctx, t, tx, 8)

			path, err := catalogStore.GetLearningPath(ctx, pathID)
			require.NoError(t, err)
			assert.Equal(t, pathID, path.ID)
			assert.Equal(t, 8, path.DurationWeeks)
			assert.Equal(t, "es", path.Language)
		})
	})

	t.Run("missing path maps to the store sentinel", func(t *testing.T) {
		t.Parallel()
		testutils.WithTx(t, testDB, func(t *testing.T, tx *sql.Tx) {
			ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
			defer cancel()

			catalogStore := postgres.NewPostgresCatalogStore(tx, nil)

			_, err := catalogStore.GetLearningPath(ctx, uuid.New())
			assert.ErrorIs(t, err, store.ErrLearningPathNotFound)
		})
	})
}

func TestCatalogStoreLessons(t *testing.T) {
	t.Parallel()

	t.Run("lists lessons ordered by week then position", func(t *testing.T) {
		t.Parallel()
		testutils.WithTx(t, testDB, func(t *testing.T, tx *sql.Tx) {
			ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
			defer cancel()

			catalogStore := postgres.NewPostgresCatalogStore(tx, nil)
			pathID := testutils.MustInsertLearningPath(ctx, t, tx, 4)

			// Inserted out of order on purpose.
			week2 := testutils.MustInsertLesson(ctx, t, tx, pathID, 2, 1)
			week1Second := testutils.MustInsertLesson(ctx, t, tx, pathID, 1, 2)
			week1First := testutils.MustInsertLesson(ctx, t, tx, pathID, 1, 1)

			lessons, err := catalogStore.ListLessons(ctx, pathID)
			require.NoError(t, err)
			require.Len(t, lessons, 3)
			assert.Equal(t, week1First, lessons[0].ID)
			assert.Equal(t, week1Second, lessons[1].ID)
			assert.Equal(t, week2, lessons[2].ID)

			count, err := catalogStore.CountLessons(ctx, pathID)
			require.NoError(t, err)
			assert.Equal(t, 3, count)
		})
	})

	t.Run("missing lesson maps to the store sentinel", func(t *testing.T) {
		t.Parallel()
		testutils.WithTx(t, testDB, func(t *testing.T, tx *sql.Tx) {
			ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
			defer cancel()

			catalogStore := postgres.NewPostgresCatalogStore(tx, nil)

			_, err := catalogStore.GetLesson(ctx, uuid.New())
			assert.ErrorIs(t, err, store.ErrLessonNotFound)
		})
	})

	t.Run("count is zero for a path without lessons", func(t *testing.T) {
		t.Parallel()
		testutils.WithTx(t, testDB, func(t *testing.T, tx *sql.Tx) {
			ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
			defer cancel()

			catalogStore := postgres.NewPostgresCatalogStore(tx, nil)
			pathID := testutils.MustInsertLearningPath(ctx, t, tx, 2)

			count, err := catalogStore.CountLessons(ctx, pathID)
			require.NoError(t, err)
			assert.Zero(t, count)
		})
	})
}
