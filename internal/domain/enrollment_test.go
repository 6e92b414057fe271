package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluentia/fluentia-api/internal/domain"
)

func newTestEnrollment(t *testing.T, duration int) *domain.Enrollment {
	t.Helper()
	e, err := domain.NewEnrollment(
		uuid.New(),
		uuid.New(),
		duration,
		time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return e
}

func day(d int) time.Time {
	return time.Date(2024, 1, d, 10, 0, 0, 0, time.UTC)
}

func intPtr(v int) *int {
	return &v
}

func TestNewEnrollment(t *testing.T) {
	t.Parallel()

	t.Run("valid enrollment starts at week one", func(t *testing.T) {
		t.Parallel()
		e := newTestEnrollment(t, 8)

		assert.Equal(t, 1, e.CurrentWeek)
		assert.Empty(t, e.LessonsCompleted)
		assert.Empty(t, e.WeeklyAssessments)
		assert.Empty(t, e.Vocabulary)
		assert.False(t, e.Streak.Started())
		assert.False(t, e.IsCompleted)
		assert.Nil(t, e.CompletedAt)
		assert.Equal(t, int64(1), e.Version)
	})

	t.Run("rejects empty user ID", func(t *testing.T) {
		t.Parallel()
		_, err := domain.NewEnrollment(uuid.Nil, uuid.New(), 8, day(1))
		assert.ErrorIs(t, err, domain.ErrEmptyEnrollmentUserID)
	})

	t.Run("rejects zero duration", func(t *testing.T) {
		t.Parallel()
		_, err := domain.NewEnrollment(uuid.New(), uuid.New(), 0, day(1))
		assert.ErrorIs(t, err, domain.ErrInvalidDuration)
	})
}

func TestCompleteLesson(t *testing.T) {
	t.Parallel()
	policy := domain.DefaultProgressPolicy()

	t.Run("records a new completion", func(t *testing.T) {
		t.Parallel()
		e := newTestEnrollment(t, 8)
		lessonID := uuid.New()

		err := e.CompleteLesson(lessonID, 1, intPtr(90), 30, "good session", 0, policy, day(1), day(1))
		require.NoError(t, err)

		require.Len(t, e.LessonsCompleted, 1)
		assert.Equal(t, lessonID, e.LessonsCompleted[0].LessonID)
		assert.Equal(t, 90, *e.LessonsCompleted[0].Score)
		assert.Equal(t, 30, e.TotalTimeSpent)
		assert.Equal(t, 1, e.Streak.StreakDays)
	})

	t.Run("resubmission keeps completion timestamp and adds only positive time delta", func(t *testing.T) {
		t.Parallel()
		e := newTestEnrollment(t, 8)
		lessonID := uuid.New()

		require.NoError(t, e.CompleteLesson(lessonID, 1, intPtr(70), 30, "", 0, policy, day(1), day(1)))
		firstCompletedAt := e.LessonsCompleted[0].CompletedAt

		// Lower time on resubmission adds nothing and keeps the high-water mark.
		require.NoError(t, e.CompleteLesson(lessonID, 1, intPtr(85), 20, "retry", 0, policy, day(2), day(2)))
		require.Len(t, e.LessonsCompleted, 1)
		assert.Equal(t, firstCompletedAt, e.LessonsCompleted[0].CompletedAt)
		assert.Equal(t, 85, *e.LessonsCompleted[0].Score)
		assert.Equal(t, "retry", e.LessonsCompleted[0].Notes)
		assert.Equal(t, 30, e.LessonsCompleted[0].TimeSpent)
		assert.Equal(t, 30, e.TotalTimeSpent)

		// A higher time adds only the delta over the high-water mark.
		require.NoError(t, e.CompleteLesson(lessonID, 1, intPtr(85), 50, "retry", 0, policy, day(3), day(3)))
		assert.Equal(t, 50, e.LessonsCompleted[0].TimeSpent)
		assert.Equal(t, 50, e.TotalTimeSpent)
		assert.Equal(t, 1, e.LessonsCompletedCount())
	})

	t.Run("alternating resubmissions never charge the same lesson twice", func(t *testing.T) {
		t.Parallel()
		e := newTestEnrollment(t, 8)
		lessonID := uuid.New()

		require.NoError(t, e.CompleteLesson(lessonID, 1, nil, 30, "", 0, policy, day(1), day(1)))
		require.NoError(t, e.CompleteLesson(lessonID, 1, nil, 5, "", 0, policy, day(2), day(2)))
		require.NoError(t, e.CompleteLesson(lessonID, 1, nil, 30, "", 0, policy, day(3), day(3)))

		assert.Equal(t, 30, e.TotalTimeSpent)
		assert.Equal(t, 30, e.LessonsCompleted[0].TimeSpent)
	})

	t.Run("allows reaching one week ahead", func(t *testing.T) {
		t.Parallel()
		e := newTestEnrollment(t, 8)

		err := e.CompleteLesson(uuid.New(), 2, nil, 10, "", 0, policy, day(1), day(1))
		assert.NoError(t, err)
	})

	t.Run("rejects lessons beyond the reachable week range", func(t *testing.T) {
		t.Parallel()
		e := newTestEnrollment(t, 8)

		err := e.CompleteLesson(uuid.New(), 3, nil, 10, "", 0, policy, day(1), day(1))
		assert.ErrorIs(t, err, domain.ErrInvalidReference)
		assert.Empty(t, e.LessonsCompleted)
		assert.False(t, e.Streak.Started())
	})

	t.Run("rejects out-of-range score without side effects", func(t *testing.T) {
		t.Parallel()
		e := newTestEnrollment(t, 8)

		err := e.CompleteLesson(uuid.New(), 1, intPtr(101), 10, "", 0, policy, day(1), day(1))
		assert.ErrorIs(t, err, domain.ErrOutOfRange)
		assert.Empty(t, e.LessonsCompleted)
		assert.Zero(t, e.TotalTimeSpent)
		assert.False(t, e.Streak.Started())
	})

	t.Run("rejects negative time spent", func(t *testing.T) {
		t.Parallel()
		e := newTestEnrollment(t, 8)

		err := e.CompleteLesson(uuid.New(), 1, nil, -5, "", 0, policy, day(1), day(1))
		assert.ErrorIs(t, err, domain.ErrOutOfRange)
	})

	t.Run("rejects events from an earlier day", func(t *testing.T) {
		t.Parallel()
		e := newTestEnrollment(t, 8)

		require.NoError(t, e.CompleteLesson(uuid.New(), 1, nil, 10, "", 0, policy, day(5), day(5)))

		err := e.CompleteLesson(uuid.New(), 1, nil, 10, "", 0, policy, day(4), day(4))
		assert.ErrorIs(t, err, domain.ErrStaleEvent)
		assert.Len(t, e.LessonsCompleted, 1)
	})
}

func TestSubmitWeeklyAssessment(t *testing.T) {
	t.Parallel()
	policy := domain.DefaultProgressPolicy()

	t.Run("failing score records the attempt but does not advance", func(t *testing.T) {
		t.Parallel()
		e := newTestEnrollment(t, 8)

		err := e.SubmitWeeklyAssessment(1, 55, "", nil, nil, 0, policy, day(1), day(1))
		require.NoError(t, err)

		assert.Equal(t, 1, e.CurrentWeek)
		require.Len(t, e.WeeklyAssessments, 1)
		assert.Equal(t, 55, e.WeeklyAssessments[0].Score)
	})

	t.Run("passing score advances the current week", func(t *testing.T) {
		t.Parallel()
		e := newTestEnrollment(t, 8)

		err := e.SubmitWeeklyAssessment(1, 75, "well done", []string{"vocabulary"}, nil, 0, policy, day(1), day(1))
		require.NoError(t, err)

		assert.Equal(t, 2, e.CurrentWeek)
	})

	t.Run("threshold score is a pass", func(t *testing.T) {
		t.Parallel()
		e := newTestEnrollment(t, 8)

		require.NoError(t, e.SubmitWeeklyAssessment(1, 60, "", nil, nil, 0, policy, day(1), day(1)))
		assert.Equal(t, 2, e.CurrentWeek)
	})

	t.Run("retake replaces the prior record for that week", func(t *testing.T) {
		t.Parallel()
		e := newTestEnrollment(t, 8)

		require.NoError(t, e.SubmitWeeklyAssessment(1, 40, "", nil, nil, 0, policy, day(1), day(1)))
		require.NoError(t, e.SubmitWeeklyAssessment(1, 80, "", nil, nil, 0, policy, day(2), day(2)))

		require.Len(t, e.WeeklyAssessments, 1)
		assert.Equal(t, 80, e.WeeklyAssessments[0].Score)
		assert.Equal(t, 2, e.CurrentWeek)
	})

	t.Run("passing an earlier week does not advance", func(t *testing.T) {
		t.Parallel()
		e := newTestEnrollment(t, 8)

		require.NoError(t, e.SubmitWeeklyAssessment(1, 90, "", nil, nil, 0, policy, day(1), day(1)))
		require.Equal(t, 2, e.CurrentWeek)

		require.NoError(t, e.SubmitWeeklyAssessment(1, 95, "", nil, nil, 0, policy, day(2), day(2)))
		assert.Equal(t, 2, e.CurrentWeek)
	})

	t.Run("rejects a week beyond the current one", func(t *testing.T) {
		t.Parallel()
		e := newTestEnrollment(t, 8)

		err := e.SubmitWeeklyAssessment(2, 90, "", nil, nil, 0, policy, day(1), day(1))
		assert.ErrorIs(t, err, domain.ErrOutOfRange)
		assert.Empty(t, e.WeeklyAssessments)
	})

	t.Run("rejects a week past the catalog once the path is complete", func(t *testing.T) {
		t.Parallel()
		e := newTestEnrollment(t, 2)

		require.NoError(t, e.SubmitWeeklyAssessment(1, 80, "", nil, nil, 0, policy, day(1), day(1)))
		require.NoError(t, e.SubmitWeeklyAssessment(2, 80, "", nil, nil, 0, policy, day(2), day(2)))
		require.Equal(t, 3, e.CurrentWeek)

		// CurrentWeek is 3, but the path only has two weeks of material.
		err := e.SubmitWeeklyAssessment(3, 80, "", nil, nil, 0, policy, day(3), day(3))
		assert.ErrorIs(t, err, domain.ErrOutOfRange)
		assert.Len(t, e.WeeklyAssessments, 2)

		// Retaking a real week is still allowed.
		assert.NoError(t, e.SubmitWeeklyAssessment(2, 90, "", nil, nil, 0, policy, day(4), day(4)))
	})

	t.Run("rejects scores outside 0-100", func(t *testing.T) {
		t.Parallel()
		e := newTestEnrollment(t, 8)

		assert.ErrorIs(t,
			e.SubmitWeeklyAssessment(1, -1, "", nil, nil, 0, policy, day(1), day(1)),
			domain.ErrOutOfRange)
		assert.ErrorIs(t,
			e.SubmitWeeklyAssessment(1, 101, "", nil, nil, 0, policy, day(1), day(1)),
			domain.ErrOutOfRange)
	})
}

func TestCompletion(t *testing.T) {
	t.Parallel()
	policy := domain.DefaultProgressPolicy()

	t.Run("passing every week completes the path", func(t *testing.T) {
		t.Parallel()
		e := newTestEnrollment(t, 2)

		require.NoError(t, e.SubmitWeeklyAssessment(1, 70, "", nil, nil, 0, policy, day(1), day(1)))
		assert.False(t, e.IsCompleted)

		require.NoError(t, e.SubmitWeeklyAssessment(2, 80, "", nil, nil, 0, policy, day(2), day(2)))
		assert.Equal(t, 3, e.CurrentWeek)
		assert.True(t, e.IsCompleted)
		require.NotNil(t, e.CompletedAt)
		assert.Equal(t, day(2), *e.CompletedAt)
		assert.Equal(t, 100, e.PercentComplete())
	})

	t.Run("a failed retake of an earlier week blocks completion", func(t *testing.T) {
		t.Parallel()
		e := newTestEnrollment(t, 2)

		require.NoError(t, e.SubmitWeeklyAssessment(1, 70, "", nil, nil, 0, policy, day(1), day(1)))
		require.NoError(t, e.SubmitWeeklyAssessment(1, 40, "", nil, nil, 0, policy, day(2), day(2)))
		require.NoError(t, e.SubmitWeeklyAssessment(2, 80, "", nil, nil, 0, policy, day(3), day(3)))

		assert.Equal(t, 3, e.CurrentWeek)
		assert.False(t, e.IsCompleted)
		assert.Nil(t, e.CompletedAt)
	})

	t.Run("completion timestamp is set once", func(t *testing.T) {
		t.Parallel()
		e := newTestEnrollment(t, 1)

		require.NoError(t, e.SubmitWeeklyAssessment(1, 90, "", nil, nil, 0, policy, day(1), day(1)))
		require.True(t, e.IsCompleted)
		completedAt := *e.CompletedAt

		require.NoError(t, e.CompleteLesson(uuid.New(), 1, nil, 10, "", 0, policy, day(5), day(5)))
		assert.Equal(t, completedAt, *e.CompletedAt)
	})
}

func TestPercentComplete(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		currentWeek int
		duration    int
		expected    int
	}{
		{"week one of eight", 1, 8, 13},
		{"week three of eight", 3, 8, 38},
		{"week four of eight", 4, 8, 50},
		{"final week", 8, 8, 100},
		{"past the final week clamps to 100", 9, 8, 100},
		{"week two of three", 2, 3, 67},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			e := newTestEnrollment(t, tc.duration)
			e.CurrentWeek = tc.currentWeek
			assert.Equal(t, tc.expected, e.PercentComplete())
		})
	}
}

func TestSequenceOrdering(t *testing.T) {
	t.Parallel()
	policy := domain.DefaultProgressPolicy()

	t.Run("stale sequence is rejected", func(t *testing.T) {
		t.Parallel()
		e := newTestEnrollment(t, 8)

		require.NoError(t, e.CompleteLesson(uuid.New(), 1, nil, 10, "", 5, policy, day(1), day(1)))
		assert.Equal(t, int64(5), e.LastSequence)

		err := e.CompleteLesson(uuid.New(), 1, nil, 10, "", 5, policy, day(1), day(1))
		assert.ErrorIs(t, err, domain.ErrStaleEvent)

		err = e.CompleteLesson(uuid.New(), 1, nil, 10, "", 3, policy, day(1), day(1))
		assert.ErrorIs(t, err, domain.ErrStaleEvent)
	})

	t.Run("zero sequence disables the ordering check", func(t *testing.T) {
		t.Parallel()
		e := newTestEnrollment(t, 8)

		require.NoError(t, e.CompleteLesson(uuid.New(), 1, nil, 10, "", 5, policy, day(1), day(1)))
		require.NoError(t, e.CompleteLesson(uuid.New(), 1, nil, 10, "", 0, policy, day(1), day(1)))
		assert.Equal(t, int64(5), e.LastSequence)
	})
}

func TestVocabulary(t *testing.T) {
	t.Parallel()
	policy := domain.DefaultProgressPolicy()

	t.Run("adds a word due immediately", func(t *testing.T) {
		t.Parallel()
		e := newTestEnrollment(t, 8)

		require.NoError(t, e.AddVocabularyWord("casa", "house", 0, policy, day(1), day(1)))

		require.Len(t, e.Vocabulary, 1)
		word := e.Vocabulary[0]
		assert.Equal(t, "casa", word.Word)
		assert.Zero(t, word.RepetitionCount)
		assert.False(t, word.Mastered)
		assert.True(t, word.Due(day(1)))
	})

	t.Run("rejects duplicates case-insensitively", func(t *testing.T) {
		t.Parallel()
		e := newTestEnrollment(t, 8)

		require.NoError(t, e.AddVocabularyWord("casa", "house", 0, policy, day(1), day(1)))
		err := e.AddVocabularyWord("  Casa ", "house", 0, policy, day(1), day(1))
		assert.ErrorIs(t, err, domain.ErrWordExists)
		assert.Len(t, e.Vocabulary, 1)
	})

	t.Run("lookup of untracked word fails", func(t *testing.T) {
		t.Parallel()
		e := newTestEnrollment(t, 8)

		_, err := e.VocabularyWord("perro")
		assert.ErrorIs(t, err, domain.ErrWordNotFound)
	})

	t.Run("review of untracked word fails", func(t *testing.T) {
		t.Parallel()
		e := newTestEnrollment(t, 8)

		stray, err := domain.NewVocabularyWord("perro", "dog", day(1))
		require.NoError(t, err)

		err = e.ApplyVocabularyReview(stray, 0, policy, day(1), day(1))
		assert.ErrorIs(t, err, domain.ErrWordNotFound)
	})

	t.Run("due words are sorted by date then word", func(t *testing.T) {
		t.Parallel()
		e := newTestEnrollment(t, 8)

		require.NoError(t, e.AddVocabularyWord("perro", "dog", 0, policy, day(1), day(1)))
		require.NoError(t, e.AddVocabularyWord("casa", "house", 0, policy, day(1), day(1)))
		require.NoError(t, e.AddVocabularyWord("agua", "water", 0, policy, day(1), day(1)))

		earlier := domain.TruncateToDay(day(1))
		e.Vocabulary[0].NextReviewDate = &earlier // perro due before the others

		later := domain.TruncateToDay(day(2))
		e.Vocabulary[1].NextReviewDate = &later
		e.Vocabulary[2].NextReviewDate = &later

		due := e.DueWords(day(3))
		require.Len(t, due, 3)
		assert.Equal(t, "perro", due[0].Word)
		assert.Equal(t, "agua", due[1].Word)
		assert.Equal(t, "casa", due[2].Word)
	})
}

func TestSnapshot(t *testing.T) {
	t.Parallel()
	policy := domain.DefaultProgressPolicy()

	e := newTestEnrollment(t, 8)
	require.NoError(t, e.CompleteLesson(uuid.New(), 1, intPtr(90), 30, "", 0, policy, day(1), day(1)))
	require.NoError(t, e.SubmitWeeklyAssessment(1, 80, "nice", []string{"listening"}, nil, 0, policy, day(1), day(1)))
	require.NoError(t, e.AddVocabularyWord("casa", "house", 0, policy, day(1), day(1)))

	snap := e.Snapshot()

	// Mutating the snapshot must not leak back into the aggregate.
	*snap.LessonsCompleted[0].Score = 10
	snap.WeeklyAssessments[0].Strengths[0] = "changed"
	snap.Vocabulary[0].RepetitionCount = 99

	assert.Equal(t, 90, *e.LessonsCompleted[0].Score)
	assert.Equal(t, "listening", e.WeeklyAssessments[0].Strengths[0])
	assert.Zero(t, e.Vocabulary[0].RepetitionCount)
}

func TestSnapshotJSONRoundTrip(t *testing.T) {
	t.Parallel()
	policy := domain.DefaultProgressPolicy()

	e := newTestEnrollment(t, 8)
	require.NoError(t, e.CompleteLesson(uuid.New(), 1, intPtr(90), 30, "good pace", 1, policy, day(1), day(1)))
	require.NoError(t, e.SubmitWeeklyAssessment(1, 80, "nice", []string{"listening"}, []string{"grammar"}, 2, policy, day(2), day(2)))
	require.NoError(t, e.AddVocabularyWord("casa", "house", 3, policy, day(2), day(2)))

	snap := e.Snapshot()

	encoded, err := json.Marshal(snap)
	require.NoError(t, err)

	var decoded domain.Enrollment
	require.NoError(t, json.Unmarshal(encoded, &decoded))

	assert.Equal(t, *snap, decoded)
}
