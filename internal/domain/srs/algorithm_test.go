package srs_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluentia/fluentia-api/internal/domain"
	"github.com/fluentia/fluentia-api/internal/domain/srs"
)

func day(d int) time.Time {
	return time.Date(2024, 3, d, 10, 0, 0, 0, time.UTC)
}

func newWord(t *testing.T) *domain.VocabularyWord {
	t.Helper()
	w, err := domain.NewVocabularyWord("casa", "house", day(1))
	require.NoError(t, err)
	return w
}

func TestReviewRemembered(t *testing.T) {
	t.Parallel()
	service := srs.NewDefaultService()

	t.Run("first success starts at rung one", func(t *testing.T) {
		t.Parallel()
		next, err := service.Review(newWord(t), true, day(1))
		require.NoError(t, err)

		assert.Equal(t, 1, next.RepetitionCount)
		assert.False(t, next.Mastered)
		assert.Equal(t, domain.TruncateToDay(day(1)), *next.LastReviewed)
		assert.Equal(t, domain.TruncateToDay(day(3)), *next.NextReviewDate)
	})

	t.Run("intervals climb the ladder with each success", func(t *testing.T) {
		t.Parallel()
		// Rung 0 is never used; counts beyond the ladder stay on 60.
		expectedIntervals := []int{2, 4, 7, 15, 30, 60, 60, 60}

		word := newWord(t)
		for i, interval := range expectedIntervals {
			next, err := service.Review(word, true, day(1))
			require.NoError(t, err)

			assert.Equal(t, i+1, next.RepetitionCount)
			assert.Equal(t,
				domain.TruncateToDay(day(1)).AddDate(0, 0, interval),
				*next.NextReviewDate,
				"interval after success %d", i+1)
			word = next
		}
	})

	t.Run("fifth success masters the word", func(t *testing.T) {
		t.Parallel()
		word := newWord(t)
		var err error
		for i := 0; i < 5; i++ {
			word, err = service.Review(word, true, day(10))
			require.NoError(t, err)
		}

		assert.Equal(t, 5, word.RepetitionCount)
		assert.True(t, word.Mastered)
		// Mastered words keep being scheduled; the fifth rung is 30 days.
		assert.Equal(t,
			domain.TruncateToDay(day(10)).AddDate(0, 0, 30),
			*word.NextReviewDate)
	})

	t.Run("input word is not modified", func(t *testing.T) {
		t.Parallel()
		word := newWord(t)

		_, err := service.Review(word, true, day(1))
		require.NoError(t, err)

		assert.Zero(t, word.RepetitionCount)
		assert.Nil(t, word.LastReviewed)
	})
}

func TestReviewForgotten(t *testing.T) {
	t.Parallel()
	service := srs.NewDefaultService()

	t.Run("forgetting slides one rung down and unsets mastery", func(t *testing.T) {
		t.Parallel()
		word := newWord(t)
		word.RepetitionCount = 5
		word.Mastered = true

		next, err := service.Review(word, false, day(10))
		require.NoError(t, err)

		assert.Equal(t, 4, next.RepetitionCount)
		assert.False(t, next.Mastered)
		assert.Equal(t, domain.TruncateToDay(day(11)), *next.NextReviewDate)
	})

	t.Run("repetition count never goes below zero", func(t *testing.T) {
		t.Parallel()
		next, err := service.Review(newWord(t), false, day(1))
		require.NoError(t, err)

		assert.Zero(t, next.RepetitionCount)
		assert.Equal(t, domain.TruncateToDay(day(2)), *next.NextReviewDate)
	})
}

func TestReviewNilWord(t *testing.T) {
	t.Parallel()

	_, err := srs.NewDefaultService().Review(nil, true, day(1))
	assert.ErrorIs(t, err, srs.ErrNilWord)
}

func TestCustomParams(t *testing.T) {
	t.Parallel()

	service := srs.NewServiceWithParams(srs.NewParams(srs.ParamsConfig{
		Ladder:           []int{3, 6},
		MasteryThreshold: 2,
	}))

	word := newWord(t)
	next, err := service.Review(word, true, day(1))
	require.NoError(t, err)
	assert.Equal(t, domain.TruncateToDay(day(1)).AddDate(0, 0, 6), *next.NextReviewDate)
	assert.False(t, next.Mastered)

	next, err = service.Review(next, true, day(7))
	require.NoError(t, err)
	assert.True(t, next.Mastered)
	assert.Equal(t, domain.TruncateToDay(day(7)).AddDate(0, 0, 6), *next.NextReviewDate)
}
