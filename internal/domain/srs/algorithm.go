package srs

import (
	"time"

	"github.com/fluentia/fluentia-api/internal/domain"
)

// intervalDays returns the ladder interval for a given repetition
// count. The ladder is indexed by repetition count directly (rung 0 is
// never reached on a success, since the count has already been
// incremented); counts beyond the ladder stay on the final rung.
func intervalDays(repetitionCount int, params *Params) int {
	idx := repetitionCount
	if idx >= len(params.Ladder) {
		idx = len(params.Ladder) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return params.Ladder[idx]
}

// calculateNextWord creates a new VocabularyWord with updated
// scheduling state based on a review outcome. The input word is never
// modified; callers receive an independent copy.
//
// A remembered word climbs one rung: its repetition count increments,
// the next review moves out by the ladder interval for the new count,
// and the word is marked mastered once the count reaches the mastery
// threshold. Mastered words keep being scheduled on the final rung so
// the learning history stays live.
//
// A forgotten word slides one rung down (never below zero), loses its
// mastered flag, and comes back after the relearn interval.
func calculateNextWord(
	word *domain.VocabularyWord,
	remembered bool,
	today time.Time,
	params *Params,
) *domain.VocabularyWord {
	next := word.Clone()

	reviewed := domain.TruncateToDay(today)
	next.LastReviewed = &reviewed

	if remembered {
		next.RepetitionCount++
		next.Mastered = next.RepetitionCount >= params.MasteryThreshold
		due := reviewed.AddDate(0, 0, intervalDays(next.RepetitionCount, params))
		next.NextReviewDate = &due
		return next
	}

	if next.RepetitionCount > 0 {
		next.RepetitionCount--
	}
	next.Mastered = false
	due := reviewed.AddDate(0, 0, params.RelearnIntervalDays)
	next.NextReviewDate = &due
	return next
}
