package domain

import (
	"errors"
	"sort"
	"strings"
	"time"
)

// Vocabulary validation errors.
var (
	ErrEmptyWord        = errors.New("vocabulary word cannot be empty")
	ErrEmptyTranslation = errors.New("vocabulary translation cannot be empty")
)

// VocabularyWord tracks the spaced-repetition state of a single word
// within one enrollment. Words are never deleted; the learning history
// is retained even after mastery.
type VocabularyWord struct {
	Word            string     `json:"word"`
	Translation     string     `json:"translation"`
	Mastered        bool       `json:"mastered"`
	RepetitionCount int        `json:"repetition_count"`
	LastReviewed    *time.Time `json:"last_reviewed,omitempty"`
	NextReviewDate  *time.Time `json:"next_review_date,omitempty"`
}

// NormalizeWord produces the canonical key for a word within an
// enrollment: trimmed and lowercased.
func NormalizeWord(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

// NewVocabularyWord creates a word on first exposure. The word is due
// for its first review immediately.
func NewVocabularyWord(word, translation string, today time.Time) (*VocabularyWord, error) {
	if NormalizeWord(word) == "" {
		return nil, ErrEmptyWord
	}
	if strings.TrimSpace(translation) == "" {
		return nil, ErrEmptyTranslation
	}

	due := TruncateToDay(today)
	return &VocabularyWord{
		Word:            strings.TrimSpace(word),
		Translation:     strings.TrimSpace(translation),
		Mastered:        false,
		RepetitionCount: 0,
		NextReviewDate:  &due,
	}, nil
}

// Key returns the normalized lookup key for the word.
func (w *VocabularyWord) Key() string {
	return NormalizeWord(w.Word)
}

// Due reports whether the word's scheduled review date has arrived.
func (w *VocabularyWord) Due(today time.Time) bool {
	if w.NextReviewDate == nil {
		return false
	}
	return !w.NextReviewDate.After(TruncateToDay(today))
}

// Clone returns an independent copy of the word.
func (w *VocabularyWord) Clone() *VocabularyWord {
	c := *w
	if w.LastReviewed != nil {
		t := *w.LastReviewed
		c.LastReviewed = &t
	}
	if w.NextReviewDate != nil {
		t := *w.NextReviewDate
		c.NextReviewDate = &t
	}
	return &c
}

// sortDueWords orders due words by next review date ascending, then by
// normalized key for a deterministic tie-break.
func sortDueWords(words []VocabularyWord) {
	sort.Slice(words, func(i, j int) bool {
		a, b := words[i].NextReviewDate, words[j].NextReviewDate
		if !a.Equal(*b) {
			return a.Before(*b)
		}
		return NormalizeWord(words[i].Word) < NormalizeWord(words[j].Word)
	})
}
