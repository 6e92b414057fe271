package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Catalog validation errors.
var (
	ErrEmptyPathTitle    = errors.New("learning path title cannot be empty")
	ErrEmptyLessonID     = errors.New("lesson ID cannot be empty")
	ErrEmptyLessonTitle  = errors.New("lesson title cannot be empty")
	ErrInvalidLessonWeek = errors.New("lesson week must be within the path duration")
)

// LearningPath is a catalog entry describing a structured course of a
// fixed number of weeks. Paths are authored content, read-only from
// the progress system's point of view.
type LearningPath struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Language      string    `json:"language"`
	Level         string    `json:"level,omitempty"`
	DurationWeeks int       `json:"duration_weeks"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Validate checks the learning path's fields.
func (p *LearningPath) Validate() error {
	if p.ID == uuid.Nil {
		return ErrEmptyLearningPathID
	}
	if p.Title == "" {
		return ErrEmptyPathTitle
	}
	if p.DurationWeeks < 1 {
		return ErrInvalidDuration
	}
	return nil
}

// Lesson is a single unit of study within a learning path, assigned to
// a specific week.
type Lesson struct {
	ID             uuid.UUID `json:"id"`
	LearningPathID uuid.UUID `json:"learning_path_id"`
	Week           int       `json:"week"`
	Position       int       `json:"position"`
	Title          string    `json:"title"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Validate checks the lesson's fields.
func (l *Lesson) Validate() error {
	if l.ID == uuid.Nil {
		return ErrEmptyLessonID
	}
	if l.LearningPathID == uuid.Nil {
		return ErrEmptyLearningPathID
	}
	if l.Week < 1 {
		return ErrInvalidLessonWeek
	}
	if l.Title == "" {
		return ErrEmptyLessonTitle
	}
	return nil
}
