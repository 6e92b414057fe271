package srs

import (
	"errors"
	"time"

	"github.com/fluentia/fluentia-api/internal/domain"
)

// Common errors
var (
	ErrNilWord = errors.New("vocabulary word cannot be nil")
)

// Service defines the interface for review scheduling operations.
type Service interface {
	// Review computes the post-review state of a vocabulary word.
	Review(
		word *domain.VocabularyWord,
		remembered bool,
		today time.Time,
	) (*domain.VocabularyWord, error)
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new scheduling service with default parameters.
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new scheduling service with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{
		params: params,
	}
}

// Review implements the Service interface.
func (s *defaultService) Review(
	word *domain.VocabularyWord,
	remembered bool,
	today time.Time,
) (*domain.VocabularyWord, error) {
	if word == nil {
		return nil, ErrNilWord
	}

	return calculateNextWord(word, remembered, today, s.params), nil
}
