package domain

import (
	"errors"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Enrollment validation errors.
var (
	ErrEmptyEnrollmentUserID = errors.New("enrollment user ID cannot be empty")
	ErrEmptyLearningPathID   = errors.New("enrollment learning path ID cannot be empty")
	ErrInvalidDuration       = errors.New("learning path duration must be at least one week")
	ErrInvalidCurrentWeek    = errors.New("current week must be between 1 and duration+1")
	ErrNegativeTimeSpent     = errors.New("time spent cannot be negative")
)

// ProgressPolicy holds the tunable rules applied when mutating an
// enrollment. Values are deployment configuration, not per-enrollment
// state, so they are passed into commands rather than persisted.
type ProgressPolicy struct {
	// PassThreshold is the minimum weekly-assessment score required to
	// advance to the next week.
	PassThreshold int
}

// DefaultProgressPolicy returns the standard policy.
func DefaultProgressPolicy() ProgressPolicy {
	return ProgressPolicy{PassThreshold: 60}
}

// LessonCompletion records that a lesson was completed once. The
// first-completion timestamp is immutable; score, time and notes may
// be overwritten by a resubmission.
type LessonCompletion struct {
	LessonID    uuid.UUID `json:"lesson_id"`
	CompletedAt time.Time `json:"completed_at"`
	Score       *int      `json:"score,omitempty"`
	TimeSpent   int       `json:"time_spent"`
	Notes       string    `json:"notes,omitempty"`
}

// WeeklyAssessment records the (latest) assessment result for one
// week. Assessments are retakeable; a resubmission replaces the prior
// record for that week.
type WeeklyAssessment struct {
	Week           int       `json:"week"`
	Score          int       `json:"score"`
	CompletedAt    time.Time `json:"completed_at"`
	Feedback       string    `json:"feedback,omitempty"`
	Strengths      []string  `json:"strengths,omitempty"`
	AreasToImprove []string  `json:"areas_to_improve,omitempty"`
}

// Enrollment is the aggregate root for one user's attempt at one
// learning path. It owns lesson completions, weekly assessments,
// vocabulary state and the activity streak, and keeps the derived
// completion fields consistent after every mutation.
//
// All mutations are atomic: inputs are validated against current state
// before any field changes, so a failed command leaves the enrollment
// untouched. Every successful command also counts as streak activity.
type Enrollment struct {
	ID                uuid.UUID          `json:"id"`
	UserID            uuid.UUID          `json:"user_id"`
	LearningPathID    uuid.UUID          `json:"learning_path_id"`
	Duration          int                `json:"duration"` // path length in weeks
	CurrentWeek       int                `json:"current_week"`
	LessonsCompleted  []LessonCompletion `json:"lessons_completed"`
	WeeklyAssessments []WeeklyAssessment `json:"weekly_assessments"`
	Vocabulary        []VocabularyWord   `json:"vocabulary"`
	TotalTimeSpent    int                `json:"total_time_spent"` // minutes
	Streak            StreakState        `json:"streak"`
	IsCompleted       bool               `json:"is_completed"`
	CompletedAt       *time.Time         `json:"completed_at,omitempty"`

	// LastSequence is the highest client-supplied command sequence
	// applied so far; commands at or below it are rejected as stale.
	LastSequence int64 `json:"last_sequence"`

	// Version is the optimistic-concurrency counter checked by the
	// persistence layer on every write.
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewEnrollment starts a learning path for a user. The learner begins
// at week 1 with no recorded activity.
func NewEnrollment(userID, learningPathID uuid.UUID, duration int, now time.Time) (*Enrollment, error) {
	e := &Enrollment{
		ID:                uuid.New(),
		UserID:            userID,
		LearningPathID:    learningPathID,
		Duration:          duration,
		CurrentWeek:       1,
		LessonsCompleted:  []LessonCompletion{},
		WeeklyAssessments: []WeeklyAssessment{},
		Vocabulary:        []VocabularyWord{},
		Version:           1,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// Validate checks the cross-field invariants of the enrollment.
func (e *Enrollment) Validate() error {
	if e.UserID == uuid.Nil {
		return ErrEmptyEnrollmentUserID
	}
	if e.LearningPathID == uuid.Nil {
		return ErrEmptyLearningPathID
	}
	if e.Duration < 1 {
		return ErrInvalidDuration
	}
	if e.CurrentWeek < 1 || e.CurrentWeek > e.Duration+1 {
		return ErrInvalidCurrentWeek
	}
	if e.TotalTimeSpent < 0 {
		return ErrNegativeTimeSpent
	}
	return nil
}

// CheckSequence validates a client-supplied command sequence number
// against the synchronization contract. Zero means the caller did not
// supply one and ordering is not enforced.
func (e *Enrollment) CheckSequence(sequence int64) error {
	if sequence != 0 && sequence <= e.LastSequence {
		return ErrStaleEvent
	}
	return nil
}

// recordSequence stores the applied sequence number. Callers must have
// passed CheckSequence first.
func (e *Enrollment) recordSequence(sequence int64) {
	if sequence > e.LastSequence {
		e.LastSequence = sequence
	}
}

// CompleteLesson inserts or updates the completion record for a
// lesson. lessonWeek is the catalog week the lesson belongs to; a
// learner may reach one week ahead of CurrentWeek (the first lesson of
// the next week), anything further fails with ErrInvalidReference.
//
// The operation is idempotent on the lesson ID: a repeat submission
// overwrites score and notes but keeps the original completion
// timestamp. Recorded time only ratchets upward, and the running total
// is charged the delta above the previous high-water mark, so
// duplicates and alternating resubmissions never double-charge.
func (e *Enrollment) CompleteLesson(
	lessonID uuid.UUID,
	lessonWeek int,
	score *int,
	timeSpent int,
	notes string,
	sequence int64,
	policy ProgressPolicy,
	now, today time.Time,
) error {
	if err := e.CheckSequence(sequence); err != nil {
		return err
	}
	if e.Streak.IsStale(today) {
		return ErrStaleEvent
	}
	if lessonID == uuid.Nil || lessonWeek < 1 || lessonWeek > e.CurrentWeek+1 {
		return ErrInvalidReference
	}
	if score != nil && (*score < 0 || *score > 100) {
		return ErrOutOfRange
	}
	if timeSpent < 0 {
		return ErrOutOfRange
	}

	if existing := e.lessonCompletion(lessonID); existing != nil {
		// The recorded time is a high-water mark: the total is only ever
		// charged the delta above it, so alternating resubmissions cannot
		// bill the same lesson twice.
		if timeSpent > existing.TimeSpent {
			e.TotalTimeSpent += timeSpent - existing.TimeSpent
			existing.TimeSpent = timeSpent
		}
		existing.Score = score
		existing.Notes = notes
	} else {
		e.LessonsCompleted = append(e.LessonsCompleted, LessonCompletion{
			LessonID:    lessonID,
			CompletedAt: now,
			Score:       score,
			TimeSpent:   timeSpent,
			Notes:       notes,
		})
		e.TotalTimeSpent += timeSpent
	}

	e.finishCommand(sequence, policy, now, today)
	return nil
}

// SubmitWeeklyAssessment records (or replaces) the assessment for a
// week. Submitting a passing score for the current week advances the
// learner, capped at Duration+1 which marks the path complete once
// every week has a passing assessment.
func (e *Enrollment) SubmitWeeklyAssessment(
	week, score int,
	feedback string,
	strengths, areasToImprove []string,
	sequence int64,
	policy ProgressPolicy,
	now, today time.Time,
) error {
	if err := e.CheckSequence(sequence); err != nil {
		return err
	}
	if e.Streak.IsStale(today) {
		return ErrStaleEvent
	}
	if score < 0 || score > 100 {
		return ErrOutOfRange
	}
	// CurrentWeek sits at Duration+1 once the path is complete; no
	// catalog week exists there, so Duration is the hard ceiling.
	if week < 1 || week > e.CurrentWeek || week > e.Duration {
		return ErrOutOfRange
	}

	assessment := WeeklyAssessment{
		Week:           week,
		Score:          score,
		CompletedAt:    now,
		Feedback:       feedback,
		Strengths:      strengths,
		AreasToImprove: areasToImprove,
	}

	replaced := false
	for i := range e.WeeklyAssessments {
		if e.WeeklyAssessments[i].Week == week {
			e.WeeklyAssessments[i] = assessment
			replaced = true
			break
		}
	}
	if !replaced {
		e.WeeklyAssessments = append(e.WeeklyAssessments, assessment)
		sort.Slice(e.WeeklyAssessments, func(i, j int) bool {
			return e.WeeklyAssessments[i].Week < e.WeeklyAssessments[j].Week
		})
	}

	// Advancement is monotonic and the single mutation of CurrentWeek.
	if week == e.CurrentWeek && score >= policy.PassThreshold && e.CurrentWeek <= e.Duration {
		e.CurrentWeek++
	}

	e.finishCommand(sequence, policy, now, today)
	return nil
}

// AddVocabularyWord registers a word on first exposure. The normalized
// word text is the key; re-adding an existing word fails with
// ErrWordExists.
func (e *Enrollment) AddVocabularyWord(word, translation string, sequence int64, policy ProgressPolicy, now, today time.Time) error {
	if err := e.CheckSequence(sequence); err != nil {
		return err
	}
	if e.Streak.IsStale(today) {
		return ErrStaleEvent
	}

	entry, err := NewVocabularyWord(word, translation, today)
	if err != nil {
		return err
	}
	if e.vocabularyIndex(entry.Key()) >= 0 {
		return ErrWordExists
	}

	e.Vocabulary = append(e.Vocabulary, *entry)
	e.finishCommand(sequence, policy, now, today)
	return nil
}

// VocabularyWord returns a copy of the tracked word for the given
// (unnormalized) text, or ErrWordNotFound.
func (e *Enrollment) VocabularyWord(word string) (*VocabularyWord, error) {
	i := e.vocabularyIndex(NormalizeWord(word))
	if i < 0 {
		return nil, ErrWordNotFound
	}
	return e.Vocabulary[i].Clone(), nil
}

// ApplyVocabularyReview stores the post-review state computed by the
// scheduler for a word the enrollment already tracks.
func (e *Enrollment) ApplyVocabularyReview(updated *VocabularyWord, sequence int64, policy ProgressPolicy, now, today time.Time) error {
	if err := e.CheckSequence(sequence); err != nil {
		return err
	}
	if e.Streak.IsStale(today) {
		return ErrStaleEvent
	}
	i := e.vocabularyIndex(updated.Key())
	if i < 0 {
		return ErrWordNotFound
	}

	e.Vocabulary[i] = *updated.Clone()
	e.finishCommand(sequence, policy, now, today)
	return nil
}

// DueWords returns the words whose scheduled review date has arrived,
// ordered by next review date ascending and then by word key. The
// query has no side effects and may be repeated freely.
func (e *Enrollment) DueWords(today time.Time) []VocabularyWord {
	due := make([]VocabularyWord, 0)
	for i := range e.Vocabulary {
		if e.Vocabulary[i].Due(today) {
			due = append(due, *e.Vocabulary[i].Clone())
		}
	}
	sortDueWords(due)
	return due
}

// PercentComplete derives the week-based completion percentage,
// rounded half up and clamped to [0,100].
func (e *Enrollment) PercentComplete() int {
	pct := int(math.Floor(100*float64(e.CurrentWeek)/float64(e.Duration) + 0.5))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// LessonsCompletedCount returns the number of distinct completed lessons.
func (e *Enrollment) LessonsCompletedCount() int {
	return len(e.LessonsCompleted)
}

// Snapshot returns a deep copy of the enrollment, safe to hand to
// callers without exposing internal state to mutation.
func (e *Enrollment) Snapshot() *Enrollment {
	c := *e

	c.LessonsCompleted = make([]LessonCompletion, len(e.LessonsCompleted))
	for i := range e.LessonsCompleted {
		c.LessonsCompleted[i] = e.LessonsCompleted[i]
		if s := e.LessonsCompleted[i].Score; s != nil {
			v := *s
			c.LessonsCompleted[i].Score = &v
		}
	}

	c.WeeklyAssessments = make([]WeeklyAssessment, len(e.WeeklyAssessments))
	for i := range e.WeeklyAssessments {
		c.WeeklyAssessments[i] = e.WeeklyAssessments[i]
		c.WeeklyAssessments[i].Strengths = append([]string(nil), e.WeeklyAssessments[i].Strengths...)
		c.WeeklyAssessments[i].AreasToImprove = append([]string(nil), e.WeeklyAssessments[i].AreasToImprove...)
	}

	c.Vocabulary = make([]VocabularyWord, len(e.Vocabulary))
	for i := range e.Vocabulary {
		c.Vocabulary[i] = *e.Vocabulary[i].Clone()
	}

	if e.CompletedAt != nil {
		t := *e.CompletedAt
		c.CompletedAt = &t
	}

	return &c
}

// finishCommand runs the bookkeeping shared by every successful
// mutation: streak activity, sequence recording, completion recompute
// and the updated timestamp.
func (e *Enrollment) finishCommand(sequence int64, policy ProgressPolicy, now, today time.Time) {
	// Staleness was checked up front, so this cannot fail.
	_ = e.Streak.RecordActivity(today)
	e.recordSequence(sequence)
	e.recomputeCompletion(policy, now)
	e.UpdatedAt = now
}

// recomputeCompletion derives IsCompleted/CompletedAt. The path is
// complete exactly when the learner has moved past the final week and
// every week has a passing assessment. CompletedAt is set once and
// never cleared or moved.
func (e *Enrollment) recomputeCompletion(policy ProgressPolicy, now time.Time) {
	if e.IsCompleted {
		return
	}
	if e.CurrentWeek <= e.Duration {
		return
	}
	for week := 1; week <= e.Duration; week++ {
		if !e.weekPassed(week, policy.PassThreshold) {
			return
		}
	}
	e.IsCompleted = true
	t := now
	e.CompletedAt = &t
}

func (e *Enrollment) weekPassed(week, passThreshold int) bool {
	for i := range e.WeeklyAssessments {
		if e.WeeklyAssessments[i].Week == week {
			return e.WeeklyAssessments[i].Score >= passThreshold
		}
	}
	return false
}

func (e *Enrollment) lessonCompletion(lessonID uuid.UUID) *LessonCompletion {
	for i := range e.LessonsCompleted {
		if e.LessonsCompleted[i].LessonID == lessonID {
			return &e.LessonsCompleted[i]
		}
	}
	return nil
}

func (e *Enrollment) vocabularyIndex(key string) int {
	for i := range e.Vocabulary {
		if NormalizeWord(e.Vocabulary[i].Word) == key {
			return i
		}
	}
	return -1
}
