package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// MasteryStatus is the coarse retention bucket of a learner/item pair.
type MasteryStatus string

const (
	StatusNew       MasteryStatus = "new"
	StatusLearning  MasteryStatus = "learning"
	StatusReviewing MasteryStatus = "reviewing"
	StatusMastered  MasteryStatus = "mastered"
)

// AllStatuses lists every status in ascending order of mastery.
var AllStatuses = []MasteryStatus{StatusNew, StatusLearning, StatusReviewing, StatusMastered}

// Rank orders statuses so that a higher rank means more mastery. Unknown
// statuses rank -1.
func (s MasteryStatus) Rank() int {
	for i, st := range AllStatuses {
		if st == s {
			return i
		}
	}
	return -1
}

// IsValid reports whether s is one of the four known statuses.
func (s MasteryStatus) IsValid() bool {
	return s.Rank() >= 0
}

const (
	// DefaultEaseFactor is the ease factor of a pair that has never been reviewed.
	DefaultEaseFactor = 2.5
	// MinEaseFactor is the floor the ease factor never drops below.
	MinEaseFactor = 1.3
	// DefaultInterval is the interval, in days, of a pair that has never been reviewed.
	DefaultInterval = 1
)

// ReviewState validation errors
var (
	ErrReviewStateLearnerIDEmpty = errors.New("review state learner ID cannot be empty")
	ErrReviewStateItemIDEmpty    = errors.New("review state item ID cannot be empty")
	ErrInvalidMasteryStatus      = errors.New("invalid mastery status")
	ErrNegativeReviewCount       = errors.New("review counts cannot be negative")
	ErrEaseFactorTooLow          = errors.New("ease factor is below the minimum")
	ErrIntervalTooShort          = errors.New("interval must be at least one day")
)

// ReviewState is the spaced-repetition schedule of one learner for one item.
// The pair (LearnerID, ItemID) is unique.
type ReviewState struct {
	LearnerID      uuid.UUID     `json:"learner_id"`
	ItemID         uuid.UUID     `json:"item_id"`
	Status         MasteryStatus `json:"status"`
	CorrectCount   int           `json:"correct_count"`
	IncorrectCount int           `json:"incorrect_count"`
	EaseFactor     float64       `json:"ease_factor"`
	Interval       int           `json:"interval"`
	LastReviewedAt time.Time     `json:"last_reviewed_at"`
	NextReviewAt   time.Time     `json:"next_review_at"`
	// Version is 0 for a state that has not been stored yet and grows by one
	// on every write.
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewReviewState returns the default state of a pair that has never been
// reviewed. It is not persisted.
func NewReviewState(learnerID, itemID uuid.UUID) (*ReviewState, error) {
	return NewReviewStateWithEase(learnerID, itemID, DefaultEaseFactor)
}

// NewReviewStateWithEase is NewReviewState with a configured starting ease
// factor. An ease below MinEaseFactor is rejected.
func NewReviewStateWithEase(learnerID, itemID uuid.UUID, ease float64) (*ReviewState, error) {
	now := time.Now().UTC()
	s := &ReviewState{
		LearnerID:  learnerID,
		ItemID:     itemID,
		Status:     StatusNew,
		EaseFactor: ease,
		Interval:   DefaultInterval,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks if the ReviewState has valid data.
func (s *ReviewState) Validate() error {
	if s.LearnerID == uuid.Nil {
		return ErrReviewStateLearnerIDEmpty
	}
	if s.ItemID == uuid.Nil {
		return ErrReviewStateItemIDEmpty
	}
	if !s.Status.IsValid() {
		return ErrInvalidMasteryStatus
	}
	if s.CorrectCount < 0 || s.IncorrectCount < 0 {
		return ErrNegativeReviewCount
	}
	if s.EaseFactor < MinEaseFactor {
		return ErrEaseFactorTooLow
	}
	if s.Interval < 1 {
		return ErrIntervalTooShort
	}
	return nil
}

// IsNew reports whether the state has never been stored.
func (s *ReviewState) IsNew() bool {
	return s.Version == 0
}

// ReviewStats summarises a learner's review states.
type ReviewStats struct {
	ByStatus     map[MasteryStatus]int `json:"by_status"`
	TotalLearned int                   `json:"total_learned"`
	TotalItems   int                   `json:"total_items"`
	NotStarted   int                   `json:"not_started"`
}

// NewReviewStats builds stats from per-status counts and the catalog size.
// Missing statuses are reported as zero.
func NewReviewStats(counts map[MasteryStatus]int, totalItems int) *ReviewStats {
	stats := &ReviewStats{
		ByStatus:   make(map[MasteryStatus]int, len(AllStatuses)),
		TotalItems: totalItems,
	}
	for _, st := range AllStatuses {
		n := counts[st]
		stats.ByStatus[st] = n
		stats.TotalLearned += n
	}
	stats.NotStarted = max(0, totalItems-stats.TotalLearned)
	return stats
}
