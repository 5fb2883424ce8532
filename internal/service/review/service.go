// Package review records flashcard answers and reports what is due.
package review

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/phrazzld/lms-api/internal/domain"
	"github.com/phrazzld/lms-api/internal/store"
)

// Service defines the review operations used by the API.
type Service interface {
	// GetOrCreateReviewState returns the stored state for the pair or, if
	// the pair was never reviewed, a default state that is not persisted.
	GetOrCreateReviewState(ctx context.Context, learnerID, itemID uuid.UUID) (*domain.ReviewState, error)

	// RecordReview applies one answer to the pair's state and stores it.
	//
	// The flashcard lookup, the state read, the scheduling and the write all
	// happen in one transaction. The write is compare-and-swap on the state's
	// version, so of two concurrent answers for the same pair one fails with
	// ErrConcurrentReview. Nothing is retried here.
	//
	// Returns:
	//   - ErrInvalidReviewRequest for nil ids
	//   - ErrItemNotFound if the flashcard does not exist
	//   - ErrConcurrentReview if the state changed since it was read
	RecordReview(ctx context.Context, learnerID, itemID uuid.UUID, isCorrect bool) (*domain.ReviewState, error)

	// ListDueReviews returns the learner's non-mastered states that are due,
	// earliest first. A zero limit means the configured default; negative
	// limits or limits above the maximum give ErrInvalidReviewRequest.
	ListDueReviews(ctx context.Context, learnerID uuid.UUID, limit int) ([]*domain.ReviewState, error)

	// GetReviewStats summarises the learner's states against the catalog size.
	GetReviewStats(ctx context.Context, learnerID uuid.UUID) (*domain.ReviewStats, error)
}

var (
	// ErrInvalidReviewRequest indicates missing ids or an out-of-range limit.
	ErrInvalidReviewRequest = fmt.Errorf("%w: invalid review request", domain.ErrValidation)

	// ErrItemNotFound indicates the reviewed flashcard does not exist.
	ErrItemNotFound = fmt.Errorf("review item: %w", store.ErrFlashcardNotFound)

	// ErrConcurrentReview indicates another answer for the same pair was
	// stored first.
	ErrConcurrentReview = fmt.Errorf("review state: %w", store.ErrConflict)
)

// ServiceError wraps errors from the review service with the operation that failed.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

func newServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{Operation: operation, Message: message, Err: err}
}
