// Package progress records lesson and exercise progress and derives course
// and learning path completion from it.
package progress

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/phrazzld/lms-api/internal/domain"
	"github.com/phrazzld/lms-api/internal/store"
)

// Service defines the progress operations used by the API.
type Service interface {
	// RecomputeCourseProgress derives the learner's course percentage from
	// their completed published lessons and stores it as the course row.
	// An unknown course or one without published lessons gives 0.
	RecomputeCourseProgress(ctx context.Context, learnerID, courseID uuid.UUID) (int, error)

	// RecomputeCourseProgressBatch derives the percentages of many courses
	// with two queries in total. It does not write aggregate rows.
	RecomputeCourseProgressBatch(ctx context.Context, learnerID uuid.UUID, courseIDs []uuid.UUID) (map[uuid.UUID]int, error)

	// CompleteLesson marks a published lesson complete and recomputes its
	// course in the same transaction.
	CompleteLesson(ctx context.Context, learnerID, lessonID uuid.UUID) (*domain.CourseProgressSummary, error)

	// TouchLesson creates the learner's lesson row on first access and
	// refreshes its access time afterwards.
	TouchLesson(ctx context.Context, learnerID, lessonID uuid.UUID) (*domain.Progress, error)

	// RecordExerciseScore stores an exercise score in [0,100], keeping the best.
	RecordExerciseScore(ctx context.Context, learnerID, exerciseID uuid.UUID, score int) (*domain.Progress, error)

	// ListEnrollmentsWithProgress returns the learner's enrollments with
	// their current course percentages.
	ListEnrollmentsWithProgress(ctx context.Context, learnerID uuid.UUID) ([]*domain.EnrollmentProgress, error)

	// GetLearningPathProgress returns per-course percentages for a path and
	// their rounded mean.
	GetLearningPathProgress(ctx context.Context, learnerID, pathID uuid.UUID) (*domain.PathProgress, error)
}

var (
	ErrInvalidProgressRequest = fmt.Errorf("%w: invalid progress request", domain.ErrValidation)
	ErrInvalidScore           = fmt.Errorf("%w: score must be between 0 and 100", domain.ErrValidation)

	ErrLessonNotFound   = store.ErrLessonNotFound
	ErrExerciseNotFound = store.ErrExerciseNotFound
	ErrPathNotFound     = store.ErrPathNotFound

	// ErrLessonNotPublished indicates progress was recorded against a draft lesson.
	ErrLessonNotPublished = fmt.Errorf("%w: lesson is not published", domain.ErrValidation)
)

// ServiceError wraps errors from the progress service with the operation that failed.
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
