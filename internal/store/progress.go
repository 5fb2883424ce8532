package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/lms-api/internal/domain"
)

// ProgressStore defines the interface for progress persistence. Course,
// lesson and exercise rows share one table.
type ProgressStore interface {
	// TouchLesson creates the learner's lesson row at 0 percent, or only
	// refreshes its last access time if it exists.
	TouchLesson(ctx context.Context, learnerID, courseID, lessonID uuid.UUID, now time.Time) (*domain.Progress, error)

	// UpsertLesson raises the learner's lesson row to percent. A lower
	// percent never replaces a higher stored one.
	UpsertLesson(ctx context.Context, learnerID, courseID, lessonID uuid.UUID, percent int, now time.Time) (*domain.Progress, error)

	// UpsertExercise records an exercise score, keeping the best one.
	UpsertExercise(ctx context.Context, learnerID, courseID, lessonID, exerciseID uuid.UUID, score int, now time.Time) (*domain.Progress, error)

	// UpsertCourse overwrites the course-level aggregate row with percent.
	UpsertCourse(ctx context.Context, learnerID, courseID uuid.UUID, percent int, now time.Time) (*domain.Progress, error)

	// CountCompletedLessons counts the learner's completed lesson rows whose
	// lesson is a published lesson of the course.
	CountCompletedLessons(ctx context.Context, learnerID, courseID uuid.UUID) (int, error)

	// ListLessonProgress returns the learner's lesson-level rows for all the
	// given courses in a single query.
	ListLessonProgress(ctx context.Context, learnerID uuid.UUID, courseIDs []uuid.UUID) ([]*domain.Progress, error)

	// LockCourse serializes course-level writes for one learner until the
	// enclosing transaction ends. Outside a transaction it returns at once.
	LockCourse(ctx context.Context, learnerID, courseID uuid.UUID) error

	WithTx(tx *sql.Tx) ProgressStore
}
