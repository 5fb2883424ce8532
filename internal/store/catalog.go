package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/lms-api/internal/domain"
)

// CourseStore defines the interface for course persistence.
type CourseStore interface {
	Create(ctx context.Context, course *domain.Course) error

	// GetByID returns ErrCourseNotFound if the course does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Course, error)

	// GetByIDs returns the courses that exist among ids, keyed by id.
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.Course, error)

	// ListPublished returns published courses, newest first.
	ListPublished(ctx context.Context, limit, offset int) ([]*domain.Course, error)

	// Publish marks the course as published. Publishing twice keeps the
	// first publication time. Returns ErrCourseNotFound if the course does
	// not exist.
	Publish(ctx context.Context, id uuid.UUID, at time.Time) error

	WithTx(tx *sql.Tx) CourseStore
}

// LessonStore defines the interface for lesson persistence.
type LessonStore interface {
	Create(ctx context.Context, lesson *domain.Lesson) error

	// GetByID returns ErrLessonNotFound if the lesson does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Lesson, error)

	// ListPublishedByCourse returns a course's published lessons by position.
	ListPublishedByCourse(ctx context.Context, courseID uuid.UUID) ([]*domain.Lesson, error)

	// ListPublishedByCourses returns the published lessons of every course in
	// courseIDs in a single query.
	ListPublishedByCourses(ctx context.Context, courseIDs []uuid.UUID) ([]*domain.Lesson, error)

	// CountPublished counts a course's published lessons. An unknown course
	// has none.
	CountPublished(ctx context.Context, courseID uuid.UUID) (int, error)

	// Publish returns ErrLessonNotFound if the lesson does not exist.
	Publish(ctx context.Context, id uuid.UUID, at time.Time) error

	WithTx(tx *sql.Tx) LessonStore
}

// ExerciseStore defines the interface for exercise persistence.
type ExerciseStore interface {
	Create(ctx context.Context, exercise *domain.Exercise) error

	// GetByID returns ErrExerciseNotFound if the exercise does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Exercise, error)

	// ListByLesson returns a lesson's exercises by position.
	ListByLesson(ctx context.Context, lessonID uuid.UUID) ([]*domain.Exercise, error)

	WithTx(tx *sql.Tx) ExerciseStore
}

// LearningPathStore defines the interface for learning path persistence.
// The ordered course list is stored with the path.
type LearningPathStore interface {
	// Create returns ErrInvalidEntity if a course id does not exist.
	Create(ctx context.Context, path *domain.LearningPath) error

	// GetByID returns ErrPathNotFound if the path does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.LearningPath, error)

	WithTx(tx *sql.Tx) LearningPathStore
}

// EnrollmentStore defines the interface for enrollment persistence.
type EnrollmentStore interface {
	// Enroll records the enrollment. It reports false when the learner was
	// already enrolled, which is not an error.
	Enroll(ctx context.Context, enrollment *domain.Enrollment) (bool, error)

	// ListByLearner returns a learner's enrollments, most recent first.
	ListByLearner(ctx context.Context, learnerID uuid.UUID) ([]*domain.Enrollment, error)

	WithTx(tx *sql.Tx) EnrollmentStore
}
