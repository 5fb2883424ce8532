package mocks

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/phrazzld/lms-api/internal/domain"
	"github.com/phrazzld/lms-api/internal/store"
)

func getOrNil[T any](args mock.Arguments, i int) T {
	var zero T
	if v, ok := args.Get(i).(T); ok {
		return v
	}
	return zero
}

// UserStore mocks store.UserStore.
type UserStore struct{ mock.Mock }

var _ store.UserStore = (*UserStore)(nil)

func (m *UserStore) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	return getOrNil[*domain.User](args, 0), args.Error(1)
}

func (m *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	return getOrNil[*domain.User](args, 0), args.Error(1)
}

func (m *UserStore) WithTx(*sql.Tx) store.UserStore { return m }

// CourseStore mocks store.CourseStore.
type CourseStore struct{ mock.Mock }

var _ store.CourseStore = (*CourseStore)(nil)

func (m *CourseStore) Create(ctx context.Context, course *domain.Course) error {
	return m.Called(ctx, course).Error(0)
}

func (m *CourseStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	args := m.Called(ctx, id)
	return getOrNil[*domain.Course](args, 0), args.Error(1)
}

func (m *CourseStore) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.Course, error) {
	args := m.Called(ctx, ids)
	return getOrNil[map[uuid.UUID]*domain.Course](args, 0), args.Error(1)
}

func (m *CourseStore) ListPublished(ctx context.Context, limit, offset int) ([]*domain.Course, error) {
	args := m.Called(ctx, limit, offset)
	return getOrNil[[]*domain.Course](args, 0), args.Error(1)
}

func (m *CourseStore) Publish(ctx context.Context, id uuid.UUID, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

func (m *CourseStore) WithTx(*sql.Tx) store.CourseStore { return m }

// LessonStore mocks store.LessonStore.
type LessonStore struct{ mock.Mock }

var _ store.LessonStore = (*LessonStore)(nil)

func (m *LessonStore) Create(ctx context.Context, lesson *domain.Lesson) error {
	return m.Called(ctx, lesson).Error(0)
}

func (m *LessonStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Lesson, error) {
	args := m.Called(ctx, id)
	return getOrNil[*domain.Lesson](args, 0), args.Error(1)
}

func (m *LessonStore) ListPublishedByCourse(ctx context.Context, courseID uuid.UUID) ([]*domain.Lesson, error) {
	args := m.Called(ctx, courseID)
	return getOrNil[[]*domain.Lesson](args, 0), args.Error(1)
}

func (m *LessonStore) ListPublishedByCourses(ctx context.Context, courseIDs []uuid.UUID) ([]*domain.Lesson, error) {
	args := m.Called(ctx, courseIDs)
	return getOrNil[[]*domain.Lesson](args, 0), args.Error(1)
}

func (m *LessonStore) CountPublished(ctx context.Context, courseID uuid.UUID) (int, error) {
	args := m.Called(ctx, courseID)
	return args.Int(0), args.Error(1)
}

func (m *LessonStore) Publish(ctx context.Context, id uuid.UUID, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

func (m *LessonStore) WithTx(*sql.Tx) store.LessonStore { return m }

// ExerciseStore mocks store.ExerciseStore.
type ExerciseStore struct{ mock.Mock }

var _ store.ExerciseStore = (*ExerciseStore)(nil)

func (m *ExerciseStore) Create(ctx context.Context, exercise *domain.Exercise) error {
	return m.Called(ctx, exercise).Error(0)
}

func (m *ExerciseStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Exercise, error) {
	args := m.Called(ctx, id)
	return getOrNil[*domain.Exercise](args, 0), args.Error(1)
}

func (m *ExerciseStore) ListByLesson(ctx context.Context, lessonID uuid.UUID) ([]*domain.Exercise, error) {
	args := m.Called(ctx, lessonID)
	return getOrNil[[]*domain.Exercise](args, 0), args.Error(1)
}

func (m *ExerciseStore) WithTx(*sql.Tx) store.ExerciseStore { return m }

// LearningPathStore mocks store.LearningPathStore.
type LearningPathStore struct{ mock.Mock }

var _ store.LearningPathStore = (*LearningPathStore)(nil)

func (m *LearningPathStore) Create(ctx context.Context, path *domain.LearningPath) error {
	return m.Called(ctx, path).Error(0)
}

func (m *LearningPathStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.LearningPath, error) {
	args := m.Called(ctx, id)
	return getOrNil[*domain.LearningPath](args, 0), args.Error(1)
}

func (m *LearningPathStore) WithTx(*sql.Tx) store.LearningPathStore { return m }

// EnrollmentStore mocks store.EnrollmentStore.
type EnrollmentStore struct{ mock.Mock }

var _ store.EnrollmentStore = (*EnrollmentStore)(nil)

func (m *EnrollmentStore) Enroll(ctx context.Context, enrollment *domain.Enrollment) (bool, error) {
	args := m.Called(ctx, enrollment)
	return args.Bool(0), args.Error(1)
}

func (m *EnrollmentStore) ListByLearner(ctx context.Context, learnerID uuid.UUID) ([]*domain.Enrollment, error) {
	args := m.Called(ctx, learnerID)
	return getOrNil[[]*domain.Enrollment](args, 0), args.Error(1)
}

func (m *EnrollmentStore) WithTx(*sql.Tx) store.EnrollmentStore { return m }

// FlashcardStore mocks store.FlashcardStore.
type FlashcardStore struct{ mock.Mock }

var _ store.FlashcardStore = (*FlashcardStore)(nil)

func (m *FlashcardStore) Create(ctx context.Context, card *domain.Flashcard) error {
	return m.Called(ctx, card).Error(0)
}

func (m *FlashcardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Flashcard, error) {
	args := m.Called(ctx, id)
	return getOrNil[*domain.Flashcard](args, 0), args.Error(1)
}

func (m *FlashcardStore) Update(ctx context.Context, card *domain.Flashcard) error {
	return m.Called(ctx, card).Error(0)
}

func (m *FlashcardStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *FlashcardStore) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *FlashcardStore) WithTx(*sql.Tx) store.FlashcardStore { return m }

// ReviewStateStore mocks store.ReviewStateStore.
type ReviewStateStore struct{ mock.Mock }

var _ store.ReviewStateStore = (*ReviewStateStore)(nil)

func (m *ReviewStateStore) Get(ctx context.Context, learnerID, itemID uuid.UUID) (*domain.ReviewState, error) {
	args := m.Called(ctx, learnerID, itemID)
	return getOrNil[*domain.ReviewState](args, 0), args.Error(1)
}

// Insert records the call and, on success, sets Version to 1 like the real store.
func (m *ReviewStateStore) Insert(ctx context.Context, state *domain.ReviewState) error {
	err := m.Called(ctx, state).Error(0)
	if err == nil {
		state.Version = 1
	}
	return err
}

// Update records the call and, on success, bumps Version like the real store.
func (m *ReviewStateStore) Update(ctx context.Context, state *domain.ReviewState, expectedVersion int) error {
	err := m.Called(ctx, state, expectedVersion).Error(0)
	if err == nil {
		state.Version = expectedVersion + 1
	}
	return err
}

func (m *ReviewStateStore) ListDue(
	ctx context.Context,
	learnerID uuid.UUID,
	now time.Time,
	limit int,
) ([]*domain.ReviewState, error) {
	args := m.Called(ctx, learnerID, now, limit)
	return getOrNil[[]*domain.ReviewState](args, 0), args.Error(1)
}

func (m *ReviewStateStore) CountByStatus(ctx context.Context, learnerID uuid.UUID) (map[domain.MasteryStatus]int, error) {
	args := m.Called(ctx, learnerID)
	return getOrNil[map[domain.MasteryStatus]int](args, 0), args.Error(1)
}

func (m *ReviewStateStore) WithTx(*sql.Tx) store.ReviewStateStore { return m }

// ProgressStore mocks store.ProgressStore.
type ProgressStore struct{ mock.Mock }

var _ store.ProgressStore = (*ProgressStore)(nil)

func (m *ProgressStore) TouchLesson(
	ctx context.Context,
	learnerID, courseID, lessonID uuid.UUID,
	now time.Time,
) (*domain.Progress, error) {
	args := m.Called(ctx, learnerID, courseID, lessonID, now)
	return getOrNil[*domain.Progress](args, 0), args.Error(1)
}

func (m *ProgressStore) UpsertLesson(
	ctx context.Context,
	learnerID, courseID, lessonID uuid.UUID,
	percent int,
	now time.Time,
) (*domain.Progress, error) {
	args := m.Called(ctx, learnerID, courseID, lessonID, percent, now)
	return getOrNil[*domain.Progress](args, 0), args.Error(1)
}

func (m *ProgressStore) UpsertExercise(
	ctx context.Context,
	learnerID, courseID, lessonID, exerciseID uuid.UUID,
	score int,
	now time.Time,
) (*domain.Progress, error) {
	args := m.Called(ctx, learnerID, courseID, lessonID, exerciseID, score, now)
	return getOrNil[*domain.Progress](args, 0), args.Error(1)
}

func (m *ProgressStore) UpsertCourse(
	ctx context.Context,
	learnerID, courseID uuid.UUID,
	percent int,
	now time.Time,
) (*domain.Progress, error) {
	args := m.Called(ctx, learnerID, courseID, percent, now)
	return getOrNil[*domain.Progress](args, 0), args.Error(1)
}

func (m *ProgressStore) CountCompletedLessons(ctx context.Context, learnerID, courseID uuid.UUID) (int, error) {
	args := m.Called(ctx, learnerID, courseID)
	return args.Int(0), args.Error(1)
}

func (m *ProgressStore) ListLessonProgress(
	ctx context.Context,
	learnerID uuid.UUID,
	courseIDs []uuid.UUID,
) ([]*domain.Progress, error) {
	args := m.Called(ctx, learnerID, courseIDs)
	return getOrNil[[]*domain.Progress](args, 0), args.Error(1)
}

func (m *ProgressStore) LockCourse(ctx context.Context, learnerID, courseID uuid.UUID) error {
	return m.Called(ctx, learnerID, courseID).Error(0)
}

func (m *ProgressStore) WithTx(*sql.Tx) store.ProgressStore { return m }
