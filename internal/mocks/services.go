package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/phrazzld/lms-api/internal/domain"
	"github.com/phrazzld/lms-api/internal/service"
	"github.com/phrazzld/lms-api/internal/service/progress"
	"github.com/phrazzld/lms-api/internal/service/review"
)

// UserService mocks service.UserService.
type UserService struct{ mock.Mock }

var _ service.UserService = (*UserService)(nil)

func (m *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, userID)
	return getOrNil[*domain.User](args, 0), args.Error(1)
}

func (m *UserService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	args := m.Called(ctx, email, password)
	return getOrNil[*domain.User](args, 0), args.Error(1)
}

func (m *UserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	args := m.Called(ctx, email, password)
	return getOrNil[*domain.User](args, 0), args.Error(1)
}

// SessionService mocks service.SessionService.
type SessionService struct{ mock.Mock }

var _ service.SessionService = (*SessionService)(nil)

func (m *SessionService) Issue(ctx context.Context, userID uuid.UUID) (*service.TokenPair, error) {
	args := m.Called(ctx, userID)
	return getOrNil[*service.TokenPair](args, 0), args.Error(1)
}

func (m *SessionService) Refresh(ctx context.Context, refreshToken string) (*service.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	return getOrNil[*service.TokenPair](args, 0), args.Error(1)
}

// CatalogService mocks service.CatalogService.
type CatalogService struct{ mock.Mock }

var _ service.CatalogService = (*CatalogService)(nil)

func (m *CatalogService) CreateCourse(ctx context.Context, authorID uuid.UUID, title, description string) (*domain.Course, error) {
	args := m.Called(ctx, authorID, title, description)
	return getOrNil[*domain.Course](args, 0), args.Error(1)
}

func (m *CatalogService) GetCourse(ctx context.Context, courseID uuid.UUID) (*domain.Course, error) {
	args := m.Called(ctx, courseID)
	return getOrNil[*domain.Course](args, 0), args.Error(1)
}

func (m *CatalogService) ListPublishedCourses(ctx context.Context, limit, offset int) ([]*domain.Course, error) {
	args := m.Called(ctx, limit, offset)
	return getOrNil[[]*domain.Course](args, 0), args.Error(1)
}

func (m *CatalogService) PublishCourse(ctx context.Context, authorID, courseID uuid.UUID) (*domain.Course, error) {
	args := m.Called(ctx, authorID, courseID)
	return getOrNil[*domain.Course](args, 0), args.Error(1)
}

func (m *CatalogService) CreateLesson(
	ctx context.Context,
	authorID, courseID uuid.UUID,
	title, content string,
	position int,
) (*domain.Lesson, error) {
	args := m.Called(ctx, authorID, courseID, title, content, position)
	return getOrNil[*domain.Lesson](args, 0), args.Error(1)
}

func (m *CatalogService) PublishLesson(ctx context.Context, authorID, lessonID uuid.UUID) (*domain.Lesson, error) {
	args := m.Called(ctx, authorID, lessonID)
	return getOrNil[*domain.Lesson](args, 0), args.Error(1)
}

func (m *CatalogService) ListPublishedLessons(ctx context.Context, courseID uuid.UUID) ([]*domain.Lesson, error) {
	args := m.Called(ctx, courseID)
	return getOrNil[[]*domain.Lesson](args, 0), args.Error(1)
}

func (m *CatalogService) CreateExercise(
	ctx context.Context,
	authorID, lessonID uuid.UUID,
	prompt string,
	position int,
) (*domain.Exercise, error) {
	args := m.Called(ctx, authorID, lessonID, prompt, position)
	return getOrNil[*domain.Exercise](args, 0), args.Error(1)
}

func (m *CatalogService) ListExercises(ctx context.Context, lessonID uuid.UUID) ([]*domain.Exercise, error) {
	args := m.Called(ctx, lessonID)
	return getOrNil[[]*domain.Exercise](args, 0), args.Error(1)
}

func (m *CatalogService) CreatePath(
	ctx context.Context,
	authorID uuid.UUID,
	title, description string,
	courseIDs []uuid.UUID,
) (*domain.LearningPath, error) {
	args := m.Called(ctx, authorID, title, description, courseIDs)
	return getOrNil[*domain.LearningPath](args, 0), args.Error(1)
}

func (m *CatalogService) GetPath(ctx context.Context, pathID uuid.UUID) (*domain.LearningPath, error) {
	args := m.Called(ctx, pathID)
	return getOrNil[*domain.LearningPath](args, 0), args.Error(1)
}

func (m *CatalogService) Enroll(ctx context.Context, learnerID, courseID uuid.UUID) (*domain.Enrollment, bool, error) {
	args := m.Called(ctx, learnerID, courseID)
	return getOrNil[*domain.Enrollment](args, 0), args.Bool(1), args.Error(2)
}

// FlashcardService mocks service.FlashcardService.
type FlashcardService struct{ mock.Mock }

var _ service.FlashcardService = (*FlashcardService)(nil)

func (m *FlashcardService) CreateFlashcard(
	ctx context.Context,
	authorID uuid.UUID,
	courseID *uuid.UUID,
	front, back, hint string,
) (*domain.Flashcard, error) {
	args := m.Called(ctx, authorID, courseID, front, back, hint)
	return getOrNil[*domain.Flashcard](args, 0), args.Error(1)
}

func (m *FlashcardService) GetFlashcard(ctx context.Context, cardID uuid.UUID) (*domain.Flashcard, error) {
	args := m.Called(ctx, cardID)
	return getOrNil[*domain.Flashcard](args, 0), args.Error(1)
}

func (m *FlashcardService) UpdateFlashcard(
	ctx context.Context,
	authorID, cardID uuid.UUID,
	front, back, hint string,
) (*domain.Flashcard, error) {
	args := m.Called(ctx, authorID, cardID, front, back, hint)
	return getOrNil[*domain.Flashcard](args, 0), args.Error(1)
}

func (m *FlashcardService) DeleteFlashcard(ctx context.Context, authorID, cardID uuid.UUID) error {
	return m.Called(ctx, authorID, cardID).Error(0)
}

// ReviewService mocks review.Service.
type ReviewService struct{ mock.Mock }

var _ review.Service = (*ReviewService)(nil)

func (m *ReviewService) GetOrCreateReviewState(ctx context.Context, learnerID, itemID uuid.UUID) (*domain.ReviewState, error) {
	args := m.Called(ctx, learnerID, itemID)
	return getOrNil[*domain.ReviewState](args, 0), args.Error(1)
}

func (m *ReviewService) RecordReview(ctx context.Context, learnerID, itemID uuid.UUID, isCorrect bool) (*domain.ReviewState, error) {
	args := m.Called(ctx, learnerID, itemID, isCorrect)
	return getOrNil[*domain.ReviewState](args, 0), args.Error(1)
}

func (m *ReviewService) ListDueReviews(ctx context.Context, learnerID uuid.UUID, limit int) ([]*domain.ReviewState, error) {
	args := m.Called(ctx, learnerID, limit)
	return getOrNil[[]*domain.ReviewState](args, 0), args.Error(1)
}

func (m *ReviewService) GetReviewStats(ctx context.Context, learnerID uuid.UUID) (*domain.ReviewStats, error) {
	args := m.Called(ctx, learnerID)
	return getOrNil[*domain.ReviewStats](args, 0), args.Error(1)
}

// ProgressService mocks progress.Service.
type ProgressService struct{ mock.Mock }

var _ progress.Service = (*ProgressService)(nil)

func (m *ProgressService) RecomputeCourseProgress(ctx context.Context, learnerID, courseID uuid.UUID) (int, error) {
	args := m.Called(ctx, learnerID, courseID)
	return args.Int(0), args.Error(1)
}

func (m *ProgressService) RecomputeCourseProgressBatch(
	ctx context.Context,
	learnerID uuid.UUID,
	courseIDs []uuid.UUID,
) (map[uuid.UUID]int, error) {
	args := m.Called(ctx, learnerID, courseIDs)
	return getOrNil[map[uuid.UUID]int](args, 0), args.Error(1)
}

func (m *ProgressService) CompleteLesson(ctx context.Context, learnerID, lessonID uuid.UUID) (*domain.CourseProgressSummary, error) {
	args := m.Called(ctx, learnerID, lessonID)
	return getOrNil[*domain.CourseProgressSummary](args, 0), args.Error(1)
}

func (m *ProgressService) TouchLesson(ctx context.Context, learnerID, lessonID uuid.UUID) (*domain.Progress, error) {
	args := m.Called(ctx, learnerID, lessonID)
	return getOrNil[*domain.Progress](args, 0), args.Error(1)
}

func (m *ProgressService) RecordExerciseScore(
	ctx context.Context,
	learnerID, exerciseID uuid.UUID,
	score int,
) (*domain.Progress, error) {
	args := m.Called(ctx, learnerID, exerciseID, score)
	return getOrNil[*domain.Progress](args, 0), args.Error(1)
}

func (m *ProgressService) ListEnrollmentsWithProgress(ctx context.Context, learnerID uuid.UUID) ([]*domain.EnrollmentProgress, error) {
	args := m.Called(ctx, learnerID)
	return getOrNil[[]*domain.EnrollmentProgress](args, 0), args.Error(1)
}

func (m *ProgressService) GetLearningPathProgress(ctx context.Context, learnerID, pathID uuid.UUID) (*domain.PathProgress, error) {
	args := m.Called(ctx, learnerID, pathID)
	return getOrNil[*domain.PathProgress](args, 0), args.Error(1)
}
