package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/lms-api/internal/domain"
	"github.com/phrazzld/lms-api/internal/platform/logger"
	"github.com/phrazzld/lms-api/internal/store"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// CatalogStores groups the stores the catalog service uses.
type CatalogStores struct {
	Courses     store.CourseStore
	Lessons     store.LessonStore
	Exercises   store.ExerciseStore
	Paths       store.LearningPathStore
	Enrollments store.EnrollmentStore
}

// CatalogService manages courses, lessons, exercises, learning paths and
// enrollments. Only a course's author may change it or its lessons.
type CatalogService interface {
	CreateCourse(ctx context.Context, authorID uuid.UUID, title, description string) (*domain.Course, error)
	GetCourse(ctx context.Context, courseID uuid.UUID) (*domain.Course, error)
	// ListPublishedCourses pages through published courses. A zero limit
	// means DefaultPageSize; limits are capped at MaxPageSize.
	ListPublishedCourses(ctx context.Context, limit, offset int) ([]*domain.Course, error)
	PublishCourse(ctx context.Context, authorID, courseID uuid.UUID) (*domain.Course, error)

	CreateLesson(ctx context.Context, authorID, courseID uuid.UUID, title, content string, position int) (*domain.Lesson, error)
	PublishLesson(ctx context.Context, authorID, lessonID uuid.UUID) (*domain.Lesson, error)
	// ListPublishedLessons returns store.ErrCourseNotFound for an unknown course.
	ListPublishedLessons(ctx context.Context, courseID uuid.UUID) ([]*domain.Lesson, error)

	CreateExercise(ctx context.Context, authorID, lessonID uuid.UUID, prompt string, position int) (*domain.Exercise, error)
	ListExercises(ctx context.Context, lessonID uuid.UUID) ([]*domain.Exercise, error)

	// CreatePath checks that every course exists before storing the path.
	CreatePath(ctx context.Context, authorID uuid.UUID, title, description string, courseIDs []uuid.UUID) (*domain.LearningPath, error)
	GetPath(ctx context.Context, pathID uuid.UUID) (*domain.LearningPath, error)

	// Enroll enrolls the learner in a published course. Enrolling twice is
	// not an error; created reports whether this call added the enrollment.
	Enroll(ctx context.Context, learnerID, courseID uuid.UUID) (enrollment *domain.Enrollment, created bool, err error)
}

type catalogService struct {
	db     store.TxBeginner
	stores CatalogStores
	now    func() time.Time
	logger *slog.Logger
}

var _ CatalogService = (*catalogService)(nil)

// NewCatalogService creates a CatalogService.
func NewCatalogService(db store.TxBeginner, stores CatalogStores, logger *slog.Logger) CatalogService {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &catalogService{
		db:     db,
		stores: stores,
		now:    time.Now,
		logger: logger.With(slog.String("component", "catalog_service")),
	}
}

func catalogError(operation, message string, err error) error {
	if store.IsNotFoundError(err) {
		return err
	}
	return NewServiceError("catalog", operation, message, err)
}

// ownedCourse loads a course and checks that authorID wrote it.
func ownedCourse(ctx context.Context, courses store.CourseStore, authorID, courseID uuid.UUID) (*domain.Course, error) {
	course, err := courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.AuthorID != authorID {
		return nil, ErrNotOwned
	}
	return course, nil
}

func (s *catalogService) CreateCourse(
	ctx context.Context,
	authorID uuid.UUID,
	title, description string,
) (*domain.Course, error) {
	course, err := domain.NewCourse(authorID, title, description)
	if err != nil {
		return nil, err
	}
	if err := s.stores.Courses.Create(ctx, course); err != nil {
		return nil, catalogError("create_course", "failed to save course", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("course created",
		slog.String("course_id", course.ID.String()),
		slog.String("author_id", authorID.String()))
	return course, nil
}

func (s *catalogService) GetCourse(ctx context.Context, courseID uuid.UUID) (*domain.Course, error) {
	course, err := s.stores.Courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, catalogError("get_course", "failed to load course", err)
	}
	return course, nil
}

func (s *catalogService) ListPublishedCourses(ctx context.Context, limit, offset int) ([]*domain.Course, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	limit = min(limit, MaxPageSize)
	offset = max(offset, 0)

	courses, err := s.stores.Courses.ListPublished(ctx, limit, offset)
	if err != nil {
		return nil, catalogError("list_courses", "failed to list courses", err)
	}
	if courses == nil {
		courses = []*domain.Course{}
	}
	return courses, nil
}

func (s *catalogService) PublishCourse(ctx context.Context, authorID, courseID uuid.UUID) (*domain.Course, error) {
	course, err := ownedCourse(ctx, s.stores.Courses, authorID, courseID)
	if err != nil {
		return nil, catalogError("publish_course", "failed to load course", err)
	}
	if course.Published {
		return course, nil
	}

	now := s.now().UTC()
	if err := s.stores.Courses.Publish(ctx, courseID, now); err != nil {
		return nil, catalogError("publish_course", "failed to publish course", err)
	}
	course.Publish(now)
	return course, nil
}

func (s *catalogService) CreateLesson(
	ctx context.Context,
	authorID, courseID uuid.UUID,
	title, content string,
	position int,
) (*domain.Lesson, error) {
	if _, err := ownedCourse(ctx, s.stores.Courses, authorID, courseID); err != nil {
		return nil, catalogError("create_lesson", "failed to load course", err)
	}

	lesson, err := domain.NewLesson(courseID, title, content, position)
	if err != nil {
		return nil, err
	}
	if err := s.stores.Lessons.Create(ctx, lesson); err != nil {
		return nil, catalogError("create_lesson", "failed to save lesson", err)
	}
	return lesson, nil
}

func (s *catalogService) PublishLesson(ctx context.Context, authorID, lessonID uuid.UUID) (*domain.Lesson, error) {
	lesson, err := s.stores.Lessons.GetByID(ctx, lessonID)
	if err != nil {
		return nil, catalogError("publish_lesson", "failed to load lesson", err)
	}
	if _, err := ownedCourse(ctx, s.stores.Courses, authorID, lesson.CourseID); err != nil {
		return nil, catalogError("publish_lesson", "failed to load course", err)
	}
	if lesson.Published {
		return lesson, nil
	}

	now := s.now().UTC()
	if err := s.stores.Lessons.Publish(ctx, lessonID, now); err != nil {
		return nil, catalogError("publish_lesson", "failed to publish lesson", err)
	}
	lesson.Published = true
	lesson.UpdatedAt = now
	return lesson, nil
}

func (s *catalogService) ListPublishedLessons(ctx context.Context, courseID uuid.UUID) ([]*domain.Lesson, error) {
	if _, err := s.stores.Courses.GetByID(ctx, courseID); err != nil {
		return nil, catalogError("list_lessons", "failed to load course", err)
	}
	lessons, err := s.stores.Lessons.ListPublishedByCourse(ctx, courseID)
	if err != nil {
		return nil, catalogError("list_lessons", "failed to list lessons", err)
	}
	if lessons == nil {
		lessons = []*domain.Lesson{}
	}
	return lessons, nil
}

func (s *catalogService) CreateExercise(
	ctx context.Context,
	authorID, lessonID uuid.UUID,
	prompt string,
	position int,
) (*domain.Exercise, error) {
	lesson, err := s.stores.Lessons.GetByID(ctx, lessonID)
	if err != nil {
		return nil, catalogError("create_exercise", "failed to load lesson", err)
	}
	if _, err := ownedCourse(ctx, s.stores.Courses, authorID, lesson.CourseID); err != nil {
		return nil, catalogError("create_exercise", "failed to load course", err)
	}

	exercise, err := domain.NewExercise(lessonID, prompt, position)
	if err != nil {
		return nil, err
	}
	if err := s.stores.Exercises.Create(ctx, exercise); err != nil {
		return nil, catalogError("create_exercise", "failed to save exercise", err)
	}
	return exercise, nil
}

func (s *catalogService) ListExercises(ctx context.Context, lessonID uuid.UUID) ([]*domain.Exercise, error) {
	if _, err := s.stores.Lessons.GetByID(ctx, lessonID); err != nil {
		return nil, catalogError("list_exercises", "failed to load lesson", err)
	}
	exercises, err := s.stores.Exercises.ListByLesson(ctx, lessonID)
	if err != nil {
		return nil, catalogError("list_exercises", "failed to list exercises", err)
	}
	if exercises == nil {
		exercises = []*domain.Exercise{}
	}
	return exercises, nil
}

func (s *catalogService) CreatePath(
	ctx context.Context,
	authorID uuid.UUID,
	title, description string,
	courseIDs []uuid.UUID,
) (*domain.LearningPath, error) {
	path, err := domain.NewLearningPath(authorID, title, description, courseIDs)
	if err != nil {
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if len(path.CourseIDs) > 0 {
			found, err := s.stores.Courses.WithTx(tx).GetByIDs(ctx, path.CourseIDs)
			if err != nil {
				return err
			}
			for _, id := range path.CourseIDs {
				if _, ok := found[id]; !ok {
					return fmt.Errorf("%w: %s", store.ErrCourseNotFound, id)
				}
			}
		}
		return s.stores.Paths.WithTx(tx).Create(ctx, path)
	})
	if err != nil {
		return nil, catalogError("create_path", "failed to save learning path", err)
	}
	return path, nil
}

func (s *catalogService) GetPath(ctx context.Context, pathID uuid.UUID) (*domain.LearningPath, error) {
	path, err := s.stores.Paths.GetByID(ctx, pathID)
	if err != nil {
		return nil, catalogError("get_path", "failed to load learning path", err)
	}
	return path, nil
}

func (s *catalogService) Enroll(
	ctx context.Context,
	learnerID, courseID uuid.UUID,
) (*domain.Enrollment, bool, error) {
	course, err := s.stores.Courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, false, catalogError("enroll", "failed to load course", err)
	}
	if !course.Published {
		return nil, false, ErrCourseNotPublished
	}

	enrollment := &domain.Enrollment{
		LearnerID:  learnerID,
		CourseID:   courseID,
		EnrolledAt: s.now().UTC(),
	}
	created, err := s.stores.Enrollments.Enroll(ctx, enrollment)
	if err != nil {
		return nil, false, catalogError("enroll", "failed to save enrollment", err)
	}
	return enrollment, created, nil
}
