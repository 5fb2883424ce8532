package progress

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/lms-api/internal/domain"
	"github.com/phrazzld/lms-api/internal/domain/progress"
	"github.com/phrazzld/lms-api/internal/platform/logger"
	"github.com/phrazzld/lms-api/internal/store"
)

// Stores groups the stores the service reads and writes.
type Stores struct {
	Courses     store.CourseStore
	Lessons     store.LessonStore
	Exercises   store.ExerciseStore
	Enrollments store.EnrollmentStore
	Paths       store.LearningPathStore
	Progress    store.ProgressStore
}

// Option configures the service.
type Option func(*serviceImpl)

// WithClock replaces time.Now as the source of progress timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *serviceImpl) { s.now = now }
}

var _ Service = (*serviceImpl)(nil)

type serviceImpl struct {
	db     store.TxBeginner
	stores Stores
	now    func() time.Time
	logger *slog.Logger
}

// NewService creates the progress service. Every store is required.
func NewService(db store.TxBeginner, stores Stores, logger *slog.Logger, opts ...Option) Service {
	if db == nil {
		panic("db cannot be nil")
	}
	if stores.Courses == nil || stores.Lessons == nil || stores.Exercises == nil ||
		stores.Enrollments == nil || stores.Paths == nil || stores.Progress == nil {
		panic("all progress stores are required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &serviceImpl{
		db:     db,
		stores: stores,
		now:    time.Now,
		logger: logger.With(slog.String("component", "progress_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// recompute counts and stores one course's aggregate using the given
// (possibly transactional) stores.
func recompute(
	ctx context.Context,
	lessons store.LessonStore,
	rows store.ProgressStore,
	learnerID, courseID uuid.UUID,
	now time.Time,
) (int, error) {
	total, err := lessons.CountPublished(ctx, courseID)
	if err != nil {
		return 0, err
	}
	completed, err := rows.CountCompletedLessons(ctx, learnerID, courseID)
	if err != nil {
		return 0, err
	}

	percent := progress.Percent(completed, total)
	if _, err := rows.UpsertCourse(ctx, learnerID, courseID, percent, now); err != nil {
		return 0, err
	}
	return percent, nil
}

// RecomputeCourseProgress implements Service.RecomputeCourseProgress.
func (s *serviceImpl) RecomputeCourseProgress(ctx context.Context, learnerID, courseID uuid.UUID) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if learnerID == uuid.Nil || courseID == uuid.Nil {
		return 0, ErrInvalidProgressRequest
	}

	if _, err := s.stores.Courses.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, store.ErrCourseNotFound) {
			log.Debug("recompute for unknown course", slog.String("course_id", courseID.String()))
			return 0, nil
		}
		return 0, newServiceError("recompute_course_progress", "failed to load course", err)
	}

	percent, err := recompute(ctx, s.stores.Lessons, s.stores.Progress, learnerID, courseID, s.now().UTC())
	if err != nil {
		log.Error("failed to recompute course progress",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()),
			slog.String("course_id", courseID.String()))
		return 0, newServiceError("recompute_course_progress", "failed to recompute", err)
	}
	return percent, nil
}

// RecomputeCourseProgressBatch implements Service.RecomputeCourseProgressBatch.
func (s *serviceImpl) RecomputeCourseProgressBatch(
	ctx context.Context,
	learnerID uuid.UUID,
	courseIDs []uuid.UUID,
) (map[uuid.UUID]int, error) {
	if learnerID == uuid.Nil {
		return nil, ErrInvalidProgressRequest
	}

	ids := dedupe(courseIDs)
	if len(ids) == 0 {
		return map[uuid.UUID]int{}, nil
	}

	published, err := s.stores.Lessons.ListPublishedByCourses(ctx, ids)
	if err != nil {
		return nil, newServiceError("recompute_course_progress_batch", "failed to list lessons", err)
	}
	rows, err := s.stores.Progress.ListLessonProgress(ctx, learnerID, ids)
	if err != nil {
		return nil, newServiceError("recompute_course_progress_batch", "failed to list progress", err)
	}

	tally := progress.NewTally(ids)
	for _, l := range published {
		tally.AddPublishedLesson(l.CourseID, l.ID)
	}
	for _, p := range rows {
		if p.Level() != domain.LevelLesson {
			continue
		}
		tally.AddLessonProgress(p.CourseID, *p.LessonID, p.PercentComplete)
	}
	return tally.Percentages(), nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// loadPublishedLesson returns the lesson or ErrLessonNotFound /
// ErrLessonNotPublished.
func loadPublishedLesson(ctx context.Context, lessons store.LessonStore, lessonID uuid.UUID) (*domain.Lesson, error) {
	lesson, err := lessons.GetByID(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	if !lesson.Published {
		return nil, ErrLessonNotPublished
	}
	return lesson, nil
}

// CompleteLesson implements Service.CompleteLesson.
func (s *serviceImpl) CompleteLesson(
	ctx context.Context,
	learnerID, lessonID uuid.UUID,
) (*domain.CourseProgressSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("learner_id", learnerID.String()),
		slog.String("lesson_id", lessonID.String()))

	if learnerID == uuid.Nil || lessonID == uuid.Nil {
		return nil, ErrInvalidProgressRequest
	}

	var summary *domain.CourseProgressSummary
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		lessons := s.stores.Lessons.WithTx(tx)
		rows := s.stores.Progress.WithTx(tx)
		now := s.now().UTC()

		lesson, err := loadPublishedLesson(ctx, lessons, lessonID)
		if err != nil {
			return err
		}

		// Concurrent completions in one course must not count each other's
		// rows before commit.
		if err := rows.LockCourse(ctx, learnerID, lesson.CourseID); err != nil {
			return err
		}

		row, err := rows.UpsertLesson(ctx, learnerID, lesson.CourseID, lesson.ID, progress.Complete, now)
		if err != nil {
			return err
		}

		coursePercent, err := recompute(ctx, lessons, rows, learnerID, lesson.CourseID, now)
		if err != nil {
			return err
		}

		summary = &domain.CourseProgressSummary{
			CourseID:      lesson.CourseID,
			LessonID:      lesson.ID,
			LessonPercent: row.PercentComplete,
			CoursePercent: coursePercent,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrLessonNotFound) || errors.Is(err, ErrLessonNotPublished) {
			log.Debug("cannot complete lesson", slog.String("reason", err.Error()))
			return nil, err
		}
		log.Error("failed to complete lesson", slog.String("error", err.Error()))
		return nil, newServiceError("complete_lesson", "failed to complete lesson", err)
	}

	log.Info("lesson completed",
		slog.String("course_id", summary.CourseID.String()),
		slog.Int("course_percent", summary.CoursePercent))
	return summary, nil
}

// TouchLesson implements Service.TouchLesson.
func (s *serviceImpl) TouchLesson(ctx context.Context, learnerID, lessonID uuid.UUID) (*domain.Progress, error) {
	if learnerID == uuid.Nil || lessonID == uuid.Nil {
		return nil, ErrInvalidProgressRequest
	}

	lesson, err := loadPublishedLesson(ctx, s.stores.Lessons, lessonID)
	if err != nil {
		return nil, err
	}

	row, err := s.stores.Progress.TouchLesson(ctx, learnerID, lesson.CourseID, lesson.ID, s.now().UTC())
	if err != nil {
		return nil, newServiceError("touch_lesson", "failed to record lesson access", err)
	}
	return row, nil
}

// RecordExerciseScore implements Service.RecordExerciseScore.
func (s *serviceImpl) RecordExerciseScore(
	ctx context.Context,
	learnerID, exerciseID uuid.UUID,
	score int,
) (*domain.Progress, error) {
	if learnerID == uuid.Nil || exerciseID == uuid.Nil {
		return nil, ErrInvalidProgressRequest
	}
	if score < 0 || score > progress.Complete {
		return nil, ErrInvalidScore
	}

	exercise, err := s.stores.Exercises.GetByID(ctx, exerciseID)
	if err != nil {
		return nil, err
	}
	lesson, err := loadPublishedLesson(ctx, s.stores.Lessons, exercise.LessonID)
	if err != nil {
		return nil, err
	}

	row, err := s.stores.Progress.UpsertExercise(ctx, learnerID, lesson.CourseID, lesson.ID, exercise.ID, score, s.now().UTC())
	if err != nil {
		return nil, newServiceError("record_exercise_score", "failed to store score", err)
	}
	return row, nil
}

// ListEnrollmentsWithProgress implements Service.ListEnrollmentsWithProgress.
func (s *serviceImpl) ListEnrollmentsWithProgress(
	ctx context.Context,
	learnerID uuid.UUID,
) ([]*domain.EnrollmentProgress, error) {
	if learnerID == uuid.Nil {
		return nil, ErrInvalidProgressRequest
	}

	enrollments, err := s.stores.Enrollments.ListByLearner(ctx, learnerID)
	if err != nil {
		return nil, newServiceError("list_enrollments", "failed to list enrollments", err)
	}
	out := make([]*domain.EnrollmentProgress, 0, len(enrollments))
	if len(enrollments) == 0 {
		return out, nil
	}

	ids := make([]uuid.UUID, 0, len(enrollments))
	for _, e := range enrollments {
		ids = append(ids, e.CourseID)
	}

	courses, err := s.stores.Courses.GetByIDs(ctx, ids)
	if err != nil {
		return nil, newServiceError("list_enrollments", "failed to load courses", err)
	}
	percents, err := s.RecomputeCourseProgressBatch(ctx, learnerID, ids)
	if err != nil {
		return nil, err
	}

	for _, e := range enrollments {
		out = append(out, &domain.EnrollmentProgress{
			Enrollment:      *e,
			Course:          courses[e.CourseID],
			PercentComplete: percents[e.CourseID],
		})
	}
	return out, nil
}

// GetLearningPathProgress implements Service.GetLearningPathProgress.
func (s *serviceImpl) GetLearningPathProgress(
	ctx context.Context,
	learnerID, pathID uuid.UUID,
) (*domain.PathProgress, error) {
	if learnerID == uuid.Nil || pathID == uuid.Nil {
		return nil, ErrInvalidProgressRequest
	}

	path, err := s.stores.Paths.GetByID(ctx, pathID)
	if err != nil {
		if errors.Is(err, ErrPathNotFound) {
			return nil, err
		}
		return nil, newServiceError("get_path_progress", "failed to load path", err)
	}

	percents, err := s.RecomputeCourseProgressBatch(ctx, learnerID, path.CourseIDs)
	if err != nil {
		return nil, err
	}

	result := &domain.PathProgress{
		PathID:  path.ID,
		Courses: make([]domain.CoursePercent, 0, len(path.CourseIDs)),
	}
	values := make([]int, 0, len(path.CourseIDs))
	for _, id := range path.CourseIDs {
		p := percents[id]
		result.Courses = append(result.Courses, domain.CoursePercent{CourseID: id, PercentComplete: p})
		values = append(values, p)
	}
	result.PercentComplete = progress.Mean(values)
	return result, nil
}
