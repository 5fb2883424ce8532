package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/lms-api/internal/domain"
	"github.com/phrazzld/lms-api/internal/platform/logger"
	"github.com/phrazzld/lms-api/internal/store"
)

// PostgresProgressStore implements store.ProgressStore. The three progress
// levels share the progress table; each has its own partial unique index,
// which the upserts name in their ON CONFLICT clauses.
type PostgresProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProgressStore creates a progress store.
func NewPostgresProgressStore(db store.DBTX, logger *slog.Logger) *PostgresProgressStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "progress_store")),
	}
}

var _ store.ProgressStore = (*PostgresProgressStore)(nil)

const progressColumns = `id, learner_id, course_id, lesson_id, exercise_id, percent_complete,
	last_accessed_at, created_at, updated_at`

func scanProgress(row rowScanner) (*domain.Progress, error) {
	var (
		p                    domain.Progress
		lessonID, exerciseID uuid.NullUUID
	)
	err := row.Scan(&p.ID, &p.LearnerID, &p.CourseID, &lessonID, &exerciseID,
		&p.PercentComplete, &p.LastAccessedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.LessonID = uuidPtr(lessonID)
	p.ExerciseID = uuidPtr(exerciseID)
	return &p, nil
}

const upsertLessonQuery = `
	INSERT INTO progress (id, learner_id, course_id, lesson_id, percent_complete,
		last_accessed_at, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $6, $6)
	ON CONFLICT (learner_id, lesson_id) WHERE lesson_id IS NOT NULL AND exercise_id IS NULL
	DO UPDATE SET
		percent_complete = GREATEST(progress.percent_complete, EXCLUDED.percent_complete),
		last_accessed_at = EXCLUDED.last_accessed_at,
		updated_at = EXCLUDED.updated_at
	RETURNING ` + progressColumns

func (s *PostgresProgressStore) upsert(ctx context.Context, op string, query string, args ...any) (*domain.Progress, error) {
	p, err := scanProgress(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to upsert progress",
			slog.String("operation", op),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return p, nil
}

// TouchLesson implements store.ProgressStore.TouchLesson.
func (s *PostgresProgressStore) TouchLesson(
	ctx context.Context,
	learnerID, courseID, lessonID uuid.UUID,
	now time.Time,
) (*domain.Progress, error) {
	return s.upsert(ctx, "touch_lesson", upsertLessonQuery,
		uuid.New(), learnerID, courseID, lessonID, 0, now)
}

// UpsertLesson implements store.ProgressStore.UpsertLesson.
func (s *PostgresProgressStore) UpsertLesson(
	ctx context.Context,
	learnerID, courseID, lessonID uuid.UUID,
	percent int,
	now time.Time,
) (*domain.Progress, error) {
	if percent < 0 || percent > 100 {
		return nil, domain.ErrPercentOutOfRange
	}
	return s.upsert(ctx, "upsert_lesson", upsertLessonQuery,
		uuid.New(), learnerID, courseID, lessonID, percent, now)
}

// UpsertExercise implements store.ProgressStore.UpsertExercise.
func (s *PostgresProgressStore) UpsertExercise(
	ctx context.Context,
	learnerID, courseID, lessonID, exerciseID uuid.UUID,
	score int,
	now time.Time,
) (*domain.Progress, error) {
	if score < 0 || score > 100 {
		return nil, domain.ErrPercentOutOfRange
	}
	return s.upsert(ctx, "upsert_exercise", `
		INSERT INTO progress (id, learner_id, course_id, lesson_id, exercise_id, percent_complete,
			last_accessed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7, $7)
		ON CONFLICT (learner_id, exercise_id) WHERE exercise_id IS NOT NULL
		DO UPDATE SET
			percent_complete = GREATEST(progress.percent_complete, EXCLUDED.percent_complete),
			last_accessed_at = EXCLUDED.last_accessed_at,
			updated_at = EXCLUDED.updated_at
		RETURNING `+progressColumns,
		uuid.New(), learnerID, courseID, lessonID, exerciseID, score, now)
}

// UpsertCourse implements store.ProgressStore.UpsertCourse. The aggregate is
// overwritten, not raised: it is always a fresh recomputation.
func (s *PostgresProgressStore) UpsertCourse(
	ctx context.Context,
	learnerID, courseID uuid.UUID,
	percent int,
	now time.Time,
) (*domain.Progress, error) {
	if percent < 0 || percent > 100 {
		return nil, domain.ErrPercentOutOfRange
	}
	return s.upsert(ctx, "upsert_course", `
		INSERT INTO progress (id, learner_id, course_id, percent_complete,
			last_accessed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5, $5)
		ON CONFLICT (learner_id, course_id) WHERE lesson_id IS NULL AND exercise_id IS NULL
		DO UPDATE SET
			percent_complete = EXCLUDED.percent_complete,
			last_accessed_at = EXCLUDED.last_accessed_at,
			updated_at = EXCLUDED.updated_at
		RETURNING `+progressColumns,
		uuid.New(), learnerID, courseID, percent, now)
}

// CountCompletedLessons implements store.ProgressStore.CountCompletedLessons.
func (s *PostgresProgressStore) CountCompletedLessons(ctx context.Context, learnerID, courseID uuid.UUID) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM progress p
		JOIN lessons l ON l.id = p.lesson_id
		WHERE p.learner_id = $1
			AND l.course_id = $2
			AND l.published
			AND p.exercise_id IS NULL
			AND p.percent_complete = 100`, learnerID, courseID).Scan(&n)
	if err != nil {
		return 0, MapError(err)
	}
	return n, nil
}

// LockCourse implements store.ProgressStore.LockCourse with a
// transaction-scoped advisory lock keyed on the learner and course.
func (s *PostgresProgressStore) LockCourse(ctx context.Context, learnerID, courseID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx,
		`SELECT pg_advisory_xact_lock(hashtextextended($1::text || ':' || $2::text, 0))`,
		learnerID, courseID)
	if err != nil {
		return MapError(err)
	}
	return nil
}

// ListLessonProgress implements store.ProgressStore.ListLessonProgress.
func (s *PostgresProgressStore) ListLessonProgress(
	ctx context.Context,
	learnerID uuid.UUID,
	courseIDs []uuid.UUID,
) ([]*domain.Progress, error) {
	if len(courseIDs) == 0 {
		return []*domain.Progress{}, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+progressColumns+`
		FROM progress
		WHERE learner_id = $1
			AND course_id = ANY($2::uuid[])
			AND lesson_id IS NOT NULL
			AND exercise_id IS NULL`, learnerID, uuidArray(courseIDs))
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	out := []*domain.Progress{}
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, MapError(err)
		}
		out = append(out, p)
	}
	return out, MapError(rows.Err())
}

// WithTx implements store.ProgressStore.WithTx.
func (s *PostgresProgressStore) WithTx(tx *sql.Tx) store.ProgressStore {
	return &PostgresProgressStore{db: tx, logger: s.logger}
}
