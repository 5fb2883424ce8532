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

// PostgresLessonStore implements store.LessonStore.
type PostgresLessonStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresLessonStore creates a lesson store.
func NewPostgresLessonStore(db store.DBTX, logger *slog.Logger) *PostgresLessonStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresLessonStore{
		db:     db,
		logger: logger.With(slog.String("component", "lesson_store")),
	}
}

var _ store.LessonStore = (*PostgresLessonStore)(nil)

const lessonColumns = `id, course_id, title, content, position, published, created_at, updated_at`

func scanLesson(row rowScanner) (*domain.Lesson, error) {
	var l domain.Lesson
	err := row.Scan(&l.ID, &l.CourseID, &l.Title, &l.Content,
		&l.Position, &l.Published, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *PostgresLessonStore) queryLessons(ctx context.Context, query string, args ...any) ([]*domain.Lesson, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	lessons := []*domain.Lesson{}
	for rows.Next() {
		l, err := scanLesson(rows)
		if err != nil {
			return nil, MapError(err)
		}
		lessons = append(lessons, l)
	}
	return lessons, MapError(rows.Err())
}

// Create implements store.LessonStore.Create. Returns store.ErrInvalidEntity
// if the course does not exist.
func (s *PostgresLessonStore) Create(ctx context.Context, lesson *domain.Lesson) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := lesson.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO lessons (id, course_id, title, content, position, published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		lesson.ID, lesson.CourseID, lesson.Title, lesson.Content,
		lesson.Position, lesson.Published, lesson.CreatedAt, lesson.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create lesson",
			slog.String("error", err.Error()),
			slog.String("lesson_id", lesson.ID.String()),
			slog.String("course_id", lesson.CourseID.String()))
		return MapError(err)
	}

	log.Info("lesson created",
		slog.String("lesson_id", lesson.ID.String()),
		slog.String("course_id", lesson.CourseID.String()))
	return nil
}

// GetByID implements store.LessonStore.GetByID.
func (s *PostgresLessonStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Lesson, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+lessonColumns+` FROM lessons WHERE id = $1`, id)
	l, err := scanLesson(row)
	if err != nil {
		return nil, notFound(err, store.ErrLessonNotFound)
	}
	return l, nil
}

// ListPublishedByCourse implements store.LessonStore.ListPublishedByCourse.
func (s *PostgresLessonStore) ListPublishedByCourse(ctx context.Context, courseID uuid.UUID) ([]*domain.Lesson, error) {
	return s.queryLessons(ctx, `
		SELECT `+lessonColumns+`
		FROM lessons
		WHERE course_id = $1 AND published
		ORDER BY position, created_at`, courseID)
}

// ListPublishedByCourses implements store.LessonStore.ListPublishedByCourses.
func (s *PostgresLessonStore) ListPublishedByCourses(ctx context.Context, courseIDs []uuid.UUID) ([]*domain.Lesson, error) {
	if len(courseIDs) == 0 {
		return []*domain.Lesson{}, nil
	}
	return s.queryLessons(ctx, `
		SELECT `+lessonColumns+`
		FROM lessons
		WHERE course_id = ANY($1::uuid[]) AND published
		ORDER BY course_id, position`, uuidArray(courseIDs))
}

// CountPublished implements store.LessonStore.CountPublished.
func (s *PostgresLessonStore) CountPublished(ctx context.Context, courseID uuid.UUID) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM lessons WHERE course_id = $1 AND published`, courseID).Scan(&n)
	if err != nil {
		return 0, MapError(err)
	}
	return n, nil
}

// Publish implements store.LessonStore.Publish.
func (s *PostgresLessonStore) Publish(ctx context.Context, id uuid.UUID, at time.Time) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE lessons SET published = TRUE, updated_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrLessonNotFound); err != nil {
		return err
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("lesson published", slog.String("lesson_id", id.String()))
	return nil
}

// WithTx implements store.LessonStore.WithTx.
func (s *PostgresLessonStore) WithTx(tx *sql.Tx) store.LessonStore {
	return &PostgresLessonStore{db: tx, logger: s.logger}
}
