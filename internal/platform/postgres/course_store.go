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

// PostgresCourseStore implements store.CourseStore.
type PostgresCourseStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCourseStore creates a course store.
func NewPostgresCourseStore(db store.DBTX, logger *slog.Logger) *PostgresCourseStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresCourseStore{
		db:     db,
		logger: logger.With(slog.String("component", "course_store")),
	}
}

var _ store.CourseStore = (*PostgresCourseStore)(nil)

const courseColumns = `id, author_id, title, description, published, published_at, created_at, updated_at`

func scanCourse(row rowScanner) (*domain.Course, error) {
	var (
		c           domain.Course
		publishedAt sql.NullTime
	)
	err := row.Scan(&c.ID, &c.AuthorID, &c.Title, &c.Description,
		&c.Published, &publishedAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if publishedAt.Valid {
		t := publishedAt.Time
		c.PublishedAt = &t
	}
	return &c, nil
}

// Create implements store.CourseStore.Create.
func (s *PostgresCourseStore) Create(ctx context.Context, course *domain.Course) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := course.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO courses (id, author_id, title, description, published, published_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		course.ID, course.AuthorID, course.Title, course.Description,
		course.Published, course.PublishedAt, course.CreatedAt, course.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create course",
			slog.String("error", err.Error()),
			slog.String("course_id", course.ID.String()))
		return MapError(err)
	}

	log.Info("course created",
		slog.String("course_id", course.ID.String()),
		slog.String("author_id", course.AuthorID.String()))
	return nil
}

// GetByID implements store.CourseStore.GetByID.
func (s *PostgresCourseStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = $1`, id)
	c, err := scanCourse(row)
	if err != nil {
		return nil, notFound(err, store.ErrCourseNotFound)
	}
	return c, nil
}

// GetByIDs implements store.CourseStore.GetByIDs.
func (s *PostgresCourseStore) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.Course, error) {
	out := make(map[uuid.UUID]*domain.Course, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE id = ANY($1::uuid[])`, uuidArray(ids))
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, MapError(err)
		}
		out[c.ID] = c
	}
	return out, MapError(rows.Err())
}

// ListPublished implements store.CourseStore.ListPublished.
func (s *PostgresCourseStore) ListPublished(ctx context.Context, limit, offset int) ([]*domain.Course, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+courseColumns+`
		FROM courses
		WHERE published
		ORDER BY published_at DESC, id
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	courses := []*domain.Course{}
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, MapError(err)
		}
		courses = append(courses, c)
	}
	return courses, MapError(rows.Err())
}

// Publish implements store.CourseStore.Publish.
func (s *PostgresCourseStore) Publish(ctx context.Context, id uuid.UUID, at time.Time) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE courses
		SET published = TRUE, published_at = COALESCE(published_at, $2), updated_at = $2
		WHERE id = $1`, id, at)
	if err != nil {
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrCourseNotFound); err != nil {
		return err
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("course published", slog.String("course_id", id.String()))
	return nil
}

// WithTx implements store.CourseStore.WithTx.
func (s *PostgresCourseStore) WithTx(tx *sql.Tx) store.CourseStore {
	return &PostgresCourseStore{db: tx, logger: s.logger}
}
