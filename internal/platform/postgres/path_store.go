package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"

	"github.com/phrazzld/lms-api/internal/domain"
	"github.com/phrazzld/lms-api/internal/platform/logger"
	"github.com/phrazzld/lms-api/internal/store"
)

// PostgresLearningPathStore implements store.LearningPathStore. A path's
// courses live in learning_path_courses, ordered by position.
type PostgresLearningPathStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresLearningPathStore creates a learning path store.
func NewPostgresLearningPathStore(db store.DBTX, logger *slog.Logger) *PostgresLearningPathStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresLearningPathStore{
		db:     db,
		logger: logger.With(slog.String("component", "learning_path_store")),
	}
}

var _ store.LearningPathStore = (*PostgresLearningPathStore)(nil)

// Create implements store.LearningPathStore.Create. The path row and its
// course rows are separate statements; callers that need atomicity run it
// inside a transaction.
func (s *PostgresLearningPathStore) Create(ctx context.Context, path *domain.LearningPath) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := path.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO learning_paths (id, author_id, title, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		path.ID, path.AuthorID, path.Title, path.Description, path.CreatedAt, path.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create learning path",
			slog.String("error", err.Error()),
			slog.String("path_id", path.ID.String()))
		return MapError(err)
	}

	for i, courseID := range path.CourseIDs {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO learning_path_courses (path_id, course_id, position)
			VALUES ($1, $2, $3)`, path.ID, courseID, i)
		if err != nil {
			log.Warn("failed to attach course to learning path",
				slog.String("error", err.Error()),
				slog.String("path_id", path.ID.String()),
				slog.String("course_id", courseID.String()))
			return MapError(err)
		}
	}

	log.Info("learning path created",
		slog.String("path_id", path.ID.String()),
		slog.Int("courses", len(path.CourseIDs)))
	return nil
}

// GetByID implements store.LearningPathStore.GetByID.
func (s *PostgresLearningPathStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.LearningPath, error) {
	var p domain.LearningPath
	err := s.db.QueryRowContext(ctx, `
		SELECT id, author_id, title, description, created_at, updated_at
		FROM learning_paths
		WHERE id = $1`, id).Scan(&p.ID, &p.AuthorID, &p.Title, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, notFound(err, store.ErrPathNotFound)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT course_id
		FROM learning_path_courses
		WHERE path_id = $1
		ORDER BY position`, id)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	p.CourseIDs = []uuid.UUID{}
	for rows.Next() {
		var courseID uuid.UUID
		if err := rows.Scan(&courseID); err != nil {
			return nil, MapError(err)
		}
		p.CourseIDs = append(p.CourseIDs, courseID)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return &p, nil
}

// WithTx implements store.LearningPathStore.WithTx.
func (s *PostgresLearningPathStore) WithTx(tx *sql.Tx) store.LearningPathStore {
	return &PostgresLearningPathStore{db: tx, logger: s.logger}
}
