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

// PostgresExerciseStore implements store.ExerciseStore.
type PostgresExerciseStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresExerciseStore creates an exercise store.
func NewPostgresExerciseStore(db store.DBTX, logger *slog.Logger) *PostgresExerciseStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresExerciseStore{
		db:     db,
		logger: logger.With(slog.String("component", "exercise_store")),
	}
}

var _ store.ExerciseStore = (*PostgresExerciseStore)(nil)

const exerciseColumns = `id, lesson_id, prompt, position, created_at, updated_at`

func scanExercise(row rowScanner) (*domain.Exercise, error) {
	var e domain.Exercise
	if err := row.Scan(&e.ID, &e.LessonID, &e.Prompt, &e.Position, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

// Create implements store.ExerciseStore.Create.
func (s *PostgresExerciseStore) Create(ctx context.Context, exercise *domain.Exercise) error {
	if err := exercise.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO exercises (id, lesson_id, prompt, position, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		exercise.ID, exercise.LessonID, exercise.Prompt,
		exercise.Position, exercise.CreatedAt, exercise.UpdatedAt,
	)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to create exercise",
			slog.String("error", err.Error()),
			slog.String("lesson_id", exercise.LessonID.String()))
		return MapError(err)
	}
	return nil
}

// GetByID implements store.ExerciseStore.GetByID.
func (s *PostgresExerciseStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Exercise, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+exerciseColumns+` FROM exercises WHERE id = $1`, id)
	e, err := scanExercise(row)
	if err != nil {
		return nil, notFound(err, store.ErrExerciseNotFound)
	}
	return e, nil
}

// ListByLesson implements store.ExerciseStore.ListByLesson.
func (s *PostgresExerciseStore) ListByLesson(ctx context.Context, lessonID uuid.UUID) ([]*domain.Exercise, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+exerciseColumns+`
		FROM exercises
		WHERE lesson_id = $1
		ORDER BY position, created_at`, lessonID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	exercises := []*domain.Exercise{}
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, MapError(err)
		}
		exercises = append(exercises, e)
	}
	return exercises, MapError(rows.Err())
}

// WithTx implements store.ExerciseStore.WithTx.
func (s *PostgresExerciseStore) WithTx(tx *sql.Tx) store.ExerciseStore {
	return &PostgresExerciseStore{db: tx, logger: s.logger}
}
