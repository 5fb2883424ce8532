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

// PostgresFlashcardStore implements store.FlashcardStore.
type PostgresFlashcardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresFlashcardStore creates a flashcard store.
func NewPostgresFlashcardStore(db store.DBTX, logger *slog.Logger) *PostgresFlashcardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresFlashcardStore{
		db:     db,
		logger: logger.With(slog.String("component", "flashcard_store")),
	}
}

var _ store.FlashcardStore = (*PostgresFlashcardStore)(nil)

const flashcardColumns = `id, author_id, course_id, front, back, hint, created_at, updated_at`

func scanFlashcard(row rowScanner) (*domain.Flashcard, error) {
	var (
		f        domain.Flashcard
		courseID uuid.NullUUID
	)
	err := row.Scan(&f.ID, &f.AuthorID, &courseID, &f.Front, &f.Back, &f.Hint, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	f.CourseID = uuidPtr(courseID)
	return &f, nil
}

// Create implements store.FlashcardStore.Create.
func (s *PostgresFlashcardStore) Create(ctx context.Context, card *domain.Flashcard) error {
	if err := card.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO flashcards (id, author_id, course_id, front, back, hint, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		card.ID, card.AuthorID, nullUUID(card.CourseID), card.Front, card.Back,
		card.Hint, card.CreatedAt, card.UpdatedAt,
	)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to create flashcard",
			slog.String("error", err.Error()),
			slog.String("flashcard_id", card.ID.String()))
		return MapError(err)
	}
	return nil
}

// GetByID implements store.FlashcardStore.GetByID.
func (s *PostgresFlashcardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Flashcard, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+flashcardColumns+` FROM flashcards WHERE id = $1`, id)
	f, err := scanFlashcard(row)
	if err != nil {
		return nil, notFound(err, store.ErrFlashcardNotFound)
	}
	return f, nil
}

// Update implements store.FlashcardStore.Update.
func (s *PostgresFlashcardStore) Update(ctx context.Context, card *domain.Flashcard) error {
	if err := card.Validate(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE flashcards
		SET front = $2, back = $3, hint = $4, updated_at = $5
		WHERE id = $1`,
		card.ID, card.Front, card.Back, card.Hint, card.UpdatedAt,
	)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrFlashcardNotFound)
}

// Delete implements store.FlashcardStore.Delete. Review states go with the
// card through ON DELETE CASCADE.
func (s *PostgresFlashcardStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM flashcards WHERE id = $1`, id)
	if err != nil {
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrFlashcardNotFound); err != nil {
		return err
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("flashcard deleted", slog.String("flashcard_id", id.String()))
	return nil
}

// Count implements store.FlashcardStore.Count.
func (s *PostgresFlashcardStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM flashcards`).Scan(&n); err != nil {
		return 0, MapError(err)
	}
	return n, nil
}

// WithTx implements store.FlashcardStore.WithTx.
func (s *PostgresFlashcardStore) WithTx(tx *sql.Tx) store.FlashcardStore {
	return &PostgresFlashcardStore{db: tx, logger: s.logger}
}
