package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/phrazzld/lms-api/internal/domain"
)

// FlashcardStore defines the interface for flashcard persistence.
type FlashcardStore interface {
	Create(ctx context.Context, card *domain.Flashcard) error

	// GetByID returns ErrFlashcardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Flashcard, error)

	// Update overwrites the card's content. Returns ErrFlashcardNotFound if
	// the card does not exist.
	Update(ctx context.Context, card *domain.Flashcard) error

	// Delete removes the card together with every learner's review state
	// for it. Returns ErrFlashcardNotFound if the card does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// Count returns the number of flashcards in the catalog.
	Count(ctx context.Context) (int, error)

	WithTx(tx *sql.Tx) FlashcardStore
}
