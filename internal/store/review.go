package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/lms-api/internal/domain"
)

// ReviewStateStore defines the interface for review state persistence.
//
// Writes are compare-and-swap on ReviewState.Version so that two concurrent
// answers for the same learner/item pair cannot silently overwrite each
// other. The loser gets ErrConflict.
type ReviewStateStore interface {
	// Get returns ErrReviewStateNotFound if the pair has never been reviewed.
	Get(ctx context.Context, learnerID, itemID uuid.UUID) (*domain.ReviewState, error)

	// Insert stores a state for a pair that has none. Returns ErrConflict if
	// a row for the pair already exists. On success state.Version is 1.
	Insert(ctx context.Context, state *domain.ReviewState) error

	// Update stores state if the row's version still equals
	// expectedVersion. Returns ErrConflict otherwise. On success
	// state.Version is expectedVersion+1.
	Update(ctx context.Context, state *domain.ReviewState, expectedVersion int) error

	// ListDue returns the learner's non-mastered states with
	// next_review_at <= now, earliest first, at most limit rows.
	ListDue(ctx context.Context, learnerID uuid.UUID, now time.Time, limit int) ([]*domain.ReviewState, error)

	// CountByStatus groups the learner's states by status. Statuses with no
	// rows are absent from the map.
	CountByStatus(ctx context.Context, learnerID uuid.UUID) (map[domain.MasteryStatus]int, error)

	WithTx(tx *sql.Tx) ReviewStateStore
}
