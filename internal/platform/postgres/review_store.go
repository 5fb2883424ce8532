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

// PostgresReviewStateStore implements store.ReviewStateStore with
// optimistic concurrency on the version column.
type PostgresReviewStateStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresReviewStateStore creates a review state store.
func NewPostgresReviewStateStore(db store.DBTX, logger *slog.Logger) *PostgresReviewStateStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresReviewStateStore{
		db:     db,
		logger: logger.With(slog.String("component", "review_state_store")),
	}
}

var _ store.ReviewStateStore = (*PostgresReviewStateStore)(nil)

const reviewStateColumns = `learner_id, item_id, status, correct_count, incorrect_count,
	ease_factor, interval_days, last_reviewed_at, next_review_at, version, created_at, updated_at`

func scanReviewState(row rowScanner) (*domain.ReviewState, error) {
	var (
		s      domain.ReviewState
		status string
	)
	err := row.Scan(&s.LearnerID, &s.ItemID, &status, &s.CorrectCount, &s.IncorrectCount,
		&s.EaseFactor, &s.Interval, &s.LastReviewedAt, &s.NextReviewAt, &s.Version,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.Status = domain.MasteryStatus(status)
	return &s, nil
}

// Get implements store.ReviewStateStore.Get.
func (s *PostgresReviewStateStore) Get(ctx context.Context, learnerID, itemID uuid.UUID) (*domain.ReviewState, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+reviewStateColumns+`
		FROM review_states
		WHERE learner_id = $1 AND item_id = $2`, learnerID, itemID)
	st, err := scanReviewState(row)
	if err != nil {
		return nil, notFound(err, store.ErrReviewStateNotFound)
	}
	return st, nil
}

// Insert implements store.ReviewStateStore.Insert.
func (s *PostgresReviewStateStore) Insert(ctx context.Context, state *domain.ReviewState) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := state.Validate(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO review_states (learner_id, item_id, status, correct_count, incorrect_count,
			ease_factor, interval_days, last_reviewed_at, next_review_at, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 1, $10, $11)
		ON CONFLICT (learner_id, item_id) DO NOTHING`,
		state.LearnerID, state.ItemID, string(state.Status), state.CorrectCount, state.IncorrectCount,
		state.EaseFactor, state.Interval, state.LastReviewedAt, state.NextReviewAt,
		state.CreatedAt, state.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to insert review state",
			slog.String("error", err.Error()),
			slog.String("learner_id", state.LearnerID.String()),
			slog.String("item_id", state.ItemID.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrConflict); err != nil {
		log.Warn("review state already created by a concurrent request",
			slog.String("learner_id", state.LearnerID.String()),
			slog.String("item_id", state.ItemID.String()))
		return err
	}

	state.Version = 1
	return nil
}

// Update implements store.ReviewStateStore.Update.
func (s *PostgresReviewStateStore) Update(ctx context.Context, state *domain.ReviewState, expectedVersion int) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := state.Validate(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE review_states
		SET status = $3, correct_count = $4, incorrect_count = $5, ease_factor = $6,
			interval_days = $7, last_reviewed_at = $8, next_review_at = $9,
			updated_at = $10, version = version + 1
		WHERE learner_id = $1 AND item_id = $2 AND version = $11`,
		state.LearnerID, state.ItemID, string(state.Status), state.CorrectCount, state.IncorrectCount,
		state.EaseFactor, state.Interval, state.LastReviewedAt, state.NextReviewAt,
		state.UpdatedAt, expectedVersion,
	)
	if err != nil {
		log.Error("failed to update review state",
			slog.String("error", err.Error()),
			slog.String("learner_id", state.LearnerID.String()),
			slog.String("item_id", state.ItemID.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrConflict); err != nil {
		log.Warn("review state version changed concurrently",
			slog.String("learner_id", state.LearnerID.String()),
			slog.String("item_id", state.ItemID.String()),
			slog.Int("expected_version", expectedVersion))
		return err
	}

	state.Version = expectedVersion + 1
	return nil
}

// ListDue implements store.ReviewStateStore.ListDue.
func (s *PostgresReviewStateStore) ListDue(
	ctx context.Context,
	learnerID uuid.UUID,
	now time.Time,
	limit int,
) ([]*domain.ReviewState, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+reviewStateColumns+`
		FROM review_states
		WHERE learner_id = $1 AND next_review_at <= $2 AND status <> 'mastered'
		ORDER BY next_review_at, item_id
		LIMIT $3`, learnerID, now, limit)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	states := []*domain.ReviewState{}
	for rows.Next() {
		st, err := scanReviewState(rows)
		if err != nil {
			return nil, MapError(err)
		}
		states = append(states, st)
	}
	return states, MapError(rows.Err())
}

// CountByStatus implements store.ReviewStateStore.CountByStatus.
func (s *PostgresReviewStateStore) CountByStatus(ctx context.Context, learnerID uuid.UUID) (map[domain.MasteryStatus]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT status, COUNT(*)
		FROM review_states
		WHERE learner_id = $1
		GROUP BY status`, learnerID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[domain.MasteryStatus]int)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, MapError(err)
		}
		counts[domain.MasteryStatus(status)] = n
	}
	return counts, MapError(rows.Err())
}

// WithTx implements store.ReviewStateStore.WithTx.
func (s *PostgresReviewStateStore) WithTx(tx *sql.Tx) store.ReviewStateStore {
	return &PostgresReviewStateStore{db: tx, logger: s.logger}
}
