package review

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/lms-api/internal/domain"
	"github.com/phrazzld/lms-api/internal/domain/srs"
	"github.com/phrazzld/lms-api/internal/platform/logger"
	"github.com/phrazzld/lms-api/internal/store"
)

const (
	DefaultDueLimit = 20
	MaxDueLimit     = 100
)

// Limits bounds ListDueReviews.
type Limits struct {
	DefaultDue int
	MaxDue     int
}

// Option configures the service.
type Option func(*serviceImpl)

// WithClock replaces time.Now as the source of review timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *serviceImpl) { s.now = now }
}

// WithLimits overrides the due-list limits. Non-positive values keep the defaults.
func WithLimits(l Limits) Option {
	return func(s *serviceImpl) {
		if l.DefaultDue > 0 {
			s.limits.DefaultDue = l.DefaultDue
		}
		if l.MaxDue > 0 {
			s.limits.MaxDue = l.MaxDue
		}
	}
}

var _ Service = (*serviceImpl)(nil)

type serviceImpl struct {
	db         store.TxBeginner
	cards      store.FlashcardStore
	states     store.ReviewStateStore
	srsService srs.Service
	limits     Limits
	now        func() time.Time
	logger     *slog.Logger
}

// NewService creates the review service.
func NewService(
	db store.TxBeginner,
	cards store.FlashcardStore,
	states store.ReviewStateStore,
	srsService srs.Service,
	logger *slog.Logger,
	opts ...Option,
) Service {
	if db == nil {
		panic("db cannot be nil")
	}
	if cards == nil {
		panic("cards cannot be nil")
	}
	if states == nil {
		panic("states cannot be nil")
	}
	if srsService == nil {
		panic("srsService cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &serviceImpl{
		db:         db,
		cards:      cards,
		states:     states,
		srsService: srsService,
		limits:     Limits{DefaultDue: DefaultDueLimit, MaxDue: MaxDueLimit},
		now:        time.Now,
		logger:     logger.With(slog.String("component", "review_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.limits.DefaultDue > s.limits.MaxDue {
		s.limits.DefaultDue = s.limits.MaxDue
	}
	return s
}

// GetOrCreateReviewState implements Service.GetOrCreateReviewState.
func (s *serviceImpl) GetOrCreateReviewState(
	ctx context.Context,
	learnerID, itemID uuid.UUID,
) (*domain.ReviewState, error) {
	if learnerID == uuid.Nil || itemID == uuid.Nil {
		return nil, ErrInvalidReviewRequest
	}
	state, err := s.getOrCreate(ctx, s.states, learnerID, itemID)
	if err != nil {
		return nil, newServiceError("get_review_state", "failed to load review state", err)
	}
	return state, nil
}

// getOrCreate loads the stored state, or a fresh one seeded with the
// scheduler's initial ease factor.
func (s *serviceImpl) getOrCreate(
	ctx context.Context,
	states store.ReviewStateStore,
	learnerID, itemID uuid.UUID,
) (*domain.ReviewState, error) {
	state, err := states.Get(ctx, learnerID, itemID)
	if errors.Is(err, store.ErrReviewStateNotFound) {
		return domain.NewReviewStateWithEase(learnerID, itemID, s.srsService.Params().InitialEaseFactor)
	}
	if err != nil {
		return nil, err
	}
	return state, nil
}

// RecordReview implements Service.RecordReview.
func (s *serviceImpl) RecordReview(
	ctx context.Context,
	learnerID, itemID uuid.UUID,
	isCorrect bool,
) (*domain.ReviewState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("learner_id", learnerID.String()),
		slog.String("item_id", itemID.String()))

	if learnerID == uuid.Nil || itemID == uuid.Nil {
		return nil, ErrInvalidReviewRequest
	}

	var updated *domain.ReviewState
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := s.cards.WithTx(tx).GetByID(ctx, itemID); err != nil {
			if errors.Is(err, store.ErrFlashcardNotFound) {
				return ErrItemNotFound
			}
			return err
		}

		states := s.states.WithTx(tx)
		current, err := s.getOrCreate(ctx, states, learnerID, itemID)
		if err != nil {
			return err
		}

		now := s.now().UTC()
		next, err := s.srsService.Apply(current, isCorrect, now)
		if err != nil {
			return err
		}

		if current.IsNew() {
			next.CreatedAt = now
			err = states.Insert(ctx, next)
		} else {
			err = states.Update(ctx, next, current.Version)
		}
		if err != nil {
			return err
		}

		updated = next
		return nil
	})

	switch {
	case err == nil:
	case errors.Is(err, ErrItemNotFound):
		log.Debug("review for unknown flashcard")
		return nil, ErrItemNotFound
	case errors.Is(err, store.ErrConflict):
		log.Warn("concurrent review detected")
		return nil, ErrConcurrentReview
	default:
		log.Error("failed to record review", slog.String("error", err.Error()))
		return nil, newServiceError("record_review", "failed to store review", err)
	}

	log.Debug("review recorded",
		slog.Bool("is_correct", isCorrect),
		slog.String("status", string(updated.Status)),
		slog.Float64("ease_factor", updated.EaseFactor),
		slog.Int("interval", updated.Interval),
		slog.Time("next_review_at", updated.NextReviewAt))
	return updated, nil
}

// ListDueReviews implements Service.ListDueReviews.
func (s *serviceImpl) ListDueReviews(
	ctx context.Context,
	learnerID uuid.UUID,
	limit int,
) ([]*domain.ReviewState, error) {
	if learnerID == uuid.Nil {
		return nil, ErrInvalidReviewRequest
	}
	if limit == 0 {
		limit = s.limits.DefaultDue
	}
	if limit < 0 || limit > s.limits.MaxDue {
		return nil, ErrInvalidReviewRequest
	}

	due, err := s.states.ListDue(ctx, learnerID, s.now().UTC(), limit)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list due reviews",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()))
		return nil, newServiceError("list_due_reviews", "failed to list due reviews", err)
	}
	if due == nil {
		due = []*domain.ReviewState{}
	}
	return due, nil
}

// GetReviewStats implements Service.GetReviewStats.
func (s *serviceImpl) GetReviewStats(ctx context.Context, learnerID uuid.UUID) (*domain.ReviewStats, error) {
	if learnerID == uuid.Nil {
		return nil, ErrInvalidReviewRequest
	}

	counts, err := s.states.CountByStatus(ctx, learnerID)
	if err != nil {
		return nil, newServiceError("get_review_stats", "failed to count review states", err)
	}
	total, err := s.cards.Count(ctx)
	if err != nil {
		return nil, newServiceError("get_review_stats", "failed to count flashcards", err)
	}
	return domain.NewReviewStats(counts, total), nil
}
