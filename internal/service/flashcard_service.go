package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/lms-api/internal/domain"
	"github.com/phrazzld/lms-api/internal/platform/logger"
	"github.com/phrazzld/lms-api/internal/store"
)

// FlashcardService manages flashcards. Only a card's author may change it.
type FlashcardService interface {
	// CreateFlashcard optionally links the card to an existing course.
	CreateFlashcard(ctx context.Context, authorID uuid.UUID, courseID *uuid.UUID, front, back, hint string) (*domain.Flashcard, error)
	GetFlashcard(ctx context.Context, cardID uuid.UUID) (*domain.Flashcard, error)
	UpdateFlashcard(ctx context.Context, authorID, cardID uuid.UUID, front, back, hint string) (*domain.Flashcard, error)
	// DeleteFlashcard also removes every learner's review state for the card.
	DeleteFlashcard(ctx context.Context, authorID, cardID uuid.UUID) error
}

type flashcardService struct {
	cards   store.FlashcardStore
	courses store.CourseStore
	now     func() time.Time
	logger  *slog.Logger
}

var _ FlashcardService = (*flashcardService)(nil)

// NewFlashcardService creates a FlashcardService.
func NewFlashcardService(cards store.FlashcardStore, courses store.CourseStore, logger *slog.Logger) FlashcardService {
	if cards == nil || courses == nil {
		panic("flashcard and course stores are required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &flashcardService{
		cards:   cards,
		courses: courses,
		now:     time.Now,
		logger:  logger.With(slog.String("component", "flashcard_service")),
	}
}

func flashcardError(operation, message string, err error) error {
	if store.IsNotFoundError(err) {
		return err
	}
	return NewServiceError("flashcard", operation, message, err)
}

func (s *flashcardService) CreateFlashcard(
	ctx context.Context,
	authorID uuid.UUID,
	courseID *uuid.UUID,
	front, back, hint string,
) (*domain.Flashcard, error) {
	card, err := domain.NewFlashcard(authorID, courseID, front, back, hint)
	if err != nil {
		return nil, err
	}
	if courseID != nil {
		if _, err := s.courses.GetByID(ctx, *courseID); err != nil {
			return nil, flashcardError("create", "failed to load course", err)
		}
	}
	if err := s.cards.Create(ctx, card); err != nil {
		return nil, flashcardError("create", "failed to save flashcard", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("flashcard created",
		slog.String("flashcard_id", card.ID.String()))
	return card, nil
}

func (s *flashcardService) GetFlashcard(ctx context.Context, cardID uuid.UUID) (*domain.Flashcard, error) {
	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		return nil, flashcardError("get", "failed to load flashcard", err)
	}
	return card, nil
}

func (s *flashcardService) owned(ctx context.Context, authorID, cardID uuid.UUID) (*domain.Flashcard, error) {
	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if card.AuthorID != authorID {
		return nil, ErrNotOwned
	}
	return card, nil
}

func (s *flashcardService) UpdateFlashcard(
	ctx context.Context,
	authorID, cardID uuid.UUID,
	front, back, hint string,
) (*domain.Flashcard, error) {
	card, err := s.owned(ctx, authorID, cardID)
	if err != nil {
		return nil, flashcardError("update", "failed to load flashcard", err)
	}
	if err := card.UpdateContent(front, back, hint, s.now().UTC()); err != nil {
		return nil, err
	}
	if err := s.cards.Update(ctx, card); err != nil {
		return nil, flashcardError("update", "failed to save flashcard", err)
	}
	return card, nil
}

func (s *flashcardService) DeleteFlashcard(ctx context.Context, authorID, cardID uuid.UUID) error {
	if _, err := s.owned(ctx, authorID, cardID); err != nil {
		return flashcardError("delete", "failed to load flashcard", err)
	}
	if err := s.cards.Delete(ctx, cardID); err != nil {
		return flashcardError("delete", "failed to delete flashcard", err)
	}
	return nil
}
