package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/lms-api/internal/domain"
	"github.com/phrazzld/lms-api/internal/mocks"
	"github.com/phrazzld/lms-api/internal/service"
	"github.com/phrazzld/lms-api/internal/store"
)

func TestFlashcardService_CreateFlashcard(t *testing.T) {
	t.Parallel()

	authorID := uuid.New()

	t.Run("standalone card", func(t *testing.T) {
		t.Parallel()
		cards, courses := &mocks.FlashcardStore{}, &mocks.CourseStore{}
		cards.On("Create", mock.Anything, mock.MatchedBy(func(c *domain.Flashcard) bool {
			return c.AuthorID == authorID && c.CourseID == nil && c.Front == "chan"
		})).Return(nil)

		svc := service.NewFlashcardService(cards, courses, nil)
		card, err := svc.CreateFlashcard(context.Background(), authorID, nil, " chan ", "a typed conduit", "")

		require.NoError(t, err)
		assert.Equal(t, "chan", card.Front)
		courses.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("course must exist", func(t *testing.T) {
		t.Parallel()
		cards, courses := &mocks.FlashcardStore{}, &mocks.CourseStore{}
		courseID := uuid.New()
		courses.On("GetByID", mock.Anything, courseID).Return(nil, store.ErrCourseNotFound)

		svc := service.NewFlashcardService(cards, courses, nil)
		_, err := svc.CreateFlashcard(context.Background(), authorID, &courseID, "front", "back", "")

		assert.ErrorIs(t, err, store.ErrCourseNotFound)
		cards.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("empty back", func(t *testing.T) {
		t.Parallel()
		svc := service.NewFlashcardService(&mocks.FlashcardStore{}, &mocks.CourseStore{}, nil)

		_, err := svc.CreateFlashcard(context.Background(), authorID, nil, "front", "  ", "")

		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestFlashcardService_UpdateFlashcard(t *testing.T) {
	t.Parallel()

	authorID := uuid.New()
	newCard := func(owner uuid.UUID) *domain.Flashcard {
		return &domain.Flashcard{ID: uuid.New(), AuthorID: owner, Front: "old", Back: "old"}
	}

	t.Run("author edits card", func(t *testing.T) {
		t.Parallel()
		cards := &mocks.FlashcardStore{}
		card := newCard(authorID)
		cards.On("GetByID", mock.Anything, card.ID).Return(card, nil)
		cards.On("Update", mock.Anything, mock.MatchedBy(func(c *domain.Flashcard) bool {
			return c.Front == "new front" && c.Back == "new back"
		})).Return(nil)

		svc := service.NewFlashcardService(cards, &mocks.CourseStore{}, nil)
		updated, err := svc.UpdateFlashcard(context.Background(), authorID, card.ID, "new front", "new back", "")

		require.NoError(t, err)
		assert.Equal(t, "new front", updated.Front)
		cards.AssertExpectations(t)
	})

	t.Run("other user", func(t *testing.T) {
		t.Parallel()
		cards := &mocks.FlashcardStore{}
		card := newCard(uuid.New())
		cards.On("GetByID", mock.Anything, card.ID).Return(card, nil)

		svc := service.NewFlashcardService(cards, &mocks.CourseStore{}, nil)
		_, err := svc.UpdateFlashcard(context.Background(), authorID, card.ID, "x", "y", "")

		assert.ErrorIs(t, err, service.ErrNotOwned)
		cards.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("invalid content leaves card unchanged", func(t *testing.T) {
		t.Parallel()
		cards := &mocks.FlashcardStore{}
		card := newCard(authorID)
		cards.On("GetByID", mock.Anything, card.ID).Return(card, nil)

		svc := service.NewFlashcardService(cards, &mocks.CourseStore{}, nil)
		_, err := svc.UpdateFlashcard(context.Background(), authorID, card.ID, "", "y", "")

		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Equal(t, "old", card.Front)
	})
}

func TestFlashcardService_DeleteFlashcard(t *testing.T) {
	t.Parallel()

	authorID := uuid.New()

	t.Run("author deletes", func(t *testing.T) {
		t.Parallel()
		cards := &mocks.FlashcardStore{}
		card := &domain.Flashcard{ID: uuid.New(), AuthorID: authorID}
		cards.On("GetByID", mock.Anything, card.ID).Return(card, nil)
		cards.On("Delete", mock.Anything, card.ID).Return(nil)

		svc := service.NewFlashcardService(cards, &mocks.CourseStore{}, nil)

		require.NoError(t, svc.DeleteFlashcard(context.Background(), authorID, card.ID))
		cards.AssertExpectations(t)
	})

	t.Run("missing card", func(t *testing.T) {
		t.Parallel()
		cards := &mocks.FlashcardStore{}
		id := uuid.New()
		cards.On("GetByID", mock.Anything, id).Return(nil, store.ErrFlashcardNotFound)

		svc := service.NewFlashcardService(cards, &mocks.CourseStore{}, nil)
		err := svc.DeleteFlashcard(context.Background(), authorID, id)

		assert.ErrorIs(t, err, store.ErrFlashcardNotFound)
		assert.True(t, store.IsNotFoundError(err))
	})

	t.Run("other user", func(t *testing.T) {
		t.Parallel()
		cards := &mocks.FlashcardStore{}
		card := &domain.Flashcard{ID: uuid.New(), AuthorID: uuid.New()}
		cards.On("GetByID", mock.Anything, card.ID).Return(card, nil)

		svc := service.NewFlashcardService(cards, &mocks.CourseStore{}, nil)
		err := svc.DeleteFlashcard(context.Background(), authorID, card.ID)

		assert.ErrorIs(t, err, service.ErrNotOwned)
		cards.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
