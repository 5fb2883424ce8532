package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/phrazzld/lms-api/internal/api/shared"
	"github.com/phrazzld/lms-api/internal/domain"
	"github.com/phrazzld/lms-api/internal/mocks"
	"github.com/phrazzld/lms-api/internal/service"
	"github.com/phrazzld/lms-api/internal/service/review"
	"github.com/phrazzld/lms-api/internal/store"
)

func newFlashcardHandler() (*FlashcardHandler, *mocks.FlashcardService, *mocks.ReviewService) {
	cards, reviews := &mocks.FlashcardService{}, &mocks.ReviewService{}
	return NewFlashcardHandler(cards, reviews, nil), cards, reviews
}

func TestFlashcardHandler_CreateFlashcard(t *testing.T) {
	t.Parallel()

	userID, courseID := uuid.New(), uuid.New()

	t.Run("with course", func(t *testing.T) {
		t.Parallel()
		h, cards, _ := newFlashcardHandler()
		card := &domain.Flashcard{ID: uuid.New(), AuthorID: userID, CourseID: &courseID, Front: "f", Back: "b"}
		cards.On("CreateFlashcard", mock.Anything, userID, &courseID, "f", "b", "").Return(card, nil)

		rec := serve(h.CreateFlashcard, testRequest(http.MethodPost, "/api/flashcards",
			`{"course_id": "`+courseID.String()+`", "front": "f", "back": "b"}`, userID, nil))

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, card.ID, decodeBody[domain.Flashcard](t, rec).ID)
	})

	t.Run("missing back", func(t *testing.T) {
		t.Parallel()
		h, _, _ := newFlashcardHandler()

		rec := serve(h.CreateFlashcard, testRequest(http.MethodPost, "/api/flashcards", `{"front": "f"}`, userID, nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid back: required field", decodeBody[shared.ErrorResponse](t, rec).Error)
	})
}

func TestFlashcardHandler_UpdateAndDelete(t *testing.T) {
	t.Parallel()

	userID, cardID := uuid.New(), uuid.New()

	t.Run("update by non-author", func(t *testing.T) {
		t.Parallel()
		h, cards, _ := newFlashcardHandler()
		cards.On("UpdateFlashcard", mock.Anything, userID, cardID, "f", "b", "h").Return(nil, service.ErrNotOwned)

		rec := serve(h.UpdateFlashcard, testRequest(http.MethodPut, "/api/flashcards/x",
			`{"front": "f", "back": "b", "hint": "h"}`, userID, idParam(cardID)))

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()
		h, cards, _ := newFlashcardHandler()
		cards.On("DeleteFlashcard", mock.Anything, userID, cardID).Return(nil)

		rec := serve(h.DeleteFlashcard, testRequest(http.MethodDelete, "/api/flashcards/x", "", userID, idParam(cardID)))

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("delete missing", func(t *testing.T) {
		t.Parallel()
		h, cards, _ := newFlashcardHandler()
		cards.On("DeleteFlashcard", mock.Anything, userID, cardID).Return(store.ErrFlashcardNotFound)

		rec := serve(h.DeleteFlashcard, testRequest(http.MethodDelete, "/api/flashcards/x", "", userID, idParam(cardID)))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestFlashcardHandler_ReviewFlashcard(t *testing.T) {
	t.Parallel()

	userID, cardID := uuid.New(), uuid.New()
	now := time.Now().UTC()

	tests := []struct {
		name       string
		body       string
		isCorrect  bool
		serviceErr error
		wantStatus int
		wantError  string
	}{
		{name: "correct", body: `{"is_correct": true}`, isCorrect: true, wantStatus: http.StatusOK},
		{name: "incorrect", body: `{"is_correct": false}`, isCorrect: false, wantStatus: http.StatusOK},
		{name: "missing flag", body: `{}`, wantStatus: http.StatusBadRequest, wantError: "Invalid is_correct: required field"},
		{name: "wrong type", body: `{"is_correct": "yes"}`, wantStatus: http.StatusBadRequest, wantError: "Invalid request format"},
		{
			name:       "unknown card",
			body:       `{"is_correct": true}`,
			isCorrect:  true,
			serviceErr: review.ErrItemNotFound,
			wantStatus: http.StatusNotFound,
			wantError:  "Flashcard not found",
		},
		{
			name:       "lost race",
			body:       `{"is_correct": true}`,
			isCorrect:  true,
			serviceErr: review.ErrConcurrentReview,
			wantStatus: http.StatusConflict,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			h, _, reviews := newFlashcardHandler()
			state := &domain.ReviewState{
				LearnerID: userID, ItemID: cardID, Status: domain.StatusLearning,
				EaseFactor: 2.6, Interval: 3, NextReviewAt: now.AddDate(0, 0, 3), Version: 1,
			}
			if tc.serviceErr != nil {
				reviews.On("RecordReview", mock.Anything, userID, cardID, tc.isCorrect).Return(nil, tc.serviceErr)
			} else {
				reviews.On("RecordReview", mock.Anything, userID, cardID, tc.isCorrect).Return(state, nil)
			}

			rec := serve(h.ReviewFlashcard, testRequest(http.MethodPost, "/api/flashcards/x/review", tc.body, userID, idParam(cardID)))

			assert.Equal(t, tc.wantStatus, rec.Code)
			if tc.wantError != "" {
				assert.Equal(t, tc.wantError, decodeBody[shared.ErrorResponse](t, rec).Error)
			}
			if tc.wantStatus == http.StatusOK {
				got := decodeBody[domain.ReviewState](t, rec)
				assert.Equal(t, domain.StatusLearning, got.Status)
				assert.Equal(t, 3, got.Interval)
			}
		})
	}
}

func TestFlashcardHandler_DueReviews(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("default limit", func(t *testing.T) {
		t.Parallel()
		h, _, reviews := newFlashcardHandler()
		reviews.On("ListDueReviews", mock.Anything, userID, 0).Return([]*domain.ReviewState{}, nil)

		rec := serve(h.DueReviews, testRequest(http.MethodGet, "/api/reviews/due", "", userID, nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"items": []}`, rec.Body.String())
	})

	t.Run("limit above max", func(t *testing.T) {
		t.Parallel()
		h, _, reviews := newFlashcardHandler()
		reviews.On("ListDueReviews", mock.Anything, userID, 500).Return(nil, review.ErrInvalidReviewRequest)

		rec := serve(h.DueReviews, testRequest(http.MethodGet, "/api/reviews/due?limit=500", "", userID, nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("negative limit", func(t *testing.T) {
		t.Parallel()
		h, _, reviews := newFlashcardHandler()

		rec := serve(h.DueReviews, testRequest(http.MethodGet, "/api/reviews/due?limit=-1", "", userID, nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		reviews.AssertNotCalled(t, "ListDueReviews", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestFlashcardHandler_ReviewStats(t *testing.T) {
	t.Parallel()

	h, _, reviews := newFlashcardHandler()
	userID := uuid.New()
	stats := domain.NewReviewStats(map[domain.MasteryStatus]int{domain.StatusMastered: 2, domain.StatusLearning: 1}, 10)
	reviews.On("GetReviewStats", mock.Anything, userID).Return(stats, nil)

	rec := serve(h.ReviewStats, testRequest(http.MethodGet, "/api/reviews/stats", "", userID, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[domain.ReviewStats](t, rec)
	assert.Equal(t, 3, got.TotalLearned)
	assert.Equal(t, 7, got.NotStarted)
	assert.Equal(t, 0, got.ByStatus[domain.StatusNew])
}
