package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/lms-api/internal/api/shared"
	"github.com/phrazzld/lms-api/internal/platform/logger"
	"github.com/phrazzld/lms-api/internal/service"
	"github.com/phrazzld/lms-api/internal/service/review"
)

// FlashcardHandler serves flashcard CRUD and spaced-repetition reviews.
type FlashcardHandler struct {
	cards   service.FlashcardService
	reviews review.Service
	logger  *slog.Logger
}

// NewFlashcardHandler creates a FlashcardHandler.
func NewFlashcardHandler(cards service.FlashcardService, reviews review.Service, logger *slog.Logger) *FlashcardHandler {
	if cards == nil || reviews == nil {
		panic("flashcard and review services are required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FlashcardHandler{
		cards:   cards,
		reviews: reviews,
		logger:  logger.With(slog.String("component", "flashcard_handler")),
	}
}

// CreateFlashcard handles POST /flashcards.
func (h *FlashcardHandler) CreateFlashcard(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req FlashcardRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	card, err := h.cards.CreateFlashcard(r.Context(), userID, req.CourseID, req.Front, req.Back, req.Hint)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create flashcard")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, card)
}

// GetFlashcard handles GET /flashcards/{id}.
func (h *FlashcardHandler) GetFlashcard(w http.ResponseWriter, r *http.Request) {
	_, cardID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	card, err := h.cards.GetFlashcard(r.Context(), cardID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get flashcard")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, card)
}

// UpdateFlashcard handles PUT /flashcards/{id}.
func (h *FlashcardHandler) UpdateFlashcard(w http.ResponseWriter, r *http.Request) {
	userID, cardID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}
	var req FlashcardRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	card, err := h.cards.UpdateFlashcard(r.Context(), userID, cardID, req.Front, req.Back, req.Hint)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update flashcard")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, card)
}

// DeleteFlashcard handles DELETE /flashcards/{id}.
func (h *FlashcardHandler) DeleteFlashcard(w http.ResponseWriter, r *http.Request) {
	userID, cardID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.cards.DeleteFlashcard(r.Context(), userID, cardID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete flashcard")
		return
	}
	logger.FromContextOrDefault(r.Context(), h.logger).Info("flashcard deleted",
		slog.String("flashcard_id", cardID.String()))
	w.WriteHeader(http.StatusNoContent)
}

// ReviewFlashcard handles POST /flashcards/{id}/review.
func (h *FlashcardHandler) ReviewFlashcard(w http.ResponseWriter, r *http.Request) {
	userID, cardID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}
	var req ReviewRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	state, err := h.reviews.RecordReview(r.Context(), userID, cardID, *req.IsCorrect)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to record review")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("review recorded",
		slog.String("flashcard_id", cardID.String()),
		slog.Bool("is_correct", *req.IsCorrect),
		slog.String("status", string(state.Status)))
	shared.RespondWithJSON(w, r, http.StatusOK, state)
}

// DueReviews handles GET /reviews/due?limit=n.
func (h *FlashcardHandler) DueReviews(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	states, err := h.reviews.ListDueReviews(r.Context(), userID, limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list due reviews")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, listOf(states))
}

// ReviewStats handles GET /reviews/stats.
func (h *FlashcardHandler) ReviewStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	stats, err := h.reviews.GetReviewStats(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get review stats")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}
