package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/lms-api/internal/api/shared"
	"github.com/phrazzld/lms-api/internal/platform/logger"
	"github.com/phrazzld/lms-api/internal/service/progress"
)

// ProgressHandler serves lesson, exercise, course and path progress for the
// authenticated learner.
type ProgressHandler struct {
	progress progress.Service
	logger   *slog.Logger
}

// NewProgressHandler creates a ProgressHandler.
func NewProgressHandler(svc progress.Service, logger *slog.Logger) *ProgressHandler {
	if svc == nil {
		panic("progress service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ProgressHandler{
		progress: svc,
		logger:   logger.With(slog.String("component", "progress_handler")),
	}
}

// AccessLesson handles POST /lessons/{id}/access.
func (h *ProgressHandler) AccessLesson(w http.ResponseWriter, r *http.Request) {
	userID, lessonID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	row, err := h.progress.TouchLesson(r.Context(), userID, lessonID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to record lesson access")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, row)
}

// CompleteLesson handles POST /lessons/{id}/complete.
func (h *ProgressHandler) CompleteLesson(w http.ResponseWriter, r *http.Request) {
	userID, lessonID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	summary, err := h.progress.CompleteLesson(r.Context(), userID, lessonID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to complete lesson")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("lesson completed",
		slog.String("lesson_id", lessonID.String()),
		slog.Int("course_percent", summary.CoursePercent))
	shared.RespondWithJSON(w, r, http.StatusOK, summary)
}

// ScoreExercise handles POST /exercises/{id}/score.
func (h *ProgressHandler) ScoreExercise(w http.ResponseWriter, r *http.Request) {
	userID, exerciseID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}
	var req ExerciseScoreRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	row, err := h.progress.RecordExerciseScore(r.Context(), userID, exerciseID, *req.Score)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to record score")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, row)
}

// CourseProgress handles GET /courses/{id}/progress. It recomputes and
// stores the learner's course percentage.
func (h *ProgressHandler) CourseProgress(w http.ResponseWriter, r *http.Request) {
	userID, courseID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	percent, err := h.progress.RecomputeCourseProgress(r.Context(), userID, courseID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to compute course progress")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, CourseProgressResponse{
		CourseID:        courseID,
		PercentComplete: percent,
	})
}

// MyEnrollments handles GET /me/enrollments.
func (h *ProgressHandler) MyEnrollments(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	enrollments, err := h.progress.ListEnrollmentsWithProgress(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list enrollments")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, listOf(enrollments))
}

// PathProgress handles GET /paths/{id}/progress.
func (h *ProgressHandler) PathProgress(w http.ResponseWriter, r *http.Request) {
	userID, pathID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.progress.GetLearningPathProgress(r.Context(), userID, pathID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to compute learning path progress")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}
