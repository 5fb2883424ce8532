package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/lms-api/internal/api/shared"
	"github.com/phrazzld/lms-api/internal/platform/logger"
	"github.com/phrazzld/lms-api/internal/service"
)

// CatalogHandler serves courses, lessons, exercises, learning paths and
// enrollment.
type CatalogHandler struct {
	catalog service.CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates a CatalogHandler.
func NewCatalogHandler(catalog service.CatalogService, logger *slog.Logger) *CatalogHandler {
	if catalog == nil {
		panic("catalog service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogHandler{
		catalog: catalog,
		logger:  logger.With(slog.String("component", "catalog_handler")),
	}
}

// CreateCourse handles POST /courses.
func (h *CatalogHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req CreateCourseRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	course, err := h.catalog.CreateCourse(r.Context(), userID, req.Title, req.Description)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create course")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, course)
}

// ListCourses handles GET /courses?limit=&offset=.
func (h *CatalogHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	courses, err := h.catalog.ListPublishedCourses(r.Context(), limit, offset)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list courses")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, listOf(courses))
}

// GetCourse handles GET /courses/{id}.
func (h *CatalogHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	courseID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	course, err := h.catalog.GetCourse(r.Context(), courseID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get course")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, course)
}

// PublishCourse handles POST /courses/{id}/publish.
func (h *CatalogHandler) PublishCourse(w http.ResponseWriter, r *http.Request) {
	userID, courseID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	course, err := h.catalog.PublishCourse(r.Context(), userID, courseID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to publish course")
		return
	}
	logger.FromContextOrDefault(r.Context(), h.logger).Info("course published",
		slog.String("course_id", courseID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, course)
}

// CreateLesson handles POST /courses/{id}/lessons.
func (h *CatalogHandler) CreateLesson(w http.ResponseWriter, r *http.Request) {
	userID, courseID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}
	var req CreateLessonRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	lesson, err := h.catalog.CreateLesson(r.Context(), userID, courseID, req.Title, req.Content, req.Position)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create lesson")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, lesson)
}

// ListLessons handles GET /courses/{id}/lessons.
func (h *CatalogHandler) ListLessons(w http.ResponseWriter, r *http.Request) {
	courseID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	lessons, err := h.catalog.ListPublishedLessons(r.Context(), courseID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list lessons")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, listOf(lessons))
}

// Enroll handles POST /courses/{id}/enroll. A repeat enrollment answers 200
// instead of 201.
func (h *CatalogHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	userID, courseID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	enrollment, created, err := h.catalog.Enroll(r.Context(), userID, courseID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to enroll")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	shared.RespondWithJSON(w, r, status, EnrollmentResponse{Enrollment: enrollment, Created: created})
}

// PublishLesson handles POST /lessons/{id}/publish.
func (h *CatalogHandler) PublishLesson(w http.ResponseWriter, r *http.Request) {
	userID, lessonID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	lesson, err := h.catalog.PublishLesson(r.Context(), userID, lessonID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to publish lesson")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, lesson)
}

// CreateExercise handles POST /lessons/{id}/exercises.
func (h *CatalogHandler) CreateExercise(w http.ResponseWriter, r *http.Request) {
	userID, lessonID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}
	var req CreateExerciseRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	exercise, err := h.catalog.CreateExercise(r.Context(), userID, lessonID, req.Prompt, req.Position)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create exercise")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, exercise)
}

// ListExercises handles GET /lessons/{id}/exercises.
func (h *CatalogHandler) ListExercises(w http.ResponseWriter, r *http.Request) {
	lessonID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	exercises, err := h.catalog.ListExercises(r.Context(), lessonID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list exercises")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, listOf(exercises))
}

// CreatePath handles POST /paths.
func (h *CatalogHandler) CreatePath(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req CreateLearningPathRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	path, err := h.catalog.CreatePath(r.Context(), userID, req.Title, req.Description, req.CourseIDs)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create learning path")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, path)
}

// GetPath handles GET /paths/{id}.
func (h *CatalogHandler) GetPath(w http.ResponseWriter, r *http.Request) {
	pathID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	path, err := h.catalog.GetPath(r.Context(), pathID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get learning path")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, path)
}
