package api

import (
	"github.com/google/uuid"

	"github.com/phrazzld/lms-api/internal/domain"
)

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenRequest is the body of POST /auth/refresh.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse is returned by every auth endpoint.
type AuthResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	// ExpiresAt is the access token's expiry in RFC 3339.
	ExpiresAt string `json:"expires_at"`
}

// CreateCourseRequest is the body of POST /courses.
type CreateCourseRequest struct {
	Title       string `json:"title"       validate:"required,max=200"`
	Description string `json:"description" validate:"max=20000"`
}

// CreateLessonRequest is the body of POST /courses/{id}/lessons.
type CreateLessonRequest struct {
	Title    string `json:"title"    validate:"required,max=200"`
	Content  string `json:"content"  validate:"max=20000"`
	Position int    `json:"position" validate:"min=0"`
}

// CreateExerciseRequest is the body of POST /lessons/{id}/exercises.
type CreateExerciseRequest struct {
	Prompt   string `json:"prompt"   validate:"required,max=20000"`
	Position int    `json:"position" validate:"min=0"`
}

// ExerciseScoreRequest is the body of POST /exercises/{id}/score. The range
// is checked by the progress service.
type ExerciseScoreRequest struct {
	Score *int `json:"score" validate:"required"`
}

// CreateLearningPathRequest is the body of POST /paths.
type CreateLearningPathRequest struct {
	Title       string      `json:"title"       validate:"required,max=200"`
	Description string      `json:"description" validate:"max=20000"`
	CourseIDs   []uuid.UUID `json:"course_ids"  validate:"required,min=1,max=100"`
}

// FlashcardRequest is the body of POST /flashcards and PUT /flashcards/{id}.
// CourseID is ignored on update.
type FlashcardRequest struct {
	CourseID *uuid.UUID `json:"course_id,omitempty"`
	Front    string     `json:"front" validate:"required"`
	Back     string     `json:"back"  validate:"required"`
	Hint     string     `json:"hint"  validate:"max=200"`
}

// ReviewRequest is the body of POST /flashcards/{id}/review.
type ReviewRequest struct {
	IsCorrect *bool `json:"is_correct" validate:"required"`
}

// EnrollmentResponse is returned by POST /courses/{id}/enroll.
type EnrollmentResponse struct {
	*domain.Enrollment
	Created bool `json:"created"`
}

// CourseProgressResponse is returned by GET /courses/{id}/progress.
type CourseProgressResponse struct {
	CourseID        uuid.UUID `json:"course_id"`
	PercentComplete int       `json:"percent_complete"`
}

// ListResponse wraps collection responses.
type ListResponse[T any] struct {
	Items []T `json:"items"`
}

func listOf[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Items: items}
}
