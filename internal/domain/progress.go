package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ProgressLevel says what a Progress row measures.
type ProgressLevel string

const (
	LevelCourse   ProgressLevel = "course"
	LevelLesson   ProgressLevel = "lesson"
	LevelExercise ProgressLevel = "exercise"
)

// ErrPercentOutOfRange is returned for percentages outside [0,100].
var ErrPercentOutOfRange = errors.New("percent must be between 0 and 100")

// Progress is a learner's completion of a course, lesson or exercise. All
// three levels share one record type and are told apart by which of
// LessonID and ExerciseID is set.
type Progress struct {
	ID              uuid.UUID  `json:"id"`
	LearnerID       uuid.UUID  `json:"learner_id"`
	CourseID        uuid.UUID  `json:"course_id"`
	LessonID        *uuid.UUID `json:"lesson_id,omitempty"`
	ExerciseID      *uuid.UUID `json:"exercise_id,omitempty"`
	PercentComplete int        `json:"percent_complete"`
	LastAccessedAt  time.Time  `json:"last_accessed_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Level reports the row's level.
func (p *Progress) Level() ProgressLevel {
	switch {
	case p.ExerciseID != nil:
		return LevelExercise
	case p.LessonID != nil:
		return LevelLesson
	default:
		return LevelCourse
	}
}

// Validate checks if the Progress row has valid data.
func (p *Progress) Validate() error {
	if p.LearnerID == uuid.Nil {
		return NewValidationError("learner_id", "cannot be empty")
	}
	if p.CourseID == uuid.Nil {
		return NewValidationError("course_id", "cannot be empty")
	}
	if p.PercentComplete < 0 || p.PercentComplete > 100 {
		return ErrPercentOutOfRange
	}
	if p.ExerciseID != nil && p.LessonID == nil {
		return NewValidationError("lesson_id", "is required for exercise progress")
	}
	return nil
}

// CourseProgressSummary is returned after a lesson is completed.
type CourseProgressSummary struct {
	CourseID      uuid.UUID `json:"course_id"`
	LessonID      uuid.UUID `json:"lesson_id"`
	LessonPercent int       `json:"lesson_percent"`
	CoursePercent int       `json:"course_percent"`
}

// EnrollmentProgress is an enrollment together with its course and the
// learner's current completion.
type EnrollmentProgress struct {
	Enrollment
	Course          *Course `json:"course"`
	PercentComplete int     `json:"percent_complete"`
}

// CoursePercent is one course's completion inside a learning path.
type CoursePercent struct {
	CourseID        uuid.UUID `json:"course_id"`
	PercentComplete int       `json:"percent_complete"`
}

// PathProgress is a learner's completion of a learning path.
type PathProgress struct {
	PathID          uuid.UUID       `json:"path_id"`
	PercentComplete int             `json:"percent_complete"`
	Courses         []CoursePercent `json:"courses"`
}
