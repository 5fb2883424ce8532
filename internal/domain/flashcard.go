package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Flashcard is a reviewable item. Learners schedule it through their own
// ReviewState; the card itself carries no per-learner data.
type Flashcard struct {
	ID        uuid.UUID  `json:"id"`
	AuthorID  uuid.UUID  `json:"author_id"`
	CourseID  *uuid.UUID `json:"course_id,omitempty"`
	Front     string     `json:"front"`
	Back      string     `json:"back"`
	Hint      string     `json:"hint,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewFlashcard creates a flashcard, optionally attached to a course.
func NewFlashcard(authorID uuid.UUID, courseID *uuid.UUID, front, back, hint string) (*Flashcard, error) {
	now := time.Now().UTC()
	f := &Flashcard{
		ID:        uuid.New(),
		AuthorID:  authorID,
		CourseID:  courseID,
		Front:     strings.TrimSpace(front),
		Back:      strings.TrimSpace(back),
		Hint:      strings.TrimSpace(hint),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Validate checks if the Flashcard has valid data.
func (f *Flashcard) Validate() error {
	if f.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty")
	}
	if f.AuthorID == uuid.Nil {
		return NewValidationError("author_id", "cannot be empty")
	}
	if f.CourseID != nil && *f.CourseID == uuid.Nil {
		return NewValidationError("course_id", "cannot be empty when set")
	}
	if err := requireText("front", f.Front, maxTextLength); err != nil {
		return err
	}
	if err := requireText("back", f.Back, maxTextLength); err != nil {
		return err
	}
	return checkLength("hint", f.Hint, maxTitleLength)
}

// UpdateContent replaces the card's text. The card is left untouched if the
// new content is invalid.
func (f *Flashcard) UpdateContent(front, back, hint string, now time.Time) error {
	updated := *f
	updated.Front = strings.TrimSpace(front)
	updated.Back = strings.TrimSpace(back)
	updated.Hint = strings.TrimSpace(hint)
	if err := updated.Validate(); err != nil {
		return err
	}
	updated.UpdatedAt = now
	*f = updated
	return nil
}
