package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	maxTitleLength = 200
	maxTextLength  = 20000
)

// Course is a publishable collection of lessons.
type Course struct {
	ID          uuid.UUID  `json:"id"`
	AuthorID    uuid.UUID  `json:"author_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewCourse creates an unpublished course owned by authorID.
func NewCourse(authorID uuid.UUID, title, description string) (*Course, error) {
	now := time.Now().UTC()
	c := &Course{
		ID:          uuid.New(),
		AuthorID:    authorID,
		Title:       strings.TrimSpace(title),
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks if the Course has valid data.
func (c *Course) Validate() error {
	if c.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty")
	}
	if c.AuthorID == uuid.Nil {
		return NewValidationError("author_id", "cannot be empty")
	}
	if err := requireText("title", c.Title, maxTitleLength); err != nil {
		return err
	}
	return checkLength("description", c.Description, maxTextLength)
}

// Publish marks the course as visible to learners.
func (c *Course) Publish(now time.Time) {
	if c.Published {
		return
	}
	c.Published = true
	c.PublishedAt = &now
	c.UpdatedAt = now
}

// Lesson belongs to exactly one course. Only published lessons count towards
// course progress.
type Lesson struct {
	ID        uuid.UUID `json:"id"`
	CourseID  uuid.UUID `json:"course_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Position  int       `json:"position"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewLesson creates an unpublished lesson at the given position in a course.
func NewLesson(courseID uuid.UUID, title, content string, position int) (*Lesson, error) {
	now := time.Now().UTC()
	l := &Lesson{
		ID:        uuid.New(),
		CourseID:  courseID,
		Title:     strings.TrimSpace(title),
		Content:   content,
		Position:  position,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

// Validate checks if the Lesson has valid data.
func (l *Lesson) Validate() error {
	if l.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty")
	}
	if l.CourseID == uuid.Nil {
		return NewValidationError("course_id", "cannot be empty")
	}
	if err := requireText("title", l.Title, maxTitleLength); err != nil {
		return err
	}
	if l.Position < 0 {
		return NewValidationError("position", "cannot be negative")
	}
	return checkLength("content", l.Content, maxTextLength)
}

// Exercise is a scored task attached to a lesson.
type Exercise struct {
	ID        uuid.UUID `json:"id"`
	LessonID  uuid.UUID `json:"lesson_id"`
	Prompt    string    `json:"prompt"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewExercise creates an exercise under a lesson.
func NewExercise(lessonID uuid.UUID, prompt string, position int) (*Exercise, error) {
	now := time.Now().UTC()
	e := &Exercise{
		ID:        uuid.New(),
		LessonID:  lessonID,
		Prompt:    strings.TrimSpace(prompt),
		Position:  position,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// Validate checks if the Exercise has valid data.
func (e *Exercise) Validate() error {
	if e.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty")
	}
	if e.LessonID == uuid.Nil {
		return NewValidationError("lesson_id", "cannot be empty")
	}
	if e.Position < 0 {
		return NewValidationError("position", "cannot be negative")
	}
	return requireText("prompt", e.Prompt, maxTextLength)
}

// LearningPath is an ordered sequence of courses.
type LearningPath struct {
	ID          uuid.UUID   `json:"id"`
	AuthorID    uuid.UUID   `json:"author_id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	CourseIDs   []uuid.UUID `json:"course_ids"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// NewLearningPath creates a path over the given courses, in order.
func NewLearningPath(authorID uuid.UUID, title, description string, courseIDs []uuid.UUID) (*LearningPath, error) {
	now := time.Now().UTC()
	p := &LearningPath{
		ID:          uuid.New(),
		AuthorID:    authorID,
		Title:       strings.TrimSpace(title),
		Description: description,
		CourseIDs:   courseIDs,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks if the LearningPath has valid data.
func (p *LearningPath) Validate() error {
	if p.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty")
	}
	if p.AuthorID == uuid.Nil {
		return NewValidationError("author_id", "cannot be empty")
	}
	if err := requireText("title", p.Title, maxTitleLength); err != nil {
		return err
	}
	seen := make(map[uuid.UUID]struct{}, len(p.CourseIDs))
	for _, id := range p.CourseIDs {
		if id == uuid.Nil {
			return NewValidationError("course_ids", "cannot contain an empty ID")
		}
		if _, dup := seen[id]; dup {
			return NewValidationError("course_ids", "cannot contain duplicates")
		}
		seen[id] = struct{}{}
	}
	return checkLength("description", p.Description, maxTextLength)
}

// Enrollment records that a learner has joined a course.
type Enrollment struct {
	LearnerID  uuid.UUID `json:"learner_id"`
	CourseID   uuid.UUID `json:"course_id"`
	EnrolledAt time.Time `json:"enrolled_at"`
}

func requireText(field, value string, limit int) error {
	if strings.TrimSpace(value) == "" {
		return NewValidationError(field, "cannot be empty")
	}
	return checkLength(field, value, limit)
}

func checkLength(field, value string, limit int) error {
	if utf8.RuneCountInString(value) > limit {
		return NewValidationError(field, "is too long")
	}
	return nil
}
