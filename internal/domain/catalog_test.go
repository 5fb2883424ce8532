package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCourse(t *testing.T) {
	authorID := uuid.New()

	c, err := NewCourse(authorID, "  Intro to Go  ", "basics")
	require.NoError(t, err)
	assert.Equal(t, "Intro to Go", c.Title)
	assert.Equal(t, authorID, c.AuthorID)
	assert.False(t, c.Published)
	assert.Nil(t, c.PublishedAt)

	_, err = NewCourse(authorID, "   ", "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewCourse(uuid.Nil, "Title", "")
	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "author_id", vErr.Field)
}

func TestCoursePublishIsIdempotent(t *testing.T) {
	c, err := NewCourse(uuid.New(), "Course", "")
	require.NoError(t, err)

	first := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.Publish(first)
	c.Publish(first.Add(time.Hour))

	assert.True(t, c.Published)
	require.NotNil(t, c.PublishedAt)
	assert.Equal(t, first, *c.PublishedAt)
}

func TestNewLesson(t *testing.T) {
	courseID := uuid.New()

	l, err := NewLesson(courseID, "Lesson 1", "content", 0)
	require.NoError(t, err)
	assert.Equal(t, courseID, l.CourseID)
	assert.False(t, l.Published)

	_, err = NewLesson(courseID, "Lesson", "", -1)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewLesson(uuid.Nil, "Lesson", "", 0)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewLesson(courseID, strings.Repeat("x", maxTitleLength+1), "", 0)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNewExercise(t *testing.T) {
	_, err := NewExercise(uuid.New(), "Translate 'hola'", 1)
	require.NoError(t, err)

	_, err = NewExercise(uuid.New(), "", 1)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNewLearningPath(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	p, err := NewLearningPath(uuid.New(), "Backend", "", []uuid.UUID{a, b})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a, b}, p.CourseIDs)

	_, err = NewLearningPath(uuid.New(), "Backend", "", []uuid.UUID{a, a})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewLearningPath(uuid.New(), "Backend", "", []uuid.UUID{uuid.Nil})
	assert.ErrorIs(t, err, ErrValidation)

	empty, err := NewLearningPath(uuid.New(), "Empty", "", nil)
	require.NoError(t, err)
	assert.Empty(t, empty.CourseIDs)
}

func TestFlashcardUpdateContent(t *testing.T) {
	f, err := NewFlashcard(uuid.New(), nil, "hola", "hello", "")
	require.NoError(t, err)

	now := time.Now().UTC().Add(time.Minute)
	require.NoError(t, f.UpdateContent("adiós", "goodbye", "farewell", now))
	assert.Equal(t, "adiós", f.Front)
	assert.Equal(t, now, f.UpdatedAt)

	err = f.UpdateContent("", "goodbye", "", now.Add(time.Minute))
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "adiós", f.Front, "invalid update must leave the card unchanged")
	assert.Equal(t, now, f.UpdatedAt)
}

func TestNewFlashcardRejectsNilCourse(t *testing.T) {
	nilCourse := uuid.Nil
	_, err := NewFlashcard(uuid.New(), &nilCourse, "a", "b", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestProgressLevel(t *testing.T) {
	lessonID, exerciseID := uuid.New(), uuid.New()

	assert.Equal(t, LevelCourse, (&Progress{}).Level())
	assert.Equal(t, LevelLesson, (&Progress{LessonID: &lessonID}).Level())
	assert.Equal(t, LevelExercise, (&Progress{LessonID: &lessonID, ExerciseID: &exerciseID}).Level())
}

func TestProgressValidate(t *testing.T) {
	exerciseID := uuid.New()
	base := Progress{LearnerID: uuid.New(), CourseID: uuid.New()}

	ok := base
	assert.NoError(t, ok.Validate())

	over := base
	over.PercentComplete = 101
	assert.ErrorIs(t, over.Validate(), ErrPercentOutOfRange)

	orphan := base
	orphan.ExerciseID = &exerciseID
	assert.ErrorIs(t, orphan.Validate(), ErrValidation)
}
