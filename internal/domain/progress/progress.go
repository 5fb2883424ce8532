// Package progress holds the pure completion arithmetic behind course and
// learning-path progress. Course progress is always recomputed from the
// learner's lesson rows, never incremented, so the same inputs always give
// the same percentage.
package progress

import (
	"math"

	"github.com/google/uuid"
)

// Complete is the percentage at which a lesson counts as completed.
const Complete = 100

// Percent returns completed/total as a whole percentage in [0,100]. A zero
// total yields 0.
func Percent(completed, total int) int {
	if total <= 0 || completed <= 0 {
		return 0
	}
	p := int(math.Round(float64(completed) / float64(total) * 100))
	return min(max(p, 0), 100)
}

// Mean returns the rounded mean of the given percentages, 0 when there are none.
func Mean(percents []int) int {
	if len(percents) == 0 {
		return 0
	}
	sum := 0
	for _, p := range percents {
		sum += p
	}
	return min(max(int(math.Round(float64(sum)/float64(len(percents)))), 0), 100)
}

type courseTally struct {
	published map[uuid.UUID]struct{}
	completed map[uuid.UUID]struct{}
}

// Tally accumulates published lessons and completed lesson rows for a set of
// courses, then derives every course's percentage in one pass. Rows may be
// added in any order.
type Tally struct {
	courses map[uuid.UUID]*courseTally
}

// NewTally starts a tally over the given courses. Duplicate ids collapse.
func NewTally(courseIDs []uuid.UUID) *Tally {
	t := &Tally{courses: make(map[uuid.UUID]*courseTally, len(courseIDs))}
	for _, id := range courseIDs {
		if _, ok := t.courses[id]; ok {
			continue
		}
		t.courses[id] = &courseTally{
			published: make(map[uuid.UUID]struct{}),
			completed: make(map[uuid.UUID]struct{}),
		}
	}
	return t
}

// AddPublishedLesson records a published lesson of a course. Courses outside
// the tally are ignored.
func (t *Tally) AddPublishedLesson(courseID, lessonID uuid.UUID) {
	if c, ok := t.courses[courseID]; ok {
		c.published[lessonID] = struct{}{}
	}
}

// AddLessonProgress records a learner's lesson row. Only completed rows are
// kept.
func (t *Tally) AddLessonProgress(courseID, lessonID uuid.UUID, percent int) {
	if percent < Complete {
		return
	}
	if c, ok := t.courses[courseID]; ok {
		c.completed[lessonID] = struct{}{}
	}
}

// Counts returns the completed and total lesson counts for a course.
// Completed lessons that are not published are not counted.
func (t *Tally) Counts(courseID uuid.UUID) (completed, total int) {
	c, ok := t.courses[courseID]
	if !ok {
		return 0, 0
	}
	for id := range c.completed {
		if _, published := c.published[id]; published {
			completed++
		}
	}
	return completed, len(c.published)
}

// Percentages returns the completion percentage of every course in the
// tally.
func (t *Tally) Percentages() map[uuid.UUID]int {
	out := make(map[uuid.UUID]int, len(t.courses))
	for id := range t.courses {
		out[id] = Percent(t.Counts(id))
	}
	return out
}
