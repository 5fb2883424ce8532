//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/lms-api/internal/domain"
	"github.com/phrazzld/lms-api/internal/platform/postgres"
	"github.com/phrazzld/lms-api/internal/store"
	"github.com/phrazzld/lms-api/internal/testdb"
)

type fixtures struct {
	t   *testing.T
	ctx context.Context
	tx  *sql.Tx
}

func (f fixtures) user() *domain.User {
	f.t.Helper()
	u := &domain.User{
		ID:             uuid.New(),
		Email:          uuid.NewString() + "@example.com",
		HashedPassword: "$2a$10$abcdefghijklmnopqrstuv",
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}
	require.NoError(f.t, postgres.NewPostgresUserStore(f.tx, nil).Create(f.ctx, u))
	return u
}

func (f fixtures) course(author uuid.UUID) *domain.Course {
	f.t.Helper()
	c, err := domain.NewCourse(author, "Course "+uuid.NewString()[:8], "")
	require.NoError(f.t, err)
	require.NoError(f.t, postgres.NewPostgresCourseStore(f.tx, nil).Create(f.ctx, c))
	return c
}

func (f fixtures) lesson(courseID uuid.UUID, position int, published bool) *domain.Lesson {
	f.t.Helper()
	l, err := domain.NewLesson(courseID, "Lesson", "", position)
	require.NoError(f.t, err)
	lessons := postgres.NewPostgresLessonStore(f.tx, nil)
	require.NoError(f.t, lessons.Create(f.ctx, l))
	if published {
		require.NoError(f.t, lessons.Publish(f.ctx, l.ID, time.Now().UTC()))
		l.Published = true
	}
	return l
}

func (f fixtures) flashcard(author uuid.UUID) *domain.Flashcard {
	f.t.Helper()
	card, err := domain.NewFlashcard(author, nil, "front", "back", "")
	require.NoError(f.t, err)
	require.NoError(f.t, postgres.NewPostgresFlashcardStore(f.tx, nil).Create(f.ctx, card))
	return card
}

func withFixtures(t *testing.T, fn func(f fixtures)) {
	db := testdb.GetTestDBWithT(t)
	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		fn(fixtures{t: t, ctx: context.Background(), tx: tx})
	})
}

func TestReviewStateCompareAndSwap(t *testing.T) {
	t.Parallel()
	withFixtures(t, func(f fixtures) {
		learner := f.user()
		card := f.flashcard(learner.ID)
		states := postgres.NewPostgresReviewStateStore(f.tx, nil)
		now := time.Now().UTC().Truncate(time.Microsecond)

		first, err := domain.NewReviewState(learner.ID, card.ID)
		require.NoError(t, err)
		first.LastReviewedAt, first.NextReviewAt = now, now.AddDate(0, 0, 1)
		require.NoError(t, states.Insert(f.ctx, first))
		assert.Equal(t, 1, first.Version)

		// A second insert for the same pair loses.
		dup, err := domain.NewReviewState(learner.ID, card.ID)
		require.NoError(t, err)
		dup.LastReviewedAt, dup.NextReviewAt = now, now
		assert.ErrorIs(t, states.Insert(f.ctx, dup), store.ErrConflict)

		stored, err := states.Get(f.ctx, learner.ID, card.ID)
		require.NoError(t, err)
		stored.CorrectCount = 1
		stored.Status = domain.StatusLearning
		require.NoError(t, states.Update(f.ctx, stored, 1))
		assert.Equal(t, 2, stored.Version)

		// Writing with the stale version is rejected.
		stale := *first
		stale.IncorrectCount = 1
		assert.ErrorIs(t, states.Update(f.ctx, &stale, 1), store.ErrConflict)

		got, err := states.Get(f.ctx, learner.ID, card.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.CorrectCount)
		assert.Equal(t, 0, got.IncorrectCount)
	})
}

func TestListDueExcludesMastered(t *testing.T) {
	t.Parallel()
	withFixtures(t, func(f fixtures) {
		learner := f.user()
		states := postgres.NewPostgresReviewStateStore(f.tx, nil)
		now := time.Now().UTC()

		insert := func(status domain.MasteryStatus, next time.Time) uuid.UUID {
			card := f.flashcard(learner.ID)
			s, err := domain.NewReviewState(learner.ID, card.ID)
			require.NoError(t, err)
			s.Status = status
			s.LastReviewedAt = next.AddDate(0, 0, -1)
			s.NextReviewAt = next
			require.NoError(t, states.Insert(f.ctx, s))
			return card.ID
		}

		later := insert(domain.StatusLearning, now.Add(-time.Hour))
		earliest := insert(domain.StatusReviewing, now.Add(-48*time.Hour))
		insert(domain.StatusMastered, now.Add(-72*time.Hour))
		insert(domain.StatusLearning, now.Add(24*time.Hour))

		due, err := states.ListDue(f.ctx, learner.ID, now, 10)
		require.NoError(t, err)
		require.Len(t, due, 2)
		assert.Equal(t, earliest, due[0].ItemID)
		assert.Equal(t, later, due[1].ItemID)

		limited, err := states.ListDue(f.ctx, learner.ID, now, 1)
		require.NoError(t, err)
		assert.Len(t, limited, 1)
	})
}

func TestDeletingFlashcardCascadesReviewState(t *testing.T) {
	t.Parallel()
	withFixtures(t, func(f fixtures) {
		learner := f.user()
		card := f.flashcard(learner.ID)
		states := postgres.NewPostgresReviewStateStore(f.tx, nil)

		s, err := domain.NewReviewState(learner.ID, card.ID)
		require.NoError(t, err)
		s.LastReviewedAt, s.NextReviewAt = time.Now(), time.Now()
		require.NoError(t, states.Insert(f.ctx, s))

		require.NoError(t, postgres.NewPostgresFlashcardStore(f.tx, nil).Delete(f.ctx, card.ID))

		_, err = states.Get(f.ctx, learner.ID, card.ID)
		assert.ErrorIs(t, err, store.ErrReviewStateNotFound)
	})
}

func TestLessonProgressNeverRegresses(t *testing.T) {
	t.Parallel()
	withFixtures(t, func(f fixtures) {
		learner := f.user()
		course := f.course(learner.ID)
		lesson := f.lesson(course.ID, 0, true)
		progress := postgres.NewPostgresProgressStore(f.tx, nil)
		now := time.Now().UTC()

		p, err := progress.TouchLesson(f.ctx, learner.ID, course.ID, lesson.ID, now)
		require.NoError(t, err)
		assert.Equal(t, 0, p.PercentComplete)

		p, err = progress.UpsertLesson(f.ctx, learner.ID, course.ID, lesson.ID, 100, now)
		require.NoError(t, err)
		assert.Equal(t, 100, p.PercentComplete)

		p, err = progress.UpsertLesson(f.ctx, learner.ID, course.ID, lesson.ID, 30, now.Add(time.Minute))
		require.NoError(t, err)
		assert.Equal(t, 100, p.PercentComplete)

		// Touching a completed lesson keeps it complete.
		p, err = progress.TouchLesson(f.ctx, learner.ID, course.ID, lesson.ID, now.Add(2*time.Minute))
		require.NoError(t, err)
		assert.Equal(t, 100, p.PercentComplete)
	})
}

func TestCountCompletedLessonsOnlyCountsPublished(t *testing.T) {
	t.Parallel()
	withFixtures(t, func(f fixtures) {
		learner := f.user()
		course := f.course(learner.ID)
		progress := postgres.NewPostgresProgressStore(f.tx, nil)
		lessons := postgres.NewPostgresLessonStore(f.tx, nil)
		now := time.Now().UTC()

		var published []*domain.Lesson
		for i := 0; i < 4; i++ {
			published = append(published, f.lesson(course.ID, i, true))
		}
		draft := f.lesson(course.ID, 4, false)

		for _, l := range published[:3] {
			_, err := progress.UpsertLesson(f.ctx, learner.ID, course.ID, l.ID, 100, now)
			require.NoError(t, err)
		}
		_, err := progress.UpsertLesson(f.ctx, learner.ID, course.ID, draft.ID, 100, now)
		require.NoError(t, err)

		total, err := lessons.CountPublished(f.ctx, course.ID)
		require.NoError(t, err)
		completed, err := progress.CountCompletedLessons(f.ctx, learner.ID, course.ID)
		require.NoError(t, err)
		assert.Equal(t, 4, total)
		assert.Equal(t, 3, completed)

		rows, err := progress.ListLessonProgress(f.ctx, learner.ID, []uuid.UUID{course.ID})
		require.NoError(t, err)
		assert.Len(t, rows, 4)
	})
}

func TestCourseAggregateRowIsSeparateFromLessonRows(t *testing.T) {
	t.Parallel()
	withFixtures(t, func(f fixtures) {
		learner := f.user()
		course := f.course(learner.ID)
		lesson := f.lesson(course.ID, 0, true)
		progress := postgres.NewPostgresProgressStore(f.tx, nil)
		now := time.Now().UTC()

		_, err := progress.UpsertLesson(f.ctx, learner.ID, course.ID, lesson.ID, 100, now)
		require.NoError(t, err)

		agg, err := progress.UpsertCourse(f.ctx, learner.ID, course.ID, 100, now)
		require.NoError(t, err)
		assert.Equal(t, domain.LevelCourse, agg.Level())

		// Recomputing downwards overwrites the aggregate.
		again, err := progress.UpsertCourse(f.ctx, learner.ID, course.ID, 50, now)
		require.NoError(t, err)
		assert.Equal(t, agg.ID, again.ID)
		assert.Equal(t, 50, again.PercentComplete)
	})
}

func TestLearningPathRoundTrip(t *testing.T) {
	t.Parallel()
	withFixtures(t, func(f fixtures) {
		author := f.user()
		a, b := f.course(author.ID), f.course(author.ID)
		paths := postgres.NewPostgresLearningPathStore(f.tx, nil)

		path, err := domain.NewLearningPath(author.ID, "Path", "", []uuid.UUID{b.ID, a.ID})
		require.NoError(t, err)
		require.NoError(t, paths.Create(f.ctx, path))

		got, err := paths.GetByID(f.ctx, path.ID)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{b.ID, a.ID}, got.CourseIDs)

		_, err = paths.GetByID(f.ctx, uuid.New())
		assert.ErrorIs(t, err, store.ErrPathNotFound)
	})
}

func TestUserEmailIsUniqueCaseInsensitively(t *testing.T) {
	t.Parallel()
	withFixtures(t, func(f fixtures) {
		users := postgres.NewPostgresUserStore(f.tx, nil)
		u := f.user()

		dup := *u
		dup.ID = uuid.New()
		dup.Email = strings.ToUpper(u.Email)
		assert.ErrorIs(t, users.Create(f.ctx, &dup), store.ErrEmailExists)

		got, err := users.GetByEmail(f.ctx, u.Email)
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)
	})
}
