package srs

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/lms-api/internal/domain"
)

var reviewTime = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

func newState(t *testing.T) *domain.ReviewState {
	t.Helper()
	s, err := domain.NewReviewState(uuid.New(), uuid.New())
	require.NoError(t, err)
	return s
}

func TestApplyNilState(t *testing.T) {
	t.Parallel()
	_, err := NewDefaultService().Apply(nil, true, reviewTime)
	assert.ErrorIs(t, err, ErrNilState)
}

func TestApplyFirstCorrectAnswer(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()
	state := newState(t)

	next, err := svc.Apply(state, true, reviewTime)
	require.NoError(t, err)

	assert.Equal(t, 1, next.CorrectCount)
	assert.Equal(t, 0, next.IncorrectCount)
	assert.Equal(t, domain.StatusLearning, next.Status)
	assert.InDelta(t, 2.6, next.EaseFactor, 1e-9)
	assert.Equal(t, 3, next.Interval)
	assert.Equal(t, reviewTime, next.LastReviewedAt)
	assert.Equal(t, reviewTime.AddDate(0, 0, 3), next.NextReviewAt)
	assert.Equal(t, reviewTime, next.UpdatedAt)
}

func TestApplyIncorrectDemotesMastered(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()
	state := newState(t)
	state.Status = domain.StatusMastered
	state.CorrectCount = 12
	state.EaseFactor = 2.8
	state.Interval = 40

	next, err := svc.Apply(state, false, reviewTime)
	require.NoError(t, err)

	assert.Equal(t, 1, next.IncorrectCount)
	assert.Equal(t, 12, next.CorrectCount)
	assert.InDelta(t, 2.6, next.EaseFactor, 1e-9)
	assert.Equal(t, 1, next.Interval)
	assert.Equal(t, domain.StatusReviewing, next.Status)
	assert.Equal(t, reviewTime.Add(24*time.Hour), next.NextReviewAt)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	t.Parallel()
	state := newState(t)
	before := *state

	next, err := NewDefaultService().Apply(state, true, reviewTime)
	require.NoError(t, err)

	assert.Equal(t, before, *state)
	assert.NotSame(t, state, next)
}

func TestApplyStatusThresholds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		startCount int
		startState domain.MasteryStatus
		want       domain.MasteryStatus
	}{
		{"fifth correct answer reaches reviewing", 4, domain.StatusLearning, domain.StatusReviewing},
		{"tenth correct answer reaches mastered", 9, domain.StatusReviewing, domain.StatusMastered},
		{"demoted pair stays reviewing below mastered threshold", 6, domain.StatusReviewing, domain.StatusReviewing},
		{"demoted mastered pair is promoted back", 12, domain.StatusReviewing, domain.StatusMastered},
		{"status never lowered by a correct answer", 2, domain.StatusReviewing, domain.StatusReviewing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			state := newState(t)
			state.CorrectCount = tt.startCount
			state.Status = tt.startState

			next, err := NewDefaultService().Apply(state, true, reviewTime)
			require.NoError(t, err)
			assert.Equal(t, tt.want, next.Status)
		})
	}
}

func TestApplyIncorrectKeepsNonMasteredStatus(t *testing.T) {
	t.Parallel()
	for _, st := range []domain.MasteryStatus{domain.StatusNew, domain.StatusLearning, domain.StatusReviewing} {
		state := newState(t)
		state.Status = st

		next, err := NewDefaultService().Apply(state, false, reviewTime)
		require.NoError(t, err)
		assert.Equal(t, st, next.Status)
	}
}

func TestApplyEaseFactorFloor(t *testing.T) {
	t.Parallel()
	state := newState(t)
	state.EaseFactor = 1.4

	next, err := NewDefaultService().Apply(state, false, reviewTime)
	require.NoError(t, err)
	assert.Equal(t, 1.3, next.EaseFactor)

	next, err = NewDefaultService().Apply(next, false, reviewTime)
	require.NoError(t, err)
	assert.Equal(t, 1.3, next.EaseFactor)
}

// Random answer sequences must preserve the scheduler's invariants.
func TestApplyInvariantsOverRandomSequences(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 200; run++ {
		state := newState(t)
		now := reviewTime

		for step := 0; step < 60; step++ {
			correct := rng.Intn(3) > 0
			next, err := svc.Apply(state, correct, now)
			require.NoError(t, err)

			require.GreaterOrEqual(t, next.EaseFactor, 1.3)
			require.GreaterOrEqual(t, next.Interval, 1)
			require.Equal(t, next.LastReviewedAt.AddDate(0, 0, next.Interval), next.NextReviewAt)
			require.GreaterOrEqual(t, next.CorrectCount, state.CorrectCount)
			require.GreaterOrEqual(t, next.IncorrectCount, state.IncorrectCount)
			require.NoError(t, next.Validate())

			if correct {
				require.GreaterOrEqual(t, next.Status.Rank(), state.Status.Rank())
			} else {
				require.Equal(t, 1, next.Interval)
				require.LessOrEqual(t, next.EaseFactor, state.EaseFactor)
				if state.Status != domain.StatusMastered {
					require.Equal(t, state.Status, next.Status)
				}
			}

			state = next
			now = next.NextReviewAt
		}
	}
}

func TestApplyCapsInterval(t *testing.T) {
	t.Parallel()
	state := newState(t)
	state.Status = domain.StatusMastered
	state.CorrectCount = 40
	state.EaseFactor = 4
	state.Interval = 30000

	next, err := NewDefaultService().Apply(state, true, reviewTime)
	require.NoError(t, err)
	assert.Equal(t, 36500, next.Interval)
}

func TestApplyClampsOutOfBoundsStoredState(t *testing.T) {
	t.Parallel()
	state := newState(t)
	state.EaseFactor = 1.0
	state.Interval = 0

	next, err := NewDefaultService().Apply(state, true, reviewTime)
	require.NoError(t, err)
	assert.InDelta(t, 1.4, next.EaseFactor, 1e-9)
	assert.Equal(t, 1, next.Interval)
}
