package srs

import (
	"math"
	"time"

	"github.com/phrazzld/lms-api/internal/domain"
)

// StatusForCorrectCount maps a correct-answer count to the status it
// qualifies for. Counts below the learning threshold qualify for new.
func StatusForCorrectCount(correct int, params *Params) domain.MasteryStatus {
	switch {
	case correct >= params.MasteredThreshold:
		return domain.StatusMastered
	case correct >= params.ReviewingThreshold:
		return domain.StatusReviewing
	case correct >= params.LearningThreshold:
		return domain.StatusLearning
	default:
		return domain.StatusNew
	}
}

// promote returns the higher of the two statuses. Correct answers never
// lower a status.
func promote(current, earned domain.MasteryStatus) domain.MasteryStatus {
	if earned.Rank() > current.Rank() {
		return earned
	}
	return current
}

func clampEase(ef float64, params *Params) float64 {
	return math.Max(params.MinEaseFactor, ef)
}

// nextInterval grows the interval by the ease factor, rounding half away
// from zero. An interval is never shorter than a day.
func nextInterval(interval int, easeFactor float64, params *Params) int {
	grown := math.Round(float64(interval) * easeFactor)
	if grown > float64(params.MaxInterval) {
		return params.MaxInterval
	}
	return max(1, int(grown))
}

// applyCorrect updates next for a correct answer.
func applyCorrect(next *domain.ReviewState, params *Params) {
	next.CorrectCount++
	next.Status = promote(next.Status, StatusForCorrectCount(next.CorrectCount, params))

	// Status cannot be new after an increment, so in practice the ease and
	// interval are always updated here.
	if next.Status != domain.StatusNew {
		next.EaseFactor = clampEase(next.EaseFactor+params.CorrectEaseDelta, params)
		next.Interval = nextInterval(next.Interval, next.EaseFactor, params)
	}
}

// applyIncorrect updates next for an incorrect answer.
func applyIncorrect(next *domain.ReviewState, params *Params) {
	next.IncorrectCount++
	next.EaseFactor = clampEase(next.EaseFactor+params.IncorrectEaseDelta, params)
	next.Interval = 1
	if next.Status == domain.StatusMastered {
		next.Status = domain.StatusReviewing
	}
}

// calculateNextState is the pure update rule. It works on a copy and leaves
// state untouched.
func calculateNextState(
	state *domain.ReviewState,
	isCorrect bool,
	now time.Time,
	params *Params,
) *domain.ReviewState {
	next := *state

	// Rows written before a parameter change may sit outside the bounds.
	next.EaseFactor = clampEase(next.EaseFactor, params)
	next.Interval = max(1, next.Interval)

	if isCorrect {
		applyCorrect(&next, params)
	} else {
		applyIncorrect(&next, params)
	}

	next.LastReviewedAt = now
	next.NextReviewAt = now.AddDate(0, 0, next.Interval)
	next.UpdatedAt = now

	return &next
}
