package srs

import (
	"errors"
	"fmt"

	"github.com/phrazzld/lms-api/internal/domain"
)

// ErrInvalidParams is returned by Params.Validate.
var ErrInvalidParams = errors.New("invalid scheduler parameters")

// Params defines all configurable parameters of the scheduler.
type Params struct {
	InitialEaseFactor float64
	MinEaseFactor     float64
	// MaxInterval caps interval growth, in days. Long correct streaks would
	// otherwise overflow the next review time.
	MaxInterval int

	// Ease factor adjustments per outcome
	CorrectEaseDelta   float64
	IncorrectEaseDelta float64

	// Correct-answer counts at which a pair enters each status
	LearningThreshold  int
	ReviewingThreshold int
	MasteredThreshold  int
}

// ParamsConfig allows overriding the default parameters. Zero values keep
// the default.
type ParamsConfig struct {
	InitialEaseFactor  float64
	MinEaseFactor      float64
	MaxInterval        int
	CorrectEaseDelta   float64
	IncorrectEaseDelta float64
	LearningThreshold  int
	ReviewingThreshold int
	MasteredThreshold  int
}

// NewDefaultParams creates a Params instance with default values.
func NewDefaultParams() *Params {
	return &Params{
		InitialEaseFactor:  domain.DefaultEaseFactor,
		MinEaseFactor:      domain.MinEaseFactor,
		MaxInterval:        36500,
		CorrectEaseDelta:   0.1,
		IncorrectEaseDelta: -0.2,
		LearningThreshold:  1,
		ReviewingThreshold: 5,
		MasteredThreshold:  10,
	}
}

// NewParams creates a Params instance with custom configuration.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.InitialEaseFactor > 0 {
		params.InitialEaseFactor = config.InitialEaseFactor
	}
	// The domain floor is a hard invariant; configuration may only raise it.
	if config.MinEaseFactor > params.MinEaseFactor {
		params.MinEaseFactor = config.MinEaseFactor
	}
	if config.MaxInterval > 0 {
		params.MaxInterval = config.MaxInterval
	}
	if config.CorrectEaseDelta > 0 {
		params.CorrectEaseDelta = config.CorrectEaseDelta
	}
	if config.IncorrectEaseDelta < 0 {
		params.IncorrectEaseDelta = config.IncorrectEaseDelta
	}
	if config.LearningThreshold > 0 {
		params.LearningThreshold = config.LearningThreshold
	}
	if config.ReviewingThreshold > 0 {
		params.ReviewingThreshold = config.ReviewingThreshold
	}
	if config.MasteredThreshold > 0 {
		params.MasteredThreshold = config.MasteredThreshold
	}

	return params
}

// Validate rejects parameter sets the scheduler cannot honor: a starting
// ease below the floor, or status thresholds out of order.
func (p Params) Validate() error {
	if p.MinEaseFactor < domain.MinEaseFactor {
		return fmt.Errorf("%w: min ease factor %.2f is below %.2f",
			ErrInvalidParams, p.MinEaseFactor, domain.MinEaseFactor)
	}
	if p.InitialEaseFactor < p.MinEaseFactor {
		return fmt.Errorf("%w: initial ease factor %.2f is below the floor %.2f",
			ErrInvalidParams, p.InitialEaseFactor, p.MinEaseFactor)
	}
	if p.MaxInterval < 1 {
		return fmt.Errorf("%w: max interval must be at least 1 day", ErrInvalidParams)
	}
	if p.LearningThreshold < 1 ||
		p.ReviewingThreshold < p.LearningThreshold ||
		p.MasteredThreshold < p.ReviewingThreshold {
		return fmt.Errorf("%w: thresholds must satisfy 1 <= learning (%d) <= reviewing (%d) <= mastered (%d)",
			ErrInvalidParams, p.LearningThreshold, p.ReviewingThreshold, p.MasteredThreshold)
	}
	return nil
}
