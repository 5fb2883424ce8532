package srs

import (
	"errors"
	"time"

	"github.com/phrazzld/lms-api/internal/domain"
)

// ErrNilState is returned when Apply is called without a state. Callers get
// the defaults through get-or-create first.
var ErrNilState = errors.New("review state cannot be nil")

// Service defines the scheduler operations.
type Service interface {
	// Apply computes the state that follows one answer. The input is never
	// modified.
	Apply(state *domain.ReviewState, isCorrect bool, now time.Time) (*domain.ReviewState, error)

	// Params returns the parameters the service schedules with.
	Params() Params
}

type defaultService struct {
	params *Params
}

// NewDefaultService creates a scheduler with default parameters.
func NewDefaultService() Service {
	return &defaultService{params: NewDefaultParams()}
}

// NewServiceWithParams creates a scheduler with custom parameters.
func NewServiceWithParams(params *Params) Service {
	if params == nil {
		params = NewDefaultParams()
	}
	return &defaultService{params: params}
}

func (s *defaultService) Apply(
	state *domain.ReviewState,
	isCorrect bool,
	now time.Time,
) (*domain.ReviewState, error) {
	if state == nil {
		return nil, ErrNilState
	}
	return calculateNextState(state, isCorrect, now, s.params), nil
}

func (s *defaultService) Params() Params {
	return *s.params
}
