package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when a write would violate a unique constraint.
	ErrDuplicate = errors.New("entity already exists")

	// ErrConflict is returned when a compare-and-swap write loses a race:
	// the row changed (or appeared) since it was read.
	ErrConflict = errors.New("concurrent modification")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored, or violates a check or foreign key constraint.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrTransactionFailed is returned when a transaction cannot begin or commit.
	ErrTransactionFailed = errors.New("transaction failed")

	ErrUserNotFound        = fmt.Errorf("%w: user", ErrNotFound)
	ErrCourseNotFound      = fmt.Errorf("%w: course", ErrNotFound)
	ErrLessonNotFound      = fmt.Errorf("%w: lesson", ErrNotFound)
	ErrExerciseNotFound    = fmt.Errorf("%w: exercise", ErrNotFound)
	ErrFlashcardNotFound   = fmt.Errorf("%w: flashcard", ErrNotFound)
	ErrPathNotFound        = fmt.Errorf("%w: learning path", ErrNotFound)
	ErrReviewStateNotFound = fmt.Errorf("%w: review state", ErrNotFound)

	// ErrEmailExists is returned when registering an email that is taken.
	ErrEmailExists = fmt.Errorf("%w: email", ErrDuplicate)
)

// IsNotFoundError reports whether err is ErrNotFound or one of its
// entity-specific forms.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError reports whether err is ErrDuplicate or one of its
// entity-specific forms.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// StoreError adds entity and operation context to a store failure.
type StoreError struct {
	Entity    string // e.g. "lesson"
	Operation string // e.g. "create"
	Message   string
	Err       error
}

func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation on %s failed: %s: %v", e.Operation, e.Entity, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a StoreError.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
