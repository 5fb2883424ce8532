package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"valid", "Learner@Example.com", "correct-horse-battery", nil},
		{"empty email", "", "correct-horse-battery", ErrEmptyEmail},
		{"bad email", "not-an-email", "correct-horse-battery", ErrInvalidEmail},
		{"display name email", "Bob <bob@example.com>", "correct-horse-battery", ErrInvalidEmail},
		{"short password", "a@example.com", "short", ErrPasswordTooShort},
		{"long password", "a@example.com", strings.Repeat("p", 73), ErrPasswordTooLong},
		{"no password", "a@example.com", "", ErrEmptyPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := NewUser(tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "learner@example.com", u.Email)
		})
	}
}
