package main

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	t.Parallel()

	author, course := uuid.New(), uuid.New()

	t.Run("all flags", func(t *testing.T) {
		t.Parallel()
		opts, err := parseFlags([]string{
			"-file", "deck.xlsx", "-sheet", "Go", "-start-row", "3",
			"-author", author.String(), "-course", course.String(),
		})

		require.NoError(t, err)
		assert.Equal(t, "deck.xlsx", opts.file)
		assert.Equal(t, "Go", opts.cfg.Sheet)
		assert.Equal(t, 3, opts.cfg.StartRow)
		assert.Equal(t, "A", opts.cfg.FrontColumn)
		assert.Equal(t, author, opts.authorID)
		require.NotNil(t, opts.courseID)
		assert.Equal(t, course, *opts.courseID)
	})

	t.Run("course is optional", func(t *testing.T) {
		t.Parallel()
		opts, err := parseFlags([]string{"-file", "deck.xlsx", "-author", author.String()})

		require.NoError(t, err)
		assert.Nil(t, opts.courseID)
		assert.Equal(t, "Sheet1", opts.cfg.Sheet)
	})

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "no file", args: []string{"-author", author.String()}, wantErr: "-file is required"},
		{name: "no author", args: []string{"-file", "deck.xlsx"}, wantErr: "-author must be a uuid"},
		{name: "bad course", args: []string{"-file", "d.xlsx", "-author", author.String(), "-course", "x"}, wantErr: "-course must be a uuid"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := parseFlags(tc.args)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}
