package importer

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/phrazzld/lms-api/internal/domain"
	"github.com/phrazzld/lms-api/internal/platform/logger"
	"github.com/phrazzld/lms-api/internal/store"
)

// RowError explains why a row was skipped.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// Result summarises an import.
type Result struct {
	Processed int        `json:"processed"`
	Created   int        `json:"created"`
	Skipped   int        `json:"skipped"`
	Errors    []RowError `json:"errors,omitempty"`
}

func (r *Result) skip(row int, reason string) {
	r.Skipped++
	r.Errors = append(r.Errors, RowError{Row: row, Reason: reason})
}

// Importer creates flashcards from spreadsheet rows.
type Importer struct {
	db      store.TxBeginner
	cards   store.FlashcardStore
	courses store.CourseStore
	logger  *slog.Logger
}

// New creates an Importer.
func New(db store.TxBeginner, cards store.FlashcardStore, courses store.CourseStore, logger *slog.Logger) *Importer {
	if db == nil || cards == nil || courses == nil {
		panic("importer dependencies cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{
		db:      db,
		cards:   cards,
		courses: courses,
		logger:  logger.With(slog.String("component", "flashcard_importer")),
	}
}

// Import stores one flashcard per valid row, authored by authorID and
// optionally attached to courseID. Invalid rows and rows repeating an
// earlier front are skipped and reported. Every card is written in one
// transaction, so a store failure leaves nothing behind.
func (im *Importer) Import(
	ctx context.Context,
	rows []Row,
	authorID uuid.UUID,
	courseID *uuid.UUID,
) (*Result, error) {
	log := logger.FromContextOrDefault(ctx, im.logger)

	if authorID == uuid.Nil {
		return nil, domain.NewValidationError("author_id", "cannot be empty")
	}

	result := &Result{}
	err := store.RunInTransaction(ctx, im.db, func(ctx context.Context, tx *sql.Tx) error {
		if courseID != nil {
			if _, err := im.courses.WithTx(tx).GetByID(ctx, *courseID); err != nil {
				return err
			}
		}

		cards := im.cards.WithTx(tx)
		seen := make(map[string]int, len(rows))
		for _, row := range rows {
			result.Processed++

			key := strings.ToLower(strings.TrimSpace(row.Front))
			if first, dup := seen[key]; dup && key != "" {
				result.skip(row.Number, fmt.Sprintf("duplicate of row %d", first))
				continue
			}

			card, err := domain.NewFlashcard(authorID, courseID, row.Front, row.Back, row.Hint)
			if err != nil {
				result.skip(row.Number, err.Error())
				continue
			}
			if err := cards.Create(ctx, card); err != nil {
				return fmt.Errorf("row %d: %w", row.Number, err)
			}
			seen[key] = row.Number
			result.Created++
		}
		return nil
	})
	if err != nil {
		log.Error("flashcard import failed", slog.String("error", err.Error()))
		return nil, err
	}

	log.Info("flashcards imported",
		slog.Int("processed", result.Processed),
		slog.Int("created", result.Created),
		slog.Int("skipped", result.Skipped))
	return result, nil
}
