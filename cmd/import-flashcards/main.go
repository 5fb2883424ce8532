// Command import-flashcards loads flashcards from an .xlsx workbook.
//
//	import-flashcards -file deck.xlsx -sheet Sheet1 -author <uuid> [-course <uuid>]
//
// Front, back and hint are read from columns A, B and C below a header row.
// All cards are stored in one transaction; rows that fail validation are
// skipped and listed.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver

	"github.com/phrazzld/lms-api/internal/config"
	"github.com/phrazzld/lms-api/internal/importer"
	"github.com/phrazzld/lms-api/internal/platform/logger"
	"github.com/phrazzld/lms-api/internal/platform/postgres"
)

type options struct {
	file     string
	cfg      importer.Config
	authorID uuid.UUID
	courseID *uuid.UUID
}

func parseFlags(args []string) (*options, error) {
	fs := flag.NewFlagSet("import-flashcards", flag.ContinueOnError)
	defaults := importer.DefaultConfig()

	opts := &options{cfg: defaults}
	var author, course string
	fs.StringVar(&opts.file, "file", "", "path to the .xlsx workbook")
	fs.StringVar(&opts.cfg.Sheet, "sheet", defaults.Sheet, "sheet name; empty means the active sheet")
	fs.IntVar(&opts.cfg.StartRow, "start-row", defaults.StartRow, "first data row, 1-based")
	fs.StringVar(&author, "author", "", "author user id")
	fs.StringVar(&course, "course", "", "course id to attach the cards to (optional)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if opts.file == "" {
		return nil, errors.New("-file is required")
	}
	id, err := uuid.Parse(author)
	if err != nil {
		return nil, fmt.Errorf("-author must be a uuid: %w", err)
	}
	opts.authorID = id
	if course != "" {
		id, err := uuid.Parse(course)
		if err != nil {
			return nil, fmt.Errorf("-course must be a uuid: %w", err)
		}
		opts.courseID = &id
	}
	return opts, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatalf("import-flashcards: %v", err)
	}
	if err := run(opts); err != nil {
		log.Fatalf("import-flashcards: %v", err)
	}
}

func run(opts *options) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	f, err := os.Open(opts.file)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	rows, err := importer.ReadRows(f, opts.cfg)
	if err != nil {
		return err
	}
	l.Info("workbook read", slog.String("file", opts.file), slog.Int("rows", len(rows)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	defer func() { _ = db.Close() }()
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	im := importer.New(db,
		postgres.NewPostgresFlashcardStore(db, l),
		postgres.NewPostgresCourseStore(db, l),
		l)
	result, err := im.Import(ctx, rows, opts.authorID, opts.courseID)
	if err != nil {
		return err
	}

	fmt.Printf("processed %d rows: %d created, %d skipped\n", result.Processed, result.Created, result.Skipped)
	for _, rowErr := range result.Errors {
		fmt.Printf("  row %d: %s\n", rowErr.Row, rowErr.Reason)
	}
	return nil
}
