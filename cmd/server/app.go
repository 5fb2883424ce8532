package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/phrazzld/lms-api/internal/api"
	apiMiddleware "github.com/phrazzld/lms-api/internal/api/middleware"
	"github.com/phrazzld/lms-api/internal/config"
	"github.com/phrazzld/lms-api/internal/domain/srs"
	"github.com/phrazzld/lms-api/internal/platform/cache"
	"github.com/phrazzld/lms-api/internal/platform/postgres"
	"github.com/phrazzld/lms-api/internal/service"
	"github.com/phrazzld/lms-api/internal/service/auth"
	"github.com/phrazzld/lms-api/internal/service/progress"
	"github.com/phrazzld/lms-api/internal/service/review"
)

// application holds the process-wide dependencies so they can be closed on
// shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB
	redis  *redis.Client

	handlers handlers
}

// newApplication builds stores, services and handlers on top of an open
// database. Redis is only dialled when a URL is configured.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))

	var tokens auth.RefreshTokenStore
	if cfg.Redis.URL != "" {
		app.redis, err = cache.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		tokens = cache.NewRedisTokenStore(app.redis, logger)
		logger.Info("refresh token allowlist enabled")
	}

	users := postgres.NewPostgresUserStore(db, logger)
	courses := postgres.NewPostgresCourseStore(db, logger)
	lessons := postgres.NewPostgresLessonStore(db, logger)
	exercises := postgres.NewPostgresExerciseStore(db, logger)
	paths := postgres.NewPostgresLearningPathStore(db, logger)
	enrollments := postgres.NewPostgresEnrollmentStore(db, logger)
	progressRows := postgres.NewPostgresProgressStore(db, logger)
	flashcards := postgres.NewPostgresFlashcardStore(db, logger)
	reviewStates := postgres.NewPostgresReviewStateStore(db, logger)

	// Config holds the decrease as a positive size; the scheduler wants the signed delta.
	params := srs.NewParams(srs.ParamsConfig{
		InitialEaseFactor:  cfg.SRS.InitialEaseFactor,
		MinEaseFactor:      cfg.SRS.MinEaseFactor,
		MaxInterval:        cfg.SRS.MaxIntervalDays,
		CorrectEaseDelta:   cfg.SRS.CorrectEaseDelta,
		IncorrectEaseDelta: -cfg.SRS.IncorrectEaseDelta,
		LearningThreshold:  cfg.SRS.LearningThreshold,
		ReviewingThreshold: cfg.SRS.ReviewingThreshold,
		MasteredThreshold:  cfg.SRS.MasteredThreshold,
	})
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid srs configuration: %w", err)
	}
	scheduler := srs.NewServiceWithParams(params)

	userService := service.NewUserService(db, users, auth.NewBcryptHasher(cfg.Auth.BCryptCost), logger)
	sessionService := service.NewSessionService(jwtService, tokens, logger)
	catalogService := service.NewCatalogService(db, service.CatalogStores{
		Courses:     courses,
		Lessons:     lessons,
		Exercises:   exercises,
		Paths:       paths,
		Enrollments: enrollments,
	}, logger)
	flashcardService := service.NewFlashcardService(flashcards, courses, logger)
	reviewService := review.NewService(db, flashcards, reviewStates, scheduler, logger,
		review.WithLimits(review.Limits{
			DefaultDue: cfg.Reviews.DefaultDueLimit,
			MaxDue:     cfg.Reviews.MaxDueLimit,
		}))
	progressService := progress.NewService(db, progress.Stores{
		Courses:     courses,
		Lessons:     lessons,
		Exercises:   exercises,
		Enrollments: enrollments,
		Paths:       paths,
		Progress:    progressRows,
	}, logger)

	app.handlers = handlers{
		auth:       api.NewAuthHandler(userService, sessionService, logger),
		catalog:    api.NewCatalogHandler(catalogService, logger),
		progress:   api.NewProgressHandler(progressService, logger),
		flashcards: api.NewFlashcardHandler(flashcardService, reviewService, logger),
		authMW:     apiMiddleware.NewAuthMiddleware(jwtService),
	}

	logger.Info("application initialized")
	return app, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down and releases
// resources.
func (app *application) Run(ctx context.Context) error {
	router := newRouter(app.handlers, app.config.Server, app.logger)
	defer app.cleanup()

	if err := app.serveHTTP(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func (app *application) cleanup() {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis client", slog.String("error", err.Error()))
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}
	app.logger.Info("application shutdown completed")
}
