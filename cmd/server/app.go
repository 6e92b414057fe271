package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fluentia/fluentia-api/internal/config"
	"github.com/fluentia/fluentia-api/internal/domain"
	"github.com/fluentia/fluentia-api/internal/domain/srs"
	"github.com/fluentia/fluentia-api/internal/generation"
	"github.com/fluentia/fluentia-api/internal/platform/clock"
	"github.com/fluentia/fluentia-api/internal/platform/gemini"
	"github.com/fluentia/fluentia-api/internal/platform/postgres"
	"github.com/fluentia/fluentia-api/internal/service/auth"
	"github.com/fluentia/fluentia-api/internal/service/progress"
	"github.com/fluentia/fluentia-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config

	logger *slog.Logger
	db     *sql.DB
	clock  clock.Clock

	// Stores (using interfaces for proper abstraction)
	userStore       store.UserStore
	enrollmentStore store.EnrollmentStore
	catalogStore    store.CatalogStore

	// Service interfaces
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	srsService       srs.Service
	feedback         generation.FeedbackGenerator
	progressService  progress.ProgressService
}

// newApplication creates a new application instance with all
// dependencies initialized. It accepts core dependencies like
// configuration, logger, and database connection that must be
// established before application initialization.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
		clock:  clock.New(time.Duration(cfg.Progress.DayBoundaryOffsetHours) * time.Hour),
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordVerifier = auth.NewBcryptVerifier()

	app.userStore = postgres.NewPostgresUserStore(db, logger, cfg.Auth.BcryptCost)
	app.enrollmentStore = postgres.NewPostgresEnrollmentStore(db, logger)
	app.catalogStore = postgres.NewPostgresCatalogStore(db, logger)

	app.srsService = srs.NewServiceWithParams(srs.NewParams(srs.ParamsConfig{
		Ladder:           cfg.Progress.ReviewLadder,
		MasteryThreshold: cfg.Progress.MasteryThreshold,
	}))

	// The feedback generator is optional. Without an API key the
	// progress service falls back to canned assessment feedback.
	if cfg.LLM.GeminiAPIKey != "" {
		app.feedback, err = gemini.NewFeedbackGenerator(
			ctx,
			logger.With("component", "feedback_generator"),
			cfg.LLM,
		)
		if err != nil {
			if errors.Is(err, generation.ErrInvalidConfig) {
				return nil, fmt.Errorf("failed to initialize feedback generator: %w", err)
			}
			return nil, fmt.Errorf("failed to create feedback generator: %w", err)
		}
		logger.Info("Assessment feedback generator initialized", "model", cfg.LLM.ModelName)
	} else {
		logger.Info("No Gemini API key configured, using static assessment feedback")
	}

	app.progressService = progress.NewProgressService(
		db,
		app.enrollmentStore,
		app.catalogStore,
		app.srsService,
		app.feedback,
		app.clock,
		domain.ProgressPolicy{PassThreshold: cfg.Progress.PassThreshold},
		logger,
	)

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
