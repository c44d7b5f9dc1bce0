package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/crypto/bcrypt"

	"github.com/phrazzld/lumen-api/internal/analysis"
	"github.com/phrazzld/lumen-api/internal/config"
	"github.com/phrazzld/lumen-api/internal/content"
	"github.com/phrazzld/lumen-api/internal/events"
	"github.com/phrazzld/lumen-api/internal/generation"
	"github.com/phrazzld/lumen-api/internal/platform/gemini"
	"github.com/phrazzld/lumen-api/internal/platform/metrics"
	"github.com/phrazzld/lumen-api/internal/platform/postgres"
	"github.com/phrazzld/lumen-api/internal/service"
	"github.com/phrazzld/lumen-api/internal/service/auth"
	"github.com/phrazzld/lumen-api/internal/store"
	"github.com/phrazzld/lumen-api/internal/workers"
)

// progressLogHandler writes orchestration progress events to the log.
type progressLogHandler struct {
	logger *slog.Logger
}

// HandleEvent implements events.EventHandler.
func (h *progressLogHandler) HandleEvent(ctx context.Context, event *events.ProgressEvent) error {
	level := slog.LevelDebug
	if event.Error != "" {
		level = slog.LevelWarn
	}

	h.logger.Log(ctx, level, "content progress",
		"run_id", event.RunID,
		"event_type", event.Type,
		"worker", event.Worker,
		"elapsed", event.Elapsed,
		"error", event.Error)
	return nil
}

// dependencies are the external collaborators of the application. They are
// separated so tests can build an application without Postgres or Gemini.
type dependencies struct {
	userStore        store.UserStore
	generator        generation.Generator
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
}

// application holds the shared dependencies and ensures cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	registry *prometheus.Registry
	metrics  *metrics.Recorder

	jwtService    auth.JWTService
	userService   service.UserService
	runner        service.ContentRunner
	lessonService *service.LessonService
}

// newApplication connects the production collaborators and assembles the
// application.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	generator, err := gemini.NewGenerator(ctx, logger.With("component", "llm_generator"), cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM generator: %w", err)
	}
	logger.Info("LLM generator initialized", "model", cfg.LLM.ModelName)

	return assembleApplication(cfg, logger, db, dependencies{
		userStore:        postgres.NewPostgresUserStore(db, logger),
		generator:        generator,
		jwtService:       jwtService,
		passwordVerifier: auth.NewBcryptVerifier(bcrypt.DefaultCost),
	})
}

// assembleApplication wires workers, orchestrator, metrics and services.
func assembleApplication(
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
	deps dependencies,
) (*application, error) {
	app := &application{
		config:     cfg,
		logger:     logger,
		db:         db,
		registry:   prometheus.NewRegistry(),
		jwtService: deps.jwtService,
	}

	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var err error
	app.metrics, err = metrics.NewRecorder(app.registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics recorder: %w", err)
	}

	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(app.metrics)
	emitter.RegisterHandler(&progressLogHandler{logger: logger.With("component", "content_progress")})

	registry, err := workers.NewRegistry(deps.generator, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker registry: %w", err)
	}

	orchestrator, err := content.NewOrchestrator(registry, logger,
		content.WithDeadline(cfg.Orchestrator.Deadline()),
		content.WithEmitter(emitter))
	if err != nil {
		return nil, fmt.Errorf("failed to create orchestrator: %w", err)
	}
	app.runner = orchestrator

	analyzer, err := analysis.NewLLMAnalyzer(deps.generator, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create transcript analyzer: %w", err)
	}

	app.userService = service.NewUserService(deps.userStore, db, deps.jwtService, deps.passwordVerifier, logger)
	app.lessonService = service.NewLessonService(analyzer, orchestrator, logger,
		service.WithAnalysisTimeout(cfg.Orchestrator.AnalysisTimeout()))

	logger.Info("Application initialized successfully",
		"workers", registry.Len(),
		"deadline", orchestrator.Deadline())
	return app, nil
}

// Run serves HTTP until ctx is cancelled or a shutdown signal arrives.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
