// Package main runs the Lumen API server: learner accounts, transcript
// analysis and concurrent content generation over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/phrazzld/lumen-api/internal/config"
	"github.com/phrazzld/lumen-api/internal/platform/logger"
	"github.com/phrazzld/lumen-api/internal/platform/postgres"
	"github.com/phrazzld/lumen-api/internal/redact"
)

func main() {
	migrateCmd := flag.String("migrate", "",
		"run a migration command (up, down, reset, status, version) and exit")
	flag.Parse()

	if err := run(context.Background(), *migrateCmd); err != nil {
		slog.Error("Lumen API exited with error", "error", redact.Error(err))
		os.Exit(1)
	}
}

// run loads configuration, connects to the database and either applies a
// migration command or serves HTTP until shutdown.
func run(ctx context.Context, migrateCmd string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	db, err := postgres.Open(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connection established")

	if migrateCmd != "" {
		defer func() { _ = db.Close() }()
		log.Info("Executing migrations", "command", migrateCmd)
		return postgres.Migrate(ctx, db, migrateCmd, log)
	}

	app, err := newApplication(ctx, cfg, log, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}

// loadAppConfig loads configuration from the environment, .env and
// config.yaml.
func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"api_key_required", cfg.Server.APIKey != "",
		"deadline", cfg.Orchestrator.Deadline(),
		"analysis_timeout", cfg.Orchestrator.AnalysisTimeout())

	if cfg.Server.APIKey == "" {
		slog.Warn("API key check disabled: /api routes accept requests without X-API-Key",
			"allow_missing_api_key", cfg.Server.AllowMissingAPIKey)
	}

	return cfg, nil
}
