package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/phrazzld/lumen-api/internal/api"
	apiMiddleware "github.com/phrazzld/lumen-api/internal/api/middleware"
	"github.com/phrazzld/lumen-api/internal/api/shared"
)

const healthCheckTimeout = 2 * time.Second

// setupRouter creates the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(app.metrics.Middleware)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   app.config.Server.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", apiMiddleware.APIKeyHeader},
		ExposedHeaders:   []string{apiMiddleware.TraceIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authHandler := api.NewAuthHandler(app.userService)
	userHandler := api.NewUserHandler(app.userService)
	contentHandler := api.NewContentHandler(app.runner, app.userService)
	lessonHandler := api.NewLessonHandler(app.lessonService, app.userService)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Get("/", app.handleRoot)
	r.Get("/health", app.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Use(apiMiddleware.RequireAPIKey(app.config.Server.APIKey))

		r.Post("/auth/signup", authHandler.Signup)
		r.Post("/auth/signin", authHandler.Signin)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Get("/users/me", userHandler.Me)
			r.Put("/users/me/preferences", userHandler.UpdatePreferences)
		})

		// Content routes work anonymously; a bearer token adds the stored
		// profile to the learner context.
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.OptionalAuthenticate)
			r.Get("/content/info", contentHandler.Info)
			r.Post("/content/generate", contentHandler.Generate)
			r.Post("/content/{worker}", contentHandler.RunWorker)
			r.Post("/lessons", lessonHandler.Create)
		})
	})

	return r
}

func (app *application) handleRoot(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, map[string]any{
		"message": "Lumen API",
		"status":  "running",
		"workers": app.runner.Info().AvailableAgents,
	})
}

// handleHealth reports liveness and, when a database is configured, whether
// it answers a ping.
func (app *application) handleHealth(w http.ResponseWriter, r *http.Request) {
	if app.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		if err := app.db.PingContext(ctx); err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable, "Database unavailable", err)
			return
		}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "healthy"})
}
