package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/phrazzld/lumen-api/internal/api/shared"
	"github.com/phrazzld/lumen-api/internal/content"
	"github.com/phrazzld/lumen-api/internal/platform/logger"
	"github.com/phrazzld/lumen-api/internal/service"
)

// ContentHandler exposes the orchestrator.
type ContentHandler struct {
	runner service.ContentRunner
	users  service.UserService
}

// NewContentHandler creates a new ContentHandler.
func NewContentHandler(runner service.ContentRunner, users service.UserService) *ContentHandler {
	return &ContentHandler{runner: runner, users: users}
}

// Info handles GET /api/content/info.
func (h *ContentHandler) Info(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, h.runner.Info())
}

// Generate handles POST /api/content/generate. Worker failures do not fail
// the request; they are reported in the result with fallback content.
func (h *ContentHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateContentRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	orders, err := content.DecodeWorkOrders(req.WorkOrders)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	user, ok := learnerContext(w, r, h.users, req.UserContext)
	if !ok {
		return
	}

	result := h.runner.Run(r.Context(), orders, req.Analysis, user)

	logger.FromContext(r.Context()).Info("content generated",
		"run_id", result.RunID,
		"succeeded", result.Summary.Succeeded,
		"failed", result.Summary.Failed)

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// RunWorker handles POST /api/content/{worker}.
func (h *ContentHandler) RunWorker(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "worker")

	var req RunWorkerRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	user, ok := learnerContext(w, r, h.users, req.UserContext)
	if !ok {
		return
	}

	order := req.WorkOrder
	if order == nil {
		order = content.WorkOrder{}
	}

	outcome, err := h.runner.RunOne(r.Context(), name, order, req.Analysis, user)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, RunWorkerResponse{Agent: name, Result: outcome})
}
