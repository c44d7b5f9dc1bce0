package api

import (
	"context"
	"net/http"

	"github.com/phrazzld/lumen-api/internal/api/shared"
	"github.com/phrazzld/lumen-api/internal/service"
)

// LessonGenerator produces a lesson from a transcript.
type LessonGenerator interface {
	Generate(ctx context.Context, req service.LessonRequest) (*service.Lesson, error)
}

// LessonHandler turns transcripts into lessons.
type LessonHandler struct {
	lessons LessonGenerator
	users   service.UserService
}

// NewLessonHandler creates a new LessonHandler.
func NewLessonHandler(lessons LessonGenerator, users service.UserService) *LessonHandler {
	return &LessonHandler{lessons: lessons, users: users}
}

// Create handles POST /api/lessons.
func (h *LessonHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req LessonRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	user, ok := learnerContext(w, r, h.users, req.UserContext)
	if !ok {
		return
	}

	lesson, err := h.lessons.Generate(r.Context(), service.LessonRequest{
		Transcript: req.Transcript,
		User:       user,
	})
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, lesson)
}
