package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/lumen-api/internal/api/shared"
	"github.com/phrazzld/lumen-api/internal/content"
	"github.com/phrazzld/lumen-api/internal/service"
)

// decodeRequest decodes and validates the body into v, writing a 400
// response and returning false on failure.
func decodeRequest(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := shared.DecodeJSON(w, r, v); err != nil {
		if errors.Is(err, shared.ErrEmptyBody) {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Request body is required")
			return false
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return false
	}

	if err := shared.ValidateRequest(v); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return false
	}

	return true
}

// learnerContext merges the authenticated user's profile, if any, under the
// supplied user context. It writes an error response and returns false when
// the profile cannot be loaded.
func learnerContext(
	w http.ResponseWriter,
	r *http.Request,
	users service.UserService,
	supplied content.UserContext,
) (content.UserContext, bool) {
	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		return service.MergeUserContext(nil, supplied), true
	}

	profile, err := users.GetUser(r.Context(), userID)
	if err != nil {
		respondWithServiceError(w, r, err)
		return nil, false
	}

	return service.MergeUserContext(profile, supplied), true
}
