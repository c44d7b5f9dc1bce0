package api

import (
	"net/http"

	"github.com/phrazzld/lumen-api/internal/api/shared"
	"github.com/phrazzld/lumen-api/internal/service"
)

// AuthHandler handles signup and signin.
type AuthHandler struct {
	users service.UserService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users service.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

// Signup handles POST /api/auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	res, err := h.users.Signup(r.Context(), service.SignupRequest{
		Profile:         req.profile(),
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, authResponse(res))
}

// Signin handles POST /api/auth/signin.
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req SigninRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	res, err := h.users.Signin(r.Context(), req.Username, req.Password)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, authResponse(res))
}

func authResponse(res *service.AuthResult) AuthResponse {
	return AuthResponse{
		AccessToken: res.Token,
		TokenType:   "bearer",
		User:        res.User,
	}
}
