package api

import (
	"encoding/json"

	"github.com/phrazzld/lumen-api/internal/content"
	"github.com/phrazzld/lumen-api/internal/domain"
)

// SignupRequest defines the payload for the signup endpoint.
type SignupRequest struct {
	Name               string   `json:"name"               validate:"required"`
	Username           string   `json:"username"           validate:"required,min=3,max=64"`
	Password           string   `json:"password"           validate:"required,min=12,max=72"`
	ConfirmPassword    string   `json:"confirmPassword"    validate:"required"`
	Age                int      `json:"age"                validate:"required,gte=5,lte=120"`
	AcademicLevel      string   `json:"academicLevel"`
	Major              string   `json:"major"`
	DyslexiaSupport    bool     `json:"dyslexiaSupport"`
	LanguagePreference string   `json:"languagePreference"`
	LearningStyles     []string `json:"learningStyles"`
}

func (r SignupRequest) profile() domain.User {
	return domain.User{
		Name:               r.Name,
		Username:           r.Username,
		Age:                r.Age,
		AcademicLevel:      r.AcademicLevel,
		Major:              r.Major,
		DyslexiaSupport:    r.DyslexiaSupport,
		LanguagePreference: r.LanguagePreference,
		LearningStyles:     r.LearningStyles,
	}
}

// SigninRequest defines the payload for the signin endpoint.
type SigninRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by signup and signin.
type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        *domain.User `json:"user"`
}

// GenerateContentRequest runs the orchestrator on caller-supplied work
// orders. WorkOrders stays raw so its shape can be checked separately.
type GenerateContentRequest struct {
	WorkOrders  json.RawMessage         `json:"work_orders"`
	Analysis    content.AnalysisContext `json:"analysis"`
	UserContext content.UserContext     `json:"user_context"`
}

// RunWorkerRequest runs a single named worker.
type RunWorkerRequest struct {
	WorkOrder   content.WorkOrder       `json:"work_order"`
	Analysis    content.AnalysisContext `json:"analysis"`
	UserContext content.UserContext     `json:"user_context"`
}

// RunWorkerResponse wraps a single worker outcome.
type RunWorkerResponse struct {
	Agent  string          `json:"agent"`
	Result content.Outcome `json:"result"`
}

// LessonRequest generates a lesson from a lecture transcript.
type LessonRequest struct {
	Transcript  string              `json:"transcript"   validate:"required"`
	UserContext content.UserContext `json:"user_context"`
}
