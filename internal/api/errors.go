package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/lumen-api/internal/analysis"
	"github.com/phrazzld/lumen-api/internal/api/shared"
	"github.com/phrazzld/lumen-api/internal/content"
	"github.com/phrazzld/lumen-api/internal/domain"
	"github.com/phrazzld/lumen-api/internal/generation"
	"github.com/phrazzld/lumen-api/internal/service"
	"github.com/phrazzld/lumen-api/internal/service/auth"
	"github.com/phrazzld/lumen-api/internal/store"
)

// userFacingValidation lists domain errors whose messages are safe to return.
var userFacingValidation = []error{
	domain.ErrEmptyName,
	domain.ErrInvalidUsername,
	domain.ErrInvalidAge,
	domain.ErrPasswordTooShort,
	domain.ErrPasswordTooLong,
	domain.ErrPasswordMismatch,
}

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking internal error types to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, service.ErrAnalysisTimeout):
		return http.StatusGatewayTimeout

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized

	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, content.ErrUnknownWorker):
		return http.StatusNotFound

	case errors.Is(err, store.ErrUsernameExists):
		return http.StatusConflict

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, content.ErrContractViolation),
		errors.Is(err, analysis.ErrEmptyTranscript),
		errors.Is(err, shared.ErrEmptyBody):
		return http.StatusBadRequest

	case errors.Is(err, analysis.ErrInvalidAnalysis),
		errors.Is(err, generation.ErrGenerationFailed),
		errors.Is(err, generation.ErrInvalidResponse),
		errors.Is(err, generation.ErrContentBlocked),
		errors.Is(err, generation.ErrTransientFailure):
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a user-friendly message for err.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	for _, v := range userFacingValidation {
		if errors.Is(err, v) {
			return v.Error()
		}
	}

	switch {
	case errors.Is(err, service.ErrAnalysisTimeout):
		return "Transcript analysis timed out"
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid username or password"
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid token"
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, content.ErrUnknownWorker):
		return "Unknown content worker"
	case errors.Is(err, store.ErrUsernameExists):
		return "Username already exists"
	case errors.Is(err, content.ErrContractViolation):
		return "work_orders must be an object whose values are objects"
	case errors.Is(err, analysis.ErrEmptyTranscript):
		return "Transcript is required"
	case errors.Is(err, shared.ErrEmptyBody):
		return "Request body is required"
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid data"
	case errors.Is(err, analysis.ErrInvalidAnalysis):
		return "Transcript analysis did not produce usable work orders"
	case errors.Is(err, generation.ErrContentBlocked):
		return "Content blocked by safety filters"
	case errors.Is(err, generation.ErrGenerationFailed),
		errors.Is(err, generation.ErrInvalidResponse),
		errors.Is(err, generation.ErrTransientFailure):
		return "Content generation is temporarily unavailable"
	default:
		return "An unexpected error occurred"
	}
}

// respondWithServiceError maps err to a status and safe message and logs it.
func respondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}

// SanitizeValidationError turns validator errors into a short message naming
// the first failing field.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Validation error"
	}

	fe := verrs[0]
	return fmt.Sprintf("Invalid %s: %s", jsonFieldName(fe), getValidationTagMessage(fe.Tag()))
}

func jsonFieldName(fe validator.FieldError) string {
	name := fe.Field()
	if name == "" {
		return "field"
	}
	return strings.ToLower(name[:1]) + name[1:]
}

func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min", "gte":
		return "too short or too small"
	case "max", "lte":
		return "too long or too large"
	case "eqfield":
		return "does not match"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
