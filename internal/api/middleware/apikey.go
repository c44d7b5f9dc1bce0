package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/phrazzld/lumen-api/internal/api/shared"
)

// APIKeyHeader carries the client API key.
const APIKeyHeader = "X-API-Key"

// RequireAPIKey rejects requests whose X-API-Key header does not match key.
// An empty key disables the check.
func RequireAPIKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if key == "" {
			return next
		}
		want := []byte(key)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(APIKeyHeader)
			if got == "" {
				shared.RespondWithError(w, r, http.StatusUnauthorized, "API key required")
				return
			}
			if subtle.ConstantTimeCompare([]byte(got), want) != 1 {
				shared.RespondWithError(w, r, http.StatusForbidden, "Invalid API key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
