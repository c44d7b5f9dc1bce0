package shared

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/lumen-api/internal/platform/logger"
)

type sample struct {
	Name string `json:"name" validate:"required"`
}

type selfValidating struct {
	err error
}

func (s selfValidating) Validate() error { return s.err }

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
		empty   bool
	}{
		{"valid", `{"name":"ada"}`, false, false},
		{"empty", "", true, true},
		{"malformed", `{"name":`, true, false},
		{"trailing data", `{"name":"ada"} {"name":"bob"}`, true, false},
		{"too large", `{"name":"` + strings.Repeat("a", MaxRequestBodyBytes) + `"}`, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var v sample
			err := DecodeJSON(httptest.NewRecorder(), r, &v)

			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, "ada", v.Name)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.empty, errors.Is(err, ErrEmptyBody))
		})
	}
}

func TestValidateRequest(t *testing.T) {
	assert.NoError(t, ValidateRequest(&sample{Name: "ada"}))
	assert.Error(t, ValidateRequest(&sample{}))

	custom := errors.New("custom rule")
	assert.ErrorIs(t, ValidateRequest(selfValidating{err: custom}), custom)
	assert.NoError(t, ValidateRequest(selfValidating{}))
}

func TestRespondWithErrorAndLog(t *testing.T) {
	log, buf := logger.GetTestLogger(t)

	r := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	ctx := logger.WithLogger(SetTraceID(r.Context()), log)
	r = r.WithContext(ctx)
	rr := httptest.NewRecorder()

	RespondWithErrorAndLog(rr, r, http.StatusInternalServerError, "An unexpected error occurred",
		errors.New("dial tcp: password=hunter2"))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "An unexpected error occurred", body.Error)
	assert.Equal(t, GetTraceID(ctx), body.TraceID)

	logger.AssertLogContains(t, buf, `"level":"ERROR"`)
	logger.AssertLogContains(t, buf, body.TraceID)
	assert.NotContains(t, buf.String(), "hunter2")
}
