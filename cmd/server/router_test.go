package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/lumen-api/internal/config"
	"github.com/phrazzld/lumen-api/internal/mocks"
	"github.com/phrazzld/lumen-api/internal/platform/logger"
)

const testAPIKey = "test-api-key-0123456789"

func newTestApp(t *testing.T) *application {
	t.Helper()

	log, _ := logger.GetTestLogger(t)
	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:           8080,
			LogLevel:       "debug",
			APIKey:         testAPIKey,
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Auth:         config.AuthConfig{JWTSecret: "0123456789abcdef0123456789abcdef", TokenLifetimeMinutes: 60},
		Orchestrator: config.OrchestratorConfig{DeadlineSeconds: 30, AnalysisTimeoutSeconds: 20},
	}

	app, err := assembleApplication(cfg, log, nil, dependencies{
		userStore:        mocks.NewMockUserStore(),
		generator:        mocks.NewMockGeneratorWithResponse("```json\n{\"title\": \"Limits\"}\n```"),
		jwtService:       mocks.NewMockJWTService(uuid.New()),
		passwordVerifier: &mocks.MockPasswordVerifier{},
	})
	require.NoError(t, err)
	return app
}

func TestNewApplication_AnalysisTimeout(t *testing.T) {
	app := newTestApp(t)
	assert.Equal(t, 20*time.Second, app.lessonService.AnalysisTimeout())
}

func serve(h http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRouter_PublicEndpoints(t *testing.T) {
	router := newTestApp(t).setupRouter()

	rr := serve(router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get("X-Trace-ID"))

	rr = serve(router, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var root map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &root))
	assert.Len(t, root["workers"], 8)
}

func TestRouter_APIKey(t *testing.T) {
	router := newTestApp(t).setupRouter()

	rr := serve(router, http.MethodGet, "/api/content/info", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = serve(router, http.MethodGet, "/api/content/info", "", map[string]string{"X-API-Key": "wrong"})
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = serve(router, http.MethodGet, "/api/content/info", "", map[string]string{"X-API-Key": testAPIKey})
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRouter_ProtectedUserRoutes(t *testing.T) {
	router := newTestApp(t).setupRouter()

	rr := serve(router, http.MethodGet, "/api/users/me", "", map[string]string{"X-API-Key": testAPIKey})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRouter_GenerateRecordsMetrics(t *testing.T) {
	router := newTestApp(t).setupRouter()

	rr := serve(router, http.MethodPost, "/api/content/generate",
		`{"work_orders":{"explanation":{"topic":"limits"}}}`,
		map[string]string{"X-API-Key": testAPIKey, "Content-Type": "application/json"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var result struct {
		Summary struct {
			Successful int `json:"successful_agents"`
		} `json:"orchestration_summary"`
		Content map[string]struct {
			Content map[string]any `json:"content"`
		} `json:"content"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.Equal(t, 1, result.Summary.Successful)
	assert.Equal(t, "Limits", result.Content["explanation"].Content["title"])
	assert.Equal(t, "explanation", result.Content["explanation"].Content["agent"])

	rr = serve(router, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	metrics := rr.Body.String()
	assert.Contains(t, metrics, `lumen_worker_outcomes_total{outcome="completed",worker="explanation"} 1`)
	assert.Contains(t, metrics, `lumen_http_requests_total{method="POST",path="/api/content/generate",status="200"} 1`)
}

func TestRouter_CORSPreflight(t *testing.T) {
	router := newTestApp(t).setupRouter()

	rr := serve(router, http.MethodOptions, "/api/content/generate", "", map[string]string{
		"Origin":                        "http://localhost:3000",
		"Access-Control-Request-Method": http.MethodPost,
	})

	assert.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"))
}
