//go:build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tkovalenko/sentencely-backend/internal/adapter/postgres"
	cardrepo "github.com/tkovalenko/sentencely-backend/internal/adapter/postgres/card"
	prefsrepo "github.com/tkovalenko/sentencely-backend/internal/adapter/postgres/prefs"
	eventrepo "github.com/tkovalenko/sentencely-backend/internal/adapter/postgres/reviewevent"
	"github.com/tkovalenko/sentencely-backend/internal/adapter/postgres/testhelper"
	authpkg "github.com/tkovalenko/sentencely-backend/internal/auth"
	"github.com/tkovalenko/sentencely-backend/internal/config"
	"github.com/tkovalenko/sentencely-backend/internal/domain"
	"github.com/tkovalenko/sentencely-backend/internal/service/scheduler"
	"github.com/tkovalenko/sentencely-backend/internal/service/scheduler/fsrs"
	"github.com/tkovalenko/sentencely-backend/internal/transport/middleware"
	"github.com/tkovalenko/sentencely-backend/internal/transport/rest"
)

// ---------------------------------------------------------------------------
// testServer wraps the full-stack HTTP server for E2E tests.
// ---------------------------------------------------------------------------

type testServer struct {
	URL    string
	Client *http.Client
	Pool   *pgxpool.Pool
	jwt    *authpkg.JWTManager
}

// testLogWriter adapts testing.T to io.Writer for slog.
type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// ---------------------------------------------------------------------------
// setupTestServer bootstraps the full application stack backed by
// a real PostgreSQL container (shared via testhelper).
// ---------------------------------------------------------------------------

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	// 1. Get pool from testcontainers-backed helper.
	pool := testhelper.SetupTestDB(t)

	// 2. Infrastructure.
	logger := slog.New(slog.NewTextHandler(testLogWriter{t}, nil))
	txm := postgres.NewTxManager(pool)

	// 3. Repositories.
	cards := cardrepo.New(pool)
	events := eventrepo.New(pool)
	prefs := prefsrepo.New(pool)

	// 4. Scheduling service with module defaults and fuzzing off, so the
	// assertions on intervals stay exact.
	schedCfg := domain.SchedulerConfig{
		SelectLimit:     20,
		MaxIntervalDays: 365,
		EnableFuzz:      false,
		LearningSteps:   []time.Duration{time.Minute, 10 * time.Minute},
		RelearningSteps: []time.Duration{10 * time.Minute},
	}
	svc, err := scheduler.NewService(logger, cards, events, prefs, txm, schedCfg, fsrs.DefaultWeights)
	require.NoError(t, err)

	// 5. JWT manager with a test secret (>= 32 chars).
	jwtMgr := authpkg.NewJWTManager(
		"test-secret-at-least-32-chars-long!!",
		"test-issuer",
		30*time.Second,
	)

	// 6. Handlers.
	healthHandler := rest.NewHealthHandler(pool, "test-version")
	studyHandler := rest.NewStudyHandler(svc, logger)

	// 7. Mux + middleware chain, mirroring the production router.
	mux := http.NewServeMux()
	mux.HandleFunc("GET /live", healthHandler.Live)
	mux.HandleFunc("GET /ready", healthHandler.Ready)
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("GET /v1/study/queue", studyHandler.Queue)
	mux.HandleFunc("POST /v1/study/rate", studyHandler.Rate)
	mux.HandleFunc("POST /v1/study/skip-ahead", studyHandler.SkipAhead)
	mux.HandleFunc("GET /v1/study/preview/{cardID}", studyHandler.Preview)
	mux.HandleFunc("GET /v1/study/stats", studyHandler.Stats)
	mux.HandleFunc("GET /v1/study/cards/{cardID}/history", studyHandler.History)

	handler := middleware.Chain(
		middleware.RequestID,
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.CORS(config.CORSConfig{
			AllowedOrigins:   "*",
			AllowedMethods:   "GET,POST,OPTIONS",
			AllowedHeaders:   "Authorization,Content-Type",
			AllowCredentials: true,
			MaxAge:           86400,
		}),
		middleware.Auth(jwtMgr),
	)(mux)

	// 8. httptest server.
	srv := httptest.NewServer(handler)
	t.Cleanup(func() { srv.Close() })

	return &testServer{
		URL:    srv.URL,
		Client: srv.Client(),
		Pool:   pool,
		jwt:    jwtMgr,
	}
}

// ---------------------------------------------------------------------------
// HTTP helpers.
// ---------------------------------------------------------------------------

// doJSON sends a request with an optional JSON body and bearer token, and
// returns the status code plus the decoded response body.
func (ts *testServer) doJSON(t *testing.T, method, path string, body any, token string) (int, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var result map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return resp.StatusCode, result
}

// newTestUser returns a fresh user id and a valid bearer token for it.
// Tokens are minted directly; the identity service is out of process.
func newTestUser(t *testing.T, ts *testServer) (uuid.UUID, string) {
	t.Helper()

	userID := uuid.New()
	token, err := ts.jwt.SignForTest(userID, 15*time.Minute)
	require.NoError(t, err)
	return userID, token
}

// rateCard submits one rating (or a bare exposure when rating is "") and
// returns the updated card from the response.
func rateCard(t *testing.T, ts *testServer, token, cardID, rating string) map[string]any {
	t.Helper()

	body := map[string]any{"cardId": cardID, "elapsedSeconds": 5}
	if rating != "" {
		body["rating"] = rating
	}

	status, result := ts.doJSON(t, http.MethodPost, "/v1/study/rate", body, token)
	require.Equal(t, http.StatusOK, status, "rate response: %v", result)

	card, ok := result["card"].(map[string]any)
	require.True(t, ok, "expected card object in rate response")
	return card
}
