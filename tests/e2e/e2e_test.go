//go:build e2e

package e2e_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestE2E_LiveEndpoint verifies the /live liveness probe returns 200 OK.
func TestE2E_LiveEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	resp, err := ts.Client.Get(ts.URL + "/live")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

// TestE2E_ReadyEndpoint verifies the /ready readiness probe returns 200 OK
// when the database is reachable.
func TestE2E_ReadyEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	resp, err := ts.Client.Get(ts.URL + "/ready")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// TestE2E_HealthEndpoint verifies the /health endpoint returns 200 with
// version and database component status.
func TestE2E_HealthEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	resp, err := ts.Client.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["version"])

	components, ok := body["components"].(map[string]any)
	require.True(t, ok, "expected components object")

	db, ok := components["database"].(map[string]any)
	require.True(t, ok, "expected database component")
	assert.Equal(t, "ok", db["status"])
}

// TestE2E_StudyEndpoints_RequireAuth verifies that study endpoints reject
// anonymous requests with 401 while health probes stay open.
func TestE2E_StudyEndpoints_RequireAuth(t *testing.T) {
	ts := setupTestServer(t)

	status, result := ts.doJSON(t, http.MethodGet, "/v1/study/queue?language=de", nil, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.NotEmpty(t, result["error"])

	status, _ = ts.doJSON(t, http.MethodGet, "/v1/study/stats?language=de", nil, "")
	assert.Equal(t, http.StatusUnauthorized, status)
}

// TestE2E_InvalidToken_Rejected verifies that a garbage bearer token is
// rejected at the middleware with 401.
func TestE2E_InvalidToken_Rejected(t *testing.T) {
	ts := setupTestServer(t)

	status, _ := ts.doJSON(t, http.MethodGet, "/v1/study/queue?language=de", nil, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, status)
}
