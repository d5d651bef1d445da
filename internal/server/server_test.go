package server

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decoynet/decoynet/internal/config"
	"github.com/decoynet/decoynet/internal/database"
)

func setupTestServer(t *testing.T) *Server {
	t.Helper()

	db, err := database.Connect(filepath.Join(t.TempDir(), "decoynet.db"))
	require.NoError(t, err)

	cfg := config.Config{
		Environment:  "test",
		HTTPPort:     "0",
		InferenceURL: "http://127.0.0.1:0/unreachable",
	}

	srv, err := New(db, cfg)
	require.NoError(t, err)
	return srv
}

func TestHealthEndpoint(t *testing.T) {
	srv := setupTestServer(t)

	w := httptest.NewRecorder()
	srv.Engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "DecoyNet")
}

func TestMetricsEndpoint(t *testing.T) {
	srv := setupTestServer(t)

	w := httptest.NewRecorder()
	srv.Engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSimulationServiceIsExposed(t *testing.T) {
	srv := setupTestServer(t)
	assert.NotNil(t, srv.Simulations)
}
