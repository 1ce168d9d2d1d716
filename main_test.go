package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Cantilever/internal/calc/cantilever"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"ADDR", "TOKEN_KEY", "DATABASE_URL", "TLS_CERT", "TLS_KEY"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadConfig(t *testing.T) {
	clearEnv(t)

	cfg, err := loadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.False(t, cfg.accounts())
	assert.True(t, cfg.InsecureCookies)
}

func TestLoadConfigFromFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("ADDR=:9090\nDATABASE_URL=postgres://app@db/cant\nTOKEN_KEY=k\n"), 0o600))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.True(t, cfg.accounts())
	assert.Equal(t, "k", cfg.TokenKey)
}

func TestLoadConfigErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.env")

	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://app@db/cant")
	_, err := loadConfig(missing)
	assert.ErrorContains(t, err, "TOKEN_KEY")

	clearEnv(t)
	t.Setenv("TLS_CERT", "server.crt")
	_, err = loadConfig(missing)
	assert.ErrorContains(t, err, "TLS_KEY")
}

func newRouter() http.Handler {
	router := mux.NewRouter()
	HandleList(router, config{}, nil, log.New(io.Discard))
	return CORS(router)
}

func TestRoutes(t *testing.T) {
	h := newRouter()

	body, err := json.Marshal(cantilever.ReferenceInput())
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/tools/cantilever/calc", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	var res cantilever.Result
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.Equal(t, 12.0, res.BaseMM)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `route="/api/tools/cantilever/calc"`)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/tools/cantilever/calc", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAccountRoutesDisabledWithoutDatabase(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/user/designs", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
