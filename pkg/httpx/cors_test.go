package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cloudnotes/cloudnotes/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func corsHandler(cfg httpx.CORSConfig) http.Handler {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return httpx.Chain(ok, httpx.CORSMiddleware(cfg))
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	t.Parallel()

	handler := corsHandler(httpx.CORSConfig{AllowedOrigins: []string{"https://notes.example.com"}})

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Origin", "https://notes.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, "https://notes.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	require.Equal(t, "Origin", rec.Header().Get("Vary"))
}

func TestCORSPreflight(t *testing.T) {
	t.Parallel()

	handler := corsHandler(httpx.CORSConfig{AllowedOrigins: []string{"https://notes.example.com"}})

	req := httptest.NewRequest(http.MethodOptions, "/auth/login/start", nil)
	req.Header.Set("Origin", "https://notes.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestCORSSkipsUnknownOrigin(t *testing.T) {
	t.Parallel()

	handler := corsHandler(httpx.CORSConfig{AllowedOrigins: []string{"https://notes.example.com"}})

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSLocalhostInDev(t *testing.T) {
	t.Parallel()

	handler := corsHandler(httpx.CORSConfig{
		AllowedOrigins: []string{"https://notes.example.com"},
		AllowLocalhost: true,
	})

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}
