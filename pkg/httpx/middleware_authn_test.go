package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cloudnotes/cloudnotes/pkg/httpx"
	"github.com/cloudnotes/cloudnotes/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const cookieName = "token"

func protectedEcho(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]string{
			"user_id": httpx.UserIDFromContext(r.Context()),
			"email":   httpx.EmailFromContext(r.Context()),
		})
	})
}

func TestAuthnMiddlewareAcceptsValidCookie(t *testing.T) {
	t.Parallel()

	signer := &jwtx.Signer{Secret: []byte("secret"), Issuer: "cloudnotes"}
	token, err := signer.Mint("user-1", "ann@x.com", false)
	require.NoError(t, err)

	handler := httpx.Chain(protectedEcho(t), httpx.AuthnMiddleware(signer, cookieName))

	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "user-1")
	require.Contains(t, rec.Body.String(), "ann@x.com")
}

func TestAuthnMiddlewareRejectsMissingCookie(t *testing.T) {
	t.Parallel()

	signer := &jwtx.Signer{Secret: []byte("secret"), Issuer: "cloudnotes"}
	handler := httpx.Chain(protectedEcho(t), httpx.AuthnMiddleware(signer, cookieName))

	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.JSONEq(t, `{"error":"unauthorized"}`, rec.Body.String())
}

func TestAuthnMiddlewareRejectsForgedCookie(t *testing.T) {
	t.Parallel()

	signer := &jwtx.Signer{Secret: []byte("secret"), Issuer: "cloudnotes"}
	forger := &jwtx.Signer{Secret: []byte("wrong"), Issuer: "cloudnotes"}
	forged, err := forger.Mint("user-1", "ann@x.com", false)
	require.NoError(t, err)

	handler := httpx.Chain(protectedEcho(t), httpx.AuthnMiddleware(signer, cookieName))

	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: forged})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	// Forged and absent credentials are indistinguishable to the client.
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.JSONEq(t, `{"error":"unauthorized"}`, rec.Body.String())
}
