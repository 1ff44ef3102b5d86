package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/cloudnotes/cloudnotes/internal/service"
	"github.com/cloudnotes/cloudnotes/internal/store/drivers/memory"
	"github.com/cloudnotes/cloudnotes/pkg/jwtx"
	"github.com/cloudnotes/cloudnotes/pkg/mailx"
	"github.com/stretchr/testify/require"
)

type captureSender struct {
	sent []mailx.Email
}

func (c *captureSender) Send(email mailx.Email) error {
	c.sent = append(c.sent, email)
	return nil
}

var codePattern = regexp.MustCompile(`\b(\d{6})\b`)

func (c *captureSender) lastCode(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, c.sent)
	m := codePattern.FindStringSubmatch(c.sent[len(c.sent)-1].Body)
	require.NotNil(t, m)
	return m[1]
}

func newTestRouter(t *testing.T) (*Router, *captureSender) {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	st := memory.NewStore()
	sender := &captureSender{}
	signer := &jwtx.Signer{Secret: []byte("test-secret"), Issuer: "cloudnotes"}

	r := NewRouter(signer, false, "http://localhost:5173", "test", st, logger)
	r.OtpService = &service.OtpService{Store: st, Mailer: sender, Logger: logger}
	r.UserService = &service.UserService{Store: st}
	r.NotesService = &service.NotesService{Store: st}
	r.FederationService = &service.FederationService{Store: st}
	r.ApplyRoutes()
	return r, sender
}

func doJSON(t *testing.T, r *Router, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookieName {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestSignupFlow(t *testing.T) {
	t.Parallel()
	r, sender := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/auth/signup/start",
		`{"name":"Ann","dob":"2000-01-01","email":"ann@x.com"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	code := sender.lastCode(t)
	rec = doJSON(t, r, http.MethodPost, "/auth/signup/verify",
		fmt.Sprintf(`{"email":"ann@x.com","otp":%q}`, code))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var user struct {
		Name          string `json:"name"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"emailVerified"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	require.Equal(t, "Ann", user.Name)
	require.Equal(t, "ann@x.com", user.Email)
	require.True(t, user.EmailVerified)

	// The credential lives only in the cookie.
	require.NotContains(t, rec.Body.String(), "token")
	cookie := sessionCookie(t, rec)
	require.True(t, cookie.HttpOnly)
	require.False(t, cookie.Secure)
	require.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	require.Equal(t, "/", cookie.Path)
	require.Equal(t, int(jwtx.SessionTTL/time.Second), cookie.MaxAge)

	// The cookie authenticates /auth/me.
	rec = doJSON(t, r, http.MethodGet, "/auth/me", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Contains(t, rec.Body.String(), `"ann@x.com"`)

	// Logout clears it.
	rec = doJSON(t, r, http.MethodPost, "/auth/logout", "")
	require.Equal(t, http.StatusOK, rec.Code)
	cleared := sessionCookie(t, rec)
	require.Empty(t, cleared.Value)
	require.Negative(t, cleared.MaxAge)
}

func TestLoginFlow(t *testing.T) {
	t.Parallel()
	r, sender := newTestRouter(t)

	// Establish an account first.
	rec := doJSON(t, r, http.MethodPost, "/auth/signup/start",
		`{"name":"Ann","dob":"2000-01-01","email":"ann@x.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, r, http.MethodPost, "/auth/signup/verify",
		fmt.Sprintf(`{"email":"ann@x.com","otp":%q}`, sender.lastCode(t)))
	require.Equal(t, http.StatusOK, rec.Code)

	t.Run("unknown email is refused at start", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/auth/login/start", `{"email":"nobody@x.com"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "no_account")
	})

	t.Run("keepSignedIn stretches the cookie", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/auth/login/start", `{"email":"ann@x.com"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doJSON(t, r, http.MethodPost, "/auth/login/verify",
			fmt.Sprintf(`{"email":"ann@x.com","otp":%q,"keepSignedIn":true}`, sender.lastCode(t)))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		cookie := sessionCookie(t, rec)
		require.Equal(t, int(jwtx.ExtendedSessionTTL/time.Second), cookie.MaxAge)
	})

	t.Run("wrong code is a 400", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/auth/login/start", `{"email":"ann@x.com"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		right := sender.lastCode(t)
		wrong := "000000"
		if wrong == right {
			wrong = "000001"
		}
		rec = doJSON(t, r, http.MethodPost, "/auth/login/verify",
			fmt.Sprintf(`{"email":"ann@x.com","otp":%q}`, wrong))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "invalid_code")
	})
}

func TestAuthGate(t *testing.T) {
	t.Parallel()
	r, _ := newTestRouter(t)

	t.Run("missing cookie", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodGet, "/auth/me", "")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Body.String(), "unauthorized")
	})

	t.Run("garbage cookie", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodGet, "/auth/me", "",
			&http.Cookie{Name: SessionCookieName, Value: "not-a-jwt"})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid credential for a vanished account", func(t *testing.T) {
		signer := &jwtx.Signer{Secret: []byte("test-secret"), Issuer: "cloudnotes"}
		token, err := signer.Mint("no-such-user", "ghost@x.com", false)
		require.NoError(t, err)

		rec := doJSON(t, r, http.MethodGet, "/auth/me", "",
			&http.Cookie{Name: SessionCookieName, Value: token})
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Contains(t, rec.Body.String(), "user_not_found")
	})
}

func TestSignupValidation(t *testing.T) {
	t.Parallel()
	r, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/auth/signup/start",
		`{"name":"A","dob":"not-a-date","email":"not-an-email"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "validation_failed", resp.Error)
	require.Contains(t, resp.Fields, "name")
	require.Contains(t, resp.Fields, "dob")
	require.Contains(t, resp.Fields, "email")
}

func TestNotesEndpoints(t *testing.T) {
	t.Parallel()
	r, sender := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/auth/signup/start",
		`{"name":"Ann","dob":"2000-01-01","email":"ann@x.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, r, http.MethodPost, "/auth/signup/verify",
		fmt.Sprintf(`{"email":"ann@x.com","otp":%q}`, sender.lastCode(t)))
	require.Equal(t, http.StatusOK, rec.Code)
	cookie := sessionCookie(t, rec)

	t.Run("requires a session", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodGet, "/notes", "")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("create list update delete", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/notes", `{"content":"groceries"}`, cookie)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var created noteResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		require.Equal(t, "groceries", created.Content)
		require.NotEmpty(t, created.ID)

		rec = doJSON(t, r, http.MethodGet, "/notes", "", cookie)
		require.Equal(t, http.StatusOK, rec.Code)
		var listed []noteResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
		require.Len(t, listed, 1)

		rec = doJSON(t, r, http.MethodPut, "/notes/"+created.ID, `{"content":"groceries, milk"}`, cookie)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "groceries, milk")

		rec = doJSON(t, r, http.MethodDelete, "/notes/"+created.ID, "", cookie)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doJSON(t, r, http.MethodDelete, "/notes/"+created.ID, "", cookie)
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Contains(t, rec.Body.String(), "note_not_found")
	})

	t.Run("empty content is refused", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/notes", `{"content":"   "}`, cookie)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGoogleNotConfigured(t *testing.T) {
	t.Parallel()
	r, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/auth/google", "")
	require.Equal(t, http.StatusNotImplemented, rec.Code)
	require.Contains(t, rec.Body.String(), "google_not_configured")

	rec = doJSON(t, r, http.MethodGet, "/auth/google/callback", "")
	require.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestHealth(t *testing.T) {
	t.Parallel()
	r, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "ok", resp.Status)
	require.Equal(t, "test", resp.Version)
}

func TestCORSHeaders(t *testing.T) {
	t.Parallel()
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/auth/login/start", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}
