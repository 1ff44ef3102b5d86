package http

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"net/url"

	"github.com/cloudnotes/cloudnotes/internal/service"
	"github.com/cloudnotes/cloudnotes/pkg/httpx"
	"github.com/cloudnotes/cloudnotes/pkg/jwtx"
	"github.com/cloudnotes/cloudnotes/pkg/slogx"

	"golang.org/x/oauth2"
	oauthapi "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// stateCookieName holds the CSRF state between the consent redirect and the
// provider callback.
const stateCookieName = "oauth_state"

// GoogleHandler drives the browser-redirect federation flow. OAuth is nil
// when the provider is not configured; both endpoints then answer 501.
type GoogleHandler struct {
	Federation   *service.FederationService
	Signer       *jwtx.Signer
	OAuth        *oauth2.Config
	ClientOrigin string
	Prod         bool
}

// HandleRedirect sends the browser to the provider's consent screen.
//
//	@Summary	Start Google login
//	@Tags		Auth
//	@Success	302	"Redirect to the Google consent screen"
//	@Failure	501	{object}	httpx.ErrorResponse	"google_not_configured"
//	@Router		/auth/google [get].
func (h *GoogleHandler) HandleRedirect(w http.ResponseWriter, r *http.Request) {
	if h.OAuth == nil {
		httpx.WriteError(w, http.StatusNotImplemented, "google_not_configured")
		return
	}

	state, err := newState()
	if err != nil {
		slogx.FromContext(r.Context()).Error("failed to generate state", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		Secure:   h.Prod,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.OAuth.AuthCodeURL(state), http.StatusFound)
}

// HandleCallback exchanges the provider code, resolves the asserted profile
// onto a local account, and establishes the session. This is a browser
// redirect flow: failures bounce back to the client's login page with an
// error code instead of returning JSON.
//
//	@Summary	Google login callback
//	@Tags		Auth
//	@Success	302	"Redirect to the client application"
//	@Failure	501	{object}	httpx.ErrorResponse	"google_not_configured"
//	@Router		/auth/google/callback [get].
func (h *GoogleHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	if h.OAuth == nil {
		httpx.WriteError(w, http.StatusNotImplemented, "google_not_configured")
		return
	}

	ctx := r.Context()
	log := slogx.FromContext(ctx)

	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		h.redirectError(w, r, "invalid_state")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.redirectError(w, r, "google_auth_failed")
		return
	}

	tok, err := h.OAuth.Exchange(ctx, code)
	if err != nil {
		log.Warn("code exchange failed", "error", err)
		h.redirectError(w, r, "google_auth_failed")
		return
	}

	svc, err := oauthapi.NewService(ctx, option.WithTokenSource(h.OAuth.TokenSource(ctx, tok)))
	if err != nil {
		log.Error("failed to build userinfo client", "error", err)
		h.redirectError(w, r, "google_auth_failed")
		return
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil || info.Id == "" || info.Email == "" {
		log.Warn("userinfo fetch failed", "error", err)
		h.redirectError(w, r, "google_auth_failed")
		return
	}

	u, err := h.Federation.Resolve(ctx, service.FederatedProfile{
		GoogleID: info.Id,
		Email:    info.Email,
		Name:     info.Name,
		Picture:  info.Picture,
	})
	if err != nil {
		log.Error("failed to resolve federated profile", "error", err)
		h.redirectError(w, r, "google_auth_failed")
		return
	}

	token, err := h.Signer.Mint(u.ID, u.Email, false)
	if err != nil {
		log.Error("failed to mint credential", "user_id", u.ID, "error", err)
		h.redirectError(w, r, "google_auth_failed")
		return
	}

	setSessionCookie(w, h.Prod, token, false)
	http.Redirect(w, r, h.ClientOrigin+"/auth/callback", http.StatusFound)
}

func (h *GoogleHandler) redirectError(w http.ResponseWriter, r *http.Request, code string) {
	http.Redirect(w, r, h.ClientOrigin+"/login?error="+url.QueryEscape(code), http.StatusFound)
}

func newState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
