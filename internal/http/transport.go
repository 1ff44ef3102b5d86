package http

import (
	"net/http"
	"time"

	"github.com/cloudnotes/cloudnotes/pkg/jwtx"
)

// SessionCookieName is the cookie carrying the signed credential. The
// credential travels only here, never in response bodies or headers.
const SessionCookieName = "token"

// setSessionCookie writes the session cookie. Production deployments serve
// the API and the browser client from different sites, so the cookie must be
// Secure with SameSite=None there; everywhere else Lax keeps local
// development on plain HTTP working. Max-Age mirrors the credential's own
// expiry tier so the browser drops both together.
func setSessionCookie(w http.ResponseWriter, prod bool, token string, extended bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(jwtx.TTLFor(extended) / time.Second),
		HttpOnly: true,
		Secure:   prod,
		SameSite: sameSiteFor(prod),
	})
}

// clearSessionCookie expires the cookie with the same attributes it was set
// with; browsers only honor the deletion when they match.
func clearSessionCookie(w http.ResponseWriter, prod bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   prod,
		SameSite: sameSiteFor(prod),
	})
}

func sameSiteFor(prod bool) http.SameSite {
	if prod {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}
