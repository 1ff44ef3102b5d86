package httpx

import (
	"context"
	"net/http"

	"github.com/cloudnotes/cloudnotes/pkg/jwtx"
	"github.com/cloudnotes/cloudnotes/pkg/slogx"
)

// AuthnMiddleware gates protected routes behind the session cookie. The
// credential travels in an HTTP-only cookie; a missing or failing credential
// is rejected 401 without telling the client why (expired and malformed look
// identical from outside).
func AuthnMiddleware(signer *jwtx.Signer, cookieName string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				WriteError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			claims, err := signer.Verify(cookie.Value)
			if err != nil {
				log.Warn("credential verification failed", "err", err)
				WriteError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			ctx = contextWithIdentity(ctx, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func contextWithIdentity(ctx context.Context, c jwtx.Claims) context.Context {
	ctx = context.WithValue(ctx, CtxKeyUserID, c.Subject)
	ctx = context.WithValue(ctx, CtxKeyEmail, c.Email)
	return ctx
}
