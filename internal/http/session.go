package http

import (
	"errors"
	"net/http"

	"github.com/cloudnotes/cloudnotes/internal/service"
	"github.com/cloudnotes/cloudnotes/pkg/httpx"
	"github.com/cloudnotes/cloudnotes/pkg/slogx"
)

type SessionHandler struct {
	Users *service.UserService
	Prod  bool
}

// HandleLogout clears the session cookie. The credential itself is
// stateless, so there is nothing to invalidate server-side; logout works the
// same whether or not a valid session is presented.
//
//	@Summary	Logout
//	@Tags		Auth
//	@Produce	json
//	@Success	200	{object}	messageResponse
//	@Router		/auth/logout [post].
func (h *SessionHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	clearSessionCookie(w, h.Prod)
	httpx.WriteJSON(w, http.StatusOK, messageResponse{Message: "logged out"})
}

// HandleMe returns the account behind the authenticated session.
//
//	@Summary	Current user
//	@Tags		Auth
//	@Produce	json
//	@Success	200	{object}	userResponse
//	@Failure	401	{object}	httpx.ErrorResponse	"unauthorized"
//	@Failure	404	{object}	httpx.ErrorResponse	"user_not_found"
//	@Router		/auth/me [get].
func (h *SessionHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "user_not_found")
			return
		}
		slogx.FromContext(ctx).Error("failed to load user", "user_id", userID, "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error")
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(u))
}
