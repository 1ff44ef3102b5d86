package http

import (
	"net/http"

	"github.com/cloudnotes/cloudnotes/internal/service"
	"github.com/cloudnotes/cloudnotes/pkg/httpx"
	"github.com/cloudnotes/cloudnotes/pkg/jwtx"
	"github.com/cloudnotes/cloudnotes/pkg/slogx"
)

type LoginHandler struct {
	Otp    *service.OtpService
	Signer *jwtx.Signer
	Prod   bool
}

// HandleStart begins a login by emailing a passcode to an existing account.
//
//	@Summary		Start login
//	@Description	Emails a six-digit verification code to an existing account.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		object{email=string}	true	"Account email"
//	@Success		200		{object}	messageResponse
//	@Failure		400		{object}	httpx.ErrorResponse	"no_account / validation_failed"
//	@Router			/auth/login/start [post].
func (h *LoginHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if !validEmail(req.Email) {
		httpx.WriteFieldErrors(w, map[string]string{"email": "invalid email address"})
		return
	}

	if err := h.Otp.StartLogin(r.Context(), req.Email); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, messageResponse{Message: "OTP sent"})
}

// HandleVerify completes a login. keepSignedIn stretches the session from
// seven to thirty days; the cookie's Max-Age follows the same tier.
//
//	@Summary		Verify login
//	@Description	Verifies the emailed code and sets the session cookie. keepSignedIn extends the session to 30 days.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		object{email=string,otp=string,keepSignedIn=boolean}	true	"Email, code and session tier"
//	@Success		200		{object}	userResponse
//	@Failure		400		{object}	httpx.ErrorResponse	"challenge_not_found / challenge_expired / invalid_code"
//	@Failure		429		{object}	httpx.ErrorResponse	"too_many_attempts"
//	@Router			/auth/login/verify [post].
func (h *LoginHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email        string `json:"email"`
		Otp          string `json:"otp"`
		KeepSignedIn bool   `json:"keepSignedIn"`
	}
	if err := decodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	fields := map[string]string{}
	if !validEmail(req.Email) {
		fields["email"] = "invalid email address"
	}
	if !validOtp(req.Otp) {
		fields["otp"] = "otp must be exactly 6 digits"
	}
	if len(fields) > 0 {
		httpx.WriteFieldErrors(w, fields)
		return
	}

	u, err := h.Otp.VerifyLogin(r.Context(), req.Email, req.Otp)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	token, err := h.Signer.Mint(u.ID, u.Email, req.KeepSignedIn)
	if err != nil {
		slogx.FromContext(r.Context()).Error("failed to mint credential", "user_id", u.ID, "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error")
		return
	}

	setSessionCookie(w, h.Prod, token, req.KeepSignedIn)
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(u))
}
