package http

import (
	"net/http"

	"github.com/cloudnotes/cloudnotes/internal/service"
	"github.com/cloudnotes/cloudnotes/pkg/httpx"
	"github.com/cloudnotes/cloudnotes/pkg/jwtx"
	"github.com/cloudnotes/cloudnotes/pkg/slogx"
)

type SignupHandler struct {
	Otp    *service.OtpService
	Signer *jwtx.Signer
	Prod   bool
}

// HandleStart begins a signup: stages the profile and emails a passcode.
//
//	@Summary		Start signup
//	@Description	Stages a profile for a new account and emails a six-digit verification code.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		object{name=string,dob=string,email=string}	true	"Signup profile"
//	@Success		200		{object}	messageResponse
//	@Failure		400		{object}	httpx.ErrorResponse	"email_registered / validation_failed"
//	@Router			/auth/signup/start [post].
func (h *SignupHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		DOB   string `json:"dob"`
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	fields := map[string]string{}
	if !validName(req.Name) {
		fields["name"] = "name must be 2-80 characters"
	}
	dob, ok := parseDOB(req.DOB)
	if !ok {
		fields["dob"] = "dob must be a past date in YYYY-MM-DD form"
	}
	if !validEmail(req.Email) {
		fields["email"] = "invalid email address"
	}
	if len(fields) > 0 {
		httpx.WriteFieldErrors(w, fields)
		return
	}

	if err := h.Otp.StartSignup(r.Context(), req.Email, req.Name, dob); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, messageResponse{Message: "OTP sent"})
}

// HandleVerify completes a signup: checks the passcode, creates the account,
// and establishes the session cookie.
//
//	@Summary		Verify signup
//	@Description	Verifies the emailed code, creates the account, and sets the session cookie.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		object{email=string,otp=string}	true	"Email and code"
//	@Success		200		{object}	userResponse
//	@Failure		400		{object}	httpx.ErrorResponse	"challenge_not_found / challenge_expired / invalid_code"
//	@Failure		429		{object}	httpx.ErrorResponse	"too_many_attempts"
//	@Router			/auth/signup/verify [post].
func (h *SignupHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Otp   string `json:"otp"`
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

	u, err := h.Otp.VerifySignup(r.Context(), req.Email, req.Otp)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	token, err := h.Signer.Mint(u.ID, u.Email, false)
	if err != nil {
		slogx.FromContext(r.Context()).Error("failed to mint credential", "user_id", u.ID, "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error")
		return
	}

	setSessionCookie(w, h.Prod, token, false)
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(u))
}
