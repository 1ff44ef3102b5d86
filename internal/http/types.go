package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/cloudnotes/cloudnotes/internal/domain"
	"github.com/cloudnotes/cloudnotes/internal/service"
	"github.com/cloudnotes/cloudnotes/pkg/httpx"
)

const maxBodyBytes = 64 << 10

// decodeJSON reads a request body into dst, rejecting oversized or malformed
// payloads.
func decodeJSON(r *http.Request, dst any) error {
	defer io.Copy(io.Discard, r.Body) //nolint:errcheck
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	return dec.Decode(dst)
}

type messageResponse struct {
	Message string `json:"message"`
}

type userResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	DOB             string `json:"dob"`
	Email           string `json:"email"`
	EmailVerified   bool   `json:"emailVerified"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
}

func toUserResponse(u domain.User) userResponse {
	return userResponse{
		ID:              u.ID,
		Name:            u.Name,
		DOB:             u.DOB.Format(dobLayout),
		Email:           u.Email,
		EmailVerified:   u.EmailVerified,
		ProfileImageURL: u.ProfileImageURL,
	}
}

type noteResponse struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toNoteResponse(n domain.Note) noteResponse {
	return noteResponse{
		ID:        n.ID,
		Content:   n.Content,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

// writeServiceError maps the passcode lifecycle sentinels onto their HTTP
// codes. State errors are 400s; only the attempt cap is a 429. Anything
// unrecognized is a 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrEmailRegistered):
		httpx.WriteError(w, http.StatusBadRequest, "email_registered")
	case errors.Is(err, service.ErrNoAccount):
		httpx.WriteError(w, http.StatusBadRequest, "no_account")
	case errors.Is(err, service.ErrChallengeNotFound):
		httpx.WriteError(w, http.StatusBadRequest, "challenge_not_found")
	case errors.Is(err, service.ErrChallengeExpired):
		httpx.WriteError(w, http.StatusBadRequest, "challenge_expired")
	case errors.Is(err, service.ErrInvalidCode):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_code")
	case errors.Is(err, service.ErrIncompleteChallenge):
		httpx.WriteError(w, http.StatusBadRequest, "challenge_not_found")
	case errors.Is(err, service.ErrTooManyAttempts):
		httpx.WriteError(w, http.StatusTooManyRequests, "too_many_attempts")
	default:
		httpx.WriteError(w, http.StatusInternalServerError, "server_error")
	}
}
