package http

import (
	"errors"
	"net/http"

	"github.com/cloudnotes/cloudnotes/internal/service"
	"github.com/cloudnotes/cloudnotes/pkg/httpx"
	"github.com/cloudnotes/cloudnotes/pkg/slogx"
)

type NotesHandler struct {
	Notes *service.NotesService
}

type noteRequest struct {
	Content string `json:"content"`
}

// HandleList returns the caller's notes, newest first.
//
//	@Summary	List notes
//	@Tags		Notes
//	@Produce	json
//	@Success	200	{array}		noteResponse
//	@Failure	401	{object}	httpx.ErrorResponse	"unauthorized"
//	@Router		/notes [get].
func (h *NotesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	notes, err := h.Notes.List(ctx, httpx.UserIDFromContext(ctx))
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list notes", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error")
		return
	}

	out := make([]noteResponse, 0, len(notes))
	for _, n := range notes {
		out = append(out, toNoteResponse(n))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleCreate creates a note owned by the caller.
//
//	@Summary	Create note
//	@Tags		Notes
//	@Accept		json
//	@Produce	json
//	@Param		body	body		noteRequest	true	"Note content"
//	@Success	201		{object}	noteResponse
//	@Failure	400		{object}	httpx.FieldErrorResponse
//	@Failure	401		{object}	httpx.ErrorResponse	"unauthorized"
//	@Router		/notes [post].
func (h *NotesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req noteRequest
	if err := decodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if !validNoteContent(req.Content) {
		httpx.WriteFieldErrors(w, map[string]string{"content": "content must be 1-5000 characters"})
		return
	}

	n, err := h.Notes.Create(ctx, httpx.UserIDFromContext(ctx), req.Content)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to create note", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error")
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toNoteResponse(n))
}

// HandleUpdate replaces a note's content.
//
//	@Summary	Update note
//	@Tags		Notes
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string		true	"Note id"
//	@Param		body	body		noteRequest	true	"New content"
//	@Success	200		{object}	noteResponse
//	@Failure	401		{object}	httpx.ErrorResponse	"unauthorized"
//	@Failure	404		{object}	httpx.ErrorResponse	"note_not_found"
//	@Router		/notes/{id} [put].
func (h *NotesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req noteRequest
	if err := decodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if !validNoteContent(req.Content) {
		httpx.WriteFieldErrors(w, map[string]string{"content": "content must be 1-5000 characters"})
		return
	}

	n, err := h.Notes.Update(ctx, r.PathValue("id"), httpx.UserIDFromContext(ctx), req.Content)
	if err != nil {
		if errors.Is(err, service.ErrNoteNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "note_not_found")
			return
		}
		slogx.FromContext(ctx).Error("failed to update note", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toNoteResponse(n))
}

// HandleDelete removes a note.
//
//	@Summary	Delete note
//	@Tags		Notes
//	@Produce	json
//	@Param		id	path		string	true	"Note id"
//	@Success	200	{object}	messageResponse
//	@Failure	401	{object}	httpx.ErrorResponse	"unauthorized"
//	@Failure	404	{object}	httpx.ErrorResponse	"note_not_found"
//	@Router		/notes/{id} [delete].
func (h *NotesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.Notes.Delete(ctx, r.PathValue("id"), httpx.UserIDFromContext(ctx)); err != nil {
		if errors.Is(err, service.ErrNoteNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "note_not_found")
			return
		}
		slogx.FromContext(ctx).Error("failed to delete note", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, messageResponse{Message: "deleted"})
}
