package http

import (
	"net/http"

	"github.com/aussiebroadwan/notes/internal/notes/service"
	"github.com/aussiebroadwan/notes/pkg/httpx"
	"github.com/aussiebroadwan/notes/pkg/notesdk"
	"github.com/aussiebroadwan/notes/pkg/slogx"
)

// NotesHandler serves the bearer protected note endpoints. The owner is the
// token subject; ids belonging to another user are reported as not found.
type NotesHandler struct {
	NotesService *service.NotesService
}

// HandleGet godoc
//
//	@Summary		List or fetch notes
//	@Description	Without id, returns every note of the caller, newest first. With id, returns that note.
//	@Tags			Notes
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	query		string					false	"note id"
//	@Success		200	{array}		notesdk.Note			"notes, or a single note when id is set"
//	@Failure		401	{object}	notesdk.ErrorResponse	"invalid_token"
//	@Failure		404	{object}	notesdk.ErrorResponse	"note_not_found"
//	@Router			/api/notes [get].
func (h *NotesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		notesdk.ErrLoginRequired.WriteError(w)
		return
	}

	if r.URL.Query().Has("id") {
		note, err := h.NotesService.Get(ctx, owner, r.URL.Query().Get("id"))
		if err != nil {
			writeServiceError(w, slogx.FromContext(ctx), err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toNote(note))
		return
	}

	notes, err := h.NotesService.List(ctx, owner)
	if err != nil {
		writeServiceError(w, slogx.FromContext(ctx), err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toNotes(notes))
}

// HandleCreate godoc
//
//	@Summary	Create a note
//	@Tags		Notes
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		notesdk.NoteInput		true	"title, description"
//	@Success	200		{object}	notesdk.Note			"created note"
//	@Failure	400		{object}	notesdk.ErrorResponse	"invalid_request"
//	@Failure	401		{object}	notesdk.ErrorResponse	"invalid_token"
//	@Router		/api/notes [post].
func (h *NotesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		notesdk.ErrLoginRequired.WriteError(w)
		return
	}

	var in notesdk.NoteInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		notesdk.NewAPIError(http.StatusBadRequest, notesdk.ErrorCodeInvalidRequest, err.Error()).WriteError(w)
		return
	}

	note, err := h.NotesService.Create(ctx, owner, in.Title, in.Description)
	if err != nil {
		writeServiceError(w, slogx.FromContext(ctx), err)
		return
	}
	slogx.FromContext(ctx).Info("note created", "note_id", note.ID)
	httpx.WriteJSON(w, http.StatusOK, toNote(note))
}

// HandleUpdate godoc
//
//	@Summary	Update a note
//	@Tags		Notes
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		notesdk.NoteUpdate		true	"id, title, description"
//	@Success	200		{object}	notesdk.Note			"updated note"
//	@Failure	400		{object}	notesdk.ErrorResponse	"invalid_request"
//	@Failure	401		{object}	notesdk.ErrorResponse	"invalid_token"
//	@Failure	404		{object}	notesdk.ErrorResponse	"note_not_found"
//	@Router		/api/notes [put].
func (h *NotesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		notesdk.ErrLoginRequired.WriteError(w)
		return
	}

	var in notesdk.NoteUpdate
	if err := httpx.DecodeJSON(r, &in); err != nil {
		notesdk.NewAPIError(http.StatusBadRequest, notesdk.ErrorCodeInvalidRequest, err.Error()).WriteError(w)
		return
	}

	note, err := h.NotesService.Update(ctx, owner, in.ID, in.Title, in.Description)
	if err != nil {
		writeServiceError(w, slogx.FromContext(ctx), err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toNote(note))
}

// HandleDelete godoc
//
//	@Summary	Delete a note
//	@Tags		Notes
//	@Security	BearerAuth
//	@Param		id	query	string	true	"note id"
//	@Success	204
//	@Failure	401	{object}	notesdk.ErrorResponse	"invalid_token"
//	@Failure	404	{object}	notesdk.ErrorResponse	"note_not_found"
//	@Router		/api/notes [delete].
func (h *NotesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		notesdk.ErrLoginRequired.WriteError(w)
		return
	}

	if err := h.NotesService.Delete(ctx, owner, r.URL.Query().Get("id")); err != nil {
		writeServiceError(w, slogx.FromContext(ctx), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSearch godoc
//
//	@Summary		Semantic search
//	@Description	Ranks the caller's notes against a free text query and returns up to ten matches.
//	@Tags			Notes
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			body	body		notesdk.SearchRequest	true	"query"
//	@Success		200		{object}	notesdk.SearchResult	"matches"
//	@Failure		400		{object}	notesdk.ErrorResponse	"invalid_request"
//	@Failure		401		{object}	notesdk.ErrorResponse	"invalid_token"
//	@Router			/api/search [post].
func (h *NotesHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		notesdk.ErrLoginRequired.WriteError(w)
		return
	}

	var req notesdk.SearchRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		notesdk.NewAPIError(http.StatusBadRequest, notesdk.ErrorCodeInvalidRequest, err.Error()).WriteError(w)
		return
	}

	matches, err := h.NotesService.Search(ctx, owner, req.Query)
	if err != nil {
		writeServiceError(w, slogx.FromContext(ctx), err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toSearchResult(matches))
}
