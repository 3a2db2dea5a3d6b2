package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/notes/internal/notes/service"
	"github.com/aussiebroadwan/notes/pkg/notesdk"
)

// writeServiceError maps service errors onto the API error body. Anything
// unrecognised is logged and reported as a server error.
func writeServiceError(w http.ResponseWriter, log *slog.Logger, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		notesdk.NewAPIError(http.StatusBadRequest, notesdk.ErrorCodeInvalidRequest, verr.Error()).WriteError(w)
	case errors.Is(err, service.ErrInvalidRequest):
		notesdk.ErrInvalidRequest.WriteError(w)
	case errors.Is(err, service.ErrInvalidCredentials):
		notesdk.ErrInvalidCredentials.WriteError(w)
	case errors.Is(err, service.ErrEmailTaken):
		notesdk.ErrEmailTaken.WriteError(w)
	case errors.Is(err, service.ErrLoginRequired):
		notesdk.ErrLoginRequired.WriteError(w)
	case errors.Is(err, service.ErrNoteNotFound):
		notesdk.ErrNoteNotFound.WriteError(w)
	default:
		log.Error("request failed", "err", err)
		notesdk.ErrServerError.WriteError(w)
	}
}
