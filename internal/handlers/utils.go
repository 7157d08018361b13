package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/votethebeat/backend/internal/logging"
	"github.com/votethebeat/backend/internal/models"
	"github.com/votethebeat/backend/internal/services"
)

// writeJSON serializes data as JSON and writes it to the response.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response without logging. Use for simple
// client errors where there is no underlying cause worth recording.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(models.ErrorResponse{Error: message})
}

// writeErrorWithCause writes an error response and logs the error with stack trace.
// Use this for server errors where you have an underlying error to log.
func writeErrorWithCause(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	writeError(w, status, message)

	if status >= 400 && err != nil {
		wrappedErr := logging.WrapError(err, message)
		logging.LogErrorWithStatus(ctx, status, "error response", wrappedErr)
	}
}

// writeQueueError maps a queue service error onto its HTTP status. Ownership
// denials are recorded as security events; anything unrecognized is a 500.
func writeQueueError(ctx context.Context, w http.ResponseWriter, err error) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Message)
	case errors.Is(err, services.ErrSessionNotFound), errors.Is(err, services.ErrSongNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrSelfVote), errors.Is(err, services.ErrNotSongOwner):
		logging.LogSecurityEvent(ctx, logging.SecurityEventOwnershipDenied, err.Error())
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrDuplicateSong), errors.Is(err, services.ErrDuplicateVote):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeErrorWithCause(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
