package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/votethebeat/backend/internal/models"
	"github.com/votethebeat/backend/internal/services"
)

// SessionHandler manages session lifecycle: creation and lookup.
type SessionHandler struct {
	queue *services.QueueService
}

// NewSessionHandler creates a SessionHandler backed by the queue service.
func NewSessionHandler(queue *services.QueueService) *SessionHandler {
	return &SessionHandler{queue: queue}
}

// Create makes a new named session and returns it.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.queue.CreateSession(r.Context(), req.Name)
	if err != nil {
		writeQueueError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.NewSessionResponse(session, nil))
}

// List returns every session together with its current queue.
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.queue.ListSessions(r.Context())
	if err != nil {
		writeQueueError(r.Context(), w, err)
		return
	}

	response := make([]models.SessionResponse, len(sessions))
	for i, s := range sessions {
		response[i] = models.NewSessionResponse(s.Session, s.Songs)
	}

	writeJSON(w, http.StatusOK, response)
}

// Get returns one session with its queue.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")

	session, songs, err := h.queue.GetSession(r.Context(), sessionID)
	if err != nil {
		writeQueueError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.NewSessionResponse(session, songs))
}

// GetByCode resolves a human-readable share code to its session.
func (h *SessionHandler) GetByCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	session, songs, err := h.queue.GetSessionByCode(r.Context(), code)
	if err != nil {
		writeQueueError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.NewSessionResponse(session, songs))
}
