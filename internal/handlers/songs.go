package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/votethebeat/backend/internal/models"
	"github.com/votethebeat/backend/internal/services"
)

// SongHandler covers the song queue surface: adding, listing, voting, removing.
type SongHandler struct {
	queue *services.QueueService
}

// NewSongHandler creates a SongHandler backed by the queue service.
func NewSongHandler(queue *services.QueueService) *SongHandler {
	return &SongHandler{queue: queue}
}

// Add queues a track in a session.
func (h *SongHandler) Add(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")

	var req models.AddSongRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	song, err := h.queue.AddSong(r.Context(), services.AddSongParams{
		SessionID: sessionID,
		TrackID:   req.TrackID,
		Title:     req.Title,
		Artist:    req.Artist,
		ImageURL:  req.ImageURL,
		AddedBy:   req.AddedBy,
	})
	if err != nil {
		writeQueueError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusCreated, models.NewSongResponse(song))
}

// ListBySession returns a session's queue sorted by votes.
func (h *SongHandler) ListBySession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")

	songs, err := h.queue.ListSongs(r.Context(), sessionID)
	if err != nil {
		writeQueueError(r.Context(), w, err)
		return
	}

	response := make([]models.SongResponse, len(songs))
	for i, song := range songs {
		response[i] = models.NewSongResponse(song)
	}

	writeJSON(w, http.StatusOK, response)
}

// Vote records a vote for a song and returns the updated record.
func (h *SongHandler) Vote(w http.ResponseWriter, r *http.Request) {
	songID := chi.URLParam(r, "id")

	var req models.VoteSongRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	song, err := h.queue.VoteSong(r.Context(), songID, req.UserID)
	if err != nil {
		writeQueueError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.NewSongResponse(song))
}

// Remove deletes a song. Only the user who added it may remove it.
func (h *SongHandler) Remove(w http.ResponseWriter, r *http.Request) {
	songID := chi.URLParam(r, "id")

	var req models.RemoveSongRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.queue.RemoveSong(r.Context(), songID, req.UserID); err != nil {
		writeQueueError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.RemoveSongResponse{Message: "song removed successfully"})
}
