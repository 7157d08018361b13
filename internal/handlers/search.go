package handlers

import (
	"net/http"

	"github.com/votethebeat/backend/internal/models"
	"github.com/votethebeat/backend/internal/services"
)

// SearchHandler proxies track searches to the external catalog.
type SearchHandler struct {
	search *services.SearchService
}

// NewSearchHandler creates a SearchHandler with the given search service.
func NewSearchHandler(search *services.SearchService) *SearchHandler {
	return &SearchHandler{search: search}
}

// Search handles track search queries, returning matching tracks from the
// first upstream that answers.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}

	tracks, err := h.search.Search(r.Context(), query, 20)
	if err != nil {
		writeErrorWithCause(r.Context(), w, http.StatusBadGateway, "search failed", err)
		return
	}

	response := models.SearchResponse{
		Tracks: make([]models.TrackResponse, len(tracks)),
	}
	for i, track := range tracks {
		response.Tracks[i] = models.TrackResponse{
			TrackID:  track.TrackID,
			Title:    track.Title,
			Artist:   track.Artist,
			ImageURL: track.ImageURL,
			Album:    track.Album,
		}
	}

	writeJSON(w, http.StatusOK, response)
}
