// Package models defines the JSON request and response shapes of the HTTP API
// and the payloads carried by broadcast events.
package models

import (
	"time"

	"github.com/votethebeat/backend/internal/db"
)

// Session management
type CreateSessionRequest struct {
	Name string `json:"name"`
}

type SessionResponse struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	ShareCode string         `json:"shareCode"`
	CreatedAt time.Time      `json:"createdAt"`
	Songs     []SongResponse `json:"songs,omitempty"`
}

// Songs
type AddSongRequest struct {
	TrackID  string `json:"trackId"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	ImageURL string `json:"imageUrl,omitempty"`
	AddedBy  string `json:"addedBy"`
}

type SongResponse struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	TrackID   string    `json:"trackId"`
	Title     string    `json:"title"`
	Artist    string    `json:"artist"`
	ImageURL  *string   `json:"imageUrl,omitempty"`
	AddedBy   string    `json:"addedBy"`
	Votes     int64     `json:"votes"`
	CreatedAt time.Time `json:"createdAt"`
}

type VoteSongRequest struct {
	UserID string `json:"userId"`
}

type RemoveSongRequest struct {
	UserID string `json:"userId"`
}

type RemoveSongResponse struct {
	Message string `json:"message"`
}

// SongRemovedEvent is the payload of a song-removed broadcast. Removal is the
// only event that carries an id instead of a full record.
type SongRemovedEvent struct {
	SongID string `json:"songId"`
}

// Search
type SearchResponse struct {
	Tracks []TrackResponse `json:"tracks"`
}

type TrackResponse struct {
	TrackID  string `json:"trackId"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	ImageURL string `json:"imageUrl,omitempty"`
	Album    string `json:"album,omitempty"`
}

// Error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// NewSongResponse converts a stored song into its API shape. Used for both
// HTTP responses and broadcast payloads so the two never drift apart.
func NewSongResponse(s db.Song) SongResponse {
	resp := SongResponse{
		ID:        s.ID,
		SessionID: s.SessionID,
		TrackID:   s.TrackID,
		Title:     s.Title,
		Artist:    s.Artist,
		AddedBy:   s.AddedBy,
		Votes:     s.Votes,
		CreatedAt: s.CreatedAt,
	}
	if s.ImageUrl.Valid {
		resp.ImageURL = &s.ImageUrl.String
	}
	return resp
}

// NewSessionResponse converts a stored session and its songs into the API shape.
func NewSessionResponse(s db.Session, songs []db.Song) SessionResponse {
	resp := SessionResponse{
		ID:        s.ID,
		Name:      s.Name,
		ShareCode: s.ShareCode,
		CreatedAt: s.CreatedAt,
	}
	if len(songs) > 0 {
		resp.Songs = make([]SongResponse, len(songs))
		for i, song := range songs {
			resp.Songs[i] = NewSongResponse(song)
		}
	}
	return resp
}
