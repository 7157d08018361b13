package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/votethebeat/backend/internal/broker"
	"github.com/votethebeat/backend/internal/database"
	"github.com/votethebeat/backend/internal/db"
	"github.com/votethebeat/backend/internal/models"
	"github.com/votethebeat/backend/internal/services"
)

// newTestHandlers wires real handlers over a migrated temp-file database, so
// status-code mapping is tested against the actual constraint behavior.
func newTestHandlers(t *testing.T) (*SessionHandler, *SongHandler, *services.QueueService) {
	t.Helper()

	sqlDB, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.RunMigrations(sqlDB); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	queries := db.New(sqlDB)
	queue := services.NewQueueService(sqlDB, queries, broker.New(), services.NewShareCodeService(queries))
	return NewSessionHandler(queue), NewSongHandler(queue), queue
}

// newTestRequest builds a request with a JSON body and chi URL params.
func newTestRequest(method, path string, body interface{}, urlParams map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		data, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(data))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Content-Type", "application/json")

	rctx := chi.NewRouteContext()
	for k, v := range urlParams {
		rctx.URLParams.Add(k, v)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)

	return req.WithContext(ctx)
}

func createSessionViaHandler(t *testing.T, h *SessionHandler, name string) models.SessionResponse {
	t.Helper()
	rec := httptest.NewRecorder()
	h.Create(rec, newTestRequest(http.MethodPost, "/sessions", models.CreateSessionRequest{Name: name}, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("create session status = %d, want %d", rec.Code, http.StatusOK)
	}
	var resp models.SessionResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode session response: %v", err)
	}
	return resp
}

func addSongViaHandler(t *testing.T, h *SongHandler, sessionID string, req models.AddSongRequest) models.SongResponse {
	t.Helper()
	rec := httptest.NewRecorder()
	h.Add(rec, newTestRequest(http.MethodPost, "/sessions/"+sessionID+"/songs", req, map[string]string{"id": sessionID}))
	if rec.Code != http.StatusCreated {
		t.Fatalf("add song status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var resp models.SongResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode song response: %v", err)
	}
	return resp
}

func TestSessionHandler_Create(t *testing.T) {
	sessionHandler, _, _ := newTestHandlers(t)

	session := createSessionViaHandler(t, sessionHandler, "Party")

	if session.ID == "" {
		t.Error("expected a session ID")
	}
	if session.Name != "Party" {
		t.Errorf("Name = %q, want %q", session.Name, "Party")
	}
	if session.ShareCode == "" {
		t.Error("expected a share code")
	}
}

func TestSessionHandler_CreateEmptyName(t *testing.T) {
	sessionHandler, _, _ := newTestHandlers(t)

	rec := httptest.NewRecorder()
	sessionHandler.Create(rec, newTestRequest(http.MethodPost, "/sessions", models.CreateSessionRequest{}, nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestSessionHandler_CreateInvalidJSON(t *testing.T) {
	sessionHandler, _, _ := newTestHandlers(t)

	req := httptest.NewRequest(http.MethodPost, "/sessions", bytes.NewReader([]byte("not json")))
	rec := httptest.NewRecorder()
	sessionHandler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestSessionHandler_GetNotFound(t *testing.T) {
	sessionHandler, _, _ := newTestHandlers(t)

	rec := httptest.NewRecorder()
	sessionHandler.Get(rec, newTestRequest(http.MethodGet, "/sessions/nope", nil, map[string]string{"id": "nope"}))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestSessionHandler_GetByCode(t *testing.T) {
	sessionHandler, _, _ := newTestHandlers(t)
	session := createSessionViaHandler(t, sessionHandler, "Party")

	rec := httptest.NewRecorder()
	sessionHandler.GetByCode(rec, newTestRequest(http.MethodGet, "/sessions/code/"+session.ShareCode, nil, map[string]string{"code": session.ShareCode}))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var resp models.SessionResponse
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp.ID != session.ID {
		t.Errorf("ID = %q, want %q", resp.ID, session.ID)
	}
}

func TestSongHandler_Add(t *testing.T) {
	sessionHandler, songHandler, _ := newTestHandlers(t)
	session := createSessionViaHandler(t, sessionHandler, "Party")

	song := addSongViaHandler(t, songHandler, session.ID, models.AddSongRequest{
		TrackID: "t1",
		Title:   "A",
		Artist:  "B",
		AddedBy: "u1",
	})

	if song.Votes != 0 {
		t.Errorf("Votes = %d, want 0", song.Votes)
	}
	if song.SessionID != session.ID {
		t.Errorf("SessionID = %q, want %q", song.SessionID, session.ID)
	}
}

func TestSongHandler_AddMissingFields(t *testing.T) {
	sessionHandler, songHandler, _ := newTestHandlers(t)
	session := createSessionViaHandler(t, sessionHandler, "Party")

	rec := httptest.NewRecorder()
	songHandler.Add(rec, newTestRequest(http.MethodPost, "/sessions/"+session.ID+"/songs",
		models.AddSongRequest{TrackID: "t1"}, map[string]string{"id": session.ID}))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestSongHandler_AddSessionNotFound(t *testing.T) {
	_, songHandler, _ := newTestHandlers(t)

	rec := httptest.NewRecorder()
	songHandler.Add(rec, newTestRequest(http.MethodPost, "/sessions/nope/songs",
		models.AddSongRequest{TrackID: "t1", Title: "A", Artist: "B", AddedBy: "u1"},
		map[string]string{"id": "nope"}))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestSongHandler_AddDuplicate(t *testing.T) {
	sessionHandler, songHandler, _ := newTestHandlers(t)
	session := createSessionViaHandler(t, sessionHandler, "Party")
	addSongViaHandler(t, songHandler, session.ID, models.AddSongRequest{
		TrackID: "t1", Title: "A", Artist: "B", AddedBy: "u1",
	})

	rec := httptest.NewRecorder()
	songHandler.Add(rec, newTestRequest(http.MethodPost, "/sessions/"+session.ID+"/songs",
		models.AddSongRequest{TrackID: "t1", Title: "A", Artist: "B", AddedBy: "u2"},
		map[string]string{"id": session.ID}))

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestSongHandler_Vote(t *testing.T) {
	sessionHandler, songHandler, _ := newTestHandlers(t)
	session := createSessionViaHandler(t, sessionHandler, "Party")
	song := addSongViaHandler(t, songHandler, session.ID, models.AddSongRequest{
		TrackID: "t1", Title: "A", Artist: "B", AddedBy: "u1",
	})

	voteStatus := func(userID string) (int, models.SongResponse) {
		rec := httptest.NewRecorder()
		songHandler.Vote(rec, newTestRequest(http.MethodPost, "/songs/"+song.ID+"/vote",
			models.VoteSongRequest{UserID: userID}, map[string]string{"id": song.ID}))
		var resp models.SongResponse
		json.NewDecoder(rec.Body).Decode(&resp)
		return rec.Code, resp
	}

	// First vote from another user succeeds.
	status, resp := voteStatus("u2")
	if status != http.StatusOK {
		t.Fatalf("vote status = %d, want %d", status, http.StatusOK)
	}
	if resp.Votes != 1 {
		t.Errorf("Votes = %d, want 1", resp.Votes)
	}

	// The adder cannot vote on their own song.
	if status, _ := voteStatus("u1"); status != http.StatusForbidden {
		t.Errorf("self-vote status = %d, want %d", status, http.StatusForbidden)
	}

	// Voting twice conflicts.
	if status, _ := voteStatus("u2"); status != http.StatusConflict {
		t.Errorf("duplicate vote status = %d, want %d", status, http.StatusConflict)
	}

	// Missing userId is a validation error.
	if status, _ := voteStatus(""); status != http.StatusBadRequest {
		t.Errorf("missing userId status = %d, want %d", status, http.StatusBadRequest)
	}
}

func TestSongHandler_VoteSongNotFound(t *testing.T) {
	_, songHandler, _ := newTestHandlers(t)

	rec := httptest.NewRecorder()
	songHandler.Vote(rec, newTestRequest(http.MethodPost, "/songs/nope/vote",
		models.VoteSongRequest{UserID: "u1"}, map[string]string{"id": "nope"}))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestSongHandler_Remove(t *testing.T) {
	sessionHandler, songHandler, _ := newTestHandlers(t)
	session := createSessionViaHandler(t, sessionHandler, "Party")
	song := addSongViaHandler(t, songHandler, session.ID, models.AddSongRequest{
		TrackID: "t1", Title: "A", Artist: "B", AddedBy: "u1",
	})

	// A different user cannot remove it.
	rec := httptest.NewRecorder()
	songHandler.Remove(rec, newTestRequest(http.MethodDelete, "/songs/"+song.ID,
		models.RemoveSongRequest{UserID: "u2"}, map[string]string{"id": song.ID}))
	if rec.Code != http.StatusForbidden {
		t.Errorf("non-owner remove status = %d, want %d", rec.Code, http.StatusForbidden)
	}

	// The adder can.
	rec = httptest.NewRecorder()
	songHandler.Remove(rec, newTestRequest(http.MethodDelete, "/songs/"+song.ID,
		models.RemoveSongRequest{UserID: "u1"}, map[string]string{"id": song.ID}))
	if rec.Code != http.StatusOK {
		t.Errorf("owner remove status = %d, want %d", rec.Code, http.StatusOK)
	}

	// It is gone afterwards.
	rec = httptest.NewRecorder()
	songHandler.Remove(rec, newTestRequest(http.MethodDelete, "/songs/"+song.ID,
		models.RemoveSongRequest{UserID: "u1"}, map[string]string{"id": song.ID}))
	if rec.Code != http.StatusNotFound {
		t.Errorf("repeat remove status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestSongHandler_ListSorted(t *testing.T) {
	sessionHandler, songHandler, queue := newTestHandlers(t)
	session := createSessionViaHandler(t, sessionHandler, "Party")

	first := addSongViaHandler(t, songHandler, session.ID, models.AddSongRequest{
		TrackID: "t1", Title: "A", Artist: "B", AddedBy: "u1",
	})
	second := addSongViaHandler(t, songHandler, session.ID, models.AddSongRequest{
		TrackID: "t2", Title: "C", Artist: "D", AddedBy: "u1",
	})

	if _, err := queue.VoteSong(context.Background(), second.ID, "u2"); err != nil {
		t.Fatalf("VoteSong failed: %v", err)
	}

	rec := httptest.NewRecorder()
	songHandler.ListBySession(rec, newTestRequest(http.MethodGet, "/sessions/"+session.ID+"/songs", nil, map[string]string{"id": session.ID}))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var songs []models.SongResponse
	if err := json.NewDecoder(rec.Body).Decode(&songs); err != nil {
		t.Fatalf("failed to decode songs: %v", err)
	}
	if len(songs) != 2 {
		t.Fatalf("len(songs) = %d, want 2", len(songs))
	}
	if songs[0].ID != second.ID || songs[1].ID != first.ID {
		t.Errorf("order = [%q, %q], want voted song first", songs[0].ID, songs[1].ID)
	}
}
