package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/votethebeat/backend/internal/broker"
	"github.com/votethebeat/backend/internal/db"
	"github.com/votethebeat/backend/internal/models"
)

// QueueService is the sole authority for mutating a session's song queue.
// Uniqueness rules (one song per track per session, one vote per user per
// song) are enforced by the schema, never by a read-then-write check, so two
// racing requests cannot both pass. Every accepted mutation is published to
// the broadcast hub after it commits.
type QueueService struct {
	db        *sql.DB
	queries   *db.Queries
	hub       *broker.Broker
	shareCode *ShareCodeService
}

// NewQueueService creates a QueueService with the required dependencies.
func NewQueueService(sqlDB *sql.DB, queries *db.Queries, hub *broker.Broker, shareCode *ShareCodeService) *QueueService {
	return &QueueService{
		db:        sqlDB,
		queries:   queries,
		hub:       hub,
		shareCode: shareCode,
	}
}

// SessionWithSongs pairs a session with its current queue.
type SessionWithSongs struct {
	Session db.Session
	Songs   []db.Song
}

// AddSongParams carries the input for AddSong. ImageURL may be empty.
type AddSongParams struct {
	SessionID string
	TrackID   string
	Title     string
	Artist    string
	ImageURL  string
	AddedBy   string
}

// CreateSession creates a new named session with a fresh id and share code.
func (s *QueueService) CreateSession(ctx context.Context, name string) (db.Session, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return db.Session{}, validationErrorf("session name is required")
	}

	code, err := s.shareCode.Generate(ctx)
	if err != nil {
		return db.Session{}, fmt.Errorf("failed to generate share code: %w", err)
	}

	session, err := s.queries.CreateSession(ctx, db.CreateSessionParams{
		ID:        uuid.New().String(),
		Name:      name,
		ShareCode: code,
	})
	if err != nil {
		return db.Session{}, fmt.Errorf("failed to create session: %w", err)
	}

	slog.Info("session created", slog.String("session_id", session.ID))
	return session, nil
}

// GetSession returns a session and its queue, sorted by votes.
func (s *QueueService) GetSession(ctx context.Context, sessionID string) (db.Session, []db.Song, error) {
	session, err := s.queries.GetSessionByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return db.Session{}, nil, ErrSessionNotFound
		}
		return db.Session{}, nil, fmt.Errorf("failed to fetch session: %w", err)
	}

	songs, err := s.queries.ListSongsBySessionID(ctx, sessionID)
	if err != nil {
		return db.Session{}, nil, fmt.Errorf("failed to fetch songs: %w", err)
	}

	return session, songs, nil
}

// GetSessionByCode resolves a share code to its session and queue.
func (s *QueueService) GetSessionByCode(ctx context.Context, code string) (db.Session, []db.Song, error) {
	if code == "" {
		return db.Session{}, nil, validationErrorf("share code is required")
	}

	session, err := s.queries.GetSessionByShareCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return db.Session{}, nil, ErrSessionNotFound
		}
		return db.Session{}, nil, fmt.Errorf("failed to fetch session: %w", err)
	}

	songs, err := s.queries.ListSongsBySessionID(ctx, session.ID)
	if err != nil {
		return db.Session{}, nil, fmt.Errorf("failed to fetch songs: %w", err)
	}

	return session, songs, nil
}

// ListSessions returns all sessions, each with its queue.
func (s *QueueService) ListSessions(ctx context.Context) ([]SessionWithSongs, error) {
	sessions, err := s.queries.ListSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sessions: %w", err)
	}

	result := make([]SessionWithSongs, len(sessions))
	for i, session := range sessions {
		songs, err := s.queries.ListSongsBySessionID(ctx, session.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch songs: %w", err)
		}
		result[i] = SessionWithSongs{Session: session, Songs: songs}
	}

	return result, nil
}

// ListSongs returns a session's queue sorted by votes, insertion order on ties.
func (s *QueueService) ListSongs(ctx context.Context, sessionID string) ([]db.Song, error) {
	if _, err := s.queries.GetSessionByID(ctx, sessionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to fetch session: %w", err)
	}

	songs, err := s.queries.ListSongsBySessionID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch songs: %w", err)
	}
	return songs, nil
}

// AddSong queues a track in a session with zero votes. A duplicate track in
// the same session surfaces as ErrDuplicateSong from the unique constraint.
func (s *QueueService) AddSong(ctx context.Context, arg AddSongParams) (db.Song, error) {
	if arg.TrackID == "" || arg.Title == "" || arg.Artist == "" || arg.AddedBy == "" {
		return db.Song{}, validationErrorf("trackId, title, artist and addedBy are required")
	}

	if _, err := s.queries.GetSessionByID(ctx, arg.SessionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return db.Song{}, ErrSessionNotFound
		}
		return db.Song{}, fmt.Errorf("failed to fetch session: %w", err)
	}

	var imageURL sql.NullString
	if arg.ImageURL != "" {
		imageURL = sql.NullString{String: arg.ImageURL, Valid: true}
	}

	song, err := s.queries.CreateSong(ctx, db.CreateSongParams{
		ID:        uuid.New().String(),
		SessionID: arg.SessionID,
		TrackID:   arg.TrackID,
		Title:     arg.Title,
		Artist:    arg.Artist,
		ImageUrl:  imageURL,
		AddedBy:   arg.AddedBy,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return db.Song{}, ErrDuplicateSong
		}
		return db.Song{}, fmt.Errorf("failed to create song: %w", err)
	}

	s.publish(song.SessionID, broker.EventSongAdded, models.NewSongResponse(song))
	return song, nil
}

// VoteSong records one vote by userID for songID. The vote row and the
// counter bump commit in a single transaction; a duplicate vote aborts the
// whole transaction at the unique constraint, so two simultaneous votes from
// the same user yield exactly one success and one ErrDuplicateVote.
func (s *QueueService) VoteSong(ctx context.Context, songID, userID string) (db.Song, error) {
	if userID == "" {
		return db.Song{}, validationErrorf("userId is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return db.Song{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)

	song, err := qtx.GetSongByID(ctx, songID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return db.Song{}, ErrSongNotFound
		}
		return db.Song{}, fmt.Errorf("failed to fetch song: %w", err)
	}

	if song.AddedBy == userID {
		return db.Song{}, ErrSelfVote
	}

	if err := qtx.CreateVote(ctx, db.CreateVoteParams{SongID: songID, UserID: userID}); err != nil {
		if isUniqueViolation(err) {
			return db.Song{}, ErrDuplicateVote
		}
		return db.Song{}, fmt.Errorf("failed to create vote: %w", err)
	}

	updated, err := qtx.IncrementSongVotes(ctx, songID)
	if err != nil {
		return db.Song{}, fmt.Errorf("failed to increment votes: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return db.Song{}, fmt.Errorf("failed to commit vote: %w", err)
	}

	s.publish(updated.SessionID, broker.EventSongVoted, models.NewSongResponse(updated))
	return updated, nil
}

// RemoveSong deletes a song and, via cascade, all of its votes. Only the user
// who added the song may remove it; removal is allowed regardless of how many
// votes the song has collected.
func (s *QueueService) RemoveSong(ctx context.Context, songID, userID string) error {
	if userID == "" {
		return validationErrorf("userId is required")
	}

	song, err := s.queries.GetSongByID(ctx, songID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrSongNotFound
		}
		return fmt.Errorf("failed to fetch song: %w", err)
	}

	if song.AddedBy != userID {
		return ErrNotSongOwner
	}

	if _, err := s.queries.DeleteSong(ctx, songID); err != nil {
		return fmt.Errorf("failed to delete song: %w", err)
	}

	s.publish(song.SessionID, broker.EventSongRemoved, models.SongRemovedEvent{SongID: song.ID})
	return nil
}

// publish marshals the payload and fans it out to the session's viewers.
// Broadcast failures never affect the mutation that triggered them.
func (s *QueueService) publish(sessionID, eventType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("failed to marshal broadcast payload",
			slog.String("event", eventType),
			slog.String("error", err.Error()))
		return
	}
	s.hub.Publish(sessionID, broker.Event{Type: eventType, Data: data})
}

// isUniqueViolation reports whether err is a sqlite UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		code := se.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}
