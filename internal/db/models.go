package db

import (
	"database/sql"
	"time"
)

// Session is a named voting scope owning a queue of songs.
type Session struct {
	ID        string
	Name      string
	ShareCode string
	CreatedAt time.Time
}

// Song is a track queued within a session. Votes is a counter kept in step
// with the vote rows; it is only ever changed by the same transaction that
// inserts a vote.
type Song struct {
	ID        string
	SessionID string
	TrackID   string
	Title     string
	Artist    string
	ImageUrl  sql.NullString
	AddedBy   string
	Votes     int64
	CreatedAt time.Time
}

// Vote records that one user voted for one song.
type Vote struct {
	ID        int64
	SongID    string
	UserID    string
	CreatedAt time.Time
}
