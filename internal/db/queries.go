package db

import (
	"context"
	"database/sql"
)

const createSession = `
INSERT INTO sessions (id, name, share_code)
VALUES (?, ?, ?)
RETURNING id, name, share_code, created_at
`

type CreateSessionParams struct {
	ID        string
	Name      string
	ShareCode string
}

func (q *Queries) CreateSession(ctx context.Context, arg CreateSessionParams) (Session, error) {
	row := q.db.QueryRowContext(ctx, createSession, arg.ID, arg.Name, arg.ShareCode)
	var s Session
	err := row.Scan(&s.ID, &s.Name, &s.ShareCode, &s.CreatedAt)
	return s, err
}

const getSessionByID = `
SELECT id, name, share_code, created_at
FROM sessions
WHERE id = ?
`

func (q *Queries) GetSessionByID(ctx context.Context, id string) (Session, error) {
	row := q.db.QueryRowContext(ctx, getSessionByID, id)
	var s Session
	err := row.Scan(&s.ID, &s.Name, &s.ShareCode, &s.CreatedAt)
	return s, err
}

const getSessionByShareCode = `
SELECT id, name, share_code, created_at
FROM sessions
WHERE share_code = ?
`

func (q *Queries) GetSessionByShareCode(ctx context.Context, shareCode string) (Session, error) {
	row := q.db.QueryRowContext(ctx, getSessionByShareCode, shareCode)
	var s Session
	err := row.Scan(&s.ID, &s.Name, &s.ShareCode, &s.CreatedAt)
	return s, err
}

const listSessions = `
SELECT id, name, share_code, created_at
FROM sessions
ORDER BY created_at DESC, rowid DESC
`

func (q *Queries) ListSessions(ctx context.Context) ([]Session, error) {
	rows, err := q.db.QueryContext(ctx, listSessions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Session
	for rows.Next() {
		var s Session
		if err := rows.Scan(&s.ID, &s.Name, &s.ShareCode, &s.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

const shareCodeExists = `
SELECT COUNT(*) FROM sessions WHERE share_code = ?
`

func (q *Queries) ShareCodeExists(ctx context.Context, shareCode string) (int64, error) {
	row := q.db.QueryRowContext(ctx, shareCodeExists, shareCode)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const createSong = `
INSERT INTO songs (id, session_id, track_id, title, artist, image_url, added_by)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING id, session_id, track_id, title, artist, image_url, added_by, votes, created_at
`

type CreateSongParams struct {
	ID        string
	SessionID string
	TrackID   string
	Title     string
	Artist    string
	ImageUrl  sql.NullString
	AddedBy   string
}

func (q *Queries) CreateSong(ctx context.Context, arg CreateSongParams) (Song, error) {
	row := q.db.QueryRowContext(ctx, createSong,
		arg.ID,
		arg.SessionID,
		arg.TrackID,
		arg.Title,
		arg.Artist,
		arg.ImageUrl,
		arg.AddedBy,
	)
	var s Song
	err := row.Scan(
		&s.ID,
		&s.SessionID,
		&s.TrackID,
		&s.Title,
		&s.Artist,
		&s.ImageUrl,
		&s.AddedBy,
		&s.Votes,
		&s.CreatedAt,
	)
	return s, err
}

const getSongByID = `
SELECT id, session_id, track_id, title, artist, image_url, added_by, votes, created_at
FROM songs
WHERE id = ?
`

func (q *Queries) GetSongByID(ctx context.Context, id string) (Song, error) {
	row := q.db.QueryRowContext(ctx, getSongByID, id)
	var s Song
	err := row.Scan(
		&s.ID,
		&s.SessionID,
		&s.TrackID,
		&s.Title,
		&s.Artist,
		&s.ImageUrl,
		&s.AddedBy,
		&s.Votes,
		&s.CreatedAt,
	)
	return s, err
}

const listSongsBySessionID = `
SELECT id, session_id, track_id, title, artist, image_url, added_by, votes, created_at
FROM songs
WHERE session_id = ?
ORDER BY votes DESC, created_at ASC, rowid ASC
`

// ListSongsBySessionID returns a session's queue sorted by vote count, with
// ties broken by insertion order (rowid disambiguates rows created within the
// same timestamp granularity).
func (q *Queries) ListSongsBySessionID(ctx context.Context, sessionID string) ([]Song, error) {
	rows, err := q.db.QueryContext(ctx, listSongsBySessionID, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Song
	for rows.Next() {
		var s Song
		if err := rows.Scan(
			&s.ID,
			&s.SessionID,
			&s.TrackID,
			&s.Title,
			&s.Artist,
			&s.ImageUrl,
			&s.AddedBy,
			&s.Votes,
			&s.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

const deleteSong = `
DELETE FROM songs WHERE id = ?
`

func (q *Queries) DeleteSong(ctx context.Context, id string) (sql.Result, error) {
	return q.db.ExecContext(ctx, deleteSong, id)
}

const createVote = `
INSERT INTO votes (song_id, user_id)
VALUES (?, ?)
`

type CreateVoteParams struct {
	SongID string
	UserID string
}

func (q *Queries) CreateVote(ctx context.Context, arg CreateVoteParams) error {
	_, err := q.db.ExecContext(ctx, createVote, arg.SongID, arg.UserID)
	return err
}

const incrementSongVotes = `
UPDATE songs
SET votes = votes + 1
WHERE id = ?
RETURNING id, session_id, track_id, title, artist, image_url, added_by, votes, created_at
`

// IncrementSongVotes bumps the cached vote counter in place. The increment
// happens inside the UPDATE so concurrent votes never lose updates.
func (q *Queries) IncrementSongVotes(ctx context.Context, id string) (Song, error) {
	row := q.db.QueryRowContext(ctx, incrementSongVotes, id)
	var s Song
	err := row.Scan(
		&s.ID,
		&s.SessionID,
		&s.TrackID,
		&s.Title,
		&s.Artist,
		&s.ImageUrl,
		&s.AddedBy,
		&s.Votes,
		&s.CreatedAt,
	)
	return s, err
}

const countVotesBySongID = `
SELECT COUNT(*) FROM votes WHERE song_id = ?
`

func (q *Queries) CountVotesBySongID(ctx context.Context, songID string) (int64, error) {
	row := q.db.QueryRowContext(ctx, countVotesBySongID, songID)
	var count int64
	err := row.Scan(&count)
	return count, err
}
