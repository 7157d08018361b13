package services

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the queue service. Handlers map these onto
// HTTP statuses; nothing below the handler layer knows about HTTP.
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSongNotFound    = errors.New("song not found")
	ErrSelfVote        = errors.New("you can't vote on your own song")
	ErrNotSongOwner    = errors.New("you can only remove songs added by you")
	ErrDuplicateSong   = errors.New("this song is already added to the session")
	ErrDuplicateVote   = errors.New("you have already voted for this song")
)

// ValidationError reports missing or malformed input. The caller must fix
// the request before retrying.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
