package conversation

import "context"

// SessionRepository stores one transcript per session. Writes replace the
// previous state; the last writer wins.
type SessionRepository interface {
	// GetState returns an empty state when the session has none
	GetState(ctx context.Context, sessionID string) (*State, error)
	SaveState(ctx context.Context, sessionID string, state *State) error
}
