// Package session owns conversation state. The Store interface is injected
// into the chat service so the in-memory map used in development and tests
// can be swapped for the Postgres-backed store without touching handlers.
package session

import (
	"context"
	"errors"

	"github.com/lumabay/storechat/internal/model/chat"
)

var ErrSessionNotFound = errors.New("session not found")

// Store persists sessions and their ordered turn history.
type Store interface {
	// GetOrCreate returns the session for id, lazily creating an empty one
	// when the id is unknown. An empty id yields a freshly generated
	// identifier. Caller-supplied ids are accepted as-is; the demo scope
	// does not validate their provenance.
	GetOrCreate(ctx context.Context, id string) (chat.Session, error)

	// Turns returns the session's history in append order.
	Turns(ctx context.Context, sessionID string) ([]chat.Turn, error)

	// AppendTurn adds a turn to the end of the session's history.
	AppendTurn(ctx context.Context, sessionID string, turn chat.Turn) error
}
