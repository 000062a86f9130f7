package session

import (
	"context"
	"strings"
)

// Session is one chat conversation as listed in the sidebar.
// Timestamps are ISO-8601 strings as stored.
type Session struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	ActorID   string `json:"actor_id"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Actor identifies whose sessions are listed.
type Actor struct {
	ID string
}

// Valid reports whether the actor carries a usable ID.
func (a Actor) Valid() bool {
	return strings.TrimSpace(a.ID) != ""
}

// Lister lists an actor's sessions, most recently updated first.
type Lister interface {
	ListSessions(ctx context.Context, actor Actor) ([]Session, error)
}

// Getter fetches a single session by ID.
type Getter interface {
	GetSession(ctx context.Context, id string) (*Session, error)
}

// ListerFunc adapts a function to the Lister interface.
type ListerFunc func(ctx context.Context, actor Actor) ([]Session, error)

// ListSessions calls f(ctx, actor).
func (f ListerFunc) ListSessions(ctx context.Context, actor Actor) ([]Session, error) {
	return f(ctx, actor)
}
