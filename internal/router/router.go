// Package router holds recall's in-app navigation state: the current route
// and a back stack. Routes mirror URL paths (/home, /session/<id>) so they
// can be copied, logged and passed on the command line.
package router

import (
	"strings"
	"unicode"

	perrors "github.com/zhubert/recall/internal/errors"
	"github.com/zhubert/recall/internal/logger"
)

// Kind is the destination type of a route.
type Kind int

const (
	KindHome Kind = iota
	KindSession
)

const (
	homePath      = "/home"
	sessionPrefix = "/session/"
)

// Route is a navigation destination.
type Route struct {
	Kind      Kind
	SessionID string
}

// Home is the new-chat landing route.
func Home() Route {
	return Route{Kind: KindHome}
}

// SessionRoute is the route for one chat session.
func SessionRoute(id string) Route {
	return Route{Kind: KindSession, SessionID: id}
}

// Path renders the route as a URL path.
func (r Route) Path() string {
	if r.Kind == KindSession {
		return sessionPrefix + r.SessionID
	}
	return homePath
}

func (r Route) String() string {
	return r.Path()
}

// IsHome reports whether r is the home route.
func (r Route) IsHome() bool {
	return r.Kind == KindHome
}

// Validate checks that r can be navigated to.
func (r Route) Validate() error {
	if r.Kind == KindSession {
		return ValidateSessionID(r.SessionID)
	}
	return nil
}

// ValidateSessionID rejects IDs that cannot form a single path segment.
func ValidateSessionID(id string) error {
	if strings.TrimSpace(id) == "" {
		return perrors.InvalidSessionID(id, "empty")
	}
	for _, r := range id {
		switch {
		case r == '/' || r == '?' || r == '#':
			return perrors.InvalidSessionID(id, "contains '"+string(r)+"'")
		case unicode.IsControl(r):
			return perrors.InvalidSessionID(id, "contains a control character")
		}
	}
	return nil
}

// ParsePath is the inverse of Route.Path. "" and "/" map to Home.
func ParsePath(path string) (Route, error) {
	switch path {
	case "", "/", homePath:
		return Home(), nil
	}
	if id, ok := strings.CutPrefix(path, sessionPrefix); ok {
		if err := ValidateSessionID(id); err != nil {
			return Route{}, err
		}
		return SessionRoute(id), nil
	}
	return Route{}, perrors.E(perrors.Op("router.ParsePath"), perrors.KindNavigation, "unknown route "+path)
}

// Router tracks the current route and the routes visited before it.
// It is owned by the Bubble Tea model and is not safe for concurrent use.
type Router struct {
	current Route
	history []Route
}

// New returns a router positioned at start.
func New(start Route) *Router {
	return &Router{current: start}
}

// Current returns the active route.
func (r *Router) Current() Route {
	return r.current
}

// History returns a copy of the back stack, oldest first.
func (r *Router) History() []Route {
	h := make([]Route, len(r.history))
	copy(h, r.history)
	return h
}

// Push navigates to route. Pushing the current route is a no-op and reports false.
func (r *Router) Push(route Route) (bool, error) {
	if err := route.Validate(); err != nil {
		return false, perrors.E(perrors.Op("router.Push"), perrors.KindNavigation, route.Path(), err)
	}
	if route == r.current {
		return false, nil
	}
	r.history = append(r.history, r.current)
	r.current = route
	logger.WithComponent("router").Debug("navigated", "path", route.Path(), "depth", len(r.history))
	return true, nil
}

// Back returns to the previous route. It reports false when there is none.
func (r *Router) Back() (Route, bool) {
	if len(r.history) == 0 {
		return r.current, false
	}
	last := len(r.history) - 1
	r.current = r.history[last]
	r.history = r.history[:last]
	return r.current, true
}
