package session

import (
	"context"
	"database/sql"
	"slices"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	perrors "github.com/zhubert/recall/internal/errors"
	"github.com/zhubert/recall/internal/logger"
	"github.com/zhubert/recall/internal/timefmt"
)

// TimestampLayout is the fixed-width UTC layout the store writes.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS search_sessions (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		actor_id TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_search_sessions_actor_updated
		ON search_sessions (actor_id, updated_at DESC)`,
}

const selectColumns = `SELECT id, title, actor_id, created_at, updated_at FROM search_sessions`

// Store is a SQLite-backed session store.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the session database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, perrors.StoreOpenFailed(path, err)
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, perrors.StoreOpenFailed(path, err)
		}
	}

	logger.WithComponent("store").Debug("session store opened", "path", path)
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(TimestampLayout)
}

// ListSessions returns the actor's sessions, most recently updated first.
func (s *Store) ListSessions(ctx context.Context, actor Actor) ([]Session, error) {
	if !actor.Valid() {
		return nil, perrors.InvalidActor()
	}

	rows, err := s.db.QueryContext(ctx,
		selectColumns+` WHERE actor_id = ? ORDER BY updated_at DESC, rowid DESC`, actor.ID)
	if err != nil {
		return nil, classify(ctx, "session.List", err, perrors.SessionListFailed(actor.ID, err))
	}
	sessions, err := scanSessions(rows)
	if err != nil {
		return nil, classify(ctx, "session.List", err, perrors.SessionListFailed(actor.ID, err))
	}
	sortNewestFirst(sessions)
	return sessions, nil
}

// ListAllSessions returns every session regardless of actor.
func (s *Store) ListAllSessions(ctx context.Context) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+` ORDER BY updated_at DESC, rowid DESC`)
	if err != nil {
		return nil, classify(ctx, "session.List", err, perrors.SessionListFailed("*", err))
	}
	sessions, err := scanSessions(rows)
	if err != nil {
		return nil, classify(ctx, "session.List", err, perrors.SessionListFailed("*", err))
	}
	sortNewestFirst(sessions)
	return sessions, nil
}

// sortNewestFirst orders sessions by the instant of updated_at. Rows written
// by other tools use other timestamp formats, so the SQL text order is only
// the tie break. Unparseable timestamps sort last.
func sortNewestFirst(sessions []Session) {
	instants := make(map[string]time.Time, len(sessions))
	for _, sess := range sessions {
		if t, err := timefmt.Parse(sess.UpdatedAt); err == nil {
			instants[sess.ID] = t
		}
	}
	slices.SortStableFunc(sessions, func(a, b Session) int {
		ta, okA := instants[a.ID]
		tb, okB := instants[b.ID]
		switch {
		case okA && okB:
			return tb.Compare(ta)
		case okA:
			return -1
		case okB:
			return 1
		}
		return 0
	})
}

func scanSessions(rows *sql.Rows) ([]Session, error) {
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.ID, &sess.Title, &sess.ActorID, &sess.CreatedAt, &sess.UpdatedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// GetSession returns a single session, or a not-found error.
func (s *Store) GetSession(ctx context.Context, id string) (*Session, error) {
	var sess Session
	err := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id).
		Scan(&sess.ID, &sess.Title, &sess.ActorID, &sess.CreatedAt, &sess.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, perrors.SessionNotFound(id)
	}
	if err != nil {
		return nil, classify(ctx, "session.Get", err, perrors.E(perrors.Op("session.Get"), perrors.KindStore, err))
	}
	return &sess, nil
}

// CreateSession inserts a new session owned by actor.
func (s *Store) CreateSession(ctx context.Context, actor Actor, title string) (*Session, error) {
	if !actor.Valid() {
		return nil, perrors.E(perrors.Op("session.Create"), perrors.KindInvalid, "actor id is required")
	}

	ts := s.timestamp()
	sess := &Session{
		ID:        uuid.New().String(),
		Title:     title,
		ActorID:   actor.ID,
		CreatedAt: ts,
		UpdatedAt: ts,
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO search_sessions (id, title, actor_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		sess.ID, sess.Title, sess.ActorID, sess.CreatedAt, sess.UpdatedAt)
	if err != nil {
		return nil, classify(ctx, "session.Create", err, perrors.E(perrors.Op("session.Create"), perrors.KindStore, err))
	}

	logger.WithSession(sess.ID).Info("session created", "actor", actor.ID)
	return sess, nil
}

// TouchSession bumps a session's updated_at to now.
func (s *Store) TouchSession(ctx context.Context, id string) error {
	return s.execOne(ctx, perrors.Op("session.Touch"), id,
		`UPDATE search_sessions SET updated_at = ? WHERE id = ?`, s.timestamp(), id)
}

// DeleteSession removes a session.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	err := s.execOne(ctx, perrors.Op("session.Delete"), id,
		`DELETE FROM search_sessions WHERE id = ?`, id)
	if err == nil {
		logger.WithSession(id).Info("session deleted")
	}
	return err
}

// execOne runs a statement that must affect exactly the row for id.
func (s *Store) execOne(ctx context.Context, op perrors.Op, id, query string, args ...interface{}) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return classify(ctx, op, err, perrors.E(op, perrors.KindStore, err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return perrors.E(op, perrors.KindStore, err)
	}
	if n == 0 {
		return perrors.SessionNotFound(id)
	}
	return nil
}

// classify reports context failures as timeouts or cancellations so callers
// can tell them from a broken store.
func classify(ctx context.Context, op perrors.Op, err, fallback error) error {
	switch ctx.Err() {
	case context.DeadlineExceeded:
		return perrors.E(op, perrors.KindTimeout, err)
	case context.Canceled:
		return perrors.E(op, perrors.KindCanceled, err)
	}
	return fallback
}
