// Package session defines recall's chat sessions and the store that lists them.
//
// # Overview
//
// A session is one conversation owned by an actor. The sidebar only ever
// consumes the Lister interface, so anything that can list an actor's sessions
// (the SQLite Store here, or a fake in tests) can back it.
//
// # Storage
//
// Store persists sessions to the search_sessions table of a SQLite database
// using the pure-Go modernc.org/sqlite driver:
//
//	id          TEXT PRIMARY KEY
//	title       TEXT NOT NULL
//	actor_id    TEXT NOT NULL
//	created_at  TEXT NOT NULL  -- UTC, 2006-01-02T15:04:05.000000Z
//	updated_at  TEXT NOT NULL
//
// Timestamps are fixed-width so that ORDER BY updated_at sorts them
// chronologically. Rows written by other tools with zone-less ISO timestamps
// are still readable; timefmt.Parse treats them as UTC.
package session
