package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	perrors "github.com/zhubert/recall/internal/errors"
)

// newTestStore opens a store in a temp dir whose clock advances one minute
// per write, starting at base.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	clock := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return s
}

func mustCreate(t *testing.T, s *Store, actor Actor, title string) *Session {
	t.Helper()
	sess, err := s.CreateSession(context.Background(), actor, title)
	if err != nil {
		t.Fatalf("CreateSession(%q) error = %v", title, err)
	}
	return sess
}

func TestOpen_BadPath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "dir", "s.db"))
	if !perrors.Is(err, perrors.KindStore) {
		t.Errorf("Open() error = %v, want store error", err)
	}
}

func TestCreateSession(t *testing.T) {
	s := newTestStore(t)
	actor := Actor{ID: "actor-1"}

	sess := mustCreate(t, s, actor, "Quarterly report")

	if sess.ID == "" {
		t.Error("ID should be assigned")
	}
	if sess.ActorID != "actor-1" {
		t.Errorf("ActorID = %q", sess.ActorID)
	}
	if sess.CreatedAt != "2024-06-15T12:01:00.000000Z" {
		t.Errorf("CreatedAt = %q", sess.CreatedAt)
	}
	if sess.UpdatedAt != sess.CreatedAt {
		t.Errorf("UpdatedAt = %q, want %q", sess.UpdatedAt, sess.CreatedAt)
	}

	got, err := s.GetSession(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if *got != *sess {
		t.Errorf("GetSession() = %+v, want %+v", got, sess)
	}
}

func TestCreateSession_InvalidActor(t *testing.T) {
	s := newTestStore(t)

	_, err := s.CreateSession(context.Background(), Actor{ID: " "}, "x")
	if !perrors.Is(err, perrors.KindInvalid) {
		t.Errorf("error = %v, want invalid", err)
	}
}

func TestListSessions_OrderAndScope(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := Actor{ID: "alice"}
	bob := Actor{ID: "bob"}

	first := mustCreate(t, s, alice, "first")
	second := mustCreate(t, s, alice, "second")
	mustCreate(t, s, bob, "bob's")
	third := mustCreate(t, s, alice, "third")

	got, err := s.ListSessions(ctx, alice)
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}
	want := []string{third.ID, second.ID, first.ID}
	if len(got) != len(want) {
		t.Fatalf("ListSessions() returned %d sessions, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("sessions[%d] = %q (%s), want %q", i, got[i].ID, got[i].Title, id)
		}
	}

	// Touching moves a session to the top
	if err := s.TouchSession(ctx, first.ID); err != nil {
		t.Fatalf("TouchSession() error = %v", err)
	}
	got, _ = s.ListSessions(ctx, alice)
	if got[0].ID != first.ID {
		t.Errorf("after touch sessions[0] = %q, want %q", got[0].Title, "first")
	}
}

func TestListSessions_EmptyIsNotNil(t *testing.T) {
	s := newTestStore(t)

	got, err := s.ListSessions(context.Background(), Actor{ID: "nobody"})
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("ListSessions() = %#v, want empty non-nil slice", got)
	}
}

func TestListSessions_InvalidActor(t *testing.T) {
	s := newTestStore(t)

	_, err := s.ListSessions(context.Background(), Actor{})
	if !perrors.Is(err, perrors.KindInvalid) {
		t.Errorf("error = %v, want invalid", err)
	}
}

func TestListSessions_CanceledContext(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.ListSessions(ctx, Actor{ID: "a"})
	if err == nil {
		t.Fatal("expected error for canceled context")
	}
	if !perrors.Is(err, perrors.KindCanceled) {
		t.Errorf("error kind = %v, want canceled", perrors.GetKind(err))
	}
}

func TestListAllSessions(t *testing.T) {
	s := newTestStore(t)
	mustCreate(t, s, Actor{ID: "a"}, "one")
	mustCreate(t, s, Actor{ID: "b"}, "two")

	got, err := s.ListAllSessions(context.Background())
	if err != nil {
		t.Fatalf("ListAllSessions() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListAllSessions() returned %d, want 2", len(got))
	}
	if got[0].Title != "two" {
		t.Errorf("most recent first: got %q", got[0].Title)
	}
}

func TestGetSession_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetSession(context.Background(), "missing")
	if !perrors.Is(err, perrors.KindNotFound) {
		t.Errorf("error = %v, want not found", err)
	}
}

func TestDeleteSession(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	sess := mustCreate(t, s, Actor{ID: "a"}, "doomed")

	if err := s.DeleteSession(ctx, sess.ID); err != nil {
		t.Fatalf("DeleteSession() error = %v", err)
	}
	if _, err := s.GetSession(ctx, sess.ID); !perrors.Is(err, perrors.KindNotFound) {
		t.Errorf("deleted session still readable: %v", err)
	}
	if err := s.DeleteSession(ctx, sess.ID); !perrors.Is(err, perrors.KindNotFound) {
		t.Errorf("second delete error = %v, want not found", err)
	}
	if err := s.TouchSession(ctx, sess.ID); !perrors.Is(err, perrors.KindNotFound) {
		t.Errorf("touch of deleted session error = %v, want not found", err)
	}
}

func TestStore_ReadsForeignTimestamps(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Rows written by other tools keep their own timestamp format
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO search_sessions (id, title, actor_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		"py-1", "from python", "a", "2024-06-15T11:55:00.123456", "2024-06-15T11:55:00.123456")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := s.GetSession(ctx, "py-1")
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if got.UpdatedAt != "2024-06-15T11:55:00.123456" {
		t.Errorf("UpdatedAt = %q, should be returned as stored", got.UpdatedAt)
	}
}

func TestStore_ListOrdersMixedTimestampsByInstant(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rows := []struct{ id, updated string }{
		{"native-1201", "2024-06-15T12:01:00.000000Z"},
		{"sqlite-1300", "2024-06-15 13:00:00"},
		{"offset-1100", "2024-06-15T13:00:00+02:00"},
		{"garbage", "not a time"},
		{"python-1230", "2024-06-15T12:30:00.123456"},
	}
	for _, r := range rows {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO search_sessions (id, title, actor_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
			r.id, r.id, "a", r.updated, r.updated)
		if err != nil {
			t.Fatalf("insert %s: %v", r.id, err)
		}
	}

	want := []string{"sqlite-1300", "python-1230", "native-1201", "offset-1100", "garbage"}

	list, err := s.ListSessions(ctx, Actor{ID: "a"})
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}
	all, err := s.ListAllSessions(ctx)
	if err != nil {
		t.Fatalf("ListAllSessions() error = %v", err)
	}

	for name, got := range map[string][]Session{"ListSessions": list, "ListAllSessions": all} {
		if len(got) != len(want) {
			t.Fatalf("%s returned %d sessions, want %d", name, len(got), len(want))
		}
		for i, id := range want {
			if got[i].ID != id {
				t.Errorf("%s[%d] = %s, want %s", name, i, got[i].ID, id)
			}
		}
	}
}

func TestListerFunc(t *testing.T) {
	called := false
	var l Lister = ListerFunc(func(ctx context.Context, actor Actor) ([]Session, error) {
		called = true
		return []Session{{ID: actor.ID}}, nil
	})

	got, err := l.ListSessions(context.Background(), Actor{ID: "x"})
	if err != nil || !called || len(got) != 1 || got[0].ID != "x" {
		t.Errorf("ListerFunc did not delegate: %v %v %v", got, err, called)
	}
}

func TestActor_Valid(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"", false},
		{"   ", false},
		{"abc", true},
	}
	for _, tt := range tests {
		if got := (Actor{ID: tt.id}).Valid(); got != tt.want {
			t.Errorf("Actor{%q}.Valid() = %v, want %v", tt.id, got, tt.want)
		}
	}
}
