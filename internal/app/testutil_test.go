package app

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/recall/internal/config"
	perrors "github.com/zhubert/recall/internal/errors"
	"github.com/zhubert/recall/internal/keys"
	"github.com/zhubert/recall/internal/session"
	"github.com/zhubert/recall/internal/ui"
)

// fakeSessions is an in-memory SessionService.
type fakeSessions struct {
	mu       sync.Mutex
	sessions []session.Session
	listErr  error
	calls    int
}

func (f *fakeSessions) ListSessions(ctx context.Context, actor session.Actor) ([]session.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]session.Session, len(f.sessions))
	copy(out, f.sessions)
	return out, nil
}

func (f *fakeSessions) GetSession(ctx context.Context, id string) (*session.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sessions {
		if s.ID == id {
			s := s
			return &s, nil
		}
	}
	return nil, perrors.SessionNotFound(id)
}

func testSessions() *fakeSessions {
	return &fakeSessions{sessions: []session.Session{
		{ID: "s1", Title: "Quarterly planning", ActorID: "actor-1", CreatedAt: "2024-05-01T10:00:00Z", UpdatedAt: "2024-05-01T11:55:00Z"},
		{ID: "s2", Title: "Recipe ideas", ActorID: "actor-1", CreatedAt: "2024-04-30T10:00:00Z", UpdatedAt: "2024-05-01T09:00:00Z"},
		{ID: "s3", Title: "Trip to Lisbon", ActorID: "actor-1", CreatedAt: "2024-04-20T10:00:00Z", UpdatedAt: "2024-04-28T12:00:00Z"},
	}}
}

// testConfig creates a config that never touches the user's home directory.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.New(filepath.Join(t.TempDir(), "config.json"))
	cfg.SetActorID("actor-1")
	// Keeps Init free of spinner ticks
	cfg.SetShowLoading(false)
	return cfg
}

// testModel creates a test Model with stubbed clipboard and notifications.
func testModel(t *testing.T, svc SessionService, opts Options) *Model {
	t.Helper()
	opts.Sessions = svc
	if opts.Actor.ID == "" {
		opts.Actor = session.Actor{ID: "actor-1"}
	}
	m := New(testConfig(t), opts)
	m.copyText = func(string) error { return nil }
	m.notify = func(string) error { return nil }
	t.Cleanup(m.Close)
	return m
}

// testModelWithSize creates a test Model, sets its size and runs Init.
func testModelWithSize(t *testing.T, svc SessionService, opts Options, width, height int) *Model {
	t.Helper()
	m := testModel(t, svc, opts)
	m.Update(tea.WindowSizeMsg{Width: width, Height: height})
	deliver(m, m.Init())
	return m
}

// collect runs cmd and flattens batches into their messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// deliver runs cmd and feeds the resulting messages back into m, following
// any commands they produce. Flash ticks are not fed back so a live flash
// can't loop.
func deliver(m *Model, cmd tea.Cmd) {
	for _, msg := range collect(cmd) {
		if _, ok := msg.(ui.FlashTickMsg); ok {
			continue
		}
		_, next := m.Update(msg)
		deliver(m, next)
	}
}

// keyPress creates a tea.KeyPressMsg for the given key string.
// Examples: "a", "enter", "tab", "esc", "ctrl+c", "up", "down"
func keyPress(key string) tea.KeyPressMsg {
	switch key {
	case keys.Enter:
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case keys.Tab:
		return tea.KeyPressMsg{Code: tea.KeyTab}
	case keys.Escape:
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case keys.Up:
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case keys.Down:
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case keys.Home:
		return tea.KeyPressMsg{Code: tea.KeyHome}
	case keys.End:
		return tea.KeyPressMsg{Code: tea.KeyEnd}
	case keys.CtrlC:
		return tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl}
	case keys.CtrlB:
		return tea.KeyPressMsg{Code: 'b', Mod: tea.ModCtrl}
	case keys.CtrlN:
		return tea.KeyPressMsg{Code: 'n', Mod: tea.ModCtrl}
	case keys.CtrlR:
		return tea.KeyPressMsg{Code: 'r', Mod: tea.ModCtrl}
	default:
		// Regular character - for single characters, set both Code and Text
		if len(key) == 1 {
			return tea.KeyPressMsg{Code: rune(key[0]), Text: key}
		}
		// Fallback for unknown keys
		return tea.KeyPressMsg{Text: key}
	}
}

// sendKey presses key and delivers whatever it produces.
func sendKey(m *Model, key string) {
	_, cmd := m.Update(keyPress(key))
	deliver(m, cmd)
}
