package ui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/zhubert/recall/internal/router"
	"github.com/zhubert/recall/internal/session"
)

var sidebarNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func testSessions() []session.Session {
	return []session.Session{
		{ID: "s1", Title: "Quarterly planning", UpdatedAt: "2024-05-01T11:55:00Z"},
		{ID: "s2", Title: "Recipe ideas", UpdatedAt: "2024-05-01T09:00:00Z"},
		{ID: "s3", Title: "Trip to Lisbon", UpdatedAt: "2024-04-28T12:00:00Z"},
	}
}

func staticLister(sessions []session.Session, err error) session.Lister {
	return session.ListerFunc(func(ctx context.Context, actor session.Actor) ([]session.Session, error) {
		return sessions, err
	})
}

func newTestSidebar(opts SidebarOptions) *Sidebar {
	s := NewSidebar(opts)
	s.now = func() time.Time { return sidebarNow }
	s.SetSize(60, 40)
	return s
}

// loadedSidebar returns an open sidebar that has completed one fetch.
func loadedSidebar(t *testing.T, sessions []session.Session) *Sidebar {
	t.Helper()
	s := newTestSidebar(SidebarOptions{})
	cmd := s.Mount(context.Background(), staticLister(sessions, nil), session.Actor{ID: "actor-1"})
	s.Update(cmd())
	s.Open()
	return s
}

func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	return cmd()
}

func TestSidebar_InitialState(t *testing.T) {
	s := NewSidebar(SidebarOptions{})

	if s.IsOpen() {
		t.Error("sidebar should start closed")
	}
	if s.Width() != RailWidth {
		t.Errorf("closed width = %d, want %d", s.Width(), RailWidth)
	}
	if s.Loading() || s.IsMounted() {
		t.Error("new sidebar should be idle and unmounted")
	}
	if s.Sessions() == nil || len(s.Sessions()) != 0 {
		t.Error("sessions should start empty and non-nil")
	}
}

func TestSidebar_MountLoadsSessions(t *testing.T) {
	s := newTestSidebar(SidebarOptions{})

	cmd := s.Mount(context.Background(), staticLister(testSessions(), nil), session.Actor{ID: "actor-1"})
	if !s.Loading() {
		t.Error("loading should be true while the fetch is in flight")
	}
	if s.Generation() != 1 {
		t.Errorf("generation = %d, want 1", s.Generation())
	}

	msg, ok := runCmd(t, cmd).(SessionsLoadedMsg)
	if !ok {
		t.Fatalf("expected SessionsLoadedMsg")
	}
	s.Update(msg)

	if s.Loading() {
		t.Error("loading should be false after the fetch completes")
	}
	got := s.Sessions()
	if len(got) != 3 {
		t.Fatalf("got %d sessions, want 3", len(got))
	}
	for i, want := range []string{"s1", "s2", "s3"} {
		if got[i].ID != want {
			t.Errorf("sessions[%d] = %s, want %s", i, got[i].ID, want)
		}
	}
}

func TestSidebar_ListerReceivesActor(t *testing.T) {
	s := newTestSidebar(SidebarOptions{})

	var gotActor session.Actor
	lister := session.ListerFunc(func(ctx context.Context, actor session.Actor) ([]session.Session, error) {
		gotActor = actor
		return nil, nil
	})
	cmd := s.Mount(context.Background(), lister, session.Actor{ID: "actor-42"})
	s.Update(cmd())

	if gotActor.ID != "actor-42" {
		t.Errorf("lister got actor %q, want actor-42", gotActor.ID)
	}
	if s.Sessions() == nil {
		t.Error("nil result should become an empty list")
	}
}

func TestSidebar_FetchFailure(t *testing.T) {
	s := loadedSidebar(t, testSessions())

	s.Refresh()
	if s.Err() != nil {
		t.Error("starting a fetch should clear the previous error")
	}
	s.Update(SessionsLoadedMsg{Generation: s.Generation(), Err: errors.New("boom")})

	if s.Loading() {
		t.Error("loading should be false after a failed fetch")
	}
	if s.Err() == nil {
		t.Error("error should be recorded")
	}
	if len(s.Sessions()) != 0 {
		t.Error("sessions should be cleared on failure")
	}
	if !strings.Contains(ansi.Strip(s.View()), "Couldn't load sessions") {
		t.Error("view should show the error state")
	}
}

func TestSidebar_StaleGenerationDropped(t *testing.T) {
	s := newTestSidebar(SidebarOptions{})
	first := s.Mount(context.Background(), staticLister(testSessions()[:1], nil), session.Actor{ID: "a"})
	firstMsg := first()

	s.Refresh()
	s.Update(firstMsg)

	if !s.Loading() {
		t.Error("a stale result must not end the current fetch")
	}
	if len(s.Sessions()) != 0 {
		t.Error("a stale result must not replace sessions")
	}
}

func TestSidebar_ResultAfterUnmountDropped(t *testing.T) {
	s := newTestSidebar(SidebarOptions{})
	cmd := s.Mount(context.Background(), staticLister(testSessions(), nil), session.Actor{ID: "a"})

	s.Unmount()
	s.Update(cmd())

	if s.IsMounted() {
		t.Error("sidebar should be unmounted")
	}
	if len(s.Sessions()) != 0 {
		t.Error("result delivered after unmount must be ignored")
	}
	if s.Refresh() != nil {
		t.Error("Refresh after unmount should do nothing")
	}
}

func TestSidebar_UnmountCancelsFetch(t *testing.T) {
	s := newTestSidebar(SidebarOptions{})

	lister := session.ListerFunc(func(ctx context.Context, actor session.Actor) ([]session.Session, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	cmd := s.Mount(context.Background(), lister, session.Actor{ID: "a"})

	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	s.Unmount()

	select {
	case msg := <-done:
		loaded := msg.(SessionsLoadedMsg)
		if !errors.Is(loaded.Err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", loaded.Err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("fetch was not canceled by Unmount")
	}
}

func TestSidebar_FetchTimeout(t *testing.T) {
	s := newTestSidebar(SidebarOptions{FetchTimeout: 10 * time.Millisecond})

	lister := session.ListerFunc(func(ctx context.Context, actor session.Actor) ([]session.Session, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	cmd := s.Mount(context.Background(), lister, session.Actor{ID: "a"})
	s.Update(cmd())

	if !errors.Is(s.Err(), context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", s.Err())
	}
	if s.Loading() {
		t.Error("loading should end on timeout")
	}
}

func TestSidebar_NoListerReportsError(t *testing.T) {
	s := newTestSidebar(SidebarOptions{})
	cmd := s.Mount(context.Background(), nil, session.Actor{ID: "a"})
	s.Update(cmd())

	if s.Err() == nil {
		t.Error("missing lister should surface as a load error")
	}
}

func TestSidebar_OpenCloseRoundTrip(t *testing.T) {
	s := NewSidebar(SidebarOptions{})

	s.Open()
	if !s.IsOpen() {
		t.Error("Open should show the panel")
	}
	s.Close()
	if s.IsOpen() {
		t.Error("Close should hide the panel")
	}

	s.Toggle()
	s.Toggle()
	if s.IsOpen() {
		t.Error("two toggles should return to closed")
	}
}

func TestSidebar_Affordances(t *testing.T) {
	s := loadedSidebar(t, testSessions())

	open := ansi.Strip(s.View())
	if !strings.Contains(open, CloseAffordance) {
		t.Error("open sidebar should render the close affordance")
	}
	if strings.Contains(open, OpenAffordance) {
		t.Error("open sidebar should not render the open affordance")
	}

	s.Close()
	closed := ansi.Strip(s.View())
	if !strings.Contains(closed, OpenAffordance) {
		t.Error("closed sidebar should render the open affordance")
	}
	if strings.Contains(closed, CloseAffordance) {
		t.Error("closed sidebar should not render the close affordance")
	}
}

func TestSidebar_ViewSections(t *testing.T) {
	s := loadedSidebar(t, testSessions())
	view := ansi.Strip(s.View())

	for _, want := range []string{
		"+ New Chat",
		"Search chats",
		"Folder", "8",
		"Favorite", "15",
		"Archive", "36",
		"Quarterly planning", "Recipe ideas", "Trip to Lisbon",
		"5 minutes ago", "3 hours ago", "3 days ago",
		"to provide you with more",
		"Settings", "Help",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	// Section order
	order := []string{"+ New Chat", "Folder", "Quarterly planning", "Trip to Lisbon", "Settings", "Help", CloseAffordance}
	last := -1
	for _, w := range order {
		idx := strings.Index(view, w)
		if idx <= last {
			t.Errorf("%q is out of order", w)
		}
		last = idx
	}
}

func TestSidebar_StateLines(t *testing.T) {
	tests := []struct {
		name    string
		opts    SidebarOptions
		setup   func(s *Sidebar)
		want    string
		notWant string
	}{
		{
			name: "empty",
			setup: func(s *Sidebar) {
				cmd := s.Mount(context.Background(), staticLister(nil, nil), session.Actor{ID: "a"})
				s.Update(cmd())
			},
			want: "No sessions yet.",
		},
		{
			name: "loading shown",
			opts: SidebarOptions{ShowLoading: true},
			setup: func(s *Sidebar) {
				s.Mount(context.Background(), staticLister(nil, nil), session.Actor{ID: "a"})
			},
			want:    "Loading...",
			notWant: "No sessions yet.",
		},
		{
			name: "loading hidden",
			opts: SidebarOptions{ShowLoading: false},
			setup: func(s *Sidebar) {
				s.Mount(context.Background(), staticLister(nil, nil), session.Actor{ID: "a"})
			},
			notWant: "Loading...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSidebar(tt.opts)
			s.Open()
			tt.setup(s)
			view := ansi.Strip(s.View())
			if tt.want != "" && !strings.Contains(view, tt.want) {
				t.Errorf("view missing %q", tt.want)
			}
			if tt.notWant != "" && strings.Contains(view, tt.notWant) {
				t.Errorf("view should not contain %q", tt.notWant)
			}
		})
	}
}

func TestSidebar_SpinnerTicks(t *testing.T) {
	s := newTestSidebar(SidebarOptions{ShowLoading: true})
	cmd := s.Mount(context.Background(), staticLister(nil, nil), session.Actor{ID: "a"})
	if cmd == nil {
		t.Fatal("expected fetch command")
	}

	if _, next := s.Update(SidebarTickMsg(time.Now())); next == nil {
		t.Error("spinner should keep ticking while loading")
	}

	s.Update(SessionsLoadedMsg{Generation: s.Generation()})
	if _, next := s.Update(SidebarTickMsg(time.Now())); next != nil {
		t.Error("spinner should stop once loading ends")
	}
}

func TestSidebar_NewChat(t *testing.T) {
	s := loadedSidebar(t, testSessions())
	before := s.Cursor()

	msg, ok := runCmd(t, s.NewChat()).(NavigateMsg)
	if !ok {
		t.Fatal("expected NavigateMsg")
	}
	if !msg.Route.IsHome() {
		t.Errorf("route = %v, want /home", msg.Route)
	}
	if s.Cursor() != before || !s.IsOpen() {
		t.Error("NewChat should not change sidebar state")
	}
}

func TestSidebar_GoToChat(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantNav bool
	}{
		{"valid", "abc-123", true},
		{"empty", "", false},
		{"whitespace", "   ", false},
		{"slash", "a/b", false},
		{"query", "a?b", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSidebar(SidebarOptions{})
			msg := runCmd(t, s.GoToChat(tt.id))

			switch m := msg.(type) {
			case NavigateMsg:
				if !tt.wantNav {
					t.Fatalf("expected navigation to be refused for %q", tt.id)
				}
				if m.Route != router.SessionRoute(tt.id) {
					t.Errorf("route = %v", m.Route)
				}
			case NavigationErrorMsg:
				if tt.wantNav {
					t.Fatalf("unexpected error: %v", m.Err)
				}
				if m.Err == nil {
					t.Error("NavigationErrorMsg should carry an error")
				}
			default:
				t.Fatalf("unexpected msg %T", msg)
			}
		})
	}
}

func TestSidebar_KeyboardNavigation(t *testing.T) {
	s := loadedSidebar(t, testSessions())
	s.SetFocused(true)

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: 'j', Text: "j"})
	if s.Cursor() != 2 {
		t.Fatalf("cursor = %d, want 2", s.Cursor())
	}

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	msg, ok := runCmd(t, cmd).(NavigateMsg)
	if !ok || msg.Route != router.SessionRoute("s2") {
		t.Errorf("enter should navigate to s2, got %#v", msg)
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnd})
	if s.Cursor() != 3 {
		t.Errorf("end: cursor = %d, want 3", s.Cursor())
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if s.Cursor() != 3 {
		t.Error("cursor should clamp at the last session")
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyHome})
	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if s.Cursor() != 0 {
		t.Error("cursor should clamp at New Chat")
	}

	_, cmd = s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if msg, ok := runCmd(t, cmd).(NavigateMsg); !ok || !msg.Route.IsHome() {
		t.Error("enter on New Chat should navigate home")
	}
}

func TestSidebar_KeysIgnoredWhenUnfocused(t *testing.T) {
	s := loadedSidebar(t, testSessions())

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if cmd != nil || s.Cursor() != 0 {
		t.Error("unfocused sidebar should ignore keys")
	}
}

func TestSidebar_SetSelectedSession(t *testing.T) {
	s := loadedSidebar(t, testSessions())

	s.SetSelectedSession("s3")
	if s.SelectedSessionID() != "s3" {
		t.Errorf("selected = %q", s.SelectedSessionID())
	}
	if s.Cursor() != 3 {
		t.Errorf("cursor should follow the selection, got %d", s.Cursor())
	}

	s.SetSelectedSession("")
	if s.SelectedSessionID() != "" {
		t.Error("empty id should clear the selection")
	}
	if s.Cursor() != 0 {
		t.Errorf("clearing the selection should move the cursor to New Chat, got %d", s.Cursor())
	}
}

func TestSidebar_ClickFollowsHitTest(t *testing.T) {
	s := loadedSidebar(t, testSessions())

	// Each session takes two rows; s2 starts two rows below s1
	row := 1 + 6 + 2
	action, id := s.HitTest(row)
	if action != ActionSession || id != "s2" {
		t.Fatalf("HitTest(%d) = %v %q, want session s2", row, action, id)
	}

	msg, ok := runCmd(t, s.Click(5, row)).(NavigateMsg)
	if !ok || msg.Route != router.SessionRoute("s2") {
		t.Fatalf("Click(5, %d) should open s2", row)
	}
	if s.Cursor() != 2 {
		t.Errorf("cursor = %d, want 2 after clicking s2", s.Cursor())
	}
}

func TestSidebar_Click(t *testing.T) {
	s := loadedSidebar(t, testSessions())

	// Row 1 is New Chat, just under the top border
	if action, _ := s.HitTest(1); action != ActionNewChat {
		t.Errorf("HitTest(1) = %v, want ActionNewChat", action)
	}
	msg, ok := runCmd(t, s.Click(5, 1)).(NavigateMsg)
	if !ok || !msg.Route.IsHome() {
		t.Error("clicking New Chat should navigate home")
	}

	// New Chat, search, three static entries and a separator come first
	sessionRow := 1 + 6
	action, id := s.HitTest(sessionRow)
	if action != ActionSession || id != "s1" {
		t.Fatalf("HitTest(%d) = %v %q, want session s1", sessionRow, action, id)
	}
	msg, ok = runCmd(t, s.Click(5, sessionRow+1)).(NavigateMsg)
	if !ok || msg.Route != router.SessionRoute("s1") {
		t.Error("clicking a session's detail line should open it")
	}

	// Static entries are inert
	if s.Click(5, 3) != nil {
		t.Error("static entries should not act")
	}

	closeRow := 40 - 2
	if action, _ := s.HitTest(closeRow); action != ActionClose {
		t.Fatalf("HitTest(%d) = %v, want ActionClose", closeRow, action)
	}
	s.Click(5, closeRow)
	if s.IsOpen() {
		t.Error("clicking the close affordance should close the sidebar")
	}

	if action, _ := s.HitTest(10); action != ActionOpen {
		t.Error("the whole rail should open the sidebar")
	}
	s.Click(1, 10)
	if !s.IsOpen() {
		t.Error("clicking the rail should open the sidebar")
	}
}

func TestSidebar_ClickOutside(t *testing.T) {
	s := loadedSidebar(t, testSessions())
	if s.Click(100, 1) != nil || s.Click(-1, 1) != nil {
		t.Error("clicks outside the sidebar should be ignored")
	}
}

func TestSidebar_LongTitlesFitWidth(t *testing.T) {
	long := []session.Session{{ID: "x", Title: strings.Repeat("very long title ", 10), UpdatedAt: "2024-05-01T11:00:00Z"}}
	s := newTestSidebar(SidebarOptions{})
	cmd := s.Mount(context.Background(), staticLister(long, nil), session.Actor{ID: "a"})
	s.Update(cmd())
	s.Open()
	s.SetSize(30, 30)

	for i, line := range strings.Split(s.View(), "\n") {
		if w := ansi.StringWidth(line); w > 30 {
			t.Errorf("line %d is %d cells wide, want <= 30", i, w)
		}
	}
	if !strings.Contains(ansi.Strip(s.View()), "…") {
		t.Error("long title should be truncated with an ellipsis")
	}
}

func TestSidebar_ScrollKeepsCursorVisible(t *testing.T) {
	var many []session.Session
	for i := 0; i < 30; i++ {
		many = append(many, session.Session{ID: string(rune('a' + i%26)) + "-id", Title: "Chat " + string(rune('A'+i%26)), UpdatedAt: "2024-05-01T11:00:00Z"})
	}
	many[29].Title = "Final chat"

	s := loadedSidebar(t, many)
	s.SetFocused(true)
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnd})

	if !strings.Contains(ansi.Strip(s.View()), "Final chat") {
		t.Error("the cursor's row should be scrolled into view")
	}
	// Bottom section stays pinned
	if !strings.Contains(ansi.Strip(s.View()), "Settings") {
		t.Error("bottom section should stay visible while scrolled")
	}
}

func TestSidebar_Profile(t *testing.T) {
	tests := []struct {
		name string
		opts SidebarOptions
		want []string
	}{
		{"name and plan", SidebarOptions{ProfileName: "Jane Doe", ProfilePlan: "Pro plan"}, []string{"J", "Jane Doe", "Pro plan"}},
		{"falls back to actor", SidebarOptions{}, []string{"actor-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSidebar(tt.opts)
			cmd := s.Mount(context.Background(), staticLister(nil, nil), session.Actor{ID: "actor-1"})
			s.Update(cmd())
			s.Open()

			view := ansi.Strip(s.View())
			for _, w := range tt.want {
				if !strings.Contains(view, w) {
					t.Errorf("view missing %q", w)
				}
			}
		})
	}
}
