package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	perrors "github.com/zhubert/recall/internal/errors"
	"github.com/zhubert/recall/internal/keys"
	"github.com/zhubert/recall/internal/logger"
	"github.com/zhubert/recall/internal/router"
	"github.com/zhubert/recall/internal/session"
	"github.com/zhubert/recall/internal/timefmt"
)

// sidebarTickInterval paces the loading spinner
const sidebarTickInterval = 100 * time.Millisecond

// SidebarTickMsg advances the loading spinner
type SidebarTickMsg time.Time

// SessionsLoadedMsg carries the result of a session fetch. Generation ties it
// to the fetch that produced it.
type SessionsLoadedMsg struct {
	Generation uint64
	Sessions   []session.Session
	Err        error
}

// NavigateMsg asks the app to navigate to Route.
type NavigateMsg struct {
	Route router.Route
}

// NavigationErrorMsg reports a navigation request that was rejected before
// reaching the router.
type NavigationErrorMsg struct {
	SessionID string
	Err       error
}

// SidebarAction is what a click on a sidebar row does.
type SidebarAction int

const (
	ActionNone SidebarAction = iota
	ActionNewChat
	ActionSession
	ActionClose
	ActionOpen
)

// staticEntry is a placeholder navigation entry with a fixed count.
type staticEntry struct {
	Label string
	Count int
}

var staticEntries = []staticEntry{
	{Label: "Folder", Count: 8},
	{Label: "Favorite", Count: 15},
	{Label: "Archive", Count: 36},
}

var footerEntries = []string{"Settings", "Help"}

// sidebarRow is one rendered line of the open sidebar and what clicking it does.
type sidebarRow struct {
	text      string
	action    SidebarAction
	sessionID string
}

// SidebarOptions configures a Sidebar.
type SidebarOptions struct {
	ShowLoading  bool
	FetchTimeout time.Duration // zero disables the timeout
	ProfileName  string
	ProfilePlan  string
}

// Sidebar is the collapsible session history panel
type Sidebar struct {
	opts SidebarOptions

	open              bool
	sessions          []session.Session
	loading           bool
	loadErr           error
	selectedSessionID string
	cursor            int // 0 is New Chat, 1..n are sessions
	focused           bool
	width             int
	height            int
	scrollOffset      int

	// Fetch state
	lister     session.Lister
	actor      session.Actor
	parent     context.Context
	mounted    bool
	generation uint64
	cancel     context.CancelFunc

	spinner     spinner.Model
	ticking     bool
	searchInput textinput.Model

	now func() time.Time
}

// NewSidebar creates a closed, unmounted sidebar
func NewSidebar(opts SidebarOptions) *Sidebar {
	ti := textinput.New()
	ti.Placeholder = "Search chats..."
	ti.Prompt = "/ "
	ti.CharLimit = SidebarSearchCharLimit

	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = StatusLoadingStyle

	return &Sidebar{
		opts:        opts,
		sessions:    []session.Session{},
		spinner:     sp,
		searchInput: ti,
		now:         time.Now,
	}
}

// Mount starts the session fetch for actor. Calling Mount again restarts it.
func (s *Sidebar) Mount(ctx context.Context, lister session.Lister, actor session.Actor) tea.Cmd {
	if ctx == nil {
		ctx = context.Background()
	}
	s.parent = ctx
	s.lister = lister
	s.actor = actor
	s.mounted = true
	return s.fetch()
}

// Refresh re-runs the fetch with the mounted lister and actor.
func (s *Sidebar) Refresh() tea.Cmd {
	if !s.mounted {
		return nil
	}
	return s.fetch()
}

// Unmount cancels any in-flight fetch. Results arriving afterwards are dropped.
func (s *Sidebar) Unmount() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mounted = false
	s.loading = false
	logger.WithComponent("sidebar").Debug("unmounted", "generation", s.generation)
}

func (s *Sidebar) fetch() tea.Cmd {
	log := logger.WithComponent("sidebar")

	if s.cancel != nil {
		s.cancel()
	}
	s.generation++
	s.loading = true
	s.loadErr = nil

	var ctx context.Context
	if s.opts.FetchTimeout > 0 {
		ctx, s.cancel = context.WithTimeout(s.parent, s.opts.FetchTimeout)
	} else {
		ctx, s.cancel = context.WithCancel(s.parent)
	}

	gen := s.generation
	lister := s.lister
	actor := s.actor
	cancel := s.cancel
	log.Debug("fetching sessions", "generation", gen, "actor", actor.ID)

	load := func() tea.Msg {
		defer cancel()
		if lister == nil {
			return SessionsLoadedMsg{Generation: gen, Err: perrors.E(perrors.Op("sidebar.fetch"), perrors.KindConfig, "no session service configured")}
		}
		sessions, err := lister.ListSessions(ctx, actor)
		return SessionsLoadedMsg{Generation: gen, Sessions: sessions, Err: err}
	}

	if s.opts.ShowLoading && !s.ticking {
		s.ticking = true
		return tea.Batch(load, s.tick())
	}
	return load
}

func (s *Sidebar) tick() tea.Cmd {
	return tea.Tick(sidebarTickInterval, func(t time.Time) tea.Msg {
		return SidebarTickMsg(t)
	})
}

// Update handles fetch results, spinner ticks and, while focused, list keys.
func (s *Sidebar) Update(msg tea.Msg) (*Sidebar, tea.Cmd) {
	switch msg := msg.(type) {
	case SessionsLoadedMsg:
		s.handleLoaded(msg)
		return s, nil

	case SidebarTickMsg:
		if !s.loading {
			s.ticking = false
			return s, nil
		}
		s.spinner, _ = s.spinner.Update(spinner.TickMsg{Time: time.Time(msg), ID: s.spinner.ID()})
		return s, s.tick()

	case tea.KeyPressMsg:
		if !s.focused || !s.open {
			return s, nil
		}
		switch msg.String() {
		case keys.Up, "k":
			s.moveCursor(-1)
		case keys.Down, "j":
			s.moveCursor(1)
		case keys.Home, "g":
			s.cursor = 0
		case keys.End, "G":
			s.cursor = len(s.sessions)
		case keys.Enter:
			return s, s.Activate()
		}
	}
	return s, nil
}

func (s *Sidebar) handleLoaded(msg SessionsLoadedMsg) {
	log := logger.WithComponent("sidebar")

	if !s.mounted {
		log.Debug("dropping sessions loaded after unmount", "generation", msg.Generation)
		return
	}
	if msg.Generation != s.generation {
		log.Debug("dropping stale sessions", "generation", msg.Generation, "current", s.generation)
		return
	}

	s.loading = false
	if msg.Err != nil {
		log.Warn("failed to load sessions", "error", msg.Err)
		s.sessions = []session.Session{}
		s.loadErr = msg.Err
	} else {
		s.sessions = msg.Sessions
		if s.sessions == nil {
			s.sessions = []session.Session{}
		}
		log.Debug("sessions loaded", "count", len(s.sessions))
	}
	s.clampCursor()
}

func (s *Sidebar) moveCursor(delta int) {
	s.cursor += delta
	s.clampCursor()
}

func (s *Sidebar) clampCursor() {
	s.cursor = max(min(s.cursor, len(s.sessions)), 0)
}

// Activate runs the action under the cursor.
func (s *Sidebar) Activate() tea.Cmd {
	if s.cursor == 0 {
		return s.NewChat()
	}
	return s.GoToChat(s.sessions[s.cursor-1].ID)
}

// NewChat navigates home. Sidebar state is left alone.
func (s *Sidebar) NewChat() tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Route: router.Home()}
	}
}

// GoToChat navigates to the session id, or reports why it can't.
func (s *Sidebar) GoToChat(id string) tea.Cmd {
	if err := router.ValidateSessionID(id); err != nil {
		logger.WithComponent("sidebar").Warn("refusing to navigate", "sessionID", id, "error", err)
		return func() tea.Msg {
			return NavigationErrorMsg{SessionID: id, Err: err}
		}
	}
	return func() tea.Msg {
		return NavigateMsg{Route: router.SessionRoute(id)}
	}
}

// Open shows the full panel
func (s *Sidebar) Open() { s.open = true }

// Close collapses the panel to the rail
func (s *Sidebar) Close() { s.open = false }

// Toggle flips between open and closed
func (s *Sidebar) Toggle() { s.open = !s.open }

// IsOpen reports whether the full panel is shown
func (s *Sidebar) IsOpen() bool { return s.open }

// SetSelectedSession marks the session whose row is highlighted. Empty clears
// it and puts the cursor back on New Chat.
func (s *Sidebar) SetSelectedSession(id string) {
	s.selectedSessionID = id
	if id == "" {
		s.cursor = 0
		return
	}
	for i, sess := range s.sessions {
		if sess.ID == id {
			s.cursor = i + 1
			return
		}
	}
}

// SelectedSessionID returns the highlighted session's ID
func (s *Sidebar) SelectedSessionID() string { return s.selectedSessionID }

// Sessions returns the sessions from the last successful fetch
func (s *Sidebar) Sessions() []session.Session { return s.sessions }

// Loading reports whether a fetch is in flight
func (s *Sidebar) Loading() bool { return s.loading }

// Err returns the last fetch error
func (s *Sidebar) Err() error { return s.loadErr }

// Cursor returns the keyboard cursor position
func (s *Sidebar) Cursor() int { return s.cursor }

// IsMounted reports whether fetch results are still accepted
func (s *Sidebar) IsMounted() bool { return s.mounted }

// Generation returns the current fetch generation
func (s *Sidebar) Generation() uint64 { return s.generation }

// SetSize sets the dimensions of the open panel
func (s *Sidebar) SetSize(width, height int) {
	s.width = width
	s.height = height
	// Leave room for row padding, the prompt and the trailing cursor cell
	s.searchInput.SetWidth(max(GetViewContext().InnerWidth(width)-5, 1))
}

// Width returns the columns the sidebar currently occupies
func (s *Sidebar) Width() int {
	if !s.open {
		return RailWidth
	}
	return s.width
}

// SetFocused sets the focus state
func (s *Sidebar) SetFocused(focused bool) {
	s.focused = focused
}

// IsFocused returns the focus state
func (s *Sidebar) IsFocused() bool {
	return s.focused
}

// Click handles a left click at (x, y) relative to the sidebar's top-left
// corner, border included.
func (s *Sidebar) Click(x, y int) tea.Cmd {
	if x < 0 || y < 0 || x >= s.Width() || y >= s.height {
		return nil
	}
	if !s.open {
		s.Open()
		return nil
	}

	action, sessionID := s.HitTest(y)
	switch action {
	case ActionNewChat:
		s.cursor = 0
		return s.NewChat()
	case ActionSession:
		for i, sess := range s.sessions {
			if sess.ID == sessionID {
				s.cursor = i + 1
				break
			}
		}
		return s.GoToChat(sessionID)
	case ActionClose:
		s.Close()
	}
	return nil
}

// HitTest returns the action of the row at y, relative to the sidebar's top
// border. Click dispatches on it.
func (s *Sidebar) HitTest(y int) (SidebarAction, string) {
	if !s.open {
		if y >= 0 && y < s.height {
			return ActionOpen, ""
		}
		return ActionNone, ""
	}
	// Row 0 is the top border
	rows := s.visibleRows()
	idx := y - 1
	if idx < 0 || idx >= len(rows) {
		return ActionNone, ""
	}
	return rows[idx].action, rows[idx].sessionID
}

// View renders the sidebar
func (s *Sidebar) View() string {
	if !s.open {
		return s.renderRail()
	}

	style := PanelStyle
	if s.focused {
		style = PanelFocusedStyle
	}

	rows := s.visibleRows()
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = r.text
	}
	return style.Width(s.width).Height(s.height).Render(strings.Join(lines, "\n"))
}

func (s *Sidebar) renderRail() string {
	innerHeight := GetViewContext().InnerHeight(s.height)
	lines := make([]string, max(innerHeight, 1))
	lines[len(lines)-1] = SidebarAffordStyle.Render(OpenAffordance)
	return PanelStyle.Width(RailWidth).Height(s.height).Render(strings.Join(lines, "\n"))
}

// visibleRows lays out the open panel: the top section, the scrolled session
// list and the pinned bottom section, exactly innerHeight rows tall.
func (s *Sidebar) visibleRows() []sidebarRow {
	ctx := GetViewContext()
	innerWidth := ctx.InnerWidth(s.width)
	innerHeight := ctx.InnerHeight(s.height)

	top := s.topRows(innerWidth)
	bottom := s.bottomRows(innerWidth)
	middle, cursorStart, cursorEnd := s.sessionRows(innerWidth)

	avail := max(innerHeight-len(top)-len(bottom), 0)

	// Keep the cursor's rows in view
	if cursorStart >= 0 {
		if cursorStart < s.scrollOffset {
			s.scrollOffset = cursorStart
		}
		if cursorEnd >= s.scrollOffset+avail {
			s.scrollOffset = cursorEnd - avail + 1
		}
	}
	s.scrollOffset = max(min(s.scrollOffset, len(middle)-avail), 0)

	end := min(s.scrollOffset+avail, len(middle))
	visible := middle[s.scrollOffset:end]

	rows := make([]sidebarRow, 0, innerHeight)
	rows = append(rows, top...)
	rows = append(rows, visible...)
	for len(rows)+len(bottom) < innerHeight {
		rows = append(rows, sidebarRow{})
	}
	rows = append(rows, bottom...)
	if len(rows) > innerHeight {
		rows = rows[:innerHeight]
	}
	return rows
}

func (s *Sidebar) topRows(width int) []sidebarRow {
	newChat := SidebarNewChatStyle.Width(width)
	if s.focused && s.cursor == 0 {
		newChat = SidebarSelectedStyle.Width(width)
	}

	rows := []sidebarRow{
		{text: newChat.Render("+ New Chat"), action: ActionNewChat},
		{text: SidebarItemStyle.Width(width).Render(ansi.Truncate(s.searchInput.View(), max(width-2, 0), ""))},
	}
	for _, e := range staticEntries {
		rows = append(rows, sidebarRow{text: renderCounted(e.Label, e.Count, width)})
	}
	rows = append(rows, separator(width))
	return rows
}

// sessionRows renders the session list and the state line beneath it. It
// also returns the row span of the cursor, or -1 when the cursor is on New Chat.
func (s *Sidebar) sessionRows(width int) ([]sidebarRow, int, int) {
	textWidth := max(width-2, 1)
	now := s.now()

	var rows []sidebarRow
	cursorStart, cursorEnd := -1, -1

	for i, sess := range s.sessions {
		title := sess.Title
		if strings.TrimSpace(title) == "" {
			title = "Untitled"
		}
		title = runewidth.Truncate(title, textWidth, "…")

		style := SidebarItemStyle.Width(width)
		switch {
		case s.focused && s.cursor == i+1:
			style = SidebarSelectedStyle.Width(width)
		case sess.ID == s.selectedSessionID:
			style = SidebarActiveStyle.Width(width)
		}

		detail := timefmt.Relative(sess.UpdatedAt, now) + " · " + SessionSubtitle
		detail = ansi.Truncate(detail, textWidth, "…")

		if s.cursor == i+1 {
			cursorStart = len(rows)
			cursorEnd = len(rows) + 1
		}
		rows = append(rows,
			sidebarRow{text: style.Render(title), action: ActionSession, sessionID: sess.ID},
			sidebarRow{text: SidebarItemStyle.Width(width).Render(SidebarMutedStyle.Render(detail)), action: ActionSession, sessionID: sess.ID},
		)
	}

	if state := s.stateLine(); state != "" {
		rows = append(rows, sidebarRow{text: SidebarItemStyle.Width(width).Render(state)})
	}
	return rows, cursorStart, cursorEnd
}

func (s *Sidebar) stateLine() string {
	switch {
	case s.loading:
		if !s.opts.ShowLoading {
			return ""
		}
		return s.spinner.View() + StatusLoadingStyle.Render(" Loading...")
	case s.loadErr != nil:
		return StatusErrorStyle.Render("Couldn't load sessions")
	case len(s.sessions) == 0:
		return StatusEmptyStyle.Render("No sessions yet.")
	}
	return ""
}

func (s *Sidebar) bottomRows(width int) []sidebarRow {
	rows := []sidebarRow{separator(width)}
	for _, label := range footerEntries {
		rows = append(rows, sidebarRow{text: SidebarItemStyle.Width(width).Render(label)})
	}
	rows = append(rows, separator(width))
	rows = append(rows, s.profileRows(width)...)

	closeLine := lipgloss.PlaceHorizontal(width, lipgloss.Right, SidebarAffordStyle.Render(CloseAffordance+" "))
	rows = append(rows, sidebarRow{text: closeLine, action: ActionClose})
	return rows
}

func (s *Sidebar) profileRows(width int) []sidebarRow {
	name := strings.TrimSpace(s.opts.ProfileName)
	if name == "" {
		name = s.actor.ID
	}
	if name == "" {
		name = "Anonymous"
	}
	initial := strings.ToUpper(string([]rune(name)[0]))

	textWidth := max(width-6, 1)
	line := SidebarAvatarStyle.Render(" "+initial+" ") + " " + runewidth.Truncate(name, textWidth, "…")
	rows := []sidebarRow{{text: SidebarItemStyle.Width(width).Render(line)}}

	if plan := strings.TrimSpace(s.opts.ProfilePlan); plan != "" {
		planLine := "    " + SidebarMutedStyle.Render(runewidth.Truncate(plan, textWidth, "…"))
		rows = append(rows, sidebarRow{text: SidebarItemStyle.Width(width).Render(planLine)})
	}
	return rows
}

// renderCounted renders label with count right-aligned
func renderCounted(label string, count int, width int) string {
	countText := SidebarCountStyle.Render(fmt.Sprintf("%d", count))
	textWidth := max(width-2, 1)
	gap := max(textWidth-ansi.StringWidth(label)-ansi.StringWidth(countText), 1)
	return SidebarItemStyle.Width(width).Render(label + strings.Repeat(" ", gap) + countText)
}

func separator(width int) sidebarRow {
	return sidebarRow{text: SidebarSeparatorStyle.Render(strings.Repeat("─", max(width, 0)))}
}
