package app

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/recall/internal/clipboard"
	"github.com/zhubert/recall/internal/config"
	"github.com/zhubert/recall/internal/logger"
	"github.com/zhubert/recall/internal/notification"
	"github.com/zhubert/recall/internal/router"
	"github.com/zhubert/recall/internal/session"
	"github.com/zhubert/recall/internal/ui"
)

// Focus represents which panel is focused
type Focus int

const (
	FocusSidebar Focus = iota
	FocusContent
)

func (f Focus) String() string {
	if f == FocusSidebar {
		return "sidebar"
	}
	return "content"
}

// SessionService is what the app reads sessions through.
type SessionService interface {
	session.Lister
	session.Getter
}

// Options configures a Model.
type Options struct {
	Sessions SessionService
	Actor    session.Actor
	Start    router.Route // zero value is the home route
}

// Model is the main Bubble Tea model
type Model struct {
	config  *config.Config
	header  *ui.Header
	footer  *ui.Footer
	sidebar *ui.Sidebar
	panel   *ui.Panel

	width  int
	height int
	focus  Focus

	router   *router.Router
	sessions SessionService
	actor    session.Actor

	// Parent of every fetch; canceled by Close
	ctx    context.Context
	cancel context.CancelFunc

	copyText func(text string) error
	notify   func(reason string) error
}

// New creates a new app model
func New(cfg *config.Config, opts Options) *Model {
	// Load saved theme from config, or use default
	if savedTheme := cfg.GetTheme(); savedTheme != "" {
		ui.SetThemeByName(savedTheme)
	}

	name, plan := cfg.GetProfile()
	ctx, cancel := context.WithCancel(context.Background())

	m := &Model{
		config: cfg,
		header: ui.NewHeader(),
		footer: ui.NewFooter(),
		sidebar: ui.NewSidebar(ui.SidebarOptions{
			ShowLoading:  cfg.GetShowLoading(),
			FetchTimeout: cfg.FetchTimeout(),
			ProfileName:  name,
			ProfilePlan:  plan,
		}),
		panel:    ui.NewPanel(),
		focus:    FocusContent,
		router:   router.New(opts.Start),
		sessions: opts.Sessions,
		actor:    opts.Actor,
		ctx:      ctx,
		cancel:   cancel,
		copyText: clipboard.WriteText,
		notify:   notification.SessionsUnavailable,
	}
	m.panel.SetFocused(true)
	return m
}

// Init mounts the sidebar, which starts the session fetch, and shows the
// start route.
func (m *Model) Init() tea.Cmd {
	logger.WithComponent("app").Info("starting", "actor", m.actor.ID, "route", m.router.Current().Path())

	var lister session.Lister
	if m.sessions != nil {
		lister = m.sessions
	}
	return tea.Batch(
		m.sidebar.Mount(m.ctx, lister, m.actor),
		m.applyRoute(m.router.Current()),
	)
}

// Close unmounts the sidebar and cancels every pending fetch.
func (m *Model) Close() {
	m.sidebar.Unmount()
	m.cancel()
}

// Route returns the current route
func (m *Model) Route() router.Route {
	return m.router.Current()
}

// Focus returns the focused panel
func (m *Model) Focus() Focus {
	return m.focus
}

// Sidebar returns the sidebar component
func (m *Model) Sidebar() *ui.Sidebar {
	return m.sidebar
}

func (m *Model) setFocus(f Focus) {
	if f == FocusSidebar && !m.sidebar.IsOpen() {
		f = FocusContent
	}
	m.focus = f
	m.sidebar.SetFocused(f == FocusSidebar)
	m.panel.SetFocused(f == FocusContent)
}

func (m *Model) toggleFocus() {
	if m.focus == FocusSidebar {
		m.setFocus(FocusContent)
	} else {
		m.setFocus(FocusSidebar)
	}
}

// openSidebar shows the sidebar and moves focus into it
func (m *Model) openSidebar() {
	m.sidebar.Open()
	m.updateSizes()
	m.setFocus(FocusSidebar)
}

// closeSidebar collapses the sidebar to its rail
func (m *Model) closeSidebar() {
	m.sidebar.Close()
	m.updateSizes()
	m.setFocus(FocusContent)
}

// syncSidebar re-lays out after the sidebar changed its own open state.
func (m *Model) syncSidebar() {
	m.updateSizes()
	if m.sidebar.IsOpen() {
		m.setFocus(FocusSidebar)
	} else {
		m.setFocus(FocusContent)
	}
}
