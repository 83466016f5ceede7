package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/calyptra/perch/internal/aviary"
	"github.com/calyptra/perch/internal/prefs"
	"github.com/calyptra/perch/internal/session"
)

// View represents the current active view.
type View int

const (
	ViewOverview View = iota
	ViewSearch
	ViewSettings
)

const (
	fetchTimeout           = 5 * time.Second
	defaultRefreshInterval = 30 * time.Second
)

// Options configures the UI.
type Options struct {
	Context      context.Context
	Client       aviary.API
	Controller   *session.Controller
	Logger       *zap.Logger
	RefreshEvery time.Duration
	ThemeName    string
	PrefsPath    string
	InitialUser  string
}

// Model is the root application state for Bubble Tea. It wraps the session
// controller: key events become controller transitions plus fetch commands,
// and fetch completions route back through the controller's
// generation-guarded commit methods.
type Model struct {
	ctx          context.Context
	client       aviary.API
	ctrl         *session.Controller
	logger       *zap.Logger
	prefsPath    string
	refreshEvery time.Duration

	theme       Theme
	keys        keyMap
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool

	snap session.Snapshot

	// Overview state
	selectedNotif int
	notifViewport viewport.Model

	// Identity switch prompt
	identityInput     textinput.Model
	promptingIdentity bool

	// Search state
	searchInput    textinput.Model
	selectedResult int

	// Settings state
	themeInput    textinput.Model
	editingTheme  bool
	settingsFocus int // 0 = theme field, 1 = email flag

	initialCmds []tea.Cmd
}

// New creates a new Bubble Tea model. When opts.InitialUser is set, the
// identity switch is initiated here and the resulting fetches are issued
// from Init.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	refreshEvery := opts.RefreshEvery
	if refreshEvery <= 0 {
		refreshEvery = defaultRefreshInterval
	}
	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Nightfox"
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	identityInput := textinput.New()
	identityInput.Placeholder = "user id"
	identityInput.CharLimit = 64

	searchInput := textinput.New()
	searchInput.Placeholder = "filter directory by name"
	searchInput.CharLimit = 64

	themeInput := textinput.New()
	themeInput.Placeholder = "theme name"
	themeInput.CharLimit = 32

	m := Model{
		ctx:           ctx,
		client:        opts.Client,
		ctrl:          opts.Controller,
		logger:        logger,
		prefsPath:     prefsPath,
		refreshEvery:  refreshEvery,
		theme:         GetTheme(themeName),
		keys:          DefaultKeyMap(),
		currentView:   ViewOverview,
		identityInput: identityInput,
		searchInput:   searchInput,
		themeInput:    themeInput,
	}

	if user := strings.TrimSpace(opts.InitialUser); user != "" && m.ctrl != nil {
		gens := m.ctrl.SetIdentity(user)
		m.initialCmds = m.fetchCmds(user, gens)
	}
	if m.ctrl != nil {
		m.snap = m.ctrl.Snapshot()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(m.refreshEvery),
	}
	cmds = append(cmds, m.initialCmds...)
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.searchInput.Width = min(msg.Width-8, 48)
		m.identityInput.Width = min(msg.Width-8, 32)
		m.themeInput.Width = min(msg.Width-8, 24)
		if !m.ready {
			m.notifViewport = viewport.New(notifViewportWidth(msg.Width), notifViewportHeight(msg.Height))
		} else {
			m.notifViewport.Width = notifViewportWidth(msg.Width)
			m.notifViewport.Height = notifViewportHeight(msg.Height)
		}
		m.ready = true
		m.syncNotifViewport()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case profileMsg:
		if msg.err != nil {
			if m.ctrl.FailProfile(msg.gen, msg.err) {
				m.logger.Warn("profile fetch failed", zap.Error(msg.err))
			}
		} else {
			// A false return means the fetch was superseded; the result is
			// dropped without touching state.
			m.ctrl.CommitProfile(msg.gen, msg.profile)
		}
		m.snap = m.ctrl.Snapshot()
		return m, nil

	case notificationsMsg:
		if msg.err != nil {
			if m.ctrl.FailNotifications(msg.gen, msg.err) {
				m.logger.Warn("notification fetch failed", zap.Error(msg.err))
			}
		} else {
			m.ctrl.CommitNotifications(msg.gen, msg.notifications)
		}
		m.snap = m.ctrl.Snapshot()
		m.clampNotifSelection()
		m.syncNotifViewport()
		return m, nil

	case settingsMsg:
		if msg.err != nil {
			if m.ctrl.FailSettings(msg.gen, msg.err) {
				m.logger.Warn("settings fetch failed", zap.Error(msg.err))
			}
		} else {
			m.ctrl.CommitSettings(msg.gen, msg.settings)
		}
		m.snap = m.ctrl.Snapshot()
		return m, nil

	case saveMsg:
		switch {
		case msg.err != nil:
			if m.ctrl.FailSave(msg.gen, msg.err) {
				m.logger.Warn("settings save failed", zap.Error(msg.err))
			}
		case !msg.result.OK:
			if m.ctrl.FailSave(msg.gen, session.ErrSaveRejected) {
				m.logger.Warn("settings save rejected by daemon")
			}
		default:
			m.ctrl.CommitSave(msg.gen, msg.result.Settings)
		}
		m.snap = m.ctrl.Snapshot()
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	return b.String()
}

func (m Model) renderContent() string {
	if m.promptingIdentity {
		return m.renderIdentityPrompt()
	}
	switch m.currentView {
	case ViewOverview:
		return m.renderOverview()
	case ViewSearch:
		return m.renderSearch()
	case ViewSettings:
		return m.renderSettings()
	default:
		return ""
	}
}

// handleTick processes the notification refresh tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{tickCmd(m.refreshEvery)}
	if m.snap.Identity != "" {
		id, gen := m.ctrl.BeginNotificationRefresh()
		cmds = append(cmds, m.fetchNotificationsCmd(id, gen))
	}
	return m, tea.Batch(cmds...)
}

// switchUser initiates fetches for a new identity. The controller bumps
// the generations, invalidating every in-flight fetch for the previous one.
func (m *Model) switchUser(id string) tea.Cmd {
	gens := m.ctrl.SetIdentity(id)
	m.snap = m.ctrl.Snapshot()
	m.selectedNotif = 0
	m.syncNotifViewport()
	m.persistPrefs()
	m.logger.Info("identity switched", zap.String("user", id))
	return tea.Batch(m.fetchCmds(id, gens)...)
}

// adoptResult switches to a directory search result. The directory entry
// becomes the current profile immediately; the fetches reconfirm it and
// load the rest.
func (m *Model) adoptResult(result session.SearchResult) tea.Cmd {
	var profile *aviary.Profile
	for _, p := range m.ctrl.Directory() {
		if p.ID == result.ID {
			p := p
			profile = &p
			break
		}
	}
	if profile == nil {
		return m.switchUser(result.ID)
	}
	gens := m.ctrl.AdoptProfile(*profile)
	m.snap = m.ctrl.Snapshot()
	m.selectedNotif = 0
	m.syncNotifViewport()
	m.currentView = ViewOverview
	m.persistPrefs()
	m.logger.Info("identity adopted from directory", zap.String("user", profile.ID))
	return tea.Batch(m.fetchCmds(profile.ID, gens)...)
}

func (m Model) fetchCmds(id string, gens session.Generations) []tea.Cmd {
	return []tea.Cmd{
		m.fetchProfileCmd(id, gens.Profile),
		m.fetchNotificationsCmd(id, gens.Notifications),
		m.fetchSettingsCmd(id, gens.Settings),
	}
}

// requestSave snapshots the draft and issues the persistence call. The
// returned value from the daemon, not the draft, becomes authoritative on
// success.
func (m *Model) requestSave() tea.Cmd {
	gen, draft, ok := m.ctrl.BeginSave()
	if !ok {
		return nil
	}
	m.snap = m.ctrl.Snapshot()
	return m.saveSettingsCmd(m.snap.Identity, draft, gen)
}

func (m *Model) persistPrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, LastUser: m.snap.Identity}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn("prefs save failed", zap.Error(err))
	}
}

func (m *Model) clampNotifSelection() {
	if count := len(m.snap.Notifications); m.selectedNotif >= count {
		m.selectedNotif = count - 1
	}
	if m.selectedNotif < 0 {
		m.selectedNotif = 0
	}
}

// Messages

type tickMsg time.Time

type profileMsg struct {
	gen     uint64
	profile *aviary.Profile
	err     error
}

type notificationsMsg struct {
	gen           uint64
	notifications []aviary.Notification
	err           error
}

type settingsMsg struct {
	gen      uint64
	settings aviary.Settings
	err      error
}

type saveMsg struct {
	gen    uint64
	result aviary.SaveResult
	err    error
}

// Commands. Each closure captures the identity and the generation handed
// out at initiation; the completion carries them back so the controller
// can discard superseded results.

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) fetchProfileCmd(id string, gen uint64) tea.Cmd {
	client := m.client
	parent := m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, fetchTimeout)
		defer cancel()
		profile, err := client.FetchProfile(ctx, id)
		return profileMsg{gen: gen, profile: profile, err: err}
	}
}

func (m Model) fetchNotificationsCmd(id string, gen uint64) tea.Cmd {
	client := m.client
	parent := m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, fetchTimeout)
		defer cancel()
		notifications, err := client.FetchNotifications(ctx, id)
		return notificationsMsg{gen: gen, notifications: notifications, err: err}
	}
}

func (m Model) fetchSettingsCmd(id string, gen uint64) tea.Cmd {
	client := m.client
	parent := m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, fetchTimeout)
		defer cancel()
		settings, err := client.FetchSettings(ctx, id)
		return settingsMsg{gen: gen, settings: settings, err: err}
	}
}

func (m Model) saveSettingsCmd(id string, draft aviary.Settings, gen uint64) tea.Cmd {
	client := m.client
	parent := m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, fetchTimeout)
		defer cancel()
		result, err := client.SaveSettings(ctx, id, draft)
		return saveMsg{gen: gen, result: result, err: err}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
