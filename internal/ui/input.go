package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/calyptra/perch/internal/aviary"
)

// handleKey processes keyboard input. Input prompts capture keys before
// the global bindings so typing never triggers view switches.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help.
		m.showHelp = false
		return m, nil
	}

	if m.promptingIdentity {
		return m.handleIdentityPromptKey(msg)
	}
	if m.editingTheme {
		return m.handleThemeEditKey(msg)
	}
	if m.currentView == ViewSearch {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.persistPrefs()
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		m.currentView = nextView(m.currentView)
		return m.enterView()

	case key.Matches(msg, m.keys.ShiftTab):
		m.currentView = prevView(m.currentView)
		return m.enterView()

	case key.Matches(msg, m.keys.ViewOverview), key.Matches(msg, m.keys.Escape):
		m.currentView = ViewOverview
		return m, nil

	case key.Matches(msg, m.keys.ViewSearch):
		m.currentView = ViewSearch
		return m.enterView()

	case key.Matches(msg, m.keys.ViewSettings):
		if m.currentView == ViewSettings {
			// Already in the settings panel: save the draft.
			cmd := m.requestSave()
			return m, cmd
		}
		m.currentView = ViewSettings
		return m, nil

	case key.Matches(msg, m.keys.SwitchUser):
		m.promptingIdentity = true
		m.identityInput.SetValue("")
		m.identityInput.Focus()
		return m, textinput.Blink
	}

	switch m.currentView {
	case ViewOverview:
		return m.handleOverviewKey(msg)
	case ViewSettings:
		return m.handleSettingsKey(msg)
	}
	return m, nil
}

func (m Model) handleIdentityPromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.promptingIdentity = false
		m.identityInput.Blur()
		return m, nil
	case "enter":
		id := strings.TrimSpace(m.identityInput.Value())
		m.promptingIdentity = false
		m.identityInput.Blur()
		if id == "" {
			return m, nil
		}
		cmd := m.switchUser(id)
		return m, cmd
	}
	var cmd tea.Cmd
	m.identityInput, cmd = m.identityInput.Update(msg)
	return m, cmd
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.currentView = ViewOverview
		m.searchInput.Blur()
		return m, nil
	case "tab":
		m.currentView = nextView(m.currentView)
		m.searchInput.Blur()
		return m.enterView()
	case "shift+tab":
		m.currentView = prevView(m.currentView)
		m.searchInput.Blur()
		return m.enterView()
	case "up", "ctrl+p":
		if m.selectedResult > 0 {
			m.selectedResult--
		}
		return m, nil
	case "down", "ctrl+n":
		if m.selectedResult < len(m.snap.Results)-1 {
			m.selectedResult++
		}
		return m, nil
	case "enter":
		results := m.snap.Results
		if m.selectedResult < 0 || m.selectedResult >= len(results) {
			return m, nil
		}
		m.searchInput.Blur()
		cmd := m.adoptResult(results[m.selectedResult])
		return m, cmd
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	// Results are recomputed synchronously on every keystroke; there is no
	// debounce and no reuse of a previous query's results.
	m.ctrl.SetQuery(m.searchInput.Value())
	m.snap = m.ctrl.Snapshot()
	if m.selectedResult >= len(m.snap.Results) {
		m.selectedResult = len(m.snap.Results) - 1
	}
	if m.selectedResult < 0 {
		m.selectedResult = 0
	}
	return m, cmd
}

func (m Model) handleOverviewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(m.snap.Notifications)
	switch {
	case key.Matches(msg, m.keys.Down):
		if m.selectedNotif < count-1 {
			m.selectedNotif++
		}
	case key.Matches(msg, m.keys.Up):
		if m.selectedNotif > 0 {
			m.selectedNotif--
		}
	case key.Matches(msg, m.keys.Top):
		m.selectedNotif = 0
	case key.Matches(msg, m.keys.Bottom):
		if count > 0 {
			m.selectedNotif = count - 1
		}
	case key.Matches(msg, m.keys.MarkRead):
		if m.selectedNotif >= 0 && m.selectedNotif < count {
			m.ctrl.MarkRead(m.snap.Notifications[m.selectedNotif].ID)
			m.snap = m.ctrl.Snapshot()
		}
	}
	m.syncNotifViewport()
	return m, nil
}

func (m Model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down), key.Matches(msg, m.keys.Up):
		m.settingsFocus = 1 - m.settingsFocus
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		if m.settingsFocus == 0 {
			return m.startThemeEdit()
		}
		return m.toggleEmailFlag()

	case key.Matches(msg, m.keys.EditTheme):
		return m.startThemeEdit()

	case key.Matches(msg, m.keys.ToggleEmail):
		return m.toggleEmailFlag()

	case key.Matches(msg, m.keys.RevertDraft):
		if m.snap.SettingsLoaded {
			m.ctrl.UpdateDraft(m.snap.Authoritative)
			m.snap = m.ctrl.Snapshot()
		}
		return m, nil
	}
	return m, nil
}

func (m Model) startThemeEdit() (tea.Model, tea.Cmd) {
	if !m.snap.SettingsLoaded {
		return m, nil
	}
	m.editingTheme = true
	m.settingsFocus = 0
	m.themeInput.SetValue(m.snap.Draft.Theme)
	m.themeInput.Focus()
	return m, textinput.Blink
}

func (m Model) toggleEmailFlag() (tea.Model, tea.Cmd) {
	if !m.snap.SettingsLoaded {
		return m, nil
	}
	m.settingsFocus = 1
	// The draft is always replaced as a complete record.
	draft := aviary.Settings{Theme: m.snap.Draft.Theme, Email: !m.snap.Draft.Email}
	m.ctrl.UpdateDraft(draft)
	m.snap = m.ctrl.Snapshot()
	return m, nil
}

func (m Model) handleThemeEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.editingTheme = false
		m.themeInput.Blur()
		return m, nil
	case "enter":
		m.editingTheme = false
		m.themeInput.Blur()
		draft := aviary.Settings{
			Theme: strings.TrimSpace(m.themeInput.Value()),
			Email: m.snap.Draft.Email,
		}
		m.ctrl.UpdateDraft(draft)
		m.snap = m.ctrl.Snapshot()
		return m, nil
	}
	var cmd tea.Cmd
	m.themeInput, cmd = m.themeInput.Update(msg)
	return m, cmd
}

// enterView focuses the right input when a view becomes active.
func (m Model) enterView() (tea.Model, tea.Cmd) {
	if m.currentView == ViewSearch {
		m.searchInput.Focus()
		return m, textinput.Blink
	}
	m.searchInput.Blur()
	return m, nil
}

func nextView(v View) View {
	switch v {
	case ViewOverview:
		return ViewSearch
	case ViewSearch:
		return ViewSettings
	default:
		return ViewOverview
	}
}

func prevView(v View) View {
	switch v {
	case ViewOverview:
		return ViewSettings
	case ViewSettings:
		return ViewSearch
	default:
		return ViewOverview
	}
}
