package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderOverview renders the profile pane and the notification list.
func (m Model) renderOverview() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(m.renderProfilePane(styles))
	b.WriteString("\n")
	b.WriteString(m.renderNotificationList(styles))

	return m.pane(b.String())
}

func (m Model) renderProfilePane(styles Styles) string {
	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render("Profile"))
	b.WriteString("\n")

	switch {
	case m.snap.Identity == "":
		b.WriteString(styles.MutedText.Render("No user selected."))
	case m.snap.ProfileErr != nil:
		b.WriteString(styles.DangerText.Render("fetch failed: " + m.snap.ProfileErr.Error()))
	case !m.snap.ProfileLoaded:
		b.WriteString(styles.StatusStyle("loading").Render("loading"))
	case m.snap.Profile == nil:
		b.WriteString(styles.WarningText.Render("No profile exists for " + m.snap.Identity + "."))
	default:
		p := m.snap.Profile
		b.WriteString(styles.Text.Render(p.Name))
		b.WriteString("  ")
		b.WriteString(styles.MutedText.Render(p.Email))
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderNotificationList(styles Styles) string {
	var b strings.Builder
	title := "Notifications"
	if m.snap.NotificationsLoaded {
		title = fmt.Sprintf("Notifications (%d unread)", m.snap.UnreadCount)
	}
	b.WriteString(styles.AccentText.Bold(true).Render(title))
	b.WriteString("\n")

	switch {
	case m.snap.Identity == "":
		b.WriteString(styles.MutedText.Render("Pick a user with u."))
		return b.String()
	case m.snap.NotificationsErr != nil:
		b.WriteString(styles.DangerText.Render("fetch failed: " + m.snap.NotificationsErr.Error()))
		return b.String()
	case !m.snap.NotificationsLoaded:
		b.WriteString(styles.StatusStyle("loading").Render("loading"))
		return b.String()
	case len(m.snap.Notifications) == 0:
		b.WriteString(styles.MutedText.Render("No notifications."))
		return b.String()
	}

	b.WriteString(m.notifViewport.View())
	b.WriteString("\n\n")
	b.WriteString(styles.FaintText.Render("j/k move  enter mark read"))
	return b.String()
}

// syncNotifViewport re-renders the notification list into the viewport and
// keeps the selected line visible. Called whenever the notification slice,
// the selection, or the terminal size changes.
func (m *Model) syncNotifViewport() {
	styles := m.theme.Styles()

	lines := make([]string, 0, len(m.snap.Notifications))
	for i, n := range m.snap.Notifications {
		badge := "unread"
		mark := "●"
		if n.Read {
			badge = "read"
			mark = " "
		}
		line := fmt.Sprintf("%s %s", mark, n.Title)
		switch {
		case i == m.selectedNotif:
			line = styles.Selected.Width(max(m.notifViewport.Width-8, 12)).Render(line)
		case n.Read:
			line = styles.MutedText.Render(line)
		default:
			line = styles.Text.Render(line)
		}
		lines = append(lines, line+" "+styles.StatusStyle(badge).Render(badge))
	}
	m.notifViewport.SetContent(strings.Join(lines, "\n"))

	// Scroll the selection into view.
	if m.selectedNotif < m.notifViewport.YOffset {
		m.notifViewport.SetYOffset(m.selectedNotif)
	}
	if bottom := m.notifViewport.YOffset + m.notifViewport.Height - 1; m.selectedNotif > bottom {
		m.notifViewport.SetYOffset(m.selectedNotif - m.notifViewport.Height + 1)
	}
}

func notifViewportWidth(termWidth int) int {
	return max(termWidth-4, 20)
}

func notifViewportHeight(termHeight int) int {
	// Header, command bar, profile pane, titles, and hints take the rest.
	return max(termHeight-12, 3)
}

// renderSearch renders the live directory filter.
func (m Model) renderSearch() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render("Directory search"))
	b.WriteString("\n")
	b.WriteString(m.searchInput.View())
	b.WriteString("\n\n")

	results := m.snap.Results
	if len(results) == 0 {
		b.WriteString(styles.MutedText.Render("No matches."))
	}
	for i, r := range results {
		line := fmt.Sprintf("%s  %s", r.Name, r.ID)
		// Identities visited earlier this session have a cached profile.
		if _, seen := m.snap.Cache[r.ID]; seen {
			line += "  ·"
		}
		if i == m.selectedResult {
			b.WriteString(styles.Selected.Width(max(m.width-4, 20)).Render(line))
		} else {
			b.WriteString(styles.Text.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("type to filter  ctrl+p/ctrl+n move  enter open  esc back"))
	return m.pane(b.String())
}

// renderSettings renders the editable draft next to the authoritative record.
func (m Model) renderSettings() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render("Settings"))
	b.WriteString("\n")

	switch {
	case m.snap.Identity == "":
		b.WriteString(styles.MutedText.Render("Pick a user with u."))
		return m.pane(b.String())
	case m.snap.SettingsErr != nil:
		b.WriteString(styles.DangerText.Render("fetch failed: " + m.snap.SettingsErr.Error()))
		return m.pane(b.String())
	case !m.snap.SettingsLoaded:
		b.WriteString(styles.StatusStyle("loading").Render("loading"))
		return m.pane(b.String())
	}

	label := func(s string, focused bool) string {
		if focused && !m.editingTheme {
			return styles.AccentText.Bold(true).Render("> " + s)
		}
		return styles.MutedText.Render("  " + s)
	}

	b.WriteString(label("theme", m.settingsFocus == 0))
	b.WriteString("  ")
	if m.editingTheme {
		b.WriteString(m.themeInput.View())
	} else {
		b.WriteString(styles.Text.Render(m.snap.Draft.Theme))
	}
	b.WriteString("\n")

	email := "off"
	if m.snap.Draft.Email {
		email = "on"
	}
	b.WriteString(label("email notifications", m.settingsFocus == 1))
	b.WriteString("  ")
	b.WriteString(styles.Text.Render(email))
	b.WriteString("\n\n")

	// Compare against the authoritative record so the user can see what a
	// save would change.
	if m.snap.Draft != m.snap.Authoritative {
		b.WriteString(styles.StatusStyle("edited").Render("edited"))
		b.WriteString("  ")
		b.WriteString(styles.MutedText.Render(fmt.Sprintf(
			"server: theme=%s email=%v", m.snap.Authoritative.Theme, m.snap.Authoritative.Email)))
		b.WriteString("\n")
	} else {
		b.WriteString(styles.StatusStyle("saved").Render("in sync"))
		b.WriteString("\n")
	}

	if m.snap.Saving {
		b.WriteString(styles.StatusStyle("saving").Render("saving"))
		b.WriteString("\n")
	}
	if m.snap.SaveErr != nil {
		b.WriteString(styles.DangerText.Render("save failed: " + m.snap.SaveErr.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("j/k focus  enter edit/toggle  r revert  s save"))
	return m.pane(b.String())
}

// renderIdentityPrompt renders the switch-user modal over the current view.
func (m Model) renderIdentityPrompt() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Switch user"))
	b.WriteString("\n\n")
	b.WriteString(m.identityInput.View())
	b.WriteString("\n\n")
	b.WriteString(styles.FaintText.Render("enter confirm  esc cancel"))

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(40)

	return lipgloss.Place(
		m.width,
		max(m.height-4, 8),
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}

// pane wraps view content in the shared content frame.
func (m Model) pane(content string) string {
	return lipgloss.NewStyle().
		Padding(1, 2).
		Width(max(m.width, 20)).
		Render(content)
}
