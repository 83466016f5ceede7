package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the top status bar: logo, active identity, unread
// count, and in-flight indicators.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	parts := []string{bg.Render("perch", styles.Logo)}

	if m.snap.Identity == "" {
		parts = append(parts, bg.Render("no user selected", styles.MutedText))
		parts = append(parts, bg.Render("press u to pick one", styles.FaintText))
		return styles.Header.Width(m.width).Render(bg.Join(parts, sep))
	}

	// Identity line: prefer the fetched display name, fall back to the id
	// while the profile is in flight.
	who := m.snap.Identity
	switch {
	case m.snap.ProfileLoaded && m.snap.Profile != nil:
		who = m.snap.Profile.Name
	case m.snap.ProfileLoaded && m.snap.Profile == nil:
		who = m.snap.Identity + " (unknown)"
	}
	parts = append(parts, bg.Render(who, styles.AccentText.Bold(true)))

	if m.snap.NotificationsLoaded {
		badge := "read"
		if m.snap.UnreadCount > 0 {
			badge = "unread"
		}
		parts = append(parts, styles.StatusStyle(badge).Render(
			fmt.Sprintf("%d unread", m.snap.UnreadCount)))
	} else {
		parts = append(parts, styles.StatusStyle("loading").Render("loading"))
	}

	if m.snap.Saving {
		parts = append(parts, styles.StatusStyle("saving").Render("saving"))
	}

	if err := m.firstError(); err != nil {
		parts = append(parts, bg.Render(truncate(err.Error(), 48), styles.DangerText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, sep))
}

// firstError picks the most relevant error for the header, if any.
func (m Model) firstError() error {
	switch {
	case m.snap.SaveErr != nil:
		return m.snap.SaveErr
	case m.snap.ProfileErr != nil:
		return m.snap.ProfileErr
	case m.snap.NotificationsErr != nil:
		return m.snap.NotificationsErr
	case m.snap.SettingsErr != nil:
		return m.snap.SettingsErr
	}
	return nil
}

// renderCommandBar renders the view tabs and the key hint line.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	bg := NewBgStyle(m.theme.SurfaceAlt)

	tabs := []struct {
		view  View
		label string
	}{
		{ViewOverview, "overview"},
		{ViewSearch, "search"},
		{ViewSettings, "settings"},
	}

	parts := make([]string, 0, len(tabs)+1)
	for _, t := range tabs {
		if t.view == m.currentView {
			parts = append(parts, lipgloss.NewStyle().
				Background(lipgloss.Color(m.theme.SelectionBg)).
				Foreground(lipgloss.Color(m.theme.SelectionText)).
				Padding(0, 1).
				Render(t.label))
			continue
		}
		parts = append(parts, bg.Render(" "+t.label+" ", styles.MutedText))
	}
	parts = append(parts, bg.Render("h help  u user  T theme  q quit", styles.FaintText))

	return styles.Footer.Width(m.width).Render(bg.Join(parts, bg.Spaces(1)))
}

// truncate shortens s to at most n runes, appending an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
