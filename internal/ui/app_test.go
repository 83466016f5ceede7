package ui

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/calyptra/perch/internal/aviary"
	"github.com/calyptra/perch/internal/session"
)

// fakeAPI serves canned responses so commands can run synchronously in tests.
type fakeAPI struct {
	profiles      map[string]*aviary.Profile
	notifications map[string][]aviary.Notification
	settings      map[string]aviary.Settings
	saveErr       error
	saveOK        bool
}

func (f *fakeAPI) FetchDirectory(ctx context.Context) ([]aviary.Profile, error) {
	out := make([]aviary.Profile, 0, len(f.profiles))
	for _, p := range f.profiles {
		if p != nil {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeAPI) FetchProfile(ctx context.Context, id string) (*aviary.Profile, error) {
	return f.profiles[id], nil
}

func (f *fakeAPI) FetchNotifications(ctx context.Context, id string) ([]aviary.Notification, error) {
	return f.notifications[id], nil
}

func (f *fakeAPI) FetchSettings(ctx context.Context, id string) (aviary.Settings, error) {
	return f.settings[id], nil
}

func (f *fakeAPI) SaveSettings(ctx context.Context, id string, settings aviary.Settings) (aviary.SaveResult, error) {
	if f.saveErr != nil {
		return aviary.SaveResult{}, f.saveErr
	}
	if !f.saveOK {
		return aviary.SaveResult{OK: false}, nil
	}
	return aviary.SaveResult{OK: true, Settings: settings}, nil
}

var _ aviary.API = (*fakeAPI)(nil)

func testModel(t *testing.T) (Model, *session.Controller) {
	t.Helper()
	directory := []aviary.Profile{
		{ID: "u1", Name: "Alice", Email: "alice@example.com"},
		{ID: "u2", Name: "Bob", Email: "bob@example.com"},
	}
	ctrl := session.New(directory)
	api := &fakeAPI{
		profiles: map[string]*aviary.Profile{
			"u1": {ID: "u1", Name: "Alice", Email: "alice@example.com"},
			"u2": {ID: "u2", Name: "Bob", Email: "bob@example.com"},
		},
		notifications: map[string][]aviary.Notification{
			"u1": {
				{ID: "n1", Title: "welcome", Read: false},
				{ID: "n2", Title: "digest", Read: true},
			},
		},
		settings: map[string]aviary.Settings{
			"u1": {Theme: "dark", Email: true},
		},
		saveOK: true,
	}
	m := New(Options{
		Client:       api,
		Controller:   ctrl,
		PrefsPath:    filepath.Join(t.TempDir(), "prefs.toml"),
		RefreshEvery: time.Millisecond,
	})
	// Simulate the terminal coming up.
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model), ctrl
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestStaleProfileMessageIsDiscarded(t *testing.T) {
	m, ctrl := testModel(t)

	first := ctrl.SetIdentity("u1")
	second := ctrl.SetIdentity("u2")

	// The first fetch completes after the identity already moved on.
	updated, _ := m.Update(profileMsg{gen: first.Profile, profile: &aviary.Profile{ID: "u1", Name: "Alice"}})
	m = updated.(Model)
	if m.snap.ProfileLoaded {
		t.Fatalf("stale profile result was committed")
	}

	updated, _ = m.Update(profileMsg{gen: second.Profile, profile: &aviary.Profile{ID: "u2", Name: "Bob"}})
	m = updated.(Model)
	if !m.snap.ProfileLoaded || m.snap.Profile == nil || m.snap.Profile.Name != "Bob" {
		t.Fatalf("fresh profile not committed: %+v", m.snap.Profile)
	}
}

func TestFetchCommandsThreadGenerations(t *testing.T) {
	m, ctrl := testModel(t)

	gens := ctrl.SetIdentity("u1")
	m.snap = ctrl.Snapshot()

	// Run each fetch command synchronously and feed the result back.
	for _, cmd := range m.fetchCmds("u1", gens) {
		updated, _ := m.Update(cmd())
		m = updated.(Model)
	}

	if !m.snap.ProfileLoaded || m.snap.Profile == nil || m.snap.Profile.Name != "Alice" {
		t.Fatalf("profile not loaded: %+v", m.snap.Profile)
	}
	if !m.snap.NotificationsLoaded || len(m.snap.Notifications) != 2 {
		t.Fatalf("notifications not loaded: %+v", m.snap.Notifications)
	}
	if m.snap.UnreadCount != 1 {
		t.Fatalf("UnreadCount = %d, want 1", m.snap.UnreadCount)
	}
	if !m.snap.SettingsLoaded || m.snap.Draft.Theme != "dark" {
		t.Fatalf("settings not loaded: %+v", m.snap.Draft)
	}
}

// runCmd executes a command and flattens a batch into its member messages.
func runCmd(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var msgs []tea.Msg
	for _, c := range batch {
		msgs = append(msgs, runCmd(t, c)...)
	}
	return msgs
}

func TestTickRefreshesNotifications(t *testing.T) {
	m, ctrl := testModel(t)

	gens := ctrl.SetIdentity("u1")
	m.snap = ctrl.Snapshot()

	updated, cmd := m.Update(tickMsg(time.Now()))
	m = updated.(Model)

	var refreshed *notificationsMsg
	for _, msg := range runCmd(t, cmd) {
		if nm, ok := msg.(notificationsMsg); ok {
			refreshed = &nm
		}
	}
	if refreshed == nil {
		t.Fatalf("tick issued no notification fetch")
	}

	// The tick's fetch shares the notification generation counter, so the
	// round started at identity switch is now superseded.
	if ctrl.CommitNotifications(gens.Notifications, nil) {
		t.Fatalf("pre-tick notification fetch still accepted")
	}

	updated, _ = m.Update(*refreshed)
	m = updated.(Model)
	if !m.snap.NotificationsLoaded || len(m.snap.Notifications) != 2 {
		t.Fatalf("tick refresh not committed: %+v", m.snap.Notifications)
	}
}

func TestTickWithoutIdentityFetchesNothing(t *testing.T) {
	m, _ := testModel(t)

	updated, cmd := m.Update(tickMsg(time.Now()))
	m = updated.(Model)

	for _, msg := range runCmd(t, cmd) {
		if _, ok := msg.(notificationsMsg); ok {
			t.Fatalf("tick fetched notifications with no identity selected")
		}
	}
	if m.snap.Identity != "" {
		t.Fatalf("Identity = %q, want empty", m.snap.Identity)
	}
}

func TestMarkReadKeyUpdatesUnreadCount(t *testing.T) {
	m, ctrl := testModel(t)

	gens := ctrl.SetIdentity("u1")
	ctrl.CommitNotifications(gens.Notifications, []aviary.Notification{
		{ID: "n1", Title: "welcome", Read: false},
		{ID: "n2", Title: "digest", Read: true},
	})
	m.snap = ctrl.Snapshot()

	updated, _ := m.Update(keyMsg("enter"))
	m = updated.(Model)

	if m.snap.UnreadCount != 0 {
		t.Fatalf("UnreadCount = %d, want 0", m.snap.UnreadCount)
	}
	if !m.snap.Notifications[0].Read {
		t.Fatalf("selected notification not marked read")
	}
}

func TestSearchKeystrokesFilterDirectory(t *testing.T) {
	m, _ := testModel(t)

	updated, _ := m.Update(keyMsg("/"))
	m = updated.(Model)
	if m.currentView != ViewSearch {
		t.Fatalf("currentView = %v, want ViewSearch", m.currentView)
	}

	for _, r := range "ali" {
		updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = updated.(Model)
	}

	if len(m.snap.Results) != 1 || m.snap.Results[0].Name != "Alice" {
		t.Fatalf("Results = %+v, want [Alice]", m.snap.Results)
	}
}

func TestRejectedSaveSurfacesError(t *testing.T) {
	m, ctrl := testModel(t)

	gens := ctrl.SetIdentity("u1")
	ctrl.CommitSettings(gens.Settings, aviary.Settings{Theme: "dark", Email: true})
	ctrl.UpdateDraft(aviary.Settings{Theme: "light", Email: true})

	gen, _, ok := ctrl.BeginSave()
	if !ok {
		t.Fatalf("BeginSave refused with loaded settings")
	}
	m.snap = ctrl.Snapshot()

	updated, _ := m.Update(saveMsg{gen: gen, result: aviary.SaveResult{OK: false}})
	m = updated.(Model)

	if m.snap.Saving {
		t.Fatalf("Saving still true after rejection")
	}
	if !errors.Is(m.snap.SaveErr, session.ErrSaveRejected) {
		t.Fatalf("SaveErr = %v, want ErrSaveRejected", m.snap.SaveErr)
	}
	if m.snap.Draft.Theme != "light" {
		t.Fatalf("draft lost after failed save: %+v", m.snap.Draft)
	}
}

func TestThemeCycleKey(t *testing.T) {
	m, _ := testModel(t)
	before := m.theme.Name

	updated, _ := m.Update(keyMsg("T"))
	m = updated.(Model)

	if m.theme.Name == before {
		t.Fatalf("theme did not change from %q", before)
	}
	if m.theme.Name != NextTheme(before) {
		t.Fatalf("theme = %q, want %q", m.theme.Name, NextTheme(before))
	}
}

func TestIdentityPromptSwitchesUser(t *testing.T) {
	m, _ := testModel(t)

	updated, _ := m.Update(keyMsg("u"))
	m = updated.(Model)
	if !m.promptingIdentity {
		t.Fatalf("u key did not open the identity prompt")
	}

	for _, r := range "u2" {
		updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = updated.(Model)
	}
	updated, cmd := m.Update(keyMsg("enter"))
	m = updated.(Model)

	if m.promptingIdentity {
		t.Fatalf("prompt still open after enter")
	}
	if m.snap.Identity != "u2" {
		t.Fatalf("Identity = %q, want u2", m.snap.Identity)
	}
	if cmd == nil {
		t.Fatalf("no fetch command issued for the new identity")
	}
}

func TestViewRendersWithoutPanicking(t *testing.T) {
	m, ctrl := testModel(t)

	// Empty state.
	if out := m.View(); out == "" {
		t.Fatalf("empty view output")
	}

	// Loaded state across all views.
	gens := ctrl.SetIdentity("u1")
	ctrl.CommitProfile(gens.Profile, &aviary.Profile{ID: "u1", Name: "Alice", Email: "alice@example.com"})
	ctrl.CommitNotifications(gens.Notifications, []aviary.Notification{{ID: "n1", Title: "welcome"}})
	ctrl.CommitSettings(gens.Settings, aviary.Settings{Theme: "dark", Email: true})
	m.snap = ctrl.Snapshot()

	for _, v := range []View{ViewOverview, ViewSearch, ViewSettings} {
		m.currentView = v
		if out := m.View(); out == "" {
			t.Fatalf("empty view output for view %v", v)
		}
	}

	m.showHelp = true
	if out := m.View(); out == "" {
		t.Fatalf("empty help output")
	}
}
