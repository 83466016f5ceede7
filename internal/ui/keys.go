package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the key bindings for the application.
type keyMap struct {
	Quit         key.Binding
	Help         key.Binding
	CycleTheme   key.Binding
	Tab          key.Binding
	ShiftTab     key.Binding
	Escape       key.Binding
	ViewOverview key.Binding
	ViewSearch   key.Binding
	ViewSettings key.Binding
	SwitchUser   key.Binding
	Up           key.Binding
	Down         key.Binding
	Top          key.Binding
	Bottom       key.Binding
	MarkRead     key.Binding
	Confirm      key.Binding
	EditTheme    key.Binding
	ToggleEmail  key.Binding
	RevertDraft  key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h", "help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "cycle theme"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next view"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous view"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "overview"),
		),
		ViewOverview: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "overview"),
		),
		ViewSearch: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		ViewSettings: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "settings / save"),
		),
		SwitchUser: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "switch user"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("j", "down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "bottom"),
		),
		MarkRead: key.NewBinding(
			key.WithKeys("enter", "m"),
			key.WithHelp("enter", "mark read"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "edit / toggle"),
		),
		EditTheme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "edit theme"),
		),
		ToggleEmail: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "toggle email"),
		),
		RevertDraft: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "revert draft"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		// Navigation
		{k.Tab, k.ViewOverview, k.ViewSearch, k.ViewSettings},
		{k.Up, k.Down, k.Top, k.Bottom},
		// Overview
		{k.MarkRead},
		// Settings
		{k.Confirm, k.EditTheme, k.ToggleEmail, k.RevertDraft},
		// General
		{k.SwitchUser, k.CycleTheme, k.Help, k.Quit},
	}
}
