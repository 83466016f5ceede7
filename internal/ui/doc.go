// Package ui provides the terminal user interface for Perch.
//
// # Architecture Overview
//
// The UI is built on Bubble Tea's Elm-style architecture: a value-receiver
// Model, messages for every asynchronous result, and commands for every
// side effect. The Model never owns domain state. All reads and writes go
// through session.Controller, and after every update the Model refreshes
// its rendering snapshot with Controller.Snapshot().
//
// # Package Structure
//
//   - app.go: Model, Options, message types, fetch commands, and Run
//   - input.go: Keyboard handling for every view and input mode
//   - keys.go: Key binding definitions
//   - header.go: Status bar and command bar rendering
//   - views.go: Overview, search, and settings views
//   - help.go: Help overlay
//   - theme.go: Color themes and Lipgloss style construction
//   - style_helpers.go: Background-continuity rendering helpers
//
// # Staleness Handling
//
// Every fetch command captures the generation number the controller handed
// out when the fetch began. The resulting message carries that generation
// back, and the controller decides whether to commit or discard it. The UI
// never inspects generations itself; it just threads them through.
//
// # Views
//
//   - Overview: Profile summary plus the notification list with unread badges
//   - Search: Live directory filter, recomputed synchronously per keystroke
//   - Settings: Editable draft alongside the authoritative server record
//
// # Event Flow
//
//  1. Run() builds the Model and starts the Bubble Tea program
//  2. Init() kicks off the initial fetches and the refresh tick
//  3. Fetch results arrive as messages and are offered to the controller
//  4. The Model snapshots the controller and renders
//  5. Context cancellation or quit keys shut the program down
//
// # Key Bindings
//
//   - tab: Cycle views
//   - o, /, s: Overview, search, settings
//   - u: Switch user
//   - enter/m: Mark selected notification read
//   - r: Revert settings draft
//   - s (in settings): Save draft
//   - T: Cycle UI theme
//   - h/?: Help
//   - q or Ctrl+C: Exit
package ui
