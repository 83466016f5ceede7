// Package app provides the orchestration layer for the Perch application.
//
// # Overview
//
// This package wires together configuration, logging, the Aviary client,
// the session controller, and the UI to create the complete Perch TUI
// experience. It serves as the composition root where all dependencies are
// initialized and connected.
//
// # Architecture
//
// The app package follows a simple initialization pattern:
//
//  1. Load configuration from ~/.config/perch/config.toml
//  2. Open the structured log file under ~/.local/share/perch/logs
//  3. Load local UI preferences (theme, last user)
//  4. Initialize the HTTP client for Aviary daemon communication
//  5. Fetch the user directory once as a pre-flight check and search corpus
//  6. Create the session controller seeded with the directory
//  7. Start the TUI and block until user exits or context cancels
//
// # Error Handling
//
// The app package distinguishes between fatal and recoverable errors:
//
// Fatal errors (returned from Run):
//   - Configuration file invalid
//   - Log file cannot be opened
//   - Aviary client initialization failure
//   - Initial directory fetch failure (10 second timeout)
//
// Recoverable errors (handled by the UI, session continues):
//   - Per-identity profile, notification, and settings fetch failures
//   - Settings save failures and rejections
//   - Periodic notification refresh failures
//
// This ensures Perch can survive temporary daemon hiccups mid-session while
// preventing startup against a non-existent daemon.
//
// # Identity Selection
//
// The starting identity is chosen in priority order: the -user flag, the
// previous session's user from prefs, then the configured default_user.
// With none set, the UI starts without an identity and prompts for one.
//
// # Usage Example
//
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//
//	opts := app.Options{
//		ConfigPath:   "", // Use default
//		RefreshEvery: 30, // 30 second notification refresh
//	}
//
//	if err := app.Run(ctx, opts); err != nil {
//		log.Fatalf("perch failed: %v", err)
//	}
//
// # Design Rationale
//
// This package intentionally keeps orchestration logic minimal and focused.
// Business logic lives in domain packages (aviary, session, config, ui).
// The app package simply connects these pieces with sensible defaults for
// the single-operator dashboard use case.
package app
