// Package aviary provides an HTTP client for the aviary directory daemon API.
//
// # Overview
//
// This package defines the API client the dashboard uses to look up
// profiles, notification feeds, and per-user settings. It handles HTTP
// communication, JSON serialization, and type-safe representation of the
// API schema. The package is split into two files:
//
//   - client.go: HTTP client implementation and request/response handling
//   - types.go: Data structures mirroring the aviary API schema
//
// # Client Usage
//
// Create a client using the API bind address from configuration:
//
//	client, err := aviary.NewClient("127.0.0.1:7311")
//	if err != nil {
//		log.Fatalf("failed to create client: %v", err)
//	}
//
//	profile, err := client.FetchProfile(ctx, "u1")
//	if err != nil {
//		log.Printf("profile fetch failed: %v", err)
//	}
//	if profile == nil {
//		// valid absent result: the daemon has no such user
//	}
//
// # API Endpoints
//
//   - GET /api/directory: Full profile directory (the search corpus)
//   - GET /api/users/{id}: Single profile; 404 resolves to an absent marker
//   - GET /api/users/{id}/notifications: Notification feed in arrival order
//   - GET /api/users/{id}/settings: Persisted settings record
//   - PUT /api/users/{id}/settings: Persist a complete settings record
//
// # Absent vs. Failed
//
// FetchProfile deliberately maps a 404 to (nil, nil). "User not found" is a
// valid terminal state the dashboard renders as "no profile"; only network
// and server failures surface as errors. All other endpoints surface 404 as
// an error wrapping ErrNotFound.
//
// # Request Handling
//
// All requests use context for cancellation, set Accept and User-Agent
// headers, carry a 5-second timeout, and return wrapped errors describing
// what failed. The client performs no retries; staleness of slow responses
// is the session controller's concern, not the transport's.
package aviary
