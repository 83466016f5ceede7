// Package session implements the dashboard state controller.
//
// # Overview
//
// This package owns the single state record behind the perch UI: the
// active identity, its profile and notification feed, the search results
// over the static directory, the settings draft/authoritative pair, and
// the per-identity profile cache. It is independent of any rendering
// framework; the Bubble Tea layer in internal/ui is just one driver.
//
// # Staleness Model
//
// Profile, notification, and settings fetches are asynchronous and may
// complete in any order, including after a newer fetch of the same kind.
// The controller never cancels an in-flight fetch; instead each initiation
// (SetIdentity, BeginNotificationRefresh, BeginSave) bumps a monotonic
// generation counter and hands the captured value to the caller. The
// matching Commit/Fail method compares the captured value against the live
// counter and silently drops anything superseded. An identity switch bumps
// every counter, the save counter included, so work in flight for the
// previous identity can never land under the new one:
//
//	gens := ctrl.SetIdentity("u2")
//	go func() {
//		profile, err := client.FetchProfile(ctx, "u2")
//		if err != nil {
//			ctrl.FailProfile(gens.Profile, err)
//			return
//		}
//		ctrl.CommitProfile(gens.Profile, profile)
//	}()
//
// Last-initiated wins regardless of completion order; this is the only
// ordering guarantee across fetches of the same kind. Profile and
// notification fetches are not serialized relative to each other.
//
// # Immutability
//
// Every transition replaces a container value with a new one: MarkRead
// builds a new notification slice, the cache insert builds a new map, and
// settings commits replace the whole record. A Snapshot captured before a
// transition therefore stays observably unchanged after it.
//
// # Derived Values
//
// UnreadCount and FilterDirectory are pure functions. The controller
// recomputes them inside every transition that replaces their source value
// and stores the result on the snapshot; nothing is memoized across a
// source change, so a displayed count can never belong to a superseded
// sequence.
//
// # Settings Draft vs. Authoritative
//
// The draft is a local edit buffer. Whenever the authoritative value
// changes (initial load or confirmed save), the draft is reset to it,
// discarding uncommitted edits. This last-writer-wins policy at the
// authoritative boundary is deliberate; do not change it without an
// explicit requirement. A failed save leaves the authoritative value
// untouched and the draft holding the user's attempted edit.
//
// # Error Handling
//
// A profile fetch resolving to "not found" is a valid absent result, not
// an error. Rejected fetches keep prior state and record an error on the
// snapshot for the presentation layer; no retries are performed.
// Stale-generation outcomes, success or failure, are discarded without a
// trace: they are expected, not exceptional.
package session
