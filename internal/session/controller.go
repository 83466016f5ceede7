package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/calyptra/perch/internal/aviary"
)

// ErrSaveRejected reports that the daemon answered a settings save with
// ok=false. The draft keeps the user's attempted edit so they can retry.
var ErrSaveRejected = errors.New("session: settings save rejected")

// SearchResult is the {id, name} projection of a directory profile matched
// by the current query.
type SearchResult struct {
	ID   string
	Name string
}

// Generations carries the counters captured when a round of fetches is
// initiated. A completion is committed only while its captured counter
// still equals the live one; anything else is discarded silently.
type Generations struct {
	Profile       uint64
	Notifications uint64
	Settings      uint64
}

// Snapshot is the dashboard state at a point in time. Values are replaced
// wholesale by controller transitions, never edited in place, so a
// Snapshot captured by a caller stays observably unchanged forever.
type Snapshot struct {
	Identity string

	// Profile is nil while loading and after an absent (not-found) result;
	// ProfileLoaded distinguishes the two.
	Profile       *aviary.Profile
	ProfileLoaded bool
	ProfileErr    error

	Notifications       []aviary.Notification
	NotificationsLoaded bool
	NotificationsErr    error
	UnreadCount         int

	Query   string
	Results []SearchResult

	Draft          aviary.Settings
	Authoritative  aviary.Settings
	SettingsLoaded bool
	SettingsErr    error
	Saving         bool
	SaveErr        error

	// Cache accumulates one profile per identity ever successfully loaded.
	Cache map[string]aviary.Profile
}

// Controller owns the dashboard state record. Every mutation funnels
// through its methods, each an atomic replace-with-new-value transition.
// Fetch results are committed only when the generation captured at
// initiation still matches, so results from superseded fetches never reach
// the state regardless of completion order.
type Controller struct {
	mu        sync.Mutex
	directory []aviary.Profile
	state     Snapshot

	profileGen      uint64
	notificationGen uint64
	settingsGen     uint64
	saveGen         uint64
}

// New builds a Controller over a static profile directory. The directory
// is the search corpus; it is not refreshed for the lifetime of the
// session. No identity is active until SetIdentity is called.
func New(directory []aviary.Profile) *Controller {
	dir := make([]aviary.Profile, len(directory))
	copy(dir, directory)
	return &Controller{
		directory: dir,
		state: Snapshot{
			Results: FilterDirectory(dir, ""),
			Cache:   map[string]aviary.Profile{},
		},
	}
}

// SetIdentity switches the active identity. It bumps every fetch
// generation, which invalidates all in-flight work tied to the previous
// identity, and clears the displayed profile, notifications, and settings
// to their loading states. The returned Generations must be captured by
// the fetches issued for the new identity. Re-setting the same identity
// still bumps: when fetches for one identity race, the most recently
// initiated one wins.
func (c *Controller) SetIdentity(id string) Generations {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setIdentityLocked(id)
}

// AdoptProfile switches identity based on a directory entry and commits
// that entry as the current profile immediately. This is the
// directory-driven shortcut: it routes through the same commit path as a
// fetch completion, so the cache is populated uniformly. Notification and
// settings fetches for the new identity are still required; the returned
// Generations cover them (the profile generation is already satisfied,
// a refetch with it simply reconfirms).
func (c *Controller) AdoptProfile(profile aviary.Profile) Generations {
	c.mu.Lock()
	defer c.mu.Unlock()
	gens := c.setIdentityLocked(profile.ID)
	c.commitProfileLocked(&profile)
	return gens
}

func (c *Controller) setIdentityLocked(id string) Generations {
	c.profileGen++
	c.notificationGen++
	c.settingsGen++
	// Saves are identity-keyed like fetches: a confirmation arriving for
	// the previous identity must be discarded, not adopted.
	c.saveGen++

	c.state.Identity = id
	c.state.Profile = nil
	c.state.ProfileLoaded = false
	c.state.ProfileErr = nil
	c.state.Notifications = nil
	c.state.NotificationsLoaded = false
	c.state.NotificationsErr = nil
	c.state.UnreadCount = 0
	c.state.Draft = aviary.Settings{}
	c.state.Authoritative = aviary.Settings{}
	c.state.SettingsLoaded = false
	c.state.SettingsErr = nil
	c.state.Saving = false
	c.state.SaveErr = nil

	return Generations{
		Profile:       c.profileGen,
		Notifications: c.notificationGen,
		Settings:      c.settingsGen,
	}
}

// BeginNotificationRefresh initiates a fresh notification fetch for the
// current identity without clearing the displayed list. It shares the
// notification generation counter with SetIdentity, so whichever fetch was
// initiated last wins.
func (c *Controller) BeginNotificationRefresh() (identity string, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notificationGen++
	return c.state.Identity, c.notificationGen
}

// CommitProfile applies a profile fetch completion. A nil profile is the
// valid absent result. Returns false when the captured generation has been
// superseded; the result is then dropped without touching state.
func (c *Controller) CommitProfile(gen uint64, profile *aviary.Profile) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.profileGen {
		return false
	}
	c.commitProfileLocked(profile)
	return true
}

func (c *Controller) commitProfileLocked(profile *aviary.Profile) {
	if profile != nil {
		p := *profile
		c.state.Profile = &p
		// Cache insert reacts to the committed profile, not to the fetch,
		// so every path that makes a profile current populates it.
		next := make(map[string]aviary.Profile, len(c.state.Cache)+1)
		for k, v := range c.state.Cache {
			next[k] = v
		}
		next[c.state.Identity] = p
		c.state.Cache = next
	} else {
		c.state.Profile = nil
	}
	c.state.ProfileLoaded = true
	c.state.ProfileErr = nil
}

// FailProfile records a rejected profile fetch. The cleared loading state
// is kept; no retry is initiated. Stale failures are discarded like stale
// successes.
func (c *Controller) FailProfile(gen uint64, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.profileGen {
		return false
	}
	c.state.ProfileErr = fmt.Errorf("fetch profile: %w", err)
	return true
}

// CommitNotifications applies a notification fetch completion and
// recomputes the unread count from the new sequence.
func (c *Controller) CommitNotifications(gen uint64, notifications []aviary.Notification) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.notificationGen {
		return false
	}
	next := make([]aviary.Notification, len(notifications))
	copy(next, notifications)
	c.state.Notifications = next
	c.state.NotificationsLoaded = true
	c.state.NotificationsErr = nil
	c.state.UnreadCount = UnreadCount(next)
	return true
}

// FailNotifications records a rejected notification fetch, keeping
// whatever sequence is currently displayed.
func (c *Controller) FailNotifications(gen uint64, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.notificationGen {
		return false
	}
	c.state.NotificationsErr = fmt.Errorf("fetch notifications: %w", err)
	return true
}

// CommitSettings applies the authoritative settings loaded for the current
// identity. The draft is reset to the authoritative value, discarding any
// uncommitted edits (last-writer-wins at the authoritative boundary).
func (c *Controller) CommitSettings(gen uint64, settings aviary.Settings) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.settingsGen {
		return false
	}
	c.state.Authoritative = settings
	c.state.Draft = settings
	c.state.SettingsLoaded = true
	c.state.SettingsErr = nil
	return true
}

// FailSettings records a rejected settings fetch.
func (c *Controller) FailSettings(gen uint64, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.settingsGen {
		return false
	}
	c.state.SettingsErr = fmt.Errorf("fetch settings: %w", err)
	return true
}

// SetQuery stores the query string and synchronously recomputes the search
// results from the static directory. There is no debounce and no caching
// across query changes.
func (c *Controller) SetQuery(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Query = query
	c.state.Results = FilterDirectory(c.directory, query)
}

// MarkRead produces a new notification sequence in which the entry with
// the given id is replaced by a read copy. Other entries keep their
// existing values. An unknown id is a no-op, not an error.
func (c *Controller) MarkRead(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	matched := -1
	for i, n := range c.state.Notifications {
		if n.ID == id {
			matched = i
			break
		}
	}
	if matched < 0 {
		return
	}

	next := make([]aviary.Notification, len(c.state.Notifications))
	copy(next, c.state.Notifications)
	next[matched].Read = true
	c.state.Notifications = next
	c.state.UnreadCount = UnreadCount(next)
}

// UpdateDraft replaces the local settings edit buffer. The authoritative
// value is untouched until a save round-trips through the daemon.
func (c *Controller) UpdateDraft(draft aviary.Settings) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Draft = draft
}

// BeginSave snapshots the draft for persistence and marks the session as
// saving. It returns ok=false until the authoritative settings have loaded
// (there is nothing meaningful to save over an unloaded record). A second
// BeginSave while one is in flight supersedes the first.
func (c *Controller) BeginSave() (gen uint64, draft aviary.Settings, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.SettingsLoaded {
		return 0, aviary.Settings{}, false
	}
	c.saveGen++
	c.state.Saving = true
	c.state.SaveErr = nil
	return c.saveGen, c.state.Draft, true
}

// CommitSave applies a confirmed save. The authoritative value is replaced
// wholesale with the record the daemon persisted, and the draft resyncs to
// it.
func (c *Controller) CommitSave(gen uint64, persisted aviary.Settings) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.saveGen {
		return false
	}
	c.state.Authoritative = persisted
	c.state.Draft = persisted
	c.state.Saving = false
	c.state.SaveErr = nil
	return true
}

// FailSave records a failed save. The authoritative value is untouched and
// the draft keeps the user's attempted edit so they can retry.
func (c *Controller) FailSave(gen uint64, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.saveGen {
		return false
	}
	c.state.Saving = false
	c.state.SaveErr = fmt.Errorf("save settings: %w", err)
	return true
}

// Directory returns a copy of the static profile directory.
func (c *Controller) Directory() []aviary.Profile {
	c.mu.Lock()
	defer c.mu.Unlock()
	dup := make([]aviary.Profile, len(c.directory))
	copy(dup, c.directory)
	return dup
}

// Snapshot returns a copy of the current state. Slices, the cache map, and
// the profile pointer are cloned so the caller's view is independent of
// later transitions.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := c.state
	if c.state.Profile != nil {
		p := *c.state.Profile
		snap.Profile = &p
	}
	snap.Notifications = cloneNotifications(c.state.Notifications)
	snap.Results = cloneResults(c.state.Results)
	snap.Cache = make(map[string]aviary.Profile, len(c.state.Cache))
	for k, v := range c.state.Cache {
		snap.Cache[k] = v
	}
	return snap
}

func cloneNotifications(notifications []aviary.Notification) []aviary.Notification {
	if len(notifications) == 0 {
		return nil
	}
	dup := make([]aviary.Notification, len(notifications))
	copy(dup, notifications)
	return dup
}

func cloneResults(results []SearchResult) []SearchResult {
	if len(results) == 0 {
		return nil
	}
	dup := make([]SearchResult, len(results))
	copy(dup, results)
	return dup
}
