package aviary

// Profile is a directory user as returned by /api/users/{id} and
// /api/directory. The controller replaces profiles wholesale; fields are
// never mutated after decode.
type Profile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Notification is one entry in a user's notification feed. Order is
// arrival order as served by the API.
type Notification struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Read  bool   `json:"read"`
}

// Settings is a user's dashboard settings record. Saves always carry the
// complete record; the API rejects partial payloads so a missing field can
// never silently revert to a zero value.
type Settings struct {
	Theme string `json:"theme"`
	Email bool   `json:"email"`
}

// SaveResult mirrors the PUT /api/users/{id}/settings response. Settings
// is the value the daemon actually persisted, which callers must treat as
// authoritative instead of the draft they sent.
type SaveResult struct {
	OK       bool     `json:"ok"`
	Settings Settings `json:"settings"`
}

// DirectoryResponse mirrors GET /api/directory.
type DirectoryResponse struct {
	Users []Profile `json:"users"`
}

// NotificationsResponse mirrors GET /api/users/{id}/notifications.
type NotificationsResponse struct {
	Notifications []Notification `json:"notifications"`
}
