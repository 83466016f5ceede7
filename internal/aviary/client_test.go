package aviary

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" {
		t.Fatalf("scheme = %q, want http", u.Scheme)
	}
	if u.Host != defaultAPIBind {
		t.Fatalf("host = %q, want %q", u.Host, defaultAPIBind)
	}

	u, err = parseBaseURL("http://example.com:1234/path?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
}

func TestClient_FetchesEndpoints(t *testing.T) {
	t.Parallel()

	var gotUserAgent string
	var gotSaveBody Settings

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.URL.Path == "/api/directory":
			_ = json.NewEncoder(w).Encode(DirectoryResponse{Users: []Profile{
				{ID: "u1", Name: "Alice", Email: "alice@x.com"},
				{ID: "u2", Name: "Bob", Email: "bob@x.com"},
			}})
		case r.URL.Path == "/api/users/u1":
			_ = json.NewEncoder(w).Encode(Profile{ID: "u1", Name: "Alice", Email: "alice@x.com"})
		case r.URL.Path == "/api/users/u1/notifications":
			_ = json.NewEncoder(w).Encode(NotificationsResponse{Notifications: []Notification{
				{ID: "n1", Title: "Welcome", Read: false},
				{ID: "n2", Title: "Digest", Read: true},
			}})
		case r.URL.Path == "/api/users/u1/settings" && r.Method == http.MethodGet:
			_ = json.NewEncoder(w).Encode(Settings{Theme: "light", Email: true})
		case r.URL.Path == "/api/users/u1/settings" && r.Method == http.MethodPut:
			if err := json.NewDecoder(r.Body).Decode(&gotSaveBody); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			_ = json.NewEncoder(w).Encode(SaveResult{OK: true, Settings: gotSaveBody})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	dir, err := c.FetchDirectory(ctx)
	if err != nil {
		t.Fatalf("FetchDirectory returned error: %v", err)
	}
	if len(dir) != 2 || dir[0].ID != "u1" || dir[1].Name != "Bob" {
		t.Fatalf("FetchDirectory = %#v, want 2 users u1/u2", dir)
	}

	profile, err := c.FetchProfile(ctx, "u1")
	if err != nil {
		t.Fatalf("FetchProfile returned error: %v", err)
	}
	if profile == nil || profile.Name != "Alice" || profile.Email != "alice@x.com" {
		t.Fatalf("FetchProfile = %#v, want Alice", profile)
	}

	notifs, err := c.FetchNotifications(ctx, "u1")
	if err != nil {
		t.Fatalf("FetchNotifications returned error: %v", err)
	}
	if len(notifs) != 2 || notifs[0].ID != "n1" || notifs[0].Read || !notifs[1].Read {
		t.Fatalf("FetchNotifications = %#v, want n1 unread, n2 read", notifs)
	}

	settings, err := c.FetchSettings(ctx, "u1")
	if err != nil {
		t.Fatalf("FetchSettings returned error: %v", err)
	}
	if settings.Theme != "light" || !settings.Email {
		t.Fatalf("FetchSettings = %#v, want light/true", settings)
	}

	result, err := c.SaveSettings(ctx, "u1", Settings{Theme: "dark", Email: false})
	if err != nil {
		t.Fatalf("SaveSettings returned error: %v", err)
	}
	if !result.OK || result.Settings.Theme != "dark" || result.Settings.Email {
		t.Fatalf("SaveSettings result = %#v, want ok dark/false", result)
	}
	if gotSaveBody.Theme != "dark" || gotSaveBody.Email {
		t.Fatalf("SaveSettings sent body %#v, want complete dark/false record", gotSaveBody)
	}

	if gotUserAgent == "" || !strings.HasPrefix(gotUserAgent, "perch/") {
		t.Fatalf("User-Agent = %q, want perch/*", gotUserAgent)
	}
}

func TestClient_MissingProfileIsAbsentNotError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	profile, err := c.FetchProfile(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("FetchProfile returned error: %v, want absent marker", err)
	}
	if profile != nil {
		t.Fatalf("FetchProfile = %#v, want nil absent marker", profile)
	}

	// Other endpoints surface 404 as an error.
	_, err = c.FetchSettings(context.Background(), "ghost")
	if err == nil {
		t.Fatalf("FetchSettings returned nil error, want not found")
	}
}

func TestClient_RequiresUserID(t *testing.T) {
	c, err := NewClient("127.0.0.1:1")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if _, err := c.FetchProfile(context.Background(), "  "); err == nil {
		t.Fatalf("FetchProfile returned nil error, want user id required")
	}
	if _, err := c.FetchNotifications(context.Background(), ""); err == nil {
		t.Fatalf("FetchNotifications returned nil error, want user id required")
	}
	if _, err := c.SaveSettings(context.Background(), "", Settings{}); err == nil {
		t.Fatalf("SaveSettings returned nil error, want user id required")
	}
}

func TestClient_HTTPErrorAndDecodeError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/directory":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte("{not-json"))
		case "/api/users/u1/notifications":
			http.Error(w, "nope", http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	_, err = c.FetchDirectory(context.Background())
	if err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("FetchDirectory error = %v, want decode response error", err)
	}

	_, err = c.FetchNotifications(context.Background(), "u1")
	if err == nil || !strings.Contains(err.Error(), "returned status 500") {
		t.Fatalf("FetchNotifications error = %v, want status 500 error", err)
	}
}
