package aviary

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNotFound reports that the daemon has no record for the requested user.
// For profile lookups this is a valid terminal result (absent profile), not
// a failure.
var ErrNotFound = errors.New("aviary: not found")

// API defines the directory operations the dashboard consumes. It is
// implemented by *Client and can be faked for testing.
type API interface {
	FetchDirectory(ctx context.Context) ([]Profile, error)
	FetchProfile(ctx context.Context, id string) (*Profile, error)
	FetchNotifications(ctx context.Context, id string) ([]Notification, error)
	FetchSettings(ctx context.Context, id string) (Settings, error)
	SaveSettings(ctx context.Context, id string, settings Settings) (SaveResult, error)
}

// Ensure Client implements API at compile time.
var _ API = (*Client)(nil)

// Client talks to the aviary HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultAPIBind   = "127.0.0.1:7311"
	defaultUserAgent = "perch/0.1"
	requestTimeout   = 5 * time.Second
)

// NewClient builds a Client using the provided apiBind host:port value.
func NewClient(apiBind string) (*Client, error) {
	base, err := parseBaseURL(apiBind)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// FetchDirectory retrieves the full profile directory used as the search
// corpus.
func (c *Client) FetchDirectory(ctx context.Context) ([]Profile, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload DirectoryResponse
	if err := c.do(ctx, http.MethodGet, "/api/directory", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Users, nil
}

// FetchProfile retrieves one user's profile. A missing user resolves to
// (nil, nil): the absent marker, committed like any other result.
func (c *Client) FetchProfile(ctx context.Context, id string) (*Profile, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("user id required")
	}
	var payload Profile
	err := c.do(ctx, http.MethodGet, "/api/users/"+url.PathEscape(id), nil, &payload)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &payload, nil
}

// FetchNotifications retrieves a user's notification feed in arrival order.
func (c *Client) FetchNotifications(ctx context.Context, id string) ([]Notification, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("user id required")
	}
	var payload NotificationsResponse
	if err := c.do(ctx, http.MethodGet, "/api/users/"+url.PathEscape(id)+"/notifications", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Notifications, nil
}

// FetchSettings retrieves the persisted settings for a user.
func (c *Client) FetchSettings(ctx context.Context, id string) (Settings, error) {
	if c == nil {
		return Settings{}, fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(id) == "" {
		return Settings{}, fmt.Errorf("user id required")
	}
	var payload Settings
	if err := c.do(ctx, http.MethodGet, "/api/users/"+url.PathEscape(id)+"/settings", nil, &payload); err != nil {
		return Settings{}, err
	}
	return payload, nil
}

// SaveSettings persists a complete settings record for a user. The returned
// SaveResult carries the value the daemon stored; callers adopt that value,
// not the draft they sent.
func (c *Client) SaveSettings(ctx context.Context, id string, settings Settings) (SaveResult, error) {
	if c == nil {
		return SaveResult{}, fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(id) == "" {
		return SaveResult{}, fmt.Errorf("user id required")
	}
	body, err := json.Marshal(settings)
	if err != nil {
		return SaveResult{}, fmt.Errorf("encode settings: %w", err)
	}
	var payload SaveResult
	if err := c.do(ctx, http.MethodPut, "/api/users/"+url.PathEscape(id)+"/settings", body, &payload); err != nil {
		return SaveResult{}, err
	}
	return payload, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, dest any) error {
	rel := &url.URL{Path: path}
	reqURL := c.baseURL.ResolveReference(rel)

	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	var req *http.Request
	var err error
	if reader != nil {
		req, err = http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	}
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("api %s: %w", rel.Path, ErrNotFound)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("api %s returned status %d", rel.Path, resp.StatusCode)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(apiBind string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBind)
	if trimmed == "" {
		trimmed = defaultAPIBind
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_bind %q: %w", apiBind, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
