package main

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/calyptra/perch/internal/aviary"
)

// store holds the daemon's in-memory data. All access goes through the
// mutex; handlers copy on the way out so responses never alias stored
// slices.
type store struct {
	mu            sync.Mutex
	users         []aviary.Profile
	notifications map[string][]aviary.Notification
	settings      map[string]aviary.Settings
}

// seedStore builds the fixture data set: a small directory with varied
// notification feeds so the dashboard has something to render.
func seedStore() *store {
	users := []aviary.Profile{
		{ID: "u-alice", Name: "Alice Finch", Email: "alice@aviary.test"},
		{ID: "u-bob", Name: "Bob Wren", Email: "bob@aviary.test"},
		{ID: "u-carmen", Name: "Carmen Swift", Email: "carmen@aviary.test"},
		{ID: "u-dana", Name: "Dana Kestrel", Email: "dana@aviary.test"},
	}

	notifications := map[string][]aviary.Notification{
		"u-alice": {
			{ID: uuid.NewString(), Title: "Welcome to Aviary", Read: true},
			{ID: uuid.NewString(), Title: "Your weekly digest is ready", Read: false},
			{ID: uuid.NewString(), Title: "Bob Wren mentioned you", Read: false},
		},
		"u-bob": {
			{ID: uuid.NewString(), Title: "Welcome to Aviary", Read: true},
		},
		"u-carmen": {
			{ID: uuid.NewString(), Title: "Password changed", Read: false},
			{ID: uuid.NewString(), Title: "New login from unknown device", Read: false},
		},
		"u-dana": nil,
	}

	settings := map[string]aviary.Settings{
		"u-alice":  {Theme: "dark", Email: true},
		"u-bob":    {Theme: "light", Email: false},
		"u-carmen": {Theme: "dark", Email: false},
		"u-dana":   {Theme: "light", Email: true},
	}

	return &store{users: users, notifications: notifications, settings: settings}
}

func (s *store) directory() []aviary.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]aviary.Profile, len(s.users))
	copy(out, s.users)
	return out
}

func (s *store) profile(id string) (aviary.Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return aviary.Profile{}, false
}

func (s *store) userNotifications(id string) []aviary.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	src := s.notifications[id]
	out := make([]aviary.Notification, len(src))
	copy(out, src)
	return out
}

func (s *store) userSettings(id string) (aviary.Settings, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.settings[id]
	return st, ok
}

func (s *store) saveSettings(id string, settings aviary.Settings) (aviary.Settings, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.settings[id]; !ok {
		return aviary.Settings{}, false
	}
	s.settings[id] = settings
	return settings, true
}

// newRouter builds the daemon's HTTP handler. A non-zero latency is
// injected before every handler, which makes the client's stale-response
// discard observable during manual testing.
func newRouter(st *store, logger *zap.Logger, latency time.Duration) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))
	if latency > 0 {
		r.Use(delay(latency))
	}

	r.Get("/api/directory", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, aviary.DirectoryResponse{Users: st.directory()})
	})

	r.Route("/api/users/{userID}", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			id := chi.URLParam(req, "userID")
			profile, ok := st.profile(id)
			if !ok {
				writeError(w, http.StatusNotFound, "user not found")
				return
			}
			writeJSON(w, http.StatusOK, profile)
		})

		r.Get("/notifications", func(w http.ResponseWriter, req *http.Request) {
			id := chi.URLParam(req, "userID")
			writeJSON(w, http.StatusOK, aviary.NotificationsResponse{
				Notifications: st.userNotifications(id),
			})
		})

		r.Get("/settings", func(w http.ResponseWriter, req *http.Request) {
			id := chi.URLParam(req, "userID")
			settings, ok := st.userSettings(id)
			if !ok {
				writeError(w, http.StatusNotFound, "user not found")
				return
			}
			writeJSON(w, http.StatusOK, settings)
		})

		r.Put("/settings", func(w http.ResponseWriter, req *http.Request) {
			id := chi.URLParam(req, "userID")

			// Decode into pointers so a missing field is distinguishable
			// from a zero value. Saves must carry the complete record.
			var body struct {
				Theme *string `json:"theme"`
				Email *bool   `json:"email"`
			}
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				writeError(w, http.StatusBadRequest, "invalid JSON body")
				return
			}
			if body.Theme == nil || body.Email == nil {
				writeError(w, http.StatusBadRequest, "settings record must include theme and email")
				return
			}
			if strings.TrimSpace(*body.Theme) == "" {
				writeError(w, http.StatusBadRequest, "theme must not be empty")
				return
			}

			stored, ok := st.saveSettings(id, aviary.Settings{Theme: *body.Theme, Email: *body.Email})
			if !ok {
				writeJSON(w, http.StatusOK, aviary.SaveResult{OK: false})
				return
			}
			writeJSON(w, http.StatusOK, aviary.SaveResult{OK: true, Settings: stored})
		})
	})

	return r
}

// requestLogger logs one line per request with the chi request id.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
			next.ServeHTTP(ww, req)
			logger.Info("request",
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("took", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(req.Context())),
			)
		})
	}
}

// delay injects artificial latency, honoring request cancellation.
func delay(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			timer := time.NewTimer(d)
			defer timer.Stop()
			select {
			case <-timer.C:
			case <-req.Context().Done():
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
