package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/calyptra/perch/internal/aviary"
	"github.com/calyptra/perch/internal/config"
	"github.com/calyptra/perch/internal/logging"
	"github.com/calyptra/perch/internal/prefs"
	"github.com/calyptra/perch/internal/session"
	"github.com/calyptra/perch/internal/ui"
)

const startupTimeout = 10 * time.Second

// Options configure the Perch application.
type Options struct {
	ConfigPath   string
	PrefsPath    string // empty uses default ~/.config/perch/prefs.toml
	User         string // initial identity; overrides prefs and config
	RefreshEvery int    // seconds; zero uses default
}

// Run boots the Perch TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, closeLog, err := logging.Open(cfg.LogFilePath())
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer closeLog()

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	client, err := aviary.NewClient(cfg.APIBind)
	if err != nil {
		return fmt.Errorf("init aviary client: %w", err)
	}

	// The directory is the static search corpus; fetch it once before the
	// UI starts. The daemon being down is fatal here rather than a state
	// the UI needs to render.
	dirCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	directory, err := client.FetchDirectory(dirCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("fetch directory: %w", err)
	}
	logger.Info("directory loaded", zap.Int("users", len(directory)))

	controller := session.New(directory)

	uiOpts := ui.Options{
		Context:     ctx,
		Client:      client,
		Controller:  controller,
		Logger:      logger,
		ThemeName:   userPrefs.Theme,
		PrefsPath:   opts.PrefsPath,
		InitialUser: initialUser(opts.User, userPrefs.LastUser, cfg.DefaultUser),
	}
	if opts.RefreshEvery > 0 {
		uiOpts.RefreshEvery = time.Duration(opts.RefreshEvery) * time.Second
	}
	return ui.Run(uiOpts)
}

// initialUser picks the starting identity: the -user flag wins, then the
// last session's user, then the configured default. Empty means the UI
// starts without an identity and prompts for one.
func initialUser(flag, last, configured string) string {
	if flag != "" {
		return flag
	}
	if last != "" {
		return last
	}
	return configured
}
