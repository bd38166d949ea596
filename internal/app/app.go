package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/five82/weekplan/internal/config"
	"github.com/five82/weekplan/internal/items"
	"github.com/five82/weekplan/internal/prefs"
	"github.com/five82/weekplan/internal/state"
	"github.com/five82/weekplan/internal/ui"
)

// Options configure the weekplan terminal client.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/weekplan/prefs.toml
	PollEvery  int    // seconds; zero uses the config value
}

// Run boots the weekplan TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	logger, closeLog, err := openLog(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	client, err := items.NewClient(cfg.APIURL, items.WithTimeout(cfg.RequestTimeout))
	if err != nil {
		return fmt.Errorf("init item client: %w", err)
	}

	store := state.New(logger)
	actions := state.NewActions(store, client, logger)

	interval := cfg.RefreshEvery
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Background refresh; the initial load is triggered by the UI once it
	// has subscribed to the store.
	StartPoller(ctx, actions.SyncItems, interval, logger)

	logger.Info("starting weekplan",
		slog.String("api_url", cfg.APIURL),
		slog.Duration("refresh", interval),
	)

	return ui.Run(ui.Options{
		Context:   ctx,
		Store:     store,
		Actions:   actions,
		Bootstrap: func(ctx context.Context) { Bootstrap(ctx, actions) },
		Logger:    logger,
		ThemeName: userPrefs.Theme,
		StartView: userPrefs.StartView,
		PrefsPath: opts.PrefsPath,
		LogPath:   cfg.LogPath(),
	})
}

// Bootstrap loads the version and the item list concurrently and returns
// when both have finished.
func Bootstrap(ctx context.Context, actions *state.Actions) {
	var wg conc.WaitGroup
	wg.Go(func() { actions.LoadVersion(ctx) })
	wg.Go(func() { actions.LoadItems(ctx) })
	wg.Wait()
}

// openLog opens the client log file. The terminal is owned by the UI, so
// nothing is logged to stderr.
func openLog(cfg config.Config) (*slog.Logger, func(), error) {
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	path := cfg.LogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return newLogger(file, level), func() { _ = file.Close() }, nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
