package commands

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/assettrack/assettrack/internal/activity"
	"github.com/assettrack/assettrack/internal/config"
	"github.com/assettrack/assettrack/internal/day"
	"github.com/assettrack/assettrack/internal/logging"
	"github.com/assettrack/assettrack/internal/persist"
	"github.com/assettrack/assettrack/internal/render"
	"github.com/assettrack/assettrack/internal/session"
)

// today is replaced in tests.
var today = day.Today

// app is everything a command needs for one invocation.
type app struct {
	dir    string
	cfg    *config.Config
	db     *persist.Store
	log    *activity.Log
	sess   *session.Session
	theme  render.Theme
	logger *slog.Logger
}

func openApp(dir string, stderr io.Writer) (*app, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.Resolve(absDir)
	if err != nil {
		return nil, err
	}
	logger := logging.New(cfg.Logging, stderr)

	db, err := persist.Open(cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	actLog := activity.New(absDir)
	sess, err := session.Open(db, actLog, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	dark, err := sess.DarkMode()
	if err != nil {
		db.Close()
		return nil, err
	}

	return &app{
		dir:    absDir,
		cfg:    cfg,
		db:     db,
		log:    actLog,
		sess:   sess,
		theme:  render.NewTheme(dark),
		logger: logger,
	}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

// withApp opens the data directory, runs fn and closes it again.
func withApp(dir string, stderr io.Writer, fn func(a *app) error) error {
	a, err := openApp(dir, stderr)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}
