package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/jask/omnibar/internal/config"
	"github.com/jask/omnibar/internal/engine"
	"github.com/jask/omnibar/internal/llm"
	"github.com/jask/omnibar/internal/search"
	"github.com/jask/omnibar/internal/store"
)

type logTarget int

const (
	logStderr logTarget = iota
	logFile
)

// session is an engine plus what has to be closed after it.
type session struct {
	cfg     config.Config
	engine  *engine.Engine
	closers []func() error
}

func (s *session) Close() {
	if s.engine != nil {
		s.engine.Close()
	}
	for i := len(s.closers) - 1; i >= 0; i-- {
		_ = s.closers[i]()
	}
}

// openSession loads config, configures logging and builds the engine.
// customize may adjust the engine dependencies before construction.
func openSession(c *cli.Context, target logTarget, customize func(*engine.Deps)) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if p := c.String("db"); p != "" {
		cfg.Database.Path = p
	}
	s := &session{cfg: cfg}

	closeLog, err := setupLogging(cfg.Log, target, c.App.ErrWriter)
	if err != nil {
		return nil, err
	}
	s.closers = append(s.closers, closeLog)

	var st engine.Store
	if c.Bool("ephemeral") || cfg.Database.Path == "" {
		st = store.NewMemory()
	} else {
		db, err := store.OpenSQLite(cfg.Database.Path)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("store: %w", err)
		}
		s.closers = append(s.closers, db.Close)
		st = db
	}

	deps := engine.Deps{Store: st}
	if cfg.Search.BaseURL != "" {
		deps.Searcher = search.NewHTTPSearcher(cfg.Search.BaseURL)
	}
	classifier, err := llm.New(cfg.LLMSettings())
	if err != nil {
		slog.Warn("remote classifier disabled", "provider", cfg.Intent.Provider, "err", err)
	} else {
		deps.Classifier = classifier
	}
	if customize != nil {
		customize(&deps)
	}

	e, err := engine.New(deps, cfg.EngineSettings())
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("engine: %w", err)
	}
	s.engine = e
	return s, nil
}

// setupLogging installs the default slog logger. The TUI owns the terminal,
// so it logs to a file.
func setupLogging(cfg config.LogConfig, target logTarget, stderr io.Writer) (func() error, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(cfg.Level))); err != nil {
		level = slog.LevelInfo
	}

	w, closeFn := stderr, func() error { return nil }
	if w == nil {
		w = os.Stderr
	}
	if target == logFile && cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, fmt.Errorf("mkdir log dir: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		w, closeFn = f, f.Close
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
	return closeFn, nil
}
