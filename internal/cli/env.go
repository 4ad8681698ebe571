package cli

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/pdxmph/taskflow/internal/config"
	"github.com/pdxmph/taskflow/internal/db"
	"github.com/pdxmph/taskflow/internal/logging"
	"github.com/pdxmph/taskflow/internal/persist"
	"github.com/pdxmph/taskflow/internal/session"
	"github.com/pdxmph/taskflow/internal/store"
	"github.com/pdxmph/taskflow/internal/telemetry"
)

// env is everything a command needs, built from the config file and flags
type env struct {
	cfg       *config.Config
	logger    *zap.Logger
	storage   persist.Storage
	db        *db.DB // nil for --ephemeral
	adapter   *persist.Adapter
	store     *store.Store
	sessions  *session.Manager
	telemetry *telemetry.Manager
	notice    string // non-fatal startup problem to show the user
	decodeErr error  // set when the saved snapshot could not be decoded

	closers []func() error
}

// loadConfig reads --config, or the standard location
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFrom(configPath)
	}
	return config.Load()
}

// openEnv wires storage, store, session and telemetry together. An
// undecodable snapshot is reported as a notice and the seed collection is
// used; unreadable storage aborts.
func openEnv() (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("opening log: %w", err)
	}

	e := &env{cfg: cfg, logger: logger}
	e.closers = append(e.closers, func() error { _ = logger.Sync(); return nil })

	if ephemeral {
		e.storage = persist.NewMemoryStorage()
		logger.Info("using in-memory storage")
	} else {
		database, err := db.Open(cfg.Storage.Path, logger)
		if err != nil {
			e.Close()
			return nil, err
		}
		e.storage = database
		e.db = database
		e.closers = append(e.closers, database.Close)
	}

	opts := []store.Option{store.WithLogger(logger)}
	if !cfg.Features.Seed {
		opts = append(opts, store.WithSeed(nil))
	}
	e.adapter = persist.NewAdapter(e.storage, cfg.Storage.Slot, logger)
	e.store = store.New(e.adapter, opts...)

	if err := e.store.Open(); err != nil {
		var decErr *persist.DecodeError
		if !errors.As(err, &decErr) {
			e.Close()
			return nil, err
		}
		logger.Warn("saved tasks unreadable, starting from the sample list", zap.Error(err))
		e.decodeErr = decErr
		e.notice = fmt.Sprintf("Saved tasks could not be read (%v); showing the sample list", decErr.Err)
	}

	e.sessions = session.NewManager(e.storage, logger)

	e.telemetry, err = telemetry.NewManager(cfg.Telemetry.Enabled, cfg.Telemetry.Sink, logger)
	if err != nil {
		e.Close()
		return nil, err
	}
	if u, ok, err := e.sessions.Current(); err == nil && ok {
		e.telemetry.Identify(u.ID, telemetry.Props{"email": u.Email})
	}

	return e, nil
}

// requireReadable refuses writes while the saved snapshot is undecodable,
// since saving would replace it with the sample list. reset is the way out.
func (e *env) requireReadable() error {
	if e.decodeErr == nil {
		return nil
	}
	return fmt.Errorf("saved tasks in slot %q could not be read: %w; run 'taskflow reset' to discard them",
		e.adapter.Slot(), e.decodeErr)
}

// Close releases resources in reverse order of acquisition
func (e *env) Close() error {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// emit reports a CLI event
func (e *env) emit(event string, props telemetry.Props) {
	if props == nil {
		props = telemetry.Props{}
	}
	props["source"] = "cli"
	e.telemetry.Emit(event, props)
}
