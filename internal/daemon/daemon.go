package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"

	"catalogpress/internal/api"
	"catalogpress/internal/config"
	"catalogpress/internal/deploy"
	"catalogpress/internal/editstore"
	"catalogpress/internal/logging"
)

// Daemon hosts the deployment API and enforces single-instance execution.
type Daemon struct {
	cfg       *config.Config
	logger    *slog.Logger
	store     *editstore.Store
	deployer  *deploy.Deployer
	inspector *deploy.Inspector
	auth      api.Authenticator
	server    *apiServer

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *editstore.Store, repo deploy.RepositoryClient, auth api.Authenticator, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil || repo == nil || logger == nil {
		return nil, errors.New("daemon requires config, store, repository client, and logger")
	}

	lockPath := filepath.Join(cfg.Paths.DataDir, "catalogpressd.lock")
	d := &Daemon{
		cfg:       cfg,
		logger:    logger,
		store:     store,
		deployer:  deploy.NewDeployer(store, repo, cfg, logger),
		inspector: deploy.NewInspector(repo, cfg),
		auth:      auth,
		lockPath:  lockPath,
		lock:      flock.New(lockPath),
	}

	server, err := newAPIServer(cfg, d, logger)
	if err != nil {
		return nil, err
	}
	d.server = server
	return d, nil
}

// Start acquires the daemon lock and begins serving the API.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another catalogpress daemon instance is already running")
	}

	serveCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	if d.server != nil {
		if err := d.server.start(serveCtx); err != nil {
			_ = d.lock.Unlock()
			cancel()
			d.cancel = nil
			return err
		}
	}

	d.running.Store(true)
	d.logger.Info("daemon started",
		logging.String("lock_file", d.lockPath),
		logging.String("edit_db", d.store.Path()),
	)
	return nil
}

// Stop shuts down the API server and releases the lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if d.server != nil {
		d.server.stop()
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	_ = d.lock.Unlock()
	d.running.Store(false)
	d.logger.Info("daemon stopped")
}

// Running reports whether the daemon is serving.
func (d *Daemon) Running() bool {
	return d.running.Load()
}
