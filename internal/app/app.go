// Package app wires configuration, storage, the timer engine and the
// optional remote backend together for the wt commands.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/Tiliavir/worktimer/internal/auth"
	"github.com/Tiliavir/worktimer/internal/config"
	"github.com/Tiliavir/worktimer/internal/engine"
	"github.com/Tiliavir/worktimer/internal/remote"
	"github.com/Tiliavir/worktimer/internal/remote/postgres"
	"github.com/Tiliavir/worktimer/internal/remote/rest"
	"github.com/Tiliavir/worktimer/internal/storage"
)

var (
	ErrNoBackend = errors.New("no remote backend configured (set backend.kind in config.yaml)")
	ErrNoAuth    = errors.New("no auth endpoint configured (set auth.url in config.yaml)")
)

// Options supplies the interactive pieces of the engine. Zero values fall
// back to the engine defaults.
type Options struct {
	Clock     clockwork.Clock
	Notifier  engine.Notifier
	Confirmer engine.Confirmer
	// LogOutput receives log lines; nil means io.Discard.
	LogOutput io.Writer
}

// App holds the long-lived components of one wt invocation.
type App struct {
	Config  *config.Config
	Log     *slog.Logger
	Storage *storage.Store
	Engine  *engine.Engine

	closers []func()
}

// New restores the engine from cfg.DataDir.
func New(cfg *config.Config, opts Options) (*App, error) {
	out := opts.LogOutput
	if out == nil {
		out = io.Discard
	}
	logger := NewLogger(cfg.Log, out)

	store := storage.New(cfg.DataDir)
	eng, err := engine.Restore(store, engine.Options{
		Clock:     opts.Clock,
		Notifier:  opts.Notifier,
		Confirmer: opts.Confirmer,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("engine restored",
		slog.String("store", store.Path()),
		slog.String("state", string(eng.Current())),
		slog.Int("records", eng.Len()),
	)

	return &App{Config: cfg, Log: logger, Storage: store, Engine: eng}, nil
}

// Auth returns a client for the configured auth endpoint.
func (a *App) Auth() (*auth.Client, error) {
	if a.Config.Auth.URL == "" {
		return nil, ErrNoAuth
	}
	return auth.New(a.Config.Auth.URL, a.Config.Auth.ClientID, a.Config.DataDir, auth.Options{Logger: a.Log}), nil
}

// Remote builds the configured session store behind the signed-in user.
func (a *App) Remote(ctx context.Context) (*remote.Service, error) {
	backend := a.Config.Backend
	if !backend.Enabled() {
		return nil, ErrNoBackend
	}
	client, err := a.Auth()
	if err != nil {
		return nil, err
	}

	var store remote.Store
	switch backend.Kind {
	case config.BackendREST:
		httpClient, err := client.HTTPClient(ctx)
		if errors.Is(err, auth.ErrNotSignedIn) {
			return nil, remote.ErrNotSignedIn
		}
		if err != nil {
			return nil, err
		}
		store = rest.New(backend.RESTURL, backend.Table, backend.APIKey, httpClient)
	case config.BackendPostgres:
		pool, err := postgres.NewPool(ctx, a.Config.Database)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, pool.Close)
		store = postgres.New(pool, backend.Table)
	default:
		return nil, fmt.Errorf("unknown backend kind %q", backend.Kind)
	}

	a.Log.Debug("remote backend ready", slog.String("kind", backend.Kind), slog.String("table", backend.Table))
	return remote.NewService(remote.WithLogging(store, a.Log), Identity(client)), nil
}

// Identity resolves the remote user from the stored auth session. A missing
// session is reported as nobody signed in.
func Identity(client *auth.Client) remote.Identity {
	return remote.IdentityFunc(func() (string, error) {
		u, err := client.CurrentUser()
		if errors.Is(err, auth.ErrNotSignedIn) {
			return "", nil
		}
		if err != nil {
			return "", err
		}
		return u.ID, nil
	})
}

// Close releases backend connections.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
