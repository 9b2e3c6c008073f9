package cmd

import (
	"context"
	"fmt"

	"github.com/inovacc/gistvault/internal/application"
	"github.com/inovacc/gistvault/internal/auth"
	"github.com/inovacc/gistvault/internal/config"
	"github.com/inovacc/gistvault/internal/gate"
	"github.com/inovacc/gistvault/internal/gist"
	"github.com/inovacc/gistvault/internal/logging"
	"github.com/inovacc/gistvault/internal/settings"
	"github.com/inovacc/gistvault/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// appState is what every command shares for one invocation. Stores are
// opened on first use so commands like version never touch disk.
type appState struct {
	cfg     *config.Config
	logger  *zap.Logger
	durable store.Store
	session store.Store
}

var app appState

func initApp() error {
	dir := rootAppDir
	if dir == "" {
		var err error
		if dir, err = application.GetApplicationDirectory(); err != nil {
			return err
		}
	}

	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}

	if rootLogLevel != "" {
		cfg.Log.Level = rootLogLevel
	}

	if rootStorage != "" {
		cfg.Storage.Driver = rootStorage
	}

	logger, err := logging.New(cfg.Log.Level, logging.Format(cfg.Log.Format))
	if err != nil {
		return err
	}

	app = appState{cfg: cfg, logger: logger}

	return nil
}

func closeApp() {
	for _, s := range []store.Store{app.durable, app.session} {
		if s == nil {
			continue
		}

		if err := s.Close(); err != nil {
			app.logger.Warn("failed to close store", zap.Error(err))
		}
	}

	if app.logger != nil {
		_ = app.logger.Sync()
	}

	app.durable, app.session = nil, nil
}

func durableStore() (store.Store, error) {
	if app.durable != nil {
		return app.durable, nil
	}

	driver, err := store.ParseDriver(app.cfg.Storage.Driver)
	if err != nil {
		return nil, err
	}

	s, err := store.Open(driver, app.cfg.AppDir, app.cfg.Storage.Path, application.AppName)
	if err != nil {
		return nil, err
	}

	app.logger.Debug("opened local store", zap.String("driver", string(driver)))
	app.durable = s

	return s, nil
}

func sessionStore() (store.Store, error) {
	if app.session != nil {
		return app.session, nil
	}

	s, err := store.NewFileStore(app.cfg.SessionDir())
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	app.session = s

	return s, nil
}

func openGate() (*gate.Gate, error) {
	durable, err := durableStore()
	if err != nil {
		return nil, err
	}

	session, err := sessionStore()
	if err != nil {
		return nil, err
	}

	hasher, err := gate.HasherByName(app.cfg.Auth.Hasher)
	if err != nil {
		return nil, err
	}

	return gate.New(durable, session,
		gate.WithHasher(hasher),
		gate.WithSessionTTL(app.cfg.Session.TTL),
		gate.WithLogger(app.logger.Named("gate")),
	), nil
}

// requireLogin fails unless the local gate is in the Authenticated state.
func requireLogin() error {
	g, err := openGate()
	if err != nil {
		return err
	}

	return g.Require()
}

// remoteContext bounds a remote command by the configured timeout.
func remoteContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if app.cfg.GitHub.Timeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, app.cfg.GitHub.Timeout)
}

func gistClient(ctx context.Context) (*gist.Client, error) {
	result, err := auth.NewGitHubResolver(rootToken, app.cfg.GitHub.Token, app.cfg.GitHub.Host).Resolve()
	if err != nil {
		return nil, err
	}

	if result.Found() {
		app.logger.Debug("resolved GitHub token", zap.String("source", result.Name))
	} else {
		app.logger.Warn("no GitHub token found; requests are unauthenticated")
	}

	opts := []gist.Option{gist.WithLogger(app.logger.Named("gist"))}
	if app.cfg.GitHub.APIURL != "" {
		opts = append(opts, gist.WithBaseURL(app.cfg.GitHub.APIURL))
	}

	return gist.NewClient(ctx, result.Token, opts...)
}

// protectedRemote runs the gate check and builds the clients every remote
// command needs.
func protectedRemote(ctx context.Context) (*gist.Client, *settings.Service, error) {
	if err := requireLogin(); err != nil {
		return nil, nil, err
	}

	client, err := gistClient(ctx)
	if err != nil {
		return nil, nil, err
	}

	durable, err := durableStore()
	if err != nil {
		return nil, nil, err
	}

	svc := settings.NewService(client, durable, settings.WithLogger(app.logger.Named("settings")))

	return client, svc, nil
}
