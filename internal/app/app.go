package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/kitchen-nadal/kitchen/internal/api"
	"github.com/kitchen-nadal/kitchen/internal/config"
	"github.com/kitchen-nadal/kitchen/internal/logging"
	"github.com/kitchen-nadal/kitchen/internal/prefs"
	"github.com/kitchen-nadal/kitchen/internal/queries"
	"github.com/kitchen-nadal/kitchen/internal/query"
	"github.com/kitchen-nadal/kitchen/internal/ui"
)

// Options configure the Kitchen application.
type Options struct {
	ConfigPath   string
	PrefsPath    string // empty uses default ~/.config/kitchen/prefs.toml
	Env          string // overrides config and KITCHEN_ENV when set
	RefreshEvery int    // seconds; zero uses config
}

// services is everything Run wires together before the UI starts.
type services struct {
	cfg       config.Config
	endpoint  string
	logger    *slog.Logger
	closer    io.Closer
	cache     *query.Cache
	hooks     *queries.Hooks
	refresher *Refresher
	prefs     *prefs.Store
}

// Run boots the Kitchen TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	svc, err := setup(opts)
	if err != nil {
		return err
	}
	defer svc.closer.Close()

	svc.logger.Info("kitchen starting",
		"env", svc.cfg.Env,
		"endpoint", svc.endpoint,
		"refresh", svc.cfg.RefreshInterval,
		"stale", svc.cfg.StaleTime)

	go svc.refresher.Run(ctx)

	err = ui.Run(ui.Options{
		Context:   ctx,
		Hooks:     svc.hooks,
		Refresher: svc.refresher,
		Prefs:     svc.prefs,
		LogPath:   svc.cfg.LogFile,
		Env:       svc.cfg.Env,
		Endpoint:  svc.endpoint,
		Logger:    svc.logger,
	})
	svc.logger.Info("kitchen stopped", "stats", fmt.Sprintf("%+v", svc.cache.Stats()))
	return err
}

func setup(opts Options) (*services, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.Env != "" {
		env, err := api.ParseEnvironment(opts.Env)
		if err != nil {
			return nil, fmt.Errorf("env flag: %w", err)
		}
		cfg.Env = env
	}
	if opts.RefreshEvery > 0 {
		cfg.RefreshInterval = time.Duration(opts.RefreshEvery) * time.Second
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	endpoint, err := cfg.APIEndpoint()
	if err != nil {
		return nil, fmt.Errorf("resolve endpoint: %w", err)
	}
	client, err := api.NewClient(endpoint)
	if err != nil {
		return nil, fmt.Errorf("init api client: %w", err)
	}

	logger, closer, err := logging.Open(cfg.LogFile, level)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}

	cache := query.New(query.Options{StaleTime: cfg.StaleTime, Logger: logger})
	return &services{
		cfg:       cfg,
		endpoint:  client.BaseURL(),
		logger:    logger,
		closer:    closer,
		cache:     cache,
		hooks:     queries.New(cache, client, queries.WithLogger(logger)),
		refresher: NewRefresher(cache, cfg.RefreshInterval, logger),
		prefs:     prefs.NewStore(opts.PrefsPath),
	}, nil
}
