package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrSnakeDoc/bookmarks/internal/bookmarks"
	"github.com/MrSnakeDoc/bookmarks/internal/config"
	"github.com/MrSnakeDoc/bookmarks/internal/dispatch"
	"github.com/MrSnakeDoc/bookmarks/internal/host"
	"github.com/MrSnakeDoc/bookmarks/internal/httpserver"
	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bookmarks/internal/logger"
	"github.com/MrSnakeDoc/bookmarks/internal/notify"
	"github.com/MrSnakeDoc/bookmarks/internal/redis"
	"github.com/MrSnakeDoc/bookmarks/internal/scheduler"
	"github.com/MrSnakeDoc/bookmarks/internal/sources/homepage"
	"github.com/MrSnakeDoc/bookmarks/internal/storage"
	redisstore "github.com/MrSnakeDoc/bookmarks/internal/store/redis"
	"github.com/MrSnakeDoc/bookmarks/internal/table"
	"github.com/MrSnakeDoc/bookmarks/internal/version"
)

type App struct {
	cfg       *config.Config
	logger    logger.Logger
	server    *httpserver.Server
	mirror    *redisstore.Store
	store     *bookmarks.Store
	view      *table.View
	loader    *scheduler.Loader
	persister *scheduler.Persister
}

// NewGateway returns the storage gateway for the configured file, backed by
// the local host.
func NewGateway(cfg *config.Config) storage.Gateway {
	cmds := host.NewLocalCommands()
	return storage.NewFileGateway(cfg.File, host.NewLocalFiles(cmds), cmds)
}

// ConnectMirror connects the optional Redis mirror. It returns nil when the
// mirror is disabled or Redis cannot be reached; the file stays authoritative.
func ConnectMirror(ctx context.Context, cfg *config.Config, loggerClient logger.Logger) *redisstore.Store {
	client, err := redis.New(ctx, redis.ConnectOptions{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		RedisDB:        cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}, loggerClient)
	switch {
	case errors.Is(err, redis.ErrDisabled):
		loggerClient.Debug("redis mirror disabled")
		return nil
	case err != nil:
		loggerClient.Warn("redis mirror unavailable, continuing without it", logger.Error(err))
		return nil
	}
	return redisstore.NewStore(client)
}

// asMirror keeps a nil *Store from becoming a non-nil interface.
func asMirror(s *redisstore.Store) scheduler.Mirror {
	if s == nil {
		return nil
	}
	return s
}

func New(ctx context.Context, cfg *config.Config, loggerClient logger.Logger) (*App, error) {
	loggerClient.Info("configuration loaded",
		logger.String("file", cfg.File),
		logger.String("listen", cfg.ListenPort),
		logger.Bool("redis_mirror", cfg.MirrorEnabled()))

	gateway := NewGateway(cfg)
	banner := notify.NewBanner(cfg.NotifyTTL, loggerClient)
	mirror := ConnectMirror(ctx, cfg, loggerClient)

	// Single writer: every mutation hands its snapshot to the persister.
	persister := scheduler.NewPersister(gateway, banner, asMirror(mirror), loggerClient)
	store := bookmarks.NewStore(persister)

	view := table.NewView(table.DefaultConfig(), cfg.SearchDebounce)
	store.Subscribe(view.SetData)

	dispatcher := dispatch.New(store, dispatch.StaticForm{}, dispatch.Answer(false), loggerClient)

	// Create manual reload trigger channel
	reloadTrigger := make(chan struct{}, 1)
	loader := scheduler.NewLoader(gateway, store, persister, banner, loggerClient, reloadTrigger)

	// Dependencies passed to routes
	d := deps.Deps{
		Logger:         loggerClient,
		StartTime:      time.Now(),
		Version:        version.Version,
		Commit:         version.Commit,
		BuildDate:      version.BuildDate,
		GoVersion:      version.GoVersion,
		TimeNow:        time.Now,
		AllowedHosts:   cfg.AllowedHosts,
		AllowedCIDRS:   cfg.AllowedCIDRS,
		TrustProxy:     cfg.TrustProxy,
		File:           gateway.Path(),
		Store:          store,
		View:           view,
		SearchDebounce: cfg.SearchDebounce,
		Dispatcher:     dispatcher,
		Banner:         banner,
		Loader:         loader,
		Persister:      persister,
		Importer:       homepage.NewImporter(store, loggerClient),
		Mirror:         mirror,
		ReloadTrigger:  reloadTrigger,
	}

	return &App{
		cfg:       cfg,
		logger:    loggerClient,
		server:    httpserver.New(cfg, loggerClient, d),
		mirror:    mirror,
		store:     store,
		view:      view,
		loader:    loader,
		persister: persister,
	}, nil
}

// Run serves until SIGINT/SIGTERM.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext serves until ctx is done, then shuts down in order: stop
// accepting requests, flush pending saves, stop workers, close Redis.
func (a *App) RunContext(ctx context.Context) error {
	a.logger.Infof("🚀 Starting bookmarks v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("bookmarks %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	if err := a.persister.Start(ctx); err != nil {
		return fmt.Errorf("failed to start persister: %w", err)
	}

	// Initial load runs in the background; the panel shows its loading row meanwhile.
	if err := a.loader.Start(ctx); err != nil {
		return fmt.Errorf("failed to start loader: %w", err)
	}
	a.logger.Info("bookmark loader started", logger.String("file", a.cfg.File))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case runErr = <-errCh:
		a.logger.Error("http server failed, shutting down", logger.Error(runErr))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to stop server: %w", err)
	}

	a.loader.Stop()

	if err := a.persister.Flush(shutdownCtx); err != nil {
		a.logger.Warn("pending bookmark saves did not finish before shutdown", logger.Error(err))
	}
	a.persister.Stop()
	a.view.Close()

	if a.mirror != nil {
		if err := a.mirror.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	if runErr != nil {
		return runErr
	}
	a.logger.Info("✅ bookmarks stopped cleanly")
	return nil
}
