package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/MrSnakeDoc/bookmarks/internal/app"
	"github.com/MrSnakeDoc/bookmarks/internal/apperror"
	"github.com/MrSnakeDoc/bookmarks/internal/bookmarks"
	"github.com/MrSnakeDoc/bookmarks/internal/config"
	"github.com/MrSnakeDoc/bookmarks/internal/logger"
	"github.com/MrSnakeDoc/bookmarks/internal/notify"
	"github.com/MrSnakeDoc/bookmarks/internal/scheduler"
	redisstore "github.com/MrSnakeDoc/bookmarks/internal/store/redis"
	"github.com/MrSnakeDoc/bookmarks/internal/utils"
)

// loadConfig reads the configuration and applies the global flag overrides.
func loadConfig(g *GlobalFlags) (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	if g.File != "" {
		cfg.File = g.File
	}
	return cfg, nil
}

// newLogger keeps CLI output quiet unless --verbose is given.
func newLogger(cfg *config.Config, g *GlobalFlags) logger.Logger {
	level := "warn"
	if g.Verbose {
		level = "debug"
	}
	return logger.New(level, cfg.PrettyLog)
}

// session is a loaded store whose every change is saved before the call returns.
type session struct {
	cfg       *config.Config
	log       logger.Logger
	store     *bookmarks.Store
	persister *scheduler.SyncPersister
	notes     *notify.Recorder
	mirror    *redisstore.Store
}

// openSession loads the bookmarks file into a store.
// Load failures other than a malformed file are returned.
func openSession(ctx context.Context, g *GlobalFlags) (*session, error) {
	cfg, err := loadConfig(g)
	if err != nil {
		return nil, err
	}
	log := newLogger(cfg, g)

	gateway := app.NewGateway(cfg)
	notes := &notify.Recorder{}
	mirror := app.ConnectMirror(ctx, cfg, log)

	var m scheduler.Mirror
	if mirror != nil {
		m = mirror
	}
	persister := scheduler.NewSyncPersister(ctx, gateway, notes, m, log)
	store := bookmarks.NewStore(persister)

	s := &session{cfg: cfg, log: log, store: store, persister: persister, notes: notes, mirror: mirror}

	loader := scheduler.NewLoader(gateway, store, persister, notes, log, nil)
	if err := loader.Load(ctx); err != nil && !errors.Is(err, apperror.ErrParse) {
		s.close()
		return nil, fmt.Errorf("load %s: %w", gateway.Path(), err)
	}
	return s, nil
}

// saved reports the outcome of the last save.
func (s *session) saved() error {
	if err := s.persister.Err(); err != nil {
		return fmt.Errorf("%s: %w", scheduler.MsgSaveFailed, err)
	}
	return nil
}

func (s *session) close() {
	if s.mirror != nil {
		utils.MustClose(s.mirror, "redis", s.log)
	}
	_ = s.log.Sync()
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
