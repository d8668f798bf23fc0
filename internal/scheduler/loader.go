package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/MrSnakeDoc/bookmarks/internal/apperror"
	"github.com/MrSnakeDoc/bookmarks/internal/domain"
	"github.com/MrSnakeDoc/bookmarks/internal/logger"
	"github.com/MrSnakeDoc/bookmarks/internal/notify"
	"github.com/MrSnakeDoc/bookmarks/internal/storage"
)

const MsgLoadFailed = "Failed to load bookmarks"

// Collection is what the loader fills after reading the file.
type Collection interface {
	Reload(read func() (domain.Collection, error)) (int, error)
}

// Flusher waits for the saves submitted so far.
type Flusher interface {
	Flush(ctx context.Context) error
}

// Loader reads the backing file into the store, once at startup and again
// whenever the manual trigger fires.
type Loader struct {
	gateway       storage.Gateway
	store         Collection
	flusher       Flusher
	notifier      notify.Notifier
	logger        logger.Logger
	manualTrigger chan struct{}
	stopCh        chan struct{}
	ready         atomic.Bool
	loads         atomic.Int64
}

// NewLoader creates a loader. flusher may be nil when nothing saves in the
// background; manualTrigger may be nil when reloads are never requested.
func NewLoader(
	gateway storage.Gateway,
	store Collection,
	flusher Flusher,
	notifier notify.Notifier,
	log logger.Logger,
	manualTrigger chan struct{},
) *Loader {
	return &Loader{
		gateway:       gateway,
		store:         store,
		flusher:       flusher,
		notifier:      notifier,
		logger:        log,
		manualTrigger: manualTrigger,
		stopCh:        make(chan struct{}),
	}
}

// Start runs the initial load in the background, then waits for manual triggers.
func (l *Loader) Start(ctx context.Context) error {
	go func() {
		_ = l.Load(ctx)
		for {
			select {
			case <-l.manualTrigger:
				l.logger.Info("manual bookmark reload triggered")
				_ = l.Load(ctx)
			case <-l.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

// Stop stops the loader
func (l *Loader) Stop() {
	close(l.stopCh)
}

// Ready reports whether the first load has completed.
func (l *Loader) Ready() bool { return l.ready.Load() }

// Loads returns how many loads have completed.
func (l *Loader) Loads() int64 { return l.loads.Load() }

// Load reads the file and replaces the store contents.
// Pending saves land before the file is read, and mutations wait until the
// store holds the result. Apart from a failed flush, the store always ends up
// populated, with an empty collection on failure.
func (l *Loader) Load(ctx context.Context) error {
	start := time.Now()

	var loadErr error
	read := 0
	dropped, err := l.store.Reload(func() (domain.Collection, error) {
		if l.flusher != nil {
			if err := l.flusher.Flush(ctx); err != nil {
				return nil, fmt.Errorf("wait for pending saves: %w", err)
			}
		}
		c, err := l.gateway.Load(ctx)
		loadErr, read = err, len(c)
		return c, nil
	})
	if err != nil {
		l.logger.Warn("bookmark reload skipped, keeping current bookmarks",
			logger.String("file", l.gateway.Path()),
			logger.Error(err))
		return err
	}

	switch {
	case loadErr == nil:
	case errors.Is(loadErr, apperror.ErrParse):
		// Malformed content shows up as an empty list without a banner.
		l.logger.Warn("bookmarks file is not valid JSON, starting empty",
			logger.String("file", l.gateway.Path()),
			logger.Error(loadErr))
	default:
		l.logger.Error("failed to load bookmarks",
			logger.String("file", l.gateway.Path()),
			logger.Error(loadErr))
		l.notifier.Notify(notify.Error, MsgLoadFailed)
	}

	if dropped > 0 {
		l.logger.Warn("dropped bookmarks with duplicate ids",
			logger.Int("dropped", dropped))
	}

	l.loads.Add(1)
	l.ready.Store(true)
	l.logger.Info("loaded bookmarks",
		logger.String("file", l.gateway.Path()),
		logger.Int("count", read-dropped),
		logger.Duration("elapsed", time.Since(start)))
	return loadErr
}
