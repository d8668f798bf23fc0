package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
	"github.com/MrSnakeDoc/bookmarks/internal/logger"
	"github.com/MrSnakeDoc/bookmarks/internal/notify"
	"github.com/MrSnakeDoc/bookmarks/internal/storage"
)

const (
	MsgSaved      = "Bookmarks saved successfully"
	MsgSaveFailed = "Failed to save bookmarks"
)

// Mirror receives every snapshot that reached the backing file.
type Mirror interface {
	MirrorSnapshot(ctx context.Context, c domain.Collection) error
}

// PersistStatus summarizes the outcome of past saves.
type PersistStatus struct {
	Saves     int       `json:"saves"`
	Failures  int       `json:"failures"`
	LastSave  time.Time `json:"last_save,omitempty"`
	LastError string    `json:"last_error,omitempty"`
}

// saver writes one snapshot and reports the outcome.
type saver struct {
	gateway  storage.Gateway
	notifier notify.Notifier
	mirror   Mirror
	logger   logger.Logger

	mu     sync.Mutex
	status PersistStatus
}

func (s *saver) save(ctx context.Context, c domain.Collection) error {
	start := time.Now()
	err := s.gateway.Save(ctx, c)

	s.mu.Lock()
	if err != nil {
		s.status.Failures++
		s.status.LastError = err.Error()
	} else {
		s.status.Saves++
		s.status.LastSave = start
		s.status.LastError = ""
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("failed to save bookmarks",
			logger.String("file", s.gateway.Path()),
			logger.Error(err))
		s.notifier.Notify(notify.Error, MsgSaveFailed)
		return err
	}

	s.logger.Debug("bookmarks saved",
		logger.String("file", s.gateway.Path()),
		logger.Int("count", len(c)),
		logger.Duration("elapsed", time.Since(start)))
	s.notifier.Notify(notify.Success, MsgSaved)

	// Best effort: the file is authoritative.
	if s.mirror != nil {
		if err := s.mirror.MirrorSnapshot(ctx, c); err != nil {
			s.logger.Warn("failed to mirror bookmarks to redis", logger.Error(err))
		}
	}
	return nil
}

func (s *saver) Status() PersistStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// SyncPersister saves each snapshot before Persist returns.
type SyncPersister struct {
	saver
	ctx     context.Context
	lastErr error
}

// NewSyncPersister creates a persister that saves inline using ctx.
func NewSyncPersister(
	ctx context.Context,
	gateway storage.Gateway,
	notifier notify.Notifier,
	mirror Mirror,
	log logger.Logger,
) *SyncPersister {
	return &SyncPersister{
		saver: saver{gateway: gateway, notifier: notifier, mirror: mirror, logger: log},
		ctx:   ctx,
	}
}

func (p *SyncPersister) Persist(c domain.Collection) {
	p.lastErr = p.save(p.ctx, c)
}

// Flush returns at once: every save has finished when Persist returns.
func (p *SyncPersister) Flush(context.Context) error { return nil }

// Err returns the outcome of the most recent save.
func (p *SyncPersister) Err() error { return p.lastErr }

// Persister saves snapshots from a single background worker.
// Snapshots submitted while a save is running coalesce to the latest one,
// so an older snapshot never overwrites a newer one.
type Persister struct {
	saver

	mu         sync.Mutex
	pending    domain.Collection
	hasPending bool
	submitted  uint64
	attempted  uint64
	progress   chan struct{} // closed and replaced after every attempt

	wake    chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
}

// NewPersister creates a background persister. mirror may be nil.
func NewPersister(
	gateway storage.Gateway,
	notifier notify.Notifier,
	mirror Mirror,
	log logger.Logger,
) *Persister {
	return &Persister{
		saver:    saver{gateway: gateway, notifier: notifier, mirror: mirror, logger: log},
		progress: make(chan struct{}),
		wake:     make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Persist records c as the latest snapshot and wakes the worker.
func (p *Persister) Persist(c domain.Collection) {
	p.mu.Lock()
	p.pending = c
	p.hasPending = true
	p.submitted++
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// Start runs the worker until Stop. Saves use a context detached from ctx's
// cancellation so that a shutdown signal does not abort the final writes.
func (p *Persister) Start(ctx context.Context) error {
	p.mu.Lock()
	p.started = true
	p.mu.Unlock()

	saveCtx := context.WithoutCancel(ctx)
	go func() {
		defer close(p.doneCh)
		for {
			select {
			case <-p.wake:
				p.drain(saveCtx)
			case <-p.stopCh:
				p.drain(saveCtx)
				return
			}
		}
	}()
	return nil
}

// Stop drains pending snapshots and waits for the worker to exit.
func (p *Persister) Stop() {
	p.mu.Lock()
	started := p.started
	p.mu.Unlock()

	close(p.stopCh)
	if started {
		<-p.doneCh
	}
}

// Flush waits until every snapshot submitted before the call has been attempted.
func (p *Persister) Flush(ctx context.Context) error {
	p.mu.Lock()
	target := p.submitted
	p.mu.Unlock()

	for {
		p.mu.Lock()
		if p.attempted >= target {
			p.mu.Unlock()
			return nil
		}
		ch := p.progress
		p.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (p *Persister) drain(ctx context.Context) {
	for {
		p.mu.Lock()
		if !p.hasPending {
			p.mu.Unlock()
			return
		}
		c, seq := p.pending, p.submitted
		p.pending, p.hasPending = nil, false
		p.mu.Unlock()

		_ = p.save(ctx, c)

		p.mu.Lock()
		p.attempted = seq
		close(p.progress)
		p.progress = make(chan struct{})
		p.mu.Unlock()
	}
}
