// Package notify carries transient success/failure feedback to the user.
package notify

import (
	"sync"
	"time"

	"github.com/MrSnakeDoc/bookmarks/internal/logger"
)

// Kind is the banner style of a notification.
type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
	Info    Kind = "info"
)

// DefaultTTL is how long a banner stays visible.
const DefaultTTL = 4 * time.Second

// Notification is one banner message.
type Notification struct {
	Kind    Kind      `json:"type"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Notifier receives user-visible feedback.
type Notifier interface {
	Notify(kind Kind, message string)
}

// Banner keeps the latest notification visible for a fixed time.
type Banner struct {
	mu     sync.RWMutex
	ttl    time.Duration
	now    func() time.Time
	logger logger.Logger
	last   *Notification
}

// NewBanner creates a banner; a ttl <= 0 falls back to DefaultTTL.
func NewBanner(ttl time.Duration, log logger.Logger) *Banner {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Banner{ttl: ttl, now: time.Now, logger: log}
}

func (b *Banner) Notify(kind Kind, message string) {
	n := Notification{Kind: kind, Message: message, At: b.now()}

	b.mu.Lock()
	b.last = &n
	b.mu.Unlock()

	switch kind {
	case Error:
		b.logger.Warn("notification", logger.String("type", string(kind)), logger.String("message", message))
	default:
		b.logger.Info("notification", logger.String("type", string(kind)), logger.String("message", message))
	}
}

// Current returns the visible notification, if it has not expired.
func (b *Banner) Current() (Notification, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.last == nil || b.now().Sub(b.last.At) >= b.ttl {
		return Notification{}, false
	}
	return *b.last, true
}

// Recorder collects notifications in order.
type Recorder struct {
	mu  sync.Mutex
	all []Notification
}

func (r *Recorder) Notify(kind Kind, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.all = append(r.all, Notification{Kind: kind, Message: message, At: time.Now()})
}

// All returns a copy of what has been recorded so far.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.all))
	copy(out, r.all)
	return out
}
