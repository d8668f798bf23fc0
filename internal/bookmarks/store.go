package bookmarks

import (
	"sync"
	"time"

	"github.com/MrSnakeDoc/bookmarks/internal/apperror"
	"github.com/MrSnakeDoc/bookmarks/internal/domain"
)

// Persister receives the full collection after every mutation.
// Persist must not block the caller.
type Persister interface {
	Persist(c domain.Collection)
}

// Listener is called with the current collection after it changed.
// Listeners may read from the Store but must not mutate it.
type Listener func(c domain.Collection)

// Store is the single authoritative holder of the bookmark collection
// and the only component allowed to mutate it.
type Store struct {
	writeMu   sync.Mutex   // serializes mutations and their side effects
	mu        sync.RWMutex // guards items and lastLoad
	items     domain.Collection
	lastLoad  time.Time
	persister Persister
	listeners []Listener
	now       func() time.Time
	newID     func() string
}

// Option customizes a Store.
type Option func(*Store)

// WithClock overrides the time source used for created/updated stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides how new ids are generated.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// NewStore creates an empty store that persists through p.
func NewStore(p Persister, opts ...Option) *Store {
	s := &Store{
		items:     domain.Collection{},
		persister: p,
		now:       time.Now,
		newID:     domain.NewID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers l to be called after every change.
func (s *Store) Subscribe(l Listener) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.listeners = append(s.listeners, l)
}

// SetAll replaces the held collection wholesale without persisting it.
// Records whose id was already seen are dropped; the number dropped is returned.
func (s *Store) SetAll(c domain.Collection) int {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	return s.setAllLocked(c)
}

// Reload replaces the collection with what read returns, as SetAll does.
// No mutation can start while read runs. When read fails nothing changes.
func (s *Store) Reload(read func() (domain.Collection, error)) (int, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	c, err := read()
	if err != nil {
		return 0, err
	}
	return s.setAllLocked(c), nil
}

func (s *Store) setAllLocked(c domain.Collection) int {
	items := make(domain.Collection, 0, len(c))
	seen := make(map[string]bool, len(c))
	for _, b := range c {
		if seen[b.ID] {
			continue
		}
		seen[b.ID] = true
		items = append(items, b)
	}

	s.mu.Lock()
	s.items = items
	s.lastLoad = s.now()
	snapshot := s.items.Clone()
	s.mu.Unlock()

	s.emit(snapshot)
	return len(c) - len(items)
}

// Create appends a new bookmark and persists the collection.
// The url is normalized; the caller is trusted for everything else.
func (s *Store) Create(name, url, description string) domain.Bookmark {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	id := s.newID()
	for s.items.IndexOf(id) >= 0 {
		id = s.newID()
	}
	b := domain.Bookmark{
		ID:          id,
		Name:        name,
		URL:         domain.NormalizeURL(url),
		Description: description,
		Created:     domain.Timestamp(s.now()),
	}
	s.items = append(s.items, b)
	snapshot := s.items.Clone()
	s.mu.Unlock()

	s.persistAndEmit(snapshot)
	return b
}

// Update replaces the bookmark with the given id, keeping its id and created
// stamp. An unknown id yields apperror.ErrNotFound and changes nothing.
func (s *Store) Update(id, name, url, description string) (domain.Bookmark, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	i := s.items.IndexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return domain.Bookmark{}, apperror.NotFound("bookmark", id)
	}
	b := domain.Bookmark{
		ID:          id,
		Name:        name,
		URL:         domain.NormalizeURL(url),
		Description: description,
		Created:     s.items[i].Created,
		Updated:     domain.Timestamp(s.now()),
	}
	s.items[i] = b
	snapshot := s.items.Clone()
	s.mu.Unlock()

	s.persistAndEmit(snapshot)
	return b, nil
}

// Delete removes the bookmark with the given id and reports whether one existed.
// The collection is persisted in both cases.
func (s *Store) Delete(id string) bool {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	removed := false
	if i := s.items.IndexOf(id); i >= 0 {
		items := make(domain.Collection, 0, len(s.items)-1)
		items = append(items, s.items[:i]...)
		items = append(items, s.items[i+1:]...)
		s.items = items
		removed = true
	}
	snapshot := s.items.Clone()
	s.mu.Unlock()

	s.persistAndEmit(snapshot)
	return removed
}

// Get returns the bookmark with the given id.
func (s *Store) Get(id string) (domain.Bookmark, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.items.IndexOf(id); i >= 0 {
		return s.items[i], true
	}
	return domain.Bookmark{}, false
}

// All returns a copy of the collection in storage order.
func (s *Store) All() domain.Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.items.Clone()
}

// Len returns the number of bookmarks held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.items)
}

// LastLoad returns when SetAll last ran.
func (s *Store) LastLoad() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lastLoad
}

func (s *Store) persistAndEmit(snapshot domain.Collection) {
	if s.persister != nil {
		s.persister.Persist(snapshot)
	}
	s.emit(snapshot)
}

func (s *Store) emit(snapshot domain.Collection) {
	for _, l := range s.listeners {
		l(snapshot.Clone())
	}
}
