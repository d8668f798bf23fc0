package table

import (
	"sync"
	"time"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
)

// View is the live table: the last collection it was handed plus the user's
// sort and search state.
type View struct {
	cfg      Config
	debounce *Debouncer

	mu      sync.RWMutex
	data    domain.Collection
	state   State
	loaded  bool
	version uint64
}

func NewView(cfg Config, debounce time.Duration) *View {
	return &View{
		cfg:      cfg,
		debounce: NewDebouncer(debounce),
		data:     domain.Collection{},
		state:    DefaultState(),
	}
}

// Config returns the table layout.
func (v *View) Config() Config { return v.cfg }

// SetData replaces the rendered collection. It has the shape of a store
// listener so the view re-renders on every change.
func (v *View) SetData(c domain.Collection) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.data = c.Clone()
	v.loaded = true
	v.version++
}

// SetSearch applies term once typing has paused.
func (v *View) SetSearch(term string) {
	v.debounce.Trigger(func() { v.ApplySearch(term) })
}

// ApplySearch applies term immediately.
func (v *View) ApplySearch(term string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Search = term
	v.version++
}

// FlushSearch applies a pending debounced search now.
func (v *View) FlushSearch() { v.debounce.Flush() }

// Sort toggles the sort on the column at index col.
func (v *View) Sort(col int) State {
	v.mu.Lock()
	defer v.mu.Unlock()
	if col < 0 || col >= len(v.cfg.Columns) {
		return v.state
	}
	v.state = v.state.ToggleSort(col)
	v.version++
	return v.state
}

// SortBy toggles the sort on the column with the given key.
func (v *View) SortBy(key string) (State, bool) {
	i := v.cfg.ColumnIndex(key)
	if i < 0 {
		return v.State(), false
	}
	return v.Sort(i), true
}

func (v *View) State() State {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.state
}

// Loaded reports whether data has been set at least once.
func (v *View) Loaded() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.loaded
}

// Version increases on every change to data or state.
func (v *View) Version() uint64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.version
}

// Rows projects the current data through the current state.
func (v *View) Rows() []Row {
	v.mu.RLock()
	data, st := v.data, v.state
	v.mu.RUnlock()
	return Project(v.cfg, data, st)
}

// Close drops any pending search.
func (v *View) Close() { v.debounce.Stop() }
