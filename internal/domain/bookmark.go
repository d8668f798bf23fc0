package domain

import (
	"regexp"
	"time"

	"github.com/rs/xid"
)

// TimestampLayout is the ISO 8601 form used for created/updated stamps.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// IDPrefix prefixes every generated bookmark id.
const IDPrefix = "bookmark-"

// Bookmark is the sole persisted entity: a named URL with an optional description.
type Bookmark struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is generated at creation and never changes.
	// Example: bookmark-cv37rs3pp9olc6atsptg
	ID string `json:"id"`

	// ─────────────────────────────
	// User content
	// ─────────────────────────────

	// Name is the display label, never empty after trimming.
	Name string `json:"name"`

	// URL always carries a scheme.
	// Example: https://example.com
	URL string `json:"url"`

	// Description is optional and defaults to "".
	Description string `json:"description"`

	// ─────────────────────────────
	// Metadata
	// ─────────────────────────────

	// Created is stamped once at creation.
	Created string `json:"created"`

	// Updated is stamped on every edit; empty (and omitted) if never edited.
	Updated string `json:"updated,omitempty"`
}

// Collection is the ordered set of bookmarks. Insertion order is storage order.
type Collection []Bookmark

// Clone returns a copy that shares no backing array with c.
func (c Collection) Clone() Collection {
	out := make(Collection, len(c))
	copy(out, c)
	return out
}

// IndexOf returns the position of the bookmark with the given id, or -1.
func (c Collection) IndexOf(id string) int {
	for i := range c {
		if c[i].ID == id {
			return i
		}
	}
	return -1
}

// NewID returns a fresh opaque bookmark id.
func NewID() string {
	return IDPrefix + xid.New().String()
}

// Timestamp formats t as a UTC ISO 8601 string with millisecond precision.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

var schemeRe = regexp.MustCompile(`(?i)^https?://`)

// NormalizeURL prefixes https:// unless raw starts with http:// or https://
// in any case. Other schemes are treated as part of the address.
// An empty input is returned unchanged.
func NormalizeURL(raw string) string {
	if raw == "" || schemeRe.MatchString(raw) {
		return raw
	}
	return "https://" + raw
}
