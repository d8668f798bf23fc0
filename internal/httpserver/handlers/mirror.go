package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/deps"
)

func mirrorDisabled(w http.ResponseWriter, d deps.Deps) bool {
	if d.Mirror != nil {
		return false
	}
	writeJSON(w, http.StatusNotFound, ErrorResponse{
		Error:   "mirror_disabled",
		Message: "Redis mirror is not configured",
	}, d.Logger)
	return true
}

// MirrorSnapshot returns the collection as last written to Redis.
func MirrorSnapshot(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if mirrorDisabled(w, d) {
			return
		}
		c, err := d.Mirror.Snapshot(r.Context())
		if err != nil {
			writeError(w, err, d.Logger)
			return
		}
		writeJSON(w, http.StatusOK, c, d.Logger)
	}
}

// MirrorBookmark returns one bookmark as last written to Redis.
func MirrorBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if mirrorDisabled(w, d) {
			return
		}
		b, err := d.Mirror.GetBookmark(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err, d.Logger)
			return
		}
		writeJSON(w, http.StatusOK, b, d.Logger)
	}
}
