package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready     bool `json:"ready"`
	Bookmarks int  `json:"bookmarks"`
}

// Readyz reports ready once the bookmarks file has been read at least once.
// Until then the panel shows its loading row.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ready := d.Loader.Ready()
		status := http.StatusOK
		if !ready {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, readyzResponse{Ready: ready, Bookmarks: d.Store.Len()}, d.Logger)
	}
}
