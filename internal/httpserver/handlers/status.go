package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bookmarks/internal/scheduler"
)

const neverLoaded = "never"

type componentStatus struct {
	OK         bool                     `json:"ok"`
	Bookmarks  *int                     `json:"bookmarks,omitempty"`
	LastReload string                   `json:"last_reload,omitempty"`
	Path       string                   `json:"path,omitempty"`
	Persist    *scheduler.PersistStatus `json:"persist,omitempty"`
	Mode       string                   `json:"mode,omitempty"`
	Impact     string                   `json:"impact,omitempty"`
	Error      string                   `json:"error,omitempty"`
}

type statusResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

// Status reports the state of the file, the writer and the Redis mirror.
func Status(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count := d.Store.Len()
		lastReload := neverLoaded
		if t := d.Store.LastLoad(); !t.IsZero() {
			lastReload = t.Format(time.DateTime)
		}

		persist := d.Persister.Status()
		components := map[string]componentStatus{
			"file": {
				OK:         d.Loader.Ready(),
				Bookmarks:  &count,
				LastReload: lastReload,
				Path:       d.File,
			},
			"persister": {
				OK:      persist.LastError == "",
				Persist: &persist,
				Error:   persist.LastError,
			},
			"redis": checkMirror(r.Context(), d),
		}

		writeJSON(w, http.StatusOK, statusResponse{
			Mode:       determineMode(components),
			Components: components,
		}, d.Logger)
	}
}

func determineMode(components map[string]componentStatus) string {
	if file, ok := components["file"]; ok && !file.OK {
		return "loading"
	}
	if p, ok := components["persister"]; ok && !p.OK {
		return "critical" // changes are not reaching the file
	}
	if redis, ok := components["redis"]; ok && !redis.OK && redis.Mode != "disabled" {
		return "degraded"
	}
	return "ok"
}

func checkMirror(parent context.Context, d deps.Deps) componentStatus {
	if d.Mirror == nil {
		return componentStatus{
			OK:     true,
			Mode:   "disabled",
			Impact: "snapshot-mirror-off",
		}
	}

	ctx, cancel := context.WithTimeout(parent, 2*time.Second)
	defer cancel()

	if err := d.Mirror.Ping(ctx); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "snapshot-mirror-stale",
			Error:  err.Error(),
		}
	}

	mirrored := -1
	if n, err := d.Mirror.Count(ctx); err == nil {
		mirrored = int(n)
	}
	return componentStatus{
		OK:        true,
		Mode:      "mirroring",
		Bookmarks: &mirrored,
	}
}
