package handlers

import (
	"net/http"
	"strconv"

	"github.com/MrSnakeDoc/bookmarks/internal/apperror"
	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bookmarks/internal/table"
)

type tableResponse struct {
	State   table.State `json:"state"`
	Loading bool        `json:"loading"`
	Version uint64      `json:"version"`
	Rows    []table.Row `json:"rows"`
	HTML    string      `json:"html,omitempty"`
}

func tableSnapshot(d deps.Deps, withHTML bool) (tableResponse, error) {
	resp := tableResponse{
		State:   d.View.State(),
		Loading: !d.View.Loaded(),
		Version: d.View.Version(),
		Rows:    d.View.Rows(),
	}
	if withHTML {
		html, err := d.View.HTML()
		if err != nil {
			return resp, err
		}
		resp.HTML = string(html)
	}
	return resp, nil
}

// Table returns the projected rows. ?format=html answers the rendered table
// fragment instead of JSON.
func Table(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("format") == "html" {
			html, err := d.View.HTML()
			if err != nil {
				writeError(w, err, d.Logger)
				return
			}
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Header().Set("Cache-Control", "no-store")
			_, _ = w.Write([]byte(html))
			return
		}

		resp, err := tableSnapshot(d, false)
		if err != nil {
			writeError(w, err, d.Logger)
			return
		}
		writeJSON(w, http.StatusOK, resp, d.Logger)
	}
}

type searchRequest struct {
	Term string `json:"term"`
	// Immediate skips the debounce (e.g. when the user presses enter).
	Immediate bool `json:"immediate"`
}

// Search updates the search term. Typed input is debounced, so the answer
// is 202 and the caller polls /api/table.
func Search(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err, d.Logger)
			return
		}

		if req.Immediate {
			d.View.ApplySearch(req.Term)
			resp, err := tableSnapshot(d, false)
			if err != nil {
				writeError(w, err, d.Logger)
				return
			}
			writeJSON(w, http.StatusOK, resp, d.Logger)
			return
		}

		d.View.SetSearch(req.Term)
		writeJSON(w, http.StatusAccepted, map[string]string{"term": req.Term}, d.Logger)
	}
}

type sortRequest struct {
	Column *int   `json:"column,omitempty"`
	Key    string `json:"key,omitempty"`
}

// Sort toggles the order on a column, given by index or key.
func Sort(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req sortRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err, d.Logger)
			return
		}

		switch {
		case req.Key != "":
			if _, ok := d.View.SortBy(req.Key); !ok {
				writeError(w, apperror.ValidationFailed("key", "unknown sort column "+strconv.Quote(req.Key)), d.Logger)
				return
			}
		case req.Column != nil:
			if *req.Column < 0 || *req.Column >= len(d.View.Config().Columns) {
				writeError(w, apperror.ValidationFailed("column", "column out of range"), d.Logger)
				return
			}
			d.View.Sort(*req.Column)
		default:
			writeError(w, apperror.ValidationFailed("column", "column or key is required"), d.Logger)
			return
		}

		resp, err := tableSnapshot(d, false)
		if err != nil {
			writeError(w, err, d.Logger)
			return
		}
		writeJSON(w, http.StatusOK, resp, d.Logger)
	}
}
