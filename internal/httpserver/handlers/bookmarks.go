package handlers

import (
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/bookmarks/internal/apperror"
	"github.com/MrSnakeDoc/bookmarks/internal/dispatch"
	"github.com/MrSnakeDoc/bookmarks/internal/domain"
	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/deps"
)

// readForm accepts a JSON body or a classic urlencoded/multipart form.
func readForm(w http.ResponseWriter, r *http.Request) (domain.FormData, error) {
	var data domain.FormData

	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		if err := decodeJSON(r, &data); err != nil {
			return data, err
		}
		return data, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	if err := r.ParseForm(); err != nil {
		return data, apperror.ValidationFailed("", "invalid form body")
	}
	data.Name = r.PostFormValue(domain.FieldName)
	data.URL = r.PostFormValue(domain.FieldURL)
	data.Description = r.PostFormValue(domain.FieldDescription)
	return data, nil
}

// stillLoading answers 503 until the first load has filled the store, so a
// mutation can never save a partial collection over the file.
func stillLoading(w http.ResponseWriter, d deps.Deps) bool {
	if d.Loader == nil || d.Loader.Ready() {
		return false
	}
	w.Header().Set("Retry-After", "1")
	writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{
		Error:   "loading",
		Message: "Bookmarks are still loading, try again shortly",
	}, d.Logger)
	return true
}

// ListBookmarks returns the collection in storage order.
func ListBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all := d.Store.All()
		if all == nil {
			all = domain.Collection{}
		}
		writeJSON(w, http.StatusOK, all, d.Logger)
	}
}

func GetBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		b, ok := d.Store.Get(id)
		if !ok {
			writeError(w, apperror.NotFound("bookmark", id), d.Logger)
			return
		}
		writeJSON(w, http.StatusOK, b, d.Logger)
	}
}

// CreateBookmark adds a bookmark from the submitted form.
func CreateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if stillLoading(w, d) {
			return
		}
		data, err := readForm(w, r)
		if err != nil {
			writeError(w, err, d.Logger)
			return
		}

		res, err := d.Dispatcher.WithForm(dispatch.StaticForm{Data: data}).
			Dispatch(r.Context(), dispatch.Request{Action: dispatch.Add})
		if err != nil {
			writeError(w, err, d.Logger)
			return
		}
		writeJSON(w, http.StatusCreated, res.Bookmark, d.Logger)
	}
}

// UpdateBookmark edits a bookmark. With ?partial=true empty fields keep
// their current value.
func UpdateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if stillLoading(w, d) {
			return
		}
		data, err := readForm(w, r)
		if err != nil {
			writeError(w, err, d.Logger)
			return
		}
		partial, _ := strconv.ParseBool(r.URL.Query().Get("partial"))

		res, err := d.Dispatcher.WithForm(dispatch.StaticForm{Data: data, Partial: partial}).
			Dispatch(r.Context(), dispatch.Request{Action: dispatch.Edit, ID: chi.URLParam(r, "id")})
		if err != nil {
			writeError(w, err, d.Logger)
			return
		}
		writeJSON(w, http.StatusOK, res.Bookmark, d.Logger)
	}
}

// DeleteBookmark removes a bookmark. The caller confirms with ?confirm=true,
// anything else is treated as a declined confirmation.
func DeleteBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if stillLoading(w, d) {
			return
		}
		confirm, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))

		res, err := d.Dispatcher.WithConfirmer(dispatch.Answer(confirm)).
			Dispatch(r.Context(), dispatch.Request{Action: dispatch.Delete, ID: chi.URLParam(r, "id")})
		if err != nil {
			writeError(w, err, d.Logger)
			return
		}
		writeJSON(w, http.StatusOK, res, d.Logger)
	}
}

type actionRequest struct {
	ID string `json:"id"`
	domain.FormData
	Partial bool `json:"partial"`
	Confirm bool `json:"confirm"`
}

// Action runs a dispatcher action by name (add, edit or delete), the way the
// panel's data-action buttons address them.
func Action(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if stillLoading(w, d) {
			return
		}
		action, err := dispatch.ParseAction(chi.URLParam(r, "action"))
		if err != nil {
			writeError(w, apperror.ValidationFailed("action", err.Error()), d.Logger)
			return
		}

		var req actionRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err, d.Logger)
			return
		}

		res, err := d.Dispatcher.
			WithForm(dispatch.StaticForm{Data: req.FormData, Partial: req.Partial}).
			WithConfirmer(dispatch.Answer(req.Confirm)).
			Dispatch(r.Context(), dispatch.Request{Action: action, ID: req.ID})
		if err != nil {
			writeError(w, err, d.Logger)
			return
		}

		status := http.StatusOK
		if action == dispatch.Add {
			status = http.StatusCreated
		}
		writeJSON(w, status, res, d.Logger)
	}
}
