package handlers

import (
	"io"
	"net/http"

	"github.com/MrSnakeDoc/bookmarks/internal/apperror"
	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/deps"
)

// Import adds the entries of a Homepage bookmarks.yaml or services.yaml
// sent as the request body. Urls already present are skipped.
func Import(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if stillLoading(w, d) {
			return
		}
		data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
		if err != nil {
			writeError(w, apperror.ValidationFailed("", "request body too large or unreadable"), d.Logger)
			return
		}
		if len(data) == 0 {
			writeError(w, apperror.ValidationFailed("", "empty request body"), d.Logger)
			return
		}

		res, err := d.Importer.Import(data)
		if err != nil {
			writeError(w, apperror.ValidationFailed("", err.Error()), d.Logger)
			return
		}
		writeJSON(w, http.StatusOK, res, d.Logger)
	}
}
