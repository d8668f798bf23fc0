package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/handlers"
)

func init() { Register("mirror", registerMirror, guarded) }

func registerMirror(r chi.Router, d deps.Deps) {
	r.Get("/api/mirror/bookmarks", handlers.MirrorSnapshot(d))
	r.Get("/api/mirror/bookmarks/{id}", handlers.MirrorBookmark(d))
}
