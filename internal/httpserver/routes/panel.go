package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/handlers"
)

func init() { Register("panel", registerPanel, guarded) }

func registerPanel(r chi.Router, d deps.Deps) {
	r.Get("/", handlers.Panel(d))
	r.Get("/api/table", handlers.Table(d))
	r.Post("/api/table/search", handlers.Search(d))
	r.Post("/api/table/sort", handlers.Sort(d))
	r.Get("/api/notifications", handlers.Notifications(d))
	r.Post("/api/reload", handlers.Reload(d))
}
