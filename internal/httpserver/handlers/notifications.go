package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bookmarks/internal/notify"
)

type notificationResponse struct {
	Visible      bool                 `json:"visible"`
	Notification *notify.Notification `json:"notification,omitempty"`
}

// Notifications returns the banner currently on screen, if any.
func Notifications(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := notificationResponse{}
		if n, ok := d.Banner.Current(); ok {
			resp.Visible = true
			resp.Notification = &n
		}
		writeJSON(w, http.StatusOK, resp, d.Logger)
	}
}
