package deps

import (
	"time"

	"github.com/MrSnakeDoc/bookmarks/internal/bookmarks"
	"github.com/MrSnakeDoc/bookmarks/internal/dispatch"
	"github.com/MrSnakeDoc/bookmarks/internal/logger"
	"github.com/MrSnakeDoc/bookmarks/internal/notify"
	"github.com/MrSnakeDoc/bookmarks/internal/scheduler"
	"github.com/MrSnakeDoc/bookmarks/internal/sources/homepage"
	redisstore "github.com/MrSnakeDoc/bookmarks/internal/store/redis"
	"github.com/MrSnakeDoc/bookmarks/internal/table"
)

type Deps struct {
	Logger         logger.Logger
	StartTime      time.Time
	Version        string
	Commit         string
	BuildDate      string
	GoVersion      string
	TimeNow        func() time.Time     // for testing, defaults to time.Now
	AllowedHosts   []string             // Host headers allowed to access the server
	AllowedCIDRS   []string             // IPs allowed to access the panel and probes
	TrustProxy     bool                 // true if running behind a trusted reverse proxy (e.g., cloudflared)
	File           string               // Path to the bookmarks JSON file
	Store          *bookmarks.Store     // Authoritative bookmark collection
	View           *table.View          // Live table state (search, sort)
	SearchDebounce time.Duration        // Delay before a typed search is applied
	Dispatcher     *dispatch.Dispatcher // Add/edit/delete actions
	Banner         *notify.Banner       // Latest save/load notification
	Loader         *scheduler.Loader    // Reads the file into the store
	Persister      *scheduler.Persister // Writes the store back to the file
	Importer       *homepage.Importer   // Homepage bookmarks.yaml/services.yaml import
	Mirror         *redisstore.Store    // Redis snapshot mirror (nil if disabled)
	ReloadTrigger  chan struct{}        // Channel to trigger a manual reload from the file
}

// Now returns the current time through TimeNow when set.
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
