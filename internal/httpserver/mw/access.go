package mw

import (
	"net/http"

	"github.com/MrSnakeDoc/bookmarks/internal/logger"
	"github.com/MrSnakeDoc/bookmarks/internal/utils"
)

type Middleware = func(http.Handler) http.Handler

func passthrough(next http.Handler) http.Handler { return next }

// forbid answers 403 with the same JSON shape as the API errors.
func forbid(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`{"error":"forbidden","message":"access denied"}` + "\n"))
}

// AllowOnlyCIDRS lets through only clients whose IP matches one of the
// allowed IPs/CIDRs. An empty list disables the check.
// trustProxy should be true when running behind a trusted reverse proxy/tunnel (e.g., cloudflared).
func AllowOnlyCIDRS(allowed []string, trustProxy bool, log logger.Logger) Middleware {
	m := utils.NewIPMatcher(allowed)
	if m.IsEmpty() {
		log.Debug("AllowOnlyCIDRS: empty matcher, passthrough mode")
		return passthrough
	}

	log.Debugf("AllowOnlyCIDRS: %d rules, trustProxy=%v", len(allowed), trustProxy)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := utils.ClientIP(r, trustProxy)
			if !m.Allow(ip) {
				log.Warn("client ip rejected",
					logger.String("ip", ip),
					logger.String("path", r.URL.Path))
				forbid(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// EnforceHost lets through only requests whose Host header matches one of
// the allowed hosts ("*.example.com" wildcards allowed, port ignored).
// An empty list disables the check.
func EnforceHost(allowedHosts []string, log logger.Logger) Middleware {
	if len(allowedHosts) == 0 {
		log.Debug("EnforceHost: empty allowedHosts, passthrough mode")
		return passthrough
	}

	log.Debugf("EnforceHost: hosts=%v", allowedHosts)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !utils.MatchAnyHost(r.Host, allowedHosts) {
				log.Warn("host rejected",
					logger.String("host", r.Host),
					logger.String("path", r.URL.Path))
				forbid(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Guard combines the IP and Host checks every panel route goes through.
func Guard(allowedCIDRS, allowedHosts []string, trustProxy bool, log logger.Logger) []Middleware {
	return []Middleware{
		AllowOnlyCIDRS(allowedCIDRS, trustProxy, log),
		EnforceHost(allowedHosts, log),
	}
}
