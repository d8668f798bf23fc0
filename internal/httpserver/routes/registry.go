// Package routes collects the HTTP routes. Each file registers its own
// group from init, and server.New mounts them all at once.
package routes

import (
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/mw"
)

type Registrar func(r chi.Router, d deps.Deps)

type entry struct {
	name string
	reg  Registrar
	mws  func(d deps.Deps) []mw.Middleware
}

var registry []entry

// Register adds a route group. mws builds the group's middlewares once the
// dependencies are known; it may be nil.
func Register(name string, reg Registrar, mws func(d deps.Deps) []mw.Middleware) {
	registry = append(registry, entry{name: name, reg: reg, mws: mws})
}

// Names lists the registered groups in mount order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for _, e := range sorted() {
		out = append(out, e.name)
	}
	return out
}

// init order follows file names; sort so mounting doesn't depend on it.
func sorted() []entry {
	out := append([]entry(nil), registry...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// RegisterAll mounts every group on r. Called once from server.New().
func RegisterAll(r chi.Router, d deps.Deps) {
	for _, e := range sorted() {
		if e.mws == nil {
			e.reg(r, d)
			continue
		}
		r.Group(func(g chi.Router) {
			g.Use(e.mws(d)...)
			e.reg(g, d)
		})
	}
}

// guarded applies the IP and Host checks.
func guarded(d deps.Deps) []mw.Middleware {
	return mw.Guard(d.AllowedCIDRS, d.AllowedHosts, d.TrustProxy, d.Logger)
}

// probeOnly applies the IP check only, for probes called by the orchestrator.
func probeOnly(d deps.Deps) []mw.Middleware {
	return []mw.Middleware{mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger)}
}
