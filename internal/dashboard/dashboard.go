// Package dashboard serves the browser front end for note generation.
package dashboard

import (
	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/ytnotes/internal/history"
)

// Dashboard serves the notes page, its static assets and the stats API.
type Dashboard struct {
	history *history.Store
}

// New creates a Dashboard. store may be nil when history is disabled.
func New(store *history.Store) *Dashboard {
	return &Dashboard{history: store}
}

// RegisterRoutes mounts all dashboard routes onto the given router.
func (d *Dashboard) RegisterRoutes(r chi.Router) {
	r.Get("/", d.ServeIndex)
	r.Handle("/static/*", staticHandler())
	r.Get("/api/dashboard/stats", d.handleStats)
}
