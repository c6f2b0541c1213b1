// Package httpapi assembles the service router: platform middleware, health
// and metrics endpoints, and the screening API surface.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lexscreen/internal/audit"
	"lexscreen/internal/platform/metrics"
	"lexscreen/internal/platform/middleware"
	screeninghandler "lexscreen/internal/screening/handler"
	id "lexscreen/pkg/domain"
	"lexscreen/pkg/platform/httputil"
)

// Deps carries everything the router mounts.
type Deps struct {
	Logger      *slog.Logger
	Metrics     *metrics.Metrics
	Screening   *screeninghandler.Handler
	AuditReader *audit.Reader
	Health      func() error
}

// NewRouter wires middleware and endpoints. Transport concerns only; business
// logic stays behind the handlers.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.Latency(d.Metrics))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if d.Health != nil {
			if err := d.Health(); err != nil {
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	d.Screening.Register(r)

	r.With(middleware.Timeout(10*time.Second)).Get("/organizations/{orgID}/audit-events", func(w http.ResponseWriter, req *http.Request) {
		orgID, err := id.ParseOrgID(chi.URLParam(req, "orgID"))
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		events, err := d.AuditReader.ListByOrg(req.Context(), orgID)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{"events": events, "count": len(events)})
	})

	return r
}
