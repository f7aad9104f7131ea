package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrijs2005/filevault/internal/logging"
)

// NewRouter assembles the HTTP surface. /healthz and /metrics are open;
// everything under /api/v1 requires a valid token.
func NewRouter(h *Handler, secretKey []byte, logger logging.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(RequestLogger(logger))
	r.Use(Metrics())

	r.Get("/healthz", h.Healthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(Authenticator(secretKey, logger))

		r.Route("/objects", func(r chi.Router) {
			r.Post("/", h.CreateObject)
			r.Get("/", h.ListObjects)
			r.Get("/{id}", h.GetObject)
			r.Delete("/{id}", h.DeleteObject)
			r.Get("/{id}/download", h.DownloadObject)
		})

		r.Get("/audit", h.AuditTail)
		r.Get("/stats", h.Stats)
	})

	return r
}
