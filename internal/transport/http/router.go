package http

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"branchscope/internal/config"
	"branchscope/internal/middleware"
)

// NewRouter assembles the chi router with the full middleware chain and all
// API routes.
func NewRouter(reports *ReportHandler, health *HealthHandler, cfg config.RateLimitConfig, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(render.SetContentType(render.ContentTypeJSON))

	if cfg.Enabled {
		rl := middleware.NewRateLimiter(cfg.RPS, cfg.Burst, logger)
		r.Use(rl.Handler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", health.Check)

		r.Route("/reports", func(r chi.Router) {
			r.Post("/", reports.CreateReport)
			r.Get("/{id}", reports.GetReport)
			r.Get("/{id}/document", reports.GetDocument)
		})
	})

	return r
}
