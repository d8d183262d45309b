package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes configures the stub backend's routes. The surface mirrors
// the production collections API the dashboard talks to.
func SetupRoutes(h *Handlers) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	// CORS for the dashboard dev servers
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", h.HealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Route("/enrollments", func(r chi.Router) {
			r.Get("/", h.ListEnrollments)
			r.Post("/", h.CreateEnrollment)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetEnrollment)
				r.Get("/timeline", h.GetTimeline)
				r.Post("/suppress", h.SuppressEnrollment)
				r.Post("/escalate", h.EscalateEnrollment)
			})
		})
	})

	return r
}
