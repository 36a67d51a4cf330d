/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the browser front-end

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Employee routes
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
			r.Delete("/{id}", h.DeleteEmployee)
		})

		// Activity routes
		r.Route("/activities", func(r chi.Router) {
			r.Get("/", h.ListActivities)
			r.Post("/", h.SetActivity)
			r.Delete("/", h.DeleteActivity)
			r.Post("/range", h.MarkRange)
			r.Post("/full-day-leave", h.MarkFullDayLeave)
			r.Delete("/full-day-leave", h.ClearFullDayLeave)
			r.Get("/totals", h.GetTotals)
		})

		// Audit trail routes
		r.Route("/activity-log", func(r chi.Router) {
			r.Get("/", h.GetActivityLog)
			r.Post("/", h.AppendActivityLog)
			r.Delete("/", h.ClearActivityLog)
		})

		// Admin routes
		r.Post("/reconcile", h.Reconcile)
		r.Get("/export", h.Export)
	})

	return r
}
