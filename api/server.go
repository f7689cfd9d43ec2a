/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the agent frontend

ROUTE GROUPS:
  /api/owners/{owner}/*  Contracts, forecast, activity per agent
  /api/products          Product catalog
  /api/scenarios/*       Demo portfolios

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
		r.Route("/owners/{owner}", func(r chi.Router) {
			r.Route("/contracts", func(r chi.Router) {
				r.Get("/", h.ListContracts)
				r.Post("/", h.CreateContract)
				r.Get("/{id}", h.GetContract)
				r.Delete("/{id}", h.DeleteContract)
			})

			r.Route("/forecast", func(r chi.Router) {
				r.Get("/", h.GetForecast)
				r.Get("/monthly", h.GetMonthlyForecast)
				r.Get("/snapshot", h.GetForecastSnapshot)
			})

			r.Get("/activity", h.GetActivity)
		})

		// Catalog routes
		r.Get("/products", h.ListProducts)

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
		})
	})

	return r
}
