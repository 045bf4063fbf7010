/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the dashboard frontend

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
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		// Crop-year reports
		r.Route("/crop-years", func(r chi.Router) {
			r.Get("/current", h.GetCurrentCropYear)
			r.Route("/{year}", func(r chi.Router) {
				r.Get("/sales", h.GetCropYearSales)
				r.Get("/sales/export", h.ExportCropYearSales)
				r.Get("/monthly", h.GetMonthlyDeliveries)
				r.Get("/monthly/export", h.ExportMonthlyDeliveries)
				r.Get("/bins", h.GetBinsByCrop)
			})
		})

		// Record browsing
		r.Route("/contracts", func(r chi.Router) {
			r.Get("/", h.ListContracts)
			r.Get("/{number}", h.GetContract)
			r.Get("/{number}/settlements", h.GetContractSettlements)
		})
		r.Route("/settlements", func(r chi.Router) {
			r.Get("/", h.ListSettlements)
			r.Get("/ids", h.ListSettlementIDs)
		})
		r.Get("/commodities", h.ListCommodities)

		// Admin
		r.Post("/mappings/invalidate", h.InvalidateMappings)
	})

	return r
}
