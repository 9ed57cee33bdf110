package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vladimiradmaev/diabetes-tracker/internal/handlers"
	"github.com/vladimiradmaev/diabetes-tracker/internal/interfaces"
	"github.com/vladimiradmaev/diabetes-tracker/internal/observability"
)

type Server struct {
	services interfaces.Services
}

// NewRouter builds the HTTP API. A nil limiter disables rate limiting.
func NewRouter(services interfaces.Services, limiter *observability.RateLimiter) http.Handler {
	s := &Server{services: services}

	r := chi.NewRouter()

	r.Use(observability.RequestIDMiddleware)
	r.Use(observability.TracingMiddleware)
	r.Use(observability.LoggingMiddleware)

	r.Get("/health", handlers.Health)

	r.Handle("/metrics", observability.PrometheusHandler())

	r.Route("/api", func(r chi.Router) {
		if limiter != nil {
			r.Use(limiter.Handler)
		}

		r.Route("/insulin", func(r chi.Router) {
			r.Post("/calculate", s.previewCalculation)
			r.Get("/tables", s.tables)
		})

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/settings", s.getSettings)
			r.Put("/settings", s.updateSettings)

			r.Post("/calculations", s.createCalculation)
			r.Get("/calculations", s.listCalculations)

			r.Post("/readings", s.createReading)
			r.Get("/readings", s.listReadings)

			r.Post("/presets", s.createPreset)
			r.Get("/presets", s.listPresets)
			r.Delete("/presets/{presetID}", s.deletePreset)
		})
	})

	return r
}
