/**
 * @description
 * This file sets up the HTTP router for the planner-service. It defines the
 * API endpoints, associates them with their corresponding handlers, and
 * applies middleware for logging, panic recovery, timeouts, CORS, and the
 * internal API key check.
 *
 * @dependencies
 * - net/http: Standard Go library for HTTP functionality.
 * - github.com/go-chi/chi/v5: A lightweight and idiomatic router for Go.
 * - github.com/go-chi/cors: CORS middleware for the mobile client.
 */

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// PlannerRoutes creates and returns a new router for the planner service.
func PlannerRoutes(h *PlannerHandlers, internalAPIKey, allowedOrigins string) http.Handler {
	r := chi.NewRouter()

	// Add standard middleware for logging, panic recovery, and timeouts.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	origins := []string{"*"}
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", internalAPIKeyHeader},
		MaxAge:         300,
	}))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("healthy"))
	})

	// Group routes that require the internal API key.
	r.Group(func(r chi.Router) {
		r.Use(RequireInternalAPIKey(internalAPIKey))

		r.Post("/profiles", h.CreateProfileHandler)
		r.Get("/profiles/{profileID}", h.GetProfileHandler)

		r.Post("/minimum-payment", h.MinimumPaymentHandler)

		r.Get("/profiles/{profileID}/budget", h.BudgetHandler)
		r.Get("/profiles/{profileID}/indicators", h.IndicatorsHandler)
		r.Get("/profiles/{profileID}/plan", h.PlanHandler)
		r.Get("/profiles/{profileID}/projection", h.ProjectionHandler)
		r.Get("/profiles/{profileID}/calendar", h.CalendarHandler)
	})

	return r
}
