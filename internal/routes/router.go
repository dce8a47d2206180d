package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"resq-relief/resq/internal/api"
	"resq-relief/resq/internal/common"
	"resq-relief/resq/internal/constants"
	"resq-relief/resq/internal/logging"
	"resq-relief/resq/internal/middleware"
)

// RegisterRoutes builds the full HTTP handler. limiter may be shared with
// the caller so it can run the idle-visitor sweeper.
func RegisterRoutes(deps *api.Dependencies, limiter *middleware.RateLimiter, upSince time.Time) http.Handler {

	// initialize Chi router
	r := chi.NewRouter()

	// global middleware; the rate limiter keys on the socket peer, so
	// forwarded-for headers are not trusted here
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.MetricsMiddleware(deps.Metrics))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5, "application/json"))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		common.RespondError(w, constants.MsgRouteNotFound, http.StatusNotFound)
	})

	// health check and scrape endpoint
	r.Get("/healthCheck", api.HealthCheckHandler(deps, upSince))
	r.Handle("/metrics", promhttp.Handler())

	handlers := api.NewHandlers(deps)
	authn := middleware.NewAuthenticator(deps.Tokens, deps.Repo.Users, deps.Services.Auth)

	RegisterAPIRoutes(r, handlers, authn, limiter)

	logging.Info("Router initialized", "cors_origins", deps.Config.CORSOrigins)
	return r
}
