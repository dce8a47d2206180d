package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"resq-relief/resq/internal/models/dtos"
)

// HealthCheckHandler handles GET /healthCheck
//
// @Summary Health check
// @Description Pings the database and the cache backend.
// @Tags Misc
// @Success 200 {object} dtos.HealthCheckResponse
// @Failure 503 {object} dtos.HealthCheckResponse
// @Router /healthCheck [get]
func HealthCheckHandler(deps *Dependencies, upSince time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		services := make(map[string]dtos.ServiceStatus)

		dbStatus := dtos.ServiceStatus{Status: "ok", Details: "Database connected"}
		if err := deps.DB.PingContext(ctx); err != nil {
			dbStatus = dtos.ServiceStatus{Status: "down", Details: err.Error()}
		}
		services["database"] = dbStatus

		cacheStatus := dtos.ServiceStatus{Status: "ok", Details: deps.Cache.Backend()}
		if err := deps.Cache.Ping(ctx); err != nil {
			cacheStatus = dtos.ServiceStatus{Status: "down", Details: err.Error()}
		}
		services["cache"] = cacheStatus

		overallStatus := "ok"
		for _, svc := range services {
			if svc.Status != "ok" {
				overallStatus = "down"
				break
			}
		}

		resp := dtos.HealthCheckResponse{
			Services: services,
			Status:   overallStatus,
			UpSince:  upSince,
			Uptime:   time.Since(upSince).Round(time.Second).String(),
		}

		w.Header().Set("Content-Type", "application/json")
		if overallStatus != "ok" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}
