package api

import (
	"log/slog"
	"net/http"

	"exercise-tracker/internal/metrics"
)

// SetupRouter mounts the API. corsOrigins lists the browser origins allowed
// to call it; nil allows any.
func SetupRouter(svc Service, logger *slog.Logger, corsOrigins []string) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("POST /api/users", CreateUserHandler(svc, logger))
	mux.Handle("GET /api/users", ListUsersHandler(svc, logger))
	mux.Handle("POST /api/users/{id}/exercises", AddExerciseHandler(svc, logger))
	mux.Handle("GET /api/users/{id}/logs", LogsHandler(svc, logger))
	mux.Handle("GET /healthz", HealthHandler())
	mux.Handle("GET /metrics", metrics.Handler())
	return RequestMiddleware(logger, CORSMiddleware(corsOrigins, mux))
}
