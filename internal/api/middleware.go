package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/cors"

	"exercise-tracker/internal/metrics"
)

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.wroteHeader {
		return
	}
	s.status = code
	s.wroteHeader = true
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if !s.wroteHeader {
		s.WriteHeader(http.StatusOK)
	}
	return s.ResponseWriter.Write(b)
}

// CORSMiddleware answers preflight requests and sets Access-Control-*
// headers for the given origins. An empty list or "*" allows any origin.
func CORSMiddleware(allowedOrigins []string, next http.Handler) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodHead},
		AllowedHeaders: []string{"Origin", "Accept", "Content-Type", "X-Requested-With"},
	}).Handler(next)
}

// RequestMiddleware recovers panics, logs each request and records request
// metrics labelled by route pattern.
func RequestMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		defer func() {
			if p := recover(); p != nil {
				if p == http.ErrAbortHandler {
					panic(p)
				}
				logger.ErrorContext(r.Context(), "panic serving request", "method", r.Method, "path", r.URL.Path, "panic", p)
				// A partly written response cannot be replaced.
				if !rec.wroteHeader {
					writeJSON(rec, http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
				}
			}

			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			routeLabel := metrics.Label("route", route)
			metrics.IncrCounter([]string{"http", "requests"}, 1, routeLabel, metrics.Label("status", strconv.Itoa(rec.status)))
			metrics.MeasureSince([]string{"http", "request_duration"}, start, routeLabel)

			logger.InfoContext(r.Context(), "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start),
			)
		}()

		next.ServeHTTP(rec, r)
	})
}
