// Package api exposes the tracker over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"exercise-tracker/internal/models"
	"exercise-tracker/internal/tracker"
)

// Service is the tracker behaviour the handlers depend on.
type Service interface {
	CreateUser(ctx context.Context, username string) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	AddExercise(ctx context.Context, ownerID string, in tracker.ExerciseInput) (models.ExerciseResult, error)
	Log(ctx context.Context, ownerID string, f tracker.LogFilter) (models.LogResult, error)
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func CreateUserHandler(svc Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fields, err := readFields(w, r, "username")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		user, err := svc.CreateUser(r.Context(), fields["username"])
		if err != nil {
			writeError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

func ListUsersHandler(svc Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := svc.ListUsers(r.Context())
		if err != nil {
			writeError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, users)
	}
}

func AddExerciseHandler(svc Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fields, err := readFields(w, r, "description", "duration", "date")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		res, err := svc.AddExercise(r.Context(), r.PathValue("id"), tracker.ExerciseInput{
			Description: fields["description"],
			Duration:    fields["duration"],
			Date:        fields["date"],
		})
		if err != nil {
			writeError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func LogsHandler(svc Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := tracker.ParseLogFilter(q.Get("from"), q.Get("to"), q.Get("limit"))
		res, err := svc.Log(r.Context(), r.PathValue("id"), filter)
		if err != nil {
			writeError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps tracker error kinds to status codes. Anything else is an
// internal fault: it is logged and hidden from the client.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var te *tracker.Error
	if errors.As(err, &te) {
		switch te.Kind {
		case tracker.KindNotFound:
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: te.Message})
			return
		case tracker.KindValidation:
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: te.Message})
			return
		}
	}
	logger.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
}
