package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/MiguelProz/kairos/internal/repository"
	"github.com/MiguelProz/kairos/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError maps service and repository sentinels to HTTP statuses.
// Anything unmapped is a 500 and the detail stays in the logs.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var status int
	var message string

	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrNoChanges),
		errors.Is(err, service.ErrMissingCurrentPassword):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrInvalidCurrentPassword):
		status = http.StatusUnauthorized
		message = err.Error()
	case errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrGoalNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, repository.ErrDuplicateEmail),
		errors.Is(err, repository.ErrDuplicateNickname):
		status = http.StatusConflict
		message = err.Error()
	default:
		slog.Error("request failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
		)
		status = http.StatusInternalServerError
		message = "internal server error"
	}

	writeJSON(w, status, map[string]string{"error": message})
}

// decodeJSON decodes a request body and rejects fields the payload does
// not define. Decode failures surface as 400s.
func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	err := decoder.Decode(dst)
	if err != nil {
		msg := "invalid request body"
		if strings.HasPrefix(err.Error(), "json: unknown field") {
			msg = strings.TrimPrefix(err.Error(), "json: ")
		}
		return fmt.Errorf("%w: %s", service.ErrInvalidInput, msg)
	}

	return nil
}
