package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dakflow/dakflow/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// writeServiceError maps service errors onto the API's error
// contract. Ownership misses surface as not-found so record
// existence never leaks across identities; duplicate unique keys
// are reported as plain 400s.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrFileNotFound):
		writeDetail(w, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrStatusRequired),
		errors.Is(err, service.ErrFileFieldsRequired),
		errors.Is(err, service.ErrEmailFieldsRequired),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrWeakPassword),
		errors.Is(err, service.ErrDepartmentNameRequired),
		errors.Is(err, service.ErrEmailAlreadyExists),
		errors.Is(err, service.ErrDuplicateFileNumber):
		writeDetail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken):
		writeDetail(w, http.StatusUnauthorized, err.Error())
	default:
		slog.Error("request failed", "error", err)
		writeDetail(w, http.StatusInternalServerError, "internal server error")
	}
}
