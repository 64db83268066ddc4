package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Aditya-Vasipalli/buymechai/services"
)

const maxPageLimit = 100

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// writeServiceError maps the service taxonomy onto stable HTTP responses.
// Not-found, expired, used and wrong-creator all share one message so the
// endpoint cannot be used to enumerate tokens.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrNotFound):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid or expired payment code"})
	case errors.Is(err, services.ErrAlreadyUsed):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "This payment code has already been verified"})
	case errors.Is(err, services.ErrStorageUnavailable):
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Storage temporarily unavailable"})
	default:
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > maxPageLimit {
		return maxPageLimit
	}
	return limit
}
