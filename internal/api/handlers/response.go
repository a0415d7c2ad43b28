package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wonny/seasonality/internal/contracts"
	"github.com/wonny/seasonality/internal/store"
)

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// statusFor maps pipeline errors onto HTTP status codes
func statusFor(err error) int {
	var verr contracts.ValidationError
	switch {
	case errors.As(err, &verr),
		errors.Is(err, contracts.ErrInvalidRange),
		errors.Is(err, contracts.ErrInvalidWeekday):
		return http.StatusBadRequest
	case errors.Is(err, contracts.ErrUnknownCountry),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, contracts.ErrNetwork):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondFailure writes err with its mapped status. Server-side failures
// are not echoed to the client.
func respondFailure(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		respondError(w, status, "Internal server error")
		return
	}
	respondError(w, status, err.Error())
}
