package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kidchores/kidchores-be/internal/models"
	"github.com/rs/zerolog/log"
)

// respondJSON writes v as a JSON response body.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response body")
	}
}

// respondError translates the service failure taxonomy into HTTP statuses.
// Not-found, denial, bad credentials, and duplicates must stay
// distinguishable for the client; everything else is a generic 500 with
// the driver detail kept out of the body.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		respondJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, models.ErrExists):
		respondJSON(w, http.StatusConflict, map[string]string{"error": "already exists"})
	case errors.Is(err, models.ErrBadCredentials):
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": models.ErrBadCredentials.Error()})
	case errors.Is(err, models.ErrNotAuthorized):
		respondJSON(w, http.StatusForbidden, map[string]string{"error": models.ErrNotAuthorized.Error()})
	default:
		log.Error().Err(err).Msg("Request failed")
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}
