package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"shopd/internal/apperr"
)

func decodeJSON(r *http.Request, dest any) error {
	if r.Body == nil {
		return errors.New("request body required")
	}
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dest)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// respondError maps business-rule error kinds to stable status codes.
// Anything unclassified is an internal fault: logged, returned as a
// generic 500 without leaking internals.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, apperr.ErrBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, apperr.ErrAuthentication):
		status = http.StatusUnauthorized
	case errors.Is(err, apperr.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, apperr.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperr.ErrInvalidOtp):
		status = http.StatusNotAcceptable
	case errors.Is(err, apperr.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, apperr.ErrAlreadyVerified),
		errors.Is(err, apperr.ErrInvalidVariant):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, apperr.ErrDelivery):
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("internal error")
		respondJSON(w, status, map[string]any{"error": "internal server error"})
		return
	}
	respondJSON(w, status, map[string]any{"error": err.Error()})
}

func respondBadRequest(w http.ResponseWriter, err error) {
	respondJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
}
