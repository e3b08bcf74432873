package server

import (
	"encoding/json"
	"net/http"

	errs "github.com/blogsmith/blogsmith/internal/errors"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps domain sentinels to HTTP statuses. Wrapped error detail
// stays in the logs; clients get a generic message per category.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var status int
	var message string

	switch {
	case errs.Is(err, errs.ErrInvalidArgument):
		status, message = http.StatusBadRequest, "invalid request"
	case errs.Is(err, errs.ErrAuthentication):
		status, message = http.StatusUnauthorized, "invalid credentials"
	case errs.Is(err, errs.ErrUnauthenticated):
		status, message = http.StatusUnauthorized, "authentication required"
	case errs.Is(err, errs.ErrDuplicateUser):
		status, message = http.StatusConflict, "account already exists"
	case errs.Is(err, errs.ErrNotFound):
		status, message = http.StatusNotFound, "not found"
	case errs.Is(err, errs.ErrUpstreamUnavailable):
		status, message = http.StatusBadGateway, "authentication service unavailable"
	default:
		status, message = http.StatusInternalServerError, "internal server error"
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error().Err(err).Msg("request failed")
	} else {
		s.logger.Debug().Err(err).Msg("request rejected")
	}

	writeJSON(w, status, errorResponse{Error: message})
}
