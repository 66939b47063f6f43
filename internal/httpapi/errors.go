package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tejashwikalptaru/tunebox/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{
		"error": msg,
	})
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	var validation *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrTrackNotFound),
		errors.Is(err, domain.ErrArtistNotFound),
		errors.Is(err, domain.ErrNoArtwork):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrQueueEmpty),
		errors.Is(err, domain.ErrEndOfQueue),
		errors.Is(err, domain.ErrStartOfQueue):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidPosition),
		errors.Is(err, domain.ErrInvalidIndex),
		errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotConnected),
		errors.Is(err, domain.ErrClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", slog.String("error", err.Error()))
	}
	writeError(w, status, err.Error())
}
