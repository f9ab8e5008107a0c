package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/vbonduro/marmitas/internal/domain"
)

const maxBodyBytes = 1 << 20

var errBadRequest = errors.New("bad request")

type errorResponse struct {
	Detail string `json:"detail"`
}

func respondWithJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// respondWithError maps err to a status code. Errors outside the domain
// taxonomy are logged and reported without detail.
func (s *Server) respondWithError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondWithJSON(w, http.StatusNotFound, errorResponse{Detail: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		respondWithJSON(w, http.StatusConflict, errorResponse{Detail: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, errBadRequest):
		respondWithJSON(w, http.StatusBadRequest, errorResponse{Detail: err.Error()})
	default:
		s.logger.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		respondWithJSON(w, http.StatusInternalServerError, errorResponse{Detail: "unexpected error"})
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", errBadRequest, err)
	}
	return nil
}

// normalizeName maps a request name to the stored form shared with the chat
// bot.
func normalizeName(name string) string {
	return domain.NormalizeName(name)
}

func requireName(field, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %s is required", errBadRequest, field)
	}
	return nil
}
