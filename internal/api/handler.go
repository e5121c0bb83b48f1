// internal/api/handler.go
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/alphalever/backend/internal/domain/user"
	"github.com/alphalever/backend/internal/service"
	"github.com/alphalever/backend/internal/store"
)

// maxBodyBytes caps request bodies; an answer bag is a few KB at most.
const maxBodyBytes = 1 << 20

// Handler holds all dependencies needed by HTTP handlers.
// Instead of relying on package-level globals, every handler method
// receives its dependencies through this struct.
type Handler struct {
	scoreboard *service.Scoreboard
	logger     *slog.Logger
}

// NewHandler creates a Handler with the given dependencies.
func NewHandler(sb *service.Scoreboard, logger *slog.Logger) *Handler {
	return &Handler{
		scoreboard: sb,
		logger:     logger,
	}
}

// validator is implemented by request types that can check themselves.
type validator interface {
	Validate() error
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError writes {"error": msg} with the given status code.
func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON reads the request body into v. On failure it writes a 400 and
// returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// decodeAndValidate decodes the body and runs its Validate method.
func decodeAndValidate[T validator](w http.ResponseWriter, r *http.Request, v T) bool {
	if !decodeJSON(w, r, v) {
		return false
	}
	if err := v.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// handleStoreError checks for common store and service errors and writes the
// appropriate HTTP response. Returns true if an error was handled (caller
// should return).
func (h *Handler) handleStoreError(w http.ResponseWriter, err error, entity string) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, entity+" not found")
	case errors.Is(err, store.ErrConflict):
		respondError(w, http.StatusConflict, entity+" already exists")
	case errors.Is(err, user.ErrInvalidEmail):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrForbidden):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrUnknownFactor):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNotAssessed), errors.Is(err, service.ErrInvalidValue):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("store error", "error", err, "entity", entity)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
	return true
}
