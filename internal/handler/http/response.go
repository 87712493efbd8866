package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rookgm/gofood/internal/models"
	"go.uber.org/zap"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	// status is already sent, an encoding error can only cut the body short
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// statusFromError maps service errors to HTTP status codes
func statusFromError(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidStatusField),
		errors.Is(err, models.ErrMissingFields),
		errors.Is(err, models.ErrInvalidQuantity),
		errors.Is(err, models.ErrInvalidPrice),
		errors.Is(err, models.ErrInvalidRole),
		errors.Is(err, models.ErrEmptyOrder),
		errors.Is(err, models.ErrNoDestination),
		errors.Is(err, models.ErrMenuItemUnavailable):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrOrderNotFound),
		errors.Is(err, models.ErrMenuItemNotFound),
		errors.Is(err, models.ErrUserNotFound),
		errors.Is(err, models.ErrDataNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalidTransition),
		errors.Is(err, models.ErrVersionConflict),
		errors.Is(err, models.ErrUserExists),
		errors.Is(err, models.ErrConflictData):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// handleError writes error envelope, internal errors are logged and hidden from client
func handleError(w http.ResponseWriter, logger *zap.Logger, err error) {
	status := statusFromError(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", zap.Error(err))
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
