package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mesh-intelligence/relations/pkg/types"
)

// writeJSON marshals v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("writeJSON encode error", "error", err)
	}
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, logger *slog.Logger, status int, code, message string) {
	writeJSON(w, logger, status, map[string]string{
		"error": message,
		"code":  code,
	})
}

// decodeJSON decodes the request body into v.
func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// errorToHTTP maps engine errors to HTTP responses.
func errorToHTTP(w http.ResponseWriter, logger *slog.Logger, err error) {
	var verr *types.ValidationError
	var cerr *types.ConfigError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, logger, http.StatusUnprocessableEntity, map[string]string{
			"error": err.Error(),
			"code":  "VALIDATION_ERROR",
			"rule":  verr.Rule,
		})
	case errors.Is(err, types.ErrFieldNotFound), errors.Is(err, types.ErrUnknownKind):
		writeError(w, logger, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.As(err, &cerr):
		writeError(w, logger, http.StatusBadRequest, "CONFIG_ERROR", err.Error())
	default:
		logger.Error("internal error", "error", err)
		writeError(w, logger, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
