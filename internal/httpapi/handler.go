// Package httpapi serves relationship fields over HTTP: the candidate
// listing and item data endpoints the selection widget calls, plus preload
// and process endpoints for registered fields.
package httpapi

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mesh-intelligence/relations/pkg/relationship"
	"github.com/mesh-intelligence/relations/pkg/types"
)

// Handler implements the relationship HTTP endpoints over a field registry.
type Handler struct {
	registry *relationship.Registry
	logger   *slog.Logger
}

// NewHandler creates a Handler. A nil logger discards output.
func NewHandler(registry *relationship.Registry, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{registry: registry, logger: logger}
}

// itemDataRequest is the body of POST /relationship/data.
type itemDataRequest struct {
	Field      string `json:"field"`
	Selections any    `json:"selections"`
}

// processRequest is the body of POST /fields/{handle}/process.
type processRequest struct {
	Value any `json:"value"`
}

// HandleIndex lists candidate records for a field.
// GET /relationship/index?field=<handle>&sort=&order=&search=&page=&per_page=
func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	handle := r.URL.Query().Get("field")
	if handle == "" {
		writeError(w, h.logger, http.StatusBadRequest, "MISSING_PARAMS", "field is required")
		return
	}
	field, ft, err := h.registry.Field(handle)
	if err != nil {
		errorToHTTP(w, h.logger, err)
		return
	}

	result, err := ft.GetIndexItems(r.Context(), field.Config, types.NewIndexRequest(r.URL.Query()))
	if err != nil {
		errorToHTTP(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, result)
}

// HandleItemData resolves selections to display rows.
// POST /relationship/data
func (h *Handler) HandleItemData(w http.ResponseWriter, r *http.Request) {
	var req itemDataRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body: "+err.Error())
		return
	}
	if req.Field == "" {
		writeError(w, h.logger, http.StatusBadRequest, "MISSING_PARAMS", "field is required")
		return
	}
	field, ft, err := h.registry.Field(req.Field)
	if err != nil {
		errorToHTTP(w, h.logger, err)
		return
	}

	rows, err := ft.GetItemData(r.Context(), field.Config, req.Selections)
	if err != nil {
		errorToHTTP(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, map[string]any{"data": rows})
}

// HandlePreload returns the widget bootstrap payload for a field.
// GET /fields/{handle}/preload
func (h *Handler) HandlePreload(w http.ResponseWriter, r *http.Request) {
	field, ft, err := h.registry.Field(chi.URLParam(r, "handle"))
	if err != nil {
		errorToHTTP(w, h.logger, err)
		return
	}

	payload, err := ft.Preload(r.Context(), field)
	if err != nil {
		errorToHTTP(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, payload)
}

// HandleRules returns the validation rules of a field.
// GET /fields/{handle}/rules
func (h *Handler) HandleRules(w http.ResponseWriter, r *http.Request) {
	field, ft, err := h.registry.Field(chi.URLParam(r, "handle"))
	if err != nil {
		errorToHTTP(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, map[string]any{
		"field": field.Handle,
		"rules": ft.Rules(field.Config),
	})
}

// HandleProcess validates a submitted value and returns its stored shape.
// POST /fields/{handle}/process
func (h *Handler) HandleProcess(w http.ResponseWriter, r *http.Request) {
	field, ft, err := h.registry.Field(chi.URLParam(r, "handle"))
	if err != nil {
		errorToHTTP(w, h.logger, err)
		return
	}

	var req processRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, h.logger, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body: "+err.Error())
		return
	}
	if err := ft.Validate(field.Config, req.Value); err != nil {
		errorToHTTP(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, map[string]any{
		"field": field.Handle,
		"value": ft.Process(field.Config, req.Value),
	})
}
