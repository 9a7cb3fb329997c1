package handler

import (
	"net/http"

	"sheets-bridge/internal/catalog"
	"sheets-bridge/internal/model"
	"sheets-bridge/internal/script"
)

// handleListFields returns the full field catalog with pro and
// always-include flags so clients can render a selection UI.
// GET /fields
func (h *Handler) handleListFields(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, fieldsResponse{Fields: catalog.Fields()})
}

type fieldsResponse struct {
	Fields []catalog.Field `json:"fields"`
}

// handleScript generates the Apps Script source for the configured
// selection. Query parameters mode and template override the
// configured sheet mode for preview.
// GET /script
func (h *Handler) handleScript(w http.ResponseWriter, r *http.Request) {
	opts := h.scriptOpts

	if rawMode := r.URL.Query().Get("mode"); rawMode != "" {
		mode, err := script.ParseMode(rawMode)
		if err != nil {
			h.writeError(w, model.NewValidationError("mode", err.Error()))
			return
		}
		opts.Mode = mode
	}
	if template := r.URL.Query().Get("template"); template != "" {
		opts.Template = template
	}

	src, err := script.Generate(opts)
	if err != nil {
		h.writeError(w, model.NewValidationError("fields", err.Error()))
		return
	}

	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(src))
}

// handleHealth returns a simple health check response.
// GET /healthz
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

type healthResponse struct {
	Status string `json:"status"`
}
