// Package handler provides HTTP handlers for the export bridge API.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"sheets-bridge/internal/clientver"
	"sheets-bridge/internal/export"
	"sheets-bridge/internal/model"
	"sheets-bridge/internal/script"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	source     export.OrderSource
	dispatcher *export.Dispatcher
	scriptOpts script.Options
	logger     *slog.Logger
}

// New creates a new Handler. scriptOpts carries the configured field
// selection and sheet mode used by script generation and backfill.
func New(source export.OrderSource, dispatcher *export.Dispatcher, scriptOpts script.Options, logger *slog.Logger) *Handler {
	return &Handler{
		source:     source,
		dispatcher: dispatcher,
		scriptOpts: scriptOpts,
		logger:     logger,
	}
}

// RegisterRoutes registers all HTTP routes with the given ServeMux.
// Uses Go 1.22+ method routing patterns.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Order export operations
	mux.HandleFunc("POST /webhooks/orders", h.handleOrderWebhook)
	mux.HandleFunc("POST /orders/{id}/export", h.handleExportOrder)
	mux.HandleFunc("POST /orders/backfill", h.handleBackfill)

	// Field catalog and script generation
	mux.HandleFunc("GET /fields", h.handleListFields)
	mux.HandleFunc("GET /script", h.handleScript)

	// MCP transport - JSON-RPC endpoint using official MCP SDK
	mux.Handle("/mcp", h.NewMCPHandler())

	// Health check
	mux.HandleFunc("GET /healthz", h.handleHealth)
}

// === Response Helpers ===

// writeJSON sends a JSON response with the given status code.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

// writeError sends an error response, extracting status/code from APIError if present.
// Uses errors.As() to unwrap error chains (e.g., fmt.Errorf wrapping).
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError

	if errors.As(err, &apiErr) {
		// Found APIError in error chain - use it
	} else {
		// Wrap unexpected errors
		apiErr = &model.APIError{
			Code:       "INTERNAL_ERROR",
			Message:    "an internal error occurred",
			StatusCode: http.StatusInternalServerError,
		}
		h.logger.Error("internal error", slog.String("error", err.Error()))
	}

	h.writeJSON(w, apiErr.StatusCode, errorResponse{
		Error: errorBody{
			Code:    apiErr.Code,
			Message: apiErr.Message,
		},
	})
}

// errorResponse is the JSON structure for error responses.
type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MaxRequestBodySize limits JSON request bodies to 1MB to prevent DoS.
const MaxRequestBodySize = 1 << 20 // 1MB

// decodeJSON reads JSON from request body into v.
// Limits body size to MaxRequestBodySize to prevent memory exhaustion.
// Returns an APIError if decoding fails.
func decodeJSON(r *http.Request, v interface{}) error {
	// Limit request body size to prevent DoS
	r.Body = http.MaxBytesReader(nil, r.Body, MaxRequestBodySize)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		// Don't expose internal error details to client
		return model.NewValidationError("body", "invalid JSON")
	}
	return nil
}

// checkClient validates the Exporter-Client header when present and
// returns the parsed client info. Requests without the header are
// treated as the free tier.
func (h *Handler) checkClient(r *http.Request) (*clientver.Info, error) {
	info, err := clientver.Parse(r.Header.Get(clientver.HeaderName))
	if err != nil {
		return nil, model.NewValidationError(clientver.HeaderName, err.Error())
	}
	if err := info.CheckVersion(clientver.MinSupportedVersion); err != nil {
		return nil, model.NewValidationError(clientver.HeaderName, err.Error())
	}
	return info, nil
}
