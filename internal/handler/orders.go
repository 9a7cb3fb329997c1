package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"sheets-bridge/internal/export"
	"sheets-bridge/internal/model"
)

// webhookPayload is the WooCommerce order webhook body. Webhooks ship
// the full order resource; only the ID matters since the order is
// refetched for a consistent snapshot.
type webhookPayload struct {
	ID      int `json:"id"`
	OrderID int `json:"order_id"`
}

// exportResponse reports the outcome of a single order export.
type exportResponse struct {
	OrderID  int    `json:"order_id"`
	State    string `json:"state"`
	Reason   string `json:"reason,omitempty"`
	Attempts int    `json:"attempts"`
}

// handleOrderWebhook exports the order referenced by a store webhook.
// POST /webhooks/orders
func (h *Handler) handleOrderWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var payload webhookPayload
	if err := decodeJSON(r, &payload); err != nil {
		h.writeError(w, err)
		return
	}

	orderID := payload.ID
	if orderID == 0 {
		orderID = payload.OrderID
	}
	if orderID == 0 {
		h.writeError(w, model.NewValidationError("id", "order ID required"))
		return
	}

	h.logger.InfoContext(ctx, "order webhook received",
		slog.Int("order_id", orderID),
	)

	h.exportOrder(w, r, orderID)
}

// handleExportOrder exports a single order by ID.
// POST /orders/{id}/export
func (h *Handler) handleExportOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || orderID <= 0 {
		h.writeError(w, model.NewValidationError("id", "order ID must be a positive integer"))
		return
	}

	h.exportOrder(w, r, orderID)
}

// exportOrder fetches an order and runs it through the dispatcher.
func (h *Handler) exportOrder(w http.ResponseWriter, r *http.Request, orderID int) {
	ctx := r.Context()

	if _, err := h.checkClient(r); err != nil {
		h.writeError(w, err)
		return
	}

	order, err := h.source.GetOrder(ctx, orderID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	result := h.dispatcher.Export(ctx, order)
	if result.State == export.StateFailed {
		reason := "delivery failed"
		if result.Err != nil {
			reason = result.Err.Error()
		}
		h.writeError(w, model.NewExportError(reason))
		return
	}

	h.writeJSON(w, http.StatusOK, exportResponse{
		OrderID:  orderID,
		State:    string(result.State),
		Reason:   result.Reason,
		Attempts: result.Attempts,
	})
}

// backfillRequest selects which historical orders to export.
type backfillRequest struct {
	Statuses []string `json:"statuses,omitempty"`
	After    string   `json:"after,omitempty"`  // RFC 3339
	Before   string   `json:"before,omitempty"` // RFC 3339
	PerPage  int      `json:"per_page,omitempty"`
	MaxPages int      `json:"max_pages,omitempty"`
}

// handleBackfill walks historical orders through the export pipeline.
// POST /orders/backfill
//
// Backfill is a pro feature; the client must advertise the pro tier
// in the Exporter-Client header.
func (h *Handler) handleBackfill(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	info, err := h.checkClient(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if !info.Pro() || !h.scriptOpts.ProActive {
		h.writeError(w, model.NewUnauthorizedError("backfill requires an active pro license"))
		return
	}

	var req backfillRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	query := model.OrderQuery{
		Statuses: req.Statuses,
		PerPage:  req.PerPage,
	}
	if req.After != "" {
		t, err := time.Parse(time.RFC3339, req.After)
		if err != nil {
			h.writeError(w, model.NewValidationError("after", "must be RFC 3339"))
			return
		}
		query.After = t
	}
	if req.Before != "" {
		t, err := time.Parse(time.RFC3339, req.Before)
		if err != nil {
			h.writeError(w, model.NewValidationError("before", "must be RFC 3339"))
			return
		}
		query.Before = t
	}

	h.logger.InfoContext(ctx, "backfill requested",
		slog.Any("statuses", req.Statuses),
		slog.Int("max_pages", req.MaxPages),
	)

	summary, err := h.dispatcher.Backfill(ctx, h.source, export.BackfillParams{
		Query:    query,
		MaxPages: req.MaxPages,
	}, h.logger)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, summary)
}
