package export

import (
	"context"
	"log/slog"

	"sheets-bridge/internal/model"
)

// =============================================================================
// BACKFILL
// =============================================================================
//
// Backfill pushes historical orders through the export pipeline, page by
// page, for merchants who deploy the sheet after the store already has
// orders. It is a sequential walk: the remote Apps Script upserts by order
// ID, so re-running a backfill is idempotent and overlapping runs converge
// on the same rows.
//
// =============================================================================

// BackfillParams controls a backfill run.
type BackfillParams struct {
	// Query narrows which orders are walked. Page is ignored; the walk
	// always starts at page 1. PerPage defaults to 50.
	Query model.OrderQuery
	// MaxPages bounds the walk. Zero means walk until an empty page.
	MaxPages int
}

// BackfillSummary tallies one backfill run.
type BackfillSummary struct {
	Processed int `json:"processed"`
	Exported  int `json:"exported"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
	Pages     int `json:"pages"`
}

const defaultBackfillPageSize = 50

// Backfill walks the source's order pages and exports each order. The run
// stops on context cancellation or when the source errors; per-order
// export failures are tallied and do not stop the walk.
func (d *Dispatcher) Backfill(ctx context.Context, src OrderSource, p BackfillParams, logger *slog.Logger) (BackfillSummary, error) {
	q := p.Query
	if q.PerPage <= 0 {
		q.PerPage = defaultBackfillPageSize
	}

	var sum BackfillSummary
	for page := 1; p.MaxPages == 0 || page <= p.MaxPages; page++ {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		q.Page = page
		orders, err := src.ListOrders(ctx, q)
		if err != nil {
			return sum, err
		}
		if len(orders) == 0 {
			break
		}
		sum.Pages++

		for _, o := range orders {
			if err := ctx.Err(); err != nil {
				return sum, err
			}
			sum.Processed++
			switch res := d.Export(ctx, o); res.State {
			case StateSucceeded:
				sum.Exported++
			case StateSkipped:
				sum.Skipped++
			case StateFailed:
				sum.Failed++
			}
		}
	}

	logger.Info("backfill finished",
		"processed", sum.Processed,
		"exported", sum.Exported,
		"skipped", sum.Skipped,
		"failed", sum.Failed,
		"pages", sum.Pages)
	return sum, nil
}
