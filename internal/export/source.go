package export

import (
	"context"

	"sheets-bridge/internal/model"
)

// OrderSource abstracts where canonical orders come from.
// The WooCommerce REST client provides the production implementation;
// tests use MockSource. All methods return orders already transformed to
// the canonical snapshot, with product lookups resolved.
type OrderSource interface {
	// GetOrder fetches one order by ID.
	GetOrder(ctx context.Context, id int) (*model.Order, error)

	// ListOrders returns one page of orders matching the query.
	// An empty page signals the end of the result set.
	ListOrders(ctx context.Context, q model.OrderQuery) ([]*model.Order, error)
}
