package export

import (
	"context"

	"sheets-bridge/internal/model"
)

// MockSource implements OrderSource for testing.
// Each method can be configured via function fields.
type MockSource struct {
	GetOrderFunc   func(ctx context.Context, id int) (*model.Order, error)
	ListOrdersFunc func(ctx context.Context, q model.OrderQuery) ([]*model.Order, error)
}

// GetOrder calls the configured GetOrderFunc or returns a not-found error.
func (m *MockSource) GetOrder(ctx context.Context, id int) (*model.Order, error) {
	if m.GetOrderFunc != nil {
		return m.GetOrderFunc(ctx, id)
	}
	return nil, model.NewNotFoundError("order")
}

// ListOrders calls the configured ListOrdersFunc or returns an empty page.
func (m *MockSource) ListOrders(ctx context.Context, q model.OrderQuery) ([]*model.Order, error) {
	if m.ListOrdersFunc != nil {
		return m.ListOrdersFunc(ctx, q)
	}
	return nil, nil
}

// Verify MockSource implements OrderSource at compile time.
var _ OrderSource = (*MockSource)(nil)
