package client

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/nyxieeee/aa2000-website/internal/domain"
)

// CreateOrder submits an order to the back office. The backend assigns the
// id and the initial "pending" status; validation failures come back with
// the backend's message intact.
func (b *Backend) CreateOrder(ctx context.Context, payload domain.OrderPayload) (*domain.Order, error) {
	var order domain.Order
	if err := b.do(ctx, http.MethodPost, "/api/orders", payload, &order); err != nil {
		return nil, err
	}

	b.logger.InfoContext(ctx, "order created in back office",
		slog.Int64("order_id", order.ID),
		slog.Int64("total", order.Total),
	)

	return &order, nil
}

// ListOrders fetches all orders.
func (b *Backend) ListOrders(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	if err := b.do(ctx, http.MethodGet, "/api/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrder fetches one order with its lines.
func (b *Backend) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	var order domain.Order
	if err := b.do(ctx, http.MethodGet, fmt.Sprintf("/api/orders/%d", id), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
