package rporder

import (
	"context"

	"freshmart/internal/app/domains/entity/etorder"
)

// ListFilter optional order list filters; zero values match everything
type ListFilter struct {
	Status etorder.Status
	Slot   etorder.Slot
}

// OrderRepository order storage
type OrderRepository interface {
	// Create inserts a new order and writes back ID and timestamps.
	// A clash on order_id returns errorx.ErrDuplicateOrderID.
	Create(ctx context.Context, order *etorder.Order) error

	// GetByOrderID looks up by external order id
	GetByOrderID(ctx context.Context, orderID string) (*etorder.Order, error)

	// GetByID looks up by storage id
	GetByID(ctx context.Context, id int64) (*etorder.Order, error)

	// List returns matching orders, newest first
	List(ctx context.Context, filter ListFilter) ([]*etorder.Order, error)

	// Save writes items, status, history and amounts back if the stored revision still
	// equals order.Revision, then bumps order.Revision. Returns errorx.ErrConflict otherwise.
	Save(ctx context.Context, order *etorder.Order) error
}
