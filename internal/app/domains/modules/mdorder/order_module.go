package mdorder

import (
	"context"
	"errors"
	"strconv"

	"freshmart/internal/app/domains/entity/etorder"
	"freshmart/internal/app/domains/repo/rporder"
	"freshmart/internal/app/pkg/errorx"
)

// OrderModule order data operations
type OrderModule struct {
	orderRepo rporder.OrderRepository
}

// NewOrderModule creates the module
func NewOrderModule(orderRepo rporder.OrderRepository) *OrderModule {
	return &OrderModule{
		orderRepo: orderRepo,
	}
}

func (m *OrderModule) CreateOrder(ctx context.Context, order *etorder.Order) error {
	return m.orderRepo.Create(ctx, order)
}

// FindOrder resolves id as an external order id first and as a numeric storage id second.
func (m *OrderModule) FindOrder(ctx context.Context, id string) (*etorder.Order, error) {
	order, err := m.orderRepo.GetByOrderID(ctx, id)
	if err == nil || !errors.Is(err, errorx.ErrOrderNotFound) {
		return order, err
	}

	numericID, convErr := strconv.ParseInt(id, 10, 64)
	if convErr != nil || numericID <= 0 {
		return nil, err
	}
	return m.orderRepo.GetByID(ctx, numericID)
}

func (m *OrderModule) ListOrders(ctx context.Context, filter rporder.ListFilter) ([]*etorder.Order, error) {
	return m.orderRepo.List(ctx, filter)
}

// SaveOrder persists changes guarded by the order revision
func (m *OrderModule) SaveOrder(ctx context.Context, order *etorder.Order) error {
	return m.orderRepo.Save(ctx, order)
}
