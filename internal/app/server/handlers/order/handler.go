package order

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"freshmart/common/model"
	"freshmart/internal/app/domains/entity/etorder"
	"freshmart/internal/app/domains/services/svorder"
	"freshmart/internal/app/pkg/ginx"
)

// OrderService operations used by the handler (svorder.OrderService)
type OrderService interface {
	CreateOrder(ctx context.Context, in svorder.CreateOrderInput) (*etorder.Order, error)
	GetOrder(ctx context.Context, id string) (*etorder.Order, error)
	ListOrders(ctx context.Context, status, slot string) ([]*etorder.Order, error)
	UpdateStatus(ctx context.Context, id, status, note string) (*etorder.Order, error)
	CancelOrder(ctx context.Context, id, note string) (*etorder.Order, error)
	AddItem(ctx context.Context, id string, item etorder.Line) (*etorder.Order, error)
	TrackOrder(ctx context.Context, id string, wait time.Duration) (*etorder.Order, *model.OrderEvent, error)
}

// OrderHandler order HTTP handlers
type OrderHandler struct {
	orderService OrderService
}

// NewOrderHandler creates the handler
func NewOrderHandler(orderService OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// fail records err for the error middleware and renders it
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	ginx.FromError(c, err)
}
