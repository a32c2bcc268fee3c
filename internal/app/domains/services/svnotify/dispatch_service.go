package svnotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"freshmart/common/model"
	"freshmart/internal/app/domains/entity/etorder"
	"freshmart/internal/app/pkg/errorx"
	"freshmart/internal/app/pkg/logger"
)

// OrderReader order lookup (mdorder.OrderModule)
type OrderReader interface {
	FindOrder(ctx context.Context, id string) (*etorder.Order, error)
}

// FeedPublisher redis side (infra/persistence/redis.PubSubClient)
type FeedPublisher interface {
	Publish(ctx context.Context, channel string, message string) error
}

// DispatchService handles order events taken off the queue by the notifier:
// logs the customer notification and forwards the event to the admin feed channel.
type DispatchService struct {
	orders OrderReader
	feed   FeedPublisher
	logger logger.Logger
}

// NewDispatchService creates the service
func NewDispatchService(orders OrderReader, feed FeedPublisher, logger logger.Logger) *DispatchService {
	return &DispatchService{
		orders: orders,
		feed:   feed,
		logger: logger,
	}
}

// HandleOrderEvent returns an error only when the event should be redelivered.
// Events of orders that no longer exist are dropped.
func (s *DispatchService) HandleOrderEvent(ctx context.Context, event *model.OrderEvent) error {
	ctx = logger.WithOrderID(logger.WithRequestID(ctx, event.RequestID), event.OrderID)

	order, err := s.orders.FindOrder(ctx, event.OrderID)
	if err != nil {
		if errors.Is(err, errorx.ErrOrderNotFound) {
			s.logger.Warnf(ctx, "drop %s event of unknown order", event.Type)
			return nil
		}
		return fmt.Errorf("load order %s failed: %w", event.OrderID, err)
	}

	s.logger.Infof(ctx, "notify customer %s (%s): %s", order.CustomerName, maskPhone(order.Phone), describe(event))

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal order event failed: %w", err)
	}
	if err := s.feed.Publish(ctx, model.OrderFeedChannel, string(payload)); err != nil {
		return fmt.Errorf("publish order feed failed: %w", err)
	}
	return nil
}

func describe(event *model.OrderEvent) string {
	switch event.Type {
	case model.OrderEventCreated:
		return fmt.Sprintf("order %s placed, total %.2f", event.OrderID, event.TotalAmount)
	case model.OrderEventItemsAdded:
		return fmt.Sprintf("order %s updated, total %.2f", event.OrderID, event.TotalAmount)
	default:
		if event.Note != "" {
			return fmt.Sprintf("order %s is now %s (%s)", event.OrderID, event.Status, event.Note)
		}
		return fmt.Sprintf("order %s is now %s", event.OrderID, event.Status)
	}
}

// maskPhone keeps the last four digits
func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return phone
	}
	masked := make([]byte, len(phone))
	for i := range masked {
		masked[i] = '*'
	}
	copy(masked[len(phone)-4:], phone[len(phone)-4:])
	return string(masked)
}
