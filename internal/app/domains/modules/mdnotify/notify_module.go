package mdnotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"freshmart/common/model"
	"freshmart/internal/app/pkg/logger"
)

// QueuePublisher lmstfy side (infra/mq/lmstfy.Client)
type QueuePublisher interface {
	Publish(ctx context.Context, queue string, data interface{}) (string, error)
}

// ChannelPubSub redis side (infra/persistence/redis.PubSubClient)
type ChannelPubSub interface {
	Publish(ctx context.Context, channel string, message string) error
	Subscribe(ctx context.Context, channel string, timeout time.Duration, ready func() bool) (string, error)
}

// NotifyModule order event fan-out:
// the per-order redis channel for live tracking and the lmstfy queue for the notifier worker.
// Either side may be nil, which disables it.
type NotifyModule struct {
	queue     QueuePublisher
	pubsub    ChannelPubSub
	queueName string
}

// NewNotifyModule creates the module
func NewNotifyModule(queue QueuePublisher, pubsub ChannelPubSub, queueName string) *NotifyModule {
	return &NotifyModule{
		queue:     queue,
		pubsub:    pubsub,
		queueName: queueName,
	}
}

// PublishOrderEvent fills event and request ids and publishes to both sides.
// Both sides are always attempted; their errors are joined.
func (m *NotifyModule) PublishOrderEvent(ctx context.Context, event *model.OrderEvent) error {
	if event.EventID == "" {
		event.EventID = uuid.New().String()
	}
	if event.RequestID == "" {
		event.RequestID = logger.RequestID(ctx)
	}

	var errs []error
	if m.pubsub != nil {
		payload, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("marshal order event failed: %w", err)
		}
		if err := m.pubsub.Publish(ctx, model.OrderStatusChannel(event.OrderID), string(payload)); err != nil {
			errs = append(errs, err)
		}
	}
	if m.queue != nil {
		if _, err := m.queue.Publish(ctx, m.queueName, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// WaitForStatusChange blocks until the next event for orderID or the timeout (smart wait).
// ready runs once the channel subscription is live; returning true skips the wait.
// Returns nil, nil on timeout or when the wait was skipped.
func (m *NotifyModule) WaitForStatusChange(ctx context.Context, orderID string, timeout time.Duration, ready func() bool) (*model.OrderEvent, error) {
	if m.pubsub == nil || timeout <= 0 {
		return nil, nil
	}

	payload, err := m.pubsub.Subscribe(ctx, model.OrderStatusChannel(orderID), timeout, ready)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, nil
		}
		return nil, err
	}
	if payload == "" {
		return nil, nil
	}

	var event model.OrderEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return nil, fmt.Errorf("unmarshal order event failed: %w", err)
	}
	return &event, nil
}
