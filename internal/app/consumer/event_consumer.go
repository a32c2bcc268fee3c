package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/atomic"

	"freshmart/common/model"
	"freshmart/internal/app/infra/mq/lmstfy"
	"freshmart/internal/app/pkg/logger"
)

// JobSource queue side (infra/mq/lmstfy.Client)
type JobSource interface {
	Consume(queue string, timeout, ttr time.Duration) (*lmstfy.Message, error)
	Ack(queue, jobID string) error
}

// EventHandler processes one order event; an error leaves the job for redelivery
type EventHandler interface {
	HandleOrderEvent(ctx context.Context, event *model.OrderEvent) error
}

// Config consumer settings
type Config struct {
	QueueName    string
	Timeout      time.Duration // blocking pull timeout
	TTR          time.Duration // time before an unacked job is redelivered
	PollInterval time.Duration // back-off after a failed pull
}

// Stats counters since start
type Stats struct {
	Processed int64
	Failed    int64
	Malformed int64
}

// EventConsumer pulls order events from lmstfy and hands them to the handler.
// Handled and malformed jobs are acked; failed jobs are left to TTR redelivery.
type EventConsumer struct {
	source  JobSource
	handler EventHandler
	config  Config
	logger  logger.Logger

	running   *atomic.Bool
	processed *atomic.Int64
	failed    *atomic.Int64
	malformed *atomic.Int64
}

// NewEventConsumer creates the consumer
func NewEventConsumer(source JobSource, handler EventHandler, config Config, logger logger.Logger) *EventConsumer {
	if config.PollInterval <= 0 {
		config.PollInterval = time.Second
	}
	return &EventConsumer{
		source:    source,
		handler:   handler,
		config:    config,
		logger:    logger,
		running:   atomic.NewBool(false),
		processed: atomic.NewInt64(0),
		failed:    atomic.NewInt64(0),
		malformed: atomic.NewInt64(0),
	}
}

// Start runs the consume loop until ctx is cancelled
func (c *EventConsumer) Start(ctx context.Context) error {
	if !c.running.CAS(false, true) {
		return fmt.Errorf("consumer for %s already running", c.config.QueueName)
	}
	defer c.running.Store(false)

	c.logger.Info("Event consumer started",
		"queue", c.config.QueueName,
		"timeout", c.config.Timeout,
		"ttr", c.config.TTR,
	)

	for {
		select {
		case <-ctx.Done():
			s := c.Stats()
			c.logger.Info("Event consumer stopped",
				"processed", s.Processed,
				"failed", s.Failed,
				"malformed", s.Malformed,
			)
			return ctx.Err()
		default:
			if err := c.consumeOne(ctx); err != nil {
				c.logger.Error("Failed to consume message", "error", err)
				select {
				case <-ctx.Done():
				case <-time.After(c.config.PollInterval):
				}
			}
		}
	}
}

// Running reports whether Start is active
func (c *EventConsumer) Running() bool {
	return c.running.Load()
}

// Stats returns a snapshot of the counters
func (c *EventConsumer) Stats() Stats {
	return Stats{
		Processed: c.processed.Load(),
		Failed:    c.failed.Load(),
		Malformed: c.malformed.Load(),
	}
}

func (c *EventConsumer) consumeOne(ctx context.Context) error {
	msg, err := c.source.Consume(c.config.QueueName, c.config.Timeout, c.config.TTR)
	if err != nil {
		return fmt.Errorf("consume message failed: %w", err)
	}
	if msg == nil {
		return nil
	}

	event, err := parseMessage(msg.Data)
	if err != nil {
		c.malformed.Inc()
		c.logger.Error("Failed to parse message", "job_id", msg.JobID, "error", err)
		// acked so the poison message is not redelivered forever
		if ackErr := c.source.Ack(c.config.QueueName, msg.JobID); ackErr != nil {
			return ackErr
		}
		return nil
	}

	if err := c.handler.HandleOrderEvent(ctx, event); err != nil {
		c.failed.Inc()
		c.logger.Error("Failed to handle order event",
			"job_id", msg.JobID,
			"order_id", event.OrderID,
			"error", err,
		)
		return err
	}

	if err := c.source.Ack(c.config.QueueName, msg.JobID); err != nil {
		return err
	}
	c.processed.Inc()

	c.logger.Info("Order event processed",
		"job_id", msg.JobID,
		"order_id", event.OrderID,
		"type", event.Type,
	)
	return nil
}

func parseMessage(data json.RawMessage) (*model.OrderEvent, error) {
	var event model.OrderEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("unmarshal order event failed: %w", err)
	}
	if event.OrderID == "" {
		return nil, fmt.Errorf("order_id is required")
	}
	if event.Type == "" {
		return nil, fmt.Errorf("type is required")
	}
	return &event, nil
}
