package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// PubSubClient redis pub/sub wrapper
type PubSubClient struct {
	rdb *redis.Client
}

// NewPubSubClient connects and pings redis
func NewPubSubClient(addr, password string, db int) (*PubSubClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connect redis %s failed: %w", addr, err)
	}

	return &PubSubClient{rdb: rdb}, nil
}

// Subscribe waits for the first message on channel, up to timeout.
// ready, when set, runs once the subscription is confirmed; returning true ends the wait
// with an empty payload. Returns context.DeadlineExceeded when nothing arrives in time.
func (c *PubSubClient) Subscribe(ctx context.Context, channel string, timeout time.Duration, ready func() bool) (string, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	sub := c.rdb.Subscribe(timeoutCtx, channel)
	defer sub.Close()

	// wait for the subscription confirmation so a publish right after this call is not lost
	if _, err := sub.Receive(timeoutCtx); err != nil {
		return "", err
	}
	if ready != nil && ready() {
		return "", nil
	}

	select {
	case msg, ok := <-sub.Channel():
		if !ok {
			return "", fmt.Errorf("redis channel %s closed", channel)
		}
		return msg.Payload, nil
	case <-timeoutCtx.Done():
		return "", timeoutCtx.Err()
	}
}

// Publish publishes message on channel
func (c *PubSubClient) Publish(ctx context.Context, channel string, message string) error {
	if err := c.rdb.Publish(ctx, channel, message).Err(); err != nil {
		return fmt.Errorf("redis publish to %s failed: %w", channel, err)
	}
	return nil
}

// Ping health probe
func (c *PubSubClient) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close closes the connection
func (c *PubSubClient) Close() error {
	return c.rdb.Close()
}
