package lmstfy

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bitleak/lmstfy/client"
)

const (
	defaultTTL   uint32 = 3600
	defaultTries uint16 = 3
)

// Client lmstfy client wrapper shared by the API server (publish) and the notifier (consume)
type Client struct {
	cli       *client.LmstfyClient
	namespace string
	ttl       uint32
	tries     uint16
}

// NewClient creates the lmstfy client
func NewClient(host string, port int, namespace, token string) *Client {
	return &Client{
		cli:       client.NewLmstfyClient(host, port, namespace, token),
		namespace: namespace,
		ttl:       defaultTTL,
		tries:     defaultTries,
	}
}

// Message consumed job
type Message struct {
	JobID string
	Queue string
	Data  json.RawMessage
}

// Publish marshals data to JSON and enqueues it with no delay. Returns the job id.
func (c *Client) Publish(ctx context.Context, queue string, data interface{}) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("marshal lmstfy payload failed: %w", err)
	}

	jobID, err := c.cli.Publish(queue, payload, c.ttl, c.tries, 0)
	if err != nil {
		return "", fmt.Errorf("lmstfy publish to %s/%s failed: %w", c.namespace, queue, err)
	}
	return jobID, nil
}

// Consume blocks up to timeout for a job. Returns nil, nil when the queue stayed empty.
// ttr is how long the job stays invisible before lmstfy redelivers it.
func (c *Client) Consume(queue string, timeout, ttr time.Duration) (*Message, error) {
	job, err := c.cli.Consume(queue, uint32(ttr.Seconds()), uint32(timeout.Seconds()))
	if err != nil {
		return nil, fmt.Errorf("lmstfy consume from %s/%s failed: %w", c.namespace, queue, err)
	}
	if job == nil {
		return nil, nil
	}

	return &Message{
		JobID: job.ID,
		Queue: job.Queue,
		Data:  json.RawMessage(job.Data),
	}, nil
}

// Ack deletes a finished job
func (c *Client) Ack(queue, jobID string) error {
	if err := c.cli.Ack(queue, jobID); err != nil {
		return fmt.Errorf("lmstfy ack %s failed: %w", jobID, err)
	}
	return nil
}
