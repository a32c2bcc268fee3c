package consumer

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"freshmart/internal/app/pkg/logger"
)

// Pool runs several consumers on the same queue. lmstfy hands each job to a single
// consumer, so workers need no coordination beyond sharing the handler.
type Pool struct {
	consumers []*EventConsumer
	logger    logger.Logger
	closing   *atomic.Bool
}

// NewPool creates workers consumers sharing source and handler; workers below 1 means 1
func NewPool(workers int, source JobSource, handler EventHandler, config Config, logger logger.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	consumers := make([]*EventConsumer, 0, workers)
	for i := 0; i < workers; i++ {
		consumers = append(consumers, NewEventConsumer(source, handler, config, logger))
	}
	return &Pool{
		consumers: consumers,
		logger:    logger,
		closing:   atomic.NewBool(false),
	}
}

// Run starts every consumer and blocks until ctx is cancelled or one of them fails.
// Cancellation is a clean stop and returns nil.
func (p *Pool) Run(ctx context.Context) error {
	if !p.closing.CAS(false, true) {
		return fmt.Errorf("consumer pool already ran")
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, c := range p.consumers {
		c := c
		worker := i
		g.Go(func() error {
			if err := c.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("worker %d: %w", worker, err)
			}
			return nil
		})
	}
	p.logger.Info("Consumer pool started", "workers", len(p.consumers))

	err := g.Wait()
	s := p.Stats()
	p.logger.Info("Consumer pool stopped",
		"processed", s.Processed,
		"failed", s.Failed,
		"malformed", s.Malformed,
	)
	return err
}

// Stats sums the counters of every worker
func (p *Pool) Stats() Stats {
	var total Stats
	for _, c := range p.consumers {
		s := c.Stats()
		total.Processed += s.Processed
		total.Failed += s.Failed
		total.Malformed += s.Malformed
	}
	return total
}

// Size number of workers
func (p *Pool) Size() int {
	return len(p.consumers)
}
