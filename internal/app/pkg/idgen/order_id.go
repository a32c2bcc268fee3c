package idgen

import (
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// OrderIDPrefix leading marker of every external order id
const OrderIDPrefix = "ORD"

// OrderIDGenerator produces short, shareable order ids:
// prefix + base36(unix millis) + a suffix drawn uniformly from [100, 999].
// Uniqueness is not checked here; the unique index on order_id rejects the rare collision.
type OrderIDGenerator struct {
	now  func() time.Time
	intn func(n int) int
}

// Option customises an OrderIDGenerator
type Option func(*OrderIDGenerator)

// WithClock injects the time source
func WithClock(now func() time.Time) Option {
	return func(g *OrderIDGenerator) { g.now = now }
}

// WithRand injects the random source; intn must return a value in [0, n).
func WithRand(intn func(n int) int) Option {
	return func(g *OrderIDGenerator) { g.intn = intn }
}

// NewOrderIDGenerator creates a generator backed by the wall clock and math/rand.
func NewOrderIDGenerator(opts ...Option) *OrderIDGenerator {
	g := &OrderIDGenerator{
		now:  time.Now,
		intn: rand.Intn,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Next returns a new order id, e.g. ORDMFX3K2A1427.
func (g *OrderIDGenerator) Next() string {
	millis := g.now().UnixMilli()
	suffix := 100 + g.intn(900)

	var b strings.Builder
	b.WriteString(OrderIDPrefix)
	b.WriteString(strings.ToUpper(strconv.FormatInt(millis, 36)))
	b.WriteString(strconv.Itoa(suffix))
	return b.String()
}
