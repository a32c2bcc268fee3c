package svorder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"freshmart/common/model"
	"freshmart/internal/app/domains/entity/etorder"
	"freshmart/internal/app/domains/entity/etproduct"
	"freshmart/internal/app/domains/repo/rporder"
	"freshmart/internal/app/pkg/errorx"
	"freshmart/internal/app/pkg/idgen"
	"freshmart/internal/app/pkg/logger"
	"freshmart/internal/app/pkg/metrics"
)

// MaxTrackWait upper bound of a tracking long-poll
const MaxTrackWait = 30 * time.Second

// OrderStore order persistence (mdorder.OrderModule)
type OrderStore interface {
	CreateOrder(ctx context.Context, order *etorder.Order) error
	FindOrder(ctx context.Context, id string) (*etorder.Order, error)
	ListOrders(ctx context.Context, filter rporder.ListFilter) ([]*etorder.Order, error)
	SaveOrder(ctx context.Context, order *etorder.Order) error
}

// CatalogReader product snapshots (mdcatalog.CatalogModule)
type CatalogReader interface {
	Snapshot(ctx context.Context, productID int64) (etproduct.Snapshot, error)
}

// EventNotifier order event fan-out (mdnotify.NotifyModule)
type EventNotifier interface {
	PublishOrderEvent(ctx context.Context, event *model.OrderEvent) error
	WaitForStatusChange(ctx context.Context, orderID string, timeout time.Duration, ready func() bool) (*model.OrderEvent, error)
}

// IDGenerator external order id source
type IDGenerator interface {
	Next() string
}

// OrderService order creation and lifecycle
type OrderService struct {
	store       OrderStore
	catalog     CatalogReader
	notifier    EventNotifier
	log         logger.Logger
	ids         IDGenerator
	delivery    DeliveryPolicy
	transitions etorder.TransitionPolicy
	metrics     *metrics.OrderMetrics
	now         func() time.Time
}

// Option customises an OrderService
type Option func(*OrderService)

func WithDeliveryPolicy(p DeliveryPolicy) Option {
	return func(s *OrderService) { s.delivery = p }
}

func WithTransitionPolicy(p etorder.TransitionPolicy) Option {
	return func(s *OrderService) { s.transitions = p }
}

func WithIDGenerator(g IDGenerator) Option {
	return func(s *OrderService) { s.ids = g }
}

func WithClock(now func() time.Time) Option {
	return func(s *OrderService) { s.now = now }
}

func WithMetrics(m *metrics.OrderMetrics) Option {
	return func(s *OrderService) { s.metrics = m }
}

// NewOrderService creates the service. Defaults: DefaultDeliveryPolicy, permissive transitions,
// idgen.OrderIDGenerator and the wall clock.
func NewOrderService(store OrderStore, catalog CatalogReader, notifier EventNotifier, log logger.Logger, opts ...Option) *OrderService {
	s := &OrderService{
		store:       store,
		catalog:     catalog,
		notifier:    notifier,
		log:         log,
		ids:         idgen.NewOrderIDGenerator(),
		delivery:    DefaultDeliveryPolicy(),
		transitions: etorder.PermissivePolicy{},
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateOrderInput submitted order. DeliveryCharge is only honoured when the delivery policy
// allows client charges; a client total is never part of the input.
type CreateOrderInput struct {
	CustomerName    string
	Items           []etorder.Line
	DeliveryAddress string
	Phone           string
	DeliverySlot    string
	PaymentMethod   string
	DeliveryCharge  *float64
}

// CreateOrder validates the input, snapshots catalog lines, prices delivery and persists a
// pending order. A duplicate order id is regenerated and retried exactly once.
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*etorder.Order, error) {
	slot, err := etorder.ParseSlot(in.DeliverySlot)
	if err != nil {
		return nil, err
	}

	lines := make([]etorder.Line, 0, len(in.Items))
	for _, item := range in.Items {
		line, err := s.resolveLine(ctx, item)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	now := s.now()
	order, err := etorder.NewOrder(s.ids.Next(), etorder.NewOrderParams{
		CustomerName:    in.CustomerName,
		Items:           lines,
		DeliveryAddress: in.DeliveryAddress,
		Phone:           in.Phone,
		DeliverySlot:    slot,
		PaymentMethod:   in.PaymentMethod,
		DeliveryCharge:  s.delivery.Charge(slot, in.DeliveryCharge),
	}, now)
	if err != nil {
		return nil, err
	}

	err = s.store.CreateOrder(ctx, order)
	if errors.Is(err, errorx.ErrDuplicateOrderID) {
		s.log.Warnf(ctx, "order id %s already taken, regenerating", order.OrderID)
		order.OrderID = s.ids.Next()
		err = s.store.CreateOrder(ctx, order)
		if errors.Is(err, errorx.ErrDuplicateOrderID) {
			return nil, errorx.Persistence("insert order", err)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("save order failed: %w", err)
	}

	ctx = logger.WithOrderID(ctx, order.OrderID)
	s.log.Infof(ctx, "order created: slot=%s total=%.2f items=%d", order.DeliverySlot, order.TotalAmount(), len(order.Items()))
	s.metrics.OrderCreated(string(order.DeliverySlot))
	s.publish(ctx, newEvent(model.OrderEventCreated, order, "", now))

	return order, nil
}

// GetOrder id is the external order id or the numeric storage id
func (s *OrderService) GetOrder(ctx context.Context, id string) (*etorder.Order, error) {
	return s.store.FindOrder(ctx, id)
}

// ListOrders newest first; empty status or slot means no filter
func (s *OrderService) ListOrders(ctx context.Context, status, slot string) ([]*etorder.Order, error) {
	var filter rporder.ListFilter
	if status != "" {
		st, err := etorder.ParseStatus(status)
		if err != nil {
			return nil, err
		}
		filter.Status = st
	}
	if slot != "" {
		sl, err := etorder.ParseSlot(slot)
		if err != nil {
			return nil, err
		}
		filter.Slot = sl
	}
	return s.store.ListOrders(ctx, filter)
}

// UpdateStatus moves the order to status through the transition policy and appends a history
// entry. A concurrent modification surfaces as errorx.ErrConflict.
func (s *OrderService) UpdateStatus(ctx context.Context, id, status, note string) (*etorder.Order, error) {
	target, err := etorder.ParseStatus(status)
	if err != nil {
		return nil, err
	}

	order, err := s.store.FindOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	ctx = logger.WithOrderID(ctx, order.OrderID)

	from := order.Status()
	if err := s.transitions.Check(from, target); err != nil {
		return nil, err
	}

	now := s.now()
	if err := order.Transition(target, note, now); err != nil {
		return nil, err
	}
	if err := s.store.SaveOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("save order status failed: %w", err)
	}

	s.log.Infof(ctx, "order status changed: %s -> %s", from, target)
	s.metrics.StatusChanged(string(target))
	s.publish(ctx, newEvent(model.OrderEventStatusChanged, order, note, now))

	return order, nil
}

// CancelOrder is UpdateStatus to cancelled
func (s *OrderService) CancelOrder(ctx context.Context, id, note string) (*etorder.Order, error) {
	return s.UpdateStatus(ctx, id, string(etorder.StatusCancelled), note)
}

// AddItem merges one more line into a pending order
func (s *OrderService) AddItem(ctx context.Context, id string, item etorder.Line) (*etorder.Order, error) {
	order, err := s.store.FindOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	ctx = logger.WithOrderID(ctx, order.OrderID)

	if order.Status() != etorder.StatusPending {
		return nil, errorx.Validation("status", "items can only be added to pending orders")
	}

	line, err := s.resolveLine(ctx, item)
	if err != nil {
		return nil, err
	}
	if err := order.AddItem(line); err != nil {
		return nil, err
	}
	if err := s.store.SaveOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("save order items failed: %w", err)
	}

	s.log.Infof(ctx, "item added: name=%s qty=%d total=%.2f", line.Name, line.Quantity, order.TotalAmount())
	s.publish(ctx, newEvent(model.OrderEventItemsAdded, order, "", s.now()))

	return order, nil
}

// TrackOrder returns the order, optionally waiting up to wait (capped at MaxTrackWait) for its
// next event. The order is read again once the subscription is live and a change made before
// that point ends the wait early. When an event arrives the order is re-read so the response reflects it.
func (s *OrderService) TrackOrder(ctx context.Context, id string, wait time.Duration) (*etorder.Order, *model.OrderEvent, error) {
	order, err := s.store.FindOrder(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if wait <= 0 || s.notifier == nil {
		return order, nil, nil
	}
	if wait > MaxTrackWait {
		wait = MaxTrackWait
	}

	ctx = logger.WithOrderID(ctx, order.OrderID)
	latest := order
	var readErr error
	event, err := s.notifier.WaitForStatusChange(ctx, order.OrderID, wait, func() bool {
		fresh, err := s.store.FindOrder(ctx, order.OrderID)
		if err != nil {
			readErr = err
			return true
		}
		latest = fresh
		return fresh.Revision != order.Revision || fresh.Status() != order.Status()
	})
	if readErr != nil {
		return nil, nil, readErr
	}
	if err != nil {
		s.log.Warnf(ctx, "wait for order event failed: %v", err)
		return latest, nil, nil
	}
	if event == nil {
		return latest, nil, nil
	}

	fresh, err := s.store.FindOrder(ctx, order.OrderID)
	if err != nil {
		return nil, nil, err
	}
	return fresh, event, nil
}

// resolveLine copies name, price and unit from the catalog for lines that reference a product.
// Lines without a reference are kept as submitted.
func (s *OrderService) resolveLine(ctx context.Context, item etorder.Line) (etorder.Line, error) {
	if item.ProductID == nil || s.catalog == nil {
		return item, nil
	}

	snap, err := s.catalog.Snapshot(ctx, *item.ProductID)
	if err != nil {
		if errors.Is(err, errorx.ErrProductNotFound) {
			return etorder.Line{}, errorx.Validation("items.productId", fmt.Sprintf("product %d does not exist", *item.ProductID))
		}
		return etorder.Line{}, fmt.Errorf("load product %d failed: %w", *item.ProductID, err)
	}
	if !snap.InStock {
		return etorder.Line{}, errorx.Validation("items", snap.Name+" is out of stock")
	}

	item.Name = snap.Name
	item.Price = snap.Price
	item.Unit = snap.Unit
	return item, nil
}

// publish is best effort; a failure never fails the request
func (s *OrderService) publish(ctx context.Context, event *model.OrderEvent) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.PublishOrderEvent(ctx, event); err != nil {
		s.log.Warnf(ctx, "publish %s event failed: %v", event.Type, err)
	}
}

func newEvent(eventType string, order *etorder.Order, note string, at time.Time) *model.OrderEvent {
	return &model.OrderEvent{
		Type:         eventType,
		OrderID:      order.OrderID,
		Status:       string(order.Status()),
		DeliverySlot: string(order.DeliverySlot),
		TotalAmount:  order.TotalAmount(),
		Note:         note,
		At:           at,
	}
}
