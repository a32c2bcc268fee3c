package model

import "time"

// OrderEvent order lifecycle message. Published by the API on the lmstfy queue and on the
// per-order redis channel, consumed by the notifier.
type OrderEvent struct {
	EventID      string    `json:"event_id"`
	RequestID    string    `json:"request_id,omitempty"` // request that caused the event (tracing)
	Type         string    `json:"type"`
	OrderID      string    `json:"order_id"`
	Status       string    `json:"status"`
	DeliverySlot string    `json:"delivery_slot"`
	TotalAmount  float64   `json:"total_amount"`
	Note         string    `json:"note,omitempty"`
	At           time.Time `json:"at"`
}

// Event types
const (
	OrderEventCreated       = "order.created"
	OrderEventStatusChanged = "order.status_changed"
	OrderEventItemsAdded    = "order.items_added"
)

// OrderStatusChannel redis channel carrying live updates for one order
func OrderStatusChannel(orderID string) string {
	return "order:status:" + orderID
}

// OrderFeedChannel redis channel carrying every event for the admin dashboard
const OrderFeedChannel = "order:feed"
