package response

import "time"

// OrderResponse order representation
type OrderResponse struct {
	ID              int64                 `json:"id"`
	OrderID         string                `json:"orderId"`
	CustomerName    string                `json:"customerName,omitempty"`
	Items           []OrderItemResponse   `json:"items"`
	DeliveryAddress string                `json:"deliveryAddress"`
	Phone           string                `json:"phone"`
	DeliverySlot    string                `json:"deliverySlot"`
	Status          string                `json:"status"`
	StatusHistory   []StatusEntryResponse `json:"statusHistory"`
	PaymentMethod   string                `json:"paymentMethod"`
	DeliveryCharge  float64               `json:"deliveryCharge"`
	TotalAmount     float64               `json:"totalAmount"`
	CreatedAt       time.Time             `json:"createdAt"`
	UpdatedAt       time.Time             `json:"updatedAt"`
}

type OrderItemResponse struct {
	ProductID *int64  `json:"productId,omitempty"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Unit      string  `json:"unit,omitempty"`
}

type StatusEntryResponse struct {
	Status string    `json:"status"`
	At     time.Time `json:"at"`
	Note   string    `json:"note,omitempty"`
}

// CreateOrderResponse POST /orders
type CreateOrderResponse struct {
	OrderID           string         `json:"orderId"`
	TotalAmount       float64        `json:"totalAmount"`
	DeliveryCharge    float64        `json:"deliveryCharge"`
	EstimatedDelivery string         `json:"estimatedDelivery"`
	Order             *OrderResponse `json:"order"`
}

// OrderStatusResponse PUT /orders/:id/status and DELETE /orders/:id
type OrderStatusResponse struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

// OrderTotalResponse POST /orders/:id/items
type OrderTotalResponse struct {
	OrderID     string  `json:"orderId"`
	TotalAmount float64 `json:"totalAmount"`
}

// TrackOrderResponse GET /orders/:id/track
type TrackOrderResponse struct {
	Order *OrderResponse `json:"order"`
	Event *EventResponse `json:"event,omitempty"`
}

type EventResponse struct {
	Type   string    `json:"type"`
	Status string    `json:"status"`
	Note   string    `json:"note,omitempty"`
	At     time.Time `json:"at"`
}
