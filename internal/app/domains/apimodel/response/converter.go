package response

import (
	"freshmart/common/model"
	"freshmart/internal/app/domains/entity/etorder"
	"freshmart/internal/app/domains/entity/etproduct"
)

// FromOrderEntity domain object -> response DTO
func FromOrderEntity(order *etorder.Order) *OrderResponse {
	lines := order.Items()
	items := make([]OrderItemResponse, 0, len(lines))
	for _, l := range lines {
		items = append(items, OrderItemResponse{
			ProductID: l.ProductID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			Price:     l.Price,
			Unit:      l.Unit,
		})
	}

	entries := order.StatusHistory()
	history := make([]StatusEntryResponse, 0, len(entries))
	for _, e := range entries {
		history = append(history, StatusEntryResponse{
			Status: string(e.Status),
			At:     e.At,
			Note:   e.Note,
		})
	}

	return &OrderResponse{
		ID:              order.ID,
		OrderID:         order.OrderID,
		CustomerName:    order.CustomerName,
		Items:           items,
		DeliveryAddress: order.DeliveryAddress,
		Phone:           order.Phone,
		DeliverySlot:    string(order.DeliverySlot),
		Status:          string(order.Status()),
		StatusHistory:   history,
		PaymentMethod:   order.PaymentMethod,
		DeliveryCharge:  order.DeliveryCharge(),
		TotalAmount:     order.TotalAmount(),
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}

// FromOrderEntities list conversion; never nil so an empty list renders as []
func FromOrderEntities(orders []*etorder.Order) []*OrderResponse {
	out := make([]*OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, FromOrderEntity(o))
	}
	return out
}

func FromOrderEvent(event *model.OrderEvent) *EventResponse {
	if event == nil {
		return nil
	}
	return &EventResponse{
		Type:   event.Type,
		Status: event.Status,
		Note:   event.Note,
		At:     event.At,
	}
}

// FromProductEntity domain object -> response DTO
func FromProductEntity(p *etproduct.Product) *ProductResponse {
	return &ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		Category:  string(p.Category),
		Price:     p.Price,
		Unit:      p.Unit,
		Image:     p.Image,
		InStock:   p.InStock,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func FromProductEntities(products []*etproduct.Product) []*ProductResponse {
	out := make([]*ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, FromProductEntity(p))
	}
	return out
}
