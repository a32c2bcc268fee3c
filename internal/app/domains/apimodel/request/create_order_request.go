package request

// CreateOrderRequest checkout payload. TotalAmount is accepted for compatibility and ignored;
// DeliveryCharge is only honoured when the server allows client delivery charges.
type CreateOrderRequest struct {
	CustomerName    string      `json:"customerName" example:"Asha"`
	Items           []OrderItem `json:"items" binding:"required,min=1"`
	DeliveryAddress string      `json:"deliveryAddress" binding:"required" example:"12 MG Road, Pune"`
	Phone           string      `json:"phone" binding:"required" example:"9876543210"`
	DeliverySlot    string      `json:"deliverySlot" binding:"required" example:"immediate"`
	PaymentMethod   string      `json:"paymentMethod" example:"cod"`
	DeliveryCharge  *float64    `json:"deliveryCharge,omitempty"`
	TotalAmount     *float64    `json:"totalAmount,omitempty"`
}

// OrderItem cart line. With a productId the catalog supplies name, price and unit.
type OrderItem struct {
	ProductID *int64  `json:"productId,omitempty" example:"7210512345001"`
	Name      string  `json:"name" example:"Alphonso Mango"`
	Quantity  int     `json:"quantity" example:"2"`
	Price     float64 `json:"price" example:"150"`
	Unit      string  `json:"unit" example:"1 kg"`
}

// UpdateStatusRequest status change
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required" example:"preparing"`
	Note   string `json:"note" example:"rider assigned"`
}

// CancelOrderRequest optional body of DELETE /orders/:id
type CancelOrderRequest struct {
	Note string `json:"note"`
}
