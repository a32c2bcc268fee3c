package order

import (
	"github.com/gin-gonic/gin"

	"freshmart/internal/app/domains/apimodel/request"
	"freshmart/internal/app/domains/apimodel/response"
	"freshmart/internal/app/domains/services/svorder"
	"freshmart/internal/app/pkg/ginx"
)

// Create godoc
// @Summary      Place an order
// @Description  Validates the cart, prices delivery by slot and stores a pending order.
// @Description  A client totalAmount is ignored; the total is always computed server side.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body request.CreateOrderRequest true "checkout payload"
// @Success      201 {object} ginx.Response{data=response.CreateOrderResponse}
// @Failure      400 {object} ginx.Response "invalid cart, phone, address or slot"
// @Failure      500 {object} ginx.Response
// @Router       /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req request.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), req.ToCreateOrderInput())
	if err != nil {
		fail(c, err)
		return
	}

	ginx.Created(c, &response.CreateOrderResponse{
		OrderID:           order.OrderID,
		TotalAmount:       order.TotalAmount(),
		DeliveryCharge:    order.DeliveryCharge(),
		EstimatedDelivery: svorder.EstimatedDelivery(order.DeliverySlot),
		Order:             response.FromOrderEntity(order),
	})
}
