package order

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"freshmart/internal/app/domains/apimodel/request"
	"freshmart/internal/app/domains/apimodel/response"
	"freshmart/internal/app/pkg/ginx"
)

// UpdateStatus godoc
// @Summary      Change order status
// @Description  Appends one status history entry. Returns 409 when the order changed concurrently.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "orderId or storage id"
// @Param        request body request.UpdateStatusRequest true "new status"
// @Success      200 {object} ginx.Response{data=response.OrderStatusResponse}
// @Failure      400 {object} ginx.Response "missing or unknown status"
// @Failure      404 {object} ginx.Response
// @Failure      409 {object} ginx.Response
// @Router       /orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req request.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status, req.Note)
	if err != nil {
		fail(c, err)
		return
	}

	ginx.Success(c, &response.OrderStatusResponse{
		OrderID: order.OrderID,
		Status:  string(order.Status()),
	})
}

// Cancel DELETE /orders/:id
// Orders are never removed; this is the cancelled status transition.
func (h *OrderHandler) Cancel(c *gin.Context) {
	var req request.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		ginx.BadRequestWithValidation(c, err)
		return
	}

	order, err := h.orderService.CancelOrder(c.Request.Context(), c.Param("id"), req.Note)
	if err != nil {
		fail(c, err)
		return
	}

	ginx.Success(c, &response.OrderStatusResponse{
		OrderID: order.OrderID,
		Status:  string(order.Status()),
	})
}

// AddItem POST /orders/:id/items merges one more line into a pending order
func (h *OrderHandler) AddItem(c *gin.Context) {
	var req request.OrderItem
	if err := c.ShouldBindJSON(&req); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}

	order, err := h.orderService.AddItem(c.Request.Context(), c.Param("id"), req.ToLine())
	if err != nil {
		fail(c, err)
		return
	}

	ginx.Success(c, &response.OrderTotalResponse{
		OrderID:     order.OrderID,
		TotalAmount: order.TotalAmount(),
	})
}
