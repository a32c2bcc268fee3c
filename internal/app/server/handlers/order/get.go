package order

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"freshmart/internal/app/domains/apimodel/response"
	"freshmart/internal/app/pkg/ginx"
)

// Get godoc
// @Summary      Get an order
// @Description  id is either the external orderId or the numeric storage id.
// @Tags         orders
// @Produce      json
// @Param        id path string true "orderId or storage id"
// @Success      200 {object} ginx.Response{data=response.OrderResponse}
// @Failure      404 {object} ginx.Response
// @Router       /orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	ginx.Success(c, response.FromOrderEntity(order))
}

// List GET /orders?status=&slot= newest first
func (h *OrderHandler) List(c *gin.Context) {
	h.list(c, c.Query("status"), c.Query("slot"))
}

// ListBySlot GET /orders/slot/:slot
func (h *OrderHandler) ListBySlot(c *gin.Context) {
	h.list(c, "", c.Param("slot"))
}

// ListByStatus GET /orders/status/:status
func (h *OrderHandler) ListByStatus(c *gin.Context) {
	h.list(c, c.Param("status"), "")
}

func (h *OrderHandler) list(c *gin.Context, status, slot string) {
	orders, err := h.orderService.ListOrders(c.Request.Context(), status, slot)
	if err != nil {
		fail(c, err)
		return
	}

	ginx.Success(c, response.FromOrderEntities(orders))
}

// Track GET /orders/:id/track?wait=N
// Without wait it returns the current order. With wait it holds the request up to N seconds
// (capped server side) for the next status event and returns the order as of that event.
func (h *OrderHandler) Track(c *gin.Context) {
	var wait time.Duration
	if waitStr := c.Query("wait"); waitStr != "" {
		seconds, err := strconv.Atoi(waitStr)
		if err != nil || seconds < 0 {
			ginx.BadRequest(c, "wait must be a non-negative number of seconds")
			return
		}
		wait = time.Duration(seconds) * time.Second
	}

	order, event, err := h.orderService.TrackOrder(c.Request.Context(), c.Param("id"), wait)
	if err != nil {
		fail(c, err)
		return
	}

	ginx.Success(c, &response.TrackOrderResponse{
		Order: response.FromOrderEntity(order),
		Event: response.FromOrderEvent(event),
	})
}
