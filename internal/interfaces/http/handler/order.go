package handler

import (
	"github.com/gin-gonic/gin"

	orderapp "github.com/erp/fulfillment/internal/application/order"
)

// OrderHandler serves the order lifecycle endpoints
type OrderHandler struct {
	BaseHandler
	orderService *orderapp.Service
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *orderapp.Service) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Create handles POST /orders
func (h *OrderHandler) Create(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "No authenticated actor")
		return
	}

	var req orderapp.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.orderService.Create(c.Request.Context(), actor.OrganizationID, actor.ID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List handles GET /orders
func (h *OrderHandler) List(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "No authenticated actor")
		return
	}

	var filter orderapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.orderService.List(c.Request.Context(), actor.OrganizationID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetByID handles GET /orders/:id
func (h *OrderHandler) GetByID(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "No authenticated actor")
		return
	}
	orderID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	resp, err := h.orderService.GetByID(c.Request.Context(), actor.OrganizationID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetByOrderNumber handles GET /orders/number/:order_number
func (h *OrderHandler) GetByOrderNumber(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "No authenticated actor")
		return
	}

	resp, err := h.orderService.GetByOrderNumber(c.Request.Context(), actor.OrganizationID, c.Param("order_number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update handles PUT /orders/:id
func (h *OrderHandler) Update(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "No authenticated actor")
		return
	}
	orderID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req orderapp.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.orderService.Update(c.Request.Context(), actor.OrganizationID, orderID, actor.ID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete handles DELETE /orders/:id, draft orders only
func (h *OrderHandler) Delete(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "No authenticated actor")
		return
	}
	orderID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	if err := h.orderService.Delete(c.Request.Context(), actor.OrganizationID, orderID, actor.ID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AddLine handles POST /orders/:id/lines
func (h *OrderHandler) AddLine(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "No authenticated actor")
		return
	}
	orderID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req orderapp.AddLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.orderService.AddLine(c.Request.Context(), actor.OrganizationID, orderID, actor.ID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateLine handles PUT /orders/:id/lines/:line_id
func (h *OrderHandler) UpdateLine(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "No authenticated actor")
		return
	}
	orderID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}
	lineID, err := pathUUID(c, "line_id")
	if err != nil {
		h.BadRequest(c, "Invalid line ID")
		return
	}

	var req orderapp.UpdateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.orderService.UpdateLine(c.Request.Context(), actor.OrganizationID, orderID, lineID, actor.ID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RemoveLine handles DELETE /orders/:id/lines/:line_id
func (h *OrderHandler) RemoveLine(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "No authenticated actor")
		return
	}
	orderID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}
	lineID, err := pathUUID(c, "line_id")
	if err != nil {
		h.BadRequest(c, "Invalid line ID")
		return
	}

	resp, err := h.orderService.RemoveLine(c.Request.Context(), actor.OrganizationID, orderID, lineID, actor.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Submit handles POST /orders/:id/submit
func (h *OrderHandler) Submit(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "No authenticated actor")
		return
	}
	orderID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	resp, err := h.orderService.Submit(c.Request.Context(), actor.OrganizationID, orderID, actor.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Decide handles POST /orders/:id/decision
func (h *OrderHandler) Decide(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "No authenticated actor")
		return
	}
	orderID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req orderapp.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.orderService.Decide(c.Request.Context(), actor.OrganizationID, orderID, actor.ID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Approvals handles GET /orders/:id/approvals
func (h *OrderHandler) Approvals(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "No authenticated actor")
		return
	}
	orderID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	records, err := h.orderService.Approvals(c.Request.Context(), actor.OrganizationID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, records)
}

// Dispatch handles POST /orders/:id/dispatch
func (h *OrderHandler) Dispatch(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "No authenticated actor")
		return
	}
	orderID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	resp, err := h.orderService.Dispatch(c.Request.Context(), actor.OrganizationID, orderID, actor.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RecordFulfillment handles POST /orders/:id/fulfillments
func (h *OrderHandler) RecordFulfillment(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "No authenticated actor")
		return
	}
	orderID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req orderapp.FulfillmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.orderService.RecordFulfillment(c.Request.Context(), actor.OrganizationID, orderID, actor.ID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Cancel handles POST /orders/:id/cancel
func (h *OrderHandler) Cancel(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "No authenticated actor")
		return
	}
	orderID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req orderapp.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.orderService.Cancel(c.Request.Context(), actor.OrganizationID, orderID, actor.ID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
