package handler

import (
	"github.com/gin-gonic/gin"

	mfgapp "github.com/erp/fulfillment/internal/application/manufacturing"
)

// ManufacturingHandler serves BOM expansion, batch and consumption endpoints
type ManufacturingHandler struct {
	BaseHandler
	mfgService *mfgapp.Service
}

// NewManufacturingHandler creates a new ManufacturingHandler
func NewManufacturingHandler(mfgService *mfgapp.Service) *ManufacturingHandler {
	return &ManufacturingHandler{mfgService: mfgService}
}

// MaterialRequirements handles GET /orders/:id/requirements
func (h *ManufacturingHandler) MaterialRequirements(c *gin.Context) {
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

	resp, err := h.mfgService.MaterialRequirements(c.Request.Context(), actor.OrganizationID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CostAnalysis handles GET /boms/:id/cost-analysis
func (h *ManufacturingHandler) CostAnalysis(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "No authenticated actor")
		return
	}
	bomID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid BOM ID")
		return
	}

	resp, err := h.mfgService.CostAnalysis(c.Request.Context(), actor.OrganizationID, bomID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CreateBatch handles POST /orders/:id/batches
func (h *ManufacturingHandler) CreateBatch(c *gin.Context) {
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

	var req mfgapp.CreateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.mfgService.CreateBatch(c.Request.Context(), actor.OrganizationID, orderID, actor.ID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListBatches handles GET /orders/:id/batches
func (h *ManufacturingHandler) ListBatches(c *gin.Context) {
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

	resp, err := h.mfgService.ListBatches(c.Request.Context(), actor.OrganizationID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RecordConsumption handles POST /batches/:id/consumptions
func (h *ManufacturingHandler) RecordConsumption(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "No authenticated actor")
		return
	}
	batchID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid batch ID")
		return
	}

	var req mfgapp.RecordConsumptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.mfgService.RecordConsumption(c.Request.Context(), actor.OrganizationID, batchID, actor.ID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Variance handles GET /batches/:id/variance
func (h *ManufacturingHandler) Variance(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "No authenticated actor")
		return
	}
	batchID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid batch ID")
		return
	}

	resp, err := h.mfgService.Variance(c.Request.Context(), actor.OrganizationID, batchID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
