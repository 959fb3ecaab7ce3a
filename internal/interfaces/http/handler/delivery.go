package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	tradeapp "github.com/tunerp/backend/internal/application/trade"
)

// DeliveryHandler handles delivery notes
type DeliveryHandler struct {
	BaseHandler
	deliveryService *tradeapp.DeliveryService
}

// NewDeliveryHandler creates a new DeliveryHandler
func NewDeliveryHandler(deliveryService *tradeapp.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{deliveryService: deliveryService}
}

// Create godoc
// @ID           createDelivery
// @Summary      Create a delivery note for a sale
// @Description  Items default to the sale lines when omitted
// @Tags         deliveries
// @Accept       json
// @Produce      json
// @Param        request body tradeapp.CreateDeliveryRequest true "Delivery"
// @Success      201 {object} APIResponse[tradeapp.DeliveryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /deliveries [post]
func (h *DeliveryHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.scope(c)
	if !ok {
		return
	}

	var req tradeapp.CreateDeliveryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	delivery, err := h.deliveryService.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, delivery)
}

// GetByID godoc
// @ID           getDelivery
// @Summary      Get a delivery note
// @Tags         deliveries
// @Produce      json
// @Param        id path string true "Delivery ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.DeliveryResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /deliveries/{id} [get]
func (h *DeliveryHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	delivery, err := h.deliveryService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, delivery)
}

// List godoc
// @ID           listDeliveries
// @Summary      List delivery notes
// @Tags         deliveries
// @Produce      json
// @Param        search query string false "Search on number, client and address"
// @Param        status query string false "Status" Enums(pending, delivered, cancelled)
// @Param        sale_id query string false "Sale ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]tradeapp.DeliveryResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /deliveries [get]
func (h *DeliveryHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var filter tradeapp.DeliveryListFilter
	if !h.bindQuery(c, &filter) || !h.queryUUID(c, "sale_id", &filter.SaleID) {
		return
	}
	pageDefaults(&filter.Page, &filter.PageSize)

	deliveries, total, err := h.deliveryService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, deliveries, total, filter.Page, filter.PageSize)
}

// MarkDelivered godoc
// @ID           markDelivered
// @Summary      Mark a delivery as delivered
// @Tags         deliveries
// @Produce      json
// @Param        id path string true "Delivery ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.DeliveryResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /deliveries/{id}/deliver [post]
func (h *DeliveryHandler) MarkDelivered(c *gin.Context) {
	h.transition(c, h.deliveryService.MarkDelivered)
}

// Cancel godoc
// @ID           cancelDelivery
// @Summary      Cancel a pending delivery
// @Tags         deliveries
// @Produce      json
// @Param        id path string true "Delivery ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.DeliveryResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /deliveries/{id}/cancel [post]
func (h *DeliveryHandler) Cancel(c *gin.Context) {
	h.transition(c, h.deliveryService.Cancel)
}

func (h *DeliveryHandler) transition(c *gin.Context, fn func(context.Context, uuid.UUID, uuid.UUID) (*tradeapp.DeliveryResponse, error)) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	delivery, err := fn(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, delivery)
}

// Delete godoc
// @ID           deleteDelivery
// @Summary      Delete a delivery note
// @Tags         deliveries
// @Param        id path string true "Delivery ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /deliveries/{id} [delete]
func (h *DeliveryHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.deliveryService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
