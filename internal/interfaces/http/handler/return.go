package handler

import (
	"github.com/gin-gonic/gin"
	tradeapp "github.com/tunerp/backend/internal/application/trade"
)

// ReturnHandler handles customer returns
type ReturnHandler struct {
	BaseHandler
	returnService *tradeapp.ReturnService
}

// NewReturnHandler creates a new ReturnHandler
func NewReturnHandler(returnService *tradeapp.ReturnService) *ReturnHandler {
	return &ReturnHandler{returnService: returnService}
}

// Create godoc
// @ID           createReturn
// @Summary      Record a customer return
// @Tags         returns
// @Accept       json
// @Produce      json
// @Param        request body tradeapp.CreateReturnRequest true "Return"
// @Success      201 {object} APIResponse[tradeapp.ReturnResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /returns [post]
func (h *ReturnHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.scope(c)
	if !ok {
		return
	}

	var req tradeapp.CreateReturnRequest
	if !h.bindJSON(c, &req) {
		return
	}

	ret, err := h.returnService.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ret)
}

// GetByID godoc
// @ID           getReturn
// @Summary      Get a customer return
// @Tags         returns
// @Produce      json
// @Param        id path string true "Return ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.ReturnResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /returns/{id} [get]
func (h *ReturnHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	ret, err := h.returnService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ret)
}

// List godoc
// @ID           listReturns
// @Summary      List customer returns
// @Tags         returns
// @Produce      json
// @Param        search query string false "Search on number and reason"
// @Param        status query string false "Status" Enums(pending, approved, refunded, rejected)
// @Param        sale_id query string false "Sale ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]tradeapp.ReturnResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /returns [get]
func (h *ReturnHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var filter tradeapp.ReturnListFilter
	if !h.bindQuery(c, &filter) || !h.queryUUID(c, "sale_id", &filter.SaleID) {
		return
	}
	pageDefaults(&filter.Page, &filter.PageSize)

	returns, total, err := h.returnService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, returns, total, filter.Page, filter.PageSize)
}

// UpdateStatus godoc
// @ID           updateReturnStatus
// @Summary      Approve, refund or reject a return
// @Description  Approving puts the returned quantities back in stock
// @Tags         returns
// @Accept       json
// @Produce      json
// @Param        id path string true "Return ID" format(uuid)
// @Param        request body tradeapp.UpdateReturnStatusRequest true "Status"
// @Success      200 {object} APIResponse[tradeapp.ReturnResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /returns/{id}/status [patch]
func (h *ReturnHandler) UpdateStatus(c *gin.Context) {
	tenantID, userID, ok := h.scope(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req tradeapp.UpdateReturnStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	ret, err := h.returnService.UpdateStatus(c.Request.Context(), tenantID, userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ret)
}

// Delete godoc
// @ID           deleteReturn
// @Summary      Delete a customer return
// @Tags         returns
// @Param        id path string true "Return ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /returns/{id} [delete]
func (h *ReturnHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.returnService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
