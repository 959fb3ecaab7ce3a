package handler

import (
	"github.com/gin-gonic/gin"
	inventoryapp "github.com/tunerp/backend/internal/application/inventory"
)

// StockHandler handles stock movements and manual stock changes
type StockHandler struct {
	BaseHandler
	inventoryService *inventoryapp.Service
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(inventoryService *inventoryapp.Service) *StockHandler {
	return &StockHandler{inventoryService: inventoryService}
}

// ListMovements godoc
// @ID           listStockMovements
// @Summary      List stock movements
// @Description  Newest first, at most 200
// @Tags         stock
// @Produce      json
// @Param        type query string false "Movement type" Enums(in, out, adjustment)
// @Param        product_id query string false "Product ID" format(uuid)
// @Param        from query string false "From date (YYYY-MM-DD)"
// @Param        to query string false "To date (YYYY-MM-DD), inclusive"
// @Param        limit query int false "Maximum rows" default(200) maximum(200)
// @Success      200 {object} APIResponse[[]inventoryapp.MovementResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /stock/movements [get]
func (h *StockHandler) ListMovements(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var filter inventoryapp.MovementListFilter
	if !h.bindQuery(c, &filter) || !h.queryUUID(c, "product_id", &filter.ProductID) {
		return
	}

	movements, err := h.inventoryService.ListMovements(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, movements)
}

// Adjust godoc
// @ID           adjustStock
// @Summary      Set the stock of a product to an absolute quantity
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        request body inventoryapp.AdjustStockRequest true "New quantity"
// @Success      200 {object} APIResponse[inventoryapp.MovementResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /stock/adjust [post]
func (h *StockHandler) Adjust(c *gin.Context) {
	tenantID, userID, ok := h.scope(c)
	if !ok {
		return
	}

	var req inventoryapp.AdjustStockRequest
	if !h.bindJSON(c, &req) {
		return
	}

	movement, err := h.inventoryService.Adjust(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, movement)
}

// UpdateStock godoc
// @ID           updateProductStock
// @Summary      Add or subtract stock
// @Description  Subtracting more than the available quantity is refused
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        productId path string true "Product ID" format(uuid)
// @Param        request body inventoryapp.UpdateStockRequest true "Quantity and operation"
// @Success      200 {object} APIResponse[inventoryapp.MovementResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /stock/products/{productId} [patch]
func (h *StockHandler) UpdateStock(c *gin.Context) {
	tenantID, userID, ok := h.scope(c)
	if !ok {
		return
	}
	productID, ok := h.pathID(c, "productId")
	if !ok {
		return
	}

	var req inventoryapp.UpdateStockRequest
	if !h.bindJSON(c, &req) {
		return
	}

	movement, err := h.inventoryService.UpdateStock(c.Request.Context(), tenantID, userID, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, movement)
}

// Alerts godoc
// @ID           getStockAlerts
// @Summary      Low-stock and out-of-stock products
// @Tags         stock
// @Produce      json
// @Success      200 {object} APIResponse[inventoryapp.AlertsResponse]
// @Security     BearerAuth
// @Router       /stock/alerts [get]
func (h *StockHandler) Alerts(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	alerts, err := h.inventoryService.Alerts(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, alerts)
}
