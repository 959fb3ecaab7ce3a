package handler

import (
	"github.com/gin-gonic/gin"
	tradeapp "github.com/tunerp/backend/internal/application/trade"
)

// SaleHandler handles sale endpoints
type SaleHandler struct {
	BaseHandler
	saleService *tradeapp.SaleService
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(saleService *tradeapp.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// Create godoc
// @ID           createSale
// @Summary      Create a sale
// @Description  Prices the lines, records the initial payment, decrements stock and raises stock alerts.
// @Description  Stock is checked for every line before anything is written.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        request body tradeapp.CreateSaleRequest true "Sale"
// @Success      201 {object} APIResponse[tradeapp.SaleResponse]
// @Failure      400 {object} ErrorResponse "Invalid lines, payment above total or insufficient stock"
// @Failure      404 {object} ErrorResponse "Unknown client or product"
// @Failure      409 {object} ErrorResponse "Stock lock not obtained"
// @Security     BearerAuth
// @Router       /sales [post]
func (h *SaleHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.scope(c)
	if !ok {
		return
	}

	var req tradeapp.CreateSaleRequest
	if !h.bindJSON(c, &req) {
		return
	}

	sale, err := h.saleService.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sale)
}

// GetByID godoc
// @ID           getSale
// @Summary      Get a sale
// @Tags         sales
// @Produce      json
// @Param        id path string true "Sale ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.SaleResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sales/{id} [get]
func (h *SaleHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	sale, err := h.saleService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sale)
}

// List godoc
// @ID           listSales
// @Summary      List sales
// @Tags         sales
// @Produce      json
// @Param        search query string false "Search on client name"
// @Param        status query string false "Settlement status" Enums(pending, partial, paid)
// @Param        client_id query string false "Client ID" format(uuid)
// @Param        from query string false "From date (YYYY-MM-DD)"
// @Param        to query string false "To date (YYYY-MM-DD), inclusive"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field" default(created_at)
// @Param        order_dir query string false "Order direction" Enums(asc, desc) default(desc)
// @Success      200 {object} APIResponse[[]tradeapp.SaleResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sales [get]
func (h *SaleHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var filter tradeapp.SaleListFilter
	if !h.bindQuery(c, &filter) || !h.queryUUID(c, "client_id", &filter.ClientID) {
		return
	}
	pageDefaults(&filter.Page, &filter.PageSize)

	sales, total, err := h.saleService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, sales, total, filter.Page, filter.PageSize)
}

// ByClient godoc
// @ID           listSalesByClient
// @Summary      Sales of a client
// @Description  The 100 most recent
// @Tags         sales
// @Produce      json
// @Param        clientId path string true "Client ID" format(uuid)
// @Success      200 {object} APIResponse[[]tradeapp.SaleResponse]
// @Security     BearerAuth
// @Router       /sales/client/{clientId} [get]
func (h *SaleHandler) ByClient(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	clientID, ok := h.pathID(c, "clientId")
	if !ok {
		return
	}

	sales, err := h.saleService.ByClient(c.Request.Context(), tenantID, clientID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sales)
}

// ClientStats godoc
// @ID           getClientSalesStats
// @Summary      Sales totals of a client
// @Tags         sales
// @Produce      json
// @Param        clientId path string true "Client ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.ClientSalesStats]
// @Security     BearerAuth
// @Router       /sales/client/{clientId}/stats [get]
func (h *SaleHandler) ClientStats(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	clientID, ok := h.pathID(c, "clientId")
	if !ok {
		return
	}

	stats, err := h.saleService.ClientStats(c.Request.Context(), tenantID, clientID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// AddPayment godoc
// @ID           addSalePayment
// @Summary      Record a payment on a sale
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        id path string true "Sale ID" format(uuid)
// @Param        request body tradeapp.AddPaymentRequest true "Payment"
// @Success      200 {object} APIResponse[tradeapp.SaleResponse]
// @Failure      400 {object} ErrorResponse "Amount not positive or above the remaining balance"
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sales/{id}/payments [post]
func (h *SaleHandler) AddPayment(c *gin.Context) {
	tenantID, userID, ok := h.scope(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req tradeapp.AddPaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	sale, err := h.saleService.AddPayment(c.Request.Context(), tenantID, userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sale)
}

// RemovePayment godoc
// @ID           removeSalePayment
// @Summary      Remove a payment from a sale
// @Tags         sales
// @Produce      json
// @Param        id path string true "Sale ID" format(uuid)
// @Param        paymentId path string true "Installment ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.SaleResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sales/{id}/payments/{paymentId} [delete]
func (h *SaleHandler) RemovePayment(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	paymentID, ok := h.pathID(c, "paymentId")
	if !ok {
		return
	}

	sale, err := h.saleService.RemovePayment(c.Request.Context(), tenantID, id, paymentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sale)
}

// Delete godoc
// @ID           deleteSale
// @Summary      Cancel a sale
// @Description  Restores the stock of every line and deletes the client payments of the sale
// @Tags         sales
// @Param        id path string true "Sale ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sales/{id} [delete]
func (h *SaleHandler) Delete(c *gin.Context) {
	tenantID, userID, ok := h.scope(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.saleService.Delete(c.Request.Context(), tenantID, userID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Export godoc
// @ID           exportSales
// @Summary      Export sales to Excel
// @Tags         sales
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        from query string false "From date (YYYY-MM-DD)"
// @Param        to query string false "To date (YYYY-MM-DD), inclusive"
// @Success      200 {file} file
// @Security     BearerAuth
// @Router       /sales/export [get]
func (h *SaleHandler) Export(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var filter tradeapp.ExportFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	file, err := h.saleService.Export(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.File(c, file.Filename, file.ContentType, file.Data)
}

// Invoice godoc
// @ID           getSaleInvoice
// @Summary      Sale invoice as PDF
// @Tags         sales
// @Produce      application/pdf
// @Param        id path string true "Sale ID" format(uuid)
// @Success      200 {file} file
// @Failure      404 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse "PDF rendering not configured"
// @Security     BearerAuth
// @Router       /sales/{id}/invoice [get]
func (h *SaleHandler) Invoice(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	file, err := h.saleService.Invoice(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.File(c, file.Filename, file.ContentType, file.Data)
}
