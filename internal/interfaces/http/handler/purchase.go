package handler

import (
	"github.com/gin-gonic/gin"
	tradeapp "github.com/tunerp/backend/internal/application/trade"
)

// PurchaseHandler handles purchase endpoints
type PurchaseHandler struct {
	BaseHandler
	purchaseService *tradeapp.PurchaseService
}

// NewPurchaseHandler creates a new PurchaseHandler
func NewPurchaseHandler(purchaseService *tradeapp.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchaseService: purchaseService}
}

// Create godoc
// @ID           createPurchase
// @Summary      Create a purchase
// @Description  Adds the lines to stock and the unpaid remainder to the supplier debt
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Param        request body tradeapp.CreatePurchaseRequest true "Purchase"
// @Success      201 {object} APIResponse[tradeapp.PurchaseResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Unknown supplier or product"
// @Failure      409 {object} ErrorResponse "Stock lock not obtained"
// @Security     BearerAuth
// @Router       /purchases [post]
func (h *PurchaseHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.scope(c)
	if !ok {
		return
	}

	var req tradeapp.CreatePurchaseRequest
	if !h.bindJSON(c, &req) {
		return
	}

	purchase, err := h.purchaseService.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, purchase)
}

// GetByID godoc
// @ID           getPurchase
// @Summary      Get a purchase
// @Tags         purchases
// @Produce      json
// @Param        id path string true "Purchase ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.PurchaseResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /purchases/{id} [get]
func (h *PurchaseHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	purchase, err := h.purchaseService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, purchase)
}

// List godoc
// @ID           listPurchases
// @Summary      List purchases
// @Tags         purchases
// @Produce      json
// @Param        search query string false "Search on supplier name"
// @Param        status query string false "Settlement status" Enums(pending, partial, paid)
// @Param        supplier_id query string false "Supplier ID" format(uuid)
// @Param        from query string false "From date (YYYY-MM-DD)"
// @Param        to query string false "To date (YYYY-MM-DD), inclusive"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field" default(created_at)
// @Param        order_dir query string false "Order direction" Enums(asc, desc) default(desc)
// @Success      200 {object} APIResponse[[]tradeapp.PurchaseResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /purchases [get]
func (h *PurchaseHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var filter tradeapp.PurchaseListFilter
	if !h.bindQuery(c, &filter) || !h.queryUUID(c, "supplier_id", &filter.SupplierID) {
		return
	}
	pageDefaults(&filter.Page, &filter.PageSize)

	purchases, total, err := h.purchaseService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, purchases, total, filter.Page, filter.PageSize)
}

// BySupplier godoc
// @ID           listPurchasesBySupplier
// @Summary      Purchases from a supplier
// @Tags         purchases
// @Produce      json
// @Param        supplierId path string true "Supplier ID" format(uuid)
// @Success      200 {object} APIResponse[[]tradeapp.PurchaseResponse]
// @Security     BearerAuth
// @Router       /purchases/supplier/{supplierId} [get]
func (h *PurchaseHandler) BySupplier(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	supplierID, ok := h.pathID(c, "supplierId")
	if !ok {
		return
	}

	purchases, err := h.purchaseService.BySupplier(c.Request.Context(), tenantID, supplierID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, purchases)
}

// AddPayment godoc
// @ID           addPurchasePayment
// @Summary      Record a payment to the supplier
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Param        id path string true "Purchase ID" format(uuid)
// @Param        request body tradeapp.AddPaymentRequest true "Payment"
// @Success      200 {object} APIResponse[tradeapp.PurchaseResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /purchases/{id}/payments [post]
func (h *PurchaseHandler) AddPayment(c *gin.Context) {
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

	purchase, err := h.purchaseService.AddPayment(c.Request.Context(), tenantID, userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, purchase)
}

// RemovePayment godoc
// @ID           removePurchasePayment
// @Summary      Remove a payment from a purchase
// @Tags         purchases
// @Produce      json
// @Param        id path string true "Purchase ID" format(uuid)
// @Param        paymentId path string true "Installment ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.PurchaseResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /purchases/{id}/payments/{paymentId} [delete]
func (h *PurchaseHandler) RemovePayment(c *gin.Context) {
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

	purchase, err := h.purchaseService.RemovePayment(c.Request.Context(), tenantID, id, paymentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, purchase)
}

// Delete godoc
// @ID           deletePurchase
// @Summary      Cancel a purchase
// @Description  Removes the lines from stock and the unpaid remainder from the supplier debt
// @Tags         purchases
// @Param        id path string true "Purchase ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /purchases/{id} [delete]
func (h *PurchaseHandler) Delete(c *gin.Context) {
	tenantID, userID, ok := h.scope(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.purchaseService.Delete(c.Request.Context(), tenantID, userID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Export godoc
// @ID           exportPurchases
// @Summary      Export purchases to Excel
// @Tags         purchases
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        from query string false "From date (YYYY-MM-DD)"
// @Param        to query string false "To date (YYYY-MM-DD), inclusive"
// @Success      200 {file} file
// @Security     BearerAuth
// @Router       /purchases/export [get]
func (h *PurchaseHandler) Export(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var filter tradeapp.ExportFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	file, err := h.purchaseService.Export(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.File(c, file.Filename, file.ContentType, file.Data)
}

// Voucher godoc
// @ID           getPurchaseVoucher
// @Summary      Purchase voucher as PDF
// @Tags         purchases
// @Produce      application/pdf
// @Param        id path string true "Purchase ID" format(uuid)
// @Success      200 {file} file
// @Failure      404 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse "PDF rendering not configured"
// @Security     BearerAuth
// @Router       /purchases/{id}/voucher [get]
func (h *PurchaseHandler) Voucher(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	file, err := h.purchaseService.Voucher(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.File(c, file.Filename, file.ContentType, file.Data)
}
