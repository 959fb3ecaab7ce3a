package handler

import (
	"github.com/gin-gonic/gin"
	financeapp "github.com/tunerp/backend/internal/application/finance"
)

// PaymentHandler handles client and supplier payment records
type PaymentHandler struct {
	BaseHandler
	salePayments     *financeapp.SalePaymentService
	purchasePayments *financeapp.PurchasePaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(salePayments *financeapp.SalePaymentService, purchasePayments *financeapp.PurchasePaymentService) *PaymentHandler {
	return &PaymentHandler{salePayments: salePayments, purchasePayments: purchasePayments}
}

// CreateSalePayment godoc
// @ID           createSalePayment
// @Summary      Record a standalone client payment
// @Tags         sale-payments
// @Accept       json
// @Produce      json
// @Param        request body financeapp.CreateSalePaymentRequest true "Payment"
// @Success      201 {object} APIResponse[financeapp.SalePaymentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sale-payments [post]
func (h *PaymentHandler) CreateSalePayment(c *gin.Context) {
	tenantID, userID, ok := h.scope(c)
	if !ok {
		return
	}

	var req financeapp.CreateSalePaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	payment, err := h.salePayments.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, payment)
}

// GetSalePayment godoc
// @ID           getSalePayment
// @Summary      Get a client payment
// @Tags         sale-payments
// @Produce      json
// @Param        id path string true "Payment ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.SalePaymentResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sale-payments/{id} [get]
func (h *PaymentHandler) GetSalePayment(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	payment, err := h.salePayments.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payment)
}

// ListSalePayments godoc
// @ID           listSalePayments
// @Summary      List client payments
// @Tags         sale-payments
// @Produce      json
// @Param        search query string false "Search on note"
// @Param        client_id query string false "Client ID" format(uuid)
// @Param        sale_id query string false "Sale ID" format(uuid)
// @Param        from query string false "From date (YYYY-MM-DD)"
// @Param        to query string false "To date (YYYY-MM-DD), inclusive"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]financeapp.SalePaymentResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sale-payments [get]
func (h *PaymentHandler) ListSalePayments(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var filter financeapp.PaymentListFilter
	if !h.bindQuery(c, &filter) ||
		!h.queryUUID(c, "client_id", &filter.ClientID) ||
		!h.queryUUID(c, "sale_id", &filter.SaleID) {
		return
	}
	pageDefaults(&filter.Page, &filter.PageSize)

	payments, total, err := h.salePayments.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, payments, total, filter.Page, filter.PageSize)
}

// UpdateSalePayment godoc
// @ID           updateSalePayment
// @Summary      Update a client payment
// @Tags         sale-payments
// @Accept       json
// @Produce      json
// @Param        id path string true "Payment ID" format(uuid)
// @Param        request body financeapp.UpdateSalePaymentRequest true "Changes"
// @Success      200 {object} APIResponse[financeapp.SalePaymentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sale-payments/{id} [put]
func (h *PaymentHandler) UpdateSalePayment(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req financeapp.UpdateSalePaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	payment, err := h.salePayments.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payment)
}

// DeleteSalePayment godoc
// @ID           deleteSalePayment
// @Summary      Delete a client payment
// @Tags         sale-payments
// @Param        id path string true "Payment ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sale-payments/{id} [delete]
func (h *PaymentHandler) DeleteSalePayment(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.salePayments.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// SalePaymentsByClient godoc
// @ID           listSalePaymentsByClient
// @Summary      Payments of a client
// @Tags         sale-payments
// @Produce      json
// @Param        clientId path string true "Client ID" format(uuid)
// @Success      200 {object} APIResponse[[]financeapp.SalePaymentResponse]
// @Security     BearerAuth
// @Router       /sale-payments/client/{clientId} [get]
func (h *PaymentHandler) SalePaymentsByClient(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	clientID, ok := h.pathID(c, "clientId")
	if !ok {
		return
	}

	payments, err := h.salePayments.ByClient(c.Request.Context(), tenantID, clientID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payments)
}

// SalePaymentsBySale godoc
// @ID           listSalePaymentsBySale
// @Summary      Payments of a sale
// @Tags         sale-payments
// @Produce      json
// @Param        saleId path string true "Sale ID" format(uuid)
// @Success      200 {object} APIResponse[[]financeapp.SalePaymentResponse]
// @Security     BearerAuth
// @Router       /sale-payments/sale/{saleId} [get]
func (h *PaymentHandler) SalePaymentsBySale(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	saleID, ok := h.pathID(c, "saleId")
	if !ok {
		return
	}

	payments, err := h.salePayments.BySale(c.Request.Context(), tenantID, saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payments)
}

// ClientPaymentStats godoc
// @ID           getClientPaymentStats
// @Summary      Payment totals of a client
// @Tags         sale-payments
// @Produce      json
// @Param        clientId path string true "Client ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.PaymentStatsResponse]
// @Security     BearerAuth
// @Router       /sale-payments/client/{clientId}/stats [get]
func (h *PaymentHandler) ClientPaymentStats(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	clientID, ok := h.pathID(c, "clientId")
	if !ok {
		return
	}

	stats, err := h.salePayments.ClientStats(c.Request.Context(), tenantID, clientID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// ListPurchasePayments godoc
// @ID           listPurchasePayments
// @Summary      List supplier payments
// @Tags         purchase-payments
// @Produce      json
// @Param        search query string false "Search on note"
// @Param        supplier_id query string false "Supplier ID" format(uuid)
// @Param        purchase_id query string false "Purchase ID" format(uuid)
// @Param        from query string false "From date (YYYY-MM-DD)"
// @Param        to query string false "To date (YYYY-MM-DD), inclusive"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]financeapp.PurchasePaymentResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /purchase-payments [get]
func (h *PaymentHandler) ListPurchasePayments(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var filter financeapp.PaymentListFilter
	if !h.bindQuery(c, &filter) ||
		!h.queryUUID(c, "supplier_id", &filter.SupplierID) ||
		!h.queryUUID(c, "purchase_id", &filter.PurchaseID) {
		return
	}
	pageDefaults(&filter.Page, &filter.PageSize)

	payments, total, err := h.purchasePayments.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, payments, total, filter.Page, filter.PageSize)
}

// DeletePurchasePayment godoc
// @ID           deletePurchasePayment
// @Summary      Delete a supplier payment record
// @Tags         purchase-payments
// @Param        id path string true "Payment ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /purchase-payments/{id} [delete]
func (h *PaymentHandler) DeletePurchasePayment(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.purchasePayments.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
