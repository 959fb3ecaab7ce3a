package handler

import (
	"github.com/gin-gonic/gin"
	reportapp "github.com/tunerp/backend/internal/application/report"
	"github.com/tunerp/backend/internal/domain/report"
)

// ReportHandler serves the read-only aggregates: accounting summary,
// dashboard and period reports
type ReportHandler struct {
	BaseHandler
	accountingService *reportapp.AccountingService
	dashboardService  *reportapp.DashboardService
	reportService     *reportapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(
	accountingService *reportapp.AccountingService,
	dashboardService *reportapp.DashboardService,
	reportService *reportapp.ReportService,
) *ReportHandler {
	return &ReportHandler{
		accountingService: accountingService,
		dashboardService:  dashboardService,
		reportService:     reportService,
	}
}

// period binds the optional from/to query parameters
func (h *ReportHandler) period(c *gin.Context) (reportapp.PeriodFilter, bool) {
	var filter reportapp.PeriodFilter
	if !h.bindQuery(c, &filter) {
		return filter, false
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		h.BadRequest(c, "La date de fin précède la date de début")
		return filter, false
	}
	return filter, true
}

// AccountingSummary godoc
// @ID           getAccountingSummary
// @Summary      Sales, purchases, TVA and profit over a period
// @Description  Defaults to the current month
// @Tags         accounting
// @Produce      json
// @Param        from query string false "From date (YYYY-MM-DD)"
// @Param        to query string false "To date (YYYY-MM-DD), inclusive"
// @Success      200 {object} APIResponse[reportapp.AccountingSummaryResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /accounting/summary [get]
func (h *ReportHandler) AccountingSummary(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	filter, ok := h.period(c)
	if !ok {
		return
	}

	summary, err := h.accountingService.Summary(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// Dashboard godoc
// @ID           getDashboard
// @Summary      Home screen figures
// @Tags         dashboard
// @Produce      json
// @Success      200 {object} APIResponse[report.Dashboard]
// @Security     BearerAuth
// @Router       /dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var (
		dashboard *report.Dashboard
		err       error
	)
	dashboard, err = h.dashboardService.Get(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dashboard)
}

// SalesReport godoc
// @ID           getSalesReport
// @Summary      Sales breakdown over a period
// @Tags         reports
// @Produce      json
// @Param        from query string false "From date (YYYY-MM-DD)"
// @Param        to query string false "To date (YYYY-MM-DD), inclusive"
// @Success      200 {object} APIResponse[report.SalesReport]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/sales [get]
func (h *ReportHandler) SalesReport(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	filter, ok := h.period(c)
	if !ok {
		return
	}

	rep, err := h.reportService.Sales(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rep)
}

// PurchasesReport godoc
// @ID           getPurchasesReport
// @Summary      Purchases breakdown over a period
// @Tags         reports
// @Produce      json
// @Param        from query string false "From date (YYYY-MM-DD)"
// @Param        to query string false "To date (YYYY-MM-DD), inclusive"
// @Success      200 {object} APIResponse[report.PurchasesReport]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/purchases [get]
func (h *ReportHandler) PurchasesReport(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	filter, ok := h.period(c)
	if !ok {
		return
	}

	rep, err := h.reportService.Purchases(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rep)
}

// StockReport godoc
// @ID           getStockReport
// @Summary      Stock valuation and alerts
// @Tags         reports
// @Produce      json
// @Success      200 {object} APIResponse[report.StockReport]
// @Security     BearerAuth
// @Router       /reports/stock [get]
func (h *ReportHandler) StockReport(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	rep, err := h.reportService.Stock(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rep)
}

// ChargesReport godoc
// @ID           getChargesReport
// @Summary      Charges by type over a period
// @Tags         reports
// @Produce      json
// @Param        from query string false "From date (YYYY-MM-DD)"
// @Param        to query string false "To date (YYYY-MM-DD), inclusive"
// @Success      200 {object} APIResponse[report.ChargesReport]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/charges [get]
func (h *ReportHandler) ChargesReport(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	filter, ok := h.period(c)
	if !ok {
		return
	}

	rep, err := h.reportService.Charges(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rep)
}
