package handler

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	financeapp "github.com/tunerp/backend/internal/application/finance"
	"github.com/tunerp/backend/internal/interfaces/http/middleware"
)

// ChargeHandler handles operating expenses
type ChargeHandler struct {
	BaseHandler
	chargeService *financeapp.ChargeService
}

// NewChargeHandler creates a new ChargeHandler
func NewChargeHandler(chargeService *financeapp.ChargeService) *ChargeHandler {
	return &ChargeHandler{chargeService: chargeService}
}

// ChargeExportFilter bounds the exported charges by date
type ChargeExportFilter struct {
	From *time.Time `form:"from" time_format:"2006-01-02"`
	To   *time.Time `form:"to" time_format:"2006-01-02"`
}

// Create godoc
// @ID           createCharge
// @Summary      Record a charge
// @Description  Accepts JSON, or multipart/form-data with the charge as JSON in "data" and an optional "receipt" image
// @Tags         charges
// @Accept       json,mpfd
// @Produce      json
// @Param        request body financeapp.ChargeRequest false "Charge (JSON body)"
// @Param        data formData string false "Charge as JSON (multipart)"
// @Param        receipt formData file false "Receipt image or PDF (multipart)"
// @Success      201 {object} APIResponse[financeapp.ChargeResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      413 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /charges [post]
func (h *ChargeHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.scope(c)
	if !ok {
		return
	}

	var req financeapp.ChargeRequest
	var receipt *financeapp.ReceiptUpload

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if !h.bindMultipartCharge(c, &req) {
			return
		}
		upload, ok := h.formFile(c, "receipt", false)
		if !ok {
			return
		}
		if upload != nil {
			receipt = &financeapp.ReceiptUpload{
				Filename:    upload.Filename,
				ContentType: upload.ContentType,
				Data:        upload.Data,
			}
		}
	} else if !h.bindJSON(c, &req) {
		return
	}

	charge, err := h.chargeService.Create(c.Request.Context(), tenantID, userID, req, receipt)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, charge)
}

// bindMultipartCharge decodes the "data" form field and runs the binding validator on it
func (h *ChargeHandler) bindMultipartCharge(c *gin.Context, req *financeapp.ChargeRequest) bool {
	raw := c.PostForm("data")
	if raw == "" {
		h.BadRequest(c, `Champ "data" manquant`)
		return false
	}
	if err := json.Unmarshal([]byte(raw), req); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	if err := binding.Validator.ValidateStruct(req); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// GetByID godoc
// @ID           getCharge
// @Summary      Get a charge
// @Tags         charges
// @Produce      json
// @Param        id path string true "Charge ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.ChargeResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /charges/{id} [get]
func (h *ChargeHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	charge, err := h.chargeService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, charge)
}

// List godoc
// @ID           listCharges
// @Summary      List charges
// @Tags         charges
// @Produce      json
// @Param        search query string false "Search on description and source"
// @Param        type query string false "Charge type" Enums(rent, salary, utilities, equipment, marketing, tax, insurance, other)
// @Param        from query string false "From date (YYYY-MM-DD)"
// @Param        to query string false "To date (YYYY-MM-DD), inclusive"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Sort field" default(date)
// @Param        order_dir query string false "Sort direction" Enums(asc, desc) default(desc)
// @Success      200 {object} APIResponse[[]financeapp.ChargeResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /charges [get]
func (h *ChargeHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var filter financeapp.ChargeListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	pageDefaults(&filter.Page, &filter.PageSize)

	charges, total, err := h.chargeService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, charges, total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updateCharge
// @Summary      Update a charge
// @Tags         charges
// @Accept       json
// @Produce      json
// @Param        id path string true "Charge ID" format(uuid)
// @Param        request body financeapp.ChargeRequest true "Charge"
// @Success      200 {object} APIResponse[financeapp.ChargeResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /charges/{id} [put]
func (h *ChargeHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req financeapp.ChargeRequest
	if !h.bindJSON(c, &req) {
		return
	}

	charge, err := h.chargeService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, charge)
}

// Delete godoc
// @ID           deleteCharge
// @Summary      Delete a charge
// @Tags         charges
// @Param        id path string true "Charge ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /charges/{id} [delete]
func (h *ChargeHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.chargeService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// UploadReceipt godoc
// @ID           uploadChargeReceipt
// @Summary      Attach a receipt to a charge
// @Tags         charges
// @Accept       mpfd
// @Produce      json
// @Param        id path string true "Charge ID" format(uuid)
// @Param        file formData file true "Receipt image or PDF"
// @Success      200 {object} APIResponse[financeapp.ChargeResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      413 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /charges/{id}/receipt [post]
func (h *ChargeHandler) UploadReceipt(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	upload, ok := h.formFile(c, "file", true)
	if !ok {
		return
	}

	charge, err := h.chargeService.UploadReceipt(c.Request.Context(), tenantID, id, financeapp.ReceiptUpload{
		Filename:    upload.Filename,
		ContentType: upload.ContentType,
		Data:        upload.Data,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, charge)
}

// Export godoc
// @ID           exportCharges
// @Summary      Export charges as a spreadsheet
// @Tags         charges
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        from query string false "From date (YYYY-MM-DD)"
// @Param        to query string false "To date (YYYY-MM-DD), inclusive"
// @Success      200 {file} file
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /charges/export [get]
func (h *ChargeHandler) Export(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var filter ChargeExportFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	file, err := h.chargeService.Export(c.Request.Context(), tenantID, filter.From, filter.To)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.File(c, file.Filename, file.ContentType, file.Data)
}
