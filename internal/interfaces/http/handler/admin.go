package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	identityapp "github.com/tunerp/backend/internal/application/identity"
)

// AdminHandler exposes platform administration to the system administrator
type AdminHandler struct {
	BaseHandler
	companyService *identityapp.CompanyService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(companyService *identityapp.CompanyService) *AdminHandler {
	return &AdminHandler{companyService: companyService}
}

// CreateCompany godoc
// @ID           adminCreateCompany
// @Summary      Create a company with its administrator
// @Description  The administrator receives a temporary password returned once in the response
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request body identityapp.CreateCompanyRequest true "Company and admin user"
// @Success      201 {object} APIResponse[identityapp.CompanyCreatedResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/companies [post]
func (h *AdminHandler) CreateCompany(c *gin.Context) {
	var req identityapp.CreateCompanyRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.companyService.CreateWithAdmin(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListCompanies godoc
// @ID           adminListCompanies
// @Summary      List companies
// @Tags         admin
// @Produce      json
// @Param        search query string false "Search on name, email, matricule fiscal"
// @Param        is_active query boolean false "Active filter"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]identityapp.CompanyResponse]
// @Security     BearerAuth
// @Router       /admin/companies [get]
func (h *AdminHandler) ListCompanies(c *gin.Context) {
	var filter identityapp.CompanyListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	pageDefaults(&filter.Page, &filter.PageSize)

	companies, total, err := h.companyService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, companies, total, filter.Page, filter.PageSize)
}

// GetCompany godoc
// @ID           adminGetCompany
// @Summary      Company detail with its users
// @Tags         admin
// @Produce      json
// @Param        id path string true "Company ID" format(uuid)
// @Success      200 {object} APIResponse[identityapp.CompanyDetailResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/companies/{id} [get]
func (h *AdminHandler) GetCompany(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	detail, err := h.companyService.Detail(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, detail)
}

// Suspend godoc
// @ID           adminSuspendCompany
// @Summary      Suspend a company
// @Description  Its users can no longer log in and their sessions are revoked
// @Tags         admin
// @Produce      json
// @Param        id path string true "Company ID" format(uuid)
// @Success      200 {object} APIResponse[identityapp.CompanyResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/companies/{id}/suspend [post]
func (h *AdminHandler) Suspend(c *gin.Context) {
	h.companyAction(c, h.companyService.Suspend)
}

// Reactivate godoc
// @ID           adminReactivateCompany
// @Summary      Reactivate a company
// @Tags         admin
// @Produce      json
// @Param        id path string true "Company ID" format(uuid)
// @Success      200 {object} APIResponse[identityapp.CompanyResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/companies/{id}/reactivate [post]
func (h *AdminHandler) Reactivate(c *gin.Context) {
	h.companyAction(c, h.companyService.Reactivate)
}

// ResetOCR godoc
// @ID           adminResetOCR
// @Summary      Reset the OCR quota
// @Description  Restores the monthly OCR attempts to the company limit
// @Tags         admin
// @Produce      json
// @Param        id path string true "Company ID" format(uuid)
// @Success      200 {object} APIResponse[identityapp.CompanyResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/companies/{id}/ocr/reset [post]
func (h *AdminHandler) ResetOCR(c *gin.Context) {
	h.companyAction(c, h.companyService.ResetOCR)
}

// SetOCRLimit godoc
// @ID           adminSetOCRLimit
// @Summary      Set the monthly OCR limit
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id path string true "Company ID" format(uuid)
// @Param        request body identityapp.OCRLimitRequest true "Monthly limit"
// @Success      200 {object} APIResponse[identityapp.CompanyResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/companies/{id}/ocr/limit [put]
func (h *AdminHandler) SetOCRLimit(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req identityapp.OCRLimitRequest
	if !h.bindJSON(c, &req) {
		return
	}

	company, err := h.companyService.SetOCRLimit(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, company)
}

// ToggleUser godoc
// @ID           adminToggleUser
// @Summary      Activate or deactivate a user
// @Tags         admin
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} APIResponse[identityapp.UserResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/users/{id}/toggle [post]
func (h *AdminHandler) ToggleUser(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	user, err := h.companyService.ToggleUser(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// ResetUserPassword godoc
// @ID           adminResetUserPassword
// @Summary      Reset any user's password
// @Tags         admin
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} APIResponse[identityapp.TempPasswordResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/users/{id}/reset-password [post]
func (h *AdminHandler) ResetUserPassword(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	resp, err := h.companyService.ResetUserPassword(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *AdminHandler) companyAction(c *gin.Context, action func(context.Context, uuid.UUID) (*identityapp.CompanyResponse, error)) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	company, err := action(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, company)
}
