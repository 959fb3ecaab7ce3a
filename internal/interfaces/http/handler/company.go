package handler

import (
	"github.com/gin-gonic/gin"
	identityapp "github.com/tunerp/backend/internal/application/identity"
)

// CompanyHandler serves the company of the authenticated user
type CompanyHandler struct {
	BaseHandler
	companyService *identityapp.CompanyService
}

// NewCompanyHandler creates a new CompanyHandler
func NewCompanyHandler(companyService *identityapp.CompanyService) *CompanyHandler {
	return &CompanyHandler{companyService: companyService}
}

// Get godoc
// @ID           getCompany
// @Summary      Get own company
// @Tags         company
// @Produce      json
// @Success      200 {object} APIResponse[identityapp.CompanyResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /company [get]
func (h *CompanyHandler) Get(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	company, err := h.companyService.Get(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, company)
}

// Update godoc
// @ID           updateCompany
// @Summary      Update own company
// @Description  Update the company profile (fiscal identifiers, contact, branding). Admin only.
// @Tags         company
// @Accept       json
// @Produce      json
// @Param        request body identityapp.CompanyRequest true "Company profile"
// @Success      200 {object} APIResponse[identityapp.CompanyResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /company [put]
func (h *CompanyHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var req identityapp.CompanyRequest
	if !h.bindJSON(c, &req) {
		return
	}

	company, err := h.companyService.Update(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, company)
}

// UploadLogo godoc
// @ID           uploadCompanyLogo
// @Summary      Upload company logo
// @Tags         company
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "Logo image (png, jpeg, webp, svg)"
// @Success      200 {object} APIResponse[identityapp.CompanyResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      413 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /company/logo [post]
func (h *CompanyHandler) UploadLogo(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	file, ok := h.formFile(c, "file", true)
	if !ok {
		return
	}

	company, err := h.companyService.UploadLogo(c.Request.Context(), tenantID, identityapp.LogoUpload{
		Filename:    file.Filename,
		ContentType: file.ContentType,
		Data:        file.Data,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, company)
}
