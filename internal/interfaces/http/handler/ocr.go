package handler

import (
	"encoding/base64"
	"strings"

	"github.com/gin-gonic/gin"
	ocrapp "github.com/tunerp/backend/internal/application/ocr"
)

// OCRHandler handles receipt recognition
type OCRHandler struct {
	BaseHandler
	ocrService *ocrapp.Service
}

// NewOCRHandler creates a new OCRHandler
func NewOCRHandler(ocrService *ocrapp.Service) *OCRHandler {
	return &OCRHandler{ocrService: ocrService}
}

// Analyze godoc
// @ID           analyzeReceipt
// @Summary      Read a receipt and suggest a charge
// @Description  Consumes one monthly attempt. Accepts JSON (base64 image or URL) or a multipart "file".
// @Tags         ocr
// @Accept       json,mpfd
// @Produce      json
// @Param        request body ocrapp.AnalyzeRequest false "Image (JSON body)"
// @Param        file formData file false "Receipt image (multipart)"
// @Success      200 {object} APIResponse[ocrapp.AnalyzeResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /ocr/analyze [post]
func (h *OCRHandler) Analyze(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var req ocrapp.AnalyzeRequest
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		upload, ok := h.formFile(c, "file", true)
		if !ok {
			return
		}
		req.Image = base64.StdEncoding.EncodeToString(upload.Data)
		req.MimeType = upload.ContentType
	} else if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.ocrService.Analyze(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Status godoc
// @ID           getOCRStatus
// @Summary      Monthly OCR quota of the company
// @Tags         ocr
// @Produce      json
// @Success      200 {object} APIResponse[ocrapp.StatusResponse]
// @Security     BearerAuth
// @Router       /ocr/status [get]
func (h *OCRHandler) Status(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	status, err := h.ocrService.Status(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, status)
}
