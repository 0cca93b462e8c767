package handler

import (
	"errors"
	"net/http"

	"pdftools-backend/internal/apperr"
	"pdftools-backend/internal/model"
	"pdftools-backend/internal/service"
	"pdftools-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

type PDFHandler struct {
	pdfService *service.PDFService
}

func NewPDFHandler(pdfService *service.PDFService) *PDFHandler {
	return &PDFHandler{
		pdfService: pdfService,
	}
}

func (h *PDFHandler) NPages(c *gin.Context) {
	reader, err := c.Request.MultipartReader()
	if err != nil {
		renderError(c, apperr.BadRequestf("Error parsing multipart/form-data request"))
		return
	}

	pages, err := h.pdfService.CountPages(c.Request.Context(), reader)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.NPagesResponse{Pages: pages})
}

func (h *PDFHandler) Merge(c *gin.Context) {
	reader, err := c.Request.MultipartReader()
	if err != nil {
		renderError(c, apperr.BadRequestf("Error parsing multipart/form-data request"))
		return
	}

	data, err := h.pdfService.Merge(c.Request.Context(), reader)
	if err != nil {
		renderError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="merged.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

// renderError 统一错误出口：客户端错误带具体原因，内部错误只进日志
func renderError(c *gin.Context, err error) {
	var br *apperr.BadRequest
	switch {
	case errors.Is(err, apperr.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	case errors.As(err, &br):
		c.JSON(http.StatusBadRequest, gin.H{"error": br.Msg})
	default:
		logger.Errorf("request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
	}
}
