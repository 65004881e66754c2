package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"cablestock-service/internal/middleware"
	"cablestock-service/internal/models"
	"cablestock-service/internal/service"
)

type ImportHandler struct {
	importer *service.ImportService
}

func NewImportHandler(importer *service.ImportService) *ImportHandler {
	return &ImportHandler{importer: importer}
}

// ImportMovements imports movements from an XLSX file. The dryRun form
// field defaults to true; callers must opt in to writing.
// POST /api/v1/movements/import
func (h *ImportHandler) ImportMovements(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse("MISSING_TOKEN", "Authentication required"))
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("FILE_REQUIRED", "Please upload an XLSX file"))
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".xlsx") {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("VALIDATION_ERROR", "Only XLSX files are supported"))
		return
	}

	dryRun := true
	if raw := c.DefaultPostForm("dryRun", "true"); raw != "" {
		if parsed, parseErr := strconv.ParseBool(raw); parseErr == nil {
			dryRun = parsed
		}
	}

	result, err := h.importer.ImportXLSX(c.Request.Context(), file, dryRun, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse(result))
}

// GetImportTemplate downloads the XLSX import template
// GET /api/v1/movements/import/template
func (h *ImportHandler) GetImportTemplate(c *gin.Context) {
	f, err := service.TemplateFile()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse("INTERNAL_ERROR", "Failed to build template"))
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=movements_import_template.xlsx")
	f.Write(c.Writer)
}
