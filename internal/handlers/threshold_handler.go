package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cablestock-service/internal/models"
	"cablestock-service/internal/service"
)

type ThresholdHandler struct {
	thresholds service.ThresholdStore
}

func NewThresholdHandler(thresholds service.ThresholdStore) *ThresholdHandler {
	return &ThresholdHandler{thresholds: thresholds}
}

// SetColorThreshold upserts the minimum for a color
// PUT /api/v1/thresholds/colors
func (h *ThresholdHandler) SetColorThreshold(c *gin.Context) {
	var req models.SetColorThresholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("VALIDATION_ERROR", err.Error()))
		return
	}
	if req.MinQuantity < 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("VALIDATION_ERROR", "minQuantity must not be negative"))
		return
	}

	if err := h.thresholds.SetForColor(c.Request.Context(), req.Color, req.MinQuantity); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse(models.ColorThreshold{
		Color:       req.Color,
		MinQuantity: req.MinQuantity,
	}))
}

// SetCableThreshold upserts the minimum for a multi cable
// PUT /api/v1/thresholds/multi
func (h *ThresholdHandler) SetCableThreshold(c *gin.Context) {
	var req models.SetCableThresholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("VALIDATION_ERROR", err.Error()))
		return
	}
	if req.MinQuantity < 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("VALIDATION_ERROR", "minQuantity must not be negative"))
		return
	}

	if err := h.thresholds.SetForMulti(c.Request.Context(), req.MultiCableID, req.MinQuantity); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse(models.CableThreshold{
		MultiCableID: req.MultiCableID,
		MinQuantity:  req.MinQuantity,
	}))
}

// ListColorThresholds lists configured color minimums
// GET /api/v1/thresholds/colors
func (h *ThresholdHandler) ListColorThresholds(c *gin.Context) {
	thresholds, err := h.thresholds.ListColorThresholds(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse(thresholds))
}

// ListCableThresholds lists configured multi cable minimums
// GET /api/v1/thresholds/multi
func (h *ThresholdHandler) ListCableThresholds(c *gin.Context) {
	thresholds, err := h.thresholds.ListCableThresholds(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse(thresholds))
}
