package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"cablestock-service/internal/config"
	"cablestock-service/internal/models"
	"cablestock-service/internal/repository"
	"cablestock-service/internal/service"
)

type AlertHandler struct {
	alerts *service.AlertService
	cfg    *config.Config
}

func NewAlertHandler(alerts *service.AlertService, cfg *config.Config) *AlertHandler {
	return &AlertHandler{alerts: alerts, cfg: cfg}
}

// ListAlerts lists alerts with optional filters
// GET /api/v1/alerts
func (h *AlertHandler) ListAlerts(c *gin.Context) {
	page, pageSize := pagination(c, h.cfg)
	filter := &repository.AlertFilter{Page: page, PageSize: pageSize}

	if v := c.Query("isActive"); v != "" {
		if active, err := strconv.ParseBool(v); err == nil {
			filter.IsActive = &active
		}
	}
	if v := c.Query("alertType"); v != "" {
		kind := models.AlertKind(v)
		filter.AlertType = &kind
	}
	if v := c.Query("color"); v != "" {
		filter.Color = &v
	}
	if v := c.Query("multiCableId"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			filter.MultiCableID = &id
		}
	}
	filter.From = queryTime(c, "from")
	filter.To = queryTime(c, "to")

	alerts, total, err := h.alerts.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponseWithMeta(alerts, paginationMeta(page, pageSize, total)))
}

// GetAlert returns one alert
// GET /api/v1/alerts/:id
func (h *AlertHandler) GetAlert(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("VALIDATION_ERROR", "Invalid alert ID"))
		return
	}

	alert, err := h.alerts.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse(alert))
}

// ResolveAlert closes an alert with an optional note
// PATCH /api/v1/alerts/:id/resolve
func (h *AlertHandler) ResolveAlert(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("VALIDATION_ERROR", "Invalid alert ID"))
		return
	}

	var req models.CloseAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("VALIDATION_ERROR", err.Error()))
		return
	}

	alert, err := h.alerts.Resolve(c.Request.Context(), id, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse(alert))
}

// ReactivateAlert re-opens a closed alert with an optional reason
// PATCH /api/v1/alerts/:id/reactivate
func (h *AlertHandler) ReactivateAlert(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("VALIDATION_ERROR", "Invalid alert ID"))
		return
	}

	var req models.ReactivateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("VALIDATION_ERROR", err.Error()))
		return
	}

	alert, err := h.alerts.Reactivate(c.Request.Context(), id, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse(alert))
}

// HasActiveForColor reports whether a color alert is open
// GET /api/v1/alerts/active/colors/:color
func (h *AlertHandler) HasActiveForColor(c *gin.Context) {
	color := c.Param("color")

	active, err := h.alerts.HasActiveForColor(c.Request.Context(), color)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse(gin.H{
		"color":     color,
		"hasActive": active,
	}))
}

// HasActiveForMulti reports whether a multi-cable alert is open
// GET /api/v1/alerts/active/multi/:id
func (h *AlertHandler) HasActiveForMulti(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("VALIDATION_ERROR", "Invalid multi cable ID"))
		return
	}

	active, err := h.alerts.HasActiveForMulti(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse(gin.H{
		"multiCableId": id,
		"hasActive":    active,
	}))
}

// NotifyAdmins re-sends the notification mail for an alert
// POST /api/v1/alerts/:id/notify
func (h *AlertHandler) NotifyAdmins(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("VALIDATION_ERROR", "Invalid alert ID"))
		return
	}

	sent, err := h.alerts.NotifyAdminsForAlert(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse(gin.H{
		"sent": sent,
	}))
}

// NotifyLowStock sends an ad-hoc low stock mail for a color
// POST /api/v1/alerts/notify-low-stock
func (h *AlertHandler) NotifyLowStock(c *gin.Context) {
	var req models.LowStockNotifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("VALIDATION_ERROR", err.Error()))
		return
	}

	sent, err := h.alerts.NotifyAdminsForLowStock(c.Request.Context(), req.Color, req.Qty)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse(gin.H{
		"sent": sent,
	}))
}
