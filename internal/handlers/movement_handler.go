package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"cablestock-service/internal/config"
	"cablestock-service/internal/middleware"
	"cablestock-service/internal/models"
	"cablestock-service/internal/service"
)

type MovementHandler struct {
	movements *service.MovementService
	cfg       *config.Config
}

func NewMovementHandler(movements *service.MovementService, cfg *config.Config) *MovementHandler {
	return &MovementHandler{movements: movements, cfg: cfg}
}

// CreateMovement records a stock movement
// POST /api/v1/movements
func (h *MovementHandler) CreateMovement(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse("MISSING_TOKEN", "Authentication required"))
		return
	}

	var req models.CreateMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("VALIDATION_ERROR", err.Error()))
		return
	}

	movement, evaluation, err := h.movements.Record(c.Request.Context(), &req, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.SuccessResponse(gin.H{
		"movement":   movement,
		"evaluation": evaluation,
	}))
}

// GetHistory lists ledger rows with optional filters
// GET /api/v1/movements
func (h *MovementHandler) GetHistory(c *gin.Context) {
	page, pageSize := pagination(c, h.cfg)
	filter := &models.MovementFilter{Page: page, PageSize: pageSize}

	if v := c.Query("tableName"); v != "" {
		kind := models.TargetKind(v)
		filter.TableName = &kind
	}
	if v := c.Query("movementType"); v != "" {
		mt := models.MovementType(v)
		filter.MovementType = &mt
	}
	if v := c.Query("cableId"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			filter.CableID = &id
		}
	}
	if v := c.Query("color"); v != "" {
		filter.Color = &v
	}
	filter.From = queryTime(c, "from")
	filter.To = queryTime(c, "to")

	movements, total, err := h.movements.History(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponseWithMeta(movements, paginationMeta(page, pageSize, total)))
}

// GetColorStock returns the active unit count for a color
// GET /api/v1/stock/colors/:color
func (h *MovementHandler) GetColorStock(c *gin.Context) {
	color := c.Param("color")

	count, err := h.movements.CurrentColorStock(c.Request.Context(), color)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse(gin.H{
		"color":    color,
		"quantity": count,
	}))
}

// GetMultiStock returns the aggregate quantity of a multi cable
// GET /api/v1/stock/multi/:id
func (h *MovementHandler) GetMultiStock(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("VALIDATION_ERROR", "Invalid multi cable ID"))
		return
	}

	qty, err := h.movements.CurrentMultiStock(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse(gin.H{
		"multiCableId": id,
		"quantity":     qty,
	}))
}

// CreateMultiCable registers a new multi cable type
// POST /api/v1/multi-cables
func (h *MovementHandler) CreateMultiCable(c *gin.Context) {
	var req models.CreateMultiCableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("VALIDATION_ERROR", err.Error()))
		return
	}

	multi, err := h.movements.CreateMultiCable(c.Request.Context(), req.CableName)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.SuccessResponse(multi))
}

// ListMultiCables lists active multi cable types
// GET /api/v1/multi-cables
func (h *MovementHandler) ListMultiCables(c *gin.Context) {
	cables, err := h.movements.ListMultiCables(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse(cables))
}

// StockSummary returns the combined stock report
// GET /api/v1/reports/stock-summary
func (h *MovementHandler) StockSummary(c *gin.Context) {
	summary, err := h.movements.StockSummary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse(summary))
}
