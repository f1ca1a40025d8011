package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/muz4miL/genius-academia-sub002/internal/apperrors"
	portssvc "github.com/muz4miL/genius-academia-sub002/internal/core/ports/services"
	"github.com/muz4miL/genius-academia-sub002/internal/dto"
	"github.com/muz4miL/genius-academia-sub002/internal/middleware"
)

// settlementHandler handles HTTP requests related to partner settlements.
type settlementHandler struct {
	settlementService portssvc.SettlementSvcFacade
}

// newSettlementHandler creates a new settlementHandler.
func newSettlementHandler(ss portssvc.SettlementSvcFacade) *settlementHandler {
	return &settlementHandler{settlementService: ss}
}

// registerSettlementRoutes registers routes related to settlements.
func registerSettlementRoutes(rg *gin.RouterGroup, settlementService portssvc.SettlementSvcFacade) {
	h := newSettlementHandler(settlementService)

	settlements := rg.Group("/settlements")
	{
		settlements.POST("", h.recordSettlement)
		settlements.GET("", h.listSettlementsByPartner)
		settlements.GET("/:id", h.getSettlement)
	}
}

// recordSettlement godoc
// @Summary Record a partner settlement
// @Description Records a partner repayment, reduces the tracked debt, and clears unpaid expense shares
// @Tags settlements
// @Accept  json
// @Produce  json
// @Param   settlement body dto.RecordSettlementRequest true "Settlement details"
// @Success 201 {object} dto.SettlementResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Partner not found"
// @Failure 409 {object} map[string]string "A named share was settled concurrently"
// @Failure 500 {object} map[string]string "Failed to record settlement"
// @Security BearerAuth
// @Router /settlements [post]
func (h *settlementHandler) recordSettlement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecordSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordSettlement", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Actor user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("partner_id", req.PartnerID), slog.Int64("amount", req.Amount))
	logger.Info("Received request to record settlement")

	result, err := h.settlementService.RecordSettlement(c.Request.Context(), req, actorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error recording settlement", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Partner not found for settlement", slog.String("error", err.Error()))
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrInvalidState), errors.Is(err, apperrors.ErrConflict):
			logger.Warn("Settlement share conflict", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to record settlement in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record settlement"})
		}
		return
	}

	logger.Info("Settlement recorded successfully", slog.String("settlement_id", result.SettlementID))
	c.JSON(http.StatusCreated, result)
}

// getSettlement godoc
// @Summary Get a settlement by ID
// @Description Retrieves a stored settlement record
// @Tags settlements
// @Produce  json
// @Param   id path string true "Settlement ID"
// @Success 200 {object} dto.SettlementRecordResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Settlement not found"
// @Failure 500 {object} map[string]string "Failed to retrieve settlement"
// @Security BearerAuth
// @Router /settlements/{id} [get]
func (h *settlementHandler) getSettlement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	settlementID := c.Param("id")

	logger = logger.With(slog.String("settlement_id", settlementID))

	settlement, err := h.settlementService.GetSettlementByID(c.Request.Context(), settlementID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Settlement not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Settlement not found"})
		} else {
			logger.Error("Failed to get settlement from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve settlement"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToSettlementRecordResponse(settlement))
}

// listSettlementsByPartner godoc
// @Summary List a partner's settlements
// @Description Retrieves a partner's settlement records newest first
// @Tags settlements
// @Produce  json
// @Param   partnerID query string true "Partner ID"
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {array} dto.SettlementRecordResponse
// @Failure 400 {object} map[string]string "Missing partnerID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list settlements"
// @Security BearerAuth
// @Router /settlements [get]
func (h *settlementHandler) listSettlementsByPartner(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	partnerID := c.Query("partnerID")
	if partnerID == "" {
		logger.Warn("Missing partnerID query parameter for ListSettlements")
		c.JSON(http.StatusBadRequest, gin.H{"error": "partnerID query parameter is required"})
		return
	}
	limit, offset := parsePagination(c)

	settlements, err := h.settlementService.ListSettlementsByPartner(c.Request.Context(), partnerID, limit, offset)
	if err != nil {
		logger.Error("Failed to list settlements from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list settlements"})
		return
	}

	resp := make([]dto.SettlementRecordResponse, 0, len(settlements))
	for i := range settlements {
		resp = append(resp, dto.ToSettlementRecordResponse(&settlements[i]))
	}
	c.JSON(http.StatusOK, resp)
}
