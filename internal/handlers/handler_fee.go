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

// feeHandler handles HTTP requests for fee-collection events.
type feeHandler struct {
	feeService portssvc.FeeSvcFacade
}

// newFeeHandler creates a new feeHandler.
func newFeeHandler(fs portssvc.FeeSvcFacade) *feeHandler {
	return &feeHandler{feeService: fs}
}

// registerFeeRoutes registers routes related to fee collection.
func registerFeeRoutes(rg *gin.RouterGroup, feeService portssvc.FeeSvcFacade) {
	h := newFeeHandler(feeService)

	fees := rg.Group("/fees")
	{
		fees.POST("", h.recordFeeCollection)
	}
}

// recordFeeCollection godoc
// @Summary Record a fee collection
// @Description Splits a collected fee between the instructor and the pool per the active policy, then distributes pool dividends best effort
// @Tags fees
// @Accept  json
// @Produce  json
// @Param   fee body dto.RecordFeeRequest true "Fee collection details"
// @Success 201 {object} dto.FeeCollectionResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Stakeholder or active policy not found"
// @Failure 500 {object} map[string]string "Failed to record fee collection"
// @Security BearerAuth
// @Router /fees [post]
func (h *feeHandler) recordFeeCollection(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecordFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordFeeCollection", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Actor user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(
		slog.String("stakeholder_id", req.StakeholderID),
		slog.Int64("amount", req.Amount),
		slog.String("session_category", string(req.SessionCategory)),
	)
	logger.Info("Received request to record fee collection", slog.String("subject", req.Subject))

	result, err := h.feeService.RecordFeeCollection(c.Request.Context(), req, actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error recording fee collection", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Dependency not found recording fee collection", slog.String("error", err.Error()))
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to record fee collection in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record fee collection"})
		}
		return
	}

	logger.Info("Fee collection recorded successfully", slog.String("fee_id", result.FeeID))
	c.JSON(http.StatusCreated, result)
}
