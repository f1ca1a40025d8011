package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/muz4miL/genius-academia-sub002/internal/apperrors"
	portssvc "github.com/muz4miL/genius-academia-sub002/internal/core/ports/services"
	"github.com/muz4miL/genius-academia-sub002/internal/dto"
	"github.com/muz4miL/genius-academia-sub002/internal/middleware"
)

// stakeholderHandler handles HTTP requests related to stakeholder accounts.
type stakeholderHandler struct {
	stakeholderService portssvc.StakeholderSvcFacade
	ledgerService      portssvc.LedgerSvcFacade
}

// newStakeholderHandler creates a new stakeholderHandler.
func newStakeholderHandler(ss portssvc.StakeholderSvcFacade, ls portssvc.LedgerSvcFacade) *stakeholderHandler {
	return &stakeholderHandler{
		stakeholderService: ss,
		ledgerService:      ls,
	}
}

// registerStakeholderRoutes registers routes related to stakeholders.
func registerStakeholderRoutes(rg *gin.RouterGroup, stakeholderService portssvc.StakeholderSvcFacade, ledgerService portssvc.LedgerSvcFacade) {
	h := newStakeholderHandler(stakeholderService, ledgerService)

	stakeholders := rg.Group("/stakeholders")
	{
		stakeholders.POST("", h.createStakeholder)
		stakeholders.GET("", h.listStakeholders)
		stakeholders.GET("/:id", h.getStakeholder)
		stakeholders.DELETE("/:id", h.deactivateStakeholder)
		stakeholders.GET("/:id/entries", h.listLedgerEntries)
	}
}

// createStakeholder godoc
// @Summary Create a new stakeholder
// @Description Onboards a stakeholder account with all balance buckets at zero
// @Tags stakeholders
// @Accept  json
// @Produce  json
// @Param   stakeholder body dto.CreateStakeholderRequest true "Stakeholder details"
// @Success 201 {object} dto.StakeholderResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create stakeholder"
// @Security BearerAuth
// @Router /stakeholders [post]
func (h *stakeholderHandler) createStakeholder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateStakeholderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateStakeholder", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("creator_user_id", creatorUserID))
	logger.Info("Received request to create stakeholder", slog.String("name", req.Name), slog.String("role", string(req.Role)))

	stakeholder, err := h.stakeholderService.CreateStakeholder(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating stakeholder", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Duplicate stakeholder", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create stakeholder in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create stakeholder"})
		}
		return
	}

	logger.Info("Stakeholder created successfully", slog.String("stakeholder_id", stakeholder.StakeholderID))
	c.JSON(http.StatusCreated, dto.ToStakeholderResponse(stakeholder))
}

// getStakeholder godoc
// @Summary Get a stakeholder by ID
// @Description Retrieves a stakeholder account with its current balance buckets
// @Tags stakeholders
// @Produce  json
// @Param   id path string true "Stakeholder ID"
// @Success 200 {object} dto.StakeholderResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Stakeholder not found"
// @Failure 500 {object} map[string]string "Failed to retrieve stakeholder"
// @Security BearerAuth
// @Router /stakeholders/{id} [get]
func (h *stakeholderHandler) getStakeholder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	stakeholderID := c.Param("id")

	logger = logger.With(slog.String("stakeholder_id", stakeholderID))
	logger.Info("Received request to get stakeholder")

	stakeholder, err := h.stakeholderService.GetStakeholderByID(c.Request.Context(), stakeholderID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Stakeholder not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Stakeholder not found"})
		} else {
			logger.Error("Failed to get stakeholder from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve stakeholder"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToStakeholderResponse(stakeholder))
}

// listStakeholders godoc
// @Summary List stakeholders
// @Description Retrieves a page of stakeholder accounts
// @Tags stakeholders
// @Produce  json
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {object} dto.ListStakeholdersResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list stakeholders"
// @Security BearerAuth
// @Router /stakeholders [get]
func (h *stakeholderHandler) listStakeholders(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	limit, offset := parsePagination(c)

	stakeholders, err := h.stakeholderService.ListStakeholders(c.Request.Context(), limit, offset)
	if err != nil {
		logger.Error("Failed to list stakeholders from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list stakeholders"})
		return
	}

	resp := dto.ListStakeholdersResponse{Stakeholders: make([]dto.StakeholderResponse, 0, len(stakeholders))}
	for i := range stakeholders {
		resp.Stakeholders = append(resp.Stakeholders, dto.ToStakeholderResponse(&stakeholders[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// deactivateStakeholder godoc
// @Summary Deactivate a stakeholder
// @Description Marks a stakeholder inactive; balances and history are retained
// @Tags stakeholders
// @Produce  json
// @Param   id path string true "Stakeholder ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Stakeholder not found"
// @Failure 500 {object} map[string]string "Failed to deactivate stakeholder"
// @Security BearerAuth
// @Router /stakeholders/{id} [delete]
func (h *stakeholderHandler) deactivateStakeholder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	stakeholderID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("stakeholder_id", stakeholderID))
	logger.Info("Received request to deactivate stakeholder")

	if err := h.stakeholderService.DeactivateStakeholder(c.Request.Context(), stakeholderID, userID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Stakeholder not found for deactivation")
			c.JSON(http.StatusNotFound, gin.H{"error": "Stakeholder not found"})
		} else {
			logger.Error("Failed to deactivate stakeholder in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate stakeholder"})
		}
		return
	}

	logger.Info("Stakeholder deactivated successfully")
	c.Status(http.StatusNoContent)
}

// listLedgerEntries godoc
// @Summary List a stakeholder's ledger entries
// @Description Retrieves the stakeholder's ledger history newest first, keyset paginated
// @Tags stakeholders
// @Produce  json
// @Param   id path string true "Stakeholder ID"
// @Param   limit query int false "Limit number of results" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 400 {object} map[string]string "Invalid pagination token"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list ledger entries"
// @Security BearerAuth
// @Router /stakeholders/{id}/entries [get]
func (h *stakeholderHandler) listLedgerEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	stakeholderID := c.Param("id")

	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListLedgerEntries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.ledgerService.ListEntriesByStakeholder(c.Request.Context(), stakeholderID, params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Invalid pagination token", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to list ledger entries from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list ledger entries"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// parsePagination reads limit/offset query params with the listing defaults.
func parsePagination(c *gin.Context) (int, int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 20
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}
