package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/muz4miL/genius-academia-sub002/internal/apperrors"
	"github.com/muz4miL/genius-academia-sub002/internal/core/domain"
	portssvc "github.com/muz4miL/genius-academia-sub002/internal/core/ports/services"
	"github.com/muz4miL/genius-academia-sub002/internal/dto"
	"github.com/muz4miL/genius-academia-sub002/internal/middleware"
)

// ledgerHandler handles HTTP requests for the atomic ledger primitives.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// newLedgerHandler creates a new ledgerHandler.
func newLedgerHandler(ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls}
}

// registerLedgerRoutes registers routes for manual ledger operations.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	ledger := rg.Group("/ledger")
	{
		ledger.POST("/credits", h.credit)
		ledger.POST("/debits", h.debit)
		ledger.POST("/transfers", h.transferBucket)
	}
}

func toLedgerOp(req dto.LedgerOpRequest) portssvc.LedgerOp {
	return portssvc.LedgerOp{
		StakeholderID: req.StakeholderID,
		Bucket:        domain.BalanceBucket(req.Bucket),
		Amount:        req.Amount,
		Kind:          domain.EntryKind(req.Kind),
		Status:        domain.EntryStatus(req.Status),
		Stream:        domain.RevenueStream(req.Stream),
		SourceType:    domain.SourceType(req.SourceType),
		SourceID:      req.SourceID,
		Notes:         req.Notes,
	}
}

// credit godoc
// @Summary Credit a balance bucket
// @Description Increases one bucket and appends the matching ledger entry atomically
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   operation body dto.LedgerOpRequest true "Credit details"
// @Success 201 {object} dto.LedgerEntryResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Stakeholder not found"
// @Failure 500 {object} map[string]string "Failed to apply credit"
// @Security BearerAuth
// @Router /ledger/credits [post]
func (h *ledgerHandler) credit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.LedgerOpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Credit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Actor user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("stakeholder_id", req.StakeholderID), slog.Int64("amount", req.Amount))
	logger.Info("Received request to credit bucket", slog.String("bucket", req.Bucket))

	entry, err := h.ledgerService.Credit(c.Request.Context(), toLedgerOp(req), actorID)
	if err != nil {
		h.writeLedgerError(c, logger, err, "Failed to apply credit")
		return
	}

	logger.Info("Credit applied successfully", slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusCreated, dto.ToLedgerEntryResponse(*entry))
}

// debit godoc
// @Summary Debit a balance bucket
// @Description Decreases one bucket and appends the matching ledger entry atomically; fails if the bucket would go negative
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   operation body dto.LedgerOpRequest true "Debit details"
// @Success 201 {object} dto.LedgerEntryResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Stakeholder not found"
// @Failure 422 {object} map[string]string "Insufficient balance"
// @Failure 500 {object} map[string]string "Failed to apply debit"
// @Security BearerAuth
// @Router /ledger/debits [post]
func (h *ledgerHandler) debit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.LedgerOpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Debit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Actor user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("stakeholder_id", req.StakeholderID), slog.Int64("amount", req.Amount))
	logger.Info("Received request to debit bucket", slog.String("bucket", req.Bucket))

	entry, err := h.ledgerService.Debit(c.Request.Context(), toLedgerOp(req), actorID)
	if err != nil {
		h.writeLedgerError(c, logger, err, "Failed to apply debit")
		return
	}

	logger.Info("Debit applied successfully", slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusCreated, dto.ToLedgerEntryResponse(*entry))
}

// transferBucket godoc
// @Summary Transfer between buckets
// @Description Moves an amount between two buckets of one stakeholder in a single transaction, e.g. the day-close FLOATING to VERIFIED move
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   transfer body dto.TransferBucketRequest true "Transfer details"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Stakeholder not found"
// @Failure 422 {object} map[string]string "Insufficient balance in source bucket"
// @Failure 500 {object} map[string]string "Failed to transfer"
// @Security BearerAuth
// @Router /ledger/transfers [post]
func (h *ledgerHandler) transferBucket(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.TransferBucketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for TransferBucket", slog.String("error", err.Error()))
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
		slog.String("from_bucket", req.FromBucket),
		slog.String("to_bucket", req.ToBucket),
		slog.Int64("amount", req.Amount),
	)
	logger.Info("Received request to transfer between buckets")

	err := h.ledgerService.TransferBucket(
		c.Request.Context(),
		req.StakeholderID,
		domain.BalanceBucket(req.FromBucket),
		domain.BalanceBucket(req.ToBucket),
		req.Amount,
		actorID,
	)
	if err != nil {
		h.writeLedgerError(c, logger, err, "Failed to transfer")
		return
	}

	logger.Info("Transfer applied successfully")
	c.Status(http.StatusNoContent)
}

// writeLedgerError maps service errors from ledger operations to HTTP responses.
func (h *ledgerHandler) writeLedgerError(c *gin.Context, logger *slog.Logger, err error, internalMsg string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error on ledger operation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Stakeholder not found for ledger operation", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInsufficientBalance):
		logger.Warn("Insufficient balance for ledger operation", slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		logger.Error(internalMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": internalMsg})
	}
}
