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

// payoutHandler handles HTTP requests for the payout request workflow.
type payoutHandler struct {
	payoutService portssvc.PayoutSvcFacade
}

// newPayoutHandler creates a new payoutHandler.
func newPayoutHandler(ps portssvc.PayoutSvcFacade) *payoutHandler {
	return &payoutHandler{payoutService: ps}
}

// registerPayoutRoutes registers routes related to payout requests.
func registerPayoutRoutes(rg *gin.RouterGroup, payoutService portssvc.PayoutSvcFacade) {
	h := newPayoutHandler(payoutService)

	payouts := rg.Group("/payouts")
	{
		payouts.POST("", h.requestPayout)
		payouts.GET("", h.listPayouts)
		payouts.GET("/:id", h.getPayout)
		payouts.POST("/:id/approve", h.approvePayout)
		payouts.POST("/:id/reject", h.rejectPayout)
	}
}

// requestPayout godoc
// @Summary Request a payout
// @Description Opens a PENDING payout request against the stakeholder's verified balance; one pending request per stakeholder
// @Tags payouts
// @Accept  json
// @Produce  json
// @Param   payout body dto.RequestPayoutRequest true "Payout request details"
// @Success 201 {object} dto.PayoutRequestResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Stakeholder not found"
// @Failure 409 {object} map[string]string "A pending payout request already exists"
// @Failure 422 {object} map[string]string "Amount exceeds verified balance"
// @Failure 500 {object} map[string]string "Failed to request payout"
// @Security BearerAuth
// @Router /payouts [post]
func (h *payoutHandler) requestPayout(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RequestPayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RequestPayout", slog.String("error", err.Error()))
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
	logger.Info("Received request to open payout request")

	request, err := h.payoutService.RequestPayout(c.Request.Context(), req, actorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error requesting payout", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Stakeholder not found for payout request", slog.String("error", err.Error()))
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrDuplicatePending):
			logger.Warn("Pending payout request already exists", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrInsufficientBalance):
			logger.Warn("Payout amount exceeds verified balance", slog.String("error", err.Error()))
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to request payout in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to request payout"})
		}
		return
	}

	logger.Info("Payout request opened successfully", slog.String("request_id", request.RequestID))
	c.JSON(http.StatusCreated, dto.ToPayoutRequestResponse(request))
}

// approvePayout godoc
// @Summary Approve a payout request
// @Description Approves a PENDING request, moves the amount from VERIFIED to PAID_OUT, and books the disbursement as an organization expense
// @Tags payouts
// @Accept  json
// @Produce  json
// @Param   id path string true "Payout request ID"
// @Param   approval body dto.ApprovePayoutRequest false "Optional approver notes"
// @Success 200 {object} dto.PayoutRequestResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Payout request not found"
// @Failure 409 {object} map[string]string "Request is no longer pending"
// @Failure 422 {object} map[string]string "Verified balance dropped below the requested amount"
// @Failure 500 {object} map[string]string "Failed to approve payout"
// @Security BearerAuth
// @Router /payouts/{id}/approve [post]
func (h *payoutHandler) approvePayout(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	requestID := c.Param("id")

	// Body is optional; only notes may be supplied.
	var req dto.ApprovePayoutRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind JSON for ApprovePayout", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}
	}

	approverID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Approver user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("request_id", requestID), slog.String("approver_id", approverID))
	logger.Info("Received request to approve payout")

	request, err := h.payoutService.ApprovePayout(c.Request.Context(), requestID, req.Notes, approverID)
	if err != nil {
		h.writeResolveError(c, logger, err, "Failed to approve payout")
		return
	}

	logger.Info("Payout approved successfully")
	c.JSON(http.StatusOK, dto.ToPayoutRequestResponse(request))
}

// rejectPayout godoc
// @Summary Reject a payout request
// @Description Rejects a PENDING request with a mandatory reason; no balances change
// @Tags payouts
// @Accept  json
// @Produce  json
// @Param   id path string true "Payout request ID"
// @Param   rejection body dto.RejectPayoutRequest true "Rejection reason"
// @Success 200 {object} dto.PayoutRequestResponse
// @Failure 400 {object} map[string]string "Missing rejection reason"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Payout request not found"
// @Failure 409 {object} map[string]string "Request is no longer pending"
// @Failure 500 {object} map[string]string "Failed to reject payout"
// @Security BearerAuth
// @Router /payouts/{id}/reject [post]
func (h *payoutHandler) rejectPayout(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	requestID := c.Param("id")

	var req dto.RejectPayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RejectPayout", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	approverID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Approver user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("request_id", requestID), slog.String("approver_id", approverID))
	logger.Info("Received request to reject payout")

	request, err := h.payoutService.RejectPayout(c.Request.Context(), requestID, req.Reason, approverID)
	if err != nil {
		h.writeResolveError(c, logger, err, "Failed to reject payout")
		return
	}

	logger.Info("Payout rejected successfully")
	c.JSON(http.StatusOK, dto.ToPayoutRequestResponse(request))
}

// getPayout godoc
// @Summary Get a payout request by ID
// @Description Retrieves a payout request with its resolution details
// @Tags payouts
// @Produce  json
// @Param   id path string true "Payout request ID"
// @Success 200 {object} dto.PayoutRequestResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Payout request not found"
// @Failure 500 {object} map[string]string "Failed to retrieve payout request"
// @Security BearerAuth
// @Router /payouts/{id} [get]
func (h *payoutHandler) getPayout(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	requestID := c.Param("id")

	logger = logger.With(slog.String("request_id", requestID))

	request, err := h.payoutService.GetPayoutRequestByID(c.Request.Context(), requestID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Payout request not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Payout request not found"})
		} else {
			logger.Error("Failed to get payout request from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve payout request"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToPayoutRequestResponse(request))
}

// listPayouts godoc
// @Summary List payout requests
// @Description Retrieves payout requests, optionally filtered by status, newest first
// @Tags payouts
// @Produce  json
// @Param   status query string false "Filter by status (PENDING, APPROVED, REJECTED)"
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {object} dto.ListPayoutRequestsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list payout requests"
// @Security BearerAuth
// @Router /payouts [get]
func (h *payoutHandler) listPayouts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	limit, offset := parsePagination(c)

	var status *domain.PayoutStatus
	if raw := c.Query("status"); raw != "" {
		s := domain.PayoutStatus(raw)
		status = &s
	}

	requests, err := h.payoutService.ListPayoutRequests(c.Request.Context(), status, limit, offset)
	if err != nil {
		logger.Error("Failed to list payout requests from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list payout requests"})
		return
	}

	resp := dto.ListPayoutRequestsResponse{Requests: make([]dto.PayoutRequestResponse, 0, len(requests))}
	for i := range requests {
		resp.Requests = append(resp.Requests, dto.ToPayoutRequestResponse(&requests[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// writeResolveError maps approve/reject service errors to HTTP responses.
func (h *payoutHandler) writeResolveError(c *gin.Context, logger *slog.Logger, err error, internalMsg string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error resolving payout", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Payout request not found for resolution", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInvalidState):
		logger.Warn("Payout request is no longer pending", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInsufficientBalance):
		logger.Warn("Verified balance below requested payout amount", slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		logger.Error(internalMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": internalMsg})
	}
}
