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

// policyHandler handles HTTP requests related to split policies.
type policyHandler struct {
	policyService portssvc.PolicySvcFacade
}

// newPolicyHandler creates a new policyHandler.
func newPolicyHandler(ps portssvc.PolicySvcFacade) *policyHandler {
	return &policyHandler{policyService: ps}
}

// registerPolicyRoutes registers routes related to split policies.
func registerPolicyRoutes(rg *gin.RouterGroup, policyService portssvc.PolicySvcFacade) {
	h := newPolicyHandler(policyService)

	policies := rg.Group("/policies")
	{
		policies.POST("", h.createPolicy)
		policies.GET("", h.listPolicies)
		policies.GET("/active", h.getActivePolicy)
		policies.GET("/:id", h.getPolicy)
		policies.POST("/:id/activate", h.activatePolicy)
	}
}

// createPolicy godoc
// @Summary Create a new policy version
// @Description Registers a new split-policy version; ratio groups must each sum to 100
// @Tags policies
// @Accept  json
// @Produce  json
// @Param   policy body dto.CreatePolicyRequest true "Policy details"
// @Success 201 {object} dto.PolicyResponse
// @Failure 400 {object} map[string]string "Invalid input format, validation error, or inconsistent ratios"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create policy"
// @Security BearerAuth
// @Router /policies [post]
func (h *policyHandler) createPolicy(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreatePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreatePolicy", slog.String("error", err.Error()))
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
	logger.Info("Received request to create policy", slog.String("policy_name", req.Name))

	policy, err := h.policyService.CreatePolicy(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) || errors.Is(err, apperrors.ErrPolicyInconsistent) {
			logger.Warn("Validation error creating policy", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrNotFound) { // unknown partner in a ratio group
			logger.Warn("Unknown partner in policy ratios", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create policy in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create policy"})
		}
		return
	}

	logger.Info("Policy created successfully", slog.String("policy_id", policy.PolicyID))
	c.JSON(http.StatusCreated, dto.ToPolicyResponse(policy))
}

// getActivePolicy godoc
// @Summary Get the active policy
// @Description Retrieves the single currently active policy version
// @Tags policies
// @Produce  json
// @Success 200 {object} dto.PolicyResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "No active policy configured"
// @Failure 500 {object} map[string]string "Failed to retrieve policy"
// @Security BearerAuth
// @Router /policies/active [get]
func (h *policyHandler) getActivePolicy(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	policy, err := h.policyService.GetActivePolicy(c.Request.Context())
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("No active policy configured")
			c.JSON(http.StatusNotFound, gin.H{"error": "No active policy configured"})
		} else {
			logger.Error("Failed to get active policy from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve policy"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToPolicyResponse(policy))
}

// getPolicy godoc
// @Summary Get a policy by ID
// @Description Retrieves a policy version with its ratio groups
// @Tags policies
// @Produce  json
// @Param   id path string true "Policy ID"
// @Success 200 {object} dto.PolicyResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Policy not found"
// @Failure 500 {object} map[string]string "Failed to retrieve policy"
// @Security BearerAuth
// @Router /policies/{id} [get]
func (h *policyHandler) getPolicy(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	policyID := c.Param("id")

	logger = logger.With(slog.String("policy_id", policyID))

	policy, err := h.policyService.GetPolicyByID(c.Request.Context(), policyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Policy not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Policy not found"})
		} else {
			logger.Error("Failed to get policy from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve policy"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToPolicyResponse(policy))
}

// listPolicies godoc
// @Summary List policy versions
// @Description Retrieves policy versions newest first
// @Tags policies
// @Produce  json
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {object} dto.ListPoliciesResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list policies"
// @Security BearerAuth
// @Router /policies [get]
func (h *policyHandler) listPolicies(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	limit, offset := parsePagination(c)

	policies, err := h.policyService.ListPolicies(c.Request.Context(), limit, offset)
	if err != nil {
		logger.Error("Failed to list policies from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list policies"})
		return
	}

	resp := dto.ListPoliciesResponse{Policies: make([]dto.PolicyResponse, 0, len(policies))}
	for i := range policies {
		resp.Policies = append(resp.Policies, dto.ToPolicyResponse(&policies[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// activatePolicy godoc
// @Summary Activate a policy version
// @Description Makes the named policy version the single active one
// @Tags policies
// @Produce  json
// @Param   id path string true "Policy ID"
// @Success 200 {object} dto.PolicyResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Policy not found"
// @Failure 500 {object} map[string]string "Failed to activate policy"
// @Security BearerAuth
// @Router /policies/{id}/activate [post]
func (h *policyHandler) activatePolicy(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	policyID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("policy_id", policyID))
	logger.Info("Received request to activate policy")

	policy, err := h.policyService.ActivatePolicy(c.Request.Context(), policyID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Policy not found for activation")
			c.JSON(http.StatusNotFound, gin.H{"error": "Policy not found"})
		} else {
			logger.Error("Failed to activate policy in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to activate policy"})
		}
		return
	}

	logger.Info("Policy activated successfully")
	c.JSON(http.StatusOK, dto.ToPolicyResponse(policy))
}
