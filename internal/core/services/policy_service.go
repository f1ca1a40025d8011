package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/muz4miL/genius-academia-sub002/internal/apperrors"
	"github.com/muz4miL/genius-academia-sub002/internal/core/domain"
	portsrepo "github.com/muz4miL/genius-academia-sub002/internal/core/ports/repositories"
	portssvc "github.com/muz4miL/genius-academia-sub002/internal/core/ports/services"
	"github.com/muz4miL/genius-academia-sub002/internal/dto"
	"github.com/muz4miL/genius-academia-sub002/internal/middleware"
)

// policyService manages split-policy versions. Policies are immutable
// snapshots: a change is a new version, activated wholesale after validation.
type policyService struct {
	policyRepo      portsrepo.PolicyRepositoryFacade
	stakeholderRepo portsrepo.StakeholderRepositoryFacade
}

// NewPolicyService creates a new PolicyService.
func NewPolicyService(policyRepo portsrepo.PolicyRepositoryFacade, stakeholderRepo portsrepo.StakeholderRepositoryFacade) portssvc.PolicySvcFacade {
	return &policyService{policyRepo: policyRepo, stakeholderRepo: stakeholderRepo}
}

var _ portssvc.PolicySvcFacade = (*policyService)(nil)

// CreatePolicy registers a new, inactive policy version. A policy whose ratio
// groups do not sum to exactly 100 is rejected here, at write time.
func (s *policyService) CreatePolicy(ctx context.Context, req dto.CreatePolicyRequest, creatorUserID string) (*domain.PolicyConfig, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	policy := domain.PolicyConfig{
		PolicyID:              uuid.NewString(),
		Name:                  req.Name,
		StaffSharePercent:     req.StaffSharePercent,
		PartnerFullShare:      req.PartnerFullShare,
		ExamCommissionPerHead: req.ExamCommissionPerHead,
		FixedSalarySubject:    req.FixedSalarySubject,
		TuitionPoolShares:     dto.ToShareRatios(req.TuitionPoolShares),
		ExamPoolShares:        dto.ToShareRatios(req.ExamPoolShares),
		ExpenseSplits:         dto.ToShareRatios(req.ExpenseSplits),
		IsActive:              false,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrPolicyInconsistent, err)
	}

	if err := s.validatePartnerRefs(ctx, &policy); err != nil {
		return nil, err
	}

	if err := s.policyRepo.SavePolicy(ctx, policy); err != nil {
		logger.Error("Failed to save policy", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save policy: %w", err)
	}

	logger.Info("Policy created", slog.String("policy_id", policy.PolicyID), slog.String("name", policy.Name))
	return &policy, nil
}

// validatePartnerRefs checks that every partner named in a ratio group is an
// active partner-like stakeholder. Ratio groups referencing unknown partners
// would silently misroute money.
func (s *policyService) validatePartnerRefs(ctx context.Context, policy *domain.PolicyConfig) error {
	ids := make([]string, 0)
	seen := make(map[string]struct{})
	for _, group := range [][]domain.ShareRatio{policy.TuitionPoolShares, policy.ExamPoolShares, policy.ExpenseSplits} {
		for _, share := range group {
			if _, ok := seen[share.PartnerID]; !ok {
				seen[share.PartnerID] = struct{}{}
				ids = append(ids, share.PartnerID)
			}
		}
	}

	stakeholders, err := s.stakeholderRepo.FindStakeholdersByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to fetch partners for policy validation: %w", err)
	}
	for _, id := range ids {
		stakeholder, found := stakeholders[id]
		if !found {
			return fmt.Errorf("%w: partner %s in ratio group does not exist", apperrors.ErrPolicyInconsistent, id)
		}
		if !stakeholder.IsPartnerLike() {
			return fmt.Errorf("%w: stakeholder %s is not an equity partner", apperrors.ErrPolicyInconsistent, id)
		}
		if !stakeholder.IsActive {
			return fmt.Errorf("%w: partner %s is inactive", apperrors.ErrPolicyInconsistent, id)
		}
	}
	return nil
}

// ActivatePolicy re-validates and atomically swaps the active policy.
func (s *policyService) ActivatePolicy(ctx context.Context, policyID string, userID string) (*domain.PolicyConfig, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	policy, err := s.policyRepo.FindPolicyByID(ctx, policyID)
	if err != nil {
		return nil, fmt.Errorf("failed to find policy %s: %w", policyID, err)
	}

	// Re-validate: the stakeholder set may have changed since creation.
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrPolicyInconsistent, err)
	}
	if err := s.validatePartnerRefs(ctx, policy); err != nil {
		return nil, err
	}

	if err := s.policyRepo.ActivatePolicy(ctx, policyID, userID, time.Now().UTC()); err != nil {
		logger.Error("Failed to activate policy", slog.String("policy_id", policyID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to activate policy %s: %w", policyID, err)
	}

	policy.IsActive = true
	logger.Info("Policy activated", slog.String("policy_id", policyID))
	return policy, nil
}

// GetActivePolicy loads the single active policy snapshot. Calculations
// receive this value; it is never mutated in place.
func (s *policyService) GetActivePolicy(ctx context.Context) (*domain.PolicyConfig, error) {
	policy, err := s.policyRepo.FindActivePolicy(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active policy: %w", err)
	}
	return policy, nil
}

// GetPolicyByID retrieves one policy version.
func (s *policyService) GetPolicyByID(ctx context.Context, policyID string) (*domain.PolicyConfig, error) {
	policy, err := s.policyRepo.FindPolicyByID(ctx, policyID)
	if err != nil {
		return nil, fmt.Errorf("failed to find policy %s: %w", policyID, err)
	}
	return policy, nil
}

// ListPolicies retrieves policy versions, newest first.
func (s *policyService) ListPolicies(ctx context.Context, limit int, offset int) ([]domain.PolicyConfig, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.policyRepo.ListPolicies(ctx, limit, offset)
}
