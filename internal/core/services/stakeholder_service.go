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

// stakeholderService manages stakeholder account onboarding and lookup.
// Balance fields are mutated exclusively through the ledger service.
type stakeholderService struct {
	stakeholderRepo portsrepo.StakeholderRepositoryFacade
}

// NewStakeholderService creates a new StakeholderService.
func NewStakeholderService(stakeholderRepo portsrepo.StakeholderRepositoryFacade) portssvc.StakeholderSvcFacade {
	return &stakeholderService{stakeholderRepo: stakeholderRepo}
}

var _ portssvc.StakeholderSvcFacade = (*stakeholderService)(nil)

func validRole(role domain.StakeholderRole) bool {
	switch role {
	case domain.RoleStaff, domain.RolePartner, domain.RoleProprietor:
		return true
	}
	return false
}

// CreateStakeholder onboards a new stakeholder with an explicit role.
func (s *stakeholderService) CreateStakeholder(ctx context.Context, req dto.CreateStakeholderRequest, creatorUserID string) (*domain.Stakeholder, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Name == "" {
		return nil, fmt.Errorf("%w: name is required", apperrors.ErrValidation)
	}
	if !validRole(req.Role) {
		return nil, fmt.Errorf("%w: unknown stakeholder role %q", apperrors.ErrValidation, req.Role)
	}

	now := time.Now().UTC()
	stakeholder := domain.Stakeholder{
		StakeholderID: uuid.NewString(),
		Name:          req.Name,
		Role:          req.Role,
		IsActive:      true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.stakeholderRepo.SaveStakeholder(ctx, stakeholder); err != nil {
		logger.Error("Failed to save stakeholder", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save stakeholder: %w", err)
	}

	logger.Info("Stakeholder created", slog.String("stakeholder_id", stakeholder.StakeholderID), slog.String("role", string(stakeholder.Role)))
	return &stakeholder, nil
}

// GetStakeholderByID retrieves a stakeholder account.
func (s *stakeholderService) GetStakeholderByID(ctx context.Context, stakeholderID string) (*domain.Stakeholder, error) {
	stakeholder, err := s.stakeholderRepo.FindStakeholderByID(ctx, stakeholderID)
	if err != nil {
		return nil, fmt.Errorf("failed to find stakeholder %s: %w", stakeholderID, err)
	}
	return stakeholder, nil
}

// ListStakeholders retrieves a page of stakeholder accounts.
func (s *stakeholderService) ListStakeholders(ctx context.Context, limit int, offset int) ([]domain.Stakeholder, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.stakeholderRepo.ListStakeholders(ctx, limit, offset)
}

// DeactivateStakeholder soft-deletes a stakeholder. Accounts are never
// physically removed; the ledger history must stay reachable.
func (s *stakeholderService) DeactivateStakeholder(ctx context.Context, stakeholderID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.stakeholderRepo.DeactivateStakeholder(ctx, stakeholderID, userID, time.Now().UTC()); err != nil {
		logger.Error("Failed to deactivate stakeholder", slog.String("stakeholder_id", stakeholderID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to deactivate stakeholder %s: %w", stakeholderID, err)
	}

	logger.Info("Stakeholder deactivated", slog.String("stakeholder_id", stakeholderID))
	return nil
}
