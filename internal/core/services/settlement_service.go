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

// settlementService records partner repayments. The debt reduction, ledger
// entry, and share clearing all happen inside the repository transaction; this
// service validates and assembles the inputs.
type settlementService struct {
	settlementRepo  portsrepo.SettlementRepositoryFacade
	stakeholderRepo portsrepo.StakeholderRepositoryFacade
	notifier        portssvc.Notifier
}

// NewSettlementService creates a new SettlementService.
func NewSettlementService(settlementRepo portsrepo.SettlementRepositoryFacade, stakeholderRepo portsrepo.StakeholderRepositoryFacade, notifier portssvc.Notifier) portssvc.SettlementSvcFacade {
	return &settlementService{
		settlementRepo:  settlementRepo,
		stakeholderRepo: stakeholderRepo,
		notifier:        notifier,
	}
}

var _ portssvc.SettlementSvcFacade = (*settlementService)(nil)

// RecordSettlement records a partner repaying fronted expense money. The
// partner's debt is reduced (floored at zero), a debt-reduction entry is
// appended, and matching UNPAID shares flip to PAID, all atomically. Paying
// more than the recorded debt is accepted; the excess is not reflected.
func (s *settlementService) RecordSettlement(ctx context.Context, req dto.RecordSettlementRequest, actorID string) (*dto.SettlementResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive, got %d", apperrors.ErrValidation, req.Amount)
	}
	partner, err := s.stakeholderRepo.FindStakeholderByID(ctx, req.PartnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find partner %s: %w", req.PartnerID, err)
	}
	if !partner.IsPartnerLike() {
		return nil, fmt.Errorf("%w: stakeholder %s is not an equity partner", apperrors.ErrValidation, req.PartnerID)
	}

	now := time.Now().UTC()
	settlement := domain.SettlementRecord{
		SettlementID: uuid.NewString(),
		PartnerID:    req.PartnerID,
		Amount:       req.Amount,
		Method:       req.Method,
		Notes:        req.Notes,
		RecordedBy:   actorID,
		Status:       domain.SettlementCompleted,
		SettledAt:    now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	// The entry amount is a template value: the repository replaces it with
	// the actual reduction computed under the partner's row lock, so a debt
	// smaller than the payment never yields a negative balance.
	debtEntry := domain.LedgerEntry{
		EntryID:       uuid.NewString(),
		StakeholderID: req.PartnerID,
		Kind:          domain.EntryDebt,
		Status:        domain.StatusVerified,
		Direction:     domain.DirectionDebit,
		Bucket:        domain.BucketDebt,
		Amount:        req.Amount,
		Stream:        domain.StreamExpenseSettlement,
		SourceType:    domain.SourceSettlement,
		SourceID:      settlement.SettlementID,
		Notes:         req.Notes,
		AuditFields:   settlement.AuditFields,
	}

	result, err := s.settlementRepo.RecordSettlement(ctx, settlement, req.ExpenseIDs, debtEntry)
	if err != nil {
		logger.Error("Failed to record settlement",
			slog.String("partner_id", req.PartnerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to record settlement for partner %s: %w", req.PartnerID, err)
	}

	logger.Info("Settlement recorded",
		slog.String("settlement_id", settlement.SettlementID),
		slog.String("partner_id", req.PartnerID),
		slog.Int64("amount", req.Amount),
		slog.Int64("new_debt", result.NewDebt),
		slog.Int("cleared_shares", len(result.ClearedShareIDs)),
	)
	s.notifier.Notify(ctx, req.PartnerID, "Settlement recorded",
		fmt.Sprintf("Payment of %d received; outstanding debt is now %d", req.Amount, result.NewDebt))

	return &dto.SettlementResponse{
		SettlementID:    settlement.SettlementID,
		PartnerID:       settlement.PartnerID,
		Amount:          settlement.Amount,
		NewDebt:         result.NewDebt,
		ClearedShareIDs: result.ClearedShareIDs,
		SettledAt:       settlement.SettledAt,
	}, nil
}

// GetSettlementByID retrieves a settlement record.
func (s *settlementService) GetSettlementByID(ctx context.Context, settlementID string) (*domain.SettlementRecord, error) {
	settlement, err := s.settlementRepo.FindSettlementByID(ctx, settlementID)
	if err != nil {
		return nil, fmt.Errorf("failed to find settlement %s: %w", settlementID, err)
	}
	return settlement, nil
}

// ListSettlementsByPartner retrieves a partner's settlements, newest first.
func (s *settlementService) ListSettlementsByPartner(ctx context.Context, partnerID string, limit int, offset int) ([]domain.SettlementRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.settlementRepo.ListSettlementsByPartner(ctx, partnerID, limit, offset)
}
