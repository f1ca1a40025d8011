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

// ledgerService exposes the atomic balance-ledger primitives. Balance change
// and audit entry are applied in one database transaction; they never diverge.
type ledgerService struct {
	ledgerRepo      portsrepo.LedgerRepositoryFacade
	stakeholderRepo portsrepo.StakeholderRepositoryFacade
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepositoryFacade, stakeholderRepo portsrepo.StakeholderRepositoryFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{ledgerRepo: ledgerRepo, stakeholderRepo: stakeholderRepo}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func (s *ledgerService) validateOp(op portssvc.LedgerOp) error {
	if op.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive, got %d", apperrors.ErrValidation, op.Amount)
	}
	if op.StakeholderID == "" {
		return fmt.Errorf("%w: stakeholder reference is required", apperrors.ErrValidation)
	}
	return nil
}

func buildEntry(op portssvc.LedgerOp, direction domain.EntryDirection, actorID string, now time.Time) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:       uuid.NewString(),
		StakeholderID: op.StakeholderID,
		Kind:          op.Kind,
		Status:        op.Status,
		Direction:     direction,
		Bucket:        op.Bucket,
		Amount:        op.Amount,
		Stream:        op.Stream,
		SourceType:    op.SourceType,
		SourceID:      op.SourceID,
		Notes:         op.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
}

// Credit increases one balance bucket and appends the matching ledger entry.
func (s *ledgerService) Credit(ctx context.Context, op portssvc.LedgerOp, actorID string) (*domain.LedgerEntry, error) {
	if err := s.validateOp(op); err != nil {
		return nil, err
	}

	entry := buildEntry(op, domain.DirectionCredit, actorID, time.Now().UTC())
	mutation := domain.BalanceMutation{
		StakeholderID: op.StakeholderID,
		Deltas:        []domain.BucketDelta{{Bucket: op.Bucket, Delta: op.Amount}},
		Entries:       []domain.LedgerEntry{entry},
	}
	if err := s.ledgerRepo.ApplyMutations(ctx, []domain.BalanceMutation{mutation}); err != nil {
		return nil, fmt.Errorf("failed to credit stakeholder %s: %w", op.StakeholderID, err)
	}
	return &entry, nil
}

// Debit decreases one balance bucket, failing with InsufficientBalance when
// the amount exceeds the current bucket value, and appends the matching entry.
func (s *ledgerService) Debit(ctx context.Context, op portssvc.LedgerOp, actorID string) (*domain.LedgerEntry, error) {
	if err := s.validateOp(op); err != nil {
		return nil, err
	}

	entry := buildEntry(op, domain.DirectionDebit, actorID, time.Now().UTC())
	mutation := domain.BalanceMutation{
		StakeholderID: op.StakeholderID,
		Deltas:        []domain.BucketDelta{{Bucket: op.Bucket, Delta: -op.Amount}},
		Entries:       []domain.LedgerEntry{entry},
	}
	if err := s.ledgerRepo.ApplyMutations(ctx, []domain.BalanceMutation{mutation}); err != nil {
		return nil, fmt.Errorf("failed to debit stakeholder %s: %w", op.StakeholderID, err)
	}
	return &entry, nil
}

// TransferBucket moves an amount between two buckets of one stakeholder, e.g.
// the day-close FLOATING to VERIFIED move. Both sides land in one transaction.
func (s *ledgerService) TransferBucket(ctx context.Context, stakeholderID string, from, to domain.BalanceBucket, amount int64, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive, got %d", apperrors.ErrValidation, amount)
	}
	if from == to {
		return fmt.Errorf("%w: cannot transfer from a bucket to itself", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	transferID := uuid.NewString()
	out := buildEntry(portssvc.LedgerOp{
		StakeholderID: stakeholderID,
		Bucket:        from,
		Amount:        amount,
		Kind:          domain.EntryIncome,
		Status:        domain.StatusVerified,
		Stream:        domain.StreamDayClose,
		SourceType:    domain.SourceDayClose,
		SourceID:      transferID,
		Notes:         fmt.Sprintf("transfer %s -> %s", from, to),
	}, domain.DirectionDebit, actorID, now)
	in := out
	in.EntryID = uuid.NewString()
	in.Bucket = to
	in.Direction = domain.DirectionCredit

	mutation := domain.BalanceMutation{
		StakeholderID: stakeholderID,
		Deltas: []domain.BucketDelta{
			{Bucket: from, Delta: -amount},
			{Bucket: to, Delta: amount},
		},
		Entries: []domain.LedgerEntry{out, in},
	}
	if err := s.ledgerRepo.ApplyMutations(ctx, []domain.BalanceMutation{mutation}); err != nil {
		logger.Error("Bucket transfer failed", slog.String("stakeholder_id", stakeholderID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to transfer %s to %s for stakeholder %s: %w", from, to, stakeholderID, err)
	}
	return nil
}

// ListEntriesByStakeholder retrieves a page of ledger entries, newest first.
func (s *ledgerService) ListEntriesByStakeholder(ctx context.Context, stakeholderID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	entries, nextToken, err := s.ledgerRepo.ListEntriesByStakeholder(ctx, stakeholderID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries for stakeholder %s: %w", stakeholderID, err)
	}

	return &dto.ListEntriesResponse{
		Entries:   dto.ToLedgerEntryResponses(entries),
		NextToken: nextToken,
	}, nil
}
