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
	"github.com/muz4miL/genius-academia-sub002/internal/utils/accounting"
)

// feeService turns fee-collection events into ledger mutations. The split
// itself is a pure calculation; this service owns the orchestration: primary
// credits commit first, dividend distribution runs afterwards as a
// fault-isolated enrichment.
type feeService struct {
	ledgerRepo      portsrepo.LedgerRepositoryFacade
	stakeholderRepo portsrepo.StakeholderRepositoryFacade
	policyRepo      portsrepo.PolicyRepositoryFacade
	enrich          *enricher
}

// NewFeeService creates a new FeeService.
func NewFeeService(ledgerRepo portsrepo.LedgerRepositoryFacade, stakeholderRepo portsrepo.StakeholderRepositoryFacade, policyRepo portsrepo.PolicyRepositoryFacade) portssvc.FeeSvcFacade {
	return &feeService{
		ledgerRepo:      ledgerRepo,
		stakeholderRepo: stakeholderRepo,
		policyRepo:      policyRepo,
		enrich:          newEnricher(),
	}
}

var _ portssvc.FeeSvcFacade = (*feeService)(nil)

// RecordFeeCollection records a collected fee: it computes the revenue split
// under the active policy, credits the instructor's floating balance and the
// undistributed pool in one transaction, then distributes pool dividends to
// the partners best-effort. A failed dividend credit never rolls back the fee.
func (s *feeService) RecordFeeCollection(ctx context.Context, req dto.RecordFeeRequest, actorID string) (*dto.FeeCollectionResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive, got %d", apperrors.ErrValidation, req.Amount)
	}

	instructor, err := s.stakeholderRepo.FindStakeholderByID(ctx, req.StakeholderID)
	if err != nil {
		return nil, fmt.Errorf("failed to find stakeholder %s: %w", req.StakeholderID, err)
	}
	if !instructor.IsActive {
		return nil, fmt.Errorf("%w: stakeholder %s is inactive", apperrors.ErrValidation, req.StakeholderID)
	}

	policy, err := s.policyRepo.FindActivePolicy(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active policy: %w", err)
	}

	split := accounting.ComputeRevenueSplit(req.Amount, instructor.Role, req.SessionCategory, req.Subject, *policy)
	examTrack := req.SessionCategory == domain.SessionExamTrack

	now := time.Now().UTC()
	feeID := uuid.NewString()
	audit := domain.AuditFields{CreatedAt: now, CreatedBy: actorID, LastUpdatedAt: now, LastUpdatedBy: actorID}

	mutations := make([]domain.BalanceMutation, 0, 2)
	entryIDs := make([]string, 0, 2)

	if split.InstructorAmount > 0 {
		entry := domain.LedgerEntry{
			EntryID:       uuid.NewString(),
			StakeholderID: instructor.StakeholderID,
			Kind:          domain.EntryIncome,
			Status:        domain.StatusFloating,
			Direction:     domain.DirectionCredit,
			Bucket:        domain.BucketFloating,
			Amount:        split.InstructorAmount,
			Stream:        split.Stream,
			SourceType:    domain.SourceFeeCollection,
			SourceID:      feeID,
			Notes:         req.Notes,
			AuditFields:   audit,
		}
		entryIDs = append(entryIDs, entry.EntryID)
		mutations = append(mutations, domain.BalanceMutation{
			StakeholderID: instructor.StakeholderID,
			Deltas:        []domain.BucketDelta{{Bucket: domain.BucketFloating, Delta: split.InstructorAmount}},
			Entries:       []domain.LedgerEntry{entry},
		})
	}

	if split.PoolAmount > 0 {
		poolStream := domain.StreamTuitionPool
		if examTrack {
			poolStream = domain.StreamExamPool
		}
		// Organization-scoped entry: the pool credit is recorded before it is
		// broken into dividends, so the fee always reconciles even when a
		// dividend credit fails.
		entry := domain.LedgerEntry{
			EntryID:     uuid.NewString(),
			Kind:        domain.EntryIncome,
			Status:      domain.StatusVerified,
			Direction:   domain.DirectionCredit,
			Amount:      split.PoolAmount,
			Stream:      poolStream,
			SourceType:  domain.SourceFeeCollection,
			SourceID:    feeID,
			Notes:       req.Notes,
			AuditFields: audit,
		}
		entryIDs = append(entryIDs, entry.EntryID)
		mutations = append(mutations, domain.BalanceMutation{Entries: []domain.LedgerEntry{entry}})
	}

	if err := s.ledgerRepo.ApplyMutations(ctx, mutations); err != nil {
		logger.Error("Failed to record fee collection",
			slog.String("stakeholder_id", req.StakeholderID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to record fee collection: %w", err)
	}

	resp := &dto.FeeCollectionResponse{
		FeeID:          feeID,
		Split:          dto.ToSplitResponse(split),
		LedgerEntryIDs: entryIDs,
	}

	if split.PoolAmount > 0 {
		resp.Dividends = s.distributeDividends(ctx, feeID, split.PoolAmount, policy.PoolShares(examTrack), actorID)
	}

	logger.Info("Fee collection recorded",
		slog.String("fee_id", feeID),
		slog.String("stakeholder_id", req.StakeholderID),
		slog.Int64("amount", req.Amount),
		slog.String("stream", string(split.Stream)),
		slog.Int64("instructor_amount", split.InstructorAmount),
		slog.Int64("pool_amount", split.PoolAmount),
	)
	return resp, nil
}

// distributeDividends credits each partner's cut of the pool. Partners are
// credited in isolated mutations so one failure cannot poison the rest; the
// returned slice holds only the dividends that actually landed.
func (s *feeService) distributeDividends(ctx context.Context, feeID string, pool int64, shares []domain.ShareRatio, actorID string) []dto.DividendShare {
	dividends := accounting.DistributePool(pool, shares)
	credited := make([]dto.DividendShare, 0, len(dividends))
	now := time.Now().UTC()

	for _, dividend := range dividends {
		dividend := dividend
		ok := s.enrich.Run(ctx, fmt.Sprintf("dividend:%s", dividend.PartnerID), func(ctx context.Context) error {
			entry := domain.LedgerEntry{
				EntryID:       uuid.NewString(),
				StakeholderID: dividend.PartnerID,
				Kind:          domain.EntryDividend,
				Status:        domain.StatusFloating,
				Direction:     domain.DirectionCredit,
				Bucket:        domain.BucketFloating,
				Amount:        dividend.Amount,
				Stream:        domain.StreamDividend,
				SourceType:    domain.SourceFeeCollection,
				SourceID:      feeID,
				AuditFields:   domain.AuditFields{CreatedAt: now, CreatedBy: actorID, LastUpdatedAt: now, LastUpdatedBy: actorID},
			}
			return s.ledgerRepo.ApplyMutations(ctx, []domain.BalanceMutation{{
				StakeholderID: dividend.PartnerID,
				Deltas:        []domain.BucketDelta{{Bucket: domain.BucketFloating, Delta: dividend.Amount}},
				Entries:       []domain.LedgerEntry{entry},
			}})
		})
		if ok {
			credited = append(credited, dto.DividendShare{PartnerID: dividend.PartnerID, Amount: dividend.Amount})
		}
	}
	return credited
}
