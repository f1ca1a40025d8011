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

// payoutService drives the payout request state machine. Requests touch no
// balances; only approval mutates money, and it does so in one transaction
// guarded by the repository's conditional status update.
type payoutService struct {
	payoutRepo      portsrepo.PayoutRepositoryFacade
	stakeholderRepo portsrepo.StakeholderRepositoryFacade
	policyRepo      portsrepo.PolicyRepositoryFacade
	notifier        portssvc.Notifier
}

// NewPayoutService creates a new PayoutService.
func NewPayoutService(payoutRepo portsrepo.PayoutRepositoryFacade, stakeholderRepo portsrepo.StakeholderRepositoryFacade, policyRepo portsrepo.PolicyRepositoryFacade, notifier portssvc.Notifier) portssvc.PayoutSvcFacade {
	return &payoutService{
		payoutRepo:      payoutRepo,
		stakeholderRepo: stakeholderRepo,
		policyRepo:      policyRepo,
		notifier:        notifier,
	}
}

var _ portssvc.PayoutSvcFacade = (*payoutService)(nil)

// RequestPayout opens a PENDING cash-out request against a stakeholder's
// verified balance. At most one pending request may exist per stakeholder;
// the database's partial unique index is the arbiter under concurrency.
func (s *payoutService) RequestPayout(ctx context.Context, req dto.RequestPayoutRequest, actorID string) (*domain.PayoutRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive, got %d", apperrors.ErrValidation, req.Amount)
	}
	stakeholder, err := s.stakeholderRepo.FindStakeholderByID(ctx, req.StakeholderID)
	if err != nil {
		return nil, fmt.Errorf("failed to find stakeholder %s: %w", req.StakeholderID, err)
	}
	if !stakeholder.IsActive {
		return nil, fmt.Errorf("%w: stakeholder %s is inactive", apperrors.ErrValidation, req.StakeholderID)
	}
	if req.Amount > stakeholder.VerifiedBalance {
		return nil, fmt.Errorf("%w: requested %d exceeds verified balance %d",
			apperrors.ErrInsufficientBalance, req.Amount, stakeholder.VerifiedBalance)
	}

	request := domain.PayoutRequest{
		RequestID:     uuid.NewString(),
		StakeholderID: req.StakeholderID,
		Amount:        req.Amount,
		Status:        domain.PayoutPending,
		RequestDate:   time.Now().UTC(),
	}
	if err := s.payoutRepo.SavePayoutRequest(ctx, request); err != nil {
		logger.Error("Failed to save payout request",
			slog.String("stakeholder_id", req.StakeholderID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to save payout request: %w", err)
	}

	logger.Info("Payout requested",
		slog.String("request_id", request.RequestID),
		slog.String("stakeholder_id", request.StakeholderID),
		slog.Int64("amount", request.Amount),
	)
	return &request, nil
}

// ApprovePayout disburses an approved payout: the stakeholder's verified
// balance moves to paid-out, each partner's wallet is debited by their cash
// contribution, and an audit expense records where the money went. The status
// flip is conditional on the request still being PENDING, so concurrent
// resolutions cannot double-pay.
func (s *payoutService) ApprovePayout(ctx context.Context, requestID string, notes string, approverID string) (*domain.PayoutRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	request, err := s.payoutRepo.FindPayoutRequestByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to find payout request %s: %w", requestID, err)
	}
	if request.IsResolved() {
		return nil, fmt.Errorf("%w: payout request %s is already %s", apperrors.ErrInvalidState, requestID, request.Status)
	}

	stakeholder, err := s.stakeholderRepo.FindStakeholderByID(ctx, request.StakeholderID)
	if err != nil {
		return nil, fmt.Errorf("failed to find stakeholder %s: %w", request.StakeholderID, err)
	}
	// Re-check here for a clean error; the balance CHECK constraint still
	// guards the race between this read and the transaction.
	if request.Amount > stakeholder.VerifiedBalance {
		return nil, fmt.Errorf("%w: payout %d exceeds verified balance %d",
			apperrors.ErrInsufficientBalance, request.Amount, stakeholder.VerifiedBalance)
	}

	policy, err := s.policyRepo.FindActivePolicy(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active policy: %w", err)
	}

	now := time.Now().UTC()
	audit := domain.AuditFields{CreatedAt: now, CreatedBy: approverID, LastUpdatedAt: now, LastUpdatedBy: approverID}

	resolved := *request
	resolved.Status = domain.PayoutApproved
	resolved.ResolvedBy = approverID
	resolved.ResolvedAt = &now
	resolved.Notes = notes

	// Audit expense: a disbursement is organization money leaving, split
	// across the partners the same way any organization expense is.
	expense := domain.ExpenseRecord{
		ExpenseID:       uuid.NewString(),
		Amount:          request.Amount,
		Category:        "PAYOUT",
		PaidByType:      domain.PaidByOrganization,
		ExpenseDate:     now,
		Notes:           fmt.Sprintf("payout to %s", stakeholder.Name),
		AuditFields:     audit,
	}
	expense.Shares = accounting.ComputeExpenseShares(expense.ExpenseID, expense.Amount, expense.PaidByType, "", policy.ExpenseSplits, uuid.NewString)

	payoutEntry := domain.LedgerEntry{
		EntryID:       uuid.NewString(),
		StakeholderID: request.StakeholderID,
		Kind:          domain.EntryExpense,
		Status:        domain.StatusVerified,
		Direction:     domain.DirectionDebit,
		Bucket:        domain.BucketVerified,
		Amount:        request.Amount,
		Stream:        domain.StreamPayout,
		SourceType:    domain.SourcePayout,
		SourceID:      request.RequestID,
		Notes:         notes,
		AuditFields:   audit,
	}
	resolved.LedgerEntryID = payoutEntry.EntryID
	resolved.ExpenseID = expense.ExpenseID

	mutations := []domain.BalanceMutation{{
		StakeholderID: request.StakeholderID,
		Deltas: []domain.BucketDelta{
			{Bucket: domain.BucketVerified, Delta: -request.Amount},
			{Bucket: domain.BucketPaidOut, Delta: request.Amount},
		},
		Entries: []domain.LedgerEntry{payoutEntry},
	}}

	// The cash handed over came out of the partners' pockets per the expense
	// split; debit each wallet by its computed share in the same transaction.
	for _, share := range expense.Shares {
		if share.Amount == 0 {
			continue
		}
		walletEntry := domain.LedgerEntry{
			EntryID:       uuid.NewString(),
			StakeholderID: share.PartnerID,
			Kind:          domain.EntryExpense,
			Status:        domain.StatusVerified,
			Direction:     domain.DirectionDebit,
			Bucket:        domain.BucketWallet,
			Amount:        share.Amount,
			Stream:        domain.StreamPayout,
			SourceType:    domain.SourcePayout,
			SourceID:      request.RequestID,
			AuditFields:   audit,
		}
		mutations = append(mutations, domain.BalanceMutation{
			StakeholderID: share.PartnerID,
			Deltas:        []domain.BucketDelta{{Bucket: domain.BucketWallet, Delta: -share.Amount}},
			Entries:       []domain.LedgerEntry{walletEntry},
		})
	}

	if err := s.payoutRepo.ResolvePayout(ctx, resolved, mutations, &expense); err != nil {
		logger.Error("Failed to approve payout",
			slog.String("request_id", requestID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to approve payout %s: %w", requestID, err)
	}

	logger.Info("Payout approved",
		slog.String("request_id", requestID),
		slog.String("stakeholder_id", request.StakeholderID),
		slog.Int64("amount", request.Amount),
	)
	s.notifier.Notify(ctx, request.StakeholderID, "Payout approved",
		fmt.Sprintf("Your payout of %d has been approved and disbursed", request.Amount))
	return &resolved, nil
}

// RejectPayout closes a PENDING request without touching any balance.
// A reason is mandatory; the requester sees it verbatim.
func (s *payoutService) RejectPayout(ctx context.Context, requestID string, reason string, approverID string) (*domain.PayoutRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if reason == "" {
		return nil, fmt.Errorf("%w: a rejection reason is required", apperrors.ErrValidation)
	}

	request, err := s.payoutRepo.FindPayoutRequestByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to find payout request %s: %w", requestID, err)
	}
	if request.IsResolved() {
		return nil, fmt.Errorf("%w: payout request %s is already %s", apperrors.ErrInvalidState, requestID, request.Status)
	}

	now := time.Now().UTC()
	resolved := *request
	resolved.Status = domain.PayoutRejected
	resolved.ResolvedBy = approverID
	resolved.ResolvedAt = &now
	resolved.Notes = reason

	if err := s.payoutRepo.ResolvePayout(ctx, resolved, nil, nil); err != nil {
		logger.Error("Failed to reject payout",
			slog.String("request_id", requestID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to reject payout %s: %w", requestID, err)
	}

	logger.Info("Payout rejected", slog.String("request_id", requestID), slog.String("reason", reason))
	s.notifier.Notify(ctx, request.StakeholderID, "Payout rejected", reason)
	return &resolved, nil
}

// GetPayoutRequestByID retrieves a payout request.
func (s *payoutService) GetPayoutRequestByID(ctx context.Context, requestID string) (*domain.PayoutRequest, error) {
	request, err := s.payoutRepo.FindPayoutRequestByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to find payout request %s: %w", requestID, err)
	}
	return request, nil
}

// ListPayoutRequests retrieves payout requests, optionally filtered by status.
func (s *payoutService) ListPayoutRequests(ctx context.Context, status *domain.PayoutStatus, limit int, offset int) ([]domain.PayoutRequest, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.payoutRepo.ListPayoutRequests(ctx, status, limit, offset)
}
