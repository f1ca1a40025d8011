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

// expenseService records expenses and tracks the inter-partner debt that a
// partner-fronted expense creates.
type expenseService struct {
	expenseRepo     portsrepo.ExpenseRepositoryFacade
	ledgerRepo      portsrepo.LedgerRepositoryFacade
	stakeholderRepo portsrepo.StakeholderRepositoryFacade
	policyRepo      portsrepo.PolicyRepositoryFacade
	notifier        portssvc.Notifier
	enrich          *enricher
}

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(expenseRepo portsrepo.ExpenseRepositoryFacade, ledgerRepo portsrepo.LedgerRepositoryFacade, stakeholderRepo portsrepo.StakeholderRepositoryFacade, policyRepo portsrepo.PolicyRepositoryFacade, notifier portssvc.Notifier) portssvc.ExpenseSvcFacade {
	return &expenseService{
		expenseRepo:     expenseRepo,
		ledgerRepo:      ledgerRepo,
		stakeholderRepo: stakeholderRepo,
		policyRepo:      policyRepo,
		notifier:        notifier,
		enrich:          newEnricher(),
	}
}

var _ portssvc.ExpenseSvcFacade = (*expenseService)(nil)

func validPaidByType(t domain.PaidByType) bool {
	switch t {
	case domain.PaidByOrganization, domain.PaidByPool, domain.PaidByPartner:
		return true
	}
	return false
}

// RecordExpense persists an expense with its per-partner shares. When a
// partner paid from their own pocket, their wallet is debited in the same
// transaction; the debt the other partners now owe the payer is accrued
// afterwards as a best-effort enrichment so a single bad partner row cannot
// lose the expense itself.
func (s *expenseService) RecordExpense(ctx context.Context, req dto.RecordExpenseRequest, actorID string) (*domain.ExpenseRecord, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive, got %d", apperrors.ErrValidation, req.Amount)
	}
	if !validPaidByType(req.PaidByType) {
		return nil, fmt.Errorf("%w: unknown paid-by type %q", apperrors.ErrValidation, req.PaidByType)
	}
	if req.PaidByType == domain.PaidByPartner {
		if req.PaidByPartnerID == "" {
			return nil, fmt.Errorf("%w: paidByPartnerID is required for partner-paid expenses", apperrors.ErrValidation)
		}
		payer, err := s.stakeholderRepo.FindStakeholderByID(ctx, req.PaidByPartnerID)
		if err != nil {
			return nil, fmt.Errorf("failed to find paying partner %s: %w", req.PaidByPartnerID, err)
		}
		if !payer.IsPartnerLike() {
			return nil, fmt.Errorf("%w: stakeholder %s is not an equity partner", apperrors.ErrValidation, req.PaidByPartnerID)
		}
		if !payer.IsActive {
			return nil, fmt.Errorf("%w: partner %s is inactive", apperrors.ErrValidation, req.PaidByPartnerID)
		}
	}

	policy, err := s.policyRepo.FindActivePolicy(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active policy: %w", err)
	}

	now := time.Now().UTC()
	expenseDate := now
	if req.ExpenseDate != nil {
		expenseDate = req.ExpenseDate.UTC()
	}

	expense := domain.ExpenseRecord{
		ExpenseID:       uuid.NewString(),
		Amount:          req.Amount,
		Category:        req.Category,
		PaidByType:      req.PaidByType,
		PaidByPartnerID: req.PaidByPartnerID,
		ExpenseDate:     expenseDate,
		Notes:           req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
	expense.Shares = accounting.ComputeExpenseShares(expense.ExpenseID, expense.Amount, expense.PaidByType, expense.PaidByPartnerID, policy.ExpenseSplits, uuid.NewString)

	var mutations []domain.BalanceMutation
	if expense.PaidByType == domain.PaidByPartner {
		// The payer's wallet reflects cash actually spent; this debit rides in
		// the expense transaction so expense and wallet never disagree.
		entry := domain.LedgerEntry{
			EntryID:       uuid.NewString(),
			StakeholderID: expense.PaidByPartnerID,
			Kind:          domain.EntryExpense,
			Status:        domain.StatusVerified,
			Direction:     domain.DirectionDebit,
			Bucket:        domain.BucketWallet,
			Amount:        expense.Amount,
			Stream:        domain.StreamExpenseSettlement,
			SourceType:    domain.SourceExpense,
			SourceID:      expense.ExpenseID,
			Notes:         req.Notes,
			AuditFields:   expense.AuditFields,
		}
		mutations = append(mutations, domain.BalanceMutation{
			StakeholderID: expense.PaidByPartnerID,
			Deltas:        []domain.BucketDelta{{Bucket: domain.BucketWallet, Delta: -expense.Amount}},
			Entries:       []domain.LedgerEntry{entry},
		})
	}

	if err := s.expenseRepo.SaveExpense(ctx, expense, mutations); err != nil {
		logger.Error("Failed to save expense", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save expense: %w", err)
	}

	logger.Info("Expense recorded",
		slog.String("expense_id", expense.ExpenseID),
		slog.Int64("amount", expense.Amount),
		slog.String("paid_by", string(expense.PaidByType)),
	)

	s.accrueDebts(ctx, &expense, actorID)
	return &expense, nil
}

// accrueDebts records each non-payer partner's share as debt owed to the
// payer when the proprietor fronted the expense. Accrual is per partner and
// best-effort; a failed accrual is logged and retried by the next settlement
// review, never by rolling back the expense.
func (s *expenseService) accrueDebts(ctx context.Context, expense *domain.ExpenseRecord, actorID string) {
	if expense.PaidByType != domain.PaidByPartner {
		return
	}
	payer, err := s.stakeholderRepo.FindStakeholderByID(ctx, expense.PaidByPartnerID)
	if err != nil || payer.Role != domain.RoleProprietor {
		// Only proprietor-fronted expenses accrue tracked debt; a partner
		// fronting money relies on share records alone.
		return
	}

	now := time.Now().UTC()
	for _, share := range expense.Shares {
		if share.Status != domain.ShareUnpaid {
			continue
		}
		share := share
		ok := s.enrich.Run(ctx, fmt.Sprintf("debt-accrual:%s", share.PartnerID), func(ctx context.Context) error {
			entry := domain.LedgerEntry{
				EntryID:       uuid.NewString(),
				StakeholderID: share.PartnerID,
				Kind:          domain.EntryDebt,
				Status:        domain.StatusPending,
				Direction:     domain.DirectionCredit,
				Bucket:        domain.BucketDebt,
				Amount:        share.Amount,
				Stream:        domain.StreamPartnerDebt,
				SourceType:    domain.SourceExpense,
				SourceID:      expense.ExpenseID,
				Notes:         fmt.Sprintf("share of %s expense", expense.Category),
				AuditFields:   domain.AuditFields{CreatedAt: now, CreatedBy: actorID, LastUpdatedAt: now, LastUpdatedBy: actorID},
			}
			return s.ledgerRepo.ApplyMutations(ctx, []domain.BalanceMutation{{
				StakeholderID: share.PartnerID,
				Deltas:        []domain.BucketDelta{{Bucket: domain.BucketDebt, Delta: share.Amount}},
				Entries:       []domain.LedgerEntry{entry},
			}})
		})
		if ok {
			s.notifier.Notify(ctx, share.PartnerID, "Expense share recorded",
				fmt.Sprintf("Your share of a %s expense is %d", expense.Category, share.Amount))
		}
	}
}

// GetExpenseByID retrieves an expense with its shares.
func (s *expenseService) GetExpenseByID(ctx context.Context, expenseID string) (*domain.ExpenseRecord, error) {
	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to find expense %s: %w", expenseID, err)
	}
	return expense, nil
}

// ListExpenses retrieves a page of expenses, newest first.
func (s *expenseService) ListExpenses(ctx context.Context, limit int, offset int) ([]domain.ExpenseRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.expenseRepo.ListExpenses(ctx, limit, offset)
}
