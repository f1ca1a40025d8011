package services

import (
	"context"

	"github.com/muz4miL/genius-academia-sub002/internal/core/domain"
	"github.com/muz4miL/genius-academia-sub002/internal/dto"
)

// StakeholderSvcFacade manages stakeholder accounts.
type StakeholderSvcFacade interface {
	CreateStakeholder(ctx context.Context, req dto.CreateStakeholderRequest, creatorUserID string) (*domain.Stakeholder, error)
	GetStakeholderByID(ctx context.Context, stakeholderID string) (*domain.Stakeholder, error)
	ListStakeholders(ctx context.Context, limit int, offset int) ([]domain.Stakeholder, error)
	DeactivateStakeholder(ctx context.Context, stakeholderID string, userID string) error
}

// PolicySvcFacade manages split-policy versions.
type PolicySvcFacade interface {
	CreatePolicy(ctx context.Context, req dto.CreatePolicyRequest, creatorUserID string) (*domain.PolicyConfig, error)
	ActivatePolicy(ctx context.Context, policyID string, userID string) (*domain.PolicyConfig, error)
	GetActivePolicy(ctx context.Context) (*domain.PolicyConfig, error)
	GetPolicyByID(ctx context.Context, policyID string) (*domain.PolicyConfig, error)
	ListPolicies(ctx context.Context, limit int, offset int) ([]domain.PolicyConfig, error)
}

// LedgerOp describes one balance-ledger operation. Amount is positive.
type LedgerOp struct {
	StakeholderID string
	Bucket        domain.BalanceBucket
	Amount        int64
	Kind          domain.EntryKind
	Status        domain.EntryStatus
	Stream        domain.RevenueStream
	SourceType    domain.SourceType
	SourceID      string
	Notes         string
}

// LedgerSvcFacade exposes the atomic balance-ledger primitives. Every credit
// or debit appends exactly one ledger entry in the same transaction.
type LedgerSvcFacade interface {
	Credit(ctx context.Context, op LedgerOp, actorID string) (*domain.LedgerEntry, error)
	Debit(ctx context.Context, op LedgerOp, actorID string) (*domain.LedgerEntry, error)
	// TransferBucket moves an amount between two buckets of one stakeholder.
	// Used by the external day-close process for FLOATING to VERIFIED moves.
	TransferBucket(ctx context.Context, stakeholderID string, from, to domain.BalanceBucket, amount int64, actorID string) error
	ListEntriesByStakeholder(ctx context.Context, stakeholderID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
}

// FeeSvcFacade turns fee-collection events into ledger mutations and
// post-commit pool dividends.
type FeeSvcFacade interface {
	RecordFeeCollection(ctx context.Context, req dto.RecordFeeRequest, actorID string) (*dto.FeeCollectionResponse, error)
}

// ExpenseSvcFacade records expenses and tracks inter-partner debt.
type ExpenseSvcFacade interface {
	RecordExpense(ctx context.Context, req dto.RecordExpenseRequest, actorID string) (*domain.ExpenseRecord, error)
	GetExpenseByID(ctx context.Context, expenseID string) (*domain.ExpenseRecord, error)
	ListExpenses(ctx context.Context, limit int, offset int) ([]domain.ExpenseRecord, error)
}

// SettlementSvcFacade records partner repayments.
type SettlementSvcFacade interface {
	RecordSettlement(ctx context.Context, req dto.RecordSettlementRequest, actorID string) (*dto.SettlementResponse, error)
	GetSettlementByID(ctx context.Context, settlementID string) (*domain.SettlementRecord, error)
	ListSettlementsByPartner(ctx context.Context, partnerID string, limit int, offset int) ([]domain.SettlementRecord, error)
}

// PayoutSvcFacade drives the payout request state machine.
type PayoutSvcFacade interface {
	RequestPayout(ctx context.Context, req dto.RequestPayoutRequest, actorID string) (*domain.PayoutRequest, error)
	ApprovePayout(ctx context.Context, requestID string, notes string, approverID string) (*domain.PayoutRequest, error)
	RejectPayout(ctx context.Context, requestID string, reason string, approverID string) (*domain.PayoutRequest, error)
	GetPayoutRequestByID(ctx context.Context, requestID string) (*domain.PayoutRequest, error)
	ListPayoutRequests(ctx context.Context, status *domain.PayoutStatus, limit int, offset int) ([]domain.PayoutRequest, error)
}
