package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"github.com/muz4miL/genius-academia-sub002/internal/core/domain"
	portsrepo "github.com/muz4miL/genius-academia-sub002/internal/core/ports/repositories"
)

// --- Mock StakeholderRepository ---

type MockStakeholderRepository struct {
	mock.Mock
}

func (m *MockStakeholderRepository) FindStakeholderByID(ctx context.Context, stakeholderID string) (*domain.Stakeholder, error) {
	args := m.Called(ctx, stakeholderID)
	var s *domain.Stakeholder
	if args.Get(0) != nil {
		s = args.Get(0).(*domain.Stakeholder)
	}
	return s, args.Error(1)
}

func (m *MockStakeholderRepository) FindStakeholdersByIDs(ctx context.Context, stakeholderIDs []string) (map[string]domain.Stakeholder, error) {
	args := m.Called(ctx, stakeholderIDs)
	var out map[string]domain.Stakeholder
	if args.Get(0) != nil {
		out = args.Get(0).(map[string]domain.Stakeholder)
	}
	return out, args.Error(1)
}

func (m *MockStakeholderRepository) ListStakeholders(ctx context.Context, limit int, offset int) ([]domain.Stakeholder, error) {
	args := m.Called(ctx, limit, offset)
	var out []domain.Stakeholder
	if args.Get(0) != nil {
		out = args.Get(0).([]domain.Stakeholder)
	}
	return out, args.Error(1)
}

func (m *MockStakeholderRepository) ListActivePartners(ctx context.Context) ([]domain.Stakeholder, error) {
	args := m.Called(ctx)
	var out []domain.Stakeholder
	if args.Get(0) != nil {
		out = args.Get(0).([]domain.Stakeholder)
	}
	return out, args.Error(1)
}

func (m *MockStakeholderRepository) SaveStakeholder(ctx context.Context, stakeholder domain.Stakeholder) error {
	args := m.Called(ctx, stakeholder)
	return args.Error(0)
}

func (m *MockStakeholderRepository) UpdateStakeholder(ctx context.Context, stakeholder domain.Stakeholder) error {
	args := m.Called(ctx, stakeholder)
	return args.Error(0)
}

func (m *MockStakeholderRepository) DeactivateStakeholder(ctx context.Context, stakeholderID string, userID string, now time.Time) error {
	args := m.Called(ctx, stakeholderID, userID, now)
	return args.Error(0)
}

func (m *MockStakeholderRepository) FindStakeholdersByIDsForUpdate(ctx context.Context, tx pgx.Tx, stakeholderIDs []string) (map[string]domain.Stakeholder, error) {
	args := m.Called(ctx, tx, stakeholderIDs)
	var out map[string]domain.Stakeholder
	if args.Get(0) != nil {
		out = args.Get(0).(map[string]domain.Stakeholder)
	}
	return out, args.Error(1)
}

func (m *MockStakeholderRepository) ApplyBucketDeltasInTx(ctx context.Context, tx pgx.Tx, deltas map[string][]domain.BucketDelta, userID string, now time.Time) error {
	args := m.Called(ctx, tx, deltas, userID, now)
	return args.Error(0)
}

var _ portsrepo.StakeholderRepositoryFacade = (*MockStakeholderRepository)(nil)

// --- Mock LedgerRepository ---

type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) ApplyMutations(ctx context.Context, mutations []domain.BalanceMutation) error {
	args := m.Called(ctx, mutations)
	return args.Error(0)
}

func (m *MockLedgerRepository) SaveEntriesInTx(ctx context.Context, tx pgx.Tx, entries []domain.LedgerEntry) error {
	args := m.Called(ctx, tx, entries)
	return args.Error(0)
}

func (m *MockLedgerRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, entryID)
	var e *domain.LedgerEntry
	if args.Get(0) != nil {
		e = args.Get(0).(*domain.LedgerEntry)
	}
	return e, args.Error(1)
}

func (m *MockLedgerRepository) ListEntriesByStakeholder(ctx context.Context, stakeholderID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	args := m.Called(ctx, stakeholderID, limit, nextToken)
	var entries []domain.LedgerEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]domain.LedgerEntry)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return entries, token, args.Error(2)
}

func (m *MockLedgerRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	var tx pgx.Tx
	if args.Get(0) != nil {
		tx = args.Get(0).(pgx.Tx)
	}
	return tx, args.Error(1)
}

func (m *MockLedgerRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockLedgerRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

var _ portsrepo.LedgerRepositoryFacade = (*MockLedgerRepository)(nil)

// --- Mock PolicyRepository ---

type MockPolicyRepository struct {
	mock.Mock
}

func (m *MockPolicyRepository) FindPolicyByID(ctx context.Context, policyID string) (*domain.PolicyConfig, error) {
	args := m.Called(ctx, policyID)
	var p *domain.PolicyConfig
	if args.Get(0) != nil {
		p = args.Get(0).(*domain.PolicyConfig)
	}
	return p, args.Error(1)
}

func (m *MockPolicyRepository) FindActivePolicy(ctx context.Context) (*domain.PolicyConfig, error) {
	args := m.Called(ctx)
	var p *domain.PolicyConfig
	if args.Get(0) != nil {
		p = args.Get(0).(*domain.PolicyConfig)
	}
	return p, args.Error(1)
}

func (m *MockPolicyRepository) ListPolicies(ctx context.Context, limit int, offset int) ([]domain.PolicyConfig, error) {
	args := m.Called(ctx, limit, offset)
	var out []domain.PolicyConfig
	if args.Get(0) != nil {
		out = args.Get(0).([]domain.PolicyConfig)
	}
	return out, args.Error(1)
}

func (m *MockPolicyRepository) SavePolicy(ctx context.Context, policy domain.PolicyConfig) error {
	args := m.Called(ctx, policy)
	return args.Error(0)
}

func (m *MockPolicyRepository) ActivatePolicy(ctx context.Context, policyID string, userID string, now time.Time) error {
	args := m.Called(ctx, policyID, userID, now)
	return args.Error(0)
}

var _ portsrepo.PolicyRepositoryFacade = (*MockPolicyRepository)(nil)

// --- Mock ExpenseRepository ---

type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.ExpenseRecord, error) {
	args := m.Called(ctx, expenseID)
	var e *domain.ExpenseRecord
	if args.Get(0) != nil {
		e = args.Get(0).(*domain.ExpenseRecord)
	}
	return e, args.Error(1)
}

func (m *MockExpenseRepository) ListExpenses(ctx context.Context, limit int, offset int) ([]domain.ExpenseRecord, error) {
	args := m.Called(ctx, limit, offset)
	var out []domain.ExpenseRecord
	if args.Get(0) != nil {
		out = args.Get(0).([]domain.ExpenseRecord)
	}
	return out, args.Error(1)
}

func (m *MockExpenseRepository) ListUnpaidSharesByPartner(ctx context.Context, partnerID string) ([]domain.ExpenseShare, error) {
	args := m.Called(ctx, partnerID)
	var out []domain.ExpenseShare
	if args.Get(0) != nil {
		out = args.Get(0).([]domain.ExpenseShare)
	}
	return out, args.Error(1)
}

func (m *MockExpenseRepository) SaveExpense(ctx context.Context, expense domain.ExpenseRecord, mutations []domain.BalanceMutation) error {
	args := m.Called(ctx, expense, mutations)
	return args.Error(0)
}

var _ portsrepo.ExpenseRepositoryFacade = (*MockExpenseRepository)(nil)

// --- Mock SettlementRepository ---

type MockSettlementRepository struct {
	mock.Mock
}

func (m *MockSettlementRepository) RecordSettlement(ctx context.Context, settlement domain.SettlementRecord, explicitExpenseIDs []string, debtEntryTemplate domain.LedgerEntry) (*portsrepo.SettlementResult, error) {
	args := m.Called(ctx, settlement, explicitExpenseIDs, debtEntryTemplate)
	var r *portsrepo.SettlementResult
	if args.Get(0) != nil {
		r = args.Get(0).(*portsrepo.SettlementResult)
	}
	return r, args.Error(1)
}

func (m *MockSettlementRepository) FindSettlementByID(ctx context.Context, settlementID string) (*domain.SettlementRecord, error) {
	args := m.Called(ctx, settlementID)
	var s *domain.SettlementRecord
	if args.Get(0) != nil {
		s = args.Get(0).(*domain.SettlementRecord)
	}
	return s, args.Error(1)
}

func (m *MockSettlementRepository) ListSettlementsByPartner(ctx context.Context, partnerID string, limit int, offset int) ([]domain.SettlementRecord, error) {
	args := m.Called(ctx, partnerID, limit, offset)
	var out []domain.SettlementRecord
	if args.Get(0) != nil {
		out = args.Get(0).([]domain.SettlementRecord)
	}
	return out, args.Error(1)
}

var _ portsrepo.SettlementRepositoryFacade = (*MockSettlementRepository)(nil)

// --- Mock PayoutRepository ---

type MockPayoutRepository struct {
	mock.Mock
}

func (m *MockPayoutRepository) FindPayoutRequestByID(ctx context.Context, requestID string) (*domain.PayoutRequest, error) {
	args := m.Called(ctx, requestID)
	var r *domain.PayoutRequest
	if args.Get(0) != nil {
		r = args.Get(0).(*domain.PayoutRequest)
	}
	return r, args.Error(1)
}

func (m *MockPayoutRepository) ListPayoutRequests(ctx context.Context, status *domain.PayoutStatus, limit int, offset int) ([]domain.PayoutRequest, error) {
	args := m.Called(ctx, status, limit, offset)
	var out []domain.PayoutRequest
	if args.Get(0) != nil {
		out = args.Get(0).([]domain.PayoutRequest)
	}
	return out, args.Error(1)
}

func (m *MockPayoutRepository) SavePayoutRequest(ctx context.Context, request domain.PayoutRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockPayoutRepository) ResolvePayout(ctx context.Context, request domain.PayoutRequest, mutations []domain.BalanceMutation, auditExpense *domain.ExpenseRecord) error {
	args := m.Called(ctx, request, mutations, auditExpense)
	return args.Error(0)
}

var _ portsrepo.PayoutRepositoryFacade = (*MockPayoutRepository)(nil)

// --- Mock Notifier ---

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, stakeholderID string, subject string, message string) {
	m.Called(ctx, stakeholderID, subject, message)
}
