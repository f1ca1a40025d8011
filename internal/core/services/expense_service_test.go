package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/muz4miL/genius-academia-sub002/internal/apperrors"
	"github.com/muz4miL/genius-academia-sub002/internal/core/domain"
	portssvc "github.com/muz4miL/genius-academia-sub002/internal/core/ports/services"
	"github.com/muz4miL/genius-academia-sub002/internal/core/services"
	"github.com/muz4miL/genius-academia-sub002/internal/dto"
)

type ExpenseServiceTestSuite struct {
	suite.Suite
	mockExpenseRepo     *MockExpenseRepository
	mockLedgerRepo      *MockLedgerRepository
	mockStakeholderRepo *MockStakeholderRepository
	mockPolicyRepo      *MockPolicyRepository
	mockNotifier        *MockNotifier
	service             portssvc.ExpenseSvcFacade
}

func (suite *ExpenseServiceTestSuite) SetupTest() {
	suite.mockExpenseRepo = new(MockExpenseRepository)
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.mockStakeholderRepo = new(MockStakeholderRepository)
	suite.mockPolicyRepo = new(MockPolicyRepository)
	suite.mockNotifier = new(MockNotifier)
	suite.service = services.NewExpenseService(suite.mockExpenseRepo, suite.mockLedgerRepo, suite.mockStakeholderRepo, suite.mockPolicyRepo, suite.mockNotifier)
}

func (suite *ExpenseServiceTestSuite) TestRecordExpense_OrganizationPaid() {
	ctx := context.Background()

	suite.mockPolicyRepo.On("FindActivePolicy", ctx).Return(testPolicy(), nil).Once()
	suite.mockExpenseRepo.On("SaveExpense", ctx,
		mock.MatchedBy(func(e domain.ExpenseRecord) bool {
			if e.Amount != 9000 || e.PaidByType != domain.PaidByOrganization || len(e.Shares) != 3 {
				return false
			}
			for _, share := range e.Shares {
				if share.Status != domain.ShareNotApplicable {
					return false
				}
			}
			return true
		}),
		[]domain.BalanceMutation(nil),
	).Return(nil).Once()

	expense, err := suite.service.RecordExpense(ctx, dto.RecordExpenseRequest{
		Amount:     9000,
		Category:   "UTILITIES",
		PaidByType: domain.PaidByOrganization,
	}, "admin-1")

	suite.Require().NoError(err)
	// 9000 over 40/30/30.
	suite.Equal(int64(3600), expense.Shares[0].Amount)
	suite.Equal(int64(2700), expense.Shares[1].Amount)
	suite.Equal(int64(2700), expense.Shares[2].Amount)
	suite.mockExpenseRepo.AssertExpectations(suite.T())
	// Organization-paid expenses touch no wallet and accrue no debt.
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "ApplyMutations")
}

func (suite *ExpenseServiceTestSuite) TestRecordExpense_PartnerPaidDebitsWallet() {
	ctx := context.Background()
	payer := &domain.Stakeholder{StakeholderID: partnerB, Role: domain.RolePartner, IsActive: true}

	// Found twice: payer validation, then the debt-accrual role check.
	suite.mockStakeholderRepo.On("FindStakeholderByID", ctx, partnerB).Return(payer, nil).Twice()
	suite.mockPolicyRepo.On("FindActivePolicy", ctx).Return(testPolicy(), nil).Once()
	suite.mockExpenseRepo.On("SaveExpense", ctx,
		mock.MatchedBy(func(e domain.ExpenseRecord) bool {
			if e.PaidByType != domain.PaidByPartner || e.PaidByPartnerID != partnerB {
				return false
			}
			statuses := map[string]domain.ShareStatus{}
			for _, share := range e.Shares {
				statuses[share.PartnerID] = share.Status
			}
			return statuses[partnerB] == domain.SharePaid &&
				statuses[partnerA] == domain.ShareUnpaid &&
				statuses[partnerC] == domain.ShareUnpaid
		}),
		mock.MatchedBy(func(mutations []domain.BalanceMutation) bool {
			return len(mutations) == 1 &&
				mutations[0].StakeholderID == partnerB &&
				mutations[0].Deltas[0] == domain.BucketDelta{Bucket: domain.BucketWallet, Delta: -6000}
		}),
	).Return(nil).Once()

	expense, err := suite.service.RecordExpense(ctx, dto.RecordExpenseRequest{
		Amount:          6000,
		Category:        "SUPPLIES",
		PaidByType:      domain.PaidByPartner,
		PaidByPartnerID: partnerB,
	}, "admin-1")

	suite.Require().NoError(err)
	suite.NotEmpty(expense.ExpenseID)
	suite.mockExpenseRepo.AssertExpectations(suite.T())
	// The payer is a plain partner, not the proprietor: no debt ledger writes.
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "ApplyMutations")
}

func (suite *ExpenseServiceTestSuite) TestRecordExpense_ProprietorPaidAccruesDebt() {
	ctx := context.Background()
	proprietor := &domain.Stakeholder{StakeholderID: partnerA, Role: domain.RoleProprietor, IsActive: true}

	suite.mockStakeholderRepo.On("FindStakeholderByID", ctx, partnerA).Return(proprietor, nil).Twice()
	suite.mockPolicyRepo.On("FindActivePolicy", ctx).Return(testPolicy(), nil).Once()
	suite.mockExpenseRepo.On("SaveExpense", ctx, mock.AnythingOfType("domain.ExpenseRecord"), mock.Anything).Return(nil).Once()

	// 6000 over 40/30/30: partners B and C owe 1800 each.
	debtBatch := func(partnerID string, amount int64) func([]domain.BalanceMutation) bool {
		return func(mutations []domain.BalanceMutation) bool {
			if len(mutations) != 1 {
				return false
			}
			m := mutations[0]
			return m.StakeholderID == partnerID &&
				m.Deltas[0] == domain.BucketDelta{Bucket: domain.BucketDebt, Delta: amount} &&
				m.Entries[0].Kind == domain.EntryDebt &&
				m.Entries[0].Status == domain.StatusPending
		}
	}
	suite.mockLedgerRepo.On("ApplyMutations", ctx, mock.MatchedBy(debtBatch(partnerB, 1800))).Return(nil).Once()
	suite.mockLedgerRepo.On("ApplyMutations", ctx, mock.MatchedBy(debtBatch(partnerC, 1800))).Return(nil).Once()
	suite.mockNotifier.On("Notify", ctx, partnerB, mock.Anything, mock.Anything).Once()
	suite.mockNotifier.On("Notify", ctx, partnerC, mock.Anything, mock.Anything).Once()

	_, err := suite.service.RecordExpense(ctx, dto.RecordExpenseRequest{
		Amount:          6000,
		Category:        "RENT",
		PaidByType:      domain.PaidByPartner,
		PaidByPartnerID: partnerA,
	}, "admin-1")

	suite.Require().NoError(err)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
	suite.mockNotifier.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestRecordExpense_DebtAccrualFailureDoesNotFailExpense() {
	ctx := context.Background()
	proprietor := &domain.Stakeholder{StakeholderID: partnerA, Role: domain.RoleProprietor, IsActive: true}

	suite.mockStakeholderRepo.On("FindStakeholderByID", ctx, partnerA).Return(proprietor, nil).Twice()
	suite.mockPolicyRepo.On("FindActivePolicy", ctx).Return(testPolicy(), nil).Once()
	suite.mockExpenseRepo.On("SaveExpense", ctx, mock.AnythingOfType("domain.ExpenseRecord"), mock.Anything).Return(nil).Once()
	suite.mockLedgerRepo.On("ApplyMutations", ctx, mock.Anything).Return(assert.AnError).Twice()

	expense, err := suite.service.RecordExpense(ctx, dto.RecordExpenseRequest{
		Amount:          6000,
		Category:        "RENT",
		PaidByType:      domain.PaidByPartner,
		PaidByPartnerID: partnerA,
	}, "admin-1")

	suite.Require().NoError(err)
	suite.NotNil(expense)
	// Failed accruals produce no notifications.
	suite.mockNotifier.AssertNotCalled(suite.T(), "Notify")
}

func (suite *ExpenseServiceTestSuite) TestRecordExpense_PartnerPaidRequiresPartnerID() {
	ctx := context.Background()

	expense, err := suite.service.RecordExpense(ctx, dto.RecordExpenseRequest{
		Amount:     6000,
		Category:   "SUPPLIES",
		PaidByType: domain.PaidByPartner,
	}, "admin-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(expense)
	suite.mockExpenseRepo.AssertNotCalled(suite.T(), "SaveExpense")
}

func (suite *ExpenseServiceTestSuite) TestRecordExpense_PayerNotPartnerLike() {
	ctx := context.Background()
	staff := &domain.Stakeholder{StakeholderID: "teacher-1", Role: domain.RoleStaff, IsActive: true}

	suite.mockStakeholderRepo.On("FindStakeholderByID", ctx, "teacher-1").Return(staff, nil).Once()

	expense, err := suite.service.RecordExpense(ctx, dto.RecordExpenseRequest{
		Amount:          6000,
		Category:        "SUPPLIES",
		PaidByType:      domain.PaidByPartner,
		PaidByPartnerID: "teacher-1",
	}, "admin-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(expense)
}

func (suite *ExpenseServiceTestSuite) TestGetExpenseByID_NotFound() {
	ctx := context.Background()

	suite.mockExpenseRepo.On("FindExpenseByID", ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()

	expense, err := suite.service.GetExpenseByID(ctx, "missing")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(expense)
}

func TestExpenseServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExpenseServiceTestSuite))
}
