package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/muz4miL/genius-academia-sub002/internal/apperrors"
	"github.com/muz4miL/genius-academia-sub002/internal/core/domain"
	portssvc "github.com/muz4miL/genius-academia-sub002/internal/core/ports/services"
	"github.com/muz4miL/genius-academia-sub002/internal/core/services"
	"github.com/muz4miL/genius-academia-sub002/internal/dto"
)

type PayoutServiceTestSuite struct {
	suite.Suite
	mockPayoutRepo      *MockPayoutRepository
	mockStakeholderRepo *MockStakeholderRepository
	mockPolicyRepo      *MockPolicyRepository
	mockNotifier        *MockNotifier
	service             portssvc.PayoutSvcFacade
}

func (suite *PayoutServiceTestSuite) SetupTest() {
	suite.mockPayoutRepo = new(MockPayoutRepository)
	suite.mockStakeholderRepo = new(MockStakeholderRepository)
	suite.mockPolicyRepo = new(MockPolicyRepository)
	suite.mockNotifier = new(MockNotifier)
	suite.service = services.NewPayoutService(suite.mockPayoutRepo, suite.mockStakeholderRepo, suite.mockPolicyRepo, suite.mockNotifier)
}

func (suite *PayoutServiceTestSuite) TestRequestPayout_Success() {
	ctx := context.Background()
	teacher := &domain.Stakeholder{StakeholderID: "teacher-1", Role: domain.RoleStaff, VerifiedBalance: 10000, IsActive: true}

	suite.mockStakeholderRepo.On("FindStakeholderByID", ctx, "teacher-1").Return(teacher, nil).Once()
	suite.mockPayoutRepo.On("SavePayoutRequest", ctx, mock.MatchedBy(func(r domain.PayoutRequest) bool {
		return r.StakeholderID == "teacher-1" && r.Amount == 4000 && r.Status == domain.PayoutPending
	})).Return(nil).Once()

	request, err := suite.service.RequestPayout(ctx, dto.RequestPayoutRequest{StakeholderID: "teacher-1", Amount: 4000}, "teacher-1")

	suite.Require().NoError(err)
	suite.Equal(domain.PayoutPending, request.Status)
	suite.NotEmpty(request.RequestID)
	suite.mockPayoutRepo.AssertExpectations(suite.T())
}

func (suite *PayoutServiceTestSuite) TestRequestPayout_ExceedsVerifiedBalance() {
	ctx := context.Background()
	teacher := &domain.Stakeholder{StakeholderID: "teacher-1", Role: domain.RoleStaff, VerifiedBalance: 3000, IsActive: true}

	suite.mockStakeholderRepo.On("FindStakeholderByID", ctx, "teacher-1").Return(teacher, nil).Once()

	request, err := suite.service.RequestPayout(ctx, dto.RequestPayoutRequest{StakeholderID: "teacher-1", Amount: 4000}, "teacher-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientBalance)
	suite.Nil(request)
	suite.mockPayoutRepo.AssertNotCalled(suite.T(), "SavePayoutRequest")
}

func (suite *PayoutServiceTestSuite) TestRequestPayout_DuplicatePending() {
	ctx := context.Background()
	teacher := &domain.Stakeholder{StakeholderID: "teacher-1", Role: domain.RoleStaff, VerifiedBalance: 10000, IsActive: true}

	suite.mockStakeholderRepo.On("FindStakeholderByID", ctx, "teacher-1").Return(teacher, nil).Once()
	suite.mockPayoutRepo.On("SavePayoutRequest", ctx, mock.AnythingOfType("domain.PayoutRequest")).Return(apperrors.ErrDuplicatePending).Once()

	request, err := suite.service.RequestPayout(ctx, dto.RequestPayoutRequest{StakeholderID: "teacher-1", Amount: 4000}, "teacher-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicatePending)
	suite.Nil(request)
}

func (suite *PayoutServiceTestSuite) TestApprovePayout_Success() {
	ctx := context.Background()
	pending := &domain.PayoutRequest{
		RequestID:     "req-1",
		StakeholderID: "teacher-1",
		Amount:        4000,
		Status:        domain.PayoutPending,
		RequestDate:   time.Now().UTC(),
	}
	teacher := &domain.Stakeholder{StakeholderID: "teacher-1", Name: "Teacher One", Role: domain.RoleStaff, VerifiedBalance: 10000, IsActive: true}

	suite.mockPayoutRepo.On("FindPayoutRequestByID", ctx, "req-1").Return(pending, nil).Once()
	suite.mockStakeholderRepo.On("FindStakeholderByID", ctx, "teacher-1").Return(teacher, nil).Once()
	suite.mockPolicyRepo.On("FindActivePolicy", ctx).Return(testPolicy(), nil).Once()
	suite.mockPayoutRepo.On("ResolvePayout", ctx,
		mock.MatchedBy(func(r domain.PayoutRequest) bool {
			return r.RequestID == "req-1" && r.Status == domain.PayoutApproved && r.ResolvedBy == "admin-1" && r.LedgerEntryID != ""
		}),
		mock.MatchedBy(func(mutations []domain.BalanceMutation) bool {
			// One batch for the payee, one wallet debit per partner:
			// 4000 over 40/30/30 is 1600/1200/1200.
			if len(mutations) != 4 {
				return false
			}
			payee := mutations[0]
			if payee.StakeholderID != "teacher-1" || len(payee.Deltas) != 2 {
				return false
			}
			if (payee.Deltas[0] != domain.BucketDelta{Bucket: domain.BucketVerified, Delta: -4000}) {
				return false
			}
			if (payee.Deltas[1] != domain.BucketDelta{Bucket: domain.BucketPaidOut, Delta: 4000}) {
				return false
			}
			total := int64(0)
			for _, m := range mutations[1:] {
				if m.Deltas[0].Bucket != domain.BucketWallet || m.Deltas[0].Delta >= 0 {
					return false
				}
				total += -m.Deltas[0].Delta
			}
			return total == 4000
		}),
		mock.MatchedBy(func(expense *domain.ExpenseRecord) bool {
			return expense != nil && expense.Amount == 4000 && expense.PaidByType == domain.PaidByOrganization && len(expense.Shares) == 3
		}),
	).Return(nil).Once()
	suite.mockNotifier.On("Notify", ctx, "teacher-1", mock.Anything, mock.Anything).Once()

	resolved, err := suite.service.ApprovePayout(ctx, "req-1", "approved", "admin-1")

	suite.Require().NoError(err)
	suite.Equal(domain.PayoutApproved, resolved.Status)
	suite.NotEmpty(resolved.ExpenseID)
	suite.NotNil(resolved.ResolvedAt)
	suite.mockPayoutRepo.AssertExpectations(suite.T())
	suite.mockNotifier.AssertExpectations(suite.T())
}

func (suite *PayoutServiceTestSuite) TestApprovePayout_AlreadyResolved() {
	ctx := context.Background()
	approved := &domain.PayoutRequest{RequestID: "req-1", StakeholderID: "teacher-1", Amount: 4000, Status: domain.PayoutApproved}

	suite.mockPayoutRepo.On("FindPayoutRequestByID", ctx, "req-1").Return(approved, nil).Once()

	resolved, err := suite.service.ApprovePayout(ctx, "req-1", "", "admin-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.Nil(resolved)
	suite.mockPayoutRepo.AssertNotCalled(suite.T(), "ResolvePayout")
}

func (suite *PayoutServiceTestSuite) TestApprovePayout_BalanceDroppedSinceRequest() {
	ctx := context.Background()
	pending := &domain.PayoutRequest{RequestID: "req-1", StakeholderID: "teacher-1", Amount: 4000, Status: domain.PayoutPending}
	teacher := &domain.Stakeholder{StakeholderID: "teacher-1", Role: domain.RoleStaff, VerifiedBalance: 1000, IsActive: true}

	suite.mockPayoutRepo.On("FindPayoutRequestByID", ctx, "req-1").Return(pending, nil).Once()
	suite.mockStakeholderRepo.On("FindStakeholderByID", ctx, "teacher-1").Return(teacher, nil).Once()

	resolved, err := suite.service.ApprovePayout(ctx, "req-1", "", "admin-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientBalance)
	suite.Nil(resolved)
	suite.mockPayoutRepo.AssertNotCalled(suite.T(), "ResolvePayout")
}

func (suite *PayoutServiceTestSuite) TestApprovePayout_LostRace() {
	ctx := context.Background()
	pending := &domain.PayoutRequest{RequestID: "req-1", StakeholderID: "teacher-1", Amount: 4000, Status: domain.PayoutPending}
	teacher := &domain.Stakeholder{StakeholderID: "teacher-1", Role: domain.RoleStaff, VerifiedBalance: 10000, IsActive: true}

	suite.mockPayoutRepo.On("FindPayoutRequestByID", ctx, "req-1").Return(pending, nil).Once()
	suite.mockStakeholderRepo.On("FindStakeholderByID", ctx, "teacher-1").Return(teacher, nil).Once()
	suite.mockPolicyRepo.On("FindActivePolicy", ctx).Return(testPolicy(), nil).Once()
	// Another resolver flipped the status between our read and the update.
	suite.mockPayoutRepo.On("ResolvePayout", ctx, mock.Anything, mock.Anything, mock.Anything).Return(apperrors.ErrInvalidState).Once()

	resolved, err := suite.service.ApprovePayout(ctx, "req-1", "", "admin-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.Nil(resolved)
	suite.mockNotifier.AssertNotCalled(suite.T(), "Notify")
}

func (suite *PayoutServiceTestSuite) TestRejectPayout_Success() {
	ctx := context.Background()
	pending := &domain.PayoutRequest{RequestID: "req-1", StakeholderID: "teacher-1", Amount: 4000, Status: domain.PayoutPending}

	suite.mockPayoutRepo.On("FindPayoutRequestByID", ctx, "req-1").Return(pending, nil).Once()
	suite.mockPayoutRepo.On("ResolvePayout", ctx,
		mock.MatchedBy(func(r domain.PayoutRequest) bool {
			return r.Status == domain.PayoutRejected && r.Notes == "cash flow" && r.ResolvedBy == "admin-1"
		}),
		mock.Anything, mock.Anything,
	).Run(func(args mock.Arguments) {
		// A rejection must not touch any balance.
		suite.Nil(args.Get(2))
		suite.Nil(args.Get(3))
	}).Return(nil).Once()
	suite.mockNotifier.On("Notify", ctx, "teacher-1", "Payout rejected", "cash flow").Once()

	resolved, err := suite.service.RejectPayout(ctx, "req-1", "cash flow", "admin-1")

	suite.Require().NoError(err)
	suite.Equal(domain.PayoutRejected, resolved.Status)
	suite.mockPayoutRepo.AssertExpectations(suite.T())
}

func (suite *PayoutServiceTestSuite) TestRejectPayout_ReasonRequired() {
	ctx := context.Background()

	resolved, err := suite.service.RejectPayout(ctx, "req-1", "", "admin-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(resolved)
	suite.mockPayoutRepo.AssertNotCalled(suite.T(), "FindPayoutRequestByID")
}

func (suite *PayoutServiceTestSuite) TestRequestPayout_NotFound() {
	ctx := context.Background()

	suite.mockStakeholderRepo.On("FindStakeholderByID", ctx, "ghost").Return(nil, apperrors.ErrNotFound).Once()

	request, err := suite.service.RequestPayout(ctx, dto.RequestPayoutRequest{StakeholderID: "ghost", Amount: 100}, "ghost")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(request)
}

func TestPayoutServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PayoutServiceTestSuite))
}
