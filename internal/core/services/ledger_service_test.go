package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/muz4miL/genius-academia-sub002/internal/apperrors"
	"github.com/muz4miL/genius-academia-sub002/internal/core/domain"
	portssvc "github.com/muz4miL/genius-academia-sub002/internal/core/ports/services"
	"github.com/muz4miL/genius-academia-sub002/internal/core/services"
)

type LedgerServiceTestSuite struct {
	suite.Suite
	mockLedgerRepo      *MockLedgerRepository
	mockStakeholderRepo *MockStakeholderRepository
	service             portssvc.LedgerSvcFacade
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.mockStakeholderRepo = new(MockStakeholderRepository)
	suite.service = services.NewLedgerService(suite.mockLedgerRepo, suite.mockStakeholderRepo)
}

func (suite *LedgerServiceTestSuite) TestCredit_Success() {
	ctx := context.Background()
	op := portssvc.LedgerOp{
		StakeholderID: "teacher-1",
		Bucket:        domain.BucketFloating,
		Amount:        2500,
		Kind:          domain.EntryIncome,
		Status:        domain.StatusFloating,
		Stream:        domain.StreamStaffTuition,
		SourceType:    domain.SourceFeeCollection,
		SourceID:      "fee-1",
	}

	suite.mockLedgerRepo.On("ApplyMutations", ctx, mock.MatchedBy(func(mutations []domain.BalanceMutation) bool {
		return len(mutations) == 1 &&
			mutations[0].Deltas[0] == domain.BucketDelta{Bucket: domain.BucketFloating, Delta: 2500} &&
			mutations[0].Entries[0].Direction == domain.DirectionCredit
	})).Return(nil).Once()

	entry, err := suite.service.Credit(ctx, op, "admin-1")

	suite.Require().NoError(err)
	suite.Equal("teacher-1", entry.StakeholderID)
	suite.Equal(int64(2500), entry.Amount)
	suite.NotEmpty(entry.EntryID)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestDebit_InsufficientBalancePropagates() {
	ctx := context.Background()
	op := portssvc.LedgerOp{
		StakeholderID: "teacher-1",
		Bucket:        domain.BucketVerified,
		Amount:        9999,
		Kind:          domain.EntryExpense,
		Status:        domain.StatusVerified,
		Stream:        domain.StreamPayout,
		SourceType:    domain.SourcePayout,
		SourceID:      "req-1",
	}

	suite.mockLedgerRepo.On("ApplyMutations", ctx, mock.Anything).Return(apperrors.ErrInsufficientBalance).Once()

	entry, err := suite.service.Debit(ctx, op, "admin-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientBalance)
	suite.Nil(entry)
}

func (suite *LedgerServiceTestSuite) TestCredit_RejectsNonPositiveAmount() {
	ctx := context.Background()

	entry, err := suite.service.Credit(ctx, portssvc.LedgerOp{StakeholderID: "x", Amount: 0}, "admin-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(entry)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "ApplyMutations")
}

func (suite *LedgerServiceTestSuite) TestTransferBucket_BothSidesInOneBatch() {
	ctx := context.Background()

	suite.mockLedgerRepo.On("ApplyMutations", ctx, mock.MatchedBy(func(mutations []domain.BalanceMutation) bool {
		if len(mutations) != 1 {
			return false
		}
		m := mutations[0]
		if m.StakeholderID != "teacher-1" || len(m.Deltas) != 2 || len(m.Entries) != 2 {
			return false
		}
		return m.Deltas[0] == domain.BucketDelta{Bucket: domain.BucketFloating, Delta: -3000} &&
			m.Deltas[1] == domain.BucketDelta{Bucket: domain.BucketVerified, Delta: 3000} &&
			m.Entries[0].Direction == domain.DirectionDebit &&
			m.Entries[1].Direction == domain.DirectionCredit &&
			m.Entries[0].SourceID == m.Entries[1].SourceID
	})).Return(nil).Once()

	err := suite.service.TransferBucket(ctx, "teacher-1", domain.BucketFloating, domain.BucketVerified, 3000, "day-close")

	suite.Require().NoError(err)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestTransferBucket_SameBucketRejected() {
	ctx := context.Background()

	err := suite.service.TransferBucket(ctx, "teacher-1", domain.BucketFloating, domain.BucketFloating, 3000, "day-close")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "ApplyMutations")
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
