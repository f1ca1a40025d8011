package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/muz4miL/genius-academia-sub002/internal/apperrors"
	"github.com/muz4miL/genius-academia-sub002/internal/core/domain"
	portssvc "github.com/muz4miL/genius-academia-sub002/internal/core/ports/services"
	"github.com/muz4miL/genius-academia-sub002/internal/core/services"
	"github.com/muz4miL/genius-academia-sub002/internal/dto"
)

const (
	partnerA = "partner-a"
	partnerB = "partner-b"
	partnerC = "partner-c"
)

// testPolicy mirrors the production configuration: 70% staff share, a fixed
// exam commission, and 40/30/30 partner groups.
func testPolicy() *domain.PolicyConfig {
	shares := []domain.ShareRatio{
		{PartnerID: partnerA, Percent: decimal.NewFromInt(40)},
		{PartnerID: partnerB, Percent: decimal.NewFromInt(30)},
		{PartnerID: partnerC, Percent: decimal.NewFromInt(30)},
	}
	return &domain.PolicyConfig{
		PolicyID:              uuid.NewString(),
		Name:                  "standard",
		StaffSharePercent:     decimal.NewFromInt(70),
		PartnerFullShare:      true,
		ExamCommissionPerHead: 3000,
		FixedSalarySubject:    "English",
		TuitionPoolShares:     shares,
		ExamPoolShares:        shares,
		ExpenseSplits:         shares,
		IsActive:              true,
	}
}

type FeeServiceTestSuite struct {
	suite.Suite
	mockLedgerRepo      *MockLedgerRepository
	mockStakeholderRepo *MockStakeholderRepository
	mockPolicyRepo      *MockPolicyRepository
	service             portssvc.FeeSvcFacade
}

func (suite *FeeServiceTestSuite) SetupTest() {
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.mockStakeholderRepo = new(MockStakeholderRepository)
	suite.mockPolicyRepo = new(MockPolicyRepository)
	suite.service = services.NewFeeService(suite.mockLedgerRepo, suite.mockStakeholderRepo, suite.mockPolicyRepo)
}

// isDividendBatch reports whether a mutation batch is a single dividend credit
// for the given partner, as opposed to the primary fee batch.
func isDividendBatch(partnerID string, amount int64) func([]domain.BalanceMutation) bool {
	return func(mutations []domain.BalanceMutation) bool {
		if len(mutations) != 1 {
			return false
		}
		m := mutations[0]
		return m.StakeholderID == partnerID &&
			len(m.Entries) == 1 &&
			m.Entries[0].Kind == domain.EntryDividend &&
			m.Entries[0].Amount == amount
	}
}

func isPrimaryFeeBatch(mutations []domain.BalanceMutation) bool {
	for _, m := range mutations {
		for _, e := range m.Entries {
			if e.Kind == domain.EntryDividend {
				return false
			}
		}
	}
	return true
}

func (suite *FeeServiceTestSuite) TestRecordFeeCollection_ProprietorKeepsAll() {
	ctx := context.Background()
	proprietor := &domain.Stakeholder{StakeholderID: "boss", Role: domain.RoleProprietor, IsActive: true}

	suite.mockStakeholderRepo.On("FindStakeholderByID", ctx, "boss").Return(proprietor, nil).Once()
	suite.mockPolicyRepo.On("FindActivePolicy", ctx).Return(testPolicy(), nil).Once()
	suite.mockLedgerRepo.On("ApplyMutations", ctx, mock.MatchedBy(func(mutations []domain.BalanceMutation) bool {
		return len(mutations) == 1 &&
			mutations[0].StakeholderID == "boss" &&
			mutations[0].Deltas[0] == domain.BucketDelta{Bucket: domain.BucketFloating, Delta: 5000}
	})).Return(nil).Once()

	resp, err := suite.service.RecordFeeCollection(ctx, dto.RecordFeeRequest{
		StakeholderID:   "boss",
		Amount:          5000,
		SessionCategory: domain.SessionRegular,
		Subject:         "Math",
	}, "admin-1")

	suite.Require().NoError(err)
	suite.Equal(int64(5000), resp.Split.InstructorAmount)
	suite.Equal(int64(0), resp.Split.PoolAmount)
	suite.Equal(string(domain.StreamProprietorDirect), resp.Split.Stream)
	suite.Empty(resp.Dividends)
	suite.Len(resp.LedgerEntryIDs, 1)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *FeeServiceTestSuite) TestRecordFeeCollection_StaffSplitDistributesDividends() {
	ctx := context.Background()
	staff := &domain.Stakeholder{StakeholderID: "teacher-1", Role: domain.RoleStaff, IsActive: true}

	suite.mockStakeholderRepo.On("FindStakeholderByID", ctx, "teacher-1").Return(staff, nil).Once()
	suite.mockPolicyRepo.On("FindActivePolicy", ctx).Return(testPolicy(), nil).Once()

	// Primary batch: instructor floating credit plus the organization pool entry.
	suite.mockLedgerRepo.On("ApplyMutations", ctx, mock.MatchedBy(func(mutations []domain.BalanceMutation) bool {
		if len(mutations) != 2 || !isPrimaryFeeBatch(mutations) {
			return false
		}
		return mutations[0].StakeholderID == "teacher-1" &&
			mutations[0].Entries[0].Amount == 3500 &&
			mutations[1].StakeholderID == "" &&
			mutations[1].Entries[0].Amount == 1500
	})).Return(nil).Once()

	// 1500 pool over 40/30/30: 600, 450, remainder 450.
	suite.mockLedgerRepo.On("ApplyMutations", ctx, mock.MatchedBy(isDividendBatch(partnerA, 600))).Return(nil).Once()
	suite.mockLedgerRepo.On("ApplyMutations", ctx, mock.MatchedBy(isDividendBatch(partnerB, 450))).Return(nil).Once()
	suite.mockLedgerRepo.On("ApplyMutations", ctx, mock.MatchedBy(isDividendBatch(partnerC, 450))).Return(nil).Once()

	resp, err := suite.service.RecordFeeCollection(ctx, dto.RecordFeeRequest{
		StakeholderID:   "teacher-1",
		Amount:          5000,
		SessionCategory: domain.SessionRegular,
		Subject:         "Physics",
	}, "admin-1")

	suite.Require().NoError(err)
	suite.Equal(int64(3500), resp.Split.InstructorAmount)
	suite.Equal(int64(1500), resp.Split.PoolAmount)
	suite.Equal([]dto.DividendShare{
		{PartnerID: partnerA, Amount: 600},
		{PartnerID: partnerB, Amount: 450},
		{PartnerID: partnerC, Amount: 450},
	}, resp.Dividends)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *FeeServiceTestSuite) TestRecordFeeCollection_DividendFailureIsIsolated() {
	ctx := context.Background()
	staff := &domain.Stakeholder{StakeholderID: "teacher-1", Role: domain.RoleStaff, IsActive: true}

	suite.mockStakeholderRepo.On("FindStakeholderByID", ctx, "teacher-1").Return(staff, nil).Once()
	suite.mockPolicyRepo.On("FindActivePolicy", ctx).Return(testPolicy(), nil).Once()
	suite.mockLedgerRepo.On("ApplyMutations", ctx, mock.MatchedBy(isPrimaryFeeBatch)).Return(nil).Once()

	suite.mockLedgerRepo.On("ApplyMutations", ctx, mock.MatchedBy(isDividendBatch(partnerA, 600))).Return(nil).Once()
	suite.mockLedgerRepo.On("ApplyMutations", ctx, mock.MatchedBy(isDividendBatch(partnerB, 450))).Return(assert.AnError).Once()
	suite.mockLedgerRepo.On("ApplyMutations", ctx, mock.MatchedBy(isDividendBatch(partnerC, 450))).Return(nil).Once()

	resp, err := suite.service.RecordFeeCollection(ctx, dto.RecordFeeRequest{
		StakeholderID:   "teacher-1",
		Amount:          5000,
		SessionCategory: domain.SessionRegular,
		Subject:         "Physics",
	}, "admin-1")

	// The fee itself committed; only partner B's dividend is missing.
	suite.Require().NoError(err)
	suite.Equal([]dto.DividendShare{
		{PartnerID: partnerA, Amount: 600},
		{PartnerID: partnerC, Amount: 450},
	}, resp.Dividends)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *FeeServiceTestSuite) TestRecordFeeCollection_ExamCommissionCappedByFee() {
	ctx := context.Background()
	staff := &domain.Stakeholder{StakeholderID: "teacher-1", Role: domain.RoleStaff, IsActive: true}

	suite.mockStakeholderRepo.On("FindStakeholderByID", ctx, "teacher-1").Return(staff, nil).Once()
	suite.mockPolicyRepo.On("FindActivePolicy", ctx).Return(testPolicy(), nil).Once()
	// Fee below the per-head commission: everything goes to the instructor,
	// nothing to the pool, so only the primary batch runs.
	suite.mockLedgerRepo.On("ApplyMutations", ctx, mock.MatchedBy(func(mutations []domain.BalanceMutation) bool {
		return len(mutations) == 1 && mutations[0].Entries[0].Amount == 2000
	})).Return(nil).Once()

	resp, err := suite.service.RecordFeeCollection(ctx, dto.RecordFeeRequest{
		StakeholderID:   "teacher-1",
		Amount:          2000,
		SessionCategory: domain.SessionExamTrack,
		Subject:         "Biology",
	}, "admin-1")

	suite.Require().NoError(err)
	suite.Equal(int64(2000), resp.Split.InstructorAmount)
	suite.Equal(int64(0), resp.Split.PoolAmount)
	suite.Equal(string(domain.StreamExamCommission), resp.Split.Stream)
	suite.Empty(resp.Dividends)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *FeeServiceTestSuite) TestRecordFeeCollection_InactiveStakeholder() {
	ctx := context.Background()
	inactive := &domain.Stakeholder{StakeholderID: "gone", Role: domain.RoleStaff, IsActive: false}

	suite.mockStakeholderRepo.On("FindStakeholderByID", ctx, "gone").Return(inactive, nil).Once()

	resp, err := suite.service.RecordFeeCollection(ctx, dto.RecordFeeRequest{
		StakeholderID:   "gone",
		Amount:          5000,
		SessionCategory: domain.SessionRegular,
		Subject:         "Math",
	}, "admin-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(resp)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "ApplyMutations")
}

func (suite *FeeServiceTestSuite) TestRecordFeeCollection_PrimaryBatchFailure() {
	ctx := context.Background()
	staff := &domain.Stakeholder{StakeholderID: "teacher-1", Role: domain.RoleStaff, IsActive: true}

	suite.mockStakeholderRepo.On("FindStakeholderByID", ctx, "teacher-1").Return(staff, nil).Once()
	suite.mockPolicyRepo.On("FindActivePolicy", ctx).Return(testPolicy(), nil).Once()
	suite.mockLedgerRepo.On("ApplyMutations", ctx, mock.Anything).Return(assert.AnError).Once()

	resp, err := suite.service.RecordFeeCollection(ctx, dto.RecordFeeRequest{
		StakeholderID:   "teacher-1",
		Amount:          5000,
		SessionCategory: domain.SessionRegular,
		Subject:         "Math",
	}, "admin-1")

	suite.Require().Error(err)
	suite.Nil(resp)
	// No dividend distribution after a failed primary batch.
	suite.mockLedgerRepo.AssertNumberOfCalls(suite.T(), "ApplyMutations", 1)
}

func TestFeeServiceTestSuite(t *testing.T) {
	suite.Run(t, new(FeeServiceTestSuite))
}
