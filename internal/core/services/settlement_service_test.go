package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/muz4miL/genius-academia-sub002/internal/apperrors"
	"github.com/muz4miL/genius-academia-sub002/internal/core/domain"
	portsrepo "github.com/muz4miL/genius-academia-sub002/internal/core/ports/repositories"
	portssvc "github.com/muz4miL/genius-academia-sub002/internal/core/ports/services"
	"github.com/muz4miL/genius-academia-sub002/internal/core/services"
	"github.com/muz4miL/genius-academia-sub002/internal/dto"
)

type SettlementServiceTestSuite struct {
	suite.Suite
	mockSettlementRepo  *MockSettlementRepository
	mockStakeholderRepo *MockStakeholderRepository
	mockNotifier        *MockNotifier
	service             portssvc.SettlementSvcFacade
}

func (suite *SettlementServiceTestSuite) SetupTest() {
	suite.mockSettlementRepo = new(MockSettlementRepository)
	suite.mockStakeholderRepo = new(MockStakeholderRepository)
	suite.mockNotifier = new(MockNotifier)
	suite.service = services.NewSettlementService(suite.mockSettlementRepo, suite.mockStakeholderRepo, suite.mockNotifier)
}

func (suite *SettlementServiceTestSuite) TestRecordSettlement_Success() {
	ctx := context.Background()
	partner := &domain.Stakeholder{StakeholderID: partnerA, Role: domain.RolePartner, DebtToProprietor: 5000, IsActive: true}

	suite.mockStakeholderRepo.On("FindStakeholderByID", ctx, partnerA).Return(partner, nil).Once()
	suite.mockSettlementRepo.On("RecordSettlement", ctx,
		mock.MatchedBy(func(s domain.SettlementRecord) bool {
			return s.PartnerID == partnerA && s.Amount == 3000 &&
				s.Status == domain.SettlementCompleted && s.RecordedBy == "admin-1"
		}),
		[]string(nil),
		mock.MatchedBy(func(e domain.LedgerEntry) bool {
			return e.StakeholderID == partnerA &&
				e.Kind == domain.EntryDebt &&
				e.Direction == domain.DirectionDebit &&
				e.Bucket == domain.BucketDebt &&
				e.Amount == 3000
		}),
	).Return(&portsrepo.SettlementResult{NewDebt: 2000, ClearedShareIDs: []string{"share-1", "share-2"}}, nil).Once()
	suite.mockNotifier.On("Notify", ctx, partnerA, mock.Anything, mock.Anything).Once()

	resp, err := suite.service.RecordSettlement(ctx, dto.RecordSettlementRequest{PartnerID: partnerA, Amount: 3000}, "admin-1")

	suite.Require().NoError(err)
	suite.Equal(int64(2000), resp.NewDebt)
	suite.Equal([]string{"share-1", "share-2"}, resp.ClearedShareIDs)
	suite.NotEmpty(resp.SettlementID)
	suite.mockSettlementRepo.AssertExpectations(suite.T())
	suite.mockNotifier.AssertExpectations(suite.T())
}

func (suite *SettlementServiceTestSuite) TestRecordSettlement_ExplicitExpensesPassedThrough() {
	ctx := context.Background()
	partner := &domain.Stakeholder{StakeholderID: partnerA, Role: domain.RolePartner, IsActive: true}
	expenseIDs := []string{"exp-1", "exp-2"}

	suite.mockStakeholderRepo.On("FindStakeholderByID", ctx, partnerA).Return(partner, nil).Once()
	suite.mockSettlementRepo.On("RecordSettlement", ctx, mock.AnythingOfType("domain.SettlementRecord"), expenseIDs, mock.AnythingOfType("domain.LedgerEntry")).
		Return(&portsrepo.SettlementResult{NewDebt: 0, ClearedShareIDs: []string{"share-9"}}, nil).Once()
	suite.mockNotifier.On("Notify", ctx, partnerA, mock.Anything, mock.Anything).Once()

	resp, err := suite.service.RecordSettlement(ctx, dto.RecordSettlementRequest{
		PartnerID:  partnerA,
		Amount:     8000,
		ExpenseIDs: expenseIDs,
	}, "admin-1")

	suite.Require().NoError(err)
	suite.Equal(int64(0), resp.NewDebt)
	suite.mockSettlementRepo.AssertExpectations(suite.T())
}

func (suite *SettlementServiceTestSuite) TestRecordSettlement_NotAPartner() {
	ctx := context.Background()
	staff := &domain.Stakeholder{StakeholderID: "teacher-1", Role: domain.RoleStaff, IsActive: true}

	suite.mockStakeholderRepo.On("FindStakeholderByID", ctx, "teacher-1").Return(staff, nil).Once()

	resp, err := suite.service.RecordSettlement(ctx, dto.RecordSettlementRequest{PartnerID: "teacher-1", Amount: 3000}, "admin-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(resp)
	suite.mockSettlementRepo.AssertNotCalled(suite.T(), "RecordSettlement")
}

func (suite *SettlementServiceTestSuite) TestRecordSettlement_NonPositiveAmount() {
	ctx := context.Background()

	resp, err := suite.service.RecordSettlement(ctx, dto.RecordSettlementRequest{PartnerID: partnerA, Amount: 0}, "admin-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(resp)
	suite.mockStakeholderRepo.AssertNotCalled(suite.T(), "FindStakeholderByID")
}

func (suite *SettlementServiceTestSuite) TestRecordSettlement_RepoFailure() {
	ctx := context.Background()
	partner := &domain.Stakeholder{StakeholderID: partnerA, Role: domain.RolePartner, IsActive: true}

	suite.mockStakeholderRepo.On("FindStakeholderByID", ctx, partnerA).Return(partner, nil).Once()
	suite.mockSettlementRepo.On("RecordSettlement", ctx, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, assert.AnError).Once()

	resp, err := suite.service.RecordSettlement(ctx, dto.RecordSettlementRequest{PartnerID: partnerA, Amount: 3000}, "admin-1")

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.mockNotifier.AssertNotCalled(suite.T(), "Notify")
}

func (suite *SettlementServiceTestSuite) TestGetSettlementByID_NotFound() {
	ctx := context.Background()

	suite.mockSettlementRepo.On("FindSettlementByID", ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()

	settlement, err := suite.service.GetSettlementByID(ctx, "missing")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(settlement)
}

func TestSettlementServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SettlementServiceTestSuite))
}
