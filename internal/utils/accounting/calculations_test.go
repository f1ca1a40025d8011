package accounting_test

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muz4miL/genius-academia-sub002/internal/core/domain"
	"github.com/muz4miL/genius-academia-sub002/internal/utils/accounting"
)

func testPolicy() domain.PolicyConfig {
	return domain.PolicyConfig{
		PolicyID:              uuid.NewString(),
		StaffSharePercent:     decimal.NewFromInt(70),
		PartnerFullShare:      true,
		ExamCommissionPerHead: 3000,
		FixedSalarySubject:    "English",
		TuitionPoolShares: []domain.ShareRatio{
			{PartnerID: "partner-a", Percent: decimal.NewFromInt(40)},
			{PartnerID: "partner-b", Percent: decimal.NewFromInt(30)},
			{PartnerID: "partner-c", Percent: decimal.NewFromInt(30)},
		},
		ExamPoolShares: []domain.ShareRatio{
			{PartnerID: "partner-a", Percent: decimal.NewFromFloat(33.33)},
			{PartnerID: "partner-b", Percent: decimal.NewFromFloat(33.33)},
			{PartnerID: "partner-c", Percent: decimal.NewFromFloat(33.34)},
		},
		ExpenseSplits: []domain.ShareRatio{
			{PartnerID: "partner-a", Percent: decimal.NewFromInt(40)},
			{PartnerID: "partner-b", Percent: decimal.NewFromInt(30)},
			{PartnerID: "partner-c", Percent: decimal.NewFromInt(30)},
		},
	}
}

func TestPercentShare_RoundsHalfUp(t *testing.T) {
	tests := []struct {
		amount  int64
		percent string
		want    int64
	}{
		{100, "70", 70},
		{101, "50", 51},  // 50.5 rounds up
		{333, "33.33", 111}, // 110.98... rounds to 111
		{1, "70", 1},     // 0.7 rounds up
		{0, "70", 0},
	}
	for _, tt := range tests {
		pct, err := decimal.NewFromString(tt.percent)
		require.NoError(t, err)
		got := accounting.PercentShare(tt.amount, pct)
		assert.Equal(t, tt.want, got, "PercentShare(%d, %s)", tt.amount, tt.percent)
	}
}

func TestComputeRevenueSplit(t *testing.T) {
	policy := testPolicy()

	tests := []struct {
		name       string
		fee        int64
		role       domain.StakeholderRole
		category   domain.SessionCategory
		subject    string
		wantSplit  domain.SplitResult
	}{
		{
			name:     "proprietor keeps everything on regular tuition",
			fee:      5000,
			role:     domain.RoleProprietor,
			category: domain.SessionRegular,
			subject:  "Physics",
			wantSplit: domain.SplitResult{
				InstructorAmount: 5000, PoolAmount: 0,
				Stream: domain.StreamProprietorDirect, SplitType: domain.SplitFull,
			},
		},
		{
			name:     "proprietor keeps everything on exam track too",
			fee:      5000,
			role:     domain.RoleProprietor,
			category: domain.SessionExamTrack,
			subject:  "Physics",
			wantSplit: domain.SplitResult{
				InstructorAmount: 5000, PoolAmount: 0,
				Stream: domain.StreamProprietorDirect, SplitType: domain.SplitFull,
			},
		},
		{
			name:     "staff regular tuition at 70/30",
			fee:      5000,
			role:     domain.RoleStaff,
			category: domain.SessionRegular,
			subject:  "Physics",
			wantSplit: domain.SplitResult{
				InstructorAmount: 3500, PoolAmount: 1500,
				Stream: domain.StreamStaffTuition, SplitType: domain.SplitPercentage,
			},
		},
		{
			name:     "partner regular tuition under full-share rule",
			fee:      5000,
			role:     domain.RolePartner,
			category: domain.SessionRegular,
			subject:  "Chemistry",
			wantSplit: domain.SplitResult{
				InstructorAmount: 5000, PoolAmount: 0,
				Stream: domain.StreamPartnerFullShare, SplitType: domain.SplitFull,
			},
		},
		{
			name:     "exam track staff gets per-head commission only",
			fee:      5000,
			role:     domain.RoleStaff,
			category: domain.SessionExamTrack,
			subject:  "Physics",
			wantSplit: domain.SplitResult{
				InstructorAmount: 3000, PoolAmount: 2000,
				Stream: domain.StreamExamCommission, SplitType: domain.SplitPerHead,
			},
		},
		{
			name:     "exam track fixed-salary subject routes everything to pool",
			fee:      5000,
			role:     domain.RoleStaff,
			category: domain.SessionExamTrack,
			subject:  "English",
			wantSplit: domain.SplitResult{
				InstructorAmount: 0, PoolAmount: 5000,
				Stream: domain.StreamExamFixedSalary, SplitType: domain.SplitPoolOnly,
			},
		},
		{
			name:     "exam track partner under full-share keeps commission plus remainder",
			fee:      5000,
			role:     domain.RolePartner,
			category: domain.SessionExamTrack,
			subject:  "Chemistry",
			wantSplit: domain.SplitResult{
				InstructorAmount: 5000, PoolAmount: 0,
				Stream: domain.StreamExamFullShare, SplitType: domain.SplitFull,
			},
		},
		{
			name:     "exam commission larger than fee is capped",
			fee:      2000,
			role:     domain.RoleStaff,
			category: domain.SessionExamTrack,
			subject:  "Physics",
			wantSplit: domain.SplitResult{
				InstructorAmount: 2000, PoolAmount: 0,
				Stream: domain.StreamExamCommission, SplitType: domain.SplitPerHead,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := accounting.ComputeRevenueSplit(tt.fee, tt.role, tt.category, tt.subject, policy)
			assert.Equal(t, tt.wantSplit, got)
			assert.Equal(t, tt.fee, got.InstructorAmount+got.PoolAmount, "split must sum to fee")
		})
	}
}

func TestComputeRevenueSplit_NeverLeaksRounding(t *testing.T) {
	policy := testPolicy()
	policy.StaffSharePercent = decimal.NewFromFloat(66.67)

	for fee := int64(1); fee <= 1000; fee++ {
		got := accounting.ComputeRevenueSplit(fee, domain.RoleStaff, domain.SessionRegular, "Math", policy)
		require.Equal(t, fee, got.InstructorAmount+got.PoolAmount, "fee %d", fee)
		require.GreaterOrEqual(t, got.PoolAmount, int64(0), "fee %d", fee)
	}
}

func TestDistributePool_SumsExactly(t *testing.T) {
	policy := testPolicy()

	for _, pool := range []int64{1, 2, 3, 100, 1499, 1500, 99999} {
		t.Run(fmt.Sprintf("pool_%d", pool), func(t *testing.T) {
			dividends := accounting.DistributePool(pool, policy.ExamPoolShares)
			sum := int64(0)
			for _, d := range dividends {
				sum += d.Amount
			}
			assert.Equal(t, pool, sum)
		})
	}
}

func TestDistributePool_LastPartnerGetsRemainder(t *testing.T) {
	policy := testPolicy()
	dividends := accounting.DistributePool(1000, policy.TuitionPoolShares)
	require.Len(t, dividends, 3)
	assert.Equal(t, int64(400), dividends[0].Amount)
	assert.Equal(t, int64(300), dividends[1].Amount)
	assert.Equal(t, int64(300), dividends[2].Amount)

	// 100 split 40/30/30 rounds to 40/30 and the last takes 30 exactly;
	// 101 gives 40+30 and the remainder 31 to the last partner.
	dividends = accounting.DistributePool(101, policy.TuitionPoolShares)
	require.Len(t, dividends, 3)
	assert.Equal(t, int64(31), dividends[2].Amount)
}

func TestDistributePool_OmitsZeroShares(t *testing.T) {
	shares := []domain.ShareRatio{
		{PartnerID: "partner-a", Percent: decimal.NewFromInt(99)},
		{PartnerID: "partner-b", Percent: decimal.NewFromInt(1)},
	}
	// 1% of 10 rounds to 0 for nobody here, but a 1-unit pool gives the
	// first partner everything and the last partner an exact zero remainder.
	dividends := accounting.DistributePool(1, shares)
	require.Len(t, dividends, 1)
	assert.Equal(t, "partner-a", dividends[0].PartnerID)
	assert.Equal(t, int64(1), dividends[0].Amount)

	assert.Nil(t, accounting.DistributePool(0, shares))
	assert.Nil(t, accounting.DistributePool(-5, shares))
}

func TestComputeExpenseShares_PartnerPayer(t *testing.T) {
	policy := testPolicy()
	expenseID := uuid.NewString()

	shares := accounting.ComputeExpenseShares(expenseID, 10000, domain.PaidByPartner, "partner-a", policy.ExpenseSplits, uuid.NewString)
	require.Len(t, shares, 3)

	byPartner := map[string]domain.ExpenseShare{}
	for _, s := range shares {
		byPartner[s.PartnerID] = s
		assert.Equal(t, expenseID, s.ExpenseID)
	}

	assert.Equal(t, int64(4000), byPartner["partner-a"].Amount)
	assert.Equal(t, domain.SharePaid, byPartner["partner-a"].Status)
	assert.Equal(t, int64(3000), byPartner["partner-b"].Amount)
	assert.Equal(t, domain.ShareUnpaid, byPartner["partner-b"].Status)
	assert.Equal(t, int64(3000), byPartner["partner-c"].Amount)
	assert.Equal(t, domain.ShareUnpaid, byPartner["partner-c"].Status)
}

func TestComputeExpenseShares_OrganizationAndPoolFunds(t *testing.T) {
	policy := testPolicy()
	for _, paidBy := range []domain.PaidByType{domain.PaidByOrganization, domain.PaidByPool} {
		shares := accounting.ComputeExpenseShares(uuid.NewString(), 9000, paidBy, "", policy.ExpenseSplits, uuid.NewString)
		require.Len(t, shares, 3)
		for _, s := range shares {
			assert.Equal(t, domain.ShareNotApplicable, s.Status, "paidBy=%s", paidBy)
		}
	}
}

func TestComputeExpenseShares_SumWithinRounding(t *testing.T) {
	splits := []domain.ShareRatio{
		{PartnerID: "partner-a", Percent: decimal.NewFromFloat(33.33)},
		{PartnerID: "partner-b", Percent: decimal.NewFromFloat(33.33)},
		{PartnerID: "partner-c", Percent: decimal.NewFromFloat(33.34)},
	}
	for _, amount := range []int64{1, 10, 100, 9999, 10001} {
		shares := accounting.ComputeExpenseShares(uuid.NewString(), amount, domain.PaidByOrganization, "", splits, uuid.NewString)
		sum := int64(0)
		for _, s := range shares {
			sum += s.Amount
		}
		diff := amount - sum
		if diff < 0 {
			diff = -diff
		}
		assert.LessOrEqual(t, diff, int64(len(splits)), "amount %d: shares sum %d", amount, sum)
	}
}

func TestPlanAutoClear(t *testing.T) {
	mkShare := func(id string, amount int64, status domain.ShareStatus) domain.ExpenseShare {
		return domain.ExpenseShare{ShareID: id, Amount: amount, Status: status}
	}

	t.Run("consumes oldest first and never partially clears", func(t *testing.T) {
		shares := []domain.ExpenseShare{
			mkShare("s1", 3000, domain.ShareUnpaid),
			mkShare("s2", 2000, domain.ShareUnpaid),
			mkShare("s3", 1000, domain.ShareUnpaid),
		}
		// 4000 covers s1 fully, cannot fully cover s2, so selection stops.
		assert.Equal(t, []string{"s1"}, accounting.PlanAutoClear(shares, 4000))
		// 5000 covers s1 and s2 exactly.
		assert.Equal(t, []string{"s1", "s2"}, accounting.PlanAutoClear(shares, 5000))
		// Everything covered, 500 left un-attributed.
		assert.Equal(t, []string{"s1", "s2", "s3"}, accounting.PlanAutoClear(shares, 6500))
	})

	t.Run("skips non-unpaid shares", func(t *testing.T) {
		shares := []domain.ExpenseShare{
			mkShare("s1", 3000, domain.SharePaid),
			mkShare("s2", 2000, domain.ShareUnpaid),
		}
		assert.Equal(t, []string{"s2"}, accounting.PlanAutoClear(shares, 2000))
	})

	t.Run("insufficient funds clears nothing", func(t *testing.T) {
		shares := []domain.ExpenseShare{mkShare("s1", 3000, domain.ShareUnpaid)}
		assert.Empty(t, accounting.PlanAutoClear(shares, 2999))
	})
}

func TestReduceDebt_FlooredAtZero(t *testing.T) {
	assert.Equal(t, int64(0), domain.ReduceDebt(3000, 3000))
	assert.Equal(t, int64(1000), domain.ReduceDebt(3000, 2000))
	assert.Equal(t, int64(0), domain.ReduceDebt(3000, 9000))
	assert.Equal(t, int64(0), domain.ReduceDebt(0, 100))
}
