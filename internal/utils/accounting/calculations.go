package accounting

import (
	"github.com/shopspring/decimal"

	"github.com/muz4miL/genius-academia-sub002/internal/core/domain"
)

// PercentShare applies a percentage to an amount in the smallest currency
// unit, rounding half-up. Callers that need an exact two-way split must derive
// the other side as `amount - PercentShare(...)` rather than rounding both
// sides independently.
func PercentShare(amount int64, percent decimal.Decimal) int64 {
	return decimal.NewFromInt(amount).
		Mul(percent).
		Div(decimal.NewFromInt(100)).
		Round(0). // round half away from zero; amounts here are non-negative
		IntPart()
}

// ComputeRevenueSplit decomposes a collected fee into the instructor's cut and
// the pool remainder. The two sides always sum to the fee exactly: only the
// instructor's cut is rounded, the pool receives the remainder.
func ComputeRevenueSplit(fee int64, role domain.StakeholderRole, category domain.SessionCategory, subject string, policy domain.PolicyConfig) domain.SplitResult {
	// The proprietor keeps everything regardless of track.
	if role == domain.RoleProprietor {
		return domain.SplitResult{
			InstructorAmount: fee,
			PoolAmount:       0,
			Stream:           domain.StreamProprietorDirect,
			SplitType:        domain.SplitFull,
		}
	}

	if category == domain.SessionExamTrack {
		return computeExamTrackSplit(fee, role, subject, policy)
	}

	if role == domain.RolePartner && policy.PartnerFullShare {
		return domain.SplitResult{
			InstructorAmount: fee,
			PoolAmount:       0,
			Stream:           domain.StreamPartnerFullShare,
			SplitType:        domain.SplitFull,
		}
	}

	instructorCut := PercentShare(fee, policy.StaffSharePercent)
	return domain.SplitResult{
		InstructorAmount: instructorCut,
		PoolAmount:       fee - instructorCut,
		Stream:           domain.StreamStaffTuition,
		SplitType:        domain.SplitPercentage,
	}
}

func computeExamTrackSplit(fee int64, role domain.StakeholderRole, subject string, policy domain.PolicyConfig) domain.SplitResult {
	// Equity partner under the full-share rule keeps commission and remainder.
	if role == domain.RolePartner && policy.PartnerFullShare {
		return domain.SplitResult{
			InstructorAmount: fee,
			PoolAmount:       0,
			Stream:           domain.StreamExamFullShare,
			SplitType:        domain.SplitFull,
		}
	}

	// The designated fixed-salary subject routes the whole fee to the pool;
	// its instructor is paid a flat salary tracked outside this ledger.
	if policy.FixedSalarySubject != "" && subject == policy.FixedSalarySubject {
		return domain.SplitResult{
			InstructorAmount: 0,
			PoolAmount:       fee,
			Stream:           domain.StreamExamFixedSalary,
			SplitType:        domain.SplitPoolOnly,
		}
	}

	// Staff instructor earns the fixed per-head commission, capped by the fee.
	commission := policy.ExamCommissionPerHead
	if commission > fee {
		commission = fee
	}
	return domain.SplitResult{
		InstructorAmount: commission,
		PoolAmount:       fee - commission,
		Stream:           domain.StreamExamCommission,
		SplitType:        domain.SplitPerHead,
	}
}

// DistributePool splits a pool amount across the partners of a ratio group.
// Every partner but the last receives its rounded percentage; the last
// receives the exact remainder so the shares always sum to the pool amount.
// Zero-amount shares are omitted.
func DistributePool(pool int64, shares []domain.ShareRatio) []domain.DividendShare {
	if pool <= 0 || len(shares) == 0 {
		return nil
	}
	dividends := make([]domain.DividendShare, 0, len(shares))
	assigned := int64(0)
	for i, ratio := range shares {
		var amount int64
		if i == len(shares)-1 {
			amount = pool - assigned
		} else {
			amount = PercentShare(pool, ratio.Percent)
			assigned += amount
		}
		if amount == 0 {
			continue
		}
		dividends = append(dividends, domain.DividendShare{
			PartnerID: ratio.PartnerID,
			Amount:    amount,
		})
	}
	return dividends
}

// ComputeExpenseShares builds the per-partner share records for an expense.
// Each share is rounded independently; the sum may differ from the expense
// amount by at most one unit per partner.
//
// Status assignment: expenses paid from organization or pre-split pool funds
// produce NOT_APPLICABLE shares (no inter-partner debt). When a specific
// partner paid from their own pocket, that partner's share is auto-PAID and
// every other partner's share starts UNPAID.
func ComputeExpenseShares(expenseID string, amount int64, paidByType domain.PaidByType, paidByPartnerID string, splits []domain.ShareRatio, newShareID func() string) []domain.ExpenseShare {
	shares := make([]domain.ExpenseShare, 0, len(splits))
	for _, ratio := range splits {
		status := domain.ShareNotApplicable
		if paidByType == domain.PaidByPartner {
			if ratio.PartnerID == paidByPartnerID {
				status = domain.SharePaid
			} else {
				status = domain.ShareUnpaid
			}
		}
		shares = append(shares, domain.ExpenseShare{
			ShareID:   newShareID(),
			ExpenseID: expenseID,
			PartnerID: ratio.PartnerID,
			Amount:    PercentShare(amount, ratio.Percent),
			Percent:   ratio.Percent,
			Status:    status,
		})
	}
	return shares
}

// PlanAutoClear selects which UNPAID shares a settlement amount clears when no
// explicit expense list is given. Shares must be ordered oldest expense date
// first. A share is cleared only when the remaining funds cover it entirely;
// selection stops at the first share that no longer fits. Leftover funds stay
// un-attributed (they still reduced the aggregate debt).
func PlanAutoClear(orderedShares []domain.ExpenseShare, funds int64) []string {
	cleared := make([]string, 0, len(orderedShares))
	remaining := funds
	for _, share := range orderedShares {
		if share.Status != domain.ShareUnpaid {
			continue
		}
		if share.Amount > remaining {
			break
		}
		remaining -= share.Amount
		cleared = append(cleared, share.ShareID)
	}
	return cleared
}
