package mapping

import (
	"github.com/muz4miL/genius-academia-sub002/internal/core/domain"
	"github.com/muz4miL/genius-academia-sub002/internal/models"
)

// Policy share group names as stored in policy_shares.group_name.
const (
	GroupTuitionPool  = "TUITION_POOL"
	GroupExamPool     = "EXAM_POOL"
	GroupExpenseSplit = "EXPENSE_SPLIT"
)

// ToModelPolicy converts a domain PolicyConfig to a model Policy
func ToModelPolicy(d domain.PolicyConfig) models.Policy {
	return models.Policy{
		PolicyID:              d.PolicyID,
		Name:                  d.Name,
		StaffSharePercent:     d.StaffSharePercent,
		PartnerFullShare:      d.PartnerFullShare,
		ExamCommissionPerHead: d.ExamCommissionPerHead,
		FixedSalarySubject:    d.FixedSalarySubject,
		IsActive:              d.IsActive,
		AuditFields:           ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPolicy converts a model Policy (without shares) to a domain PolicyConfig
func ToDomainPolicy(m models.Policy) domain.PolicyConfig {
	return domain.PolicyConfig{
		PolicyID:              m.PolicyID,
		Name:                  m.Name,
		StaffSharePercent:     m.StaffSharePercent,
		PartnerFullShare:      m.PartnerFullShare,
		ExamCommissionPerHead: m.ExamCommissionPerHead,
		FixedSalarySubject:    m.FixedSalarySubject,
		IsActive:              m.IsActive,
		AuditFields:           ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelPolicyShares flattens a policy's ratio groups into policy_shares rows.
func ToModelPolicyShares(d domain.PolicyConfig) []models.PolicyShare {
	rows := make([]models.PolicyShare, 0, len(d.TuitionPoolShares)+len(d.ExamPoolShares)+len(d.ExpenseSplits))
	appendGroup := func(group string, shares []domain.ShareRatio) {
		for i, share := range shares {
			rows = append(rows, models.PolicyShare{
				PolicyID:  d.PolicyID,
				GroupName: group,
				Position:  i,
				PartnerID: share.PartnerID,
				Percent:   share.Percent,
			})
		}
	}
	appendGroup(GroupTuitionPool, d.TuitionPoolShares)
	appendGroup(GroupExamPool, d.ExamPoolShares)
	appendGroup(GroupExpenseSplit, d.ExpenseSplits)
	return rows
}

// ApplyPolicyShares sets a policy's ratio groups from policy_shares rows.
// Rows must be ordered by position within each group.
func ApplyPolicyShares(policy *domain.PolicyConfig, rows []models.PolicyShare) {
	for _, row := range rows {
		ratio := domain.ShareRatio{PartnerID: row.PartnerID, Percent: row.Percent}
		switch row.GroupName {
		case GroupTuitionPool:
			policy.TuitionPoolShares = append(policy.TuitionPoolShares, ratio)
		case GroupExamPool:
			policy.ExamPoolShares = append(policy.ExamPoolShares, ratio)
		case GroupExpenseSplit:
			policy.ExpenseSplits = append(policy.ExpenseSplits, ratio)
		}
	}
}
