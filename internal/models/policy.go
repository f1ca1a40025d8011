package models

import "github.com/shopspring/decimal"

// Policy represents a row in the policies table.
type Policy struct {
	PolicyID              string          `db:"policy_id"`
	Name                  string          `db:"name"`
	StaffSharePercent     decimal.Decimal `db:"staff_share_percent"`
	PartnerFullShare      bool            `db:"partner_full_share"`
	ExamCommissionPerHead int64           `db:"exam_commission_per_head"`
	FixedSalarySubject    string          `db:"fixed_salary_subject"`
	IsActive              bool            `db:"is_active"`
	AuditFields
}

// PolicyShare represents a row in the policy_shares table. GroupName is one
// of TUITION_POOL, EXAM_POOL, EXPENSE_SPLIT; Position preserves group order.
type PolicyShare struct {
	PolicyID  string          `db:"policy_id"`
	GroupName string          `db:"group_name"`
	Position  int             `db:"position"`
	PartnerID string          `db:"partner_id"`
	Percent   decimal.Decimal `db:"percent"`
}
