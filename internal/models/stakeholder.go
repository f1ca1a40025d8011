package models

// StakeholderRole mirrors domain.StakeholderRole for DB storage.
type StakeholderRole string

// Stakeholder represents a row in the stakeholders table. The five balance
// columns are guarded by CHECK constraints; updates that would drive a
// balance negative fail at the database.
type Stakeholder struct {
	StakeholderID    string          `db:"stakeholder_id"`
	Name             string          `db:"name"`
	Role             StakeholderRole `db:"role"`
	FloatingBalance  int64           `db:"floating_balance"`
	VerifiedBalance  int64           `db:"verified_balance"`
	PaidOutTotal     int64           `db:"paid_out_total"`
	DebtToProprietor int64           `db:"debt_to_proprietor"`
	WalletBalance    int64           `db:"wallet_balance"`
	IsActive         bool            `db:"is_active"`
	AuditFields
}
