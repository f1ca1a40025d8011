package domain

// StakeholderRole identifies how a stakeholder participates in revenue splits.
// Roles are assigned at onboarding and never inferred from display names.
type StakeholderRole string

const (
	RoleStaff      StakeholderRole = "STAFF"
	RolePartner    StakeholderRole = "PARTNER"
	RoleProprietor StakeholderRole = "PROPRIETOR"
)

// BalanceBucket names one of the balance fields on a stakeholder account.
type BalanceBucket string

const (
	BucketFloating BalanceBucket = "FLOATING"  // earned, unconfirmed
	BucketVerified BalanceBucket = "VERIFIED"  // confirmed, payable
	BucketPaidOut  BalanceBucket = "PAID_OUT"  // lifetime total disbursed
	BucketWallet   BalanceBucket = "WALLET"    // cash actually held (partners)
	BucketDebt     BalanceBucket = "DEBT"      // owed to the proprietor (partners)
)

// Stakeholder represents an instructor or equity partner account.
// All monetary fields are integers in the smallest currency unit and are
// mutated exclusively through ledger operations.
type Stakeholder struct {
	StakeholderID    string          `json:"stakeholderID"`
	Name             string          `json:"name"`
	Role             StakeholderRole `json:"role"`
	FloatingBalance  int64           `json:"floatingBalance"`
	VerifiedBalance  int64           `json:"verifiedBalance"`
	PaidOutTotal     int64           `json:"paidOutTotal"`
	DebtToProprietor int64           `json:"debtToProprietor"` // partners only
	WalletBalance    int64           `json:"walletBalance"`    // partners only
	IsActive         bool            `json:"isActive"`
	AuditFields
}

// BucketValue returns the current value of the given balance bucket.
func (s *Stakeholder) BucketValue(bucket BalanceBucket) int64 {
	switch bucket {
	case BucketFloating:
		return s.FloatingBalance
	case BucketVerified:
		return s.VerifiedBalance
	case BucketPaidOut:
		return s.PaidOutTotal
	case BucketWallet:
		return s.WalletBalance
	case BucketDebt:
		return s.DebtToProprietor
	}
	return 0
}

// IsPartnerLike reports whether the stakeholder participates in pool splits.
func (s *Stakeholder) IsPartnerLike() bool {
	return s.Role == RolePartner || s.Role == RoleProprietor
}
