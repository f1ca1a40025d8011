package domain

// EntryKind classifies the money movement a ledger entry records.
type EntryKind string

const (
	EntryIncome   EntryKind = "INCOME"
	EntryExpense  EntryKind = "EXPENSE"
	EntryDividend EntryKind = "DIVIDEND"
	EntryDebt     EntryKind = "DEBT"
)

// EntryStatus is the lifecycle state of a ledger entry.
type EntryStatus string

const (
	StatusFloating EntryStatus = "FLOATING"
	StatusVerified EntryStatus = "VERIFIED"
	StatusPending  EntryStatus = "PENDING"
)

// EntryDirection indicates whether the entry increases or decreases its bucket.
type EntryDirection string

const (
	DirectionCredit EntryDirection = "CREDIT"
	DirectionDebit  EntryDirection = "DEBIT"
)

// RevenueStream tags which policy path produced an entry.
type RevenueStream string

const (
	StreamProprietorDirect   RevenueStream = "PROPRIETOR_DIRECT"
	StreamStaffTuition       RevenueStream = "STAFF_TUITION"
	StreamPartnerFullShare   RevenueStream = "PARTNER_FULL_SHARE"
	StreamExamFullShare      RevenueStream = "EXAM_FULL_SHARE"
	StreamExamCommission     RevenueStream = "EXAM_COMMISSION"
	StreamExamFixedSalary    RevenueStream = "EXAM_FIXED_SALARY_POOL"
	StreamTuitionPool        RevenueStream = "TUITION_POOL"
	StreamExamPool           RevenueStream = "EXAM_POOL"
	StreamDividend           RevenueStream = "DIVIDEND"
	StreamExpenseSettlement  RevenueStream = "EXPENSE_SETTLEMENT"
	StreamPartnerDebt        RevenueStream = "PARTNER_DEBT"
	StreamPayout             RevenueStream = "PAYOUT"
	StreamDayClose           RevenueStream = "DAY_CLOSE"
)

// SourceType names the business event a ledger entry originated from.
type SourceType string

const (
	SourceFeeCollection SourceType = "FEE_COLLECTION"
	SourceExpense       SourceType = "EXPENSE"
	SourceSettlement    SourceType = "SETTLEMENT"
	SourcePayout        SourceType = "PAYOUT"
	SourceDayClose      SourceType = "DAY_CLOSE"
)

// LedgerEntry is the immutable record of one money movement. A blank
// StakeholderID scopes the entry to the organization (e.g. the undistributed
// pool credit on a fee event). After creation the only permitted mutation is
// the FLOATING to VERIFIED status transition performed by day-close.
type LedgerEntry struct {
	EntryID       string         `json:"entryID"`
	StakeholderID string         `json:"stakeholderID,omitempty"`
	Kind          EntryKind      `json:"kind"`
	Status        EntryStatus    `json:"status"`
	Direction     EntryDirection `json:"direction"`
	Bucket        BalanceBucket  `json:"bucket,omitempty"`
	Amount        int64          `json:"amount"` // always positive
	Stream        RevenueStream  `json:"stream"`
	SourceType    SourceType     `json:"sourceType"`
	SourceID      string         `json:"sourceID"`
	Notes         string         `json:"notes,omitempty"`
	AuditFields
}

// BucketDelta is a signed change to one balance bucket.
type BucketDelta struct {
	Bucket BalanceBucket
	Delta  int64
}

// BalanceMutation pairs the bucket changes for one stakeholder with the ledger
// entries that document them. Mutations in the same batch are applied in a
// single database transaction; balance change and audit entry never diverge.
// A mutation with no StakeholderID carries organization-scoped entries only.
type BalanceMutation struct {
	StakeholderID string
	Deltas        []BucketDelta
	Entries       []LedgerEntry
}
