package domain

// SessionCategory distinguishes regular tuition from the standardized-exam track.
type SessionCategory string

const (
	SessionRegular   SessionCategory = "REGULAR"
	SessionExamTrack SessionCategory = "EXAM_TRACK"
)

// SplitType tags how the instructor's cut of a fee was derived.
type SplitType string

const (
	SplitFull       SplitType = "FULL"
	SplitPercentage SplitType = "PERCENTAGE"
	SplitPerHead    SplitType = "PER_HEAD_COMMISSION"
	SplitPoolOnly   SplitType = "POOL_ONLY"
)

// SplitResult is the decomposition of one fee into the instructor's cut and
// the pool remainder. InstructorAmount + PoolAmount always equals the fee.
type SplitResult struct {
	InstructorAmount int64         `json:"instructorAmount"`
	PoolAmount       int64         `json:"poolAmount"`
	Stream           RevenueStream `json:"stream"`
	SplitType        SplitType     `json:"splitType"`
}

// DividendShare is one partner's cut of a distributed pool.
type DividendShare struct {
	PartnerID string `json:"partnerID"`
	Amount    int64  `json:"amount"`
}
