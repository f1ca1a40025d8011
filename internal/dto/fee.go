package dto

import "github.com/muz4miL/genius-academia-sub002/internal/core/domain"

// RecordFeeRequest is the payload for a fee-collection event.
// Amount is in the smallest currency unit.
type RecordFeeRequest struct {
	StakeholderID   string                 `json:"stakeholderID" binding:"required"`
	Amount          int64                  `json:"amount" binding:"required,gt=0"`
	SessionCategory domain.SessionCategory `json:"sessionCategory" binding:"required,sessioncategory"`
	Subject         string                 `json:"subject" binding:"required"`
	Notes           string                 `json:"notes"`
}

// SplitResponse is the API representation of a revenue split.
type SplitResponse struct {
	InstructorAmount int64  `json:"instructorAmount"`
	PoolAmount       int64  `json:"poolAmount"`
	Stream           string `json:"stream"`
	SplitType        string `json:"splitType"`
}

// FeeCollectionResponse reports the outcome of a fee-collection event.
// Dividend distribution is a best-effort enrichment, so the dividends listed
// here are the ones that were actually credited.
type FeeCollectionResponse struct {
	FeeID          string          `json:"feeID"`
	Split          SplitResponse   `json:"split"`
	LedgerEntryIDs []string        `json:"ledgerEntryIDs"`
	Dividends      []DividendShare `json:"dividends,omitempty"`
}

// DividendShare is one partner's credited dividend.
type DividendShare struct {
	PartnerID string `json:"partnerID"`
	Amount    int64  `json:"amount"`
}

// ToSplitResponse converts a domain split result.
func ToSplitResponse(s domain.SplitResult) SplitResponse {
	return SplitResponse{
		InstructorAmount: s.InstructorAmount,
		PoolAmount:       s.PoolAmount,
		Stream:           string(s.Stream),
		SplitType:        string(s.SplitType),
	}
}
