package domain

import "time"

// PayoutStatus is the state of a cash-out request. PENDING is the only
// non-terminal state.
type PayoutStatus string

const (
	PayoutPending  PayoutStatus = "PENDING"
	PayoutApproved PayoutStatus = "APPROVED"
	PayoutRejected PayoutStatus = "REJECTED"
)

// PayoutRequest is an instructor's claim against their verified balance.
// At most one PENDING request may exist per stakeholder.
type PayoutRequest struct {
	RequestID     string       `json:"requestID"`
	StakeholderID string       `json:"stakeholderID"`
	Amount        int64        `json:"amount"`
	Status        PayoutStatus `json:"status"`
	RequestDate   time.Time    `json:"requestDate"`
	ResolvedBy    string       `json:"resolvedBy,omitempty"`
	ResolvedAt    *time.Time   `json:"resolvedAt,omitempty"`
	Notes         string       `json:"notes,omitempty"`
	LedgerEntryID string       `json:"ledgerEntryID,omitempty"` // set on approval
	ExpenseID     string       `json:"expenseID,omitempty"`     // audit expense, set on approval
}

// IsResolved reports whether the request reached a terminal state.
func (r *PayoutRequest) IsResolved() bool {
	return r.Status != PayoutPending
}
