package domain

import "time"

// SettlementStatus is the state of a recorded repayment.
type SettlementStatus string

const (
	SettlementCompleted SettlementStatus = "COMPLETED"
)

// SettlementRecord is the immutable record of a partner repaying fronted
// expense money. Creating one reduces the partner's debt to the proprietor,
// floored at zero, and clears matching expense shares.
type SettlementRecord struct {
	SettlementID string           `json:"settlementID"`
	PartnerID    string           `json:"partnerID"`
	Amount       int64            `json:"amount"`
	Method       string           `json:"method,omitempty"`
	Notes        string           `json:"notes,omitempty"`
	RecordedBy   string           `json:"recordedBy"`
	Status       SettlementStatus `json:"status"`
	SettledAt    time.Time        `json:"settledAt"`
	AuditFields
}

// ReduceDebt applies a settlement amount to an outstanding debt. Settling more
// than the recorded debt never drives it negative; the excess is simply not
// reflected.
func ReduceDebt(currentDebt, settlementAmount int64) int64 {
	newDebt := currentDebt - settlementAmount
	if newDebt < 0 {
		return 0
	}
	return newDebt
}
