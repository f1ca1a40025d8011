package dto

import (
	"time"

	"github.com/muz4miL/genius-academia-sub002/internal/core/domain"
)

// RecordSettlementRequest is the payload for recording a partner repayment.
// ExpenseIDs optionally names the expenses to settle; when empty, UNPAID
// shares are cleared oldest first.
type RecordSettlementRequest struct {
	PartnerID  string   `json:"partnerID" binding:"required"`
	Amount     int64    `json:"amount" binding:"required,gt=0"`
	Method     string   `json:"method"`
	ExpenseIDs []string `json:"expenseIDs"`
	Notes      string   `json:"notes"`
}

// SettlementResponse reports the outcome of a settlement.
type SettlementResponse struct {
	SettlementID    string    `json:"settlementID"`
	PartnerID       string    `json:"partnerID"`
	Amount          int64     `json:"amount"`
	NewDebt         int64     `json:"newDebt"`
	ClearedShareIDs []string  `json:"clearedShareIDs,omitempty"`
	SettledAt       time.Time `json:"settledAt"`
}

// SettlementRecordResponse is the API representation of a stored settlement.
type SettlementRecordResponse struct {
	SettlementID string    `json:"settlementID"`
	PartnerID    string    `json:"partnerID"`
	Amount       int64     `json:"amount"`
	Method       string    `json:"method,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	RecordedBy   string    `json:"recordedBy"`
	Status       string    `json:"status"`
	SettledAt    time.Time `json:"settledAt"`
}

// ToSettlementRecordResponse converts a domain SettlementRecord.
func ToSettlementRecordResponse(s *domain.SettlementRecord) SettlementRecordResponse {
	return SettlementRecordResponse{
		SettlementID: s.SettlementID,
		PartnerID:    s.PartnerID,
		Amount:       s.Amount,
		Method:       s.Method,
		Notes:        s.Notes,
		RecordedBy:   s.RecordedBy,
		Status:       string(s.Status),
		SettledAt:    s.SettledAt,
	}
}
