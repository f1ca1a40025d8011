package dto

import (
	"time"

	"github.com/muz4miL/genius-academia-sub002/internal/core/domain"
)

// RequestPayoutRequest is the payload for an instructor's cash-out request.
type RequestPayoutRequest struct {
	StakeholderID string `json:"stakeholderID" binding:"required"`
	Amount        int64  `json:"amount" binding:"required,gt=0"`
}

// ApprovePayoutRequest carries optional approver notes.
type ApprovePayoutRequest struct {
	Notes string `json:"notes"`
}

// RejectPayoutRequest carries the mandatory rejection reason.
type RejectPayoutRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// PayoutRequestResponse is the API representation of a payout request.
type PayoutRequestResponse struct {
	RequestID     string     `json:"requestID"`
	StakeholderID string     `json:"stakeholderID"`
	Amount        int64      `json:"amount"`
	Status        string     `json:"status"`
	RequestDate   time.Time  `json:"requestDate"`
	ResolvedBy    string     `json:"resolvedBy,omitempty"`
	ResolvedAt    *time.Time `json:"resolvedAt,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	LedgerEntryID string     `json:"ledgerEntryID,omitempty"`
	ExpenseID     string     `json:"expenseID,omitempty"`
}

// ToPayoutRequestResponse converts a domain PayoutRequest.
func ToPayoutRequestResponse(r *domain.PayoutRequest) PayoutRequestResponse {
	return PayoutRequestResponse{
		RequestID:     r.RequestID,
		StakeholderID: r.StakeholderID,
		Amount:        r.Amount,
		Status:        string(r.Status),
		RequestDate:   r.RequestDate,
		ResolvedBy:    r.ResolvedBy,
		ResolvedAt:    r.ResolvedAt,
		Notes:         r.Notes,
		LedgerEntryID: r.LedgerEntryID,
		ExpenseID:     r.ExpenseID,
	}
}

// ListPayoutRequestsResponse is a page of payout requests.
type ListPayoutRequestsResponse struct {
	Requests []PayoutRequestResponse `json:"requests"`
}
