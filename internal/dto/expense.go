package dto

import (
	"time"

	"github.com/muz4miL/genius-academia-sub002/internal/core/domain"
)

// RecordExpenseRequest is the payload for recording an expense.
type RecordExpenseRequest struct {
	Amount          int64             `json:"amount" binding:"required,gt=0"`
	Category        string            `json:"category" binding:"required"`
	PaidByType      domain.PaidByType `json:"paidByType" binding:"required,paidbytype"`
	PaidByPartnerID string            `json:"paidByPartnerID"` // required when paidByType is PARTNER
	ExpenseDate     *time.Time        `json:"expenseDate"`     // defaults to now
	Notes           string            `json:"notes"`
}

// ExpenseShareResponse is the API representation of one partner's share.
type ExpenseShareResponse struct {
	ShareID      string  `json:"shareID"`
	PartnerID    string  `json:"partnerID"`
	Amount       int64   `json:"amount"`
	Percent      string  `json:"percent"`
	Status       string  `json:"status"`
	SettlementID *string `json:"settlementID,omitempty"`
}

// ExpenseResponse is the API representation of an expense record.
type ExpenseResponse struct {
	ExpenseID       string                 `json:"expenseID"`
	Amount          int64                  `json:"amount"`
	Category        string                 `json:"category"`
	PaidByType      domain.PaidByType      `json:"paidByType"`
	PaidByPartnerID string                 `json:"paidByPartnerID,omitempty"`
	ExpenseDate     time.Time              `json:"expenseDate"`
	Notes           string                 `json:"notes,omitempty"`
	Shares          []ExpenseShareResponse `json:"shares"`
}

// ToExpenseResponse converts a domain ExpenseRecord to its API representation.
func ToExpenseResponse(e *domain.ExpenseRecord) ExpenseResponse {
	shares := make([]ExpenseShareResponse, len(e.Shares))
	for i, s := range e.Shares {
		shares[i] = ExpenseShareResponse{
			ShareID:      s.ShareID,
			PartnerID:    s.PartnerID,
			Amount:       s.Amount,
			Percent:      s.Percent.String(),
			Status:       string(s.Status),
			SettlementID: s.SettlementID,
		}
	}
	return ExpenseResponse{
		ExpenseID:       e.ExpenseID,
		Amount:          e.Amount,
		Category:        e.Category,
		PaidByType:      e.PaidByType,
		PaidByPartnerID: e.PaidByPartnerID,
		ExpenseDate:     e.ExpenseDate,
		Notes:           e.Notes,
		Shares:          shares,
	}
}

// ListExpensesResponse is a page of expenses.
type ListExpensesResponse struct {
	Expenses []ExpenseResponse `json:"expenses"`
}
