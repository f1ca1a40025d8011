package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaidByType classifies which pocket an expense was paid from.
type PaidByType string

const (
	PaidByOrganization PaidByType = "ORGANIZATION" // organization funds
	PaidByPool         PaidByType = "POOL"         // pooled funds, before split
	PaidByPartner      PaidByType = "PARTNER"      // a specific partner's own pocket
)

// ShareStatus is the settlement state of one partner's share of an expense.
type ShareStatus string

const (
	ShareNotApplicable ShareStatus = "NOT_APPLICABLE"
	ShareUnpaid        ShareStatus = "UNPAID"
	SharePaid          ShareStatus = "PAID"
)

// ExpenseShare is one partner's computed portion of an expense. Shares are
// created with the expense and mutated only by settlement processing.
type ExpenseShare struct {
	ShareID      string          `json:"shareID"`
	ExpenseID    string          `json:"expenseID"`
	PartnerID    string          `json:"partnerID"`
	Amount       int64           `json:"amount"`
	Percent      decimal.Decimal `json:"percent"`
	Status       ShareStatus     `json:"status"`
	SettlementID *string         `json:"settlementID,omitempty"`
}

// ExpenseRecord captures one outgoing expense and its per-partner shares.
type ExpenseRecord struct {
	ExpenseID       string         `json:"expenseID"`
	Amount          int64          `json:"amount"`
	Category        string         `json:"category"`
	PaidByType      PaidByType     `json:"paidByType"`
	PaidByPartnerID string         `json:"paidByPartnerID,omitempty"` // set when PaidByType is PARTNER
	ExpenseDate     time.Time      `json:"expenseDate"`
	Notes           string         `json:"notes,omitempty"`
	Shares          []ExpenseShare `json:"shares"`
	AuditFields
}

// UnpaidShareFor returns the index of the partner's UNPAID share, or -1.
func (e *ExpenseRecord) UnpaidShareFor(partnerID string) int {
	for i, share := range e.Shares {
		if share.PartnerID == partnerID && share.Status == ShareUnpaid {
			return i
		}
	}
	return -1
}
