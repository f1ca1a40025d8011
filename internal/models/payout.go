package models

import "time"

// PayoutRequest represents a row in the payout_requests table. A partial
// unique index on (stakeholder_id) WHERE status = 'PENDING' enforces the
// one-pending-request rule.
type PayoutRequest struct {
	RequestID     string     `db:"request_id"`
	StakeholderID string     `db:"stakeholder_id"`
	Amount        int64      `db:"amount"`
	Status        string     `db:"status"`
	RequestDate   time.Time  `db:"request_date"`
	ResolvedBy    string     `db:"resolved_by"` // nullable
	ResolvedAt    *time.Time `db:"resolved_at"` // nullable
	Notes         string     `db:"notes"`
	LedgerEntryID string     `db:"ledger_entry_id"` // nullable
	ExpenseID     string     `db:"expense_id"`      // nullable
}
