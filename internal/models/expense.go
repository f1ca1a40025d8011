package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense represents a row in the expenses table.
type Expense struct {
	ExpenseID       string    `db:"expense_id"`
	Amount          int64     `db:"amount"`
	Category        string    `db:"category"`
	PaidByType      string    `db:"paid_by_type"`
	PaidByPartnerID string    `db:"paid_by_partner_id"` // nullable
	ExpenseDate     time.Time `db:"expense_date"`
	Notes           string    `db:"notes"`
	AuditFields
}

// ExpenseShare represents a row in the expense_shares table.
type ExpenseShare struct {
	ShareID      string          `db:"share_id"`
	ExpenseID    string          `db:"expense_id"`
	PartnerID    string          `db:"partner_id"`
	Amount       int64           `db:"amount"`
	Percent      decimal.Decimal `db:"percent"`
	Status       string          `db:"status"`
	SettlementID *string         `db:"settlement_id"` // nullable
}
