package models

import "time"

// Settlement represents a row in the settlements table.
type Settlement struct {
	SettlementID string    `db:"settlement_id"`
	PartnerID    string    `db:"partner_id"`
	Amount       int64     `db:"amount"`
	Method       string    `db:"method"`
	Notes        string    `db:"notes"`
	RecordedBy   string    `db:"recorded_by"`
	Status       string    `db:"status"`
	SettledAt    time.Time `db:"settled_at"`
	AuditFields
}
