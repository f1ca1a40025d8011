package models

// LedgerEntry represents a row in the ledger_entries table. StakeholderID is
// NULL for organization-scoped entries (pool credits).
type LedgerEntry struct {
	EntryID       string `db:"entry_id"`
	StakeholderID string `db:"stakeholder_id"` // nullable
	Kind          string `db:"kind"`
	Status        string `db:"status"`
	Direction     string `db:"direction"`
	Bucket        string `db:"bucket"` // nullable
	Amount        int64  `db:"amount"`
	Stream        string `db:"stream"`
	SourceType    string `db:"source_type"`
	SourceID      string `db:"source_id"`
	Notes         string `db:"notes"`
	AuditFields
}
