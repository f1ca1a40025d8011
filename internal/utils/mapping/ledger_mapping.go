package mapping

import (
	"github.com/muz4miL/genius-academia-sub002/internal/core/domain"
	"github.com/muz4miL/genius-academia-sub002/internal/models"
)

// ToModelLedgerEntry converts a domain LedgerEntry to a model LedgerEntry
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:       d.EntryID,
		StakeholderID: d.StakeholderID,
		Kind:          string(d.Kind),
		Status:        string(d.Status),
		Direction:     string(d.Direction),
		Bucket:        string(d.Bucket),
		Amount:        d.Amount,
		Stream:        string(d.Stream),
		SourceType:    string(d.SourceType),
		SourceID:      d.SourceID,
		Notes:         d.Notes,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLedgerEntry converts a model LedgerEntry to a domain LedgerEntry
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:       m.EntryID,
		StakeholderID: m.StakeholderID,
		Kind:          domain.EntryKind(m.Kind),
		Status:        domain.EntryStatus(m.Status),
		Direction:     domain.EntryDirection(m.Direction),
		Bucket:        domain.BalanceBucket(m.Bucket),
		Amount:        m.Amount,
		Stream:        domain.RevenueStream(m.Stream),
		SourceType:    domain.SourceType(m.SourceType),
		SourceID:      m.SourceID,
		Notes:         m.Notes,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainLedgerEntrySlice converts a slice of model LedgerEntries
func ToDomainLedgerEntrySlice(ms []models.LedgerEntry) []domain.LedgerEntry {
	ds := make([]domain.LedgerEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLedgerEntry(m)
	}
	return ds
}
