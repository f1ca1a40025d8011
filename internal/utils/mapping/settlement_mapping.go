package mapping

import (
	"github.com/muz4miL/genius-academia-sub002/internal/core/domain"
	"github.com/muz4miL/genius-academia-sub002/internal/models"
)

// ToModelSettlement converts a domain SettlementRecord to a model Settlement
func ToModelSettlement(d domain.SettlementRecord) models.Settlement {
	return models.Settlement{
		SettlementID: d.SettlementID,
		PartnerID:    d.PartnerID,
		Amount:       d.Amount,
		Method:       d.Method,
		Notes:        d.Notes,
		RecordedBy:   d.RecordedBy,
		Status:       string(d.Status),
		SettledAt:    d.SettledAt,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainSettlement converts a model Settlement to a domain SettlementRecord
func ToDomainSettlement(m models.Settlement) domain.SettlementRecord {
	return domain.SettlementRecord{
		SettlementID: m.SettlementID,
		PartnerID:    m.PartnerID,
		Amount:       m.Amount,
		Method:       m.Method,
		Notes:        m.Notes,
		RecordedBy:   m.RecordedBy,
		Status:       domain.SettlementStatus(m.Status),
		SettledAt:    m.SettledAt,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainSettlementSlice converts a slice of model Settlements
func ToDomainSettlementSlice(ms []models.Settlement) []domain.SettlementRecord {
	ds := make([]domain.SettlementRecord, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainSettlement(m)
	}
	return ds
}
