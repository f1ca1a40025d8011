package mapping

import (
	"github.com/muz4miL/genius-academia-sub002/internal/core/domain"
	"github.com/muz4miL/genius-academia-sub002/internal/models"
)

// ToModelStakeholder converts a domain Stakeholder to a model Stakeholder
func ToModelStakeholder(d domain.Stakeholder) models.Stakeholder {
	return models.Stakeholder{
		StakeholderID:    d.StakeholderID,
		Name:             d.Name,
		Role:             models.StakeholderRole(d.Role),
		FloatingBalance:  d.FloatingBalance,
		VerifiedBalance:  d.VerifiedBalance,
		PaidOutTotal:     d.PaidOutTotal,
		DebtToProprietor: d.DebtToProprietor,
		WalletBalance:    d.WalletBalance,
		IsActive:         d.IsActive,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainStakeholder converts a model Stakeholder to a domain Stakeholder
func ToDomainStakeholder(m models.Stakeholder) domain.Stakeholder {
	return domain.Stakeholder{
		StakeholderID:    m.StakeholderID,
		Name:             m.Name,
		Role:             domain.StakeholderRole(m.Role),
		FloatingBalance:  m.FloatingBalance,
		VerifiedBalance:  m.VerifiedBalance,
		PaidOutTotal:     m.PaidOutTotal,
		DebtToProprietor: m.DebtToProprietor,
		WalletBalance:    m.WalletBalance,
		IsActive:         m.IsActive,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainStakeholderSlice converts a slice of model Stakeholders
func ToDomainStakeholderSlice(ms []models.Stakeholder) []domain.Stakeholder {
	ds := make([]domain.Stakeholder, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainStakeholder(m)
	}
	return ds
}
