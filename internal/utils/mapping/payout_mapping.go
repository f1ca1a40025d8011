package mapping

import (
	"github.com/muz4miL/genius-academia-sub002/internal/core/domain"
	"github.com/muz4miL/genius-academia-sub002/internal/models"
)

// ToModelPayoutRequest converts a domain PayoutRequest to a model PayoutRequest
func ToModelPayoutRequest(d domain.PayoutRequest) models.PayoutRequest {
	return models.PayoutRequest{
		RequestID:     d.RequestID,
		StakeholderID: d.StakeholderID,
		Amount:        d.Amount,
		Status:        string(d.Status),
		RequestDate:   d.RequestDate,
		ResolvedBy:    d.ResolvedBy,
		ResolvedAt:    d.ResolvedAt,
		Notes:         d.Notes,
		LedgerEntryID: d.LedgerEntryID,
		ExpenseID:     d.ExpenseID,
	}
}

// ToDomainPayoutRequest converts a model PayoutRequest to a domain PayoutRequest
func ToDomainPayoutRequest(m models.PayoutRequest) domain.PayoutRequest {
	return domain.PayoutRequest{
		RequestID:     m.RequestID,
		StakeholderID: m.StakeholderID,
		Amount:        m.Amount,
		Status:        domain.PayoutStatus(m.Status),
		RequestDate:   m.RequestDate,
		ResolvedBy:    m.ResolvedBy,
		ResolvedAt:    m.ResolvedAt,
		Notes:         m.Notes,
		LedgerEntryID: m.LedgerEntryID,
		ExpenseID:     m.ExpenseID,
	}
}

// ToDomainPayoutRequestSlice converts a slice of model PayoutRequests
func ToDomainPayoutRequestSlice(ms []models.PayoutRequest) []domain.PayoutRequest {
	ds := make([]domain.PayoutRequest, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainPayoutRequest(m)
	}
	return ds
}
