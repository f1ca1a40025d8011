package mapping

import (
	"github.com/muz4miL/genius-academia-sub002/internal/core/domain"
	"github.com/muz4miL/genius-academia-sub002/internal/models"
)

// ToModelExpense converts a domain ExpenseRecord to a model Expense
func ToModelExpense(d domain.ExpenseRecord) models.Expense {
	return models.Expense{
		ExpenseID:       d.ExpenseID,
		Amount:          d.Amount,
		Category:        d.Category,
		PaidByType:      string(d.PaidByType),
		PaidByPartnerID: d.PaidByPartnerID,
		ExpenseDate:     d.ExpenseDate,
		Notes:           d.Notes,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainExpense converts a model Expense (without shares) to a domain ExpenseRecord
func ToDomainExpense(m models.Expense) domain.ExpenseRecord {
	return domain.ExpenseRecord{
		ExpenseID:       m.ExpenseID,
		Amount:          m.Amount,
		Category:        m.Category,
		PaidByType:      domain.PaidByType(m.PaidByType),
		PaidByPartnerID: m.PaidByPartnerID,
		ExpenseDate:     m.ExpenseDate,
		Notes:           m.Notes,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelExpenseShare converts a domain ExpenseShare to a model ExpenseShare
func ToModelExpenseShare(d domain.ExpenseShare) models.ExpenseShare {
	return models.ExpenseShare{
		ShareID:      d.ShareID,
		ExpenseID:    d.ExpenseID,
		PartnerID:    d.PartnerID,
		Amount:       d.Amount,
		Percent:      d.Percent,
		Status:       string(d.Status),
		SettlementID: d.SettlementID,
	}
}

// ToDomainExpenseShare converts a model ExpenseShare to a domain ExpenseShare
func ToDomainExpenseShare(m models.ExpenseShare) domain.ExpenseShare {
	return domain.ExpenseShare{
		ShareID:      m.ShareID,
		ExpenseID:    m.ExpenseID,
		PartnerID:    m.PartnerID,
		Amount:       m.Amount,
		Percent:      m.Percent,
		Status:       domain.ShareStatus(m.Status),
		SettlementID: m.SettlementID,
	}
}

// ToDomainExpenseShareSlice converts a slice of model ExpenseShares
func ToDomainExpenseShareSlice(ms []models.ExpenseShare) []domain.ExpenseShare {
	ds := make([]domain.ExpenseShare, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainExpenseShare(m)
	}
	return ds
}
