package repositories

import (
	"context"

	"github.com/muz4miL/genius-academia-sub002/internal/core/domain"
)

// ExpenseReader defines read operations for expense records.
type ExpenseReader interface {
	// FindExpenseByID retrieves an expense with its shares.
	FindExpenseByID(ctx context.Context, expenseID string) (*domain.ExpenseRecord, error)

	// ListExpenses retrieves a paginated list of expenses, newest first.
	ListExpenses(ctx context.Context, limit int, offset int) ([]domain.ExpenseRecord, error)

	// ListUnpaidSharesByPartner retrieves a partner's UNPAID shares ordered
	// oldest expense date first.
	ListUnpaidSharesByPartner(ctx context.Context, partnerID string) ([]domain.ExpenseShare, error)
}

// ExpenseWriter defines write operations for expense records.
type ExpenseWriter interface {
	// SaveExpense persists an expense with its shares and applies the given
	// balance mutations (e.g. the paying partner's wallet debit) in one
	// database transaction.
	SaveExpense(ctx context.Context, expense domain.ExpenseRecord, mutations []domain.BalanceMutation) error
}

// ExpenseRepositoryFacade combines all expense repository interfaces.
type ExpenseRepositoryFacade interface {
	ExpenseReader
	ExpenseWriter
}
