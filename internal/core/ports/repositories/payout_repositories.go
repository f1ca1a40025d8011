package repositories

import (
	"context"

	"github.com/muz4miL/genius-academia-sub002/internal/core/domain"
)

// PayoutReader defines read operations for payout requests.
type PayoutReader interface {
	// FindPayoutRequestByID retrieves a payout request.
	FindPayoutRequestByID(ctx context.Context, requestID string) (*domain.PayoutRequest, error)

	// ListPayoutRequests retrieves payout requests, optionally filtered by
	// status, newest first.
	ListPayoutRequests(ctx context.Context, status *domain.PayoutStatus, limit int, offset int) ([]domain.PayoutRequest, error)
}

// PayoutWriter defines write operations for payout requests.
type PayoutWriter interface {
	// SavePayoutRequest persists a new PENDING request. Implementations must
	// fail with apperrors.ErrDuplicatePending when the stakeholder already has
	// a pending request (enforced by a partial unique index, not client-side).
	SavePayoutRequest(ctx context.Context, request domain.PayoutRequest) error

	// ResolvePayout finalizes a PENDING request in one database transaction:
	// the status row update is conditional on the request still being PENDING
	// (anything else fails with apperrors.ErrInvalidState), then the balance
	// mutations are applied and the audit expense persisted. Rejections pass
	// no mutations and no expense.
	ResolvePayout(ctx context.Context, request domain.PayoutRequest, mutations []domain.BalanceMutation, auditExpense *domain.ExpenseRecord) error
}

// PayoutRepositoryFacade combines payout repository interfaces.
type PayoutRepositoryFacade interface {
	PayoutReader
	PayoutWriter
}
