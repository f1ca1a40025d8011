package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/muz4miL/genius-academia-sub002/internal/core/domain"
)

// StakeholderReader defines read operations for stakeholder accounts.
type StakeholderReader interface {
	// FindStakeholderByID retrieves a specific stakeholder by its unique identifier.
	FindStakeholderByID(ctx context.Context, stakeholderID string) (*domain.Stakeholder, error)

	// FindStakeholdersByIDs retrieves multiple stakeholders by their IDs.
	FindStakeholdersByIDs(ctx context.Context, stakeholderIDs []string) (map[string]domain.Stakeholder, error)

	// ListStakeholders retrieves a paginated list of stakeholders.
	ListStakeholders(ctx context.Context, limit int, offset int) ([]domain.Stakeholder, error)

	// ListActivePartners retrieves all active equity partners (proprietor included),
	// in stable onboarding order.
	ListActivePartners(ctx context.Context) ([]domain.Stakeholder, error)
}

// StakeholderWriter defines write operations for stakeholder accounts.
// Balance fields are never written here; they change only through ledger mutations.
type StakeholderWriter interface {
	// SaveStakeholder persists a new stakeholder account.
	SaveStakeholder(ctx context.Context, stakeholder domain.Stakeholder) error

	// UpdateStakeholder updates non-balance details of an existing stakeholder.
	UpdateStakeholder(ctx context.Context, stakeholder domain.Stakeholder) error

	// DeactivateStakeholder marks a stakeholder as inactive. Accounts are never deleted.
	DeactivateStakeholder(ctx context.Context, stakeholderID string, userID string, now time.Time) error
}

// StakeholderTransactionSupport defines operations used inside ledger transactions.
type StakeholderTransactionSupport interface {
	// FindStakeholdersByIDsForUpdate selects stakeholders and locks their rows
	// for update within a transaction. IDs must be locked in sorted order by
	// the implementation to avoid deadlocks between concurrent batches.
	FindStakeholdersByIDsForUpdate(ctx context.Context, tx pgx.Tx, stakeholderIDs []string) (map[string]domain.Stakeholder, error)

	// ApplyBucketDeltasInTx applies balance bucket changes for multiple
	// stakeholders within a given transaction. Implementations must fail with
	// apperrors.ErrInsufficientBalance when a delta would take a bucket below zero.
	ApplyBucketDeltasInTx(ctx context.Context, tx pgx.Tx, deltas map[string][]domain.BucketDelta, userID string, now time.Time) error
}

// StakeholderRepositoryFacade combines all stakeholder repository interfaces.
type StakeholderRepositoryFacade interface {
	StakeholderReader
	StakeholderWriter
	StakeholderTransactionSupport
}
