package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/muz4miL/genius-academia-sub002/internal/core/domain"
)

// LedgerWriter defines write operations for the ledger.
type LedgerWriter interface {
	// ApplyMutations applies a batch of balance mutations atomically: all
	// affected stakeholder rows are locked (in sorted ID order), bucket deltas
	// applied, and every ledger entry inserted in the same database
	// transaction. A delta that would take a bucket below zero fails the whole
	// batch with apperrors.ErrInsufficientBalance.
	ApplyMutations(ctx context.Context, mutations []domain.BalanceMutation) error

	// SaveEntriesInTx inserts ledger entries within an existing transaction.
	SaveEntriesInTx(ctx context.Context, tx pgx.Tx, entries []domain.LedgerEntry) error
}

// LedgerReader defines read operations for the ledger.
type LedgerReader interface {
	// FindEntryByID retrieves a single ledger entry.
	FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error)

	// ListEntriesByStakeholder retrieves a page of a stakeholder's ledger
	// entries, newest first, using token pagination.
	ListEntriesByStakeholder(ctx context.Context, stakeholderID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)
}

// LedgerRepositoryFacade combines ledger read and write interfaces.
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
	TransactionManager
}
