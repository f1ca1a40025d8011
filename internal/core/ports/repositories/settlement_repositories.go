package repositories

import (
	"context"

	"github.com/muz4miL/genius-academia-sub002/internal/core/domain"
)

// SettlementResult reports what a recorded settlement changed.
type SettlementResult struct {
	NewDebt         int64
	ClearedShareIDs []string
}

// SettlementWriter defines write operations for settlements.
type SettlementWriter interface {
	// RecordSettlement performs the full settlement sequence in one database
	// transaction: insert the settlement record, lock the partner row and
	// reduce debtToProprietor (floored at zero), insert the debt-reduction
	// ledger entry from the given template with its amount set to the actual
	// reduction, and flip the selected shares to PAID.
	//
	// With explicit expense IDs, each must hold an UNPAID share for the
	// partner or the whole settlement fails. Without them, UNPAID shares are
	// consumed oldest expense date first and only when fully covered.
	RecordSettlement(ctx context.Context, settlement domain.SettlementRecord, explicitExpenseIDs []string, debtEntryTemplate domain.LedgerEntry) (*SettlementResult, error)
}

// SettlementReader defines read operations for settlements.
type SettlementReader interface {
	// FindSettlementByID retrieves a settlement record.
	FindSettlementByID(ctx context.Context, settlementID string) (*domain.SettlementRecord, error)

	// ListSettlementsByPartner retrieves a partner's settlements, newest first.
	ListSettlementsByPartner(ctx context.Context, partnerID string, limit int, offset int) ([]domain.SettlementRecord, error)
}

// SettlementRepositoryFacade combines settlement repository interfaces.
type SettlementRepositoryFacade interface {
	SettlementReader
	SettlementWriter
}
