package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/muz4miL/genius-academia-sub002/internal/apperrors"
	"github.com/muz4miL/genius-academia-sub002/internal/core/domain"
	portsrepo "github.com/muz4miL/genius-academia-sub002/internal/core/ports/repositories"
	"github.com/muz4miL/genius-academia-sub002/internal/models"
	"github.com/muz4miL/genius-academia-sub002/internal/utils/accounting"
	"github.com/muz4miL/genius-academia-sub002/internal/utils/mapping"
)

type PgxSettlementRepository struct {
	BaseRepository
	stakeholderRepo portsrepo.StakeholderRepositoryFacade
	ledgerRepo      portsrepo.LedgerRepositoryFacade
}

// newPgxSettlementRepository creates a new repository for settlement data.
func newPgxSettlementRepository(pool *pgxpool.Pool, stakeholderRepo portsrepo.StakeholderRepositoryFacade, ledgerRepo portsrepo.LedgerRepositoryFacade) portsrepo.SettlementRepositoryFacade {
	return &PgxSettlementRepository{
		BaseRepository:  BaseRepository{Pool: pool},
		stakeholderRepo: stakeholderRepo,
		ledgerRepo:      ledgerRepo,
	}
}

var _ portsrepo.SettlementRepositoryFacade = (*PgxSettlementRepository)(nil)

const settlementColumns = `settlement_id, partner_id, amount, method, notes, recorded_by, status, settled_at, created_at, created_by, last_updated_at, last_updated_by`

// RecordSettlement performs the full settlement sequence in one transaction.
// The debt reduction is computed under the partner's row lock, so a
// concurrent settlement can never drive the debt negative.
func (r *PgxSettlementRepository) RecordSettlement(ctx context.Context, settlement domain.SettlementRecord, explicitExpenseIDs []string, debtEntryTemplate domain.LedgerEntry) (*portsrepo.SettlementResult, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelSettlement(settlement)
	insertQuery := `
		INSERT INTO settlements (` + settlementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	if _, err := tx.Exec(ctx, insertQuery,
		m.SettlementID, m.PartnerID, m.Amount, m.Method, m.Notes, m.RecordedBy, m.Status, m.SettledAt,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	); err != nil {
		return nil, fmt.Errorf("failed to insert settlement %s: %w", m.SettlementID, err)
	}

	locked, err := r.stakeholderRepo.FindStakeholdersByIDsForUpdate(ctx, tx, []string{settlement.PartnerID})
	if err != nil {
		return nil, err
	}
	partner := locked[settlement.PartnerID]

	newDebt := domain.ReduceDebt(partner.DebtToProprietor, settlement.Amount)
	reduction := partner.DebtToProprietor - newDebt

	if reduction > 0 {
		deltas := map[string][]domain.BucketDelta{
			settlement.PartnerID: {{Bucket: domain.BucketDebt, Delta: -reduction}},
		}
		if err := r.stakeholderRepo.ApplyBucketDeltasInTx(ctx, tx, deltas, settlement.RecordedBy, time.Now().UTC()); err != nil {
			return nil, err
		}
		// The template carries the paid amount; the entry records the actual
		// reduction so ledger history sums back to the debt balance.
		entry := debtEntryTemplate
		entry.Amount = reduction
		if err := r.ledgerRepo.SaveEntriesInTx(ctx, tx, []domain.LedgerEntry{entry}); err != nil {
			return nil, err
		}
	}

	var clearedIDs []string
	if len(explicitExpenseIDs) > 0 {
		clearedIDs, err = r.clearExplicitShares(ctx, tx, settlement, explicitExpenseIDs)
	} else {
		clearedIDs, err = r.autoClearShares(ctx, tx, settlement)
	}
	if err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &portsrepo.SettlementResult{NewDebt: newDebt, ClearedShareIDs: clearedIDs}, nil
}

// clearExplicitShares flips the partner's UNPAID share of each named expense
// to PAID. Every named expense must hold such a share or the settlement fails.
func (r *PgxSettlementRepository) clearExplicitShares(ctx context.Context, tx pgx.Tx, settlement domain.SettlementRecord, expenseIDs []string) ([]string, error) {
	cleared := make([]string, 0, len(expenseIDs))
	for _, expenseID := range expenseIDs {
		var shareID string
		err := tx.QueryRow(ctx, `
			SELECT share_id FROM expense_shares
			WHERE expense_id = $1 AND partner_id = $2 AND status = 'UNPAID'
			FOR UPDATE;
		`, expenseID, settlement.PartnerID).Scan(&shareID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("%w: expense %s has no unpaid share for partner %s",
					apperrors.ErrInvalidState, expenseID, settlement.PartnerID)
			}
			return nil, fmt.Errorf("failed to lock share for expense %s: %w", expenseID, err)
		}
		if err := r.markSharePaid(ctx, tx, shareID, settlement.SettlementID); err != nil {
			return nil, err
		}
		cleared = append(cleared, shareID)
	}
	return cleared, nil
}

// autoClearShares consumes the partner's UNPAID shares oldest expense date
// first, clearing only shares the settlement amount fully covers.
func (r *PgxSettlementRepository) autoClearShares(ctx context.Context, tx pgx.Tx, settlement domain.SettlementRecord) ([]string, error) {
	rows, err := tx.Query(ctx, `
		SELECT s.share_id, s.expense_id, s.partner_id, s.amount, s.percent, s.status, s.settlement_id
		FROM expense_shares s
		JOIN expenses e ON e.expense_id = s.expense_id
		WHERE s.partner_id = $1 AND s.status = 'UNPAID'
		ORDER BY e.expense_date, e.expense_id
		FOR UPDATE OF s;
	`, settlement.PartnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock unpaid shares for partner %s: %w", settlement.PartnerID, err)
	}
	defer rows.Close()

	var ms []models.ExpenseShare
	for rows.Next() {
		m, err := scanExpenseShare(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense share row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expense share rows: %w", err)
	}

	cleared := accounting.PlanAutoClear(mapping.ToDomainExpenseShareSlice(ms), settlement.Amount)
	for _, shareID := range cleared {
		if err := r.markSharePaid(ctx, tx, shareID, settlement.SettlementID); err != nil {
			return nil, err
		}
	}
	return cleared, nil
}

func (r *PgxSettlementRepository) markSharePaid(ctx context.Context, tx pgx.Tx, shareID string, settlementID string) error {
	cmdTag, err := tx.Exec(ctx, `
		UPDATE expense_shares
		SET status = 'PAID', settlement_id = $2
		WHERE share_id = $1 AND status = 'UNPAID';
	`, shareID, settlementID)
	if err != nil {
		return fmt.Errorf("failed to mark share %s paid: %w", shareID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: share %s is no longer unpaid", apperrors.ErrConflict, shareID)
	}
	return nil
}

func scanSettlement(row pgx.Row) (models.Settlement, error) {
	var m models.Settlement
	err := row.Scan(
		&m.SettlementID,
		&m.PartnerID,
		&m.Amount,
		&m.Method,
		&m.Notes,
		&m.RecordedBy,
		&m.Status,
		&m.SettledAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindSettlementByID retrieves a settlement record.
func (r *PgxSettlementRepository) FindSettlementByID(ctx context.Context, settlementID string) (*domain.SettlementRecord, error) {
	query := `SELECT ` + settlementColumns + ` FROM settlements WHERE settlement_id = $1;`

	m, err := scanSettlement(r.Pool.QueryRow(ctx, query, settlementID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find settlement %s: %w", settlementID, err)
	}
	d := mapping.ToDomainSettlement(m)
	return &d, nil
}

// ListSettlementsByPartner retrieves a partner's settlements, newest first.
func (r *PgxSettlementRepository) ListSettlementsByPartner(ctx context.Context, partnerID string, limit int, offset int) ([]domain.SettlementRecord, error) {
	query := `
		SELECT ` + settlementColumns + `
		FROM settlements
		WHERE partner_id = $1
		ORDER BY settled_at DESC, settlement_id DESC
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, partnerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements for partner %s: %w", partnerID, err)
	}
	defer rows.Close()

	var ms []models.Settlement
	for rows.Next() {
		m, err := scanSettlement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan settlement row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating settlement rows: %w", err)
	}
	return mapping.ToDomainSettlementSlice(ms), nil
}
