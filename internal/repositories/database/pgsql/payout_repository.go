package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/muz4miL/genius-academia-sub002/internal/apperrors"
	"github.com/muz4miL/genius-academia-sub002/internal/core/domain"
	portsrepo "github.com/muz4miL/genius-academia-sub002/internal/core/ports/repositories"
	"github.com/muz4miL/genius-academia-sub002/internal/models"
	"github.com/muz4miL/genius-academia-sub002/internal/utils/mapping"
)

type PgxPayoutRepository struct {
	BaseRepository
	stakeholderRepo portsrepo.StakeholderRepositoryFacade
	ledgerRepo      portsrepo.LedgerRepositoryFacade
}

// newPgxPayoutRepository creates a new repository for payout request data.
func newPgxPayoutRepository(pool *pgxpool.Pool, stakeholderRepo portsrepo.StakeholderRepositoryFacade, ledgerRepo portsrepo.LedgerRepositoryFacade) portsrepo.PayoutRepositoryFacade {
	return &PgxPayoutRepository{
		BaseRepository:  BaseRepository{Pool: pool},
		stakeholderRepo: stakeholderRepo,
		ledgerRepo:      ledgerRepo,
	}
}

var _ portsrepo.PayoutRepositoryFacade = (*PgxPayoutRepository)(nil)

const payoutColumns = `request_id, stakeholder_id, amount, status, request_date, resolved_by, resolved_at, notes, ledger_entry_id, expense_id`

// SavePayoutRequest persists a new PENDING request. The partial unique index
// on (stakeholder_id) WHERE status = 'PENDING' is the concurrency arbiter:
// two simultaneous requests cannot both land.
func (r *PgxPayoutRepository) SavePayoutRequest(ctx context.Context, request domain.PayoutRequest) error {
	m := mapping.ToModelPayoutRequest(request)

	query := `
		INSERT INTO payout_requests (request_id, stakeholder_id, amount, status, request_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := r.Pool.Exec(ctx, query, m.RequestID, m.StakeholderID, m.Amount, m.Status, m.RequestDate, m.Notes)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: stakeholder %s already has a pending payout request",
				apperrors.ErrDuplicatePending, m.StakeholderID)
		}
		return fmt.Errorf("failed to save payout request %s: %w", m.RequestID, err)
	}
	return nil
}

// ResolvePayout finalizes a PENDING request in one transaction. The status
// update is conditional on the row still being PENDING; losing that race
// fails with ErrInvalidState and nothing else is applied.
func (r *PgxPayoutRepository) ResolvePayout(ctx context.Context, request domain.PayoutRequest, mutations []domain.BalanceMutation, auditExpense *domain.ExpenseRecord) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelPayoutRequest(request)
	var entryID, expenseID sql.NullString
	if m.LedgerEntryID != "" {
		entryID = sql.NullString{String: m.LedgerEntryID, Valid: true}
	}
	if m.ExpenseID != "" {
		expenseID = sql.NullString{String: m.ExpenseID, Valid: true}
	}

	cmdTag, err := tx.Exec(ctx, `
		UPDATE payout_requests
		SET status = $2, resolved_by = $3, resolved_at = $4, notes = $5, ledger_entry_id = $6, expense_id = $7
		WHERE request_id = $1 AND status = 'PENDING';
	`, m.RequestID, m.Status, m.ResolvedBy, m.ResolvedAt, m.Notes, entryID, expenseID)
	if err != nil {
		return fmt.Errorf("failed to resolve payout request %s: %w", m.RequestID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: payout request %s is not pending", apperrors.ErrInvalidState, m.RequestID)
	}

	if err := r.applyMutationsInTx(ctx, tx, mutations); err != nil {
		return err
	}

	if auditExpense != nil {
		if err := r.saveExpenseInTx(ctx, tx, *auditExpense); err != nil {
			return err
		}
	}

	return r.Commit(ctx, tx)
}

func (r *PgxPayoutRepository) applyMutationsInTx(ctx context.Context, tx pgx.Tx, mutations []domain.BalanceMutation) error {
	if len(mutations) == 0 {
		return nil
	}

	deltasByID := make(map[string][]domain.BucketDelta)
	var entries []domain.LedgerEntry
	var userID string
	for _, m := range mutations {
		if m.StakeholderID != "" && len(m.Deltas) > 0 {
			deltasByID[m.StakeholderID] = append(deltasByID[m.StakeholderID], m.Deltas...)
		}
		entries = append(entries, m.Entries...)
		for _, e := range m.Entries {
			if userID == "" {
				userID = e.CreatedBy
			}
		}
	}

	if len(deltasByID) > 0 {
		ids := make([]string, 0, len(deltasByID))
		for id := range deltasByID {
			ids = append(ids, id)
		}
		if _, err := r.stakeholderRepo.FindStakeholdersByIDsForUpdate(ctx, tx, ids); err != nil {
			return err
		}
		if err := r.stakeholderRepo.ApplyBucketDeltasInTx(ctx, tx, deltasByID, userID, time.Now().UTC()); err != nil {
			return err
		}
	}
	return r.ledgerRepo.SaveEntriesInTx(ctx, tx, entries)
}

func (r *PgxPayoutRepository) saveExpenseInTx(ctx context.Context, tx pgx.Tx, expense domain.ExpenseRecord) error {
	m := mapping.ToModelExpense(expense)
	var payerID sql.NullString
	if m.PaidByPartnerID != "" {
		payerID = sql.NullString{String: m.PaidByPartnerID, Valid: true}
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO expenses (`+expenseColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`, m.ExpenseID, m.Amount, m.Category, m.PaidByType, payerID, m.ExpenseDate, m.Notes,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	); err != nil {
		return fmt.Errorf("failed to insert audit expense %s: %w", m.ExpenseID, err)
	}

	batch := &pgx.Batch{}
	for _, share := range expense.Shares {
		sm := mapping.ToModelExpenseShare(share)
		batch.Queue(`
			INSERT INTO expense_shares (`+shareColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7);
		`, sm.ShareID, sm.ExpenseID, sm.PartnerID, sm.Amount, sm.Percent, sm.Status, sm.SettlementID)
	}
	br := tx.SendBatch(ctx, batch)
	for range expense.Shares {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("failed to insert audit expense share: %w", err)
		}
	}
	return br.Close()
}

func scanPayoutRequest(row pgx.Row) (models.PayoutRequest, error) {
	var m models.PayoutRequest
	var resolvedBy, entryID, expenseID sql.NullString
	err := row.Scan(
		&m.RequestID,
		&m.StakeholderID,
		&m.Amount,
		&m.Status,
		&m.RequestDate,
		&resolvedBy,
		&m.ResolvedAt,
		&m.Notes,
		&entryID,
		&expenseID,
	)
	m.ResolvedBy = resolvedBy.String
	m.LedgerEntryID = entryID.String
	m.ExpenseID = expenseID.String
	return m, err
}

// FindPayoutRequestByID retrieves a payout request.
func (r *PgxPayoutRepository) FindPayoutRequestByID(ctx context.Context, requestID string) (*domain.PayoutRequest, error) {
	query := `SELECT ` + payoutColumns + ` FROM payout_requests WHERE request_id = $1;`

	m, err := scanPayoutRequest(r.Pool.QueryRow(ctx, query, requestID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find payout request %s: %w", requestID, err)
	}
	d := mapping.ToDomainPayoutRequest(m)
	return &d, nil
}

// ListPayoutRequests retrieves payout requests, optionally filtered by
// status, newest first.
func (r *PgxPayoutRepository) ListPayoutRequests(ctx context.Context, status *domain.PayoutStatus, limit int, offset int) ([]domain.PayoutRequest, error) {
	query := `SELECT ` + payoutColumns + ` FROM payout_requests`
	args := []interface{}{limit, offset}
	if status != nil {
		query += ` WHERE status = $3`
		args = append(args, string(*status))
	}
	query += ` ORDER BY request_date DESC, request_id DESC LIMIT $1 OFFSET $2;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payout requests: %w", err)
	}
	defer rows.Close()

	var ms []models.PayoutRequest
	for rows.Next() {
		m, err := scanPayoutRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payout request row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payout request rows: %w", err)
	}
	return mapping.ToDomainPayoutRequestSlice(ms), nil
}
