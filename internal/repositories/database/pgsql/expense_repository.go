package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/muz4miL/genius-academia-sub002/internal/apperrors"
	"github.com/muz4miL/genius-academia-sub002/internal/core/domain"
	portsrepo "github.com/muz4miL/genius-academia-sub002/internal/core/ports/repositories"
	"github.com/muz4miL/genius-academia-sub002/internal/models"
	"github.com/muz4miL/genius-academia-sub002/internal/utils/mapping"
)

type PgxExpenseRepository struct {
	BaseRepository
	stakeholderRepo portsrepo.StakeholderRepositoryFacade
	ledgerRepo      portsrepo.LedgerRepositoryFacade
}

// newPgxExpenseRepository creates a new repository for expense data.
func newPgxExpenseRepository(pool *pgxpool.Pool, stakeholderRepo portsrepo.StakeholderRepositoryFacade, ledgerRepo portsrepo.LedgerRepositoryFacade) portsrepo.ExpenseRepositoryFacade {
	return &PgxExpenseRepository{
		BaseRepository:  BaseRepository{Pool: pool},
		stakeholderRepo: stakeholderRepo,
		ledgerRepo:      ledgerRepo,
	}
}

var _ portsrepo.ExpenseRepositoryFacade = (*PgxExpenseRepository)(nil)

const expenseColumns = `expense_id, amount, category, paid_by_type, paid_by_partner_id, expense_date, notes, created_at, created_by, last_updated_at, last_updated_by`
const shareColumns = `share_id, expense_id, partner_id, amount, percent, status, settlement_id`

// SaveExpense persists an expense with its shares and applies the given
// balance mutations in one transaction.
func (r *PgxExpenseRepository) SaveExpense(ctx context.Context, expense domain.ExpenseRecord, mutations []domain.BalanceMutation) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelExpense(expense)
	var payerID sql.NullString
	if m.PaidByPartnerID != "" {
		payerID = sql.NullString{String: m.PaidByPartnerID, Valid: true}
	}

	expenseQuery := `
		INSERT INTO expenses (` + expenseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	if _, err := tx.Exec(ctx, expenseQuery,
		m.ExpenseID, m.Amount, m.Category, m.PaidByType, payerID, m.ExpenseDate, m.Notes,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	); err != nil {
		return fmt.Errorf("failed to insert expense %s: %w", m.ExpenseID, err)
	}

	shareQuery := `
		INSERT INTO expense_shares (` + shareColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	batch := &pgx.Batch{}
	for _, share := range expense.Shares {
		sm := mapping.ToModelExpenseShare(share)
		batch.Queue(shareQuery, sm.ShareID, sm.ExpenseID, sm.PartnerID, sm.Amount, sm.Percent, sm.Status, sm.SettlementID)
	}
	br := tx.SendBatch(ctx, batch)
	for range expense.Shares {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("failed to insert expense share: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close expense share batch: %w", err)
	}

	if err := r.applyMutationsInTx(ctx, tx, mutations); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// applyMutationsInTx locks the affected rows, applies deltas, and inserts
// the accompanying ledger entries inside the expense transaction.
func (r *PgxExpenseRepository) applyMutationsInTx(ctx context.Context, tx pgx.Tx, mutations []domain.BalanceMutation) error {
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

func scanExpense(row pgx.Row) (models.Expense, error) {
	var m models.Expense
	var payerID sql.NullString
	err := row.Scan(
		&m.ExpenseID,
		&m.Amount,
		&m.Category,
		&m.PaidByType,
		&payerID,
		&m.ExpenseDate,
		&m.Notes,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	m.PaidByPartnerID = payerID.String
	return m, err
}

func scanExpenseShare(row pgx.Row) (models.ExpenseShare, error) {
	var m models.ExpenseShare
	err := row.Scan(
		&m.ShareID,
		&m.ExpenseID,
		&m.PartnerID,
		&m.Amount,
		&m.Percent,
		&m.Status,
		&m.SettlementID,
	)
	return m, err
}

// FindExpenseByID retrieves an expense with its shares.
func (r *PgxExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.ExpenseRecord, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE expense_id = $1;`

	m, err := scanExpense(r.Pool.QueryRow(ctx, query, expenseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find expense %s: %w", expenseID, err)
	}

	shares, err := r.findSharesByExpenseIDs(ctx, []string{expenseID})
	if err != nil {
		return nil, err
	}

	d := mapping.ToDomainExpense(m)
	d.Shares = shares[expenseID]
	return &d, nil
}

func (r *PgxExpenseRepository) findSharesByExpenseIDs(ctx context.Context, expenseIDs []string) (map[string][]domain.ExpenseShare, error) {
	query := `SELECT ` + shareColumns + ` FROM expense_shares WHERE expense_id = ANY($1) ORDER BY expense_id, share_id;`
	rows, err := r.Pool.Query(ctx, query, expenseIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query expense shares: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]domain.ExpenseShare)
	for rows.Next() {
		m, err := scanExpenseShare(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense share row: %w", err)
		}
		result[m.ExpenseID] = append(result[m.ExpenseID], mapping.ToDomainExpenseShare(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expense share rows: %w", err)
	}
	return result, nil
}

// ListExpenses retrieves a page of expenses with their shares, newest first.
func (r *PgxExpenseRepository) ListExpenses(ctx context.Context, limit int, offset int) ([]domain.ExpenseRecord, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses ORDER BY expense_date DESC, expense_id DESC LIMIT $1 OFFSET $2;`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []domain.ExpenseRecord
	var ids []string
	for rows.Next() {
		m, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense row: %w", err)
		}
		expenses = append(expenses, mapping.ToDomainExpense(m))
		ids = append(ids, m.ExpenseID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expense rows: %w", err)
	}
	if len(ids) == 0 {
		return expenses, nil
	}

	shares, err := r.findSharesByExpenseIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range expenses {
		expenses[i].Shares = shares[expenses[i].ExpenseID]
	}
	return expenses, nil
}

// ListUnpaidSharesByPartner retrieves a partner's UNPAID shares ordered
// oldest expense date first, the order auto-clear consumes them in.
func (r *PgxExpenseRepository) ListUnpaidSharesByPartner(ctx context.Context, partnerID string) ([]domain.ExpenseShare, error) {
	query := `
		SELECT s.share_id, s.expense_id, s.partner_id, s.amount, s.percent, s.status, s.settlement_id
		FROM expense_shares s
		JOIN expenses e ON e.expense_id = s.expense_id
		WHERE s.partner_id = $1 AND s.status = 'UNPAID'
		ORDER BY e.expense_date, e.expense_id;
	`
	rows, err := r.Pool.Query(ctx, query, partnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list unpaid shares for partner %s: %w", partnerID, err)
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
	return mapping.ToDomainExpenseShareSlice(ms), nil
}
