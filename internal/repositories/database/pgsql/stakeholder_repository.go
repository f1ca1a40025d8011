package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
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

type PgxStakeholderRepository struct {
	BaseRepository
}

// newPgxStakeholderRepository creates a new repository for stakeholder data.
func newPgxStakeholderRepository(pool *pgxpool.Pool) portsrepo.StakeholderRepositoryFacade {
	return &PgxStakeholderRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.StakeholderRepositoryFacade = (*PgxStakeholderRepository)(nil)

const stakeholderColumns = `stakeholder_id, name, role, floating_balance, verified_balance, paid_out_total, debt_to_proprietor, wallet_balance, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanStakeholder(row pgx.Row) (models.Stakeholder, error) {
	var m models.Stakeholder
	err := row.Scan(
		&m.StakeholderID,
		&m.Name,
		&m.Role,
		&m.FloatingBalance,
		&m.VerifiedBalance,
		&m.PaidOutTotal,
		&m.DebtToProprietor,
		&m.WalletBalance,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveStakeholder inserts a new stakeholder account with zeroed balances.
func (r *PgxStakeholderRepository) SaveStakeholder(ctx context.Context, stakeholder domain.Stakeholder) error {
	m := mapping.ToModelStakeholder(stakeholder)

	query := `
		INSERT INTO stakeholders (` + stakeholderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.StakeholderID,
		m.Name,
		m.Role,
		m.FloatingBalance,
		m.VerifiedBalance,
		m.PaidOutTotal,
		m.DebtToProprietor,
		m.WalletBalance,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: stakeholder with ID %s already exists", apperrors.ErrDuplicate, m.StakeholderID)
		}
		return fmt.Errorf("failed to save stakeholder %s: %w", m.StakeholderID, err)
	}
	return nil
}

// FindStakeholderByID retrieves a stakeholder by its ID.
func (r *PgxStakeholderRepository) FindStakeholderByID(ctx context.Context, stakeholderID string) (*domain.Stakeholder, error) {
	query := `SELECT ` + stakeholderColumns + ` FROM stakeholders WHERE stakeholder_id = $1;`

	m, err := scanStakeholder(r.Pool.QueryRow(ctx, query, stakeholderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find stakeholder %s: %w", stakeholderID, err)
	}
	d := mapping.ToDomainStakeholder(m)
	return &d, nil
}

// FindStakeholdersByIDs retrieves multiple stakeholders keyed by ID. Missing
// IDs are simply absent from the result; callers decide whether that is fatal.
func (r *PgxStakeholderRepository) FindStakeholdersByIDs(ctx context.Context, stakeholderIDs []string) (map[string]domain.Stakeholder, error) {
	if len(stakeholderIDs) == 0 {
		return map[string]domain.Stakeholder{}, nil
	}

	query := `SELECT ` + stakeholderColumns + ` FROM stakeholders WHERE stakeholder_id = ANY($1);`
	rows, err := r.Pool.Query(ctx, query, stakeholderIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query stakeholders: %w", err)
	}
	defer rows.Close()

	result := make(map[string]domain.Stakeholder, len(stakeholderIDs))
	for rows.Next() {
		m, err := scanStakeholder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stakeholder row: %w", err)
		}
		result[m.StakeholderID] = mapping.ToDomainStakeholder(m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stakeholder rows: %w", err)
	}
	return result, nil
}

// ListStakeholders retrieves a page of stakeholders in onboarding order.
func (r *PgxStakeholderRepository) ListStakeholders(ctx context.Context, limit int, offset int) ([]domain.Stakeholder, error) {
	query := `SELECT ` + stakeholderColumns + ` FROM stakeholders ORDER BY created_at, stakeholder_id LIMIT $1 OFFSET $2;`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list stakeholders: %w", err)
	}
	defer rows.Close()

	var ms []models.Stakeholder
	for rows.Next() {
		m, err := scanStakeholder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stakeholder row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stakeholder rows: %w", err)
	}
	return mapping.ToDomainStakeholderSlice(ms), nil
}

// ListActivePartners retrieves all active equity partners, proprietor included,
// in stable onboarding order.
func (r *PgxStakeholderRepository) ListActivePartners(ctx context.Context) ([]domain.Stakeholder, error) {
	query := `
		SELECT ` + stakeholderColumns + `
		FROM stakeholders
		WHERE is_active = TRUE AND role IN ('PARTNER', 'PROPRIETOR')
		ORDER BY created_at, stakeholder_id;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active partners: %w", err)
	}
	defer rows.Close()

	var ms []models.Stakeholder
	for rows.Next() {
		m, err := scanStakeholder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stakeholder row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stakeholder rows: %w", err)
	}
	return mapping.ToDomainStakeholderSlice(ms), nil
}

// UpdateStakeholder updates name and role. Balance columns are deliberately
// excluded; they change only through ApplyBucketDeltasInTx.
func (r *PgxStakeholderRepository) UpdateStakeholder(ctx context.Context, stakeholder domain.Stakeholder) error {
	m := mapping.ToModelStakeholder(stakeholder)

	query := `
		UPDATE stakeholders
		SET name = $2, role = $3, last_updated_at = $4, last_updated_by = $5
		WHERE stakeholder_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, m.StakeholderID, m.Name, m.Role, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to update stakeholder %s: %w", m.StakeholderID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeactivateStakeholder soft-deletes a stakeholder account.
func (r *PgxStakeholderRepository) DeactivateStakeholder(ctx context.Context, stakeholderID string, userID string, now time.Time) error {
	query := `
		UPDATE stakeholders
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE stakeholder_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, stakeholderID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to deactivate stakeholder %s: %w", stakeholderID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindStakeholdersByIDsForUpdate locks stakeholder rows for the duration of
// the surrounding transaction. IDs are locked in sorted order so concurrent
// batches touching overlapping sets cannot deadlock.
func (r *PgxStakeholderRepository) FindStakeholdersByIDsForUpdate(ctx context.Context, tx pgx.Tx, stakeholderIDs []string) (map[string]domain.Stakeholder, error) {
	if len(stakeholderIDs) == 0 {
		return map[string]domain.Stakeholder{}, nil
	}

	sorted := make([]string, len(stakeholderIDs))
	copy(sorted, stakeholderIDs)
	sort.Strings(sorted)

	query := `
		SELECT ` + stakeholderColumns + `
		FROM stakeholders
		WHERE stakeholder_id = ANY($1)
		ORDER BY stakeholder_id
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, query, sorted)
	if err != nil {
		return nil, fmt.Errorf("failed to lock stakeholder rows: %w", err)
	}
	defer rows.Close()

	result := make(map[string]domain.Stakeholder, len(sorted))
	for rows.Next() {
		m, err := scanStakeholder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan locked stakeholder row: %w", err)
		}
		result[m.StakeholderID] = mapping.ToDomainStakeholder(m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locked stakeholder rows: %w", err)
	}
	for _, id := range sorted {
		if _, ok := result[id]; !ok {
			return nil, fmt.Errorf("%w: stakeholder %s", apperrors.ErrNotFound, id)
		}
	}
	return result, nil
}

// ApplyBucketDeltasInTx applies balance changes for multiple stakeholders
// inside an existing transaction. The CHECK constraints on the balance
// columns are the final word on non-negativity; a violation surfaces as
// ErrInsufficientBalance regardless of what the caller read beforehand.
func (r *PgxStakeholderRepository) ApplyBucketDeltasInTx(ctx context.Context, tx pgx.Tx, deltas map[string][]domain.BucketDelta, userID string, now time.Time) error {
	ids := make([]string, 0, len(deltas))
	for id := range deltas {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, stakeholderID := range ids {
		for _, delta := range deltas[stakeholderID] {
			column, err := bucketColumn(delta.Bucket)
			if err != nil {
				return err
			}
			query := fmt.Sprintf(`
				UPDATE stakeholders
				SET %s = %s + $2, last_updated_at = $3, last_updated_by = $4
				WHERE stakeholder_id = $1;
			`, column, column)

			cmdTag, err := tx.Exec(ctx, query, stakeholderID, delta.Delta, now, userID)
			if err != nil {
				var pgErr *pgconn.PgError
				if errors.As(err, &pgErr) && pgErr.Code == "23514" {
					return fmt.Errorf("%w: %s bucket of stakeholder %s cannot go below zero",
						apperrors.ErrInsufficientBalance, delta.Bucket, stakeholderID)
				}
				return fmt.Errorf("failed to apply %s delta for stakeholder %s: %w", delta.Bucket, stakeholderID, err)
			}
			if cmdTag.RowsAffected() == 0 {
				return fmt.Errorf("%w: stakeholder %s", apperrors.ErrNotFound, stakeholderID)
			}
		}
	}
	return nil
}

// bucketColumn maps a balance bucket to its column. The switch is exhaustive
// on purpose: bucket names never reach SQL text from user input.
func bucketColumn(bucket domain.BalanceBucket) (string, error) {
	switch bucket {
	case domain.BucketFloating:
		return "floating_balance", nil
	case domain.BucketVerified:
		return "verified_balance", nil
	case domain.BucketPaidOut:
		return "paid_out_total", nil
	case domain.BucketWallet:
		return "wallet_balance", nil
	case domain.BucketDebt:
		return "debt_to_proprietor", nil
	}
	return "", fmt.Errorf("%w: unknown balance bucket %q", apperrors.ErrValidation, bucket)
}
