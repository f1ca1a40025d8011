package pgsql

import (
	"context"
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

type PgxPolicyRepository struct {
	BaseRepository
}

// newPgxPolicyRepository creates a new repository for policy data.
func newPgxPolicyRepository(pool *pgxpool.Pool) portsrepo.PolicyRepositoryFacade {
	return &PgxPolicyRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PolicyRepositoryFacade = (*PgxPolicyRepository)(nil)

const policyColumns = `policy_id, name, staff_share_percent, partner_full_share, exam_commission_per_head, fixed_salary_subject, is_active, created_at, created_by, last_updated_at, last_updated_by`

// SavePolicy persists a policy and its ratio groups in one transaction.
// Policies are immutable once saved; changes are new versions.
func (r *PgxPolicyRepository) SavePolicy(ctx context.Context, policy domain.PolicyConfig) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelPolicy(policy)
	if _, err := tx.Exec(ctx, `
		INSERT INTO policies (`+policyColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`, m.PolicyID, m.Name, m.StaffSharePercent, m.PartnerFullShare, m.ExamCommissionPerHead, m.FixedSalarySubject, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: policy with ID %s already exists", apperrors.ErrDuplicate, m.PolicyID)
		}
		return fmt.Errorf("failed to insert policy %s: %w", m.PolicyID, err)
	}

	shares := mapping.ToModelPolicyShares(policy)
	batch := &pgx.Batch{}
	for _, share := range shares {
		batch.Queue(`
			INSERT INTO policy_shares (policy_id, group_name, position, partner_id, percent)
			VALUES ($1, $2, $3, $4, $5);
		`, share.PolicyID, share.GroupName, share.Position, share.PartnerID, share.Percent)
	}
	br := tx.SendBatch(ctx, batch)
	for range shares {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("failed to insert policy share: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close policy share batch: %w", err)
	}

	return r.Commit(ctx, tx)
}

// ActivatePolicy atomically swaps which policy version is active.
func (r *PgxPolicyRepository) ActivatePolicy(ctx context.Context, policyID string, userID string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `
		UPDATE policies
		SET is_active = FALSE, last_updated_at = $1, last_updated_by = $2
		WHERE is_active = TRUE;
	`, now, userID); err != nil {
		return fmt.Errorf("failed to deactivate current policy: %w", err)
	}

	cmdTag, err := tx.Exec(ctx, `
		UPDATE policies
		SET is_active = TRUE, last_updated_at = $2, last_updated_by = $3
		WHERE policy_id = $1;
	`, policyID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to activate policy %s: %w", policyID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return r.Commit(ctx, tx)
}

func scanPolicy(row pgx.Row) (models.Policy, error) {
	var m models.Policy
	err := row.Scan(
		&m.PolicyID,
		&m.Name,
		&m.StaffSharePercent,
		&m.PartnerFullShare,
		&m.ExamCommissionPerHead,
		&m.FixedSalarySubject,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxPolicyRepository) loadShares(ctx context.Context, policy *domain.PolicyConfig) error {
	rows, err := r.Pool.Query(ctx, `
		SELECT policy_id, group_name, position, partner_id, percent
		FROM policy_shares
		WHERE policy_id = $1
		ORDER BY group_name, position;
	`, policy.PolicyID)
	if err != nil {
		return fmt.Errorf("failed to query policy shares for %s: %w", policy.PolicyID, err)
	}
	defer rows.Close()

	var shares []models.PolicyShare
	for rows.Next() {
		var m models.PolicyShare
		if err := rows.Scan(&m.PolicyID, &m.GroupName, &m.Position, &m.PartnerID, &m.Percent); err != nil {
			return fmt.Errorf("failed to scan policy share row: %w", err)
		}
		shares = append(shares, m)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating policy share rows: %w", err)
	}

	mapping.ApplyPolicyShares(policy, shares)
	return nil
}

// FindPolicyByID retrieves a policy with its ratio groups.
func (r *PgxPolicyRepository) FindPolicyByID(ctx context.Context, policyID string) (*domain.PolicyConfig, error) {
	m, err := scanPolicy(r.Pool.QueryRow(ctx, `SELECT `+policyColumns+` FROM policies WHERE policy_id = $1;`, policyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find policy %s: %w", policyID, err)
	}

	d := mapping.ToDomainPolicy(m)
	if err := r.loadShares(ctx, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// FindActivePolicy retrieves the single active policy.
func (r *PgxPolicyRepository) FindActivePolicy(ctx context.Context) (*domain.PolicyConfig, error) {
	m, err := scanPolicy(r.Pool.QueryRow(ctx, `SELECT `+policyColumns+` FROM policies WHERE is_active = TRUE;`))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: no active policy configured", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find active policy: %w", err)
	}

	d := mapping.ToDomainPolicy(m)
	if err := r.loadShares(ctx, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// ListPolicies retrieves policy versions with their ratio groups, newest first.
func (r *PgxPolicyRepository) ListPolicies(ctx context.Context, limit int, offset int) ([]domain.PolicyConfig, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT `+policyColumns+`
		FROM policies
		ORDER BY created_at DESC, policy_id DESC
		LIMIT $1 OFFSET $2;
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list policies: %w", err)
	}
	defer rows.Close()

	var policies []domain.PolicyConfig
	for rows.Next() {
		m, err := scanPolicy(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan policy row: %w", err)
		}
		policies = append(policies, mapping.ToDomainPolicy(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating policy rows: %w", err)
	}

	for i := range policies {
		if err := r.loadShares(ctx, &policies[i]); err != nil {
			return nil, err
		}
	}
	return policies, nil
}
