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
	"github.com/muz4miL/genius-academia-sub002/internal/utils/pagination"
)

type PgxLedgerRepository struct {
	BaseRepository
	stakeholderRepo portsrepo.StakeholderRepositoryFacade
}

// newPgxLedgerRepository creates a new repository for ledger data.
func newPgxLedgerRepository(pool *pgxpool.Pool, stakeholderRepo portsrepo.StakeholderRepositoryFacade) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{
		BaseRepository:  BaseRepository{Pool: pool},
		stakeholderRepo: stakeholderRepo,
	}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

const ledgerColumns = `entry_id, stakeholder_id, kind, status, direction, bucket, amount, stream, source_type, source_id, notes, created_at, created_by, last_updated_at, last_updated_by`

// ApplyMutations applies a batch of balance mutations in one transaction:
// lock the affected stakeholder rows (sorted), apply the bucket deltas, then
// insert every ledger entry. Any failure rolls back the whole batch.
func (r *PgxLedgerRepository) ApplyMutations(ctx context.Context, mutations []domain.BalanceMutation) error {
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

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

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

	if err := r.SaveEntriesInTx(ctx, tx, entries); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// SaveEntriesInTx inserts ledger entries within an existing transaction using
// a single batch round-trip.
func (r *PgxLedgerRepository) SaveEntriesInTx(ctx context.Context, tx pgx.Tx, entries []domain.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}

	query := `
		INSERT INTO ledger_entries (` + ledgerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	batch := &pgx.Batch{}
	for _, entry := range entries {
		m := mapping.ToModelLedgerEntry(entry)

		var stakeholderID sql.NullString
		if m.StakeholderID != "" {
			stakeholderID = sql.NullString{String: m.StakeholderID, Valid: true}
		}
		var bucket sql.NullString
		if m.Bucket != "" {
			bucket = sql.NullString{String: m.Bucket, Valid: true}
		}

		batch.Queue(query,
			m.EntryID,
			stakeholderID,
			m.Kind,
			m.Status,
			m.Direction,
			bucket,
			m.Amount,
			m.Stream,
			m.SourceType,
			m.SourceID,
			m.Notes,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	defer br.Close()
	for range entries {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to insert ledger entry: %w", err)
		}
	}
	return nil
}

func scanLedgerEntry(row pgx.Row) (models.LedgerEntry, error) {
	var m models.LedgerEntry
	var stakeholderID, bucket sql.NullString
	err := row.Scan(
		&m.EntryID,
		&stakeholderID,
		&m.Kind,
		&m.Status,
		&m.Direction,
		&bucket,
		&m.Amount,
		&m.Stream,
		&m.SourceType,
		&m.SourceID,
		&m.Notes,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	m.StakeholderID = stakeholderID.String
	m.Bucket = bucket.String
	return m, err
}

// FindEntryByID retrieves a single ledger entry.
func (r *PgxLedgerRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE entry_id = $1;`

	m, err := scanLedgerEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find ledger entry %s: %w", entryID, err)
	}
	d := mapping.ToDomainLedgerEntry(m)
	return &d, nil
}

// ListEntriesByStakeholder retrieves a page of a stakeholder's entries using
// keyset pagination on (created_at, entry_id), newest first.
func (r *PgxLedgerRepository) ListEntriesByStakeholder(ctx context.Context, stakeholderID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	args := []interface{}{stakeholderID, limit + 1}
	query := `
		SELECT ` + ledgerColumns + `
		FROM ledger_entries
		WHERE stakeholder_id = $1
	`
	if nextToken != nil && *nextToken != "" {
		createdAt, entryID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (created_at, entry_id) < ($3, $4)`
		args = append(args, createdAt, entryID)
	}
	query += ` ORDER BY created_at DESC, entry_id DESC LIMIT $2;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list ledger entries for stakeholder %s: %w", stakeholderID, err)
	}
	defer rows.Close()

	var ms []models.LedgerEntry
	for rows.Next() {
		m, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan ledger entry row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating ledger entry rows: %w", err)
	}

	var token *string
	if len(ms) > limit {
		ms = ms[:limit]
		last := ms[len(ms)-1]
		t := pagination.EncodeToken(last.CreatedAt, last.EntryID)
		token = &t
	}
	return mapping.ToDomainLedgerEntrySlice(ms), token, nil
}
