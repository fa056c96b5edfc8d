package mapping

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finpapers/finpapers/internal/shared"
)

// Repository abstracts mapping persistence.
type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Mapping, int, error)
	Upsert(ctx context.Context, workpaperID uuid.UUID, rows []UpsertInput) error
	Delete(ctx context.Context, workpaperID, mappingID uuid.UUID) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a mapping repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Mapping, int, error) {
	if r == nil || r.pool == nil {
		return nil, 0, fmt.Errorf("mapping repo not initialised")
	}
	pagination := shared.NewPagination(filters.Page, filters.PerPage, 0)

	var total int
	const countQuery = `
SELECT COUNT(*) FROM account_mappings
WHERE workpaper_id = $1 AND ($2 = '' OR section = $2)`
	if err := r.pool.QueryRow(ctx, countQuery, filters.WorkpaperID, filters.Section).Scan(&total); err != nil {
		return nil, 0, err
	}

	const query = `
SELECT id, workpaper_id, account_code, account_name, section, subsection,
       classification_item, balance, prior_balance, created_at, updated_at
FROM account_mappings
WHERE workpaper_id = $1 AND ($2 = '' OR section = $2)
ORDER BY account_code
LIMIT $3 OFFSET $4`
	rows, err := r.pool.Query(ctx, query, filters.WorkpaperID, filters.Section, pagination.PerPage, pagination.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var mappings []Mapping
	for rows.Next() {
		var m Mapping
		if err := rows.Scan(&m.ID, &m.WorkpaperID, &m.AccountCode, &m.AccountName, &m.Section, &m.Subsection, &m.Item, &m.Balance, &m.PriorBalance, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, 0, err
		}
		mappings = append(mappings, m)
	}
	return mappings, total, rows.Err()
}

func (r *repository) Upsert(ctx context.Context, workpaperID uuid.UUID, inputs []UpsertInput) error {
	if r == nil || r.pool == nil {
		return fmt.Errorf("mapping repo not initialised")
	}
	if len(inputs) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	const query = `
INSERT INTO account_mappings
    (id, workpaper_id, account_code, account_name, section, subsection, classification_item, balance, prior_balance, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
ON CONFLICT (workpaper_id, account_code)
DO UPDATE SET account_name = EXCLUDED.account_name,
              section = EXCLUDED.section,
              subsection = EXCLUDED.subsection,
              classification_item = EXCLUDED.classification_item,
              balance = EXCLUDED.balance,
              prior_balance = EXCLUDED.prior_balance,
              updated_at = EXCLUDED.updated_at`
	now := time.Now()
	for _, in := range inputs {
		batch.Queue(query, uuid.New(), workpaperID, in.AccountCode, in.AccountName, in.Section, in.Subsection, in.Item, in.Balance, in.PriorBalance, now)
	}
	results := r.pool.SendBatch(ctx, batch)
	for range inputs {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23503" {
				return fmt.Errorf("%w: workpaper %s", shared.ErrNotFound, workpaperID)
			}
			return err
		}
	}
	return results.Close()
}

func (r *repository) Delete(ctx context.Context, workpaperID, mappingID uuid.UUID) error {
	if r == nil || r.pool == nil {
		return fmt.Errorf("mapping repo not initialised")
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM account_mappings WHERE id = $1 AND workpaper_id = $2`, mappingID, workpaperID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: mapping %s", shared.ErrNotFound, mappingID)
	}
	return nil
}
