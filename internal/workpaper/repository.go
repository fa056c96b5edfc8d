package workpaper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finpapers/finpapers/internal/shared"
)

// Repository abstracts workpaper persistence.
type Repository interface {
	Create(ctx context.Context, wp Workpaper) error
	Get(ctx context.Context, id uuid.UUID) (Workpaper, error)
	List(ctx context.Context, filters ListFilters) ([]Workpaper, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, finalisedAt *time.Time) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a workpaper repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) Create(ctx context.Context, wp Workpaper) error {
	if r == nil || r.pool == nil {
		return fmt.Errorf("workpaper repo not initialised")
	}
	const query = `
INSERT INTO workpapers (id, client_name, fiscal_year, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $5)`
	_, err := r.pool.Exec(ctx, query, wp.ID, wp.ClientName, wp.FiscalYear, wp.Status, wp.CreatedAt)
	return err
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (Workpaper, error) {
	var wp Workpaper
	if r == nil || r.pool == nil {
		return wp, fmt.Errorf("workpaper repo not initialised")
	}
	const query = `
SELECT id, client_name, fiscal_year, status, finalised_at, created_at, updated_at
FROM workpapers WHERE id = $1`
	err := r.pool.QueryRow(ctx, query, id).Scan(&wp.ID, &wp.ClientName, &wp.FiscalYear, &wp.Status, &wp.FinalisedAt, &wp.CreatedAt, &wp.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return wp, fmt.Errorf("%w: workpaper %s", shared.ErrNotFound, id)
		}
		return wp, err
	}
	return wp, nil
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Workpaper, int, error) {
	if r == nil || r.pool == nil {
		return nil, 0, fmt.Errorf("workpaper repo not initialised")
	}
	pagination := shared.NewPagination(filters.Page, filters.PerPage, 0)

	var total int
	const countQuery = `SELECT COUNT(*) FROM workpapers WHERE ($1 = '' OR status = $1)`
	if err := r.pool.QueryRow(ctx, countQuery, filters.Status).Scan(&total); err != nil {
		return nil, 0, err
	}

	const query = `
SELECT id, client_name, fiscal_year, status, finalised_at, created_at, updated_at
FROM workpapers
WHERE ($1 = '' OR status = $1)
ORDER BY fiscal_year DESC, client_name
LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, filters.Status, pagination.PerPage, pagination.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var papers []Workpaper
	for rows.Next() {
		var wp Workpaper
		if err := rows.Scan(&wp.ID, &wp.ClientName, &wp.FiscalYear, &wp.Status, &wp.FinalisedAt, &wp.CreatedAt, &wp.UpdatedAt); err != nil {
			return nil, 0, err
		}
		papers = append(papers, wp)
	}
	return papers, total, rows.Err()
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, finalisedAt *time.Time) error {
	if r == nil || r.pool == nil {
		return fmt.Errorf("workpaper repo not initialised")
	}
	const query = `
UPDATE workpapers SET status = $2, finalised_at = $3, updated_at = NOW() WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id, status, finalisedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: workpaper %s", shared.ErrNotFound, id)
	}
	return nil
}
