package statement

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgRepository provides persistence for statement builds.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewPgRepository constructs a statement repository.
func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// ErrWorkpaperNotFound indicates the requested workpaper is missing.
var ErrWorkpaperNotFound = errors.New("statement: workpaper not found")

// MappedRows fetches all mapped trial-balance rows for a workpaper in
// ledger convention.
func (r *PgRepository) MappedRows(ctx context.Context, workpaperID uuid.UUID) ([]MappedAccountRow, error) {
	if r == nil || r.pool == nil {
		return nil, fmt.Errorf("statement repo not initialised")
	}
	const query = `
SELECT m.id,
       m.account_code,
       m.account_name,
       m.section,
       m.subsection,
       m.classification_item,
       m.balance,
       m.prior_balance
FROM account_mappings m
WHERE m.workpaper_id = $1
ORDER BY m.account_code`
	rows, err := r.pool.Query(ctx, query, workpaperID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var mapped []MappedAccountRow
	for rows.Next() {
		var row MappedAccountRow
		var section, subsection string
		if err := rows.Scan(&row.ID, &row.AccountCode, &row.AccountName, &section, &subsection, &row.Item, &row.Balance, &row.PriorBalance); err != nil {
			return nil, err
		}
		row.Section = Section(section)
		row.Subsection = Subsection(subsection)
		mapped = append(mapped, row)
	}
	return mapped, rows.Err()
}

// WorkpaperExists reports whether a workpaper is present. Used by callers
// that must distinguish an empty mapping from a missing engagement.
func (r *PgRepository) WorkpaperExists(ctx context.Context, workpaperID uuid.UUID) (bool, error) {
	if r == nil || r.pool == nil {
		return false, fmt.Errorf("statement repo not initialised")
	}
	const query = `SELECT 1 FROM workpapers WHERE id = $1`
	var one int
	if err := r.pool.QueryRow(ctx, query, workpaperID).Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
