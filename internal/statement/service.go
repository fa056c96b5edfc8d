package statement

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Filters encapsulates query parameters for a statement build.
type Filters struct {
	WorkpaperID      uuid.UUID
	IncludeZeroItems bool
	Unclassified     UnclassifiedPolicy
}

// Repository abstracts the data access required by the statement service.
type Repository interface {
	MappedRows(ctx context.Context, workpaperID uuid.UUID) ([]MappedAccountRow, error)
}

// Service derives the statement pack for a workpaper. The transformation is
// pure and deterministic; identical rows always yield identical statements.
type Service struct {
	repo    Repository
	catalog *Catalog
	cache   *Cache
}

// NewService constructs a statement service. A nil catalog falls back to
// the standard SARS mapping guide; a nil cache disables cross-process
// caching of built packs.
func NewService(repo Repository, catalog *Catalog, cache *Cache) *Service {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Service{repo: repo, catalog: catalog, cache: cache}
}

type cachedPack struct {
	Pack     StatementPack `json:"pack"`
	Warnings []string      `json:"warnings"`
}

// Build assembles the balance sheet and income statement for the filters.
// Reconciliation failures and quarantined rows surface as warnings, never
// as errors.
func (s *Service) Build(ctx context.Context, filters Filters) (StatementPack, []string, error) {
	if s == nil || s.repo == nil {
		return StatementPack{}, nil, errors.New("statement: service not initialised")
	}
	if filters.WorkpaperID == uuid.Nil {
		return StatementPack{}, nil, ErrWorkpaperRequired
	}
	policy := filters.Unclassified
	if policy == "" {
		policy = UnclassifiedQuarantine
	}
	if policy != UnclassifiedReject && policy != UnclassifiedQuarantine {
		return StatementPack{}, nil, fmt.Errorf("statement: unknown unclassified policy %q", policy)
	}

	if s.cache == nil {
		return s.buildPack(ctx, filters, policy)
	}

	key, err := s.cache.BuildKey(ctx, packKey(filters, policy)...)
	if err != nil {
		return StatementPack{}, nil, err
	}
	var cached cachedPack
	var buildErr error
	fetchErr := s.cache.FetchJSON(ctx, key, &cached, func(ctx context.Context) (interface{}, error) {
		pack, warnings, err := s.buildPack(ctx, filters, policy)
		if err != nil {
			buildErr = err
			return nil, err
		}
		return cachedPack{Pack: pack, Warnings: warnings}, nil
	})
	if buildErr != nil {
		return StatementPack{}, nil, buildErr
	}
	if fetchErr != nil {
		return StatementPack{}, nil, fetchErr
	}
	return cached.Pack, cached.Warnings, nil
}

func (s *Service) buildPack(ctx context.Context, filters Filters, policy UnclassifiedPolicy) (StatementPack, []string, error) {
	rows, err := s.repo.MappedRows(ctx, filters.WorkpaperID)
	if err != nil {
		return StatementPack{}, nil, err
	}

	agg, err := Aggregate(rows, s.catalog)
	if err != nil {
		return StatementPack{}, nil, err
	}

	warnings := make([]string, 0)
	if len(agg.Unclassified) > 0 {
		if policy == UnclassifiedReject {
			return StatementPack{}, nil, agg.Err()
		}
		for _, row := range agg.Unclassified {
			warnings = append(warnings, fmt.Sprintf("account %s (%s) excluded: unknown subsection %s", row.AccountCode, row.AccountName, row.Subsection))
		}
	}

	is := BuildIncomeStatement(agg, s.catalog, IncomeStatementOptions{IncludeZeroItems: filters.IncludeZeroItems})
	bs := BuildBalanceSheet(agg, s.catalog, BalanceSheetOptions{
		IncludeZeroItems: filters.IncludeZeroItems,
		ProfitCurrent:    is.NetProfitBeforeTax,
		ProfitPrior:      is.PriorNetProfitBeforeTax,
	})

	if !bs.Reconciliation.Pass {
		warnings = append(warnings, fmt.Sprintf("balance sheet out of balance by %.2f", bs.Reconciliation.Delta))
	}
	if !bs.PriorReconciliation.Pass {
		warnings = append(warnings, fmt.Sprintf("prior year balance sheet out of balance by %.2f", bs.PriorReconciliation.Delta))
	}

	pack := StatementPack{
		BalanceSheet:    bs,
		IncomeStatement: is,
		Unclassified:    agg.Unclassified,
	}
	return pack, warnings, nil
}
