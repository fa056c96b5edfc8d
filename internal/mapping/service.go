package mapping

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/finpapers/finpapers/internal/shared"
	"github.com/finpapers/finpapers/internal/statement"
)

// CacheBuster invalidates derived statement caches after mapping writes.
type CacheBuster func()

// Service maintains account mappings for workpapers.
type Service struct {
	repo      Repository
	catalog   *statement.Catalog
	validate  *validator.Validate
	bustCache CacheBuster
}

// NewService constructs a mapping service. A nil catalog falls back to the
// standard SARS mapping guide; a nil buster is a no-op.
func NewService(repo Repository, catalog *statement.Catalog, bustCache CacheBuster) *Service {
	if catalog == nil {
		catalog = statement.DefaultCatalog()
	}
	return &Service{
		repo:      repo,
		catalog:   catalog,
		validate:  validator.New(),
		bustCache: bustCache,
	}
}

// List returns mappings for a workpaper plus pagination metadata.
func (s *Service) List(ctx context.Context, filters ListFilters) ([]Mapping, shared.Pagination, error) {
	if s == nil || s.repo == nil {
		return nil, shared.Pagination{}, errors.New("mapping: service not initialised")
	}
	if filters.WorkpaperID == uuid.Nil {
		return nil, shared.Pagination{}, fmt.Errorf("%w: workpaper id required", shared.ErrValidation)
	}
	mappings, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return mappings, shared.NewPagination(filters.Page, filters.PerPage, total), nil
}

// Upsert validates and writes mapping rows, then invalidates derived
// statement caches. Rows with a subsection the catalog does not recognise
// for their section are rejected up front rather than silently rebucketed.
func (s *Service) Upsert(ctx context.Context, workpaperID uuid.UUID, inputs []UpsertInput) error {
	if s == nil || s.repo == nil {
		return errors.New("mapping: service not initialised")
	}
	if workpaperID == uuid.Nil {
		return fmt.Errorf("%w: workpaper id required", shared.ErrValidation)
	}
	if len(inputs) == 0 {
		return fmt.Errorf("%w: at least one mapping row required", shared.ErrValidation)
	}
	for idx, in := range inputs {
		if err := s.validate.Struct(in); err != nil {
			return fmt.Errorf("%w: row %d: %v", shared.ErrValidation, idx, err)
		}
		if !s.catalog.ValidSubsection(statement.Section(in.Section), statement.Subsection(in.Subsection)) {
			return fmt.Errorf("%w: row %d: subsection %s not valid for %s", shared.ErrValidation, idx, in.Subsection, in.Section)
		}
	}
	if err := s.repo.Upsert(ctx, workpaperID, inputs); err != nil {
		return err
	}
	if s.bustCache != nil {
		s.bustCache()
	}
	return nil
}

// Delete removes a single mapping row and invalidates derived caches.
func (s *Service) Delete(ctx context.Context, workpaperID, mappingID uuid.UUID) error {
	if s == nil || s.repo == nil {
		return errors.New("mapping: service not initialised")
	}
	if workpaperID == uuid.Nil || mappingID == uuid.Nil {
		return fmt.Errorf("%w: workpaper and mapping ids required", shared.ErrValidation)
	}
	if err := s.repo.Delete(ctx, workpaperID, mappingID); err != nil {
		return err
	}
	if s.bustCache != nil {
		s.bustCache()
	}
	return nil
}
