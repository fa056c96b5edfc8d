package workpaper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/finpapers/finpapers/internal/shared"
	"github.com/finpapers/finpapers/internal/statement"
)

// ErrNotBalanced blocks finalisation while the balance sheet is out of
// balance. An explicit override bypasses the check.
var ErrNotBalanced = errors.New("workpaper: balance sheet does not reconcile")

// StatementBuilder is the slice of the statement service the lifecycle
// needs: a statement build to confirm reconciliation before FINAL.
type StatementBuilder interface {
	Build(ctx context.Context, filters statement.Filters) (statement.StatementPack, []string, error)
}

// Service manages workpaper lifecycle and registry operations.
type Service struct {
	repo       Repository
	statements StatementBuilder
	validate   *validator.Validate
}

// NewService constructs a workpaper service.
func NewService(repo Repository, statements StatementBuilder) *Service {
	return &Service{
		repo:       repo,
		statements: statements,
		validate:   validator.New(),
	}
}

// Create opens a new workpaper in DRAFT.
func (s *Service) Create(ctx context.Context, in CreateInput) (Workpaper, error) {
	if s == nil || s.repo == nil {
		return Workpaper{}, errors.New("workpaper: service not initialised")
	}
	if err := s.validate.Struct(in); err != nil {
		return Workpaper{}, fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}
	wp := Workpaper{
		ID:         uuid.New(),
		ClientName: in.ClientName,
		FiscalYear: in.FiscalYear,
		Status:     shared.WorkpaperStatusDraft,
		CreatedAt:  time.Now().UTC(),
	}
	wp.UpdatedAt = wp.CreatedAt
	if err := s.repo.Create(ctx, wp); err != nil {
		return Workpaper{}, err
	}
	return wp, nil
}

// Get fetches a single workpaper.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Workpaper, error) {
	if s == nil || s.repo == nil {
		return Workpaper{}, errors.New("workpaper: service not initialised")
	}
	if id == uuid.Nil {
		return Workpaper{}, fmt.Errorf("%w: workpaper id required", shared.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

// List returns workpapers plus pagination metadata.
func (s *Service) List(ctx context.Context, filters ListFilters) ([]Workpaper, shared.Pagination, error) {
	if s == nil || s.repo == nil {
		return nil, shared.Pagination{}, errors.New("workpaper: service not initialised")
	}
	papers, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return papers, shared.NewPagination(filters.Page, filters.PerPage, total), nil
}

// Transition moves a workpaper through its lifecycle. Moving to FINAL
// requires both years of the balance sheet to reconcile unless the caller
// overrides; reopening a FINAL workpaper always requires the override.
func (s *Service) Transition(ctx context.Context, id uuid.UUID, in TransitionInput) (Workpaper, error) {
	if s == nil || s.repo == nil {
		return Workpaper{}, errors.New("workpaper: service not initialised")
	}
	if id == uuid.Nil {
		return Workpaper{}, fmt.Errorf("%w: workpaper id required", shared.ErrValidation)
	}
	if err := s.validate.Struct(in); err != nil {
		return Workpaper{}, fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	wp, err := s.repo.Get(ctx, id)
	if err != nil {
		return Workpaper{}, err
	}
	if err := shared.ValidateStatusTransition(wp.Status, in.Status, in.Override); err != nil {
		return Workpaper{}, fmt.Errorf("%w: %s to %s", err, wp.Status, in.Status)
	}

	var finalisedAt *time.Time
	if in.Status == shared.WorkpaperStatusFinal {
		if !in.Override {
			if err := s.checkReconciled(ctx, id); err != nil {
				return Workpaper{}, err
			}
		}
		now := time.Now().UTC()
		finalisedAt = &now
	}

	if err := s.repo.UpdateStatus(ctx, id, in.Status, finalisedAt); err != nil {
		return Workpaper{}, err
	}
	wp.Status = in.Status
	wp.FinalisedAt = finalisedAt
	return wp, nil
}

func (s *Service) checkReconciled(ctx context.Context, id uuid.UUID) error {
	if s.statements == nil {
		return nil
	}
	pack, _, err := s.statements.Build(ctx, statement.Filters{WorkpaperID: id})
	if err != nil {
		return fmt.Errorf("workpaper: statement build for finalisation: %w", err)
	}
	bs := pack.BalanceSheet
	if !bs.Reconciliation.Pass {
		return fmt.Errorf("%w: current year delta %.2f", ErrNotBalanced, bs.Reconciliation.Delta)
	}
	if !bs.PriorReconciliation.Pass {
		return fmt.Errorf("%w: prior year delta %.2f", ErrNotBalanced, bs.PriorReconciliation.Delta)
	}
	return nil
}
