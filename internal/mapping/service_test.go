package mapping

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finpapers/finpapers/internal/shared"
)

type fakeRepo struct {
	upserted  []UpsertInput
	deleted   []uuid.UUID
	listRows  []Mapping
	listTotal int
	err       error
}

func (f *fakeRepo) List(ctx context.Context, filters ListFilters) ([]Mapping, int, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.listRows, f.listTotal, nil
}

func (f *fakeRepo) Upsert(ctx context.Context, workpaperID uuid.UUID, rows []UpsertInput) error {
	if f.err != nil {
		return f.err
	}
	f.upserted = append(f.upserted, rows...)
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, workpaperID, mappingID uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, mappingID)
	return nil
}

func validInput() UpsertInput {
	return UpsertInput{
		AccountCode:  "8400/000",
		AccountName:  "Salaries",
		Section:      "INCOME_STATEMENT",
		Subsection:   "EXPENSE_ITEMS_DEBIT",
		Item:         "Salaries and wages",
		Balance:      20000,
		PriorBalance: 18000,
	}
}

func TestUpsertWritesAndBustsCache(t *testing.T) {
	repo := &fakeRepo{}
	busted := 0
	svc := NewService(repo, nil, func() { busted++ })

	err := svc.Upsert(context.Background(), uuid.New(), []UpsertInput{validInput()})
	require.NoError(t, err)
	assert.Len(t, repo.upserted, 1)
	assert.Equal(t, 1, busted)
}

func TestUpsertRejectsMissingFields(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, nil, nil)

	in := validInput()
	in.AccountCode = ""
	err := svc.Upsert(context.Background(), uuid.New(), []UpsertInput{in})
	require.ErrorIs(t, err, shared.ErrValidation)
	assert.Empty(t, repo.upserted)
}

func TestUpsertRejectsUnknownSubsection(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, nil, nil)

	in := validInput()
	// Income statement bucket on a balance sheet row.
	in.Section = "BALANCE_SHEET"
	err := svc.Upsert(context.Background(), uuid.New(), []UpsertInput{in})
	require.ErrorIs(t, err, shared.ErrValidation)
	assert.Contains(t, err.Error(), "EXPENSE_ITEMS_DEBIT")
	assert.Empty(t, repo.upserted)
}

func TestUpsertRejectsBadSectionEnum(t *testing.T) {
	svc := NewService(&fakeRepo{}, nil, nil)

	in := validInput()
	in.Section = "CASH_FLOW"
	err := svc.Upsert(context.Background(), uuid.New(), []UpsertInput{in})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestUpsertRequiresWorkpaper(t *testing.T) {
	svc := NewService(&fakeRepo{}, nil, nil)
	err := svc.Upsert(context.Background(), uuid.Nil, []UpsertInput{validInput()})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestUpsertRequiresRows(t *testing.T) {
	svc := NewService(&fakeRepo{}, nil, nil)
	err := svc.Upsert(context.Background(), uuid.New(), nil)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestDeleteBustsCache(t *testing.T) {
	repo := &fakeRepo{}
	busted := 0
	svc := NewService(repo, nil, func() { busted++ })

	err := svc.Delete(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.Len(t, repo.deleted, 1)
	assert.Equal(t, 1, busted)
}

func TestListRequiresWorkpaper(t *testing.T) {
	svc := NewService(&fakeRepo{}, nil, nil)
	_, _, err := svc.List(context.Background(), ListFilters{})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestListReturnsPagination(t *testing.T) {
	repo := &fakeRepo{listRows: []Mapping{{AccountCode: "1"}}, listTotal: 51}
	svc := NewService(repo, nil, nil)

	rows, pagination, err := svc.List(context.Background(), ListFilters{WorkpaperID: uuid.New(), Page: 2, PerPage: 25})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, 3, pagination.TotalPages)
	assert.Equal(t, 25, pagination.Offset())
}
