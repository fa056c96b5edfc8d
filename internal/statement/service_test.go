package statement

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

type fakeRepo struct {
	rows []MappedAccountRow
	err  error
}

func (f *fakeRepo) MappedRows(ctx context.Context, workpaperID uuid.UUID) ([]MappedAccountRow, error) {
	if f.err != nil {
		return nil, f.err
	}
	return append([]MappedAccountRow(nil), f.rows...), nil
}

func TestServiceBuildEmptyWorkpaper(t *testing.T) {
	svc := NewService(&fakeRepo{}, nil, nil)
	pack, warnings, err := svc.Build(context.Background(), Filters{WorkpaperID: uuid.New()})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if pack.BalanceSheet.TotalAssets != 0 || pack.BalanceSheet.TotalEquityAndLiabilities != 0 {
		t.Fatalf("expected zero totals: %+v", pack.BalanceSheet)
	}
	if !pack.BalanceSheet.Reconciliation.Pass {
		t.Fatalf("empty workpaper must reconcile: %+v", pack.BalanceSheet.Reconciliation)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
}

func TestServiceBuildRequiresWorkpaper(t *testing.T) {
	svc := NewService(&fakeRepo{}, nil, nil)
	if _, _, err := svc.Build(context.Background(), Filters{}); !errors.Is(err, ErrWorkpaperRequired) {
		t.Fatalf("expected ErrWorkpaperRequired got %v", err)
	}
}

func TestServiceBuildPropagatesRepoError(t *testing.T) {
	boom := errors.New("connection refused")
	svc := NewService(&fakeRepo{err: boom}, nil, nil)
	if _, _, err := svc.Build(context.Background(), Filters{WorkpaperID: uuid.New()}); !errors.Is(err, boom) {
		t.Fatalf("expected repo error got %v", err)
	}
}

func TestServiceBuildBalancedPack(t *testing.T) {
	svc := NewService(&fakeRepo{rows: balancedRows()}, nil, nil)
	pack, warnings, err := svc.Build(context.Background(), Filters{WorkpaperID: uuid.New()})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("balanced pack produced warnings: %v", warnings)
	}
	if pack.IncomeStatement.NetProfitBeforeTax != 25000 {
		t.Fatalf("net profit = %v", pack.IncomeStatement.NetProfitBeforeTax)
	}
	if !pack.BalanceSheet.Reconciliation.Pass {
		t.Fatalf("reconciliation = %+v", pack.BalanceSheet.Reconciliation)
	}
}

func TestServiceBuildReconciliationWarning(t *testing.T) {
	rows := make([]MappedAccountRow, 0)
	for _, r := range balancedRows() {
		if r.Item == "Trade and other payables" {
			continue
		}
		rows = append(rows, r)
	}
	svc := NewService(&fakeRepo{rows: rows}, nil, nil)
	pack, warnings, err := svc.Build(context.Background(), Filters{WorkpaperID: uuid.New()})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if pack.BalanceSheet.Reconciliation.Pass {
		t.Fatalf("expected failing reconciliation")
	}
	if len(warnings) != 2 { // current and prior year
		t.Fatalf("warnings = %v", warnings)
	}
	if !strings.Contains(warnings[0], "out of balance") {
		t.Fatalf("warning text = %q", warnings[0])
	}
}

func TestServiceBuildRejectPolicy(t *testing.T) {
	rows := append(balancedRows(),
		row("9999/000", SectionBalanceSheet, SubsectionExpenseDebit, "Salaries and wages", 1, 1))
	svc := NewService(&fakeRepo{rows: rows}, nil, nil)
	_, _, err := svc.Build(context.Background(), Filters{WorkpaperID: uuid.New(), Unclassified: UnclassifiedReject})
	var unknownErr *UnknownSubsectionError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("expected UnknownSubsectionError got %v", err)
	}
}

func TestServiceBuildQuarantinePolicy(t *testing.T) {
	rows := append(balancedRows(),
		row("9999/000", SectionBalanceSheet, SubsectionExpenseDebit, "Salaries and wages", 1, 1))
	svc := NewService(&fakeRepo{rows: rows}, nil, nil)
	pack, warnings, err := svc.Build(context.Background(), Filters{WorkpaperID: uuid.New(), Unclassified: UnclassifiedQuarantine})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(pack.Unclassified) != 1 {
		t.Fatalf("unclassified = %d", len(pack.Unclassified))
	}
	// The quarantined amount never reaches a total.
	if pack.BalanceSheet.TotalAssets != 100000 {
		t.Fatalf("total assets moved: %v", pack.BalanceSheet.TotalAssets)
	}
	found := false
	for _, w := range warnings {
		if strings.Contains(w, "unknown subsection") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected unclassified warning, got %v", warnings)
	}
}

func TestServiceBuildUnknownPolicy(t *testing.T) {
	svc := NewService(&fakeRepo{}, nil, nil)
	if _, _, err := svc.Build(context.Background(), Filters{WorkpaperID: uuid.New(), Unclassified: "DISCARD"}); err == nil {
		t.Fatalf("expected error for unknown policy")
	}
}
