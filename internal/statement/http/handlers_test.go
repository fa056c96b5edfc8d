package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/finpapers/finpapers/internal/statement"
)

type fakeBuilder struct {
	calls    int
	pack     statement.StatementPack
	warnings []string
	err      error
}

func (f *fakeBuilder) Build(ctx context.Context, filters statement.Filters) (statement.StatementPack, []string, error) {
	f.calls++
	if f.err != nil {
		return statement.StatementPack{}, nil, f.err
	}
	return f.pack, f.warnings, nil
}

func newTestServer(t *testing.T, builder *fakeBuilder) *httptest.Server {
	t.Helper()
	BustStatementViewCache()
	t.Cleanup(BustStatementViewCache)
	handler := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), builder)
	router := chi.NewRouter()
	handler.MountRoutes(router)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func samplePack() statement.StatementPack {
	var pack statement.StatementPack
	pack.BalanceSheet.TotalAssets = 100000
	pack.BalanceSheet.TotalEquityAndLiabilities = 100000
	pack.BalanceSheet.Reconciliation = statement.Reconciliation{Pass: true}
	pack.BalanceSheet.PriorReconciliation = statement.Reconciliation{Pass: true}
	pack.IncomeStatement.TotalIncome = 100000
	pack.IncomeStatement.NetProfitBeforeTax = 25000
	return pack
}

func TestHandleBalanceSheetReturnsTotals(t *testing.T) {
	builder := &fakeBuilder{pack: samplePack()}
	server := newTestServer(t, builder)

	resp, err := http.Get(server.URL + "/workpapers/" + uuid.NewString() + "/statements/balance-sheet")
	if err != nil {
		t.Fatalf("get balance sheet: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var vm BalanceSheetVM
	if err := json.NewDecoder(resp.Body).Decode(&vm); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if vm.TotalAssets != 100000 {
		t.Fatalf("expected total assets 100000, got %.2f", vm.TotalAssets)
	}
	if !vm.Reconciliation.Pass {
		t.Fatalf("expected reconciliation pass")
	}
	if len(vm.Sections) != 5 {
		t.Fatalf("expected 5 balance sheet sections, got %d", len(vm.Sections))
	}
}

func TestHandleBalanceSheetServesFromCache(t *testing.T) {
	builder := &fakeBuilder{pack: samplePack()}
	server := newTestServer(t, builder)
	url := server.URL + "/workpapers/" + uuid.NewString() + "/statements/balance-sheet"

	for i := 0; i < 3; i++ {
		resp, err := http.Get(url)
		if err != nil {
			t.Fatalf("get balance sheet: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
	}
	if builder.calls != 1 {
		t.Fatalf("expected 1 service build, got %d", builder.calls)
	}

	BustStatementViewCache()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get balance sheet after bust: %v", err)
	}
	resp.Body.Close()
	if builder.calls != 2 {
		t.Fatalf("expected rebuild after bust, got %d calls", builder.calls)
	}
}

func TestHandleBalanceSheetCacheKeyedByFilters(t *testing.T) {
	builder := &fakeBuilder{pack: samplePack()}
	server := newTestServer(t, builder)
	base := server.URL + "/workpapers/" + uuid.NewString() + "/statements/balance-sheet"

	for _, url := range []string{base, base + "?zero_items=on", base + "?unclassified=REJECT"} {
		resp, err := http.Get(url)
		if err != nil {
			t.Fatalf("get %s: %v", url, err)
		}
		resp.Body.Close()
	}
	if builder.calls != 3 {
		t.Fatalf("expected 3 distinct builds, got %d", builder.calls)
	}
}

func TestHandleIncomeStatementReturnsTotals(t *testing.T) {
	builder := &fakeBuilder{pack: samplePack(), warnings: []string{"account 9999 (Suspense) excluded: unknown subsection MYSTERY"}}
	server := newTestServer(t, builder)

	resp, err := http.Get(server.URL + "/workpapers/" + uuid.NewString() + "/statements/income-statement")
	if err != nil {
		t.Fatalf("get income statement: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var vm IncomeStatementVM
	if err := json.NewDecoder(resp.Body).Decode(&vm); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if vm.NetProfitBeforeTax != 25000 {
		t.Fatalf("expected net profit 25000, got %.2f", vm.NetProfitBeforeTax)
	}
	if len(vm.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(vm.Warnings))
	}
	if len(vm.Sections) != 3 {
		t.Fatalf("expected 3 income statement sections, got %d", len(vm.Sections))
	}
}

func TestHandleBalanceSheetRejectsBadInput(t *testing.T) {
	builder := &fakeBuilder{pack: samplePack()}
	server := newTestServer(t, builder)

	resp, err := http.Get(server.URL + "/workpapers/not-a-uuid/statements/balance-sheet")
	if err != nil {
		t.Fatalf("get balance sheet: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad workpaper id, got %d", resp.StatusCode)
	}

	resp, err = http.Get(server.URL + "/workpapers/" + uuid.NewString() + "/statements/balance-sheet?unclassified=DISCARD")
	if err != nil {
		t.Fatalf("get balance sheet: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad policy, got %d", resp.StatusCode)
	}
	if builder.calls != 0 {
		t.Fatalf("expected no builds on invalid input, got %d", builder.calls)
	}
}

func TestHandleBalanceSheetRejectPolicyMapsToValidationProblem(t *testing.T) {
	builder := &fakeBuilder{err: &statement.UnknownSubsectionError{Rows: []statement.MappedAccountRow{
		{AccountCode: "9999", AccountName: "Suspense", Section: statement.SectionBalanceSheet, Subsection: "MYSTERY"},
	}}}
	server := newTestServer(t, builder)

	resp, err := http.Get(server.URL + "/workpapers/" + uuid.NewString() + "/statements/balance-sheet?unclassified=REJECT")
	if err != nil {
		t.Fatalf("get balance sheet: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown subsection rejection, got %d", resp.StatusCode)
	}
	if builder.calls != 1 {
		t.Fatalf("expected 1 build attempt, got %d", builder.calls)
	}
	var problem struct {
		Title  string `json:"title"`
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&problem); err != nil {
		t.Fatalf("decode problem: %v", err)
	}
	if problem.Title != "Validation Failed" {
		t.Fatalf("expected validation problem, got %q", problem.Title)
	}
	if !strings.Contains(problem.Detail, "9999") {
		t.Fatalf("expected offending account in detail, got %q", problem.Detail)
	}
}

func TestHandleExportCSVSetsHeaders(t *testing.T) {
	builder := &fakeBuilder{pack: samplePack(), warnings: []string{"balance sheet out of balance by 10.00"}}
	server := newTestServer(t, builder)
	workpaperID := uuid.NewString()

	resp, err := http.Get(server.URL + "/workpapers/" + workpaperID + "/statements/balance-sheet/export.csv")
	if err != nil {
		t.Fatalf("get csv export: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Content-Type"); got != "text/csv" {
		t.Fatalf("expected text/csv content type, got %q", got)
	}
	if got := resp.Header.Get("Content-Disposition"); got != "attachment; filename=balance-sheet-"+workpaperID+".csv" {
		t.Fatalf("unexpected content disposition: %q", got)
	}
	if got := resp.Header.Get("X-Statement-Warning"); got != "balance sheet out of balance by 10.00" {
		t.Fatalf("unexpected warning header: %q", got)
	}
}
