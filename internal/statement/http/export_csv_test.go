package http

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/finpapers/finpapers/internal/statement"
)

func TestCSVStreamerFlushInterval(t *testing.T) {
	var buf bytes.Buffer
	streamer := newCSVStreamer(&buf)
	for i := 0; i < csvFlushEvery; i++ {
		if err := streamer.writeRow([]string{"row"}); err != nil {
			t.Fatalf("write row: %v", err)
		}
	}
	if streamer.pendingLines != 0 {
		t.Fatalf("expected pending lines reset to 0, got %d", streamer.pendingLines)
	}
	if err := streamer.writeRow([]string{"next"}); err != nil {
		t.Fatalf("write row: %v", err)
	}
	if streamer.pendingLines != 1 {
		t.Fatalf("expected pending lines 1, got %d", streamer.pendingLines)
	}
	if err := streamer.Close(); err != nil {
		t.Fatalf("close streamer: %v", err)
	}
}

func TestWriteBalanceSheetCSVIncludesMetadataAndTotals(t *testing.T) {
	workpaperID := uuid.MustParse("7e9c0e2a-0000-4000-8000-000000000042")
	vm := BalanceSheetVM{
		Filters: StatementFiltersVM{
			WorkpaperID:      workpaperID,
			IncludeZeroItems: true,
			Unclassified:     string(statement.UnclassifiedQuarantine),
		},
		Sections: []StatementSectionVM{
			{
				Label: "Non-current assets",
				Lines: []StatementLineVM{
					{Label: "Property, plant and equipment", Current: 50000, Prior: 25000},
				},
			},
		},
		TotalAssets:               100000,
		PriorTotalAssets:          50000,
		TotalEquityAndLiabilities: 100000,
		PriorTotalEquityAndLiab:   50000,
	}
	var buf bytes.Buffer
	if err := writeBalanceSheetCSV(&buf, vm); err != nil {
		t.Fatalf("writeBalanceSheetCSV: %v", err)
	}
	content := buf.String()
	if !strings.Contains(content, "\r\n") {
		t.Fatalf("expected CRLF line endings")
	}
	lines := strings.Split(strings.TrimSuffix(content, "\r\n"), "\r\n")
	if len(lines) < 8 {
		t.Fatalf("expected at least 8 lines, got %d", len(lines))
	}
	if want := "# Report: Balance Sheet"; lines[0] != want {
		t.Fatalf("unexpected metadata line 1: %q", lines[0])
	}
	if want := "# Workpaper: " + workpaperID.String() + " | Zero items: ON | Unclassified: QUARANTINE"; lines[1] != want {
		t.Fatalf("unexpected metadata line 2: %q", lines[1])
	}
	if want := "# Warnings: none"; lines[2] != want {
		t.Fatalf("unexpected metadata line 3: %q", lines[2])
	}
	if want := "Section,Line,Current Year,Prior Year"; lines[3] != want {
		t.Fatalf("unexpected header: %q", lines[3])
	}
	if want := `Non-current assets,"Property, plant and equipment",50000.00,25000.00`; !strings.Contains(content, want) {
		t.Fatalf("expected line row containing %q in %q", want, content)
	}
	if want := "Totals,Total assets,100000.00,50000.00"; !strings.Contains(content, want) {
		t.Fatalf("expected totals row containing %q", want)
	}
}

func TestWriteIncomeStatementCSVCarriesWarnings(t *testing.T) {
	vm := IncomeStatementVM{
		Filters: StatementFiltersVM{
			WorkpaperID:  uuid.New(),
			Unclassified: string(statement.UnclassifiedQuarantine),
		},
		Sections: []StatementSectionVM{
			{
				Label: "Gross profit/(loss)",
				Lines: []StatementLineVM{
					{Label: "Sales", Current: 100000, Prior: 50000},
				},
			},
		},
		TotalIncome:        100000,
		CostOfSales:        60000,
		GrossProfit:        40000,
		NetProfitBeforeTax: 25000,
		Warnings:           []string{"balance sheet out of balance by 10.00"},
	}
	var buf bytes.Buffer
	if err := writeIncomeStatementCSV(&buf, vm); err != nil {
		t.Fatalf("writeIncomeStatementCSV: %v", err)
	}
	content := buf.String()
	if !strings.Contains(content, "# Warnings: balance sheet out of balance by 10.00") {
		t.Fatalf("expected warning in metadata, got %q", content)
	}
	if !strings.Contains(content, "Totals,Net profit before tax,25000.00,0.00") {
		t.Fatalf("expected net profit totals row, got %q", content)
	}
}
