package statement

import "testing"

func TestIncomeStatementWorkedExample(t *testing.T) {
	rows := []MappedAccountRow{
		row("7000/000", SectionIncomeStatement, SubsectionGrossProfitOrLoss, "Sales", -100000, 0),
		row("7100/000", SectionIncomeStatement, SubsectionGrossProfitOrLoss, "Cost of sales", 60000, 0),
		row("7200/000", SectionIncomeStatement, SubsectionIncomeCredit, "Interest received", -5000, 0),
		row("8400/000", SectionIncomeStatement, SubsectionExpenseDebit, "Salaries and wages", 20000, 0),
	}
	catalog := DefaultCatalog()
	agg, err := Aggregate(rows, catalog)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	is := BuildIncomeStatement(agg, catalog, IncomeStatementOptions{})

	if is.TotalIncome != 100000 {
		t.Fatalf("total income = %v", is.TotalIncome)
	}
	if is.CostOfSales != 60000 {
		t.Fatalf("cost of sales = %v", is.CostOfSales)
	}
	if is.GrossProfit != 40000 {
		t.Fatalf("gross profit = %v", is.GrossProfit)
	}
	if is.OtherIncome != 5000 {
		t.Fatalf("other income = %v", is.OtherIncome)
	}
	if is.Expenses != 20000 {
		t.Fatalf("expenses = %v", is.Expenses)
	}
	if is.NetProfitBeforeTax != 25000 {
		t.Fatalf("net profit before tax = %v", is.NetProfitBeforeTax)
	}
}

func TestIncomeStatementCreditNotesReduceGrossProfit(t *testing.T) {
	rows := []MappedAccountRow{
		row("7000/000", SectionIncomeStatement, SubsectionGrossProfitOrLoss, "Sales", -100000, -80000),
		row("7050/000", SectionIncomeStatement, SubsectionGrossProfitOrLoss, "Credit notes on sales", 4000, 2000),
		row("7100/000", SectionIncomeStatement, SubsectionGrossProfitOrLoss, "Cost of sales", 60000, 48000),
	}
	catalog := DefaultCatalog()
	agg, err := Aggregate(rows, catalog)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	is := BuildIncomeStatement(agg, catalog, IncomeStatementOptions{})

	// Credit notes join cost of sales in the signed sum, never the income
	// magnitude: gross profit equals the negated raw section sum.
	if is.TotalIncome != 100000 {
		t.Fatalf("total income = %v", is.TotalIncome)
	}
	if is.CostOfSales != 64000 {
		t.Fatalf("cost of sales = %v", is.CostOfSales)
	}
	if is.GrossProfit != 36000 {
		t.Fatalf("gross profit = %v", is.GrossProfit)
	}
	if is.PriorGrossProfit != 30000 {
		t.Fatalf("prior gross profit = %v", is.PriorGrossProfit)
	}
}

func TestIncomeStatementBothIncomeSubsections(t *testing.T) {
	rows := []MappedAccountRow{
		row("7200/000", SectionIncomeStatement, SubsectionIncomeCredit, "Interest received", -5000, -4000),
		row("7300/000", SectionIncomeStatement, SubsectionIncomeOnlyCredit, "Profit on disposal of assets", -1500, 0),
	}
	catalog := DefaultCatalog()
	agg, err := Aggregate(rows, catalog)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	is := BuildIncomeStatement(agg, catalog, IncomeStatementOptions{})
	if is.OtherIncome != 6500 {
		t.Fatalf("other income = %v", is.OtherIncome)
	}
	if is.PriorOtherIncome != 4000 {
		t.Fatalf("prior other income = %v", is.PriorOtherIncome)
	}
	if len(is.OtherIncomeSection.Lines) != 3 { // two items plus total row
		t.Fatalf("other income lines = %d", len(is.OtherIncomeSection.Lines))
	}
}

func TestIncomeStatementZeroFillEmitsCatalogItems(t *testing.T) {
	rows := []MappedAccountRow{
		row("7200/000", SectionIncomeStatement, SubsectionIncomeCredit, "Interest received", -5000, 0),
	}
	catalog := DefaultCatalog()
	agg, err := Aggregate(rows, catalog)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	is := BuildIncomeStatement(agg, catalog, IncomeStatementOptions{IncludeZeroItems: true})

	// Other income spans two subsections; zero fill must cover both.
	want := 0
	for _, entry := range catalog.Entries(SectionIncomeStatement) {
		if entry.Subsection == SubsectionIncomeCredit || entry.Subsection == SubsectionIncomeOnlyCredit {
			want++
		}
	}
	// Plus the rendered total row.
	if len(is.OtherIncomeSection.Lines) != want+1 {
		t.Fatalf("other income lines = %d want %d", len(is.OtherIncomeSection.Lines), want+1)
	}
	found := false
	for _, line := range is.OtherIncomeSection.Lines {
		if line.Label == "Profit on disposal of assets" && line.Current == 0 && line.Prior == 0 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected zero-filled disposal profit line")
	}
	if is.OtherIncome != 5000 {
		t.Fatalf("zero fill changed other income total: %v", is.OtherIncome)
	}
	if is.NetProfitBeforeTax != 5000 {
		t.Fatalf("zero fill changed net profit: %v", is.NetProfitBeforeTax)
	}
}

func TestIncomeStatementEmptyInput(t *testing.T) {
	agg, err := Aggregate(nil, DefaultCatalog())
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	is := BuildIncomeStatement(agg, DefaultCatalog(), IncomeStatementOptions{})
	if is.TotalIncome != 0 || is.GrossProfit != 0 || is.NetProfitBeforeTax != 0 {
		t.Fatalf("empty input produced non-zero totals: %+v", is)
	}
}
