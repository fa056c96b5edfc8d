package statement

// IncomeStatementOptions control presentation-level behaviour of the builder.
type IncomeStatementOptions struct {
	IncludeZeroItems bool
}

// BuildIncomeStatement distributes aggregated items into the income
// statement subsections and derives the six aggregates for both years:
// total income, cost of sales, gross profit, other income, expenses, and
// net profit before tax.
func BuildIncomeStatement(agg AggregateResult, catalog *Catalog, opts IncomeStatementOptions) IncomeStatement {
	is := IncomeStatement{}

	gross := StatementSection{Label: "Gross Profit/(Loss)", Subsection: SubsectionGrossProfitOrLoss}
	for _, item := range sectionItems(agg, catalog, opts.IncludeZeroItems, SubsectionGrossProfitOrLoss) {
		role := catalog.RoleFor(ItemKey{Item: item.Item, Subsection: item.Subsection})
		amounts := Normalize(item, role)
		gross.Lines = append(gross.Lines, StatementLine{
			Label:         item.Item,
			Current:       amounts.DisplayCurrent,
			Prior:         amounts.DisplayPrior,
			SignedCurrent: amounts.SignedCurrent,
			SignedPrior:   amounts.SignedPrior,
		})
		if role == RoleRevenue {
			is.TotalIncome += amounts.DisplayCurrent
			is.PriorTotalIncome += amounts.DisplayPrior
		} else {
			is.CostOfSales += amounts.SignedCurrent
			is.PriorCostOfSales += amounts.SignedPrior
		}
	}
	is.GrossProfit = is.TotalIncome - is.CostOfSales
	is.PriorGrossProfit = is.PriorTotalIncome - is.PriorCostOfSales
	gross.Total = is.GrossProfit
	gross.PriorTotal = is.PriorGrossProfit
	gross.Lines = append(gross.Lines, StatementLine{
		Label:         "Gross profit",
		Current:       is.GrossProfit,
		Prior:         is.PriorGrossProfit,
		SignedCurrent: is.GrossProfit,
		SignedPrior:   is.PriorGrossProfit,
		IsSubtotal:    true,
	})

	other := StatementSection{Label: "Other Income", Subsection: SubsectionIncomeCredit}
	for _, item := range sectionItems(agg, catalog, opts.IncludeZeroItems, SubsectionIncomeCredit, SubsectionIncomeOnlyCredit) {
		amounts := Normalize(item, catalog.RoleFor(ItemKey{Item: item.Item, Subsection: item.Subsection}))
		other.Lines = append(other.Lines, StatementLine{
			Label:         item.Item,
			Current:       amounts.DisplayCurrent,
			Prior:         amounts.DisplayPrior,
			SignedCurrent: amounts.SignedCurrent,
			SignedPrior:   amounts.SignedPrior,
		})
		is.OtherIncome += amounts.DisplayCurrent
		is.PriorOtherIncome += amounts.DisplayPrior
	}
	other.Total = is.OtherIncome
	other.PriorTotal = is.PriorOtherIncome
	other = closeSection(other)

	expense := StatementSection{Label: "Expenses", Subsection: SubsectionExpenseDebit}
	for _, item := range sectionItems(agg, catalog, opts.IncludeZeroItems, SubsectionExpenseDebit) {
		amounts := Normalize(item, catalog.RoleFor(ItemKey{Item: item.Item, Subsection: item.Subsection}))
		expense.Lines = append(expense.Lines, StatementLine{
			Label:         item.Item,
			Current:       amounts.DisplayCurrent,
			Prior:         amounts.DisplayPrior,
			SignedCurrent: amounts.SignedCurrent,
			SignedPrior:   amounts.SignedPrior,
		})
		is.Expenses += amounts.DisplayCurrent
		is.PriorExpenses += amounts.DisplayPrior
	}
	expense.Total = is.Expenses
	expense.PriorTotal = is.PriorExpenses
	expense = closeSection(expense)

	is.NetProfitBeforeTax = is.GrossProfit + is.OtherIncome - is.Expenses
	is.PriorNetProfitBeforeTax = is.PriorGrossProfit + is.PriorOtherIncome - is.PriorExpenses

	expense.Lines = append(expense.Lines, StatementLine{
		Label:         "Net profit before tax",
		Current:       is.NetProfitBeforeTax,
		Prior:         is.PriorNetProfitBeforeTax,
		SignedCurrent: is.NetProfitBeforeTax,
		SignedPrior:   is.PriorNetProfitBeforeTax,
		IsTotal:       true,
	})

	is.GrossProfitSection = gross
	is.OtherIncomeSection = other
	is.ExpenseSection = expense
	return is
}

func sectionItems(agg AggregateResult, catalog *Catalog, includeZero bool, subsections ...Subsection) []AggregatedItem {
	items := make([]AggregatedItem, 0)
	for _, subsection := range subsections {
		part := agg.ItemsFor(subsection)
		if includeZero {
			part = fillCatalogItems(part, subsection, catalog)
		}
		items = append(items, part...)
	}
	return items
}
