package statement

import "sort"

// BalanceSheetOptions control presentation-level behaviour of the builder.
type BalanceSheetOptions struct {
	// IncludeZeroItems emits every catalog item of the section even when the
	// mapped data nets to zero, so statements always show the standard lines.
	IncludeZeroItems bool
	// ProfitCurrent and ProfitPrior are the income statement net results
	// injected into equity as the current-year profit plug line.
	ProfitCurrent float64
	ProfitPrior   float64
}

// BuildBalanceSheet distributes aggregated, sign-normalized items into the
// six balance sheet subsections and computes section and grand totals for
// both years.
func BuildBalanceSheet(agg AggregateResult, catalog *Catalog, opts BalanceSheetOptions) BalanceSheet {
	nonCurrentAssets := buildSection("Non-Current Assets", SubsectionNonCurrentAssets, agg, catalog, opts.IncludeZeroItems)
	currentAssets := buildSection("Current Assets", SubsectionCurrentAssets, agg, catalog, opts.IncludeZeroItems)
	creditBalances := buildSection("Capital and Reserves", SubsectionEquityCreditBalances, agg, catalog, opts.IncludeZeroItems)
	debitBalances := buildSection("Capital and Reserves (Debit Balances)", SubsectionEquityDebitBalances, agg, catalog, opts.IncludeZeroItems)
	nonCurrentLiabilities := buildSection("Non-Current Liabilities", SubsectionNonCurrentLiabilities, agg, catalog, opts.IncludeZeroItems)
	currentLiabilities := buildSection("Current Liabilities", SubsectionCurrentLiabilities, agg, catalog, opts.IncludeZeroItems)

	equity := mergeEquity(creditBalances, debitBalances, opts.ProfitCurrent, opts.ProfitPrior)

	bs := BalanceSheet{
		NonCurrentAssets:      closeSection(nonCurrentAssets),
		CurrentAssets:         closeSection(currentAssets),
		Equity:                closeSection(equity),
		NonCurrentLiabilities: closeSection(nonCurrentLiabilities),
		CurrentLiabilities:    closeSection(currentLiabilities),
	}

	bs.TotalAssets = nonCurrentAssets.Total + currentAssets.Total
	bs.PriorTotalAssets = nonCurrentAssets.PriorTotal + currentAssets.PriorTotal
	bs.TotalEquity = equity.Total
	bs.PriorTotalEquity = equity.PriorTotal
	bs.TotalLiabilities = nonCurrentLiabilities.Total + currentLiabilities.Total
	bs.PriorTotalLiabilities = nonCurrentLiabilities.PriorTotal + currentLiabilities.PriorTotal
	bs.TotalEquityAndLiabilities = bs.TotalEquity + bs.TotalLiabilities
	bs.PriorTotalEquityAndLiab = bs.PriorTotalEquity + bs.PriorTotalLiabilities

	bs.Reconciliation = Reconcile(bs.TotalAssets, bs.TotalEquityAndLiabilities)
	bs.PriorReconciliation = Reconcile(bs.PriorTotalAssets, bs.PriorTotalEquityAndLiab)
	return bs
}

func buildSection(label string, subsection Subsection, agg AggregateResult, catalog *Catalog, includeZero bool) StatementSection {
	items := agg.ItemsFor(subsection)
	if includeZero {
		items = fillCatalogItems(items, subsection, catalog)
	}
	section := StatementSection{Label: label, Subsection: subsection}
	for _, item := range items {
		amounts := Normalize(item, catalog.RoleFor(ItemKey{Item: item.Item, Subsection: item.Subsection}))
		section.Lines = append(section.Lines, StatementLine{
			Label:         item.Item,
			Current:       amounts.DisplayCurrent,
			Prior:         amounts.DisplayPrior,
			SignedCurrent: amounts.SignedCurrent,
			SignedPrior:   amounts.SignedPrior,
		})
		section.Total += amounts.SignedCurrent
		section.PriorTotal += amounts.SignedPrior
	}
	return section
}

// fillCatalogItems adds zero-valued entries for catalog items absent from
// the mapped data, preserving label order.
func fillCatalogItems(items []AggregatedItem, subsection Subsection, catalog *Catalog) []AggregatedItem {
	present := make(map[string]struct{}, len(items))
	for _, item := range items {
		present[item.Item] = struct{}{}
	}
	section, ok := sectionOf(subsection, catalog)
	if !ok {
		return items
	}
	for _, entry := range catalog.Entries(section) {
		if entry.Subsection != subsection {
			continue
		}
		if _, seen := present[entry.Item]; seen {
			continue
		}
		items = append(items, AggregatedItem{Item: entry.Item, Section: entry.Section, Subsection: entry.Subsection})
		present[entry.Item] = struct{}{}
	}
	sortAggregated(items)
	return items
}

func sectionOf(subsection Subsection, catalog *Catalog) (Section, bool) {
	if catalog == nil {
		return "", false
	}
	owner, ok := catalog.subsections[subsection]
	return owner, ok
}

// mergeEquity joins both equity buckets and injects the current-year profit
// plug. The plug arrives as the presented net profit; in the underlying
// ledger convention that figure is credit-negative, which is why it raises
// presented equity here.
func mergeEquity(credit, debit StatementSection, profitCurrent, profitPrior float64) StatementSection {
	section := StatementSection{Label: "Equity and Reserves", Subsection: SubsectionEquityCreditBalances}
	section.Lines = append(section.Lines, credit.Lines...)
	section.Lines = append(section.Lines, debit.Lines...)
	section.Lines = append(section.Lines, StatementLine{
		Label:         "Profit/(loss) for the year",
		Current:       profitCurrent,
		Prior:         profitPrior,
		SignedCurrent: profitCurrent,
		SignedPrior:   profitPrior,
		IsSubtotal:    true,
	})
	section.Total = credit.Total + debit.Total + profitCurrent
	section.PriorTotal = credit.PriorTotal + debit.PriorTotal + profitPrior
	return section
}

// closeSection appends the rendered total row.
func closeSection(section StatementSection) StatementSection {
	section.Lines = append(section.Lines, StatementLine{
		Label:         "Total " + section.Label,
		Current:       section.Total,
		Prior:         section.PriorTotal,
		SignedCurrent: section.Total,
		SignedPrior:   section.PriorTotal,
		IsTotal:       true,
	})
	return section
}

func sortAggregated(items []AggregatedItem) {
	sort.SliceStable(items, func(i, j int) bool { return items[i].Item < items[j].Item })
}
