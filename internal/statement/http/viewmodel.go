package http

import (
	"github.com/google/uuid"

	"github.com/finpapers/finpapers/internal/statement"
)

// StatementFiltersVM echoes the parsed filters back to the caller.
type StatementFiltersVM struct {
	WorkpaperID      uuid.UUID `json:"workpaper_id"`
	IncludeZeroItems bool      `json:"include_zero_items"`
	Unclassified     string    `json:"unclassified_policy"`
}

// StatementLineVM is one renderable statement row.
type StatementLineVM struct {
	Label         string  `json:"label"`
	Current       float64 `json:"current"`
	Prior         float64 `json:"prior"`
	SignedCurrent float64 `json:"signed_current"`
	SignedPrior   float64 `json:"signed_prior"`
	IsSubtotal    bool    `json:"is_subtotal,omitempty"`
	IsTotal       bool    `json:"is_total,omitempty"`
}

// StatementSectionVM groups lines under a presentation heading.
type StatementSectionVM struct {
	Label      string            `json:"label"`
	Subsection string            `json:"subsection"`
	Lines      []StatementLineVM `json:"lines"`
	Total      float64           `json:"total"`
	PriorTotal float64           `json:"prior_total"`
}

// ReconciliationVM reports the balance identity check for one year.
type ReconciliationVM struct {
	Delta float64 `json:"delta"`
	Pass  bool    `json:"pass"`
}

// BalanceSheetVM drives the balance sheet JSON response.
type BalanceSheetVM struct {
	Filters  StatementFiltersVM   `json:"filters"`
	Sections []StatementSectionVM `json:"sections"`

	TotalAssets               float64 `json:"total_assets"`
	TotalEquity               float64 `json:"total_equity"`
	TotalLiabilities          float64 `json:"total_liabilities"`
	TotalEquityAndLiabilities float64 `json:"total_equity_and_liabilities"`
	PriorTotalAssets          float64 `json:"prior_total_assets"`
	PriorTotalEquity          float64 `json:"prior_total_equity"`
	PriorTotalLiabilities     float64 `json:"prior_total_liabilities"`
	PriorTotalEquityAndLiab   float64 `json:"prior_total_equity_and_liabilities"`

	Reconciliation      ReconciliationVM `json:"reconciliation"`
	PriorReconciliation ReconciliationVM `json:"prior_reconciliation"`

	Warnings []string `json:"warnings"`
}

// IncomeStatementVM drives the income statement JSON response.
type IncomeStatementVM struct {
	Filters  StatementFiltersVM   `json:"filters"`
	Sections []StatementSectionVM `json:"sections"`

	TotalIncome             float64 `json:"total_income"`
	CostOfSales             float64 `json:"cost_of_sales"`
	GrossProfit             float64 `json:"gross_profit"`
	OtherIncome             float64 `json:"other_income"`
	Expenses                float64 `json:"expenses"`
	NetProfitBeforeTax      float64 `json:"net_profit_before_tax"`
	PriorTotalIncome        float64 `json:"prior_total_income"`
	PriorCostOfSales        float64 `json:"prior_cost_of_sales"`
	PriorGrossProfit        float64 `json:"prior_gross_profit"`
	PriorOtherIncome        float64 `json:"prior_other_income"`
	PriorExpenses           float64 `json:"prior_expenses"`
	PriorNetProfitBeforeTax float64 `json:"prior_net_profit_before_tax"`

	Warnings []string `json:"warnings"`
}

func sectionVM(src statement.StatementSection) StatementSectionVM {
	vm := StatementSectionVM{
		Label:      src.Label,
		Subsection: string(src.Subsection),
		Lines:      make([]StatementLineVM, len(src.Lines)),
		Total:      src.Total,
		PriorTotal: src.PriorTotal,
	}
	for i, line := range src.Lines {
		vm.Lines[i] = StatementLineVM{
			Label:         line.Label,
			Current:       line.Current,
			Prior:         line.Prior,
			SignedCurrent: line.SignedCurrent,
			SignedPrior:   line.SignedPrior,
			IsSubtotal:    line.IsSubtotal,
			IsTotal:       line.IsTotal,
		}
	}
	return vm
}

func filtersVM(filters statement.Filters) StatementFiltersVM {
	policy := filters.Unclassified
	if policy == "" {
		policy = statement.UnclassifiedQuarantine
	}
	return StatementFiltersVM{
		WorkpaperID:      filters.WorkpaperID,
		IncludeZeroItems: filters.IncludeZeroItems,
		Unclassified:     string(policy),
	}
}

// NewBalanceSheetVM maps the derived balance sheet into the view model.
func NewBalanceSheetVM(filters statement.Filters, bs statement.BalanceSheet, warnings []string) BalanceSheetVM {
	return BalanceSheetVM{
		Filters: filtersVM(filters),
		Sections: []StatementSectionVM{
			sectionVM(bs.NonCurrentAssets),
			sectionVM(bs.CurrentAssets),
			sectionVM(bs.Equity),
			sectionVM(bs.NonCurrentLiabilities),
			sectionVM(bs.CurrentLiabilities),
		},
		TotalAssets:               bs.TotalAssets,
		TotalEquity:               bs.TotalEquity,
		TotalLiabilities:          bs.TotalLiabilities,
		TotalEquityAndLiabilities: bs.TotalEquityAndLiabilities,
		PriorTotalAssets:          bs.PriorTotalAssets,
		PriorTotalEquity:          bs.PriorTotalEquity,
		PriorTotalLiabilities:     bs.PriorTotalLiabilities,
		PriorTotalEquityAndLiab:   bs.PriorTotalEquityAndLiab,
		Reconciliation:            ReconciliationVM(bs.Reconciliation),
		PriorReconciliation:       ReconciliationVM(bs.PriorReconciliation),
		Warnings:                  append([]string(nil), warnings...),
	}
}

// NewIncomeStatementVM maps the derived income statement into the view model.
func NewIncomeStatementVM(filters statement.Filters, is statement.IncomeStatement, warnings []string) IncomeStatementVM {
	return IncomeStatementVM{
		Filters: filtersVM(filters),
		Sections: []StatementSectionVM{
			sectionVM(is.GrossProfitSection),
			sectionVM(is.OtherIncomeSection),
			sectionVM(is.ExpenseSection),
		},
		TotalIncome:             is.TotalIncome,
		CostOfSales:             is.CostOfSales,
		GrossProfit:             is.GrossProfit,
		OtherIncome:             is.OtherIncome,
		Expenses:                is.Expenses,
		NetProfitBeforeTax:      is.NetProfitBeforeTax,
		PriorTotalIncome:        is.PriorTotalIncome,
		PriorCostOfSales:        is.PriorCostOfSales,
		PriorGrossProfit:        is.PriorGrossProfit,
		PriorOtherIncome:        is.PriorOtherIncome,
		PriorExpenses:           is.PriorExpenses,
		PriorNetProfitBeforeTax: is.PriorNetProfitBeforeTax,
		Warnings:                append([]string(nil), warnings...),
	}
}
