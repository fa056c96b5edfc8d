package statement

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Section identifies the financial statement a mapped account belongs to.
type Section string

const (
	SectionBalanceSheet    Section = "BALANCE_SHEET"
	SectionIncomeStatement Section = "INCOME_STATEMENT"
)

// Subsection is the fixed bucket that determines statement placement and
// the sign-convention transform applied to a line.
type Subsection string

// Balance sheet subsections.
const (
	SubsectionNonCurrentAssets      Subsection = "NON_CURRENT_ASSETS"
	SubsectionCurrentAssets         Subsection = "CURRENT_ASSETS"
	SubsectionEquityCreditBalances  Subsection = "CAPITAL_RESERVES_CREDIT"
	SubsectionEquityDebitBalances   Subsection = "CAPITAL_RESERVES_DEBIT"
	SubsectionNonCurrentLiabilities Subsection = "NON_CURRENT_LIABILITIES"
	SubsectionCurrentLiabilities    Subsection = "CURRENT_LIABILITIES"
)

// Income statement subsections.
const (
	SubsectionGrossProfitOrLoss Subsection = "GROSS_PROFIT_OR_LOSS"
	SubsectionIncomeCredit      Subsection = "INCOME_ITEMS_CREDIT"
	SubsectionIncomeOnlyCredit  Subsection = "INCOME_ITEMS_ONLY_CREDIT"
	SubsectionExpenseDebit      Subsection = "EXPENSE_ITEMS_DEBIT"
)

// Role declares the arithmetic role of a classification item. It is carried
// on the catalog entry so the engine never infers behaviour from display
// labels.
type Role string

const (
	RoleNone          Role = "NONE"
	RoleRevenue       Role = "REVENUE"
	RoleContraRevenue Role = "CONTRA_REVENUE"
	RoleCostOfSales   Role = "COST_OF_SALES"
	RoleOtherIncome   Role = "OTHER_INCOME"
	RoleExpense       Role = "EXPENSE"
)

// MappedAccountRow is one trial-balance account mapped to a classification
// item. Amounts are in ledger convention (debit-positive).
type MappedAccountRow struct {
	ID           uuid.UUID
	AccountCode  string
	AccountName  string
	Section      Section
	Subsection   Subsection
	Item         string
	Balance      float64
	PriorBalance float64
}

// AggregatedItem sums all rows sharing a classification item within a
// subsection. Derived, never persisted.
type AggregatedItem struct {
	Item       string
	Section    Section
	Subsection Subsection
	CurrentSum float64
	PriorSum   float64
	Rows       []MappedAccountRow
}

// ItemKey identifies an aggregated item.
type ItemKey struct {
	Item       string
	Subsection Subsection
}

// StatementLine is one renderable statement row. Display amounts follow
// statement convention; signed amounts keep the value used for totals so
// sign is never re-derived from an already inverted figure.
type StatementLine struct {
	Label         string
	Current       float64
	Prior         float64
	SignedCurrent float64
	SignedPrior   float64
	IsSubtotal    bool
	IsTotal       bool
}

// StatementSection groups lines under a presentation heading.
type StatementSection struct {
	Label      string
	Subsection Subsection
	Lines      []StatementLine
	Total      float64
	PriorTotal float64
}

// Reconciliation is the balance-sheet identity diagnostic for one year.
// A failure is a visible warning, never an error.
type Reconciliation struct {
	Delta float64
	Pass  bool
}

// BalanceSheet is the derived statement for both years.
type BalanceSheet struct {
	NonCurrentAssets      StatementSection
	CurrentAssets         StatementSection
	Equity                StatementSection
	NonCurrentLiabilities StatementSection
	CurrentLiabilities    StatementSection

	TotalAssets               float64
	TotalEquity               float64
	TotalLiabilities          float64
	TotalEquityAndLiabilities float64
	PriorTotalAssets          float64
	PriorTotalEquity          float64
	PriorTotalLiabilities     float64
	PriorTotalEquityAndLiab   float64

	Reconciliation      Reconciliation
	PriorReconciliation Reconciliation
}

// IncomeStatement is the derived income statement for both years.
type IncomeStatement struct {
	GrossProfitSection StatementSection
	OtherIncomeSection StatementSection
	ExpenseSection     StatementSection

	TotalIncome             float64
	CostOfSales             float64
	GrossProfit             float64
	OtherIncome             float64
	Expenses                float64
	NetProfitBeforeTax      float64
	PriorTotalIncome        float64
	PriorCostOfSales        float64
	PriorGrossProfit        float64
	PriorOtherIncome        float64
	PriorExpenses           float64
	PriorNetProfitBeforeTax float64
}

// StatementPack bundles both statements plus diagnostics for one workpaper.
type StatementPack struct {
	BalanceSheet    BalanceSheet
	IncomeStatement IncomeStatement
	Unclassified    []MappedAccountRow
}

// UnclassifiedPolicy decides what happens to rows whose subsection is not
// recognised by the catalog. Silent reclassification is deliberately not an
// option.
type UnclassifiedPolicy string

const (
	// UnclassifiedReject fails the build with an UnknownSubsectionError.
	UnclassifiedReject UnclassifiedPolicy = "REJECT"
	// UnclassifiedQuarantine excludes the rows from every total and surfaces
	// them as warnings alongside the pack.
	UnclassifiedQuarantine UnclassifiedPolicy = "QUARANTINE"
)

// Sentinel errors for the statement engine.
var (
	ErrNilCatalog        = errors.New("statement: catalog required")
	ErrWorkpaperRequired = errors.New("statement: workpaper id required")
)

// UnknownSubsectionError reports rows carrying a subsection the catalog does
// not recognise for their section. Kind: validation.
type UnknownSubsectionError struct {
	Rows []MappedAccountRow
}

func (e *UnknownSubsectionError) Error() string {
	if e == nil || len(e.Rows) == 0 {
		return "statement: unknown subsection"
	}
	first := e.Rows[0]
	if len(e.Rows) == 1 {
		return fmt.Sprintf("statement: account %s mapped to unknown subsection %s", first.AccountCode, first.Subsection)
	}
	return fmt.Sprintf("statement: %d rows mapped to unknown subsections (first: account %s, subsection %s)", len(e.Rows), first.AccountCode, first.Subsection)
}
