package statement

// CatalogEntry declares one permitted classification item: where it sits on
// the statements and which arithmetic role it plays.
type CatalogEntry struct {
	Section    Section
	Subsection Subsection
	Item       string
	Role       Role
}

// Catalog is the read-only mapping guide supplied by configuration. The
// engine uses it to validate subsections, to resolve item roles, and to
// emit standard zero-valued lines for items absent from the data.
type Catalog struct {
	entries     []CatalogEntry
	bySection   map[Section][]Subsection
	byItem      map[ItemKey]CatalogEntry
	subsections map[Subsection]Section
}

// NewCatalog builds the lookup structures for a set of entries.
func NewCatalog(entries []CatalogEntry) *Catalog {
	c := &Catalog{
		entries:     append([]CatalogEntry(nil), entries...),
		bySection:   make(map[Section][]Subsection),
		byItem:      make(map[ItemKey]CatalogEntry),
		subsections: make(map[Subsection]Section),
	}
	for _, entry := range c.entries {
		key := ItemKey{Item: entry.Item, Subsection: entry.Subsection}
		if _, ok := c.byItem[key]; !ok {
			c.byItem[key] = entry
		}
		if _, ok := c.subsections[entry.Subsection]; !ok {
			c.subsections[entry.Subsection] = entry.Section
			c.bySection[entry.Section] = append(c.bySection[entry.Section], entry.Subsection)
		}
	}
	return c
}

// ValidSubsection reports whether the subsection belongs to the section.
func (c *Catalog) ValidSubsection(section Section, subsection Subsection) bool {
	if c == nil {
		return false
	}
	owner, ok := c.subsections[subsection]
	return ok && owner == section
}

// RoleFor resolves the arithmetic role declared for an item. Items missing
// from the catalog inherit the default role of their subsection so mapped
// data ahead of a catalog refresh still aggregates predictably.
func (c *Catalog) RoleFor(key ItemKey) Role {
	if c == nil {
		return RoleNone
	}
	if entry, ok := c.byItem[key]; ok {
		return entry.Role
	}
	return defaultRole(key.Subsection)
}

// Entries returns catalog entries for a section in declaration order.
func (c *Catalog) Entries(section Section) []CatalogEntry {
	if c == nil {
		return nil
	}
	out := make([]CatalogEntry, 0)
	for _, entry := range c.entries {
		if entry.Section == section {
			out = append(out, entry)
		}
	}
	return out
}

func defaultRole(subsection Subsection) Role {
	switch subsection {
	case SubsectionGrossProfitOrLoss:
		return RoleCostOfSales
	case SubsectionIncomeCredit, SubsectionIncomeOnlyCredit:
		return RoleOtherIncome
	case SubsectionExpenseDebit:
		return RoleExpense
	default:
		return RoleNone
	}
}

// DefaultCatalog returns the standard SARS mapping guide used when a tenant
// has not uploaded a custom one. Labels match the statutory line items.
func DefaultCatalog() *Catalog {
	return NewCatalog(defaultEntries)
}

var defaultEntries = []CatalogEntry{
	{SectionBalanceSheet, SubsectionNonCurrentAssets, "Property, plant and equipment", RoleNone},
	{SectionBalanceSheet, SubsectionNonCurrentAssets, "Intangible assets", RoleNone},
	{SectionBalanceSheet, SubsectionNonCurrentAssets, "Financial assets", RoleNone},
	{SectionBalanceSheet, SubsectionNonCurrentAssets, "Deferred tax asset", RoleNone},
	{SectionBalanceSheet, SubsectionCurrentAssets, "Inventory", RoleNone},
	{SectionBalanceSheet, SubsectionCurrentAssets, "Trade and other receivables", RoleNone},
	{SectionBalanceSheet, SubsectionCurrentAssets, "Cash and cash equivalents", RoleNone},
	{SectionBalanceSheet, SubsectionCurrentAssets, "Current tax receivable", RoleNone},
	{SectionBalanceSheet, SubsectionEquityCreditBalances, "Share capital", RoleNone},
	{SectionBalanceSheet, SubsectionEquityCreditBalances, "Retained income", RoleNone},
	{SectionBalanceSheet, SubsectionEquityCreditBalances, "Other reserves", RoleNone},
	{SectionBalanceSheet, SubsectionEquityDebitBalances, "Loans to shareholders", RoleNone},
	{SectionBalanceSheet, SubsectionEquityDebitBalances, "Accumulated loss", RoleNone},
	{SectionBalanceSheet, SubsectionNonCurrentLiabilities, "Long-term borrowings", RoleNone},
	{SectionBalanceSheet, SubsectionNonCurrentLiabilities, "Deferred tax liability", RoleNone},
	{SectionBalanceSheet, SubsectionCurrentLiabilities, "Trade and other payables", RoleNone},
	{SectionBalanceSheet, SubsectionCurrentLiabilities, "Current tax payable", RoleNone},
	{SectionBalanceSheet, SubsectionCurrentLiabilities, "Bank overdraft", RoleNone},
	{SectionBalanceSheet, SubsectionCurrentLiabilities, "Provisions", RoleNone},
	{SectionIncomeStatement, SubsectionGrossProfitOrLoss, "Sales", RoleRevenue},
	{SectionIncomeStatement, SubsectionGrossProfitOrLoss, "Credit notes on sales", RoleContraRevenue},
	{SectionIncomeStatement, SubsectionGrossProfitOrLoss, "Cost of sales", RoleCostOfSales},
	{SectionIncomeStatement, SubsectionGrossProfitOrLoss, "Opening stock", RoleCostOfSales},
	{SectionIncomeStatement, SubsectionGrossProfitOrLoss, "Closing stock", RoleCostOfSales},
	{SectionIncomeStatement, SubsectionIncomeCredit, "Interest received", RoleOtherIncome},
	{SectionIncomeStatement, SubsectionIncomeCredit, "Dividends received", RoleOtherIncome},
	{SectionIncomeStatement, SubsectionIncomeCredit, "Rental income", RoleOtherIncome},
	{SectionIncomeStatement, SubsectionIncomeOnlyCredit, "Profit on disposal of assets", RoleOtherIncome},
	{SectionIncomeStatement, SubsectionIncomeOnlyCredit, "Foreign exchange gain", RoleOtherIncome},
	{SectionIncomeStatement, SubsectionExpenseDebit, "Salaries and wages", RoleExpense},
	{SectionIncomeStatement, SubsectionExpenseDebit, "Depreciation", RoleExpense},
	{SectionIncomeStatement, SubsectionExpenseDebit, "Interest paid", RoleExpense},
	{SectionIncomeStatement, SubsectionExpenseDebit, "Rent paid", RoleExpense},
	{SectionIncomeStatement, SubsectionExpenseDebit, "Repairs and maintenance", RoleExpense},
	{SectionIncomeStatement, SubsectionExpenseDebit, "Professional fees", RoleExpense},
	{SectionIncomeStatement, SubsectionExpenseDebit, "Bad debts written off", RoleExpense},
	{SectionIncomeStatement, SubsectionExpenseDebit, "Other expenses", RoleExpense},
}
