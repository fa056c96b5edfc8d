package statement

import "math"

// NormalizedAmounts carries both representations of an aggregated item:
// the magnitudes presented on the statement and the signed values that feed
// totals. Keeping both avoids re-deriving sign from an already inverted
// display figure.
type NormalizedAmounts struct {
	DisplayCurrent float64
	DisplayPrior   float64
	SignedCurrent  float64
	SignedPrior    float64
}

// Normalize converts one aggregated item from ledger convention
// (debit-positive) to statement convention. Balance sheet rule: asset
// subsections keep their sign, equity and liability subsections invert.
// Income statement rules depend on the catalog-declared role of the item.
func Normalize(item AggregatedItem, role Role) NormalizedAmounts {
	switch item.Section {
	case SectionBalanceSheet:
		return normalizeBalanceSheet(item)
	case SectionIncomeStatement:
		return normalizeIncomeStatement(item, role)
	default:
		return NormalizedAmounts{
			DisplayCurrent: item.CurrentSum,
			DisplayPrior:   item.PriorSum,
			SignedCurrent:  item.CurrentSum,
			SignedPrior:    item.PriorSum,
		}
	}
}

func normalizeBalanceSheet(item AggregatedItem) NormalizedAmounts {
	switch item.Subsection {
	case SubsectionNonCurrentAssets, SubsectionCurrentAssets:
		return NormalizedAmounts{
			DisplayCurrent: item.CurrentSum,
			DisplayPrior:   item.PriorSum,
			SignedCurrent:  item.CurrentSum,
			SignedPrior:    item.PriorSum,
		}
	default:
		// Credit-convention buckets: equity and liabilities are stored
		// credit-negative and presented as positive magnitudes.
		return NormalizedAmounts{
			DisplayCurrent: -item.CurrentSum,
			DisplayPrior:   -item.PriorSum,
			SignedCurrent:  -item.CurrentSum,
			SignedPrior:    -item.PriorSum,
		}
	}
}

func normalizeIncomeStatement(item AggregatedItem, role Role) NormalizedAmounts {
	switch role {
	case RoleRevenue:
		// Income displays as a magnitude; the raw signed value stays
		// available for the gross profit arithmetic.
		return NormalizedAmounts{
			DisplayCurrent: math.Abs(item.CurrentSum),
			DisplayPrior:   math.Abs(item.PriorSum),
			SignedCurrent:  item.CurrentSum,
			SignedPrior:    item.PriorSum,
		}
	case RoleOtherIncome:
		return NormalizedAmounts{
			DisplayCurrent: math.Abs(item.CurrentSum),
			DisplayPrior:   math.Abs(item.PriorSum),
			SignedCurrent:  -item.CurrentSum,
			SignedPrior:    -item.PriorSum,
		}
	case RoleExpense:
		return NormalizedAmounts{
			DisplayCurrent: math.Abs(item.CurrentSum),
			DisplayPrior:   math.Abs(item.PriorSum),
			SignedCurrent:  item.CurrentSum,
			SignedPrior:    item.PriorSum,
		}
	default:
		// ContraRevenue and CostOfSales keep the raw signed value in both
		// representations.
		return NormalizedAmounts{
			DisplayCurrent: item.CurrentSum,
			DisplayPrior:   item.PriorSum,
			SignedCurrent:  item.CurrentSum,
			SignedPrior:    item.PriorSum,
		}
	}
}
