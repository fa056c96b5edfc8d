package statement

import "math"

// Tolerance within which the balance sheet identity is considered satisfied.
// Currency minor unit, matching the rounding of presented amounts.
const reconciliationTolerance = 0.01

// Reconcile checks the balance sheet identity (total assets equal total
// equity plus liabilities) within the currency tolerance. Failure is a
// diagnostic, not an error: mapping may be temporarily incomplete while a
// workpaper is in progress.
func Reconcile(totalAssets, totalEquityAndLiabilities float64) Reconciliation {
	delta := totalAssets - totalEquityAndLiabilities
	return Reconciliation{Delta: delta, Pass: math.Abs(delta) < reconciliationTolerance}
}
