package statement

import "sort"

// AggregateResult holds the grouped sums plus the rows the catalog refused.
// Unclassified rows never reach a statement bucket; the caller decides
// whether they reject the build or ride along as a diagnostic.
type AggregateResult struct {
	Items        map[ItemKey]AggregatedItem
	Unclassified []MappedAccountRow
}

// Aggregate collapses mapped rows into per-item sums keyed by
// (item, subsection). Input order does not affect the result. Items whose
// sums net to zero are retained; zero-suppression is a presentation policy
// applied downstream.
func Aggregate(rows []MappedAccountRow, catalog *Catalog) (AggregateResult, error) {
	if catalog == nil {
		return AggregateResult{}, ErrNilCatalog
	}
	result := AggregateResult{Items: make(map[ItemKey]AggregatedItem, len(rows))}
	for _, row := range rows {
		if !catalog.ValidSubsection(row.Section, row.Subsection) {
			result.Unclassified = append(result.Unclassified, row)
			continue
		}
		key := ItemKey{Item: row.Item, Subsection: row.Subsection}
		item, ok := result.Items[key]
		if !ok {
			item = AggregatedItem{Item: row.Item, Section: row.Section, Subsection: row.Subsection}
		}
		item.CurrentSum += row.Balance
		item.PriorSum += row.PriorBalance
		item.Rows = append(item.Rows, row)
		result.Items[key] = item
	}
	sortRowsByAccountCode(result.Unclassified)
	return result, nil
}

// ItemsFor returns the aggregated items belonging to one subsection, ordered
// by item label for stable presentation.
func (r AggregateResult) ItemsFor(subsection Subsection) []AggregatedItem {
	out := make([]AggregatedItem, 0)
	for key, item := range r.Items {
		if key.Subsection == subsection {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Item < out[j].Item })
	return out
}

// Err returns the validation error for unclassified rows, or nil when every
// row landed in a recognised subsection.
func (r AggregateResult) Err() error {
	if len(r.Unclassified) == 0 {
		return nil
	}
	return &UnknownSubsectionError{Rows: append([]MappedAccountRow(nil), r.Unclassified...)}
}

func sortRowsByAccountCode(rows []MappedAccountRow) {
	sort.Slice(rows, func(i, j int) bool { return rows[i].AccountCode < rows[j].AccountCode })
}
