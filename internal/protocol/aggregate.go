package protocol

import "math"

// Aggregate groups valid leaf entries by position code and sums their
// quantities. Codes keep the order of their first appearance. Invalid
// entries and category headers are excluded. Totals are rounded to two
// decimal places once after summation, not between additions, so the
// result does not depend on entry order.
func Aggregate(entries []PositionEntry) []AggregatedPosition {
	totals := make(map[string]float64)
	var order []string

	for _, e := range entries {
		if !e.Valid || !e.Leaf {
			continue
		}
		if _, seen := totals[e.PosCode]; !seen {
			order = append(order, e.PosCode)
		}
		totals[e.PosCode] += e.Quantity
	}

	out := make([]AggregatedPosition, 0, len(order))
	for _, code := range order {
		out = append(out, AggregatedPosition{
			PosCode:       code,
			TotalQuantity: math.Round(totals[code]*100) / 100,
		})
	}
	return out
}

// AsEntries converts aggregated positions back into entries. Re-aggregating
// the result yields the same totals, which makes aggregation safe to apply
// to already aggregated data.
func AsEntries(aggs []AggregatedPosition) []PositionEntry {
	out := make([]PositionEntry, 0, len(aggs))
	for _, a := range aggs {
		out = append(out, PositionEntry{
			PosCode:  a.PosCode,
			Quantity: a.TotalQuantity,
			Valid:    true,
			Leaf:     IsLeafCode(a.PosCode),
		})
	}
	return out
}
