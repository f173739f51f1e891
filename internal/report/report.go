// Package report computes chart-ready series from transaction snapshots.
//
// Aggregation only ever considers Expense transactions; Income and Transfer
// records never contribute to the spending series. All functions are pure:
// the same input list always produces identical output.
package report

import (
	"sort"
	"time"

	"finview/internal/core"
)

// DefaultPalette is the categorical color cycle assigned to category slices
// by label position. More than ten categories repeat the cycle.
var DefaultPalette = []string{
	"#4F46E5", "#6366F1", "#818CF8", "#A5B4FC", "#C7D2FE",
	"#E0E7FF", "#BFDBFE", "#93C5FD", "#60A5FA", "#3B82F6",
}

// monthKeyLayout derives the monthly grouping key. Go's reference layout
// always yields English month abbreviations, keeping the key itself
// locale-independent even though display formatting is locale-aware.
const monthKeyLayout = "Jan 2006"

type (
	// Series is a labels/values pair aligned by index, ready for a chart
	// renderer. This package computes series; it never renders.
	Series struct {
		Labels []string  `json:"labels"`
		Values []float64 `json:"values"`
	}

	// Report bundles the two spending views of a transaction list.
	Report struct {
		// Category sums expenses per category, labels in first-seen order.
		Category Series `json:"category"`
		// Colors holds one palette color per category label, cycled by
		// position.
		Colors []string `json:"colors"`
		// Monthly sums expenses per "Jan 2006" key, labels in ascending
		// calendar order.
		Monthly Series `json:"monthly"`
	}
)

// BuildSeries folds a transaction list into category and monthly spending
// series. Only Expense transactions are considered. A nil or empty palette
// falls back to DefaultPalette.
func BuildSeries(txs []core.Transaction, palette []string) Report {
	if len(palette) == 0 {
		palette = DefaultPalette
	}

	catSums := make(map[string]float64)
	var catOrder []string
	monthSums := make(map[string]float64)

	for _, t := range txs {
		if t.Type != core.Expense {
			continue
		}
		if _, seen := catSums[t.Category]; !seen {
			catOrder = append(catOrder, t.Category)
		}
		catSums[t.Category] += t.Amount

		key := t.Date.Format(monthKeyLayout)
		monthSums[key] += t.Amount
	}

	var r Report
	for i, label := range catOrder {
		r.Category.Labels = append(r.Category.Labels, label)
		r.Category.Values = append(r.Category.Values, catSums[label])
		r.Colors = append(r.Colors, palette[i%len(palette)])
	}

	monthLabels := make([]string, 0, len(monthSums))
	for key := range monthSums {
		monthLabels = append(monthLabels, key)
	}
	// Chronological order, not lexical: "Jan 2023" must precede "Feb 2024".
	sort.Slice(monthLabels, func(i, j int) bool {
		return monthStart(monthLabels[i]).Before(monthStart(monthLabels[j]))
	})
	for _, label := range monthLabels {
		r.Monthly.Labels = append(r.Monthly.Labels, label)
		r.Monthly.Values = append(r.Monthly.Values, monthSums[label])
	}

	return r
}

// monthStart reconstructs the first day of the month named by a grouping key.
func monthStart(key string) time.Time {
	t, err := time.Parse(monthKeyLayout, key)
	if err != nil {
		return time.Time{}
	}
	return t
}

// TotalExpenses sums the amounts of every Expense transaction in the list.
func TotalExpenses(txs []core.Transaction) float64 {
	var sum float64
	for _, t := range txs {
		if t.Type == core.Expense {
			sum += t.Amount
		}
	}
	return sum
}
