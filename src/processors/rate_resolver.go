package processors

import (
	"sort"
	"time"

	"github.com/username/eximflow/backend/src/models"
)

// RateResolver performs the backward as-of join between dated shipment rows
// and the exchange-rate table: for each row it finds the rate in the same
// category with the greatest date <= the row's date.
//
// Both sides are partitioned by category and walked in date order in a
// single pass per category, O(n log n + m) for n rows and m rate entries.
type RateResolver struct{}

func NewRateResolver() *RateResolver { return &RateResolver{} }

// Resolve returns one rate per input row, aligned by index. Rows with no
// applicable rate (date precedes every entry in the category, unknown
// category, or the zero-time "no date" sentinel) get 0; the transformer
// substitutes the neutral rate 1 downstream.
func (r *RateResolver) Resolve(dates []time.Time, categories []string, table []models.ExchangeRateEntry) []float64 {
	resolved := make([]float64, len(dates))
	if len(dates) == 0 || len(table) == 0 {
		return resolved
	}

	// Partition the rate table by category; sort defensively even though
	// the source contract says ascending.
	ratesByCategory := make(map[string][]models.ExchangeRateEntry)
	for _, entry := range table {
		ratesByCategory[entry.Category] = append(ratesByCategory[entry.Category], entry)
	}
	for _, entries := range ratesByCategory {
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].Date.Before(entries[j].Date) })
	}

	// Group row indices by category and order them by date so each
	// category's rate slice is advanced exactly once.
	rowsByCategory := make(map[string][]int)
	for i, category := range categories {
		rowsByCategory[category] = append(rowsByCategory[category], i)
	}

	for category, rowIdx := range rowsByCategory {
		entries, ok := ratesByCategory[category]
		if !ok {
			continue
		}
		sort.SliceStable(rowIdx, func(a, b int) bool { return dates[rowIdx[a]].Before(dates[rowIdx[b]]) })

		j := 0
		for _, i := range rowIdx {
			if dates[i].IsZero() {
				continue // "no date" sentinel never matches
			}
			for j < len(entries) && !entries[j].Date.After(dates[i]) {
				j++
			}
			if j > 0 {
				resolved[i] = entries[j-1].RateUSD
			}
		}
	}
	return resolved
}
