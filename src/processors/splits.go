// backend/src/processors/splits.go
package processors

import (
	"sort"

	"github.com/username/foliolens/backend/src/models"
)

type splitEvent struct {
	timestamp int64
	ratio     float64
}

// AdjustForSplits rewrites historical quantities and per-share prices so the
// series is continuous across stock splits: pre-split quantities are scaled
// up by the split ratio and prices scaled down by the same factor, keeping
// each trade's notional invariant. SPL rows themselves are zeroed out after
// their ratio is extracted, since the delta they carried is then reflected in
// every adjusted historical quantity.
//
// The input is not mutated; run this exactly once per raw parse. Feeding the
// output back in would double-adjust nothing only because the SPL rows are
// zeroed, so don't rely on that.
func AdjustForSplits(transactions []models.StockTransaction) []models.StockTransaction {
	byTicker := make(map[string][]models.StockTransaction)
	for _, t := range transactions {
		byTicker[t.Ticker] = append(byTicker[t.Ticker], t)
	}

	adjusted := make([]models.StockTransaction, 0, len(transactions))

	for _, tickerTxs := range byTicker {
		sorted := make([]models.StockTransaction, len(tickerTxs))
		copy(sorted, tickerTxs)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Timestamp < sorted[j].Timestamp
		})

		// First pass: replay the share deltas to find each split's ratio.
		var splits []splitEvent
		var holdings float64
		for _, t := range sorted {
			if t.Type == models.StockBuy {
				holdings += t.Quantity
			} else {
				holdings -= t.Quantity
			}

			if t.SourceCode == models.CodeSplit {
				holdingsBeforeSplit := holdings - t.Quantity
				if holdingsBeforeSplit > 0 {
					splits = append(splits, splitEvent{
						timestamp: t.Timestamp,
						ratio:     holdings / holdingsBeforeSplit,
					})
				}
			}
		}

		// Second pass: scale everything that predates each split.
		for _, t := range sorted {
			if t.SourceCode == models.CodeSplit {
				t.Quantity = 0
				t.Price = 0
				adjusted = append(adjusted, t)
				continue
			}

			factor := 1.0
			for _, split := range splits {
				if t.Timestamp < split.timestamp {
					factor *= split.ratio
				}
			}

			t.Quantity *= factor
			// REC transfers carry price 0; only real trades get the inverse
			// price adjustment.
			if t.Price > 0 {
				t.Price /= factor
			}
			adjusted = append(adjusted, t)
		}
	}

	sort.SliceStable(adjusted, func(i, j int) bool {
		return adjusted[i].Timestamp < adjusted[j].Timestamp
	})
	return adjusted
}
