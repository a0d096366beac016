// backend/src/processors/portfolio.go
package processors

import (
	"sort"
	"time"

	"github.com/username/foliolens/backend/src/models"
)

const dayMillis = 24 * 60 * 60 * 1000

// ComputePortfolioAt replays every transaction up to and including the target
// date and returns a fresh point-in-time snapshot. Positions whose net share
// count falls to ShareEpsilon or below are dropped as closed.
func ComputePortfolioAt(
	stockTxs []models.StockTransaction,
	cashTxs []models.CashTransaction,
	at time.Time,
) models.Portfolio {
	target := at.UnixMilli()

	raw := holdingsAt(stockTxs, target)
	holdings := make(map[string]float64, len(raw))
	for ticker, quantity := range raw {
		if quantity > models.ShareEpsilon {
			holdings[ticker] = quantity
		}
	}

	var cash float64
	for _, t := range cashTxs {
		if t.Timestamp <= target {
			cash += t.Amount
		}
	}

	return models.Portfolio{Cash: cash, Holdings: holdings}
}

// holdingsAt folds share deltas without the epsilon filter, so callers can
// also see anomalous negative positions.
func holdingsAt(stockTxs []models.StockTransaction, target int64) map[string]float64 {
	holdings := make(map[string]float64)
	for _, t := range stockTxs {
		if t.Timestamp > target {
			continue
		}
		if t.Type == models.StockBuy {
			holdings[t.Ticker] += t.Quantity
		} else {
			holdings[t.Ticker] -= t.Quantity
		}
	}
	return holdings
}

// ComputeValueSeries prices the portfolio at every distinct transaction
// timestamp inside [start, end], appending a synthetic terminal point at end
// when the last transaction predates it. Each held position is priced at the
// table's quote for that date, falling back to the most recent earlier quote;
// a ticker with no usable quote contributes zero and is noted in the
// diagnostics rather than failing the series.
func ComputeValueSeries(
	stockTxs []models.StockTransaction,
	cashTxs []models.CashTransaction,
	prices models.PriceTable,
	start, end time.Time,
) ([]models.PortfolioValueData, models.ValuationDiagnostics) {
	var diags models.ValuationDiagnostics

	timestamps := collectTimestamps(stockTxs, cashTxs, end.UnixMilli())
	if len(timestamps) == 0 || timestamps[len(timestamps)-1] < end.UnixMilli() {
		timestamps = append(timestamps, end.UnixMilli())
	}

	negativeSeen := make(map[string]bool)
	startMillis := start.UnixMilli()

	series := make([]models.PortfolioValueData, 0, len(timestamps))
	for _, ts := range timestamps {
		if ts < startMillis {
			continue
		}
		point := time.UnixMilli(ts).UTC()
		isoDate := point.Format("2006-01-02")

		portfolio := ComputePortfolioAt(stockTxs, cashTxs, point)

		for ticker, quantity := range holdingsAt(stockTxs, ts) {
			if quantity < -models.ShareEpsilon && !negativeSeen[ticker] {
				negativeSeen[ticker] = true
				diags.NegativeHoldings = append(diags.NegativeHoldings, ticker)
			}
		}

		var stockValue float64
		for ticker, quantity := range portfolio.Holdings {
			price, ok := priceOnOrBefore(prices[ticker], isoDate)
			if !ok {
				diags.MissingPrice(ticker)
				continue
			}
			stockValue += quantity * price
		}

		series = append(series, models.PortfolioValueData{
			Date:           isoDate,
			Timestamp:      ts,
			PortfolioValue: portfolio.Cash + stockValue,
			CashValue:      portfolio.Cash,
			StockValue:     stockValue,
		})
	}

	sort.Strings(diags.NegativeHoldings)
	return series, diags
}

func collectTimestamps(stockTxs []models.StockTransaction, cashTxs []models.CashTransaction, maxMillis int64) []int64 {
	seen := make(map[int64]bool)
	for _, t := range stockTxs {
		if t.Timestamp <= maxMillis {
			seen[t.Timestamp] = true
		}
	}
	for _, t := range cashTxs {
		if t.Timestamp <= maxMillis {
			seen[t.Timestamp] = true
		}
	}

	timestamps := make([]int64, 0, len(seen))
	for ts := range seen {
		timestamps = append(timestamps, ts)
	}
	sort.Slice(timestamps, func(i, j int) bool { return timestamps[i] < timestamps[j] })
	return timestamps
}

// priceOnOrBefore finds the quote for isoDate, or the most recent one before
// it. ISO dates sort lexicographically, so a string scan suffices.
func priceOnOrBefore(quotes map[string]float64, isoDate string) (float64, bool) {
	if len(quotes) == 0 {
		return 0, false
	}
	if price, ok := quotes[isoDate]; ok {
		return price, true
	}

	dates := make([]string, 0, len(quotes))
	for date := range quotes {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	for i := len(dates) - 1; i >= 0; i-- {
		if dates[i] <= isoDate {
			return quotes[dates[i]], true
		}
	}
	return 0, false
}
