// backend/src/processors/cashflow.go
package processors

import (
	"math"
	"sort"
	"time"

	"github.com/username/foliolens/backend/src/models"
)

// avgDaysPerMonth converts elapsed days into months for per-month averages.
const avgDaysPerMonth = 30.44

// AggregateByDate buckets deposit and withdrawal cash movements by calendar
// date, summing absolute values separately, sorted ascending by date. Other
// cash categories (dividends, interest, fees, trade legs) are not external
// cash flow and are ignored.
func AggregateByDate(cashTxs []models.CashTransaction) []models.DepositData {
	byDate := make(map[string]*models.DepositData)

	for _, t := range cashTxs {
		if t.Type != models.CashDeposit && t.Type != models.CashWithdrawal {
			continue
		}
		entry, ok := byDate[t.Date]
		if !ok {
			entry = &models.DepositData{Date: t.Date, Timestamp: t.Timestamp}
			byDate[t.Date] = entry
		}
		if t.Type == models.CashDeposit {
			entry.Deposit += math.Abs(t.Amount)
		} else {
			entry.Withdrawal += math.Abs(t.Amount)
		}
	}

	series := make([]models.DepositData, 0, len(byDate))
	for _, entry := range byDate {
		series = append(series, *entry)
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Timestamp < series[j].Timestamp })
	return series
}

// Cumulative attaches a running net sum (deposit - withdrawal) to each point.
// The input is left untouched.
func Cumulative(series []models.DepositData) []models.DepositData {
	out := make([]models.DepositData, len(series))
	var running float64
	for i, point := range series {
		running += point.Deposit - point.Withdrawal
		point.Cumulative = running
		out[i] = point
	}
	return out
}

// RangeStatistics summarises the points whose timestamps fall inside the
// window; the bounds may be passed in either order.
func RangeStatistics(series []models.DepositData, startTs, endTs int64) models.RangeStatistics {
	start, end := startTs, endTs
	if start > end {
		start, end = end, start
	}

	var deposited, withdrawn float64
	for _, point := range series {
		if point.Timestamp >= start && point.Timestamp <= end {
			deposited += point.Deposit
			withdrawn += point.Withdrawal
		}
	}

	netChange := deposited - withdrawn
	daysElapsed := float64(end-start) / dayMillis

	var avgPerMonth float64
	if daysElapsed > 0 {
		avgPerMonth = netChange / (daysElapsed / avgDaysPerMonth)
	}

	return models.RangeStatistics{
		TotalDeposited: deposited,
		TotalWithdrawn: withdrawn,
		NetChange:      netChange,
		DaysElapsed:    int(math.Round(daysElapsed)),
		AvgPerMonth:    avgPerMonth,
		StartDate:      time.UnixMilli(start).UTC().Format("1/2/2006"),
		EndDate:        time.UnixMilli(end).UTC().Format("1/2/2006"),
	}
}
