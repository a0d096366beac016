package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/foliolens/backend/src/models"
)

func TestAggregateByDate(t *testing.T) {
	cashTxs := []models.CashTransaction{
		cashTx(0, models.CashDeposit, 500),
		cashTx(0, models.CashDeposit, 250),
		cashTx(0, models.CashWithdrawal, -100),
		cashTx(5, models.CashWithdrawal, -40),
		// Non-flow categories never count as external cash movement.
		cashTx(0, models.CashDividend, 12),
		cashTx(5, models.CashFee, -5),
		cashTx(5, models.CashInterest, 1),
	}

	series := AggregateByDate(cashTxs)

	require.Len(t, series, 2)
	assert.InDelta(t, 750, series[0].Deposit, 1e-9)
	assert.InDelta(t, 100, series[0].Withdrawal, 1e-9, "withdrawals stored as absolute values")
	assert.InDelta(t, 0, series[1].Deposit, 1e-9)
	assert.InDelta(t, 40, series[1].Withdrawal, 1e-9)
	assert.Less(t, series[0].Timestamp, series[1].Timestamp)
}

func TestCumulative(t *testing.T) {
	series := []models.DepositData{
		{Date: "1/1/2024", Timestamp: dayTs(0), Deposit: 500, Withdrawal: 0},
		{Date: "1/6/2024", Timestamp: dayTs(5), Deposit: 0, Withdrawal: 200},
		{Date: "1/11/2024", Timestamp: dayTs(10), Deposit: 300, Withdrawal: 50},
	}

	out := Cumulative(series)

	require.Len(t, out, 3)
	assert.InDelta(t, 500, out[0].Cumulative, 1e-9)
	assert.InDelta(t, 300, out[1].Cumulative, 1e-9)
	assert.InDelta(t, 550, out[2].Cumulative, 1e-9)

	assert.Zero(t, series[0].Cumulative, "input untouched")
}

func TestRangeStatistics(t *testing.T) {
	series := []models.DepositData{
		{Timestamp: dayTs(0), Deposit: 1000},
		{Timestamp: dayTs(15), Withdrawal: 200},
		{Timestamp: dayTs(30), Deposit: 500},
		{Timestamp: dayTs(90), Deposit: 9999}, // outside the window
	}

	stats := RangeStatistics(series, dayTs(0), dayTs(30))

	assert.InDelta(t, 1500, stats.TotalDeposited, 1e-9)
	assert.InDelta(t, 200, stats.TotalWithdrawn, 1e-9)
	assert.InDelta(t, 1300, stats.NetChange, 1e-9)
	assert.Equal(t, 30, stats.DaysElapsed)
	assert.InDelta(t, 1300/(30.0/30.44), stats.AvgPerMonth, 1e-9)
	assert.Equal(t, "1/1/2024", stats.StartDate)
	assert.Equal(t, "1/31/2024", stats.EndDate)
}

func TestRangeStatisticsReversedBounds(t *testing.T) {
	series := []models.DepositData{
		{Timestamp: dayTs(0), Deposit: 100},
		{Timestamp: dayTs(10), Withdrawal: 30},
	}

	forward := RangeStatistics(series, dayTs(0), dayTs(10))
	reversed := RangeStatistics(series, dayTs(10), dayTs(0))

	assert.Equal(t, forward, reversed)
}

func TestRangeStatisticsZeroSpan(t *testing.T) {
	series := []models.DepositData{
		{Timestamp: dayTs(0), Deposit: 100},
	}

	stats := RangeStatistics(series, dayTs(0), dayTs(0))

	assert.InDelta(t, 100, stats.TotalDeposited, 1e-9)
	assert.Zero(t, stats.DaysElapsed)
	assert.Zero(t, stats.AvgPerMonth, "no division by a zero-day span")
}
