// backend/src/processors/bank_stats.go
package processors

import (
	"math"
	"time"

	"github.com/username/foliolens/backend/src/models"
)

// ComputeBankStats derives the headline statement summary. Transactions are
// expected newest-first (the parser's canonical order): the current balance
// is taken from the first row that reports one. The reference time is an
// explicit parameter so "this month" is testable.
func ComputeBankStats(transactions []models.BankTransaction, now time.Time) models.BankStats {
	var stats models.BankStats

	for _, t := range transactions {
		if t.Balance != nil {
			stats.CurrentBalance = *t.Balance
			break
		}
	}

	month, year := now.UTC().Month(), now.UTC().Year()
	for _, t := range transactions {
		date := time.UnixMilli(t.Timestamp).UTC()
		if date.Month() != month || date.Year() != year {
			continue
		}
		if t.Amount > 0 {
			stats.DepositsThisMonth += t.Amount
		} else {
			stats.WithdrawalsThisMonth += math.Abs(t.Amount)
		}
	}

	return stats
}
