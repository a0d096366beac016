package models

// DepositData is one calendar-date bucket of the cash-flow series. Deposit
// and Withdrawal hold absolute values; Cumulative is the running sum of
// (deposit - withdrawal) once attached by Cumulative().
type DepositData struct {
	Date       string  `json:"date"`
	Timestamp  int64   `json:"timestamp"`
	Deposit    float64 `json:"deposit"`
	Withdrawal float64 `json:"withdrawal"`
	Cumulative float64 `json:"cumulative,omitempty"`
}

// RangeStatistics summarises cash flow over a timestamp window.
type RangeStatistics struct {
	TotalDeposited float64 `json:"total_deposited"`
	TotalWithdrawn float64 `json:"total_withdrawn"`
	NetChange      float64 `json:"net_change"`
	DaysElapsed    int     `json:"days_elapsed"` // rounded for display
	AvgPerMonth    float64 `json:"avg_per_month"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
}

// BankStats is the headline summary for a checking/credit statement.
type BankStats struct {
	CurrentBalance       float64 `json:"current_balance"`
	DepositsThisMonth    float64 `json:"deposits_this_month"`
	WithdrawalsThisMonth float64 `json:"withdrawals_this_month"`
}
