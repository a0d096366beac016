package models

// ShareEpsilon is the share-count tolerance below which a position is treated
// as closed, absorbing floating-point residue from fractional-share math.
const ShareEpsilon = 1e-4

// PriceTable holds historical close prices keyed by ticker, then by ISO date
// (YYYY-MM-DD). Sparse: weekends and market holidays are absent. Read-only
// input supplied by the price service.
type PriceTable map[string]map[string]float64

// Portfolio is the point-in-time state of the brokerage account, derived by
// replaying every transaction up to a target date. It is always rebuilt from
// the full history, never updated incrementally.
type Portfolio struct {
	Cash     float64            `json:"cash"`
	Holdings map[string]float64 `json:"holdings"` // ticker -> share count
}

// PortfolioValueData is one point of the valuation time series.
type PortfolioValueData struct {
	Date           string  `json:"date"` // ISO date
	Timestamp      int64   `json:"timestamp"`
	PortfolioValue float64 `json:"portfolio_value"`
	CashValue      float64 `json:"cash_value"`
	StockValue     float64 `json:"stock_value"`
}
