package models

// Transaction codes found in a Robinhood activity export. Codes not listed
// here are surfaced through ParseDiagnostics.UnrecognizedCodes and dropped.
const (
	CodeBuy    = "Buy"
	CodeSell   = "Sell"
	CodeSplit  = "SPL"
	CodeRec    = "REC"
	CodeACH    = "ACH"
	CodeRTP    = "RTP"
	CodeCDIV   = "CDIV"
	CodeInt    = "INT"
	CodeSlip   = "SLIP"
	CodeGold   = "GOLD"
	CodeMint   = "MINT"
	CodeMisc   = "MISC"
	CodeFutSwp = "FUTSWP"
)

// Stock transaction sides.
const (
	StockBuy  = "buy"
	StockSell = "sell"
)

// Cash transaction categories. The cash leg of a Buy/Sell reuses CashDividend
// (amount >= 0) and CashFee (amount < 0) by sign, mirroring the sign-driven
// bucketing applied to all ambiguous cash movements.
const (
	CashDeposit    = "deposit"
	CashWithdrawal = "withdrawal"
	CashDividend   = "dividend"
	CashInterest   = "interest"
	CashFee        = "fee"
)

// StockTransaction is a single equity trade (or split/transfer event) from a
// brokerage activity export. Quantity and Price are rewritten by the split
// adjuster; Amount is the absolute dollar magnitude of the trade.
type StockTransaction struct {
	Date       string  `json:"date"`
	Timestamp  int64   `json:"timestamp"` // Unix milliseconds, UTC midnight of Date
	Ticker     string  `json:"ticker"`
	Type       string  `json:"type"` // "buy" or "sell"
	Quantity   float64 `json:"quantity"`
	Price      float64 `json:"price"`
	Amount     float64 `json:"amount"`
	SourceCode string  `json:"source_code"` // original trans code (Buy, Sell, SPL, REC)
}

// CashTransaction is a signed cash movement in the brokerage account.
// Inflows are positive, outflows negative.
type CashTransaction struct {
	Date      string  `json:"date"`
	Timestamp int64   `json:"timestamp"`
	Type      string  `json:"type"`
	Amount    float64 `json:"amount"`
	Ticker    string  `json:"ticker,omitempty"` // set for dividends and trade legs
}
