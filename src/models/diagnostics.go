package models

// ParseDiagnostics reports what a parse pass silently skipped. Brokerage and
// bank exports interleave annotation rows with data rows, so row-level
// failures are counted here instead of failing the parse.
type ParseDiagnostics struct {
	RowsTotal         int            `json:"rows_total"`
	RowsDropped       int            `json:"rows_dropped"` // malformed date/amount/required field
	UnrecognizedCodes map[string]int `json:"unrecognized_codes,omitempty"`
}

// Unrecognized records a trans code the parser does not model. Kept separate
// from RowsDropped: the row was well formed, we just don't handle it yet.
func (d *ParseDiagnostics) Unrecognized(code string) {
	if d.UnrecognizedCodes == nil {
		d.UnrecognizedCodes = make(map[string]int)
	}
	d.UnrecognizedCodes[code]++
}

// ValuationDiagnostics reports data gaps hit while pricing a series.
type ValuationDiagnostics struct {
	// MissingPrices counts series points where a held ticker had no price on
	// or before the point's date and contributed zero stock value.
	MissingPrices map[string]int `json:"missing_prices,omitempty"`
	// NegativeHoldings lists tickers whose replayed quantity went below zero
	// at some point, usually a missing historical REC row. Holdings are
	// clamped to zero for valuation; the history itself is left untouched.
	NegativeHoldings []string `json:"negative_holdings,omitempty"`
}

// MissingPrice notes that ticker had no usable price at one series point.
func (d *ValuationDiagnostics) MissingPrice(ticker string) {
	if d.MissingPrices == nil {
		d.MissingPrices = make(map[string]int)
	}
	d.MissingPrices[ticker]++
}
