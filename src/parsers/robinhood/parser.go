// backend/src/parsers/robinhood/parser.go
package robinhood

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/username/foliolens/backend/src/models"
	"github.com/username/foliolens/backend/src/parsers"
)

// Result carries both transaction streams produced from one activity export,
// each sorted ascending by timestamp, plus what the parse skipped.
type Result struct {
	StockTransactions []models.StockTransaction
	CashTransactions  []models.CashTransaction
	Diagnostics       models.ParseDiagnostics
}

// Parser converts a Robinhood activity CSV into typed, sign-normalized
// transaction streams.
type Parser struct{}

// NewParser creates a new instance of the Robinhood parser.
func NewParser() *Parser {
	return &Parser{}
}

// Column headers of the activity export.
const (
	colActivityDate = "activity date"
	colInstrument   = "instrument"
	colDescription  = "description"
	colTransCode    = "trans code"
	colQuantity     = "quantity"
	colPrice        = "price"
	colAmount       = "amount"
)

// Parse reads the export and dispatches every row by its trans code. Rows
// with unparseable critical fields are dropped and counted, never surfaced
// as errors: brokerage exports routinely interleave annotation rows with
// data rows.
func (p *Parser) Parse(file io.Reader) (*Result, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("robinhood parser: failed to read CSV header: %w", err)
	}
	cols := indexColumns(header)

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("robinhood parser: failed to read CSV records: %w", err)
	}

	result := &Result{}
	for _, record := range records {
		p.dispatchRow(cols, record, result)
	}

	sort.SliceStable(result.StockTransactions, func(i, j int) bool {
		return result.StockTransactions[i].Timestamp < result.StockTransactions[j].Timestamp
	})
	sort.SliceStable(result.CashTransactions, func(i, j int) bool {
		return result.CashTransactions[i].Timestamp < result.CashTransactions[j].Timestamp
	})

	return result, nil
}

func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return cols
}

func field(cols map[string]int, record []string, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func (p *Parser) dispatchRow(cols map[string]int, record []string, result *Result) {
	result.Diagnostics.RowsTotal++

	code := field(cols, record, colTransCode)
	dateStr := field(cols, record, colActivityDate)
	ticker := field(cols, record, colInstrument)
	description := field(cols, record, colDescription)

	date, err := parsers.ParseDate(dateStr)
	if err != nil {
		result.Diagnostics.RowsDropped++
		return
	}
	timestamp := date.UnixMilli()

	// An absent amount is normal for non-cash rows (SPL, REC); anything
	// present must parse.
	var amount float64
	if amountStr := field(cols, record, colAmount); amountStr != "" {
		amount, err = parsers.ParseMoney(amountStr)
		if err != nil {
			result.Diagnostics.RowsDropped++
			return
		}
	}

	switch code {
	case models.CodeBuy, models.CodeSell:
		quantity, qErr := parsers.ParseMoney(field(cols, record, colQuantity))
		var price float64
		var pErr error
		if priceStr := field(cols, record, colPrice); priceStr != "" {
			price, pErr = parsers.ParseMoney(priceStr)
		}
		if ticker == "" || qErr != nil || pErr != nil {
			result.Diagnostics.RowsDropped++
			return
		}

		result.StockTransactions = append(result.StockTransactions, models.StockTransaction{
			Date:       dateStr,
			Timestamp:  timestamp,
			Ticker:     ticker,
			Type:       strings.ToLower(code),
			Quantity:   quantity,
			Price:      price,
			Amount:     math.Abs(amount),
			SourceCode: code,
		})

		// Trades move cash too. The CSV amount already carries the correct
		// sign; the category is picked by sign alone, same bucketing as
		// every other ambiguous cash movement.
		legType := models.CashDividend
		if amount < 0 {
			legType = models.CashFee
		}
		result.CashTransactions = append(result.CashTransactions, models.CashTransaction{
			Date:      dateStr,
			Timestamp: timestamp,
			Type:      legType,
			Amount:    amount,
			Ticker:    ticker,
		})

	case models.CodeSplit, models.CodeRec:
		// Share delta with no cash effect. Price and amount stay zero; the
		// split adjuster consumes the SPL delta to derive the ratio.
		quantity, qErr := parsers.ParseMoney(field(cols, record, colQuantity))
		if ticker == "" || qErr != nil {
			result.Diagnostics.RowsDropped++
			return
		}
		result.StockTransactions = append(result.StockTransactions, models.StockTransaction{
			Date:       dateStr,
			Timestamp:  timestamp,
			Ticker:     ticker,
			Type:       models.StockBuy,
			Quantity:   quantity,
			Price:      0,
			Amount:     0,
			SourceCode: code,
		})

	case models.CodeACH, models.CodeRTP:
		txType := models.CashWithdrawal
		if amount > 0 {
			txType = models.CashDeposit
		} else if strings.Contains(strings.ToLower(description), "fee") {
			txType = models.CashFee
		}
		result.CashTransactions = append(result.CashTransactions, models.CashTransaction{
			Date:      dateStr,
			Timestamp: timestamp,
			Type:      txType,
			Amount:    amount,
		})

	case models.CodeCDIV:
		result.CashTransactions = append(result.CashTransactions, models.CashTransaction{
			Date:      dateStr,
			Timestamp: timestamp,
			Type:      models.CashDividend,
			Amount:    amount,
			Ticker:    ticker,
		})

	case models.CodeInt, models.CodeSlip:
		result.CashTransactions = append(result.CashTransactions, models.CashTransaction{
			Date:      dateStr,
			Timestamp: timestamp,
			Type:      models.CashInterest,
			Amount:    amount,
		})

	case models.CodeGold, models.CodeMint:
		result.CashTransactions = append(result.CashTransactions, models.CashTransaction{
			Date:      dateStr,
			Timestamp: timestamp,
			Type:      models.CashFee,
			Amount:    amount,
		})

	case models.CodeMisc, models.CodeFutSwp:
		txType := models.CashFee
		if amount > 0 {
			txType = models.CashInterest
		}
		result.CashTransactions = append(result.CashTransactions, models.CashTransaction{
			Date:      dateStr,
			Timestamp: timestamp,
			Type:      txType,
			Amount:    amount,
		})

	case "":
		result.Diagnostics.RowsDropped++

	default:
		result.Diagnostics.Unrecognized(code)
	}
}
