// backend/src/parsers/chase/parser.go
package chase

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/username/foliolens/backend/src/models"
	"github.com/username/foliolens/backend/src/parsers"
)

// Result is the parsed statement, newest transaction first (the canonical
// display order). Consumers that need chronological order re-sort.
type Result struct {
	Transactions []models.BankTransaction
	Diagnostics  models.ParseDiagnostics
}

// Parser converts Chase checking and credit card CSV exports into
// BankTransactions.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// ParseChecking reads a checking account export (Details / Posting Date /
// Description / Amount / Type / Balance / Check or Slip #).
func (p *Parser) ParseChecking(file io.Reader) (*Result, error) {
	return p.parse(file, models.AccountChecking)
}

// ParseCredit reads a credit card export (Transaction Date / Post Date /
// Description / Category / Type / Amount / Memo).
func (p *Parser) ParseCredit(file io.Reader) (*Result, error) {
	return p.parse(file, models.AccountCredit)
}

func (p *Parser) parse(file io.Reader, accountKind string) (*Result, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("chase parser: failed to read CSV header: %w", err)
	}
	cols := indexColumns(header)

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("chase parser: failed to read CSV records: %w", err)
	}

	result := &Result{}
	for _, record := range records {
		result.Diagnostics.RowsTotal++

		tx, ok := p.parseRow(cols, record, accountKind)
		if !ok {
			result.Diagnostics.RowsDropped++
			continue
		}
		result.Transactions = append(result.Transactions, tx)
	}

	sort.SliceStable(result.Transactions, func(i, j int) bool {
		return result.Transactions[i].Timestamp > result.Transactions[j].Timestamp
	})

	return result, nil
}

func (p *Parser) parseRow(cols map[string]int, record []string, accountKind string) (models.BankTransaction, bool) {
	var dateStr string
	if accountKind == models.AccountChecking {
		dateStr = field(cols, record, "posting date")
	} else {
		dateStr = field(cols, record, "transaction date")
	}
	description := field(cols, record, "description")
	amountStr := field(cols, record, "amount")

	if dateStr == "" || description == "" || amountStr == "" {
		return models.BankTransaction{}, false
	}

	date, err := parsers.ParseDate(dateStr)
	if err != nil {
		return models.BankTransaction{}, false
	}
	amount, err := parsers.ParseMoney(amountStr)
	if err != nil {
		return models.BankTransaction{}, false
	}

	tx := models.BankTransaction{
		Date:        dateStr,
		Timestamp:   date.UnixMilli(),
		Description: description,
		Amount:      amount,
		Type:        field(cols, record, "type"),
		AccountKind: accountKind,
	}

	if accountKind == models.AccountChecking {
		tx.Details = field(cols, record, "details")
		// The statement's running balance; present on most checking rows,
		// blank on some (e.g. pending holds).
		if balanceStr := field(cols, record, "balance"); balanceStr != "" {
			if balance, err := parsers.ParseMoney(balanceStr); err == nil {
				tx.Balance = &balance
			}
		}
	} else {
		tx.Category = field(cols, record, "category")
	}

	return tx, true
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
