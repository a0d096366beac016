// backend/src/services/interfaces.go
package services

import (
	"errors"
	"io"
	"time"

	"github.com/username/foliolens/backend/src/models"
	"github.com/username/foliolens/backend/src/parsers"
)

// Common service errors.
var (
	ErrUnknownFormat  = errors.New("unrecognized file format")
	ErrParsingFailed  = errors.New("csv parsing failed")
	ErrUploadNotFound = errors.New("upload not found")
)

// UploadResult is everything derived from one processed file. Brokerage
// uploads populate the transaction streams and deposit series; bank uploads
// populate the bank transactions, stats, and subscription candidates.
type UploadResult struct {
	ID         string           `json:"id"`
	Filename   string           `json:"filename"`
	FileType   parsers.FileType `json:"file_type"`
	UploadedAt time.Time        `json:"uploaded_at"`

	StockTransactions []models.StockTransaction `json:"stock_transactions,omitempty"`
	CashTransactions  []models.CashTransaction  `json:"cash_transactions,omitempty"`
	DepositSeries     []models.DepositData      `json:"deposit_series,omitempty"`

	BankTransactions []models.BankTransaction       `json:"bank_transactions,omitempty"`
	BankStats        *models.BankStats              `json:"bank_stats,omitempty"`
	Subscriptions    []models.SubscriptionCandidate `json:"subscriptions,omitempty"`

	Diagnostics models.ParseDiagnostics `json:"diagnostics"`
}

// UploadSummary is the listing shape for recent uploads.
type UploadSummary struct {
	ID         string           `json:"id"`
	Filename   string           `json:"filename"`
	FileType   parsers.FileType `json:"file_type"`
	UploadedAt time.Time        `json:"uploaded_at"`
}

// ImportService is the core upload-processing surface the handlers bind to.
type ImportService interface {
	ProcessUpload(fileReader io.Reader, filename string) (*UploadResult, error)
	GetUpload(id string) (*UploadResult, error)
	ListUploads() ([]UploadSummary, error)
	DeleteUpload(id string) error

	// PortfolioValueSeries prices a brokerage upload's history day by day. A
	// zero start defaults to the first transaction.
	PortfolioValueSeries(id string, start, end time.Time) ([]models.PortfolioValueData, models.ValuationDiagnostics, error)

	// CashFlowStatistics summarises the upload's deposit series over a
	// millisecond-timestamp window.
	CashFlowStatistics(id string, startTs, endTs int64) (models.RangeStatistics, error)
}

// PriceService supplies historical close prices. The valuation engine only
// ever sees the resulting table; transport, retries, and partial failures
// stay behind this boundary.
type PriceService interface {
	GetHistoricalPrices(tickers []string, start, end time.Time) (models.PriceTable, error)
}

// UploadRecord is the persisted form of an upload: metadata plus the full
// result payload as JSON.
type UploadRecord struct {
	ID         string
	Filename   string
	FileType   string
	UploadedAt time.Time
	Payload    []byte
}

// UploadStore persists recent uploads.
type UploadStore interface {
	SaveUpload(record UploadRecord) error
	GetUpload(id string) (*UploadRecord, error)
	ListUploads(limit int) ([]UploadRecord, error)
	DeleteUpload(id string) error
}
