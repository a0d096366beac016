// backend/src/services/import_service.go
package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/username/foliolens/backend/src/logger"
	"github.com/username/foliolens/backend/src/models"
	"github.com/username/foliolens/backend/src/parsers"
	"github.com/username/foliolens/backend/src/parsers/chase"
	"github.com/username/foliolens/backend/src/parsers/robinhood"
	"github.com/username/foliolens/backend/src/processors"
	"github.com/username/foliolens/backend/src/security/validation"
	"github.com/username/foliolens/backend/src/subscriptions"
)

const (
	ckUploadResult         = "upload_result_%s"
	recentUploadsLimit     = 20
	DefaultCacheExpiration = 15 * time.Minute
	CacheCleanupInterval   = 30 * time.Minute
)

type importServiceImpl struct {
	store        UploadStore
	priceService PriceService
	detector     *subscriptions.Detector
	resultCache  *cache.Cache
	now          func() time.Time
}

// NewImportService wires the parsing pipeline to storage and pricing. The
// clock is injectable so subscription activity checks are reproducible in
// tests.
func NewImportService(
	store UploadStore,
	priceService PriceService,
	detector *subscriptions.Detector,
	resultCache *cache.Cache,
	now func() time.Time,
) ImportService {
	if now == nil {
		now = time.Now
	}
	return &importServiceImpl{
		store:        store,
		priceService: priceService,
		detector:     detector,
		resultCache:  resultCache,
		now:          now,
	}
}

func (s *importServiceImpl) ProcessUpload(fileReader io.Reader, filename string) (*UploadResult, error) {
	data, err := io.ReadAll(fileReader)
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}

	fileType := parsers.DetectFileType(bytes.NewReader(data))
	if fileType == parsers.FileTypeUnknown {
		return nil, ErrUnknownFormat
	}

	result := &UploadResult{
		ID:         uuid.New().String(),
		Filename:   filename,
		FileType:   fileType,
		UploadedAt: s.now().UTC(),
	}

	switch fileType {
	case parsers.FileTypeRobinhood:
		parsed, err := robinhood.NewParser().Parse(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
		}
		result.StockTransactions = processors.AdjustForSplits(parsed.StockTransactions)
		result.CashTransactions = parsed.CashTransactions
		result.DepositSeries = processors.Cumulative(processors.AggregateByDate(parsed.CashTransactions))
		result.Diagnostics = parsed.Diagnostics

	case parsers.FileTypeChaseChecking, parsers.FileTypeChaseCredit:
		parser := chase.NewParser()
		var parsed *chase.Result
		if fileType == parsers.FileTypeChaseChecking {
			parsed, err = parser.ParseChecking(bytes.NewReader(data))
		} else {
			parsed, err = parser.ParseCredit(bytes.NewReader(data))
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
		}
		// Statement descriptions are attacker-controlled text that gets echoed
		// back to clients; scrub them before anything downstream sees them.
		for i := range parsed.Transactions {
			desc := validation.StripUnprintable(parsed.Transactions[i].Description)
			parsed.Transactions[i].Description = validation.SanitizeText(desc)
		}
		stats := processors.ComputeBankStats(parsed.Transactions, s.now())
		result.BankTransactions = parsed.Transactions
		result.BankStats = &stats
		result.Subscriptions = s.detector.Detect(parsed.Transactions, s.now())
		result.Diagnostics = parsed.Diagnostics
	}

	if err := s.persist(result); err != nil {
		return nil, err
	}

	logger.L.Info("Upload processed",
		"uploadID", result.ID,
		"filename", filename,
		"fileType", fileType,
		"rowsDropped", result.Diagnostics.RowsDropped)

	s.resultCache.Set(fmt.Sprintf(ckUploadResult, result.ID), result, cache.DefaultExpiration)
	return result, nil
}

func (s *importServiceImpl) persist(result *UploadResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshalling upload result: %w", err)
	}
	return s.store.SaveUpload(UploadRecord{
		ID:         result.ID,
		Filename:   result.Filename,
		FileType:   string(result.FileType),
		UploadedAt: result.UploadedAt,
		Payload:    payload,
	})
}

func (s *importServiceImpl) GetUpload(id string) (*UploadResult, error) {
	cacheKey := fmt.Sprintf(ckUploadResult, id)
	if cached, found := s.resultCache.Get(cacheKey); found {
		return cached.(*UploadResult), nil
	}

	record, err := s.store.GetUpload(id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrUploadNotFound
	}

	var result UploadResult
	if err := json.Unmarshal(record.Payload, &result); err != nil {
		return nil, fmt.Errorf("unmarshalling stored upload %s: %w", id, err)
	}

	s.resultCache.Set(cacheKey, &result, cache.DefaultExpiration)
	return &result, nil
}

func (s *importServiceImpl) ListUploads() ([]UploadSummary, error) {
	records, err := s.store.ListUploads(recentUploadsLimit)
	if err != nil {
		return nil, err
	}
	summaries := make([]UploadSummary, 0, len(records))
	for _, r := range records {
		summaries = append(summaries, UploadSummary{
			ID:         r.ID,
			Filename:   r.Filename,
			FileType:   parsers.FileType(r.FileType),
			UploadedAt: r.UploadedAt,
		})
	}
	return summaries, nil
}

func (s *importServiceImpl) DeleteUpload(id string) error {
	s.resultCache.Delete(fmt.Sprintf(ckUploadResult, id))
	return s.store.DeleteUpload(id)
}

func (s *importServiceImpl) PortfolioValueSeries(id string, start, end time.Time) ([]models.PortfolioValueData, models.ValuationDiagnostics, error) {
	upload, err := s.GetUpload(id)
	if err != nil {
		return nil, models.ValuationDiagnostics{}, err
	}
	if upload.FileType != parsers.FileTypeRobinhood {
		return nil, models.ValuationDiagnostics{}, fmt.Errorf("upload %s is not a brokerage export", id)
	}

	if end.IsZero() {
		end = s.now().UTC()
	}
	if start.IsZero() {
		start = firstTransactionTime(upload)
	}

	tickers := uniqueTickers(upload.StockTransactions)
	prices := models.PriceTable{}
	if len(tickers) > 0 {
		prices, err = s.priceService.GetHistoricalPrices(tickers, start, end)
		if err != nil {
			// Valuation degrades to cash-only rather than failing; gaps show
			// up in the diagnostics.
			logger.L.Warn("Price fetch failed, valuing positions without quotes", "uploadID", id, "error", err)
			prices = models.PriceTable{}
		}
	}

	series, diags := processors.ComputeValueSeries(upload.StockTransactions, upload.CashTransactions, prices, start, end)
	return series, diags, nil
}

func (s *importServiceImpl) CashFlowStatistics(id string, startTs, endTs int64) (models.RangeStatistics, error) {
	upload, err := s.GetUpload(id)
	if err != nil {
		return models.RangeStatistics{}, err
	}
	return processors.RangeStatistics(upload.DepositSeries, startTs, endTs), nil
}

func firstTransactionTime(upload *UploadResult) time.Time {
	first := int64(0)
	for _, t := range upload.StockTransactions {
		if first == 0 || t.Timestamp < first {
			first = t.Timestamp
		}
	}
	for _, t := range upload.CashTransactions {
		if first == 0 || t.Timestamp < first {
			first = t.Timestamp
		}
	}
	if first == 0 {
		return time.Time{}
	}
	return time.UnixMilli(first).UTC()
}

func uniqueTickers(stockTxs []models.StockTransaction) []string {
	seen := make(map[string]bool)
	var tickers []string
	for _, t := range stockTxs {
		if !seen[t.Ticker] {
			seen[t.Ticker] = true
			tickers = append(tickers, t.Ticker)
		}
	}
	sort.Strings(tickers)
	return tickers
}
