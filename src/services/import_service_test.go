// backend/src/services/import_service_test.go
package services

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/foliolens/backend/src/logger"
	"github.com/username/foliolens/backend/src/models"
	"github.com/username/foliolens/backend/src/parsers"
	"github.com/username/foliolens/backend/src/subscriptions"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}

// fakeUploadStore is an in-memory UploadStore.
type fakeUploadStore struct {
	records map[string]UploadRecord
	saveErr error
}

func newFakeUploadStore() *fakeUploadStore {
	return &fakeUploadStore{records: make(map[string]UploadRecord)}
}

func (s *fakeUploadStore) SaveUpload(record UploadRecord) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.records[record.ID] = record
	return nil
}

func (s *fakeUploadStore) GetUpload(id string) (*UploadRecord, error) {
	record, ok := s.records[id]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

func (s *fakeUploadStore) ListUploads(limit int) ([]UploadRecord, error) {
	out := make([]UploadRecord, 0, len(s.records))
	for _, r := range s.records {
		if len(out) == limit {
			break
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *fakeUploadStore) DeleteUpload(id string) error {
	if _, ok := s.records[id]; !ok {
		return ErrUploadNotFound
	}
	delete(s.records, id)
	return nil
}

// fakePriceService returns a canned table or error.
type fakePriceService struct {
	prices models.PriceTable
	err    error
	calls  int
}

func (p *fakePriceService) GetHistoricalPrices(tickers []string, start, end time.Time) (models.PriceTable, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.prices, nil
}

func fixedNow() time.Time {
	return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
}

func newTestService(store UploadStore, prices PriceService) ImportService {
	return NewImportService(
		store,
		prices,
		subscriptions.NewDetector(subscriptions.DefaultThresholds()),
		cache.New(time.Minute, time.Minute),
		fixedNow,
	)
}

const robinhoodCSV = `Activity Date,Process Date,Settle Date,Instrument,Description,Trans Code,Quantity,Price,Amount
1/2/2024,1/2/2024,1/3/2024,,ACH Deposit,ACH,,,"$1,000.00"
1/5/2024,1/5/2024,1/6/2024,AAPL,Apple,Buy,5,$100.00,($500.00)
2/5/2024,2/5/2024,2/6/2024,AAPL,Apple,Sell,5,$110.00,$550.00
2/10/2024,2/10/2024,2/10/2024,,ACH Withdrawal,ACH,,,($200.00)
`

const chaseCheckingCSV = `Details,Posting Date,Description,Amount,Type,Balance,Check or Slip #
DEBIT,02/20/2024,NETFLIX.COM,-15.49,ACH_DEBIT,1184.51,
DEBIT,01/20/2024,NETFLIX.COM,-15.49,ACH_DEBIT,1200.00,
DEBIT,12/20/2023,NETFLIX.COM,-15.49,ACH_DEBIT,1215.49,
DEBIT,11/20/2023,NETFLIX.COM,-15.49,ACH_DEBIT,1230.98,
CREDIT,02/15/2024,PAYROLL,2500.00,ACH_CREDIT,3700.00,
`

func TestProcessUploadRobinhood(t *testing.T) {
	store := newFakeUploadStore()
	service := newTestService(store, &fakePriceService{})

	result, err := service.ProcessUpload(strings.NewReader(robinhoodCSV), "activity.csv")
	require.NoError(t, err)

	assert.NotEmpty(t, result.ID)
	assert.Equal(t, "activity.csv", result.Filename)
	assert.Equal(t, parsers.FileTypeRobinhood, result.FileType)
	assert.Equal(t, fixedNow().UTC(), result.UploadedAt)

	require.Len(t, result.StockTransactions, 2)
	require.Len(t, result.CashTransactions, 4)

	// Two flow dates, net 1000 then 800 cumulative.
	require.Len(t, result.DepositSeries, 2)
	assert.InDelta(t, 1000, result.DepositSeries[0].Cumulative, 1e-9)
	assert.InDelta(t, 800, result.DepositSeries[1].Cumulative, 1e-9)

	assert.Empty(t, result.BankTransactions)
	assert.Nil(t, result.BankStats)

	// Persisted for later retrieval.
	assert.Contains(t, store.records, result.ID)
}

func TestProcessUploadChaseChecking(t *testing.T) {
	store := newFakeUploadStore()
	service := newTestService(store, &fakePriceService{})

	result, err := service.ProcessUpload(strings.NewReader(chaseCheckingCSV), "statement.csv")
	require.NoError(t, err)

	assert.Equal(t, parsers.FileTypeChaseChecking, result.FileType)
	require.Len(t, result.BankTransactions, 5)

	require.NotNil(t, result.BankStats)
	assert.InDelta(t, 1184.51, result.BankStats.CurrentBalance, 1e-9)

	// Four monthly Netflix charges over 90+ days.
	require.Len(t, result.Subscriptions, 1)
	sub := result.Subscriptions[0]
	assert.Equal(t, "NETFLIX.COM", sub.MerchantLabel)
	assert.Equal(t, models.IntervalMonthly, sub.Pattern.Interval)
	assert.True(t, sub.IsActive)

	assert.Empty(t, result.StockTransactions)
}

func TestProcessUploadUnknownFormat(t *testing.T) {
	service := newTestService(newFakeUploadStore(), &fakePriceService{})

	_, err := service.ProcessUpload(strings.NewReader("Name,Email\nalice,a@example.com\n"), "contacts.csv")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestProcessUploadStoreFailure(t *testing.T) {
	store := newFakeUploadStore()
	store.saveErr = errors.New("disk full")
	service := newTestService(store, &fakePriceService{})

	_, err := service.ProcessUpload(strings.NewReader(robinhoodCSV), "activity.csv")
	assert.Error(t, err)
}

func TestGetUploadRoundTrip(t *testing.T) {
	store := newFakeUploadStore()
	service := newTestService(store, &fakePriceService{})

	uploaded, err := service.ProcessUpload(strings.NewReader(robinhoodCSV), "activity.csv")
	require.NoError(t, err)

	// Served from cache.
	fetched, err := service.GetUpload(uploaded.ID)
	require.NoError(t, err)
	assert.Equal(t, uploaded.ID, fetched.ID)

	// And from the store after the cache is cold.
	cold := newTestService(store, &fakePriceService{})
	fetched, err = cold.GetUpload(uploaded.ID)
	require.NoError(t, err)
	assert.Equal(t, uploaded.ID, fetched.ID)
	assert.Len(t, fetched.StockTransactions, 2)
}

func TestGetUploadNotFound(t *testing.T) {
	service := newTestService(newFakeUploadStore(), &fakePriceService{})

	_, err := service.GetUpload("nope")
	assert.ErrorIs(t, err, ErrUploadNotFound)
}

func TestListAndDeleteUploads(t *testing.T) {
	store := newFakeUploadStore()
	service := newTestService(store, &fakePriceService{})

	uploaded, err := service.ProcessUpload(strings.NewReader(robinhoodCSV), "activity.csv")
	require.NoError(t, err)

	summaries, err := service.ListUploads()
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, uploaded.ID, summaries[0].ID)
	assert.Equal(t, parsers.FileTypeRobinhood, summaries[0].FileType)

	require.NoError(t, service.DeleteUpload(uploaded.ID))
	_, err = service.GetUpload(uploaded.ID)
	assert.ErrorIs(t, err, ErrUploadNotFound)
}

func TestPortfolioValueSeries(t *testing.T) {
	store := newFakeUploadStore()
	prices := &fakePriceService{prices: models.PriceTable{
		"AAPL": {"2024-01-05": 100, "2024-02-05": 110},
	}}
	service := newTestService(store, prices)

	uploaded, err := service.ProcessUpload(strings.NewReader(robinhoodCSV), "activity.csv")
	require.NoError(t, err)

	series, diags, err := service.PortfolioValueSeries(uploaded.ID, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 1, prices.calls)
	assert.Empty(t, diags.MissingPrices)

	// Four transaction dates plus the terminal point at the fixed clock.
	require.Len(t, series, 5)
	last := series[len(series)-1]
	assert.Equal(t, fixedNow().UTC().UnixMilli(), last.Timestamp)
	assert.InDelta(t, 850, last.PortfolioValue, 1e-9, "all cash after the round trip")
	assert.Zero(t, last.StockValue)
}

func TestPortfolioValueSeriesPriceFetchFailure(t *testing.T) {
	store := newFakeUploadStore()
	prices := &fakePriceService{err: errors.New("quote host unreachable")}
	service := newTestService(store, prices)

	uploaded, err := service.ProcessUpload(strings.NewReader(robinhoodCSV), "activity.csv")
	require.NoError(t, err)

	series, diags, err := service.PortfolioValueSeries(uploaded.ID, time.Time{}, time.Time{})
	require.NoError(t, err, "valuation degrades instead of failing")
	require.NotEmpty(t, series)
	assert.Equal(t, 1, diags.MissingPrices["AAPL"], "held position had no quote while open")
}

func TestPortfolioValueSeriesRejectsBankUpload(t *testing.T) {
	store := newFakeUploadStore()
	service := newTestService(store, &fakePriceService{})

	uploaded, err := service.ProcessUpload(strings.NewReader(chaseCheckingCSV), "statement.csv")
	require.NoError(t, err)

	_, _, err = service.PortfolioValueSeries(uploaded.ID, time.Time{}, time.Time{})
	assert.Error(t, err)
}

func TestCashFlowStatistics(t *testing.T) {
	store := newFakeUploadStore()
	service := newTestService(store, &fakePriceService{})

	uploaded, err := service.ProcessUpload(strings.NewReader(robinhoodCSV), "activity.csv")
	require.NoError(t, err)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	end := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).UnixMilli()

	stats, err := service.CashFlowStatistics(uploaded.ID, start, end)
	require.NoError(t, err)
	assert.InDelta(t, 1000, stats.TotalDeposited, 1e-9)
	assert.InDelta(t, 200, stats.TotalWithdrawn, 1e-9)
	assert.InDelta(t, 800, stats.NetChange, 1e-9)
}
