// backend/src/services/price_service.go
package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/foliolens/backend/src/logger"
	"github.com/username/foliolens/backend/src/models"
	"golang.org/x/net/publicsuffix"
)

const priceUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

type yahooHistoryResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency string `json:"currency"`
				Symbol   string `json:"symbol"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error interface{} `json:"error"`
	} `json:"chart"`
}

type priceServiceImpl struct {
	httpClient    http.Client
	priceCache    *cache.Cache
	isInitialized bool
	mu            sync.Mutex
}

// NewPriceService builds the Yahoo-backed historical price source. Fetched
// histories are cached per ticker and date range so repeated valuations of
// the same upload don't refetch.
func NewPriceService(priceCache *cache.Cache) PriceService {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		logger.L.Error("Failed to create cookie jar", "error", err)
	}

	return &priceServiceImpl{
		httpClient: http.Client{
			Jar:     jar,
			Timeout: 20 * time.Second,
		},
		priceCache: priceCache,
	}
}

func (s *priceServiceImpl) ensureSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isInitialized {
		return
	}

	// Warm the cookie jar; the chart endpoint rejects bare clients.
	req, _ := http.NewRequest(http.MethodGet, "https://fc.yahoo.com", nil)
	req.Header.Set("User-Agent", priceUserAgent)
	if resp, err := s.httpClient.Do(req); err == nil {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}
	s.isInitialized = true
}

func (s *priceServiceImpl) GetHistoricalPrices(tickers []string, start, end time.Time) (models.PriceTable, error) {
	s.ensureSession()

	table := make(models.PriceTable, len(tickers))
	var lastErr error
	for _, ticker := range tickers {
		history, err := s.fetchHistory(ticker, start, end)
		if err != nil {
			logger.L.Warn("Failed to fetch price history", "ticker", ticker, "error", err)
			lastErr = err
			continue
		}
		table[ticker] = history
	}

	if len(table) == 0 && lastErr != nil {
		return nil, fmt.Errorf("no price history available: %w", lastErr)
	}
	return table, nil
}

func (s *priceServiceImpl) fetchHistory(ticker string, start, end time.Time) (map[string]float64, error) {
	cacheKey := fmt.Sprintf("history_%s_%d_%d", ticker, start.Unix(), end.Unix())
	if cached, found := s.priceCache.Get(cacheKey); found {
		return cached.(map[string]float64), nil
	}

	endpoint := fmt.Sprintf(
		"https://query1.finance.yahoo.com/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d",
		url.PathEscape(ticker), start.Unix(), end.Unix(),
	)

	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", priceUserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo chart API returned %s for %s", resp.Status, ticker)
	}

	var parsed yahooHistoryResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding chart response for %s: %w", ticker, err)
	}
	if len(parsed.Chart.Result) == 0 || len(parsed.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("empty chart response for %s", ticker)
	}

	result := parsed.Chart.Result[0]
	closes := result.Indicators.Quote[0].Close

	history := make(map[string]float64, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == 0 {
			continue
		}
		date := time.Unix(ts, 0).UTC().Format("2006-01-02")
		history[date] = closes[i]
	}

	s.priceCache.Set(cacheKey, history, cache.DefaultExpiration)
	return history, nil
}
