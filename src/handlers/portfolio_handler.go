// backend/src/handlers/portfolio_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/username/foliolens/backend/src/logger"
	"github.com/username/foliolens/backend/src/models"
	"github.com/username/foliolens/backend/src/services"
	"github.com/username/foliolens/backend/src/utils"
)

// PortfolioHandler serves the valuation and cash-flow views of a brokerage
// upload.
type PortfolioHandler struct {
	importService services.ImportService
}

func NewPortfolioHandler(service services.ImportService) *PortfolioHandler {
	return &PortfolioHandler{importService: service}
}

type portfolioValueResponse struct {
	Series      []models.PortfolioValueData `json:"series"`
	Diagnostics models.ValuationDiagnostics `json:"diagnostics"`
}

// HandleValueSeries prices an upload's history. Optional "start" and "end"
// query params are ISO dates; end defaults to today, start to the first
// transaction.
func (h *PortfolioHandler) HandleValueSeries(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	start, err := parseDateParam(r, "start")
	if err != nil {
		utils.SendJSONError(w, "invalid 'start' date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	end, err := parseDateParam(r, "end")
	if err != nil {
		utils.SendJSONError(w, "invalid 'end' date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	series, diags, err := h.importService.PortfolioValueSeries(id, start, end)
	if err != nil {
		if errors.Is(err, services.ErrUploadNotFound) {
			utils.SendJSONError(w, "upload not found", http.StatusNotFound)
			return
		}
		logger.ErrorFromContext(r.Context(), "Failed to compute portfolio value series", "uploadID", id, "error", err)
		utils.SendJSONError(w, "failed to compute portfolio value series", http.StatusInternalServerError)
		return
	}

	utils.SendJSON(w, portfolioValueResponse{Series: series, Diagnostics: diags}, http.StatusOK)
}

// HandleCashFlowStats summarises deposits/withdrawals between the "start"
// and "end" millisecond timestamps (defaulting to the full range).
func (h *PortfolioHandler) HandleCashFlowStats(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	upload, err := h.importService.GetUpload(id)
	if err != nil {
		if errors.Is(err, services.ErrUploadNotFound) {
			utils.SendJSONError(w, "upload not found", http.StatusNotFound)
			return
		}
		logger.ErrorFromContext(r.Context(), "Failed to load upload", "uploadID", id, "error", err)
		utils.SendJSONError(w, "failed to load upload", http.StatusInternalServerError)
		return
	}

	startTs, endTs := seriesBounds(upload.DepositSeries)
	if v, err := parseInt64Param(r, "start"); err != nil {
		utils.SendJSONError(w, "invalid 'start' timestamp", http.StatusBadRequest)
		return
	} else if v != 0 {
		startTs = v
	}
	if v, err := parseInt64Param(r, "end"); err != nil {
		utils.SendJSONError(w, "invalid 'end' timestamp", http.StatusBadRequest)
		return
	} else if v != 0 {
		endTs = v
	}

	stats, err := h.importService.CashFlowStatistics(id, startTs, endTs)
	if err != nil {
		logger.ErrorFromContext(r.Context(), "Failed to compute cash-flow statistics", "uploadID", id, "error", err)
		utils.SendJSONError(w, "failed to compute cash-flow statistics", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, stats, http.StatusOK)
}

func parseDateParam(r *http.Request, name string) (time.Time, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", value)
}

func parseInt64Param(r *http.Request, name string) (int64, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return 0, nil
	}
	return strconv.ParseInt(value, 10, 64)
}

func seriesBounds(series []models.DepositData) (startTs, endTs int64) {
	if len(series) == 0 {
		return 0, 0
	}
	return series[0].Timestamp, series[len(series)-1].Timestamp
}
