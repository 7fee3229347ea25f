package handlers

import (
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lukz/internal/common"
	"github.com/ternarybob/lukz/internal/models"
	"github.com/ternarybob/lukz/internal/services/insight"
)

const defaultLookbackDays = 30

// dataResponse is the body of every data endpoint
type dataResponse struct {
	Data            interface{}             `json:"data"`
	HistoricalStats *models.HistoricalStats `json:"historical_stats,omitempty"`
	Insight         string                  `json:"insight"`
}

// MarketHandler serves the market data endpoints, each paired with an insight
type MarketHandler struct {
	market   MarketDataProvider
	insights InsightSynthesizer
	logger   arbor.ILogger
}

func NewMarketHandler(market MarketDataProvider, insights InsightSynthesizer, logger arbor.ILogger) *MarketHandler {
	return &MarketHandler{
		market:   market,
		insights: insights,
		logger:   logger,
	}
}

// validator is satisfied by every filter type in models
type validator interface {
	Validate() error
}

// checkFilters writes a 400 and returns false when filters are invalid.
func checkFilters(w http.ResponseWriter, filters validator) bool {
	if err := filters.Validate(); err != nil {
		WriteError(w, http.StatusBadRequest, models.ValidationMessage(err))
		return false
	}
	return true
}

func (h *MarketHandler) providerFailed(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error().Err(err).Str("path", r.URL.Path).Msg("Dataset provider failed")
	WriteError(w, http.StatusInternalServerError, err.Error())
}

func dateParam(r *http.Request, name string) string {
	return strings.TrimSpace(r.URL.Query().Get(name))
}

// CongressTradesHandler handles GET /api/congress/trades
func (h *MarketHandler) CongressTradesHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	filters := &models.CongressFilters{
		Ticker:    strings.TrimSpace(r.URL.Query().Get("ticker")),
		Member:    queryText(r, "congress_member"),
		StartDate: dateParam(r, "start_date"),
		EndDate:   dateParam(r, "end_date"),
	}
	if filters.Ticker != "" && !common.ValidateTicker(filters.Ticker) {
		WriteError(w, http.StatusBadRequest, "Invalid ticker format")
		return
	}
	if !checkFilters(w, filters) {
		return
	}

	trades, err := h.market.CongressTrades(r.Context(), filters)
	if err != nil {
		h.providerFailed(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, dataResponse{
		Data:    trades,
		Insight: h.insights.Synthesize(r.Context(), insight.CongressRequest(trades, filters)),
	})
}

// GreekFlowHandler handles GET /api/greek-flow/data
func (h *MarketHandler) GreekFlowHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	filters := &models.GreekFlowFilters{
		Ticker:    strings.TrimSpace(r.URL.Query().Get("ticker")),
		StartDate: dateParam(r, "start_date"),
		EndDate:   dateParam(r, "end_date"),
	}
	if filters.Ticker != "" && !common.ValidateTicker(filters.Ticker) {
		WriteError(w, http.StatusBadRequest, "Invalid ticker format")
		return
	}
	if !checkFilters(w, filters) {
		return
	}

	flows, err := h.market.GreekFlow(r.Context(), filters)
	if err != nil {
		h.providerFailed(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, dataResponse{
		Data:    flows,
		Insight: h.insights.Synthesize(r.Context(), insight.GreekFlowRequest(flows, filters)),
	})
}

// GreekDescriptionsHandler handles GET /api/greek-flow/descriptions
func (h *MarketHandler) GreekDescriptionsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, h.market.GreekDescriptions())
}

// EarningsHandler handles GET /api/earnings/data
func (h *MarketHandler) EarningsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	filters := &models.EarningsFilters{
		Sector:       queryText(r, "sector"),
		SurpriseType: queryEnum(r, "surprise_type"),
		StartDate:    dateParam(r, "start_date"),
		EndDate:      dateParam(r, "end_date"),
	}
	if !checkFilters(w, filters) {
		return
	}

	reports, err := h.market.Earnings(r.Context(), filters)
	if err != nil {
		h.providerFailed(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, dataResponse{
		Data:    reports,
		Insight: h.insights.Synthesize(r.Context(), insight.EarningsRequest(reports, filters)),
	})
}

// InsiderTradingHandler handles GET /api/insider-trading/data
func (h *MarketHandler) InsiderTradingHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	filters := &models.InsiderFilters{
		Role:      queryText(r, "insider_role"),
		TradeType: queryEnum(r, "trade_type"),
		StartDate: dateParam(r, "start_date"),
		EndDate:   dateParam(r, "end_date"),
	}
	if !checkFilters(w, filters) {
		return
	}

	trades, err := h.market.InsiderTrades(r.Context(), filters)
	if err != nil {
		h.providerFailed(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, dataResponse{
		Data:    trades,
		Insight: h.insights.Synthesize(r.Context(), insight.InsiderRequest(trades, filters)),
	})
}

// PremiumFlowHandler handles GET /api/premium-flow/data
func (h *MarketHandler) PremiumFlowHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	lookback, err := queryInt(r, "lookback_days", defaultLookbackDays)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	intraday, err := queryBool(r, "is_intraday", false)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	filters := &models.PremiumFlowFilters{
		OptionType:   queryEnum(r, "option_type"),
		Sector:       queryText(r, "sector"),
		StartDate:    dateParam(r, "start_date"),
		EndDate:      dateParam(r, "end_date"),
		LookbackDays: lookback,
		IsIntraday:   intraday,
	}
	if !checkFilters(w, filters) {
		return
	}

	flows, stats, err := h.market.PremiumFlow(r.Context(), filters)
	if err != nil {
		h.providerFailed(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, dataResponse{
		Data:            flows,
		HistoricalStats: &stats,
		Insight:         h.insights.Synthesize(r.Context(), insight.PremiumFlowRequest(flows, stats, filters)),
	})
}

// SectorDescriptionsHandler handles GET /api/premium-flow/sectors
func (h *MarketHandler) SectorDescriptionsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, h.market.SectorDescriptions())
}

// MarketTideHandler handles GET /api/market-tide/data
func (h *MarketHandler) MarketTideHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	granularity := queryEnum(r, "granularity")
	if granularity == "" {
		granularity = "minute"
	}
	if granularity != "minute" && granularity != "daily" {
		WriteError(w, http.StatusBadRequest, "Invalid granularity value")
		return
	}
	lookback, err := queryInt(r, "lookback_days", defaultLookbackDays)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	interval5m, err := queryBool(r, "interval_5m", false)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	filters := &models.MarketTideFilters{
		Date:         dateParam(r, "date"),
		Interval5m:   interval5m,
		LookbackDays: lookback,
		Granularity:  granularity,
	}
	if !checkFilters(w, filters) {
		return
	}

	tides, stats, err := h.market.MarketTide(r.Context(), filters)
	if err != nil {
		h.providerFailed(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, dataResponse{
		Data:            tides,
		HistoricalStats: &stats,
		Insight:         h.insights.Synthesize(r.Context(), insight.MarketTideRequest(tides, stats, filters)),
	})
}
