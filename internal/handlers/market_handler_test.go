package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lukz/internal/models"
	"github.com/ternarybob/lukz/internal/services/insight"
)

type fakeMarket struct {
	err           error
	congress      *models.CongressFilters
	premium       *models.PremiumFlowFilters
	tide          *models.MarketTideFilters
	stats         models.HistoricalStats
	congressTrade []models.CongressTrade
}

func (f *fakeMarket) CongressTrades(ctx context.Context, filters *models.CongressFilters) ([]models.CongressTrade, error) {
	f.congress = filters
	return f.congressTrade, f.err
}

func (f *fakeMarket) GreekFlow(ctx context.Context, filters *models.GreekFlowFilters) ([]models.GreekFlow, error) {
	return []models.GreekFlow{{Ticker: filters.Ticker, Date: "2024-03-15"}}, f.err
}

func (f *fakeMarket) Earnings(ctx context.Context, filters *models.EarningsFilters) ([]models.EarningsReport, error) {
	return []models.EarningsReport{}, f.err
}

func (f *fakeMarket) InsiderTrades(ctx context.Context, filters *models.InsiderFilters) ([]models.InsiderTrade, error) {
	return []models.InsiderTrade{}, f.err
}

func (f *fakeMarket) PremiumFlow(ctx context.Context, filters *models.PremiumFlowFilters) ([]models.PremiumFlow, models.HistoricalStats, error) {
	f.premium = filters
	return []models.PremiumFlow{}, f.stats, f.err
}

func (f *fakeMarket) MarketTide(ctx context.Context, filters *models.MarketTideFilters) ([]models.MarketTide, models.HistoricalStats, error) {
	f.tide = filters
	return []models.MarketTide{}, f.stats, f.err
}

func (f *fakeMarket) GreekDescriptions() map[string]string {
	return map[string]string{"delta_flow": "delta"}
}

func (f *fakeMarket) SectorDescriptions() map[string]string {
	return map[string]string{"Energy": "oil"}
}

type fakeSynthesizer struct {
	requests []insight.Request
	text     string
}

func (f *fakeSynthesizer) Synthesize(ctx context.Context, req insight.Request) string {
	f.requests = append(f.requests, req)
	return f.text
}

func newMarketHandler() (*MarketHandler, *fakeMarket, *fakeSynthesizer) {
	market := &fakeMarket{congressTrade: []models.CongressTrade{{ID: "ct-1", Ticker: "NVDA"}}}
	synth := &fakeSynthesizer{text: "Flows are bullish."}
	return NewMarketHandler(market, synth, arbor.NewLogger()), market, synth
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestCongressTradesHandler_Success(t *testing.T) {
	h, market, synth := newMarketHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/congress/trades?ticker=NVDA&congress_member=Pelosi%3B&start_date=2024-01-01", nil)
	rec := httptest.NewRecorder()
	h.CongressTradesHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Flows are bullish.", body["insight"])
	assert.Len(t, body["data"], 1)
	assert.NotContains(t, body, "historical_stats")

	assert.Equal(t, "Pelosi", market.congress.Member)
	require.Len(t, synth.requests, 1)
	assert.Equal(t, insight.DomainCongressTrades, synth.requests[0].Domain)
}

func TestCongressTradesHandler_InvalidTicker(t *testing.T) {
	h, _, synth := newMarketHandler()

	rec := httptest.NewRecorder()
	h.CongressTradesHandler(rec, httptest.NewRequest(http.MethodGet, "/api/congress/trades?ticker=nvda", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid ticker format", decodeBody(t, rec)["error"])
	assert.Empty(t, synth.requests)
}

func TestCongressTradesHandler_BadDate(t *testing.T) {
	h, _, _ := newMarketHandler()

	rec := httptest.NewRecorder()
	h.CongressTradesHandler(rec, httptest.NewRequest(http.MethodGet, "/api/congress/trades?start_date=03-15-2024", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid start_date format, expected YYYY-MM-DD", decodeBody(t, rec)["error"])
}

func TestCongressTradesHandler_ProviderFailure(t *testing.T) {
	h, market, synth := newMarketHandler()
	market.err = errors.New("upstream unavailable")

	rec := httptest.NewRecorder()
	h.CongressTradesHandler(rec, httptest.NewRequest(http.MethodGet, "/api/congress/trades", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "upstream unavailable", body["error"])
	assert.Empty(t, synth.requests)
}

func TestCongressTradesHandler_MethodNotAllowed(t *testing.T) {
	h, _, _ := newMarketHandler()

	rec := httptest.NewRecorder()
	h.CongressTradesHandler(rec, httptest.NewRequest(http.MethodPost, "/api/congress/trades", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestGreekFlowHandler_TickerRequired(t *testing.T) {
	h, _, _ := newMarketHandler()

	rec := httptest.NewRecorder()
	h.GreekFlowHandler(rec, httptest.NewRequest(http.MethodGet, "/api/greek-flow/data", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "ticker is required", decodeBody(t, rec)["error"])

	rec = httptest.NewRecorder()
	h.GreekFlowHandler(rec, httptest.NewRequest(http.MethodGet, "/api/greek-flow/data?ticker=TOOLONG", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid ticker format", decodeBody(t, rec)["error"])
}

func TestGreekFlowHandler_Success(t *testing.T) {
	h, _, synth := newMarketHandler()

	rec := httptest.NewRecorder()
	h.GreekFlowHandler(rec, httptest.NewRequest(http.MethodGet, "/api/greek-flow/data?ticker=AAPL", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, synth.requests, 1)
	assert.Equal(t, insight.DomainGreekFlow, synth.requests[0].Domain)
	assert.Equal(t, "AAPL", synth.requests[0].Filters["ticker"])
}

func TestEarningsHandler_InvalidSurpriseType(t *testing.T) {
	h, _, _ := newMarketHandler()

	rec := httptest.NewRecorder()
	h.EarningsHandler(rec, httptest.NewRequest(http.MethodGet, "/api/earnings/data?surprise_type=neutral", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid surprise_type value, expected one of: positive negative", decodeBody(t, rec)["error"])
}

func TestInsiderTradingHandler_NormalisesTradeType(t *testing.T) {
	h, _, synth := newMarketHandler()

	rec := httptest.NewRecorder()
	h.InsiderTradingHandler(rec, httptest.NewRequest(http.MethodGet, "/api/insider-trading/data?trade_type=BUY", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, synth.requests, 1)
	assert.Equal(t, "buy", synth.requests[0].Filters["trade_type"])
}

func TestPremiumFlowHandler_Defaults(t *testing.T) {
	h, market, _ := newMarketHandler()
	market.stats = models.HistoricalStats{LookbackDays: 30, High: 12_500_000}

	rec := httptest.NewRecorder()
	h.PremiumFlowHandler(rec, httptest.NewRequest(http.MethodGet, "/api/premium-flow/data", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 30, market.premium.LookbackDays)
	assert.False(t, market.premium.IsIntraday)

	body := decodeBody(t, rec)
	stats, ok := body["historical_stats"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 12_500_000.0, stats["historical_high"])
}

func TestPremiumFlowHandler_BadParams(t *testing.T) {
	h, _, _ := newMarketHandler()

	rec := httptest.NewRecorder()
	h.PremiumFlowHandler(rec, httptest.NewRequest(http.MethodGet, "/api/premium-flow/data?lookback_days=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid lookback_days value, expected an integer", decodeBody(t, rec)["error"])

	rec = httptest.NewRecorder()
	h.PremiumFlowHandler(rec, httptest.NewRequest(http.MethodGet, "/api/premium-flow/data?is_intraday=maybe", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.PremiumFlowHandler(rec, httptest.NewRequest(http.MethodGet, "/api/premium-flow/data?lookback_days=0", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid lookback_days value, min is 1", decodeBody(t, rec)["error"])
}

func TestMarketTideHandler_Granularity(t *testing.T) {
	h, market, _ := newMarketHandler()

	rec := httptest.NewRecorder()
	h.MarketTideHandler(rec, httptest.NewRequest(http.MethodGet, "/api/market-tide/data?granularity=hourly", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid granularity value", decodeBody(t, rec)["error"])

	rec = httptest.NewRecorder()
	h.MarketTideHandler(rec, httptest.NewRequest(http.MethodGet, "/api/market-tide/data?interval_5m=true", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "minute", market.tide.Granularity)
	assert.True(t, market.tide.Interval5m)
	assert.Equal(t, 30, market.tide.LookbackDays)
}

func TestDescriptionHandlers(t *testing.T) {
	h, _, _ := newMarketHandler()

	rec := httptest.NewRecorder()
	h.GreekDescriptionsHandler(rec, httptest.NewRequest(http.MethodGet, "/api/greek-flow/descriptions", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "delta", decodeBody(t, rec)["delta_flow"])

	rec = httptest.NewRecorder()
	h.SectorDescriptionsHandler(rec, httptest.NewRequest(http.MethodGet, "/api/premium-flow/sectors", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "oil", decodeBody(t, rec)["Energy"])
}
