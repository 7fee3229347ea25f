package insight

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/lukz/internal/models"
)

func TestCongressRequest(t *testing.T) {
	trades := []models.CongressTrade{
		{Member: "Nancy Pelosi", Ticker: "NVDA", Sector: "Technology", TransactionType: "buy", Amount: 5_200_000},
		{Member: "Dan Crenshaw", Ticker: "XOM", Sector: "Energy", TransactionType: "sell", Amount: 1_000_000},
		{Member: "Nancy Pelosi", Ticker: "AAPL", Sector: "Technology", TransactionType: "sell", Amount: 700_000},
	}
	filters := &models.CongressFilters{Member: "Nancy Pelosi", StartDate: "2024-01-01"}

	req := CongressRequest(trades, filters)

	assert.Equal(t, DomainCongressTrades, req.Domain)
	assert.Equal(t, "Nancy Pelosi", req.Filters["congress_member"])
	require.NotNil(t, req.Dataset.HistoricalHigh)
	assert.Equal(t, 5_200_000.0, *req.Dataset.HistoricalHigh)
	assert.Equal(t, "Largest transaction: $5.2M NVDA purchase by Nancy Pelosi", req.Context.RequiredPhrases.CurrentMetrics)
	assert.Equal(t, "Technology sector leads with $4.5M net buying", req.Context.RequiredPhrases.SectorLead)
	assert.Equal(t, "since 2024-01-01", req.Context.TimeRange)
	assert.Equal(t, "member=Nancy Pelosi", req.Context.AdditionalContext)
	assert.False(t, req.Context.IsIntraday)
}

func TestCongressRequest_Empty(t *testing.T) {
	req := CongressRequest(nil, &models.CongressFilters{})

	assert.Nil(t, req.Dataset.HistoricalHigh)
	assert.Equal(t, RequiredPhrases{}, req.Context.RequiredPhrases)
	assert.Equal(t, []string{"30-day High: $0.0M"}, AssemblePhrases(req.Dataset, req.Context, fixedNow))
}

func TestGreekFlowRequest(t *testing.T) {
	flows := []models.GreekFlow{
		{Ticker: "TSLA", Date: "2024-03-14", DeltaFlow: 2_000_000, VegaFlow: -500_000, TotalPremium: 9_000_000, CallVolume: 300, PutVolume: 100},
		{Ticker: "TSLA", Date: "2024-03-15", DeltaFlow: -3_100_000, VegaFlow: -700_000, TotalPremium: 12_000_000, CallVolume: 100, PutVolume: 300},
	}

	req := GreekFlowRequest(flows, &models.GreekFlowFilters{Ticker: "TSLA"})

	assert.Equal(t, 12_000_000.0, *req.Dataset.HistoricalHigh)
	assert.Equal(t, "TSLA bearish delta flow of $3.1M on 2024-03-15", req.Context.RequiredPhrases.CurrentMetrics)
	assert.Equal(t, "Net vega exposure of $1.2M short", req.Context.RequiredPhrases.NetPremium)
	assert.Equal(t, "Ticker: TSLA", req.Context.AdditionalContext)
	assert.Contains(t, req.Context.HistoricalContext, "call share 50%")
}

func TestEarningsRequest(t *testing.T) {
	reports := []models.EarningsReport{
		{Ticker: "AAPL", Sector: "Technology", SurprisePercent: 10, PriceChangePercent: 3},
		{Ticker: "MSFT", Sector: "Technology", SurprisePercent: 6, PriceChangePercent: 1},
		{Ticker: "XOM", Sector: "Energy", SurprisePercent: -4, PriceChangePercent: -2},
	}

	req := EarningsRequest(reports, &models.EarningsFilters{SurpriseType: "positive"})

	assert.Nil(t, req.Dataset.HistoricalHigh)
	assert.Equal(t, "2 of 3 reports beat estimates (67%) with 4.0% average surprise", req.Context.RequiredPhrases.CurrentMetrics)
	assert.Equal(t, "Technology sector leads with 8.0% average surprise", req.Context.RequiredPhrases.SectorLead)
	assert.Equal(t, "surprise_type=positive", req.Context.AdditionalContext)
}

func TestInsiderRequest(t *testing.T) {
	trades := []models.InsiderTrade{
		{Role: "CEO", Sector: "Technology", TradeType: "sell", Value: 8_000_000},
		{Role: "Director", Sector: "Healthcare", TradeType: "buy", Value: 1_500_000},
		{Role: "CEO", Sector: "Technology", TradeType: "buy", Value: 500_000},
	}

	req := InsiderRequest(trades, &models.InsiderFilters{})

	assert.Equal(t, 8_000_000.0, *req.Dataset.HistoricalHigh)
	assert.Equal(t, "CEO insiders net selling $7.5M", req.Context.RequiredPhrases.CurrentMetrics)
	assert.Equal(t, "Technology sector leads with $7.5M net insider selling", req.Context.RequiredPhrases.SectorLead)
}

func TestPremiumFlowRequest_Intraday(t *testing.T) {
	flows := []models.PremiumFlow{
		{Time: "09:30", Sector: "Technology", NetPremium: 1_000_000},
		{Time: "09:30", Sector: "Energy", NetPremium: 500_000},
		{Time: "14:30", Sector: "Technology", NetPremium: 4_200_000},
		{Time: "14:30", Sector: "Energy", NetPremium: -300_000},
	}
	stats := models.HistoricalStats{LookbackDays: 30, High: 8_000_000, Average: 4_000_000, Low: 1_000_000}
	filters := &models.PremiumFlowFilters{LookbackDays: 30, IsIntraday: true}

	req := PremiumFlowRequest(flows, stats, filters)

	assert.Equal(t, "Technology sector leads with $5.2M net call premium", req.Context.RequiredPhrases.CurrentMetrics)
	assert.Equal(t, "representing 65% of 30-day High", req.Context.RequiredPhrases.SectorLead)
	assert.Equal(t, "Net premium change of +$2.4M", req.Context.RequiredPhrases.NetPremium)
	assert.Equal(t, "14:30", req.Context.LatestTime)
	assert.True(t, req.Context.IsIntraday)
	assert.Equal(t, "true", req.Filters["is_intraday"])

	phrases := AssemblePhrases(req.Dataset, req.Context, fixedNow)
	assert.Equal(t, []string{
		"30-day High: $8.0M",
		"As of 14:30 ET",
		"Technology sector leads with $5.2M net call premium",
		"representing 65% of 30-day High",
		"Net premium change of +$2.4M showing minute-by-minute momentum",
	}, phrases)
}

func TestPremiumFlowRequest_Daily(t *testing.T) {
	flows := []models.PremiumFlow{
		{Time: "2024-03-14", Sector: "Energy", NetPremium: -2_000_000},
		{Time: "2024-03-15", Sector: "Energy", NetPremium: -1_000_000},
	}
	req := PremiumFlowRequest(flows, models.HistoricalStats{LookbackDays: 30}, &models.PremiumFlowFilters{LookbackDays: 30})

	assert.Equal(t, "Energy sector leads with $3.0M net put premium", req.Context.RequiredPhrases.CurrentMetrics)
	assert.Empty(t, req.Context.RequiredPhrases.SectorLead, "no ratio without a historical high")
	assert.Empty(t, req.Context.LatestTime)
	assert.False(t, req.Context.IsIntraday)
}

func TestMarketTideRequest(t *testing.T) {
	tides := []models.MarketTide{
		{Time: "09:30", NetCallPremium: 1_000_000, NetPremium: 500_000},
		{Time: "15:55", NetCallPremium: 3_000_000, NetPremium: -1_500_000},
	}
	stats := models.HistoricalStats{LookbackDays: 30, High: 20_000_000}
	filters := &models.MarketTideFilters{LookbackDays: 30, Granularity: "minute", Interval5m: true}

	req := MarketTideRequest(tides, stats, filters)

	assert.True(t, req.Context.IsIntraday)
	assert.Equal(t, "15:55", req.Context.LatestTime)
	assert.Equal(t, "Latest net premium of -$1.5M with $3.0M net call premium", req.Context.RequiredPhrases.CurrentMetrics)
	assert.Equal(t, "Net premium change of -$2.0M", req.Context.RequiredPhrases.NetPremium)
	assert.Equal(t, "5-minute intervals", req.Context.AdditionalContext)

	template := FormatTemplate(AssemblePhrases(req.Dataset, req.Context, fixedNow))
	assert.True(t, strings.HasPrefix(template, "30-day High: $20.0M. As of 15:55 ET. "))
}

func TestMarketTideRequest_Daily(t *testing.T) {
	req := MarketTideRequest(nil, models.HistoricalStats{}, &models.MarketTideFilters{Granularity: "daily", LookbackDays: 30})

	assert.False(t, req.Context.IsIntraday)
	assert.Equal(t, "latest session", req.Context.TimeRange)
}

func TestMarketTideRequest_FullSeriesInDataset(t *testing.T) {
	tides := make([]models.MarketTide, 391)
	for i := range tides {
		tides[i] = models.MarketTide{Time: fmt.Sprintf("b%03d", i), NetPremium: float64(i) * 1_000_000}
	}
	filters := &models.MarketTideFilters{Granularity: "minute", LookbackDays: 30}

	req := MarketTideRequest(tides, models.HistoricalStats{LookbackDays: 30}, filters)

	records, ok := req.Dataset.Records.([]models.MarketTide)
	require.True(t, ok)
	assert.Len(t, records, 391)
	assert.Equal(t, "Net premium change of +$390.0M", req.Context.RequiredPhrases.NetPremium)

	// Only the latest buckets reach the prompt
	phrases := AssemblePhrases(req.Dataset, req.Context, fixedNow)
	prompt := BuildPrompt(Preamble(req.Domain), FormatTemplate(phrases), phrases, req.Context, req.Dataset, 0)
	assert.Contains(t, prompt.User, `"b390"`)
	assert.Contains(t, prompt.User, `"b331"`)
	assert.NotContains(t, prompt.User, `"b330"`)
}

func TestPremiumFlowRequest_EarlyBucketsChangeFingerprint(t *testing.T) {
	build := func(first float64) Request {
		flows := make([]models.PremiumFlow, 100)
		for i := range flows {
			flows[i] = models.PremiumFlow{Time: fmt.Sprintf("b%03d", i), Sector: "Technology", NetPremium: 1_000_000}
		}
		flows[0].NetPremium = first
		return PremiumFlowRequest(flows, models.HistoricalStats{LookbackDays: 30, High: 5_000_000}, &models.PremiumFlowFilters{LookbackDays: 30})
	}

	a, b := build(1_000_000), build(9_000_000)

	assert.NotEqual(t, a.Context.RequiredPhrases.NetPremium, b.Context.RequiredPhrases.NetPremium)
	assert.NotEqual(t,
		Fingerprint(a.Domain, a.Filters, a.Dataset),
		Fingerprint(b.Domain, b.Filters, b.Dataset))
}
