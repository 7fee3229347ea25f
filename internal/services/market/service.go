// Package market produces the mock datasets served by the data endpoints.
// Output is a pure function of the filters and the trading date, so repeated
// requests within a day return identical data and hit the insight cache.
package market

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lukz/internal/models"
)

const (
	defaultWindowDays = 30
	maxWindowDays     = 365
)

// Service generates deterministic market datasets
type Service struct {
	logger arbor.ILogger
	now    func() time.Time
}

// NewService creates a market data service
func NewService(logger arbor.ILogger) *Service {
	return &Service{
		logger: logger,
		now:    time.Now,
	}
}

// rng returns a generator seeded by domain, filter values and the trading date.
func (s *Service) rng(domain string, params map[string]string) *rand.Rand {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s", domain, s.today().Format(models.DateLayout))
	for _, k := range keys {
		fmt.Fprintf(h, "|%s=%s", k, params[k])
	}
	return rand.New(rand.NewSource(int64(h.Sum64())))
}

func (s *Service) today() time.Time {
	now := s.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// window resolves the inclusive [start, end] date range, defaulting to the
// last defaultWindowDays days.
func (s *Service) window(start, end string) (time.Time, time.Time, error) {
	to := s.today()
	if end != "" {
		t, err := time.Parse(models.DateLayout, end)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end_date: %w", err)
		}
		to = t
	}
	from := to.AddDate(0, 0, -defaultWindowDays)
	if start != "" {
		t, err := time.Parse(models.DateLayout, start)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start_date: %w", err)
		}
		from = t
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("end_date before start_date")
	}
	if to.Sub(from) > maxWindowDays*24*time.Hour {
		from = to.AddDate(0, 0, -maxWindowDays)
	}
	return from, to, nil
}

// tradingDays lists weekdays in [from, to] in ascending order.
func tradingDays(from, to time.Time) []time.Time {
	days := []time.Time{}
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if d.Weekday() != time.Saturday && d.Weekday() != time.Sunday {
			days = append(days, d)
		}
	}
	return days
}

func randomDay(rng *rand.Rand, from, to time.Time) time.Time {
	span := int(to.Sub(from).Hours()/24) + 1
	return from.AddDate(0, 0, rng.Intn(span))
}

// roundTo rounds v to the nearest multiple of step.
func roundTo(v, step float64) float64 {
	return math.Round(v/step) * step
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// CongressTrades returns disclosed trades, newest first
func (s *Service) CongressTrades(ctx context.Context, filters *models.CongressFilters) ([]models.CongressTrade, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	from, to, err := s.window(filters.StartDate, filters.EndDate)
	if err != nil {
		return nil, err
	}

	rng := s.rng("congress", filters.Params())
	trades := make([]models.CongressTrade, 0, 40)
	for i := 0; i < 40; i++ {
		m := members[rng.Intn(len(members))]
		sec := universe[rng.Intn(len(universe))]
		if filters.Ticker != "" {
			sec = securityFor(filters.Ticker)
		}
		txType := "buy"
		if rng.Float64() < 0.45 {
			txType = "sell"
		}
		txDate := randomDay(rng, from, to)
		amount := roundTo(15_000+rng.ExpFloat64()*900_000, 1_000)

		trade := models.CongressTrade{
			ID:              fmt.Sprintf("ct-%s-%03d", txDate.Format("20060102"), i),
			Member:          m.Name,
			Party:           m.Party,
			Chamber:         m.Chamber,
			Ticker:          sec.Ticker,
			Sector:          sec.Sector,
			TransactionType: txType,
			Amount:          amount,
			TransactionDate: txDate.Format(models.DateLayout),
			DisclosureDate:  txDate.AddDate(0, 0, 10+rng.Intn(30)).Format(models.DateLayout),
		}
		if filters.Member != "" && !containsFold(trade.Member, filters.Member) {
			continue
		}
		trades = append(trades, trade)
	}

	sort.SliceStable(trades, func(i, j int) bool {
		return trades[i].TransactionDate > trades[j].TransactionDate
	})
	return trades, nil
}

// GreekFlow returns one row per trading day for the ticker
func (s *Service) GreekFlow(ctx context.Context, filters *models.GreekFlowFilters) ([]models.GreekFlow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	end := filters.EndDate
	start := filters.StartDate
	if start == "" {
		// default to two weeks rather than the full window
		to := s.today()
		if end != "" {
			if t, err := time.Parse(models.DateLayout, end); err == nil {
				to = t
			}
		}
		start = to.AddDate(0, 0, -14).Format(models.DateLayout)
	}
	from, to, err := s.window(start, end)
	if err != nil {
		return nil, err
	}

	rng := s.rng("greek", filters.Params())
	days := tradingDays(from, to)
	flows := make([]models.GreekFlow, 0, len(days))
	for _, d := range days {
		calls := int64(5_000 + rng.Intn(95_000))
		puts := int64(5_000 + rng.Intn(80_000))
		flows = append(flows, models.GreekFlow{
			Ticker:        filters.Ticker,
			Date:          d.Format(models.DateLayout),
			DeltaFlow:     roundTo(rng.NormFloat64()*4_000_000, 1_000),
			GammaFlow:     roundTo(rng.NormFloat64()*250_000, 100),
			VegaFlow:      roundTo(rng.NormFloat64()*1_500_000, 1_000),
			ThetaFlow:     roundTo(-rng.Float64()*600_000, 100),
			CallVolume:    calls,
			PutVolume:     puts,
			TotalPremium:  roundTo(float64(calls+puts)*(80+rng.Float64()*220), 1_000),
			OTMPercentage: math.Round((35+rng.Float64()*50)*10) / 10,
		})
	}
	return flows, nil
}

// GreekDescriptions returns tooltip text per Greek metric
func (s *Service) GreekDescriptions() map[string]string {
	return copyMap(greekDescriptions)
}

// Earnings returns earnings reports, newest first
func (s *Service) Earnings(ctx context.Context, filters *models.EarningsFilters) ([]models.EarningsReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	from, to, err := s.window(filters.StartDate, filters.EndDate)
	if err != nil {
		return nil, err
	}

	rng := s.rng("earnings", filters.Params())
	reports := []models.EarningsReport{}
	for _, sec := range universe {
		estimate := math.Round((0.5+rng.Float64()*4)*100) / 100
		surprise := math.Round(rng.NormFloat64()*8*10) / 10
		actual := math.Round(estimate*(1+surprise/100)*100) / 100
		report := models.EarningsReport{
			Ticker:             sec.Ticker,
			Company:            sec.Company,
			Sector:             sec.Sector,
			ReportDate:         randomDay(rng, from, to).Format(models.DateLayout),
			EPSEstimate:        estimate,
			EPSActual:          actual,
			SurprisePercent:    surprise,
			PriceChangePercent: math.Round((surprise*0.4+rng.NormFloat64()*3)*10) / 10,
		}

		if filters.Sector != "" && !strings.EqualFold(report.Sector, filters.Sector) {
			continue
		}
		switch filters.SurpriseType {
		case "positive":
			if report.SurprisePercent <= 0 {
				continue
			}
		case "negative":
			if report.SurprisePercent >= 0 {
				continue
			}
		}
		reports = append(reports, report)
	}

	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].ReportDate > reports[j].ReportDate
	})
	return reports, nil
}

// InsiderTrades returns insider transactions, newest first
func (s *Service) InsiderTrades(ctx context.Context, filters *models.InsiderFilters) ([]models.InsiderTrade, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	from, to, err := s.window(filters.StartDate, filters.EndDate)
	if err != nil {
		return nil, err
	}

	rng := s.rng("insider", filters.Params())
	trades := []models.InsiderTrade{}
	for i := 0; i < 40; i++ {
		sec := universe[rng.Intn(len(universe))]
		role := insiderRoles[rng.Intn(len(insiderRoles))]
		tradeType := "sell"
		if rng.Float64() < 0.35 {
			tradeType = "buy"
		}
		shares := int64(500 + rng.Intn(60_000))
		price := math.Round((20+rng.Float64()*480)*100) / 100

		trade := models.InsiderTrade{
			Ticker:      sec.Ticker,
			InsiderName: insiderNames[rng.Intn(len(insiderNames))],
			Role:        role,
			Sector:      sec.Sector,
			TradeType:   tradeType,
			Shares:      shares,
			Price:       price,
			Value:       math.Round(float64(shares)*price*100) / 100,
			Date:        randomDay(rng, from, to).Format(models.DateLayout),
		}

		if filters.Role != "" && !containsFold(trade.Role, filters.Role) {
			continue
		}
		if filters.TradeType != "" && trade.TradeType != filters.TradeType {
			continue
		}
		trades = append(trades, trade)
	}

	sort.SliceStable(trades, func(i, j int) bool {
		return trades[i].Date > trades[j].Date
	})
	return trades, nil
}

// PremiumFlow returns sector premium buckets ordered by time, plus
// lookback statistics of daily net premium.
func (s *Service) PremiumFlow(ctx context.Context, filters *models.PremiumFlowFilters) ([]models.PremiumFlow, models.HistoricalStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, models.HistoricalStats{}, err
	}
	rng := s.rng("premium", filters.Params())

	sectors := sectorNames()
	if filters.Sector != "" {
		sectors = filterSectors(sectors, filters.Sector)
	}

	var buckets []string
	if filters.IsIntraday {
		buckets = intradayBuckets(60)
	} else {
		start := filters.StartDate
		if start == "" {
			start = s.today().AddDate(0, 0, -7).Format(models.DateLayout)
		}
		from, to, err := s.window(start, filters.EndDate)
		if err != nil {
			return nil, models.HistoricalStats{}, err
		}
		for _, d := range tradingDays(from, to) {
			buckets = append(buckets, d.Format(models.DateLayout))
		}
	}

	scale := 1.0
	if filters.IsIntraday {
		scale = 0.2
	}

	flows := make([]models.PremiumFlow, 0, len(buckets)*len(sectors))
	for _, b := range buckets {
		for _, sector := range sectors {
			call := roundTo(rng.Float64()*6_000_000*scale, 1_000)
			put := roundTo(rng.Float64()*5_000_000*scale, 1_000)
			switch filters.OptionType {
			case "call":
				put = 0
			case "put":
				call = 0
			}
			flows = append(flows, models.PremiumFlow{
				Time:        b,
				Sector:      sector,
				CallPremium: call,
				PutPremium:  put,
				NetPremium:  call - put,
			})
		}
	}

	return flows, s.historicalStats(rng, filters.LookbackDays, 2_000_000, 14_000_000), nil
}

// SectorDescriptions returns tooltip text per sector
func (s *Service) SectorDescriptions() map[string]string {
	return copyMap(sectorDescriptions)
}

// MarketTide returns market-wide net flow buckets for one session (minute
// granularity) or one row per trading day, plus lookback statistics.
func (s *Service) MarketTide(ctx context.Context, filters *models.MarketTideFilters) ([]models.MarketTide, models.HistoricalStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, models.HistoricalStats{}, err
	}
	rng := s.rng("tide", filters.Params())

	var buckets []string
	if filters.IsIntraday() {
		step := 1
		if filters.Interval5m {
			step = 5
		}
		buckets = intradayBuckets(step)
	} else {
		to := s.today()
		if filters.Date != "" {
			t, err := time.Parse(models.DateLayout, filters.Date)
			if err != nil {
				return nil, models.HistoricalStats{}, fmt.Errorf("invalid date: %w", err)
			}
			to = t
		}
		for _, d := range tradingDays(to.AddDate(0, 0, -filters.LookbackDays), to) {
			buckets = append(buckets, d.Format(models.DateLayout))
		}
	}

	tides := make([]models.MarketTide, 0, len(buckets))
	var cumCall, cumPut float64
	for _, b := range buckets {
		// cumulative session flow drifts as a random walk
		cumCall += rng.NormFloat64()*150_000 + 20_000
		cumPut += rng.NormFloat64()*150_000 + 15_000
		tides = append(tides, models.MarketTide{
			Time:           b,
			NetCallPremium: roundTo(cumCall, 100),
			NetPutPremium:  roundTo(cumPut, 100),
			NetPremium:     roundTo(cumCall-cumPut, 100),
			Volume:         int64(1_000 + rng.Intn(25_000)),
		})
	}

	return tides, s.historicalStats(rng, filters.LookbackDays, 5_000_000, 30_000_000), nil
}

// historicalStats draws lookbackDays daily totals in [low, high) and summarises them.
func (s *Service) historicalStats(rng *rand.Rand, lookbackDays int, low, high float64) models.HistoricalStats {
	if lookbackDays <= 0 {
		lookbackDays = defaultWindowDays
	}
	stats := models.HistoricalStats{LookbackDays: lookbackDays, Low: math.Inf(1)}
	today := s.today()

	var sum float64
	for i := 1; i <= lookbackDays; i++ {
		v := roundTo(low+rng.Float64()*(high-low), 1_000)
		sum += v
		if v > stats.High {
			stats.High = v
			stats.HighDate = today.AddDate(0, 0, -i).Format(models.DateLayout)
		}
		if v < stats.Low {
			stats.Low = v
		}
	}
	stats.Average = roundTo(sum/float64(lookbackDays), 1_000)
	return stats
}

// intradayBuckets lists "HH:MM" times from 09:30 through 16:00 every step minutes.
func intradayBuckets(step int) []string {
	buckets := []string{}
	for m := 9*60 + 30; m <= 16*60; m += step {
		buckets = append(buckets, fmt.Sprintf("%02d:%02d", m/60, m%60))
	}
	return buckets
}

func securityFor(ticker string) security {
	for _, sec := range universe {
		if sec.Ticker == ticker {
			return sec
		}
	}
	return security{Ticker: ticker, Company: ticker, Sector: "Other"}
}

func filterSectors(sectors []string, query string) []string {
	out := []string{}
	for _, s := range sectors {
		if containsFold(s, query) {
			out = append(out, s)
		}
	}
	return out
}

func copyMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
