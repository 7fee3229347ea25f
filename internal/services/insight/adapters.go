package insight

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ternarybob/lukz/internal/models"
)

// Request bundles everything SynthesizeInsight needs for one domain call.
type Request struct {
	Domain  Domain
	Filters map[string]string
	Dataset Dataset
	Context Context
}

// CongressRequest highlights the largest transaction with its member and the
// sector with the largest net flow.
func CongressRequest(trades []models.CongressTrade, filters *models.CongressFilters) Request {
	ictx := Context{
		DataType:  "Congress trades",
		TimeRange: timeRange(filters.StartDate, filters.EndDate),
		ViewType:  "member transactions",
	}
	ds := Dataset{Records: trades}

	if len(trades) > 0 {
		largest := trades[0]
		var total float64
		sectors := map[string]float64{}
		for _, t := range trades {
			if t.Amount > largest.Amount {
				largest = t
			}
			total += t.Amount
			sectors[t.Sector] += signed(t.Amount, t.TransactionType == "buy")
		}
		ds.HistoricalHigh = Float64(largest.Amount)

		ictx.RequiredPhrases.CurrentMetrics = fmt.Sprintf("Largest transaction: %s %s %s by %s",
			FormatMillions(largest.Amount), largest.Ticker, tradeNoun(largest.TransactionType), largest.Member)
		if sector, net, ok := leadingByMagnitude(sectors); ok {
			ictx.RequiredPhrases.SectorLead = fmt.Sprintf("%s sector leads with %s net %s",
				sector, FormatMillions(math.Abs(net)), direction(net, "buying", "selling"))
		}
		ictx.HistoricalContext = fmt.Sprintf("%d trades totaling %s", len(trades), FormatMillions(total))
	}

	ictx.AdditionalContext = describeFilters(map[string]string{
		"ticker": filters.Ticker,
		"member": filters.Member,
	})

	return Request{Domain: DomainCongressTrades, Filters: filters.Params(), Dataset: ds, Context: ictx}
}

// GreekFlowRequest highlights the strongest delta flow and net vega exposure.
func GreekFlowRequest(flows []models.GreekFlow, filters *models.GreekFlowFilters) Request {
	ictx := Context{
		DataType:          "options Greek flow",
		TimeRange:         timeRange(filters.StartDate, filters.EndDate),
		ViewType:          "daily Greek exposure",
		AdditionalContext: "Ticker: " + filters.Ticker,
	}
	ds := Dataset{Records: flows}

	if len(flows) > 0 {
		strongest := flows[0]
		high := flows[0].TotalPremium
		var netVega float64
		var calls, puts int64
		for _, f := range flows {
			if math.Abs(f.DeltaFlow) > math.Abs(strongest.DeltaFlow) {
				strongest = f
			}
			if f.TotalPremium > high {
				high = f.TotalPremium
			}
			netVega += f.VegaFlow
			calls += f.CallVolume
			puts += f.PutVolume
		}
		ds.HistoricalHigh = Float64(high)

		ictx.RequiredPhrases.CurrentMetrics = fmt.Sprintf("%s %s delta flow of %s on %s",
			strongest.Ticker, direction(strongest.DeltaFlow, "bullish", "bearish"),
			FormatMillions(math.Abs(strongest.DeltaFlow)), strongest.Date)
		ictx.RequiredPhrases.NetPremium = fmt.Sprintf("Net vega exposure of %s %s",
			FormatMillions(math.Abs(netVega)), direction(netVega, "long", "short"))
		if total := calls + puts; total > 0 {
			ictx.HistoricalContext = fmt.Sprintf("%d sessions, call share %s of %d contracts",
				len(flows), FormatPercent(float64(calls)/float64(total)), total)
		}
	}

	return Request{Domain: DomainGreekFlow, Filters: filters.Params(), Dataset: ds, Context: ictx}
}

// EarningsRequest highlights the beat rate and the sector with the best
// average surprise.
func EarningsRequest(reports []models.EarningsReport, filters *models.EarningsFilters) Request {
	ictx := Context{
		DataType:  "earnings reports",
		TimeRange: timeRange(filters.StartDate, filters.EndDate),
		ViewType:  "earnings surprise",
	}
	ds := Dataset{Records: reports}

	if len(reports) > 0 {
		beats := 0
		var surprise, move float64
		sectorSum := map[string]float64{}
		sectorCount := map[string]int{}
		for _, r := range reports {
			if r.SurprisePercent > 0 {
				beats++
			}
			surprise += r.SurprisePercent
			move += r.PriceChangePercent
			sectorSum[r.Sector] += r.SurprisePercent
			sectorCount[r.Sector]++
		}
		n := float64(len(reports))

		ictx.RequiredPhrases.CurrentMetrics = fmt.Sprintf("%d of %d reports beat estimates (%s) with %s%% average surprise",
			beats, len(reports), FormatPercent(float64(beats)/n), fixedOne(surprise/n))

		averages := make(map[string]float64, len(sectorSum))
		for sector, sum := range sectorSum {
			averages[sector] = sum / float64(sectorCount[sector])
		}
		if sector, avg, ok := leading(averages); ok {
			ictx.RequiredPhrases.SectorLead = fmt.Sprintf("%s sector leads with %s%% average surprise", sector, fixedOne(avg))
		}
		ictx.HistoricalContext = fmt.Sprintf("Average post-earnings price move %s%%", fixedOne(move/n))
	}

	ictx.AdditionalContext = describeFilters(map[string]string{
		"sector":        filters.Sector,
		"surprise_type": filters.SurpriseType,
	})

	return Request{Domain: DomainEarnings, Filters: filters.Params(), Dataset: ds, Context: ictx}
}

// InsiderRequest highlights net activity by role and the most active sector.
func InsiderRequest(trades []models.InsiderTrade, filters *models.InsiderFilters) Request {
	ictx := Context{
		DataType:  "insider trades",
		TimeRange: timeRange(filters.StartDate, filters.EndDate),
		ViewType:  "insider transactions",
	}
	ds := Dataset{Records: trades}

	if len(trades) > 0 {
		largest := trades[0].Value
		roles := map[string]float64{}
		sectors := map[string]float64{}
		for _, t := range trades {
			if t.Value > largest {
				largest = t.Value
			}
			v := signed(t.Value, t.TradeType == "buy")
			roles[t.Role] += v
			sectors[t.Sector] += v
		}
		ds.HistoricalHigh = Float64(largest)

		if role, net, ok := leadingByMagnitude(roles); ok {
			ictx.RequiredPhrases.CurrentMetrics = fmt.Sprintf("%s insiders net %s %s",
				role, direction(net, "buying", "selling"), FormatMillions(math.Abs(net)))
		}
		if sector, net, ok := leadingByMagnitude(sectors); ok {
			ictx.RequiredPhrases.SectorLead = fmt.Sprintf("%s sector leads with %s net insider %s",
				sector, FormatMillions(math.Abs(net)), direction(net, "buying", "selling"))
		}
		ictx.HistoricalContext = fmt.Sprintf("%d insider transactions", len(trades))
	}

	ictx.AdditionalContext = describeFilters(map[string]string{
		"role":       filters.Role,
		"trade_type": filters.TradeType,
	})

	return Request{Domain: DomainInsiderTrading, Filters: filters.Params(), Dataset: ds, Context: ictx}
}

// PremiumFlowRequest ranks sectors by net premium and compares the leader
// with the 30-day high.
func PremiumFlowRequest(flows []models.PremiumFlow, stats models.HistoricalStats, filters *models.PremiumFlowFilters) Request {
	ictx := Context{
		DataType:   "premium flow",
		TimeRange:  timeRange(filters.StartDate, filters.EndDate),
		ViewType:   granularityLabel(filters.IsIntraday),
		IsIntraday: filters.IsIntraday,
		HistoricalContext: fmt.Sprintf("%d-day high %s, average %s, low %s",
			stats.LookbackDays, FormatMillions(stats.High), FormatMillions(stats.Average), FormatMillions(stats.Low)),
	}
	ds := Dataset{Records: flows, HistoricalHigh: Float64(stats.High)}

	if len(flows) > 0 {
		sectors := map[string]float64{}
		for _, f := range flows {
			sectors[f.Sector] += f.NetPremium
		}
		if sector, net, ok := leading(sectors); ok {
			ictx.RequiredPhrases.CurrentMetrics = fmt.Sprintf("%s sector leads with %s net %s premium",
				sector, FormatMillions(math.Abs(net)), direction(net, "call", "put"))
			if stats.High > 0 {
				ictx.RequiredPhrases.SectorLead = fmt.Sprintf("representing %s of 30-day High",
					FormatPercent(math.Abs(net)/stats.High))
			}
		}

		first, last := bucketTotals(flows)
		ictx.RequiredPhrases.NetPremium = fmt.Sprintf("Net premium change of %s", signedMillions(last-first))

		if filters.IsIntraday {
			ictx.LatestTime = flows[len(flows)-1].Time
		}
	}

	ictx.AdditionalContext = describeFilters(map[string]string{
		"option_type": filters.OptionType,
		"sector":      filters.Sector,
	})

	return Request{Domain: DomainPremiumFlow, Filters: filters.Params(), Dataset: ds, Context: ictx}
}

// MarketTideRequest reports the latest bucket and the session's net change.
func MarketTideRequest(tides []models.MarketTide, stats models.HistoricalStats, filters *models.MarketTideFilters) Request {
	intraday := filters.IsIntraday()
	ictx := Context{
		DataType:   "market tide",
		TimeRange:  orDefault(filters.Date, "latest session"),
		ViewType:   granularityLabel(intraday),
		IsIntraday: intraday,
		HistoricalContext: fmt.Sprintf("%d-day high %s, average %s",
			stats.LookbackDays, FormatMillions(stats.High), FormatMillions(stats.Average)),
	}
	if filters.Interval5m {
		ictx.AdditionalContext = "5-minute intervals"
	}
	ds := Dataset{Records: tides, HistoricalHigh: Float64(stats.High)}

	if len(tides) > 0 {
		latest := tides[len(tides)-1]
		ictx.RequiredPhrases.CurrentMetrics = fmt.Sprintf("Latest net premium of %s with %s net call premium",
			signedMillions(latest.NetPremium), FormatMillions(latest.NetCallPremium))
		ictx.RequiredPhrases.NetPremium = fmt.Sprintf("Net premium change of %s",
			signedMillions(latest.NetPremium-tides[0].NetPremium))
		if intraday {
			ictx.LatestTime = latest.Time
		}
	}

	return Request{Domain: DomainMarketTide, Filters: filters.Params(), Dataset: ds, Context: ictx}
}

// bucketTotals sums net premium for the first and last time buckets.
func bucketTotals(flows []models.PremiumFlow) (first, last float64) {
	firstTime, lastTime := flows[0].Time, flows[len(flows)-1].Time
	for _, f := range flows {
		if f.Time == firstTime {
			first += f.NetPremium
		}
		if f.Time == lastTime {
			last += f.NetPremium
		}
	}
	return first, last
}

// leading returns the key with the largest value; ties break alphabetically.
func leading(values map[string]float64) (string, float64, bool) {
	return pick(values, func(v float64) float64 { return v })
}

// leadingByMagnitude returns the key with the largest absolute value.
func leadingByMagnitude(values map[string]float64) (string, float64, bool) {
	return pick(values, math.Abs)
}

func pick(values map[string]float64, score func(float64) float64) (string, float64, bool) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return "", 0, false
	}
	sort.Strings(keys)

	best := keys[0]
	for _, k := range keys[1:] {
		if score(values[k]) > score(values[best]) {
			best = k
		}
	}
	return best, values[best], true
}

func signed(v float64, positive bool) float64 {
	if positive {
		return v
	}
	return -v
}

func signedMillions(v float64) string {
	if v < 0 {
		return "-" + FormatMillions(-v)
	}
	return "+" + FormatMillions(v)
}

func direction(v float64, positive, negative string) string {
	if v < 0 {
		return negative
	}
	return positive
}

func tradeNoun(transactionType string) string {
	if transactionType == "buy" {
		return "purchase"
	}
	return "sale"
}

func granularityLabel(intraday bool) string {
	if intraday {
		return "intraday minute-by-minute"
	}
	return "daily"
}

func timeRange(start, end string) string {
	switch {
	case start != "" && end != "":
		return start + " to " + end
	case start != "":
		return "since " + start
	case end != "":
		return "through " + end
	default:
		return "recent"
	}
}

func describeFilters(filters map[string]string) string {
	keys := make([]string, 0, len(filters))
	for k, v := range filters {
		if v != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+filters[k])
	}
	return strings.Join(parts, ", ")
}
