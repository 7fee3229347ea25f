package insight

import (
	"strings"
	"time"
	_ "time/tzdata" // America/New_York on hosts without zoneinfo

	"github.com/shopspring/decimal"
)

const (
	historicalHighPrefix  = "30-day High: $"
	defaultHistoricalHigh = "30-day High: $0.0M"
	timezoneMarker        = "ET"
	intradayMarker        = "minute-by-minute"
	intradaySuffix        = " showing minute-by-minute momentum"
)

var easternTime = loadEastern()

func loadEastern() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.Local
	}
	return loc
}

// FormatMillions renders a dollar amount as one-decimal millions, e.g. 15200000 -> "$15.2M".
func FormatMillions(amount float64) string {
	return "$" + fixedOne(amount/1_000_000) + "M"
}

// fixedOne formats v with one decimal place the way %.1f does: the exact
// binary value is rounded half to even and a negative sign survives rounding
// to zero.
func fixedOne(v float64) string {
	s := decimal.NewFromFloatWithExponent(v, -64).StringFixedBank(1)
	if v < 0 && !strings.HasPrefix(s, "-") {
		s = "-" + s
	}
	return s
}

// FormatPercent renders a ratio in [0,1] as a whole percentage, e.g. 0.654 -> "65%".
func FormatPercent(ratio float64) string {
	return decimal.NewFromFloat(ratio).Shift(2).Round(0).String() + "%"
}

// HistoricalHighPhrase renders the opening phrase for a numeric high.
func HistoricalHighPhrase(high float64) string {
	return "30-day High: " + FormatMillions(high)
}

func validHistoricalHigh(phrase string) bool {
	return strings.HasPrefix(phrase, historicalHighPrefix)
}

// NormalizeTimestamp appends " ET" unless the value already ends with it.
func NormalizeTimestamp(t string) string {
	t = strings.TrimSpace(t)
	if strings.HasSuffix(t, timezoneMarker) {
		return t
	}
	return t + " " + timezoneMarker
}

// AssemblePhrases builds the ordered required fragments: historical high,
// intraday timestamp, current metrics, sector lead, net premium. The first
// fragment always starts with "30-day High: $". now is only read when the
// context is intraday without a LatestTime.
func AssemblePhrases(dataset Dataset, ictx Context, now time.Time) []string {
	rp := ictx.RequiredPhrases
	phrases := make([]string, 0, 5)

	switch {
	case validHistoricalHigh(rp.HistoricalHigh):
		phrases = append(phrases, rp.HistoricalHigh)
	case dataset.HistoricalHigh != nil:
		phrases = append(phrases, HistoricalHighPhrase(*dataset.HistoricalHigh))
	default:
		phrases = append(phrases, defaultHistoricalHigh)
	}

	if ictx.IsIntraday {
		latest := ictx.LatestTime
		if strings.TrimSpace(latest) == "" {
			latest = now.In(easternTime).Format("15:04")
		}
		phrases = append(phrases, "As of "+NormalizeTimestamp(latest))
	}

	if rp.CurrentMetrics != "" {
		phrases = append(phrases, rp.CurrentMetrics)
	}
	if rp.SectorLead != "" {
		phrases = append(phrases, rp.SectorLead)
	}
	if rp.NetPremium != "" {
		net := rp.NetPremium
		if ictx.IsIntraday && !strings.Contains(net, intradayMarker) {
			net += intradaySuffix
		}
		phrases = append(phrases, net)
	}

	return phrases
}

// FormatTemplate joins phrases with ". " and terminates with a single ".".
func FormatTemplate(phrases []string) string {
	return strings.Join(phrases, ". ") + "."
}
