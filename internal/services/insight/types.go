// Package insight turns a domain dataset into a short narrative generated by
// an LLM. Phrase assembly and prompt construction are pure and deterministic;
// only generation touches the network. Results are memoized in the insight
// cache under a fingerprint of the request.
package insight

// Domain identifies the data domain an insight is produced for.
type Domain string

const (
	DomainCongressTrades Domain = "congress_trades"
	DomainGreekFlow      Domain = "greek_flow"
	DomainEarnings       Domain = "earnings"
	DomainInsiderTrading Domain = "insider_trading"
	DomainPremiumFlow    Domain = "premium_flow"
	DomainMarketTide     Domain = "market_tide"
)

// Dataset is the snapshot handed to the pipeline. Records is serialized for
// fingerprinting and prompt rendering and is never mutated.
type Dataset struct {
	Records        interface{}
	HistoricalHigh *float64
}

// RequiredPhrases are the literal fragments the insight must reproduce.
// Field order is output order; an empty string means absent.
type RequiredPhrases struct {
	HistoricalHigh string
	CurrentMetrics string
	SectorLead     string
	NetPremium     string
}

// Context carries the per-request metadata built by a domain adapter.
type Context struct {
	DataType          string
	TimeRange         string
	ViewType          string
	HistoricalContext string
	AdditionalContext string
	IsIntraday        bool
	LatestTime        string // optional "HH:MM" or "HH:MM ET"
	RequiredPhrases   RequiredPhrases
}

// Float64 returns a pointer to v, for Dataset.HistoricalHigh.
func Float64(v float64) *float64 {
	return &v
}
