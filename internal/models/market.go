// Package models provides the record types served by the market data endpoints.
package models

// CongressTrade is a disclosed trade by a member of Congress
type CongressTrade struct {
	ID              string  `json:"id"`
	Member          string  `json:"congress_member"`
	Party           string  `json:"party"`
	Chamber         string  `json:"chamber"`
	Ticker          string  `json:"ticker"`
	Sector          string  `json:"sector"`
	TransactionType string  `json:"transaction_type"` // "buy" or "sell"
	Amount          float64 `json:"amount"`
	TransactionDate string  `json:"transaction_date"`
	DisclosureDate  string  `json:"disclosure_date"`
}

// GreekFlow is one day of aggregated options Greek exposure for a ticker
type GreekFlow struct {
	Ticker        string  `json:"ticker"`
	Date          string  `json:"date"`
	DeltaFlow     float64 `json:"delta_flow"`
	GammaFlow     float64 `json:"gamma_flow"`
	VegaFlow      float64 `json:"vega_flow"`
	ThetaFlow     float64 `json:"theta_flow"`
	CallVolume    int64   `json:"call_volume"`
	PutVolume     int64   `json:"put_volume"`
	TotalPremium  float64 `json:"total_premium"`
	OTMPercentage float64 `json:"otm_percentage"`
}

// EarningsReport is a quarterly earnings release and the market reaction to it
type EarningsReport struct {
	Ticker             string  `json:"ticker"`
	Company            string  `json:"company"`
	Sector             string  `json:"sector"`
	ReportDate         string  `json:"report_date"`
	EPSEstimate        float64 `json:"eps_estimate"`
	EPSActual          float64 `json:"eps_actual"`
	SurprisePercent    float64 `json:"surprise_percent"`
	PriceChangePercent float64 `json:"price_change_percent"`
}

// InsiderTrade is a Form 4 style insider transaction
type InsiderTrade struct {
	Ticker      string  `json:"ticker"`
	InsiderName string  `json:"insider_name"`
	Role        string  `json:"insider_role"`
	Sector      string  `json:"sector"`
	TradeType   string  `json:"trade_type"` // "buy" or "sell"
	Shares      int64   `json:"shares"`
	Price       float64 `json:"price"`
	Value       float64 `json:"value"`
	Date        string  `json:"date"`
}

// PremiumFlow is the options premium traded for a sector within one time bucket
type PremiumFlow struct {
	Time        string  `json:"time"`
	Sector      string  `json:"sector"`
	CallPremium float64 `json:"call_premium"`
	PutPremium  float64 `json:"put_premium"`
	NetPremium  float64 `json:"net_premium"`
}

// MarketTide is market-wide options flow within one time bucket
type MarketTide struct {
	Time           string  `json:"time"`
	NetCallPremium float64 `json:"net_call_premium"`
	NetPutPremium  float64 `json:"net_put_premium"`
	NetPremium     float64 `json:"net_premium"`
	Volume         int64   `json:"volume"`
}

// HistoricalStats summarises a lookback window of premium values
type HistoricalStats struct {
	LookbackDays int     `json:"lookback_days"`
	High         float64 `json:"historical_high"`
	HighDate     string  `json:"historical_high_date"`
	Average      float64 `json:"historical_average"`
	Low          float64 `json:"historical_low"`
}
