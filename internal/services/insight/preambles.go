package insight

const congressPreamble = `Analyze Congress member trading activity.
- Quantify every trade above $1M with its exact amount and the member's name
- Rank members by total volume and note buy/sell ratios
- Summarize net flow by sector and any consensus moves across members
The first sentence must state the largest transaction with its dollar amount and member name.
The second sentence must give the sector-level read and a clear trading recommendation.`

const greekFlowPreamble = `Analyze options Greek flow.
- Net directional exposure from delta flow, calls versus puts
- Net vega exposure and OTM versus ITM activity
- Hedging activity or clustering of similar positions
Focus on the single most significant Greek metric and its magnitude, whether positioning
looks directional or volatility driven, and the implied price risk.`

const earningsPreamble = `Analyze earnings reports and the market reaction.
- Average earnings surprise and beat rate by sector
- Post-earnings price moves and how they track the surprise
- Outlier reactions and sector rotation implications
Focus on the strongest sector trend and an actionable earnings trade.`

const insiderTradingPreamble = `Analyze insider trading.
- Net buying or selling by insider role
- Sectors with unusual insider activity
- Transaction sizes against typical activity and timing around events
Focus on the most significant insider pattern and what it implies for investors.`

const premiumFlowPreamble = `Analyze market-wide options premium flow.
- Net premium by sector and the call/put premium ratio
- Current flows against the 30-day range and historical thresholds
- Sector ranking, rotation and concentration
Use minute-by-minute changes for intraday data and daily accumulation otherwise.
State the largest flow with exact amount and timing, compare it to the historical high,
then give the likely catalyst and a trading recommendation.`

const marketTidePreamble = `Analyze market-wide sentiment from net options flow.
- Direction of net call and put premium and volume spikes
- Momentum shifts within the session, or multi-day trend for daily data
- Current flow against 30-day ranges and regime changes
State the largest flow with exact amount and time (for example "$5.2M net call premium at 14:30 ET"),
compare it to historical patterns, then give the catalyst and entry or exit levels.`

// Preamble returns the domain-specific analysis instructions.
func Preamble(domain Domain) string {
	switch domain {
	case DomainCongressTrades:
		return congressPreamble
	case DomainGreekFlow:
		return greekFlowPreamble
	case DomainEarnings:
		return earningsPreamble
	case DomainInsiderTrading:
		return insiderTradingPreamble
	case DomainPremiumFlow:
		return premiumFlowPreamble
	case DomainMarketTide:
		return marketTidePreamble
	default:
		return ""
	}
}
